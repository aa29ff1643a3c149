package extsort_test

import (
	"context"
	"fmt"

	extsort "github.com/dapper91/extsort-go"
	"github.com/dapper91/extsort-go/buffer"
	"github.com/dapper91/extsort-go/codec"
)

// ExampleSort sorts a small stream of integers under their natural
// order, spilling to disk in runs of at most two items at a time.
func ExampleSort() {
	builder := buffer.NewCountBuilder[int](2, true)
	s, err := extsort.New[int](builder, codec.NewLengthFramed[int]())
	if err != nil {
		panic(err)
	}
	defer s.Close()

	input := extsort.SliceSource([]int{5, 3, 8, 1, 9, 2})
	merger, err := extsort.Sort(context.Background(), s, input)
	if err != nil {
		panic(err)
	}

	for {
		item, err, ok := merger.Next()
		if err != nil {
			panic(err)
		}
		if !ok {
			break
		}
		fmt.Println(item)
	}

	// Output:
	// 1
	// 2
	// 3
	// 5
	// 8
	// 9
}

// record is a custom item type with no built-in ordering, demonstrating
// Sorter.SortBy with an explicit comparator.
type record struct {
	Priority int
	Label    string
}

// ExampleSorter_SortBy sorts a custom struct type by an explicit field
// comparator instead of T's natural order.
func ExampleSorter_SortBy() {
	builder := buffer.NewCountBuilder[record](4, true)
	s, err := extsort.New[record](builder, codec.NewLengthFramed[record]())
	if err != nil {
		panic(err)
	}
	defer s.Close()

	input := extsort.SliceSource([]record{
		{Priority: 3, Label: "low"},
		{Priority: 1, Label: "urgent"},
		{Priority: 2, Label: "normal"},
	})

	merger, err := s.SortBy(context.Background(), input, func(a, b record) bool {
		return a.Priority < b.Priority
	})
	if err != nil {
		panic(err)
	}

	for {
		item, err, ok := merger.Next()
		if err != nil {
			panic(err)
		}
		if !ok {
			break
		}
		fmt.Println(item.Label)
	}

	// Output:
	// urgent
	// normal
	// low
}

// ExampleSorter_customCodec sorts using the optional S2-compressed codec
// instead of the default length-framed one.
func ExampleSorter_customCodec() {
	builder := buffer.NewCountBuilder[string](2, true)
	s, err := extsort.New[string](builder, codec.NewCompressed[string]())
	if err != nil {
		panic(err)
	}
	defer s.Close()

	input := extsort.SliceSource([]string{"pear", "apple", "banana"})
	merger, err := extsort.Sort(context.Background(), s, input)
	if err != nil {
		panic(err)
	}

	for {
		item, err, ok := merger.Next()
		if err != nil {
			panic(err)
		}
		if !ok {
			break
		}
		fmt.Println(item)
	}

	// Output:
	// apple
	// banana
	// pear
}
