package buffer

import "github.com/shirou/gopsutil/v3/mem"

// Sized is implemented by item types used with a memory-limited Builder;
// it stands in for the "deep size" oracle of the Rust reference, since Go
// has no reflective object-graph sizer in the standard library.
type Sized interface {
	Size() int
}

// memoryBuffer is full once the running sum of per-item sizes reaches
// limit. The running size is only updated on Push, so exceeding the
// limit by at most one item is possible; fullness is checked after the
// push that crossed it, never before.
type memoryBuffer[T Sized] struct {
	limit int64
	size  int64
	items []T
}

func (b *memoryBuffer[T]) Push(item T) {
	b.items = append(b.items, item)
	b.size += int64(item.Size())
}
func (b *memoryBuffer[T]) Len() int   { return len(b.items) }
func (b *memoryBuffer[T]) Full() bool { return b.size >= b.limit }
func (b *memoryBuffer[T]) Slice() []T { return b.items }

type memoryBuilder[T Sized] struct {
	limit int64
}

// NewMemoryBuilder returns a Builder whose buffers report Full once the
// sum of Size() across pushed items reaches limitBytes.
func NewMemoryBuilder[T Sized](limitBytes int64) Builder[T] {
	return &memoryBuilder[T]{limit: limitBytes}
}

func (b *memoryBuilder[T]) Build() Buffer[T] {
	return &memoryBuffer[T]{limit: b.limit}
}

// defaultMemoryFraction is applied against available system memory when
// the caller doesn't supply an explicit byte limit.
const defaultMemoryFraction = 0.25

// fallbackMemoryLimit is used when host memory stats can't be read.
const fallbackMemoryLimit = 256 * 1024 * 1024

// DefaultMemoryLimit derives a byte budget for a memory-limited buffer
// from a fraction of currently available system memory, querying the
// host through gopsutil. It falls back to a conservative constant if the
// host's memory stats are unavailable (e.g. inside some containers).
func DefaultMemoryLimit() int64 {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return fallbackMemoryLimit
	}
	limit := int64(float64(vm.Available) * defaultMemoryFraction)
	if limit <= 0 {
		return fallbackMemoryLimit
	}
	return limit
}
