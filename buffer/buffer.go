// Package buffer implements the bounded in-memory accumulator ("chunk
// buffer") that decides when a sort run is full, via a pluggable
// fullness policy.
package buffer

// Buffer is an ordered, bounded accumulator of T. Length only grows
// until the orchestrator drains it via Slice; once drained, a Buffer is
// discarded in favor of a fresh one from the same Builder. Push can
// never fail: over-capacity is prevented by the caller checking Full
// after every Push and rotating the buffer.
type Buffer[T any] interface {
	Push(item T)
	Len() int
	Full() bool
	// Slice exposes the buffered items, in insertion order, as a slice
	// that may be sorted in place.
	Slice() []T
}

// Builder constructs a fresh, empty Buffer for each new run. A custom
// policy need only satisfy Builder/Buffer; the one requirement beyond
// the method set is that Slice returns all and only the items pushed
// since construction, in insertion order.
type Builder[T any] interface {
	Build() Buffer[T]
}
