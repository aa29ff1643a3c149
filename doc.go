// Package extsort implements a two-pass external merge sort: bounded
// in-memory runs are accumulated, sorted in parallel, and spilled to a
// temporary directory, then streamed back out through a k-way heap merge
// under a caller-supplied total order.
//
// The package does not parse or format items. Callers hand it an
// already-typed, possibly fallible input sequence (a Source[T]) and pull a
// globally sorted Source[T] back out through Sort or Sorter.SortBy. Framing
// and on-disk encoding live in the codec subpackage; buffer fullness
// policies live in the buffer subpackage.
package extsort
