package extsort

import (
	"io"

	"github.com/hashicorp/go-multierror"

	"github.com/dapper91/extsort-go/internal/pqueue"
	"github.com/dapper91/extsort-go/internal/tempdir"
)

// mergeEntry pairs a pulled item with the index of the run it came from,
// so ties can be broken by ascending run index.
type mergeEntry[T any] struct {
	item T
	src  int
}

// Merger performs a k-way streaming merge of already-sorted Sources into
// one globally ordered Source, breaking ties on equal items by the
// smaller source index. Combined with a stable per-run sort and runs
// created in input order, this yields an externally stable sort.
//
// Merger owns the temp directory handle and the run sources handed to it
// by Sort/SortBy; Close (called automatically once iteration is fully
// drained, or explicitly to cancel early) releases both.
type Merger[T any] struct {
	sources []Source[T]
	less    LessFunc[T]
	tmp     *tempdir.Dir

	pq          *pqueue.Queue[mergeEntry[T]]
	started     bool
	closed      bool
	pendingErrs []error
}

func newMerger[T any](sources []Source[T], less LessFunc[T], tmp *tempdir.Dir) *Merger[T] {
	return &Merger[T]{sources: sources, less: less, tmp: tmp}
}

func (m *Merger[T]) heapLess(a, b mergeEntry[T]) bool {
	if m.less(a.item, b.item) {
		return true
	}
	if m.less(b.item, a.item) {
		return false
	}
	return a.src < b.src
}

// Next returns the next item in non-decreasing order across all runs.
// An error returned from a run during initialization or replenishment is
// queued and surfaced on its own Next call — immediately after the last
// item successfully pulled from that run, never dropped and never mixed
// into the same call as an item. Once all runs are exhausted and every
// queued error has been surfaced, Next closes the merger and returns
// (zero, nil, false) on every subsequent call.
func (m *Merger[T]) Next() (T, error, bool) {
	var zero T

	if m.closed {
		return zero, nil, false
	}

	if len(m.pendingErrs) > 0 {
		err := m.pendingErrs[0]
		m.pendingErrs = m.pendingErrs[1:]
		return zero, err, false
	}

	if !m.started {
		m.started = true
		m.pq = pqueue.New(m.heapLess)
		for idx, src := range m.sources {
			item, err, ok := src.Next()
			if err != nil {
				m.pendingErrs = append(m.pendingErrs, err)
				continue
			}
			if ok {
				m.pq.Push(mergeEntry[T]{item: item, src: idx})
			}
		}
		if len(m.pendingErrs) > 0 {
			err := m.pendingErrs[0]
			m.pendingErrs = m.pendingErrs[1:]
			return zero, err, false
		}
	}

	if m.pq.Len() == 0 {
		m.Close()
		return zero, nil, false
	}

	top := m.pq.Pop()

	nextItem, err, ok := m.sources[top.src].Next()
	if err != nil {
		m.pendingErrs = append(m.pendingErrs, err)
	} else if ok {
		m.pq.Push(mergeEntry[T]{item: nextItem, src: top.src})
	}

	return top.item, nil, true
}

// Close releases every run's file descriptor and, once released by every
// owner, the temp directory itself. It is idempotent and safe to call
// whether or not iteration finished; calling it early cancels further
// reads from any still-open run.
func (m *Merger[T]) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true

	var result *multierror.Error
	for _, src := range m.sources {
		if c, ok := src.(io.Closer); ok {
			if err := c.Close(); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}
	if err := m.tmp.Release(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}
