package extsort

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/dapper91/extsort-go/buffer"
	"github.com/dapper91/extsort-go/codec"
	"github.com/dapper91/extsort-go/internal/diskutil"
	"github.com/dapper91/extsort-go/internal/tempdir"
)

// workerPool bounds the goroutines used exclusively for parallel
// in-place sorting of one buffer at a time: its size is fixed once, at
// construction, and sortBuffer starts at most that many goroutines per
// sort.
type workerPool struct {
	size int
}

func newWorkerPool(size int) (*workerPool, error) {
	if size <= 0 {
		return nil, fmt.Errorf("worker pool size must be positive, got %d", size)
	}
	return &workerPool{size: size}, nil
}

// Sorter owns the worker pool and temporary directory for one external
// sort pipeline. Construct with New, drive it with SortBy (or the
// package-level Sort helper for naturally ordered T), and consume the
// returned Merger to completion — or call Merger.Close to abandon it
// early.
type Sorter[T any] struct {
	cfg     config
	pool    *workerPool
	tmp     *tempdir.Dir
	codec   codec.Codec[T]
	builder buffer.Builder[T]
}

// New constructs a Sorter: it builds the worker pool first (surfacing
// ThreadPoolError on failure, before any temp directory exists), then
// creates the temporary directory (surfacing TempDirError on failure).
// builder selects the buffer fullness policy; c selects the run codec.
func New[T any](builder buffer.Builder[T], c codec.Codec[T], opts ...Option) (*Sorter[T], error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	pool, err := newWorkerPool(cfg.threads)
	if err != nil {
		return nil, &ThreadPoolError{Err: err}
	}

	dir, err := tempdir.New(cfg.tmpParent)
	if err != nil {
		return nil, &TempDirError{Err: err}
	}

	return &Sorter[T]{
		cfg:     cfg,
		pool:    pool,
		tmp:     dir,
		codec:   c,
		builder: builder,
	}, nil
}

// Close releases the Sorter's temp directory reference. Call it if
// SortBy was never invoked. An aborted SortBy call has already removed
// the temp directory, so Close is then a no-op. Once SortBy has returned
// a Merger, ownership of the temp directory has already passed to it,
// and Close is a no-op as well — draining or closing the Merger alone is
// sufficient to remove it.
func (s *Sorter[T]) Close() error {
	if s.tmp == nil {
		return nil
	}
	return s.tmp.Release()
}

// Sort sorts input under T's natural ordering. It requires T to satisfy
// cmp.Ordered; types without a built-in order must use Sorter.SortBy
// with an explicit comparator. Go generics can't add this constraint to
// a method on Sorter[T any] directly, so Sort is a package-level
// function taking the Sorter as its first argument.
func Sort[T cmp.Ordered](ctx context.Context, s *Sorter[T], input Source[T]) (*Merger[T], error) {
	return s.SortBy(ctx, input, func(a, b T) bool { return a < b })
}

// SortBy pulls items one at a time from input, accumulates them into the
// active buffer, and seals a run (parallel stable sort, then serial
// codec write) each time the buffer reports full. After input
// exhaustion any non-empty remainder becomes the final run. It returns a
// Merger constructed over all runs under less.
//
// An error from input aborts the sort: already-spilled runs and the temp
// directory are discarded, and InputError is returned. A codec failure
// while sealing a run is surfaced as IOError or SerializeError, with the
// same cleanup.
func (s *Sorter[T]) SortBy(ctx context.Context, input Source[T], less LessFunc[T]) (*Merger[T], error) {
	if s.tmp == nil {
		return nil, fmt.Errorf("extsort: sorter already consumed by a previous SortBy call")
	}

	var runs []Source[T]
	cur := s.builder.Build()

	seal := func() error {
		if cur.Len() == 0 {
			return nil
		}
		if err := s.sortBuffer(ctx, cur, less); err != nil {
			return err
		}
		chunk, err := codec.Build(s.tmp.Path(), cur.Slice(), s.codec, s.cfg.ioBufSize)
		if err != nil {
			return mapCodecError(err)
		}
		s.cfg.logger.Debugf("sealed run %d (%d items)", len(runs), cur.Len())
		runs = append(runs, chunk)
		cur = s.builder.Build()
		return nil
	}

	for {
		item, err, ok := input.Next()
		if err != nil {
			s.abort(runs)
			return nil, &InputError{Err: err}
		}
		if !ok {
			break
		}
		cur.Push(item)
		if cur.Full() {
			if err := seal(); err != nil {
				s.abort(runs)
				return nil, err
			}
		}
	}

	if err := seal(); err != nil {
		s.abort(runs)
		return nil, err
	}

	if usage, err := diskutil.Usage(s.tmp.Path()); err == nil {
		s.cfg.logger.Debugf("spilled %d bytes across %d runs", usage, len(runs))
	}

	// Ownership of the temp directory passes to the Merger here: no
	// Acquire, since the Sorter's own reference is the one being handed
	// off, not a second one on top of it. Draining the Merger alone is
	// then enough to remove the directory, with no further action
	// required from the Sorter.
	m := newMerger(runs, less, s.tmp)
	s.tmp = nil
	return m, nil
}

// abort discards every already-spilled run and the temp directory after
// an unrecoverable error, aggregating any cleanup failures rather than
// swallowing them.
func (s *Sorter[T]) abort(runs []Source[T]) {
	var result *multierror.Error
	for _, r := range runs {
		if c, ok := r.(io.Closer); ok {
			if err := c.Close(); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}
	if err := s.tmp.Release(); err != nil {
		result = multierror.Append(result, err)
	}
	s.tmp = nil
	if result.ErrorOrNil() != nil {
		s.cfg.logger.Debugf("cleanup after abort: %v", result)
	}
}

func mapCodecError(err error) error {
	var ioErr *codec.IOErr
	if errors.As(err, &ioErr) {
		return &IOError{Err: ioErr.Err}
	}
	var serErr *codec.SerializeErr
	if errors.As(err, &serErr) {
		return &SerializeError{Err: serErr.Err}
	}
	return &IOError{Err: err}
}

// sortBuffer performs a stable sort of buf's backing slice, fanning out
// across the Sorter's worker pool: the slice is split into contiguous
// segments, each sorted concurrently via errgroup, then merged back
// together serially with a tie-break that favors the earlier segment so
// the overall sort remains stable.
func (s *Sorter[T]) sortBuffer(ctx context.Context, buf buffer.Buffer[T], less LessFunc[T]) error {
	data := buf.Slice()
	n := len(data)
	if n < 2 {
		return nil
	}

	workers := s.pool.size
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	if workers == 1 {
		slices.SortStableFunc(data, func(a, b T) int { return cmpFromLess(less, a, b) })
		return nil
	}

	type segment struct{ lo, hi int }
	segSize := (n + workers - 1) / workers
	segments := make([]segment, 0, workers)
	for lo := 0; lo < n; lo += segSize {
		hi := lo + segSize
		if hi > n {
			hi = n
		}
		segments = append(segments, segment{lo, hi})
	}

	g, _ := errgroup.WithContext(ctx)
	for _, seg := range segments {
		seg := seg
		g.Go(func() error {
			slices.SortStableFunc(data[seg.lo:seg.hi], func(a, b T) int { return cmpFromLess(less, a, b) })
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	merged := make([]T, 0, n)
	heads := make([]int, len(segments))
	for {
		best := -1
		for i, seg := range segments {
			pos := seg.lo + heads[i]
			if pos >= seg.hi {
				continue
			}
			if best == -1 {
				best = i
				continue
			}
			bestPos := segments[best].lo + heads[best]
			if less(data[pos], data[bestPos]) {
				best = i
			}
		}
		if best == -1 {
			break
		}
		pos := segments[best].lo + heads[best]
		merged = append(merged, data[pos])
		heads[best]++
	}
	copy(data, merged)
	return nil
}
