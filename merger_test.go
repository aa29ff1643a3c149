package extsort

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"

	"github.com/dapper91/extsort-go/internal/tempdir"
)

func lessInt(a, b int) bool { return a < b }

func drainMerger[T any](t *testing.T, m *Merger[T]) ([]T, []error) {
	t.Helper()
	var items []T
	var errs []error
	for {
		item, err, ok := m.Next()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !ok {
			break
		}
		items = append(items, item)
	}
	return items, errs
}

func newTestTempDir(t *testing.T) *tempdir.Dir {
	t.Helper()
	d, err := tempdir.New(t.TempDir())
	assert.NilError(t, err)
	return d
}

func TestMerger_KWayMergeOfSortedRuns(t *testing.T) {
	runs := []Source[int]{
		SliceSource([]int{4, 5, 7}),
		SliceSource([]int{1, 6}),
		SliceSource([]int{3}),
		SliceSource[int](nil),
	}

	m := newMerger(runs, lessInt, newTestTempDir(t))
	got, errs := drainMerger(t, m)

	assert.Equal(t, len(errs), 0)
	if diff := cmp.Diff([]int{1, 3, 4, 5, 6, 7}, got); diff != "" {
		t.Errorf("merge mismatch (-want +got):\n%s", diff)
	}
}

func TestMerger_EmptyRunSetEndsImmediately(t *testing.T) {
	m := newMerger([]Source[int]{}, lessInt, newTestTempDir(t))
	_, err, ok := m.Next()
	assert.NilError(t, err)
	assert.Equal(t, ok, false)
}

func TestMerger_TieBreaksBySmallerRunIndex(t *testing.T) {
	runs := []Source[int]{
		SliceSource([]int{1, 1}),
		SliceSource([]int{1}),
	}
	// Tag each source's items with their run index via a wrapper so we
	// can observe which run an equal item came from.
	type tagged struct {
		val int
		run int
	}
	tag := func(run int, src Source[int]) Source[tagged] {
		return FuncSource[tagged](func() (tagged, error, bool) {
			v, err, ok := src.Next()
			return tagged{val: v, run: run}, err, ok
		})
	}
	tagged0 := tag(0, runs[0])
	tagged1 := tag(1, runs[1])

	m := newMerger([]Source[tagged]{tagged0, tagged1}, func(a, b tagged) bool { return a.val < b.val }, newTestTempDir(t))
	got, _ := drainMerger(t, m)

	if len(got) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got))
	}
	// among the two run-0 items and one run-1 item (all value 1), run 0's
	// items must both precede run 1's.
	assert.Equal(t, got[0].run, 0)
	assert.Equal(t, got[1].run, 0)
	assert.Equal(t, got[2].run, 1)
}

func TestMerger_ErrorFromRunSurfacesAfterItsMinima(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	erroring := FuncSource[int](func() (int, error, bool) {
		calls++
		switch calls {
		case 1:
			return 1, nil, true
		case 2:
			return 2, nil, true
		default:
			return 0, boom, false
		}
	})
	clean := SliceSource([]int{0})

	m := newMerger([]Source[int]{erroring, clean}, lessInt, newTestTempDir(t))

	item, err, ok := m.Next()
	assert.NilError(t, err)
	assert.Equal(t, ok, true)
	assert.Equal(t, item, 0) // clean run's single item sorts first

	item, err, ok = m.Next()
	assert.NilError(t, err)
	assert.Equal(t, ok, true)
	assert.Equal(t, item, 1)

	item, err, ok = m.Next()
	assert.NilError(t, err)
	assert.Equal(t, ok, true)
	assert.Equal(t, item, 2)

	_, err, ok = m.Next()
	assert.Equal(t, ok, false)
	assert.ErrorIs(t, err, boom)

	_, err, ok = m.Next()
	assert.NilError(t, err)
	assert.Equal(t, ok, false)
}

func TestMerger_CloseIsIdempotentAndAutomaticOnExhaustion(t *testing.T) {
	m := newMerger([]Source[int]{SliceSource([]int{1})}, lessInt, newTestTempDir(t))

	_, err, ok := m.Next()
	assert.NilError(t, err)
	assert.Equal(t, ok, true)

	_, err, ok = m.Next() // triggers internal Close
	assert.NilError(t, err)
	assert.Equal(t, ok, false)

	assert.NilError(t, m.Close()) // idempotent
}
