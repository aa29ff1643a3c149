// Package tempdir implements a reference-counted temporary directory.
// The orchestrator that creates it hands its reference off to the
// merger it eventually produces, so the directory is removed exactly
// once the merger releases it, whether by draining to exhaustion or by
// an explicit early Close.
package tempdir

import (
	"os"
)

// Dir is a freshly created temporary directory with reference-counted
// ownership. The directory and everything in it is removed recursively
// when the last owner releases it.
type Dir struct {
	path string
	refs int32
}

// New creates a fresh temporary directory under parent (OS default temp
// location if parent is empty) with one initial owner reference.
func New(parent string) (*Dir, error) {
	path, err := os.MkdirTemp(parent, "extsort-")
	if err != nil {
		return nil, err
	}
	return &Dir{path: path, refs: 1}, nil
}

// Path returns the directory's filesystem path.
func (d *Dir) Path() string { return d.path }

// Acquire adds an owner reference. Transferring sole ownership (the
// common case) does not need it: only hand this out when a second,
// independent owner genuinely needs to outlive the first.
func (d *Dir) Acquire() {
	d.refs++
}

// Release drops an owner reference. Once the last reference is released,
// the directory and every run file in it are removed recursively.
func (d *Dir) Release() error {
	d.refs--
	if d.refs > 0 {
		return nil
	}
	return os.RemoveAll(d.path)
}

// CreateFile creates a fresh, uniquely named file inside the directory
// matching pattern (as os.CreateTemp).
func (d *Dir) CreateFile(pattern string) (*os.File, error) {
	return os.CreateTemp(d.path, pattern)
}
