package extsort

import (
	"errors"
	"runtime"

	"github.com/dapper91/extsort-go/codec"
)

// Sentinel errors returned by Option validation, in the style of
// kalbasit-fastcdc's functional-options config.
var (
	ErrInvalidThreads      = errors.New("extsort: threads must be positive")
	ErrInvalidIOBufferSize = errors.New("extsort: io buffer size must be positive")
)

type config struct {
	threads   int
	tmpParent string
	ioBufSize int
	logger    Logger
}

func defaultConfig() config {
	return config{
		threads:   runtime.GOMAXPROCS(0),
		ioBufSize: codec.DefaultIOBufferSize,
		logger:    nopLogger{},
	}
}

func (c *config) validate() error {
	if c.threads <= 0 {
		return ErrInvalidThreads
	}
	if c.ioBufSize <= 0 {
		return ErrInvalidIOBufferSize
	}
	return nil
}

// Option configures a Sorter at construction time.
type Option func(*config) error

// WithThreads sets the size of the worker pool used for parallel
// in-place sorting of a single buffer at a time. If never supplied, the
// default is hardware parallelism (runtime.GOMAXPROCS(0)).
func WithThreads(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return ErrInvalidThreads
		}
		c.threads = n
		return nil
	}
}

// WithTempDir sets the parent directory under which the sorter creates
// its own fresh temporary subdirectory. If never supplied, the OS
// default temp location is used.
func WithTempDir(path string) Option {
	return func(c *config) error {
		c.tmpParent = path
		return nil
	}
}

// WithIOBufferSize sets the buffered I/O size used by the codec when
// writing and reading runs.
func WithIOBufferSize(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return ErrInvalidIOBufferSize
		}
		c.ioBufSize = n
		return nil
	}
}

// WithLogger installs a Logger that receives debug-level progress
// messages from the orchestrator. Unset, all logging is a no-op.
func WithLogger(l Logger) Option {
	return func(c *config) error {
		if l != nil {
			c.logger = l
		}
		return nil
	}
}
