package codec

import (
	"bufio"
	"io"
	"os"
)

// Chunk is a finite, file-backed sequence of T produced by Build and read
// strictly once, sequentially, to exhaustion. The reader chain is a
// buffered reader over the file, bounded by a LimitedReader to exactly
// the bytes written, with a second buffered reader on top of that bound
// so the decoder gets ReadByte support without losing read-ahead state
// between calls.
type Chunk[T any] struct {
	codec   Codec[T]
	limited *io.LimitedReader
	reader  *bufio.Reader
	file    *os.File
	closed  bool
}

// Build creates a fresh, uniquely named file inside dir (removed again
// if Build fails, otherwise left for the owning temp directory to
// remove), serializes every
// element of items into it in order using codec, then rewinds it and
// returns a Chunk bounded to exactly the bytes written. ioBufSize
// configures the buffered writer and reader sizes; zero or negative
// selects DefaultIOBufferSize.
func Build[T any](dir string, items []T, c Codec[T], ioBufSize int) (_ *Chunk[T], err error) {
	if ioBufSize <= 0 {
		ioBufSize = DefaultIOBufferSize
	}

	f, ferr := os.CreateTemp(dir, "run-*.chunk")
	if ferr != nil {
		return nil, &IOErr{Err: ferr}
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	w := bufio.NewWriterSize(f, ioBufSize)
	for _, item := range items {
		if encErr := c.Encode(w, item); encErr != nil {
			return nil, &SerializeErr{Err: encErr}
		}
	}
	if flushErr := w.Flush(); flushErr != nil {
		return nil, &IOErr{Err: flushErr}
	}

	length, seekErr := f.Seek(0, io.SeekCurrent)
	if seekErr != nil {
		return nil, &IOErr{Err: seekErr}
	}
	if _, seekErr := f.Seek(0, io.SeekStart); seekErr != nil {
		return nil, &IOErr{Err: seekErr}
	}

	fileReader := bufio.NewReaderSize(f, ioBufSize)
	limited := &io.LimitedReader{R: fileReader, N: length}
	return &Chunk[T]{
		codec:   c,
		limited: limited,
		reader:  bufio.NewReaderSize(limited, ioBufSize),
		file:    f,
	}, nil
}

// Next returns the next decoded item, an I/O or decode error, or
// (zero, nil, false) once exactly the recorded byte length has been
// consumed. Exhaustion is detected from the io.EOF the reader chain
// itself produces once limited.N is spent, not from checking limited.N
// directly, since the buffered reader between limited and the decoder
// may have already pulled ahead bytes the decoder has not consumed yet.
func (c *Chunk[T]) Next() (T, error, bool) {
	var zero T

	item, err := c.codec.Decode(c.reader)
	if err != nil {
		if err == io.EOF {
			return zero, nil, false
		}
		return zero, &DeserializeErr{Err: err}, false
	}
	return item, nil, true
}

// Close releases the Chunk's file descriptor. It does not remove the
// underlying file; that is the owning temp directory's responsibility.
func (c *Chunk[T]) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.file.Close()
}
