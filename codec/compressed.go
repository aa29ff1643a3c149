package codec

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"io"

	"github.com/klauspost/compress/s2"
)

// Compressed wraps gob encoding with S2 block compression, trading CPU
// for smaller spill files. Each item is gob-encoded, S2-compressed as a
// single block, then written length-prefixed, mirroring LengthFramed's
// framing so the two can share the same Chunk reader plumbing.
type Compressed[T any] struct{}

// NewCompressed returns a compressed codec for T. T must be
// gob-encodable.
func NewCompressed[T any]() *Compressed[T] { return &Compressed[T]{} }

// Encode implements Codec.
func (Compressed[T]) Encode(w io.Writer, item T) error {
	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(item); err != nil {
		return err
	}

	compressed := s2.Encode(nil, raw.Bytes())

	var scratch [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(scratch[:], uint64(len(compressed)))
	if _, err := w.Write(scratch[:n]); err != nil {
		return err
	}
	_, err := w.Write(compressed)
	return err
}

// Decode implements Codec.
func (Compressed[T]) Decode(r io.Reader) (T, error) {
	var zero T

	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	n, err := binary.ReadUvarint(br)
	if err != nil {
		return zero, err
	}

	compressed := make([]byte, n)
	if _, err := io.ReadFull(br, compressed); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return zero, err
	}

	raw, err := s2.Decode(nil, compressed)
	if err != nil {
		return zero, err
	}

	var item T
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&item); err != nil {
		return zero, err
	}
	return item, nil
}
