package codec

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"io"
)

// LengthFramed is the default Codec: each item is gob-encoded into a
// scratch buffer, then written as a varint length prefix followed by the
// encoded bytes. This mirrors the uvarint-framed run format used by
// lanrat/extsort's saveChunks, giving a self-delimiting record boundary
// independent of gob's own framing.
type LengthFramed[T any] struct{}

// NewLengthFramed returns the default length-framed codec for T. T must
// be gob-encodable (exported fields, no channels/funcs).
func NewLengthFramed[T any]() *LengthFramed[T] { return &LengthFramed[T]{} }

// Encode implements Codec.
func (LengthFramed[T]) Encode(w io.Writer, item T) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(item); err != nil {
		return err
	}

	var scratch [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(scratch[:], uint64(buf.Len()))
	if _, err := w.Write(scratch[:n]); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Decode implements Codec.
func (LengthFramed[T]) Decode(r io.Reader) (T, error) {
	var zero T

	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	n, err := binary.ReadUvarint(br)
	if err != nil {
		return zero, err
	}

	raw := make([]byte, n)
	if _, err := io.ReadFull(br, raw); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return zero, err
	}

	var item T
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&item); err != nil {
		return zero, err
	}
	return item, nil
}
