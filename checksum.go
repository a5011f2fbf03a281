package packd

import (
	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/crc32"
)

type checksum[T any, S comparable] struct {
	sum   Codec[S]
	fn    func([]byte) S
	inner Codec[T]
}

// Checksum guards inner with a digest of its encoded bytes: [sum][inner].
// Decoding verifies the digest over exactly the bytes inner consumed and
// fails with a *ChecksumError on mismatch.
func Checksum[T any, S comparable](sum Codec[S], fn func([]byte) S, inner Codec[T]) Codec[T] {
	return checksum[T, S]{sum: sum, fn: fn, inner: inner}
}

// CRC32 is Checksum with a little-endian IEEE CRC-32.
func CRC32[T any](inner Codec[T]) Codec[T] {
	return Checksum(U32LE, crc32.ChecksumIEEE, inner)
}

// XXHash64 is Checksum with a little-endian 64-bit xxHash.
func XXHash64[T any](inner Codec[T]) Codec[T] {
	return Checksum(U64LE, xxhash.Sum64, inner)
}

func (c checksum[T, S]) Decode(r *Reader) (T, error) {
	var zero T
	stored, err := c.sum.Decode(r)
	if err != nil {
		return zero, err
	}
	start := r.Pos()
	rest := r.Rest()
	v, err := c.inner.Decode(r)
	if err != nil {
		return zero, err
	}
	if got := c.fn(rest[:r.Pos()-start]); got != stored {
		return zero, &ChecksumError{Offset: start, Stored: stored, Computed: got}
	}
	return v, nil
}

func (c checksum[T, S]) Encode(w *Writer, v T) error {
	body := NewWriter(w.opts)
	if err := c.inner.Encode(body, v); err != nil {
		return err
	}
	mark := w.Len()
	if err := c.sum.Encode(w, c.fn(body.Bytes())); err != nil {
		return err
	}
	if _, err := body.WriteTo(w); err != nil {
		w.Truncate(mark)
		return err
	}
	return nil
}
