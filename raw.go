package packd

import (
	"bytes"
	"fmt"

	"golang.org/x/exp/constraints"

	"github.com/unkn0wn-root/packd/conv"
)

type rawBytes struct {
	owned bool
}

// Bytes passes the rest of the input through verbatim. Decoding is
// zero-copy: the result aliases the input buffer. Encoding writes the slice
// with no length or framing.
func Bytes() Codec[[]byte] { return rawBytes{} }

// OwnedBytes is Bytes with a copied result, for values that must outlive
// the input buffer.
func OwnedBytes() Codec[[]byte] { return rawBytes{owned: true} }

func (c rawBytes) Decode(r *Reader) ([]byte, error) {
	b, _ := r.Next(r.Len())
	if c.owned {
		return bytes.Clone(b), nil
	}
	return b, nil
}

func (rawBytes) Encode(w *Writer, v []byte) error {
	_, err := w.Write(v)
	return err
}

type fixedBytes struct {
	n int
}

// FixedBytes is exactly n raw bytes, borrowed from the input on decode.
// Encoding a slice of any other length is a *LengthError.
func FixedBytes(n int) Codec[[]byte] {
	if n < 0 {
		panic(fmt.Sprintf("packd: negative byte length %d", n))
	}
	return fixedBytes{n: n}
}

func (c fixedBytes) Decode(r *Reader) ([]byte, error) {
	return r.Next(c.n)
}

func (c fixedBytes) Encode(w *Writer, v []byte) error {
	if len(v) != c.n {
		return &LengthError{Offset: w.Len(), Unit: UnitBytes, Got: len(v), Want: c.n}
	}
	_, err := w.Write(v)
	return err
}

func (c fixedBytes) Size() int { return c.n }

type padded struct {
	n   int
	pad byte
}

// Padded is a fixed-width field of n bytes whose value is right-padded with
// pad (typically 0 for C-style names). Decoding trims trailing pad bytes and
// returns an owned copy; encoding pads short values and rejects long ones.
// The round trip is byte-exact as long as the stored padding is all pad.
func Padded(n int, pad byte) Codec[[]byte] {
	if n < 0 {
		panic(fmt.Sprintf("packd: negative byte length %d", n))
	}
	return padded{n: n, pad: pad}
}

func (c padded) Decode(r *Reader) ([]byte, error) {
	b, err := r.Next(c.n)
	if err != nil {
		return nil, err
	}
	end := len(b)
	for end > 0 && b[end-1] == c.pad {
		end--
	}
	return bytes.Clone(b[:end]), nil
}

func (c padded) Encode(w *Writer, v []byte) error {
	if len(v) > c.n {
		return &LengthError{Offset: w.Len(), Unit: UnitBytes, Got: len(v), Want: c.n}
	}
	w.Grow(c.n)
	_, _ = w.Write(v)
	for i := len(v); i < c.n; i++ {
		_ = w.WriteByte(c.pad)
	}
	return nil
}

func (c padded) Size() int { return c.n }

type sized[L constraints.Integer, T any] struct {
	length Codec[L]
	inner  Codec[T]
}

// Sized frames inner with its encoded byte length: [byte length][inner].
// Decoding hands inner a sub-reader of exactly that many bytes, which it
// must consume completely.
func Sized[L constraints.Integer, T any](length Codec[L], inner Codec[T]) Codec[T] {
	return sized[L, T]{length: length, inner: inner}
}

// PrefixedBytes is an owned byte string behind a byte-length prefix.
func PrefixedBytes[L constraints.Integer](length Codec[L]) Codec[[]byte] {
	return Sized(length, OwnedBytes())
}

func (c sized[L, T]) Decode(r *Reader) (T, error) {
	var zero T
	raw, err := c.length.Decode(r)
	if err != nil {
		return zero, err
	}
	n, err := conv.Len(raw)
	if err != nil {
		return zero, err
	}
	if err := r.opts.CheckBytes(n); err != nil {
		return zero, err
	}
	sub, err := r.Sub(n)
	if err != nil {
		return zero, err
	}
	v, err := c.inner.Decode(sub)
	if err != nil {
		return zero, err
	}
	if sub.More() {
		return zero, &LengthError{Offset: sub.Pos(), Unit: UnitBytes, Got: n - sub.Len(), Want: n}
	}
	return v, nil
}

func (c sized[L, T]) Encode(w *Writer, v T) error {
	body := NewWriter(w.opts)
	if err := c.inner.Encode(body, v); err != nil {
		return err
	}
	n, err := conv.To[L](body.Len())
	if err != nil {
		return err
	}
	mark := w.Len()
	if err := c.length.Encode(w, n); err != nil {
		return err
	}
	if _, err := body.WriteTo(w); err != nil {
		w.Truncate(mark)
		return err
	}
	return nil
}
