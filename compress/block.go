package compress

import (
	"errors"

	"golang.org/x/exp/constraints"

	"github.com/unkn0wn-root/packd"
	"github.com/unkn0wn-root/packd/conv"
)

type block[T any, L constraints.Integer] struct {
	algo   Algorithm
	length packd.Codec[L]
	inner  packd.Codec[T]
}

// Block compresses the encoded form of inner with algo. Both length fields
// use the length codec. Decoding checks the declared sizes against
// Options.MaxBytes before allocating, and the decompressed size must equal
// the declared raw length. Offsets reported by inner errors are relative to
// the decompressed bytes.
func Block[T any, L constraints.Integer](algo Algorithm, length packd.Codec[L], inner packd.Codec[T]) packd.Codec[T] {
	return block[T, L]{algo: algo, length: length, inner: inner}
}

func (c block[T, L]) readLen(r *packd.Reader) (int, error) {
	raw, err := c.length.Decode(r)
	if err != nil {
		return 0, err
	}
	n, err := conv.Len(raw)
	if err != nil {
		return 0, err
	}
	return n, r.Options().CheckBytes(n)
}

func (c block[T, L]) Decode(r *packd.Reader) (T, error) {
	var zero T
	rawLen, err := c.readLen(r)
	if err != nil {
		return zero, err
	}
	packedLen, err := c.readLen(r)
	if err != nil {
		return zero, err
	}

	if packedLen == 0 {
		sub, err := r.Sub(rawLen)
		if err != nil {
			return zero, err
		}
		return decodeAll(sub, rawLen, c.inner)
	}

	start := r.Pos()
	packed, err := r.Next(packedLen)
	if err != nil {
		return zero, err
	}
	raw, err := c.algo.Decompress(packed, rawLen)
	if err != nil {
		var se *sizeError
		if errors.As(err, &se) {
			return zero, &packd.LengthError{Offset: start, Unit: packd.UnitBytes, Got: se.got, Want: rawLen}
		}
		return zero, err
	}
	if len(raw) != rawLen {
		return zero, &packd.LengthError{Offset: start, Unit: packd.UnitBytes, Got: len(raw), Want: rawLen}
	}
	r.Logger().Debug("decompressed block", packd.Fields{
		"algorithm": c.algo.Name(),
		"raw":       rawLen,
		"packed":    packedLen,
		"offset":    start,
	})
	return decodeAll(packd.NewReader(raw, r.Options()), rawLen, c.inner)
}

func decodeAll[T any](r *packd.Reader, n int, inner packd.Codec[T]) (T, error) {
	v, err := inner.Decode(r)
	if err != nil {
		var zero T
		return zero, err
	}
	if r.More() {
		var zero T
		return zero, &packd.LengthError{Offset: r.Pos(), Unit: packd.UnitBytes, Got: n - r.Len(), Want: n}
	}
	return v, nil
}

func (c block[T, L]) Encode(w *packd.Writer, v T) error {
	body := packd.NewWriter(w.Options())
	if err := c.inner.Encode(body, v); err != nil {
		return err
	}
	raw := body.Bytes()

	var packed []byte
	if len(raw) > 0 {
		p, err := c.algo.Compress(raw)
		if err != nil {
			return err
		}
		// keep the compressed form only when it saves at least 10%
		if len(p) > 0 && len(p)*10 <= len(raw)*9 {
			packed = p
		}
	}

	rawLen, err := conv.To[L](len(raw))
	if err != nil {
		return err
	}
	packedLen, err := conv.To[L](len(packed))
	if err != nil {
		return err
	}
	data := raw
	if packed != nil {
		data = packed
	}
	return w.Encode(
		packd.Bind(c.length, rawLen),
		packd.Bind(c.length, packedLen),
		packd.Bind(packd.Bytes(), data),
	)
}
