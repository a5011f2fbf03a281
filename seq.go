package packd

import (
	"errors"
	"fmt"
	"io"
)

// counted decodes and encodes exactly n items. Tuple and SeqN share it; the
// kind only changes how it is described in logs.
type counted[T any] struct {
	n    int
	item Codec[T]
	kind string
}

// Tuple is a fixed-arity sequence: exactly n items, all with the same codec,
// in index order. Encoding a slice whose length is not n fails before any
// byte is written. It panics if n is negative.
func Tuple[T any](n int, item Codec[T]) Codec[[]T] {
	return newCounted(n, item, "tuple")
}

// SeqN is a counted sequence whose count is known when the codec is built
// (typically read from an earlier header field). Decoding stops after n items;
// anything that follows belongs to the next field.
func SeqN[T any](n int, item Codec[T]) Codec[[]T] {
	return newCounted(n, item, "seq")
}

func newCounted[T any](n int, item Codec[T], kind string) Codec[[]T] {
	if n < 0 {
		panic(fmt.Sprintf("packd: negative %s length %d", kind, n))
	}
	c := counted[T]{n: n, item: item, kind: kind}
	if size, ok := SizeOf(item); ok {
		return sizedCounted[T]{counted: c, size: size}
	}
	return c
}

func (c counted[T]) Decode(r *Reader) ([]T, error) {
	return decodeN(r, c.n, c.item, c.kind)
}

func (c counted[T]) Encode(w *Writer, v []T) error {
	if len(v) != c.n {
		return &LengthError{Offset: w.Len(), Unit: UnitElements, Got: len(v), Want: c.n}
	}
	return encodeAll(w, v, c.item)
}

type sizedCounted[T any] struct {
	counted[T]
	size int
}

func (c sizedCounted[T]) Size() int { return c.n * c.size }

// decodeN reads exactly n items. Running out of input while decoding item i
// becomes a *LengthError reporting i obtained of n; every other item error is
// returned untouched. A count of zero-width items larger than the remaining
// input is treated the same way, so a forged count cannot drive allocation.
func decodeN[T any](r *Reader, n int, item Codec[T], kind string) ([]T, error) {
	if err := r.opts.CheckElements(n); err != nil {
		return nil, err
	}
	start := r.Pos()
	capHint := n
	if size, ok := SizeOf(item); ok && size > 0 {
		if avail := r.Len() / size; avail < n {
			return nil, &LengthError{
				Offset: start,
				Unit:   UnitElements,
				Got:    avail,
				Want:   n,
				Err:    io.ErrUnexpectedEOF,
			}
		}
	} else if capHint > r.Len() {
		capHint = r.Len()
	}

	r.Logger().Debug("decoding "+kind, Fields{"count": n, "offset": start})
	out := make([]T, 0, capHint)
	for i := 0; i < n; i++ {
		before := r.Pos()
		v, err := item.Decode(r)
		if err != nil {
			if exhausted(err) {
				return nil, &LengthError{Offset: r.Pos(), Unit: UnitElements, Got: i, Want: n, Err: err}
			}
			return nil, err
		}
		// Items that read nothing may not outnumber the bytes left.
		if r.Pos() == before && n-i > r.Len() {
			return nil, &LengthError{Offset: before, Unit: UnitElements, Got: i, Want: n, Err: io.ErrUnexpectedEOF}
		}
		out = append(out, v)
	}
	r.Logger().Debug("decoded "+kind, Fields{"count": n, "bytes": r.Pos() - start})
	return out, nil
}

// exhausted reports whether err means the input ended early, as opposed to
// bad data. An element-count error from a nested sequence is not rewrapped.
func exhausted(err error) bool {
	var le *LengthError
	if errors.As(err, &le) && le.Unit == UnitElements {
		return false
	}
	return errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF)
}

func encodeAll[T any](w *Writer, v []T, item Codec[T]) error {
	if size, ok := SizeOf(item); ok {
		w.Grow(len(v) * size)
	}
	for _, e := range v {
		if err := item.Encode(w, e); err != nil {
			return err
		}
	}
	return nil
}

type unbounded[T any] struct {
	item Codec[T]
}

// Seq is an unbounded sequence: decoding reads items until the input is
// exhausted, encoding writes every item with no count field. Frame it with
// Sized or LengthPrefixed when it is not the last field of a buffer.
func Seq[T any](item Codec[T]) Codec[[]T] {
	return unbounded[T]{item: item}
}

func (c unbounded[T]) Decode(r *Reader) ([]T, error) {
	var out []T
	if size, ok := SizeOf(c.item); ok && size > 0 {
		if r.Len()%size != 0 {
			return nil, &LengthError{
				Offset: r.Pos(),
				Unit:   UnitBytes,
				Got:    r.Len(),
				Want:   (r.Len()/size + 1) * size,
				Err:    io.ErrUnexpectedEOF,
			}
		}
		if err := r.opts.CheckElements(r.Len() / size); err != nil {
			return nil, err
		}
		out = make([]T, 0, r.Len()/size)
	}
	start := r.Pos()
	for r.More() {
		before := r.Pos()
		v, err := c.item.Decode(r)
		if err != nil {
			return nil, err
		}
		if r.Pos() == before {
			return nil, fmt.Errorf("packd: seq item at offset %d consumed no input", before)
		}
		out = append(out, v)
		if err := r.opts.CheckElements(len(out)); err != nil {
			return nil, err
		}
	}
	r.Logger().Debug("decoded seq", Fields{"count": len(out), "bytes": r.Pos() - start})
	return out, nil
}

func (c unbounded[T]) Encode(w *Writer, v []T) error {
	return encodeAll(w, v, c.item)
}
