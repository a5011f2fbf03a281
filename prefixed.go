package packd

import (
	"golang.org/x/exp/constraints"

	"github.com/unkn0wn-root/packd/conv"
)

type lengthPrefixed[L constraints.Integer, T any] struct {
	length Codec[L]
	item   Codec[T]
}

// LengthPrefixed lays out a slice as [count][count x item]. The count field
// has its own codec and width; converting between it and a Go int is checked
// in both directions, so an oversized slice or a negative count is an
// overflow error rather than a silent truncation.
func LengthPrefixed[L constraints.Integer, T any](length Codec[L], item Codec[T]) Codec[[]T] {
	return lengthPrefixed[L, T]{length: length, item: item}
}

func (c lengthPrefixed[L, T]) Decode(r *Reader) ([]T, error) {
	raw, err := c.length.Decode(r)
	if err != nil {
		return nil, err
	}
	n, err := conv.Len(raw)
	if err != nil {
		return nil, err
	}
	return decodeN(r, n, c.item, "length-prefixed seq")
}

func (c lengthPrefixed[L, T]) Encode(w *Writer, v []T) error {
	n, err := conv.To[L](len(v))
	if err != nil {
		return err
	}
	mark := w.Len()
	if err := c.length.Encode(w, n); err != nil {
		return err
	}
	if err := encodeAll(w, v, c.item); err != nil {
		w.Truncate(mark)
		return err
	}
	return nil
}
