package codec

import "github.com/unkn0wn-root/packd"

// Packed turns a packd layout into a whole-buffer codec. Decode rejects
// trailing bytes unless Opts.AllowTrailing is set.
type Packed[V any] struct {
	Layout packd.Codec[V]
	Opts   packd.Options
}

// NewPacked wraps a layout with default options.
func NewPacked[V any](layout packd.Codec[V]) Packed[V] {
	return Packed[V]{Layout: layout}
}

func (c Packed[V]) Encode(v V) ([]byte, error) {
	return packd.MarshalWith(c.Opts, c.Layout, v)
}

func (c Packed[V]) Decode(b []byte) (V, error) {
	return packd.UnmarshalWith(c.Opts, c.Layout, b)
}
