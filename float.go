package packd

import "math"

// ieee754 stores a float as its raw bit pattern through a nested integer
// codec. It has no byte order of its own: swap the integer codec to change it.
type ieee754[F float32 | float64, B uint32 | uint64] struct {
	bits     Codec[B]
	fromBits func(B) F
	toBits   func(F) B
}

func (c ieee754[F, B]) Decode(r *Reader) (F, error) {
	b, err := c.bits.Decode(r)
	if err != nil {
		return 0, err
	}
	return c.fromBits(b), nil
}

func (c ieee754[F, B]) Encode(w *Writer, v F) error {
	return c.bits.Encode(w, c.toBits(v))
}

type sizedFloat[F float32 | float64, B uint32 | uint64] struct {
	ieee754[F, B]
	n int
}

func (c sizedFloat[F, B]) Size() int { return c.n }

func newFloat[F float32 | float64, B uint32 | uint64](bits Codec[B], from func(B) F, to func(F) B) Codec[F] {
	c := ieee754[F, B]{bits: bits, fromBits: from, toBits: to}
	if n, ok := SizeOf(bits); ok {
		return sizedFloat[F, B]{ieee754: c, n: n}
	}
	return c
}

// Float32 stores an IEEE-754 binary32 through a 32-bit integer codec.
// Every bit pattern decodes, NaN payloads and infinities included.
func Float32(bits Codec[uint32]) Codec[float32] {
	return newFloat(bits, math.Float32frombits, math.Float32bits)
}

// Float64 stores an IEEE-754 binary64 through a 64-bit integer codec.
func Float64(bits Codec[uint64]) Codec[float64] {
	return newFloat(bits, math.Float64frombits, math.Float64bits)
}

// Common float codecs.
var (
	F32LE = Float32(U32LE)
	F64LE = Float64(U64LE)
	F32BE = Float32(U32BE)
	F64BE = Float64(U64BE)
)
