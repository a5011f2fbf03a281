package packd

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Int packs a fixed-width integer in a declared byte order. The width is
// that of T (1, 2, 4 or 8 bytes); there is no variable-length encoding.
// Signed values use the standard two's complement layout.
type Int[T constraints.Integer] struct {
	order binary.ByteOrder
	size  int
}

// Integer returns an integer codec for T in the given byte order.
// It panics if T is not 1, 2, 4 or 8 bytes wide.
func Integer[T constraints.Integer](order binary.ByteOrder) Int[T] {
	var zero T
	size := int(unsafe.Sizeof(zero))
	switch size {
	case 1, 2, 4, 8:
	default:
		panic(fmt.Sprintf("packd: unsupported integer width %d", size))
	}
	return Int[T]{order: order, size: size}
}

// LittleEndian stores T least significant byte first.
func LittleEndian[T constraints.Integer]() Int[T] { return Integer[T](binary.LittleEndian) }

// BigEndian stores T most significant byte first.
func BigEndian[T constraints.Integer]() Int[T] { return Integer[T](binary.BigEndian) }

// Common integer codecs.
var (
	U8    = LittleEndian[uint8]()
	I8    = LittleEndian[int8]()
	U16LE = LittleEndian[uint16]()
	U32LE = LittleEndian[uint32]()
	U64LE = LittleEndian[uint64]()
	I16LE = LittleEndian[int16]()
	I32LE = LittleEndian[int32]()
	I64LE = LittleEndian[int64]()
	U16BE = BigEndian[uint16]()
	U32BE = BigEndian[uint32]()
	U64BE = BigEndian[uint64]()
	I16BE = BigEndian[int16]()
	I32BE = BigEndian[int32]()
	I64BE = BigEndian[int64]()
)

func (c Int[T]) Decode(r *Reader) (T, error) {
	b, err := r.Next(c.size)
	if err != nil {
		return 0, err
	}
	switch c.size {
	case 1:
		return T(b[0]), nil
	case 2:
		return T(c.order.Uint16(b)), nil
	case 4:
		return T(c.order.Uint32(b)), nil
	default:
		return T(c.order.Uint64(b)), nil
	}
}

func (c Int[T]) Encode(w *Writer, v T) error {
	var buf [8]byte
	b := buf[:c.size]
	switch c.size {
	case 1:
		b[0] = byte(v)
	case 2:
		c.order.PutUint16(b, uint16(v))
	case 4:
		c.order.PutUint32(b, uint32(v))
	default:
		c.order.PutUint64(b, uint64(v))
	}
	_, err := w.Write(b)
	return err
}

func (c Int[T]) Size() int { return c.size }
