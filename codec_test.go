package packd

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/unkn0wn-root/packd/conv"
)

func mustMarshal[T any](t *testing.T, c Codec[T], v T) []byte {
	t.Helper()
	b, err := Marshal(c, v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func mustUnmarshal[T any](t *testing.T, c Codec[T], b []byte) T {
	t.Helper()
	v, err := Unmarshal(c, b)
	if err != nil {
		t.Fatalf("unmarshal % x: %v", b, err)
	}
	return v
}

func expectBytes(t *testing.T, got, want []byte) {
	t.Helper()
	if !bytes.Equal(got, want) {
		t.Fatalf("bytes: got % x want % x", got, want)
	}
}

func TestLiteral_MismatchAtIndex(t *testing.T) {
	lit := Literal{0x01, 0x02, 0x04}
	_, err := Unmarshal[struct{}](lit, []byte{0x01, 0x02, 0x03})
	var me *MismatchError
	if !errors.As(err, &me) {
		t.Fatalf("want MismatchError, got %v", err)
	}
	if me.Index != 2 || me.Offset != 2 || me.Expected != 0x04 || me.Received != 0x03 {
		t.Fatalf("got %+v", me)
	}
	if !errors.Is(err, ErrMismatch) {
		t.Fatalf("should match ErrMismatch")
	}
}

func TestLiteral_ShortInput(t *testing.T) {
	_, err := Unmarshal[struct{}](Literal("RIFF"), []byte("RI"))
	var le *LengthError
	if !errors.As(err, &le) || le.Got != 2 || le.Want != 4 || le.Unit != UnitBytes {
		t.Fatalf("got %v", err)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("should wrap io.ErrUnexpectedEOF")
	}
}

func TestLiteral_MismatchBeforeExhaustion(t *testing.T) {
	_, err := Unmarshal[struct{}](Literal("RIFF"), []byte("RX"))
	if !errors.Is(err, ErrMismatch) {
		t.Fatalf("want mismatch, got %v", err)
	}
}

func TestLiteral_EncodeAlwaysWrites(t *testing.T) {
	expectBytes(t, mustMarshal[struct{}](t, Literal("PK\x03\x04"), struct{}{}), []byte("PK\x03\x04"))
}

func TestInteger_ByteOrder(t *testing.T) {
	b := mustMarshal(t, U32LE, 0x01020304)
	expectBytes(t, b, []byte{0x04, 0x03, 0x02, 0x01})
	if v := mustUnmarshal(t, U32LE, b); v != 0x01020304 {
		t.Fatalf("got %#x", v)
	}
	expectBytes(t, mustMarshal(t, U32BE, 0x01020304), []byte{0x01, 0x02, 0x03, 0x04})
}

func TestInteger_TwosComplement(t *testing.T) {
	expectBytes(t, mustMarshal(t, I16LE, -2), []byte{0xFE, 0xFF})
	if v := mustUnmarshal(t, I16LE, []byte{0xFE, 0xFF}); v != -2 {
		t.Fatalf("got %d", v)
	}
	if v := mustUnmarshal(t, I64BE, []byte{0x80, 0, 0, 0, 0, 0, 0, 0}); v != math.MinInt64 {
		t.Fatalf("got %d", v)
	}
	if v := mustUnmarshal(t, I8, []byte{0x80}); v != -128 {
		t.Fatalf("got %d", v)
	}
}

func TestInteger_AllWidthsRoundTrip(t *testing.T) {
	u64 := LittleEndian[uint64]()
	for _, v := range []uint64{0, 1, math.MaxUint32, math.MaxUint64} {
		if got := mustUnmarshal(t, u64, mustMarshal(t, u64, v)); got != v {
			t.Fatalf("u64 %d != %d", got, v)
		}
	}
	type tag uint16
	tc := BigEndian[tag]()
	if got := mustUnmarshal(t, tc, mustMarshal(t, tc, tag(0xBEEF))); got != 0xBEEF {
		t.Fatalf("named type %#x", got)
	}
	if tc.Size() != 2 {
		t.Fatalf("size %d", tc.Size())
	}
}

func TestInteger_Short(t *testing.T) {
	_, err := Unmarshal(U32LE, []byte{1, 2})
	var le *LengthError
	if !errors.As(err, &le) || le.Got != 2 || le.Want != 4 {
		t.Fatalf("got %v", err)
	}
}

func TestFloat_BitExact(t *testing.T) {
	b := mustMarshal(t, F32LE, 1.0)
	expectBytes(t, b, []byte{0x00, 0x00, 0x80, 0x3F})
	if v := mustUnmarshal(t, F32LE, b); math.Float32bits(v) != math.Float32bits(1.0) {
		t.Fatalf("got %v", v)
	}

	nan := math.Float32frombits(0x7FC0_1234)
	got := mustUnmarshal(t, F32LE, mustMarshal(t, F32LE, nan))
	if math.Float32bits(got) != 0x7FC0_1234 {
		t.Fatalf("nan payload lost: %#x", math.Float32bits(got))
	}
	neg0 := math.Copysign(0, -1)
	if g := mustUnmarshal(t, F64BE, mustMarshal(t, F64BE, neg0)); math.Float64bits(g) != math.Float64bits(neg0) {
		t.Fatalf("-0 lost")
	}
	if n, ok := SizeOf(F64LE); !ok || n != 8 {
		t.Fatalf("size %d %v", n, ok)
	}
}

func TestTuple_WrongLengthWritesNothing(t *testing.T) {
	c := Tuple(3, U16LE)
	w := NewWriter(Options{})
	_ = w.WriteByte(0xAA)
	err := c.Encode(w, []uint16{1, 2})
	var le *LengthError
	if !errors.As(err, &le) || le.Got != 2 || le.Want != 3 || le.Unit != UnitElements {
		t.Fatalf("got %v", err)
	}
	expectBytes(t, w.Bytes(), []byte{0xAA})
}

func TestTuple_RoundTripAndSize(t *testing.T) {
	c := Tuple(3, F32LE)
	in := []float32{1, 2, 3}
	b := mustMarshal(t, c, in)
	if len(b) != 12 {
		t.Fatalf("len %d", len(b))
	}
	out := mustUnmarshal(t, c, b)
	if len(out) != 3 || out[2] != 3 {
		t.Fatalf("got %v", out)
	}
	if n, ok := SizeOf(c); !ok || n != 12 {
		t.Fatalf("size %d", n)
	}
}

func TestTuple_ShortInput(t *testing.T) {
	_, err := Unmarshal(Tuple(3, U16LE), []byte{1, 0, 2, 0})
	var le *LengthError
	if !errors.As(err, &le) || le.Got != 2 || le.Want != 3 || le.Unit != UnitElements {
		t.Fatalf("got %v", err)
	}
}

func TestSeqN_StopsAfterCount(t *testing.T) {
	v, rest, err := UnmarshalPrefix(SeqN(2, U8), []byte{1, 2, 3})
	if err != nil || len(v) != 2 || !bytes.Equal(rest, []byte{3}) {
		t.Fatalf("got %v rest=% x err=%v", v, rest, err)
	}
}

func TestSeqN_ExhaustionOfUnsizedItems(t *testing.T) {
	item := LengthPrefixed(U8, U8)
	_, err := Unmarshal(SeqN(3, item), []byte{1, 9, 2, 8, 7})
	var le *LengthError
	if !errors.As(err, &le) || le.Unit != UnitElements || le.Got != 2 || le.Want != 3 {
		t.Fatalf("got %v", err)
	}
}

func TestSeqN_NonExhaustionErrorUnchanged(t *testing.T) {
	item := Func(
		func(r *Reader) (struct{}, error) { return Literal{0xAB}.Decode(r) },
		func(w *Writer, v struct{}) error { return Literal{0xAB}.Encode(w, v) },
	)
	_, err := Unmarshal(SeqN(2, item), []byte{0xAB, 0xCD})
	var me *MismatchError
	if !errors.As(err, &me) || me.Offset != 1 {
		t.Fatalf("got %v", err)
	}
	var le *LengthError
	if errors.As(err, &le) {
		t.Fatalf("mismatch should not become a length error")
	}
}

func TestLengthPrefixed_ZeroWidthItemsNeedInput(t *testing.T) {
	_, err := Unmarshal(LengthPrefixed(U32LE, FixedBytes(0)), []byte{0, 0, 0x80, 0})
	var le *LengthError
	if !errors.As(err, &le) || le.Unit != UnitElements || le.Want != 0x800000 || le.Got != 0 {
		t.Fatalf("got %v", err)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("want ErrUnexpectedEOF, got %v", err)
	}

	v, rest, err := UnmarshalPrefix(SeqN(2, Literal{}), []byte{7, 7})
	if err != nil || len(v) != 2 || len(rest) != 2 {
		t.Fatalf("got %d items rest=% x err=%v", len(v), rest, err)
	}
	if _, err := Unmarshal(Tuple(3, Literal{}), nil); !errors.Is(err, ErrLength) {
		t.Fatalf("want ErrLength, got %v", err)
	}
}

func TestSeq_Unbounded(t *testing.T) {
	c := Seq(U16BE)
	b := mustMarshal(t, c, []uint16{1, 2, 3})
	expectBytes(t, b, []byte{0, 1, 0, 2, 0, 3})
	if v := mustUnmarshal(t, c, b); len(v) != 3 || v[2] != 3 {
		t.Fatalf("got %v", v)
	}
	if v := mustUnmarshal(t, c, nil); len(v) != 0 {
		t.Fatalf("empty: %v", v)
	}
	if _, err := Unmarshal(c, []byte{0, 1, 0}); !errors.Is(err, ErrLength) {
		t.Fatalf("odd tail: %v", err)
	}
}

func TestSeq_ZeroWidthItem(t *testing.T) {
	if _, err := Unmarshal(Seq(Func(
		func(r *Reader) (int, error) { return 0, nil },
		func(w *Writer, v int) error { return nil },
	)), []byte{1}); err == nil {
		t.Fatalf("expected no-progress error")
	}
}

func TestLengthPrefixed_Layout(t *testing.T) {
	c := LengthPrefixed(U32LE, U16LE)
	b := mustMarshal(t, c, []uint16{10, 20, 30})
	expectBytes(t, b, []byte{0x03, 0x00, 0x00, 0x00, 0x0A, 0x00, 0x14, 0x00, 0x1E, 0x00})
	if v := mustUnmarshal(t, c, b); len(v) != 3 || v[0] != 10 || v[2] != 30 {
		t.Fatalf("got %v", v)
	}
}

func TestLengthPrefixed_PrefixClaimsMore(t *testing.T) {
	c := LengthPrefixed(U32LE, U16LE)
	v, err := Unmarshal(c, []byte{0x05, 0, 0, 0, 0x0A, 0, 0x14, 0})
	var le *LengthError
	if !errors.As(err, &le) || le.Got != 2 || le.Want != 5 || le.Unit != UnitElements {
		t.Fatalf("got %v", err)
	}
	if v != nil {
		t.Fatalf("partial result returned: %v", v)
	}
}

func TestLengthPrefixed_NegativeCount(t *testing.T) {
	_, err := Unmarshal(LengthPrefixed(I32LE, U8), []byte{0xFF, 0xFF, 0xFF, 0xFF})
	var oe *conv.OverflowError
	if !errors.As(err, &oe) || oe.Reason != "negative" || !errors.Is(err, ErrOverflow) {
		t.Fatalf("got %v", err)
	}
}

func TestLengthPrefixed_CountTooWide(t *testing.T) {
	w := NewWriter(Options{})
	err := LengthPrefixed(U8, U8).Encode(w, make([]uint8, 256))
	if !errors.Is(err, ErrOverflow) || w.Len() != 0 {
		t.Fatalf("got %v, %d bytes written", err, w.Len())
	}
}

func TestLengthPrefixed_ItemErrorRollsBack(t *testing.T) {
	c := LengthPrefixed(U8, Padded(2, 0))
	w := NewWriter(Options{})
	if err := c.Encode(w, [][]byte{[]byte("ok"), []byte("too long")}); !errors.Is(err, ErrLength) {
		t.Fatalf("got %v", err)
	}
	if w.Len() != 0 {
		t.Fatalf("partial bytes left: % x", w.Bytes())
	}
}

func TestLengthPrefixed_Nested(t *testing.T) {
	c := LengthPrefixed(U8, LengthPrefixed(U8, U8))
	in := [][]uint8{{1}, {}, {2, 3}}
	b := mustMarshal(t, c, in)
	expectBytes(t, b, []byte{3, 1, 1, 0, 2, 2, 3})
	out := mustUnmarshal(t, c, b)
	if len(out) != 3 || len(out[1]) != 0 || out[2][1] != 3 {
		t.Fatalf("got %v", out)
	}

	// inner prefix claims more than remains: the inner count error surfaces
	_, err := Unmarshal(c, []byte{1, 4, 1, 2})
	var le *LengthError
	if !errors.As(err, &le) || le.Got != 2 || le.Want != 4 {
		t.Fatalf("got %v", err)
	}
}

func TestOptions_MaxElements(t *testing.T) {
	c := LengthPrefixed(U32LE, U8)
	b := mustMarshal(t, c, []uint8{1, 2, 3})
	if _, err := UnmarshalWith(Options{MaxElements: 2}, c, b); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("got %v", err)
	}
	if _, err := UnmarshalWith(Options{MaxElements: 3}, c, b); err != nil {
		t.Fatalf("got %v", err)
	}
	if _, err := UnmarshalWith(Options{MaxElements: 2}, Seq(U8), []byte{1, 2, 3}); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("seq: %v", err)
	}
}

func TestUnmarshal_TrailingData(t *testing.T) {
	if _, err := Unmarshal(U8, []byte{1, 2}); !errors.Is(err, ErrTrailingData) {
		t.Fatalf("got %v", err)
	}
	if v, err := UnmarshalWith(Options{AllowTrailing: true}, U8, []byte{1, 2}); err != nil || v != 1 {
		t.Fatalf("got %v %v", v, err)
	}
}

func TestAppend(t *testing.T) {
	dst := []byte{0xFF}
	dst, err := Append(dst, U16BE, 0x0102)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	expectBytes(t, dst, []byte{0xFF, 1, 2})
	out, err := Append(dst, Tuple(2, U8), []uint8{1})
	if err == nil || !bytes.Equal(out, dst) {
		t.Fatalf("dst changed on error")
	}
}

func TestMap_ArrayAndValidation(t *testing.T) {
	vec := Map(Tuple(3, F32LE),
		func(s []float32) ([3]float32, error) { return [3]float32(s), nil },
		func(a [3]float32) ([]float32, error) { return a[:], nil },
	)
	in := [3]float32{1.5, -2, 0}
	if out := mustUnmarshal(t, vec, mustMarshal(t, vec, in)); out != in {
		t.Fatalf("got %v", out)
	}
	if n, ok := SizeOf(vec); !ok || n != 12 {
		t.Fatalf("map should keep size: %d %v", n, ok)
	}

	errOdd := errors.New("odd")
	even := Map(U8,
		func(v uint8) (uint8, error) {
			if v%2 != 0 {
				return 0, errOdd
			}
			return v, nil
		},
		func(v uint8) (uint8, error) { return v, nil },
	)
	if _, err := Unmarshal(even, []byte{3}); !errors.Is(err, errOdd) {
		t.Fatalf("got %v", err)
	}
}

type header struct {
	Version uint16
	Flags   uint8
	Name    []byte
}

var headerCodec = Func(
	func(r *Reader) (header, error) {
		var h header
		err := r.Decode(
			Literal("HDR").Expect(),
			Into(U16BE, &h.Version),
			Into[uint8](U8, nil), // reserved
			Into(U8, &h.Flags),
			Into(PrefixedBytes(U8), &h.Name),
		)
		return h, err
	},
	func(w *Writer, h header) error {
		return w.Encode(
			Literal("HDR").Put(),
			Bind(U16BE, h.Version),
			Bind(U8, 0),
			Bind(U8, h.Flags),
			Bind(PrefixedBytes(U8), h.Name),
		)
	},
)

func TestRecord_BindInto(t *testing.T) {
	h := header{Version: 3, Flags: 0x80, Name: []byte("abc")}
	b := mustMarshal(t, headerCodec, h)
	expectBytes(t, b, []byte{'H', 'D', 'R', 0, 3, 0, 0x80, 3, 'a', 'b', 'c'})
	got := mustUnmarshal(t, headerCodec, b)
	if got.Version != 3 || got.Flags != 0x80 || string(got.Name) != "abc" {
		t.Fatalf("got %+v", got)
	}
}

func TestRecord_ErrorOffsetsAreAbsolute(t *testing.T) {
	c := LengthPrefixed(U8, headerCodec)
	b := mustMarshal(t, c, []header{{Version: 1}, {Version: 2}})
	b[1+8] = 'X' // first byte of the second record's literal
	_, err := Unmarshal(c, b)
	var me *MismatchError
	if !errors.As(err, &me) || me.Offset != 9 || me.Index != 0 {
		t.Fatalf("got %v", err)
	}
}

func TestWriter_EncodeRollsBack(t *testing.T) {
	w := NewWriter(Options{})
	_ = w.WriteByte(0x01)
	err := w.Encode(Bind(U32LE, 7), Bind(Tuple(1, U8), []uint8{}))
	if err == nil || w.Len() != 1 {
		t.Fatalf("err=%v len=%d", err, w.Len())
	}
}

func TestReader_Cursor(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4}, Options{})
	if b, _ := r.ReadByte(); b != 1 {
		t.Fatalf("read byte %d", b)
	}
	if err := r.UnreadByte(); err != nil || r.Pos() != 0 {
		t.Fatalf("unread: %v pos=%d", err, r.Pos())
	}
	sub, err := r.Sub(3)
	if err != nil || sub.Len() != 3 || r.Len() != 1 {
		t.Fatalf("sub: %v", err)
	}
	_ = sub.Skip(2)
	if sub.Pos() != 2 {
		t.Fatalf("sub pos %d", sub.Pos())
	}
	if _, err := sub.Next(2); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("sub overrun: %v", err)
	}
	p := make([]byte, 8)
	n, err := r.Read(p)
	if n != 1 || err != nil || p[0] != 4 {
		t.Fatalf("read: %d %v", n, err)
	}
	if _, err := r.Read(p); err != io.EOF {
		t.Fatalf("want EOF, got %v", err)
	}
}

func TestFunc_ZeroValueOnError(t *testing.T) {
	_, err := Unmarshal(headerCodec, []byte("HDR\x00"))
	if !errors.Is(err, ErrLength) {
		t.Fatalf("got %v", err)
	}
}
