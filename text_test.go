package packd

import (
	"errors"
	"testing"
	"unicode/utf8"
)

func asciiDigits() *MapTable {
	var dec [256]rune
	for i := range dec {
		dec[i] = utf8.RuneError
	}
	for i := 0; i < 10; i++ {
		dec['0'+i] = rune('0' + i)
	}
	dec[0xF0] = 'Ω'
	return NewMapTable(dec)
}

func TestText_Windows1252RoundTrip(t *testing.T) {
	c := Text(Windows1252, PrefixedBytes(U8))
	in := "Café €5 – naïve"
	b := mustMarshal(t, c, in)
	if b[0] != byte(len(b)-1) {
		t.Fatalf("prefix %d for %d bytes", b[0], len(b)-1)
	}
	if b[4] != 0xE9 {
		t.Fatalf("é encoded as %#x", b[4])
	}
	if got := mustUnmarshal(t, c, b); got != in {
		t.Fatalf("got %q", got)
	}
}

func TestText_PaddedName(t *testing.T) {
	c := Text(Windows1252, Padded(8, 0))
	b := mustMarshal(t, c, "Öl")
	expectBytes(t, b, []byte{0xD6, 'l', 0, 0, 0, 0, 0, 0})
	if got := mustUnmarshal(t, c, b); got != "Öl" {
		t.Fatalf("got %q", got)
	}
}

func TestText_UnmappedByte(t *testing.T) {
	c := Text(asciiDigits(), FixedBytes(3))
	_, err := Unmarshal(c, []byte{'1', 'x', '2'})
	var ee *EncodingError
	if !errors.As(err, &ee) || !ee.Decoding || ee.Index != 1 || ee.Offset != 1 || ee.Byte != 'x' {
		t.Fatalf("got %v", err)
	}
	if !errors.Is(err, ErrEncoding) {
		t.Fatalf("should match ErrEncoding")
	}
}

func TestText_UnmappedByteReportsInputOffset(t *testing.T) {
	c := LengthPrefixed(U8, Text(asciiDigits(), PrefixedBytes(U8)))
	in := []byte{2, 1, '7', 2, '8', 'z'}
	_, err := Unmarshal(c, in)
	var ee *EncodingError
	if !errors.As(err, &ee) || ee.Offset != 5 || ee.Index != 1 || ee.Byte != 'z' {
		t.Fatalf("got %v", err)
	}
	if in[ee.Offset] != ee.Byte {
		t.Fatalf("offset %d holds %#x", ee.Offset, in[ee.Offset])
	}

	padded := Tuple(2, Text(asciiDigits(), Padded(4, 0)))
	in = []byte{'1', '2', 0, 0, '3', 'q', 0, 0}
	_, err = Unmarshal(padded, in)
	if !errors.As(err, &ee) || ee.Offset != 5 || ee.Index != 1 {
		t.Fatalf("padded: got %v", err)
	}
}

func TestText_UnmappableRuneWritesNothing(t *testing.T) {
	c := Text(Windows1252, PrefixedBytes(U8))
	w := NewWriter(Options{})
	err := c.Encode(w, "ok中")
	var ee *EncodingError
	if !errors.As(err, &ee) || ee.Decoding || ee.Rune != '中' || ee.Index != 2 {
		t.Fatalf("got %v", err)
	}
	if w.Len() != 0 {
		t.Fatalf("wrote % x", w.Bytes())
	}
}

func TestMapTable(t *testing.T) {
	tbl := asciiDigits()
	c := Text(tbl, Bytes())
	b := mustMarshal(t, c, "42Ω")
	expectBytes(t, b, []byte{'4', '2', 0xF0})
	if got := mustUnmarshal(t, c, b); got != "42Ω" {
		t.Fatalf("got %q", got)
	}
	if _, ok := tbl.EncodeRune('a'); ok {
		t.Fatalf("'a' should be unmapped")
	}
}

func TestCharmapRejectsReplacementRune(t *testing.T) {
	if _, ok := Windows1252.EncodeRune(utf8.RuneError); ok {
		t.Fatalf("U+FFFD should not encode")
	}
}
