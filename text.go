package packd

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Table is a single-byte character set. Both directions report whether the
// symbol has a mapping; there is no replacement character.
type Table interface {
	DecodeByte(b byte) (rune, bool)
	EncodeRune(r rune) (byte, bool)
}

type charmapTable struct {
	cm *charmap.Charmap
}

// Charmap adapts an x/text code page. Bytes the code page leaves undefined
// (decoded as U+FFFD) are treated as unmapped.
func Charmap(cm *charmap.Charmap) Table { return charmapTable{cm: cm} }

func (t charmapTable) DecodeByte(b byte) (rune, bool) {
	r := t.cm.DecodeByte(b)
	return r, r != utf8.RuneError
}

func (t charmapTable) EncodeRune(r rune) (byte, bool) {
	if r == utf8.RuneError {
		return 0, false
	}
	return t.cm.EncodeRune(r)
}

// Windows1252 is the Western European Windows code page used by many legacy
// game and tool formats.
var Windows1252 = Charmap(charmap.Windows1252)

// MapTable is a custom code page: entry i is the rune for byte i, and
// utf8.RuneError marks an unmapped byte.
type MapTable struct {
	dec [256]rune
	enc map[rune]byte
}

// NewMapTable builds a MapTable from its decode direction.
func NewMapTable(dec [256]rune) *MapTable {
	t := &MapTable{dec: dec, enc: make(map[rune]byte, 256)}
	for i, r := range dec {
		if r == utf8.RuneError {
			continue
		}
		if _, dup := t.enc[r]; !dup {
			t.enc[r] = byte(i)
		}
	}
	return t
}

func (t *MapTable) DecodeByte(b byte) (rune, bool) {
	r := t.dec[b]
	return r, r != utf8.RuneError
}

func (t *MapTable) EncodeRune(r rune) (byte, bool) {
	b, ok := t.enc[r]
	return b, ok
}

type text struct {
	table Table
	bytes Codec[[]byte]
}

// Text stores a string through a single-byte table, delegating the byte
// layout to a nested codec (Padded for fixed-width names, PrefixedBytes or
// LengthPrefixed(..., U8) for counted strings). Both directions are strict:
// an unmapped byte or character fails with an *EncodingError carrying the
// index of the symbol within the text and, on decode, the byte's input offset.
func Text(table Table, bytes Codec[[]byte]) Codec[string] {
	return text{table: table, bytes: bytes}
}

func (c text) Decode(r *Reader) (string, error) {
	start := r.Pos()
	field := r.Rest()
	b, err := c.bytes.Decode(r)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.Grow(len(b))
	for i, x := range b {
		ch, ok := c.table.DecodeByte(x)
		if !ok {
			return "", &EncodingError{Offset: textStart(field[:r.Pos()-start], start, b) + i, Index: i, Byte: x, Decoding: true}
		}
		sb.WriteRune(ch)
	}
	s := sb.String()
	r.Logger().Debug("decoded text", Fields{"offset": start, "text": s})
	return s, nil
}

func (c text) Encode(w *Writer, v string) error {
	b := make([]byte, 0, len(v))
	i := 0
	for _, ch := range v {
		x, ok := c.table.EncodeRune(ch)
		if !ok {
			return &EncodingError{Offset: -1, Index: i, Rune: ch}
		}
		b = append(b, x)
		i++
	}
	return c.bytes.Encode(w, b)
}

// textStart locates the text bytes inside the consumed field: after a length
// prefix they end the field, inside padding they start it.
func textStart(field []byte, start int, b []byte) int {
	if bytes.HasSuffix(field, b) {
		return start + len(field) - len(b)
	}
	return start
}
