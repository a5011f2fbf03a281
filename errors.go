package packd

import (
	"errors"
	"fmt"

	"github.com/unkn0wn-root/packd/conv"
)

// Sentinel errors. Every typed error below unwraps to one of them, so callers
// can branch with errors.Is and reach positional detail with errors.As.
var (
	// ErrMismatch reports input that differs from an expected constant.
	ErrMismatch = errors.New("packd: value mismatch")

	// ErrLength reports a count or byte length that disagrees with what the
	// layout requires, including input that ends early.
	ErrLength = errors.New("packd: length mismatch")

	// ErrOverflow reports a length or field that does not fit its target width.
	ErrOverflow = conv.ErrOverflow

	// ErrEncoding reports a byte or character with no mapping in a text table.
	ErrEncoding = errors.New("packd: unmappable character")

	// ErrTrailingData reports input left over after a whole-buffer decode.
	ErrTrailingData = errors.New("packd: trailing data")

	// ErrTooLarge reports a decoded count or size above the configured limit.
	ErrTooLarge = errors.New("packd: too large")

	// ErrChecksum reports a stored checksum that does not match the data.
	ErrChecksum = errors.New("packd: checksum mismatch")
)

// MismatchError is returned by Literal when an input byte differs from the
// expected constant.
type MismatchError struct {
	Offset   int // absolute input offset of the offending byte
	Index    int // index within the literal
	Expected byte
	Received byte
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("packd: literal mismatch at index %d (offset %d): expected 0x%02x, received 0x%02x",
		e.Index, e.Offset, e.Expected, e.Received)
}

func (e *MismatchError) Unwrap() error { return ErrMismatch }

// Units used by LengthError.
const (
	UnitBytes    = "bytes"
	UnitElements = "elements"
)

// LengthError reports a count disagreement. On decode Got is how many units
// were actually obtained; on encode it is the length of the value offered.
type LengthError struct {
	Offset int
	Unit   string
	Got    int
	Want   int
	Err    error // cause, e.g. io.ErrUnexpectedEOF when input ran out
}

func (e *LengthError) Error() string {
	msg := fmt.Sprintf("packd: length mismatch at offset %d: got %d %s, want %d",
		e.Offset, e.Got, e.Unit, e.Want)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LengthError) Unwrap() []error {
	errs := make([]error, 0, 2)
	errs = append(errs, ErrLength)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// EncodingError reports a byte (decode) or rune (encode) that the configured
// text table cannot map.
type EncodingError struct {
	Offset   int  // absolute input offset of the byte on decode; -1 on encode
	Index    int  // byte index within the text on decode, rune index on encode
	Byte     byte // set on decode
	Rune     rune // set on encode
	Decoding bool
}

func (e *EncodingError) Error() string {
	if e.Decoding {
		return fmt.Sprintf("packd: byte 0x%02x at offset %d (index %d of text) has no mapping", e.Byte, e.Offset, e.Index)
	}
	return fmt.Sprintf("packd: character %q (U+%04X) at index %d has no mapping", e.Rune, e.Rune, e.Index)
}

func (e *EncodingError) Unwrap() error { return ErrEncoding }

// ChecksumError reports a checksum mismatch over a guarded sub-record.
type ChecksumError struct {
	Offset   int
	Stored   any
	Computed any
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("packd: checksum mismatch at offset %d: stored %#x, computed %#x", e.Offset, e.Stored, e.Computed)
}

func (e *ChecksumError) Unwrap() error { return ErrChecksum }

func tooLarge(what string, n, limit int) error {
	return fmt.Errorf("%w: %s %d > %d", ErrTooLarge, what, n, limit)
}
