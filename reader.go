package packd

import (
	"io"
)

// Reader is the decode cursor: a position-aware view over a contiguous input
// buffer. Bytes returned by Next, Rest and Sub alias the input (zero-copy);
// copy them if they must outlive the input.
//
// A Reader is created per decode call and is not safe for concurrent use.
type Reader struct {
	buf  []byte
	off  int
	base int // absolute offset of buf[0], for sub-readers
	opts Options
}

// NewReader returns a cursor positioned at the start of b.
func NewReader(b []byte, opts Options) *Reader {
	return &Reader{buf: b, opts: opts.withDefaults()}
}

// Pos returns the absolute input offset of the next unread byte.
func (r *Reader) Pos() int { return r.base + r.off }

// Len returns the number of unread bytes.
func (r *Reader) Len() int { return len(r.buf) - r.off }

// More reports whether unread bytes remain.
func (r *Reader) More() bool { return r.off < len(r.buf) }

// Options returns the options the reader was built with.
func (r *Reader) Options() Options { return r.opts }

// Logger returns the configured logger (never nil).
func (r *Reader) Logger() Logger { return r.opts.Logger }

// Next consumes exactly n bytes and returns them without copying. If fewer
// than n bytes remain nothing is consumed and a *LengthError is returned.
func (r *Reader) Next(n int) ([]byte, error) {
	if n < 0 || n > r.Len() {
		return nil, r.short(n)
	}
	b := r.buf[r.off : r.off+n : r.off+n]
	r.off += n
	return b, nil
}

// Rest returns the unread bytes without consuming them.
func (r *Reader) Rest() []byte { return r.buf[r.off:] }

// Skip consumes n bytes.
func (r *Reader) Skip(n int) error {
	_, err := r.Next(n)
	return err
}

// Sub consumes n bytes and returns a reader over exactly those bytes. Error
// offsets reported by the sub-reader stay absolute.
func (r *Reader) Sub(n int) (*Reader, error) {
	start := r.Pos()
	b, err := r.Next(n)
	if err != nil {
		return nil, err
	}
	return &Reader{buf: b, base: start, opts: r.opts}, nil
}

// Read implements io.Reader so self-delimiting formats can stream from the
// cursor. It returns io.EOF once the input is exhausted.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if !r.More() {
		return 0, io.EOF
	}
	n := copy(p, r.buf[r.off:])
	r.off += n
	return n, nil
}

// ReadByte implements io.ByteReader.
func (r *Reader) ReadByte() (byte, error) {
	if !r.More() {
		return 0, io.EOF
	}
	b := r.buf[r.off]
	r.off++
	return b, nil
}

// UnreadByte implements io.ByteScanner.
func (r *Reader) UnreadByte() error {
	if r.off == 0 {
		return io.ErrNoProgress
	}
	r.off--
	return nil
}

// Decode reads each field in order and stops at the first error.
func (r *Reader) Decode(fields ...Decodable) error {
	for _, f := range fields {
		if err := f.DecodeFrom(r); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reader) short(want int) error {
	return &LengthError{
		Offset: r.Pos(),
		Unit:   UnitBytes,
		Got:    r.Len(),
		Want:   want,
		Err:    io.ErrUnexpectedEOF,
	}
}
