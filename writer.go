package packd

import (
	"bytes"
	"io"
)

// Writer is the encode sink: a growable output buffer plus the per-call
// options. It is created per encode call and is not safe for concurrent use.
type Writer struct {
	buf  bytes.Buffer
	opts Options
}

// NewWriter returns an empty writer.
func NewWriter(opts Options) *Writer {
	return &Writer{opts: opts.withDefaults()}
}

// Write implements io.Writer. It never fails.
func (w *Writer) Write(p []byte) (int, error) { return w.buf.Write(p) }

// WriteByte implements io.ByteWriter. It never fails.
func (w *Writer) WriteByte(b byte) error { return w.buf.WriteByte(b) }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return w.buf.Len() }

// Bytes returns the written bytes. The slice is valid until the next write.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// Truncate discards all but the first n written bytes.
func (w *Writer) Truncate(n int) { w.buf.Truncate(n) }

// Reset empties the writer, keeping its capacity.
func (w *Writer) Reset() { w.buf.Reset() }

// Grow reserves room for n more bytes.
func (w *Writer) Grow(n int) { w.buf.Grow(n) }

// WriteTo implements io.WriterTo, draining the buffer into dst.
func (w *Writer) WriteTo(dst io.Writer) (int64, error) { return w.buf.WriteTo(dst) }

// Options returns the options the writer was built with.
func (w *Writer) Options() Options { return w.opts }

// Logger returns the configured logger (never nil).
func (w *Writer) Logger() Logger { return w.opts.Logger }

// Encode writes each field in order. On error the writer is rolled back to
// its length before the call, so a failed record leaves no partial bytes.
func (w *Writer) Encode(fields ...Encodable) error {
	mark := w.Len()
	for _, f := range fields {
		if err := f.EncodeTo(w); err != nil {
			w.Truncate(mark)
			return err
		}
	}
	return nil
}
