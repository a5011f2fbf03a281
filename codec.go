package packd

import "fmt"

// Codec describes one packed binary layout for values of type T: how to read
// a T from a Reader and how to write one to a Writer.
//
// Codecs are immutable once constructed and hold configuration only, so one
// codec value can be reused for any number of calls and shared between
// goroutines. Decode may be invoked repeatedly on the same codec (sequence
// codecs call their item codec once per element).
type Codec[T any] interface {
	Decode(r *Reader) (T, error)
	Encode(w *Writer, v T) error
}

// Sizer is implemented by codecs whose encoded form always has the same
// number of bytes. Sequence codecs use it to validate counts up front.
type Sizer interface {
	Size() int
}

// SizeOf returns the fixed encoded size of c, if it has one.
func SizeOf[T any](c Codec[T]) (int, bool) {
	s, ok := c.(Sizer)
	if !ok {
		return 0, false
	}
	return s.Size(), true
}

// Encodable is a value bound to the codec that writes it. See Bind.
type Encodable interface {
	EncodeTo(w *Writer) error
}

// Decodable is a destination bound to the codec that fills it. See Into.
type Decodable interface {
	DecodeFrom(r *Reader) error
}

type bound[T any] struct {
	c Codec[T]
	v T
}

func (b bound[T]) EncodeTo(w *Writer) error { return b.c.Encode(w, b.v) }

// Bind pairs a codec with a value for Writer.Encode. The pairing is only
// meant to live for the call that writes it.
func Bind[T any](c Codec[T], v T) Encodable { return bound[T]{c: c, v: v} }

type into[T any] struct {
	c   Codec[T]
	dst *T
}

func (d into[T]) DecodeFrom(r *Reader) error {
	v, err := d.c.Decode(r)
	if err != nil {
		return err
	}
	if d.dst != nil {
		*d.dst = v
	}
	return nil
}

// Into pairs a codec with a destination for Reader.Decode. A nil dst decodes
// and discards the value (useful for literals and reserved fields).
func Into[T any](c Codec[T], dst *T) Decodable { return into[T]{c: c, dst: dst} }

type funcCodec[T any] struct {
	dec func(*Reader) (T, error)
	enc func(*Writer, T) error
}

func (f funcCodec[T]) Decode(r *Reader) (T, error) { return f.dec(r) }
func (f funcCodec[T]) Encode(w *Writer, v T) error { return f.enc(w, v) }

// Func builds a codec from a pair of functions. It is the usual way to
// describe a record: decode the fields in order with Reader.Decode and encode
// them in the same order with Writer.Encode.
func Func[T any](dec func(*Reader) (T, error), enc func(*Writer, T) error) Codec[T] {
	return funcCodec[T]{dec: dec, enc: enc}
}

type mapCodec[A, B any] struct {
	inner Codec[A]
	to    func(A) (B, error)
	from  func(B) (A, error)
}

func (m mapCodec[A, B]) Decode(r *Reader) (B, error) {
	a, err := m.inner.Decode(r)
	if err != nil {
		var zero B
		return zero, err
	}
	return m.to(a)
}

func (m mapCodec[A, B]) Encode(w *Writer, v B) error {
	a, err := m.from(v)
	if err != nil {
		return err
	}
	return m.inner.Encode(w, a)
}

type sizedMap[A, B any] struct {
	mapCodec[A, B]
	n int
}

func (s sizedMap[A, B]) Size() int { return s.n }

// Map converts between the representation a codec works with (A) and the
// type callers want (B), e.g. a 3-element slice and a [3]float32.
func Map[A, B any](c Codec[A], to func(A) (B, error), from func(B) (A, error)) Codec[B] {
	m := mapCodec[A, B]{inner: c, to: to, from: from}
	if n, ok := SizeOf(c); ok {
		return sizedMap[A, B]{mapCodec: m, n: n}
	}
	return m
}

// Marshal encodes v into a new buffer.
func Marshal[T any](c Codec[T], v T) ([]byte, error) {
	return MarshalWith(Options{}, c, v)
}

// MarshalWith is Marshal with explicit options.
func MarshalWith[T any](opts Options, c Codec[T], v T) ([]byte, error) {
	w := NewWriter(opts)
	if err := c.Encode(w, v); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Append encodes v and appends the bytes to dst. On error dst is returned
// unchanged.
func Append[T any](dst []byte, c Codec[T], v T) ([]byte, error) {
	w := NewWriter(Options{})
	if err := c.Encode(w, v); err != nil {
		return dst, err
	}
	return append(dst, w.Bytes()...), nil
}

// Unmarshal decodes a T that must occupy all of b.
func Unmarshal[T any](c Codec[T], b []byte) (T, error) {
	return UnmarshalWith(Options{}, c, b)
}

// UnmarshalWith is Unmarshal with explicit options.
func UnmarshalWith[T any](opts Options, c Codec[T], b []byte) (T, error) {
	r := NewReader(b, opts)
	v, err := c.Decode(r)
	if err != nil {
		var zero T
		return zero, err
	}
	if r.More() && !r.opts.AllowTrailing {
		var zero T
		return zero, fmt.Errorf("%w: %d bytes at offset %d", ErrTrailingData, r.Len(), r.Pos())
	}
	return v, nil
}

// UnmarshalPrefix decodes a T from the start of b and returns the unread rest.
func UnmarshalPrefix[T any](c Codec[T], b []byte) (T, []byte, error) {
	r := NewReader(b, Options{})
	v, err := c.Decode(r)
	if err != nil {
		var zero T
		return zero, b, err
	}
	return v, r.Rest(), nil
}
