// Package native adapts self-describing serialization formats to the packd
// codec contract. Each codec reads exactly one value from the cursor and adds
// no framing of its own, so they nest inside sequences and Sized frames.
// Errors from the underlying library are returned unchanged.
package native

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
	"google.golang.org/protobuf/encoding/protodelim"
	"google.golang.org/protobuf/proto"

	"github.com/unkn0wn-root/packd"
	"github.com/unkn0wn-root/packd/codec"
)

type msgpackCodec[T any] struct{}

// Msgpack reads one MessagePack object. The decoder pulls bytes through the
// cursor's io.ByteScanner, so it stops exactly at the end of the object.
func Msgpack[T any]() packd.Codec[T] { return msgpackCodec[T]{} }

func (msgpackCodec[T]) Decode(r *packd.Reader) (T, error) {
	var v T
	if err := msgpack.NewDecoder(r).Decode(&v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

func (msgpackCodec[T]) Encode(w *packd.Writer, v T) error {
	mark := w.Len()
	if err := msgpack.NewEncoder(w).Encode(v); err != nil {
		w.Truncate(mark)
		return err
	}
	return nil
}

type cborCodec[T any] struct {
	dec cbor.DecMode
	enc cbor.EncMode
}

// CBOR reads one CBOR data item with the given modes (see codec.CBORModes).
func CBOR[T any](dec cbor.DecMode, enc cbor.EncMode) packd.Codec[T] {
	return cborCodec[T]{dec: dec, enc: enc}
}

// MustCBOR is CBOR with modes from codec.CBORModes. It panics on error.
func MustCBOR[T any](deterministic bool) packd.Codec[T] {
	em, dm, err := codec.CBORModes(deterministic)
	if err != nil {
		panic(err)
	}
	return CBOR[T](dm, em)
}

func (c cborCodec[T]) Decode(r *packd.Reader) (T, error) {
	var v T
	in := r.Rest()
	rest, err := c.dec.UnmarshalFirst(in, &v)
	if err != nil {
		var zero T
		return zero, err
	}
	return v, r.Skip(len(in) - len(rest))
}

func (c cborCodec[T]) Encode(w *packd.Writer, v T) error {
	b, err := c.enc.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

type protoCodec[T proto.Message] struct {
	new func() T
}

// Proto reads one varint-delimited protobuf message. Options.MaxBytes, when
// set, caps the message size.
func Proto[T proto.Message](ctor func() T) packd.Codec[T] {
	return protoCodec[T]{new: ctor}
}

func (c protoCodec[T]) Decode(r *packd.Reader) (T, error) {
	m := c.new()
	opts := protodelim.UnmarshalOptions{}
	if limit := r.Options().MaxBytes; limit > 0 {
		opts.MaxSize = int64(limit)
	}
	if err := opts.UnmarshalFrom(r, m); err != nil {
		var zero T
		return zero, err
	}
	return m, nil
}

func (c protoCodec[T]) Encode(w *packd.Writer, v T) error {
	mark := w.Len()
	if _, err := protodelim.MarshalTo(w, v); err != nil {
		w.Truncate(mark)
		return err
	}
	return nil
}

type valueCodec[T any] struct {
	inner codec.Codec[T]
}

// Value runs a whole-buffer codec over the rest of the input. Wrap it in
// packd.Sized unless it is the last field.
func Value[T any](c codec.Codec[T]) packd.Codec[T] { return valueCodec[T]{inner: c} }

func (c valueCodec[T]) Decode(r *packd.Reader) (T, error) {
	b, _ := r.Next(r.Len())
	return c.inner.Decode(b)
}

func (c valueCodec[T]) Encode(w *packd.Writer, v T) error {
	b, err := c.inner.Encode(v)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
