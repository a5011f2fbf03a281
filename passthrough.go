package packd

// Marshaler is implemented by types that know their own packed layout.
type Marshaler interface {
	MarshalPacked(w *Writer) error
}

// Unmarshaler is the decode half of Marshaler, implemented on the pointer.
type Unmarshaler interface {
	UnmarshalPacked(r *Reader) error
}

type passthrough[T Marshaler, PT interface {
	*T
	Unmarshaler
}] struct{}

// Passthrough is the codec for a type that describes itself through
// Marshaler and Unmarshaler. It adds no bytes of its own, so a self-describing
// record nests inside sequences and framing like any other codec.
func Passthrough[T Marshaler, PT interface {
	*T
	Unmarshaler
}]() Codec[T] {
	return passthrough[T, PT]{}
}

func (passthrough[T, PT]) Decode(r *Reader) (T, error) {
	var v T
	if err := PT(&v).UnmarshalPacked(r); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

func (passthrough[T, PT]) Encode(w *Writer, v T) error {
	return v.MarshalPacked(w)
}
