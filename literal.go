package packd

import "io"

// Literal is a fixed byte sequence such as a file magic or a reserved field.
// Decoding validates the input against it and yields no value; encoding
// always writes it.
type Literal []byte

var _ Codec[struct{}] = Literal(nil)

// Decode consumes len(l) bytes, failing with a *MismatchError at the first
// byte that differs, or a *LengthError if the input ends first.
func (l Literal) Decode(r *Reader) (struct{}, error) {
	for i, want := range l {
		pos := r.Pos()
		got, err := r.ReadByte()
		if err != nil {
			return struct{}{}, &LengthError{
				Offset: pos,
				Unit:   UnitBytes,
				Got:    i,
				Want:   len(l),
				Err:    io.ErrUnexpectedEOF,
			}
		}
		if got != want {
			return struct{}{}, &MismatchError{Offset: pos, Index: i, Expected: want, Received: got}
		}
	}
	return struct{}{}, nil
}

// Encode writes the literal bytes. It cannot fail.
func (l Literal) Encode(w *Writer, _ struct{}) error {
	_, err := w.Write(l)
	return err
}

func (l Literal) Size() int { return len(l) }

// Expect is shorthand for decoding the literal as a record field.
func (l Literal) Expect() Decodable { return Into[struct{}](l, nil) }

// Put is shorthand for encoding the literal as a record field.
func (l Literal) Put() Encodable { return Bind[struct{}](l, struct{}{}) }
