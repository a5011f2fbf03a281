// Package codec holds whole-buffer value codecs: each one turns a complete
// []byte into a value and back, with no framing of its own. The store uses
// them for record bodies; package native adapts them into packd codecs.
package codec

// Codec encodes/decodes values V to a complete []byte.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
