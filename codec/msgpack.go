package codec

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/unkn0wn-root/packd"
)

// Msgpack serializes values with vmihailenco/msgpack/v5. The zero value
// writes structs as maps with `msgpack:"name"` tags.
type Msgpack[V any] struct {
	// Compact stores integers and floats in the smallest msgpack type that
	// holds them exactly.
	Compact bool
	// AsArray stores structs as positional arrays instead of maps.
	AsArray bool
}

func (c Msgpack[V]) Encode(v V) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.UseCompactInts(c.Compact)
	enc.UseCompactFloats(c.Compact)
	enc.UseArrayEncodedStructs(c.AsArray)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode rejects bytes left after the first value.
func (c Msgpack[V]) Decode(b []byte) (V, error) {
	var v V
	r := bytes.NewReader(b)
	if err := msgpack.NewDecoder(r).Decode(&v); err != nil {
		return v, err
	}
	if r.Len() > 0 {
		var zero V
		return zero, fmt.Errorf("%w: %d bytes after msgpack value", packd.ErrTrailingData, r.Len())
	}
	return v, nil
}
