package codec

import (
	"fmt"

	"github.com/unkn0wn-root/packd"
)

// Limit rejects payloads longer than MaxDecode before Inner sees them.
// MaxDecode <= 0 disables the check. Encode is forwarded unchanged.
type Limit[V any] struct {
	Inner     Codec[V]
	MaxDecode int
}

func (c Limit[V]) Encode(v V) ([]byte, error) { return c.Inner.Encode(v) }

func (c Limit[V]) Decode(b []byte) (V, error) {
	if c.MaxDecode > 0 && len(b) > c.MaxDecode {
		var zero V
		return zero, fmt.Errorf("%w: payload %d > %d", packd.ErrTooLarge, len(b), c.MaxDecode)
	}
	return c.Inner.Decode(b)
}
