package codec

import (
	"errors"

	"google.golang.org/protobuf/proto"
)

var errNilCtor = errors.New("codec: protobuf constructor is nil")

// Protobuf serializes one protobuf message per buffer. Output is
// deterministic so equal messages produce equal bytes, which keeps batch and
// checksum comparisons stable.
type Protobuf[T proto.Message] struct {
	new func() T // e.g. func() *pb.Item { return &pb.Item{} }
}

func NewProtobuf[T proto.Message](ctor func() T) Protobuf[T] {
	return Protobuf[T]{new: ctor}
}

var marshal = proto.MarshalOptions{Deterministic: true}

func (c Protobuf[T]) Encode(v T) ([]byte, error) {
	return marshal.Marshal(v)
}

func (c Protobuf[T]) Decode(b []byte) (T, error) {
	if c.new == nil {
		var zero T
		return zero, errNilCtor
	}
	m := c.new()
	if err := proto.Unmarshal(b, m); err != nil {
		var zero T
		return zero, err
	}
	return m, nil
}
