package conv

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToUint32(t *testing.T) {
	t.Run("valid zero", func(t *testing.T) {
		got, err := To[uint32](0)
		assert.NoError(t, err)
		assert.Equal(t, uint32(0), got)
	})

	t.Run("valid max uint32", func(t *testing.T) {
		got, err := To[uint32](int64(math.MaxUint32))
		assert.NoError(t, err)
		assert.Equal(t, uint32(math.MaxUint32), got)
	})

	t.Run("invalid negative", func(t *testing.T) {
		_, err := To[uint32](-1)
		assert.ErrorIs(t, err, ErrOverflow)
	})

	t.Run("invalid too large", func(t *testing.T) {
		_, err := To[uint32](uint64(math.MaxUint32) + 1)
		assert.ErrorIs(t, err, ErrOverflow)
	})
}

func TestToSigned(t *testing.T) {
	t.Run("int8 range", func(t *testing.T) {
		got, err := To[int8](int32(-128))
		assert.NoError(t, err)
		assert.Equal(t, int8(-128), got)

		_, err = To[int8](int32(128))
		assert.Error(t, err)
	})

	t.Run("uint64 to int64 high bit", func(t *testing.T) {
		_, err := To[int64](uint64(math.MaxInt64) + 1)
		assert.Error(t, err)
	})

	t.Run("int16 negative to uint8", func(t *testing.T) {
		_, err := To[uint8](int16(-1))
		assert.Error(t, err)
	})
}

func TestLen(t *testing.T) {
	t.Run("valid uint32", func(t *testing.T) {
		got, err := Len(uint32(5))
		assert.NoError(t, err)
		assert.Equal(t, 5, got)
	})

	t.Run("negative int32", func(t *testing.T) {
		_, err := Len(int32(-3))
		require.Error(t, err)

		var oe *OverflowError
		require.True(t, errors.As(err, &oe))
		assert.Equal(t, "negative", oe.Reason)
		assert.Equal(t, "-3", oe.Value)
		assert.Equal(t, "int32", oe.From)
		assert.Equal(t, "int", oe.To)
	})

	t.Run("zero", func(t *testing.T) {
		got, err := Len(uint8(0))
		assert.NoError(t, err)
		assert.Equal(t, 0, got)
	})
}

func TestOverflowErrorMessage(t *testing.T) {
	_, err := To[uint16](70000)
	require.Error(t, err)
	assert.Equal(t, "integer overflow: 70000 (int) cannot be converted to uint16 (too large)", err.Error())
}

func TestMustTo(t *testing.T) {
	assert.Equal(t, uint16(7), MustTo[uint16](7))
	assert.Panics(t, func() { _ = MustTo[uint8](300) })
}
