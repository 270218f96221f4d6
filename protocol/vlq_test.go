package protocol

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVLQKnownEncodings(t *testing.T) {
	tests := []struct {
		v    int32
		want []byte
	}{
		{0, []byte{0x00}},
		{-1, []byte{0x7F}},
		{95, []byte{0x5F}},
		{96, []byte{0x80, 0x60}},
		{1000, []byte{0x87, 0x68}},
	}
	for _, tc := range tests {
		out := NewScratchOutput()
		EncodeVLQInt(out, tc.v)
		assert.Equal(t, tc.want, out.Result(), "encode %d", tc.v)
	}
}

func TestVLQUintClockValues(t *testing.T) {
	// Trace clocks use the whole 32-bit range.
	for _, v := range []uint32{0, 8333, 1 << 26, math.MaxInt32, math.MaxInt32 + 1, math.MaxUint32 - 50, math.MaxUint32} {
		out := NewScratchOutput()
		EncodeVLQUint(out, v)
		require.LessOrEqual(t, len(out.Result()), MaxVLQSize)

		data := out.Result()
		got, err := DecodeVLQUint(&data)
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Empty(t, data)
	}
}

func TestVLQBufferTooSmall(t *testing.T) {
	data := []byte{0x80} // Continuation byte but no following byte
	_, err := DecodeVLQInt(&data)
	assert.ErrorIs(t, err, ErrBufferTooSmall)

	data = nil
	_, err = DecodeVLQInt(&data)
	assert.ErrorIs(t, err, ErrBufferTooSmall)
}

func TestVLQOverlong(t *testing.T) {
	data := []byte{0x81, 0x81, 0x81, 0x81, 0x81, 0x01}
	_, err := DecodeVLQInt(&data)
	assert.ErrorIs(t, err, ErrInvalidVLQ)
}

func TestScratchOutputOverflow(t *testing.T) {
	out := NewScratchOutput()
	out.Output(make([]byte, FrameMax*4-1))
	assert.False(t, out.Overflowed())
	out.OutputByte(1)
	assert.False(t, out.Overflowed())
	out.OutputByte(2)
	assert.True(t, out.Overflowed())

	out.Reset()
	assert.False(t, out.Overflowed())
	assert.Zero(t, out.CurPosition())
}
