package core

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHalfPeriodUS(t *testing.T) {
	assert.Equal(t, uint32(8333), HalfPeriodUS(60))
	assert.Equal(t, uint32(10000), HalfPeriodUS(50))
	assert.Equal(t, uint32(0), HalfPeriodUS(0))
}

func TestTickInterval(t *testing.T) {
	// 8333µs / 255 ≈ 32.678µs
	assert.Equal(t, 32678*time.Nanosecond, TickInterval(8333))
	assert.LessOrEqual(t, TickInterval(8333)*PowerLevels, 8333*time.Microsecond)
}

func TestIsFutureWraparound(t *testing.T) {
	tests := []struct {
		name   string
		now    uint32
		t      uint32
		future bool
	}{
		{"equal", 1000, 1000, false},
		{"past", 1000, 900, false},
		{"future", 900, 1000, true},
		{"candidate wrapped past max, now before wrap", math.MaxUint32 - 50, 49, true},
		{"now wrapped, candidate just before max", 49, math.MaxUint32 - 50, false},
		{"now at max, candidate at zero", math.MaxUint32, 0, true},
		{"now at zero, candidate at max", 0, math.MaxUint32, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.future, IsFuture(tc.now, tc.t))
		})
	}
}

func TestElapsedAcrossWrap(t *testing.T) {
	assert.Equal(t, uint32(100), Elapsed(49, math.MaxUint32-50))
	assert.Equal(t, uint32(0), Elapsed(7, 7))
}

func TestClockFunc(t *testing.T) {
	var c Clock = ClockFunc(func() uint32 { return 42 })
	assert.Equal(t, uint32(42), c.Micros())
}
