package sim

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acdimmer/core"
)

const zcPin = core.GPIOPin(5)

func newMainsBench(t *testing.T, start uint32, m Mains, delay uint32, powers ...int) (*Bench, []*core.Dimmer) {
	t.Helper()
	b := NewBench(start)
	b.Controller.ConfigZC(zcPin, delay, 60)
	b.ConnectMains(zcPin, m)

	var dims []*core.Dimmer
	for i, p := range powers {
		d, err := b.Controller.NewDimmer(core.GPIOPin(10 + i))
		require.NoError(t, err)
		require.NoError(t, d.Setup())
		d.SetPower(p)
		d.SetState(true)
		dims = append(dims, d)
	}
	return b, dims
}

func onFraction(b *Bench, d *core.Dimmer) Summary {
	cycles := AnalyzeCycles(b.GPIO.Transitions(d.Pin()), b.Crossings(), false)
	return Summarize(cycles, 2)
}

func TestBenchInstallsHandlers(t *testing.T) {
	b, _ := newMainsBench(t, 0, Mains{FrequencyHz: 60}, 0, 10)
	assert.True(t, b.GPIO.IsInputPullUp(zcPin))
	assert.True(t, b.GPIO.IsOutput(10))
	assert.Equal(t, core.TickInterval(8333), b.IRQ.Interval())

	b.Run(100 * time.Millisecond)
	stats := b.Controller.Stats()
	// 100ms of 32.678µs ticks
	assert.InDelta(t, 3060, int(stats.Ticks), 2)
	assert.Equal(t, uint32(12), stats.Edges)
}

func TestBenchConductionMatchesPower(t *testing.T) {
	m := Mains{FrequencyHz: 60, Lead: 100 * time.Microsecond}
	b, dims := newMainsBench(t, 0, m, 100, 64, 128, 192)
	b.Run(200 * time.Millisecond)

	prev := 0.0
	for _, d := range dims {
		s := onFraction(b, d)
		require.Greater(t, s.Cycles, 20)
		want := float64(d.MappedPower()) / core.PowerLevels
		assert.InDelta(t, want, s.MeanOnFraction, 0.02, "power %d", d.GetPower())
		assert.Equal(t, s.Cycles, s.FiredCycles)
		assert.Greater(t, s.MeanOnFraction, prev)
		prev = s.MeanOnFraction
	}
}

func TestBenchFireDelayInverseToPower(t *testing.T) {
	m := Mains{FrequencyHz: 60, Lead: 100 * time.Microsecond}
	b, dims := newMainsBench(t, 0, m, 100, 50, 200)
	b.Run(100 * time.Millisecond)

	low := onFraction(b, dims[0])
	high := onFraction(b, dims[1])
	assert.Greater(t, low.MeanFireDelay, high.MeanFireDelay)
	// 200/255 leaves about 21.6% of 8333µs before firing.
	assert.InDelta(t, 1800, high.MeanFireDelay.Microseconds(), 60)
}

func TestBenchDiscreteLevels(t *testing.T) {
	b, dims := newMainsBench(t, 0, Mains{FrequencyHz: 60}, 0, 0, core.PowerLevels)
	b.Run(100 * time.Millisecond)

	assert.Equal(t, 0.0, onFraction(b, dims[0]).MeanOnFraction)
	assert.Equal(t, 1.0, onFraction(b, dims[1]).MeanOnFraction)
	assert.False(t, b.GPIO.Level(10))
	assert.True(t, b.GPIO.Level(11))
}

func TestBenchRejectsBounce(t *testing.T) {
	m := Mains{FrequencyHz: 60, Bounces: 2, BounceSpacing: 40 * time.Microsecond}
	b, dims := newMainsBench(t, 0, m, 0, 128)
	b.Run(100 * time.Millisecond)

	stats := b.Controller.Stats()
	assert.Equal(t, uint32(12), stats.Edges)
	assert.Equal(t, uint32(24), stats.Bounces)
	assert.InDelta(t, 0.502, onFraction(b, dims[0]).MeanOnFraction, 0.02)
}

func TestBenchAcrossClockWrap(t *testing.T) {
	m := Mains{FrequencyHz: 60, Lead: 100 * time.Microsecond, Jitter: 5 * time.Microsecond, Seed: 7}
	b, dims := newMainsBench(t, math.MaxUint32-30000, m, 100, 128)
	b.Run(100 * time.Millisecond)

	assert.Less(t, b.Clock.Micros(), uint32(100000), "counter wrapped during the run")
	for _, c := range AnalyzeCycles(b.GPIO.Transitions(dims[0].Pin()), b.Crossings(), false)[2:] {
		assert.InDelta(t, 0.502, c.OnFraction, 0.02, "cycle at %v", c.Start)
	}
}

func TestBenchToleratesFrequencyDrift(t *testing.T) {
	m := Mains{FrequencyHz: 59.5, Lead: 100 * time.Microsecond}
	b, dims := newMainsBench(t, 0, m, 100, 128)
	b.Run(200 * time.Millisecond)

	s := onFraction(b, dims[0])
	assert.InDelta(t, 0.506, s.MeanOnFraction, 0.02)
	assert.Equal(t, s.Cycles, s.FiredCycles)
}

func TestBenchWithoutZeroCrossPin(t *testing.T) {
	b := NewBench(0)
	d, err := b.Controller.NewDimmer(10)
	require.NoError(t, err)
	require.NoError(t, d.Setup())

	d.SetPower(core.PowerLevels)
	d.SetState(true)
	d.SetPower(100)
	b.Run(50 * time.Millisecond)

	assert.False(t, b.Controller.Installed())
	assert.Zero(t, b.IRQ.Interval())
	assert.True(t, b.GPIO.Level(10), "intermediate level holds the last discrete output")
}

func TestIRQAttachRules(t *testing.T) {
	clock := NewClock(0)
	gpio := NewGPIO(clock)
	irq := NewIRQ(gpio)
	noop := func() {}

	assert.ErrorIs(t, irq.AttachEdgeInterrupt(5, core.EdgeRising, noop), ErrPinNotInput)
	require.NoError(t, gpio.ConfigureInputPullUp(5))
	assert.ErrorIs(t, irq.AttachEdgeInterrupt(5, core.EdgeFalling, noop), ErrUnsupportedEdge)
	require.NoError(t, irq.AttachEdgeInterrupt(5, core.EdgeRising, noop))
	assert.ErrorIs(t, irq.AttachEdgeInterrupt(5, core.EdgeRising, noop), ErrEdgeInUse)

	assert.ErrorIs(t, irq.AttachPeriodicTimer(0, noop), ErrBadInterval)
	require.NoError(t, irq.AttachPeriodicTimer(time.Millisecond, noop))
	assert.ErrorIs(t, irq.AttachPeriodicTimer(time.Millisecond, noop), ErrTimerInUse)
}

func TestGPIORecordsOnlyChanges(t *testing.T) {
	clock := NewClock(0)
	gpio := NewGPIO(clock)
	require.NoError(t, gpio.SetPin(3, false))
	require.NoError(t, gpio.SetPin(3, true))
	clock.setElapsed(int64(time.Millisecond))
	require.NoError(t, gpio.SetPin(3, true))
	require.NoError(t, gpio.SetPin(3, false))

	assert.Equal(t, 4, gpio.Writes())
	assert.Equal(t, []Transition{
		{Pin: 3, At: 0, Level: true},
		{Pin: 3, At: time.Millisecond, Level: false},
	}, gpio.Transitions(3))
}
