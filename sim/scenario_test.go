package sim

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acdimmer/core"
)

const benchYAML = `
clock_start: 4294900000
duration_ms: 150
mains:
  frequency: 60
  lead_us: 100
  jitter_us: 4
  bounces: 2
  bounce_spacing_us: 40
  seed: 3
zero_cross:
  pin: 5
  delay_us: 100
  frequency: 60
devices:
  - name: lamp
    pin: 12
    power: 128
    state: true
  - pin: 13
    power: 300
    state: true
  - name: fan
    pin: 14
    power: 128
    state: true
    power_min: 100
    power_max: 200
  - name: spare
    pin: 15
    power: 128
`

func TestParseScenarioDefaults(t *testing.T) {
	s, err := ParseScenario([]byte("zero_cross:\n  pin: 5\ndevices:\n  - pin: 2\n"))
	require.NoError(t, err)

	assert.Equal(t, 200, s.DurationMS)
	assert.Equal(t, 2, s.WarmupHalf)
	assert.Equal(t, float64(core.DefaultUtilityFrequency), s.Mains.Frequency)
	assert.Equal(t, int64(1), s.Mains.Seed)
	assert.Zero(t, s.Mains.BounceSpacingUS)
	assert.Equal(t, "dimmer0", s.Devices[0].Name)

	pin, delay, freq := s.ZeroCross.args()
	assert.Equal(t, core.GPIOPin(5), pin)
	assert.Equal(t, uint32(core.DelayUnset), delay)
	assert.Equal(t, uint32(core.FrequencyUnset), freq)
}

func TestParseScenarioBounceSpacingDefault(t *testing.T) {
	s, err := ParseScenario([]byte("mains:\n  bounces: 3\n"))
	require.NoError(t, err)
	assert.Equal(t, 50, s.Mains.BounceSpacingUS)
	assert.Equal(t, 50*time.Microsecond, s.Mains.mains().BounceSpacing)
}

func TestScenarioValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"negative duration", "duration_ms: -1", "duration_ms"},
		{"negative frequency", "mains:\n  frequency: -50", "mains.frequency"},
		{"negative timing", "mains:\n  lead_us: -3", "mains timings"},
		{"long bounce train", "mains:\n  bounces: 50\n  bounce_spacing_us: 100", "quarter cycle"},
		{"shared pin", "devices:\n  - {name: a, pin: 3}\n  - {name: b, pin: 3}", "devices a and b share pin 3"},
		{"zero-cross pin", "zero_cross:\n  pin: 3\ndevices:\n  - {name: a, pin: 3}", "device a uses the zero-cross pin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestScenarioTooManyDevices(t *testing.T) {
	s := &Scenario{Mains: MainsConfig{Frequency: 60}}
	for i := 0; i <= core.MaxDevices; i++ {
		s.Devices = append(s.Devices, DeviceConfig{Name: "d", Pin: uint32(i)})
	}
	assert.ErrorContains(t, s.Validate(), "at most 16 devices")
}

func TestParseScenarioRejectsBadYAML(t *testing.T) {
	_, err := ParseScenario([]byte("devices: [oops"))
	assert.ErrorContains(t, err, "parsing scenario")
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(benchYAML), 0o644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	require.Len(t, s.Devices, 4)
	assert.Equal(t, "dimmer1", s.Devices[1].Name)
	require.NotNil(t, s.Devices[2].PowerMax)
	assert.Equal(t, uint8(200), *s.Devices[2].PowerMax)

	_, err = LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading scenario")
}

func TestRunScenario(t *testing.T) {
	s, err := ParseScenario([]byte(benchYAML))
	require.NoError(t, err)

	res, err := RunScenario(s)
	require.NoError(t, err)

	assert.True(t, res.Installed)
	assert.Equal(t, uint32(8333), res.HalfPeriod)
	assert.Equal(t, 2*res.Stats.Edges, res.Stats.Bounces)
	assert.Zero(t, res.Stats.Dropped)
	assert.NotEmpty(t, res.Trace)

	require.Len(t, res.Devices, 4)
	lamp, full, fan, spare := res.Devices[0], res.Devices[1], res.Devices[2], res.Devices[3]

	assert.InDelta(t, lamp.Expected, lamp.Summary.MeanOnFraction, 0.02)

	assert.Equal(t, core.PowerLevels, full.Power)
	assert.Equal(t, 1.0, full.Summary.MeanOnFraction)

	// 128 of 255 over [100, 200] maps to about 150.
	assert.InDelta(t, 150.0/255, fan.Expected, 0.01)
	assert.InDelta(t, fan.Expected, fan.Summary.MeanOnFraction, 0.02)

	assert.Zero(t, spare.Expected)
	assert.Zero(t, spare.Summary.MeanOnFraction)
}

func TestRunScenarioWithoutZeroCross(t *testing.T) {
	s, err := ParseScenario([]byte("devices:\n  - {pin: 4, power: 255, state: true}\n"))
	require.NoError(t, err)

	res, err := RunScenario(s)
	require.NoError(t, err)
	assert.False(t, res.Installed)
	assert.Zero(t, res.Stats.Ticks)
	assert.Empty(t, res.Devices[0].Cycles, "no mains means no half-cycles to analyse")
}

func TestBoardProfileScenario(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "board.yaml"))
	require.NoError(t, err)

	res, err := RunScenario(s)
	require.NoError(t, err)
	for _, d := range res.Devices {
		assert.InDelta(t, d.Expected, d.Summary.MeanOnFraction, 0.02, d.Name)
		assert.Equal(t, d.Summary.Cycles, d.Summary.FiredCycles, d.Name)
	}
	assert.Zero(t, res.Stats.Dropped)
}
