package core

// PowerLevels is the number of discrete power steps shared by all devices.
// Level 0 is fully off and PowerLevels is fully on.
const PowerLevels = 255

// Sentinels accepted by ConfigZC to leave a field unchanged.
const (
	DelayUnset     = uint32(0xFFFFFFFF)
	FrequencyUnset = uint32(0)
)

// Defaults applied to a fresh controller.
const (
	DefaultCalibrationDelay = 0  // microseconds
	DefaultUtilityFrequency = 60 // Hz
)

// ZCConfig holds the zero-cross input configuration shared by every device
// on a controller.
type ZCConfig struct {
	Pin              GPIOPin // zero-cross detector input
	CalibrationDelay uint32  // microseconds from detected edge to true zero crossing
	FrequencyHz      uint32  // mains frequency
}

// DefaultZCConfig returns the configuration a controller starts with.
// The pin is unset, so no interrupts are installed until ConfigZC names one.
func DefaultZCConfig() ZCConfig {
	return ZCConfig{
		Pin:              PinUnset,
		CalibrationDelay: DefaultCalibrationDelay,
		FrequencyHz:      DefaultUtilityFrequency,
	}
}

// HalfPeriod returns the half-cycle length in microseconds.
func (c ZCConfig) HalfPeriod() uint32 {
	return HalfPeriodUS(c.FrequencyHz)
}

// merge applies the non-sentinel fields of pin, delay and frequency.
// A frequency whose half-cycle rounds to 0 µs is ignored, so the periodic
// timer never gets a zero interval.
func (c *ZCConfig) merge(pin GPIOPin, delay, frequency uint32) {
	if pin != PinUnset {
		c.Pin = pin
	}
	if delay != DelayUnset {
		c.CalibrationDelay = delay
	}
	if frequency != FrequencyUnset && HalfPeriodUS(frequency) != 0 {
		c.FrequencyHz = frequency
	}
}
