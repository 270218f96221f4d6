package sim

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"acdimmer/core"
)

// Scenario is a bench run described in YAML:
//
//	mains:
//	  frequency: 59.8
//	  lead_us: 100
//	  jitter_us: 5
//	  bounces: 2
//	  bounce_spacing_us: 40
//	zero_cross:
//	  pin: 5
//	  delay_us: 100
//	  frequency: 60
//	duration_ms: 200
//	devices:
//	  - name: lamp
//	    pin: 12
//	    power: 128
//	    state: true
type Scenario struct {
	ClockStart uint32          `yaml:"clock_start"`
	DurationMS int             `yaml:"duration_ms"`
	WarmupHalf int             `yaml:"warmup_half_cycles"`
	Mains      MainsConfig     `yaml:"mains"`
	ZeroCross  ZeroCrossConfig `yaml:"zero_cross"`
	Devices    []DeviceConfig  `yaml:"devices"`
}

// MainsConfig describes the simulated detector signal.
type MainsConfig struct {
	Frequency       float64 `yaml:"frequency"`
	LeadUS          int     `yaml:"lead_us"`
	JitterUS        int     `yaml:"jitter_us"`
	Bounces         int     `yaml:"bounces"`
	BounceSpacingUS int     `yaml:"bounce_spacing_us"`
	Seed            int64   `yaml:"seed"`
}

// ZeroCrossConfig mirrors the firmware's ConfigZC arguments. A nil field is
// passed as the matching sentinel.
type ZeroCrossConfig struct {
	Pin       *uint32 `yaml:"pin"`
	DelayUS   *uint32 `yaml:"delay_us"`
	Frequency *uint32 `yaml:"frequency"`
}

// DeviceConfig is one dimmer on the bench.
type DeviceConfig struct {
	Name     string `yaml:"name"`
	Pin      uint32 `yaml:"pin"`
	Power    int    `yaml:"power"`
	State    bool   `yaml:"state"`
	PowerMin *uint8 `yaml:"power_min"`
	PowerMax *uint8 `yaml:"power_max"`
}

// LoadScenario reads, defaults and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes, defaults and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	applyDefaults(&s)
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("validating scenario: %w", err)
	}
	return &s, nil
}

// applyDefaults fills in missing values with sensible defaults
func applyDefaults(s *Scenario) {
	if s.DurationMS == 0 {
		s.DurationMS = 200
	}
	if s.WarmupHalf == 0 {
		s.WarmupHalf = 2
	}
	if s.Mains.Frequency == 0 {
		s.Mains.Frequency = core.DefaultUtilityFrequency
	}
	if s.Mains.Bounces > 0 && s.Mains.BounceSpacingUS == 0 {
		s.Mains.BounceSpacingUS = 50
	}
	if s.Mains.Seed == 0 {
		s.Mains.Seed = 1
	}
	for i := range s.Devices {
		if s.Devices[i].Name == "" {
			s.Devices[i].Name = fmt.Sprintf("dimmer%d", i)
		}
	}
}

// Validate checks the scenario for values the bench cannot run.
func (s *Scenario) Validate() error {
	var errs []string

	if s.DurationMS < 0 {
		errs = append(errs, "duration_ms must not be negative")
	}
	if s.Mains.Frequency < 0 {
		errs = append(errs, "mains.frequency must be positive")
	}
	if s.Mains.LeadUS < 0 || s.Mains.JitterUS < 0 || s.Mains.Bounces < 0 || s.Mains.BounceSpacingUS < 0 {
		errs = append(errs, "mains timings must not be negative")
	}
	if half := 1e6 / (2 * s.Mains.Frequency); s.Mains.Frequency > 0 &&
		float64(s.Mains.Bounces*s.Mains.BounceSpacingUS+s.Mains.JitterUS) >= half/2 {
		errs = append(errs, "mains bounce train must end within a quarter cycle")
	}
	if len(s.Devices) > core.MaxDevices {
		errs = append(errs, fmt.Sprintf("at most %d devices", core.MaxDevices))
	}
	seen := make(map[uint32]string)
	for _, d := range s.Devices {
		if other, ok := seen[d.Pin]; ok {
			errs = append(errs, fmt.Sprintf("devices %s and %s share pin %d", other, d.Name, d.Pin))
		}
		seen[d.Pin] = d.Name
		if s.ZeroCross.Pin != nil && *s.ZeroCross.Pin == d.Pin {
			errs = append(errs, fmt.Sprintf("device %s uses the zero-cross pin", d.Name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("scenario errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// mains converts the YAML form to a signal description.
func (m MainsConfig) mains() Mains {
	return Mains{
		FrequencyHz:   m.Frequency,
		Lead:          time.Duration(m.LeadUS) * time.Microsecond,
		Jitter:        time.Duration(m.JitterUS) * time.Microsecond,
		Bounces:       m.Bounces,
		BounceSpacing: time.Duration(m.BounceSpacingUS) * time.Microsecond,
		Seed:          m.Seed,
	}
}

func (z ZeroCrossConfig) args() (core.GPIOPin, uint32, uint32) {
	pin, delay, freq := core.PinUnset, core.DelayUnset, core.FrequencyUnset
	if z.Pin != nil {
		pin = core.GPIOPin(*z.Pin)
	}
	if z.DelayUS != nil {
		delay = *z.DelayUS
	}
	if z.Frequency != nil {
		freq = *z.Frequency
	}
	return pin, delay, freq
}
