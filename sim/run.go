package sim

import (
	"time"

	"acdimmer/core"
)

// foregroundSlice is how often the bench drains the trace ring.
const foregroundSlice = 5 * time.Millisecond

// DeviceResult is the measured behaviour of one scenario device.
type DeviceResult struct {
	Name     string
	Pin      core.GPIOPin
	Power    int     // level after clamping
	Expected float64 // mapped power / PowerLevels when on, else 0
	Summary  Summary
	Cycles   []Cycle
}

// Result is the outcome of a scenario run.
type Result struct {
	Installed  bool
	HalfPeriod uint32
	Stats      core.Stats
	Devices    []DeviceResult
	Trace      []core.TraceEvent
}

// RunScenario builds a bench for s, runs it and analyses every device.
func RunScenario(s *Scenario) (*Result, error) {
	b := NewBench(s.ClockStart)
	ctl := b.Controller

	pin, delay, freq := s.ZeroCross.args()
	ctl.ConfigZC(pin, delay, freq)
	if s.ZeroCross.Pin != nil {
		b.ConnectMains(pin, s.Mains.mains())
	}

	dimmers := make([]*core.Dimmer, 0, len(s.Devices))
	for _, dc := range s.Devices {
		var opts []core.Option
		if dc.PowerMin != nil || dc.PowerMax != nil {
			lo, hi := uint8(0), uint8(core.PowerLevels)
			if dc.PowerMin != nil {
				lo = *dc.PowerMin
			}
			if dc.PowerMax != nil {
				hi = *dc.PowerMax
			}
			opts = append(opts, core.WithPowerRange(lo, hi))
		}
		d, err := ctl.NewDimmer(core.GPIOPin(dc.Pin), opts...)
		if err != nil {
			return nil, err
		}
		if err := d.Setup(); err != nil {
			return nil, err
		}
		d.SetPower(dc.Power)
		d.SetState(dc.State)
		dimmers = append(dimmers, d)
	}

	// Run like a firmware main loop: drain the trace between slices.
	res := &Result{}
	drain := func(evt core.TraceEvent) {
		res.Trace = append(res.Trace, evt)
	}
	for left := time.Duration(s.DurationMS) * time.Millisecond; left > 0; left -= foregroundSlice {
		b.Run(min(left, foregroundSlice))
		ctl.DrainTrace(drain)
	}

	res.Installed = ctl.Installed()
	res.HalfPeriod = ctl.HalfPeriod()
	res.Stats = ctl.Stats()

	crossings := b.Crossings()
	for i, d := range dimmers {
		dr := DeviceResult{
			Name:  s.Devices[i].Name,
			Pin:   d.Pin(),
			Power: d.GetPower(),
		}
		if d.GetState() {
			dr.Expected = float64(d.MappedPower()) / core.PowerLevels
		}
		// Setup writes land at time zero, before the first crossing.
		dr.Cycles = AnalyzeCycles(b.GPIO.Transitions(d.Pin()), crossings, false)
		dr.Summary = Summarize(dr.Cycles, s.WarmupHalf)
		res.Devices = append(res.Devices, dr)
	}
	return res, nil
}
