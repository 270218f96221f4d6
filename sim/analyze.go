package sim

import "time"

// Cycle summarises one output over one true half-cycle.
type Cycle struct {
	Start      time.Duration // true zero crossing
	OnFraction float64       // share of the half-cycle the output was high
	FireDelay  time.Duration // from Start to the first low-to-high transition
	Fired      bool
}

// AnalyzeCycles splits the transitions of one pin into the half-cycles
// bounded by consecutive crossings. initial is the level before the first
// transition.
func AnalyzeCycles(transitions []Transition, crossings []time.Duration, initial bool) []Cycle {
	if len(crossings) < 2 {
		return nil
	}

	cycles := make([]Cycle, 0, len(crossings)-1)
	level := initial
	i := 0
	for k := 0; k+1 < len(crossings); k++ {
		start, end := crossings[k], crossings[k+1]

		// Level in force at the start of the window
		for i < len(transitions) && transitions[i].At <= start {
			level = transitions[i].Level
			i++
		}

		c := Cycle{Start: start}
		var on time.Duration
		last := start
		for i < len(transitions) && transitions[i].At < end {
			t := transitions[i]
			if level {
				on += t.At - last
			}
			if t.Level && !level && !c.Fired {
				c.Fired = true
				c.FireDelay = t.At - start
			}
			level = t.Level
			last = t.At
			i++
		}
		if level {
			on += end - last
		}
		c.OnFraction = float64(on) / float64(end-start)
		cycles = append(cycles, c)
	}
	return cycles
}

// Summary averages a run of cycles.
type Summary struct {
	Cycles         int
	MeanOnFraction float64
	MeanFireDelay  time.Duration
	FiredCycles    int
}

// Summarize averages cycles after dropping the first skip of them, which
// cover the time before the controller has a phase reference.
func Summarize(cycles []Cycle, skip int) Summary {
	if skip > len(cycles) {
		skip = len(cycles)
	}
	cycles = cycles[skip:]

	var s Summary
	var onSum float64
	var delaySum time.Duration
	for _, c := range cycles {
		onSum += c.OnFraction
		if c.Fired {
			delaySum += c.FireDelay
			s.FiredCycles++
		}
	}
	s.Cycles = len(cycles)
	if s.Cycles > 0 {
		s.MeanOnFraction = onSum / float64(s.Cycles)
	}
	if s.FiredCycles > 0 {
		s.MeanFireDelay = delaySum / time.Duration(s.FiredCycles)
	}
	return s
}
