// Package sim runs the dimmer core against a simulated clock, GPIO bank and
// interrupt controller so phase timing can be exercised on the host.
package sim

import (
	"errors"
	"time"

	"acdimmer/core"
)

var (
	ErrEdgeInUse       = errors.New("edge interrupt already attached")
	ErrTimerInUse      = errors.New("periodic timer already attached")
	ErrBadInterval     = errors.New("timer interval must be positive")
	ErrPinNotInput     = errors.New("pin not configured as input")
	ErrUnsupportedEdge = errors.New("unsupported edge")
)

// Clock is a virtual microsecond counter. It keeps an unwrapped 64-bit time
// alongside the 32-bit value the core sees, so analysis is unaffected by
// wraparound.
type Clock struct {
	start     uint32
	elapsedNs int64
}

// NewClock returns a clock whose counter reads start at virtual time zero.
func NewClock(start uint32) *Clock {
	return &Clock{start: start}
}

// Micros returns the wrapped counter value.
func (c *Clock) Micros() uint32 {
	return c.start + uint32(c.elapsedNs/1000)
}

// Elapsed returns the unwrapped virtual time since the clock started.
func (c *Clock) Elapsed() time.Duration {
	return time.Duration(c.elapsedNs)
}

// setElapsed moves virtual time; it never goes backwards.
func (c *Clock) setElapsed(ns int64) {
	if ns > c.elapsedNs {
		c.elapsedNs = ns
	}
}

// Transition is one recorded change of an output level.
type Transition struct {
	Pin   core.GPIOPin
	At    time.Duration // unwrapped virtual time
	Level bool
}

type pinMode uint8

const (
	modeUnset pinMode = iota
	modeOutput
	modeInputPullUp
)

// GPIO is a simulated pin bank that logs every output transition.
type GPIO struct {
	clock  *Clock
	modes  map[core.GPIOPin]pinMode
	levels map[core.GPIOPin]bool
	log    []Transition
	writes int
}

// NewGPIO creates a pin bank timestamped by clock.
func NewGPIO(clock *Clock) *GPIO {
	return &GPIO{
		clock:  clock,
		modes:  make(map[core.GPIOPin]pinMode),
		levels: make(map[core.GPIOPin]bool),
	}
}

func (g *GPIO) ConfigureOutput(pin core.GPIOPin) error {
	g.modes[pin] = modeOutput
	return nil
}

func (g *GPIO) ConfigureInputPullUp(pin core.GPIOPin) error {
	g.modes[pin] = modeInputPullUp
	g.levels[pin] = true
	return nil
}

// SetPin records a transition when the level actually changes.
func (g *GPIO) SetPin(pin core.GPIOPin, value bool) error {
	g.writes++
	if g.levels[pin] == value {
		return nil
	}
	g.levels[pin] = value
	g.log = append(g.log, Transition{Pin: pin, At: g.clock.Elapsed(), Level: value})
	return nil
}

// Level returns the current level of pin.
func (g *GPIO) Level(pin core.GPIOPin) bool {
	return g.levels[pin]
}

// IsOutput reports whether pin was configured as an output.
func (g *GPIO) IsOutput(pin core.GPIOPin) bool {
	return g.modes[pin] == modeOutput
}

// IsInputPullUp reports whether pin was configured as a pulled-up input.
func (g *GPIO) IsInputPullUp(pin core.GPIOPin) bool {
	return g.modes[pin] == modeInputPullUp
}

// Writes returns the number of SetPin calls, including redundant ones.
func (g *GPIO) Writes() int {
	return g.writes
}

// Transitions returns the recorded transitions of pin in time order.
func (g *GPIO) Transitions(pin core.GPIOPin) []Transition {
	var out []Transition
	for _, t := range g.log {
		if t.Pin == pin {
			out = append(out, t)
		}
	}
	return out
}

// IRQ is a simulated interrupt controller with one edge source per pin and
// a single periodic timer, like a board with one free hardware alarm.
type IRQ struct {
	gpio     *GPIO
	edges    map[core.GPIOPin]func()
	timer    func()
	interval time.Duration
}

// NewIRQ creates an interrupt controller for pins of gpio.
func NewIRQ(gpio *GPIO) *IRQ {
	return &IRQ{
		gpio:  gpio,
		edges: make(map[core.GPIOPin]func()),
	}
}

func (i *IRQ) AttachEdgeInterrupt(pin core.GPIOPin, edge core.Edge, fn func()) error {
	if edge != core.EdgeRising {
		return ErrUnsupportedEdge
	}
	if !i.gpio.IsInputPullUp(pin) {
		return ErrPinNotInput
	}
	if _, ok := i.edges[pin]; ok {
		return ErrEdgeInUse
	}
	i.edges[pin] = fn
	return nil
}

func (i *IRQ) AttachPeriodicTimer(interval time.Duration, fn func()) error {
	if interval <= 0 {
		return ErrBadInterval
	}
	if i.timer != nil {
		return ErrTimerInUse
	}
	i.timer = fn
	i.interval = interval
	return nil
}

// Interval returns the attached timer period, or 0.
func (i *IRQ) Interval() time.Duration {
	return i.interval
}

// FireEdge invokes the handler attached to pin, if any.
func (i *IRQ) FireEdge(pin core.GPIOPin) bool {
	fn, ok := i.edges[pin]
	if ok {
		fn()
	}
	return ok
}

// FireTimer invokes the periodic timer handler, if any.
func (i *IRQ) FireTimer() bool {
	if i.timer != nil {
		i.timer()
		return true
	}
	return false
}
