package sim

import (
	"time"

	"acdimmer/core"
)

const (
	fireNone = iota
	fireEdge
	fireTick
)

// Bench wires a controller to simulated hardware and steps virtual time
// from one interrupt to the next.
type Bench struct {
	Clock      *Clock
	GPIO       *GPIO
	IRQ        *IRQ
	Controller *core.Controller

	zcPin    core.GPIOPin
	mains    *edgeSource
	nextTick time.Duration
}

// NewBench creates simulated hardware whose counter reads clockStart at
// virtual time zero, and a controller bound to it.
func NewBench(clockStart uint32) *Bench {
	clock := NewClock(clockStart)
	gpio := NewGPIO(clock)
	irq := NewIRQ(gpio)
	return &Bench{
		Clock:      clock,
		GPIO:       gpio,
		IRQ:        irq,
		Controller: core.NewController(clock, gpio, irq),
		zcPin:      core.PinUnset,
	}
}

// ConnectMains feeds the given signal into pin.
func (b *Bench) ConnectMains(pin core.GPIOPin, m Mains) {
	b.zcPin = pin
	b.mains = newEdgeSource(m)
}

// Crossings returns the true zero crossings up to the current virtual time.
func (b *Bench) Crossings() []time.Duration {
	if b.mains == nil {
		return nil
	}
	now := b.Clock.Elapsed()
	n := len(b.mains.crossings)
	for n > 0 && b.mains.crossings[n-1] > now {
		n--
	}
	return b.mains.crossings[:n]
}

// Run advances virtual time by d, firing edge and timer interrupts in
// order. An edge and a tick at the same instant fire edge first.
func (b *Bench) Run(d time.Duration) {
	end := b.Clock.Elapsed() + d

	for {
		interval := b.IRQ.Interval()
		if interval > 0 && b.nextTick == 0 {
			b.nextTick = b.Clock.Elapsed() + interval
		}

		next := end
		fire := fireNone
		if b.mains != nil {
			if t := b.mains.peek(); t <= next {
				next, fire = t, fireEdge
			}
		}
		if interval > 0 && b.nextTick <= next {
			if b.nextTick < next || fire == fireNone {
				next, fire = b.nextTick, fireTick
			}
		}
		if fire == fireNone {
			break
		}

		b.Clock.setElapsed(int64(next))
		if fire == fireEdge {
			b.mains.pop()
			b.IRQ.FireEdge(b.zcPin)
		} else {
			b.nextTick += interval
			b.IRQ.FireTimer()
		}
	}

	b.Clock.setElapsed(int64(end))
}
