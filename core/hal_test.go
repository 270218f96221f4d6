package core

import (
	"errors"
	"time"
)

// fakeClock is a manually advanced microsecond counter.
type fakeClock struct {
	now uint32
}

func (c *fakeClock) Micros() uint32 { return c.now }

func (c *fakeClock) advance(us uint32) { c.now += us }

// fakeGPIO records pin modes and levels.
type fakeGPIO struct {
	outputs map[GPIOPin]bool
	pullups map[GPIOPin]bool
	levels  map[GPIOPin]bool
	writes  map[GPIOPin]int
	failOut error
}

func newFakeGPIO() *fakeGPIO {
	return &fakeGPIO{
		outputs: make(map[GPIOPin]bool),
		pullups: make(map[GPIOPin]bool),
		levels:  make(map[GPIOPin]bool),
		writes:  make(map[GPIOPin]int),
	}
}

func (g *fakeGPIO) ConfigureOutput(pin GPIOPin) error {
	if g.failOut != nil {
		return g.failOut
	}
	g.outputs[pin] = true
	return nil
}

func (g *fakeGPIO) ConfigureInputPullUp(pin GPIOPin) error {
	g.pullups[pin] = true
	return nil
}

func (g *fakeGPIO) SetPin(pin GPIOPin, value bool) error {
	g.levels[pin] = value
	g.writes[pin]++
	return nil
}

// fakeIRQ captures attached handlers so tests can fire them directly.
type fakeIRQ struct {
	edgePin   GPIOPin
	edge      Edge
	onEdge    func()
	interval  time.Duration
	onTick    func()
	edgeCalls int
	tickCalls int
	failTimer bool
	failEdge  bool
}

var (
	errTimerBusy = errors.New("timer busy")
	errEdgeBusy  = errors.New("edge interrupt busy")
)

func (i *fakeIRQ) AttachEdgeInterrupt(pin GPIOPin, edge Edge, fn func()) error {
	if i.failEdge {
		return errEdgeBusy
	}
	i.edgePin = pin
	i.edge = edge
	i.onEdge = fn
	i.edgeCalls++
	return nil
}

func (i *fakeIRQ) AttachPeriodicTimer(interval time.Duration, fn func()) error {
	if i.failTimer {
		return errTimerBusy
	}
	i.interval = interval
	i.onTick = fn
	i.tickCalls++
	return nil
}

type rig struct {
	clock *fakeClock
	gpio  *fakeGPIO
	irq   *fakeIRQ
	ctl   *Controller
}

func newRig() *rig {
	r := &rig{
		clock: &fakeClock{},
		gpio:  newFakeGPIO(),
		irq:   &fakeIRQ{},
	}
	r.ctl = NewController(r.clock, r.gpio, r.irq)
	return r
}

// edgeAt fires the zero-cross handler at absolute time t.
func (r *rig) edgeAt(t uint32) {
	r.clock.now = t
	r.irq.onEdge()
}

// tickAt fires the scheduler tick at absolute time t.
func (r *rig) tickAt(t uint32) {
	r.clock.now = t
	r.irq.onTick()
}
