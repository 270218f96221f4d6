// Phase-cutting AC dimmer core
// Drives triac/SSR dimmer modules by timing each output against the mains
// zero crossing.
package core

import "sync/atomic"

// Controller owns one mains timing context and the devices driven from it.
// All devices on a controller share one zero-cross reference, so they must
// sit on the same mains phase.
//
// Construct one per zero-cross input during startup, inject the platform
// capabilities, then create devices with NewDimmer.
type Controller struct {
	clock Clock
	gpio  GPIODriver
	irq   InterruptController

	cfg       ZCConfig
	installed bool

	// Install progress, so a retry after a failed attach skips the steps
	// that already succeeded.
	timerAttached bool
	timerHalf     uint32 // half period the timer interval was derived from
	edgeAttached  bool

	// Handlers return at once until installation has completed.
	armed atomic.Bool

	// Frozen at installation, read-only afterwards.
	halfPeriod uint32
	debounce   uint32
	delay      uint32

	zc      zeroCrossState
	devices Registry
	trace   traceRing

	edges   atomic.Uint32
	bounces atomic.Uint32
	ticks   atomic.Uint32
}

// NewController creates a controller with the default zero-cross
// configuration (no pin, zero delay, 60 Hz).
func NewController(clock Clock, gpio GPIODriver, irq InterruptController) *Controller {
	return &Controller{
		clock: clock,
		gpio:  gpio,
		irq:   irq,
		cfg:   DefaultZCConfig(),
	}
}

// ConfigZC updates the zero-cross configuration. PinUnset, DelayUnset and
// FrequencyUnset leave the matching field as is. Changes made after the
// first successful Setup do not affect the installed interrupt handlers.
func (c *Controller) ConfigZC(pin GPIOPin, delay, frequency uint32) {
	c.cfg.merge(pin, delay, frequency)
}

// Config returns the current zero-cross configuration.
func (c *Controller) Config() ZCConfig {
	return c.cfg
}

// Installed reports whether the edge interrupt and periodic timer are attached.
func (c *Controller) Installed() bool {
	return c.installed
}

// HalfPeriod returns the half-cycle length in microseconds the handlers run
// with, or 0 before installation.
func (c *Controller) HalfPeriod() uint32 {
	return c.halfPeriod
}

// Devices returns the controller's device registry.
func (c *Controller) Devices() *Registry {
	return &c.devices
}

// Stats returns a snapshot of the interrupt counters.
func (c *Controller) Stats() Stats {
	return Stats{
		Edges:   c.edges.Load(),
		Bounces: c.bounces.Load(),
		Ticks:   c.ticks.Load(),
		Dropped: c.trace.dropped,
	}
}

// DrainTrace delivers pending trace events oldest first and returns the
// number overwritten since the last drain. Foreground only.
func (c *Controller) DrainTrace(fn func(TraceEvent)) uint32 {
	return c.trace.drain(fn)
}

// install attaches the process-wide handlers once. It is a no-op until a
// zero-cross pin has been configured, so a later Setup can still install.
// After a failed attach a later Setup resumes where it stopped.
func (c *Controller) install() error {
	if c.installed || c.cfg.Pin == PinUnset {
		return nil
	}

	half := c.cfg.HalfPeriod()
	if c.timerAttached {
		// The tick already runs at this half period's interval.
		half = c.timerHalf
	}
	if err := c.attach(half); err != nil {
		return err
	}

	c.installed = true
	DebugPrintln("[DIMMER] zero-cross installed pin=" + utoa(uint32(c.cfg.Pin)) +
		" half_period=" + utoa(half) + " delay=" + utoa(c.delay))
	return nil
}

// attach wires the handlers with interrupts off. The timing parameters are
// frozen only once both are attached, and the handlers stay disarmed until
// then, so neither can run against a partial setup.
func (c *Controller) attach(half uint32) error {
	defer maskInterrupts().restore()

	if !c.timerAttached {
		if err := c.irq.AttachPeriodicTimer(TickInterval(half), c.onTick); err != nil {
			return err
		}
		c.timerAttached = true
		c.timerHalf = half
	}
	if !c.edgeAttached {
		if err := c.gpio.ConfigureInputPullUp(c.cfg.Pin); err != nil {
			return err
		}
		if err := c.irq.AttachEdgeInterrupt(c.cfg.Pin, EdgeRising, c.onZeroCrossEdge); err != nil {
			return err
		}
		c.edgeAttached = true
	}

	c.halfPeriod = half
	c.debounce = half / 2
	c.delay = c.cfg.CalibrationDelay
	c.armed.Store(true)
	return nil
}
