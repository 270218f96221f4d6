package core

import "sync/atomic"

// zeroCrossState is shared between the edge handler, the tick handler and
// foreground readers. Each field has a single writer: the rise fields belong
// to the edge handler, the phase fields to the tick handler.
type zeroCrossState struct {
	lastRise   atomic.Uint32
	riseValid  atomic.Bool
	phaseRef   atomic.Uint32
	phaseValid atomic.Bool
}

// onZeroCrossEdge runs in interrupt context on every rising edge of the
// zero-cross input. Edges closer than half a half-period to the last
// accepted one are treated as bounce.
func (c *Controller) onZeroCrossEdge() {
	if !c.armed.Load() {
		return
	}
	now := c.clock.Micros()

	var dt uint32
	if c.zc.riseValid.Load() {
		dt = Elapsed(now, c.zc.lastRise.Load())
		if dt < c.debounce {
			c.bounces.Add(1)
			c.trace.record(EvtBounce, 0, now, dt)
			return
		}
	}

	// Timestamp first so the tick never sees riseValid with a stale value.
	c.zc.lastRise.Store(now)
	c.zc.riseValid.Store(true)
	c.edges.Add(1)
	c.trace.record(EvtZeroCross, 0, now, dt)
}

// LastRise returns the last accepted edge timestamp and whether one exists.
func (c *Controller) LastRise() (uint32, bool) {
	return c.zc.lastRise.Load(), c.zc.riseValid.Load()
}

// PhaseReference returns the projected zero crossing the scheduler is
// currently timing against and whether one has been established.
func (c *Controller) PhaseReference() (uint32, bool) {
	return c.zc.phaseRef.Load(), c.zc.phaseValid.Load()
}
