package core

// Progress returns how far now lies into the half-cycle that started at
// phaseRef, clamped to [0, 1].
func Progress(now, phaseRef, halfPeriod uint32) float32 {
	if halfPeriod == 0 {
		return 1
	}
	return clampUnit(float32(Elapsed(now, phaseRef)) / float32(halfPeriod))
}

// Conducts reports whether a device with the given mapped power should be
// switched on at progress. The output fires once the time left in the
// half-cycle drops below the requested power fraction.
func Conducts(progress, mappedPower float32) bool {
	return (1 - progress) < mappedPower/PowerLevels
}

// onTick runs in interrupt context PowerLevels times per half-cycle.
func (c *Controller) onTick() {
	if !c.armed.Load() {
		return
	}
	c.ticks.Add(1)

	if !c.zc.riseValid.Load() {
		return
	}

	now := c.clock.Micros()

	// The detector fires ahead of the real crossing; project forward and only
	// adopt the projection once it is no longer in the future.
	candidate := c.zc.lastRise.Load() + c.delay
	if !IsFuture(now, candidate) {
		if !c.zc.phaseValid.Load() || c.zc.phaseRef.Load() != candidate {
			c.zc.phaseRef.Store(candidate)
			c.zc.phaseValid.Store(true)
			c.trace.record(EvtPhase, 0, now, candidate)
		}
	}

	if !c.zc.phaseValid.Load() {
		return
	}

	// One snapshot for every device in this tick.
	progress := Progress(now, c.zc.phaseRef.Load(), c.halfPeriod)

	n := c.devices.Len()
	for i := 0; i < n; i++ {
		d := &c.devices.slots[i]
		if !d.active.Load() || !d.state.Load() {
			continue
		}
		level := d.level.Load()
		if level == 0 || level == PowerLevels {
			// Discrete levels are owned by applyDiscrete.
			continue
		}
		_ = c.gpio.SetPin(d.pin, Conducts(progress, d.mappedPower()))
	}
}
