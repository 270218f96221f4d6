package core

import (
	"errors"
	"math"
	"sync/atomic"
)

// MaxDevices is the capacity of a controller's device arena.
const MaxDevices = 16

// DeviceID is a stable index into a Registry.
type DeviceID uint8

// ErrRegistryFull is returned when every arena slot is taken.
var ErrRegistryFull = errors.New("device registry full")

// device is one arena slot. Pin and the power range are written once before
// the slot is published; the atomics are written by the foreground and read
// by the scheduler tick.
type device struct {
	pin      GPIOPin
	powerMin float32
	powerMax float32

	level  atomic.Uint32 // discrete power level, 0..PowerLevels
	mapped atomic.Uint32 // math.Float32bits of the mapped power
	state  atomic.Bool
	active atomic.Bool // set once Setup has run for this slot
}

func (d *device) mappedPower() float32 {
	return math.Float32frombits(d.mapped.Load())
}

func (d *device) setMappedPower(v float32) {
	d.mapped.Store(math.Float32bits(v))
}

// Registry is an append-only arena of devices. Slots are never freed, so a
// DeviceID stays valid for the life of the registry. Allocation is
// foreground-only; the tick walks the first Len() slots without locking.
type Registry struct {
	slots [MaxDevices]device
	count atomic.Uint32
}

// alloc claims the next slot. Not safe for concurrent foreground callers.
func (r *Registry) alloc(pin GPIOPin, powerMin, powerMax float32) (DeviceID, error) {
	n := r.count.Load()
	if n >= MaxDevices {
		return 0, ErrRegistryFull
	}
	d := &r.slots[n]
	d.pin = pin
	d.powerMin = powerMin
	d.powerMax = powerMax
	d.setMappedPower(powerMin)
	// Publish only after the slot is fully initialised.
	r.count.Store(n + 1)
	return DeviceID(n), nil
}

// get returns the slot for id.
func (r *Registry) get(id DeviceID) *device {
	return &r.slots[id]
}

// Len returns the number of allocated slots.
func (r *Registry) Len() int {
	return int(r.count.Load())
}

// Active returns the number of devices that have completed Setup.
func (r *Registry) Active() int {
	n := 0
	for i := 0; i < r.Len(); i++ {
		if r.slots[i].active.Load() {
			n++
		}
	}
	return n
}
