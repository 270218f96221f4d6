// Package expander drives PCA9554/TCA9534 8-bit I2C port expanders as
// ordinary output pins for the dimmer core.
//
// Bus transfers never happen from SetPin, which may run in interrupt context.
// SetPin only updates a shadow of the output register; the foreground loop
// calls Flush to push pending changes over the bus.
package expander

import (
	"errors"
	"sync/atomic"

	"tinygo.org/x/drivers"

	"acdimmer/core"
)

// Register map
const (
	regInput    = 0x00
	regOutput   = 0x01
	regPolarity = 0x02
	regConfig   = 0x03
)

const (
	// DefaultAddress is the 7-bit address with A2..A0 tied low.
	DefaultAddress = 0x20

	// NumPins is the number of I/O lines on one expander.
	NumPins = 8
)

var ErrPinRange = errors.New("pin not on expander")

// PCA9554 is one expander whose lines appear as core pins base..base+7.
type PCA9554 struct {
	bus  drivers.I2C
	addr uint16
	base core.GPIOPin

	shadow atomic.Uint32 // desired output register
	dirty  atomic.Bool

	config  uint8 // direction register, 1 = input; foreground only
	flushes uint32
	wbuf    [2]byte
	rbuf    [1]byte
}

// New returns a driver for the expander at addr. Nothing is written until a
// pin is configured.
func New(bus drivers.I2C, addr uint16, base core.GPIOPin) *PCA9554 {
	d := &PCA9554{bus: bus, addr: addr, base: base, config: 0xFF}
	// Power-on value of the output register
	d.shadow.Store(0xFF)
	return d
}

// Owns reports whether pin maps to one of the expander's lines.
func (d *PCA9554) Owns(pin core.GPIOPin) bool {
	return pin >= d.base && pin-d.base < NumPins
}

func (d *PCA9554) bit(pin core.GPIOPin) (uint8, error) {
	if !d.Owns(pin) {
		return 0, ErrPinRange
	}
	return 1 << uint8(pin-d.base), nil
}

// ConfigureOutput drives the line low and turns it into an output. The output
// register is written before the direction so the line never glitches high.
func (d *PCA9554) ConfigureOutput(pin core.GPIOPin) error {
	mask, err := d.bit(pin)
	if err != nil {
		return err
	}

	d.update(mask, false)
	if err := d.Flush(); err != nil {
		return err
	}

	d.config &^= mask
	return d.writeReg(regConfig, d.config)
}

// ConfigureInputPullUp turns the line into an input. The expander's inputs
// carry a fixed internal pull-up.
func (d *PCA9554) ConfigureInputPullUp(pin core.GPIOPin) error {
	mask, err := d.bit(pin)
	if err != nil {
		return err
	}
	d.config |= mask
	return d.writeReg(regConfig, d.config)
}

// SetPin records the level in the shadow register. The line changes on the
// next Flush. Safe to call from interrupt context.
func (d *PCA9554) SetPin(pin core.GPIOPin, value bool) error {
	mask, err := d.bit(pin)
	if err != nil {
		return err
	}
	d.update(mask, value)
	return nil
}

func (d *PCA9554) update(mask uint8, value bool) {
	for {
		old := d.shadow.Load()
		next := old &^ uint32(mask)
		if value {
			next |= uint32(mask)
		}
		if next == old {
			return
		}
		if d.shadow.CompareAndSwap(old, next) {
			d.dirty.Store(true)
			return
		}
	}
}

// Pending reports whether the shadow register has unwritten changes.
func (d *PCA9554) Pending() bool {
	return d.dirty.Load()
}

// Output returns the shadow output register.
func (d *PCA9554) Output() uint8 {
	return uint8(d.shadow.Load())
}

// Flush writes the shadow output register if it changed since the last
// successful write. On error the change stays pending.
func (d *PCA9554) Flush() error {
	if !d.dirty.Swap(false) {
		return nil
	}
	if err := d.writeReg(regOutput, uint8(d.shadow.Load())); err != nil {
		d.dirty.Store(true)
		return err
	}
	d.flushes++
	return nil
}

// Flushes returns the number of output register writes done by Flush.
func (d *PCA9554) Flushes() uint32 {
	return d.flushes
}

// Inputs reads the input port register.
func (d *PCA9554) Inputs() (uint8, error) {
	d.wbuf[0] = regInput
	if err := d.bus.Tx(d.addr, d.wbuf[:1], d.rbuf[:]); err != nil {
		return 0, err
	}
	return d.rbuf[0], nil
}

// Get reads the level of one line.
func (d *PCA9554) Get(pin core.GPIOPin) (bool, error) {
	mask, err := d.bit(pin)
	if err != nil {
		return false, err
	}
	in, err := d.Inputs()
	if err != nil {
		return false, err
	}
	return in&mask != 0, nil
}

// ResetPolarity clears any input inversion left by earlier firmware.
func (d *PCA9554) ResetPolarity() error {
	return d.writeReg(regPolarity, 0x00)
}

func (d *PCA9554) writeReg(reg, value uint8) error {
	d.wbuf[0] = reg
	d.wbuf[1] = value
	return d.bus.Tx(d.addr, d.wbuf[:], nil)
}
