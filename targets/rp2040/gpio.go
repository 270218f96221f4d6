//go:build rp2040

package main

import (
	"errors"
	"machine"

	"acdimmer/core"
)

const numGPIO = 30

var errNoSuchPin = errors.New("no such GPIO")

// rpGPIO drives the RP2040's bank 0 pins. SetPin is called from the
// scheduler tick, so it only touches the SIO registers.
type rpGPIO struct {
	outputs uint32 // bit per configured output; written in the foreground only
}

var _ core.GPIODriver = (*rpGPIO)(nil)

func (d *rpGPIO) ConfigureOutput(pin core.GPIOPin) error {
	if pin >= numGPIO {
		return errNoSuchPin
	}
	p := machine.Pin(pin)
	p.Low()
	p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	d.outputs |= 1 << pin
	return nil
}

func (d *rpGPIO) ConfigureInputPullUp(pin core.GPIOPin) error {
	if pin >= numGPIO {
		return errNoSuchPin
	}
	machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	d.outputs &^= 1 << pin
	return nil
}

// SetPin ignores pins that were never configured as outputs.
func (d *rpGPIO) SetPin(pin core.GPIOPin, value bool) error {
	if pin >= numGPIO || d.outputs&(1<<pin) == 0 {
		return errNoSuchPin
	}
	machine.Pin(pin).Set(value)
	return nil
}
