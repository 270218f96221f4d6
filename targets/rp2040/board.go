//go:build rp2040

package main

import (
	"machine"

	"acdimmer/core"
	"acdimmer/drivers/expander"
)

// Board profile: one opto-isolated zero-cross detector, two triac channels
// on native pins and relay channels on a PCA9554 at I2C0.
const (
	zcPin        = core.GPIOPin(5)
	zcDelayUS    = 100
	mainsHz      = 60
	expanderBase = core.GPIOPin(32)
	expanderAddr = expander.DefaultAddress
	i2cFrequency = 400000
)

type channel struct {
	name     string
	pin      core.GPIOPin
	min, max uint8
}

var triacs = []channel{
	{name: "lamp", pin: 14, min: 0, max: core.PowerLevels},
	{name: "fan", pin: 15, min: 60, max: 220}, // induction motor stalls below 60
}

var relays = []channel{
	{name: "heater", pin: expanderBase + 0},
	{name: "pump", pin: expanderBase + 1},
}

// configureExpander brings up I2C0 on GP0/GP1. The default SCL pin, GP5,
// is the zero-cross input.
func configureExpander() (*expander.PCA9554, error) {
	bus := machine.I2C0
	err := bus.Configure(machine.I2CConfig{
		Frequency: i2cFrequency,
		SDA:       machine.GPIO0,
		SCL:       machine.GPIO1,
	})
	if err != nil {
		return nil, err
	}

	exp := expander.New(bus, expanderAddr, expanderBase)
	if err := exp.ResetPolarity(); err != nil {
		return nil, err
	}
	return exp, nil
}
