//go:build rp2040

package main

import (
	"machine"
	"time"

	"acdimmer/core"
	"acdimmer/drivers/expander"
)

const (
	loopPeriod   = time.Millisecond
	fadePeriodUS = 8000000
)

func main() {
	// Clear any watchdog state left by a previous image
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	initUSB()
	if initDebugUART() {
		core.SetDebugWriter(debugPrintln)
		core.SetDebugEnabled(true)
	}

	gpio := &rpGPIO{}
	var pins core.GPIODriver = gpio
	exp, err := configureExpander()
	if err != nil {
		core.DebugPrintln("[BOARD] expander unavailable: " + err.Error())
	} else {
		pins = expander.Split{Native: gpio, Expander: exp}
	}

	ctl := core.NewController(hwClock{}, pins, rpIRQ{})
	ctl.ConfigZC(zcPin, zcDelayUS, mainsHz)

	var dimmers []*core.Dimmer
	for _, ch := range triacs {
		d := setupChannel(ctl, ch)
		if d != nil {
			d.SetState(true)
			dimmers = append(dimmers, d)
		}
	}

	var switches []*core.Dimmer
	if exp != nil {
		for _, ch := range relays {
			if d := setupChannel(ctl, ch); d != nil {
				d.SetPower(core.PowerLevels)
				switches = append(switches, d)
			}
		}
	}

	if ctl.Installed() && !alarmArmed() {
		core.DebugPrintln("[BOARD] tick alarm not armed")
	}

	var enc core.TraceEncoder
	lastLevel := -1
	for {
		now := uptime()

		if level := fadeLevel(now); level != lastLevel {
			for _, d := range dimmers {
				d.SetPower(level)
			}
			lastLevel = level
		}
		// Relays follow the top half of the fade.
		for _, d := range switches {
			if on := lastLevel > core.PowerLevels/2; on != d.GetState() {
				d.SetState(on)
			}
		}

		if exp != nil {
			if err := exp.Flush(); err != nil {
				core.DebugPrintln("[BOARD] expander flush: " + err.Error())
			}
		}
		enc.Flush(ctl, writeUSB)

		time.Sleep(loopPeriod)
	}
}

// setupChannel registers and sets up one output, reporting failures on the
// debug UART.
func setupChannel(ctl *core.Controller, ch channel) *core.Dimmer {
	var opts []core.Option
	if ch.min != 0 || ch.max != 0 {
		opts = append(opts, core.WithPowerRange(ch.min, ch.max))
	}
	d, err := ctl.NewDimmer(ch.pin, opts...)
	if err == nil {
		err = d.Setup()
	}
	if err != nil {
		core.DebugPrintln("[BOARD] " + ch.name + ": " + err.Error())
		return nil
	}
	return d
}

// fadeLevel is a triangle wave from 0 to full power and back.
func fadeLevel(us uint64) int {
	const half = fadePeriodUS / 2
	phase := us % fadePeriodUS
	if phase >= half {
		phase = fadePeriodUS - phase
	}
	return int(phase * core.PowerLevels / half)
}
