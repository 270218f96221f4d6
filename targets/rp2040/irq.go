//go:build rp2040

package main

import (
	"device/rp2040"
	"errors"
	"machine"
	"runtime/interrupt"
	"time"

	"acdimmer/core"
)

const alarmBit = 1 << 1 // alarm 1; the runtime keeps alarm 0

var (
	errEdgeUnsupported = errors.New("only rising edges are supported")
	errTimerInUse      = errors.New("alarm already attached")
	errBadInterval     = errors.New("interval must be at least 1us")
)

// rpIRQ hands GPIO edge interrupts and the periodic hardware alarm to the
// controller.
type rpIRQ struct{}

var _ core.InterruptController = rpIRQ{}

func (rpIRQ) AttachEdgeInterrupt(pin core.GPIOPin, edge core.Edge, fn func()) error {
	if edge != core.EdgeRising {
		return errEdgeUnsupported
	}
	return machine.Pin(pin).SetInterrupt(machine.PinRising, func(machine.Pin) {
		fn()
	})
}

func (rpIRQ) AttachPeriodicTimer(interval time.Duration, fn func()) error {
	if alarm.fn != nil {
		return errTimerInUse
	}
	if interval < time.Microsecond {
		return errBadInterval
	}

	alarm.fn = fn
	alarm.stepNs = uint32(interval.Nanoseconds())
	alarm.target = hwClock{}.Micros()
	alarm.advance()

	irq := interrupt.New(rp2040.IRQ_TIMER_IRQ_1, alarmISR)
	timerInte.SetBits(alarmBit)
	timerAlarm.Set(alarm.target)
	irq.Enable()
	return nil
}

// alarmSchedule turns a period with sub-microsecond precision into a
// sequence of microsecond alarm targets whose average spacing is exact.
type alarmSchedule struct {
	fn     func()
	stepNs uint32
	target uint32 // next alarm, counter microseconds
	fracNs uint32 // carried remainder below 1µs
}

var alarm alarmSchedule

func (a *alarmSchedule) advance() {
	a.fracNs += a.stepNs
	a.target += a.fracNs / 1000
	a.fracNs %= 1000
}

func alarmISR(interrupt.Interrupt) {
	timerIntr.Set(alarmBit)

	// The alarm matches on equality; never arm a time already passed or
	// it would only fire after the counter wraps.
	alarm.advance()
	now := hwClock{}.Micros()
	for !core.IsFuture(now, alarm.target) {
		alarm.advance()
	}
	timerAlarm.Set(alarm.target)

	alarm.fn()
}

// alarmArmed reports whether alarm 1 is waiting to fire.
func alarmArmed() bool {
	return timerArmed.Get()&alarmBit != 0
}
