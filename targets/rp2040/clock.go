//go:build rp2040

package main

import (
	"runtime/volatile"
	"unsafe"

	"acdimmer/core"
)

// RP2040 timer peripheral
const (
	timerBase     = 0x40054000
	timerALARM1   = timerBase + 0x14
	timerARMED    = timerBase + 0x20
	timerTIMERAWH = timerBase + 0x24
	timerTIMERAWL = timerBase + 0x28
	timerINTR     = timerBase + 0x34
	timerINTE     = timerBase + 0x38
)

var (
	timerRAWH  = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWH)))
	timerRAWL  = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))
	timerAlarm = (*volatile.Register32)(unsafe.Pointer(uintptr(timerALARM1)))
	timerArmed = (*volatile.Register32)(unsafe.Pointer(uintptr(timerARMED)))
	timerIntr  = (*volatile.Register32)(unsafe.Pointer(uintptr(timerINTR)))
	timerInte  = (*volatile.Register32)(unsafe.Pointer(uintptr(timerINTE)))
)

// hwClock reads the free-running 1 MHz timer. The raw registers are used
// so reads from interrupt context do not disturb the latched pair the
// runtime uses.
type hwClock struct{}

var _ core.Clock = hwClock{}

// Micros returns the low word of the microsecond counter. It wraps about
// every 71.6 minutes.
func (hwClock) Micros() uint32 {
	return timerRAWL.Get()
}

// uptime reads the full 64-bit counter.
func uptime() uint64 {
	for {
		high1 := timerRAWH.Get()
		low := timerRAWL.Get()
		high2 := timerRAWH.Get()

		if high1 == high2 {
			return (uint64(high1) << 32) | uint64(low)
		}
	}
}
