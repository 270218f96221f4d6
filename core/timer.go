package core

import "time"

// Clock is the free-running microsecond counter the timing core reads.
// It wraps at 2^32 (about 71.6 minutes), so all arithmetic on its values
// goes through the helpers below.
type Clock interface {
	Micros() uint32
}

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() uint32

// Micros calls f.
func (f ClockFunc) Micros() uint32 { return f() }

// Elapsed returns the microseconds from since to now, correct across one wrap.
func Elapsed(now, since uint32) uint32 {
	return now - since
}

// IsFuture reports whether t lies after now. The difference is read as a
// signed value within half the counter range, matching Klipper's
// timer_is_before convention.
func IsFuture(now, t uint32) bool {
	return int32(now-t) < 0
}

// HalfPeriodUS returns the duration of one mains half-cycle in whole
// microseconds for the given utility frequency.
func HalfPeriodUS(frequencyHz uint32) uint32 {
	if frequencyHz == 0 {
		return 0
	}
	return 1000000 / (2 * frequencyHz)
}

// TickInterval returns the periodic timer interval that yields exactly
// PowerLevels ticks per half-cycle.
func TickInterval(halfPeriodUS uint32) time.Duration {
	return time.Duration(halfPeriodUS) * time.Microsecond / PowerLevels
}
