package core

import "time"

// Edge selects which transition of an input pin raises an interrupt.
type Edge uint8

const (
	EdgeNone Edge = iota
	EdgeRising
	EdgeFalling
	EdgeBoth
)

// String returns the lower-case edge name.
func (e Edge) String() string {
	switch e {
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	case EdgeBoth:
		return "both"
	default:
		return "none"
	}
}

// InterruptController attaches callbacks to hardware interrupt sources.
// Callbacks run in interrupt context and take no arguments.
type InterruptController interface {
	// AttachEdgeInterrupt calls fn every time pin sees the given edge.
	AttachEdgeInterrupt(pin GPIOPin, edge Edge, fn func()) error

	// AttachPeriodicTimer calls fn every interval until the process ends.
	AttachPeriodicTimer(interval time.Duration, fn func()) error
}
