//go:build tinygo

package core

import "runtime/interrupt"

// irqState is the interrupt mask saved on entry to a critical section.
type irqState interrupt.State

// maskInterrupts disables interrupts until restore is called on the result.
func maskInterrupts() irqState {
	return irqState(interrupt.Disable())
}

func (s irqState) restore() {
	interrupt.Restore(interrupt.State(s))
}
