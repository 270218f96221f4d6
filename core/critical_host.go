//go:build !tinygo

package core

// irqState stands in for the saved interrupt mask. On the host the handlers
// are ordinary calls made by the caller, so there is nothing to mask.
type irqState struct{}

func maskInterrupts() irqState { return irqState{} }

func (irqState) restore() {}
