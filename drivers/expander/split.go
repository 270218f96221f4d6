package expander

import "acdimmer/core"

// Split routes the expander's pins to Expander and every other pin to
// Native, so the controller sees a single pin driver.
type Split struct {
	Native   core.GPIODriver
	Expander *PCA9554
}

var _ core.GPIODriver = Split{}

func (s Split) route(pin core.GPIOPin) core.GPIODriver {
	if s.Expander != nil && s.Expander.Owns(pin) {
		return s.Expander
	}
	return s.Native
}

func (s Split) ConfigureOutput(pin core.GPIOPin) error {
	return s.route(pin).ConfigureOutput(pin)
}

func (s Split) ConfigureInputPullUp(pin core.GPIOPin) error {
	return s.route(pin).ConfigureInputPullUp(pin)
}

func (s Split) SetPin(pin core.GPIOPin, value bool) error {
	return s.route(pin).SetPin(pin, value)
}
