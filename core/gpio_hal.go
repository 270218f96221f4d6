package core

// GPIOPin is a board pin number. Drivers may map ranges of it to
// different hardware, such as native GPIO and an I2C expander.
type GPIOPin uint32

// PinUnset marks a pin field that has not been configured.
const PinUnset = GPIOPin(0xFFFFFFFF)

// GPIODriver drives the zero-cross input and the dimmer outputs.
//
// SetPin is called from interrupt context by the phase scheduler, so
// implementations must not block or allocate in it.
type GPIODriver interface {
	// ConfigureOutput makes pin a push-pull output.
	ConfigureOutput(pin GPIOPin) error

	// ConfigureInputPullUp makes pin an input with its pull-up enabled.
	ConfigureInputPullUp(pin GPIOPin) error

	// SetPin drives an output high (true) or low (false).
	SetPin(pin GPIOPin, value bool) error
}
