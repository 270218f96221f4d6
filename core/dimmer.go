package core

// Dimmer is the foreground handle to one registered output.
// Its methods must not be called from interrupt context.
type Dimmer struct {
	ctl *Controller
	id  DeviceID
}

type dimmerOptions struct {
	powerMin uint8
	powerMax uint8
}

// Option customises a dimmer at construction.
type Option func(*dimmerOptions)

// WithPowerRange sets the mapped power range of the device. Level 1..254 are
// spread linearly over [min, max]; the default is [0, PowerLevels].
func WithPowerRange(min, max uint8) Option {
	return func(o *dimmerOptions) {
		o.powerMin = min
		o.powerMax = max
	}
}

// NewDimmer allocates a device for pin. The device stays invisible to the
// scheduler until Setup.
func (c *Controller) NewDimmer(pin GPIOPin, opts ...Option) (*Dimmer, error) {
	o := dimmerOptions{powerMin: 0, powerMax: PowerLevels}
	for _, opt := range opts {
		opt(&o)
	}

	id, err := c.devices.alloc(pin, float32(o.powerMin), float32(o.powerMax))
	if err != nil {
		return nil, err
	}
	return &Dimmer{ctl: c, id: id}, nil
}

func (d *Dimmer) dev() *device {
	return d.ctl.devices.get(d.id)
}

// ID returns the device's registry index.
func (d *Dimmer) ID() DeviceID {
	return d.id
}

// Pin returns the output pin.
func (d *Dimmer) Pin() GPIOPin {
	return d.dev().pin
}

// Setup configures the output pin, hands the device to the scheduler and
// installs the controller's zero-cross handlers if that has not happened yet.
// Calling it again is harmless.
func (d *Dimmer) Setup() error {
	if err := d.ctl.install(); err != nil {
		return err
	}

	dev := d.dev()
	if err := d.ctl.gpio.ConfigureOutput(dev.pin); err != nil {
		return err
	}
	dev.active.Store(true)
	d.applyDiscrete()
	return nil
}

// SetPower clamps value to [0, PowerLevels], remaps it onto the device's
// power range and updates the output when the level is fully off or on.
func (d *Dimmer) SetPower(value int) {
	dev := d.dev()
	level := clampLevel(value)

	// mapped before level so the tick never pairs a new level with a stale
	// mapping for longer than one tick.
	dev.setMappedPower(MapValue(float32(level), 0, PowerLevels, dev.powerMin, dev.powerMax))
	dev.level.Store(uint32(level))
	d.ctl.trace.record(EvtPower, uint8(d.id), d.ctl.clock.Micros(), uint32(level))

	d.applyDiscrete()
}

// GetPower returns the stored discrete level.
func (d *Dimmer) GetPower() int {
	return int(d.dev().level.Load())
}

// MappedPower returns the level mapped onto the device's power range.
func (d *Dimmer) MappedPower() float32 {
	return d.dev().mappedPower()
}

// SetState switches the device on or off without touching its power level.
func (d *Dimmer) SetState(on bool) {
	d.dev().state.Store(on)

	var v uint32
	if on {
		v = 1
	}
	d.ctl.trace.record(EvtState, uint8(d.id), d.ctl.clock.Micros(), v)

	d.applyDiscrete()
}

// GetState returns the stored on/off state.
func (d *Dimmer) GetState() bool {
	return d.dev().state.Load()
}

// applyDiscrete drives the pin directly for off, 0 and full power.
// Intermediate levels are left to the scheduler tick.
func (d *Dimmer) applyDiscrete() {
	dev := d.dev()
	if !dev.active.Load() {
		return
	}

	if !dev.state.Load() {
		_ = d.ctl.gpio.SetPin(dev.pin, false)
		return
	}

	switch dev.level.Load() {
	case 0:
		_ = d.ctl.gpio.SetPin(dev.pin, false)
	case PowerLevels:
		_ = d.ctl.gpio.SetPin(dev.pin, true)
	}
}
