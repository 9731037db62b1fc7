//go:build linux

package led

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// pwmFreq is the LED dimming frequency. High enough to be flicker free
// for the eye, low enough for pins that only do software PWM.
const pwmFreq = 1 * physic.KiloHertz

// RealDriver drives the status LED on a GPIO pin through periph.io.
type RealDriver struct {
	pin gpio.PinIO
}

// NewRealDriver opens the named pin ("GPIO15" style, BCM numbering) and
// drives it low.
func NewRealDriver(pinName string) (*RealDriver, error) {
	// host.Init is safe to call more than once.
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init gpio host: %w", err)
	}

	pin := gpioreg.ByName(pinName)
	if pin == nil {
		return nil, fmt.Errorf("led pin %q not found", pinName)
	}
	if err := pin.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("configure led pin %q: %w", pinName, err)
	}
	return &RealDriver{pin: pin}, nil
}

// Set renders the color as a PWM duty cycle from the mono intensity.
// Black stops PWM and drives the pin low; White drives it high without
// PWM.
func (d *RealDriver) Set(c Color) error {
	switch {
	case c.IsOff():
		if err := d.pin.Out(gpio.Low); err != nil {
			return fmt.Errorf("led off: %w", err)
		}
	case c == White:
		if err := d.pin.Out(gpio.High); err != nil {
			return fmt.Errorf("led on: %w", err)
		}
	default:
		level := c.Level()
		duty := gpio.Duty(uint64(gpio.DutyMax) * uint64(level) / 255)
		if err := d.pin.PWM(duty, pwmFreq); err != nil {
			// Not every pin supports PWM. Round the intensity to plain
			// on/off so feedback still blinks.
			if level >= 128 {
				return d.pin.Out(gpio.High)
			}
			return d.pin.Out(gpio.Low)
		}
	}
	return nil
}

// Off turns the LED off.
func (d *RealDriver) Off() error {
	return d.Set(Black)
}

var _ Driver = (*RealDriver)(nil)
