// Package led drives the status LED with hardware abstraction.
// The real implementation drives a GPIO pin through periph.io.
// The fake implementation allows testing without hardware.
package led

// Color is an RGB color request. The device carries a mono LED, so a
// color renders as a PWM intensity derived from the channel average.
type Color struct {
	R, G, B uint8
}

// Level reduces the color to a mono intensity (0..255). Plain average:
// a single fully saturated channel contributes a third of full
// brightness.
func (c Color) Level() uint8 {
	return uint8((int(c.R) + int(c.G) + int(c.B)) / 3)
}

// IsOff reports whether this is the distinguished "LED off" color.
// Black means off, never "very dim".
func (c Color) IsOff() bool {
	return c == Color{}
}

// Named colors used by the feedback patterns.
var (
	Black  = Color{}
	White  = Color{R: 255, G: 255, B: 255}
	Red    = Color{R: 255}
	Green  = Color{G: 255}
	Blue   = Color{B: 255}
	Yellow = Color{R: 255, G: 255}
	Orange = Color{R: 255, G: 165}
	Purple = Color{R: 128, B: 128}
	Gray   = Color{R: 128, G: 128, B: 128}
)

// Driver sets the LED state.
type Driver interface {
	// Set renders the color. Black turns the LED off; White is full
	// brightness without PWM.
	Set(c Color) error

	// Off turns the LED off. Equivalent to Set(Black).
	Off() error
}
