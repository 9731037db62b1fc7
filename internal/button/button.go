// Package button turns GPIO edges into classified gestures. The
// Recognizer is pure logic with injectable time, one instance per
// physical button; the Watcher feeds recognizers from the Linux GPIO
// character device and a shared ticker.
package button

import (
	"time"

	"github.com/bitsplusatoms/multibutton/internal/gesture"
)

// RouteFunc receives each classified gesture with its unit ordinal.
type RouteFunc func(kind gesture.Kind, unit int)

// Config carries the wiring and timing knobs for the watcher.
type Config struct {
	// Chip is the GPIO character device name, default gpiochip0.
	Chip string

	// Pins lists the button input lines, one per unit, in ordinal
	// order (BCM numbering).
	Pins []int

	// LongPress is how long a hold takes to classify as a long press.
	LongPress time.Duration

	// Gap is the silence after a release that ends a press burst.
	Gap time.Duration

	// Debounce is applied in the kernel per line.
	Debounce time.Duration

	// Tick is the classification cadence.
	Tick time.Duration
}
