// Package feedback renders LED blink patterns for gesture, reset and
// provisioning feedback. A single worker goroutine owns the LED; pattern
// submission never blocks the gesture path.
package feedback

import (
	"time"

	"github.com/bitsplusatoms/multibutton/internal/led"
)

// Pattern is a named LED blink sequence: Blinks on/off cycles at
// Interval, repeated Bursts times with Gap between bursts. A looping
// pattern also uses Gap as the pause between cycles.
type Pattern struct {
	Name     string
	Color    led.Color
	Blinks   int
	Interval time.Duration
	Bursts   int
	Gap      time.Duration
}

// The pattern catalog. Timings and colors follow the device firmware so
// upgraded devices blink the way users already know.
var (
	SinglePress   = Pattern{Name: "single-press", Color: led.Green, Blinks: 1, Interval: 600 * time.Millisecond}
	DoublePress   = Pattern{Name: "double-press", Color: led.Green, Blinks: 2, Interval: 300 * time.Millisecond}
	TriplePress   = Pattern{Name: "triple-press", Color: led.Blue, Blinks: 3, Interval: 200 * time.Millisecond}
	LongPress     = Pattern{Name: "long-press", Color: led.Red, Blinks: 2, Interval: 300 * time.Millisecond}
	ResetProgress = Pattern{Name: "reset-progress", Color: led.Gray, Blinks: 1, Interval: 200 * time.Millisecond}
	ResetWarn     = Pattern{Name: "reset-warn", Color: led.Red, Blinks: 5, Interval: 100 * time.Millisecond}
	Rejected      = Pattern{Name: "rejected", Color: led.Yellow, Blinks: 5, Interval: 120 * time.Millisecond}
	Connected     = Pattern{Name: "connected", Color: led.Green, Blinks: 5, Interval: 200 * time.Millisecond}
	SetupMode     = Pattern{Name: "setup-mode", Color: led.Orange, Blinks: 4, Interval: 200 * time.Millisecond, Gap: time.Second}
	Identify      = Pattern{Name: "identify", Color: led.Purple, Blinks: 3, Interval: 200 * time.Millisecond, Bursts: 3, Gap: 500 * time.Millisecond}
)

// ForGesture returns the confirmation pattern for a routed gesture kind.
func ForGesture(kind string) (Pattern, bool) {
	switch kind {
	case "single":
		return SinglePress, true
	case "double":
		return DoublePress, true
	case "triple":
		return TriplePress, true
	case "long":
		return LongPress, true
	}
	return Pattern{}, false
}
