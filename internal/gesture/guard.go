package gesture

import (
	"fmt"
	"sync"
)

// GuardState reports whether the reset counter is mid run-up.
type GuardState string

const (
	StateIdle         GuardState = "idle"
	StateAccumulating GuardState = "accumulating"
)

// Guard counts consecutive trigger gestures and decides when the
// factory reset fires. All methods are safe for concurrent use; the
// mutex is the serialization point for reset decisions, so two units
// observing triggers at the same time cannot both fire.
type Guard struct {
	mu        sync.Mutex
	threshold int
	count     int
}

// Outcome is the result of observing one trigger gesture.
type Outcome struct {
	Fired     bool
	Count     int
	Threshold int
}

// NewGuard creates a guard that fires after threshold consecutive
// trigger gestures. A threshold of one would turn every trigger gesture
// into a factory reset, so anything below two is refused.
func NewGuard(threshold int) (*Guard, error) {
	if threshold < 2 {
		return nil, fmt.Errorf("reset threshold must be at least 2, got %d", threshold)
	}
	return &Guard{threshold: threshold}, nil
}

// Observe records one trigger gesture. When the count reaches the
// threshold the returned outcome has Fired set and the guard drops back
// to idle, so a single run-up fires at most once.
func (g *Guard) Observe() Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.count++
	if g.count >= g.threshold {
		g.count = 0
		return Outcome{Fired: true, Count: g.threshold, Threshold: g.threshold}
	}
	return Outcome{Count: g.count, Threshold: g.threshold}
}

// Interrupt clears the counter. Called for every non-trigger gesture.
func (g *Guard) Interrupt() {
	g.mu.Lock()
	g.count = 0
	g.mu.Unlock()
}

// State returns idle or accumulating for status reporting.
func (g *Guard) State() GuardState {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.count == 0 {
		return StateIdle
	}
	return StateAccumulating
}

// Count returns the current run of consecutive trigger gestures.
func (g *Guard) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.count
}

// Threshold returns the configured firing threshold.
func (g *Guard) Threshold() int {
	return g.threshold
}
