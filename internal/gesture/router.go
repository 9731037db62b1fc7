package gesture

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bitsplusatoms/multibutton/internal/events"
)

// Notifier delivers a switch event code to one unit of the accessory
// tree and forwards it to remote subscribers.
type Notifier interface {
	Notify(unit int, code int) error
}

// ResetFunc runs the factory reset sequence.
type ResetFunc func(ctx context.Context)

// Router turns classified gestures into switch events, reset
// bookkeeping and feedback bus traffic. Route is safe to call from any
// goroutine; the guard serializes reset state.
type Router struct {
	mapping  Mapping
	trigger  Kind
	guard    *Guard
	notifier Notifier
	reset    ResetFunc
	bus      *events.Bus
}

// NewRouter wires the router. The trigger kind must not also carry a
// switch event code: a gesture cannot both count toward a factory reset
// and toggle something.
func NewRouter(mapping Mapping, trigger Kind, guard *Guard, notifier Notifier, reset ResetFunc, bus *events.Bus) (*Router, error) {
	if _, ok := mapping[trigger]; ok {
		return nil, fmt.Errorf("reset trigger %q is also mapped to a switch event", trigger)
	}
	return &Router{
		mapping:  mapping,
		trigger:  trigger,
		guard:    guard,
		notifier: notifier,
		reset:    reset,
		bus:      bus,
	}, nil
}

// Route handles one classified gesture from the given unit. It never
// returns an error: failures on the way out (notify, reset steps) are
// logged, and the gesture path moves on.
func (r *Router) Route(kind Kind, unit int) {
	if kind == r.trigger {
		out := r.guard.Observe()
		if out.Fired {
			slog.Info("reset threshold reached", "threshold", out.Threshold, "unit", unit)
			r.bus.Publish(events.ResetStartedEvent{Threshold: out.Threshold})
			// The sequence erases state and restarts the process; it must
			// not stall gesture routing while it runs.
			go r.reset(context.Background())
			return
		}
		slog.Debug("reset trigger observed", "count", out.Count, "threshold", out.Threshold, "unit", unit)
		r.bus.Publish(events.ResetProgressEvent{Count: out.Count, Threshold: out.Threshold})
		return
	}

	// Any other gesture breaks a reset run-up.
	r.guard.Interrupt()

	code, ok := r.mapping[kind]
	if !ok {
		slog.Debug("unmapped gesture", "kind", kind, "unit", unit)
		r.bus.Publish(events.GestureRejectedEvent{Unit: unit, Kind: string(kind)})
		return
	}

	if err := r.notifier.Notify(unit, code); err != nil {
		slog.Warn("switch event notify failed", "unit", unit, "code", code, "err", err)
	}
	slog.Info("gesture routed", "kind", kind, "unit", unit, "code", code)
	r.bus.Publish(events.GestureRoutedEvent{Unit: unit, Kind: string(kind), Code: code})
}

// Trigger returns the configured reset trigger kind.
func (r *Router) Trigger() Kind {
	return r.trigger
}
