// Package events is the in-process event bus connecting the gesture
// path to its observers (feedback, status, metrics, announcement).
// Subscribers run on dispatcher goroutines, so publishing from the
// gesture path never blocks on a slow consumer.
package events

import (
	"github.com/kelindar/event"
)

// Bus wraps a kelindar/event dispatcher for event broadcasting.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Close shuts down the dispatcher and its consumer goroutines.
func (b *Bus) Close() error {
	return b.dispatcher.Close()
}

// Publish delivers an event to all subscribers of its concrete type.
func (b *Bus) Publish(ev Event) {
	// kelindar's generic Publish needs the concrete type, hence the switch.
	switch e := ev.(type) {
	case GestureRoutedEvent:
		event.Publish(b.dispatcher, e)
	case GestureRejectedEvent:
		event.Publish(b.dispatcher, e)
	case ResetProgressEvent:
		event.Publish(b.dispatcher, e)
	case ResetStartedEvent:
		event.Publish(b.dispatcher, e)
	case ProvisioningChangedEvent:
		event.Publish(b.dispatcher, e)
	case IdentifyRequestedEvent:
		event.Publish(b.dispatcher, e)
	case UnitFailedEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe registers a typed handler function and returns its
// unsubscribe func. The handler's parameter type selects which events
// it receives.
// Usage: unsub := bus.Subscribe(func(e GestureRoutedEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(GestureRoutedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(GestureRejectedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ResetProgressEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ResetStartedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ProvisioningChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(IdentifyRequestedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(UnitFailedEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		// Unrecognized handler type gets a no-op unsubscribe.
		return func() {}
	}
}
