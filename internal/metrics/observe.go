package metrics

import (
	"github.com/bitsplusatoms/multibutton/internal/events"
)

// Observe wires the metrics to the event bus. The returned function
// unsubscribes.
func Observe(bus *events.Bus) func() {
	unsubs := []func(){
		bus.Subscribe(func(ev events.GestureRoutedEvent) {
			RecordGesture(ev.Kind, ev.Unit)
			SetGuardCount(0)
		}),
		bus.Subscribe(func(ev events.GestureRejectedEvent) {
			RecordRejected(ev.Unit)
			SetGuardCount(0)
		}),
		bus.Subscribe(func(ev events.ResetProgressEvent) {
			SetGuardCount(ev.Count)
		}),
		bus.Subscribe(func(ev events.ResetStartedEvent) {
			RecordResetFired()
			SetGuardCount(0)
		}),
		bus.Subscribe(func(ev events.ProvisioningChangedEvent) {
			SetProvisioningState(ev.State)
		}),
		bus.Subscribe(func(ev events.UnitFailedEvent) {
			AddUnitInoperative()
		}),
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}
