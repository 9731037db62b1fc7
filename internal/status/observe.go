package status

import (
	"time"

	"github.com/bitsplusatoms/multibutton/internal/events"
)

// Observe wires the tracker to the event bus so routed gestures,
// guard progress, provisioning changes and unit failures show up in
// snapshots. The returned function unsubscribes.
func Observe(bus *events.Bus, t *Tracker) func() {
	unsubs := []func(){
		bus.Subscribe(func(ev events.GestureRoutedEvent) {
			t.RecordGesture(ev.Unit, ev.Kind, ev.Code, time.Now())
			t.SetGuardCount(0)
		}),
		bus.Subscribe(func(ev events.GestureRejectedEvent) {
			t.RecordRejected(ev.Unit)
			t.SetGuardCount(0)
		}),
		bus.Subscribe(func(ev events.ResetProgressEvent) {
			t.SetGuardCount(ev.Count)
		}),
		bus.Subscribe(func(ev events.ResetStartedEvent) {
			t.SetGuardCount(0)
		}),
		bus.Subscribe(func(ev events.ProvisioningChangedEvent) {
			t.SetProvisioning(ev.State, ev.SSID, ev.IP)
		}),
		bus.Subscribe(func(ev events.UnitFailedEvent) {
			t.SetUnitOperative(ev.Unit, false)
		}),
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}
