package feedback

import (
	"log/slog"

	"github.com/bitsplusatoms/multibutton/internal/events"
	"github.com/bitsplusatoms/multibutton/internal/provision"
)

// Manager subscribes to the event bus and translates domain events into
// scheduler calls. It is the only place that decides which pattern an
// event gets.
type Manager struct {
	scheduler *Scheduler
	unsubs    []func()
}

// NewManager wires the bus subscriptions. Handlers run on bus
// goroutines and only ever submit to the scheduler, so they never block.
func NewManager(scheduler *Scheduler, bus *events.Bus) *Manager {
	m := &Manager{scheduler: scheduler}

	m.unsubs = append(m.unsubs,
		bus.Subscribe(func(e events.GestureRoutedEvent) {
			if p, ok := ForGesture(e.Kind); ok {
				m.scheduler.Play(p)
			}
		}),
		bus.Subscribe(func(_ events.GestureRejectedEvent) {
			m.scheduler.Play(Rejected)
		}),
		bus.Subscribe(func(_ events.ResetProgressEvent) {
			m.scheduler.Play(ResetProgress)
		}),
		bus.Subscribe(func(_ events.ResetStartedEvent) {
			m.scheduler.Play(ResetWarn)
		}),
		bus.Subscribe(func(_ events.IdentifyRequestedEvent) {
			m.scheduler.Play(Identify)
		}),
		bus.Subscribe(func(e events.ProvisioningChangedEvent) {
			m.handleProvisioning(e)
		}),
	)

	slog.Debug("feedback manager started")
	return m
}

// handleProvisioning maps provisioning transitions to LED state. Setup
// mode shows as a loop so the user can see the device is waiting; the
// loop stops the moment setup is left.
func (m *Manager) handleProvisioning(e events.ProvisioningChangedEvent) {
	switch {
	case e.State == provision.StateSetup:
		m.scheduler.StartLoop(SetupMode)
	case e.Prev == provision.StateSetup:
		m.scheduler.StopLoop()
		if e.State == provision.StateConnected {
			m.scheduler.Play(Connected)
		}
	case e.State == provision.StateConnected:
		m.scheduler.Play(Connected)
	}
}

// Close drops the bus subscriptions. The scheduler is closed separately
// by its owner.
func (m *Manager) Close() {
	for _, unsub := range m.unsubs {
		unsub()
	}
	slog.Debug("feedback manager stopped")
}
