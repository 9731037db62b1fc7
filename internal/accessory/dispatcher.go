package accessory

import "fmt"

// EventPublisher forwards a switch event to remote subscribers.
type EventPublisher interface {
	PublishSwitchEvent(unitName string, ordinal, code int) error
}

// Dispatcher applies switch event codes to the tree and forwards each
// one exactly once. It is the router's notifier.
type Dispatcher struct {
	tree *Tree
	sink EventPublisher
}

// NewDispatcher creates a dispatcher for the built tree.
func NewDispatcher(tree *Tree, sink EventPublisher) *Dispatcher {
	return &Dispatcher{tree: tree, sink: sink}
}

// Notify sets the unit's event characteristic and forwards one event.
// The characteristic updates even when the forward fails, so local
// state always reflects the last gesture.
func (d *Dispatcher) Notify(unit, code int) error {
	if !ValidEventCode(code) {
		return fmt.Errorf("invalid switch event code %d", code)
	}

	u, err := d.tree.Unit(unit)
	if err != nil {
		return err
	}

	u.Event.Set(code)

	if err := d.sink.PublishSwitchEvent(u.Name, u.Ordinal, code); err != nil {
		return fmt.Errorf("publish switch event: %w", err)
	}
	return nil
}
