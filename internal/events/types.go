package events

// Event type constants for kelindar/event.
const (
	TypeGestureRouted uint32 = iota + 1
	TypeGestureRejected
	TypeResetProgress
	TypeResetStarted
	TypeProvisioningChanged
	TypeIdentifyRequested
	TypeUnitFailed
)

// Event is the interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// GestureRoutedEvent is published when a classified gesture carried a
// switch event code and was dispatched to the accessory tree.
type GestureRoutedEvent struct {
	Unit int
	Kind string
	Code int
}

func (e GestureRoutedEvent) Type() uint32 { return TypeGestureRouted }

// GestureRejectedEvent is published for gestures without a mapping.
// Not an error: the user gets failure feedback and the daemon moves on.
type GestureRejectedEvent struct {
	Unit int
	Kind string
}

func (e GestureRejectedEvent) Type() uint32 { return TypeGestureRejected }

// ResetProgressEvent reports the factory reset counter after a trigger
// gesture that has not yet reached the threshold.
type ResetProgressEvent struct {
	Count     int
	Threshold int
}

func (e ResetProgressEvent) Type() uint32 { return TypeResetProgress }

// ResetStartedEvent is published exactly once per run-up, when the
// counter reaches the threshold and the erase sequence begins.
type ResetStartedEvent struct {
	Threshold int
}

func (e ResetStartedEvent) Type() uint32 { return TypeResetStarted }

// ProvisioningChangedEvent reports a change of the network provisioning
// state. Prev carries the state being left so subscribers can detect
// transitions in and out of setup mode.
type ProvisioningChangedEvent struct {
	Prev  string
	State string
	SSID  string
	IP    string
}

func (e ProvisioningChangedEvent) Type() uint32 { return TypeProvisioningChanged }

// IdentifyRequestedEvent asks the device to identify itself visually.
type IdentifyRequestedEvent struct {
	Source string
}

func (e IdentifyRequestedEvent) Type() uint32 { return TypeIdentifyRequested }

// UnitFailedEvent is published when a button unit could not be
// registered with the GPIO layer. The unit stays inoperative for the
// life of the process; the remaining units keep working.
type UnitFailedEvent struct {
	Unit   int
	Reason string
}

func (e UnitFailedEvent) Type() uint32 { return TypeUnitFailed }
