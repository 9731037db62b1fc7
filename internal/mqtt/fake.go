package mqtt

import (
	"sync"
	"time"
)

// SwitchRecord captures one published press event for assertions.
type SwitchRecord struct {
	UnitName string
	Ordinal  int
	Code     int
}

// FakeSink records published events for test assertions.
type FakeSink struct {
	mu sync.Mutex

	// Events contains all press events that were published.
	Events []SwitchRecord

	// Payloads contains the JSON payloads that were published.
	Payloads [][]byte

	// Actions contains the plain action payloads that were published.
	Actions []string

	// SystemEvents contains all system events that were published.
	SystemEvents []SystemEvent

	// SystemPayloads contains the JSON payloads for system events.
	SystemPayloads [][]byte

	// PublishError, if set, will be returned by PublishSwitchEvent.
	PublishError error

	// PublishSystemError, if set, will be returned by PublishSystem.
	PublishSystemError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakeSink creates a FakeSink for testing.
func NewFakeSink() *FakeSink {
	return &FakeSink{}
}

// PublishSwitchEvent records the press event.
func (f *FakeSink) PublishSwitchEvent(unitName string, ordinal, code int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.PublishError != nil {
		return f.PublishError
	}

	f.Events = append(f.Events, SwitchRecord{UnitName: unitName, Ordinal: ordinal, Code: code})

	payload, err := FormatSwitchPayload(time.Now(), unitName, ordinal, code)
	if err != nil {
		return err
	}
	f.Payloads = append(f.Payloads, payload)

	name, err := EventName(code)
	if err != nil {
		return err
	}
	f.Actions = append(f.Actions, name)
	return nil
}

// PublishSystem records the system event.
func (f *FakeSink) PublishSystem(event SystemEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}

	f.SystemEvents = append(f.SystemEvents, event)

	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemPayloads = append(f.SystemPayloads, payload)
	return nil
}

// Close marks the sink as closed.
func (f *FakeSink) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake sink is "connected".
func (f *FakeSink) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Connected
}

// EventCount returns how many press events were recorded.
func (f *FakeSink) EventCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Events)
}

// Reset clears recorded events.
func (f *FakeSink) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Events = nil
	f.Payloads = nil
	f.Actions = nil
	f.SystemEvents = nil
	f.SystemPayloads = nil
	f.Closed = false
	f.PublishError = nil
	f.PublishSystemError = nil
	f.Connected = false
}
