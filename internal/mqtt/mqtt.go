// Package mqtt publishes switch press events and daemon lifecycle
// messages to the broker, announces Home Assistant discovery configs,
// and accepts identify requests.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bitsplusatoms/multibutton/internal/accessory"
)

// Topic layout under the configured base topic:
//
//	<base>/<unit>/event    JSON press event per unit
//	<base>/<unit>/action   plain event name, matched by discovery triggers
//	<base>/availability    online/offline, retained (offline is the will)
//	<base>/system          lifecycle events
//	<base>/identify/set    inbound identify requests

func EventTopic(base, unit string) string  { return base + "/" + unit + "/event" }
func ActionTopic(base, unit string) string { return base + "/" + unit + "/action" }
func AvailabilityTopic(base string) string { return base + "/availability" }
func SystemTopic(base string) string       { return base + "/system" }
func IdentifyTopic(base string) string     { return base + "/identify/set" }

// Sink publishes events to MQTT.
type Sink interface {
	// PublishSwitchEvent sends one press event for a unit.
	// Returns error if publishing fails (should not crash the process).
	PublishSwitchEvent(unitName string, ordinal, code int) error

	// PublishSystem sends a daemon lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close announces offline and disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// Config carries everything the real sink needs to connect and
// announce itself.
type Config struct {
	Broker          string
	ClientID        string
	BaseTopic       string
	DiscoveryPrefix string // empty disables Home Assistant discovery

	DeviceName   string
	Manufacturer string
	Model        string
	Serial       string
	Firmware     string

	// Units holds the switch unit names in ordinal order; Codes the
	// event codes the mapping can emit. Discovery announces one
	// trigger per unit and code.
	Units []string
	Codes []int
}

// SystemEvent represents a daemon lifecycle event (e.g., startup, shutdown).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// EventName maps a switch event code to its wire name.
func EventName(code int) (string, error) {
	switch code {
	case accessory.EventSinglePress:
		return "SINGLE_PRESS", nil
	case accessory.EventDoublePress:
		return "DOUBLE_PRESS", nil
	case accessory.EventLongPress:
		return "LONG_PRESS", nil
	}
	return "", fmt.Errorf("unknown event code %d", code)
}

// SwitchPayload represents the per-unit press event payload.
type SwitchPayload struct {
	Button ButtonPayload `json:"button"`
}

// ButtonPayload contains the press event details.
type ButtonPayload struct {
	Timestamp string `json:"timestamp"`
	Unit      string `json:"unit"`
	Ordinal   int    `json:"ordinal"`
	Event     string `json:"event"`
	Code      int    `json:"code"`
}

// FormatSwitchPayload creates the JSON payload for a press event.
func FormatSwitchPayload(timestamp time.Time, unitName string, ordinal, code int) ([]byte, error) {
	name, err := EventName(code)
	if err != nil {
		return nil, err
	}
	payload := SwitchPayload{
		Button: ButtonPayload{
			Timestamp: timestamp.UTC().Format(time.RFC3339),
			Unit:      unitName,
			Ordinal:   ordinal,
			Event:     name,
			Code:      code,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
