package mqtt

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bitsplusatoms/multibutton/internal/accessory"
)

// Home Assistant MQTT discovery. One device_automation trigger config
// is announced per switch unit and emittable event code, retained so
// the device survives a Home Assistant restart. Configs are
// republished on every reconnect.

type discoveryDevice struct {
	Identifiers  []string `json:"identifiers"`
	Name         string   `json:"name"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	Model        string   `json:"model,omitempty"`
	SWVersion    string   `json:"sw_version,omitempty"`
}

type triggerConfig struct {
	AutomationType string          `json:"automation_type"`
	Topic          string          `json:"topic"`
	Payload        string          `json:"payload"`
	Type           string          `json:"type"`
	Subtype        string          `json:"subtype"`
	Device         discoveryDevice `json:"device"`
}

// TriggerType maps a switch event code to the discovery trigger type.
func TriggerType(code int) (string, error) {
	switch code {
	case accessory.EventSinglePress:
		return "button_short_press", nil
	case accessory.EventDoublePress:
		return "button_double_press", nil
	case accessory.EventLongPress:
		return "button_long_press", nil
	}
	return "", fmt.Errorf("unknown event code %d", code)
}

// DiscoveryTopic returns the retained config topic for one unit and
// event code.
func DiscoveryTopic(prefix, serial, unitName string, code int) (string, error) {
	name, err := EventName(code)
	if err != nil {
		return "", err
	}
	node := "multibutton_" + strings.ToLower(serial)
	object := strings.ToLower(unitName + "_" + name)
	return fmt.Sprintf("%s/device_automation/%s/%s/config", prefix, node, object), nil
}

// FormatTriggerConfig builds the discovery payload for one unit and
// event code. The trigger matches the plain event name on the unit's
// action topic.
func FormatTriggerConfig(cfg Config, unitName string, ordinal, code int) ([]byte, error) {
	name, err := EventName(code)
	if err != nil {
		return nil, err
	}
	triggerType, err := TriggerType(code)
	if err != nil {
		return nil, err
	}

	payload := triggerConfig{
		AutomationType: "trigger",
		Topic:          ActionTopic(cfg.BaseTopic, unitName),
		Payload:        name,
		Type:           triggerType,
		Subtype:        fmt.Sprintf("button_%d", ordinal+1),
		Device: discoveryDevice{
			Identifiers:  []string{"multibutton_" + strings.ToLower(cfg.Serial)},
			Name:         cfg.DeviceName,
			Manufacturer: cfg.Manufacturer,
			Model:        cfg.Model,
			SWVersion:    cfg.Firmware,
		},
	}
	return json.Marshal(payload)
}

func (s *RealSink) publishDiscovery() {
	if s.cfg.DiscoveryPrefix == "" {
		return
	}
	published := 0
	for ordinal, unitName := range s.cfg.Units {
		for _, code := range s.cfg.Codes {
			topic, err := DiscoveryTopic(s.cfg.DiscoveryPrefix, s.cfg.Serial, unitName, code)
			if err != nil {
				slog.Warn("discovery topic", "unit", unitName, "code", code, "err", err)
				continue
			}
			payload, err := FormatTriggerConfig(s.cfg, unitName, ordinal, code)
			if err != nil {
				slog.Warn("discovery payload", "unit", unitName, "code", code, "err", err)
				continue
			}
			if err := s.send(topic, 1, true, payload); err != nil {
				slog.Warn("publish discovery", "topic", topic, "err", err)
				continue
			}
			published++
		}
	}
	slog.Info("published discovery configs", "count", published)
}
