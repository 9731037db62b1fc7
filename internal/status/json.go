package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string           `json:"event,omitempty"`
	Reason        string           `json:"reason,omitempty"`
	DeviceID      string           `json:"device_id"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	StartTime     string           `json:"start_time"`
	Timestamp     string           `json:"timestamp"`
	MQTT          MQTTStatus       `json:"mqtt"`
	Provisioning  ProvisioningJSON `json:"provisioning"`
	Guard         GuardJSON        `json:"reset_guard"`
	Units         []UnitJSON       `json:"units"`
	Config        ConfigJSON       `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// ProvisioningJSON is the JSON representation of provisioning state.
type ProvisioningJSON struct {
	State string `json:"state"`
	SSID  string `json:"ssid,omitempty"`
	IP    string `json:"ip,omitempty"`
}

// GuardJSON is the JSON representation of the reset guard.
type GuardJSON struct {
	State     string `json:"state"`
	Count     int    `json:"count"`
	Threshold int    `json:"threshold"`
}

// UnitJSON is the JSON representation of one switch unit.
type UnitJSON struct {
	Name      string        `json:"name"`
	Ordinal   int           `json:"ordinal"`
	Operative bool          `json:"operative"`
	Events    int           `json:"events"`
	Rejected  int           `json:"rejected"`
	Last      *UnitLastJSON `json:"last,omitempty"`
}

// UnitLastJSON describes the unit's most recent routed gesture.
type UnitLastJSON struct {
	Gesture   string `json:"gesture"`
	Event     string `json:"event"`
	Code      int    `json:"code"`
	Timestamp string `json:"timestamp"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Pins           []int  `json:"pins"`
	LongPressMs    int64  `json:"long_press_ms"`
	GapMs          int64  `json:"gap_ms"`
	TickMs         int64  `json:"tick_ms"`
	ResetTrigger   string `json:"reset_trigger"`
	ResetThreshold int    `json:"reset_threshold"`
	Broker         string `json:"broker"`
	BaseTopic      string `json:"base_topic"`
	HTTPPort       string `json:"http_port"`
}

// eventName is a local copy of the wire naming to avoid importing
// internal/mqtt from status.
func eventName(code int) string {
	switch code {
	case 0:
		return "SINGLE_PRESS"
	case 1:
		return "DOUBLE_PRESS"
	case 2:
		return "LONG_PRESS"
	}
	return "UNKNOWN"
}

func buildInner(snap Snapshot) StatusInner {
	units := make([]UnitJSON, len(snap.Units))
	for i, u := range snap.Units {
		uj := UnitJSON{
			Name:      u.Name,
			Ordinal:   u.Ordinal,
			Operative: u.Operative,
			Events:    u.Events,
			Rejected:  u.Rejected,
		}
		if u.Events > 0 {
			uj.Last = &UnitLastJSON{
				Gesture:   u.LastGesture,
				Event:     eventName(u.LastCode),
				Code:      u.LastCode,
				Timestamp: u.LastAt.UTC().Format(time.RFC3339),
			}
		}
		units[i] = uj
	}

	return StatusInner{
		DeviceID:      snap.DeviceID,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Provisioning: ProvisioningJSON{
			State: snap.Provisioning.State,
			SSID:  snap.Provisioning.SSID,
			IP:    snap.Provisioning.IP,
		},
		Guard: GuardJSON{
			State:     snap.Guard.State(),
			Count:     snap.Guard.Count,
			Threshold: snap.Guard.Threshold,
		},
		Units: units,
		Config: ConfigJSON{
			Pins:           snap.Config.Pins,
			LongPressMs:    snap.Config.LongPressMs,
			GapMs:          snap.Config.GapMs,
			TickMs:         snap.Config.TickMs,
			ResetTrigger:   snap.Config.ResetTrigger,
			ResetThreshold: snap.Config.ResetThreshold,
			Broker:         snap.Config.Broker,
			BaseTopic:      snap.Config.BaseTopic,
			HTTPPort:       snap.Config.HTTPPort,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
