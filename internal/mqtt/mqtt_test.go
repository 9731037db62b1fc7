package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/bitsplusatoms/multibutton/internal/accessory"
)

// Compile-time interface checks.
var (
	_ Sink                     = (*FakeSink)(nil)
	_ Sink                     = (*RealSink)(nil)
	_ ConnectionStatus         = (*FakeSink)(nil)
	_ ConnectionStatus         = (*RealSink)(nil)
	_ accessory.EventPublisher = (*FakeSink)(nil)
	_ accessory.EventPublisher = (*RealSink)(nil)
)

func TestTopics(t *testing.T) {
	base := "multibutton"
	tests := []struct {
		got  string
		want string
	}{
		{EventTopic(base, "B01"), "multibutton/B01/event"},
		{ActionTopic(base, "B01"), "multibutton/B01/action"},
		{AvailabilityTopic(base), "multibutton/availability"},
		{SystemTopic(base), "multibutton/system"},
		{IdentifyTopic(base), "multibutton/identify/set"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("unexpected topic: got %s, want %s", tt.got, tt.want)
		}
	}
}

func TestEventName(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{accessory.EventSinglePress, "SINGLE_PRESS"},
		{accessory.EventDoublePress, "DOUBLE_PRESS"},
		{accessory.EventLongPress, "LONG_PRESS"},
	}
	for _, tt := range tests {
		got, err := EventName(tt.code)
		if err != nil {
			t.Fatalf("code %d: unexpected error: %v", tt.code, err)
		}
		if got != tt.want {
			t.Errorf("code %d: got %s, want %s", tt.code, got, tt.want)
		}
	}

	if _, err := EventName(7); err == nil {
		t.Error("expected error for unknown code")
	}
}

func TestFormatSwitchPayload(t *testing.T) {
	ts := time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC)

	payload, err := FormatSwitchPayload(ts, "B01", 0, accessory.EventSinglePress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed SwitchPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Button.Timestamp != "2026-02-02T22:18:12Z" {
		t.Errorf("unexpected timestamp: %s", parsed.Button.Timestamp)
	}
	if parsed.Button.Unit != "B01" {
		t.Errorf("unexpected unit: %s", parsed.Button.Unit)
	}
	if parsed.Button.Event != "SINGLE_PRESS" {
		t.Errorf("unexpected event: %s", parsed.Button.Event)
	}
	if parsed.Button.Code != 0 {
		t.Errorf("unexpected code: %d", parsed.Button.Code)
	}
}

func TestFormatSwitchPayloadExactJSON(t *testing.T) {
	ts := time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC)

	payload, err := FormatSwitchPayload(ts, "B03", 2, accessory.EventLongPress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"button":{"timestamp":"2026-02-02T22:18:12Z","unit":"B03","ordinal":2,"event":"LONG_PRESS","code":2}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatSwitchPayloadAllCodes(t *testing.T) {
	tests := []struct {
		code      int
		wantEvent string
	}{
		{accessory.EventSinglePress, "SINGLE_PRESS"},
		{accessory.EventDoublePress, "DOUBLE_PRESS"},
		{accessory.EventLongPress, "LONG_PRESS"},
	}

	for _, tt := range tests {
		t.Run(tt.wantEvent, func(t *testing.T) {
			payload, err := FormatSwitchPayload(time.Now(), "B01", 0, tt.code)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var parsed SwitchPayload
			if err := json.Unmarshal(payload, &parsed); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if parsed.Button.Event != tt.wantEvent {
				t.Errorf("event: got %s, want %s", parsed.Button.Event, tt.wantEvent)
			}
			if parsed.Button.Code != tt.code {
				t.Errorf("code: got %d, want %d", parsed.Button.Code, tt.code)
			}
		})
	}
}

func TestFormatSwitchPayloadRejectsUnknownCode(t *testing.T) {
	if _, err := FormatSwitchPayload(time.Now(), "B01", 0, 9); err == nil {
		t.Error("expected error for unknown code")
	}
}

func TestFormatSwitchPayloadTimezoneConversion(t *testing.T) {
	loc, _ := time.LoadLocation("America/New_York")
	localTime := time.Date(2026, 2, 3, 10, 30, 0, 0, loc) // 10:30 EST = 15:30 UTC

	payload, err := FormatSwitchPayload(localTime, "B01", 0, accessory.EventSinglePress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed SwitchPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	// Should be converted to UTC
	if parsed.Button.Timestamp != "2026-02-03T15:30:00Z" {
		t.Errorf("expected UTC timestamp 2026-02-03T15:30:00Z, got %s", parsed.Button.Timestamp)
	}
}

func TestFormatSystemPayload(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 10, 30, 45, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed SystemPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.System.Timestamp != "2026-02-03T10:30:45Z" {
		t.Errorf("unexpected timestamp: %s", parsed.System.Timestamp)
	}
	if parsed.System.Event != "SHUTDOWN" {
		t.Errorf("unexpected event: %s", parsed.System.Event)
	}
	if parsed.System.Reason != "SIGTERM" {
		t.Errorf("unexpected reason: %s", parsed.System.Reason)
	}
}

func TestFormatSystemPayloadExactJSON(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 10, 30, 45, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-03T10:30:45Z","event":"SHUTDOWN","reason":"SIGTERM"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatSystemPayloadStartupOmitsReason(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 19, 5, 51, 0, time.UTC),
		Event:     "STARTUP",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	system := parsed["system"].(map[string]interface{})
	if _, exists := system["reason"]; exists {
		t.Error("reason field should be omitted for startup events")
	}
}

func TestFormatSystemPayloadRawPassthrough(t *testing.T) {
	raw := []byte(`{"status":{"custom":true}}`)
	event := SystemEvent{
		Timestamp:  time.Now(),
		Event:      "STARTUP",
		RawPayload: raw,
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("expected raw payload passthrough, got %s", payload)
	}
}

func TestFakeSinkRecords(t *testing.T) {
	f := NewFakeSink()

	if err := f.PublishSwitchEvent("B01", 0, accessory.EventSinglePress); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(f.Events))
	}
	if f.Events[0].UnitName != "B01" || f.Events[0].Code != accessory.EventSinglePress {
		t.Errorf("unexpected record: %+v", f.Events[0])
	}
	if len(f.Payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(f.Payloads))
	}
	if len(f.Actions) != 1 || f.Actions[0] != "SINGLE_PRESS" {
		t.Errorf("expected action SINGLE_PRESS, got %v", f.Actions)
	}
}

func TestFakeSinkError(t *testing.T) {
	f := NewFakeSink()
	f.PublishError = errors.New("simulated error")

	if err := f.PublishSwitchEvent("B01", 0, accessory.EventSinglePress); err == nil {
		t.Error("expected error")
	}
	if len(f.Events) != 0 {
		t.Errorf("expected no events recorded on error, got %d", len(f.Events))
	}
}

func TestFakeSinkPreservesEventOrder(t *testing.T) {
	f := NewFakeSink()

	codes := []int{
		accessory.EventSinglePress,
		accessory.EventLongPress,
		accessory.EventDoublePress,
		accessory.EventSinglePress,
	}
	for i, code := range codes {
		if err := f.PublishSwitchEvent("B01", i%2, code); err != nil {
			t.Fatalf("publish %d: %v", i, err)
		}
	}

	if len(f.Events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(f.Events))
	}
	for i, code := range codes {
		if f.Events[i].Code != code {
			t.Errorf("event %d: expected code %d, got %d", i, code, f.Events[i].Code)
		}
	}
}

func TestFakeSinkPublishSystem(t *testing.T) {
	f := NewFakeSink()

	event := SystemEvent{
		Timestamp: time.Now(),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	if err := f.PublishSystem(event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.SystemEvents) != 1 {
		t.Fatalf("expected 1 system event, got %d", len(f.SystemEvents))
	}
	if f.SystemEvents[0].Event != "SHUTDOWN" || f.SystemEvents[0].Reason != "SIGTERM" {
		t.Errorf("unexpected system event: %+v", f.SystemEvents[0])
	}
	if len(f.SystemPayloads) != 1 {
		t.Fatalf("expected 1 system payload, got %d", len(f.SystemPayloads))
	}
}

func TestFakeSinkPublishSystemError(t *testing.T) {
	f := NewFakeSink()
	f.PublishSystemError = errors.New("simulated error")

	err := f.PublishSystem(SystemEvent{Timestamp: time.Now(), Event: "SHUTDOWN"})
	if err == nil {
		t.Error("expected error")
	}
	if len(f.SystemEvents) != 0 {
		t.Errorf("expected no system events recorded on error, got %d", len(f.SystemEvents))
	}
}

func TestFakeSinkClose(t *testing.T) {
	f := NewFakeSink()

	if f.Closed {
		t.Error("should not be closed initially")
	}
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}
}

func TestFakeSinkReset(t *testing.T) {
	f := NewFakeSink()

	f.PublishSwitchEvent("B01", 0, accessory.EventSinglePress)
	f.PublishSystem(SystemEvent{Timestamp: time.Now(), Event: "STARTUP"})
	f.Close()
	f.PublishError = errors.New("error")
	f.Connected = true

	f.Reset()

	if len(f.Events) != 0 || len(f.Payloads) != 0 || len(f.Actions) != 0 {
		t.Error("press events should be cleared")
	}
	if len(f.SystemEvents) != 0 || len(f.SystemPayloads) != 0 {
		t.Error("system events should be cleared")
	}
	if f.Closed {
		t.Error("closed should be reset")
	}
	if f.PublishError != nil {
		t.Error("error should be cleared")
	}
	if f.Connected {
		t.Error("connected should be reset")
	}

	// Still usable after reset
	if err := f.PublishSwitchEvent("B02", 1, accessory.EventDoublePress); err != nil {
		t.Fatalf("publish after reset failed: %v", err)
	}
	if len(f.Events) != 1 {
		t.Errorf("expected 1 event after reset, got %d", len(f.Events))
	}
}

func TestFakeSinkRecordsRetainedFlag(t *testing.T) {
	f := NewFakeSink()

	f.PublishSystem(SystemEvent{Timestamp: time.Now(), Event: "STARTUP", Retained: true})
	f.PublishSystem(SystemEvent{Timestamp: time.Now(), Event: "SHUTDOWN", Retained: false})

	if len(f.SystemEvents) != 2 {
		t.Fatalf("expected 2 system events, got %d", len(f.SystemEvents))
	}
	if !f.SystemEvents[0].Retained {
		t.Error("first event should have Retained=true")
	}
	if f.SystemEvents[1].Retained {
		t.Error("second event should have Retained=false")
	}
}
