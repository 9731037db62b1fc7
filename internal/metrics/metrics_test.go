package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/bitsplusatoms/multibutton/internal/events"
)

// Metrics live on the process-wide default registry, so tests assert
// deltas rather than absolute values.

func TestRecordGesture(t *testing.T) {
	c := gesturesRouted.WithLabelValues("single", "3")
	before := testutil.ToFloat64(c)

	RecordGesture("single", 3)

	if got := testutil.ToFloat64(c); got != before+1 {
		t.Errorf("expected %v routed, got %v", before+1, got)
	}
}

func TestRecordRejected(t *testing.T) {
	c := gesturesRejected.WithLabelValues("2")
	before := testutil.ToFloat64(c)

	RecordRejected(2)

	if got := testutil.ToFloat64(c); got != before+1 {
		t.Errorf("expected %v rejected, got %v", before+1, got)
	}
}

func TestRecordResetFired(t *testing.T) {
	before := testutil.ToFloat64(resetsFired)

	RecordResetFired()

	if got := testutil.ToFloat64(resetsFired); got != before+1 {
		t.Errorf("expected %v resets, got %v", before+1, got)
	}
}

func TestSetGuardCount(t *testing.T) {
	SetGuardCount(1)
	if got := testutil.ToFloat64(guardCount); got != 1 {
		t.Errorf("expected guard count 1, got %v", got)
	}

	SetGuardCount(0)
	if got := testutil.ToFloat64(guardCount); got != 0 {
		t.Errorf("expected guard count 0, got %v", got)
	}
}

func TestSetProvisioningState(t *testing.T) {
	SetProvisioningState("setup")

	if got := testutil.ToFloat64(provisioningState.WithLabelValues("setup")); got != 1 {
		t.Errorf("expected setup=1, got %v", got)
	}
	if got := testutil.ToFloat64(provisioningState.WithLabelValues("connected")); got != 0 {
		t.Errorf("expected connected=0, got %v", got)
	}
	if got := testutil.ToFloat64(provisioningState.WithLabelValues("disconnected")); got != 0 {
		t.Errorf("expected disconnected=0, got %v", got)
	}

	SetProvisioningState("connected")
	if got := testutil.ToFloat64(provisioningState.WithLabelValues("setup")); got != 0 {
		t.Errorf("expected setup cleared, got %v", got)
	}
	if got := testutil.ToFloat64(provisioningState.WithLabelValues("connected")); got != 1 {
		t.Errorf("expected connected=1, got %v", got)
	}
}

func TestSetMQTTConnected(t *testing.T) {
	SetMQTTConnected(true)
	if got := testutil.ToFloat64(mqttConnected); got != 1 {
		t.Errorf("expected 1, got %v", got)
	}

	SetMQTTConnected(false)
	if got := testutil.ToFloat64(mqttConnected); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
}

func TestObserveCountsBusEvents(t *testing.T) {
	bus := events.New()
	t.Cleanup(func() { bus.Close() })
	unsub := Observe(bus)
	t.Cleanup(unsub)

	c := gesturesRouted.WithLabelValues("triple", "1")
	before := testutil.ToFloat64(c)

	bus.Publish(events.GestureRoutedEvent{Unit: 1, Kind: "triple", Code: 2})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if testutil.ToFloat64(c) == before+1 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected routed counter to reach %v, got %v", before+1, testutil.ToFloat64(c))
}

func TestObserveTracksGuardProgress(t *testing.T) {
	bus := events.New()
	t.Cleanup(func() { bus.Close() })
	unsub := Observe(bus)
	t.Cleanup(unsub)

	resetsBefore := testutil.ToFloat64(resetsFired)

	bus.Publish(events.ResetProgressEvent{Count: 1, Threshold: 2})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if testutil.ToFloat64(guardCount) == 1 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := testutil.ToFloat64(guardCount); got != 1 {
		t.Fatalf("expected guard count 1, got %v", got)
	}

	bus.Publish(events.ResetStartedEvent{Threshold: 2})

	deadline = time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if testutil.ToFloat64(resetsFired) == resetsBefore+1 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := testutil.ToFloat64(resetsFired); got != resetsBefore+1 {
		t.Errorf("expected resets fired %v, got %v", resetsBefore+1, got)
	}
	if got := testutil.ToFloat64(guardCount); got != 0 {
		t.Errorf("expected guard count reset to 0, got %v", got)
	}
}
