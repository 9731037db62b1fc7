package provision

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/bitsplusatoms/multibutton/internal/events"
	"github.com/bitsplusatoms/multibutton/internal/persistence"
)

func newTestRecorder(t *testing.T) (*events.Bus, *persistence.ProvisioningStore) {
	t.Helper()
	bus := events.New()
	t.Cleanup(func() { bus.Close() })
	store := persistence.NewProvisioningStore(filepath.Join(t.TempDir(), "provisioning.json"))
	unsub := Record(bus, store)
	t.Cleanup(unsub)
	return bus, store
}

// waitForRecord polls the store until cond holds for the loaded record.
// Event delivery is asynchronous, so saves land a moment after publish.
func waitForRecord(t *testing.T, store *persistence.ProvisioningStore, cond func(*persistence.ProvisioningState) bool) *persistence.ProvisioningState {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		st, err := store.Load()
		if err != nil {
			t.Fatalf("load record: %v", err)
		}
		if cond(st) {
			return st
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for provisioning record")
	return nil
}

func TestRecordSavesOnConnect(t *testing.T) {
	bus, store := newTestRecorder(t)

	bus.Publish(events.ProvisioningChangedEvent{
		Prev: StateSetup, State: StateConnected, SSID: "home", IP: "10.0.0.7",
	})

	st := waitForRecord(t, store, func(st *persistence.ProvisioningState) bool {
		return st != nil && st.SSID == "home"
	})
	if st.ProvisionedAt.IsZero() {
		t.Errorf("expected provisioned_at to be set")
	}
}

func TestRecordIgnoresNonConnectedStates(t *testing.T) {
	bus, store := newTestRecorder(t)

	bus.Publish(events.ProvisioningChangedEvent{Prev: StateConnected, State: StateDisconnected, SSID: "home"})
	bus.Publish(events.ProvisioningChangedEvent{Prev: StateDisconnected, State: StateSetup, SSID: "MultiB-Setup"})
	bus.Publish(events.ProvisioningChangedEvent{Prev: StateSetup, State: StateConnected})

	time.Sleep(300 * time.Millisecond)
	st, err := store.Load()
	if err != nil {
		t.Fatalf("load record: %v", err)
	}
	if st != nil {
		t.Errorf("expected no record, got ssid %q", st.SSID)
	}
}

func TestRecordKeepsTimestampForSameNetwork(t *testing.T) {
	bus, store := newTestRecorder(t)

	first := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	if err := store.Save(&persistence.ProvisioningState{SSID: "home", ProvisionedAt: first}); err != nil {
		t.Fatalf("seed record: %v", err)
	}

	bus.Publish(events.ProvisioningChangedEvent{Prev: StateDisconnected, State: StateConnected, SSID: "home"})

	time.Sleep(300 * time.Millisecond)
	st, err := store.Load()
	if err != nil {
		t.Fatalf("load record: %v", err)
	}
	if st == nil {
		t.Fatalf("expected record to survive")
	}
	if !st.ProvisionedAt.Equal(first) {
		t.Errorf("expected provisioned_at %v to be kept, got %v", first, st.ProvisionedAt)
	}
}

func TestRecordReplacesDifferentNetwork(t *testing.T) {
	bus, store := newTestRecorder(t)

	first := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	if err := store.Save(&persistence.ProvisioningState{SSID: "old", ProvisionedAt: first}); err != nil {
		t.Fatalf("seed record: %v", err)
	}

	bus.Publish(events.ProvisioningChangedEvent{Prev: StateDisconnected, State: StateConnected, SSID: "new"})

	st := waitForRecord(t, store, func(st *persistence.ProvisioningState) bool {
		return st != nil && st.SSID == "new"
	})
	if !st.ProvisionedAt.After(first) {
		t.Errorf("expected fresh provisioned_at, got %v", st.ProvisionedAt)
	}
}
