package provision

import (
	"log/slog"
	"time"

	"github.com/bitsplusatoms/multibutton/internal/events"
	"github.com/bitsplusatoms/multibutton/internal/persistence"
)

// Record persists the network name whenever provisioning reports a
// connection, so the device remembers which network it belongs to
// across restarts. Rejoining the same network keeps the original
// provisioning timestamp. The returned function unsubscribes.
func Record(bus *events.Bus, store *persistence.ProvisioningStore) func() {
	return bus.Subscribe(func(ev events.ProvisioningChangedEvent) {
		if ev.State != StateConnected || ev.SSID == "" {
			return
		}
		prev, err := store.Load()
		if err != nil {
			slog.Warn("load provisioning record", "err", err)
		}
		if prev != nil && prev.SSID == ev.SSID {
			return
		}
		if err := store.Save(&persistence.ProvisioningState{
			SSID:          ev.SSID,
			ProvisionedAt: time.Now(),
		}); err != nil {
			slog.Warn("save provisioning record", "ssid", ev.SSID, "err", err)
		}
	})
}
