package announce

import (
	"log/slog"

	"github.com/bitsplusatoms/multibutton/internal/events"
	"github.com/bitsplusatoms/multibutton/internal/provision"
)

// Observe ties the advertiser to provisioning transitions: the record
// is live while the device has a network connection and withdrawn
// otherwise, so browsers never resolve an address that just went away.
// Returns the unsubscribe func.
func Observe(bus *events.Bus, adv *Advertiser) func() {
	return bus.Subscribe(func(ev events.ProvisioningChangedEvent) {
		if ev.State != provision.StateConnected {
			adv.Stop()
			return
		}
		if err := adv.Start(); err != nil {
			slog.Warn("mdns registration failed", "instance", adv.instance, "err", err)
		}
	})
}
