//go:build linux

package reset

import (
	"context"
	"fmt"

	"github.com/coreos/go-systemd/v22/dbus"
)

// SystemdRestarter restarts the daemon's systemd unit over D-Bus.
type SystemdRestarter struct {
	unit string
}

var _ Restarter = (*SystemdRestarter)(nil)

func NewSystemdRestarter(unit string) *SystemdRestarter {
	return &SystemdRestarter{unit: unit}
}

// Restart asks systemd to restart the unit in replace mode. The
// connection is opened per call; a reset happens at most once in a
// process lifetime.
func (r *SystemdRestarter) Restart(ctx context.Context) error {
	conn, err := dbus.NewSystemConnectionContext(ctx)
	if err != nil {
		return fmt.Errorf("connect to systemd: %w", err)
	}
	defer conn.Close()

	if _, err := conn.RestartUnitContext(ctx, r.unit, "replace", nil); err != nil {
		return fmt.Errorf("restart unit %s: %w", r.unit, err)
	}
	return nil
}
