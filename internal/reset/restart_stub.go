//go:build !linux

package reset

import (
	"context"
	"errors"
)

type SystemdRestarter struct {
	unit string
}

func NewSystemdRestarter(unit string) *SystemdRestarter {
	return &SystemdRestarter{unit: unit}
}

func (r *SystemdRestarter) Restart(_ context.Context) error {
	return errors.New("reset: systemd restart not supported on this platform (requires Linux)")
}
