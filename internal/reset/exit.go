package reset

import (
	"context"
	"log/slog"
	"os"
)

// ExitRestarter exits the process with status 0 and relies on the
// service manager's restart policy to bring it back. Used when no
// systemd unit is configured.
type ExitRestarter struct {
	exitFunc func(int)
}

var _ Restarter = (*ExitRestarter)(nil)

func NewExitRestarter() *ExitRestarter {
	return &ExitRestarter{exitFunc: os.Exit}
}

func (r *ExitRestarter) Restart(_ context.Context) error {
	slog.Info("exiting for supervised restart")
	r.exitFunc(0)
	return nil
}
