// Package reset runs the factory reset sequence: erase provisioning
// state, erase pairing state, restart the daemon. The sequence keeps
// going when an individual step fails so that a half-broken
// filesystem still ends in a restart.
package reset

import (
	"context"
	"log/slog"
	"time"
)

// Clearer erases one category of persisted state.
type Clearer interface {
	Clear() error
}

// Restarter restarts the daemon after state has been erased.
type Restarter interface {
	Restart(ctx context.Context) error
}

// Sequencer drives the reset steps in order with a settle pause
// between them, giving the filesystem time to sync before the
// restart cuts power to the process.
type Sequencer struct {
	provisioning Clearer
	pairing      Clearer
	restarter    Restarter
	settle       time.Duration
}

func NewSequencer(provisioning, pairing Clearer, restarter Restarter, settle time.Duration) *Sequencer {
	return &Sequencer{
		provisioning: provisioning,
		pairing:      pairing,
		restarter:    restarter,
		settle:       settle,
	}
}

// Run executes the full sequence. Step failures are logged and the
// next step runs anyway.
func (s *Sequencer) Run(ctx context.Context) {
	slog.Info("factory reset started")

	if err := s.provisioning.Clear(); err != nil {
		slog.Error("clear provisioning state", "err", err)
	}
	s.pause(ctx)

	if err := s.pairing.Clear(); err != nil {
		slog.Error("clear pairing state", "err", err)
	}
	s.pause(ctx)

	slog.Info("restarting after factory reset")
	if err := s.restarter.Restart(ctx); err != nil {
		slog.Error("restart", "err", err)
	}
}

func (s *Sequencer) pause(ctx context.Context) {
	if s.settle <= 0 {
		return
	}
	t := time.NewTimer(s.settle)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
