//go:build !linux

package button

import (
	"errors"

	"github.com/bitsplusatoms/multibutton/internal/events"
)

// Watcher is not available on non-Linux platforms.
type Watcher struct{}

// NewWatcher returns an error on non-Linux platforms.
func NewWatcher(_ Config, _ RouteFunc, _ *events.Bus) (*Watcher, error) {
	return nil, errors.New("button: not supported on this platform (requires Linux)")
}

// Close is not implemented on non-Linux platforms.
func (w *Watcher) Close() error {
	return nil
}
