package led

import "log/slog"

// NoopDriver is used when the LED hardware is unavailable. The daemon
// keeps routing gestures; only the visual feedback is lost.
type NoopDriver struct{}

// NewNoopDriver creates a no-op LED driver.
func NewNoopDriver() *NoopDriver {
	return &NoopDriver{}
}

// Set logs the request but performs no LED control.
func (n *NoopDriver) Set(c Color) error {
	slog.Debug("led not available", "r", c.R, "g", c.G, "b", c.B)
	return nil
}

// Off performs no LED control.
func (n *NoopDriver) Off() error {
	return nil
}

var _ Driver = (*NoopDriver)(nil)
