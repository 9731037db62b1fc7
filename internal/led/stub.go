//go:build !linux

package led

import "errors"

// RealDriver is not available on non-Linux platforms.
type RealDriver struct{}

// NewRealDriver returns an error on non-Linux platforms.
func NewRealDriver(_ string) (*RealDriver, error) {
	return nil, errors.New("led: not supported on this platform (requires Linux)")
}

// Set is not implemented on non-Linux platforms.
func (d *RealDriver) Set(_ Color) error {
	return errors.New("led: not supported")
}

// Off is not implemented on non-Linux platforms.
func (d *RealDriver) Off() error {
	return nil
}
