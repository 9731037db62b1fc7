// Package announce publishes the daemon's presence on the local
// network over mDNS. The service record carries enough TXT metadata
// for a controller to identify the device without connecting.
package announce

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/enbility/zeroconf/v3"
)

// Service identity as browsed by controllers.
const (
	ServiceType = "_multibutton._tcp"
	Domain      = "local."
)

// registration is the handle for a live mDNS record. Satisfied by
// *zeroconf.Server; tests substitute a fake.
type registration interface {
	Shutdown()
}

// registerFunc creates a registration. The production implementation
// binds multicast sockets, so tests swap it out.
type registerFunc func(instance string, port int, txt []string) (registration, error)

func zeroconfRegister(instance string, port int, txt []string) (registration, error) {
	server, err := zeroconf.Register(instance, ServiceType, Domain, port, txt, nil)
	if err != nil {
		return nil, err
	}
	return server, nil
}

// Advertiser registers and withdraws the daemon's service record.
// All methods are safe for concurrent use.
type Advertiser struct {
	instance string
	port     int
	txt      []string

	register registerFunc

	mu     sync.Mutex
	active registration
}

// NewAdvertiser prepares an advertiser for the given instance name and
// port. Nothing is registered until Start.
func NewAdvertiser(instance string, port int, txt []string) *Advertiser {
	return &Advertiser{
		instance: instance,
		port:     port,
		txt:      txt,
		register: zeroconfRegister,
	}
}

// Start registers the service record, replacing any live registration.
func (a *Advertiser) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.active != nil {
		a.active.Shutdown()
		a.active = nil
	}

	reg, err := a.register(a.instance, a.port, a.txt)
	if err != nil {
		return fmt.Errorf("register %s: %w", ServiceType, err)
	}
	a.active = reg
	return nil
}

// Stop withdraws the service record. Stopping while not advertising
// is a no-op.
func (a *Advertiser) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.active != nil {
		a.active.Shutdown()
		a.active = nil
	}
}

// Active reports whether a service record is currently registered.
func (a *Advertiser) Active() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active != nil
}

// InstanceName derives the advertised instance name from the device
// name and serial, e.g. "MultiB A1B2C3".
func InstanceName(deviceName, serial string) string {
	return deviceName + " " + serial
}

// TXTRecords builds the TXT metadata advertised with the record.
func TXTRecords(serial, firmware string, units int) []string {
	return []string{
		"serial=" + serial,
		"version=" + firmware,
		"units=" + strconv.Itoa(units),
	}
}
