// Package provision tracks the network provisioning state maintained
// by the external provisioner and turns its transitions into bus
// events. The daemon never provisions the network itself; it only
// watches the status file the provisioner keeps current.
package provision

// Provisioning states as written by the provisioner.
const (
	StateConnected    = "connected"
	StateDisconnected = "disconnected"
	StateSetup        = "setup"
)

// Status is the JSON document the provisioner writes.
type Status struct {
	State string `json:"state"`
	SSID  string `json:"ssid,omitempty"`
	IP    string `json:"ip,omitempty"`
}
