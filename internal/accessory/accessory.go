// Package accessory models the fixed accessory tree the device
// exposes: one identification unit plus one stateless programmable
// switch unit per physical button. The tree shape is frozen at build
// time; characteristic values are the only moving parts afterwards.
package accessory

import (
	"fmt"
	"net"
	"sync"
)

// Switch event codes, matching the stateless programmable switch
// vocabulary remote controllers expect.
const (
	EventSinglePress = 0
	EventDoublePress = 1
	EventLongPress   = 2
)

// ValidEventCode reports whether code is one of the switch event codes.
func ValidEventCode(code int) bool {
	return code >= EventSinglePress && code <= EventLongPress
}

// Characteristic holds one mutable value of the tree behind a mutex.
type Characteristic struct {
	mu    sync.Mutex
	value int
	set   bool
}

// Set stores a new value.
func (c *Characteristic) Set(v int) {
	c.mu.Lock()
	c.value = v
	c.set = true
	c.mu.Unlock()
}

// Value returns the current value and whether one was ever set.
func (c *Characteristic) Value() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, c.set
}

// InfoUnit identifies the accessory as a whole.
type InfoUnit struct {
	Name             string
	Manufacturer     string
	Model            string
	SerialNumber     string
	FirmwareRevision string
}

// SwitchUnit is one stateless programmable switch.
type SwitchUnit struct {
	// Ordinal is the zero-based position of the unit in the tree.
	Ordinal int

	// Name derives from the one-based ordinal: B01, B02, ...
	Name string

	// Primary marks the unit controllers present first. Exactly one
	// unit per tree is primary.
	Primary bool

	// Event carries the last switch event code.
	Event *Characteristic
}

// DeviceInfo carries the identification strings for Build.
type DeviceInfo struct {
	Manufacturer string
	Model        string
	SerialNumber string
	Firmware     string
}

// Tree is the built accessory. Do not mutate it after Build.
type Tree struct {
	Info  *InfoUnit
	Units []*SwitchUnit
}

// Build assembles the tree for n physical buttons. The accessory name
// combines the base name with the MAC suffix so several devices on one
// network stay distinguishable.
func Build(n int, baseName, macSuffix string, info DeviceInfo) (*Tree, error) {
	if n < 1 {
		return nil, fmt.Errorf("accessory needs at least one switch unit, got %d", n)
	}

	units := make([]*SwitchUnit, n)
	for i := range units {
		units[i] = &SwitchUnit{
			Ordinal: i,
			Name:    fmt.Sprintf("B%02d", i+1),
			Primary: i == 0,
			Event:   &Characteristic{},
		}
	}

	return &Tree{
		Info: &InfoUnit{
			Name:             fmt.Sprintf("%s-%s", baseName, macSuffix),
			Manufacturer:     info.Manufacturer,
			Model:            info.Model,
			SerialNumber:     info.SerialNumber,
			FirmwareRevision: info.Firmware,
		},
		Units: units,
	}, nil
}

// Unit returns the switch unit at the given ordinal.
func (t *Tree) Unit(ordinal int) (*SwitchUnit, error) {
	if ordinal < 0 || ordinal >= len(t.Units) {
		return nil, fmt.Errorf("no switch unit at ordinal %d", ordinal)
	}
	return t.Units[ordinal], nil
}

// UnitNames returns the switch unit names in ordinal order.
func (t *Tree) UnitNames() []string {
	names := make([]string, len(t.Units))
	for i, u := range t.Units {
		names[i] = u.Name
	}
	return names
}

// SuffixFromMAC derives the device name suffix from the last three
// bytes of the hardware address, matching the label printed on the
// case. Too-short addresses fall back to all zeros.
func SuffixFromMAC(addr net.HardwareAddr) string {
	if len(addr) < 3 {
		return "000000"
	}
	tail := addr[len(addr)-3:]
	return fmt.Sprintf("%02X%02X%02X", tail[0], tail[1], tail[2])
}
