// Package status provides a thread-safe status tracker for the
// daemon. It is read by HTTP handlers and feeds the MQTT lifecycle
// payloads.
package status

import (
	"sync"
	"time"
)

// UnitStatus is one switch unit's last observed activity.
type UnitStatus struct {
	Name        string
	Ordinal     int
	Operative   bool
	Events      int
	Rejected    int
	LastGesture string
	LastCode    int
	LastAt      time.Time
}

// GuardStatus mirrors the reset guard's counter for display.
type GuardStatus struct {
	Count     int
	Threshold int
}

// State derives idle or accumulating from the counter.
func (g GuardStatus) State() string {
	if g.Count == 0 {
		return "idle"
	}
	return "accumulating"
}

// ProvisioningStatus is the last provisioning state seen.
type ProvisioningStatus struct {
	State string
	SSID  string
	IP    string
}

// Config contains daemon configuration for display.
type Config struct {
	Pins           []int
	LongPressMs    int64
	GapMs          int64
	TickMs         int64
	ResetTrigger   string
	ResetThreshold int
	Broker         string
	BaseTopic      string
	HTTPPort       string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type with its own units slice — safe to use after the
// lock is released.
type Snapshot struct {
	Units         []UnitStatus
	Guard         GuardStatus
	Provisioning  ProvisioningStatus
	DeviceID      string
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu    sync.RWMutex
	units []UnitStatus
	guard GuardStatus
	prov  ProvisioningStatus

	deviceID string
	start    time.Time
	mqtt     bool
	cfg      Config
}

// NewTracker creates a Tracker with one entry per switch unit, all
// initially operative.
func NewTracker(startTime time.Time, unitNames []string, deviceID string, cfg Config) *Tracker {
	units := make([]UnitStatus, len(unitNames))
	for i, name := range unitNames {
		units[i] = UnitStatus{Name: name, Ordinal: i, Operative: true}
	}
	return &Tracker{
		units:    units,
		guard:    GuardStatus{Threshold: cfg.ResetThreshold},
		prov:     ProvisioningStatus{State: "disconnected"},
		deviceID: deviceID,
		start:    startTime,
		cfg:      cfg,
	}
}

// RecordGesture notes a routed gesture on a unit.
func (t *Tracker) RecordGesture(ordinal int, kind string, code int, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if ordinal < 0 || ordinal >= len(t.units) {
		return
	}
	u := &t.units[ordinal]
	u.Events++
	u.LastGesture = kind
	u.LastCode = code
	u.LastAt = at
}

// RecordRejected notes an unrecognized gesture on a unit.
func (t *Tracker) RecordRejected(ordinal int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if ordinal < 0 || ordinal >= len(t.units) {
		return
	}
	t.units[ordinal].Rejected++
}

// SetUnitOperative marks a unit usable or failed.
func (t *Tracker) SetUnitOperative(ordinal int, operative bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if ordinal < 0 || ordinal >= len(t.units) {
		return
	}
	t.units[ordinal].Operative = operative
}

// SetGuardCount mirrors the reset guard's trigger run.
func (t *Tracker) SetGuardCount(count int) {
	t.mu.Lock()
	t.guard.Count = count
	t.mu.Unlock()
}

// SetProvisioning sets the provisioning state.
func (t *Tracker) SetProvisioning(state, ssid, ip string) {
	t.mu.Lock()
	t.prov = ProvisioningStatus{State: state, SSID: ssid, IP: ip}
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.mqtt = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	units := make([]UnitStatus, len(t.units))
	copy(units, t.units)
	s := Snapshot{
		Units:         units,
		Guard:         t.guard,
		Provisioning:  t.prov,
		DeviceID:      t.deviceID,
		StartTime:     t.start,
		MQTTConnected: t.mqtt,
		Config:        t.cfg,
	}
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
