// Package persistence stores the small JSON state files that survive
// restarts: the network provisioning record and the pairing identity.
// A factory reset clears both.
package persistence

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// StateVersion is the current version of the state file format.
const StateVersion = 1

// ProvisioningState records the network the device was provisioned for.
type ProvisioningState struct {
	// Version is the state file format version.
	Version int `json:"version"`

	// SavedAt is when the state was last saved.
	SavedAt time.Time `json:"saved_at"`

	// SSID is the provisioned network name.
	SSID string `json:"ssid,omitempty"`

	// ProvisionedAt is when the device first joined this network.
	ProvisionedAt time.Time `json:"provisioned_at,omitempty"`
}

// ProvisioningStore manages persistence of the provisioning record to a
// JSON file.
type ProvisioningStore struct {
	mu   sync.Mutex
	path string
}

// NewProvisioningStore creates a provisioning store at path.
func NewProvisioningStore(path string) *ProvisioningStore {
	return &ProvisioningStore{path: path}
}

// Save persists the provisioning record to disk.
func (s *ProvisioningStore) Save(state *ProvisioningState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state.Version = StateVersion
	if state.SavedAt.IsZero() {
		state.SavedAt = time.Now()
	}
	return writeState(s.path, state)
}

// Load reads the provisioning record from disk.
// Returns nil, nil if the file doesn't exist (never provisioned).
func (s *ProvisioningStore) Load() (*ProvisioningState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := &ProvisioningState{}
	ok, err := readState(s.path, state)
	if err != nil || !ok {
		return nil, err
	}
	return state, nil
}

// Clear removes the provisioning record. The first step of a factory
// reset.
func (s *ProvisioningStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return removeState(s.path)
}

// PairingState is the device's pairing identity. Clearing it makes the
// device pair as factory new on the next boot.
type PairingState struct {
	// Version is the state file format version.
	Version int `json:"version"`

	// SavedAt is when the state was last saved.
	SavedAt time.Time `json:"saved_at"`

	// DeviceID is the stable identity minted on first boot.
	DeviceID string `json:"device_id"`

	// PairedAt is when a controller last paired with the device.
	PairedAt time.Time `json:"paired_at,omitempty"`
}

// PairingStore manages persistence of the pairing identity to a JSON
// file.
type PairingStore struct {
	mu   sync.Mutex
	path string
}

// NewPairingStore creates a pairing store at path.
func NewPairingStore(path string) *PairingStore {
	return &PairingStore{path: path}
}

// LoadOrCreate reads the pairing identity, minting a fresh device ID
// when no file exists yet.
func (s *PairingStore) LoadOrCreate() (*PairingState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := &PairingState{}
	ok, err := readState(s.path, state)
	if err != nil {
		return nil, err
	}
	if ok {
		return state, nil
	}

	state = &PairingState{
		Version:  StateVersion,
		SavedAt:  time.Now(),
		DeviceID: uuid.NewString(),
	}
	if err := writeState(s.path, state); err != nil {
		return nil, err
	}
	return state, nil
}

// Save persists the pairing identity to disk.
func (s *PairingStore) Save(state *PairingState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state.Version = StateVersion
	if state.SavedAt.IsZero() {
		state.SavedAt = time.Now()
	}
	return writeState(s.path, state)
}

// Clear removes the pairing identity. The second step of a factory
// reset.
func (s *PairingStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return removeState(s.path)
}

// writeState marshals state to path, creating the parent directory.
func writeState(path string, state any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// readState unmarshals path into state. Returns false when the file
// does not exist.
func readState(path string, state any) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, state); err != nil {
		return false, err
	}
	return true, nil
}

// removeState deletes path, tolerating an already absent file.
func removeState(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
