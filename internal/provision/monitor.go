package provision

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bitsplusatoms/multibutton/internal/events"
)

// debouncePeriod coalesces the burst of filesystem events a single
// status file update produces.
const debouncePeriod = 200 * time.Millisecond

// Monitor watches the provisioner's status file and publishes a
// ProvisioningChangedEvent whenever the recorded state moves. An
// absent or unreadable file reads as disconnected.
type Monitor struct {
	path    string
	bus     *events.Bus
	watcher *fsnotify.Watcher

	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	mu   sync.Mutex
	last Status
}

// NewMonitor starts watching the status file at path. The parent
// directory is watched rather than the file itself because
// provisioners replace the file by rename, which would silently
// detach a watch on the old inode. The initial file contents are
// published as a transition from disconnected when they differ.
func NewMonitor(path string, bus *events.Bus) (*Monitor, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	m := &Monitor{
		path:    path,
		bus:     bus,
		watcher: watcher,
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
		last:    Status{State: StateDisconnected},
	}
	m.refresh()
	go m.watch()
	return m, nil
}

func (m *Monitor) watch() {
	defer close(m.done)

	var debounce *time.Timer
	var debounceC <-chan time.Time

	for {
		select {
		case <-m.quit:
			return
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(m.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(debouncePeriod)
				debounceC = debounce.C
			} else {
				debounce.Reset(debouncePeriod)
			}
		case <-debounceC:
			debounceC = nil
			debounce = nil
			m.refresh()
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("provisioning watcher error", "err", err)
		}
	}
}

// refresh re-reads the status file and publishes a change event when
// it differs from the last observed status.
func (m *Monitor) refresh() {
	status := m.read()

	m.mu.Lock()
	prev := m.last
	if status == prev {
		m.mu.Unlock()
		return
	}
	m.last = status
	m.mu.Unlock()

	slog.Info("provisioning state changed",
		"prev", prev.State, "state", status.State, "ssid", status.SSID, "ip", status.IP)
	m.bus.Publish(events.ProvisioningChangedEvent{
		Prev:  prev.State,
		State: status.State,
		SSID:  status.SSID,
		IP:    status.IP,
	})
}

func (m *Monitor) read() Status {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("read provisioning status", "path", m.path, "err", err)
		}
		return Status{State: StateDisconnected}
	}
	var s Status
	if err := json.Unmarshal(data, &s); err != nil {
		slog.Warn("parse provisioning status", "path", m.path, "err", err)
		return Status{State: StateDisconnected}
	}
	switch s.State {
	case StateConnected, StateDisconnected, StateSetup:
	default:
		slog.Warn("unknown provisioning state", "state", s.State)
		s = Status{State: StateDisconnected}
	}
	return s
}

// Last returns the most recently observed status.
func (m *Monitor) Last() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// Close stops watching the status file.
func (m *Monitor) Close() error {
	var err error
	m.closeOnce.Do(func() {
		close(m.quit)
		err = m.watcher.Close()
		<-m.done
	})
	return err
}
