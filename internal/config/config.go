// Package config loads and validates the daemon configuration from a
// TOML file. A missing file runs the daemon on defaults; a malformed
// or invalid file is fatal at startup.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/bitsplusatoms/multibutton/internal/gesture"
)

// Device describes the accessory as reported to consumers.
type Device struct {
	Name         string `toml:"name"`
	Manufacturer string `toml:"manufacturer"`
	Model        string `toml:"model"`
	Firmware     string `toml:"firmware"`
	Serial       string `toml:"serial"`
}

// Buttons configures the GPIO lines and press timing.
type Buttons struct {
	Chip        string `toml:"chip"`
	Pins        []int  `toml:"pins"`
	LongPressMs int    `toml:"long_press_ms"`
	GapMs       int    `toml:"gap_ms"`
	DebounceMs  int    `toml:"debounce_ms"`
	TickMs      int    `toml:"tick_ms"`
}

func (b Buttons) LongPress() time.Duration { return time.Duration(b.LongPressMs) * time.Millisecond }
func (b Buttons) Gap() time.Duration       { return time.Duration(b.GapMs) * time.Millisecond }
func (b Buttons) Debounce() time.Duration  { return time.Duration(b.DebounceMs) * time.Millisecond }
func (b Buttons) Tick() time.Duration      { return time.Duration(b.TickMs) * time.Millisecond }

// Reset configures the factory reset gesture and sequence.
type Reset struct {
	Trigger   string `toml:"trigger"`
	Threshold int    `toml:"threshold"`
	SettleMs  int    `toml:"settle_ms"`
	Unit      string `toml:"unit"`
}

func (r Reset) Settle() time.Duration { return time.Duration(r.SettleMs) * time.Millisecond }

// LED names the feedback LED pin. Empty disables the LED.
type LED struct {
	Pin string `toml:"pin"`
}

// MQTT configures the broker connection and topic layout. An empty
// client id derives one from the device serial.
type MQTT struct {
	Broker          string `toml:"broker"`
	ClientID        string `toml:"client_id"`
	BaseTopic       string `toml:"base_topic"`
	DiscoveryPrefix string `toml:"discovery_prefix"`
}

// Provision locates the provisioner's status file. Empty disables
// provisioning tracking.
type Provision struct {
	StatusPath string `toml:"status_path"`
}

// State locates the persisted state directory.
type State struct {
	Dir string `toml:"dir"`
}

// Web configures the HTTP status server. Empty addr disables it; an
// empty password hash disables authentication.
type Web struct {
	Addr         string `toml:"addr"`
	Username     string `toml:"username"`
	PasswordHash string `toml:"password_hash"`
}

// Log configures logging.
type Log struct {
	Level string `toml:"level"`
}

type Config struct {
	Device    Device         `toml:"device"`
	Buttons   Buttons        `toml:"buttons"`
	Mapping   map[string]int `toml:"mapping"`
	Reset     Reset          `toml:"reset"`
	LED       LED            `toml:"led"`
	MQTT      MQTT           `toml:"mqtt"`
	Provision Provision      `toml:"provision"`
	State     State          `toml:"state"`
	Web       Web            `toml:"web"`
	Log       Log            `toml:"log"`
}

// Default returns the configuration the daemon runs with when no file
// is present.
func Default() Config {
	return Config{
		Device: Device{
			Name:         "MultiB",
			Manufacturer: "BitsPlusAtoms",
			Model:        "MultiB",
			Firmware:     "2.0.0",
		},
		Buttons: Buttons{
			Chip:        "gpiochip0",
			Pins:        []int{2, 4, 5, 14},
			LongPressMs: 4000,
			GapMs:       400,
			DebounceMs:  20,
			TickMs:      25,
		},
		Mapping: map[string]int{
			string(gesture.Single): 0,
			string(gesture.Long):   1,
			string(gesture.Triple): 2,
		},
		Reset: Reset{
			Trigger:   string(gesture.Double),
			Threshold: 2,
			SettleMs:  1000,
			Unit:      "multibutton.service",
		},
		LED: LED{
			Pin: "GPIO15",
		},
		MQTT: MQTT{
			Broker:          "tcp://192.168.1.200:1883",
			BaseTopic:       "multibutton",
			DiscoveryPrefix: "homeassistant",
		},
		Provision: Provision{
			StatusPath: "/run/provisioner/status.json",
		},
		State: State{
			Dir: "/var/lib/multibutton",
		},
		Web: Web{
			Addr:     ":80",
			Username: "admin",
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load reads the configuration at path on top of the defaults. A
// missing file returns the defaults unchanged. A [mapping] table in
// the file replaces the default mapping rather than merging with it,
// so gestures can be unmapped.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	var present struct {
		Mapping map[string]int `toml:"mapping"`
	}
	if err := toml.Unmarshal(data, &present); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if present.Mapping != nil {
		cfg.Mapping = map[string]int{}
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration and returns the first problem
// found.
func (c Config) Validate() error {
	if len(c.Buttons.Pins) == 0 {
		return fmt.Errorf("at least one button pin required")
	}
	seen := map[int]bool{}
	for _, pin := range c.Buttons.Pins {
		if pin < 0 {
			return fmt.Errorf("invalid button pin %d", pin)
		}
		if seen[pin] {
			return fmt.Errorf("duplicate button pin %d", pin)
		}
		seen[pin] = true
	}
	if c.Buttons.LongPressMs <= 0 {
		return fmt.Errorf("long_press_ms must be positive, got %d", c.Buttons.LongPressMs)
	}
	if c.Buttons.GapMs <= 0 {
		return fmt.Errorf("gap_ms must be positive, got %d", c.Buttons.GapMs)
	}
	if c.Buttons.DebounceMs < 0 {
		return fmt.Errorf("debounce_ms must not be negative, got %d", c.Buttons.DebounceMs)
	}
	if c.Buttons.TickMs <= 0 {
		return fmt.Errorf("tick_ms must be positive, got %d", c.Buttons.TickMs)
	}

	trigger, err := gesture.ParseKind(c.Reset.Trigger)
	if err != nil {
		return fmt.Errorf("reset trigger: %w", err)
	}
	if c.Reset.Threshold < 2 {
		return fmt.Errorf("reset threshold must be at least 2, got %d", c.Reset.Threshold)
	}
	if c.Reset.SettleMs < 0 {
		return fmt.Errorf("settle_ms must not be negative, got %d", c.Reset.SettleMs)
	}

	for name, code := range c.Mapping {
		kind, err := gesture.ParseKind(name)
		if err != nil {
			return fmt.Errorf("mapping: %w", err)
		}
		if kind == trigger {
			return fmt.Errorf("reset trigger %q cannot also be mapped to a switch event", name)
		}
		if code < 0 || code > 2 {
			return fmt.Errorf("mapping %s: event code must be 0..2, got %d", name, code)
		}
	}

	if c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt broker required")
	}
	if c.State.Dir == "" {
		return fmt.Errorf("state dir required")
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}

// GestureMapping converts the configured mapping to gesture kinds.
// Call Validate first; unparseable kinds are skipped here.
func (c Config) GestureMapping() gesture.Mapping {
	m := gesture.Mapping{}
	for name, code := range c.Mapping {
		kind, err := gesture.ParseKind(name)
		if err != nil {
			continue
		}
		m[kind] = code
	}
	return m
}
