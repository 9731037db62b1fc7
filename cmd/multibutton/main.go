// Command multibutton turns button presses on GPIO lines into switch
// events for remote subscribers, with LED feedback and a gesture-based
// factory reset.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"syscall"
	"time"

	"github.com/bitsplusatoms/multibutton/internal/accessory"
	"github.com/bitsplusatoms/multibutton/internal/announce"
	"github.com/bitsplusatoms/multibutton/internal/button"
	"github.com/bitsplusatoms/multibutton/internal/config"
	"github.com/bitsplusatoms/multibutton/internal/events"
	"github.com/bitsplusatoms/multibutton/internal/feedback"
	"github.com/bitsplusatoms/multibutton/internal/gesture"
	"github.com/bitsplusatoms/multibutton/internal/led"
	"github.com/bitsplusatoms/multibutton/internal/logging"
	"github.com/bitsplusatoms/multibutton/internal/metrics"
	"github.com/bitsplusatoms/multibutton/internal/mqtt"
	"github.com/bitsplusatoms/multibutton/internal/persistence"
	"github.com/bitsplusatoms/multibutton/internal/provision"
	"github.com/bitsplusatoms/multibutton/internal/reset"
	"github.com/bitsplusatoms/multibutton/internal/status"
	"github.com/bitsplusatoms/multibutton/internal/web"
)

// statusRefreshInterval is how often the run loop re-samples the
// broker connection for the status page and metrics.
const statusRefreshInterval = 30 * time.Second

func main() {
	configPath := flag.String("config", "/etc/multibutton/config.toml", "Configuration file path")
	printTreeMode := flag.Bool("print-tree", false, "Print the accessory tree and exit")
	checkMode := flag.Bool("check", false, "Validate the configuration and exit")
	hashPassword := flag.String("hash-password", "", "Print a bcrypt hash for the given web password and exit")
	flag.Parse()

	if err := run(*configPath, *printTreeMode, *checkMode, *hashPassword); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(configPath string, printTreeMode, checkMode bool, hashPassword string) error {
	if hashPassword != "" {
		hash, err := web.HashPassword(hashPassword)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		fmt.Println(hash)
		return nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if checkMode {
		fmt.Println("config ok")
		return nil
	}

	if err := logging.Setup(cfg.Log.Level); err != nil {
		return err
	}

	suffix := "000000"
	if ifaces, err := net.Interfaces(); err == nil {
		suffix = deviceSuffix(ifaces)
	} else {
		slog.Warn("listing network interfaces failed", "err", err)
	}
	if cfg.Device.Serial == "" {
		cfg.Device.Serial = suffix
	}

	tree, err := accessory.Build(len(cfg.Buttons.Pins), cfg.Device.Name, suffix, accessory.DeviceInfo{
		Manufacturer: cfg.Device.Manufacturer,
		Model:        cfg.Device.Model,
		SerialNumber: cfg.Device.Serial,
		Firmware:     cfg.Device.Firmware,
	})
	if err != nil {
		return fmt.Errorf("build accessory tree: %w", err)
	}
	if printTreeMode {
		printTree(os.Stdout, tree)
		return nil
	}

	bus := events.New()
	defer bus.Close()

	pairingStore := persistence.NewPairingStore(filepath.Join(cfg.State.Dir, "pairing.json"))
	provisioningStore := persistence.NewProvisioningStore(filepath.Join(cfg.State.Dir, "provisioning.json"))
	pairing, err := pairingStore.LoadOrCreate()
	if err != nil {
		return fmt.Errorf("load pairing state: %w", err)
	}
	slog.Info("device identity",
		"name", tree.Info.Name, "device_id", pairing.DeviceID, "serial", cfg.Device.Serial)

	scheduler := feedback.NewScheduler(buildLEDDriver(cfg.LED.Pin))
	defer scheduler.Close()
	scheduler.Solid(led.Gray)
	manager := feedback.NewManager(scheduler, bus)
	defer manager.Close()

	metrics.Observe(bus)

	tracker := status.NewTracker(time.Now(), tree.UnitNames(), tree.Info.Name, status.Config{
		Pins:           cfg.Buttons.Pins,
		LongPressMs:    int64(cfg.Buttons.LongPressMs),
		GapMs:          int64(cfg.Buttons.GapMs),
		TickMs:         int64(cfg.Buttons.TickMs),
		ResetTrigger:   cfg.Reset.Trigger,
		ResetThreshold: cfg.Reset.Threshold,
		Broker:         cfg.MQTT.Broker,
		BaseTopic:      cfg.MQTT.BaseTopic,
		HTTPPort:       cfg.Web.Addr,
	})
	status.Observe(bus, tracker)

	guard, err := gesture.NewGuard(cfg.Reset.Threshold)
	if err != nil {
		return fmt.Errorf("reset guard: %w", err)
	}
	var restarter reset.Restarter
	if cfg.Reset.Unit != "" {
		restarter = reset.NewSystemdRestarter(cfg.Reset.Unit)
	} else {
		restarter = reset.NewExitRestarter()
	}
	sequencer := reset.NewSequencer(provisioningStore, pairingStore, restarter, cfg.Reset.Settle())

	sink, err := mqtt.NewRealSink(mqtt.Config{
		Broker:          cfg.MQTT.Broker,
		ClientID:        cfg.MQTT.ClientID,
		BaseTopic:       cfg.MQTT.BaseTopic,
		DiscoveryPrefix: cfg.MQTT.DiscoveryPrefix,
		DeviceName:      tree.Info.Name,
		Manufacturer:    cfg.Device.Manufacturer,
		Model:           cfg.Device.Model,
		Serial:          cfg.Device.Serial,
		Firmware:        cfg.Device.Firmware,
		Units:           tree.UnitNames(),
		Codes:           mappedCodes(cfg.GestureMapping()),
	}, bus)
	if err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}
	defer sink.Close()

	dispatcher := accessory.NewDispatcher(tree, sink)

	trigger, err := gesture.ParseKind(cfg.Reset.Trigger)
	if err != nil {
		return fmt.Errorf("reset trigger: %w", err)
	}
	router, err := gesture.NewRouter(cfg.GestureMapping(), trigger, guard, dispatcher, sequencer.Run, bus)
	if err != nil {
		return fmt.Errorf("gesture router: %w", err)
	}

	watcher, err := button.NewWatcher(button.Config{
		Chip:      cfg.Buttons.Chip,
		Pins:      cfg.Buttons.Pins,
		LongPress: cfg.Buttons.LongPress(),
		Gap:       cfg.Buttons.Gap(),
		Debounce:  cfg.Buttons.Debounce(),
		Tick:      cfg.Buttons.Tick(),
	}, router.Route, bus)
	if err != nil {
		return fmt.Errorf("buttons: %w", err)
	}
	defer watcher.Close()

	adv := announce.NewAdvertiser(
		announce.InstanceName(cfg.Device.Name, suffix),
		addrPort(cfg.Web.Addr),
		announce.TXTRecords(cfg.Device.Serial, cfg.Device.Firmware, len(tree.Units)),
	)
	announce.Observe(bus, adv)
	defer adv.Stop()

	// The monitor publishes its seed state on creation, so every
	// subscriber has to be wired before this point.
	if cfg.Provision.StatusPath != "" {
		provision.Record(bus, provisioningStore)
		monitor, err := provision.NewMonitor(cfg.Provision.StatusPath, bus)
		if err != nil {
			slog.Warn("provisioning monitor unavailable", "path", cfg.Provision.StatusPath, "err", err)
		} else {
			defer monitor.Close()
		}
	}

	if cfg.Web.Addr != "" {
		srv := web.New(web.Config{
			Addr:         cfg.Web.Addr,
			Username:     cfg.Web.Username,
			PasswordHash: cfg.Web.PasswordHash,
		}, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("http server error", "err", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		slog.Info("http status server listening", "addr", cfg.Web.Addr)
	}

	tracker.SetMQTTConnected(sink.IsConnected())
	snap := tracker.Snapshot()
	startup := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := sink.PublishSystem(startup); err != nil {
		slog.Warn("startup event publish failed", "err", err)
	} else {
		slog.Info("published startup event")
	}

	slog.Info("started",
		"units", len(tree.Units),
		"long_press", cfg.Buttons.LongPress(),
		"gap", cfg.Buttons.Gap(),
		"reset_trigger", cfg.Reset.Trigger,
		"broker", cfg.MQTT.Broker)

	ticker := time.NewTicker(statusRefreshInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(sink, sink, tracker, time.Now, ticker.C, sigCh)
}

// runLoop waits for shutdown while keeping the connection state on the
// status page fresh. The gesture path itself runs on the watcher's
// goroutines; nothing here sits between a press and its event.
func runLoop(sink mqtt.Sink, conn mqtt.ConnectionStatus, tracker *status.Tracker, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			slog.Info("received signal, shutting down", "signal", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if conn != nil {
					tracker.SetMQTTConnected(conn.IsConnected())
				}
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := sink.PublishSystem(event); err != nil {
				slog.Warn("shutdown event publish failed", "err", err)
			} else {
				slog.Info("published shutdown event")
			}
			return nil

		case <-tick:
			if tracker != nil && conn != nil {
				connected := conn.IsConnected()
				tracker.SetMQTTConnected(connected)
				metrics.SetMQTTConnected(connected)
			}
		}
	}
}

// deviceSuffix derives the device name suffix from the first
// non-loopback interface with a hardware address.
func deviceSuffix(ifaces []net.Interface) string {
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 || len(iface.HardwareAddr) < 3 {
			continue
		}
		return accessory.SuffixFromMAC(iface.HardwareAddr)
	}
	return "000000"
}

// buildLEDDriver opens the feedback LED, falling back to a no-op
// driver so the daemon still runs when the LED is absent.
func buildLEDDriver(pin string) led.Driver {
	if pin == "" {
		return led.NewNoopDriver()
	}
	driver, err := led.NewRealDriver(pin)
	if err != nil {
		slog.Warn("led unavailable, feedback disabled", "pin", pin, "err", err)
		return led.NewNoopDriver()
	}
	return driver
}

// mappedCodes returns the distinct switch event codes of the mapping
// in ascending order.
func mappedCodes(m gesture.Mapping) []int {
	seen := make(map[int]bool, len(m))
	for _, code := range m {
		seen[code] = true
	}
	codes := make([]int, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}

// addrPort extracts the TCP port from a listen address for the mDNS
// record. Unparseable addresses advertise port 80.
func addrPort(addr string) int {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 80
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return 80
	}
	return port
}

func printTree(w io.Writer, t *accessory.Tree) {
	fmt.Fprintf(w, "%s (%s %s, serial %s, firmware %s)\n",
		t.Info.Name, t.Info.Manufacturer, t.Info.Model, t.Info.SerialNumber, t.Info.FirmwareRevision)
	for _, u := range t.Units {
		primary := ""
		if u.Primary {
			primary = " primary"
		}
		fmt.Fprintf(w, "  %d %s%s\n", u.Ordinal, u.Name, primary)
	}
}
