//go:build linux

package button

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"github.com/bitsplusatoms/multibutton/internal/events"
)

// Watcher owns the GPIO lines and recognizers for all button units.
// Buttons are wired active low: a press pulls the line to ground
// against the pull-up.
type Watcher struct {
	chip  *gpiocdev.Chip
	units []*unit
	route RouteFunc

	quit chan struct{}
	done chan struct{}
}

type unit struct {
	ordinal int
	line    *gpiocdev.Line

	mu  sync.Mutex
	rec *Recognizer
}

// NewWatcher opens the chip and requests one input line per configured
// pin. A pin that cannot be requested logs a warning and reports the
// unit failed on the bus; the remaining units keep working. Only a
// chip open error is fatal.
func NewWatcher(cfg Config, route RouteFunc, bus *events.Bus) (*Watcher, error) {
	chipName := cfg.Chip
	if chipName == "" {
		chipName = "gpiochip0"
	}
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	w := &Watcher{
		chip:  chip,
		route: route,
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}

	for i, pin := range cfg.Pins {
		u := &unit{
			ordinal: i,
			rec:     NewRecognizer(cfg.LongPress, cfg.Gap),
		}
		line, err := chip.RequestLine(pin,
			gpiocdev.AsInput,
			gpiocdev.WithPullUp,
			gpiocdev.WithBothEdges,
			gpiocdev.WithDebounce(cfg.Debounce),
			gpiocdev.WithEventHandler(w.edgeHandler(u)),
		)
		if err != nil {
			slog.Warn("button line request failed, unit inoperative", "unit", i, "pin", pin, "err", err)
			bus.Publish(events.UnitFailedEvent{Unit: i, Reason: err.Error()})
			continue
		}
		u.line = line
		w.units = append(w.units, u)
		slog.Debug("button line registered", "unit", i, "pin", pin)
	}

	go w.tickLoop(cfg.Tick)
	return w, nil
}

// edgeHandler records the edge under the unit's lock. Falling edge
// means pressed.
func (w *Watcher) edgeHandler(u *unit) func(gpiocdev.LineEvent) {
	return func(evt gpiocdev.LineEvent) {
		pressed := evt.Type == gpiocdev.LineEventFallingEdge
		u.mu.Lock()
		u.rec.Edge(pressed, time.Now())
		u.mu.Unlock()
	}
}

// tickLoop drives classification for all units at the configured
// cadence.
func (w *Watcher) tickLoop(interval time.Duration) {
	defer close(w.done)

	if interval <= 0 {
		interval = 25 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			for _, u := range w.units {
				u.mu.Lock()
				kind, ok := u.rec.Tick(now)
				u.mu.Unlock()
				if ok {
					// Route outside the lock: routing takes the guard
					// mutex and publishes to the bus.
					w.route(kind, u.ordinal)
				}
			}
		case <-w.quit:
			return
		}
	}
}

// Close stops the tick loop and releases GPIO resources.
func (w *Watcher) Close() error {
	close(w.quit)
	<-w.done

	var errs []error
	for _, u := range w.units {
		if err := u.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close line for unit %d: %w", u.ordinal, err))
		}
	}
	if err := w.chip.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close chip: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
