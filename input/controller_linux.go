//go:build linux

package input

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	evdev "github.com/holoplot/go-evdev"

	"D2Runner/control"
	"D2Runner/mapping"
)

// Controller reads D-pad hat motion from a game controller and
// translates directions into actions through the live mapping. The
// configured repeat guard keeps a held direction from repeat-firing.
type Controller struct {
	store *mapping.Store
	sink  Sink
	log   *slog.Logger
	guard *RepeatGuard
}

// NewController creates the poller. Nothing is opened until Start.
func NewController(store *mapping.Store, sink Sink, log *slog.Logger) *Controller {
	return &Controller{store: store, sink: sink, log: log, guard: NewRepeatGuard()}
}

// Name implements Source.
func (c *Controller) Name() string { return "controller" }

// Start opens the configured controller and spawns its reader. A
// disabled mapping is a silent no-op; a missing device returns
// ErrNoDevice (wrapped) so the caller can log and continue.
func (c *Controller) Start(ctx context.Context) error {
	cfg := c.store.Current()
	if !cfg.Enabled {
		c.log.Info("controller_disabled")
		return nil
	}

	gamepads, err := listGamepadPaths()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	c.log.Info("controller_devices_detected", "count", len(gamepads))
	if cfg.DeviceIndex < 0 || cfg.DeviceIndex >= len(gamepads) {
		return fmt.Errorf("%w: no controller at index %d (count=%d)",
			ErrNoDevice, cfg.DeviceIndex, len(gamepads))
	}

	dev, err := evdev.Open(gamepads[cfg.DeviceIndex])
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrBackendUnavailable, gamepads[cfg.DeviceIndex], err)
	}
	if err := dev.NonBlock(); err != nil {
		dev.Close()
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	name, _ := dev.Name()
	c.log.Info("controller_connected",
		"name", name,
		"path", dev.Path(),
		"device_index", cfg.DeviceIndex,
		"hat_index", cfg.HatIndex)

	go c.readLoop(ctx, dev, cfg.HatIndex)
	return nil
}

func (c *Controller) readLoop(ctx context.Context, dev *evdev.InputDevice, hatIndex int) {
	defer dev.Close()

	// Each hat occupies an X/Y pair of ABS codes.
	hatX := evdev.ABS_HAT0X + evdev.EvCode(2*hatIndex)
	hatY := evdev.ABS_HAT0Y + evdev.EvCode(2*hatIndex)
	var hat hatState

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		ev, err := dev.ReadOne()
		if err != nil {
			if !sleepUnlessDone(ctx, 10*time.Millisecond) {
				return
			}
			continue
		}
		if ev == nil || ev.Type != evdev.EV_ABS {
			continue
		}

		var direction string
		switch evdev.EvCode(ev.Code) {
		case hatX:
			direction = hat.setX(ev.Value)
		case hatY:
			direction = hat.setY(ev.Value)
		default:
			continue
		}
		c.log.Info("controller_hat_motion", "hat", hatIndex, "x", hat.x, "y", hat.y)
		if direction == "" {
			continue
		}

		cfg := c.store.Current()
		action := cfg.ActionForDirection(direction)
		if action == control.ActionNone {
			c.log.Info("controller_direction_ignored", "direction", direction)
			continue
		}
		guard := time.Duration(cfg.RepeatGuardMS) * time.Millisecond
		if c.guard.Throttled(direction, guard) {
			c.log.Info("controller_direction_throttled", "direction", direction, "action", string(action))
			continue
		}
		c.log.Info("controller_action", "direction", direction, "action", string(action))
		c.sink(action)
	}
}

// listGamepadPaths finds devices exposing a hat, ordered by path so
// device_index selects stably.
func listGamepadPaths() ([]string, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, err
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i].Path < paths[j].Path })

	var gamepads []string
	for _, p := range paths {
		dev, err := evdev.Open(p.Path)
		if err != nil {
			continue
		}
		if deviceHasHat(dev) {
			gamepads = append(gamepads, p.Path)
		}
		dev.Close()
	}
	return gamepads, nil
}

func deviceHasHat(dev *evdev.InputDevice) bool {
	for _, c := range dev.CapableEvents(evdev.EV_ABS) {
		if c == evdev.ABS_HAT0X {
			return true
		}
	}
	return false
}
