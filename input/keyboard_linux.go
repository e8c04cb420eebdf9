//go:build linux

package input

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	evdev "github.com/holoplot/go-evdev"

	"D2Runner/control"
	"D2Runner/mapping"
)

// keyboardRepeatGuard throttles a chord that keeps matching while held
// across key chatter. Separate from the controller's configurable
// guard.
const keyboardRepeatGuard = 700 * time.Millisecond

// Keyboard is the global hotkey listener. It reads evdev key events
// from every physical keyboard, tracks held modifiers and fires the
// bound action once per main-key press.
type Keyboard struct {
	store *mapping.Store
	sink  Sink
	log   *slog.Logger
	guard *RepeatGuard

	mu          sync.Mutex
	pressedMods map[string]bool
	fired       map[string]bool
}

// NewKeyboard creates the listener. Nothing is captured until Start.
func NewKeyboard(store *mapping.Store, sink Sink, log *slog.Logger) *Keyboard {
	return &Keyboard{
		store:       store,
		sink:        sink,
		log:         log,
		guard:       NewRepeatGuard(),
		pressedMods: make(map[string]bool),
		fired:       make(map[string]bool),
	}
}

// Name implements Source.
func (k *Keyboard) Name() string { return "keyboard" }

// Start opens all keyboard-capable devices and spawns one reader per
// device. Returns ErrBackendUnavailable (wrapped) when none can be
// opened, typically for missing /dev/input permissions.
func (k *Keyboard) Start(ctx context.Context) error {
	devices, err := openKeyboardDevices()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if len(devices) == 0 {
		return fmt.Errorf("%w: no readable keyboard device (check /dev/input permissions)", ErrBackendUnavailable)
	}

	names := make([]string, 0, len(devices))
	for _, dev := range devices {
		names = append(names, dev.Path())
	}
	k.log.Info("hotkeys_backend_start", "devices", strings.Join(names, ","))

	for _, dev := range devices {
		go k.readLoop(ctx, dev)
	}
	return nil
}

func (k *Keyboard) readLoop(ctx context.Context, dev *evdev.InputDevice) {
	defer dev.Close()
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
		if ev == nil || ev.Type != evdev.EV_KEY {
			continue
		}
		switch ev.Value {
		case 1:
			k.handlePress(evdev.EvCode(ev.Code))
		case 0:
			k.handleRelease(evdev.EvCode(ev.Code))
		}
		// value 2 is kernel autorepeat, ignored
	}
}

func (k *Keyboard) handlePress(code evdev.EvCode) {
	token, isMod := keyToken(code)
	if token == "" {
		return
	}

	k.mu.Lock()
	if isMod {
		k.pressedMods[token] = true
		k.mu.Unlock()
		return
	}
	if k.fired[token] {
		k.mu.Unlock()
		return
	}
	mods := make(map[string]bool, len(k.pressedMods))
	for m, on := range k.pressedMods {
		mods[m] = on
	}
	k.mu.Unlock()

	cfg := k.store.Current()
	for _, action := range actionsByChordLen(cfg) {
		chord, err := ParseChord(cfg.KeyboardMap[string(action)])
		if err != nil {
			continue
		}
		if !chord.Matches(token, mods) {
			continue
		}
		k.mu.Lock()
		k.fired[token] = true
		k.mu.Unlock()

		k.log.Info("hotkey_matched", "key", token, "chord", chord.String(), "action", string(action))
		if k.guard.Throttled(string(action), keyboardRepeatGuard) {
			k.log.Info("hotkey_throttled", "action", string(action))
			return
		}
		k.sink(action)
		return
	}
}

func (k *Keyboard) handleRelease(code evdev.EvCode) {
	token, isMod := keyToken(code)
	if token == "" {
		return
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if isMod {
		delete(k.pressedMods, token)
		if len(k.pressedMods) == 0 {
			k.fired = make(map[string]bool)
		}
		return
	}
	delete(k.fired, token)
}

// actionsByChordLen orders bindings so the most specific chord (most
// modifiers) wins when two bindings share a main key.
func actionsByChordLen(cfg mapping.Config) []control.Action {
	actions := make([]control.Action, 0, len(cfg.KeyboardMap))
	for name := range cfg.KeyboardMap {
		actions = append(actions, control.Action(name))
	}
	sort.Slice(actions, func(i, j int) bool {
		ci, erri := ParseChord(cfg.KeyboardMap[string(actions[i])])
		cj, errj := ParseChord(cfg.KeyboardMap[string(actions[j])])
		if erri != nil || errj != nil {
			return errj != nil
		}
		if len(ci.Mods) != len(cj.Mods) {
			return len(ci.Mods) > len(cj.Mods)
		}
		return actions[i] < actions[j]
	})
	return actions
}

// keyToken maps an evdev key code to a chord token. Modifier keys fold
// onto their side-less name.
func keyToken(code evdev.EvCode) (string, bool) {
	name := evdev.CodeName(evdev.EV_KEY, code)
	name = strings.ToLower(strings.TrimPrefix(name, "KEY_"))
	switch name {
	case "leftctrl", "rightctrl":
		return "ctrl", true
	case "leftalt", "rightalt":
		return "alt", true
	case "leftshift", "rightshift":
		return "shift", true
	case "leftmeta", "rightmeta":
		return "cmd", true
	}
	if strings.HasPrefix(name, "btn_") || strings.HasPrefix(name, "unknown") {
		return "", false
	}
	return name, false
}

func openKeyboardDevices() ([]*evdev.InputDevice, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, err
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i].Path < paths[j].Path })

	var devices []*evdev.InputDevice
	for _, p := range paths {
		dev, err := evdev.Open(p.Path)
		if err != nil {
			continue
		}
		if !deviceIsKeyboard(dev) {
			dev.Close()
			continue
		}
		if err := dev.NonBlock(); err != nil {
			dev.Close()
			continue
		}
		devices = append(devices, dev)
	}
	return devices, nil
}

// deviceIsKeyboard requires letter keys so mice and gamepads (which
// also expose EV_KEY) are skipped.
func deviceIsKeyboard(dev *evdev.InputDevice) bool {
	var hasA, hasZ bool
	for _, c := range dev.CapableEvents(evdev.EV_KEY) {
		switch c {
		case evdev.KEY_A:
			hasA = true
		case evdev.KEY_Z:
			hasZ = true
		}
	}
	return hasA && hasZ
}

func sleepUnlessDone(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
