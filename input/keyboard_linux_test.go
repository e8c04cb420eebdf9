//go:build linux

package input

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	evdev "github.com/holoplot/go-evdev"

	"D2Runner/control"
	"D2Runner/mapping"
)

func newTestKeyboard(t *testing.T) (*Keyboard, *[]control.Action) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := mapping.NewStore(filepath.Join(t.TempDir(), "controller_mapping.json"), log)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	var fired []control.Action
	k := NewKeyboard(store, func(a control.Action) { fired = append(fired, a) }, log)
	return k, &fired
}

func TestHandlePressFiresBoundAction(t *testing.T) {
	k, fired := newTestKeyboard(t)

	k.handlePress(evdev.KEY_LEFTCTRL)
	k.handlePress(evdev.KEY_LEFTALT)
	k.handlePress(evdev.KEY_1)

	if len(*fired) != 1 || (*fired)[0] != control.ActionToggleStartStop {
		t.Fatalf("fired = %v, want [toggle_start_stop]", *fired)
	}

	// The chord fires once per main-key press while held.
	k.handlePress(evdev.KEY_1)
	if len(*fired) != 1 {
		t.Errorf("fired = %v after repeated press, want no re-fire", *fired)
	}
}

func TestHandlePressIgnoresUnboundKey(t *testing.T) {
	k, fired := newTestKeyboard(t)

	k.handlePress(evdev.KEY_LEFTCTRL)
	k.handlePress(evdev.KEY_LEFTALT)
	k.handlePress(evdev.KEY_9)

	if len(*fired) != 0 {
		t.Errorf("fired = %v for unbound key, want none", *fired)
	}
}

func TestHandleReleaseRearmsChord(t *testing.T) {
	k, fired := newTestKeyboard(t)

	k.handlePress(evdev.KEY_LEFTCTRL)
	k.handlePress(evdev.KEY_LEFTALT)
	k.handlePress(evdev.KEY_2)
	k.handleRelease(evdev.KEY_2)
	// Throttled by the keyboard repeat guard, but still consumed.
	k.handlePress(evdev.KEY_2)

	if len(*fired) != 1 || (*fired)[0] != control.ActionNextRun {
		t.Fatalf("fired = %v, want [next_run]", *fired)
	}
}

func TestActionsByChordLenPrefersMoreModifiers(t *testing.T) {
	cfg := mapping.Default()
	cfg.KeyboardMap = map[string]string{
		string(control.ActionNextRun):    "ctrl+1",
		string(control.ActionResetTimer): "ctrl+alt+1",
	}

	actions := actionsByChordLen(cfg)
	if len(actions) != 2 {
		t.Fatalf("actions = %v, want 2 entries", actions)
	}
	if actions[0] != control.ActionResetTimer {
		t.Errorf("actions[0] = %v, want reset_timer (most modifiers first)", actions[0])
	}
}
