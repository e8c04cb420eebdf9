package mapping

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"D2Runner/control"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "controller_mapping.json")

	cfg, err := Load(path, testLogger())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Enabled {
		t.Error("default Enabled = false, want true")
	}
	if cfg.RepeatGuardMS != 150 {
		t.Errorf("default RepeatGuardMS = %d, want 150", cfg.RepeatGuardMS)
	}
	if got := cfg.ActionForDirection(DirUp); got != control.ActionToggleStartStop {
		t.Errorf("default up = %v, want toggle_start_stop", got)
	}
	if got := cfg.ActionForDirection(DirLeft); got != control.ActionResetSession {
		t.Errorf("default left = %v, want reset_session", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("default file not written: %v", err)
	}
	var onDisk Config
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("default file is not valid JSON: %v", err)
	}
	if len(onDisk.KeyboardMap) != len(control.Actions) {
		t.Errorf("keyboard bindings = %d, want one per action", len(onDisk.KeyboardMap))
	}
}

func TestLoadDegradesInvalidEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "controller_mapping.json")
	raw := `{
		"enabled": true,
		"device_index": 1,
		"hat_index": 0,
		"repeat_guard_ms": -5,
		"keyboard_map": {
			"next_run": "ctrl+alt+2",
			"fireball": "ctrl+alt+9"
		},
		"dpad_map": {
			"up": "teleport",
			"right": "next_run"
		}
	}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, testLogger())
	if err != nil {
		t.Fatalf("Load() error = %v, invalid entries must not fail the load", err)
	}
	if cfg.RepeatGuardMS != 150 {
		t.Errorf("RepeatGuardMS = %d, want default 150 for negative value", cfg.RepeatGuardMS)
	}
	if _, ok := cfg.KeyboardMap["fireball"]; ok {
		t.Error("unknown keyboard action kept, want dropped")
	}
	if cfg.Chord(control.ActionNextRun) != "ctrl+alt+2" {
		t.Errorf("valid binding lost: %q", cfg.Chord(control.ActionNextRun))
	}
	if got := cfg.ActionForDirection(DirUp); got != control.ActionNone {
		t.Errorf("invalid dpad action = %v, want none", got)
	}
	if got := cfg.ActionForDirection(DirRight); got != control.ActionNextRun {
		t.Errorf("valid dpad action = %v, want next_run", got)
	}
	// Unlisted directions are filled in as none.
	if got := cfg.ActionForDirection(DirDown); got != control.ActionNone {
		t.Errorf("missing dpad direction = %v, want none", got)
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "controller_mapping.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, testLogger()); err == nil {
		t.Error("Load() error = nil, want parse error")
	}
}

func TestStoreUpdateSwapsAndNotifies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "controller_mapping.json")
	store, err := NewStore(path, testLogger())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	var reloaded []Config
	store.OnReload(func(cfg Config) {
		reloaded = append(reloaded, cfg)
	})

	next := store.Current()
	next.Enabled = false
	next.DpadMap[DirDown] = string(control.ActionUndoLast)
	if err := store.Update(next); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	cur := store.Current()
	if cur.Enabled {
		t.Error("Enabled = true after update, want false")
	}
	if got := cur.ActionForDirection(DirDown); got != control.ActionUndoLast {
		t.Errorf("down = %v after update, want undo_last", got)
	}
	if len(reloaded) != 1 {
		t.Fatalf("reload callbacks = %d, want 1", len(reloaded))
	}

	// The update is persisted, not just swapped in memory.
	onDisk, err := Load(path, testLogger())
	if err != nil {
		t.Fatalf("reload after update: %v", err)
	}
	if onDisk.Enabled {
		t.Error("persisted Enabled = true, want false")
	}
}

// An external edit to the mapping file (a text editor, not the settings
// dialog) must swap the bindings for subsequent events.
func TestWatchReloadsExternalEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "controller_mapping.json")
	store, err := NewStore(path, testLogger())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if got := store.Current().ActionForDirection(DirUp); got != control.ActionToggleStartStop {
		t.Fatalf("initial up = %v, want toggle_start_stop", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watchDone := make(chan error, 1)
	go func() { watchDone <- store.Watch(ctx) }()

	// Give the watcher a moment to register before the edit.
	time.Sleep(100 * time.Millisecond)

	edited := store.Current()
	edited.DpadMap = map[string]string{
		DirUp:    string(control.ActionUndoLast),
		DirRight: string(control.ActionNextRun),
		DirDown:  string(control.ActionResetTimer),
		DirLeft:  string(control.ActionResetSession),
	}
	if err := Save(path, edited); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for store.Current().ActionForDirection(DirUp) != control.ActionUndoLast {
		if time.Now().After(deadline) {
			t.Fatal("external edit never reloaded")
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-watchDone:
		if err != nil {
			t.Errorf("Watch() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("Watch() did not return after cancel")
	}
}
