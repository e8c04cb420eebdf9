// Package mapping loads, validates and persists the user-editable input
// mapping file: key chords and D-pad directions bound to actions. The
// file is JSON so users can edit it by hand; the Store watches it and
// swaps bindings in without restarting listeners.
package mapping

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"D2Runner/control"
)

// D-pad directions, in the order the settings dialog lists them.
const (
	DirUp    = "up"
	DirRight = "right"
	DirDown  = "down"
	DirLeft  = "left"
)

// Directions lists the bindable D-pad directions.
var Directions = []string{DirUp, DirRight, DirDown, DirLeft}

// Config is the mapping file's content. KeyboardMap binds action names
// to chord strings; DpadMap binds directions to action names.
type Config struct {
	Enabled       bool              `json:"enabled"`
	DeviceIndex   int               `json:"device_index"`
	HatIndex      int               `json:"hat_index"`
	RepeatGuardMS int               `json:"repeat_guard_ms"`
	KeyboardMap   map[string]string `json:"keyboard_map"`
	DpadMap       map[string]string `json:"dpad_map"`
}

// Default returns the mapping written when no file exists yet. macOS
// chords use cmd in place of ctrl.
func Default() Config {
	mod := "ctrl+alt"
	if runtime.GOOS == "darwin" {
		mod = "cmd+alt"
	}
	return Config{
		Enabled:       true,
		DeviceIndex:   0,
		HatIndex:      0,
		RepeatGuardMS: 150,
		KeyboardMap: map[string]string{
			string(control.ActionToggleStartStop): mod + "+1",
			string(control.ActionNextRun):         mod + "+2",
			string(control.ActionResetTimer):      mod + "+3",
			string(control.ActionResetSession):    mod + "+4",
			string(control.ActionUndoLast):        mod + "+5",
		},
		DpadMap: map[string]string{
			DirUp:    string(control.ActionToggleStartStop),
			DirRight: string(control.ActionNextRun),
			DirDown:  string(control.ActionResetTimer),
			DirLeft:  string(control.ActionResetSession),
		},
	}
}

// ActionForDirection resolves a D-pad direction to its bound action,
// defaulting to none.
func (c Config) ActionForDirection(dir string) control.Action {
	a, err := control.ParseAction(c.DpadMap[dir])
	if err != nil {
		return control.ActionNone
	}
	return a
}

// Chord returns the chord string bound to an action, empty when unbound.
func (c Config) Chord(action control.Action) string {
	return c.KeyboardMap[string(action)]
}

// normalize validates a loaded config in place. Invalid bindings
// degrade to none and are logged; they never fail the load.
func (c *Config) normalize(log *slog.Logger) {
	if c.RepeatGuardMS < 0 {
		log.Warn("mapping_invalid_guard", "repeat_guard_ms", c.RepeatGuardMS, "err", ErrInvalidGuard)
		c.RepeatGuardMS = Default().RepeatGuardMS
	}
	if c.KeyboardMap == nil {
		c.KeyboardMap = map[string]string{}
	}
	for name := range c.KeyboardMap {
		if _, err := control.ParseAction(name); err != nil {
			log.Warn("mapping_unknown_keyboard_action", "action", name,
				"err", fmt.Errorf("%w: %v", ErrInvalidAction, err))
			delete(c.KeyboardMap, name)
		}
	}
	if c.DpadMap == nil {
		c.DpadMap = map[string]string{}
	}
	for _, dir := range Directions {
		raw, ok := c.DpadMap[dir]
		if !ok {
			c.DpadMap[dir] = string(control.ActionNone)
			continue
		}
		if _, err := control.ParseAction(raw); err != nil {
			log.Warn("mapping_invalid_dpad_action", "direction", dir, "action", raw,
				"err", fmt.Errorf("%w: %v", ErrInvalidAction, err))
			c.DpadMap[dir] = string(control.ActionNone)
		}
	}
}

// Load reads the mapping file, creating it with defaults when absent.
func Load(path string, log *slog.Logger) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := Default()
		if err := Save(path, cfg); err != nil {
			return Config{}, err
		}
		log.Info("mapping_file_created", "path", path)
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read mapping file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse mapping file %s: %w", path, err)
	}
	cfg.normalize(log)
	log.Info("mapping_loaded", "path", path,
		"enabled", cfg.Enabled,
		"device_index", cfg.DeviceIndex,
		"hat_index", cfg.HatIndex,
		"repeat_guard_ms", cfg.RepeatGuardMS)
	return cfg, nil
}

// Save writes the mapping file, creating parent directories as needed.
func Save(path string, cfg Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create mapping dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode mapping: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write mapping file: %w", err)
	}
	return nil
}
