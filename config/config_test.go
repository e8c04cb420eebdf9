package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
}

func TestLoadMissingNamedFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Load() error = %v, want ErrConfigNotFound", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "d2runner.yaml")
	raw := "csv_dir: /data/runs\nui: tui\noverlay: compact\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.CSVDir != "/data/runs" || cfg.UI != "tui" || cfg.Overlay != "compact" || cfg.LogLevel != "debug" {
		t.Errorf("Load() = %+v, want file values applied", cfg)
	}
	// Fields the file omits keep their defaults.
	if cfg.MappingPath != Default().MappingPath {
		t.Errorf("MappingPath = %q, want default %q", cfg.MappingPath, Default().MappingPath)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"defaults valid", func(c *Config) {}, nil},
		{"bad ui", func(c *Config) { c.UI = "curses" }, ErrInvalidUI},
		{"bad overlay", func(c *Config) { c.Overlay = "full" }, ErrInvalidOverlay},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, ErrInvalidLogLevel},
	}
	for _, tt := range tests {
		cfg := Default()
		tt.mutate(&cfg)
		err := cfg.Validate()
		if tt.wantErr == nil {
			if err != nil {
				t.Errorf("%s: Validate() error = %v", tt.name, err)
			}
			continue
		}
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("%s: Validate() error = %v, want %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestLoadRejectsInvalidEnums(t *testing.T) {
	path := filepath.Join(t.TempDir(), "d2runner.yaml")
	if err := os.WriteFile(path, []byte("ui: web\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalidUI) {
		t.Errorf("Load() error = %v, want ErrInvalidUI", err)
	}
}
