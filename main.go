package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"D2Runner/config"
	"D2Runner/input"
	"D2Runner/mapping"
	"D2Runner/runlog"
	"D2Runner/stats"
	"D2Runner/tui"
	"D2Runner/ui"
)

var (
	flagConfig   string
	flagCSVDir   string
	flagLog      string
	flagMapping  string
	flagStats    string
	flagSounds   string
	flagUI       string
	flagOverlay  string
	flagLogLevel string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := config.Default()
	rootCmd := &cobra.Command{
		Use:           "d2runner",
		Short:         "Run timer + counter with per-session CSV logging",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runRoot,
	}

	rootCmd.Flags().StringVar(&flagConfig, "config", "", "optional YAML config file")
	rootCmd.Flags().StringVar(&flagCSVDir, "csv-dir", defaults.CSVDir, "directory for session CSV files")
	rootCmd.Flags().StringVar(&flagLog, "log", defaults.LogPath, "app log file")
	rootCmd.Flags().StringVar(&flagMapping, "controller-config", defaults.MappingPath, "input mapping JSON file")
	rootCmd.Flags().StringVar(&flagStats, "stats", defaults.StatsPath, "lifetime stats database")
	rootCmd.Flags().StringVar(&flagSounds, "sounds", defaults.SoundsDir, "directory with optional .ogg cues")
	rootCmd.Flags().StringVar(&flagUI, "ui", defaults.UI, "UI backend: auto, fyne, or tui")
	rootCmd.Flags().StringVar(&flagOverlay, "overlay", defaults.Overlay, "overlay mode: off or compact")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", defaults.LogLevel, "log verbosity: debug, info, warn, error")

	return rootCmd
}

// resolveConfig merges the optional config file with flag overrides;
// a flag set on the command line always wins.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	applyString(cmd, "csv-dir", &cfg.CSVDir, flagCSVDir)
	applyString(cmd, "log", &cfg.LogPath, flagLog)
	applyString(cmd, "controller-config", &cfg.MappingPath, flagMapping)
	applyString(cmd, "stats", &cfg.StatsPath, flagStats)
	applyString(cmd, "sounds", &cfg.SoundsDir, flagSounds)
	applyString(cmd, "ui", &cfg.UI, flagUI)
	applyString(cmd, "overlay", &cfg.Overlay, flagOverlay)
	applyString(cmd, "log-level", &cfg.LogLevel, flagLogLevel)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func applyString(cmd *cobra.Command, name string, dst *string, flagValue string) {
	if cmd.Flags().Changed(name) {
		*dst = flagValue
	}
}

func newLogger(path, level string) (*slog.Logger, func(), error) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	handler := slog.NewTextHandler(io.MultiWriter(f, os.Stderr), &slog.HandlerOptions{Level: lvl})
	return slog.New(handler), func() { f.Close() }, nil
}

// displayAvailable reports whether a graphical session exists; on Linux
// that means an X11 or Wayland display.
func displayAvailable() bool {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		return true
	}
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func runRoot(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	log, closeLog, err := newLogger(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	log.Info("app_start",
		"csv_dir", cfg.CSVDir,
		"log", cfg.LogPath,
		"controller_config", cfg.MappingPath,
		"ui", cfg.UI,
		"overlay", cfg.Overlay)

	// Fatal startup pieces: the first session file and the mapping.
	tracker, err := runlog.NewTracker(runlog.NewWriter(cfg.CSVDir))
	if err != nil {
		log.Error("session_open_failed", "err", err)
		return err
	}
	mapStore, err := mapping.NewStore(cfg.MappingPath, log)
	if err != nil {
		log.Error("mapping_load_failed", "err", err)
		return err
	}

	// Optional pieces: stats and sounds degrade to absent.
	statsStore, err := stats.Open(cfg.StatsPath)
	if err != nil {
		log.Warn("stats_unavailable", "err", err)
		statsStore = nil
	}
	sounds := loadSounds(cfg.SoundsDir, log)

	a := NewAppManager(log, tracker, mapStore, statsStore, sounds)
	if statsStore != nil {
		if err := statsStore.RecordSession(); err != nil {
			log.Warn("stats_update_failed", "err", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := mapStore.Watch(ctx); err != nil {
			log.Warn("mapping_watch_unavailable", "err", err)
		}
	}()

	frontend, err := buildFrontend(a, cfg, log)
	if err != nil {
		log.Error("frontend_unavailable", "err", err)
		return err
	}
	a.SetFrontend(frontend)
	frontend.SetOnClosed(cancel)

	// Input sources start after the frontend is attached so their first
	// outcomes reach the display. A failed backend is logged and the
	// remaining sources (or the window-scoped fallback) take over.
	needShortcutFallback := false
	keyboard := input.NewKeyboard(mapStore, a.InputSink("keyboard"), log)
	if err := keyboard.Start(ctx); err != nil {
		log.Warn("keyboard_backend_unavailable", "err", err)
		needShortcutFallback = true
	}
	controller := input.NewController(mapStore, a.InputSink("controller"), log)
	if err := controller.Start(ctx); err != nil {
		log.Warn("controller_backend_unavailable", "err", err)
	}

	if needShortcutFallback {
		frontend.RegisterShortcuts()
		mapStore.OnReload(func(mapping.Config) { frontend.RegisterShortcuts() })
	}

	go a.tick(ctx)

	runErr := frontend.Run()
	cancel()
	a.Shutdown()
	log.Info("app_exit", "err", runErr)
	return runErr
}

// buildFrontend picks the UI backend: the preferred one when forced,
// otherwise Fyne with the terminal frontend as fallback.
func buildFrontend(a *AppManager, cfg config.Config, log *slog.Logger) (Frontend, error) {
	switch cfg.UI {
	case "fyne":
		return buildFyne(a, cfg)
	case "tui":
		return tui.New(a), nil
	}
	// auto
	if displayAvailable() {
		return buildFyne(a, cfg)
	}
	log.Warn("gui_unavailable_fallback", "fallback", "tui")
	return tui.New(a), nil
}

func buildFyne(a *AppManager, cfg config.Config) (Frontend, error) {
	fyneApp := ui.NewFyneApp()
	if fyneApp == nil {
		return nil, errors.New("fyne backend unavailable")
	}
	if cfg.Overlay == "compact" {
		return ui.NewOverlay(a, fyneApp), nil
	}
	return ui.NewMainWindow(a, fyneApp), nil
}
