package mapping

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Store holds the current mapping and reloads it when the file changes,
// so settings edits take effect for subsequent input events without
// recreating listeners. Input sources call Current on every raw event.
type Store struct {
	path string
	log  *slog.Logger

	mu     sync.RWMutex
	cfg    Config
	closed bool

	// onReload, when set, is called after each successful reload
	// (used by the UI to refresh the settings view).
	onReload func(Config)
}

// NewStore loads (or creates) the mapping file and wraps it in a store.
func NewStore(path string, log *slog.Logger) (*Store, error) {
	cfg, err := Load(path, log)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, log: log, cfg: cfg}, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Current returns the active mapping.
func (s *Store) Current() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// OnReload registers a callback invoked after each reload (including
// reloads triggered by Update).
func (s *Store) OnReload(fn func(Config)) {
	s.mu.Lock()
	s.onReload = fn
	s.mu.Unlock()
}

// Update validates, persists and activates a new mapping (the settings
// dialog's save path).
func (s *Store) Update(cfg Config) error {
	cfg.normalize(s.log)
	if err := Save(s.path, cfg); err != nil {
		return err
	}
	s.swap(cfg)
	s.log.Info("mapping_updated", "path", s.path)
	return nil
}

func (s *Store) swap(cfg Config) {
	s.mu.Lock()
	s.cfg = cfg
	fn := s.onReload
	s.mu.Unlock()
	if fn != nil {
		fn(cfg)
	}
}

// Watch reloads the store whenever the mapping file is rewritten.
// Events are debounced because editors and the settings dialog produce
// several write events per save. Blocks until ctx is done.
func (s *Store) Watch(ctx context.Context) error {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return ErrWatcherClosed
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	// Watch the directory, not the file: editors that replace the file
	// (rename over it) would otherwise drop the watch.
	if err := fsw.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watch mapping dir: %w", err)
	}

	const debounce = 100 * time.Millisecond
	var pending *time.Timer
	reload := func() {
		cfg, err := Load(s.path, s.log)
		if err != nil {
			s.log.Warn("mapping_reload_failed", "path", s.path, "err", err)
			return
		}
		s.swap(cfg)
		s.log.Info("mapping_reloaded", "path", s.path)
	}

	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			s.closed = true
			s.mu.Unlock()
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(s.path) {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(debounce, reload)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("mapping_watch_error", "err", err)
		}
	}
}
