// Package main wires the application together: the AppManager owns the
// tracker, the session writer, the mapping store and the lifetime
// stats, and serializes every state mutation through a single command
// loop.
//
// Concurrency model: input sources (keyboard, controller) and the UI
// all enqueue commands into cmdCh; the commandLoop goroutine processes
// one command fully, including its CSV write, before accepting the
// next. The UI tick goroutine only reads snapshots. cmdCh is buffered
// and enqueue drops after a short timeout rather than blocking the UI.
package main

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"D2Runner/control"
	"D2Runner/mapping"
	"D2Runner/runlog"
	"D2Runner/stats"
)

// Frontend is the contract every UI backend satisfies: the Fyne full
// window, the Fyne compact overlay, and the terminal fallback.
type Frontend interface {
	Run() error
	SetOnClosed(func())
	RefreshState()
	Notify(control.Outcome)
	RegisterShortcuts()
}

// AppManager is the main application struct, holding all state.
type AppManager struct {
	log      *slog.Logger
	tracker  *runlog.Tracker
	mapStore *mapping.Store
	stats    *stats.Store // nil when the stats db could not be opened
	sounds   *soundBank

	// frontend is written once at startup but input sources may already
	// be feeding the command loop, so access goes through the mutex.
	frontendMu sync.RWMutex
	frontend   Frontend

	cmdCh     chan control.Command
	cmdCtx    context.Context
	cmdCancel context.CancelFunc
	loopDone  chan struct{}
}

// NewAppManager creates the manager and starts its command loop.
func NewAppManager(log *slog.Logger, tracker *runlog.Tracker, mapStore *mapping.Store, statsStore *stats.Store, sounds *soundBank) *AppManager {
	a := &AppManager{
		log:      log,
		tracker:  tracker,
		mapStore: mapStore,
		stats:    statsStore,
		sounds:   sounds,
		cmdCh:    make(chan control.Command, 256),
		loopDone: make(chan struct{}),
	}
	a.cmdCtx, a.cmdCancel = context.WithCancel(context.Background())
	go a.commandLoop()
	return a
}

// SetFrontend attaches the active frontend. Outcomes produced before
// the frontend is attached are logged but not displayed.
func (a *AppManager) SetFrontend(f Frontend) {
	a.frontendMu.Lock()
	a.frontend = f
	a.frontendMu.Unlock()
}

func (a *AppManager) currentFrontend() Frontend {
	a.frontendMu.RLock()
	defer a.frontendMu.RUnlock()
	return a.frontend
}

// EnqueueAction is the UI's entry into the serialized path.
func (a *AppManager) EnqueueAction(action control.Action, note string) {
	a.log.Info("action_received", "source", "ui", "action", string(action))
	a.EnqueueCommand(control.Command{Action: action, Note: note})
}

// InputSink returns the sink a named input source feeds.
func (a *AppManager) InputSink(source string) func(control.Action) {
	return func(action control.Action) {
		a.log.Info("action_received", "source", source, "action", string(action))
		a.EnqueueCommand(control.Command{Action: action})
	}
}

// EnqueueCommand posts a command to the internal command loop. If the
// channel stays full for a short timeout the command is dropped and
// logged instead of blocking the caller.
func (a *AppManager) EnqueueCommand(cmd control.Command) {
	select {
	case a.cmdCh <- cmd:
	case <-time.After(150 * time.Millisecond):
		a.log.Warn("enqueue_timeout", "action", string(cmd.Action))
	}
}

func (a *AppManager) commandLoop() {
	defer close(a.loopDone)
	for {
		select {
		case <-a.cmdCtx.Done():
			return
		case cmd := <-a.cmdCh:
			out := a.apply(cmd)
			a.log.Info("action_applied",
				"action", string(cmd.Action),
				"event", out.Event.String(),
				"err", out.Err)
			if cmd.Reply != nil {
				select {
				case cmd.Reply <- out:
				default:
				}
			}
			if f := a.currentFrontend(); f != nil {
				f.Notify(out)
			}
		}
	}
}

func (a *AppManager) apply(cmd control.Command) control.Outcome {
	switch cmd.Action {
	case control.ActionToggleStartStop:
		ev, err := a.tracker.Toggle()
		return control.Outcome{Event: ev, Err: err}

	case control.ActionNextRun:
		ev, rec, err := a.tracker.NextRun(cmd.Note)
		if rec != nil {
			a.recordSaved(rec)
		}
		if ev == runlog.EventSavedLimit || errors.Is(err, runlog.ErrSessionFull) {
			a.sounds.Play(soundSessionFull)
		}
		return control.Outcome{Event: ev, Record: rec, Err: err}

	case control.ActionResetTimer:
		return control.Outcome{Event: a.tracker.ResetTimer()}

	case control.ActionResetSession:
		ev, err := a.tracker.ResetSession()
		if err == nil && a.stats != nil {
			if serr := a.stats.RecordSession(); serr != nil {
				a.log.Warn("stats_update_failed", "err", serr)
			}
		}
		return control.Outcome{Event: ev, Err: err}

	case control.ActionUndoLast:
		ev, rec, err := a.tracker.UndoLast()
		if rec != nil && a.stats != nil {
			if serr := a.stats.UndoRun(rec.DurationMS); serr != nil {
				a.log.Warn("stats_update_failed", "err", serr)
			}
		}
		return control.Outcome{Event: ev, Record: rec, Err: err}
	}
	return control.Outcome{}
}

func (a *AppManager) recordSaved(rec *runlog.Record) {
	if a.stats != nil {
		if err := a.stats.RecordRun(rec.DurationMS); err != nil {
			a.log.Warn("stats_update_failed", "err", err)
		}
	}
	a.sounds.Play(soundRunSaved)
}

// Snapshot returns the tracker state for rendering.
func (a *AppManager) Snapshot() runlog.Snapshot {
	return a.tracker.Snapshot()
}

// MappingStore exposes the live mapping to the settings dialog.
func (a *AppManager) MappingStore() *mapping.Store {
	return a.mapStore
}

// LifetimeTotals reads the stats store; ok is false when stats are
// unavailable.
func (a *AppManager) LifetimeTotals() (stats.Totals, bool) {
	if a.stats == nil {
		return stats.Totals{}, false
	}
	t, err := a.stats.Totals()
	if err != nil {
		a.log.Warn("stats_read_failed", "err", err)
		return stats.Totals{}, false
	}
	return t, true
}

// tick refreshes the frontend's state display.
func (a *AppManager) tick(ctx context.Context) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if f := a.currentFrontend(); f != nil {
				f.RefreshState()
			}
		}
	}
}

// Shutdown stops the command loop after the in-flight command (and its
// CSV write) completes.
func (a *AppManager) Shutdown() {
	a.cmdCancel()
	select {
	case <-a.loopDone:
	case <-time.After(time.Second):
		a.log.Warn("shutdown_timeout")
	}
	if a.stats != nil {
		if err := a.stats.Close(); err != nil {
			a.log.Warn("stats_close_failed", "err", err)
		}
	}
}
