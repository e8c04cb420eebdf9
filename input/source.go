// Package input translates raw input events into actions. Two sources
// exist: a global keyboard listener matching key chords, and a game
// controller poller decoding D-pad hat motion. Both read the live
// mapping store on every event, so mapping reloads apply without
// recreating the source, and both are optional: a missing device or
// backend degrades gracefully and is logged, never fatal.
package input

import (
	"context"
	"errors"

	"D2Runner/control"
)

// Sink receives the actions a source produces. The application points
// every source at the same sink, which enqueues into the command loop.
type Sink func(control.Action)

// Source is an input backend emitting actions.
type Source interface {
	// Name identifies the source in the log.
	Name() string

	// Start begins capture. It returns ErrBackendUnavailable (possibly
	// wrapped) when the backend cannot run on this platform or finds no
	// device; any capture goroutines exit when ctx is done.
	Start(ctx context.Context) error
}

// Common errors returned by input sources.
var (
	// ErrBackendUnavailable is returned when an input backend cannot
	// run here (unsupported platform, no permission, toolkit missing).
	ErrBackendUnavailable = errors.New("input backend unavailable")

	// ErrNoDevice is returned when no suitable input device exists.
	ErrNoDevice = errors.New("no suitable input device found")
)
