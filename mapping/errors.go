package mapping

import "errors"

// Common errors returned by the mapping store.
var (
	// ErrInvalidAction is returned (wrapped) when a mapping value is
	// not a member of the action vocabulary. Loaders recover by
	// defaulting the binding to none.
	ErrInvalidAction = errors.New("invalid action in mapping")

	// ErrInvalidGuard is returned when repeat_guard_ms is negative.
	ErrInvalidGuard = errors.New("invalid repeat_guard_ms: must be >= 0")

	// ErrWatcherClosed is returned when Watch is called on a closed store.
	ErrWatcherClosed = errors.New("mapping watcher is closed")
)
