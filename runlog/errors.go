package runlog

import "errors"

// Common errors returned by the run log.
var (
	// ErrSessionFull is returned when an action would create a new row
	// in a session that already holds MaxSavedRuns saved rows.
	ErrSessionFull = errors.New("session full: start a new session to continue")

	// ErrNothingToUndo is returned by UndoLast when the session file
	// holds no data rows.
	ErrNothingToUndo = errors.New("nothing to undo: session has no saved rows")

	// ErrNoSession is returned when a writer operation runs before a
	// session file has been opened.
	ErrNoSession = errors.New("no session file open")
)
