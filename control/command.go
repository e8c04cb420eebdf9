// Package control defines the action vocabulary shared by every input
// source and UI frontend, plus the command messages they post to the
// application command loop. The command loop centralizes state changes
// to avoid races and to simplify synchronization.
package control

import (
	"fmt"

	"D2Runner/runlog"
)

// Action is one of the fixed named commands. Input sources and the UI
// only ever speak in Actions; raw key chords and D-pad directions are
// translated before they reach the command loop.
type Action string

const (
	ActionToggleStartStop Action = "toggle_start_stop"
	ActionNextRun         Action = "next_run"
	ActionResetTimer      Action = "reset_timer"
	ActionResetSession    Action = "reset_session"
	ActionUndoLast        Action = "undo_last"
	ActionNone            Action = "none"
)

// Actions lists the bindable actions in display order. ActionNone is a
// valid mapping value but is never bound to a UI control.
var Actions = []Action{
	ActionToggleStartStop,
	ActionNextRun,
	ActionResetTimer,
	ActionResetSession,
	ActionUndoLast,
}

// ParseAction validates a raw action name from a mapping file.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionToggleStartStop, ActionNextRun, ActionResetTimer,
		ActionResetSession, ActionUndoLast, ActionNone:
		return Action(s), nil
	}
	return ActionNone, fmt.Errorf("unknown action %q", s)
}

// Outcome is what the command loop reports back after applying a
// command. Record is set when a row was written or removed.
type Outcome struct {
	Event  runlog.Event
	Record *runlog.Record
	Err    error
}

// Command is the message sent from input sources and the UI to the
// command loop. The optional Reply channel can be used to confirm
// completion back to the sender (useful for keeping UI state in sync).
type Command struct {
	Action Action
	Note   string       // note to attach to the next saved run
	Reply  chan Outcome // optional reply channel
}
