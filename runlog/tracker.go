package runlog

import (
	"fmt"
	"sync"
	"time"
)

// MaxSavedRuns caps the number of saved rows per session. Once reached,
// actions that would create a new row fail with ErrSessionFull until a
// new session is started.
const MaxSavedRuns = 500

// State is the run state machine's position.
type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
)

// Event names what a Tracker transition did, for outcome reporting and
// the log.
type Event int

const (
	EventNone Event = iota
	EventStarted
	EventPaused
	EventResumed
	EventSaved
	EventSavedLimit
	EventTimerReset
	EventSessionReset
	EventUndone
)

// String returns the log-friendly name of the event.
func (e Event) String() string {
	switch e {
	case EventStarted:
		return "started"
	case EventPaused:
		return "paused"
	case EventResumed:
		return "resumed"
	case EventSaved:
		return "saved_and_started_next"
	case EventSavedLimit:
		return "saved_limit_reached"
	case EventTimerReset:
		return "timer_reset"
	case EventSessionReset:
		return "session_reset"
	case EventUndone:
		return "undone"
	}
	return "none"
}

// SessionWriter is the persistence the Tracker drives. *Writer is the
// production implementation.
type SessionWriter interface {
	OpenSession(sessionID string) (string, error)
	Append(Record) error
	UndoLast() (*Record, error)
}

// Snapshot is an atomic view of tracker state for frontends.
type Snapshot struct {
	SessionID  string
	CSVPath    string
	State      State
	RunNumber  int // active run's number, 0 when idle
	SavedCount int
	Elapsed    time.Duration
}

// Tracker is the run/session state machine. It owns the session id, the
// saved-row counter and the active run, and drives the session writer.
// All methods are safe for concurrent use, but transitions are expected
// to arrive through the single command loop.
type Tracker struct {
	mu     sync.Mutex
	writer SessionWriter
	now    func() time.Time

	sessionID  string
	csvPath    string
	state      State
	savedCount int

	runNumber  int       // active run's number
	startedAt  time.Time // effective start: advanced across pauses
	pausedAt   time.Time
	lastNumber int // highest run number allocated this session

	idBase string
	idSeq  int
}

// NewTracker creates a tracker and opens its first session.
func NewTracker(w SessionWriter) (*Tracker, error) {
	return newTracker(w, time.Now)
}

func newTracker(w SessionWriter, now func() time.Time) (*Tracker, error) {
	t := &Tracker{writer: w, now: now}
	if err := t.openSessionLocked(); err != nil {
		return nil, err
	}
	return t, nil
}

// newSessionID derives a timestamp session id, suffixed when two
// sessions start within the same second so ids stay distinct.
func (t *Tracker) newSessionID() string {
	base := t.now().Format("2006-01-02_15-04-05")
	if base != t.idBase {
		t.idBase = base
		t.idSeq = 0
		return base
	}
	t.idSeq++
	return fmt.Sprintf("%s_%d", base, t.idSeq)
}

func (t *Tracker) openSessionLocked() error {
	id := t.newSessionID()
	path, err := t.writer.OpenSession(id)
	if err != nil {
		return err
	}
	t.sessionID = id
	t.csvPath = path
	t.state = StateIdle
	t.savedCount = 0
	t.runNumber = 0
	t.lastNumber = 0
	return nil
}

func (t *Tracker) startRunLocked() error {
	if t.savedCount >= MaxSavedRuns {
		return ErrSessionFull
	}
	t.lastNumber++
	t.runNumber = t.lastNumber
	t.startedAt = t.now()
	t.state = StateRunning
	return nil
}

// Toggle starts a run while idle, pauses a running run and resumes a
// paused one. Resuming advances the run's start time by the paused
// interval so the recorded window spans exactly the running time.
func (t *Tracker) Toggle() (Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch t.state {
	case StateIdle:
		if err := t.startRunLocked(); err != nil {
			return EventNone, err
		}
		return EventStarted, nil
	case StateRunning:
		t.pausedAt = t.now()
		t.state = StatePaused
		return EventPaused, nil
	default: // StatePaused
		t.startedAt = t.startedAt.Add(t.now().Sub(t.pausedAt))
		t.state = StateRunning
		return EventResumed, nil
	}
}

// NextRun saves the active run and immediately starts the next one, or
// starts the first run while idle. When the save fills the session the
// next run is not started and EventSavedLimit is returned. A full
// session rejects the action with ErrSessionFull before any write.
func (t *Tracker) NextRun(note string) (Event, *Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateIdle {
		if err := t.startRunLocked(); err != nil {
			return EventNone, nil, err
		}
		return EventStarted, nil, nil
	}

	if t.savedCount >= MaxSavedRuns {
		return EventNone, nil, ErrSessionFull
	}

	endedAt := t.now()
	if t.state == StatePaused {
		endedAt = t.pausedAt
	}
	rec := Record{
		SessionID:  t.sessionID,
		RunNumber:  t.runNumber,
		StartedAt:  t.startedAt,
		EndedAt:    endedAt,
		DurationMS: endedAt.Sub(t.startedAt).Milliseconds(),
		Note:       note,
	}
	if err := t.writer.Append(rec); err != nil {
		// Run stays active; the user can retry once the file is
		// writable again.
		return EventNone, nil, err
	}
	t.savedCount++

	if t.savedCount >= MaxSavedRuns {
		t.state = StateIdle
		t.runNumber = 0
		return EventSavedLimit, &rec, nil
	}
	t.lastNumber++
	t.runNumber = t.lastNumber
	t.startedAt = t.now()
	t.state = StateRunning
	return EventSaved, &rec, nil
}

// ResetTimer restarts the active run's clock at now, keeping its run
// number. No-op while idle.
func (t *Tracker) ResetTimer() Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch t.state {
	case StateRunning:
		t.startedAt = t.now()
	case StatePaused:
		t.startedAt = t.now()
		t.pausedAt = t.startedAt
	default:
		return EventNone
	}
	return EventTimerReset
}

// ResetSession discards any active run unsaved, allocates a fresh
// session id and opens a new CSV file.
func (t *Tracker) ResetSession() (Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.openSessionLocked(); err != nil {
		return EventNone, err
	}
	return EventSessionReset, nil
}

// UndoLast removes the last saved row and decrements the saved counter.
// An active run is untouched and keeps its number; with no active run
// the freed number is reused by the next start.
func (t *Tracker) UndoLast() (Event, *Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, err := t.writer.UndoLast()
	if err != nil {
		return EventNone, nil, err
	}
	if t.savedCount > 0 {
		t.savedCount--
	}
	if t.state == StateIdle && t.lastNumber > 0 {
		t.lastNumber--
	}
	return EventUndone, rec, nil
}

// Snapshot returns a consistent view of the tracker for rendering.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := Snapshot{
		SessionID:  t.sessionID,
		CSVPath:    t.csvPath,
		State:      t.state,
		RunNumber:  t.runNumber,
		SavedCount: t.savedCount,
	}
	switch t.state {
	case StateRunning:
		s.Elapsed = t.now().Sub(t.startedAt)
	case StatePaused:
		s.Elapsed = t.pausedAt.Sub(t.startedAt)
	}
	return s
}
