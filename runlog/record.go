// Package runlog contains the domain logic for run counting: the Record
// written to the session CSV, the per-session CSV Writer, and the
// Tracker state machine that owns the run counter.
//
// Mutable Tracker state is accessed by the command loop and read by the
// UI tick goroutine, so the Tracker guards its fields with a mutex and
// exposes a Snapshot for consistent reads. Prefer driving transitions
// through the centralized application command loop to keep behavior
// deterministic.
package runlog

import (
	"fmt"
	"strconv"
	"time"
)

// Header is the exact CSV header row of every session file.
var Header = []string{
	"session_id",
	"run_number",
	"started_at",
	"ended_at",
	"duration_ms",
	"duration_sec",
	"note",
}

// Record is one finished run, as persisted to the session CSV.
type Record struct {
	SessionID  string
	RunNumber  int
	StartedAt  time.Time
	EndedAt    time.Time
	DurationMS int64
	Note       string
}

// DurationSec derives the run duration in seconds.
func (r Record) DurationSec() float64 {
	return float64(r.DurationMS) / 1000.0
}

// fields renders the record as a CSV row. Timestamps use RFC 3339 at
// second precision in local time, duration_sec carries three decimals.
func (r Record) fields() []string {
	return []string{
		r.SessionID,
		strconv.Itoa(r.RunNumber),
		r.StartedAt.Format(time.RFC3339),
		r.EndedAt.Format(time.RFC3339),
		strconv.FormatInt(r.DurationMS, 10),
		fmt.Sprintf("%.3f", r.DurationSec()),
		r.Note,
	}
}

// recordFromFields parses a CSV row back into a Record. Used by
// UndoLast to return the removed run.
func recordFromFields(f []string) (Record, error) {
	if len(f) != len(Header) {
		return Record{}, fmt.Errorf("row has %d fields, want %d", len(f), len(Header))
	}
	number, err := strconv.Atoi(f[1])
	if err != nil {
		return Record{}, fmt.Errorf("bad run_number %q: %w", f[1], err)
	}
	startedAt, err := time.Parse(time.RFC3339, f[2])
	if err != nil {
		return Record{}, fmt.Errorf("bad started_at %q: %w", f[2], err)
	}
	endedAt, err := time.Parse(time.RFC3339, f[3])
	if err != nil {
		return Record{}, fmt.Errorf("bad ended_at %q: %w", f[3], err)
	}
	durationMS, err := strconv.ParseInt(f[4], 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("bad duration_ms %q: %w", f[4], err)
	}
	return Record{
		SessionID:  f[0],
		RunNumber:  number,
		StartedAt:  startedAt,
		EndedAt:    endedAt,
		DurationMS: durationMS,
		Note:       f[6],
	}, nil
}

// FormatElapsed renders a duration as mm:ss.cc (hh:mm:ss.cc past one
// hour), the format shown by every frontend.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	totalSec, msPart := ms/1000, ms%1000
	minutes, seconds := totalSec/60, totalSec%60
	hours, minutes := minutes/60, minutes%60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d.%02d", hours, minutes, seconds, msPart/10)
	}
	return fmt.Sprintf("%02d:%02d.%02d", minutes, seconds, msPart/10)
}
