package runlog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testRecord(n int, start time.Time, d time.Duration, note string) Record {
	return Record{
		SessionID:  "2026-03-14_10-00-00",
		RunNumber:  n,
		StartedAt:  start,
		EndedAt:    start.Add(d),
		DurationMS: d.Milliseconds(),
		Note:       note,
	}
}

func TestOpenSessionWritesHeader(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	path, err := w.OpenSession("2026-03-14_10-00-00")
	if err != nil {
		t.Fatalf("OpenSession() error = %v", err)
	}
	if want := filepath.Join(dir, "runs_2026-03-14_10-00-00.csv"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	if w.Path() != path {
		t.Errorf("Path() = %q, want %q", w.Path(), path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	want := "session_id,run_number,started_at,ended_at,duration_ms,duration_sec,note\n"
	if string(data) != want {
		t.Errorf("file = %q, want header only %q", data, want)
	}
}

func TestOpenSessionCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "runs")
	w := NewWriter(dir)
	if _, err := w.OpenSession("2026-03-14_10-00-00"); err != nil {
		t.Fatalf("OpenSession() error = %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("csv dir not created: %v", err)
	}
}

func TestAppendAndUndoRoundTrip(t *testing.T) {
	w := NewWriter(t.TempDir())
	if _, err := w.OpenSession("2026-03-14_10-00-00"); err != nil {
		t.Fatalf("OpenSession() error = %v", err)
	}

	start := time.Date(2026, 3, 14, 10, 0, 5, 0, time.Local)
	r1 := testRecord(1, start, 3456*time.Millisecond, "")
	r2 := testRecord(2, start.Add(5*time.Second), 7800*time.Millisecond, "found a ring")
	for _, r := range []Record{r1, r2} {
		if err := w.Append(r); err != nil {
			t.Fatalf("Append(%d) error = %v", r.RunNumber, err)
		}
	}

	removed, err := w.UndoLast()
	if err != nil {
		t.Fatalf("UndoLast() error = %v", err)
	}
	if removed.RunNumber != 2 || removed.Note != "found a ring" {
		t.Errorf("removed = %+v, want run 2", removed)
	}
	if removed.DurationMS != 7800 {
		t.Errorf("removed DurationMS = %d, want 7800", removed.DurationMS)
	}
	// Timestamps round-trip at second precision.
	if !removed.StartedAt.Equal(r2.StartedAt.Truncate(time.Second)) ||
		!removed.EndedAt.Equal(r2.EndedAt.Truncate(time.Second)) {
		t.Errorf("removed window = %v..%v, want %v..%v",
			removed.StartedAt, removed.EndedAt, r2.StartedAt, r2.EndedAt)
	}

	data, err := os.ReadFile(w.Path())
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want header + run 1", len(lines))
	}
	if !strings.Contains(lines[1], ",1,") || !strings.Contains(lines[1], "3.456") {
		t.Errorf("remaining row = %q, want run 1 with duration_sec 3.456", lines[1])
	}
	if _, err := os.Stat(w.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
}

func TestUndoLastHeaderOnly(t *testing.T) {
	w := NewWriter(t.TempDir())
	if _, err := w.OpenSession("2026-03-14_10-00-00"); err != nil {
		t.Fatalf("OpenSession() error = %v", err)
	}
	if _, err := w.UndoLast(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("UndoLast() error = %v, want ErrNothingToUndo", err)
	}
}

func TestWriterWithoutSession(t *testing.T) {
	w := NewWriter(t.TempDir())
	if err := w.Append(testRecord(1, time.Now(), time.Second, "")); !errors.Is(err, ErrNoSession) {
		t.Errorf("Append() error = %v, want ErrNoSession", err)
	}
	if _, err := w.UndoLast(); !errors.Is(err, ErrNoSession) {
		t.Errorf("UndoLast() error = %v, want ErrNoSession", err)
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00.00"},
		{3456 * time.Millisecond, "00:03.45"},
		{83450 * time.Millisecond, "01:23.45"},
		{time.Hour + 2*time.Minute + 3*time.Second, "01:02:03.00"},
	}
	for _, tt := range tests {
		if got := FormatElapsed(tt.d); got != tt.want {
			t.Errorf("FormatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
