package runlog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// Writer persists runs to the active session's CSV file. Each session
// is exactly one file; rows are appended, never rewritten in place
// except via UndoLast.
type Writer struct {
	dir  string
	path string
}

// NewWriter creates a Writer placing session files under dir. The
// directory is created on demand by OpenSession.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Path returns the file currently receiving rows, empty before the
// first OpenSession.
func (w *Writer) Path() string {
	return w.path
}

// OpenSession creates a new session file named
// runs_YYYY-MM-DD_HH-MM-SS.csv (from the timestamp session id)
// containing only the header row and makes it the active file.
func (w *Writer) OpenSession(sessionID string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create csv dir: %w", err)
	}
	path := filepath.Join(w.dir, "runs_"+sessionID+".csv")

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("create session file: %w", err)
	}
	cw := csv.NewWriter(f)
	if err := cw.Write(Header); err != nil {
		f.Close()
		return "", fmt.Errorf("write header: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return "", fmt.Errorf("write header: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close session file: %w", err)
	}

	w.path = path
	return path, nil
}

// Append writes one finished run to the active session file.
func (w *Writer) Append(r Record) error {
	if w.path == "" {
		return ErrNoSession
	}
	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open session file: %w", err)
	}
	cw := csv.NewWriter(f)
	if err := cw.Write(r.fields()); err != nil {
		f.Close()
		return fmt.Errorf("append run %d: %w", r.RunNumber, err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return fmt.Errorf("append run %d: %w", r.RunNumber, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close session file: %w", err)
	}
	return nil
}

// UndoLast removes the most recently appended row from the active
// session file and returns it. The file is rewritten minus that row.
// Returns ErrNothingToUndo when only the header remains.
func (w *Writer) UndoLast() (*Record, error) {
	if w.path == "" {
		return nil, ErrNoSession
	}
	f, err := os.Open(w.path)
	if err != nil {
		return nil, fmt.Errorf("open session file: %w", err)
	}
	cr := csv.NewReader(f)
	cr.FieldsPerRecord = len(Header)
	rows, err := cr.ReadAll()
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if len(rows) <= 1 {
		return nil, ErrNothingToUndo
	}

	removed, err := recordFromFields(rows[len(rows)-1])
	if err != nil {
		return nil, fmt.Errorf("parse last row: %w", err)
	}

	// Rewrite to a temp file first so a failed write cannot lose the
	// whole session.
	tmp := w.path + ".tmp"
	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	cw := csv.NewWriter(out)
	if err := cw.WriteAll(rows[:len(rows)-1]); err != nil {
		out.Close()
		os.Remove(tmp)
		return nil, fmt.Errorf("rewrite session file: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp, w.path); err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("replace session file: %w", err)
	}
	return &removed, nil
}
