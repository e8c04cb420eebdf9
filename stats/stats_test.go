package stats

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "stats.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTotalsEmptyStore(t *testing.T) {
	s := openTestStore(t)
	got, err := s.Totals()
	if err != nil {
		t.Fatalf("Totals() error = %v", err)
	}
	if got != (Totals{}) {
		t.Errorf("Totals() = %+v, want zero value", got)
	}
}

func TestRecordRunAccumulates(t *testing.T) {
	s := openTestStore(t)

	for _, d := range []int64{5000, 3000, 8000} {
		if err := s.RecordRun(d); err != nil {
			t.Fatalf("RecordRun(%d) error = %v", d, err)
		}
	}
	if err := s.RecordSession(); err != nil {
		t.Fatalf("RecordSession() error = %v", err)
	}

	got, err := s.Totals()
	if err != nil {
		t.Fatalf("Totals() error = %v", err)
	}
	want := Totals{Sessions: 1, Runs: 3, TotalDurationMS: 16000, BestRunMS: 3000}
	if got != want {
		t.Errorf("Totals() = %+v, want %+v", got, want)
	}
}

func TestUndoRunKeepsHistoricBest(t *testing.T) {
	s := openTestStore(t)

	s.RecordRun(5000)
	s.RecordRun(3000)
	if err := s.UndoRun(3000); err != nil {
		t.Fatalf("UndoRun() error = %v", err)
	}

	got, err := s.Totals()
	if err != nil {
		t.Fatalf("Totals() error = %v", err)
	}
	if got.Runs != 1 || got.TotalDurationMS != 5000 {
		t.Errorf("after undo: runs = %d, total = %d, want 1 and 5000", got.Runs, got.TotalDurationMS)
	}
	if got.BestRunMS != 3000 {
		t.Errorf("BestRunMS = %d, want historic 3000", got.BestRunMS)
	}
}

func TestUndoRunOnEmptyStoreIsNoop(t *testing.T) {
	s := openTestStore(t)
	if err := s.UndoRun(5000); err != nil {
		t.Fatalf("UndoRun() error = %v", err)
	}
	got, err := s.Totals()
	if err != nil {
		t.Fatalf("Totals() error = %v", err)
	}
	if got.Runs != 0 || got.TotalDurationMS != 0 {
		t.Errorf("Totals() = %+v, want untouched zero value", got)
	}
}

func TestTotalsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	s.RecordRun(4000)
	s.RecordSession()
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s2.Close()
	got, err := s2.Totals()
	if err != nil {
		t.Fatalf("Totals() error = %v", err)
	}
	want := Totals{Sessions: 1, Runs: 1, TotalDurationMS: 4000, BestRunMS: 4000}
	if got != want {
		t.Errorf("Totals() after reopen = %+v, want %+v", got, want)
	}
}
