// Package stats keeps lifetime run totals across sessions in a small
// bbolt database: how many sessions and runs were ever recorded, total
// time spent and the best (fastest) run.
package stats

import (
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketTotals = []byte("totals")
	keyTotals    = []byte("lifetime")
)

// Totals is the lifetime aggregate.
type Totals struct {
	Sessions        int   `json:"sessions"`
	Runs            int   `json:"runs"`
	TotalDurationMS int64 `json:"total_duration_ms"`
	BestRunMS       int64 `json:"best_run_ms"` // 0 when no run recorded yet
}

// Store is a bbolt-backed totals store.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the database and its bucket.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open stats db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, createErr := tx.CreateBucketIfNotExists(bucketTotals)
		return createErr
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("create totals bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Totals returns the current lifetime aggregate.
func (s *Store) Totals() (Totals, error) {
	var t Totals
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketTotals).Get(keyTotals)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &t)
	})
	if err != nil {
		return Totals{}, fmt.Errorf("read totals: %w", err)
	}
	return t, nil
}

func (s *Store) update(fn func(*Totals)) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTotals)
		var t Totals
		if data := b.Get(keyTotals); data != nil {
			if err := json.Unmarshal(data, &t); err != nil {
				return err
			}
		}
		fn(&t)
		data, err := json.Marshal(t)
		if err != nil {
			return err
		}
		return b.Put(keyTotals, data)
	})
	if err != nil {
		return fmt.Errorf("update totals: %w", err)
	}
	return nil
}

// RecordRun counts one saved run.
func (s *Store) RecordRun(durationMS int64) error {
	return s.update(func(t *Totals) {
		t.Runs++
		t.TotalDurationMS += durationMS
		if t.BestRunMS == 0 || durationMS < t.BestRunMS {
			t.BestRunMS = durationMS
		}
	})
}

// UndoRun reverses one RecordRun. BestRunMS is left as the historic
// best; recomputing it would require the full run history, which only
// the CSV files hold.
func (s *Store) UndoRun(durationMS int64) error {
	return s.update(func(t *Totals) {
		if t.Runs > 0 {
			t.Runs--
			t.TotalDurationMS -= durationMS
		}
	})
}

// RecordSession counts one started session.
func (s *Store) RecordSession() error {
	return s.update(func(t *Totals) {
		t.Sessions++
	})
}
