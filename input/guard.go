package input

import (
	"sync"
	"time"
)

// RepeatGuard debounces repeated fires of the same binding: a held
// D-pad direction or a chattering hotkey may not fire faster than the
// guard interval. The interval is passed per call so mapping reloads
// take effect immediately.
type RepeatGuard struct {
	mu   sync.Mutex
	last map[string]time.Time
	now  func() time.Time
}

// NewRepeatGuard creates an empty guard.
func NewRepeatGuard() *RepeatGuard {
	return &RepeatGuard{last: make(map[string]time.Time), now: time.Now}
}

// Throttled records a fire attempt for key and reports whether it falls
// within interval of the previous attempt. The attempt is recorded
// either way, matching hold-to-repeat suppression.
func (g *RepeatGuard) Throttled(key string, interval time.Duration) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	prev, ok := g.last[key]
	g.last[key] = now
	if !ok || interval <= 0 {
		return false
	}
	return now.Sub(prev) < interval
}
