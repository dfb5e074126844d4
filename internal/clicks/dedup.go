package clicks

import (
	"sync"
	"time"
)

// Deduper suppresses rapid repeat clicks for the same tracking code from
// the same client. It guards against double-invocation of a single
// navigation (framework re-renders, preview prefetches), not against
// distinct visitors: the key includes a per-client component, so two
// different clients are never deduplicated against each other.
type Deduper struct {
	mu       sync.Mutex
	lastSeen map[string]time.Time
	window   time.Duration
	now      func() time.Time
}

// NewDeduper creates a deduper with the given suppression window.
func NewDeduper(window time.Duration) *Deduper {
	return &Deduper{
		lastSeen: make(map[string]time.Time),
		window:   window,
		now:      time.Now,
	}
}

// Allow reports whether a click for the key should be recorded. The first
// click in a window is allowed and starts the window; repeats inside the
// window are suppressed without resetting it.
func (d *Deduper) Allow(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if last, ok := d.lastSeen[key]; ok && now.Sub(last) < d.window {
		return false
	}

	d.lastSeen[key] = now
	d.pruneLocked(now)
	return true
}

// pruneLocked drops expired entries so the map does not grow without
// bound under sustained traffic. Called with the mutex held.
func (d *Deduper) pruneLocked(now time.Time) {
	if len(d.lastSeen) < 4096 {
		return
	}
	for key, last := range d.lastSeen {
		if now.Sub(last) >= d.window {
			delete(d.lastSeen, key)
		}
	}
}
