package search

import (
	"strings"
	"sync"
	"time"
)

// DefaultDebounceInterval is the pause in typing that must elapse before
// a pending query is dispatched.
const DefaultDebounceInterval = 300 * time.Millisecond

// Debouncer coalesces rapid query submissions into a single dispatch.
// Each Submit replaces any pending query and restarts the timer, so only
// the last query of a burst fires. It is safe for concurrent use.
type Debouncer struct {
	mu       sync.Mutex
	interval time.Duration
	timer    *time.Timer
	fire     func(query string)
	stopped  bool
}

// NewDebouncer creates a debouncer that calls fire after interval has
// elapsed with no further submissions. A non-positive interval falls back
// to DefaultDebounceInterval.
func NewDebouncer(interval time.Duration, fire func(query string)) *Debouncer {
	if interval <= 0 {
		interval = DefaultDebounceInterval
	}
	return &Debouncer{
		interval: interval,
		fire:     fire,
	}
}

// Submit schedules query for dispatch after the debounce interval.
// Whitespace-only queries cancel any pending dispatch instead of
// scheduling one.
func (d *Debouncer) Submit(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if strings.TrimSpace(query) == "" {
		return
	}
	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		if d.stopped {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		d.fire(query)
	})
}

// Cancel discards any pending dispatch. It is idempotent and does not
// prevent future submissions.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Stop cancels any pending dispatch and rejects all future submissions.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
