package search

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fireRecorder collects debounced dispatches.
type fireRecorder struct {
	mu      sync.Mutex
	queries []string
}

func (f *fireRecorder) fire(query string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
}

func (f *fireRecorder) fired() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.queries))
	copy(out, f.queries)
	return out
}

func TestDebouncerBurstFiresOnce(t *testing.T) {
	rec := &fireRecorder{}
	d := NewDebouncer(20*time.Millisecond, rec.fire)
	defer d.Stop()

	// A typing burst: each submission supersedes the previous one
	d.Submit("d")
	d.Submit("da")
	d.Submit("dat")
	d.Submit("database")

	require.Eventually(t, func() bool {
		return len(rec.fired()) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"database"}, rec.fired())

	// No further dispatches follow
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, []string{"database"}, rec.fired())
}

func TestDebouncerWhitespaceCancelsPending(t *testing.T) {
	rec := &fireRecorder{}
	d := NewDebouncer(20*time.Millisecond, rec.fire)
	defer d.Stop()

	d.Submit("database")
	d.Submit("   ")

	time.Sleep(80 * time.Millisecond)
	assert.Empty(t, rec.fired())
}

func TestDebouncerCancel(t *testing.T) {
	rec := &fireRecorder{}
	d := NewDebouncer(20*time.Millisecond, rec.fire)
	defer d.Stop()

	d.Submit("database")
	d.Cancel()

	time.Sleep(80 * time.Millisecond)
	assert.Empty(t, rec.fired())

	// Cancel is idempotent and does not poison future submissions
	d.Cancel()
	d.Submit("after cancel")
	require.Eventually(t, func() bool {
		return len(rec.fired()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"after cancel"}, rec.fired())
}

func TestDebouncerStop(t *testing.T) {
	rec := &fireRecorder{}
	d := NewDebouncer(20*time.Millisecond, rec.fire)

	d.Submit("pending")
	d.Stop()

	time.Sleep(80 * time.Millisecond)
	assert.Empty(t, rec.fired())

	// Submissions after Stop are rejected
	d.Submit("late")
	time.Sleep(80 * time.Millisecond)
	assert.Empty(t, rec.fired())
}

func TestDebouncerDefaultInterval(t *testing.T) {
	d := NewDebouncer(0, func(string) {})
	defer d.Stop()
	assert.Equal(t, DefaultDebounceInterval, d.interval)
}
