// Package usage accumulates the token counts reported by the backend over a
// session. Counters only grow; Reset is the one explicit reinitialization.
package usage

import (
	"sync"
	"time"
)

// maxEvents bounds the in-memory event log.
const maxEvents = 256

// Tracker manages token usage recording for one session.
type Tracker struct {
	mu     sync.Mutex
	stats  AggregatedStats
	events []UsageEvent
	now    func() time.Time
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		stats: AggregatedStats{ByOperation: make(map[string]TokenCounts)},
		now:   time.Now,
	}
}

// Record adds tokens reported for an operation. Non-positive counts are
// ignored so the running total never decreases. It returns the new total and
// whether anything was recorded.
func (t *Tracker) Record(operation string, tokens int) (int64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if tokens <= 0 {
		return t.stats.Total.Tokens, false
	}

	t.stats.Total.Add(tokens)
	addToMap(t.stats.ByOperation, operation, tokens)

	t.events = append(t.events, UsageEvent{Timestamp: t.now(), Operation: operation, Tokens: tokens})
	if len(t.events) > maxEvents {
		t.events = t.events[len(t.events)-maxEvents:]
	}
	return t.stats.Total.Tokens, true
}

// Total returns the running token total.
func (t *Tracker) Total() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats.Total.Tokens
}

// Stats returns a copy of the aggregated stats.
func (t *Tracker) Stats() AggregatedStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	stats := t.stats
	stats.ByOperation = copyTokenCountsMap(stats.ByOperation)
	return stats
}

// Events returns a copy of the most recent events, oldest first.
func (t *Tracker) Events() []UsageEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]UsageEvent, len(t.events))
	copy(out, t.events)
	return out
}

// Reset clears all counters.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats = AggregatedStats{ByOperation: make(map[string]TokenCounts)}
	t.events = nil
}

func copyTokenCountsMap(src map[string]TokenCounts) map[string]TokenCounts {
	if src == nil {
		return nil
	}
	dst := make(map[string]TokenCounts, len(src))
	for key, counts := range src {
		dst[key] = counts
	}
	return dst
}

func addToMap(m map[string]TokenCounts, key string, tokens int) {
	entry := m[key]
	entry.Add(tokens)
	m[key] = entry
}
