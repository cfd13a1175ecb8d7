package usage

import "time"

// UsageEvent represents a single backend reply that reported tokens.
type UsageEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Operation string    `json:"operation"` // endpoint path, e.g. /chat/plan-day
	Tokens    int       `json:"tokens"`
}

// AggregatedStats holds counters broken down by operation.
type AggregatedStats struct {
	Total       TokenCounts            `json:"total"`
	ByOperation map[string]TokenCounts `json:"by_operation"`
}

// TokenCounts holds token and request sums.
type TokenCounts struct {
	Requests int64 `json:"requests"`
	Tokens   int64 `json:"tokens"`
}

func (tc *TokenCounts) Add(tokens int) {
	tc.Requests++
	tc.Tokens += int64(tokens)
}
