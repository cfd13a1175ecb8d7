package usage

import (
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestTracker_RecordAccumulates(t *testing.T) {
	tracker := NewTracker()

	tracker.Record("/chat/next-task", 5)
	total, ok := tracker.Record("/chat/plan-day", 7)
	if !ok {
		t.Fatalf("Record returned ok=false for positive tokens")
	}
	if total != 12 || tracker.Total() != 12 {
		t.Fatalf("total=%d Total()=%d, want 12", total, tracker.Total())
	}

	stats := tracker.Stats()
	if stats.Total.Requests != 2 {
		t.Fatalf("requests=%d, want 2", stats.Total.Requests)
	}
	if got := stats.ByOperation["/chat/plan-day"]; got.Tokens != 7 || got.Requests != 1 {
		t.Fatalf("ByOperation[plan-day]=%+v, want tokens=7 requests=1", got)
	}
}

func TestTracker_IgnoresNonPositive(t *testing.T) {
	tracker := NewTracker()
	tracker.Record("/chat/next-task", 10)

	for _, n := range []int{0, -3} {
		if total, ok := tracker.Record("/chat/next-task", n); ok || total != 10 {
			t.Fatalf("Record(%d) = (%d, %v), want (10, false)", n, total, ok)
		}
	}
	if got := len(tracker.Events()); got != 1 {
		t.Fatalf("events=%d, want 1", got)
	}
}

func TestTracker_StatsAreCopies(t *testing.T) {
	tracker := NewTracker()
	tracker.Record("op", 3)

	stats := tracker.Stats()
	stats.ByOperation["op"] = TokenCounts{Tokens: 999}

	if got := tracker.Stats().ByOperation["op"].Tokens; got != 3 {
		t.Fatalf("tracker mutated through Stats copy: %d", got)
	}
}

func TestTracker_ResetAndEventCap(t *testing.T) {
	tracker := NewTracker()
	for i := 0; i < maxEvents+10; i++ {
		tracker.Record("op", 1)
	}
	if got := len(tracker.Events()); got != maxEvents {
		t.Fatalf("events=%d, want %d", got, maxEvents)
	}
	if tracker.Total() != int64(maxEvents+10) {
		t.Fatalf("total=%d, want %d", tracker.Total(), maxEvents+10)
	}

	tracker.Reset()
	if tracker.Total() != 0 || len(tracker.Events()) != 0 || len(tracker.Stats().ByOperation) != 0 {
		t.Fatalf("Reset left state behind: %+v", tracker.Stats())
	}
}
