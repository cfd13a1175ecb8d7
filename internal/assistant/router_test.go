package assistant

import "testing"

func TestDefaultRouter_Resolve(t *testing.T) {
	router := DefaultRouter()

	tests := []struct {
		message string
		want    Endpoint
	}{
		{"Plan my day", EndpointPlanDay},
		{"can you SCHEDULE my afternoon", EndpointPlanDay},
		{"what's the PLAN?", EndpointPlanDay},
		{"an explanation please", EndpointPlanDay}, // plain substring match
		{"What should I do next?", EndpointNextTask},
		{"I'm feeling overwhelmed", EndpointNextTask},
		{"", EndpointNextTask},
	}

	for _, tt := range tests {
		if got := router.Resolve(tt.message); got != tt.want {
			t.Errorf("Resolve(%q) = %s, want %s", tt.message, got, tt.want)
		}
	}
}

func TestRouter_FirstMatchWins(t *testing.T) {
	router := NewRouter(EndpointNextTask,
		Route{Name: "morning", Match: ContainsAny("morning"), Endpoint: EndpointMorningCheckin},
		Route{Name: "plan", Match: ContainsAny("plan"), Endpoint: EndpointPlanDay},
	)

	if got := router.Resolve("morning plan"); got != EndpointMorningCheckin {
		t.Fatalf("Resolve = %s, want %s", got, EndpointMorningCheckin)
	}
	if got := router.Resolve("plan"); got != EndpointPlanDay {
		t.Fatalf("Resolve = %s, want %s", got, EndpointPlanDay)
	}
	if got := router.Resolve("other"); got != EndpointNextTask {
		t.Fatalf("Resolve = %s, want fallback %s", got, EndpointNextTask)
	}
	if n := len(router.Routes()); n != 2 {
		t.Fatalf("Routes() len = %d, want 2", n)
	}
}

func TestRouter_NilPredicateIsSkipped(t *testing.T) {
	router := NewRouter(EndpointNextTask, Route{Name: "broken", Endpoint: EndpointPlanDay})
	if got := router.Resolve("plan"); got != EndpointNextTask {
		t.Fatalf("Resolve = %s, want %s", got, EndpointNextTask)
	}
}
