package assistant

import "strings"

// Endpoint is a backend path. Chat endpoints are relative to the API prefix;
// EndpointHealth is relative to the base URL.
type Endpoint string

const (
	EndpointHealth         Endpoint = "/health"
	EndpointNextTask       Endpoint = "/chat/next-task"
	EndpointPlanDay        Endpoint = "/chat/plan-day"
	EndpointMorningCheckin Endpoint = "/chat/morning-checkin"
)

// Predicate decides whether a route applies to a message.
type Predicate func(message string) bool

// ContainsAny matches messages containing any keyword, ignoring case.
func ContainsAny(keywords ...string) Predicate {
	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(k)
	}
	return func(message string) bool {
		m := strings.ToLower(message)
		for _, k := range lowered {
			if strings.Contains(m, k) {
				return true
			}
		}
		return false
	}
}

// Route maps a predicate onto an endpoint.
type Route struct {
	Name     string
	Match    Predicate
	Endpoint Endpoint
}

// Router picks the endpoint for free-form chat messages.
// Routes are tried in order; the first match wins.
type Router struct {
	routes   []Route
	fallback Endpoint
}

// NewRouter builds a router that answers fallback when no route matches.
func NewRouter(fallback Endpoint, routes ...Route) *Router {
	return &Router{routes: routes, fallback: fallback}
}

// DefaultRouter sends planning and scheduling requests to the day planner
// and everything else to the next-task suggester. Matching is a plain
// substring test, so "explanation" also routes to the planner.
func DefaultRouter() *Router {
	return NewRouter(EndpointNextTask,
		Route{Name: "plan-day", Match: ContainsAny("plan", "schedule"), Endpoint: EndpointPlanDay},
	)
}

// Resolve returns the endpoint for message.
func (r *Router) Resolve(message string) Endpoint {
	for _, route := range r.routes {
		if route.Match != nil && route.Match(message) {
			return route.Endpoint
		}
	}
	return r.fallback
}

// Routes returns a copy of the route table.
func (r *Router) Routes() []Route {
	out := make([]Route, len(r.routes))
	copy(out, r.routes)
	return out
}
