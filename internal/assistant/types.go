package assistant

import (
	"strings"
	"time"

	"timely/internal/tasks"
)

// Energy is the user's self-reported energy level. It is forwarded to the
// backend unchanged.
type Energy string

const (
	EnergyLow    Energy = "low"
	EnergyMedium Energy = "medium"
	EnergyHigh   Energy = "high"

	DefaultEnergy = EnergyMedium
)

// Energies lists the known energy levels.
func Energies() []Energy {
	return []Energy{EnergyLow, EnergyMedium, EnergyHigh}
}

// ParseEnergy normalizes user input. ok is false for unknown levels.
func ParseEnergy(s string) (Energy, bool) {
	e := Energy(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Energies() {
		if e == known {
			return e, true
		}
	}
	return "", false
}

// Personality selects the assistant's response style. Forwarded unchanged.
type Personality string

const (
	PersonalityCoach  Personality = "coach"
	PersonalityFriend Personality = "friend"
	PersonalityStrict Personality = "strict"
	PersonalityZen    Personality = "zen"

	DefaultPersonality = PersonalityCoach
)

// Personalities lists the known personality modes.
func Personalities() []Personality {
	return []Personality{PersonalityCoach, PersonalityFriend, PersonalityStrict, PersonalityZen}
}

// ParsePersonality normalizes user input. ok is false for unknown modes.
func ParsePersonality(s string) (Personality, bool) {
	p := Personality(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Personalities() {
		if p == known {
			return p, true
		}
	}
	return "", false
}

// Role identifies the author of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Kind tags messages produced by the fixed actions.
type Kind string

const (
	KindChat           Kind = ""
	KindMorningCheckin Kind = "morning-checkin"
	KindDayPlan        Kind = "day-plan"
	KindWelcome        Kind = "welcome"
)

// Metadata decorates assistant messages.
type Metadata struct {
	Tokens    int      `json:"tokens,omitempty"`
	Fallback  bool     `json:"fallback,omitempty"`
	Error     bool     `json:"error,omitempty"`
	Timestamp string   `json:"timestamp,omitempty"`
	Kind      Kind     `json:"kind,omitempty"`
	Endpoint  Endpoint `json:"endpoint,omitempty"`
}

// Message is one transcript entry.
type Message struct {
	Role     Role      `json:"role"`
	Content  string    `json:"content"`
	Metadata Metadata  `json:"metadata"`
	At       time.Time `json:"at"`
}

// IsZero reports whether m is the empty message returned for no-op submissions.
func (m Message) IsZero() bool {
	return m.Role == "" && m.Content == ""
}

// ChatRequest is the JSON body of every chat endpoint.
type ChatRequest struct {
	Message         string       `json:"message"`
	EnergyLevel     Energy       `json:"energy_level"`
	PersonalityMode Personality  `json:"personality_mode"`
	Tasks           []tasks.Task `json:"tasks"`
}

// ChatResponse is the decoded body of a successful chat call.
type ChatResponse struct {
	Response    string         `json:"response"`
	TokensUsed  *int           `json:"tokens_used,omitempty"`
	Fallback    bool           `json:"fallback,omitempty"`
	Timestamp   string         `json:"timestamp,omitempty"`
	ContextUsed map[string]any `json:"context_used,omitempty"`
}

// Tokens returns tokens_used, or 0 when the backend did not report it.
func (r *ChatResponse) Tokens() int {
	if r == nil || r.TokensUsed == nil {
		return 0
	}
	return *r.TokensUsed
}

// HealthStatus is the decoded body of GET /health. Every field is optional;
// only the status code decides connectivity.
type HealthStatus struct {
	StatusCode       int    `json:"-"`
	Status           string `json:"status"`
	Timestamp        string `json:"timestamp"`
	App              string `json:"app"`
	Version          string `json:"version"`
	OpenAIConfigured bool   `json:"openai_configured"`
	Database         string `json:"database"`
}
