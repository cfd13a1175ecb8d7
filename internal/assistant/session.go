package assistant

import (
	"sync"

	"timely/internal/tasks"
	"timely/internal/usage"

	"github.com/google/uuid"
)

// Session is the mutable state of one client session: tasks, token usage,
// connectivity and the transcript. Nothing in it outlives the process.
type Session struct {
	ID string

	mu         sync.Mutex
	connected  bool
	transcript []Message

	tasks *tasks.Store
	usage *usage.Tracker
}

// NewSession creates an empty, disconnected session.
func NewSession() *Session {
	return &Session{
		ID:    uuid.NewString(),
		tasks: tasks.NewStore(),
		usage: usage.NewTracker(),
	}
}

// Tasks returns the session's task store.
func (s *Session) Tasks() *tasks.Store { return s.tasks }

// Usage returns the session's token tracker.
func (s *Session) Usage() *usage.Tracker { return s.usage }

// Connected reports the last known connectivity.
func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// SetConnected records connectivity and reports whether it changed.
func (s *Session) SetConnected(connected bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.connected != connected
	s.connected = connected
	return changed
}

// Append adds messages to the transcript in the given order.
func (s *Session) Append(msgs ...Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, msgs...)
}

// Transcript returns a copy of the transcript.
func (s *Session) Transcript() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// ClearTranscript drops every message.
func (s *Session) ClearTranscript() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = nil
}

// Reset reinitializes the whole session: tasks, tokens, transcript and
// connectivity. It is the only way the token total goes back to zero.
func (s *Session) Reset() {
	s.mu.Lock()
	s.connected = false
	s.transcript = nil
	s.mu.Unlock()

	s.tasks.Reset()
	s.usage.Reset()
}
