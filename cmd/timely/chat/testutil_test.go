package chat

import (
	"context"
	"sync"
	"testing"

	"timely/internal/assistant"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// fakeTransport answers every chat call with reply and records requests.
type fakeTransport struct {
	mu       sync.Mutex
	reply    string
	tokens   int
	chatErr  error
	healthOK bool
	requests []assistant.ChatRequest
}

func (f *fakeTransport) Health(ctx context.Context) (*assistant.HealthStatus, error) {
	if !f.healthOK {
		return nil, &assistant.RequestError{Endpoint: assistant.EndpointHealth, Kind: assistant.ErrConnectivity}
	}
	return &assistant.HealthStatus{StatusCode: 200, Status: "healthy"}, nil
}

func (f *fakeTransport) Chat(ctx context.Context, endpoint assistant.Endpoint, req assistant.ChatRequest) (*assistant.ChatResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	tokens := f.tokens
	return &assistant.ChatResponse{Response: f.reply, TokensUsed: &tokens}, nil
}

func (f *fakeTransport) lastRequest() assistant.ChatRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

// newTestModel returns a sized model backed by a fake transport.
func newTestModel(t *testing.T, transport *fakeTransport) (Model, *assistant.ChatClient) {
	t.Helper()
	obs := NewObserver()
	client := assistant.NewChatClient(transport, assistant.NewSession(),
		assistant.WithObserver(obs),
		assistant.WithLogger(zap.NewNop()))

	m := New(context.Background(), client, obs, Config{Theme: "light", DefaultDuration: 25, ShowTasks: true})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model), client
}

func typeAndSubmit(m Model, text string) (Model, tea.Cmd) {
	m.textarea.SetValue(text)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(Model), cmd
}

// drain empties the observer channel so later assertions see fresh events.
func drain(o *Observer) []tea.Msg {
	var out []tea.Msg
	for {
		select {
		case msg := <-o.events:
			out = append(out, msg)
		default:
			return out
		}
	}
}
