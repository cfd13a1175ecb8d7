package chat

import (
	"timely/internal/assistant"
	"timely/internal/tasks"

	tea "github.com/charmbracelet/bubbletea"
)

const eventBuffer = 256

// Events delivered from the ChatClient to the model.
type (
	connectionMsg struct{ connected bool }
	messageAddedMsg struct{ message assistant.Message }
	tasksChangedMsg struct{ tasks []tasks.Task }
	tokensMsg struct{ total int64 }
	noticeMsg struct{ notice assistant.Notice }
	pendingMsg struct {
		action  assistant.Action
		pending bool
	}
)

// Observer forwards ChatClient events to the bubbletea loop through a
// buffered channel. Pass it to assistant.WithObserver and to New.
type Observer struct {
	events chan tea.Msg
}

// NewObserver creates an observer with an event buffer.
func NewObserver() *Observer {
	return &Observer{events: make(chan tea.Msg, eventBuffer)}
}

var _ assistant.Observer = (*Observer)(nil)

func (o *Observer) ConnectionChanged(connected bool) { o.send(connectionMsg{connected}) }

func (o *Observer) MessageAdded(m assistant.Message) { o.send(messageAddedMsg{m}) }

func (o *Observer) TasksChanged(list []tasks.Task) { o.send(tasksChangedMsg{list}) }

func (o *Observer) TokensChanged(total int64) { o.send(tokensMsg{total}) }

func (o *Observer) Notify(n assistant.Notice) { o.send(noticeMsg{n}) }

func (o *Observer) Pending(a assistant.Action, pending bool) {
	o.send(pendingMsg{action: a, pending: pending})
}

// send never blocks. The model rereads state from the session on every
// event and tracks in-flight requests itself, so a dropped event only
// loses a toast.
func (o *Observer) send(msg tea.Msg) {
	select {
	case o.events <- msg:
	default:
	}
}

// wait returns a command that delivers the next event.
func (o *Observer) wait() tea.Cmd {
	return func() tea.Msg {
		return <-o.events
	}
}
