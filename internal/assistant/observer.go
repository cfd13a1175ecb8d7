package assistant

import "timely/internal/tasks"

// Level is the severity of a Notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

// Notice is a transient, toast-style notification.
type Notice struct {
	Level Level
	Text  string
}

// Action names an operation that can be pending.
type Action string

const (
	ActionChat           Action = "chat"
	ActionMorningCheckin Action = "morning-checkin"
	ActionDayPlan        Action = "day-plan"
	ActionHealth         Action = "health"
)

// Observer is the presenter side of the ChatClient. Implementations render
// state changes; the ChatClient never touches a view directly.
// Methods may be called from any goroutine.
type Observer interface {
	ConnectionChanged(connected bool)
	MessageAdded(msg Message)
	TasksChanged(list []tasks.Task)
	TokensChanged(total int64)
	Notify(n Notice)
	Pending(action Action, pending bool)
}

// NopObserver ignores every event. Embed it to implement a subset.
type NopObserver struct{}

func (NopObserver) ConnectionChanged(bool) {}
func (NopObserver) MessageAdded(Message) {}
func (NopObserver) TasksChanged([]tasks.Task) {}
func (NopObserver) TokensChanged(int64) {}
func (NopObserver) Notify(Notice) {}
func (NopObserver) Pending(Action, bool) {}
