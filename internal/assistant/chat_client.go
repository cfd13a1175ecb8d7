// Package assistant is the rendering-free core of the Timely client: it owns
// session state, picks backend endpoints and turns every backend failure into
// a user-visible offline message instead of an error.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"timely/internal/logging"
	"timely/internal/tasks"
	"timely/internal/usage"

	"go.uber.org/zap"
)

// ManualOperation is the usage operation for tokens recorded outside a backend call.
const ManualOperation = "manual"

// ChatClient orchestrates backend requests and the session state.
type ChatClient struct {
	transport Transport
	router    *Router
	session   *Session
	observer  Observer
	logger    *zap.Logger
	now       func() time.Time
}

// Option customizes a ChatClient.
type Option func(*ChatClient)

// WithRouter replaces the default keyword route table.
func WithRouter(r *Router) Option {
	return func(c *ChatClient) { c.router = r }
}

// WithObserver attaches the presenter.
func WithObserver(o Observer) Option {
	return func(c *ChatClient) { c.observer = o }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *ChatClient) { c.logger = l }
}

// WithClock overrides time.Now for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *ChatClient) { c.now = now }
}

// NewChatClient wires a transport to a session. A nil session creates a fresh one.
func NewChatClient(transport Transport, session *Session, opts ...Option) *ChatClient {
	if session == nil {
		session = NewSession()
	}
	c := &ChatClient{
		transport: transport,
		router:    DefaultRouter(),
		session:   session,
		observer:  NopObserver{},
		logger:    logging.Get(logging.CategorySession),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("session_id", session.ID))
	return c
}

// Session returns the underlying session state.
func (c *ChatClient) Session() *Session { return c.session }

// Router returns the active route table.
func (c *ChatClient) Router() *Router { return c.router }

// CheckConnection probes the backend and records the result. It never fails;
// the outcome is only visible through the returned flag and the observer.
func (c *ChatClient) CheckConnection(ctx context.Context) bool {
	c.observer.Pending(ActionHealth, true)
	defer c.observer.Pending(ActionHealth, false)

	status, err := c.transport.Health(ctx)
	connected := err == nil
	c.session.SetConnected(connected)
	c.observer.ConnectionChanged(connected)

	if connected {
		if status == nil {
			status = &HealthStatus{}
		}
		c.logger.Info("backend connected",
			zap.String("app", status.App),
			zap.String("version", status.Version))
		c.observer.Notify(Notice{Level: LevelSuccess, Text: noticeConnected})
	} else {
		c.logger.Warn("backend connection failed", zap.Error(err))
		c.observer.Notify(Notice{Level: LevelError, Text: noticeConnectFailed})
	}
	return connected
}

// SubmitChatMessage sends free-form text to the endpoint chosen by the route
// table. Blank text is ignored and yields a zero Message. The returned
// assistant message carries an error flag instead of an error value when the
// backend could not be reached.
func (c *ChatClient) SubmitChatMessage(ctx context.Context, text string, energy Energy, personality Personality, taskList []tasks.Task) Message {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}
	}

	c.addMessage(c.userMessage(text))

	endpoint := c.router.Resolve(text)
	c.logger.Debug("routing chat message", zap.String("endpoint", string(endpoint)))

	reply := c.send(ctx, ActionChat, endpoint, text, energy, personality, taskList, KindChat, noticeChatFailed)
	c.addMessage(reply)
	return reply
}

// RequestMorningCheckin asks the backend for a morning greeting.
func (c *ChatClient) RequestMorningCheckin(ctx context.Context, energy Energy, personality Personality, taskList []tasks.Task) Message {
	reply := c.send(ctx, ActionMorningCheckin, EndpointMorningCheckin, MorningCheckinMessage,
		energy, personality, taskList, KindMorningCheckin, noticeCheckinFailed)
	c.addMessage(reply)
	return reply
}

// RequestDayPlan asks the backend for a plan of the day. The "Plan my day"
// user message is added once the call completes, right before the reply.
func (c *ChatClient) RequestDayPlan(ctx context.Context, energy Energy, personality Personality, taskList []tasks.Task) Message {
	reply := c.send(ctx, ActionDayPlan, EndpointPlanDay, DayPlanMessage,
		energy, personality, taskList, KindDayPlan, noticeDayPlanFailed)
	c.addMessage(c.userMessage(DayPlanMessage))
	c.addMessage(reply)
	return reply
}

func (c *ChatClient) send(ctx context.Context, action Action, endpoint Endpoint, text string,
	energy Energy, personality Personality, taskList []tasks.Task, kind Kind, failure string) Message {

	c.observer.Pending(action, true)
	defer c.observer.Pending(action, false)

	if energy == "" {
		energy = DefaultEnergy
	}
	if personality == "" {
		personality = DefaultPersonality
	}
	if taskList == nil {
		taskList = []tasks.Task{}
	}

	resp, err := c.transport.Chat(ctx, endpoint, ChatRequest{
		Message:         text,
		EnergyLevel:     energy,
		PersonalityMode: personality,
		Tasks:           taskList,
	})
	if err != nil {
		c.logger.Warn("backend call failed",
			zap.String("endpoint", string(endpoint)),
			zap.NamedError("kind", KindOf(err)),
			zap.Error(err))
		c.observer.Notify(Notice{Level: LevelError, Text: failure})
		return Message{
			Role:    RoleAssistant,
			Content: OfflineMessage,
			Metadata: Metadata{
				Error:    true,
				Kind:     kind,
				Endpoint: endpoint,
			},
			At: c.now(),
		}
	}

	tokens := resp.Tokens()
	c.recordUsage(string(endpoint), tokens)

	return Message{
		Role:    RoleAssistant,
		Content: resp.Response,
		Metadata: Metadata{
			Tokens:    tokens,
			Fallback:  resp.Fallback,
			Timestamp: resp.Timestamp,
			Kind:      kind,
			Endpoint:  endpoint,
		},
		At: c.now(),
	}
}

// RecordTokenUsage adds n to the running total when n is positive and
// returns the new total.
func (c *ChatClient) RecordTokenUsage(n int) int64 {
	return c.recordUsage(ManualOperation, n)
}

func (c *ChatClient) recordUsage(operation string, n int) int64 {
	total, recorded := c.session.Usage().Record(operation, n)
	if recorded {
		c.observer.TokensChanged(total)
	}
	return total
}

// AddTask creates a task from user input. Blank titles are rejected.
func (c *ChatClient) AddTask(title string, priority tasks.Priority, duration int) (tasks.Task, bool) {
	task, ok := c.session.Tasks().Add(title, priority, duration)
	if !ok {
		return tasks.Task{}, false
	}
	logging.Get(logging.CategoryTasks).Debug("task added",
		zap.Int("id", task.ID),
		zap.String("priority", string(task.Priority)),
		zap.Int("minutes", task.EstimatedDuration))
	c.observer.TasksChanged(c.session.Tasks().List())
	c.observer.Notify(Notice{Level: LevelSuccess, Text: fmt.Sprintf(noticeTaskAddedFmt, task.Title)})
	return task, true
}

// RemoveTask completes the task with the given id. Unknown ids are ignored.
func (c *ChatClient) RemoveTask(id int) bool {
	task, ok := c.session.Tasks().Remove(id)
	if !ok {
		return false
	}
	logging.Get(logging.CategoryTasks).Debug("task completed", zap.Int("id", task.ID))
	c.observer.TasksChanged(c.session.Tasks().List())
	c.observer.Notify(Notice{Level: LevelSuccess, Text: noticeTaskCompleted})
	return true
}

// SeedSampleTasks loads the starter tasks.
func (c *ChatClient) SeedSampleTasks() {
	c.session.Tasks().Insert(tasks.SampleTasks()...)
	c.observer.TasksChanged(c.session.Tasks().List())
}

// ShowWelcome adds the welcome message to the transcript.
func (c *ChatClient) ShowWelcome() {
	c.addMessage(Message{
		Role:     RoleAssistant,
		Content:  WelcomeMessage,
		Metadata: Metadata{Kind: KindWelcome},
		At:       c.now(),
	})
}

// ClearTranscript empties the chat and shows the welcome message again.
// Token usage and tasks are untouched.
func (c *ChatClient) ClearTranscript() {
	c.session.ClearTranscript()
	c.ShowWelcome()
	c.observer.Notify(Notice{Level: LevelInfo, Text: noticeChatCleared})
}

// Tasks returns a copy of the current task list.
func (c *ChatClient) Tasks() []tasks.Task { return c.session.Tasks().List() }

// Transcript returns a copy of the transcript.
func (c *ChatClient) Transcript() []Message { return c.session.Transcript() }

// TotalTokens returns the running token total.
func (c *ChatClient) TotalTokens() int64 { return c.session.Usage().Total() }

// Usage returns the per-operation token breakdown.
func (c *ChatClient) Usage() usage.AggregatedStats { return c.session.Usage().Stats() }

// Connected reports the last probe result.
func (c *ChatClient) Connected() bool { return c.session.Connected() }

func (c *ChatClient) userMessage(text string) Message {
	return Message{Role: RoleUser, Content: text, At: c.now()}
}

func (c *ChatClient) addMessage(m Message) {
	c.session.Append(m)
	c.observer.MessageAdded(m)
}
