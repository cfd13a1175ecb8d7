package assistant

import (
	"context"
	"sync"
	"testing"
	"time"

	"timely/internal/tasks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeTransport records calls and answers from canned values.
type fakeTransport struct {
	mu        sync.Mutex
	calls     []fakeCall
	resp      *ChatResponse
	err       error
	healthErr error
}

type fakeCall struct {
	endpoint Endpoint
	req      ChatRequest
}

func (f *fakeTransport) Health(ctx context.Context) (*HealthStatus, error) {
	if f.healthErr != nil {
		return nil, f.healthErr
	}
	return &HealthStatus{StatusCode: 200, Status: "healthy", App: "Timely"}, nil
}

func (f *fakeTransport) Chat(ctx context.Context, endpoint Endpoint, req ChatRequest) (*ChatResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fakeCall{endpoint: endpoint, req: req})
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeTransport) lastCall(t *testing.T) fakeCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.calls, "no backend call recorded")
	return f.calls[len(f.calls)-1]
}

// recordingObserver captures every event.
type recordingObserver struct {
	mu        sync.Mutex
	connected []bool
	messages  []Message
	taskLists [][]tasks.Task
	totals    []int64
	notices   []Notice
	pending   []string
}

func (r *recordingObserver) ConnectionChanged(c bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connected = append(r.connected, c)
}

func (r *recordingObserver) MessageAdded(m Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, m)
}

func (r *recordingObserver) TasksChanged(l []tasks.Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.taskLists = append(r.taskLists, l)
}

func (r *recordingObserver) TokensChanged(total int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.totals = append(r.totals, total)
}

func (r *recordingObserver) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recordingObserver) Pending(a Action, p bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state := "done"
	if p {
		state = "pending"
	}
	r.pending = append(r.pending, string(a)+":"+state)
}

func intPtr(n int) *int { return &n }

var fixedNow = time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)

func newTestChatClient(transport Transport) (*ChatClient, *recordingObserver) {
	obs := &recordingObserver{}
	c := NewChatClient(transport, NewSession(),
		WithObserver(obs),
		WithLogger(zap.NewNop()),
		WithClock(func() time.Time { return fixedNow }),
	)
	return c, obs
}

func TestSubmitChatMessage_PlanScenario(t *testing.T) {
	transport := &fakeTransport{resp: &ChatResponse{Response: "Here's your plan...", TokensUsed: intPtr(42)}}
	c, obs := newTestChatClient(transport)

	reply := c.SubmitChatMessage(context.Background(), "Plan my day", EnergyMedium, PersonalityCoach, c.Tasks())

	call := transport.lastCall(t)
	assert.Equal(t, EndpointPlanDay, call.endpoint)
	assert.Equal(t, "Plan my day", call.req.Message)

	assert.Equal(t, int64(42), c.TotalTokens())
	assert.Equal(t, []int64{42}, obs.totals)

	transcript := c.Transcript()
	require.Len(t, transcript, 2)
	assert.Equal(t, RoleUser, transcript[0].Role)
	assert.Equal(t, "Plan my day", transcript[0].Content)
	assert.Equal(t, RoleAssistant, transcript[1].Role)
	assert.Equal(t, 42, transcript[1].Metadata.Tokens)
	assert.Equal(t, reply, transcript[1])
	assert.Equal(t, obs.messages, transcript)
	assert.Equal(t, []string{"chat:pending", "chat:done"}, obs.pending)
}

func TestSubmitChatMessage_RoutesToNextTask(t *testing.T) {
	transport := &fakeTransport{resp: &ChatResponse{Response: "Do the dishes"}}
	c, _ := newTestChatClient(transport)

	c.SubmitChatMessage(context.Background(), "What should I do next?", EnergyLow, PersonalityZen, nil)

	call := transport.lastCall(t)
	assert.Equal(t, EndpointNextTask, call.endpoint)
	assert.Equal(t, EnergyLow, call.req.EnergyLevel)
	assert.Equal(t, PersonalityZen, call.req.PersonalityMode)
	assert.NotNil(t, call.req.Tasks)
	assert.Equal(t, int64(0), c.TotalTokens(), "no tokens reported, nothing recorded")
}

func TestSubmitChatMessage_ForwardsTasksAndDefaults(t *testing.T) {
	transport := &fakeTransport{resp: &ChatResponse{Response: "ok"}}
	c, _ := newTestChatClient(transport)
	c.AddTask("Write report", tasks.PriorityUrgent, 60)

	c.SubmitChatMessage(context.Background(), "hello", "", "", c.Tasks())

	call := transport.lastCall(t)
	assert.Equal(t, DefaultEnergy, call.req.EnergyLevel)
	assert.Equal(t, DefaultPersonality, call.req.PersonalityMode)
	require.Len(t, call.req.Tasks, 1)
	assert.Equal(t, "Write report", call.req.Tasks[0].Title)
}

func TestSubmitChatMessage_FailureYieldsOfflineMessage(t *testing.T) {
	for _, kind := range []error{ErrConnectivity, ErrStatus, ErrMalformedResponse} {
		t.Run(kind.Error(), func(t *testing.T) {
			transport := &fakeTransport{err: &RequestError{Endpoint: EndpointNextTask, Kind: kind}}
			c, obs := newTestChatClient(transport)

			var reply Message
			assert.NotPanics(t, func() {
				reply = c.SubmitChatMessage(context.Background(), "hi", EnergyMedium, PersonalityCoach, nil)
			})

			assert.Equal(t, RoleAssistant, reply.Role)
			assert.Equal(t, OfflineMessage, reply.Content)
			assert.True(t, reply.Metadata.Error)
			require.Len(t, obs.notices, 1)
			assert.Equal(t, LevelError, obs.notices[0].Level)
			assert.Len(t, c.Transcript(), 2)
			assert.Equal(t, int64(0), c.TotalTokens())
		})
	}
}

func TestSubmitChatMessage_BlankIsNoop(t *testing.T) {
	transport := &fakeTransport{resp: &ChatResponse{Response: "ok"}}
	c, obs := newTestChatClient(transport)

	reply := c.SubmitChatMessage(context.Background(), "   ", EnergyMedium, PersonalityCoach, nil)
	assert.True(t, reply.IsZero())
	assert.Empty(t, transport.calls)
	assert.Empty(t, obs.messages)
}

func TestSubmitChatMessage_FallbackFlag(t *testing.T) {
	transport := &fakeTransport{resp: &ChatResponse{Response: "canned", Fallback: true, Timestamp: "t"}}
	c, _ := newTestChatClient(transport)

	reply := c.SubmitChatMessage(context.Background(), "hi", EnergyMedium, PersonalityCoach, nil)
	assert.True(t, reply.Metadata.Fallback)
	assert.False(t, reply.Metadata.Error)
	assert.Equal(t, "t", reply.Metadata.Timestamp)
}

func TestRequestMorningCheckin(t *testing.T) {
	transport := &fakeTransport{resp: &ChatResponse{Response: "Morning!", TokensUsed: intPtr(5)}}
	c, _ := newTestChatClient(transport)

	reply := c.RequestMorningCheckin(context.Background(), EnergyHigh, PersonalityFriend, nil)

	call := transport.lastCall(t)
	assert.Equal(t, EndpointMorningCheckin, call.endpoint)
	assert.Equal(t, MorningCheckinMessage, call.req.Message)
	assert.Equal(t, KindMorningCheckin, reply.Metadata.Kind)

	transcript := c.Transcript()
	require.Len(t, transcript, 1, "check-in adds only the assistant reply")
	assert.Equal(t, int64(5), c.TotalTokens())
}

func TestRequestDayPlan(t *testing.T) {
	transport := &fakeTransport{resp: &ChatResponse{Response: "Plan", TokensUsed: intPtr(7)}}
	c, _ := newTestChatClient(transport)

	c.RequestDayPlan(context.Background(), EnergyMedium, PersonalityStrict, nil)

	call := transport.lastCall(t)
	assert.Equal(t, EndpointPlanDay, call.endpoint)
	assert.Equal(t, DayPlanMessage, call.req.Message)

	transcript := c.Transcript()
	require.Len(t, transcript, 2)
	assert.Equal(t, RoleUser, transcript[0].Role)
	assert.Equal(t, DayPlanMessage, transcript[0].Content)
	assert.Equal(t, KindDayPlan, transcript[1].Metadata.Kind)
}

func TestFixedActions_FailureContract(t *testing.T) {
	transport := &fakeTransport{err: &RequestError{Endpoint: EndpointPlanDay, Kind: ErrStatus, StatusCode: 500}}
	c, obs := newTestChatClient(transport)

	plan := c.RequestDayPlan(context.Background(), EnergyMedium, PersonalityCoach, nil)
	checkin := c.RequestMorningCheckin(context.Background(), EnergyMedium, PersonalityCoach, nil)

	assert.True(t, plan.Metadata.Error)
	assert.True(t, checkin.Metadata.Error)
	require.Len(t, obs.notices, 2)
	assert.Equal(t, noticeDayPlanFailed, obs.notices[0].Text)
	assert.Equal(t, noticeCheckinFailed, obs.notices[1].Text)
}

func TestCheckConnection(t *testing.T) {
	transport := &fakeTransport{}
	c, obs := newTestChatClient(transport)

	assert.True(t, c.CheckConnection(context.Background()))
	assert.True(t, c.Connected())

	transport.healthErr = &RequestError{Endpoint: EndpointHealth, Kind: ErrConnectivity}
	assert.False(t, c.CheckConnection(context.Background()))
	assert.False(t, c.Connected())

	assert.Equal(t, []bool{true, false}, obs.connected)
	require.Len(t, obs.notices, 2)
	assert.Equal(t, LevelSuccess, obs.notices[0].Level)
	assert.Equal(t, LevelError, obs.notices[1].Level)
}

func TestAddAndRemoveTask(t *testing.T) {
	c, obs := newTestChatClient(&fakeTransport{})

	task, ok := c.AddTask("Write report", tasks.PriorityHigh, 45)
	require.True(t, ok)
	assert.Len(t, c.Tasks(), 1)

	_, ok = c.AddTask("  ", tasks.PriorityHigh, 45)
	assert.False(t, ok)
	assert.Len(t, c.Tasks(), 1)

	assert.False(t, c.RemoveTask(task.ID+100))
	assert.Len(t, c.Tasks(), 1)

	assert.True(t, c.RemoveTask(task.ID))
	assert.Empty(t, c.Tasks())

	require.Len(t, obs.taskLists, 2)
	assert.Empty(t, obs.taskLists[1])
	require.Len(t, obs.notices, 2)
	assert.Equal(t, "Added task: Write report", obs.notices[0].Text)
	assert.Equal(t, noticeTaskCompleted, obs.notices[1].Text)
}

func TestRecordTokenUsage(t *testing.T) {
	c, obs := newTestChatClient(&fakeTransport{})

	assert.Equal(t, int64(5), c.RecordTokenUsage(5))
	assert.Equal(t, int64(12), c.RecordTokenUsage(7))
	assert.Equal(t, int64(12), c.RecordTokenUsage(0))
	assert.Equal(t, int64(12), c.RecordTokenUsage(-4))

	assert.Equal(t, []int64{5, 12}, obs.totals)
	assert.Equal(t, int64(12), c.Usage().ByOperation[ManualOperation].Tokens)
}

func TestClearTranscript_KeepsTokensAndTasks(t *testing.T) {
	transport := &fakeTransport{resp: &ChatResponse{Response: "ok", TokensUsed: intPtr(3)}}
	c, obs := newTestChatClient(transport)
	c.AddTask("a", tasks.PriorityLow, 5)
	c.SubmitChatMessage(context.Background(), "hi", EnergyMedium, PersonalityCoach, nil)

	c.ClearTranscript()

	transcript := c.Transcript()
	require.Len(t, transcript, 1)
	assert.Equal(t, KindWelcome, transcript[0].Metadata.Kind)
	assert.Equal(t, int64(3), c.TotalTokens())
	assert.Len(t, c.Tasks(), 1)
	assert.Equal(t, Notice{Level: LevelInfo, Text: noticeChatCleared}, obs.notices[len(obs.notices)-1])
}

func TestSeedSampleTasks(t *testing.T) {
	c, obs := newTestChatClient(&fakeTransport{})
	c.SeedSampleTasks()

	assert.Len(t, c.Tasks(), 3)
	require.Len(t, obs.taskLists, 1)

	task, ok := c.AddTask("fourth", tasks.PriorityLow, 10)
	require.True(t, ok)
	assert.Equal(t, 4, task.ID)
}

func TestSessionsAreIsolated(t *testing.T) {
	transport := &fakeTransport{resp: &ChatResponse{Response: "ok", TokensUsed: intPtr(10)}}
	a, _ := newTestChatClient(transport)
	b, _ := newTestChatClient(transport)

	a.AddTask("only in a", tasks.PriorityLow, 5)
	a.SubmitChatMessage(context.Background(), "hi", EnergyMedium, PersonalityCoach, nil)

	assert.Empty(t, b.Tasks())
	assert.Empty(t, b.Transcript())
	assert.Equal(t, int64(0), b.TotalTokens())
	assert.NotEqual(t, a.Session().ID, b.Session().ID)
}

func TestSessionReset(t *testing.T) {
	transport := &fakeTransport{resp: &ChatResponse{Response: "ok", TokensUsed: intPtr(10)}}
	c, _ := newTestChatClient(transport)
	c.CheckConnection(context.Background())
	c.AddTask("a", tasks.PriorityLow, 5)
	c.SubmitChatMessage(context.Background(), "hi", EnergyMedium, PersonalityCoach, nil)

	c.Session().Reset()

	assert.False(t, c.Connected())
	assert.Empty(t, c.Tasks())
	assert.Empty(t, c.Transcript())
	assert.Equal(t, int64(0), c.TotalTokens())
}
