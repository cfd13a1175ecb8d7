// Package chat implements the interactive Timely terminal chat.
package chat

import (
	"context"
	"time"

	"timely/cmd/timely/ui"
	"timely/internal/assistant"
	"timely/internal/logging"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
)

const (
	headerHeight = 2 // header + divider
	footerHeight = 2 // divider + status line
	inputHeight  = 3
	sidebarWidth = 32
	minChatWidth = 40
)

// Config holds the interactive chat settings.
type Config struct {
	Energy          assistant.Energy
	Personality     assistant.Personality
	Theme           string
	DefaultDuration int
	ToastDuration   time.Duration
	ShowTasks       bool
}

// ViewMode selects what the body area shows.
type ViewMode int

const (
	ChatView ViewMode = iota
	UsageView
	HelpView
)

type (
	requestDoneMsg  struct{ action assistant.Action }
	toastExpiredMsg struct{ id int }
)

// SettingsMsg applies settings reloaded from the config file. Empty fields
// are left unchanged.
type SettingsMsg struct {
	Energy      assistant.Energy
	Personality assistant.Personality
	Theme       string
}

type toast struct {
	id     int
	notice assistant.Notice
}

// Model is the bubbletea model for the chat.
type Model struct {
	ctx      context.Context
	client   *assistant.ChatClient
	observer *Observer

	textarea  textarea.Model
	viewport  viewport.Model
	spinner   spinner.Model
	renderer  *glamour.TermRenderer
	styles    ui.Styles
	usagePage ui.UsagePageModel

	viewMode        ViewMode
	showTasks       bool
	energy          assistant.Energy
	personality     assistant.Personality
	defaultDuration int
	toastDuration   time.Duration
	toast           *toast
	toastSeq        int
	inFlight        map[assistant.Action]int
	suggestion      int

	width  int
	height int
	ready  bool
}

// New creates the chat model. observer must be the one the client was
// built with. ctx bounds every backend call made from the UI.
func New(ctx context.Context, client *assistant.ChatClient, observer *Observer, cfg Config) Model {
	if cfg.Energy == "" {
		cfg.Energy = assistant.DefaultEnergy
	}
	if cfg.Personality == "" {
		cfg.Personality = assistant.DefaultPersonality
	}
	if cfg.ToastDuration <= 0 {
		cfg.ToastDuration = 4 * time.Second
	}

	styles := ui.NewStyles(ui.ThemeByName(cfg.Theme))

	ta := textarea.New()
	ta.Placeholder = "Ask Timely anything, or /help"
	ta.ShowLineNumbers = false
	ta.CharLimit = 2000
	ta.SetWidth(80)
	ta.SetHeight(inputHeight)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	return Model{
		ctx:             ctx,
		client:          client,
		observer:        observer,
		textarea:        ta,
		viewport:        viewport.New(80, 20),
		spinner:         sp,
		styles:          styles,
		usagePage:       ui.NewUsagePageModel(client.Session().Usage(), styles),
		showTasks:       cfg.ShowTasks,
		energy:          cfg.Energy,
		personality:     cfg.Personality,
		defaultDuration: cfg.DefaultDuration,
		toastDuration:   cfg.ToastDuration,
		inFlight:        make(map[assistant.Action]int),
	}
}

// Init starts the cursor, spinner, event pump and first health probe.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		m.observer.wait(),
		m.checkConnection(),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case noticeMsg:
		cmd := m.showNotice(msg.notice)
		return m, tea.Batch(cmd, m.observer.wait())

	case connectionMsg, messageAddedMsg, tasksChangedMsg, tokensMsg, pendingMsg:
		m.refresh()
		return m, m.observer.wait()

	case requestDoneMsg:
		if m.inFlight[msg.action] > 0 {
			m.inFlight[msg.action]--
		}
		m.refresh()
		return m, nil

	case toastExpiredMsg:
		if m.toast != nil && m.toast.id == msg.id {
			m.toast = nil
		}
		return m, nil

	case SettingsMsg:
		m.applySettings(msg)
		return m.notify(assistant.Notice{Level: assistant.LevelInfo, Text: "Settings reloaded"})
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEsc:
		if m.viewMode != ChatView {
			m.viewMode = ChatView
		}
		return m, nil

	case tea.KeyEnter:
		if !msg.Alt {
			return m.submit()
		}

	case tea.KeyTab:
		if m.textarea.Value() == "" && len(assistant.QuickSuggestions) > 0 {
			m.textarea.SetValue(assistant.QuickSuggestions[m.suggestion%len(assistant.QuickSuggestions)])
			m.suggestion++
		}
		return m, nil

	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		if m.viewMode == UsageView {
			m.usagePage, cmd = m.usagePage.Update(msg)
		} else {
			m.viewport, cmd = m.viewport.Update(msg)
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// submit handles Enter. Chat text is held in the input while a reply is
// pending.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.textarea.Value()
	if cmd, ok := ParseCommand(text); ok {
		m.textarea.Reset()
		return m.handleCommand(cmd)
	}
	if !m.canSubmit() || isBlank(text) {
		return m, nil
	}
	text = unescapeChat(text)
	m.textarea.Reset()
	m.viewMode = ChatView

	client := m.client
	energy, personality, taskList := m.energy, m.personality, client.Tasks()
	return m, m.run(assistant.ActionChat, func(ctx context.Context) {
		client.SubmitChatMessage(ctx, text, energy, personality, taskList)
	})
}

func (m Model) requestCheckin() tea.Cmd {
	client := m.client
	energy, personality, taskList := m.energy, m.personality, client.Tasks()
	return m.run(assistant.ActionMorningCheckin, func(ctx context.Context) {
		client.RequestMorningCheckin(ctx, energy, personality, taskList)
	})
}

func (m Model) requestDayPlan() tea.Cmd {
	client := m.client
	energy, personality, taskList := m.energy, m.personality, client.Tasks()
	return m.run(assistant.ActionDayPlan, func(ctx context.Context) {
		client.RequestDayPlan(ctx, energy, personality, taskList)
	})
}

func (m Model) checkConnection() tea.Cmd {
	client := m.client
	return m.run(assistant.ActionHealth, func(ctx context.Context) {
		client.CheckConnection(ctx)
	})
}

// run marks action in flight and performs fn off the update loop.
func (m Model) run(action assistant.Action, fn func(ctx context.Context)) tea.Cmd {
	m.inFlight[action]++
	ctx := m.ctx
	return func() tea.Msg {
		fn(ctx)
		return requestDoneMsg{action: action}
	}
}

// canSubmit is false while any chat-style request is in flight.
func (m Model) canSubmit() bool {
	return m.inFlight[assistant.ActionChat] == 0 &&
		m.inFlight[assistant.ActionMorningCheckin] == 0 &&
		m.inFlight[assistant.ActionDayPlan] == 0
}

func (m Model) busy() bool {
	for _, n := range m.inFlight {
		if n > 0 {
			return true
		}
	}
	return false
}

// showNotice replaces the current toast and schedules its expiry.
func (m *Model) showNotice(n assistant.Notice) tea.Cmd {
	m.toastSeq++
	id := m.toastSeq
	m.toast = &toast{id: id, notice: n}
	return tea.Tick(m.toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (m Model) notify(n assistant.Notice) (tea.Model, tea.Cmd) {
	cmd := m.showNotice(n)
	return m, cmd
}

func (m *Model) applySettings(s SettingsMsg) {
	if e, ok := assistant.ParseEnergy(string(s.Energy)); ok {
		m.energy = e
	}
	if p, ok := assistant.ParsePersonality(string(s.Personality)); ok {
		m.personality = p
	}
	if s.Theme != "" {
		m.styles = ui.NewStyles(ui.ThemeByName(s.Theme))
		m.spinner.Style = m.styles.Spinner
		m.usagePage.SetStyles(m.styles)
		m.renderer = nil
		m.layout()
	}
	logging.Get(logging.CategoryUI).Debug("settings applied",
		zap.String("energy", string(m.energy)),
		zap.String("personality", string(m.personality)),
		zap.String("theme", m.styles.Theme.Name))
}

// layout sizes every component from the window size.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	bodyHeight := max(m.height-headerHeight-footerHeight-inputHeight, 1)
	chatWidth := max(m.width-m.sidebarWidth(), 1)

	m.viewport.Width = chatWidth
	m.viewport.Height = bodyHeight
	m.textarea.SetWidth(max(m.width-2, 1))
	m.usagePage.SetSize(m.width, bodyHeight)

	style := "light"
	if m.styles.Theme.IsDark {
		style = "dark"
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(chatWidth-4, 20)),
	)
	if err == nil {
		m.renderer = renderer
	}
	m.refresh()
}

func (m Model) sidebarWidth() int {
	if !m.showTasks || m.width < minChatWidth+sidebarWidth {
		return 0
	}
	return sidebarWidth
}

// refresh redraws the transcript from the session.
func (m *Model) refresh() {
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
	m.usagePage.UpdateContent()
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
