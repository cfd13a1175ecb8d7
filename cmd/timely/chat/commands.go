package chat

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"timely/internal/assistant"
	"timely/internal/logging"
	"timely/internal/tasks"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Command is a parsed slash command.
type Command struct {
	Name string // lowercased, without the slash
	Args []string
}

// ParseCommand splits "/name arg..." input. ok is false for plain chat text,
// including text escaped with a leading "//".
func ParseCommand(input string) (Command, bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") || strings.HasPrefix(input, "//") || len(input) == 1 {
		return Command{}, false
	}
	fields := strings.Fields(input[1:])
	if len(fields) == 0 {
		return Command{}, false
	}
	return Command{Name: strings.ToLower(fields[0]), Args: fields[1:]}, true
}

// unescapeChat turns "//text" into "/text" so slash-led text can be sent.
func unescapeChat(input string) string {
	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, "//") {
		return trimmed[1:]
	}
	return input
}

var errAddUsage = errors.New("usage: /add [priority] [minutes] <title>")

// parseAddArgs reads "[priority] [minutes] <title>". Only leading tokens are
// consumed, so numbers later in the title are kept.
func parseAddArgs(args []string, defaultDuration int) (string, tasks.Priority, int, error) {
	priority := tasks.PriorityMedium
	minutes := defaultDuration

	if len(args) > 0 {
		if p, ok := tasks.ParsePriority(args[0]); ok {
			priority = p
			args = args[1:]
		}
	}
	if len(args) > 0 {
		if n, ok := parseMinutes(args[0]); ok {
			minutes = n
			args = args[1:]
		}
	}

	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return "", "", 0, errAddUsage
	}
	return title, priority, minutes, nil
}

// parseMinutes accepts "45", "45m" and "45min".
func parseMinutes(s string) (int, bool) {
	s = strings.TrimSuffix(strings.TrimSuffix(strings.ToLower(s), "min"), "m")
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

const helpText = `/add [priority] [minutes] <title>   add a task (priority: low, medium, high, urgent)
/done <id>                          complete a task
/tasks                              show or hide the task list
/checkin                            morning check-in
/plan                               plan my day
/energy <low|medium|high>           set your energy level
/mode <coach|friend|strict|zen>     set the coaching personality
/usage                              token usage by endpoint
/health                             probe the backend
/clear                              clear the chat
/quit                               exit
//text                              send "/text" as a chat message

Enter sends, Alt+Enter inserts a newline, Tab cycles suggestions, Esc closes this page.`

// handleCommand executes a slash command.
func (m Model) handleCommand(cmd Command) (tea.Model, tea.Cmd) {
	logging.Get(logging.CategoryUI).Debug("command", zap.String("name", cmd.Name), zap.Strings("args", cmd.Args))

	switch cmd.Name {
	case "quit", "exit", "q":
		return m, tea.Quit

	case "help", "?":
		m.viewMode = HelpView
		return m, nil

	case "add":
		title, priority, minutes, err := parseAddArgs(cmd.Args, m.defaultDuration)
		if err != nil {
			return m.notify(assistant.Notice{Level: assistant.LevelWarning, Text: err.Error()})
		}
		m.client.AddTask(title, priority, minutes)
		m.showTasks = true
		m.layout()
		return m, nil

	case "done":
		if len(cmd.Args) != 1 {
			return m.notify(assistant.Notice{Level: assistant.LevelWarning, Text: "usage: /done <id>"})
		}
		id, err := strconv.Atoi(strings.TrimPrefix(cmd.Args[0], "#"))
		if err != nil {
			return m.notify(assistant.Notice{Level: assistant.LevelWarning, Text: "usage: /done <id>"})
		}
		if !m.client.RemoveTask(id) {
			return m.notify(assistant.Notice{Level: assistant.LevelWarning, Text: fmt.Sprintf("No task #%d", id)})
		}
		return m, nil

	case "tasks":
		m.showTasks = !m.showTasks
		m.viewMode = ChatView
		m.layout()
		return m, nil

	case "checkin":
		if len(cmd.Args) > 0 {
			return m.notify(fixedPromptNotice(cmd.Name))
		}
		if !m.canSubmit() {
			return m.notify(busyNotice)
		}
		return m, m.requestCheckin()

	case "plan":
		if len(cmd.Args) > 0 {
			return m.notify(fixedPromptNotice(cmd.Name))
		}
		if !m.canSubmit() {
			return m.notify(busyNotice)
		}
		return m, m.requestDayPlan()

	case "clear":
		m.client.ClearTranscript()
		m.viewMode = ChatView
		m.refresh()
		return m, nil

	case "energy":
		if len(cmd.Args) == 0 {
			return m.notify(assistant.Notice{Level: assistant.LevelInfo,
				Text: fmt.Sprintf("Energy: %s (%s)", m.energy, joinEnergies())})
		}
		e, ok := assistant.ParseEnergy(cmd.Args[0])
		if !ok {
			return m.notify(assistant.Notice{Level: assistant.LevelWarning,
				Text: fmt.Sprintf("Unknown energy %q (%s)", cmd.Args[0], joinEnergies())})
		}
		m.energy = e
		return m.notify(assistant.Notice{Level: assistant.LevelInfo, Text: "Energy set to " + string(e)})

	case "mode":
		if len(cmd.Args) == 0 {
			return m.notify(assistant.Notice{Level: assistant.LevelInfo,
				Text: fmt.Sprintf("Mode: %s (%s)", m.personality, joinPersonalities())})
		}
		p, ok := assistant.ParsePersonality(cmd.Args[0])
		if !ok {
			return m.notify(assistant.Notice{Level: assistant.LevelWarning,
				Text: fmt.Sprintf("Unknown mode %q (%s)", cmd.Args[0], joinPersonalities())})
		}
		m.personality = p
		return m.notify(assistant.Notice{Level: assistant.LevelInfo, Text: "Mode set to " + string(p)})

	case "usage":
		if m.viewMode == UsageView {
			m.viewMode = ChatView
		} else {
			m.usagePage.UpdateContent()
			m.viewMode = UsageView
		}
		return m, nil

	case "health":
		return m, m.checkConnection()

	default:
		return m.notify(assistant.Notice{Level: assistant.LevelWarning,
			Text: fmt.Sprintf("Unknown command /%s (try /help)", cmd.Name)})
	}
}

// fixedPromptNotice explains that /checkin and /plan send a fixed prompt.
func fixedPromptNotice(name string) assistant.Notice {
	return assistant.Notice{Level: assistant.LevelWarning,
		Text: fmt.Sprintf("/%s takes no arguments; type your request as a chat message", name)}
}

var busyNotice = assistant.Notice{Level: assistant.LevelWarning, Text: "Still waiting for the last reply"}

func joinEnergies() string {
	names := make([]string, 0, len(assistant.Energies()))
	for _, e := range assistant.Energies() {
		names = append(names, string(e))
	}
	return strings.Join(names, ", ")
}

func joinPersonalities() string {
	names := make([]string, 0, len(assistant.Personalities()))
	for _, p := range assistant.Personalities() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}
