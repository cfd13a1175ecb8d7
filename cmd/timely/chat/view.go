package chat

import (
	"fmt"
	"strings"

	"timely/cmd/timely/ui"
	"timely/internal/assistant"

	"github.com/charmbracelet/lipgloss"
)

// renderHistory renders the session transcript.
func (m Model) renderHistory() string {
	var sb strings.Builder

	for _, msg := range m.client.Transcript() {
		switch msg.Role {
		case assistant.RoleUser:
			sb.WriteString(m.styles.UserLabel.Render("You") + "\n")
			sb.WriteString(m.styles.UserMessage.Render(msg.Content))
			sb.WriteString("\n\n")

		default:
			label := m.styles.AssistantLabel.Render("Timely")
			if meta := m.replyMeta(msg); meta != "" {
				label += " " + m.styles.Muted.Render(meta)
			}
			sb.WriteString(label + "\n")

			if msg.Metadata.Error {
				sb.WriteString(m.styles.ErrorReply.Render(msg.Content))
				sb.WriteString("\n\n")
				continue
			}
			sb.WriteString(m.safeRenderMarkdown(ui.NormalizeHTML(msg.Content)))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func (m Model) replyMeta(msg assistant.Message) string {
	md := msg.Metadata
	var parts []string
	if md.Tokens > 0 {
		parts = append(parts, fmt.Sprintf("%d tokens", md.Tokens))
	}
	if md.Fallback {
		parts = append(parts, "offline reply")
	}
	if !msg.At.IsZero() && md.Kind != assistant.KindWelcome {
		parts = append(parts, msg.At.Local().Format("15:04"))
	}
	return strings.Join(parts, " · ")
}

func (m Model) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			// glamour can panic on odd input; fall back to plain text
			result = content + "\n"
		}
	}()

	if m.renderer != nil && content != "" {
		rendered, err := m.renderer.Render(content)
		if err == nil {
			return rendered
		}
	}
	return m.styles.AssistantReply.Render(content) + "\n"
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var body string
	switch m.viewMode {
	case UsageView:
		body = m.usagePage.View()
	case HelpView:
		body = m.renderHelp()
	default:
		body = m.viewport.View()
		if w := m.sidebarWidth(); w > 0 {
			side := m.styles.Sidebar.
				Width(w - 2).
				Height(max(m.viewport.Height-2, 1)).
				Render(ui.RenderTaskList(m.styles, m.client.Tasks(), w-4))
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, side)
		}
	}

	divider := m.styles.RenderDivider(m.width)
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		divider,
		body,
		divider,
		m.textarea.View(),
		m.renderStatus(),
	)
}

func (m Model) renderHeader() string {
	parts := []string{
		"Timely",
		m.styles.ConnectionDot(m.client.Connected()),
		fmt.Sprintf("energy %s %s", ui.EnergyIcon(m.energy), m.energy),
		fmt.Sprintf("mode %s", m.personality),
		fmt.Sprintf("tokens %d", m.client.TotalTokens()),
	}
	if !m.showTasks {
		parts = append(parts, fmt.Sprintf("tasks %d", len(m.client.Tasks())))
	}
	return m.styles.Header.Width(m.width).Render(strings.Join(parts, "  │  "))
}

func (m Model) renderStatus() string {
	var parts []string
	if !m.canSubmit() {
		parts = append(parts, m.spinner.View()+" Timely is thinking...")
	} else if m.busy() {
		parts = append(parts, m.spinner.View()+" checking backend...")
	}
	if m.toast != nil {
		parts = append(parts, m.styles.Notice(m.toast.notice))
	}
	if len(parts) == 0 {
		return m.styles.Footer.Render("Enter send · Alt+Enter newline · Tab suggestion · /help")
	}
	return m.styles.Footer.Render(strings.Join(parts, "   "))
}

func (m Model) renderHelp() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Commands"))
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.Body.Render(helpText))
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.Title.Render("Try asking"))
	sb.WriteString("\n")
	for _, s := range assistant.QuickSuggestions {
		sb.WriteString(m.styles.Muted.Render("  " + s))
		sb.WriteString("\n")
	}
	return sb.String()
}
