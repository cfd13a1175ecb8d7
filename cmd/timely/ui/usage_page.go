package ui

import (
	"fmt"
	"sort"
	"strings"

	"timely/internal/usage"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

// UsagePageModel renders the session's token usage.
type UsagePageModel struct {
	viewport viewport.Model
	tracker  *usage.Tracker
	styles   Styles
	width    int
	height   int
}

// NewUsagePageModel creates a new usage page component.
func NewUsagePageModel(tracker *usage.Tracker, styles Styles) UsagePageModel {
	return UsagePageModel{
		viewport: viewport.New(60, 12),
		tracker:  tracker,
		styles:   styles,
	}
}

// SetSize updates the size of the viewport.
func (m *UsagePageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = w
	m.viewport.Height = max(h-2, 1)
	m.UpdateContent()
}

// SetStyles swaps styles after a theme change.
func (m *UsagePageModel) SetStyles(s Styles) {
	m.styles = s
	m.UpdateContent()
}

// UpdateContent refreshes the viewport from the tracker.
func (m *UsagePageModel) UpdateContent() {
	m.viewport.SetContent(RenderUsage(m.styles, m.tracker))
}

// RenderUsage renders the totals and per-endpoint table.
func RenderUsage(s Styles, tracker *usage.Tracker) string {
	if tracker == nil {
		return "Usage tracking not available."
	}

	stats := tracker.Stats()

	var sb strings.Builder
	sb.WriteString(s.Title.Render("Token Usage"))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Requests:     %d\n", stats.Total.Requests))
	sb.WriteString(fmt.Sprintf("Total tokens: %d\n", stats.Total.Tokens))

	if len(stats.ByOperation) == 0 {
		sb.WriteString("\n")
		sb.WriteString(s.Muted.Render("No replies with token counts yet."))
		return sb.String()
	}

	keys := make([]string, 0, len(stats.ByOperation))
	for k := range stats.ByOperation {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%-22s | %-8s | %-8s\n", "Endpoint", "Requests", "Tokens"))
	sb.WriteString(strings.Repeat("-", 44) + "\n")
	for _, k := range keys {
		c := stats.ByOperation[k]
		sb.WriteString(fmt.Sprintf("%-22s | %-8d | %-8d\n", truncate(k, 22), c.Requests, c.Tokens))
	}
	return sb.String()
}

// truncate cuts s to at most width terminal cells, ending in "...".
func truncate(s string, width int) string {
	return ansi.Truncate(s, width, "...")
}

// Update handles scrolling.
func (m UsagePageModel) Update(msg tea.Msg) (UsagePageModel, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the page.
func (m UsagePageModel) View() string {
	return m.viewport.View()
}
