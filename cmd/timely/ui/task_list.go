package ui

import (
	"fmt"
	"strings"

	"timely/internal/tasks"
)

// RenderTaskList renders the task sidebar. width bounds each title.
func RenderTaskList(s Styles, list []tasks.Task, width int) string {
	var sb strings.Builder

	total := 0
	for _, t := range list {
		total += t.EstimatedDuration
	}
	sb.WriteString(s.Title.Render(fmt.Sprintf("Tasks (%d)", len(list))))
	sb.WriteString("\n")

	if len(list) == 0 {
		sb.WriteString(s.Muted.Render("No tasks yet.\n/add <title> to create one."))
		return sb.String()
	}

	for _, t := range list {
		title := t.Title
		if width > 12 {
			title = truncate(title, width-2)
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", s.Muted.Render(fmt.Sprintf("#%d", t.ID)), s.Bold.Render(title)))
		sb.WriteString(fmt.Sprintf("   %s %s\n", s.PriorityBadge(t.Priority), s.Muted.Render(fmt.Sprintf("%dm · %s", t.EstimatedDuration, t.Category))))
	}
	sb.WriteString(s.Muted.Render(fmt.Sprintf("Total: %s", FormatMinutes(total))))
	return sb.String()
}

// FormatMinutes renders a duration in minutes as "1h 30m".
func FormatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
