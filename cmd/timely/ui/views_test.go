package ui

import (
	"strings"
	"testing"
	"unicode/utf8"

	"timely/internal/tasks"
	"timely/internal/usage"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "Start with **Write report**.", "Start with **Write report**."},
		{"strong and br", "Focus on <strong>Write report</strong> first.<br>Then rest.", "Focus on **Write report** first.\nThen rest."},
		{"em and b", "<em>Gently</em> start with <b>email</b>", "*Gently* start with **email**"},
		{"paragraphs", "<p>one</p><p>two</p>", "one\n\ntwo"},
		{"list", "Plan:<ul><li>a</li><li>b</li></ul>", "Plan:\n- a\n- b"},
		{"entities", "Tom &amp; Jerry <b>x</b>", "Tom & Jerry **x**"},
		{"script dropped", "hi<script>alert(1)</script>", "hi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeHTML(tt.in))
		})
	}
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "45m", FormatMinutes(45))
	assert.Equal(t, "2h", FormatMinutes(120))
	assert.Equal(t, "1h 30m", FormatMinutes(90))
}

func TestRenderTaskList(t *testing.T) {
	s := NewStyles(LightTheme())

	empty := RenderTaskList(s, nil, 30)
	assert.Contains(t, empty, "Tasks (0)")
	assert.Contains(t, empty, "No tasks yet")

	out := RenderTaskList(s, tasks.SampleTasks(), 30)
	assert.Contains(t, out, "Tasks (3)")
	assert.Contains(t, out, "#1")
	assert.Contains(t, out, "high")
	assert.Contains(t, out, "Total: 1h 30m")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Write report", truncate("Write report", 20))
	assert.Equal(t, "Write re...", truncate("Write report", 11))

	accented := truncate(strings.Repeat("é", 20), 18)
	assert.True(t, utf8.ValidString(accented))
	assert.Equal(t, strings.Repeat("é", 15)+"...", accented)

	wide := truncate("日本語のタスクを書く", 10)
	assert.True(t, utf8.ValidString(wide))
	assert.LessOrEqual(t, ansi.StringWidth(wide), 10)
}

func TestRenderTaskList_MultibyteTitle(t *testing.T) {
	s := NewStyles(LightTheme())
	list := []tasks.Task{{ID: 1, Title: strings.Repeat("é", 20), Priority: tasks.PriorityLow, EstimatedDuration: 10}}

	out := RenderTaskList(s, list, 20)
	assert.True(t, utf8.ValidString(out))
	assert.Contains(t, out, strings.Repeat("é", 15)+"...")
}

func TestRenderUsage(t *testing.T) {
	s := NewStyles(LightTheme())

	assert.Equal(t, "Usage tracking not available.", RenderUsage(s, nil))

	tracker := usage.NewTracker()
	assert.Contains(t, RenderUsage(s, tracker), "No replies with token counts yet.")

	tracker.Record("/chat/plan-day", 42)
	tracker.Record("/chat/next-task", 8)
	out := RenderUsage(s, tracker)
	assert.Contains(t, out, "Total tokens: 50")
	assert.Contains(t, out, "/chat/plan-day")
	assert.Less(t, strings.Index(out, "/chat/next-task"), strings.Index(out, "/chat/plan-day"))
}

func TestUsagePageModel(t *testing.T) {
	tracker := usage.NewTracker()
	tracker.Record("manual", 5)

	m := NewUsagePageModel(tracker, NewStyles(DarkTheme()))
	m.SetSize(60, 12)
	assert.Contains(t, m.View(), "Total tokens: 5")
}
