// Package tasks holds the volatile task list of a Timely session.
package tasks

import "strings"

// Priority ranks a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

const (
	// DefaultDuration is the estimate used when none (or a non-positive one) is given.
	DefaultDuration = 30
	// DefaultCategory is assigned to tasks created from user input.
	DefaultCategory = "general"
)

// Priorities returns every priority, lowest first.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
}

// ParsePriority maps user input onto a Priority. ok is false for unknown input.
func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return p, true
	}
	return "", false
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	_, ok := ParsePriority(string(p))
	return ok
}

// Task is a single to-do item. Field names follow the backend wire format.
type Task struct {
	ID                int      `json:"id"`
	Title             string   `json:"title"`
	Priority          Priority `json:"priority"`
	EstimatedDuration int      `json:"estimated_duration"`
	Category          string   `json:"category"`
}

// SampleTasks returns the starter tasks shown on first launch.
func SampleTasks() []Task {
	return []Task{
		{ID: 1, Title: "Review project proposal", Priority: PriorityHigh, EstimatedDuration: 45, Category: "work"},
		{ID: 2, Title: "Check emails", Priority: PriorityMedium, EstimatedDuration: 15, Category: "admin"},
		{ID: 3, Title: "Team meeting prep", Priority: PriorityHigh, EstimatedDuration: 30, Category: "work"},
	}
}
