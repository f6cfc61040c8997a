package models

import (
	"strings"

	"github.com/google/uuid"
)

// ColumnID identifies a column and doubles as the status key tasks reference.
type ColumnID string

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority normalizes a priority string, falling back to medium.
func ParsePriority(s string) Priority {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p
	default:
		return PriorityMedium
	}
}

// Position is a free-form graph layout coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Task struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Status       ColumnID  `json:"status"`
	Priority     Priority  `json:"priority"`
	Dependencies []string  `json:"dependencies,omitempty"`
	Position     *Position `json:"position,omitempty"`
	DueDate      string    `json:"dueDate,omitempty"`
}

// NewTask returns an untitled task in the given column with a fresh id.
func NewTask(status ColumnID, priority Priority) Task {
	if priority == "" {
		priority = PriorityMedium
	}
	return Task{
		ID:       uuid.NewString(),
		Status:   status,
		Priority: priority,
	}
}

// HasTitle reports whether title is non-empty once trimmed.
func HasTitle(title string) bool {
	return strings.TrimSpace(title) != ""
}

// Clone returns a copy that shares no slices or pointers with t.
func (t Task) Clone() Task {
	c := t
	if t.Dependencies != nil {
		c.Dependencies = append([]string(nil), t.Dependencies...)
	}
	if t.Position != nil {
		p := *t.Position
		c.Position = &p
	}
	return c
}

// CloneTasks deep-copies a task list.
func CloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
