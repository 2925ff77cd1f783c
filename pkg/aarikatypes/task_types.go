package aarikatypes

import (
	"strings"
	"time"
)

// TaskStatus is the lifecycle state of a to-do item.
type TaskStatus string

// TaskPriority ranks a to-do item on the board.
type TaskPriority string

const (
	// StatusPending marks a task that still needs doing.
	StatusPending TaskStatus = "pending"
	// StatusCompleted marks a finished task.
	StatusCompleted TaskStatus = "completed"
)

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// DefaultPriority is applied when a task is added without a priority.
const DefaultPriority = PriorityMedium

// Task is a single item on the to-do board.
type Task struct {
	ID        string       `json:"id" yaml:"id"`
	Title     string       `json:"title" yaml:"title"`
	Status    TaskStatus   `json:"status" yaml:"status"`
	Priority  TaskPriority `json:"priority" yaml:"priority"`
	CreatedAt time.Time    `json:"created_at" yaml:"created_at"`
}

// IsCompleted reports whether the task has been marked done.
func (t Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// Summary returns the fields the model sees when it lists the board.
func (t Task) Summary() map[string]any {
	return map[string]any{
		"id":       t.ID,
		"title":    t.Title,
		"status":   string(t.Status),
		"priority": string(t.Priority),
	}
}

// ParsePriority normalises a priority name. The empty string maps to
// DefaultPriority; anything outside low/medium/high is rejected.
func ParsePriority(s string) (TaskPriority, bool) {
	switch TaskPriority(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultPriority, true
	case PriorityLow:
		return PriorityLow, true
	case PriorityMedium:
		return PriorityMedium, true
	case PriorityHigh:
		return PriorityHigh, true
	default:
		return "", false
	}
}

// Priorities lists the accepted priority values in ascending order.
func Priorities() []TaskPriority {
	return []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh}
}
