package domain

import (
	"errors"
	"fmt"
	"time"
)

// TaskStatus represents the current state of a task
type TaskStatus string

const (
	TaskStatusOpen      TaskStatus = "open"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusArchived  TaskStatus = "archived"
)

// MetadataTypeKey marks what kind of record a task is ("reminder", "goal_step", ...)
const MetadataTypeKey = "type"

// TypeReminder is the MetadataTypeKey value for reminders
const TypeReminder = "reminder"

var (
	ErrInvalidStatus     = errors.New("invalid task status")
	ErrInvalidTransition = errors.New("invalid task status transition")
)

// Task is a to-do item or reminder owned by a single user.
// A reminder is simply a task with a DueAt and a "type: reminder" marker.
type Task struct {
	ID          string            `json:"id" gorm:"primaryKey"`
	UserID      string            `json:"user_id" gorm:"index;not null"`
	Description string            `json:"description" gorm:"not null"`
	Status      TaskStatus        `json:"status" gorm:"index;default:open"`
	DueAt       *time.Time        `json:"due_at,omitempty" gorm:"index"`
	GoalID      string            `json:"goal_id,omitempty" gorm:"index"`
	Metadata    map[string]string `json:"metadata,omitempty" gorm:"serializer:json;type:jsonb"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// TaskFilter narrows a task query. Empty fields match everything; an empty
// UserID makes the query global.
type TaskFilter struct {
	UserID string
	Status TaskStatus
	GoalID string
}

// Matches reports whether t satisfies every non-empty field of f
func (f TaskFilter) Matches(t *Task) bool {
	if f.UserID != "" && t.UserID != f.UserID {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.GoalID != "" && t.GoalID != f.GoalID {
		return false
	}
	return true
}

// ParseStatus validates a raw status string
func ParseStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case TaskStatusOpen, TaskStatusCompleted, TaskStatusArchived:
		return TaskStatus(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// IsTerminal reports whether no transition may leave s
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusArchived
}

// IsDue reports whether the task should fire at now: open, with a due time
// at or before now. Tasks without DueAt are never due.
func (t *Task) IsDue(now time.Time) bool {
	return t.Status == TaskStatusOpen && t.DueAt != nil && !t.DueAt.After(now)
}

// IsReminder reports whether the task carries the reminder marker
func (t *Task) IsReminder() bool {
	return t.Metadata[MetadataTypeKey] == TypeReminder
}

// Transition moves the task to status to. Only open -> completed and
// open -> archived are allowed; setting the current status again is a no-op.
func (t *Task) Transition(to TaskStatus) error {
	if _, err := ParseStatus(string(to)); err != nil {
		return err
	}
	if t.Status == to {
		return nil
	}
	if t.Status != TaskStatusOpen || to == TaskStatusOpen {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.Status, to)
	}
	t.Status = to
	return nil
}
