package repository

import (
	"context"
	"errors"

	"voice-journal/internal/task/domain"
)

// ErrTaskNotFound is returned by FindByID when no task has the given ID
var ErrTaskNotFound = errors.New("task not found")

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Upsert inserts the task, or replaces the stored record when its ID
	// already exists. An empty ID is assigned a new one. Returns the ID.
	Upsert(ctx context.Context, task *domain.Task) (string, error)

	// CompleteIfOpen moves the stored task to completed only while it is
	// still open. Reports false when the task is missing or already terminal.
	CompleteIfOpen(ctx context.Context, id string) (bool, error)

	// FindByID finds a task by its ID
	FindByID(ctx context.Context, id string) (*domain.Task, error)

	// Query returns tasks matching the filter. An empty UserID queries
	// across all users (used by the reminder scanner).
	Query(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error)
}
