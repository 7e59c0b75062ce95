package usecase

import (
	"context"
	"errors"

	"voice-journal/internal/task/domain"
)

var (
	ErrEmptyDescription = errors.New("description is required")
	ErrUnauthorized     = errors.New("unauthorized")
)

// TaskUsecase defines the interface for task business logic. These are the
// operations the journal agent exposes as tools.
type TaskUsecase interface {
	// CreateReminder resolves a natural-language "when" against the current
	// time and stores an open reminder due then
	CreateReminder(ctx context.Context, userID, description, when, goalID string) (*domain.Task, error)

	// CreateTask stores an open task; an empty "when" leaves it without a due time
	CreateTask(ctx context.Context, userID, description, when, goalID string) (*domain.Task, error)

	// GetTaskByID retrieves a task by ID (with ownership check)
	GetTaskByID(ctx context.Context, userID, taskID string) (*domain.Task, error)

	// ListTasks retrieves a user's tasks with optional status and goal filters
	ListTasks(ctx context.Context, userID string, status *string, goalID string) ([]*domain.Task, error)

	// UpdateStatus applies a lifecycle transition requested by the user
	UpdateStatus(ctx context.Context, userID, taskID, status string) (*domain.Task, error)
}
