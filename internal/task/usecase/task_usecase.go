package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"voice-journal/internal/task/domain"
	"voice-journal/internal/task/repository"
	"voice-journal/pkg/timeparse"
)

// taskUsecase implements TaskUsecase interface
type taskUsecase struct {
	taskRepo repository.TaskRepository
	location *time.Location
	clock    func() time.Time
}

// NewTaskUsecase creates a new instance of taskUsecase. Natural-language
// times are resolved in location (UTC when nil).
func NewTaskUsecase(taskRepo repository.TaskRepository, location *time.Location) TaskUsecase {
	if location == nil {
		location = time.UTC
	}
	return &taskUsecase{
		taskRepo: taskRepo,
		location: location,
		clock:    time.Now,
	}
}

func (u *taskUsecase) now() time.Time {
	return u.clock().In(u.location)
}

func (u *taskUsecase) CreateReminder(ctx context.Context, userID, description, when, goalID string) (*domain.Task, error) {
	ref := u.now()
	due, err := timeparse.ParseStrict(when, ref)
	if err != nil {
		due = timeparse.Parse(when, ref)
		log.Printf("[TaskUsecase] Could not parse %q for user %s, defaulting to %s", when, userID, due.Format(time.RFC3339))
	}
	return u.create(ctx, userID, description, goalID, &due, map[string]string{
		domain.MetadataTypeKey: domain.TypeReminder,
	})
}

func (u *taskUsecase) CreateTask(ctx context.Context, userID, description, when, goalID string) (*domain.Task, error) {
	var due *time.Time
	if strings.TrimSpace(when) != "" {
		t := timeparse.Parse(when, u.now())
		due = &t
	}
	return u.create(ctx, userID, description, goalID, due, nil)
}

func (u *taskUsecase) create(ctx context.Context, userID, description, goalID string, due *time.Time, metadata map[string]string) (*domain.Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyDescription
	}

	task := &domain.Task{
		UserID:      userID,
		Description: description,
		Status:      domain.TaskStatusOpen,
		DueAt:       due,
		GoalID:      goalID,
		Metadata:    metadata,
	}
	if _, err := u.taskRepo.Upsert(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (u *taskUsecase) GetTaskByID(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	task, err := u.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, ErrUnauthorized
	}
	return task, nil
}

func (u *taskUsecase) ListTasks(ctx context.Context, userID string, status *string, goalID string) ([]*domain.Task, error) {
	filter := domain.TaskFilter{UserID: userID, GoalID: goalID}
	if status != nil && *status != "" {
		s, err := domain.ParseStatus(*status)
		if err != nil {
			return nil, err
		}
		filter.Status = s
	}
	return u.taskRepo.Query(ctx, filter)
}

func (u *taskUsecase) UpdateStatus(ctx context.Context, userID, taskID, status string) (*domain.Task, error) {
	task, err := u.GetTaskByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	to, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	if task.Status == to {
		return task, nil
	}
	if err := task.Transition(to); err != nil {
		return nil, err
	}

	if _, err := u.taskRepo.Upsert(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}
