package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"voice-journal/internal/task/domain"

	"github.com/google/uuid"
)

// memoryTaskRepository keeps tasks in process memory. Used when no database
// is configured and as the store in tests.
type memoryTaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]*domain.Task
}

// NewMemoryTaskRepository creates an empty in-memory TaskRepository
func NewMemoryTaskRepository() TaskRepository {
	return &memoryTaskRepository{
		tasks: make(map[string]*domain.Task),
	}
}

func (r *memoryTaskRepository) Upsert(_ context.Context, task *domain.Task) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.Status == "" {
		task.Status = domain.TaskStatusOpen
	}
	if existing, ok := r.tasks[task.ID]; ok {
		task.CreatedAt = existing.CreatedAt
	} else if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now

	r.tasks[task.ID] = copyTask(task)
	return task.ID, nil
}

func (r *memoryTaskRepository) CompleteIfOpen(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok || task.Status != domain.TaskStatusOpen {
		return false, nil
	}
	task.Status = domain.TaskStatusCompleted
	task.UpdatedAt = time.Now()
	return true, nil
}

func (r *memoryTaskRepository) FindByID(_ context.Context, id string) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	return copyTask(task), nil
}

func (r *memoryTaskRepository) Query(_ context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var tasks []*domain.Task
	for _, task := range r.tasks {
		if filter.Matches(task) {
			tasks = append(tasks, copyTask(task))
		}
	}

	// Same ordering as the SQL store: due_at ascending with nulls last,
	// then newest first.
	sort.Slice(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		switch {
		case a.DueAt == nil && b.DueAt != nil:
			return false
		case a.DueAt != nil && b.DueAt == nil:
			return true
		case a.DueAt != nil && !a.DueAt.Equal(*b.DueAt):
			return a.DueAt.Before(*b.DueAt)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return tasks, nil
}

// copyTask detaches stored records from caller-owned pointers
func copyTask(t *domain.Task) *domain.Task {
	cp := *t
	if t.DueAt != nil {
		due := *t.DueAt
		cp.DueAt = &due
	}
	if t.Metadata != nil {
		cp.Metadata = make(map[string]string, len(t.Metadata))
		for k, v := range t.Metadata {
			cp.Metadata[k] = v
		}
	}
	return &cp
}
