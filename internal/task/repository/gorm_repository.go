package repository

import (
	"context"
	"errors"
	"time"

	"voice-journal/internal/task/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormTaskRepository implements TaskRepository using GORM
type gormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GORM-based TaskRepository
func NewGormTaskRepository(db *gorm.DB) (TaskRepository, error) {
	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		return nil, err
	}
	return &gormTaskRepository{db: db}, nil
}

// Upsert is a single INSERT ... ON CONFLICT (id) DO UPDATE, so concurrent
// writes of the same ID never produce two rows.
func (r *gormTaskRepository) Upsert(ctx context.Context, task *domain.Task) (string, error) {
	now := time.Now()
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	if task.Status == "" {
		task.Status = domain.TaskStatusOpen
	}
	task.UpdatedAt = now

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_id", "description", "status", "due_at", "goal_id", "metadata", "updated_at",
		}),
	}).Create(task).Error
	if err != nil {
		return "", err
	}
	return task.ID, nil
}

func (r *gormTaskRepository) CompleteIfOpen(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.Task{}).
		Where("id = ? AND status = ?", id, domain.TaskStatusOpen).
		Updates(map[string]interface{}{
			"status":     domain.TaskStatusCompleted,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *gormTaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	var task domain.Task
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *gormTaskRepository) Query(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	var tasks []*domain.Task

	query := r.db.WithContext(ctx).Model(&domain.Task{})
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.GoalID != "" {
		query = query.Where("goal_id = ?", filter.GoalID)
	}

	// Ordered by due_at (nulls last), then created_at
	err := query.Order("CASE WHEN due_at IS NULL THEN 1 ELSE 0 END, due_at ASC, created_at DESC").
		Find(&tasks).Error
	return tasks, err
}
