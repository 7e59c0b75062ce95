package delivery

import (
	"context"
	"errors"
	"net/http"

	authDelivery "voice-journal/internal/auth/delivery"
	"voice-journal/internal/task/domain"
	"voice-journal/internal/task/repository"
	"voice-journal/internal/task/usecase"

	"github.com/gin-gonic/gin"
)

// ReminderRunner triggers an out-of-band reminder scan
type ReminderRunner interface {
	RunOnce(ctx context.Context) (fired int, ran bool, err error)
}

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskUsecase usecase.TaskUsecase
	runner      ReminderRunner
}

// NewTaskHandler creates a new TaskHandler. runner may be nil, in which case
// manual scans are unavailable.
func NewTaskHandler(taskUsecase usecase.TaskUsecase, runner ReminderRunner) *TaskHandler {
	return &TaskHandler{
		taskUsecase: taskUsecase,
		runner:      runner,
	}
}

// CreateTaskRequest represents the request body for creating a task or reminder
type CreateTaskRequest struct {
	Description string `json:"description" binding:"required"`
	When        string `json:"when"`
	GoalID      string `json:"goal_id"`
}

// GetTasks returns the authenticated user's tasks
// GET /api/tasks?status=open&goal_id=...
func (h *TaskHandler) GetTasks(c *gin.Context) {
	userID := authDelivery.UserID(c)

	var statusPtr *string
	if status := c.Query("status"); status != "" {
		statusPtr = &status
	}

	tasks, err := h.taskUsecase.ListTasks(c.Request.Context(), userID, statusPtr, c.Query("goal_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"total": len(tasks),
	})
}

// GetTaskByID returns a specific task
// GET /api/tasks/:id
func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	task, err := h.taskUsecase.GetTaskByID(c.Request.Context(), authDelivery.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// CreateTask creates a task; "when" is optional
// POST /api/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskUsecase.CreateTask(c.Request.Context(), authDelivery.UserID(c), req.Description, req.When, req.GoalID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// CreateReminder creates a reminder from a natural-language time
// POST /api/tasks/reminders  {"description": "...", "when": "tomorrow at 6pm"}
func (h *TaskHandler) CreateReminder(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskUsecase.CreateReminder(c.Request.Context(), authDelivery.UserID(c), req.Description, req.When, req.GoalID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// UpdateTaskStatus moves a task through its lifecycle
// PATCH /api/tasks/:id/status
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskUsecase.UpdateStatus(c.Request.Context(), authDelivery.UserID(c), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// ScanReminders runs a reminder scan now
// POST /api/reminders/scan
func (h *TaskHandler) ScanReminders(c *gin.Context) {
	if h.runner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Reminder scheduler not running"})
		return
	}

	fired, ran, err := h.runner.RunOnce(c.Request.Context())
	if !ran {
		c.JSON(http.StatusConflict, gin.H{"error": "A scan is already in progress"})
		return
	}

	resp := gin.H{"fired": fired}
	if err != nil {
		resp["errors"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, usecase.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
	case errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidStatus), errors.Is(err, usecase.ErrEmptyDescription):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
