package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"voice-journal/internal/task/domain"
	"voice-journal/internal/task/repository"
)

var (
	// ErrNotify wraps a failed delivery. The task stays open and is retried
	// on the next scan.
	ErrNotify = errors.New("reminder notification failed")
	// ErrStoreWrite wraps a failed status write after a successful delivery.
	// The task stays open and will be delivered again on the next scan.
	ErrStoreWrite = errors.New("reminder status write failed")
)

// Notifier delivers a text message to a user
type Notifier interface {
	Send(ctx context.Context, userID, text string) error
}

// Scanner fires due reminders. A task is due when it is open and its DueAt is
// at or before the scan time, however long ago that was.
type Scanner struct {
	taskRepo repository.TaskRepository
	notifier Notifier
}

// NewScanner creates a Scanner
func NewScanner(taskRepo repository.TaskRepository, notifier Notifier) *Scanner {
	return &Scanner{
		taskRepo: taskRepo,
		notifier: notifier,
	}
}

// Scan sweeps open tasks of all users and fires every due one: notify, then
// persist status completed. Each task is handled independently; failures are
// logged, collected and returned joined after the sweep. The count is the
// number of reminders delivered.
func (s *Scanner) Scan(ctx context.Context, now time.Time) (int, error) {
	tasks, err := s.taskRepo.Query(ctx, domain.TaskFilter{Status: domain.TaskStatusOpen})
	if err != nil {
		return 0, fmt.Errorf("query open tasks: %w", err)
	}

	var (
		fired int
		errs  []error
	)
	for _, task := range tasks {
		if !task.IsDue(now) {
			continue
		}
		delivered, err := s.fire(ctx, task)
		if delivered {
			fired++
		}
		if err != nil {
			log.Printf("[ReminderScanner] %v", err)
			errs = append(errs, err)
		}
	}

	if fired > 0 {
		log.Printf("[ReminderScanner] Fired %d reminders", fired)
	}
	return fired, errors.Join(errs...)
}

// fire handles a single due task. It reports whether the user was notified,
// even when the follow-up status write failed. A panicking notifier counts
// as a failed delivery.
func (s *Scanner) fire(ctx context.Context, task *domain.Task) (delivered bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			delivered, err = false, fmt.Errorf("%w: task %s user %s: panic: %v", ErrNotify, task.ID, task.UserID, r)
		}
	}()

	if err := s.notifier.Send(ctx, task.UserID, FormatReminder(task)); err != nil {
		return false, fmt.Errorf("%w: task %s user %s: %v", ErrNotify, task.ID, task.UserID, err)
	}

	// Conditional write: a task archived or completed since the query keeps
	// its terminal status.
	completed, err := s.taskRepo.CompleteIfOpen(ctx, task.ID)
	if err != nil {
		return true, fmt.Errorf("%w: task %s: %v", ErrStoreWrite, task.ID, err)
	}
	if !completed {
		log.Printf("[ReminderScanner] Task %s left open state during delivery, status kept", task.ID)
	}
	return true, nil
}

// FormatReminder renders the message delivered when a task fires
func FormatReminder(task *domain.Task) string {
	return "⏰ Reminder: " + task.Description
}
