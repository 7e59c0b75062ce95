package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"voice-journal/internal/task/domain"
	"voice-journal/internal/task/repository"
)

// --- Fakes ---

type sentMessage struct {
	userID string
	text   string
}

type fakeNotifier struct {
	mu      sync.Mutex
	sent    []sentMessage
	failFor map[string]bool
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{failFor: make(map[string]bool)}
}

func (n *fakeNotifier) Send(_ context.Context, userID, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failFor[userID] {
		return errors.New("chat unreachable")
	}
	n.sent = append(n.sent, sentMessage{userID: userID, text: text})
	return nil
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

// failingWrites rejects writes of the listed task IDs
type failingWrites struct {
	repository.TaskRepository
	failIDs map[string]bool
}

func (r *failingWrites) CompleteIfOpen(ctx context.Context, id string) (bool, error) {
	if r.failIDs[id] {
		return false, errors.New("connection reset")
	}
	return r.TaskRepository.CompleteIfOpen(ctx, id)
}

// archivingNotifier archives the task it is asked to deliver, the way a user
// acting between the scan's query and its write would.
type archivingNotifier struct {
	repo   repository.TaskRepository
	taskID string
}

func (n *archivingNotifier) Send(ctx context.Context, _, _ string) error {
	task, err := n.repo.FindByID(ctx, n.taskID)
	if err != nil {
		return err
	}
	task.Status = domain.TaskStatusArchived
	_, err = n.repo.Upsert(ctx, task)
	return err
}

type panickingNotifier struct{}

func (panickingNotifier) Send(context.Context, string, string) error {
	panic("channel exploded")
}

var scanTime = time.Date(2026, 10, 13, 14, 0, 0, 0, time.UTC)

func seedTask(t *testing.T, repo repository.TaskRepository, id, userID string, due *time.Time) {
	t.Helper()
	_, err := repo.Upsert(context.Background(), &domain.Task{
		ID:          id,
		UserID:      userID,
		Description: "task " + id,
		Status:      domain.TaskStatusOpen,
		DueAt:       due,
		Metadata:    map[string]string{domain.MetadataTypeKey: domain.TypeReminder},
	})
	if err != nil {
		t.Fatalf("seed %s: %v", id, err)
	}
}

func at(d time.Duration) *time.Time {
	t := scanTime.Add(d)
	return &t
}

func status(t *testing.T, repo repository.TaskRepository, id string) domain.TaskStatus {
	t.Helper()
	task, err := repo.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("find %s: %v", id, err)
	}
	return task.Status
}

// --- Tests ---

func TestScanFiresOnlyDueTasks(t *testing.T) {
	repo := repository.NewMemoryTaskRepository()
	notifier := newFakeNotifier()
	seedTask(t, repo, "hour-ago", "1", at(-time.Hour))
	seedTask(t, repo, "in-an-hour", "1", at(time.Hour))
	seedTask(t, repo, "ten-days-ago", "2", at(-10*24*time.Hour))
	seedTask(t, repo, "no-due", "1", nil)

	fired, err := NewScanner(repo, notifier).Scan(context.Background(), scanTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fired != 2 {
		t.Fatalf("expected 2 reminders fired, got %d", fired)
	}
	if notifier.count() != 2 {
		t.Fatalf("expected 2 notifications, got %d", notifier.count())
	}

	if s := status(t, repo, "hour-ago"); s != domain.TaskStatusCompleted {
		t.Errorf("hour-ago: expected completed, got %s", s)
	}
	if s := status(t, repo, "ten-days-ago"); s != domain.TaskStatusCompleted {
		t.Errorf("ten-days-ago: expected completed, got %s", s)
	}
	if s := status(t, repo, "in-an-hour"); s != domain.TaskStatusOpen {
		t.Errorf("in-an-hour: expected open, got %s", s)
	}
	if s := status(t, repo, "no-due"); s != domain.TaskStatusOpen {
		t.Errorf("no-due: expected open, got %s", s)
	}
}

func TestScanMessageCarriesDescription(t *testing.T) {
	repo := repository.NewMemoryTaskRepository()
	notifier := newFakeNotifier()
	seedTask(t, repo, "t1", "42", at(-time.Minute))

	if _, err := NewScanner(repo, notifier).Scan(context.Background(), scanTime); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(notifier.sent))
	}
	msg := notifier.sent[0]
	if msg.userID != "42" || msg.text != "⏰ Reminder: task t1" {
		t.Errorf("unexpected message %+v", msg)
	}
}

func TestScanDoesNotRenotifyCompletedTask(t *testing.T) {
	repo := repository.NewMemoryTaskRepository()
	notifier := newFakeNotifier()
	seedTask(t, repo, "t1", "1", at(-time.Minute))
	scanner := NewScanner(repo, notifier)

	if _, err := scanner.Scan(context.Background(), scanTime); err != nil {
		t.Fatalf("first scan: %v", err)
	}
	fired, err := scanner.Scan(context.Background(), scanTime.Add(time.Hour))
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if fired != 0 || notifier.count() != 1 {
		t.Errorf("expected no re-notification, got fired=%d total=%d", fired, notifier.count())
	}
}

func TestScanNotifyFailureIsIsolated(t *testing.T) {
	repo := repository.NewMemoryTaskRepository()
	notifier := newFakeNotifier()
	notifier.failFor["bad"] = true
	seedTask(t, repo, "t-bad", "bad", at(-time.Minute))
	seedTask(t, repo, "t-good", "good", at(-2*time.Minute))

	fired, err := NewScanner(repo, notifier).Scan(context.Background(), scanTime)
	if !errors.Is(err, ErrNotify) {
		t.Fatalf("expected ErrNotify, got %v", err)
	}
	if fired != 1 {
		t.Errorf("expected the healthy reminder to fire, got %d", fired)
	}
	if s := status(t, repo, "t-bad"); s != domain.TaskStatusOpen {
		t.Errorf("undelivered task should stay open, got %s", s)
	}
	if s := status(t, repo, "t-good"); s != domain.TaskStatusCompleted {
		t.Errorf("delivered task should be completed, got %s", s)
	}
}

func TestScanStoreWriteFailureRetriesNextScan(t *testing.T) {
	store := repository.NewMemoryTaskRepository()
	seedTask(t, store, "t1", "1", at(-time.Minute))
	repo := &failingWrites{TaskRepository: store, failIDs: map[string]bool{"t1": true}}
	notifier := newFakeNotifier()
	scanner := NewScanner(repo, notifier)

	fired, err := scanner.Scan(context.Background(), scanTime)
	if !errors.Is(err, ErrStoreWrite) {
		t.Fatalf("expected ErrStoreWrite, got %v", err)
	}
	if fired != 1 {
		t.Errorf("expected delivery to count as fired, got %d", fired)
	}

	// The status write never landed, so the next scan delivers again.
	if _, err := scanner.Scan(context.Background(), scanTime.Add(15*time.Minute)); !errors.Is(err, ErrStoreWrite) {
		t.Fatalf("expected ErrStoreWrite on retry, got %v", err)
	}
	if notifier.count() != 2 {
		t.Errorf("expected duplicate delivery after failed write, got %d", notifier.count())
	}
}

func TestScanKeepsTaskArchivedDuringDelivery(t *testing.T) {
	repo := repository.NewMemoryTaskRepository()
	seedTask(t, repo, "t1", "1", at(-time.Minute))
	notifier := &archivingNotifier{repo: repo, taskID: "t1"}

	fired, err := NewScanner(repo, notifier).Scan(context.Background(), scanTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fired != 1 {
		t.Errorf("expected delivery to count as fired, got %d", fired)
	}
	if s := status(t, repo, "t1"); s != domain.TaskStatusArchived {
		t.Errorf("expected archived status to survive the scan, got %s", s)
	}
}

func TestScanRecoversNotifierPanic(t *testing.T) {
	repo := repository.NewMemoryTaskRepository()
	seedTask(t, repo, "t1", "1", at(-time.Minute))

	fired, err := NewScanner(repo, panickingNotifier{}).Scan(context.Background(), scanTime)
	if !errors.Is(err, ErrNotify) {
		t.Fatalf("expected ErrNotify, got %v", err)
	}
	if fired != 0 {
		t.Errorf("expected nothing fired, got %d", fired)
	}
	if s := status(t, repo, "t1"); s != domain.TaskStatusOpen {
		t.Errorf("task should stay open after a panicking delivery, got %s", s)
	}
}

func TestScanQueryFailure(t *testing.T) {
	_, err := NewScanner(brokenRepo{}, newFakeNotifier()).Scan(context.Background(), scanTime)
	if err == nil {
		t.Fatal("expected error when the store cannot be queried")
	}
}

type brokenRepo struct{}

func (brokenRepo) Upsert(context.Context, *domain.Task) (string, error) {
	return "", errors.New("down")
}

func (brokenRepo) CompleteIfOpen(context.Context, string) (bool, error) {
	return false, errors.New("down")
}

func (brokenRepo) FindByID(context.Context, string) (*domain.Task, error) {
	return nil, errors.New("down")
}

func (brokenRepo) Query(context.Context, domain.TaskFilter) ([]*domain.Task, error) {
	return nil, errors.New("down")
}
