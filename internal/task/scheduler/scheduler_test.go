package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"voice-journal/internal/task/domain"
	"voice-journal/internal/task/repository"
)

// blockingNotifier holds every Send until release is closed
type blockingNotifier struct {
	entered chan struct{}
	release chan struct{}
}

func newBlockingNotifier() *blockingNotifier {
	return &blockingNotifier{
		entered: make(chan struct{}, 16),
		release: make(chan struct{}),
	}
}

func (n *blockingNotifier) Send(context.Context, string, string) error {
	n.entered <- struct{}{}
	<-n.release
	return nil
}

func waitFor(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestNewReminderSchedulerValidates(t *testing.T) {
	repo := repository.NewMemoryTaskRepository()

	if _, err := NewReminderScheduler(NewScanner(repo, nil), time.Minute, nil); !errors.Is(err, ErrStartup) {
		t.Errorf("missing notifier: expected ErrStartup, got %v", err)
	}
	if _, err := NewReminderScheduler(NewScanner(nil, newFakeNotifier()), time.Minute, nil); !errors.Is(err, ErrStartup) {
		t.Errorf("missing store: expected ErrStartup, got %v", err)
	}
	if _, err := NewReminderScheduler(NewScanner(repo, newFakeNotifier()), 0, nil); !errors.Is(err, ErrStartup) {
		t.Errorf("zero interval: expected ErrStartup, got %v", err)
	}
}

func TestStartTwiceFails(t *testing.T) {
	s, err := NewReminderScheduler(NewScanner(repository.NewMemoryTaskRepository(), newFakeNotifier()), time.Hour, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop()

	if err := s.Start(); !errors.Is(err, ErrStartup) {
		t.Errorf("expected ErrStartup on second start, got %v", err)
	}
}

func TestStartScansImmediately(t *testing.T) {
	repo := repository.NewMemoryTaskRepository()
	seedTask(t, repo, "t1", "1", at(-time.Minute))
	notifier := newBlockingNotifier()
	close(notifier.release)

	s, err := NewReminderScheduler(NewScanner(repo, notifier), time.Hour, time.UTC)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	s.SetClock(func() time.Time { return scanTime })
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitFor(t, notifier.entered, "first scan")
	s.Stop()

	if st := status(t, repo, "t1"); st != domain.TaskStatusCompleted {
		t.Errorf("expected completed after first scan, got %s", st)
	}
}

func TestRunOnceSkipsWhileScanInProgress(t *testing.T) {
	repo := repository.NewMemoryTaskRepository()
	seedTask(t, repo, "t1", "1", at(-time.Minute))
	notifier := newBlockingNotifier()

	s, err := NewReminderScheduler(NewScanner(repo, notifier), time.Hour, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	s.SetClock(func() time.Time { return scanTime })

	type result struct {
		fired int
		ran   bool
	}
	done := make(chan result, 1)
	go func() {
		fired, ran, _ := s.RunOnce(context.Background())
		done <- result{fired, ran}
	}()
	waitFor(t, notifier.entered, "scan to reach the notifier")

	if fired, ran, err := s.RunOnce(context.Background()); ran || fired != 0 || err != nil {
		t.Errorf("expected overlapping scan to be skipped, got fired=%d ran=%v err=%v", fired, ran, err)
	}

	close(notifier.release)
	first := <-done
	if !first.ran || first.fired != 1 {
		t.Errorf("expected first scan to fire 1 reminder, got %+v", first)
	}
}

func TestStopWaitsForScanInProgress(t *testing.T) {
	repo := repository.NewMemoryTaskRepository()
	seedTask(t, repo, "t1", "1", at(-time.Minute))
	notifier := newBlockingNotifier()

	s, err := NewReminderScheduler(NewScanner(repo, notifier), time.Hour, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	s.SetClock(func() time.Time { return scanTime })
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitFor(t, notifier.entered, "scan to reach the notifier")

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a scan was still delivering")
	case <-time.After(50 * time.Millisecond):
	}

	close(notifier.release)
	waitFor(t, stopped, "Stop to return")

	if st := status(t, repo, "t1"); st != domain.TaskStatusCompleted {
		t.Errorf("in-flight scan should have finished and marked the task, got %s", st)
	}

	// Stop is idempotent
	s.Stop()
}
