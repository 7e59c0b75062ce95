package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// ErrStartup is returned when the scheduler cannot be built or started.
// Reminders are unavailable until it is fixed, so callers treat it as fatal.
var ErrStartup = errors.New("reminder scheduler startup failed")

// DefaultInterval is the scan cadence used when none is configured
const DefaultInterval = 15 * time.Minute

// ReminderScheduler runs the Scanner on a fixed interval for the lifetime of
// the process. Due times are compared as full timestamps.
type ReminderScheduler struct {
	scanner  *Scanner
	interval time.Duration
	location *time.Location
	clock    func() time.Time

	scanMu   sync.Mutex // held for the duration of a scan
	mu       sync.Mutex
	started  bool
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewReminderScheduler creates a new scheduler. A nil location means UTC.
func NewReminderScheduler(scanner *Scanner, interval time.Duration, location *time.Location) (*ReminderScheduler, error) {
	if scanner == nil || scanner.taskRepo == nil || scanner.notifier == nil {
		return nil, fmt.Errorf("%w: scanner needs a task store and a notifier", ErrStartup)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("%w: interval must be positive, got %s", ErrStartup, interval)
	}
	if location == nil {
		location = time.UTC
	}
	return &ReminderScheduler{
		scanner:  scanner,
		interval: interval,
		location: location,
		clock:    time.Now,
		stopChan: make(chan struct{}),
	}, nil
}

// SetClock replaces the time source used to stamp each scan
func (s *ReminderScheduler) SetClock(clock func() time.Time) {
	s.clock = clock
}

// Start begins the scheduler loop. The first scan runs immediately.
func (s *ReminderScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("%w: already started", ErrStartup)
	}
	s.started = true

	log.Printf("[ReminderScheduler] Starting reminder scheduler (interval: %s)", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.tick()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.tick()
			case <-s.stopChan:
				log.Println("[ReminderScheduler] Scheduler stopped")
				return
			}
		}
	}()
	return nil
}

// Stop cancels future scans and waits for a scan in progress to finish.
// It is safe to call more than once.
func (s *ReminderScheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
	s.wg.Wait()
}

// RunOnce performs a single scan unless one is already running, in which
// case it returns ran == false without waiting. Cancelling ctx does not
// interrupt a scan that has started.
func (s *ReminderScheduler) RunOnce(ctx context.Context) (fired int, ran bool, err error) {
	if !s.scanMu.TryLock() {
		return 0, false, nil
	}
	defer s.scanMu.Unlock()

	fired, err = s.scanner.Scan(context.WithoutCancel(ctx), s.clock().In(s.location))
	return fired, true, err
}

func (s *ReminderScheduler) tick() {
	_, ran, err := s.RunOnce(context.Background())
	if !ran {
		log.Println("[ReminderScheduler] Previous scan still running, skipping tick")
		return
	}
	if err != nil {
		log.Printf("[ReminderScheduler] Scan finished with errors: %v", err)
	}
}
