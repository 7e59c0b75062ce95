package notification

import (
	"context"
	"errors"
	"fmt"
	"log"
)

var (
	ErrNoChannels = errors.New("no notification channels configured")
	// ErrNotDeliverable is returned by a channel that has no way to reach the
	// user (no chat, no registered devices). It does not count as a failure
	// when another channel delivered.
	ErrNotDeliverable = errors.New("user not reachable on channel")
)

// Channel delivers a reminder text to one user over one transport
type Channel interface {
	Name() string
	Deliver(ctx context.Context, userID, text string) error
}

// Listener is told about every reminder that reached at least one channel
type Listener interface {
	ReminderDelivered(ctx context.Context, userID, text string, channels []string)
}

// Service fans a reminder out to every configured channel. It satisfies the
// reminder scanner's Notifier.
type Service struct {
	channels  []Channel
	listeners []Listener
}

func NewService(channels ...Channel) (*Service, error) {
	if len(channels) == 0 {
		return nil, ErrNoChannels
	}
	names := make([]string, 0, len(channels))
	for _, ch := range channels {
		names = append(names, ch.Name())
	}
	log.Printf("[Notification] Channels enabled: %v", names)
	return &Service{channels: channels}, nil
}

// AddListener registers a listener for delivered reminders
func (s *Service) AddListener(l Listener) {
	s.listeners = append(s.listeners, l)
}

// Send delivers text on every channel. It succeeds when at least one channel
// delivered; otherwise the per-channel errors are joined.
func (s *Service) Send(ctx context.Context, userID, text string) error {
	var errs []error
	var delivered []string

	for _, ch := range s.channels {
		if err := ch.Deliver(ctx, userID, text); err != nil {
			if !errors.Is(err, ErrNotDeliverable) {
				log.Printf("[Notification] %s delivery to user %s failed: %v", ch.Name(), userID, err)
			}
			errs = append(errs, fmt.Errorf("%s: %w", ch.Name(), err))
			continue
		}
		delivered = append(delivered, ch.Name())
	}

	if len(delivered) == 0 {
		return errors.Join(errs...)
	}

	for _, l := range s.listeners {
		l.ReminderDelivered(ctx, userID, text, delivered)
	}
	return nil
}
