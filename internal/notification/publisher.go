package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

const EventReminderFired = "reminder.fired"

// ReminderEvent is published after a reminder reached the user
type ReminderEvent struct {
	Type      string    `json:"type"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	Channels  []string  `json:"channels"`
	Timestamp time.Time `json:"timestamp"`
}

// EventPublisher publishes reminder events to a Pub/Sub topic so other
// services (analytics, the web client) can react to them
type EventPublisher struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

func NewEventPublisher(ctx context.Context, projectID, topicName, credentialsFile string) (*EventPublisher, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	// Accept the full resource name as well as the short topic name
	if parts := strings.Split(topicName, "/"); len(parts) > 1 {
		topicName = parts[len(parts)-1]
	}

	log.Printf("[PubSub] Publishing reminder events to topic: %s", topicName)
	return &EventPublisher{client: client, topic: client.Topic(topicName)}, nil
}

// ReminderDelivered publishes a reminder.fired event. Failures are logged;
// the reminder itself was already delivered.
func (p *EventPublisher) ReminderDelivered(ctx context.Context, userID, text string, channels []string) {
	data, err := json.Marshal(ReminderEvent{
		Type:      EventReminderFired,
		UserID:    userID,
		Text:      text,
		Channels:  channels,
		Timestamp: time.Now(),
	})
	if err != nil {
		log.Printf("[PubSub] Failed to encode event: %v", err)
		return
	}

	result := p.topic.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: map[string]string{"type": EventReminderFired},
	})
	if _, err := result.Get(ctx); err != nil {
		log.Printf("[PubSub] Failed to publish %s for user %s: %v", EventReminderFired, userID, err)
	}
}

func (p *EventPublisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
