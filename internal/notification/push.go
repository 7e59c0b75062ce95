package notification

import (
	"context"
	"fmt"
	"log"
	"time"

	authrepo "voice-journal/internal/auth/repository"
	"voice-journal/pkg/fcm"
)

// A reminder older than this is no longer useful on the device
const pushTTL = 24 * time.Hour

// PushSender sends a multicast push and reports the tokens that failed
type PushSender interface {
	SendToDevices(ctx context.Context, tokens []string, notification fcm.NotificationData) ([]string, error)
}

// PushChannel sends reminders to every device the user registered
type PushChannel struct {
	sender  PushSender
	fcmRepo authrepo.FCMTokenRepository
}

func NewPushChannel(sender PushSender, fcmRepo authrepo.FCMTokenRepository) *PushChannel {
	return &PushChannel{sender: sender, fcmRepo: fcmRepo}
}

func (c *PushChannel) Name() string { return "push" }

func (c *PushChannel) Deliver(ctx context.Context, userID, text string) error {
	tokens, err := c.fcmRepo.GetTokensByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load device tokens: %w", err)
	}
	if len(tokens) == 0 {
		return fmt.Errorf("user %s has no devices: %w", userID, ErrNotDeliverable)
	}

	tokenStrings := make([]string, 0, len(tokens))
	for _, t := range tokens {
		tokenStrings = append(tokenStrings, t.Token)
	}

	failedTokens, err := c.sender.SendToDevices(ctx, tokenStrings, fcm.NotificationData{
		Title:       "Reminder",
		Body:        text,
		CollapseKey: "reminder",
		TTL:         pushTTL,
		Data: map[string]string{
			"type":         "reminder",
			"click_action": "/tasks",
		},
	})
	if err != nil {
		return err
	}

	if len(failedTokens) > 0 {
		log.Printf("[FCM] Cleaning up %d failed tokens for user %s", len(failedTokens), userID)
		for _, token := range failedTokens {
			if err := c.fcmRepo.DeleteToken(ctx, token); err != nil {
				log.Printf("[FCM] Failed to delete token: %v", err)
			}
		}
	}
	if len(failedTokens) == len(tokenStrings) {
		return fmt.Errorf("push failed on all %d devices", len(tokenStrings))
	}
	return nil
}
