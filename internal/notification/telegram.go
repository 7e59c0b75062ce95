package notification

import (
	"context"
	"fmt"
	"strconv"
)

// MessageSender posts a chat message
type MessageSender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// TelegramChannel sends reminders as chat messages. User IDs are Telegram
// user IDs, which double as the private chat ID.
type TelegramChannel struct {
	sender MessageSender
}

func NewTelegramChannel(sender MessageSender) *TelegramChannel {
	return &TelegramChannel{sender: sender}
}

func (c *TelegramChannel) Name() string { return "telegram" }

func (c *TelegramChannel) Deliver(ctx context.Context, userID, text string) error {
	chatID, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return fmt.Errorf("user %q has no chat id: %w", userID, ErrNotDeliverable)
	}
	return c.sender.SendMessage(ctx, chatID, text)
}
