package telegram

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Client wraps the Telegram Bot API for outbound messages
type Client struct {
	bot *tgbotapi.BotAPI
}

// NewClient authenticates the bot token against Telegram
func NewClient(token string) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}

	log.Printf("[Telegram] Authorized as @%s", bot.Self.UserName)
	return &Client{bot: bot}, nil
}

// SendMessage posts a plain-text message to a chat. In private chats the
// chat ID equals the user ID.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("failed to send Telegram message: %w", err)
	}
	return nil
}
