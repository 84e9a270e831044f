package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/classificone/internal/models"
	"github.com/desertthunder/classificone/internal/shared"
)

const retryDelay = 3 * time.Second

// TelegramBot receives text messages by long polling and sends threaded replies.
type TelegramBot struct {
	api         *tgbotapi.BotAPI
	pollTimeout int
	logger      *log.Logger
}

// NewTelegramBot authenticates token against endpoint (empty for the public Bot API).
func NewTelegramBot(token, endpoint string, pollTimeout int, logger *log.Logger) (*TelegramBot, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: telegram bot token", shared.ErrMissingCredentials)
	}
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: telegram: %v", shared.ErrChatUnavailable, err)
	}
	return &TelegramBot{api: api, pollTimeout: pollTimeout, logger: logger}, nil
}

// Username returns the bot's handle as reported by getMe.
func (b *TelegramBot) Username() string {
	return b.api.Self.UserName
}

// Messages polls for updates until ctx is done and emits text messages that are not bot commands.
// The channel is closed when polling stops.
func (b *TelegramBot) Messages(ctx context.Context) (<-chan models.Message, error) {
	out := make(chan models.Message)

	go func() {
		defer close(out)

		config := tgbotapi.NewUpdate(0)
		config.Timeout = b.pollTimeout
		config.AllowedUpdates = []string{"message"}

		for ctx.Err() == nil {
			updates, err := b.api.GetUpdates(config)
			if err != nil {
				b.logger.Warn("polling failed, retrying", "error", err, "delay", retryDelay)
				select {
				case <-ctx.Done():
					return
				case <-time.After(retryDelay):
				}
				continue
			}

			for _, update := range updates {
				if update.UpdateID >= config.Offset {
					config.Offset = update.UpdateID + 1
				}

				msg, ok := toMessage(update)
				if !ok {
					continue
				}
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// Reply sends text to the chat of msg, threaded to it.
func (b *TelegramBot) Reply(_ context.Context, msg models.Message, text string) error {
	reply := tgbotapi.NewMessage(msg.ChatID, text)
	reply.ReplyToMessageID = msg.MessageID
	reply.AllowSendingWithoutReply = true

	if _, err := b.api.Send(reply); err != nil {
		return fmt.Errorf("%w: send reply to %d: %v", shared.ErrChatUnavailable, msg.ChatID, err)
	}
	return nil
}

func toMessage(update tgbotapi.Update) (models.Message, bool) {
	m := update.Message
	if m == nil || m.Chat == nil || m.Text == "" || m.IsCommand() {
		return models.Message{}, false
	}

	return models.Message{
		SenderID:  strconv.FormatInt(m.Chat.ID, 10),
		ChatID:    m.Chat.ID,
		MessageID: m.MessageID,
		Text:      m.Text,
	}, true
}
