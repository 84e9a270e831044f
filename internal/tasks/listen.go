package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/classificone/internal/shared"
)

// Handler processes one chat message. Implemented by [*Coordinator].
type Handler interface {
	Handle(ctx context.Context, senderID, text string) (Reply, error)
}

// Listen feeds messages from source to handler one at a time and sends back the replies.
//
// A message being handled is not interrupted by cancelling ctx; Listen returns after it finishes.
// Returns nil on cancellation and [shared.ErrChatUnavailable] when the source stops on its own.
func Listen(ctx context.Context, source MessageSource, handler Handler, logger *log.Logger) error {
	messages, err := source.Messages(ctx)
	if err != nil {
		return err
	}

	logger.Info("listening for messages")

	for msg := range messages {
		handleCtx := context.WithoutCancel(ctx)
		msgLogger := shared.WithLogger(logger, "sender", msg.SenderID, "message", msg.MessageID)

		reply, err := handler.Handle(handleCtx, msg.SenderID, msg.Text)
		if err != nil {
			msgLogger.Error("submission completed with errors", "error", err)
		}

		text := ReplyText(reply, err)
		if text == "" {
			continue
		}

		if err := source.Reply(handleCtx, msg, text); err != nil {
			msgLogger.Error("failed to send reply", "error", err)
		}
	}

	if ctx.Err() != nil {
		logger.Info("listener stopped")
		return nil
	}
	return fmt.Errorf("%w: message stream closed", shared.ErrChatUnavailable)
}
