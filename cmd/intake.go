package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/desertthunder/classificone/internal/formatter"
	"github.com/desertthunder/classificone/internal/locator"
	"github.com/desertthunder/classificone/internal/models"
	"github.com/desertthunder/classificone/internal/services"
	"github.com/desertthunder/classificone/internal/shared"
	"github.com/desertthunder/classificone/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Serve connects to the bot API and records every link posted by an allowed sender until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	coordinator, err := r.coordinator(ctx)
	if err != nil {
		return err
	}

	if r.chat == nil {
		bot, err := services.NewTelegramBot(config.Bot.Token, cmd.String("endpoint"), config.Bot.PollTimeout, r.logger)
		if err != nil {
			return err
		}
		r.logger.Info("connected to bot API", "bot", bot.Username())
		r.chat = bot
	}

	if len(config.Bot.AllowedSenders) == 0 {
		r.logger.Warn("no allowed senders configured, every message will be rejected")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.logger.Info("bot started", "year", config.Ledger.OperativeYear(), "backend", config.Ledger.Backend, "sandbox", config.Ledger.SandboxPartition)
	return tasks.Listen(ctx, r.chat, coordinator, r.logger)
}

// Submit runs one message through the pipeline and prints each phase followed by the chat reply.
func (r *Runner) Submit(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	text := strings.Join(cmd.Args().Slice(), " ")
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: message text", shared.ErrMissingArgument)
	}

	sender := cmd.String("sender")
	if sender == "" && len(config.Bot.AllowedSenders) > 0 {
		sender = config.Bot.AllowedSenders[0]
	}
	if sender == "" {
		return fmt.Errorf("%w: --sender (no allowed senders configured)", shared.ErrMissingArgument)
	}

	coordinator, err := r.coordinator(ctx)
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.writePlain("%s\n", formatter.ProgressLine(update.Step, update.Total, update.Message))
		}
	}()

	reply, err := coordinator.Run(ctx, sender, text, progress)
	close(progress)
	<-done

	if out := tasks.ReplyText(reply, err); out != "" {
		r.writePlain("\n%s\n", out)
	} else {
		r.writePlain("No link found in message.\n")
	}
	return err
}

// parseTarget reads an entity from CLI arguments: an open.spotify.com link anywhere in the text, or a
// canonical URI as the first argument. The rest of the text is returned as the comment.
func parseTarget(args []string) (models.EntityReference, string, error) {
	if len(args) == 0 {
		return models.EntityReference{}, "", fmt.Errorf("%w: link or uri", shared.ErrMissingArgument)
	}

	if ref, comment, ok := locator.Locate(strings.Join(args, " ")); ok {
		return ref, comment, nil
	}

	ref, err := models.ParseURI(strings.TrimSpace(args[0]))
	if err != nil {
		return models.EntityReference{}, "", fmt.Errorf("%w: %v", shared.ErrInvalidReference, err)
	}
	return ref, strings.TrimSpace(strings.Join(args[1:], " ")), nil
}
