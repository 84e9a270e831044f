package main

import (
	"context"

	"github.com/desertthunder/classificone/internal/formatter"
	"github.com/desertthunder/classificone/internal/models"
	"github.com/urfave/cli/v3"
)

// History lists recorded submissions, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.loadConfig(cmd); err != nil {
		return err
	}

	history, err := r.historyStore()
	if err != nil {
		return err
	}

	var submissions []*models.Submission
	if uri := cmd.String("uri"); uri != "" {
		submissions, err = history.FindByURI(ctx, uri)
	} else {
		submissions, err = history.List(ctx, cmd.Int("limit"))
	}
	if err != nil {
		return err
	}

	if len(submissions) == 0 {
		return r.writePlain("No submissions recorded yet.\n")
	}
	return r.writePlain("%s\n", formatter.HistoryTable(submissions))
}
