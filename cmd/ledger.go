package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/classificone/internal/formatter"
	"github.com/desertthunder/classificone/internal/models"
	"github.com/desertthunder/classificone/internal/tasks"
	"github.com/desertthunder/classificone/internal/ui"
	"github.com/urfave/cli/v3"
)

// partition returns the --partition flag, falling back to the sandbox partition and then the operative year.
func (r *Runner) partition(cmd *cli.Command) string {
	if p := cmd.String("partition"); p != "" {
		return p
	}
	if r.config.Ledger.SandboxPartition != "" {
		return r.config.Ledger.SandboxPartition
	}
	return r.config.Ledger.OperativeYear()
}

// LedgerAdd records the album behind a link in the ledger. Text after the link becomes the comment.
func (r *Runner) LedgerAdd(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.loadConfig(cmd); err != nil {
		return err
	}

	ref, comment, err := parseTarget(cmd.Args().Slice())
	if err != nil {
		return err
	}

	recorder, err := r.ledgerRecorder(ctx)
	if err != nil {
		return err
	}

	outcome, meta, err := recorder.AddEntry(ctx, ref, comment)
	if err != nil {
		return err
	}

	switch outcome {
	case models.Added:
		return r.writePlain("✓ Recorded %s - %s in %s\n", meta.Artist, meta.Title, recorder.Partition())
	case models.AlreadyPresent:
		return r.writePlain("%s\n", tasks.ReplyAlbumAlreadyInLedger)
	case models.WrongYear:
		return r.writePlain("[!] %s - %s was released in %s, not %s.\n", meta.Artist, meta.Title, meta.Year, recorder.Year())
	}
	return nil
}

// LedgerShow prints one partition as a table.
func (r *Runner) LedgerShow(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.loadConfig(cmd); err != nil {
		return err
	}

	ledger, err := r.ledgerStore(ctx)
	if err != nil {
		return err
	}

	partition := r.partition(cmd)
	rows, err := ledger.ReadPartition(ctx, partition)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(rows, true)
	}

	r.writePlain("Ledger %s: %d entries\n\n", partition, len(rows))
	return r.writePlain("%s\n", formatter.LedgerTable(rows))
}

// LedgerExport writes one partition to a CSV, Markdown or text file.
func (r *Runner) LedgerExport(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.loadConfig(cmd); err != nil {
		return err
	}

	ledger, err := r.ledgerStore(ctx)
	if err != nil {
		return err
	}

	partition := r.partition(cmd)
	rows, err := ledger.ReadPartition(ctx, partition)
	if err != nil {
		return err
	}

	path, err := formatter.WriteLedgerExport(partition, rows, cmd.String("format"), cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("ledger exported", "partition", partition, "rows", len(rows), "path", path)
	return r.writePlain("✓ Exported %d entries to %s\n", len(rows), path)
}

// LedgerBrowse opens the interactive ledger browser.
func (r *Runner) LedgerBrowse(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.loadConfig(cmd); err != nil {
		return err
	}

	ledger, err := r.ledgerStore(ctx)
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, ledger, cmd.String("partition"))
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("error running ledger browser: %w", err)
	}
	return nil
}
