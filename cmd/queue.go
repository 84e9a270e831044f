package main

import (
	"context"

	"github.com/desertthunder/classificone/internal/formatter"
	"github.com/desertthunder/classificone/internal/models"
	"github.com/desertthunder/classificone/internal/tasks"
	"github.com/urfave/cli/v3"
)

// QueueAdd appends the most popular track of the given entity to the queue playlist.
func (r *Runner) QueueAdd(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.loadConfig(cmd); err != nil {
		return err
	}

	ref, _, err := parseTarget(cmd.Args().Slice())
	if err != nil {
		return err
	}

	recorder, err := r.queueRecorder(ctx)
	if err != nil {
		return err
	}

	outcome, track, err := recorder.AddBestTrack(ctx, ref, cmd.Bool("allow-duplicates"))
	if err != nil {
		return err
	}

	switch outcome {
	case models.Added:
		return r.writePlain("✓ Queued %s (popularity %d)\n", track.Name, track.Popularity)
	case models.AlreadyPresent:
		return r.writePlain("%s\n  %s\n", tasks.ReplyTrackAlreadyQueued, track.URI)
	}
	return nil
}

// QueueList prints the tracks currently in the queue playlist.
func (r *Runner) QueueList(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.loadConfig(cmd); err != nil {
		return err
	}

	_, queue, err := r.spotifyStores(ctx)
	if err != nil {
		return err
	}

	tracks, err := queue.Tracks(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, true)
	}

	r.writePlain("Queue: %d tracks\n\n", len(tracks))
	return r.writePlain("%s\n", formatter.QueueTable(tracks))
}
