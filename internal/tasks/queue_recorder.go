package tasks

import (
	"context"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/classificone/internal/models"
)

// QueueRecorder enqueues the most popular track of an entity unless it is already queued.
type QueueRecorder struct {
	catalog Catalog
	queue   Queue
	logger  *log.Logger
}

// NewQueueRecorder creates a recorder writing to queue.
func NewQueueRecorder(catalog Catalog, queue Queue, logger *log.Logger) *QueueRecorder {
	return &QueueRecorder{catalog: catalog, queue: queue, logger: logger}
}

// AddBestTrack selects the best track of ref and appends it to the queue.
//
// Membership is checked by URI against the queue as it is now; allowDuplicates skips the check.
// Nothing is written when the catalog lookup or the selection fails.
func (r *QueueRecorder) AddBestTrack(ctx context.Context, ref models.EntityReference, allowDuplicates bool) (models.Outcome, models.TrackCandidate, error) {
	candidates, err := r.catalog.AlbumTracks(ctx, ref)
	if err != nil {
		return 0, models.TrackCandidate{}, err
	}

	best, err := SelectBest(candidates)
	if err != nil {
		return 0, models.TrackCandidate{}, fmt.Errorf("%s: %w", ref.URI(), err)
	}

	if !allowDuplicates {
		queued, err := r.queue.TrackURIs(ctx)
		if err != nil {
			return 0, best, err
		}
		if slices.Contains(queued, best.URI) {
			r.logger.Info("track already in queue", "track", best.Name, "uri", best.URI)
			return models.AlreadyPresent, best, nil
		}
	}

	if err := r.queue.Append(ctx, best.URI); err != nil {
		return 0, best, err
	}

	r.logger.Debug("track queued", "track", best.Name, "uri", best.URI, "popularity", best.Popularity)
	return models.Added, best, nil
}
