package tasks

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/desertthunder/classificone/internal/models"
	"github.com/desertthunder/classificone/internal/shared"
)

// RankByPopularity returns a copy of candidates ordered by popularity, highest first.
// Ties keep their catalog order.
func RankByPopularity(candidates []models.TrackCandidate) []models.TrackCandidate {
	ranked := slices.Clone(candidates)
	slices.SortStableFunc(ranked, func(a, b models.TrackCandidate) int {
		return cmp.Compare(b.Popularity, a.Popularity)
	})
	return ranked
}

// SelectBest picks the most popular candidate; the first listed wins a tie.
func SelectBest(candidates []models.TrackCandidate) (models.TrackCandidate, error) {
	if len(candidates) == 0 {
		return models.TrackCandidate{}, fmt.Errorf("%w: no tracks to choose from", shared.ErrEmptyAlbum)
	}
	return RankByPopularity(candidates)[0], nil
}
