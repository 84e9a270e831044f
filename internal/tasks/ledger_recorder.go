package tasks

import (
	"context"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/classificone/internal/models"
)

// nearDuplicateThreshold is the Jaro-Winkler score above which an existing row is reported as a possible duplicate.
const nearDuplicateThreshold = 0.92

// LedgerOptions configures where and when a [LedgerRecorder] writes.
type LedgerOptions struct {
	Year    string          // operative release year; also the partition name
	Sandbox string          // when set, every entry goes to this partition and the year gate is off
	Locker  PartitionLocker // optional; serializes read-modify-write per partition
}

// LedgerRecorder appends album entries to the partition of the operative year.
type LedgerRecorder struct {
	catalog Catalog
	ledger  Ledger
	opts    LedgerOptions
	logger  *log.Logger
}

// NewLedgerRecorder creates a recorder writing to ledger.
func NewLedgerRecorder(catalog Catalog, ledger Ledger, opts LedgerOptions, logger *log.Logger) *LedgerRecorder {
	return &LedgerRecorder{catalog: catalog, ledger: ledger, opts: opts, logger: logger}
}

// Year returns the operative release year.
func (r *LedgerRecorder) Year() string { return r.opts.Year }

// Partition returns the partition entries are written to.
func (r *LedgerRecorder) Partition() string {
	if r.opts.Sandbox != "" {
		return r.opts.Sandbox
	}
	return r.opts.Year
}

// AddEntry records the album behind ref with comment.
//
// Albums released in another year yield [models.WrongYear]; an exact (artist, title) match yields
// [models.AlreadyPresent]. Neither touches the ledger.
func (r *LedgerRecorder) AddEntry(ctx context.Context, ref models.EntityReference, comment string) (models.Outcome, models.AlbumMetadata, error) {
	meta, err := r.catalog.Metadata(ctx, ref)
	if err != nil {
		return 0, models.AlbumMetadata{}, err
	}

	if r.opts.Sandbox == "" && meta.Year != r.opts.Year {
		r.logger.Info("album outside operative year", "title", meta.Title, "artist", meta.Artist, "year", meta.Year, "want", r.opts.Year)
		return models.WrongYear, meta, nil
	}

	partition := r.Partition()

	if r.opts.Locker != nil {
		unlock, err := r.opts.Locker.Lock(ctx, partition)
		if err != nil {
			return 0, meta, err
		}
		defer unlock()
	}

	rows, err := r.ledger.ReadPartition(ctx, partition)
	if err != nil {
		return 0, meta, err
	}

	if models.ContainsEntry(rows, meta.Artist, meta.Title) {
		r.logger.Info("album already in ledger", "title", meta.Title, "artist", meta.Artist, "partition", partition)
		return models.AlreadyPresent, meta, nil
	}

	r.hintNearDuplicates(rows, meta, partition)

	rows = append(rows, models.NewLedgerRow(meta, comment))
	if err := r.ledger.WritePartition(ctx, partition, rows); err != nil {
		return 0, meta, err
	}

	r.logger.Debug("album recorded", "title", meta.Title, "artist", meta.Artist, "partition", partition, "rows", len(rows))
	return models.Added, meta, nil
}

// hintNearDuplicates logs rows that look like meta without matching it exactly, e.g. a different casing or a remaster suffix.
func (r *LedgerRecorder) hintNearDuplicates(rows []models.LedgerRow, meta models.AlbumMetadata, partition string) {
	query := strings.ToLower(meta.Artist + " " + meta.Title)
	jw := metrics.NewJaroWinkler()

	for _, row := range rows {
		candidate := strings.ToLower(row.Artista + " " + row.Titolo)
		if score := strutil.Similarity(query, candidate, jw); score >= nearDuplicateThreshold {
			r.logger.Info("possible duplicate in ledger",
				"title", meta.Title, "artist", meta.Artist,
				"existing_title", row.Titolo, "existing_artist", row.Artista,
				"score", score, "partition", partition)
		}
	}
}
