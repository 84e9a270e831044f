package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/classificone/internal/models"
	"github.com/desertthunder/classificone/internal/shared"
)

// SubmissionRepository persists the intake history.
type SubmissionRepository struct {
	db *sql.DB
}

// NewSubmissionRepository creates a new SubmissionRepository with the given database connection
func NewSubmissionRepository(db *sql.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Record inserts s with a generated ID and sequence.
func (r *SubmissionRepository) Record(ctx context.Context, s *models.Submission) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(ctx, r.db, "submissions")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO submissions (id, sequence, sender_id, uri, comment, queue_outcome, ledger_outcome, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		id,
		sequence,
		s.SenderID,
		s.URI,
		s.Comment,
		s.QueueOutcome,
		s.LedgerOutcome,
		s.Error,
		s.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}

	s.SetID(id)
	s.SetSequence(sequence)
	return nil
}

// List returns the most recent submissions, newest first. limit <= 0 returns all of them.
func (r *SubmissionRepository) List(ctx context.Context, limit int) ([]*models.Submission, error) {
	query := `
		SELECT id, sequence, sender_id, uri, comment, queue_outcome, ledger_outcome, error, created_at
		FROM submissions
		ORDER BY sequence DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	var submissions []*models.Submission
	for rows.Next() {
		s, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating submissions: %w", err)
	}
	return submissions, nil
}

// FindByURI returns every submission of uri, oldest first.
func (r *SubmissionRepository) FindByURI(ctx context.Context, uri string) ([]*models.Submission, error) {
	query := `
		SELECT id, sequence, sender_id, uri, comment, queue_outcome, ledger_outcome, error, created_at
		FROM submissions
		WHERE uri = ?
		ORDER BY sequence
	`

	rows, err := r.db.QueryContext(ctx, query, uri)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	var submissions []*models.Submission
	for rows.Next() {
		s, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, s)
	}
	return submissions, rows.Err()
}

func (r *SubmissionRepository) scan(rows *sql.Rows) (*models.Submission, error) {
	var (
		id        string
		sequence  int
		s         models.Submission
		createdAt time.Time
	)

	err := rows.Scan(&id, &sequence, &s.SenderID, &s.URI, &s.Comment, &s.QueueOutcome, &s.LedgerOutcome, &s.Error, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan submission: %w", err)
	}

	return models.RestoreSubmission(id, sequence, createdAt, s), nil
}
