package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/classificone/internal/models"
	"github.com/desertthunder/classificone/internal/shared"
)

// LedgerRepository is the local ledger backend. A partition is a named sheet of ordered rows.
//
// Writing a partition registers it; reading an unregistered partition yields no rows.
type LedgerRepository struct {
	db *sql.DB
}

// NewLedgerRepository creates a new LedgerRepository with the given database connection
func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// ReadPartition returns the rows of partition in position order.
func (r *LedgerRepository) ReadPartition(ctx context.Context, partition string) ([]models.LedgerRow, error) {
	query := `
		SELECT artista, titolo, cat, supporto, genere, commento
		FROM ledger_rows
		WHERE sheet = ?
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query, partition)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query partition %s: %v", shared.ErrLedgerUnavailable, partition, err)
	}
	defer rows.Close()

	var result []models.LedgerRow
	for rows.Next() {
		var row models.LedgerRow
		if err := rows.Scan(&row.Artista, &row.Titolo, &row.CAT, &row.Supporto, &row.Genere, &row.Commento); err != nil {
			return nil, fmt.Errorf("%w: failed to scan ledger row: %v", shared.ErrLedgerUnavailable, err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating ledger rows: %v", shared.ErrLedgerUnavailable, err)
	}

	return result, nil
}

// WritePartition replaces the contents of partition with rows in a single transaction.
func (r *LedgerRepository) WritePartition(ctx context.Context, partition string, rows []models.LedgerRow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", shared.ErrLedgerUnavailable, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO ledger_sheets (name) VALUES (?)`, partition); err != nil {
		return fmt.Errorf("%w: failed to register partition %s: %v", shared.ErrLedgerUnavailable, partition, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM ledger_rows WHERE sheet = ?`, partition); err != nil {
		return fmt.Errorf("%w: failed to clear partition %s: %v", shared.ErrLedgerUnavailable, partition, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO ledger_rows (id, sheet, position, artista, titolo, cat, supporto, genere, commento)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("%w: failed to prepare insert: %v", shared.ErrLedgerUnavailable, err)
	}
	defer stmt.Close()

	for i, row := range rows {
		_, err := stmt.ExecContext(ctx,
			shared.GenerateID(),
			partition,
			i,
			row.Artista,
			row.Titolo,
			row.CAT,
			row.Supporto,
			row.Genere,
			row.Commento,
		)
		if err != nil {
			return fmt.Errorf("%w: failed to insert row %d: %v", shared.ErrLedgerUnavailable, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit partition %s: %v", shared.ErrLedgerUnavailable, partition, err)
	}
	return nil
}

// Partitions lists registered partition names in name order.
func (r *LedgerRepository) Partitions(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM ledger_sheets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list partitions: %v", shared.ErrLedgerUnavailable, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%w: failed to scan partition: %v", shared.ErrLedgerUnavailable, err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
