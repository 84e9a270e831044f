package repositories

import (
	"context"
	"database/sql"
	"testing"

	"github.com/desertthunder/classificone/internal/models"
	"github.com/desertthunder/classificone/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestLedgerRepository(t *testing.T) {
	ctx := context.Background()
	rows := []models.LedgerRow{
		{Artista: "Artist A", Titolo: "Title A", Supporto: "album", Commento: "first"},
		{Artista: "Artist B", Titolo: "Title B", CAT: "x", Supporto: "single", Genere: "jazz"},
	}

	t.Run("unknown partition reads empty", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		got, err := NewLedgerRepository(db).ReadPartition(ctx, "2025")
		if err != nil {
			t.Fatalf("failed to read partition: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected no rows, got %d", len(got))
		}
	})

	t.Run("write then read keeps order", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewLedgerRepository(db)
		if err := repo.WritePartition(ctx, "2025", rows); err != nil {
			t.Fatalf("failed to write partition: %v", err)
		}

		got, err := repo.ReadPartition(ctx, "2025")
		if err != nil {
			t.Fatalf("failed to read partition: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(got))
		}
		for i := range rows {
			if got[i] != rows[i] {
				t.Errorf("row %d: expected %+v, got %+v", i, rows[i], got[i])
			}
		}
	})

	t.Run("write replaces the partition", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewLedgerRepository(db)
		if err := repo.WritePartition(ctx, "2025", rows); err != nil {
			t.Fatalf("failed to write partition: %v", err)
		}
		if err := repo.WritePartition(ctx, "2025", rows[:1]); err != nil {
			t.Fatalf("failed to rewrite partition: %v", err)
		}

		got, _ := repo.ReadPartition(ctx, "2025")
		if len(got) != 1 || got[0] != rows[0] {
			t.Errorf("expected only the first row, got %+v", got)
		}
	})

	t.Run("partitions are isolated", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewLedgerRepository(db)
		if err := repo.WritePartition(ctx, "2025", rows); err != nil {
			t.Fatalf("failed to write partition: %v", err)
		}
		if err := repo.WritePartition(ctx, "test", nil); err != nil {
			t.Fatalf("failed to write sandbox: %v", err)
		}

		sandbox, _ := repo.ReadPartition(ctx, "test")
		if len(sandbox) != 0 {
			t.Errorf("expected empty sandbox, got %d rows", len(sandbox))
		}

		names, err := repo.Partitions(ctx)
		if err != nil {
			t.Fatalf("failed to list partitions: %v", err)
		}
		if len(names) != 2 || names[0] != "2025" || names[1] != "test" {
			t.Errorf("unexpected partitions %v", names)
		}
	})
}

func TestSubmissionRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Record assigns id and sequence", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSubmissionRepository(db)
		first := models.NewSubmission("42", "spotify:album:a", "nice")
		second := models.NewSubmission("42", "spotify:album:b", "")

		for _, s := range []*models.Submission{first, second} {
			if err := repo.Record(ctx, s); err != nil {
				t.Fatalf("failed to record submission: %v", err)
			}
		}

		if first.ID() == "" || first.ID() == second.ID() {
			t.Errorf("expected distinct ids, got %q and %q", first.ID(), second.ID())
		}
		if first.Sequence() != 1 || second.Sequence() != 2 {
			t.Errorf("expected sequences 1 and 2, got %d and %d", first.Sequence(), second.Sequence())
		}
	})

	t.Run("Record rejects invalid submissions", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		if err := NewSubmissionRepository(db).Record(ctx, models.NewSubmission("", "spotify:album:a", "")); err == nil {
			t.Error("expected validation error for empty sender")
		}
	})

	t.Run("List newest first", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSubmissionRepository(db)
		for _, uri := range []string{"spotify:album:a", "spotify:album:b", "spotify:album:c"} {
			s := models.NewSubmission("42", uri, "")
			s.Record(models.SinkQueue, models.Added, nil)
			if err := repo.Record(ctx, s); err != nil {
				t.Fatalf("failed to record submission: %v", err)
			}
		}

		got, err := repo.List(ctx, 2)
		if err != nil {
			t.Fatalf("failed to list submissions: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 submissions, got %d", len(got))
		}
		if got[0].URI != "spotify:album:c" || got[0].Sequence() != 3 {
			t.Errorf("unexpected newest submission %+v", got[0])
		}
		if got[0].QueueOutcome != "added" {
			t.Errorf("expected queue outcome to round-trip, got %q", got[0].QueueOutcome)
		}

		all, _ := repo.List(ctx, 0)
		if len(all) != 3 {
			t.Errorf("expected 3 submissions without limit, got %d", len(all))
		}
	})

	t.Run("FindByURI", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSubmissionRepository(db)
		for _, uri := range []string{"spotify:album:a", "spotify:album:b", "spotify:album:a"} {
			if err := repo.Record(ctx, models.NewSubmission("42", uri, "")); err != nil {
				t.Fatalf("failed to record submission: %v", err)
			}
		}

		got, err := repo.FindByURI(ctx, "spotify:album:a")
		if err != nil {
			t.Fatalf("failed to find submissions: %v", err)
		}
		if len(got) != 2 || got[0].Sequence() != 1 || got[1].Sequence() != 3 {
			t.Errorf("unexpected submissions %+v", got)
		}
	})
}
