package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/classificone/internal/models"
	"github.com/desertthunder/classificone/internal/shared"
	tu "github.com/desertthunder/classificone/internal/testing"
)

type recordingLocker struct {
	locked   []string
	released int
	err      error
}

func (l *recordingLocker) Lock(_ context.Context, partition string) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	l.locked = append(l.locked, partition)
	return func() { l.released++ }, nil
}

func TestLedgerRecorder(t *testing.T) {
	ctx := context.Background()
	opts := LedgerOptions{Year: "2025"}

	t.Run("adds a row with the comment", func(t *testing.T) {
		ledger := tu.NewFakeLedger("2025")
		recorder := NewLedgerRecorder(newCatalog(), ledger, opts, testLogger())

		outcome, meta, err := recorder.AddEntry(ctx, albumRef, "great record")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if outcome != models.Added {
			t.Errorf("expected Added, got %s", outcome)
		}
		if meta.Title != "Record" {
			t.Errorf("unexpected metadata %+v", meta)
		}

		rows := ledger.Sheets["2025"]
		want := models.LedgerRow{Artista: "Band", Titolo: "Record", Supporto: "album", Commento: "great record"}
		if len(rows) != 1 || rows[0] != want {
			t.Errorf("expected %+v, got %+v", want, rows)
		}
	})

	t.Run("appends after existing rows", func(t *testing.T) {
		ledger := tu.NewFakeLedger()
		ledger.Sheets["2025"] = []models.LedgerRow{{Artista: "Other", Titolo: "Album"}}
		recorder := NewLedgerRecorder(newCatalog(), ledger, opts, testLogger())

		if _, _, err := recorder.AddEntry(ctx, albumRef, ""); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		rows := ledger.Sheets["2025"]
		if len(rows) != 2 || rows[0].Artista != "Other" || rows[1].Artista != "Band" {
			t.Errorf("unexpected rows %+v", rows)
		}
	})

	t.Run("second submission is already present", func(t *testing.T) {
		ledger := tu.NewFakeLedger("2025")
		recorder := NewLedgerRecorder(newCatalog(), ledger, opts, testLogger())

		if _, _, err := recorder.AddEntry(ctx, albumRef, "first"); err != nil {
			t.Fatalf("first submission failed: %v", err)
		}
		outcome, _, err := recorder.AddEntry(ctx, albumRef, "second")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if outcome != models.AlreadyPresent {
			t.Errorf("expected AlreadyPresent, got %s", outcome)
		}
		if len(ledger.Sheets["2025"]) != 1 || ledger.Writes != 1 {
			t.Errorf("expected one row from one write, got %d rows / %d writes", len(ledger.Sheets["2025"]), ledger.Writes)
		}
	})

	t.Run("matching is exact", func(t *testing.T) {
		ledger := tu.NewFakeLedger()
		ledger.Sheets["2025"] = []models.LedgerRow{{Artista: "band", Titolo: "record"}}
		recorder := NewLedgerRecorder(newCatalog(), ledger, opts, testLogger())

		outcome, _, err := recorder.AddEntry(ctx, albumRef, "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if outcome != models.Added {
			t.Errorf("expected case variant to be added, got %s", outcome)
		}
	})

	t.Run("wrong year leaves the ledger untouched", func(t *testing.T) {
		ledger := tu.NewFakeLedger("2024")
		recorder := NewLedgerRecorder(newCatalog(), ledger, LedgerOptions{Year: "2024"}, testLogger())

		outcome, meta, err := recorder.AddEntry(ctx, albumRef, "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if outcome != models.WrongYear {
			t.Errorf("expected WrongYear, got %s", outcome)
		}
		if meta.Year != "2025" {
			t.Errorf("expected metadata year 2025, got %s", meta.Year)
		}
		if ledger.Writes != 0 || len(ledger.Sheets["2024"]) != 0 {
			t.Errorf("expected no mutation, got %d writes", ledger.Writes)
		}
	})

	t.Run("sandbox skips the year gate", func(t *testing.T) {
		ledger := tu.NewFakeLedger()
		recorder := NewLedgerRecorder(newCatalog(), ledger, LedgerOptions{Year: "1999", Sandbox: "test"}, testLogger())

		outcome, _, err := recorder.AddEntry(ctx, albumRef, "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if outcome != models.Added {
			t.Errorf("expected Added, got %s", outcome)
		}
		if len(ledger.Sheets["test"]) != 1 || len(ledger.Sheets["1999"]) != 0 {
			t.Errorf("expected row in sandbox only, got %+v", ledger.Sheets)
		}
		if recorder.Partition() != "test" {
			t.Errorf("expected sandbox partition, got %s", recorder.Partition())
		}
	})

	t.Run("locks the partition around the write", func(t *testing.T) {
		locker := &recordingLocker{}
		recorder := NewLedgerRecorder(newCatalog(), tu.NewFakeLedger(), LedgerOptions{Year: "2025", Locker: locker}, testLogger())

		if _, _, err := recorder.AddEntry(ctx, albumRef, ""); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(locker.locked) != 1 || locker.locked[0] != "2025" || locker.released != 1 {
			t.Errorf("unexpected locking %+v", locker)
		}
	})

	t.Run("lock failure writes nothing", func(t *testing.T) {
		ledger := tu.NewFakeLedger()
		locker := &recordingLocker{err: shared.ErrLockTimeout}
		recorder := NewLedgerRecorder(newCatalog(), ledger, LedgerOptions{Year: "2025", Locker: locker}, testLogger())

		if _, _, err := recorder.AddEntry(ctx, albumRef, ""); !errors.Is(err, shared.ErrLockTimeout) {
			t.Errorf("expected ErrLockTimeout, got %v", err)
		}
		if ledger.Writes != 0 {
			t.Errorf("expected no writes, got %d", ledger.Writes)
		}
	})

	t.Run("store failures propagate", func(t *testing.T) {
		catalogFail := &tu.FakeCatalog{Err: shared.ErrCatalogUnavailable}
		if _, _, err := NewLedgerRecorder(catalogFail, tu.NewFakeLedger(), opts, testLogger()).AddEntry(ctx, albumRef, ""); !errors.Is(err, shared.ErrCatalogUnavailable) {
			t.Errorf("expected catalog error, got %v", err)
		}

		readFail := &tu.FakeLedger{ReadErr: shared.ErrPartitionNotFound}
		if _, _, err := NewLedgerRecorder(newCatalog(), readFail, opts, testLogger()).AddEntry(ctx, albumRef, ""); !errors.Is(err, shared.ErrPartitionNotFound) {
			t.Errorf("expected read error, got %v", err)
		}

		writeFail := &tu.FakeLedger{WriteErr: shared.ErrLedgerUnavailable}
		if _, _, err := NewLedgerRecorder(newCatalog(), writeFail, opts, testLogger()).AddEntry(ctx, albumRef, ""); !errors.Is(err, shared.ErrLedgerUnavailable) {
			t.Errorf("expected write error, got %v", err)
		}
	})
}
