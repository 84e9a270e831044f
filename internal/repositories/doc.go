// Package repositories implements SQLite persistence for the intake bot.
//
// Key Implementations:
//   - [LedgerRepository] : local ledger backend, one partition per release year, rows kept in position order
//   - [SubmissionRepository] : history of located submissions with the outcome of each sink
//
// A partition write replaces every row of that partition inside one transaction, mirroring the
// read-modify-write contract of the spreadsheet backend.
//
// Sequence numbers provide stable, human-readable ordering of submissions independent of UUIDs.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
