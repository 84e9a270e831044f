// Package tasks runs the intake pipeline for chat submissions.
//
// # Pipeline
//
// For every message [Coordinator.Handle]:
//
//  1. Rejects senders outside the allow-list with an "[x] Unauthorized" reply
//  2. Locates the first catalog link; messages without one are ignored silently.
//     The rest of the message becomes the ledger comment.
//  3. Runs the [QueueRecorder]: selects the most popular track ([SelectBest]) and appends it to the
//     queue unless its URI is already there
//  4. Runs the [LedgerRecorder]: gates on the operative release year, then appends an
//     (artist, title) row to that year's partition unless an identical pair exists
//  5. Records the submission in the optional [History] and composes the reply
//
// The recorders are independent. A failure in one is reported next to the other's outcome,
// never instead of it. Skipped writes ([models.AlreadyPresent], [models.WrongYear]) are outcomes, not errors.
//
// # Collaborators
//
// Stores are consumed through small interfaces declared here: [Catalog], [Queue], [Ledger], [History],
// [PartitionLocker] and [MessageSource]. The cmd package wires the Spotify, Sheets, SQLite and Telegram
// implementations; tests use the in-memory fakes from the testing package.
//
// # Progress Reporting
//
// [Coordinator.Run] emits a [ProgressUpdate] per phase on an optional channel.
// Updates use select with default so reporting never blocks the pipeline.
//
// # Listening
//
// [Listen] drains a [MessageSource] one message at a time. Each submission runs on a context detached
// from the receive loop, so shutting down never abandons a half-written ledger partition.
package tasks
