// Package models defines domain entities for the classificone link intake bot.
//
// The package contains two categories of types:
//
// 1. Pipeline values: immutable or short-lived structs passed between pipeline stages
//   - [EntityReference] : a located catalog entity with its canonical URI
//   - [TrackCandidate] : a track with popularity, considered by the selector
//   - [AlbumMetadata] : artist, title, release type and year used for ledger rows
//   - [LedgerRow] : one ledger entry in [LedgerColumns] order
//   - [Outcome] : Added, AlreadyPresent or WrongYear
//
// 2. Persistent entities
//   - [Submission] : history of each handled link and the outcome for each sink
package models
