// Package services implements the remote stores and the chat boundary the intake pipeline talks to.
//
// # Spotify
//
// [SpotifyCatalog] resolves an entity reference into candidate tracks and album metadata.
// [SpotifyPlaylist] is the playback queue. Both share one [*spotify.Client] built over
// [NewSpotifyHTTPClient], which refreshes the stored user token and rate limits every request.
// Refreshed tokens are handed to a callback so the CLI can persist them.
//
// # Google Sheets
//
// [SheetsLedger] keeps one worksheet per partition (release year). Partitions are read whole and written
// back from A1, header included. A range that does not parse is reported as [shared.ErrPartitionNotFound].
//
// # Telegram
//
// [TelegramBot] long-polls getUpdates and emits plain text messages. Commands and non-text updates are dropped.
// Replies are threaded to the originating message.
//
// # Error Handling
//
// Failures are wrapped with a sentinel from the shared package:
//   - [shared.ErrCatalogUnavailable] : catalog lookups
//   - [shared.ErrQueueUnavailable] : playlist reads and writes
//   - [shared.ErrLedgerUnavailable] : spreadsheet reads and writes
//   - [shared.ErrChatUnavailable] : Telegram requests
//   - [shared.ErrNotAuthenticated] : no Spotify token stored
package services
