package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrUnauthorized     = fmt.Errorf("sender not authorized")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// Remote store errors
	ErrCatalogUnavailable = fmt.Errorf("catalog unavailable")
	ErrQueueUnavailable   = fmt.Errorf("queue unavailable")
	ErrLedgerUnavailable  = fmt.Errorf("ledger unavailable")
	ErrPartitionNotFound  = fmt.Errorf("ledger partition not found")
	ErrChatUnavailable    = fmt.Errorf("chat transport unavailable")

	// Pipeline errors
	ErrEmptyAlbum       = fmt.Errorf("album has no tracks")
	ErrInvalidReference = fmt.Errorf("invalid entity reference")
	ErrLockTimeout      = fmt.Errorf("timed out waiting for ledger lock")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
