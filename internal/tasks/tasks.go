// package tasks implements the intake pipeline: track selection, the queue and ledger recorders,
// the coordinator that runs both for a chat message, and the listener loop that feeds it.
package tasks

import (
	"context"

	"github.com/desertthunder/classificone/internal/models"
)

// Catalog resolves entity references. Implemented by services.SpotifyCatalog.
type Catalog interface {
	AlbumTracks(ctx context.Context, ref models.EntityReference) ([]models.TrackCandidate, error)
	Metadata(ctx context.Context, ref models.EntityReference) (models.AlbumMetadata, error)
}

// Queue is the playback queue. Implemented by services.SpotifyPlaylist.
type Queue interface {
	TrackURIs(ctx context.Context) ([]string, error)
	Append(ctx context.Context, uris ...string) error
}

// Ledger stores rows grouped into named partitions.
// Implemented by services.SheetsLedger and repositories.LedgerRepository.
type Ledger interface {
	ReadPartition(ctx context.Context, partition string) ([]models.LedgerRow, error)
	WritePartition(ctx context.Context, partition string, rows []models.LedgerRow) error
}

// History persists submissions. Implemented by repositories.SubmissionRepository.
type History interface {
	Record(ctx context.Context, s *models.Submission) error
}

// PartitionLocker serializes writers of one ledger partition. The returned func releases the lock.
type PartitionLocker interface {
	Lock(ctx context.Context, partition string) (func(), error)
}

// MessageSource is the chat boundary. Implemented by services.TelegramBot.
type MessageSource interface {
	Messages(ctx context.Context) (<-chan models.Message, error)
	Reply(ctx context.Context, msg models.Message, text string) error
}

// Authorizer decides which senders may submit. Implemented by shared.BotConfig.
type Authorizer interface {
	IsAllowed(senderID string) bool
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
