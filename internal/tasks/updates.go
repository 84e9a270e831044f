package tasks

import (
	"fmt"

	"github.com/desertthunder/classificone/internal/models"
)

// ProgressUpdate represents a progress event while a submission moves through the pipeline.
//
// Used to send real-time updates to the CLI for display.
type ProgressUpdate struct {
	Phase   Phase  // Pipeline phase
	Step    int    // Current step number
	Total   int    // Total steps
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Pipeline phase enumeration
type Phase int

const (
	Locate Phase = iota
	RecordQueue
	RecordLedger
	RecordHistory
)

// submissionSteps counts the phases a located submission goes through.
const submissionSteps = 4

func (p Phase) String() string {
	switch p {
	case Locate:
		return "locate"
	case RecordQueue:
		return "record_queue"
	case RecordLedger:
		return "record_ledger"
	case RecordHistory:
		return "record_history"
	default:
		return ""
	}
}

func locatedUpdate(ref models.EntityReference) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Locate,
		Step:    1,
		Total:   submissionSteps,
		Message: fmt.Sprintf("Found %s", ref.URI()),
		Data:    ref,
	}
}

func queueUpdate(outcome models.Outcome, track models.TrackCandidate, err error) ProgressUpdate {
	u := ProgressUpdate{Phase: RecordQueue, Step: 2, Total: submissionSteps, Data: track}
	switch {
	case err != nil:
		u.Message = fmt.Sprintf("✗ queue: %v", err)
	default:
		u.Message = fmt.Sprintf("✓ queue: %s (%s, popularity %d)", outcome, track.Name, track.Popularity)
	}
	return u
}

func ledgerUpdate(outcome models.Outcome, meta models.AlbumMetadata, err error) ProgressUpdate {
	u := ProgressUpdate{Phase: RecordLedger, Step: 3, Total: submissionSteps, Data: meta}
	switch {
	case err != nil:
		u.Message = fmt.Sprintf("✗ ledger: %v", err)
	default:
		u.Message = fmt.Sprintf("✓ ledger: %s (%s - %s, %s)", outcome, meta.Artist, meta.Title, meta.Year)
	}
	return u
}

func historyUpdate(s *models.Submission) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RecordHistory,
		Step:    4,
		Total:   submissionSteps,
		Message: fmt.Sprintf("Recorded submission #%d", s.Sequence()),
		Data:    s,
	}
}
