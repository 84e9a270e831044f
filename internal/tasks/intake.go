package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/classificone/internal/locator"
	"github.com/desertthunder/classificone/internal/models"
	"github.com/desertthunder/classificone/internal/shared"
)

// Reply texts sent back to the submitter.
const (
	ReplyAdded                = "Added to the playlist and in the list! :)"
	ReplyTrackAlreadyQueued   = "[!] Best track already in playlist."
	ReplyAlbumAlreadyInLedger = "[!] Album already in the ledger."
	ReplyQueuedOnly           = "Added to the playlist."
	ReplyLedgerOnly           = "Added to the list."
	replyWrongYear            = "[!] Album not released in %s."
	replyUnauthorized         = "[x] Unauthorized chat_id: %s."
	replySinkFailed           = "[x] Could not update the %s: %v"
)

// Reply is the answer to one chat message. A silent reply is not sent.
type Reply struct {
	Text   string
	Silent bool
}

// SinkError ties a recorder failure to the sink it came from.
type SinkError struct {
	Sink string
	Err  error
}

func (e *SinkError) Error() string { return e.Sink + ": " + e.Err.Error() }
func (e *SinkError) Unwrap() error { return e.Err }

// Coordinator turns a chat message into queue and ledger writes and composes the reply.
type Coordinator struct {
	auth    Authorizer
	queue   *QueueRecorder
	ledger  *LedgerRecorder
	history History
	logger  *log.Logger
}

// NewCoordinator wires the recorders. history may be nil.
func NewCoordinator(auth Authorizer, queue *QueueRecorder, ledger *LedgerRecorder, history History, logger *log.Logger) *Coordinator {
	return &Coordinator{auth: auth, queue: queue, ledger: ledger, history: history, logger: logger}
}

// Authorize returns [shared.ErrUnauthorized] for senders outside the allow-list.
func (c *Coordinator) Authorize(senderID string) error {
	if !c.auth.IsAllowed(senderID) {
		return fmt.Errorf("%w: chat_id %s", shared.ErrUnauthorized, senderID)
	}
	return nil
}

// Handle processes one message. See [Coordinator.Run].
func (c *Coordinator) Handle(ctx context.Context, senderID, text string) (Reply, error) {
	return c.Run(ctx, senderID, text, nil)
}

// Run processes one message and reports each phase on progress (which may be nil).
//
// Unauthorized senders get a rejection and nothing else happens. Messages without a link get a silent
// reply. Otherwise both recorders run even when the other fails; their errors are joined as
// [*SinkError] values and returned with the reply built from the sinks that did answer.
func (c *Coordinator) Run(ctx context.Context, senderID, text string, progress chan<- ProgressUpdate) (Reply, error) {
	logger := shared.WithLogger(c.logger, "sender", senderID)

	if err := c.Authorize(senderID); err != nil {
		logger.Warn("rejected message", "error", err)
		return Reply{Text: fmt.Sprintf(replyUnauthorized, senderID)}, nil
	}

	ref, comment, ok := locator.Locate(text)
	if !ok {
		logger.Debug("no link in message")
		return Reply{Silent: true}, nil
	}

	logger = shared.WithLogger(logger, "uri", ref.URI())
	logger.Info("submission received", "comment", comment)
	sendProgress(progress, locatedUpdate(ref))

	submission := models.NewSubmission(senderID, ref.URI(), comment)
	var errs []error

	queueOutcome, track, err := c.queue.AddBestTrack(ctx, ref, false)
	submission.Record(models.SinkQueue, queueOutcome, err)
	sendProgress(progress, queueUpdate(queueOutcome, track, err))
	if err != nil {
		logger.Error("queue recorder failed", "error", err)
		errs = append(errs, &SinkError{Sink: models.SinkQueue, Err: err})
	}

	ledgerOutcome, meta, err := c.ledger.AddEntry(ctx, ref, comment)
	submission.Record(models.SinkLedger, ledgerOutcome, err)
	sendProgress(progress, ledgerUpdate(ledgerOutcome, meta, err))
	if err != nil {
		logger.Error("ledger recorder failed", "error", err)
		errs = append(errs, &SinkError{Sink: models.SinkLedger, Err: err})
	}

	c.recordHistory(ctx, logger, submission, progress)

	return c.compose(queueOutcome, ledgerOutcome), errors.Join(errs...)
}

// recordHistory stores the submission; failures are logged only.
func (c *Coordinator) recordHistory(ctx context.Context, logger *log.Logger, s *models.Submission, progress chan<- ProgressUpdate) {
	if c.history == nil {
		return
	}
	if err := c.history.Record(ctx, s); err != nil {
		logger.Warn("failed to record submission history", "error", err)
		return
	}
	sendProgress(progress, historyUpdate(s))
}

// compose builds the outcome lines. A zero outcome means that sink failed; the other sink's
// success is then reported on its own line.
func (c *Coordinator) compose(queue, ledger models.Outcome) Reply {
	if queue == models.Added && ledger == models.Added {
		return Reply{Text: ReplyAdded}
	}

	var lines []string
	switch queue {
	case models.Added:
		if ledger == 0 {
			lines = append(lines, ReplyQueuedOnly)
		}
	case models.AlreadyPresent:
		lines = append(lines, ReplyTrackAlreadyQueued)
	}
	switch ledger {
	case models.Added:
		if queue == 0 {
			lines = append(lines, ReplyLedgerOnly)
		}
	case models.AlreadyPresent:
		lines = append(lines, ReplyAlbumAlreadyInLedger)
	case models.WrongYear:
		lines = append(lines, fmt.Sprintf(replyWrongYear, c.ledger.Year()))
	}
	return Reply{Text: strings.Join(lines, "\n")}
}

// ReplyText renders what the chat boundary sends for reply and the error returned with it:
// the reply lines followed by one "[x]" line per failed sink. Empty means nothing to send.
func ReplyText(reply Reply, err error) string {
	if reply.Silent {
		return ""
	}

	lines := []string{}
	if reply.Text != "" {
		lines = append(lines, reply.Text)
	}
	for _, sinkErr := range sinkErrors(err) {
		lines = append(lines, fmt.Sprintf(replySinkFailed, sinkErr.Sink, sinkErr.Err))
	}
	return strings.Join(lines, "\n")
}

func sinkErrors(err error) []*SinkError {
	if err == nil {
		return nil
	}

	var out []*SinkError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, sinkErrors(e)...)
		}
		return out
	}

	var sinkErr *SinkError
	if errors.As(err, &sinkErr) {
		return []*SinkError{sinkErr}
	}
	return []*SinkError{{Sink: "submission", Err: err}}
}
