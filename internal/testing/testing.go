// package testing contains shared testing utilities and in-memory fakes for the pipeline stores
package testing

import (
	"context"
	"errors"
	"io"
	"maps"
	"os"
	"slices"
	"sync"
	"testing"

	"github.com/desertthunder/classificone/internal/models"
)

// Album is one catalog entry served by [FakeCatalog].
type Album struct {
	Tracks   []models.TrackCandidate
	Metadata models.AlbumMetadata
}

// FakeCatalog is a test double for tasks.Catalog keyed by entity URI.
type FakeCatalog struct {
	Albums map[string]Album
	Err    error

	TrackCalls    int
	MetadataCalls int
}

func (c *FakeCatalog) AlbumTracks(_ context.Context, ref models.EntityReference) ([]models.TrackCandidate, error) {
	c.TrackCalls++
	if c.Err != nil {
		return nil, c.Err
	}
	album, ok := c.Albums[ref.URI()]
	if !ok {
		return nil, errors.New("album not found")
	}
	return album.Tracks, nil
}

func (c *FakeCatalog) Metadata(_ context.Context, ref models.EntityReference) (models.AlbumMetadata, error) {
	c.MetadataCalls++
	if c.Err != nil {
		return models.AlbumMetadata{}, c.Err
	}
	album, ok := c.Albums[ref.URI()]
	if !ok {
		return models.AlbumMetadata{}, errors.New("album not found")
	}
	return album.Metadata, nil
}

// FakeQueue is an in-memory tasks.Queue.
type FakeQueue struct {
	URIs      []string
	ReadErr   error
	AppendErr error
	Appends   int
}

func (q *FakeQueue) TrackURIs(context.Context) ([]string, error) {
	if q.ReadErr != nil {
		return nil, q.ReadErr
	}
	return slices.Clone(q.URIs), nil
}

func (q *FakeQueue) Append(_ context.Context, uris ...string) error {
	if q.AppendErr != nil {
		return q.AppendErr
	}
	q.Appends++
	q.URIs = append(q.URIs, uris...)
	return nil
}

// Tracks returns the queued URIs as candidates without names or popularity.
func (q *FakeQueue) Tracks(ctx context.Context) ([]models.TrackCandidate, error) {
	uris, err := q.TrackURIs(ctx)
	if err != nil {
		return nil, err
	}
	tracks := make([]models.TrackCandidate, len(uris))
	for i, uri := range uris {
		tracks[i] = models.TrackCandidate{URI: uri}
	}
	return tracks, nil
}

// FakeLedger is an in-memory tasks.Ledger. Unknown partitions read empty unless Strict is set.
type FakeLedger struct {
	Sheets   map[string][]models.LedgerRow
	Strict   bool
	ReadErr  error
	WriteErr error
	Writes   int
}

// NewFakeLedger creates a ledger with the given partitions already present.
func NewFakeLedger(partitions ...string) *FakeLedger {
	l := &FakeLedger{Sheets: map[string][]models.LedgerRow{}}
	for _, p := range partitions {
		l.Sheets[p] = nil
	}
	return l
}

func (l *FakeLedger) ReadPartition(_ context.Context, partition string) ([]models.LedgerRow, error) {
	if l.ReadErr != nil {
		return nil, l.ReadErr
	}
	rows, ok := l.Sheets[partition]
	if !ok && l.Strict {
		return nil, errors.New("partition not found: " + partition)
	}
	return slices.Clone(rows), nil
}

func (l *FakeLedger) WritePartition(_ context.Context, partition string, rows []models.LedgerRow) error {
	if l.WriteErr != nil {
		return l.WriteErr
	}
	if l.Sheets == nil {
		l.Sheets = map[string][]models.LedgerRow{}
	}
	l.Writes++
	l.Sheets[partition] = slices.Clone(rows)
	return nil
}

// Partitions returns the partition names in sorted order.
func (l *FakeLedger) Partitions(_ context.Context) ([]string, error) {
	if l.ReadErr != nil {
		return nil, l.ReadErr
	}
	return slices.Sorted(maps.Keys(l.Sheets)), nil
}

// FakeHistory records submissions in memory.
type FakeHistory struct {
	Submissions []*models.Submission
	Err         error
}

func (h *FakeHistory) Record(_ context.Context, s *models.Submission) error {
	if h.Err != nil {
		return h.Err
	}
	s.SetSequence(len(h.Submissions) + 1)
	h.Submissions = append(h.Submissions, s)
	return nil
}

// List returns up to limit submissions, newest first. A limit of zero or less returns all.
func (h *FakeHistory) List(_ context.Context, limit int) ([]*models.Submission, error) {
	if h.Err != nil {
		return nil, h.Err
	}
	out := slices.Clone(h.Submissions)
	slices.Reverse(out)
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (h *FakeHistory) FindByURI(_ context.Context, uri string) ([]*models.Submission, error) {
	if h.Err != nil {
		return nil, h.Err
	}
	var out []*models.Submission
	for _, s := range h.Submissions {
		if s.URI == uri {
			out = append(out, s)
		}
	}
	return out, nil
}

// SentReply is a reply captured by [FakeChat].
type SentReply struct {
	To   models.Message
	Text string
}

// FakeChat is a tasks.MessageSource that emits Incoming and then closes, or blocks until
// its context is done when Hold is set.
type FakeChat struct {
	Incoming []models.Message
	Hold     bool
	ReplyErr error

	mu      sync.Mutex
	replies []SentReply
}

func (c *FakeChat) Messages(ctx context.Context) (<-chan models.Message, error) {
	out := make(chan models.Message)
	go func() {
		defer close(out)
		for _, m := range c.Incoming {
			select {
			case out <- m:
			case <-ctx.Done():
				return
			}
		}
		if c.Hold {
			<-ctx.Done()
		}
	}()
	return out, nil
}

func (c *FakeChat) Reply(_ context.Context, msg models.Message, text string) error {
	if c.ReplyErr != nil {
		return c.ReplyErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replies = append(c.replies, SentReply{To: msg, Text: text})
	return nil
}

// Replies returns a copy of the replies sent so far.
func (c *FakeChat) Replies() []SentReply {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.replies)
}

// AllowList authorizes the listed sender IDs.
type AllowList []string

func (a AllowList) IsAllowed(senderID string) bool { return slices.Contains(a, senderID) }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{maxWrites: maxWrites, target: target}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
