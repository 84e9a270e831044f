// package models defines the data model for the link intake bot
package models

import (
	"fmt"
	"strings"
	"time"
)

// Model defines the base interface for persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Message is an inbound chat message.
type Message struct {
	SenderID  string
	ChatID    int64
	MessageID int
	Text      string
}

// Submission records one located link and what each sink did with it.
type Submission struct {
	id            string
	sequence      int
	SenderID      string
	URI           string
	Comment       string
	QueueOutcome  string
	LedgerOutcome string
	Error         string
	createdAt     time.Time
}

// NewSubmission creates a [Submission] stamped with the current time.
func NewSubmission(senderID, uri, comment string) *Submission {
	return &Submission{
		SenderID:  senderID,
		URI:       uri,
		Comment:   comment,
		createdAt: time.Now().UTC(),
	}
}

// RestoreSubmission rebuilds a persisted [Submission].
func RestoreSubmission(id string, sequence int, createdAt time.Time, s Submission) *Submission {
	s.id = id
	s.sequence = sequence
	s.createdAt = createdAt
	return &s
}

func (s *Submission) ID() string           { return s.id }
func (s *Submission) Sequence() int        { return s.sequence }
func (s *Submission) CreatedAt() time.Time { return s.createdAt }
func (s *Submission) SetID(id string)      { s.id = id }
func (s *Submission) SetSequence(seq int)  { s.sequence = seq }

// Validate requires a sender and a URI.
func (s *Submission) Validate() error {
	if strings.TrimSpace(s.SenderID) == "" {
		return fmt.Errorf("submission sender is required")
	}
	if strings.TrimSpace(s.URI) == "" {
		return fmt.Errorf("submission uri is required")
	}
	return nil
}

// Record stores a sink result: the outcome when err is nil, otherwise the error text.
func (s *Submission) Record(sink string, outcome Outcome, err error) {
	value := outcome.String()
	if err != nil {
		value = "error"
		if s.Error != "" {
			s.Error += "; "
		}
		s.Error += sink + ": " + err.Error()
	}

	switch sink {
	case SinkQueue:
		s.QueueOutcome = value
	case SinkLedger:
		s.LedgerOutcome = value
	}
}
