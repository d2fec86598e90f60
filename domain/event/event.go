package event

import (
	"karaoke-queue/domain"
	"time"

	"github.com/google/uuid"
)

type DomainEvent interface {
	SessionID() domain.SessionID
	OccurredAt() time.Time
}

type DequeueReason string

const (
	ReasonLeft         DequeueReason = "left"
	ReasonDisconnected DequeueReason = "disconnected"
)

// ParticipantEnqueued is published once a participant has been appended.
// Position is 0-based.
type ParticipantEnqueued struct {
	ID          uuid.UUID
	Session     domain.SessionID
	Participant domain.Participant
	Position    int
	QueueLength int
	At          time.Time
}

func (e ParticipantEnqueued) SessionID() domain.SessionID { return e.Session }
func (e ParticipantEnqueued) OccurredAt() time.Time       { return e.At }

// ParticipantDequeued is published once a participant has been removed.
// Position is the place it held before removal.
type ParticipantDequeued struct {
	ID            uuid.UUID
	Session       domain.SessionID
	ParticipantID domain.ParticipantID
	Reason        DequeueReason
	Position      int
	QueueLength   int
	At            time.Time
}

func (e ParticipantDequeued) SessionID() domain.SessionID { return e.Session }
func (e ParticipantDequeued) OccurredAt() time.Time       { return e.At }
