package sink

import (
	"context"
	"fmt"
	"karaoke-queue/domain/event"
	"karaoke-queue/infrastructure/storage"
	"log/slog"
)

// JournalSink records queue events in the session journal.
type JournalSink struct {
	repository storage.IJournalRepository
	log        *slog.Logger
}

func NewJournalSink(repository storage.IJournalRepository, log *slog.Logger) JournalSink {
	return JournalSink{repository: repository, log: log}
}

func (s JournalSink) Consume(ctx context.Context, e event.DomainEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch evt := e.(type) {
	case event.ParticipantEnqueued:
		return s.repository.Append(fromEnqueued(evt))
	case event.ParticipantDequeued:
		return s.repository.Append(fromDequeued(evt))
	default:
		s.log.Debug("Event not journaled", "type", fmt.Sprintf("%T", e))
	}
	return nil
}

func fromEnqueued(evt event.ParticipantEnqueued) storage.JournalEntry {
	return storage.JournalEntry{
		ID:            evt.ID,
		Session:       evt.Session,
		Kind:          storage.KindEnqueued,
		ParticipantID: evt.Participant.ID,
		Name:          evt.Participant.Name,
		Position:      evt.Position,
		QueueLength:   evt.QueueLength,
		At:            evt.At,
	}
}

func fromDequeued(evt event.ParticipantDequeued) storage.JournalEntry {
	return storage.JournalEntry{
		ID:            evt.ID,
		Session:       evt.Session,
		Kind:          storage.KindDequeued,
		ParticipantID: evt.ParticipantID,
		Reason:        string(evt.Reason),
		Position:      evt.Position,
		QueueLength:   evt.QueueLength,
		At:            evt.At,
	}
}
