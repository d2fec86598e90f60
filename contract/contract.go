//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"karaoke-queue/domain"
	"karaoke-queue/domain/event"
	"karaoke-queue/projection"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// EventPublisher never blocks the caller.
type EventPublisher interface {
	Publish(e event.DomainEvent)
}

// Renderer is the scene layer: it replaces the displayed rows with the snapshot.
type Renderer interface {
	Render(ctx context.Context, snapshot projection.Snapshot) error
}

type LifecycleObserver interface {
	SessionStarted(id domain.SessionID)
	SessionStopped(id domain.SessionID)
}

type IQueueController interface {
	OnJoinRequested(ctx context.Context, participant domain.Participant)
	OnLeaveOrRemoveRequested(ctx context.Context, participantID domain.ParticipantID)
	OnParticipantDisconnected(ctx context.Context, participantID domain.ParticipantID)
	Refresh(ctx context.Context)
	Participants() []domain.Participant
}

type ISession interface {
	Handle(ctx context.Context, cmd domain.Command) error
	Stopped() bool
}
