package runtime

import (
	"context"
	stderrors "errors"
	"karaoke-queue/contract"
	"karaoke-queue/domain"
	"karaoke-queue/domain/event"
	"karaoke-queue/mocks"
	"karaoke-queue/projection"
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	participantA = domain.NewParticipant("a", "A")
	participantB = domain.NewParticipant("b", "B")
	participantC = domain.NewParticipant("c", "C")
)

// recordingRenderer keeps every snapshot it was asked to display.
type recordingRenderer struct {
	snapshots []projection.Snapshot
	onRender  func()
	err       error
}

func (r *recordingRenderer) Render(_ context.Context, snapshot projection.Snapshot) error {
	r.snapshots = append(r.snapshots, snapshot)
	if r.onRender != nil {
		r.onRender()
	}
	return r.err
}

func (r *recordingRenderer) last() projection.Snapshot {
	return r.snapshots[len(r.snapshots)-1]
}

type panickingRenderer struct{}

func (panickingRenderer) Render(context.Context, projection.Snapshot) error {
	panic("scene layer crashed")
}

func newTestController(renderer contract.Renderer, publisher contract.EventPublisher) *QueueController {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	return NewQueueController(log, "session-1", domain.NewParticipantQueue(),
		NewMutationGate(), projection.NewBoard(nil), renderer, publisher)
}

func TestQueueController_Join_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	renderer := &recordingRenderer{}
	controller := newTestController(renderer, nil)

	// Given an empty queue
	// When A joins, B joins, then A joins again
	controller.OnJoinRequested(ctx, participantA)
	controller.OnJoinRequested(ctx, participantB)
	controller.OnJoinRequested(ctx, participantA)

	// Then the queue is [A, B]
	req.Equal([]domain.Participant{participantA, participantB}, controller.Participants())
	// And the duplicate join did not trigger a render
	req.Len(renderer.snapshots, 2)
	req.Equal([]string{"1. A << Get Ready!", "2. B"}, renderer.last().Labels())
}

func TestQueueController_Remove_Middle_Keeps_Order(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	renderer := &recordingRenderer{}
	controller := newTestController(renderer, nil)
	controller.OnJoinRequested(ctx, participantA)
	controller.OnJoinRequested(ctx, participantB)
	controller.OnJoinRequested(ctx, participantC)

	// When B is removed
	controller.OnLeaveOrRemoveRequested(ctx, participantB.ID)

	// Then A and C keep their relative order and A is still the head
	req.Equal([]domain.Participant{participantA, participantC}, controller.Participants())
	head, ok := renderer.last().Head()
	req.True(ok)
	req.Equal(participantA.ID, head.ParticipantID)
}

func TestQueueController_Disconnect_Last_Participant(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	renderer := &recordingRenderer{}
	controller := newTestController(renderer, nil)
	controller.OnJoinRequested(ctx, participantA)

	// When A disconnects
	controller.OnParticipantDisconnected(ctx, participantA.ID)

	// Then the queue is empty and the board has no rows
	req.Empty(controller.Participants())
	req.Len(renderer.snapshots, 2)
	req.Empty(renderer.last().Rows)
}

func TestQueueController_Removing_Unknown_Participant_Does_Not_Render(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	renderer := mocks.NewMockRenderer(ctrl)
	publisher := mocks.NewMockEventPublisher(ctrl)
	controller := newTestController(renderer, publisher)

	// Given nothing is queued, no render and no event are expected
	renderer.EXPECT().Render(gomock.Any(), gomock.Any()).Times(0)
	publisher.EXPECT().Publish(gomock.Any()).Times(0)

	controller.OnLeaveOrRemoveRequested(context.Background(), "ghost")
	controller.OnParticipantDisconnected(context.Background(), "ghost")
}

func TestQueueController_Publishes_Events(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()
	publisher := mocks.NewMockEventPublisher(ctrl)
	controller := newTestController(&recordingRenderer{}, publisher)

	var published []event.DomainEvent
	publisher.EXPECT().Publish(gomock.Any()).
		Do(func(e event.DomainEvent) { published = append(published, e) }).
		Times(4)

	controller.OnJoinRequested(ctx, participantA)
	controller.OnJoinRequested(ctx, participantB)
	controller.OnJoinRequested(ctx, participantB)
	controller.OnLeaveOrRemoveRequested(ctx, participantA.ID)
	controller.OnParticipantDisconnected(ctx, participantB.ID)

	req.Len(published, 4)

	enqueued, ok := published[1].(event.ParticipantEnqueued)
	req.True(ok)
	req.Equal(participantB, enqueued.Participant)
	req.Equal(1, enqueued.Position)
	req.Equal(2, enqueued.QueueLength)
	req.Equal(domain.SessionID("session-1"), enqueued.SessionID())

	left, ok := published[2].(event.ParticipantDequeued)
	req.True(ok)
	req.Equal(participantA.ID, left.ParticipantID)
	req.Equal(event.ReasonLeft, left.Reason)
	req.Equal(0, left.Position)
	req.Equal(1, left.QueueLength)

	disconnected, ok := published[3].(event.ParticipantDequeued)
	req.True(ok)
	req.Equal(event.ReasonDisconnected, disconnected.Reason)
	req.Equal(0, disconnected.QueueLength)
}

func TestQueueController_Render_Error_Keeps_State(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	renderer := &recordingRenderer{err: stderrors.New("scene unavailable")}
	controller := newTestController(renderer, nil)

	// When the renderer fails
	controller.OnJoinRequested(ctx, participantA)

	// Then the mutation is kept and the gate is released
	req.Equal([]domain.Participant{participantA}, controller.Participants())
	req.Equal(GateIdle, controller.gate.State())

	// And the next mutation goes through
	renderer.err = nil
	controller.OnJoinRequested(ctx, participantB)
	req.Len(controller.Participants(), 2)
	req.Len(renderer.snapshots, 2)
}

func TestQueueController_Render_Panic_Is_Contained(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	controller := newTestController(panickingRenderer{}, nil)

	req.NotPanics(func() {
		controller.OnJoinRequested(ctx, participantA)
		controller.OnJoinRequested(ctx, participantB)
	})

	req.Equal([]domain.Participant{participantA, participantB}, controller.Participants())
	req.Equal(GateIdle, controller.gate.State())
}

func TestQueueController_Nested_Mutation_From_Render_Is_Dropped(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	renderer := &recordingRenderer{}
	controller := newTestController(renderer, nil)
	controller.OnJoinRequested(ctx, participantA)

	// Given a renderer that triggers new mutations while displaying
	renderer.onRender = func() {
		controller.OnJoinRequested(ctx, participantC)
		controller.OnLeaveOrRemoveRequested(ctx, participantA.ID)
		controller.OnParticipantDisconnected(ctx, participantA.ID)
	}

	// When B joins
	controller.OnJoinRequested(ctx, participantB)

	// Then the nested requests were dropped
	req.Equal([]domain.Participant{participantA, participantB}, controller.Participants())
	req.Len(renderer.snapshots, 2)
	req.Equal(GateIdle, controller.gate.State())
}

func TestQueueController_Refresh(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	renderer := &recordingRenderer{}
	controller := newTestController(renderer, nil)

	// Refreshing an empty queue renders an empty board
	controller.Refresh(ctx)
	req.Len(renderer.snapshots, 1)
	req.Empty(renderer.last().Rows)

	controller.OnJoinRequested(ctx, participantA)
	controller.Refresh(ctx)
	req.Len(renderer.snapshots, 3)
	req.Equal([]string{"1. A << Get Ready!"}, renderer.last().Labels())
	req.Equal([]domain.Participant{participantA}, controller.Participants())
}

type maskFilter struct{}

func (maskFilter) Censor(string) string { return "***" }

func TestQueueController_Snapshot_Is_Last_Rendered(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	renderer := &recordingRenderer{}
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	controller := NewQueueController(log, "session-1", domain.NewParticipantQueue(),
		NewMutationGate(), projection.NewBoard(maskFilter{}), renderer, nil)

	// Given nothing rendered yet
	req.Empty(controller.Snapshot().Rows)

	// When A and B join through a filtering board
	controller.OnJoinRequested(ctx, participantA)
	controller.OnJoinRequested(ctx, participantB)

	// Then the snapshot is the one the renderer received
	req.Equal(renderer.last(), controller.Snapshot())
	req.Equal([]string{"1. *** << Get Ready!", "2. ***"}, controller.Snapshot().Labels())
}
