// Package runtime wires the queue state to the interaction events of a session.
// It owns the mutation discipline and contains no rendering or storage code.
package runtime

import (
	"context"
	"fmt"
	"karaoke-queue/contract"
	"karaoke-queue/domain"
	"karaoke-queue/domain/event"
	"karaoke-queue/errors"
	"karaoke-queue/projection"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// QueueController is the only writer of a session's ParticipantQueue.
// Every mutation and the render that follows it run inside the MutationGate.
// None of its operations report errors to the caller: duplicates, contention
// and render failures are absorbed and logged.
type QueueController struct {
	log       *slog.Logger
	session   domain.SessionID
	queue     *domain.ParticipantQueue
	gate      *MutationGate
	board     projection.Board
	renderer  contract.Renderer
	publisher contract.EventPublisher
	last      atomic.Pointer[projection.Snapshot]
}

// NewQueueController builds a controller over queue. publisher may be nil.
func NewQueueController(log *slog.Logger, session domain.SessionID,
	queue *domain.ParticipantQueue, gate *MutationGate, board projection.Board,
	renderer contract.Renderer, publisher contract.EventPublisher) *QueueController {
	return &QueueController{
		log:       log,
		session:   session,
		queue:     queue,
		gate:      gate,
		board:     board,
		renderer:  renderer,
		publisher: publisher,
	}
}

// OnJoinRequested appends participant at the end of the queue and re-renders.
// Joining twice is a no-op.
func (c *QueueController) OnJoinRequested(ctx context.Context, participant domain.Participant) {
	ran, err := c.gate.RunExclusive(func() error {
		if !c.queue.Append(participant) {
			c.log.Debug("Participant already queued", "participant_id", participant.ID)
			return nil
		}
		length := c.queue.Len()
		c.publish(event.ParticipantEnqueued{
			ID:          uuid.New(),
			Session:     c.session,
			Participant: participant,
			Position:    length - 1,
			QueueLength: length,
			At:          time.Now().UTC(),
		})
		return c.render(ctx)
	})
	c.report("join", participant.ID, ran, err)
}

// OnLeaveOrRemoveRequested removes the participant when asked from the board.
func (c *QueueController) OnLeaveOrRemoveRequested(ctx context.Context, participantID domain.ParticipantID) {
	c.remove(ctx, participantID, event.ReasonLeft)
}

// OnParticipantDisconnected removes a participant who left the session.
func (c *QueueController) OnParticipantDisconnected(ctx context.Context, participantID domain.ParticipantID) {
	c.remove(ctx, participantID, event.ReasonDisconnected)
}

// Refresh renders the current queue without mutating it.
func (c *QueueController) Refresh(ctx context.Context) {
	ran, err := c.gate.RunExclusive(func() error {
		return c.render(ctx)
	})
	c.report("refresh", "", ran, err)
}

func (c *QueueController) Participants() []domain.Participant {
	return c.queue.ToOrderedList()
}

// Snapshot returns the last snapshot handed to the renderer, or an empty one
// before the first render. Safe to call from any goroutine.
func (c *QueueController) Snapshot() projection.Snapshot {
	if s := c.last.Load(); s != nil {
		return *s
	}
	return projection.Snapshot{}
}

func (c *QueueController) remove(ctx context.Context, participantID domain.ParticipantID, reason event.DequeueReason) {
	ran, err := c.gate.RunExclusive(func() error {
		position := c.queue.PositionOf(participantID)
		if !c.queue.RemoveByID(participantID) {
			c.log.Debug("Participant not queued, nothing to remove",
				"participant_id", participantID, "reason", reason)
			return nil
		}
		c.publish(event.ParticipantDequeued{
			ID:            uuid.New(),
			Session:       c.session,
			ParticipantID: participantID,
			Reason:        reason,
			Position:      position,
			QueueLength:   c.queue.Len(),
			At:            time.Now().UTC(),
		})
		return c.render(ctx)
	})
	c.report(string(reason), participantID, ran, err)
}

// render must only be called while holding the gate.
// A panicking renderer is turned into ErrRenderPanic so that the queue keeps
// its post-mutation state.
func (c *QueueController) render(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errors.ErrRenderPanic, r)
		}
	}()
	snapshot := c.board.Project(c.queue.ToOrderedList())
	c.last.Store(&snapshot)
	return c.renderer.Render(ctx, snapshot)
}

func (c *QueueController) publish(evt event.DomainEvent) {
	if c.publisher == nil {
		return
	}
	c.publisher.Publish(evt)
}

func (c *QueueController) report(operation string, participantID domain.ParticipantID, ran bool, err error) {
	switch {
	case !ran:
		c.log.Debug("Queue mutation dropped, another one is in progress",
			"operation", operation, "participant_id", participantID)
	case err != nil:
		c.log.Warn("Queue board not refreshed, display may be stale",
			"operation", operation, "participant_id", participantID, "error", err)
	}
}
