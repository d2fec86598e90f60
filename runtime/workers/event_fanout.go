package workers

import (
	"context"
	"fmt"
	"karaoke-queue/contract"
	"karaoke-queue/domain/event"
	"log/slog"
	"time"
)

// EventFanout broadcasts domain events to in-process sinks.
//
// It provides best-effort fan-out with no guarantees regarding delivery,
// durability, or retries. EventFanout is not a message broker.
// It is intended for side effects (journal, logs), never for queue logic.
type EventFanout struct {
	log         *slog.Logger
	events      chan event.DomainEvent
	sinks       []contract.EventSink
	sinkTimeout time.Duration
}

func NewEventFanout(log *slog.Logger, bufferSize int, sinkTimeout time.Duration, sinks ...contract.EventSink) *EventFanout {
	return &EventFanout{
		log:         log,
		events:      make(chan event.DomainEvent, bufferSize),
		sinks:       sinks,
		sinkTimeout: sinkTimeout,
	}
}

// Publish never blocks: when the buffer is full the event is lost.
func (w *EventFanout) Publish(evt event.DomainEvent) {
	select {
	case w.events <- evt:
	default:
		w.log.Warn("Event buffer full, dropping event", "session_id", evt.SessionID())
	}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case evt := <-w.events:
			w.Fanout(ctx, evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping event fanout")
			w.drain()
			return nil
		}
	}
}

// drain hands what is still buffered to the sinks once the fanout is canceled.
func (w *EventFanout) drain() {
	for {
		select {
		case evt := <-w.events:
			w.Fanout(context.Background(), evt)
		default:
			return
		}
	}
}

// Fanout hands evt to every sink, each one bounded by sinkTimeout.
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	for _, sink := range w.sinks {
		sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
		if err := sink.Consume(sinkCtx, evt); err != nil {
			w.log.Warn("Sink failed to consume event",
				"sink", fmt.Sprintf("%T", sink), "session_id", evt.SessionID(), "error", err)
		}
		cancel()
	}
}

func (w *EventFanout) Len() int { return len(w.events) }

func (w *EventFanout) Cap() int { return cap(w.events) }
