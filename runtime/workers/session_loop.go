package workers

import (
	"context"
	"karaoke-queue/contract"
	"karaoke-queue/domain"
	"log/slog"
	"sync"
)

// SessionWorker is the event loop of a session: every host command is handled
// on its goroutine, one at a time, in arrival order.
type SessionWorker struct {
	log      *slog.Logger
	session  contract.ISession
	commands chan domain.Command
	done     chan struct{}
	once     sync.Once
}

func NewSessionWorker(log *slog.Logger, session contract.ISession, bufferSize int) *SessionWorker {
	return &SessionWorker{
		log:      log,
		session:  session,
		commands: make(chan domain.Command, bufferSize),
		done:     make(chan struct{}),
	}
}

// Dispatch enqueues cmd without blocking. It returns false when the command
// was dropped because the loop is saturated.
func (w *SessionWorker) Dispatch(cmd domain.Command) bool {
	select {
	case w.commands <- cmd:
		return true
	default:
		w.log.Warn("Session command channel full, dropping command", "command", cmd.Name())
		return false
	}
}

// Done is closed once the session has been stopped.
func (w *SessionWorker) Done() <-chan struct{} {
	return w.done
}

func (w *SessionWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping session loop")
			return nil
		case cmd := <-w.commands:
			// select picks randomly when both cases are ready
			if ctx.Err() != nil {
				w.log.Debug("Stopping session loop, command not handled", "command", cmd.Name())
				return nil
			}
			if err := w.session.Handle(ctx, cmd); err != nil {
				w.log.Debug("Command ignored", "command", cmd.Name(), "reason", err)
			}
			if w.session.Stopped() {
				w.once.Do(func() { close(w.done) })
				return nil
			}
		}
	}
}

func (w *SessionWorker) Len() int { return len(w.commands) }

func (w *SessionWorker) Cap() int { return cap(w.commands) }
