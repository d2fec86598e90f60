package runtime

import (
	"context"
	"fmt"
	"karaoke-queue/contract"
	"karaoke-queue/domain"
	"karaoke-queue/errors"
	"log/slog"
)

// Session translates host events into queue operations.
// It knows who is connected, who may remove which row, and whether the
// session has started. It is driven by a single goroutine and is not safe
// for concurrent use.
type Session struct {
	id         domain.SessionID
	log        *slog.Logger
	controller contract.IQueueController
	observer   contract.LifecycleObserver
	users      map[domain.ParticipantID]domain.User
	started    bool
	stopped    bool
}

// NewSession creates a session over controller. observer may be nil.
func NewSession(log *slog.Logger, id domain.SessionID, controller contract.IQueueController,
	observer contract.LifecycleObserver) *Session {
	return &Session{
		id:         id,
		log:        log.With("session_id", id),
		controller: controller,
		observer:   observer,
		users:      make(map[domain.ParticipantID]domain.User),
	}
}

func (s *Session) ID() domain.SessionID { return s.id }

func (s *Session) Started() bool { return s.started }

func (s *Session) Stopped() bool { return s.stopped }

// Handle applies one host command. Returned errors describe why a command was
// ignored, they never leave the queue in an inconsistent state.
func (s *Session) Handle(ctx context.Context, cmd domain.Command) error {
	switch c := cmd.(type) {
	case domain.StartSessionCommand:
		s.start(ctx)
	case domain.StopSessionCommand:
		s.stop()
	case domain.UserJoinedCommand:
		return s.userJoined(c.User)
	case domain.UserLeftCommand:
		delete(s.users, c.UserID)
		s.controller.OnParticipantDisconnected(ctx, c.UserID)
	case domain.JoinClickedCommand:
		return s.joinClicked(ctx, c.UserID)
	case domain.LeaveClickedCommand:
		if !s.started {
			return errors.ErrSessionNotStarted
		}
		s.controller.OnLeaveOrRemoveRequested(ctx, c.UserID)
	case domain.RemoveClickedCommand:
		return s.removeClicked(ctx, c)
	default:
		return fmt.Errorf("%w: %T", errors.ErrUnknownCommand, cmd)
	}
	return nil
}

func (s *Session) start(ctx context.Context) {
	if s.started {
		return
	}
	s.started = true
	s.stopped = false
	s.log.Info("Session started")
	if s.observer != nil {
		s.observer.SessionStarted(s.id)
	}
	s.controller.Refresh(ctx)
}

func (s *Session) stop() {
	s.started = false
	s.stopped = true
	s.log.Info("Session stopped", "queued", len(s.controller.Participants()))
	if s.observer != nil {
		s.observer.SessionStopped(s.id)
	}
}

func (s *Session) userJoined(user domain.User) error {
	if err := domain.ValidateParticipant(user.Participant); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidParticipant, err)
	}
	s.users[user.ID] = user
	s.log.Debug("User connected", "user_id", user.ID, "moderator", user.IsModerator())
	return nil
}

func (s *Session) joinClicked(ctx context.Context, userID domain.ParticipantID) error {
	if !s.started {
		return errors.ErrSessionNotStarted
	}
	user, ok := s.users[userID]
	if !ok {
		s.log.Debug("Join click from an unknown user", "user_id", userID)
		return nil
	}
	s.controller.OnJoinRequested(ctx, user.Participant)
	return nil
}

// removeClicked only honours the click of the row owner or of a moderator.
func (s *Session) removeClicked(ctx context.Context, cmd domain.RemoveClickedCommand) error {
	if !s.started {
		return errors.ErrSessionNotStarted
	}
	if cmd.ClickerID != cmd.RowParticipantID && !s.users[cmd.ClickerID].IsModerator() {
		s.log.Debug("Remove click ignored, clicker does not own the row",
			"clicker_id", cmd.ClickerID, "row_participant_id", cmd.RowParticipantID)
		return nil
	}
	s.controller.OnLeaveOrRemoveRequested(ctx, cmd.RowParticipantID)
	return nil
}
