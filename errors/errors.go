package errors

import "fmt"

var (
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrRenderPanic        = fmt.Errorf("renderer panic")
	ErrMutationInProgress = fmt.Errorf("queue mutation already in progress")
	ErrEmptyWords         = fmt.Errorf("no words have been found")
	ErrUnknownCommand     = fmt.Errorf("unknown host command")
	ErrInvalidParticipant = fmt.Errorf("invalid participant")
	ErrSessionNotStarted  = fmt.Errorf("session not started")
	ErrInvalidSessionID   = fmt.Errorf("invalid session id")
)
