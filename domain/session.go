package domain

import (
	"fmt"
	"strings"

	"karaoke-queue/errors"

	"github.com/google/uuid"
)

type SessionID string

func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

// ParseSessionID rejects ids containing ':', the journal key separator.
func ParseSessionID(id string) (SessionID, error) {
	if strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("%w: empty", errors.ErrInvalidSessionID)
	}
	if strings.Contains(id, ":") {
		return "", fmt.Errorf("%w: %q contains ':'", errors.ErrInvalidSessionID, id)
	}
	return SessionID(id), nil
}
