package domain

import (
	"slices"

	"github.com/go-playground/validator/v10"
)

const RoleModerator = "moderator"

var validate = validator.New()

// User is a connected member of the session. Being connected does not mean
// being in the queue.
type User struct {
	Participant
	Roles []string
}

func NewUser(id, name string, roles ...string) User {
	return User{Participant: NewParticipant(id, name), Roles: roles}
}

func (u User) IsModerator() bool {
	return slices.Contains(u.Roles, RoleModerator)
}

// ValidateParticipant checks the participant as delivered by the host.
func ValidateParticipant(p Participant) error {
	return validate.Struct(p)
}
