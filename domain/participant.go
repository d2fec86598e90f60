// Package domain contains core concepts of the karaoke queue.
// This file defines Participant entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"strings"

	"github.com/rivo/uniseg"
)

const (
	// MaxDisplayNameLength is counted in user-perceived characters, not bytes.
	MaxDisplayNameLength = 23
	Ellipsis             = "..."
)

type ParticipantID string

// Participant is identified by ID only. Names are not unique.
type Participant struct {
	ID   ParticipantID `validate:"required"`
	Name string        `validate:"required,max=128"`
}

func NewParticipant(id, name string) Participant {
	return Participant{ID: ParticipantID(id), Name: name}
}

func (p Participant) DisplayName() string {
	return TruncateName(p.Name, MaxDisplayNameLength)
}

// TruncateName keeps the first max grapheme clusters of name and appends
// Ellipsis when anything was cut.
func TruncateName(name string, max int) string {
	if uniseg.GraphemeClusterCount(name) <= max {
		return name
	}
	var sb strings.Builder
	gr := uniseg.NewGraphemes(name)
	for n := 0; n < max && gr.Next(); n++ {
		sb.WriteString(gr.Str())
	}
	sb.WriteString(Ellipsis)
	return sb.String()
}
