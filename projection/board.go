// Package projection builds the display list of the queue board.
// It is a pure view over the queue: it never mutates it and keeps no state
// between two projections.
package projection

import (
	"fmt"
	"karaoke-queue/domain"

	"github.com/samber/lo"
)

const (
	HeadSuffix   = " << Get Ready!"
	HeadColor    = "#FFD400"
	NeutralColor = "#FFFFFF"
)

// Row is one line of the board. Position is 0-based.
type Row struct {
	Position      int
	Label         string
	IsHead        bool
	ParticipantID domain.ParticipantID
	Color         string
}

// Snapshot is the board as it must be displayed right after a mutation.
type Snapshot struct {
	Rows []Row
}

func (s Snapshot) Labels() []string {
	return lo.Map(s.Rows, func(r Row, _ int) string { return r.Label })
}

func (s Snapshot) Head() (Row, bool) {
	return lo.Find(s.Rows, func(r Row) bool { return r.IsHead })
}

// NameFilter rewrites a name before it reaches the board.
type NameFilter interface {
	Censor(name string) string
}

type Board struct {
	filter NameFilter
}

// NewBoard returns a board projector. filter may be nil.
func NewBoard(filter NameFilter) Board {
	return Board{filter: filter}
}

func (b Board) Project(participants []domain.Participant) Snapshot {
	rows := lo.Map(participants, func(p domain.Participant, i int) Row {
		if b.filter != nil {
			p.Name = b.filter.Censor(p.Name)
		}
		return toRow(p, i)
	})
	return Snapshot{Rows: rows}
}

// Project builds a snapshot without any name filtering.
func Project(participants []domain.Participant) Snapshot {
	return Board{}.Project(participants)
}

func toRow(p domain.Participant, i int) Row {
	row := Row{
		Position:      i,
		Label:         fmt.Sprintf("%d. %s", i+1, p.DisplayName()),
		ParticipantID: p.ID,
		Color:         NeutralColor,
	}
	if i == 0 {
		row.IsHead = true
		row.Label += HeadSuffix
		row.Color = HeadColor
	}
	return row
}
