package domain

import (
	"slices"
	"sync"

	"github.com/samber/lo"
)

// ParticipantQueue is the ordered list of participants waiting for their turn.
// Position 0 holds the active turn. An ID appears at most once.
//
// Only Append and RemoveByID change the content. The lock only protects
// readers running on other goroutines, serialization of mutations is the
// job of the caller.
type ParticipantQueue struct {
	mu      sync.RWMutex
	entries []Participant
}

func NewParticipantQueue() *ParticipantQueue {
	return &ParticipantQueue{}
}

func (q *ParticipantQueue) Contains(id ParticipantID) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.indexOf(id) >= 0
}

// Append adds p at the end of the queue.
// It does nothing and returns false when p.ID is already queued.
func (q *ParticipantQueue) Append(p Participant) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.indexOf(p.ID) >= 0 {
		return false
	}
	q.entries = append(q.entries, p)
	return true
}

// RemoveByID removes the entry with the given ID, keeping the relative
// order of the others.
func (q *ParticipantQueue) RemoveByID(id ParticipantID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	idx := q.indexOf(id)
	if idx < 0 {
		return false
	}
	q.entries = slices.Delete(q.entries, idx, idx+1)
	return true
}

// ToOrderedList returns a copy of the queue, head first.
func (q *ParticipantQueue) ToOrderedList() []Participant {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return slices.Clone(q.entries)
}

// PositionOf returns the 0-based position of id, or -1.
func (q *ParticipantQueue) PositionOf(id ParticipantID) int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.indexOf(id)
}

func (q *ParticipantQueue) Head() (Participant, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if len(q.entries) == 0 {
		return Participant{}, false
	}
	return q.entries[0], true
}

func (q *ParticipantQueue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.entries)
}

func (q *ParticipantQueue) indexOf(id ParticipantID) int {
	_, idx, ok := lo.FindIndexOf(q.entries, func(p Participant) bool {
		return p.ID == id
	})
	if !ok {
		return -1
	}
	return idx
}
