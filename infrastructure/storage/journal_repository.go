//go:generate go run go.uber.org/mock/mockgen -source=journal_repository.go -destination=../../mocks/mock_journal_repository.go -package=mocks
package storage

import (
	"fmt"
	"karaoke-queue/domain"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const JournalPrefix = "evt:"

type EntryKind string

const (
	KindEnqueued EntryKind = "enqueued"
	KindDequeued EntryKind = "dequeued"
)

// JournalEntry is the stored trace of one effective queue mutation.
// The queue itself is never stored, only what happened to it.
type JournalEntry struct {
	ID            uuid.UUID
	Session       domain.SessionID
	Kind          EntryKind
	ParticipantID domain.ParticipantID
	Name          string
	Reason        string
	Position      int
	QueueLength   int
	At            time.Time
}

type IJournalRepository interface {
	Append(entry JournalEntry) error
	List(session domain.SessionID, cursor *string) ([]JournalEntry, *string, error)
}

type JournalRepository struct {
	db    *badger.DB
	log   *slog.Logger
	limit *int
}

func NewJournalRepository(db *badger.DB, log *slog.Logger, limit *int) *JournalRepository {
	return &JournalRepository{db: db, log: log, limit: limit}
}

// JournalKey is "evt:{session}:{timestamp_padded}:{uuid}".
// The 19-digit padding keeps entries of a session in chronological order and
// the uuid separates two entries written at the same nanosecond.
func JournalKey(entry JournalEntry) string {
	return fmt.Sprintf("%s%s:%019d:%s", JournalPrefix, entry.Session, entry.At.UnixNano(), entry.ID)
}

// SessionPrefix returns the key prefix of a session, or of every session when
// session is empty.
func SessionPrefix(session domain.SessionID) string {
	if session == "" {
		return JournalPrefix
	}
	return fmt.Sprintf("%s%s:", JournalPrefix, session)
}

func (r *JournalRepository) Append(entry JournalEntry) error {
	bytes, err := EncodeEntry(entry)
	if err != nil {
		return fmt.Errorf("encode journal entry: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(JournalKey(entry)), bytes)
	})
}

// List returns the entries of a session, newest first.
// The returned cursor is passed back to get the next page.
func (r *JournalRepository) List(session domain.SessionID, cursor *string) ([]JournalEntry, *string, error) {
	var entries []JournalEntry
	var lastKey string
	prefixStr := SessionPrefix(session)
	prefix := []byte(prefixStr)

	err := r.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Reverse iteration seeks the greatest key lower or equal to seekKey
		seekKey := append([]byte(prefixStr), 0xFF)
		if cursor != nil {
			seekKey = []byte(prefixStr + *cursor)
		}

		it.Seek(seekKey)
		if cursor != nil && it.ValidForPrefix(prefix) && string(it.Item().Key()) == prefixStr+*cursor {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if r.limit != nil && len(entries) == *r.limit {
				r.log.Debug(fmt.Sprintf("Maximum of %d journal entries reached", *r.limit))
				break
			}
			item := it.Item()
			key := string(item.Key()[len(prefix):])
			err := item.Value(func(value []byte) error {
				entry, err := DecodeEntry(value)
				if err != nil {
					return err
				}
				// "evt:a:" is also a prefix of the keys of session "a:b"
				if session != "" && entry.Session != session {
					return nil
				}
				entries = append(entries, entry)
				lastKey = key
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return entries, &lastKey, nil
}

// EncodeEntry serializes an entry as a protobuf Struct.
func EncodeEntry(entry JournalEntry) ([]byte, error) {
	s, err := structpb.NewStruct(map[string]any{
		"id":             entry.ID.String(),
		"session":        string(entry.Session),
		"kind":           string(entry.Kind),
		"participant_id": string(entry.ParticipantID),
		"name":           entry.Name,
		"reason":         entry.Reason,
		"position":       entry.Position,
		"queue_length":   entry.QueueLength,
		"at":             entry.At.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, err
	}
	return proto.Marshal(s)
}

func DecodeEntry(value []byte) (JournalEntry, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(value, &s); err != nil {
		return JournalEntry{}, err
	}
	fields := s.GetFields()
	id, err := uuid.Parse(fields["id"].GetStringValue())
	if err != nil {
		return JournalEntry{}, err
	}
	at, err := time.Parse(time.RFC3339Nano, fields["at"].GetStringValue())
	if err != nil {
		return JournalEntry{}, err
	}
	return JournalEntry{
		ID:            id,
		Session:       domain.SessionID(fields["session"].GetStringValue()),
		Kind:          EntryKind(fields["kind"].GetStringValue()),
		ParticipantID: domain.ParticipantID(fields["participant_id"].GetStringValue()),
		Name:          fields["name"].GetStringValue(),
		Reason:        fields["reason"].GetStringValue(),
		Position:      int(fields["position"].GetNumberValue()),
		QueueLength:   int(fields["queue_length"].GetNumberValue()),
		At:            at,
	}, nil
}
