package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"karaoke-queue/infrastructure/storage"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestRun_PrintsNewestFirst(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()

	// Given a journal with two entries for the session
	db, err := badger.Open(badger.DefaultOptions(dir).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	repository := storage.NewJournalRepository(db, logs.GetLoggerFromLevel(slog.LevelDebug), nil)
	at := time.Date(2026, 3, 1, 21, 0, 0, 0, time.UTC)
	req.NoError(repository.Append(storage.JournalEntry{
		ID: uuid.New(), Session: "room", Kind: storage.KindEnqueued,
		ParticipantID: "a", Name: "Alice", QueueLength: 1, At: at,
	}))
	req.NoError(repository.Append(storage.JournalEntry{
		ID: uuid.New(), Session: "room", Kind: storage.KindDequeued,
		ParticipantID: "a", Name: "Alice", Reason: "left", At: at.Add(time.Minute),
	}))
	req.NoError(db.Close())

	// When printing the session journal
	var out bytes.Buffer
	err = run(Config{DBPath: dir, Session: "room", Limit: 10, LogLevel: "DEBUG"}, &out)

	// Then the dequeue comes before the enqueue
	req.NoError(err)
	text := out.String()
	req.Contains(text, "Alice")
	req.Less(strings.Index(text, "dequeued"), strings.Index(text, "enqueued"))
	req.NotContains(text, "More entries")
}
