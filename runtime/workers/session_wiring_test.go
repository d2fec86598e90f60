package workers

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"karaoke-queue/domain"
	"karaoke-queue/host"
	"karaoke-queue/infrastructure/storage"
	"karaoke-queue/moderation"
	"karaoke-queue/projection"
	"karaoke-queue/runtime"
	"karaoke-queue/sink"
	"karaoke-queue/ui"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestSessionWiring_ScriptToJournal(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()

	// Given a fully wired session writing its events to a journal
	sessionID := domain.SessionID("room-7")
	journal := storage.NewJournalRepository(db, log, nil)
	fanout := NewEventFanout(log, 16, time.Second, sink.NewJournalSink(journal, log))
	moderator, _, err := moderation.NewDefaultModerator('*')
	req.NoError(err)
	var out bytes.Buffer
	console := ui.NewConsoleBoard(&out, false)
	controller := runtime.NewQueueController(log, sessionID, domain.NewParticipantQueue(),
		runtime.NewMutationGate(), projection.NewBoard(moderator), console, fanout)
	session := runtime.NewSession(log, sessionID, controller, nil)
	loop := NewSessionWorker(log, session, 16)

	sup := NewSupervisor(log, 10*time.Millisecond)
	sup.Add(loop)
	supDone := make(chan struct{})
	go func() {
		defer close(supDone)
		sup.Run(context.Background())
	}()
	pipeline := NewSupervisor(log, 10*time.Millisecond)
	pipeline.Add(fanout)
	pipelineDone := make(chan struct{})
	go func() {
		defer close(pipelineDone)
		pipeline.Run(context.Background())
	}()

	// When a host script is played
	script := strings.Join([]string{
		"join a",
		"start",
		"connect a Alice",
		"connect b Big Idiot",
		"moderator m Mod",
		"join a",
		"join b",
		"join a",
		"remove b a",
		"remove m b",
		"disconnect a",
		"stop",
	}, "\n")
	req.NoError(host.ReadScript(context.Background(), strings.NewReader(script), loop.Dispatch, log))

	select {
	case <-loop.Done():
	case <-time.After(5 * time.Second):
		req.Fail("Session was never stopped")
	}
	sup.Stop()
	<-supDone
	pipeline.Stop()
	<-pipelineDone

	// Then the queue is empty and every effective mutation was journaled
	req.Empty(controller.Participants())
	entries, _, err := journal.List(sessionID, nil)
	req.NoError(err)
	req.Len(entries, 4)
	summary := lo.Map(entries, func(e storage.JournalEntry, _ int) string {
		return string(e.Kind) + ":" + string(e.ParticipantID) + ":" + e.Reason
	})
	req.ElementsMatch([]string{
		"enqueued:a:",
		"enqueued:b:",
		"dequeued:b:left",
		"dequeued:a:disconnected",
	}, summary)

	// And the board was drawn on start and after each of the 4 mutations
	req.Equal(5, console.Renders())
	req.Contains(out.String(), "2. Big *****")
	req.NotContains(out.String(), "Idiot")
}
