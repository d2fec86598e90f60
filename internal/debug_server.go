package internal

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"karaoke-queue/domain"
	"karaoke-queue/infrastructure/storage"
	"karaoke-queue/projection"

	"github.com/samber/lo"
)

//go:embed inspect.html
var templatesFS embed.FS

const InspectEndpoint = "/inspect"

type InspectRow struct {
	Key       string
	Kind      string
	Timestamp string
	EntityID  string
	Session   string
	Detail    string
}

type StatsProvider func() map[string]any

// SnapshotProvider returns the board as last rendered.
type SnapshotProvider func() projection.Snapshot

type PageData struct {
	Session string
	Board   []string
	Items   []InspectRow
	Stats   map[string]any
	Error   string
}

// NewInspectHandler serves the live board and the newest journal entries of
// the session given by the "session" query parameter (all sessions if empty).
func NewInspectHandler(journal storage.IJournalRepository, snapshot SnapshotProvider, stats StatsProvider) http.Handler {
	tmpl := template.Must(template.ParseFS(templatesFS, "inspect.html"))
	mux := http.NewServeMux()

	mux.HandleFunc(InspectEndpoint, func(w http.ResponseWriter, r *http.Request) {
		session := domain.SessionID(r.URL.Query().Get("session"))
		data := PageData{
			Session: string(session),
			Board:   boardLabels(snapshot),
			Stats:   make(map[string]any),
		}
		if stats != nil {
			data.Stats = stats()
		}

		entries, _, err := journal.List(session, nil)
		if err != nil {
			data.Error = err.Error()
		}
		data.Items = lo.Map(entries, func(e storage.JournalEntry, _ int) InspectRow {
			return ToInspectRow(e)
		})

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, data)
	})

	mux.HandleFunc("/api/board", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(boardLabels(snapshot))
	})

	return mux
}

// StartDebugServer listens on every interface. Close the returned server to stop it.
func StartDebugServer(log *slog.Logger, port int, handler http.Handler) *http.Server {
	server := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("Debug server stopped", "error", err)
		}
	}()
	log.Info("Debug inspector available", "url", fmt.Sprintf("http://localhost:%d%s", port, InspectEndpoint))
	return server
}

func ToInspectRow(e storage.JournalEntry) InspectRow {
	row := InspectRow{
		Key:       storage.JournalKey(e),
		Kind:      string(e.Kind),
		Timestamp: e.At.Format("15:04:05"),
		EntityID:  string(e.ParticipantID),
		Session:   string(e.Session),
		Detail:    e.Name + " at " + strconv.Itoa(e.Position+1) + "/" + strconv.Itoa(e.QueueLength),
	}
	if e.Reason != "" {
		row.Detail += " (" + e.Reason + ")"
	}
	return row
}

func boardLabels(snapshot SnapshotProvider) []string {
	if snapshot == nil {
		return []string{}
	}
	return snapshot().Labels()
}
