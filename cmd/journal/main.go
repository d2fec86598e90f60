// Command journal prints the queue events recorded for a session, newest first.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"karaoke-queue/domain"
	"karaoke-queue/infrastructure/storage"

	"github.com/dgraph-io/badger/v4"
	"github.com/kelseyhightower/envconfig"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

type Config struct {
	DBPath   string `envconfig:"JOURNAL_DB" required:"true"`
	Session  string `envconfig:"SESSION"`
	Limit    int    `envconfig:"LIMIT" default:"50"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"WARN"`
}

func main() {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(2)
	}
	if err := run(cfg, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Journal error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg Config, out io.Writer) error {
	// Read-only so a running session keeps its lock
	opts := badger.DefaultOptions(cfg.DBPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	log := logs.GetLoggerFromString(cfg.LogLevel)
	repository := storage.NewJournalRepository(db, log, &cfg.Limit)
	entries, cursor, err := repository.List(domain.SessionID(cfg.Session), nil)
	if err != nil {
		return err
	}

	PrintEntries(out, entries)
	if cursor != nil && len(entries) == cfg.Limit {
		fmt.Fprintf(out, "\nMore entries before %s\n", *cursor)
	}
	return nil
}

func PrintEntries(out io.Writer, entries []storage.JournalEntry) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Time", "Session", "Kind", "Participant", "Name", "Position", "Length", "Reason"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	for _, e := range entries {
		table.Append([]string{
			e.At.Format(time.DateTime),
			string(e.Session),
			string(e.Kind),
			string(e.ParticipantID),
			e.Name,
			strconv.Itoa(e.Position + 1),
			strconv.Itoa(e.QueueLength),
			e.Reason,
		})
	}
	table.Render()
}
