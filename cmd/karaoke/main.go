package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"karaoke-queue/domain"
	"karaoke-queue/host"
	"karaoke-queue/infrastructure/grpc/server"
	"karaoke-queue/infrastructure/storage"
	"karaoke-queue/internal"
	"karaoke-queue/moderation"
	"karaoke-queue/projection"
	"karaoke-queue/runtime"
	"karaoke-queue/runtime/workers"
	"karaoke-queue/sink"
	"karaoke-queue/ui"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Karaoke session terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires one session, reads the host script from stdin and blocks until
// the session is stopped, a signal is received or a server fails.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Database (BadgerDB)
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	sessionID := domain.NewSessionID()
	if config.SessionID != "" {
		if sessionID, err = domain.ParseSessionID(config.SessionID); err != nil {
			return exitConfig, err
		}
	}
	logger = logger.With("session_id", sessionID)

	// 3. Journal pipeline
	journal := storage.NewJournalRepository(db, logger, config.LimitEvents)
	fanout := workers.NewEventFanout(logger, config.BufferSize, config.SinkTimeout,
		sink.NewJournalSink(journal, logger))

	// 4. Board
	var filter projection.NameFilter
	if config.CensorNames {
		moderator, words, err := moderation.NewDefaultModerator(charReplacement)
		if err != nil {
			return exitRuntime, fmt.Errorf("failed to build moderator: %w", err)
		}
		logger.Info("Name moderation enabled", "words", len(words.Words), "languages", words.Languages)
		filter = moderator
	}
	console := ui.NewConsoleBoard(os.Stdout, config.ColoredBoard)

	// 5. Session
	gate := runtime.NewMutationGate()
	controller := runtime.NewQueueController(logger, sessionID, domain.NewParticipantQueue(),
		gate, projection.NewBoard(filter), console, fanout)
	health := server.NewHealthServer(logger)
	session := runtime.NewSession(logger, sessionID, controller, health)
	sessionWorker := workers.NewSessionWorker(logger, session, config.BufferSize)

	sup := workers.NewSupervisor(logger, config.RestartInterval)
	capacity := workers.NewChannelCapacityWorker(logger, []workers.NamedBuffer{
		{Name: "commands", Buffer: sessionWorker},
		{Name: "events", Buffer: fanout},
	}, config.MetricInterval, config.LowCapacity)
	sup.Add(sessionWorker, capacity)
	supDone := make(chan struct{})
	go func() {
		defer close(supDone)
		sup.Run(ctx)
	}()

	// The fanout outlives the session loop: it is only stopped once nothing can publish anymore.
	pipeline := workers.NewSupervisor(logger, config.RestartInterval)
	pipeline.Add(fanout)
	pipelineDone := make(chan struct{})
	go func() {
		defer close(pipelineDone)
		pipeline.Run(context.Background())
	}()
	shutdown := func() {
		health.GracefulStop()
		sup.Stop()
		<-supDone
		pipeline.Stop()
		<-pipelineDone
	}

	if config.DebugPort > 0 {
		stats := func() map[string]any {
			return map[string]any{
				"Gate":    gate.State().String(),
				"Queued":  len(controller.Participants()),
				"Renders": console.Renders(),
				"Time":    time.Now().Format(time.RFC822),
			}
		}
		debug := internal.StartDebugServer(logger, config.DebugPort,
			internal.NewInspectHandler(journal, controller.Snapshot, stats))
		defer func() { _ = debug.Close() }()
	}

	errChan := make(chan error, 2)

	// 6. gRPC health server
	address := net.JoinHostPort(config.Host, fmt.Sprint(config.Port))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		shutdown()
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	go func() {
		logger.Info("Starting gRPC health server", "address", address, "at", time.Now().UTC())
		if err := health.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	// 7. Host script
	go func() {
		if err := host.ReadScript(ctx, os.Stdin, sessionWorker.Dispatch, logger); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- fmt.Errorf("host script error: %w", err)
			return
		}
		logger.Debug("Host script finished")
	}()

	// 8. Wait for Stop or Error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case <-sessionWorker.Done():
		logger.Info("Session stopped by host")
	case err := <-errChan:
		shutdown()
		return exitRuntime, err
	}

	// 9. Graceful shutdown: the fanout drains into the journal before Badger closes.
	logger.Info("Shutting down gracefully...")
	shutdown()
	logger.Info("Program stopped cleanly")

	return exitOK, nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG)
	} else {
		options = options.WithLoggingLevel(badger.WARNING)
	}

	return options
}
