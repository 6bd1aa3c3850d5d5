// server is the meetsched conflict-engine binary: an HTTP service that
// analyzes candidate meeting windows against booked meetings and
// applies chosen resolution suggestions.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"meetsched/internal/api"
	"meetsched/internal/api/handlers"
	"meetsched/internal/config"
	"meetsched/internal/logging"
	"meetsched/internal/schedule"
	"meetsched/internal/storage"
)

func main() {
	var (
		addr     = flag.String("addr", "", "listen address (overrides configured host:port)")
		memStore = flag.Bool("mem", false, "use the in-memory meeting store instead of SQLite")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.ParseLevel(cfg.Logging.Level))
	logging.SetDefault(logger)

	store, cleanup, err := openStore(cfg, *memStore, logger)
	if err != nil {
		logger.Error("failed to open meeting store", "error", err.Error())
		os.Exit(1)
	}
	defer cleanup()

	detector := schedule.NewDetector(cfg.Scheduler.BufferMinutes)
	slots := schedule.NewSlotSearch(schedule.SlotSearchConfig{
		GranularityMinutes: cfg.Scheduler.SlotGranularityMin,
		DayStartHour:       cfg.Scheduler.DayStartHour,
		DayEndHour:         cfg.Scheduler.DayEndHour,
		SearchDays:         cfg.Scheduler.SearchDays,
		MaxPerFutureDay:    cfg.Scheduler.MaxPerFutureDay,
		MinSameDay:         cfg.Scheduler.MinSameDaySlots,
		MaxResults:         cfg.Scheduler.MaxSuggestions,
	}, detector, store)
	resolver := schedule.NewResolver(store, detector, slots, logger)

	router := api.NewRouter(cfg, resolver, store, logger)

	listenAddr := *addr
	if listenAddr == "" {
		listenAddr = fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := runServer(ctx, router.Handler(), listenAddr, cfg, logger); err != nil {
		logger.Error("server failed", "error", err.Error())
		os.Exit(1)
	}
}

// openStore opens the configured meeting store and returns it with its
// cleanup function.
func openStore(cfg *config.Config, useMemory bool, logger logging.Logger) (handlers.MeetingStore, func(), error) {
	if useMemory {
		logger.Info("using in-memory meeting store")
		return storage.NewInMemoryRepository(), func() {}, nil
	}

	if dir := filepath.Dir(cfg.Database.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, fmt.Errorf("create data directory %s: %w", dir, err)
		}
	}
	db, err := storage.Open(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("opened meeting database", "path", cfg.Database.Path)
	return storage.NewMeetingRepository(db), func() { _ = db.Close() }, nil
}

// runServer starts the HTTP server and blocks until the context is
// cancelled, then shuts down gracefully.
func runServer(ctx context.Context, handler http.Handler, addr string, cfg *config.Config, logger logging.Logger) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return httpServer.Shutdown(shutdownCtx)
}
