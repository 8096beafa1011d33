// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/courtside/courtside/internal/config"
	"github.com/courtside/courtside/internal/db"
	"github.com/courtside/courtside/internal/feed"
	"github.com/courtside/courtside/internal/ledger"
	"github.com/courtside/courtside/internal/occupancy"
	"github.com/courtside/courtside/internal/ratelimit"
	"github.com/courtside/courtside/internal/scheduler"

	availabilitysvc "github.com/courtside/courtside/internal/availability"
)

const defaultConfigPath = "config/config.yaml"

func configPath() string {
	if path, ok := os.LookupEnv("CONFIG_PATH"); ok {
		return path
	}
	return defaultConfigPath
}

func shutdownTimeout() time.Duration {
	if value, ok := os.LookupEnv("SHUTDOWN_TIMEOUT_SECONDS"); ok {
		if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return 30 * time.Second
}

func setupLogger(environment string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func main() {
	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.App.Environment)

	database, err := db.NewFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer database.Close()

	hub := feed.NewHub(cfg.Feed.BufferSize)
	clock := clockwork.NewRealClock()
	ledgerService := ledger.NewService(database, hub, clock)
	resolver := availabilitysvc.NewService(database, clock)
	reporter := occupancy.NewService(database, clock)
	limiter := ratelimit.New(nil)
	defer limiter.Close()

	if err := scheduler.Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize scheduler")
	}
	if err := scheduler.RegisterOccupancyReportJob(database, reporter); err != nil {
		log.Fatal().Err(err).Msg("Failed to register occupancy report job")
	}
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	server := newServer(cfg, serverDeps{
		db:       database,
		hub:      hub,
		ledger:   ledgerService,
		resolver: resolver,
		reporter: reporter,
		limiter:  limiter,
	})

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Run server
	g.Go(func() error {
		log.Info().Int("port", cfg.App.Port).Msg("Starting server")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Wait for interrupt signal
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout())
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := scheduler.Stop(); err != nil {
			log.Error().Err(err).Msg("Scheduler shutdown error")
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		os.Exit(1)
	}
}
