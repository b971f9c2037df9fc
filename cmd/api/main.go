package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"FitCoach/internal/admin"
	"FitCoach/internal/aiservice"
	"FitCoach/internal/config"
	"FitCoach/internal/database"
	"FitCoach/internal/server"
	"FitCoach/internal/utility"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const healthStreamInterval = 2 * time.Second

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Env == "local" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func gracefulShutdown(apiServer *http.Server, stopBackground context.CancelFunc, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown
	stopBackground()

	// The server has 5 seconds to finish the requests it is currently handling.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")

	done <- true
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg := config.MustLoad(*configPath)
	setupLogger(cfg)

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	initCtx, cancel := context.WithTimeout(bgCtx, 30*time.Second)
	dbService, err := database.NewService(initCtx, cfg)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("could not initialize storage")
	}
	defer dbService.Close()

	gen, err := aiservice.NewFromConfig(cfg.AI)
	if err != nil {
		log.Fatal().Err(err).Msg("could not initialize AI generators")
	}

	healthStream := admin.NewHealthStream(utility.NewHub(), healthStreamInterval)
	go healthStream.Run(bgCtx)

	apiServer := server.NewServer(cfg, dbService, gen, healthStream)

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, stopBackground, done)

	log.Info().
		Str("addr", apiServer.Addr).
		Str("env", cfg.Env).
		Str("storage", cfg.Storage.Backend).
		Str("ai_provider", cfg.AI.Provider).
		Msg("starting server")

	err = apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server error")
	}

	<-done
	log.Info().Msg("Graceful shutdown complete.")
}
