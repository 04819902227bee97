package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/arpankumarde/neevtrace/internal/api"
	"github.com/arpankumarde/neevtrace/internal/app"
	"github.com/arpankumarde/neevtrace/internal/config"
	"github.com/arpankumarde/neevtrace/internal/platform/logging"
	"github.com/arpankumarde/neevtrace/internal/platform/telemetry"
)

// main is the application composition root.
// It wires concrete adapters behind ports and starts the HTTP server.
func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Setup("info", "console")
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		log.Info().Msg("No .env file found (using environment variables)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, cfg.Telemetry, cfg.Version)
	if err != nil {
		log.Fatal().Err(err).Msg("telemetry init failed")
	}

	a, err := app.Build(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
	defer a.Close()

	// An in-memory knowledge base starts empty, so fill it from the seed
	// file without holding up the listener.
	if a.InMemoryKnowledge && cfg.Knowledge.SeedPath != "" {
		go func() {
			if err := a.LoadSeeds(ctx, cfg.Knowledge.SeedPath, false); err != nil {
				log.Warn().Err(err).Msg("knowledge seed load failed")
			}
		}()
	}

	router := api.NewRouter(a.Service, api.Info{
		Name:          cfg.Telemetry.ServiceName,
		Version:       cfg.Version,
		DocumentHosts: cfg.Knowledge.AllowedHosts,
	})

	// WriteTimeout outlasts the longest handler deadline so a timed-out
	// request still gets its error response.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      max(cfg.Agent.Timeout, cfg.Knowledge.LoadTimeout) + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", cfg.Version).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracing shutdown")
	}
}
