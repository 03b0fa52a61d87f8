package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/api/handlers"
	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/api/middleware"
	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/config"
	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/services/tetris"
)

func main() {
	if err := config.LoadEnvFile(); err != nil {
		log.Warn().Err(err).Msg("Error loading .env file (this is fine in production)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	zerolog.SetGlobalLevel(cfg.LogLevel)
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	if cfg.BypassAuth {
		log.Warn().Msg("BYPASS_AUTH is enabled: every request is treated as the guest user")
	} else if cfg.JWTSecret == "" {
		log.Warn().Msg("SUPABASE_JWT_SECRET is not set: authenticated endpoints will fail")
	}

	managerOpts := []tetris.ManagerOption{
		tetris.WithFrameInterval(cfg.FrameInterval),
		tetris.WithMaxSessions(cfg.MaxSessions),
	}
	if cfg.GameSeed != nil {
		managerOpts = append(managerOpts, tetris.WithSessionOptions(tetris.WithSeed(*cfg.GameSeed)))
	}
	sessionManager := tetris.NewSessionManager(managerOpts...)

	auth := middleware.NewAuthenticator(cfg.JWTSecret, cfg.BypassAuth)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewRouter(sessionManager, auth, cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	sessionManager.Shutdown()
}
