package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/config"
	game "github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/services/tetris"
	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tetris: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = config.LoadEnvFile()
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// 画面を壊さないようにログはファイルにだけ書く
	var logOut io.Writer = io.Discard
	if path := os.Getenv("LOG_FILE"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)
	log.Logger = zerolog.New(logOut).With().Timestamp().Logger()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()

	w, h := screen.Size()
	if minW, minH := tui.MinSize(); w < minW || h < minH {
		log.Warn().Int("width", w).Int("height", h).Msg("terminal is smaller than the game area")
	}

	sound := tui.NewSoundPlayer()
	if err := sound.Init(); err != nil {
		log.Warn().Err(err).Msg("audio initialization failed, playing without sound")
	}
	defer sound.Close()

	var opts []game.Option
	if cfg.GameSeed != nil {
		opts = append(opts, game.WithSeed(*cfg.GameSeed))
	}
	app := tui.NewApp(screen, sound, opts...)
	app.FrameInterval = cfg.FrameInterval

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
