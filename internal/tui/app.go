package tui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	game "github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/services/tetris"
)

// App runs a single local game in a terminal.
type App struct {
	FrameInterval time.Duration

	screen     tcell.Screen
	renderer   *Renderer
	keys       *KeyTracker
	sound      *SoundPlayer
	controller *game.Controller
	logger     zerolog.Logger
}

// NewApp wires a fresh game to screen. The sound player receives game events.
func NewApp(screen tcell.Screen, sound *SoundPlayer, opts ...game.Option) *App {
	opts = append(opts, game.WithEventHandler(sound))
	state := game.NewPlayerGameState("local", opts...)
	return &App{
		FrameInterval: 16 * time.Millisecond,
		screen:        screen,
		renderer:      NewRenderer(screen),
		keys:          NewKeyTracker(),
		sound:         sound,
		controller:    game.NewController(state),
		logger:        log.With().Str("component", "TUI").Logger(),
	}
}

// State returns the game being played.
func (a *App) State() *game.PlayerGameState {
	return a.controller.State
}

// HandleEvent applies a terminal event. It returns false when the player quits.
func (a *App) HandleEvent(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if action, ok := ActionForKey(ev); ok {
			return a.Apply(action, now)
		}
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

// Apply handles a game action or terminal command. It returns false on quit.
func (a *App) Apply(action string, now time.Time) bool {
	switch action {
	case CommandQuit:
		return false
	case CommandMute:
		muted := a.sound.ToggleMute()
		a.logger.Debug().Bool("muted", muted).Msg("mute toggled")
	default:
		a.keys.Key(action, now)
	}
	return true
}

// Frame advances the game by elapsed and redraws the screen.
func (a *App) Frame(now time.Time, elapsed time.Duration) {
	a.controller.Step(elapsed, a.keys.Frame(now))
	a.renderer.Draw(a.controller.State.Snapshot(), a.sound.Muted())
}

// Run drives the frame loop until the player quits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(a.FrameInterval)
	defer ticker.Stop()
	last := time.Now()
	a.Frame(last, 0)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !a.HandleEvent(ev, time.Now()) {
				a.logger.Info().
					Int("score", a.State().Score).
					Int("lines", a.State().LinesCleared).
					Msg("quit")
				return nil
			}
		case now := <-ticker.C:
			a.Frame(now, now.Sub(last))
			last = now
		}
	}
}
