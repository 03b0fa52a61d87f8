package tui

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/services/tetris"
)

// DefaultHoldWindow is how long a key counts as held after its last key event.
// Terminals only report presses and auto-repeats, never releases.
const DefaultHoldWindow = 120 * time.Millisecond

// Terminal-only commands that never reach the game state.
const (
	CommandMute = "mute"
	CommandQuit = "quit"
)

// ActionForKey maps a key event to a game action name (as accepted by
// tetris.Input.Record) or to one of the terminal commands.
func ActionForKey(ev *tcell.EventKey) (string, bool) {
	return actionFor(ev.Key(), ev.Rune())
}

func actionFor(key tcell.Key, ch rune) (string, bool) {
	switch key {
	case tcell.KeyLeft:
		return "move_left", true
	case tcell.KeyRight:
		return "move_right", true
	case tcell.KeyDown:
		return "soft_drop", true
	case tcell.KeyUp:
		return "rotate_right", true
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return CommandQuit, true
	case tcell.KeyRune:
	default:
		return "", false
	}

	switch ch {
	case 'h', 'a':
		return "move_left", true
	case 'l', 'd':
		return "move_right", true
	case 'j', 's':
		return "soft_drop", true
	case 'k', 'w', 'x':
		return "rotate_right", true
	case 'z', 'Z':
		return "rotate_left", true
	case ' ':
		return "hard_drop", true
	case 'c', 'C':
		return "hold", true
	case 'p', 'P':
		return "pause", true
	case 'r', 'R':
		return "reset", true
	case 'm', 'M':
		return CommandMute, true
	case 'q', 'Q':
		return CommandQuit, true
	}
	return "", false
}

// KeyTracker turns terminal key events into per-frame tetris.Input.
// Horizontal moves are treated as held while events keep arriving within
// HoldWindow, so terminal key repeat drives the engine's own auto-repeat.
type KeyTracker struct {
	HoldWindow time.Duration

	input    tetris.Input
	lastSeen map[string]time.Time
}

func NewKeyTracker() *KeyTracker {
	return &KeyTracker{
		HoldWindow: DefaultHoldWindow,
		lastSeen:   make(map[string]time.Time),
	}
}

func isHeldAction(action string) bool {
	return action == "move_left" || action == "move_right"
}

// Key records a game action seen at now.
func (k *KeyTracker) Key(action string, now time.Time) {
	if isHeldAction(action) {
		k.lastSeen[action] = now
		k.input.Record(action, tetris.PhaseDown)
		return
	}
	k.input.Record(action, tetris.PhaseTap)
}

// Frame returns the input for the frame ending at now and starts the next one.
func (k *KeyTracker) Frame(now time.Time) tetris.Input {
	for action, seen := range k.lastSeen {
		if now.Sub(seen) > k.HoldWindow {
			k.input.Record(action, tetris.PhaseUp)
			delete(k.lastSeen, action)
		}
	}
	in := k.input
	k.input.EndFrame()
	return in
}

// Clear releases every key, e.g. after the terminal loses focus.
func (k *KeyTracker) Clear() {
	k.input = tetris.Input{}
	k.lastSeen = make(map[string]time.Time)
}
