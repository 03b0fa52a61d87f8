package tui

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
)

func TestActionFor(t *testing.T) {
	tests := []struct {
		key  tcell.Key
		ch   rune
		want string
	}{
		{tcell.KeyLeft, 0, "move_left"},
		{tcell.KeyRight, 0, "move_right"},
		{tcell.KeyDown, 0, "soft_drop"},
		{tcell.KeyUp, 0, "rotate_right"},
		{tcell.KeyRune, 'z', "rotate_left"},
		{tcell.KeyRune, ' ', "hard_drop"},
		{tcell.KeyRune, 'c', "hold"},
		{tcell.KeyRune, 'P', "pause"},
		{tcell.KeyRune, 'r', "reset"},
		{tcell.KeyRune, 'm', CommandMute},
		{tcell.KeyEscape, 0, CommandQuit},
	}
	for _, tt := range tests {
		got, ok := actionFor(tt.key, tt.ch)
		assert.True(t, ok, tt.want)
		assert.Equal(t, tt.want, got)
	}

	_, ok := actionFor(tcell.KeyRune, '9')
	assert.False(t, ok)
	_, ok = actionFor(tcell.KeyF1, 0)
	assert.False(t, ok)
}

func TestKeyTracker_HeldMoveExpires(t *testing.T) {
	k := NewKeyTracker()
	start := time.Unix(0, 0)

	k.Key("move_left", start)
	in := k.Frame(start)
	assert.True(t, in.Left.Pressed)
	assert.True(t, in.Left.Down)

	in = k.Frame(start.Add(16 * time.Millisecond))
	assert.False(t, in.Left.Pressed)
	assert.True(t, in.Left.Down)

	// キーリピートが続く間は押下中のまま
	k.Key("move_left", start.Add(100*time.Millisecond))
	in = k.Frame(start.Add(200 * time.Millisecond))
	assert.False(t, in.Left.Pressed)
	assert.True(t, in.Left.Down)

	in = k.Frame(start.Add(100*time.Millisecond + DefaultHoldWindow + time.Millisecond))
	assert.False(t, in.Left.Down)
}

func TestKeyTracker_OneShotActions(t *testing.T) {
	k := NewKeyTracker()
	now := time.Unix(0, 0)

	k.Key("hard_drop", now)
	k.Key("soft_drop", now)
	in := k.Frame(now)
	assert.True(t, in.HardDrop)
	assert.True(t, in.SoftDrop.Pressed)
	assert.False(t, in.SoftDrop.Down)

	in = k.Frame(now.Add(16 * time.Millisecond))
	assert.True(t, in.IsEmpty())
}

func TestKeyTracker_Clear(t *testing.T) {
	k := NewKeyTracker()
	now := time.Unix(0, 0)
	k.Key("move_right", now)
	k.Clear()

	assert.True(t, k.Frame(now).IsEmpty())
}
