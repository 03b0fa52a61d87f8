package tetris

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/models/tetris"
)

func TestAutoRepeat(t *testing.T) {
	a := NewAutoRepeat()
	moves := 0
	move := func() bool {
		moves++
		return true
	}

	assert.False(t, a.Update(true, 170*time.Millisecond, move))
	assert.Equal(t, 0, moves)

	assert.True(t, a.Update(true, 1*time.Millisecond, move))
	assert.Equal(t, 1, moves)
	assert.Equal(t, 131*time.Millisecond, a.held)

	assert.False(t, a.Update(true, 39*time.Millisecond, move))
	assert.True(t, a.Update(true, 1*time.Millisecond, move))
	assert.Equal(t, 2, moves)

	a.Update(false, 16*time.Millisecond, move)
	assert.Equal(t, time.Duration(0), a.held)
}

func TestAutoRepeat_BlockedMoveKeepsTimer(t *testing.T) {
	a := NewAutoRepeat()
	blocked := func() bool { return false }

	a.Update(true, 200*time.Millisecond, blocked)
	assert.Equal(t, 200*time.Millisecond, a.held)
	a.Update(true, 10*time.Millisecond, blocked)
	assert.Equal(t, 210*time.Millisecond, a.held)
}

func TestController_AutoRepeatMovesPiece(t *testing.T) {
	state, _ := newTestState(t, tetris.TypeT)
	c := NewController(state)

	c.Step(16*time.Millisecond, Input{Left: KeyState{Pressed: true, Down: true}})
	assert.Equal(t, 2, state.CurrentPiece.X)

	c.Step(160*time.Millisecond, Input{Left: KeyState{Down: true}})
	assert.Equal(t, 1, state.CurrentPiece.X)

	c.Step(40*time.Millisecond, Input{Left: KeyState{Down: true}})
	assert.Equal(t, 0, state.CurrentPiece.X)

	c.Step(40*time.Millisecond, Input{Left: KeyState{Down: true}})
	assert.Equal(t, 0, state.CurrentPiece.X)

	c.Step(16*time.Millisecond, Input{})
	assert.Equal(t, time.Duration(0), c.left.held)
}

func TestController_InputAppliedBeforeTick(t *testing.T) {
	setup := func() (*PlayerGameState, *Controller) {
		state, _ := newTestState(t, tetris.TypeO, tetris.TypeT)
		state.Board[19][4] = tetris.BlockI
		state.CurrentPiece.Y = 17 // 列4の上に乗っている
		c := NewController(state)
		c.Step(10*time.Millisecond, Input{})
		c.Step(340*time.Millisecond, Input{})
		return state, c
	}

	// 入力がなければ固定される
	state, c := setup()
	c.Step(20*time.Millisecond, Input{})
	assert.Equal(t, tetris.TypeT, state.CurrentPiece.Type)

	// 同じフレームで右へずらせば足場から外れて固定されない
	state, c = setup()
	c.Step(20*time.Millisecond, Input{Right: KeyState{Pressed: true}})
	assert.Equal(t, tetris.TypeO, state.CurrentPiece.Type)
	assert.Equal(t, 4, state.CurrentPiece.X)
	assert.False(t, state.IsGrounded())
}

func TestController_PauseAndReset(t *testing.T) {
	state, _ := newTestState(t, tetris.TypeT, tetris.TypeO)
	c := NewController(state)

	c.Step(16*time.Millisecond, Input{Pause: true})
	assert.Equal(t, StatusPaused, state.Status())

	c.Step(16*time.Millisecond, Input{Left: KeyState{Pressed: true}, HardDrop: true})
	assert.Equal(t, tetris.NewPiece(tetris.TypeT), state.CurrentPiece)
	assert.True(t, state.Board.IsEmpty())

	c.Step(16*time.Millisecond, Input{Pause: true})
	assert.Equal(t, StatusRunning, state.Status())

	c.Step(16*time.Millisecond, Input{HardDrop: true})
	assert.False(t, state.Board.IsEmpty())

	c.Step(16*time.Millisecond, Input{Reset: true})
	assert.True(t, state.Board.IsEmpty())
	assert.Equal(t, 0, state.Score)
	assert.Equal(t, tetris.TypeT, state.CurrentPiece.Type)
}

func TestController_ActionsInOrder(t *testing.T) {
	state, _ := newTestState(t, tetris.TypeT, tetris.TypeO, tetris.TypeI)
	c := NewController(state)

	c.Step(16*time.Millisecond, Input{RotateCW: true, SoftDrop: KeyState{Down: true}, Hold: true})

	// 回転・ソフトドロップの後にホールドされる
	assert.Equal(t, 1, state.Score)
	assert.Equal(t, tetris.TypeT, *state.HeldPiece)
	assert.Equal(t, tetris.NewPiece(tetris.TypeO), state.CurrentPiece)

	c.Step(16*time.Millisecond, Input{RotateCCW: true})
	assert.Equal(t, 0, state.CurrentPiece.Rotation)
}
