package tetris

import "time"

// Controller は1フレーム分の入力と経過時間をゲーム状態に適用します。
// 入力はすべて Tick より先に処理されるため、そのフレームの操作で固定を回避できます。
type Controller struct {
	State *PlayerGameState
	left  AutoRepeat
	right AutoRepeat
}

// NewController は指定したゲーム状態を操作するControllerを作成します。
func NewController(state *PlayerGameState) *Controller {
	return &Controller{
		State: state,
		left:  NewAutoRepeat(),
		right: NewAutoRepeat(),
	}
}

// Step は入力を決まった順番で適用してから時間を進めます。
// 一時停止の切り替えとリセットは状態に関係なく受け付け、それ以外は実行中のときだけ適用します。
func (c *Controller) Step(elapsed time.Duration, in Input) {
	s := c.State
	if in.Pause {
		s.TogglePause()
	}
	if in.Reset {
		s.Reset()
		c.left.Reset()
		c.right.Reset()
	}
	if !s.IsRunning() {
		return
	}

	if in.Left.Pressed {
		s.Move(-1, 0)
	}
	if in.Right.Pressed {
		s.Move(1, 0)
	}
	c.left.Update(in.Left.Down, elapsed, func() bool { return s.Move(-1, 0) })
	c.right.Update(in.Right.Down, elapsed, func() bool { return s.Move(1, 0) })

	if in.RotateCW {
		s.Rotate(1)
	}
	if in.RotateCCW {
		s.Rotate(-1)
	}
	if in.HardDrop {
		s.HardDrop()
	}
	if in.SoftDrop.Down || in.SoftDrop.Pressed {
		s.SoftDrop()
	}
	if in.Hold {
		s.Hold()
	}

	s.Tick(elapsed)
}
