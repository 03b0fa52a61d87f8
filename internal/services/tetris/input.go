package tetris

import "fmt"

// KeyPhase はクライアントから届いたキー操作の種類です。
type KeyPhase string

const (
	PhaseTap  KeyPhase = "tap"  // 押して離した (1回だけ操作)
	PhaseDown KeyPhase = "down" // 押し始めた (離すまで押下中)
	PhaseUp   KeyPhase = "up"   // 離した
)

// ParseKeyPhase は文字列をKeyPhaseに変換します。空文字はタップとして扱います。
func ParseKeyPhase(s string) (KeyPhase, error) {
	switch KeyPhase(s) {
	case "", PhaseTap:
		return PhaseTap, nil
	case PhaseDown:
		return PhaseDown, nil
	case PhaseUp:
		return PhaseUp, nil
	default:
		return "", fmt.Errorf("unknown key phase %q", s)
	}
}

// KeyState は押しっぱなしで連続入力になるキーの状態です。
type KeyState struct {
	Pressed bool // このフレームで押された
	Down    bool // 押下中
}

// Input は1フレーム分のプレイヤー入力です。
// Down 系の状態はフレームをまたいで保持し、それ以外は EndFrame で消えます。
type Input struct {
	Left      KeyState
	Right     KeyState
	SoftDrop  KeyState
	RotateCW  bool
	RotateCCW bool
	HardDrop  bool
	Hold      bool
	Pause     bool
	Reset     bool
}

// Record はアクション名 (move_left, rotate など) の入力を記録します。
// 未知のアクションの場合はfalseを返します。
//
// Parameters:
//
//	action : プレイヤーが実行したアクション（例: "move_left", "rotate"）
//	phase  : タップ・押下・解放のいずれか
//
// Returns:
//
//	bool: 記録できた場合はtrue
func (in *Input) Record(action string, phase KeyPhase) bool {
	switch action {
	case "move_left":
		in.Left.record(phase)
	case "move_right":
		in.Right.record(phase)
	case "soft_drop":
		in.SoftDrop.record(phase)
	case "rotate", "rotate_right":
		in.RotateCW = in.RotateCW || phase != PhaseUp
	case "rotate_left":
		in.RotateCCW = in.RotateCCW || phase != PhaseUp
	case "hard_drop":
		in.HardDrop = in.HardDrop || phase != PhaseUp
	case "hold":
		in.Hold = in.Hold || phase != PhaseUp
	case "pause":
		in.Pause = in.Pause || phase != PhaseUp
	case "reset":
		in.Reset = in.Reset || phase != PhaseUp
	default:
		return false
	}
	return true
}

func (k *KeyState) record(phase KeyPhase) {
	switch phase {
	case PhaseTap:
		k.Pressed = true
	case PhaseDown:
		if !k.Down {
			k.Pressed = true
		}
		k.Down = true
	case PhaseUp:
		k.Down = false
	}
}

// EndFrame はフレーム単位の入力を消し、押下中の状態だけを残します。
func (in *Input) EndFrame() {
	*in = Input{
		Left:     KeyState{Down: in.Left.Down},
		Right:    KeyState{Down: in.Right.Down},
		SoftDrop: KeyState{Down: in.SoftDrop.Down},
	}
}

// IsEmpty は何も入力されていないかどうかを返します。
func (in Input) IsEmpty() bool {
	return in == Input{}
}
