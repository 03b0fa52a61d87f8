package tetris

import "time"

// 左右キーを押しっぱなしにしたときの連続移動のタイミングです。
const (
	AutoRepeatDelay    = 170 * time.Millisecond // 連続移動が始まるまでの時間 (これを超えたら開始)
	AutoRepeatInterval = 40 * time.Millisecond  // 連続移動の間隔
)

// AutoRepeat は押しっぱなしのキーによる連続移動のタイマーです。
type AutoRepeat struct {
	Delay    time.Duration
	Interval time.Duration
	held     time.Duration
}

// NewAutoRepeat は標準のタイミングでAutoRepeatを作成します。
func NewAutoRepeat() AutoRepeat {
	return AutoRepeat{Delay: AutoRepeatDelay, Interval: AutoRepeatInterval}
}

// Update は押下時間を進め、連続移動のタイミングなら move を呼びます。
// move が成功した場合のみ Interval 分だけ押下時間を戻します。キーが離されたら押下時間を0にします。
func (a *AutoRepeat) Update(down bool, elapsed time.Duration, move func() bool) bool {
	if !down {
		a.held = 0
		return false
	}
	a.held += elapsed
	if a.held <= a.Delay {
		return false
	}
	if !move() {
		return false
	}
	a.held -= a.Interval
	return true
}

// Reset は押下時間を0に戻します。
func (a *AutoRepeat) Reset() {
	a.held = 0
}
