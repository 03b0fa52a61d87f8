package tetris

import (
	"time"

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/models/tetris"
)

// ゲーム全体の速度とスコアに関する定数です。
const (
	InitialFallInterval = 1000 * time.Millisecond // レベル1の自動落下間隔
	MinFallInterval     = 120 * time.Millisecond  // 自動落下間隔の下限
	FallIntervalStep    = 80 * time.Millisecond   // 1レベルごとに短くなる量
	LockDelay           = 350 * time.Millisecond  // 接地してから固定されるまでの猶予
	LevelUpLines        = 10                      // レベルアップに必要なライン数
	SoftDropScore       = 1                       // ソフトドロップ1マスあたりの得点
	HardDropScore       = 2                       // ハードドロップ1マスあたりの得点
)

// scoreTable は同時に消したライン数ごとの基本点です。レベルを掛けて加算します。
var scoreTable = [...]int{0, 40, 100, 300, 1200}

// GetFallInterval は現在のレベルに基づいた自動落下間隔を計算して返します。
func GetFallInterval(level int) time.Duration {
	interval := InitialFallInterval - time.Duration(level-1)*FallIntervalStep
	if interval < MinFallInterval {
		interval = MinFallInterval
	}
	return interval
}

// CalculateScore は同時に消したライン数とレベルからライン消去の得点を計算します。
// 5ライン以上はテーブルの最大値として扱います。
func CalculateScore(lines, level int) int {
	if lines <= 0 {
		return 0
	}
	if lines >= len(scoreTable) {
		lines = len(scoreTable) - 1
	}
	return scoreTable[lines] * level
}

// LevelForLines は累計ライン数からレベルを返します。
func LevelForLines(lines int) int {
	return 1 + lines/LevelUpLines
}

// Move は現在のピースを (dx, dy) だけ動かします。動かせなければ何もせずfalseを返します。
func (s *PlayerGameState) Move(dx, dy int) bool {
	if !s.IsRunning() {
		return false
	}
	return s.shift(dx, dy)
}

func (s *PlayerGameState) shift(dx, dy int) bool {
	candidate := s.CurrentPiece.Moved(dx, dy)
	if !s.Board.IsValid(candidate) {
		return false
	}
	s.CurrentPiece = candidate
	return true
}

// SoftDrop はピースを1マス下げ、成功したら1点加算します。
func (s *PlayerGameState) SoftDrop() bool {
	if !s.Move(0, 1) {
		return false
	}
	s.Score += SoftDropScore
	return true
}

// Rotate はピースを dir 方向 (正: 時計回り, 負: 反時計回り) に回転させます。
// 壁蹴りを含めてどこにも置けない場合はピースを変えずにfalseを返します。
func (s *PlayerGameState) Rotate(dir int) bool {
	if !s.IsRunning() {
		return false
	}
	rotated, ok := s.Board.TryRotate(s.CurrentPiece, dir)
	if !ok {
		return false
	}
	s.CurrentPiece = rotated
	return true
}

// HardDrop はピースを落ちるところまで落とし、落下した段数×2点を加算して即座に固定します。
//
// Returns:
//
//	int: 落下した段数
func (s *PlayerGameState) HardDrop() int {
	if !s.IsRunning() {
		return 0
	}
	dropped := 0
	for s.shift(0, 1) {
		dropped++
	}
	s.Score += dropped * HardDropScore
	s.lockPiece()
	return dropped
}

// Hold は現在のピースをホールドします。ホールドは次のピース固定まで1回だけ使えます。
// ホールドが空なら次のピースを出し、既にあれば種類を入れ替えてスポーン位置に戻します。
func (s *PlayerGameState) Hold() bool {
	if !s.IsRunning() || !s.canHold {
		return false
	}
	current := s.CurrentPiece.Type
	if s.HeldPiece == nil {
		s.CurrentPiece = tetris.NewPiece(s.NextPiece)
		s.NextPiece = s.randomizer.Next()
	} else {
		s.CurrentPiece = tetris.NewPiece(*s.HeldPiece)
	}
	s.HeldPiece = &current
	s.canHold = false

	if !s.Board.IsValid(s.CurrentPiece) {
		s.setGameOver()
	}
	return true
}

// Tick は時間を elapsed だけ進め、自動落下と接地後の固定猶予を処理します。
// 同じフレームの入力はTickより先に適用しておく必要があります。
func (s *PlayerGameState) Tick(elapsed time.Duration) {
	if !s.IsRunning() {
		return
	}

	s.fallTimer += elapsed
	fell := false
	if s.fallTimer >= s.FallInterval {
		s.fallTimer = 0
		fell = s.shift(0, 1)
	}

	if s.Board.IsValid(s.CurrentPiece.Moved(0, 1)) {
		s.grounded = false
		s.lockTimer = 0
		return
	}

	if !s.grounded {
		s.grounded = true
		s.lockTimer = 0
	} else {
		s.lockTimer += elapsed
	}
	if !fell && s.lockTimer >= LockDelay {
		s.lockPiece()
	}
}

// TogglePause は実行中と一時停止を切り替えます。ゲームオーバー中は何もしません。
func (s *PlayerGameState) TogglePause() bool {
	if s.IsGameOver {
		return false
	}
	s.IsPaused = !s.IsPaused
	return true
}

// lockPiece はピースをボードに固定し、ライン消去・得点・レベル・次のピースの出現を処理します。
func (s *PlayerGameState) lockPiece() {
	defer func() {
		s.grounded = false
		s.lockTimer = 0
	}()

	overflow := s.CurrentPiece.IsAboveTop()
	s.Board.MergePiece(s.CurrentPiece)
	s.emit(Event{Type: EventPieceLocked})
	if overflow {
		s.setGameOver()
		return
	}

	if cleared := s.Board.ClearLines(); cleared > 0 {
		s.Score += CalculateScore(cleared, s.Level)
		s.LinesCleared += cleared
		s.Level = LevelForLines(s.LinesCleared)
		s.FallInterval = GetFallInterval(s.Level)
		s.emit(Event{Type: EventLinesCleared, Lines: cleared})
	}

	s.CurrentPiece = tetris.NewPiece(s.NextPiece)
	s.NextPiece = s.randomizer.Next()
	s.canHold = true

	if !s.Board.IsValid(s.CurrentPiece) {
		s.setGameOver()
	}
}

// setGameOver はゲームオーバーに遷移させます。ゲームオーバーは一時停止も兼ねます。
func (s *PlayerGameState) setGameOver() {
	if s.IsGameOver {
		return
	}
	s.IsGameOver = true
	s.IsPaused = true
	s.emit(Event{Type: EventGameOver})
}
