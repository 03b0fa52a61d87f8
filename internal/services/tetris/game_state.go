package tetris

import (
	"time"

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/models/tetris"
)

// Status はゲームセッションの状態です。
type Status string

const (
	StatusRunning  Status = "running"   // 操作と時間経過を受け付ける
	StatusPaused   Status = "paused"    // 一時停止中
	StatusGameOver Status = "game_over" // リセット以外の操作を受け付けない
)

// PlayerGameState は単一プレイヤーのテトリスゲーム状態です。
// ボードと操作中のピース、スコア、落下・固定タイマーをまとめて保持し、
// 一つの呼び出し元 (フレームループ) からのみ変更されることを前提とします。
type PlayerGameState struct {
	UserID       string
	Board        tetris.Board      // 現在のゲームボード
	CurrentPiece tetris.Piece      // 現在操作中のテトリミノ
	NextPiece    tetris.PieceType  // 次に出現するテトリミノ
	HeldPiece    *tetris.PieceType // ホールド中のテトリミノ (空ならnil)
	Score        int               // 現在のスコア
	LinesCleared int               // クリアしたライン数
	Level        int               // 現在のレベル (1以上)
	FallInterval time.Duration     // 自動落下の間隔
	IsPaused     bool
	IsGameOver   bool

	canHold    bool          // 現在のピースでホールドが使えるかどうか
	fallTimer  time.Duration // 前回の自動落下からの経過時間
	lockTimer  time.Duration // 接地してからの経過時間
	grounded   bool          // ピースが接地しているかどうか
	randomizer tetris.Randomizer
	handler    EventHandler
}

// Option はPlayerGameStateの生成オプションです。
type Option func(*PlayerGameState)

// WithRandomizer はピースの供給元を差し替えます。
func WithRandomizer(r tetris.Randomizer) Option {
	return func(s *PlayerGameState) {
		s.randomizer = r
	}
}

// WithSeed は指定したシードの7-bagを使います。適用するたびに新しい袋を作ります。
func WithSeed(seed int64) Option {
	return func(s *PlayerGameState) {
		s.randomizer = tetris.NewSevenBag(seed)
	}
}

// WithEventHandler はロック・ライン消去・ゲームオーバーの通知先を設定します。
func WithEventHandler(h EventHandler) Option {
	return func(s *PlayerGameState) {
		s.handler = h
	}
}

// NewPlayerGameState は新しいプレイヤーのゲーム状態を初期化して返します。
// Randomizer を指定しない場合は現在時刻をシードにした7-bagを使います。
//
// Parameters:
//
//	userID : プレイヤーのユーザーID
//	opts   : 生成オプション
//
// Returns:
//
//	*PlayerGameState: 初期化されたゲーム状態のポインタ
func NewPlayerGameState(userID string, opts ...Option) *PlayerGameState {
	state := &PlayerGameState{UserID: userID}
	for _, opt := range opts {
		opt(state)
	}
	if state.randomizer == nil {
		state.randomizer = tetris.NewRandomSevenBag()
	}
	state.Reset()
	return state
}

// Reset はボード・ピース・スコア・タイマー・フラグをすべてまとめて初期状態に戻します。
// ユーザーID、Randomizer、イベントハンドラーは引き継ぎます。
func (s *PlayerGameState) Reset() {
	if r, ok := s.randomizer.(tetris.Resetter); ok {
		r.Reset()
	}
	*s = PlayerGameState{
		UserID:       s.UserID,
		Board:        tetris.NewBoard(),
		Level:        1,
		FallInterval: InitialFallInterval,
		canHold:      true,
		randomizer:   s.randomizer,
		handler:      s.handler,
	}
	s.CurrentPiece = tetris.NewPiece(s.randomizer.Next())
	s.NextPiece = s.randomizer.Next()
}

// Status は現在の状態を返します。ゲームオーバーは一時停止より優先されます。
func (s *PlayerGameState) Status() Status {
	switch {
	case s.IsGameOver:
		return StatusGameOver
	case s.IsPaused:
		return StatusPaused
	default:
		return StatusRunning
	}
}

// IsRunning は操作や時間経過を受け付ける状態かどうかを返します。
func (s *PlayerGameState) IsRunning() bool {
	return s.Status() == StatusRunning
}

// CanHold は現在のピースでホールドが使えるかどうかを返します。
func (s *PlayerGameState) CanHold() bool {
	return s.canHold
}

// IsGrounded は現在のピースが接地判定中かどうかを返します。
func (s *PlayerGameState) IsGrounded() bool {
	return s.grounded
}

// LockTimer は接地してからの経過時間を返します。
func (s *PlayerGameState) LockTimer() time.Duration {
	return s.lockTimer
}

// GhostPiece は現在のピースをそのまま落とした場合の着地位置を返します。描画専用です。
func (s *PlayerGameState) GhostPiece() tetris.Piece {
	return s.CurrentPiece.Moved(0, s.Board.DropDistance(s.CurrentPiece))
}

func (s *PlayerGameState) emit(e Event) {
	if s.handler != nil {
		s.handler.HandleEvent(e)
	}
}

// PlayerSnapshot は描画や送信に必要な情報だけを切り出した状態のコピーです。
type PlayerSnapshot struct {
	UserID         string            `json:"user_id,omitempty"`
	Board          tetris.Board      `json:"board"`
	CurrentPiece   tetris.Piece      `json:"current_piece"`
	CurrentBlocks  [4][2]int         `json:"current_blocks"`
	GhostBlocks    [4][2]int         `json:"ghost_blocks"`
	NextPiece      tetris.PieceType  `json:"next_piece"`
	HeldPiece      *tetris.PieceType `json:"held_piece,omitempty"`
	CanHold        bool              `json:"can_hold"`
	Score          int               `json:"score"`
	LinesCleared   int               `json:"lines_cleared"`
	Level          int               `json:"level"`
	FallIntervalMs int64             `json:"fall_interval_ms"`
	Status         Status            `json:"status"`
}

// Snapshot は現在の状態のコピーを返します。返り値を変更してもゲーム状態には影響しません。
func (s *PlayerGameState) Snapshot() PlayerSnapshot {
	var held *tetris.PieceType
	if s.HeldPiece != nil {
		h := *s.HeldPiece
		held = &h
	}
	return PlayerSnapshot{
		UserID:         s.UserID,
		Board:          s.Board,
		CurrentPiece:   s.CurrentPiece,
		CurrentBlocks:  s.CurrentPiece.Blocks(),
		GhostBlocks:    s.GhostPiece().Blocks(),
		NextPiece:      s.NextPiece,
		HeldPiece:      held,
		CanHold:        s.canHold,
		Score:          s.Score,
		LinesCleared:   s.LinesCleared,
		Level:          s.Level,
		FallIntervalMs: s.FallInterval.Milliseconds(),
		Status:         s.Status(),
	}
}
