package tetris

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTryRotate_FreeSpace(t *testing.T) {
	board := NewBoard()
	p := Piece{Type: TypeT, X: 4, Y: 5}

	rotated, ok := board.TryRotate(p, 1)
	assert.True(t, ok)
	assert.Equal(t, 1, rotated.Rotation)
	assert.Equal(t, 4, rotated.X)

	rotated, ok = board.TryRotate(p, -1)
	assert.True(t, ok)
	assert.Equal(t, 3, rotated.Rotation)
}

func TestTryRotate_KicksOffLeftWall(t *testing.T) {
	board := NewBoard()
	// I縦 (x オフセット 2) を左端に寄せると基準点は -2
	p := Piece{Type: TypeI, X: -2, Y: 5, Rotation: 1}
	assert.True(t, board.IsValid(p))

	// 横にすると x=-2..1 になるため +2 の補正で置ける
	rotated, ok := board.TryRotate(p, 1)
	assert.True(t, ok)
	assert.Equal(t, 0, rotated.Rotation)
	assert.Equal(t, 0, rotated.X)
}

func TestTryRotate_PrefersLeftKickFirst(t *testing.T) {
	board := NewBoard()
	// T回転0 -> 1 のとき、補正0を塞いで -1 と +1 の両方が置ける状況を作る
	p := Piece{Type: TypeT, X: 4, Y: 5}
	board[7][5] = BlockZ // 回転1のセル (5,7) を塞ぐ
	assert.True(t, board.IsValid(p))

	rotated, ok := board.TryRotate(p, 1)
	assert.True(t, ok)
	assert.Equal(t, 1, rotated.Rotation)
	assert.Equal(t, 3, rotated.X)
}

func TestTryRotate_FailsWhenBoxedIn(t *testing.T) {
	board := NewBoard()
	for y := 0; y < BoardHeight; y++ {
		for x := 0; x < BoardWidth; x++ {
			board[y][x] = BlockO
		}
	}
	// 縦Iの列だけ空ける
	for y := 4; y < 8; y++ {
		board[y][5] = BlockEmpty
	}
	p := Piece{Type: TypeI, X: 3, Y: 4, Rotation: 1}
	assert.True(t, board.IsValid(p))

	rotated, ok := board.TryRotate(p, 1)
	assert.False(t, ok)
	assert.Equal(t, p, rotated)
}
