package tetris

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotationsFor(t *testing.T) {
	expectedCounts := map[PieceType]int{
		TypeI: 2, TypeJ: 4, TypeL: 4, TypeO: 1, TypeS: 2, TypeT: 4, TypeZ: 2,
	}
	for kind, count := range expectedCounts {
		rotations := RotationsFor(kind)
		require.NotEmpty(t, rotations, kind.String())
		assert.Len(t, rotations, count, kind.String())
		for _, shape := range rotations {
			assert.Len(t, shape, 4)
		}
	}
}

func TestNewPiece_SpawnsAtAnchor(t *testing.T) {
	p := NewPiece(TypeT)
	assert.Equal(t, SpawnX, p.X)
	assert.Equal(t, SpawnY, p.Y)
	assert.Equal(t, 0, p.Rotation)
	assert.True(t, p.IsAboveTop())
}

func TestPiece_Blocks(t *testing.T) {
	p := Piece{Type: TypeI, X: 2, Y: 5}
	assert.Equal(t, [4][2]int{{2, 6}, {3, 6}, {4, 6}, {5, 6}}, p.Blocks())

	p.Rotation = 1
	assert.Equal(t, [4][2]int{{4, 5}, {4, 6}, {4, 7}, {4, 8}}, p.Blocks())
}

func TestPiece_RotatedWrapsBothDirections(t *testing.T) {
	p := NewPiece(TypeT)
	assert.Equal(t, 3, p.Rotated(-1).Rotation)
	assert.Equal(t, 1, p.Rotated(1).Rotation)

	r := p
	for i := 0; i < 4; i++ {
		r = r.Rotated(1)
	}
	assert.Equal(t, p.Rotation, r.Rotation)

	o := NewPiece(TypeO)
	for i := 0; i < 5; i++ {
		o = o.Rotated(1)
		assert.Equal(t, 0, o.Rotation)
	}

	s := NewPiece(TypeS)
	assert.Equal(t, 1, s.Rotated(-1).Rotation)
}

func TestPiece_MovedDoesNotMutate(t *testing.T) {
	p := NewPiece(TypeL)
	moved := p.Moved(1, 2)
	assert.Equal(t, SpawnX, p.X)
	assert.Equal(t, SpawnX+1, moved.X)
	assert.Equal(t, SpawnY+2, moved.Y)
}

func TestWrapIndex(t *testing.T) {
	assert.Equal(t, 3, wrapIndex(-1, 4))
	assert.Equal(t, 0, wrapIndex(4, 4))
	assert.Equal(t, 1, wrapIndex(-5, 2))
	assert.Equal(t, 0, wrapIndex(-3, 1))
}

func TestPieceTypeText(t *testing.T) {
	for kind := PieceType(0); kind < PieceTypeCount; kind++ {
		parsed, ok := StringToPieceType(kind.String())
		assert.True(t, ok)
		assert.Equal(t, kind, parsed)
	}

	_, ok := StringToPieceType("X")
	assert.False(t, ok)

	data, err := json.Marshal(struct {
		Next PieceType `json:"next"`
	}{Next: TypeZ})
	require.NoError(t, err)
	assert.JSONEq(t, `{"next":"Z"}`, string(data))

	var decoded struct {
		Next PieceType `json:"next"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"next":"L"}`), &decoded))
	assert.Equal(t, TypeL, decoded.Next)
	assert.Error(t, json.Unmarshal([]byte(`{"next":"Q"}`), &decoded))
}
