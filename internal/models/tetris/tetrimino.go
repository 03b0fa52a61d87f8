package tetris

import "fmt"

// PieceType はテトリミノの種類を表します。
// 値はシェイプカタログのインデックスであり、ボード上のブロックIDは PieceType + 1 です。
type PieceType int

const (
	TypeI PieceType = iota // 0: I-ミノ (シアン)
	TypeJ                  // 1: J-ミノ (青)
	TypeL                  // 2: L-ミノ (オレンジ)
	TypeO                  // 3: O-ミノ (黄色)
	TypeS                  // 4: S-ミノ (緑)
	TypeT                  // 5: T-ミノ (紫)
	TypeZ                  // 6: Z-ミノ (赤)
)

// PieceTypeCount はテトリミノの種類数です。
const PieceTypeCount = 7

// スポーン位置。すべてのピースは回転0でこの基準点に出現します。
const (
	SpawnX = 3
	SpawnY = -2
)

// Shape は一つの回転状態における4つのブロックの相対座標 {x, y} です。
type Shape [4][2]int

// pieceShapes は各PieceTypeの回転状態を順番に並べたカタログです。
// [PieceType][RotationIndex] でアクセスします。座標はピースの基準点からの相対値です。
var pieceShapes = [PieceTypeCount][]Shape{
	TypeI: {
		{{0, 1}, {1, 1}, {2, 1}, {3, 1}}, // 横
		{{2, 0}, {2, 1}, {2, 2}, {2, 3}}, // 縦
	},
	TypeJ: {
		{{0, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 0}, {2, 0}, {1, 1}, {1, 2}},
		{{0, 1}, {1, 1}, {2, 1}, {2, 2}},
		{{1, 0}, {1, 1}, {1, 2}, {0, 2}},
	},
	TypeL: {
		{{2, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 0}, {1, 1}, {1, 2}, {2, 2}},
		{{0, 1}, {1, 1}, {2, 1}, {0, 2}},
		{{0, 0}, {1, 0}, {1, 1}, {1, 2}},
	},
	TypeO: {
		{{1, 0}, {2, 0}, {1, 1}, {2, 1}}, // 回転しない
	},
	TypeS: {
		{{1, 0}, {2, 0}, {0, 1}, {1, 1}},
		{{1, 0}, {1, 1}, {2, 1}, {2, 2}},
	},
	TypeT: {
		{{1, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 0}, {1, 1}, {2, 1}, {1, 2}},
		{{0, 1}, {1, 1}, {2, 1}, {1, 2}},
		{{1, 0}, {0, 1}, {1, 1}, {1, 2}},
	},
	TypeZ: {
		{{0, 0}, {1, 0}, {1, 1}, {2, 1}},
		{{2, 0}, {1, 1}, {2, 1}, {1, 2}},
	},
}

// RotationsFor は指定された種類の回転状態を順番に返します。
// 返されるスライスはカタログと共有されるため、呼び出し側で変更してはいけません。
func RotationsFor(t PieceType) []Shape {
	return pieceShapes[t.normalize()]
}

// normalize は範囲外の値をカタログの範囲 0..6 に丸めます。
func (t PieceType) normalize() PieceType {
	return PieceType(wrapIndex(int(t), PieceTypeCount))
}

// wrapIndex は負の値でも 0 <= result < n となる剰余を返します。
func wrapIndex(i, n int) int {
	m := i % n
	if m < 0 {
		m += n
	}
	return m
}

// Piece はテトリミノの現在の状態（種類、ボード上の基準点座標、回転インデックス）を表します。
// 値型として扱い、移動や回転は新しいPieceを返します。
type Piece struct {
	Type     PieceType `json:"type"`     // テトリミノの種類
	X        int       `json:"x"`        // ボード上のX座標
	Y        int       `json:"y"`        // ボード上のY座標 (盤面の上では負になる)
	Rotation int       `json:"rotation"` // 回転インデックス
}

// NewPiece はスポーン位置に回転0で新しいピースを作成します。
func NewPiece(t PieceType) Piece {
	return Piece{Type: t.normalize(), X: SpawnX, Y: SpawnY}
}

// Shape は現在の回転状態のシェイプを返します。
func (p Piece) Shape() Shape {
	rotations := RotationsFor(p.Type)
	return rotations[wrapIndex(p.Rotation, len(rotations))]
}

// Blocks はピースを構成する4つのブロックのボード上の絶対座標を返します。
//
// Returns:
//
//	[4][2]int: 各ブロックの絶対座標 {x, y}
func (p Piece) Blocks() [4][2]int {
	var blocks [4][2]int
	for i, offset := range p.Shape() {
		blocks[i] = [2]int{p.X + offset[0], p.Y + offset[1]}
	}
	return blocks
}

// Moved は (dx, dy) だけ平行移動したピースを返します。
func (p Piece) Moved(dx, dy int) Piece {
	p.X += dx
	p.Y += dy
	return p
}

// Rotated は回転方向 dir (正: 時計回り, 負: 反時計回り) に1段階回転したピースを返します。
func (p Piece) Rotated(dir int) Piece {
	step := 1
	if dir < 0 {
		step = -1
	}
	p.Rotation = wrapIndex(p.Rotation+step, len(RotationsFor(p.Type)))
	return p
}

// IsAboveTop はピースのブロックが一つでも盤面の上 (y < 0) にあるかを判定します。
func (p Piece) IsAboveTop() bool {
	for _, block := range p.Blocks() {
		if block[1] < 0 {
			return true
		}
	}
	return false
}

// String は "I", "O" などの文字表現を返します。
func (t PieceType) String() string {
	return PieceTypeToString(t)
}

// MarshalText はPieceTypeをJSONで文字列として出力するために実装しています。
func (t PieceType) MarshalText() ([]byte, error) {
	return []byte(PieceTypeToString(t)), nil
}

// UnmarshalText は "I" などの文字列からPieceTypeを復元します。
func (t *PieceType) UnmarshalText(text []byte) error {
	parsed, ok := StringToPieceType(string(text))
	if !ok {
		return fmt.Errorf("unknown piece type %q", text)
	}
	*t = parsed
	return nil
}

// StringToPieceType は文字列のテトリミノタイプ（"I", "O", "T"など）をPieceTypeに変換します。
func StringToPieceType(s string) (PieceType, bool) {
	switch s {
	case "I":
		return TypeI, true
	case "J":
		return TypeJ, true
	case "L":
		return TypeL, true
	case "O":
		return TypeO, true
	case "S":
		return TypeS, true
	case "T":
		return TypeT, true
	case "Z":
		return TypeZ, true
	default:
		return TypeI, false
	}
}

// PieceTypeToString はPieceTypeを文字列表現に変換します。
func PieceTypeToString(t PieceType) string {
	return string("IJLOSTZ"[t.normalize()])
}
