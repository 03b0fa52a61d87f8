package tetris

const (
	BoardWidth  = 10 // テトリスボードの幅
	BoardHeight = 20 // テトリスボードの高さ（表示部分）
)

// BlockType はボード上のブロックの種類を表します。
// 0 は空きマス、1..7 は固定されたテトリミノの PieceType + 1 です。
type BlockType int

const (
	BlockEmpty BlockType = iota // 0: 空のマス
	BlockI                      // 1: I-テトリミノ由来のブロック
	BlockJ                      // 2: J-テトリミノ由来のブロック
	BlockL                      // 3: L-テトリミノ由来のブロック
	BlockO                      // 4: O-テトリミノ由来のブロック
	BlockS                      // 5: S-テトリミノ由来のブロック
	BlockT                      // 6: T-テトリミノ由来のブロック
	BlockZ                      // 7: Z-テトリミノ由来のブロック
)

// BlockFor はピースの種類に対応するブロックIDを返します。
func BlockFor(t PieceType) BlockType {
	return BlockType(t.normalize() + 1)
}

// PieceType はブロックの由来となったピースの種類を返します。空きマスの場合はfalseです。
func (b BlockType) PieceType() (PieceType, bool) {
	if b <= BlockEmpty || b > BlockZ {
		return TypeI, false
	}
	return PieceType(b - 1), true
}

// Board はテトリスのゲームボードを表す2次元配列です。
// Board[y][x] でアクセスします。yは行（0が最上段）、xは列です。
type Board [BoardHeight][BoardWidth]BlockType

// NewBoard は新しい空のボードを返します。
func NewBoard() Board {
	var board Board
	return board
}

// IsValid はピースが壁・床・既存ブロックと重ならずに置けるかを判定します。
// 盤面より上 (y < 0) のブロックは左右の範囲のみ確認し、既存ブロックとの重なりは見ません。
func (b *Board) IsValid(p Piece) bool {
	for _, block := range p.Blocks() {
		x, y := block[0], block[1]
		if x < 0 || x >= BoardWidth || y >= BoardHeight {
			return false
		}
		if y >= 0 && b[y][x] != BlockEmpty {
			return false
		}
	}
	return true
}

// HasCollision はピースを (dx, dy) だけ動かした位置が無効かどうかを返します。
//
// Parameters:
//
//	p  : 判定するピース
//	dx : X軸方向の移動量
//	dy : Y軸方向の移動量
//
// Returns:
//
//	bool: 衝突する場合はtrue
func (b *Board) HasCollision(p Piece, dx, dy int) bool {
	return !b.IsValid(p.Moved(dx, dy))
}

// MergePiece はピースをボードに固定します。
// 盤面より上にあるブロックは書き込まれずに捨てられます。
func (b *Board) MergePiece(p Piece) {
	block := BlockFor(p.Type)
	for _, cell := range p.Blocks() {
		x, y := cell[0], cell[1]
		if y < 0 || y >= BoardHeight || x < 0 || x >= BoardWidth {
			continue
		}
		b[y][x] = block
	}
}

// IsRowFull は指定行がすべて埋まっているかを返します。
func (b *Board) IsRowFull(y int) bool {
	for x := 0; x < BoardWidth; x++ {
		if b[y][x] == BlockEmpty {
			return false
		}
	}
	return true
}

// ClearLines は揃ったラインを下から順に消し、消したライン数を返します。
// 揃った行を見つけるたびにその上の行をすべて1行下げて最上段を空にし、
// 同じ行インデックスをもう一度調べます。
func (b *Board) ClearLines() int {
	cleared := 0
	for y := BoardHeight - 1; y >= 0; y-- {
		if !b.IsRowFull(y) {
			continue
		}
		b.collapseRow(y)
		cleared++
		y++ // 落ちてきた行を再検査する
	}
	return cleared
}

// collapseRow は行yを取り除き、その上の行を1行ずつ下げます。
func (b *Board) collapseRow(y int) {
	for row := y; row > 0; row-- {
		b[row] = b[row-1]
	}
	b[0] = [BoardWidth]BlockType{}
}

// DropDistance はピースが現在位置から何行落下できるかを返します。
func (b *Board) DropDistance(p Piece) int {
	distance := 0
	for b.IsValid(p.Moved(0, distance+1)) {
		distance++
	}
	return distance
}

// IsEmpty はボードにブロックが一つもないかを返します。
func (b *Board) IsEmpty() bool {
	for y := 0; y < BoardHeight; y++ {
		for x := 0; x < BoardWidth; x++ {
			if b[y][x] != BlockEmpty {
				return false
			}
		}
	}
	return true
}
