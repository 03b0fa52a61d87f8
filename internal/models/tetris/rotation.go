package tetris

// KickOffsets は回転時に試す横方向の補正量です。先頭から順に試し、最初に置ける位置を採用します。
var KickOffsets = [...]int{0, -1, 1, -2, 2}

// TryRotate はピースを dir 方向に回転させ、壁蹴りを含めて置ける位置を探します。
// どの補正でも置けない場合は元のピースとfalseを返します。
func (b *Board) TryRotate(p Piece, dir int) (Piece, bool) {
	rotated := p.Rotated(dir)
	for _, kick := range KickOffsets {
		candidate := rotated.Moved(kick, 0)
		if b.IsValid(candidate) {
			return candidate, true
		}
	}
	return p, false
}
