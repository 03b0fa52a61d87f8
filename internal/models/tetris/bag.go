package tetris

import (
	"math/rand"
	"time"
)

// Randomizer は次に出現するピースの種類を供給します。
type Randomizer interface {
	Next() PieceType
}

// Resetter はゲームのリセット時に内部状態を初期化できるRandomizerです。
type Resetter interface {
	Reset()
}

// SevenBag は7種類すべてを1つずつ含む袋をシャッフルし、空になるまで順に取り出す7-bag方式のRandomizerです。
type SevenBag struct {
	rand    *rand.Rand
	pending []PieceType
}

// NewSevenBag は指定したシードで新しい7-bagを作成します。
func NewSevenBag(seed int64) *SevenBag {
	return &SevenBag{
		rand:    rand.New(rand.NewSource(seed)),
		pending: make([]PieceType, 0, PieceTypeCount),
	}
}

// NewRandomSevenBag は現在時刻をシードにした7-bagを作成します。
func NewRandomSevenBag() *SevenBag {
	return NewSevenBag(time.Now().UnixNano())
}

// Next は袋から1つ取り出します。袋が空のときだけ7種類を補充してシャッフルします。
func (b *SevenBag) Next() PieceType {
	if len(b.pending) == 0 {
		b.refill()
	}
	last := len(b.pending) - 1
	t := b.pending[last]
	b.pending = b.pending[:last]
	return t
}

// Remaining は袋に残っているピースの数を返します。
func (b *SevenBag) Remaining() int {
	return len(b.pending)
}

// Reset は袋を空にします。次の Next で新しい袋が補充されます。
func (b *SevenBag) Reset() {
	b.pending = b.pending[:0]
}

func (b *SevenBag) refill() {
	b.pending = b.pending[:0]
	for t := PieceType(0); t < PieceTypeCount; t++ {
		b.pending = append(b.pending, t)
	}
	b.rand.Shuffle(len(b.pending), func(i, j int) {
		b.pending[i], b.pending[j] = b.pending[j], b.pending[i]
	})
}

// QueueRandomizer は決められた順番でピースを返すRandomizerです。
// キューを使い切った後は先頭から繰り返します。テストやリプレイ的な固定順の確認に使います。
type QueueRandomizer struct {
	queue []PieceType
	index int
}

// NewQueueRandomizer は指定された順番で種類を返すRandomizerを作成します。
func NewQueueRandomizer(types ...PieceType) *QueueRandomizer {
	if len(types) == 0 {
		types = []PieceType{TypeI}
	}
	return &QueueRandomizer{queue: types}
}

// Next はキューの次の種類を返します。
func (q *QueueRandomizer) Next() PieceType {
	t := q.queue[q.index%len(q.queue)]
	q.index++
	return t
}

// Reset はキューの先頭に戻ります。
func (q *QueueRandomizer) Reset() {
	q.index = 0
}
