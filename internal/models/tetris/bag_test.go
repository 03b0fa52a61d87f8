package tetris

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSevenBag_EachBagIsPermutation(t *testing.T) {
	bag := NewSevenBag(42)
	for round := 0; round < 20; round++ {
		seen := make(map[PieceType]bool)
		for i := 0; i < PieceTypeCount; i++ {
			kind := bag.Next()
			assert.GreaterOrEqual(t, int(kind), 0)
			assert.Less(t, int(kind), PieceTypeCount)
			assert.False(t, seen[kind], "kind %s repeated within one bag", kind)
			seen[kind] = true
		}
		assert.Len(t, seen, PieceTypeCount)
		assert.Equal(t, 0, bag.Remaining())
	}
}

func TestSevenBag_RefillsOnlyWhenEmpty(t *testing.T) {
	bag := NewSevenBag(1)
	bag.Next()
	assert.Equal(t, PieceTypeCount-1, bag.Remaining())
	bag.Next()
	assert.Equal(t, PieceTypeCount-2, bag.Remaining())
}

func TestSevenBag_SameSeedSameSequence(t *testing.T) {
	a := NewSevenBag(7)
	b := NewSevenBag(7)
	for i := 0; i < 21; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestSevenBag_ResetStartsFreshBag(t *testing.T) {
	bag := NewSevenBag(3)
	bag.Next()
	bag.Next()
	bag.Reset()
	assert.Equal(t, 0, bag.Remaining())

	seen := make(map[PieceType]bool)
	for i := 0; i < PieceTypeCount; i++ {
		seen[bag.Next()] = true
	}
	assert.Len(t, seen, PieceTypeCount)
}

func TestQueueRandomizer(t *testing.T) {
	q := NewQueueRandomizer(TypeO, TypeI)
	assert.Equal(t, TypeO, q.Next())
	assert.Equal(t, TypeI, q.Next())
	assert.Equal(t, TypeO, q.Next())
	q.Reset()
	assert.Equal(t, TypeO, q.Next())
}
