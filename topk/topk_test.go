package topk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func keyEntry(seqID uint32, score int64) Entry {
	return Entry{SeqID: seqID, Keys: [3]int64{score, 0, 0}, MatchScoreIndex: 0}
}

func TestHeapKeepsBestK(t *testing.T) {
	h := New(2)
	h.Add(keyEntry(1, 10))
	h.Add(keyEntry(2, 30))
	h.Add(keyEntry(3, 20))

	final := h.Final()
	require.Len(t, final, 2)
	require.Equal(t, uint32(2), final[0].SeqID)
	require.Equal(t, uint32(3), final[1].SeqID)
}

func TestHeapDiscardsWorseThanFullSet(t *testing.T) {
	h := New(1)
	h.Add(keyEntry(1, 50))
	h.Add(keyEntry(2, 10))

	final := h.Final()
	require.Len(t, final, 1)
	require.Equal(t, uint32(1), final[0].SeqID)
}

func TestGroupedHeapCapsPerGroup(t *testing.T) {
	gh := NewGrouped(10, 2)
	gh.Add(Entry{SeqID: 1, Keys: [3]int64{10}, GroupHash: 100})
	gh.Add(Entry{SeqID: 2, Keys: [3]int64{20}, GroupHash: 100})
	gh.Add(Entry{SeqID: 3, Keys: [3]int64{5}, GroupHash: 100})

	final := gh.Final()
	require.Len(t, final, 2)
	require.Equal(t, uint32(2), final[0].SeqID)
	require.Equal(t, uint32(1), final[1].SeqID)
}

func TestGroupedHeapOuterSelectsBestGroups(t *testing.T) {
	gh := NewGrouped(1, 5)
	gh.Add(Entry{SeqID: 1, Keys: [3]int64{10}, GroupHash: 1})
	gh.Add(Entry{SeqID: 2, Keys: [3]int64{99}, GroupHash: 2})

	final := gh.Final()
	require.Len(t, final, 1)
	require.Equal(t, uint32(2), final[0].SeqID)
}

func TestGroupedHeapNeverDuplicatesAGroupInTheOuterHeap(t *testing.T) {
	gh := NewGrouped(10, 2)
	gh.Add(Entry{SeqID: 1, Keys: [3]int64{10}, GroupHash: 100})
	gh.Add(Entry{SeqID: 2, Keys: [3]int64{20}, GroupHash: 100})
	gh.Add(Entry{SeqID: 3, Keys: [3]int64{30}, GroupHash: 100})
	gh.Add(Entry{SeqID: 4, Keys: [3]int64{5}, GroupHash: 200})

	final := gh.Final()
	require.Len(t, final, 3)
}

func TestHashCombineOrderSensitive(t *testing.T) {
	a := HashCombine(HashCombine(0, 1), 2)
	b := HashCombine(HashCombine(0, 2), 1)
	require.NotEqual(t, a, b)
}
