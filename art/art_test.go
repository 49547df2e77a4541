package art

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func insertWord(t *Tree, word string, docID uint32, score int64) {
	leaf := t.GetOrCreate([]byte(word))
	leaf.Postings.Insert(docID, []uint32{0}, score)
}

func TestExactLookup(t *testing.T) {
	tree := New()
	insertWord(tree, "train", 1, 10)
	insertWord(tree, "rain", 2, 20)

	leaf, ok := tree.Get([]byte("train"))
	require.True(t, ok)
	require.Equal(t, []uint32{1}, leaf.Postings.DocIDs)

	_, ok = tree.Get([]byte("plain"))
	require.False(t, ok)
}

func TestSharedPrefixSplitting(t *testing.T) {
	tree := New()
	insertWord(tree, "biological", 1, 1)
	insertWord(tree, "biology", 2, 1)
	insertWord(tree, "geology", 3, 1)

	for _, w := range []string{"biological", "biology", "geology"} {
		_, ok := tree.Get([]byte(w))
		require.True(t, ok, w)
	}
	require.Equal(t, 3, tree.Size())
}

func TestPrefixSearch(t *testing.T) {
	tree := New()
	insertWord(tree, "rocket", 1, 1)
	insertWord(tree, "rocketry", 2, 1)
	insertWord(tree, "rock", 3, 1)
	insertWord(tree, "paper", 4, 1)

	leaves := tree.PrefixSearch([]byte("rock"), 0)
	got := map[string]bool{}
	for _, l := range leaves {
		got[string(l.Key)] = true
	}
	require.Equal(t, map[string]bool{"rocket": true, "rocketry": true, "rock": true}, got)
}

func TestDeleteRemovesLeafAndPrunes(t *testing.T) {
	tree := New()
	insertWord(tree, "train", 1, 1)
	insertWord(tree, "trainer", 2, 1)

	require.True(t, tree.Delete([]byte("trainer")))
	_, ok := tree.Get([]byte("trainer"))
	require.False(t, ok)
	_, ok = tree.Get([]byte("train"))
	require.True(t, ok)

	require.False(t, tree.Delete([]byte("trainer")))
}

func TestFuzzySearchEditDistanceOne(t *testing.T) {
	tree := New()
	insertWord(tree, "biological", 1, 1)
	insertWord(tree, "biology", 2, 1)
	insertWord(tree, "geology", 3, 1)

	cands := tree.FuzzySearch([]byte("biologcal"), 2, false, 10, OrderFrequency)
	require.NotEmpty(t, cands)
	require.Equal(t, "biological", string(cands[0].Leaf.Key))
	require.Equal(t, 1, cands[0].Cost)

	for _, c := range cands {
		require.NotEqual(t, "geology", string(c.Leaf.Key))
	}
}

func TestFuzzySearchMaxCostZeroIsExact(t *testing.T) {
	tree := New()
	insertWord(tree, "train", 1, 1)
	insertWord(tree, "rain", 2, 1)

	cands := tree.FuzzySearch([]byte("train"), 0, false, 10, OrderFrequency)
	require.Len(t, cands, 1)
	require.Equal(t, "train", string(cands[0].Leaf.Key))
}

func TestFuzzySearchPrefixMode(t *testing.T) {
	tree := New()
	insertWord(tree, "rocket", 1, 1)
	insertWord(tree, "rocketry", 2, 1)
	insertWord(tree, "rockets", 3, 1)

	cands := tree.FuzzySearch([]byte("rocket"), 0, true, 10, OrderFrequency)
	got := map[string]bool{}
	for _, c := range cands {
		got[string(c.Leaf.Key)] = true
	}
	require.Equal(t, map[string]bool{"rocket": true, "rocketry": true, "rockets": true}, got)
}

func TestFuzzySearchOrderingByFrequency(t *testing.T) {
	tree := New()
	insertWord(tree, "cat", 1, 1)
	insertWord(tree, "cat", 2, 1)
	insertWord(tree, "car", 3, 1)

	cands := tree.FuzzySearch([]byte("cat"), 1, false, 1, OrderFrequency)
	require.Len(t, cands, 1)
	require.Equal(t, "cat", string(cands[0].Leaf.Key))
}

func TestFuzzySearchOrderingByMaxScore(t *testing.T) {
	tree := New()
	insertWord(tree, "cat", 1, 5)
	insertWord(tree, "car", 2, 100)

	cands := tree.FuzzySearch([]byte("cat"), 1, false, 1, OrderMaxScore)
	require.Len(t, cands, 1)
	require.Equal(t, "car", string(cands[0].Leaf.Key))
}

func TestFuzzySearchTieBreaksLexicographically(t *testing.T) {
	tree := New()
	insertWord(tree, "bat", 1, 1)
	insertWord(tree, "cat", 2, 1)

	cands := tree.FuzzySearch([]byte("zat"), 1, false, 1, OrderFrequency)
	require.Len(t, cands, 1)
	require.Equal(t, "bat", string(cands[0].Leaf.Key))
}
