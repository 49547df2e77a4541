package ranker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFieldIDDecreasesWithPosition(t *testing.T) {
	require.Equal(t, int32(FieldLimitNum), FieldID(0))
	require.Equal(t, int32(FieldLimitNum-2), FieldID(1))
	require.Less(t, FieldID(1), FieldID(0))
}

func TestSynonymFieldIDRanksBelowOriginal(t *testing.T) {
	fid := FieldID(0)
	require.Less(t, SynonymFieldID(fid), fid)
}

func TestSingleTokenScoreFavorsLowerCostAndHigherField(t *testing.T) {
	exact := SingleTokenScore(0, FieldID(0))
	typo := SingleTokenScore(1, FieldID(0))
	require.Greater(t, exact, typo)

	firstField := SingleTokenScore(0, FieldID(0))
	secondField := SingleTokenScore(0, FieldID(1))
	require.Greater(t, firstField, secondField)
}

func TestProximityScoreRewardsAdjacentTokens(t *testing.T) {
	fieldID := FieldID(0)
	adjacent := ProximityScore(fieldID, [][][]int{{{0}, {1}}}, []int{4, 4})
	distant := ProximityScore(fieldID, [][][]int{{{0}, {100}}}, []int{4, 4})
	require.Greater(t, adjacent, distant)
}

func TestProximityScoreSumsAcrossElements(t *testing.T) {
	fieldID := FieldID(0)
	oneElement := ProximityScore(fieldID, [][][]int{{{0}, {1}}}, []int{4, 4})
	twoElements := ProximityScore(fieldID, [][][]int{{{0}, {1}}, {{0}, {1}}}, []int{4, 4})
	require.Equal(t, oneElement*2, twoElements)
}

func TestProximityScoreSkipsElementsMissingAToken(t *testing.T) {
	fieldID := FieldID(0)
	score := ProximityScore(fieldID, [][][]int{{{0}, {}}}, []int{4, 4})
	require.Zero(t, score)
}

func TestBuildSortKeysNegatesAscending(t *testing.T) {
	keys := BuildSortKeys([3]int64{10, 20, 30}, [3]bool{true, false, true})
	require.Equal(t, [3]int64{10, -20, 30}, keys)
}
