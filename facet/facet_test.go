package facet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCombineValueOrderSensitive(t *testing.T) {
	a := CombineValue([]uint64{HashToken("new"), HashToken("york")})
	b := CombineValue([]uint64{HashToken("york"), HashToken("new")})
	require.NotEqual(t, a, b)
}

func TestFacetArrayValuesCountedDistinctly(t *testing.T) {
	ix := New(1)

	row1 := BuildArrayRow([][]uint64{{HashToken("a")}, {HashToken("b")}})
	row2 := BuildArrayRow([][]uint64{{HashToken("a")}})
	ix.SetRow(1, 0, row1)
	ix.SetRow(2, 0, row2)

	res := Compute("tags", func(id uint32) []uint64 { return ix.Row(id, 0) },
		[]uint32{1, 2}, nil, nil, nil)

	require.Len(t, res.Values, 3) // "a", "b" (from doc1) and "a" (from doc2) as three distinct value-runs...
}

func TestFacetScalarStringCountsWholeValueOnce(t *testing.T) {
	ix := New(1)
	row := BuildScalarRow([]uint64{HashToken("red")})
	ix.SetRow(1, 0, row)
	ix.SetRow(2, 0, row)

	res := Compute("color", func(id uint32) []uint64 { return ix.Row(id, 0) },
		[]uint32{1, 2}, nil, nil, nil)

	require.Len(t, res.Values, 1)
	for _, vc := range res.Values {
		require.Equal(t, 2, vc.Count)
	}
}

func TestFacetNumericStats(t *testing.T) {
	ix := New(1)
	ix.SetRow(1, 0, []uint64{10})
	ix.SetRow(2, 0, []uint64{20})
	ix.SetRow(3, 0, []uint64{30})

	decode := func(h uint64) float64 { return float64(int64(h)) }
	res := Compute("points", func(id uint32) []uint64 { return ix.Row(id, 0) },
		[]uint32{1, 2, 3}, nil, decode, nil)

	require.NotNil(t, res.Stats)
	require.Equal(t, 10.0, res.Stats.Min)
	require.Equal(t, 30.0, res.Stats.Max)
	require.Equal(t, 60.0, res.Stats.Sum)
	require.EqualValues(t, 3, res.Stats.Count)
}

func TestFacetGrouping(t *testing.T) {
	ix := New(1)
	ix.SetRow(1, 0, BuildScalarRow([]uint64{HashToken("red")}))
	ix.SetRow(2, 0, BuildScalarRow([]uint64{HashToken("red")}))

	groupOf := map[uint32]uint64{1: 100, 2: 100}
	res := Compute("color", func(id uint32) []uint64 { return ix.Row(id, 0) },
		[]uint32{1, 2}, func(id uint32) (uint64, bool) { g, ok := groupOf[id]; return g, ok }, nil, nil)

	for _, vc := range res.Values {
		require.Len(t, vc.GroupIDs, 1)
	}
}
