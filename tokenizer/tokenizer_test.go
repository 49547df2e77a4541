package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenizeLowercasesAndSplits(t *testing.T) {
	toks := Tokenize("The Rain, in Spain!", false)
	require.Len(t, toks, 4)
	require.Equal(t, "the", toks[0].Text)
	require.Equal(t, 0, toks[0].Position)
	require.Equal(t, "rain", toks[1].Text)
	require.Equal(t, 1, toks[1].Position)
	require.Equal(t, "in", toks[2].Text)
	require.Equal(t, "spain", toks[3].Text)
	require.Equal(t, 3, toks[3].Position)
}

func TestTokenizeKeepEmptySkipsLowercasing(t *testing.T) {
	toks := Tokenize("ABC 123", true)
	require.Len(t, toks, 2)
	require.Equal(t, "ABC", toks[0].Text)
	require.Equal(t, "123", toks[1].Text)
}

func TestTokenizePreservesNonASCII(t *testing.T) {
	toks := Tokenize("café à la carte", false)
	require.Len(t, toks, 4)
	require.Equal(t, "café", toks[0].Text)
	require.Equal(t, "à", toks[1].Text)
}

func TestTokenizeRoundTripsPositions(t *testing.T) {
	toks := Tokenize("one two three", false)
	for i, tok := range toks {
		require.Equal(t, i, tok.Position)
	}
}

func TestTokenizeEmpty(t *testing.T) {
	require.Empty(t, Tokenize("", false))
	require.Empty(t, Tokenize("   ,,, ", false))
}
