package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kestrel-search/kestrel/core"
)

func TestWorkerSerializesIndexAndSearch(t *testing.T) {
	c := core.NewCollection(productSchema())
	w := NewWorker(c)
	defer w.Terminate()

	require.NoError(t, w.Index(productDoc(1, "red shoe", []string{"a"}, 10), false))
	require.NoError(t, w.Index(productDoc(2, "blue shoe", []string{"b"}, 20), false))

	res, err := w.Search(&Query{IncludeTokens: []string{"*"}, PerPage: 10})
	require.NoError(t, err)
	require.Equal(t, 2, res.TotalMatched)
}

func TestWorkerRemoveDropsDocumentFromSubsequentSearches(t *testing.T) {
	c := core.NewCollection(productSchema())
	w := NewWorker(c)
	defer w.Terminate()

	require.NoError(t, w.Index(productDoc(1, "red shoe", []string{"a"}, 10), false))
	require.NoError(t, w.Remove(1))

	res, err := w.Search(&Query{IncludeTokens: []string{"*"}, PerPage: 10})
	require.NoError(t, err)
	require.Equal(t, 0, res.TotalMatched)
}
