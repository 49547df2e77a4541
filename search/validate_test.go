package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kestrel-search/kestrel/core"
	"github.com/kestrel-search/kestrel/types"
)

func TestExecuteRejectsPerPageAboveMax(t *testing.T) {
	c := core.NewCollection(productSchema())
	mustIndex(t, c, productDoc(1, "red shoe", []string{"a"}, 10))

	_, err := Execute(c, &Query{IncludeTokens: []string{"*"}, PerPage: types.MaxPerPage + 1})
	require.ErrorIs(t, err, types.ErrPerPageTooLarge)
}

func TestExecuteAllowsPerPageAtMax(t *testing.T) {
	c := core.NewCollection(productSchema())
	mustIndex(t, c, productDoc(1, "red shoe", []string{"a"}, 10))

	_, err := Execute(c, &Query{IncludeTokens: []string{"*"}, PerPage: types.MaxPerPage})
	require.NoError(t, err)
}

func TestExecuteRejectsPageBelowOne(t *testing.T) {
	c := core.NewCollection(productSchema())
	mustIndex(t, c, productDoc(1, "red shoe", []string{"a"}, 10))

	_, err := Execute(c, &Query{IncludeTokens: []string{"*"}, Page: -1, PerPage: 10})
	require.ErrorIs(t, err, types.ErrPageTooSmall)
}

func TestExecuteRejectsUnknownSearchField(t *testing.T) {
	c := core.NewCollection(productSchema())
	mustIndex(t, c, productDoc(1, "red shoe", []string{"a"}, 10))

	_, err := Execute(c, &Query{
		IncludeTokens: []string{"red"},
		SearchFields:  []string{"nope"},
		PerPage:       10,
	})
	require.ErrorIs(t, err, types.ErrUnknownField)
}

func TestExecuteRejectsNonStringSearchField(t *testing.T) {
	c := core.NewCollection(productSchema())
	mustIndex(t, c, productDoc(1, "red shoe", []string{"a"}, 10))

	_, err := Execute(c, &Query{
		IncludeTokens: []string{"10"},
		SearchFields:  []string{"price"},
		PerPage:       10,
	})
	require.ErrorIs(t, err, types.ErrNonStringSearchField)
}

func TestExecuteRejectsUnknownFacetField(t *testing.T) {
	c := core.NewCollection(productSchema())
	mustIndex(t, c, productDoc(1, "red shoe", []string{"a"}, 10))

	_, err := Execute(c, &Query{
		IncludeTokens: []string{"*"},
		FacetFields:   []string{"nope"},
		PerPage:       10,
	})
	require.ErrorIs(t, err, types.ErrUnknownField)
}

func TestExecuteRejectsSortOnOptionalField(t *testing.T) {
	c := core.NewCollection(productSchema())
	mustIndex(t, c, productDocWithDescription(1, "red shoe", "great", []string{"a"}, 10))

	_, err := Execute(c, &Query{
		IncludeTokens: []string{"*"},
		SortBy:        [3]SortSpec{{Field: "description"}},
		PerPage:       10,
	})
	require.ErrorIs(t, err, types.ErrSortOnOptionalField)
}

func TestExecuteRejectsUnknownGroupByField(t *testing.T) {
	c := core.NewCollection(productSchema())
	mustIndex(t, c, productDoc(1, "red shoe", []string{"a"}, 10))

	_, err := Execute(c, &Query{
		IncludeTokens: []string{"*"},
		PerPage:       10,
		GroupByField:  "nope",
		GroupLimit:    2,
	})
	require.ErrorIs(t, err, types.ErrUnknownField)
}
