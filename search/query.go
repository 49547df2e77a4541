// Package search implements the search orchestrator and worker loop of
// spec.md §4.10/§4.11: given pre-tokenized query inputs, it filters,
// expands search-field tokens with bounded typo/prefix matching, scores
// and aggregates candidates across fields, and runs faceting over the
// matched set.
package search

import (
	"github.com/kestrel-search/kestrel/art"
	"github.com/kestrel-search/kestrel/filter"
)

// SortSpec is one entry of a query's up-to-three-key sort-by list. An empty
// Field names the computed match score rather than a sort-index field.
type SortSpec struct {
	Field string
	Desc  bool
}

// Query bundles the orchestrator's inputs, per spec.md §6's search(request).
type Query struct {
	IncludeTokens []string   // ["*"] selects the wildcard path
	ExcludeTokens []string
	SynonymGroups [][]string
	SearchFields  []string // search field names, priority order
	Filters       []filter.Predicate

	FacetFields []string

	IncludedIDsByPosition map[int]uint32 // curated inclusions, keyed by result position
	ExcludedIDs           []uint32

	SortBy [3]SortSpec

	Page, PerPage int

	NumTypos            int
	Ordering            art.Ordering
	Prefix              bool
	DropTokensThreshold int
	TypoTokensThreshold int
	CartesianProductCap int

	GroupByField string
	GroupLimit   int
}

// normalized fills in the default thresholds for any left at zero
// (drop-tokens 10, typo-tokens 100, cartesian-product cap 10), defaults
// PerPage to 10 and Page to 1, and clamps NumTypos to 2.
func (q *Query) normalized() Query {
	out := *q
	if out.DropTokensThreshold == 0 {
		out.DropTokensThreshold = 10
	}
	if out.TypoTokensThreshold == 0 {
		out.TypoTokensThreshold = 100
	}
	if out.CartesianProductCap == 0 {
		out.CartesianProductCap = 10
	}
	if out.PerPage == 0 {
		out.PerPage = 10
	}
	if out.Page == 0 {
		out.Page = 1
	}
	if out.NumTypos > 2 {
		out.NumTypos = 2
	}
	return out
}
