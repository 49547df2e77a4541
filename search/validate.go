package search

import (
	"github.com/kestrel-search/kestrel/core"
	"github.com/kestrel-search/kestrel/types"
)

// Validate checks a normalized query against c's schema for the Query
// error cases of spec.md §7, run by Execute before any index access:
// per_page/page bounds (spec.md §8: "per_page = 250 succeeds; 251 is
// rejected"), an unknown field named by a search/facet/sort/group-by
// clause, sorting on an optional field, and a non-string search field.
func Validate(c *core.Collection, q *Query) error {
	if q.PerPage > types.MaxPerPage {
		return types.NewQueryError("", types.ErrPerPageTooLarge)
	}
	if q.Page < 1 {
		return types.NewQueryError("", types.ErrPageTooSmall)
	}

	for _, field := range q.SearchFields {
		def, ok := c.Schema.Field(field)
		if !ok {
			return types.NewQueryError(field, types.ErrUnknownField)
		}
		if !def.Type.IsString() {
			return types.NewQueryError(field, types.ErrNonStringSearchField)
		}
	}

	for _, field := range q.FacetFields {
		if _, ok := c.Schema.Field(field); !ok {
			return types.NewQueryError(field, types.ErrUnknownField)
		}
	}

	for _, s := range q.SortBy {
		if s.Field == "" {
			continue
		}
		def, ok := c.Schema.Field(s.Field)
		if !ok {
			return types.NewQueryError(s.Field, types.ErrUnknownField)
		}
		if def.Optional {
			return types.NewQueryError(s.Field, types.ErrSortOnOptionalField)
		}
	}

	if q.GroupByField != "" {
		if _, ok := c.Schema.Field(q.GroupByField); !ok {
			return types.NewQueryError(q.GroupByField, types.ErrUnknownField)
		}
	}

	return nil
}
