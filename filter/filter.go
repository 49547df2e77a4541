// Package filter implements the filter engine described in spec.md §4.7:
// evaluation of a conjunction of field predicates into a sorted document id
// set, using the numeric tree for numeric fields and token-postings
// intersection (verified against the facet index for faceted fields) for
// string fields.
//
// Grounded on the teacher's core.Indexer.searchIndex binary-search pattern
// (core/indexer.go) for sorted-id set manipulation, generalized to the
// spec's per-field predicate evaluation.
package filter

import (
	"sort"

	"github.com/kestrel-search/kestrel/art"
	"github.com/kestrel-search/kestrel/facet"
	"github.com/kestrel-search/kestrel/numindex"
	"github.com/kestrel-search/kestrel/postings"
	"github.com/kestrel-search/kestrel/tokenizer"
	"github.com/kestrel-search/kestrel/types"
)

// Op is a predicate comparator.
type Op int

const (
	OpEq Op = iota
	OpNotEq
	OpLt
	OpLte
	OpGt
	OpGte
	OpRange
)

// Value is one operand of a predicate. Str is used for string fields; Num
// (and NumHigh, for OpRange) for numeric fields, already encoded per
// types.EncodeFloat32/EncodeBool where applicable.
type Value struct {
	Str     string
	Num     int64
	NumHigh int64
}

// Predicate is one filter clause: field, comparator, and a list of operand
// values that are OR'd together (spec.md §4.7: "multi-value predicates
// inside one filter are OR'd").
type Predicate struct {
	Field  string
	Op     Op
	Values []Value
}

// FieldResources bundles the per-field index handles a predicate needs.
// Numeric is nil for string fields; Tokens is nil for numeric fields.
// FacetPos is -1 when the field is not facet-eligible.
type FieldResources struct {
	Def      types.Field
	FacetPos int
	Tokens   *art.Tree
	Numeric  *numindex.Tree
	Facets   *facet.Index
}

// Resources maps field name to its index handles.
type Resources map[string]*FieldResources

// Evaluate runs the conjunction of predicates and returns the sorted,
// deduplicated surviving document id set. universe is the full candidate id
// set, needed to evaluate OpNotEq on string fields (there is no direct
// "postings complement" operation). Returns *types.QueryError if a
// predicate names a field absent from resources.
func Evaluate(predicates []Predicate, resources Resources, universe []uint32) ([]uint32, error) {
	var result []uint32
	first := true
	for _, p := range predicates {
		res, ok := resources[p.Field]
		if !ok {
			return nil, types.NewQueryError(p.Field, types.ErrUnknownField)
		}
		ids, err := evalPredicate(p, res, universe)
		if err != nil {
			return nil, err
		}
		if first {
			result = ids
			first = false
			continue
		}
		result = postings.IntersectWithSorted(result, ids)
		if len(result) == 0 {
			return result, nil
		}
	}
	return result, nil
}

func evalPredicate(p Predicate, res *FieldResources, universe []uint32) ([]uint32, error) {
	if res.Def.Type.IsNumeric() {
		return evalNumeric(p, res.Numeric), nil
	}
	return evalString(p, res, universe), nil
}

func evalNumeric(p Predicate, tree *numindex.Tree) []uint32 {
	var out []uint32
	for _, v := range p.Values {
		var ids []uint32
		switch p.Op {
		case OpEq:
			ids = tree.Equals(v.Num)
		case OpNotEq:
			ids = unionSorted(tree.LessThan(v.Num), tree.GreaterThan(v.Num))
		case OpLt:
			ids = tree.LessThan(v.Num)
		case OpLte:
			ids = tree.LessOrEqual(v.Num)
		case OpGt:
			ids = tree.GreaterThan(v.Num)
		case OpGte:
			ids = tree.GreaterOrEqual(v.Num)
		case OpRange:
			ids = tree.Range(v.Num, v.NumHigh)
		}
		out = unionSorted(out, ids)
	}
	return out
}

func evalString(p Predicate, res *FieldResources, universe []uint32) []uint32 {
	matched := unionMatchValues(p.Values, res)
	if p.Op == OpNotEq {
		return subtractSorted(universe, matched)
	}
	return matched
}

func unionMatchValues(values []Value, res *FieldResources) []uint32 {
	var out []uint32
	for _, v := range values {
		out = unionSorted(out, matchOneValue(v.Str, res))
	}
	return out
}

// matchOneValue tokenizes a filter value, intersects its tokens' postings
// lists, and — for facet fields — verifies the exact combined facet hash
// rather than accepting any document that merely contains all the tokens
// somewhere in the field (spec.md §4.7).
func matchOneValue(value string, res *FieldResources) []uint32 {
	tokens := tokenizer.Tokenize(value, false)
	if len(tokens) == 0 {
		return nil
	}
	lists := make([]*postings.List, 0, len(tokens))
	hashes := make([]uint64, len(tokens))
	for i, tok := range tokens {
		leaf, ok := res.Tokens.Get([]byte(tok.Text))
		if !ok {
			return nil
		}
		lists = append(lists, leaf.Postings)
		hashes[i] = facet.HashToken(tok.Text)
	}
	ids := postings.IntersectAscending(lists)
	if res.FacetPos < 0 {
		return ids
	}

	target := facet.CombineValue(hashes)
	requireFullCardinality := !res.Def.Type.IsArray()
	verified := make([]uint32, 0, len(ids))
	for _, id := range ids {
		row := res.Facets.Row(id, res.FacetPos)
		if matchesRun(row, len(hashes), target, requireFullCardinality) {
			verified = append(verified, id)
		}
	}
	return verified
}

// matchesRun splits a facet row into its per-value runs at Delimiter
// boundaries and reports whether any run's combined hash equals target.
// requireFullCardinality additionally demands the matching run's token
// count equal wantLen, the scalar-field check of spec.md §4.7.
func matchesRun(row []uint64, wantLen int, target uint64, requireFullCardinality bool) bool {
	start := 0
	for i := 0; i <= len(row); i++ {
		if i < len(row) && row[i] != facet.Delimiter {
			continue
		}
		run := row[start:i]
		if len(run) > 0 {
			if requireFullCardinality && len(run) != wantLen {
				start = i + 1
				continue
			}
			if facet.CombineValue(run) == target {
				return true
			}
		}
		start = i + 1
	}
	return false
}

func unionSorted(a, b []uint32) []uint32 {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	seen := make(map[uint32]struct{}, len(a)+len(b))
	out := make([]uint32, 0, len(a)+len(b))
	for _, id := range a {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	for _, id := range b {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func subtractSorted(universe, exclude []uint32) []uint32 {
	excl := make(map[uint32]struct{}, len(exclude))
	for _, id := range exclude {
		excl[id] = struct{}{}
	}
	return postings.SubtractSorted(universe, excl)
}
