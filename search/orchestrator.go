package search

import (
	"sort"
	"unicode/utf8"

	"github.com/kestrel-search/kestrel/art"
	"github.com/kestrel-search/kestrel/core"
	"github.com/kestrel-search/kestrel/facet"
	"github.com/kestrel-search/kestrel/filter"
	"github.com/kestrel-search/kestrel/postings"
	"github.com/kestrel-search/kestrel/ranker"
	"github.com/kestrel-search/kestrel/topk"
	"github.com/kestrel-search/kestrel/types"
)

// Result is the orchestrator's output, per spec.md §6's SearchResult: an
// ordered top-K, a curated top-K, facet counts, the query-suggestions
// actually tried, and the total matched count.
type Result struct {
	Hits                  []topk.Entry
	Curated               []topk.Entry
	FacetResults          map[string]*facet.Result
	QuerySuggestionsTried [][]string
	TotalMatched          int
}

// Execute runs the search orchestrator of spec.md §4.10 against c.
//
// Simplifications from the literal algorithm, made to keep the bounded
// cartesian-product expansion tractable: a token that yields zero ART
// candidates at its bounded cost is dropped outright rather than
// restarting the combination loop with a reduced vector, and the
// alternating-side drop-tokens recursion of step 5g is not implemented —
// a field that produces no results after dropping empty-candidate tokens
// simply produces no results. Within one field, a document's score is the
// best score found across the combinations tried, not a field-local
// bounded top-K later merged approximately; cross-field aggregation still
// sums that best-per-field score across fields, per spec.md §4.10 step 6.
func Execute(c *core.Collection, query *Query) (*Result, error) {
	q := query.normalized()
	if err := Validate(c, &q); err != nil {
		return nil, err
	}
	resources := c.FilterResources()
	universe := c.AllIDs()

	var baseIDs []uint32
	if len(q.Filters) == 0 {
		baseIDs = universe
	} else {
		ids, err := filter.Evaluate(q.Filters, resources, universe)
		if err != nil {
			return nil, err
		}
		baseIDs = ids
	}

	excluded := excludeTokenIDs(c, q.ExcludeTokens, q.SearchFields)

	curatedSet := make(map[uint32]struct{})
	for _, id := range q.IncludedIDsByPosition {
		curatedSet[id] = struct{}{}
	}
	for _, id := range q.ExcludedIDs {
		curatedSet[id] = struct{}{}
	}
	curatedIDs := setToSortedSlice(curatedSet)

	k := q.Page * q.PerPage
	if k < q.PerPage {
		k = q.PerPage
	}
	useGroup := q.GroupLimit > 0 && q.GroupByField != ""
	var plain *topk.Heap
	var grouped *topk.GroupedHeap
	if useGroup {
		grouped = topk.NewGrouped(k, q.GroupLimit)
	} else {
		plain = topk.New(k)
	}
	push := func(e topk.Entry) {
		if useGroup {
			if gv, ok := groupHashFor(c, q.GroupByField, e.SeqID); ok {
				e.GroupHash, e.HasGroup = gv, true
			}
			grouped.Add(e)
		} else {
			plain.Add(e)
		}
	}

	curatedHeap := topk.New(q.PerPage)
	matchedAll := make(map[uint32]struct{})
	var tried [][]string

	if isWildcard(q.IncludeTokens) {
		survivors := postings.SubtractSorted(baseIDs, toSet(excluded))
		survivors = postings.SubtractSorted(survivors, curatedSet)
		for _, id := range survivors {
			push(buildEntry(c, id, 0, 0, 0, q.SortBy))
			matchedAll[id] = struct{}{}
		}
		for _, id := range curatedIDs {
			if !containsSorted(baseIDs, id) {
				continue
			}
			curatedHeap.Add(buildEntry(c, id, 0, 0, 0, q.SortBy))
			matchedAll[id] = struct{}{}
		}
	} else {
		aggregate := make(map[uint32]int64)
		runField := func(field string, tokens []string, fieldID int32) {
			scores, suggestions := searchField(c, field, tokens, fieldID, q, baseIDs, excluded, curatedSet)
			tried = append(tried, suggestions...)
			for id, s := range scores {
				aggregate[id] += s
				matchedAll[id] = struct{}{}
			}
		}
		for i, field := range q.SearchFields {
			if i >= ranker.FieldLimitNum {
				break
			}
			fieldID := ranker.FieldID(i)
			runField(field, q.IncludeTokens, fieldID)
			synFieldID := ranker.SynonymFieldID(fieldID)
			for _, group := range q.SynonymGroups {
				runField(field, group, synFieldID)
			}
		}

		for id, score := range aggregate {
			push(buildEntry(c, id, score, 0, 0, q.SortBy))
		}
		for _, id := range curatedIDs {
			score, ok := aggregate[id]
			if !ok {
				continue
			}
			curatedHeap.Add(buildEntry(c, id, score, 0, 0, q.SortBy))
		}
	}

	facetCandidates := make(map[uint32]struct{}, len(matchedAll))
	for id := range matchedAll {
		facetCandidates[id] = struct{}{}
	}
	for id := range curatedSet {
		facetCandidates[id] = struct{}{}
	}
	facetIDs := setToSortedSlice(facetCandidates)
	facetResults := make(map[string]*facet.Result, len(q.FacetFields))
	for _, field := range q.FacetFields {
		if r := computeFacet(c, field, facetIDs); r != nil {
			facetResults[field] = r
		}
	}

	var hits []topk.Entry
	if useGroup {
		hits = grouped.Final()
	} else {
		hits = plain.Final()
	}

	return &Result{
		Hits:                  hits,
		Curated:               curatedHeap.Final(),
		FacetResults:          facetResults,
		QuerySuggestionsTried: tried,
		TotalMatched:          len(matchedAll),
	}, nil
}

func isWildcard(tokens []string) bool {
	return len(tokens) == 1 && tokens[0] == "*"
}

// costBound implements spec.md §4.10 step 5a's per-token edit-cost cap:
// two characters or fewer always match exactly, three characters allow at
// most one typo, and longer tokens allow up to num_typos (capped at 2).
func costBound(tokenRunes int, numTypos int) int {
	c := numTypos
	if c > 2 {
		c = 2
	}
	switch {
	case tokenRunes <= 2:
		return 0
	case tokenRunes <= 3:
		if c > 1 {
			return 1
		}
		return c
	default:
		return c
	}
}

// searchField runs one field's worth of bounded cartesian-product typo
// expansion (spec.md §4.10 steps 5a-5d) for one token vector (either the
// query's include tokens or one synonym group), returning each matched
// document's best score and the query-suggestions tried.
func searchField(c *core.Collection, field string, tokens []string, fieldID int32,
	q Query, baseIDs, excluded []uint32, curated map[uint32]struct{}) (map[uint32]int64, [][]string) {

	tree, ok := c.Tokens[field]
	if !ok || len(tokens) == 0 {
		return nil, nil
	}
	def, _ := c.Schema.Field(field)
	isArray := def.Type.IsArray()

	var perToken [][]art.Candidate
	for i, tok := range tokens {
		maxCost := costBound(utf8.RuneCountInString(tok), q.NumTypos)
		prefix := q.Prefix && i == len(tokens)-1
		cands := tree.FuzzySearch([]byte(tok), maxCost, prefix, 10, q.Ordering)
		if len(cands) == 0 {
			continue
		}
		perToken = append(perToken, cands)
	}
	if len(perToken) == 0 {
		return nil, nil
	}

	combos := cartesianCombos(perToken, q.CartesianProductCap)
	aggregate := make(map[uint32]int64)
	var tried [][]string
	fieldNumResults := 0

	for _, combo := range combos {
		if fieldNumResults >= q.TypoTokensThreshold {
			break
		}
		suggestion := make([]string, len(combo))
		lists := make([]*postings.List, len(combo))
		for i, cand := range combo {
			suggestion[i] = string(cand.Leaf.Key)
			lists[i] = cand.Leaf.Postings
		}
		tried = append(tried, suggestion)

		ids := postings.IntersectAscending(lists)
		ids = postings.SubtractSorted(ids, toSet(excluded))
		ids = postings.SubtractSorted(ids, curated)
		if len(q.Filters) > 0 {
			ids = postings.IntersectWithSorted(ids, baseIDs)
		}

		scores := scoreCombo(combo, fieldID, isArray, ids)
		for id, s := range scores {
			if cur, ok := aggregate[id]; !ok || s > cur {
				aggregate[id] = s
			}
			fieldNumResults++
		}
	}
	return aggregate, tried
}

func scoreCombo(combo []art.Candidate, fieldID int32, isArray bool, ids []uint32) map[uint32]int64 {
	scores := make(map[uint32]int64, len(ids))
	if len(combo) <= 1 {
		cost := 0
		if len(combo) == 1 {
			cost = combo[0].Cost
		}
		s := ranker.SingleTokenScore(cost, fieldID)
		for _, id := range ids {
			scores[id] = s
		}
		return scores
	}

	tokenLens := make([]int, len(combo))
	for i, cand := range combo {
		tokenLens[i] = utf8.RuneCount(cand.Leaf.Key)
	}
	for _, id := range ids {
		positions := make([][]int, len(combo))
		for i, cand := range combo {
			raw := cand.Leaf.Postings.OffsetsFor(id)
			if isArray {
				p, _ := postings.DecodeArrayOffsets(raw)
				positions[i] = p
			} else {
				positions[i] = postings.Positions(raw)
			}
		}
		scores[id] = ranker.ProximityScore(fieldID, [][][]int{positions}, tokenLens)
	}
	return scores
}

// cartesianCombos forms the bounded cartesian product of per-token
// candidate lists described in spec.md §4.10 step 5d, truncating the
// running product after every token so the combination count never
// exceeds cap.
func cartesianCombos(perToken [][]art.Candidate, cap int) [][]art.Candidate {
	combos := [][]art.Candidate{{}}
	for _, cands := range perToken {
		var next [][]art.Candidate
		for _, combo := range combos {
			for _, c := range cands {
				nc := make([]art.Candidate, len(combo)+1)
				copy(nc, combo)
				nc[len(combo)] = c
				next = append(next, nc)
				if len(next) >= cap {
					break
				}
			}
			if len(next) >= cap {
				break
			}
		}
		combos = next
		if len(combos) == 0 {
			return nil
		}
	}
	return combos
}

func excludeTokenIDs(c *core.Collection, tokens []string, fields []string) []uint32 {
	set := make(map[uint32]struct{})
	for _, field := range fields {
		tree, ok := c.Tokens[field]
		if !ok {
			continue
		}
		for _, tok := range tokens {
			leaf, ok := tree.Get([]byte(tok))
			if !ok {
				continue
			}
			for _, id := range leaf.Postings.DocIDs {
				set[id] = struct{}{}
			}
		}
	}
	return setToSortedSlice(set)
}

func buildEntry(c *core.Collection, seqID uint32, matchScore int64, fieldID int32, queryIndex int, sortBy [3]SortSpec) topk.Entry {
	var raw [3]int64
	var desc [3]bool
	matchScoreIndex := -1
	for i, s := range sortBy {
		desc[i] = s.Desc
		if s.Field == "" {
			raw[i] = matchScore
			matchScoreIndex = i
			continue
		}
		if idx, ok := c.Sort.Lookup(s.Field); ok {
			if v, ok := idx.Get(seqID); ok {
				raw[i] = v
			}
		}
	}
	keys := ranker.BuildSortKeys(raw, desc)
	return topk.Entry{SeqID: seqID, Keys: keys, MatchScoreIndex: matchScoreIndex, FieldID: fieldID, QueryIndex: queryIndex}
}

// groupHashFor derives the 64-bit group-by key for a document from its
// sort-index value (if the group-by field is sortable numeric) or its
// facet row's whole-value combined hash (if it is a facet field).
func groupHashFor(c *core.Collection, field string, seqID uint32) (uint64, bool) {
	if idx, ok := c.Sort.Lookup(field); ok {
		if v, ok := idx.Get(seqID); ok {
			return topk.HashCombine(0, uint64(v)), true
		}
	}
	pos := c.Schema.FacetPosition(field)
	if pos >= 0 {
		if row := c.Facets.Row(seqID, pos); len(row) > 0 {
			return topk.HashCombine(0, facet.CombineValue(row)), true
		}
	}
	return 0, false
}

func computeFacet(c *core.Collection, field string, candidates []uint32) *facet.Result {
	def, ok := c.Schema.Field(field)
	if !ok || !def.Facet {
		return nil
	}
	pos := c.Schema.FacetPosition(field)
	if pos < 0 {
		return nil
	}
	var decode facet.DecodeNumeric
	if def.Type.IsNumeric() {
		if def.Type == types.FieldFloat || def.Type == types.FieldFloatArray {
			decode = func(h uint64) float64 { return float64(types.DecodeFloat32(int64(h))) }
		} else {
			decode = func(h uint64) float64 { return float64(int64(h)) }
		}
	}
	return facet.Compute(field, func(id uint32) []uint64 { return c.Facets.Row(id, pos) }, candidates, nil, decode, nil)
}

func toSet(ids []uint32) map[uint32]struct{} {
	set := make(map[uint32]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func setToSortedSlice(set map[uint32]struct{}) []uint32 {
	out := make([]uint32, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func containsSorted(ids []uint32, id uint32) bool {
	i := sort.Search(len(ids), func(i int) bool { return ids[i] >= id })
	return i < len(ids) && ids[i] == id
}
