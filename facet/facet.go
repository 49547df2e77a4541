// Package facet implements the facet index and faceting algorithm from
// spec.md §4.5: a per-document, per-facet-position sequence of value-token
// hashes, an order-sensitive combined hash identifying distinct multi-token
// facet values, and the counting/stats walk run over a candidate id set.
//
// Shaped after the teacher's per-document map keyed by doc id
// (types.DocInfosShard, types/doc_info.go) — here one row per document
// holding a []uint64 per facet position instead of an opaque Fields blob.
package facet

import "github.com/kestrel-search/kestrel/art"

// Index holds the per-document facet rows for one collection, indexed by
// facet position (spec.md §3: "facet position equals ordinal rank in the
// facet schema; stable across restarts").
type Index struct {
	numFacets int
	rows      map[uint32][][]uint64
}

// New returns an empty facet index for a schema with numFacets facet fields.
func New(numFacets int) *Index {
	return &Index{numFacets: numFacets, rows: make(map[uint32][][]uint64)}
}

// SetRow records the hash sequence for docID at facetPos.
func (ix *Index) SetRow(docID uint32, facetPos int, hashes []uint64) {
	row, ok := ix.rows[docID]
	if !ok {
		row = make([][]uint64, ix.numFacets)
		ix.rows[docID] = row
	}
	row[facetPos] = hashes
}

// Row returns docID's hash sequence at facetPos, or nil if absent.
func (ix *Index) Row(docID uint32, facetPos int) []uint64 {
	row, ok := ix.rows[docID]
	if !ok || facetPos >= len(row) {
		return nil
	}
	return row[facetPos]
}

// RemoveDoc deletes docID's entire facet row.
func (ix *Index) RemoveDoc(docID uint32) {
	delete(ix.rows, docID)
}

// BuildScalarRow builds a non-array facet row: the hashes of tokens in
// source order, no delimiter.
func BuildScalarRow(tokenHashes []uint64) []uint64 {
	return append([]uint64(nil), tokenHashes...)
}

// BuildArrayRow builds an array field's facet row: each element's token
// hashes concatenated with Delimiter between elements, per spec.md §4.5.
func BuildArrayRow(perElementHashes [][]uint64) []uint64 {
	var row []uint64
	for i, elem := range perElementHashes {
		if i > 0 {
			row = append(row, Delimiter)
		}
		row = append(row, elem...)
	}
	return row
}

// ValueCount is one distinct facet value's tally.
type ValueCount struct {
	Hash     uint64
	Count    int
	GroupIDs map[uint64]struct{} // populated only when grouping is enabled
}

// Stats accumulates numeric facet statistics over a candidate set.
type Stats struct {
	Min, Max, Sum float64
	Count         int64
}

func (s *Stats) observe(v float64) {
	if s.Count == 0 {
		s.Min, s.Max = v, v
	} else {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Sum += v
	s.Count++
}

// Highlight records the lowest-cost field-token position matching an
// accepted facet-query token, per spec.md §4.5's highlighting rule.
type Highlight struct {
	FieldTokenPosition int
	Cost               int
}

// QueryMatch is the result of fuzzy-searching a facet-query's tokens over
// the field's ART index (spec.md §4.5 step 1): the set of accepted token
// hashes and, per query-token position, the best (lowest-cost) match.
type QueryMatch struct {
	AcceptedHashes map[uint64]bool
	Highlights     map[int]Highlight
}

// MatchQuery fuzzy-searches each query token over tree within maxCost and
// records the accepted hashes plus the best-cost match per query-token
// position (ties broken by lower cost, per spec.md §4.5). Because an ART
// leaf does not carry a single fixed in-document position, the reported
// FieldTokenPosition is always the best-cost leaf's first recorded offset
// in the first (lowest-id) document of its postings — a documented
// simplification, not a guarantee of a single canonical position across
// all matching documents.
func MatchQuery(tree *art.Tree, queryTokens []string, maxCost int) *QueryMatch {
	m := &QueryMatch{AcceptedHashes: make(map[uint64]bool), Highlights: make(map[int]Highlight)}
	for pos, tok := range queryTokens {
		cands := tree.FuzzySearch([]byte(tok), maxCost, false, 0, art.OrderFrequency)
		best := Highlight{Cost: maxCost + 1}
		found := false
		for _, c := range cands {
			m.AcceptedHashes[HashToken(string(c.Leaf.Key))] = true
			if c.Cost < best.Cost {
				best = Highlight{FieldTokenPosition: firstOffset(c), Cost: c.Cost}
				found = true
			}
		}
		if found {
			m.Highlights[pos] = best
		}
	}
	return m
}

func firstOffset(c art.Candidate) int {
	if c.Leaf.Postings.Len() == 0 {
		return 0
	}
	offsets := c.Leaf.Postings.OffsetsFor(c.Leaf.Postings.DocIDs[0])
	if len(offsets) == 0 {
		return 0
	}
	return int(offsets[0])
}

// Result is the outcome of computing one facet over a candidate set.
type Result struct {
	Field      string
	Values     map[uint64]*ValueCount
	Stats      *Stats
	Highlights map[int]Highlight
}

// DecodeNumeric converts a facet's raw stored hash back into a float64 for
// stats purposes. Callers pass the field-type-appropriate decoder; for
// plain integers this is just float64(int64(hash)), for encoded floats it
// is types.DecodeFloat32.
type DecodeNumeric func(hash uint64) float64

// Compute runs the faceting algorithm of spec.md §4.5 over candidateIDs:
// for each candidate, walk its hash sequence, split it into per-value runs
// at Delimiter boundaries, fold each run into a combined hash via
// CombineValue, and tally it. groupHash, if non-nil, returns the
// group-by hash for a document so grouped facet counts can be registered
// (spec.md §4.5 step 3's "or registering the group-id when grouping is
// enabled"). decode, if non-nil, marks this as a numeric facet and
// updates min/max/sum/count stats per scalar value.
func Compute(field string, rowOf func(docID uint32) []uint64, candidateIDs []uint32,
	groupHash func(docID uint32) (uint64, bool), decode DecodeNumeric, query *QueryMatch) *Result {

	res := &Result{Field: field, Values: make(map[uint64]*ValueCount)}
	if decode != nil {
		res.Stats = &Stats{}
	}

	for _, id := range candidateIDs {
		row := rowOf(id)
		if len(row) == 0 {
			continue
		}
		start := 0
		for i := 0; i <= len(row); i++ {
			if i < len(row) && row[i] != Delimiter {
				continue
			}
			run := row[start:i]
			if len(run) > 0 {
				combined := CombineValue(run)
				vc, ok := res.Values[combined]
				if !ok {
					vc = &ValueCount{Hash: combined}
					res.Values[combined] = vc
				}
				vc.Count++
				if groupHash != nil {
					if gid, ok := groupHash(id); ok {
						if vc.GroupIDs == nil {
							vc.GroupIDs = make(map[uint64]struct{})
						}
						vc.GroupIDs[gid] = struct{}{}
					}
				}
				if decode != nil && len(run) == 1 {
					res.Stats.observe(decode(run[0]))
				}
			}
			start = i + 1
		}
	}

	if query != nil {
		res.Highlights = query.Highlights
	}
	return res
}
