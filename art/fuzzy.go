package art

import "sort"

// Ordering selects which leaves are kept when a fuzzy search finds more
// candidates than the requested cap, per spec.md §4.3.
type Ordering int

const (
	// OrderFrequency keeps the highest postings.DocIDs length.
	OrderFrequency Ordering = iota
	// OrderMaxScore keeps the highest postings.MaxScore.
	OrderMaxScore
)

// Candidate is one fuzzy-match result: the matched leaf and its edit cost.
type Candidate struct {
	Leaf *Leaf
	Cost int
}

func nextRow(prev []int, key []byte, c byte) []int {
	row := make([]int, len(key)+1)
	row[0] = prev[0] + 1
	for j := 1; j <= len(key); j++ {
		cost := 1
		if key[j-1] == c {
			cost = 0
		}
		del := prev[j] + 1
		ins := row[j-1] + 1
		sub := prev[j-1] + cost
		row[j] = minInt3(del, ins, sub)
	}
	return row
}

func minInt3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func minRow(row []int) int {
	m := row[0]
	for _, v := range row[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// FuzzySearch returns up to limit leaves whose key is within edit distance
// maxCost of key (limit <= 0 means unlimited). In prefix mode a match is
// accepted as soon as some ancestor path of length >= len(key) is within
// maxCost of key — the whole subtree below that point is then accepted,
// since every leaf beneath it shares that qualifying prefix (spec.md
// §4.3's "of any prefix of the key extended to length >= |k|"). Results
// are ordered per `order` and tie-broken lexicographically on key, per
// spec.md §4.3.
func (t *Tree) FuzzySearch(key []byte, maxCost int, prefixMode bool, limit int, order Ordering) []Candidate {
	row0 := make([]int, len(key)+1)
	for i := range row0 {
		row0[i] = i
	}

	var results []Candidate

	var step func(n *node, row []int, pathLen int)
	step = func(n *node, row []int, pathLen int) {
		if prefixMode {
			if pathLen >= len(key) && row[len(key)] <= maxCost {
				collectSubtreeCandidates(n, row[len(key)], &results)
				return
			}
		} else if n.leaf != nil && row[len(key)] <= maxCost {
			results = append(results, Candidate{Leaf: n.leaf, Cost: row[len(key)]})
		}

		if minRow(row) > maxCost {
			return
		}

		for b, child := range n.children {
			r := row
			pl := pathLen
			pruned := false

			r = nextRow(r, key, b)
			pl++
			accepted := prefixMode && pl >= len(key) && r[len(key)] <= maxCost
			if minRow(r) > maxCost {
				pruned = true
			}
			if !pruned && !accepted {
				for _, c := range child.prefix {
					r = nextRow(r, key, c)
					pl++
					if prefixMode && pl >= len(key) && r[len(key)] <= maxCost {
						accepted = true
						break
					}
					if minRow(r) > maxCost {
						pruned = true
						break
					}
				}
			}
			if accepted {
				collectSubtreeCandidates(child, r[len(key)], &results)
			} else if !pruned {
				step(child, r, pl)
			}
		}
	}

	step(t.root, row0, 0)
	return rankCandidates(results, limit, order)
}

func collectSubtreeCandidates(n *node, cost int, out *[]Candidate) {
	if n.leaf != nil {
		*out = append(*out, Candidate{Leaf: n.leaf, Cost: cost})
	}
	for _, child := range n.children {
		collectSubtreeCandidates(child, cost, out)
	}
}

func rankCandidates(cands []Candidate, limit int, order Ordering) []Candidate {
	sort.Slice(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		var scoreA, scoreB int64
		switch order {
		case OrderMaxScore:
			scoreA, scoreB = a.Leaf.Postings.MaxScore, b.Leaf.Postings.MaxScore
		default:
			scoreA, scoreB = int64(a.Leaf.Postings.Len()), int64(b.Leaf.Postings.Len())
		}
		if scoreA != scoreB {
			return scoreA > scoreB
		}
		return string(a.Leaf.Key) < string(b.Leaf.Key)
	})
	if limit > 0 && len(cands) > limit {
		cands = cands[:limit]
	}
	return cands
}
