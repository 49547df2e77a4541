// Package ranker computes per-document match scores and assembles the
// three-key sort tuple consumed by the top-K heap, per spec.md §4.9.
//
// The token-proximity computation is grounded on the teacher's
// computeTokenProximity (core/indexer.go): a forward dynamic program over
// per-token position lists that, at each step, only considers the nearest
// position in the next token's list on either side of the current one —
// carried over here unchanged in spirit, generalized from the teacher's
// whole-document position lists to per-array-element position lists so
// proximity can be summed across array elements as spec.md §4.9 requires.
package ranker

// FieldLimitNum bounds the number of searchable fields a query considers
// and anchors the field-id boost scale, per the FIELD_LIMIT_NUM constant
// named in spec.md §4.10 ("up to FIELD_LIMIT_NUM fields").
const FieldLimitNum = 100

// FieldID returns the boost weight for the i-th listed search field
// (0-indexed): earlier fields outrank later ones, per spec.md §4.9.
func FieldID(i int) int32 {
	return int32(FieldLimitNum) - 2*int32(i)
}

// SynonymFieldID returns the boost weight used when a query-suggestion
// comes from a synonym group rather than the original terms, per spec.md
// §4.9: "synonyms using field_id - 1 so that original terms outrank
// synonyms".
func SynonymFieldID(fieldID int32) int32 {
	return fieldID - 1
}

// constantScoreScale spreads field-id boosts far enough apart that one
// edit-distance step of cost never outranks a field-id tier above it.
// This resolves spec.md §9's open question on the approximate/constant
// score function: it must be monotone in field id and inversely monotone
// in cost, and field id is the coarser, dominant signal (a first-field
// exact match beats a typo'd first-field match, which in turn beats any
// second-field match, exact or not).
const constantScoreScale = 16

// SingleTokenScore computes match_score for a query-suggestion of 0 or 1
// tokens: a constant derived from edit cost and field id, per spec.md
// §4.9. Lower cost and higher field id both increase the score.
func SingleTokenScore(cost int, fieldID int32) int64 {
	return int64(fieldID)*constantScoreScale - int64(cost)
}

// ProximityScore computes match_score for a query-suggestion of 2 or more
// tokens: for each array element, the per-token position lists
// (elementPositions[e][t] holds token t's positions within element e),
// compute a window proximity distance via elementProximity and sum the
// corresponding per-element scores into one document score, per spec.md
// §4.9 ("sum across elements"). tokenLens gives each token's rune length,
// used the same way the teacher subtracts token length when measuring the
// gap between two token occurrences.
func ProximityScore(fieldID int32, elementPositions [][][]int, tokenLens []int) int64 {
	var total int64
	for _, posLists := range elementPositions {
		proximity, ok := elementProximity(posLists, tokenLens)
		if !ok {
			continue
		}
		total += int64(fieldID)*constantScoreScale - int64(proximity)
	}
	return total
}

// elementProximity runs the teacher's nearest-neighbor dynamic program over
// one array element's per-token position lists, returning the minimal total
// absolute gap connecting one position per token in token order, and
// whether any valid path was found (a token with an empty position list
// means this element does not exercise all query tokens).
func elementProximity(posLists [][]int, tokenLens []int) (int, bool) {
	if len(posLists) < 2 {
		return 0, false
	}
	for _, p := range posLists {
		if len(p) == 0 {
			return 0, false
		}
	}

	currentLocations := posLists[0]
	currentMinValues := make([]int, len(currentLocations))

	for i := 1; i < len(posLists); i++ {
		nextLocations := posLists[i]
		nextMinValues := make([]int, len(nextLocations))
		for j := range nextMinValues {
			nextMinValues[j] = -1
		}

		iNext := 0
		for iCurrent, currentLocation := range currentLocations {
			if currentMinValues[iCurrent] == -1 {
				continue
			}
			for iNext+1 < len(nextLocations) && nextLocations[iNext+1] < currentLocation {
				iNext++
			}
			update := func(to int) {
				if to < 0 || to >= len(nextLocations) {
					return
				}
				value := currentMinValues[iCurrent] + absInt(nextLocations[to]-currentLocation-tokenLens[i-1])
				if nextMinValues[to] == -1 || value < nextMinValues[to] {
					nextMinValues[to] = value
				}
			}
			update(iNext)
			update(iNext + 1)
		}

		currentLocations = nextLocations
		currentMinValues = nextMinValues
	}

	best := -1
	for _, v := range currentMinValues {
		if v == -1 {
			continue
		}
		if best == -1 || v < best {
			best = v
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// BuildSortKeys converts up to three raw sort-by values into the
// topk.Entry.Keys tuple, negating ascending keys (desc[i] false) and
// keeping descending keys as they are, so that "larger is better" holds
// uniformly inside the heap regardless of the user's requested direction.
func BuildSortKeys(values [3]int64, desc [3]bool) [3]int64 {
	var out [3]int64
	for i := range values {
		if desc[i] {
			out[i] = values[i]
		} else {
			out[i] = -values[i]
		}
	}
	return out
}
