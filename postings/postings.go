// Package postings implements the per-token inverted list described in
// spec.md §4.2: a sorted, uncompressed document id list, a parallel sorted
// array of per-document offset-index pointers, and a flat sorted offsets
// array, plus a running max_score used for best-score leaf ordering during
// typo expansion (spec.md §4.3).
//
// This mirrors the shape of the teacher's types.KeywordIndices
// (DocIds/Locations/Frequencies parallel slices, searched with the
// teacher's binary-search insert in core/indexer.go) generalized to the
// spec's offset-index indirection and array-field sentinel encoding.
package postings

import "sort"

// arraySentinel is not written into encoded offsets: EncodeArrayOffsets
// marks the boundary between an array field's concatenated in-array
// positions and the trailing array-index of the last occurrence with a
// repeated copy of the last position, per spec.md §3's array postings
// invariant.
const arraySentinel = -1

// List is one token's postings.
type List struct {
	DocIDs      []uint32 // sorted ascending, unique
	OffsetIndex []uint32 // len(DocIDs)+1; offsets for DocIDs[i] are Offsets[OffsetIndex[i]:OffsetIndex[i+1]]
	Offsets     []uint32 // flat, concatenated per document in DocIDs order
	MaxScore    int64
}

// New returns an empty postings list.
func New() *List {
	return &List{OffsetIndex: []uint32{0}}
}

// Len returns the number of documents in the list.
func (l *List) Len() int { return len(l.DocIDs) }

// find returns the index of docID in DocIDs and whether it was found,
// using binary search (the teacher's core.Indexer.searchIndex, generalized).
func (l *List) find(docID uint32) (int, bool) {
	i := sort.Search(len(l.DocIDs), func(i int) bool { return l.DocIDs[i] >= docID })
	if i < len(l.DocIDs) && l.DocIDs[i] == docID {
		return i, true
	}
	return i, false
}

// OffsetsFor returns the raw offsets recorded for docID, or nil if absent.
func (l *List) OffsetsFor(docID uint32) []uint32 {
	i, found := l.find(docID)
	if !found {
		return nil
	}
	return l.Offsets[l.OffsetIndex[i]:l.OffsetIndex[i+1]]
}

// Positions decodes scalar-field offsets: the raw offsets are exactly the
// in-field token positions.
func Positions(raw []uint32) []int {
	out := make([]int, len(raw))
	for i, v := range raw {
		out[i] = int(v)
	}
	return out
}

// EncodeArrayOffsets builds the array-field offset encoding from
// spec.md §3: all in-array positions in source order, then one copy of the
// last position (sentinel), then the array index of the element that
// contained it.
func EncodeArrayOffsets(positions []int, lastArrayIndex int) []uint32 {
	out := make([]uint32, 0, len(positions)+2)
	for _, p := range positions {
		out = append(out, uint32(p))
	}
	if len(positions) > 0 {
		out = append(out, uint32(positions[len(positions)-1]))
	} else {
		out = append(out, 0)
	}
	out = append(out, uint32(lastArrayIndex))
	return out
}

// EncodeScalarOffsets converts a non-array field's token positions into the
// raw offsets stored for one document, the inverse of Positions.
func EncodeScalarOffsets(positions []int) []uint32 {
	out := make([]uint32, len(positions))
	for i, p := range positions {
		out[i] = uint32(p)
	}
	return out
}

// DecodeArrayOffsets recovers the in-array positions and the array index of
// the last occurrence from the spec.md §3 encoding.
func DecodeArrayOffsets(raw []uint32) (positions []int, lastArrayIndex int) {
	if len(raw) < 2 {
		return nil, 0
	}
	positions = Positions(raw[:len(raw)-2])
	lastArrayIndex = int(raw[len(raw)-1])
	return positions, lastArrayIndex
}

// Insert adds or overwrites docID's offsets, keeping DocIDs sorted. score
// updates MaxScore when it exceeds the current maximum, per spec.md §4.2.
func (l *List) Insert(docID uint32, offsets []uint32, score int64) {
	if score > l.MaxScore {
		l.MaxScore = score
	}
	i, found := l.find(docID)
	if found {
		l.replaceAt(i, offsets)
		return
	}
	l.insertAt(i, docID, offsets)
}

func (l *List) replaceAt(i int, offsets []uint32) {
	start, end := l.OffsetIndex[i], l.OffsetIndex[i+1]
	oldLen := int(end - start)
	delta := len(offsets) - oldLen
	if delta == 0 {
		copy(l.Offsets[start:end], offsets)
		return
	}
	newOffsets := make([]uint32, 0, len(l.Offsets)+delta)
	newOffsets = append(newOffsets, l.Offsets[:start]...)
	newOffsets = append(newOffsets, offsets...)
	newOffsets = append(newOffsets, l.Offsets[end:]...)
	l.Offsets = newOffsets
	for j := i + 1; j < len(l.OffsetIndex); j++ {
		l.OffsetIndex[j] = uint32(int(l.OffsetIndex[j]) + delta)
	}
}

func (l *List) insertAt(i int, docID uint32, offsets []uint32) {
	l.DocIDs = append(l.DocIDs, 0)
	copy(l.DocIDs[i+1:], l.DocIDs[i:])
	l.DocIDs[i] = docID

	start := l.OffsetIndex[i]
	newOffsets := make([]uint32, 0, len(l.Offsets)+len(offsets))
	newOffsets = append(newOffsets, l.Offsets[:start]...)
	newOffsets = append(newOffsets, offsets...)
	newOffsets = append(newOffsets, l.Offsets[start:]...)
	l.Offsets = newOffsets

	l.OffsetIndex = append(l.OffsetIndex, 0)
	copy(l.OffsetIndex[i+2:], l.OffsetIndex[i+1:])
	l.OffsetIndex[i+1] = start + uint32(len(offsets))
	for j := i + 2; j < len(l.OffsetIndex); j++ {
		l.OffsetIndex[j] = uint32(int(l.OffsetIndex[j]) + len(offsets))
	}
}

// Remove deletes docID from the list, rebuilding OffsetIndex and Offsets to
// shift succeeding entries, per spec.md §4.2. Reports whether the list is
// now empty (callers use this to free the owning ART leaf).
func (l *List) Remove(docID uint32) (empty bool) {
	i, found := l.find(docID)
	if !found {
		return len(l.DocIDs) == 0
	}
	start, end := l.OffsetIndex[i], l.OffsetIndex[i+1]
	removedLen := int(end - start)

	l.DocIDs = append(l.DocIDs[:i], l.DocIDs[i+1:]...)

	newOffsets := make([]uint32, 0, len(l.Offsets)-removedLen)
	newOffsets = append(newOffsets, l.Offsets[:start]...)
	newOffsets = append(newOffsets, l.Offsets[end:]...)
	l.Offsets = newOffsets

	l.OffsetIndex = append(l.OffsetIndex[:i+1], l.OffsetIndex[i+2:]...)
	for j := i + 1; j < len(l.OffsetIndex); j++ {
		l.OffsetIndex[j] = uint32(int(l.OffsetIndex[j]) - removedLen)
	}
	return len(l.DocIDs) == 0
}

// IntersectAscending intersects postings lists in ascending length order
// (spec.md §4.10.5.d: "improves performance") and returns the sorted
// surviving document ids.
func IntersectAscending(lists []*List) []uint32 {
	if len(lists) == 0 {
		return nil
	}
	ordered := append([]*List(nil), lists...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Len() < ordered[j].Len() })

	result := append([]uint32(nil), ordered[0].DocIDs...)
	for _, l := range ordered[1:] {
		result = intersectSorted(result, l.DocIDs)
		if len(result) == 0 {
			break
		}
	}
	return result
}

func intersectSorted(a, b []uint32) []uint32 {
	out := make([]uint32, 0, minInt(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// SubtractSorted removes every id in exclude (sorted) from ids (sorted),
// returning a new sorted slice.
func SubtractSorted(ids []uint32, exclude map[uint32]struct{}) []uint32 {
	if len(exclude) == 0 {
		return ids
	}
	out := make([]uint32, 0, len(ids))
	for _, id := range ids {
		if _, excluded := exclude[id]; !excluded {
			out = append(out, id)
		}
	}
	return out
}

// IntersectWithSorted intersects a sorted id slice with a postings-derived
// sorted id slice (used to apply the filter id set to a candidate set).
func IntersectWithSorted(a, b []uint32) []uint32 {
	return intersectSorted(a, b)
}
