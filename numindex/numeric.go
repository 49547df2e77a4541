// Package numindex implements the numeric tree described in spec.md §4.4:
// a map from a signed 64-bit key to a sorted document-id set, supporting
// equality, inequality, range queries and insert/remove.
//
// The teacher has no numeric index of its own (wukong scores purely by
// BM25 over text tokens); this package follows the same sorted-slice,
// binary-search discipline the teacher uses for postings
// (core/indexer.go's searchIndex) rather than reaching for a balanced tree
// type, since a Go slice kept sorted is simpler and the corpus shows no
// third-party B-tree/skip-list dependency to reach for instead.
package numindex

import "sort"

// Tree maps int64 keys to sorted, deduplicated document-id sets.
type Tree struct {
	keys   []int64
	docIDs [][]uint32
}

// New returns an empty numeric tree.
func New() *Tree {
	return &Tree{}
}

func (t *Tree) search(key int64) (int, bool) {
	i := sort.Search(len(t.keys), func(i int) bool { return t.keys[i] >= key })
	if i < len(t.keys) && t.keys[i] == key {
		return i, true
	}
	return i, false
}

// Insert adds id under key.
func (t *Tree) Insert(key int64, id uint32) {
	i, found := t.search(key)
	if found {
		ids := t.docIDs[i]
		j := sort.Search(len(ids), func(j int) bool { return ids[j] >= id })
		if j < len(ids) && ids[j] == id {
			return
		}
		ids = append(ids, 0)
		copy(ids[j+1:], ids[j:])
		ids[j] = id
		t.docIDs[i] = ids
		return
	}
	t.keys = append(t.keys, 0)
	copy(t.keys[i+1:], t.keys[i:])
	t.keys[i] = key

	t.docIDs = append(t.docIDs, nil)
	copy(t.docIDs[i+1:], t.docIDs[i:])
	t.docIDs[i] = []uint32{id}
}

// Remove deletes id from key's set, removing the key entirely if its set
// becomes empty.
func (t *Tree) Remove(key int64, id uint32) {
	i, found := t.search(key)
	if !found {
		return
	}
	ids := t.docIDs[i]
	j := sort.Search(len(ids), func(j int) bool { return ids[j] >= id })
	if j >= len(ids) || ids[j] != id {
		return
	}
	ids = append(ids[:j], ids[j+1:]...)
	if len(ids) == 0 {
		t.keys = append(t.keys[:i], t.keys[i+1:]...)
		t.docIDs = append(t.docIDs[:i], t.docIDs[i+1:]...)
		return
	}
	t.docIDs[i] = ids
}

// Equals returns the sorted id set for key.
func (t *Tree) Equals(key int64) []uint32 {
	i, found := t.search(key)
	if !found {
		return nil
	}
	return t.docIDs[i]
}

// LessThan returns the sorted union of id sets for keys < key.
func (t *Tree) LessThan(key int64) []uint32 {
	i, _ := t.search(key)
	return t.unionRange(0, i)
}

// LessOrEqual returns the sorted union of id sets for keys <= key.
func (t *Tree) LessOrEqual(key int64) []uint32 {
	i, found := t.search(key)
	if found {
		i++
	}
	return t.unionRange(0, i)
}

// GreaterThan returns the sorted union of id sets for keys > key.
func (t *Tree) GreaterThan(key int64) []uint32 {
	i, found := t.search(key)
	if found {
		i++
	}
	return t.unionRange(i, len(t.keys))
}

// GreaterOrEqual returns the sorted union of id sets for keys >= key.
func (t *Tree) GreaterOrEqual(key int64) []uint32 {
	i, _ := t.search(key)
	return t.unionRange(i, len(t.keys))
}

// Range returns the sorted union of id sets for low <= key <= high.
func (t *Tree) Range(low, high int64) []uint32 {
	start, _ := t.search(low)
	end, found := t.search(high)
	if found {
		end++
	}
	return t.unionRange(start, end)
}

func (t *Tree) unionRange(start, end int) []uint32 {
	if start >= end {
		return nil
	}
	seen := make(map[uint32]struct{})
	var out []uint32
	for i := start; i < end; i++ {
		for _, id := range t.docIDs[i] {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				out = append(out, id)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
