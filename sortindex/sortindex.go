// Package sortindex implements the sort index described in spec.md §4.6:
// a mapping sort-field -> (doc id -> signed 64-bit key), used to order the
// top-K heap without re-reading the document.
//
// Shaped after the teacher's types.DocInfosShard (a plain
// map[uint64]*DocInfo guarded by the shard's own lock, per
// types/doc_info.go) — here specialized to one int64 per document per
// sort field instead of an opaque Fields blob.
package sortindex

// Index holds one field's doc id -> key mapping.
type Index struct {
	values map[uint32]int64
}

// New returns an empty sort index for one field.
func New() *Index {
	return &Index{values: make(map[uint32]int64)}
}

// Set records key for docID, per spec.md §4.6's order-preserving encoding
// (callers pass already-encoded keys — see types.EncodeFloat32/EncodeBool).
func (i *Index) Set(docID uint32, key int64) {
	i.values[docID] = key
}

// Get returns docID's key and whether it is present.
func (i *Index) Get(docID uint32) (int64, bool) {
	v, ok := i.values[docID]
	return v, ok
}

// Remove deletes docID's key.
func (i *Index) Remove(docID uint32) {
	delete(i.values, docID)
}

// Len returns the number of documents with a recorded key.
func (i *Index) Len() int { return len(i.values) }

// Indices holds one sort index per sort-schema field.
type Indices struct {
	byField map[string]*Index
}

// NewIndices returns an empty set of per-field sort indices.
func NewIndices() *Indices {
	return &Indices{byField: make(map[string]*Index)}
}

// Field returns (creating if necessary) the sort index for name.
func (ix *Indices) Field(name string) *Index {
	idx, ok := ix.byField[name]
	if !ok {
		idx = New()
		ix.byField[name] = idx
	}
	return idx
}

// Lookup returns the sort index for name without creating it.
func (ix *Indices) Lookup(name string) (*Index, bool) {
	idx, ok := ix.byField[name]
	return idx, ok
}

// RemoveDoc removes docID from every field's sort index.
func (ix *Indices) RemoveDoc(docID uint32) {
	for _, idx := range ix.byField {
		idx.Remove(docID)
	}
}
