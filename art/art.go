// Package art implements the adaptive radix trie described in spec.md
// §4.3: a mutable byte-keyed trie mapping token bytes to postings lists,
// supporting exact lookup, prefix enumeration, and bounded edit-distance
// fuzzy search with a token-ordering tie-break.
//
// The teacher (wukong) keeps its inverted index in a flat
// map[string]*KeywordIndices (types/inverted_index.go) with binary-search
// insertion into parallel slices (core/indexer.go's searchIndex). This
// package keeps that same "sorted parallel arrays behind a leaf" postings
// shape (see the postings package) but replaces the flat map with a
// path-compressed trie so that prefix and fuzzy candidates can be found
// without scanning every token, which a flat map cannot support.
package art

import (
	"sort"

	"github.com/kestrel-search/kestrel/postings"
)

// Leaf is one terminal node of the trie: a key and its postings.
type Leaf struct {
	Key      []byte
	Postings *postings.List
}

type node struct {
	prefix   []byte
	children map[byte]*node
	leaf     *Leaf
}

func newNode() *node {
	return &node{children: make(map[byte]*node)}
}

// Tree is a mutable adaptive radix trie over byte-string keys.
type Tree struct {
	root *node
	size int
}

// New returns an empty trie.
func New() *Tree {
	return &Tree{root: newNode()}
}

// Size returns the number of leaves (distinct keys) in the trie.
func (t *Tree) Size() int { return t.size }

func commonPrefixLen(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// GetOrCreate returns the leaf for key, creating an empty-postings leaf if
// one does not already exist.
func (t *Tree) GetOrCreate(key []byte) *Leaf {
	leaf, created := t.insertAt(t.root, key, 0)
	if created {
		t.size++
	}
	return leaf
}

func (t *Tree) insertAt(n *node, key []byte, depth int) (*Leaf, bool) {
	remaining := key[depth:]
	if len(remaining) == 0 {
		if n.leaf == nil {
			n.leaf = &Leaf{Key: append([]byte(nil), key...), Postings: postings.New()}
			return n.leaf, true
		}
		return n.leaf, false
	}

	b := remaining[0]
	child, ok := n.children[b]
	if !ok {
		newLeafNode := newNode()
		newLeafNode.prefix = append([]byte(nil), remaining[1:]...)
		newLeafNode.leaf = &Leaf{Key: append([]byte(nil), key...), Postings: postings.New()}
		n.children[b] = newLeafNode
		return newLeafNode.leaf, true
	}

	rest := remaining[1:]
	cp := commonPrefixLen(rest, child.prefix)

	if cp == len(child.prefix) {
		if cp == len(rest) {
			if child.leaf == nil {
				child.leaf = &Leaf{Key: append([]byte(nil), key...), Postings: postings.New()}
				return child.leaf, true
			}
			return child.leaf, false
		}
		return t.insertAt(child, key, depth+1+cp)
	}

	// Split child at cp: the shared prefix becomes a new intermediate node.
	splitNode := newNode()
	splitNode.prefix = append([]byte(nil), child.prefix[:cp]...)

	childRestByte := child.prefix[cp]
	child.prefix = append([]byte(nil), child.prefix[cp+1:]...)
	splitNode.children[childRestByte] = child
	n.children[b] = splitNode

	if cp == len(rest) {
		splitNode.leaf = &Leaf{Key: append([]byte(nil), key...), Postings: postings.New()}
		return splitNode.leaf, true
	}

	newLeafNode := newNode()
	newKeyRestByte := rest[cp]
	newLeafNode.prefix = append([]byte(nil), rest[cp+1:]...)
	newLeafNode.leaf = &Leaf{Key: append([]byte(nil), key...), Postings: postings.New()}
	splitNode.children[newKeyRestByte] = newLeafNode

	return newLeafNode.leaf, true
}

// Get performs an exact lookup, returning (nil, false) if key is absent.
func (t *Tree) Get(key []byte) (*Leaf, bool) {
	n := t.root
	depth := 0
	for {
		remaining := key[depth:]
		if len(remaining) == 0 {
			if n.leaf != nil {
				return n.leaf, true
			}
			return nil, false
		}
		child, ok := n.children[remaining[0]]
		if !ok {
			return nil, false
		}
		rest := remaining[1:]
		if len(rest) < len(child.prefix) || commonPrefixLen(rest, child.prefix) != len(child.prefix) {
			return nil, false
		}
		n = child
		depth += 1 + len(child.prefix)
	}
}

// Delete removes the leaf for key, if present, and prunes the now-childless
// node from its parent so empty ART leaves are freed, per spec.md §3.
// Reports whether a leaf was actually removed.
func (t *Tree) Delete(key []byte) bool {
	type frame struct {
		parent *node
		via    byte
		n      *node
	}
	var path []frame
	n := t.root
	depth := 0
	for {
		remaining := key[depth:]
		if len(remaining) == 0 {
			break
		}
		child, ok := n.children[remaining[0]]
		if !ok {
			return false
		}
		rest := remaining[1:]
		if len(rest) < len(child.prefix) || commonPrefixLen(rest, child.prefix) != len(child.prefix) {
			return false
		}
		path = append(path, frame{parent: n, via: remaining[0], n: child})
		n = child
		depth += 1 + len(child.prefix)
	}
	if n.leaf == nil {
		return false
	}
	n.leaf = nil
	t.size--

	for i := len(path) - 1; i >= 0; i-- {
		f := path[i]
		if f.n.leaf == nil && len(f.n.children) == 0 {
			delete(f.parent.children, f.via)
		} else {
			break
		}
	}
	return true
}

// PrefixSearch enumerates up to limit leaves whose key starts with prefix
// (limit <= 0 means unlimited). Order is unspecified beyond depth-first
// traversal; callers that need a stable order should sort the result.
func (t *Tree) PrefixSearch(prefix []byte, limit int) []*Leaf {
	n := t.root
	depth := 0
	for {
		remaining := prefix[depth:]
		if len(remaining) == 0 {
			break
		}
		child, ok := n.children[remaining[0]]
		if !ok {
			return nil
		}
		rest := remaining[1:]
		cp := commonPrefixLen(rest, child.prefix)
		switch {
		case cp == len(rest):
			// prefix ends inside (or exactly at) this edge
			n = child
			depth = len(prefix)
		case cp == len(child.prefix):
			n = child
			depth += 1 + len(child.prefix)
		default:
			return nil
		}
	}
	var out []*Leaf
	collectLeaves(n, &out, limit)
	return out
}

func collectLeaves(n *node, out *[]*Leaf, limit int) {
	if limit > 0 && len(*out) >= limit {
		return
	}
	if n.leaf != nil {
		*out = append(*out, n.leaf)
		if limit > 0 && len(*out) >= limit {
			return
		}
	}
	// Deterministic traversal order for reproducible tests.
	keys := make([]byte, 0, len(n.children))
	for b := range n.children {
		keys = append(keys, b)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, b := range keys {
		collectLeaves(n.children[b], out, limit)
		if limit > 0 && len(*out) >= limit {
			return
		}
	}
}
