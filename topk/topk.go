// Package topk implements the bounded top-K heap described in spec.md
// §4.8: a size-K min-heap keyed by a three-component sort comparator, with
// optional per-group distinct limiting.
//
// The teacher has no analogous structure (wukong collects all scored hits
// into a slice and sort.Sort()s the whole thing in core/ranker.go); this
// package follows the standard library's container/heap pattern instead,
// since bounding memory to K entries during a search — rather than scoring
// every match and sorting afterward — is the behavior spec.md §4.8 calls
// for and the corpus shows no third-party heap dependency to reach for.
package topk

import "container/heap"

// Entry is one scored candidate. Keys holds up to three sort-comparator
// values, already negated by the caller for ascending keys so that "larger
// is better" holds uniformly here. MatchScoreIndex names which of the three
// keys (if any) is the computed match score, per spec.md §4.8.
type Entry struct {
	SeqID           uint32
	Keys            [3]int64
	MatchScoreIndex int
	FieldID         int32
	QueryIndex      int
	GroupHash       uint64
	HasGroup        bool
}

func less(a, b Entry) bool {
	for i := 0; i < 3; i++ {
		if a.Keys[i] != b.Keys[i] {
			return a.Keys[i] < b.Keys[i]
		}
	}
	return a.SeqID < b.SeqID
}

// heapSlice is a plain min-heap of Entry ordered by less: index 0 holds the
// worst-ranked entry among those currently kept.
type heapSlice []Entry

func (h heapSlice) Len() int            { return len(h) }
func (h heapSlice) Less(i, j int) bool  { return less(h[i], h[j]) }
func (h heapSlice) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *heapSlice) Push(x interface{}) { *h = append(*h, x.(Entry)) }
func (h *heapSlice) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Heap is a bounded top-K structure with no grouping.
type Heap struct {
	k    int
	data heapSlice
}

// New returns an empty top-K heap bounded to k entries.
func New(k int) *Heap {
	return &Heap{k: k, data: make(heapSlice, 0, k)}
}

// Len returns the number of entries currently retained.
func (h *Heap) Len() int { return h.data.Len() }

// Add offers e to the heap in O(log K) amortized time, per spec.md §4.8.
func (h *Heap) Add(e Entry) {
	if h.k <= 0 {
		return
	}
	if h.data.Len() < h.k {
		heap.Push(&h.data, e)
		return
	}
	if less(h.data[0], e) {
		h.data[0] = e
		heap.Fix(&h.data, 0)
	}
}

// Final drains the heap into a slice ordered best-first (spec.md §4.8's
// "final() — drain into an ordered result vector").
func (h *Heap) Final() []Entry {
	n := h.data.Len()
	out := make([]Entry, n)
	tmp := append(heapSlice(nil), h.data...)
	for i := n - 1; i >= 0; i-- {
		out[i] = heap.Pop(&tmp).(Entry)
	}
	return out
}

// repHeap is a min-heap of one representative Entry per distinct group,
// tracking each group's current slot so its representative can be updated
// or evicted in place rather than pushed as a second, stale copy.
type repHeap struct {
	data []Entry
	pos  map[uint64]int // GroupHash -> index into data
}

func (h repHeap) Len() int           { return len(h.data) }
func (h repHeap) Less(i, j int) bool { return less(h.data[i], h.data[j]) }
func (h *repHeap) Swap(i, j int) {
	h.data[i], h.data[j] = h.data[j], h.data[i]
	h.pos[h.data[i].GroupHash] = i
	h.pos[h.data[j].GroupHash] = j
}
func (h *repHeap) Push(x interface{}) {
	e := x.(Entry)
	h.pos[e.GroupHash] = len(h.data)
	h.data = append(h.data, e)
}
func (h *repHeap) Pop() interface{} {
	old := h.data
	n := len(old)
	item := old[n-1]
	delete(h.pos, item.GroupHash)
	h.data = old[:n-1]
	return item
}

// GroupedHeap bounds the outer top-K to one representative per distinct
// group-by hash, while retaining up to G raw entries per group, per
// spec.md §4.8: "the heap maintains up to G entries per distinct key ...
// and, at the top level, only the best-in-group entry participates in the
// outer heap."
type GroupedHeap struct {
	k, g    int
	outer   *repHeap
	members map[uint64][]Entry // each bucket sorted best-first, capped at g
}

// NewGrouped returns an empty grouped top-K heap: k distinct groups at the
// outer level, up to g entries kept per group.
func NewGrouped(k, g int) *GroupedHeap {
	return &GroupedHeap{k: k, g: g, outer: &repHeap{pos: make(map[uint64]int)}, members: make(map[uint64][]Entry)}
}

// Add offers e, attributed to its GroupHash, to the grouped heap. The
// group's outer-heap slot (if any) is updated or fixed in place rather than
// pushed again, so a group never occupies more than one outer slot.
func (gh *GroupedHeap) Add(e Entry) {
	bucket := gh.members[e.GroupHash]
	bucket = insertBounded(bucket, e, gh.g)
	gh.members[e.GroupHash] = bucket
	rep := bucket[0]

	if idx, ok := gh.outer.pos[e.GroupHash]; ok {
		gh.outer.data[idx] = rep
		heap.Fix(gh.outer, idx)
		return
	}
	if gh.k <= 0 {
		return
	}
	if gh.outer.Len() < gh.k {
		heap.Push(gh.outer, rep)
		return
	}
	if less(gh.outer.data[0], rep) {
		delete(gh.outer.pos, gh.outer.data[0].GroupHash)
		gh.outer.data[0] = rep
		gh.outer.pos[rep.GroupHash] = 0
		heap.Fix(gh.outer, 0)
	}
}

// insertBounded inserts e into a best-first sorted bucket, evicting the
// worst entry if the bucket would exceed cap.
func insertBounded(bucket []Entry, e Entry, cap int) []Entry {
	i := 0
	for i < len(bucket) && less(e, bucket[i]) {
		i++
	}
	bucket = append(bucket, Entry{})
	copy(bucket[i+1:], bucket[i:])
	bucket[i] = e
	if len(bucket) > cap {
		bucket = bucket[:cap]
	}
	return bucket
}

// Final drains the grouped heap: the outer heap selects which groups made
// the global top-K, then each selected group contributes up to G entries,
// best-first, per spec.md §8's group-limit invariant.
func (gh *GroupedHeap) Final() []Entry {
	n := gh.outer.Len()
	tmp := &repHeap{data: append([]Entry(nil), gh.outer.data...), pos: make(map[uint64]int, n)}
	for i, e := range tmp.data {
		tmp.pos[e.GroupHash] = i
	}
	reps := make([]Entry, n)
	for i := n - 1; i >= 0; i-- {
		reps[i] = heap.Pop(tmp).(Entry)
	}
	var out []Entry
	for _, rep := range reps {
		out = append(out, gh.members[rep.GroupHash]...)
	}
	return out
}

// HashCombine folds v into seed using the widely-used Boost-style mixing
// function, for building a 64-bit group-by key from multiple field values
// (spec.md §4.8's "64-bit hash over group-by field values").
func HashCombine(seed, v uint64) uint64 {
	seed ^= v + 0x9e3779b97f4a7c15 + (seed << 6) + (seed >> 2)
	return seed
}
