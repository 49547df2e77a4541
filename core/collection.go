// Package core implements the ingest path described in spec.md §6/§7:
// validating documents against a schema and mutating the ART, numeric,
// facet and sort indices that back search. It exclusively owns those
// structures, per spec.md's "the index exclusively owns its ART trees,
// numeric trees, facet-index rows, and sort-index maps."
//
// Grounded on the teacher's Indexer (core/indexer.go), which owns a
// DocInfosShard and an InvertedIndexShard and exposes AddDocument /
// RemoveDocument. This package keeps that ownership shape — one struct
// bundling every mutable index the ingest path touches — but replaces the
// teacher's BM25 inverted index with the art/numindex/facet/sortindex
// packages the new document model requires.
package core

import (
	"sort"

	"github.com/kestrel-search/kestrel/art"
	"github.com/kestrel-search/kestrel/facet"
	"github.com/kestrel-search/kestrel/filter"
	"github.com/kestrel-search/kestrel/numindex"
	"github.com/kestrel-search/kestrel/sortindex"
	"github.com/kestrel-search/kestrel/types"
)

// Collection holds every in-memory index for one schema's worth of
// documents, plus the last-indexed copy of each document (needed to
// reverse its index entries on update or removal, mirroring the teacher's
// DocInfosShard.DocInfos map keyed by doc id).
type Collection struct {
	Schema  *types.Schema
	Tokens  map[string]*art.Tree      // one per string field
	Numeric map[string]*numindex.Tree // one per numeric field
	Sort    *sortindex.Indices
	Facets  *facet.Index
	docs    map[uint32]*types.Document
}

// NewCollection returns an empty Collection for schema.
func NewCollection(schema *types.Schema) *Collection {
	c := &Collection{
		Schema:  schema,
		Tokens:  make(map[string]*art.Tree),
		Numeric: make(map[string]*numindex.Tree),
		Sort:    sortindex.NewIndices(),
		Facets:  facet.New(schema.NumFacets()),
		docs:    make(map[uint32]*types.Document),
	}
	for i := range schema.Fields {
		f := &schema.Fields[i]
		if f.Type.IsString() {
			c.Tokens[f.Name] = art.New()
		}
		if f.Type.IsNumeric() {
			c.Numeric[f.Name] = numindex.New()
		}
	}
	return c
}

// NumDocuments returns the number of documents currently indexed.
func (c *Collection) NumDocuments() int { return len(c.docs) }

// Doc returns the last-indexed copy of seqID's document, if present.
func (c *Collection) Doc(seqID uint32) (*types.Document, bool) {
	d, ok := c.docs[seqID]
	return d, ok
}

// AllIDs returns every currently-indexed sequence id, sorted ascending —
// the universe a wildcard query or a NotEq string predicate needs.
func (c *Collection) AllIDs() []uint32 {
	out := make([]uint32, 0, len(c.docs))
	for id := range c.docs {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// FilterResources builds the filter.Resources view of this collection's
// indices, one entry per schema field, for use with filter.Evaluate.
func (c *Collection) FilterResources() filter.Resources {
	res := make(filter.Resources, len(c.Schema.Fields))
	for i := range c.Schema.Fields {
		f := c.Schema.Fields[i]
		fr := &filter.FieldResources{Def: f, FacetPos: c.Schema.FacetPosition(f.Name)}
		if tree, ok := c.Tokens[f.Name]; ok {
			fr.Tokens = tree
		}
		if tree, ok := c.Numeric[f.Name]; ok {
			fr.Numeric = tree
		}
		if f.Facet {
			fr.Facets = c.Facets
		}
		res[f.Name] = fr
	}
	return res
}
