package core

import (
	"github.com/kestrel-search/kestrel/facet"
	"github.com/kestrel-search/kestrel/postings"
	"github.com/kestrel-search/kestrel/tokenizer"
	"github.com/kestrel-search/kestrel/types"
)

// Index validates doc against the schema and, on success, mutates every
// index field-by-field, per spec.md §6's `index(seq_id, document,
// is_update)`. When isUpdate is true and a prior version of the document
// exists, its index entries are fully retracted first, so re-indexing is
// idempotent regardless of which fields changed.
//
// Position tracking for array string fields concatenates each element's
// token positions in source order without resetting between elements
// (spec.md §3's "all in-array positions in source order"); consequently
// the postings layer records, per token, only the array index of that
// token's last occurrence, not a mapping from every position back to its
// containing element. The ranker's proximity scoring therefore treats an
// array field's positions as one flattened stream rather than per-element
// windows — a direct consequence of the storage layout, not an
// independent choice.
func (c *Collection) Index(doc *types.Document, isUpdate bool) error {
	if err := types.Validate(c.Schema, doc); err != nil {
		return err
	}
	if isUpdate {
		if old, exists := c.docs[doc.SeqID]; exists {
			c.retract(old)
		}
	}

	for i := range c.Schema.Fields {
		f := &c.Schema.Fields[i]
		val, present := doc.Fields[f.Name]
		if !present {
			continue
		}
		switch {
		case f.Type.IsString():
			c.indexStringField(doc.SeqID, f, val)
		case f.Type.IsNumeric():
			c.indexNumericField(doc.SeqID, f, val)
		}
		if f.Facet {
			c.indexFacetField(doc.SeqID, f, val)
		}
	}
	c.docs[doc.SeqID] = doc
	return nil
}

func (c *Collection) indexStringField(seqID uint32, field *types.Field, val types.FieldValue) {
	elements := types.StringValuesOf(val)
	isArray := field.Type.IsArray()

	positionsOf := make(map[string][]int)
	lastArrayIndexOf := make(map[string]int)
	base := 0
	for elementIndex, elem := range elements {
		toks := tokenizer.Tokenize(elem, false)
		for _, tok := range toks {
			positionsOf[tok.Text] = append(positionsOf[tok.Text], base+tok.Position)
			lastArrayIndexOf[tok.Text] = elementIndex
		}
		base += len(toks)
	}

	tree := c.Tokens[field.Name]
	for token, positions := range positionsOf {
		leaf := tree.GetOrCreate([]byte(token))
		var offsets []uint32
		if isArray {
			offsets = postings.EncodeArrayOffsets(positions, lastArrayIndexOf[token])
		} else {
			offsets = postings.EncodeScalarOffsets(positions)
		}
		leaf.Postings.Insert(seqID, offsets, int64(len(positions)))
	}
}

func (c *Collection) indexNumericField(seqID uint32, field *types.Field, val types.FieldValue) {
	tree := c.Numeric[field.Name]
	values := types.NumericValuesOf(val)
	for _, v := range values {
		tree.Insert(v, seqID)
	}
	if field.Sort && !field.Type.IsArray() && len(values) > 0 {
		c.Sort.Field(field.Name).Set(seqID, values[0])
	}
}

func (c *Collection) indexFacetField(seqID uint32, field *types.Field, val types.FieldValue) {
	pos := c.Schema.FacetPosition(field.Name)
	if pos < 0 {
		return
	}
	var row []uint64
	switch {
	case field.Type.IsString() && field.Type.IsArray():
		elements := types.StringValuesOf(val)
		perElement := make([][]uint64, len(elements))
		for i, elem := range elements {
			toks := tokenizer.Tokenize(elem, false)
			hashes := make([]uint64, len(toks))
			for j, tok := range toks {
				hashes[j] = facet.HashToken(tok.Text)
			}
			perElement[i] = hashes
		}
		row = facet.BuildArrayRow(perElement)
	case field.Type.IsString():
		toks := tokenizer.Tokenize(val.Str, false)
		hashes := make([]uint64, len(toks))
		for i, tok := range toks {
			hashes[i] = facet.HashToken(tok.Text)
		}
		row = facet.BuildScalarRow(hashes)
	case field.Type.IsNumeric() && field.Type.IsArray():
		values := types.NumericValuesOf(val)
		perElement := make([][]uint64, len(values))
		for i, v := range values {
			perElement[i] = []uint64{uint64(v)}
		}
		row = facet.BuildArrayRow(perElement)
	default:
		values := types.NumericValuesOf(val)
		if len(values) > 0 {
			row = facet.BuildScalarRow([]uint64{uint64(values[0])})
		}
	}
	c.Facets.SetRow(seqID, pos, row)
}
