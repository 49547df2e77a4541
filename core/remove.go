package core

import (
	"github.com/kestrel-search/kestrel/tokenizer"
	"github.com/kestrel-search/kestrel/types"
)

// Remove retracts seqID's document from every index. It is a no-op if
// seqID was never indexed.
func (c *Collection) Remove(seqID uint32) error {
	doc, ok := c.docs[seqID]
	if !ok {
		return nil
	}
	c.retract(doc)
	delete(c.docs, seqID)
	return nil
}

// retract undoes every index mutation Index performed for doc, by
// recomputing the same token/hash sequences from the stored document and
// deleting each one's entry for doc.SeqID.
func (c *Collection) retract(doc *types.Document) {
	seqID := doc.SeqID
	for i := range c.Schema.Fields {
		f := &c.Schema.Fields[i]
		val, present := doc.Fields[f.Name]
		if !present {
			continue
		}
		switch {
		case f.Type.IsString():
			c.retractStringField(seqID, f, val)
		case f.Type.IsNumeric():
			c.retractNumericField(seqID, f, val)
		}
		if f.Sort && !f.Type.IsArray() {
			if idx, ok := c.Sort.Lookup(f.Name); ok {
				idx.Remove(seqID)
			}
		}
	}
	c.Facets.RemoveDoc(seqID)
}

func (c *Collection) retractStringField(seqID uint32, field *types.Field, val types.FieldValue) {
	tree := c.Tokens[field.Name]
	seen := make(map[string]bool)
	for _, elem := range types.StringValuesOf(val) {
		for _, tok := range tokenizer.Tokenize(elem, false) {
			if seen[tok.Text] {
				continue
			}
			seen[tok.Text] = true
			leaf, ok := tree.Get([]byte(tok.Text))
			if !ok {
				continue
			}
			if empty := leaf.Postings.Remove(seqID); empty {
				tree.Delete([]byte(tok.Text))
			}
		}
	}
}

func (c *Collection) retractNumericField(seqID uint32, field *types.Field, val types.FieldValue) {
	tree := c.Numeric[field.Name]
	for _, v := range types.NumericValuesOf(val) {
		tree.Remove(v, seqID)
	}
}
