// A minimal end-to-end program, grounded on the teacher's
// examples/simplest_example.go: build a schema, index a handful of
// documents, run one query, print the hits.
package main

import (
	"fmt"
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kestrel-search/kestrel/collection"
	"github.com/kestrel-search/kestrel/config"
	"github.com/kestrel-search/kestrel/search"
	"github.com/kestrel-search/kestrel/tokenizer"
	"github.com/kestrel-search/kestrel/types"
)

func productSchema() *types.Schema {
	return types.NewSchema([]types.Field{
		{Name: "title", Type: types.FieldString},
		{Name: "tags", Type: types.FieldStringArray, Facet: true},
		{Name: "price", Type: types.FieldInt64, Sort: true},
	}, "price")
}

func productDoc(seqID uint32, title string, tags []string, price int64) *types.Document {
	return &types.Document{
		SeqID: seqID,
		Fields: map[string]types.FieldValue{
			"title": {Type: types.FieldString, Str: title},
			"tags":  {Type: types.FieldStringArray, StrArr: tags},
			"price": {Type: types.FieldInt64, Int64: price},
		},
	}
}

func tokensOf(text string) []string {
	toks := tokenizer.Tokenize(text, false)
	out := make([]string, len(toks))
	for i, tok := range toks {
		out[i] = tok.Text
	}
	return out
}

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	cfg := config.Default()
	cfg.Storage.Path = "kestrel-example.db"

	col, err := collection.Open("products", productSchema(), cfg, prometheus.NewRegistry(), logger)
	if err != nil {
		logger.Fatal("failed to open collection", zap.Error(err))
	}
	defer col.Close()

	encode := func(doc *types.Document) ([]byte, error) {
		return []byte(doc.Fields["title"].Str), nil
	}

	docs := []*types.Document{
		productDoc(1, "red running shoe", []string{"footwear", "running"}, 4999),
		productDoc(2, "blue running shoe", []string{"footwear", "running"}, 5999),
		productDoc(3, "green hiking boot", []string{"footwear", "hiking"}, 8999),
	}
	for _, doc := range docs {
		if err := col.Index(doc, false, encode); err != nil {
			logger.Warn("skipping document", zap.Uint32("seq_id", doc.SeqID), zap.Error(err))
		}
	}

	res, err := col.Search(&search.Query{
		IncludeTokens: tokensOf("running"),
		SearchFields:  []string{"title"},
		FacetFields:   []string{"tags"},
		PerPage:       10,
	})
	if err != nil {
		logger.Fatal("search failed", zap.Error(err))
	}

	fmt.Printf("matched %d documents\n", res.TotalMatched)
	for _, hit := range res.Hits {
		fmt.Printf("  seq_id=%d\n", hit.SeqID)
	}
}
