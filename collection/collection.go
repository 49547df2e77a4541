// Package collection is the composition root that wires schema, the
// in-memory index (core.Collection), the search orchestrator/worker,
// document storage, metrics and logging into one handle a caller opens
// once per named collection, grounded on the pack's own composition roots
// (kailas-cloud-vecdex's cmd/vecdex/main.go wires store+usecase+transport
// the same way: build each collaborator, hand it to the next).
package collection

import (
	"encoding/binary"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kestrel-search/kestrel/config"
	"github.com/kestrel-search/kestrel/core"
	"github.com/kestrel-search/kestrel/metrics"
	"github.com/kestrel-search/kestrel/search"
	"github.com/kestrel-search/kestrel/storage"
	"github.com/kestrel-search/kestrel/types"
)

// Collection is one opened, named collection: the in-memory index, its
// worker loop, its document store, and the ambient collaborators that
// observe it.
type Collection struct {
	Name    string
	worker  *search.Worker
	store   storage.Storage
	metrics *metrics.Recorder
	logger  *zap.Logger
}

// Open builds a Collection over schema, opening or creating its storage
// file per cfg.Storage and registering metrics against reg. The core index
// itself starts empty; callers repopulate it from storage themselves if
// they need durability across restarts (spec.md §6: "the core never reads
// back from storage during search").
func Open(name string, schema *types.Schema, cfg config.Config, reg prometheus.Registerer, logger *zap.Logger) (*Collection, error) {
	store, err := storage.OpenStorage(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("opening storage for collection %s: %w", name, err)
	}

	c := core.NewCollection(schema)
	w := search.NewWorker(c)

	logger.Info("collection opened",
		zap.String("collection", name),
		zap.String("storage_engine", cfg.Storage.Engine),
	)

	return &Collection{
		Name:    name,
		worker:  w,
		store:   store,
		metrics: metrics.New(reg),
		logger:  logger,
	}, nil
}

func docKey(seqID uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], seqID)
	return b[:]
}

// Index encodes doc, indexes it in the in-memory core, and only then
// persists the encoded bytes to storage, per spec.md §6's index(seq_id,
// document, is_update). A validation failure never reaches storage,
// matching the ingest path's validate-before-mutate invariant.
func (c *Collection) Index(doc *types.Document, isUpdate bool, encode func(*types.Document) ([]byte, error)) error {
	raw, err := encode(doc)
	if err != nil {
		c.logger.Error("failed to encode document for storage", zap.Uint32("seq_id", doc.SeqID), zap.Error(err))
		return err
	}
	if err := c.worker.Index(doc, isUpdate); err != nil {
		c.metrics.ValidationFailuresTotal.WithLabelValues(types.ErrorCode(err)).Inc()
		c.logger.Warn("document rejected", zap.Uint32("seq_id", doc.SeqID), zap.Error(err))
		return err
	}
	if err := c.store.Set(docKey(doc.SeqID), raw); err != nil {
		c.logger.Error("failed to persist document", zap.Uint32("seq_id", doc.SeqID), zap.Error(err))
		return err
	}
	c.metrics.DocumentsIndexedTotal.Inc()
	return nil
}

// Remove retracts seqID from the in-memory core and deletes its persisted
// copy.
func (c *Collection) Remove(seqID uint32) error {
	if err := c.worker.Remove(seqID); err != nil {
		return err
	}
	if err := c.store.Delete(docKey(seqID)); err != nil {
		c.logger.Error("failed to delete persisted document", zap.Uint32("seq_id", seqID), zap.Error(err))
		return err
	}
	c.metrics.DocumentsRemovedTotal.Inc()
	return nil
}

// Search runs q against the collection's worker loop and records latency
// and result-count metrics.
func (c *Collection) Search(q *search.Query) (*search.Result, error) {
	timer := prometheus.NewTimer(c.metrics.SearchLatencySeconds)
	defer timer.ObserveDuration()

	res, err := c.worker.Search(q)
	if err != nil {
		return nil, err
	}
	c.metrics.SearchResultsCount.Observe(float64(len(res.Hits)))
	return res, nil
}

// Close stops the worker loop and closes the document store.
func (c *Collection) Close() error {
	c.worker.Terminate()
	return c.store.Close()
}
