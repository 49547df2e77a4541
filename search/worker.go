package search

import (
	"golang.org/x/sync/errgroup"

	"github.com/kestrel-search/kestrel/core"
	"github.com/kestrel-search/kestrel/types"
)

// Worker serializes every mutation and query against one Collection through
// a single goroutine, the way the teacher's Engine serializes access to a
// shard's Indexer/Ranker pair through per-shard channels
// (indexerAddDocumentChannels, indexerLookupChannels, rankerRankChannels in
// engine/engine.go) rather than a mutex: callers send a request and block on
// its private response channel, and the loop goroutine is the only one that
// ever touches the Collection. Shutdown fans its single loop goroutine's
// exit status through an errgroup.Group rather than a bare done channel, so
// a future second background goroutine (e.g. periodic facet recomputation)
// can join the same wait without the caller tracking it separately.
type Worker struct {
	requests  chan workRequest
	terminate chan struct{}
	eg        *errgroup.Group
}

type workRequest struct {
	kind     requestKind
	doc      *types.Document
	isUpdate bool
	seqID    uint32
	query    *Query
	reply    chan workReply
}

type workReply struct {
	result *Result
	err    error
}

type requestKind int

const (
	kindIndex requestKind = iota
	kindRemove
	kindSearch
)

// NewWorker starts a worker loop over c and returns a handle to it. Callers
// must call Terminate (or Close) to stop the loop goroutine.
func NewWorker(c *core.Collection) *Worker {
	w := &Worker{
		requests:  make(chan workRequest),
		terminate: make(chan struct{}),
	}
	eg := &errgroup.Group{}
	eg.Go(func() error {
		w.loop(c)
		return nil
	})
	w.eg = eg
	return w
}

func (w *Worker) loop(c *core.Collection) {
	for {
		select {
		case req := <-w.requests:
			switch req.kind {
			case kindIndex:
				err := c.Index(req.doc, req.isUpdate)
				req.reply <- workReply{err: err}
			case kindRemove:
				err := c.Remove(req.seqID)
				req.reply <- workReply{err: err}
			case kindSearch:
				res, err := Execute(c, req.query)
				req.reply <- workReply{result: res, err: err}
			}
		case <-w.terminate:
			return
		}
	}
}

// Index enqueues a document add/update and blocks for the result.
func (w *Worker) Index(doc *types.Document, isUpdate bool) error {
	reply := make(chan workReply, 1)
	w.requests <- workRequest{kind: kindIndex, doc: doc, isUpdate: isUpdate, reply: reply}
	return (<-reply).err
}

// Remove enqueues a document removal and blocks for the result.
func (w *Worker) Remove(seqID uint32) error {
	reply := make(chan workReply, 1)
	w.requests <- workRequest{kind: kindRemove, seqID: seqID, reply: reply}
	return (<-reply).err
}

// Search enqueues a query and blocks for the orchestrator's result.
func (w *Worker) Search(q *Query) (*Result, error) {
	reply := make(chan workReply, 1)
	w.requests <- workRequest{kind: kindSearch, query: q, reply: reply}
	r := <-reply
	return r.result, r.err
}

// Close stops the worker's loop goroutine and waits for it (and any other
// goroutine joined to the same errgroup) to exit.
func (w *Worker) Close() error {
	close(w.terminate)
	return w.eg.Wait()
}

// Terminate stops the worker's loop goroutine and waits for it to exit,
// discarding the (always-nil, in normal operation) shutdown error.
func (w *Worker) Terminate() {
	_ = w.Close()
}
