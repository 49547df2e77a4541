// Package storage defines the external collaborator the search core writes
// document bodies through on index/remove, per spec.md §6: the core itself
// stays in-memory only and never reads storage back during search.
package storage

import (
	"fmt"

	"github.com/kestrel-search/kestrel/config"
)

// Storage is the raw key/value durability interface the collection package
// writes documents through.
type Storage interface {
	Set(k, v []byte) error
	Get(k []byte) ([]byte, error)
	Delete(k []byte) error
	ForEach(fn func(k, v []byte) error) error
	Close() error
	WALName() string
}

var engines = map[string]func(path string) (Storage, error){
	"bolt": openBoltStorage,
}

// RegisterEngine lets a caller add a storage engine under a new name, so a
// deployment's config.StorageConfig.Engine can name a backend this module
// doesn't ship (e.g. a test-only in-memory stub).
func RegisterEngine(name string, fn func(path string) (Storage, error)) {
	engines[name] = fn
}

// OpenStorage opens cfg's chosen engine at cfg.Path, falling back to
// config.DefaultStorageEngine when cfg.Engine names one nothing registered.
func OpenStorage(cfg config.StorageConfig) (Storage, error) {
	name := cfg.Engine
	if _, ok := engines[name]; !ok {
		name = config.DefaultStorageEngine
	}
	fn, ok := engines[name]
	if !ok {
		return nil, fmt.Errorf("unsupported storage engine %v", name)
	}
	return fn(cfg.Path)
}
