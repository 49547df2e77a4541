package storage

import (
	"time"

	"github.com/boltdb/bolt"
)

var documentsBucket = []byte("documents")

// BoltStore is the concrete Storage adapter backed by boltdb/bolt: the
// teacher's own storage dependency (storage/storage.go names a "bolt"
// engine but the retrieved pack never carried its implementation).
type BoltStore struct {
	db   *bolt.DB
	path string
}

func openBoltStorage(path string) (Storage, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(documentsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltStore{db: db, path: path}, nil
}

// Set stores v under k, overwriting any existing value.
func (s *BoltStore) Set(k, v []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(documentsBucket).Put(k, v)
	})
}

// Get returns the value stored under k, or (nil, nil) if absent.
func (s *BoltStore) Get(k []byte) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(documentsBucket).Get(k)
		if v != nil {
			out = append([]byte(nil), v...)
		}
		return nil
	})
	return out, err
}

// Delete removes k, if present.
func (s *BoltStore) Delete(k []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(documentsBucket).Delete(k)
	})
}

// ForEach walks every stored key/value pair in key order.
func (s *BoltStore) ForEach(fn func(k, v []byte) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(documentsBucket).ForEach(fn)
	})
}

// Close releases the underlying bolt database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// WALName returns the path of bolt's backing file, which also serves as its
// write-ahead log.
func (s *BoltStore) WALName() string {
	return s.path
}
