package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

var documentsBucket = []byte("documents")

// BoltBackend keeps documents as keys of one bbolt bucket.
type BoltBackend struct {
	db *bbolt.DB
}

func NewBoltBackend(path string) (*BoltBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create bolt directory: %w", err)
	}
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(documentsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}
	return &BoltBackend{db: db}, nil
}

func (b *BoltBackend) Read(_ context.Context, name string) ([]byte, error) {
	var out []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(documentsBucket).Get([]byte(name))
		if v != nil {
			// v is only valid for the life of the transaction.
			out = append([]byte{}, v...)
		}
		return nil
	})
	return out, err
}

// Write stores all docs in a single transaction.
func (b *BoltBackend) Write(_ context.Context, docs ...Document) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(documentsBucket)
		for _, doc := range docs {
			if err := bucket.Put([]byte(doc.Name), doc.Data); err != nil {
				return fmt.Errorf("failed to put %s: %w", doc.Name, err)
			}
		}
		return nil
	})
}

func (b *BoltBackend) Close() error {
	return b.db.Close()
}
