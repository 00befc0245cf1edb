package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// FileBackend stores every document as <dir>/<name>.json.
type FileBackend struct {
	dir      string
	readOnly bool
}

// NewFileBackend creates dir if needed and returns a writable backend over it.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

// NewStaticFileBackend serves the JSON files in dir without ever writing them.
func NewStaticFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir, readOnly: true}
}

func (b *FileBackend) path(name string) string {
	return filepath.Join(b.dir, name+".json")
}

func (b *FileBackend) Read(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(b.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

// Write stages every document in a temp file before replacing any of them.
// If a replace fails, the documents already replaced get their prior bytes
// back, so a multi-document write lands completely or not at all.
func (b *FileBackend) Write(_ context.Context, docs ...Document) error {
	if b.readOnly {
		return ErrReadOnly
	}

	staged := make([]string, 0, len(docs))
	defer func() {
		for _, tmp := range staged {
			_ = os.Remove(tmp)
		}
	}()
	for _, doc := range docs {
		tmp, err := b.stage(doc.Name, doc.Data)
		if err != nil {
			return err
		}
		staged = append(staged, tmp)
	}

	replaced := make([]snapshot, 0, len(docs))
	for i, doc := range docs {
		prior, err := b.snapshot(doc.Name)
		if err == nil {
			err = os.Rename(staged[i], b.path(doc.Name))
			if err != nil {
				err = fmt.Errorf("failed to replace %s: %w", doc.Name, err)
			}
		}
		if err != nil {
			b.restore(replaced)
			return err
		}
		replaced = append(replaced, prior)
	}
	return nil
}

// stage writes data to a synced temp file next to the named document.
func (b *FileBackend) stage(name string, data []byte) (string, error) {
	tmp, err := os.CreateTemp(b.dir, name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	if _, err = tmp.Write(data); err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return tmp.Name(), nil
}

// snapshot is a document as it was before a write replaced it.
type snapshot struct {
	name    string
	data    []byte
	existed bool
}

func (b *FileBackend) snapshot(name string) (snapshot, error) {
	data, err := os.ReadFile(b.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return snapshot{name: name}, nil
	}
	if err != nil {
		return snapshot{}, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return snapshot{name: name, data: data, existed: true}, nil
}

// restore puts back the snapshots, newest first. Failures are only logged,
// the caller already reports the original error.
func (b *FileBackend) restore(snaps []snapshot) {
	for i := len(snaps) - 1; i >= 0; i-- {
		snap := snaps[i]
		if !snap.existed {
			if err := os.Remove(b.path(snap.name)); err != nil {
				log.Printf("Error removing %s during rollback: %v", snap.name, err)
			}
			continue
		}
		tmp, err := b.stage(snap.name, snap.data)
		if err == nil {
			if err = os.Rename(tmp, b.path(snap.name)); err != nil {
				_ = os.Remove(tmp)
			}
		}
		if err != nil {
			log.Printf("Error restoring %s during rollback: %v", snap.name, err)
		}
	}
}

func (b *FileBackend) Close() error { return nil }
