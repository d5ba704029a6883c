// Package store persists resume documents as one JSON file per document.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrVersionConflict = errors.New("document version conflict")
)

// FileStore keeps every document under dir as <id>.json, written with a
// whole-file atomic replace (temp file + rename). There is no partial or
// append persistence; readers see either the old content or the new.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(id string) (string, error) {
	// IDs are generated UUIDs, but they also arrive from request paths.
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return "", ErrNotFound
	}
	return filepath.Join(s.dir, id+".json"), nil
}

// Load reads the full document for id.
func (s *FileStore) Load(ctx context.Context, id string) (Document, error) {
	path, err := s.path(id)
	if err != nil {
		return Document{}, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("read document %s: %w", id, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode document %s: %w", id, err)
	}
	return doc, nil
}

// Save writes the document, enforcing optimistic concurrency: the write only
// succeeds when the on-disk version still equals expectedVersion (0 for a
// document that must not exist yet). The stored version is bumped to
// expectedVersion+1 and the saved document is returned.
func (s *FileStore) Save(ctx context.Context, doc Document, expectedVersion int64) (Document, error) {
	path, err := s.path(doc.ID)
	if err != nil {
		return Document{}, fmt.Errorf("save document: invalid id %q", doc.ID)
	}

	existing, err := s.Load(ctx, doc.ID)
	switch {
	case errors.Is(err, ErrNotFound):
		if expectedVersion != 0 {
			return Document{}, ErrVersionConflict
		}
	case err != nil:
		return Document{}, err
	default:
		if existing.Version != expectedVersion {
			return Document{}, ErrVersionConflict
		}
	}

	doc.Version = expectedVersion + 1
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return Document{}, fmt.Errorf("encode document %s: %w", doc.ID, err)
	}
	if err := s.writeAtomic(path, data); err != nil {
		return Document{}, fmt.Errorf("write document %s: %w", doc.ID, err)
	}
	return doc, nil
}

// Delete removes the document file entirely.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	return nil
}

// List loads every document in the store. Entries that fail to decode are
// skipped with a log line rather than failing the whole listing.
func (s *FileStore) List(ctx context.Context) ([]Document, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}
	docs := make([]Document, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		doc, err := s.Load(ctx, id)
		if err != nil {
			log.Printf("store: skipping unreadable document %s: %v", id, err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Ping verifies the data directory is writable.
func (s *FileStore) Ping(ctx context.Context) error {
	probe, err := os.CreateTemp(s.dir, ".probe-*")
	if err != nil {
		return fmt.Errorf("data dir not writable: %w", err)
	}
	name := probe.Name()
	probe.Close()
	return os.Remove(name)
}

func (s *FileStore) writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
