package client

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// EntryStore persists raw cache entries by key. It is the durable side of
// both client caches; the caches own serialization and validity, the store
// only holds bytes.
type EntryStore interface {
	// Get returns the stored bytes for key. The second return is false
	// when the key has never been stored.
	Get(key string) ([]byte, bool, error)

	// Set stores value under key, replacing any prior value.
	Set(key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}

// FileStore is an EntryStore backed by one file per key inside a directory.
type FileStore struct {
	dir string
}

var _ EntryStore = (*FileStore)(nil)

// NewFileStore creates a file-backed entry store rooted at dir, creating
// the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, ErrDirRequired
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get returns the stored bytes for key.
func (s *FileStore) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cache entry %q: %w", key, err)
	}
	return data, true, nil
}

// Set stores value under key.
func (s *FileStore) Set(key string, value []byte) error {
	if err := os.WriteFile(s.path(key), value, 0o644); err != nil {
		return fmt.Errorf("write cache entry %q: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *FileStore) Delete(key string) error {
	err := os.Remove(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
