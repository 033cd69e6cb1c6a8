package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/poiesic/searchbox/core"
)

// Store persists the current snapshot document. Exactly one Ready document
// exists at a time; Put is an idempotent overwrite, never an append.
type Store interface {
	// Put overwrites the current document and its metadata atomically.
	Put(ctx context.Context, document []byte, meta core.SnapshotMeta) error

	// Document returns the current document bytes and metadata.
	// Returns ErrSnapshotMissing when no document has been built yet.
	Document(ctx context.Context) ([]byte, core.SnapshotMeta, error)

	// Meta returns the current document metadata without the body.
	// Returns ErrSnapshotMissing when no document has been built yet.
	Meta(ctx context.Context) (core.SnapshotMeta, error)

	// Close closes the store and releases resources.
	Close() error
}

// Fixed keys: the document lives at one predictable location.
const (
	documentKey = "snapshot:document"
	metaKey     = "snapshot:meta"
)

// BadgerStore implements Store on a BadgerDB instance.
type BadgerStore struct {
	db *badger.DB
}

var _ Store = (*BadgerStore)(nil)

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenBadgerStore opens a snapshot store at the specified path.
// Creates the directory if it doesn't exist. Pass inMemory for tests.
func OpenBadgerStore(filePath string, inMemory bool) (*BadgerStore, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &BadgerStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// Put overwrites the document and its metadata in one transaction.
func (s *BadgerStore) Put(ctx context.Context, document []byte, meta core.SnapshotMeta) error {
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal snapshot meta: %w", err)
	}

	err = s.db.Update(func(tx *badger.Txn) error {
		if err := tx.Set([]byte(documentKey), document); err != nil {
			return err
		}
		return tx.Set([]byte(metaKey), metaBytes)
	})
	if err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}

// Document returns the current document bytes and metadata.
func (s *BadgerStore) Document(ctx context.Context) ([]byte, core.SnapshotMeta, error) {
	var document []byte
	var meta core.SnapshotMeta

	err := s.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(documentKey))
		if err != nil {
			return err
		}
		document, err = item.ValueCopy(nil)
		if err != nil {
			return err
		}

		metaItem, err := tx.Get([]byte(metaKey))
		if err != nil {
			return err
		}
		return metaItem.Value(func(val []byte) error {
			return json.Unmarshal(val, &meta)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, core.SnapshotMeta{}, ErrSnapshotMissing
	}
	if err != nil {
		return nil, core.SnapshotMeta{}, fmt.Errorf("read snapshot: %w", err)
	}
	return document, meta, nil
}

// Meta returns the current document metadata.
func (s *BadgerStore) Meta(ctx context.Context) (core.SnapshotMeta, error) {
	var meta core.SnapshotMeta

	err := s.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(metaKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &meta)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return core.SnapshotMeta{}, ErrSnapshotMissing
	}
	if err != nil {
		return core.SnapshotMeta{}, fmt.Errorf("read snapshot meta: %w", err)
	}
	return meta, nil
}
