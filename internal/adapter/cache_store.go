package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/viant/afs"
)

// Cache backends selectable from configuration.
const (
	CacheBackendDir    = "dir"
	CacheBackendBadger = "badger"
	CacheBackendMemory = "memory"
)

const cacheFileExt = ".cbor"

// CacheStore is a raw key/value store for serialized analysis results.
// Keys are opaque hex digests. A missing key is a miss, not an error.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Close() error
}

// NewCacheStore builds the store for backend rooted at dir.
func NewCacheStore(backend, dir string, ttl time.Duration) (CacheStore, error) {
	switch backend {
	case "", CacheBackendDir:
		return NewDirCacheStore(dir), nil
	case CacheBackendBadger:
		return NewBadgerCacheStore(dir, ttl)
	case CacheBackendMemory:
		return NewMemoryCacheStore(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}

// DirCacheStore keeps one file per key under a directory. Writes go to a
// temporary file first and are moved into place, so concurrent writers of the
// same key leave the last complete value.
type DirCacheStore struct {
	fs  afs.Service
	dir string
	seq atomic.Uint64
}

// NewDirCacheStore constructs a DirCacheStore under dir.
func NewDirCacheStore(dir string) *DirCacheStore {
	return &DirCacheStore{fs: afs.New(), dir: dir}
}

// Get loads the value stored under key.
func (s *DirCacheStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	location, err := s.location(key)
	if err != nil {
		return nil, false, err
	}

	exists, err := s.fs.Exists(ctx, location)
	if err != nil {
		return nil, false, fmt.Errorf("stat cache entry: %w", err)
	}

	if !exists {
		return nil, false, nil
	}

	data, err := s.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, false, fmt.Errorf("read cache entry: %w", err)
	}

	return data, true, nil
}

// Set stores value under key.
func (s *DirCacheStore) Set(ctx context.Context, key string, value []byte) error {
	location, err := s.location(key)
	if err != nil {
		return err
	}

	tmp := location + ".tmp-" + strconv.FormatUint(s.seq.Add(1), 10) + "-" + strconv.FormatInt(time.Now().UnixNano(), 36)

	if err := s.fs.Upload(ctx, tmp, defaultFileMode, bytes.NewReader(value)); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}

	if err := s.fs.Move(ctx, tmp, location); err != nil {
		_ = s.fs.Delete(ctx, tmp)
		return fmt.Errorf("commit cache entry: %w", err)
	}

	return nil
}

// Delete removes key if present.
func (s *DirCacheStore) Delete(ctx context.Context, key string) error {
	location, err := s.location(key)
	if err != nil {
		return err
	}

	exists, err := s.fs.Exists(ctx, location)
	if err != nil || !exists {
		return err
	}

	return s.fs.Delete(ctx, location)
}

// Clear removes the whole cache directory.
func (s *DirCacheStore) Clear(ctx context.Context) error {
	root, err := filepath.Abs(s.dir)
	if err != nil {
		return err
	}

	exists, err := s.fs.Exists(ctx, root)
	if err != nil || !exists {
		return err
	}

	return s.fs.Delete(ctx, root)
}

// Close is a no-op for the directory store.
func (s *DirCacheStore) Close() error {
	return nil
}

func (s *DirCacheStore) location(key string) (string, error) {
	if len(key) < 3 {
		return "", fmt.Errorf("invalid cache key %q", key)
	}

	abs, err := filepath.Abs(filepath.Join(s.dir, key[:2], key+cacheFileExt))
	if err != nil {
		return "", err
	}

	return abs, nil
}

// BadgerCacheStore keeps entries in a badger database. Entries carry a native
// TTL, so expired keys read as misses without any sweep.
type BadgerCacheStore struct {
	db  *badger.DB
	ttl time.Duration
}

// NewBadgerCacheStore opens (or creates) a badger database under dir.
func NewBadgerCacheStore(dir string, ttl time.Duration) (*BadgerCacheStore, error) {
	opts := badger.DefaultOptions(filepath.Join(dir, "badger")).WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache: %w", err)
	}

	return &BadgerCacheStore{db: db, ttl: ttl}, nil
}

// NewBadgerCacheStoreFromDB wraps an already opened database.
func NewBadgerCacheStoreFromDB(db *badger.DB, ttl time.Duration) *BadgerCacheStore {
	return &BadgerCacheStore{db: db, ttl: ttl}
}

// Get loads the value stored under key.
func (s *BadgerCacheStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	var raw []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}

		raw, err = item.ValueCopy(nil)

		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("badger get: %w", err)
	}

	return raw, true, nil
}

// Set stores value under key with the configured TTL.
func (s *BadgerCacheStore) Set(_ context.Context, key string, value []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), value)
		if s.ttl > 0 {
			entry = entry.WithTTL(s.ttl)
		}

		return txn.SetEntry(entry)
	})
}

// Delete removes key if present.
func (s *BadgerCacheStore) Delete(_ context.Context, key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}

		return err
	})
}

// Clear drops every entry.
func (s *BadgerCacheStore) Clear(_ context.Context) error {
	return s.db.DropAll()
}

// Close closes the database.
func (s *BadgerCacheStore) Close() error {
	return s.db.Close()
}

// MemoryCacheStore is a process-local store.
type MemoryCacheStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryCacheStore constructs an empty MemoryCacheStore.
func NewMemoryCacheStore() *MemoryCacheStore {
	return &MemoryCacheStore{entries: make(map[string][]byte)}
}

// Get loads the value stored under key.
func (s *MemoryCacheStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}

	return bytes.Clone(value), true, nil
}

// Set stores a copy of value under key.
func (s *MemoryCacheStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = bytes.Clone(value)

	return nil
}

// Delete removes key if present.
func (s *MemoryCacheStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)

	return nil
}

// Clear drops every entry.
func (s *MemoryCacheStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string][]byte)

	return nil
}

// Close is a no-op for the memory store.
func (s *MemoryCacheStore) Close() error {
	return nil
}

// Len returns the number of stored entries.
func (s *MemoryCacheStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}
