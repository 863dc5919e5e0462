package store

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/apkdock/apkdock/internal/domain"
)

// Store is a durable string key-value store with a coarse read-modify-write
// transaction. Update holds an exclusive lock for the whole mutation, so
// concurrent writers to the same key serialize instead of clobbering each
// other.
type Store interface {
	// Get returns the value for key, or "" when the key has never been written
	Get(key string) (string, error)

	// Set writes the value for key atomically
	Set(key, value string) error

	// Update applies fn to the current value and persists the result. fn
	// receives "" for an absent key; an error from fn aborts the write.
	Update(key string, fn func(current string) (string, error)) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(key string) error
}

// Compile-time assertion that FileStore implements Store
var _ Store = (*FileStore)(nil)

// FileStore keeps each key in its own file under dir. Writes go through a
// temp file and rename so readers never observe a partial value. The mutex
// serializes access within the process; cross-process locking is out of scope
// because one CLI invocation owns the store for its lifetime.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates a store rooted at dir, creating it if needed
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, domain.Errorf(domain.ErrStoreError, "create store dir: %v", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key)
}

// Get implements Store.Get
func (s *FileStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(key)
}

func (s *FileStore) read(key string) (string, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", domain.Errorf(domain.ErrStoreError, "read key %q: %v", key, err)
	}
	return string(data), nil
}

// Set implements Store.Set
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(key, value)
}

func (s *FileStore) write(key, value string) error {
	tmp, err := os.CreateTemp(s.dir, key+".tmp-*")
	if err != nil {
		return domain.Errorf(domain.ErrStoreError, "create temp file: %v", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return domain.Errorf(domain.ErrStoreError, "write key %q: %v", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return domain.Errorf(domain.ErrStoreError, "close temp file: %v", err)
	}

	if err := os.Rename(tmpName, s.path(key)); err != nil {
		os.Remove(tmpName)
		return domain.Errorf(domain.ErrStoreError, "commit key %q: %v", key, err)
	}
	return nil
}

// Update implements Store.Update
func (s *FileStore) Update(key string, fn func(current string) (string, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read(key)
	if err != nil {
		return err
	}

	next, err := fn(current)
	if err != nil {
		return err
	}

	return s.write(key, next)
}

// Delete implements Store.Delete
func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return domain.Errorf(domain.ErrStoreError, "delete key %q: %v", key, err)
	}
	return nil
}
