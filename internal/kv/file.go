// internal/kv/file.go
package kv

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore persists each key as a single file under a root directory.
// Writes are atomic (temp file then rename). A total byte quota is enforced
// the way browser local storage does: a write that would push usage over the
// quota fails with ErrQuotaExceeded and leaves the store unchanged.
//
// Usage is accounted as 2*(keyLength+valueLength) per key, matching the
// two-byte-per-character model of the storage this mirrors.
type FileStore struct {
	root  string
	quota int64
	mu    sync.RWMutex
}

// NewFileStore creates a FileStore rooted at dir. quota is the total byte
// budget; zero or negative means unlimited.
func NewFileStore(dir string, quota int64) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{root: dir, quota: quota}, nil
}

func (s *FileStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, "/\\") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.root, key), nil
}

// usage sums the accounted size of every stored key. Caller must hold the lock.
func (s *FileStore) usage() (int64, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return 0, fmt.Errorf("read store dir: %w", err)
	}
	var total int64
	for _, entry := range entries {
		if entry.IsDir() || strings.HasSuffix(entry.Name(), ".tmp") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		total += 2 * (int64(len(entry.Name())) + info.Size())
	}
	return total, nil
}

// Read returns the value stored under key, or ErrNotFound.
func (s *FileStore) Read(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Write stores value under key atomically, enforcing the quota.
func (s *FileStore) Write(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.path(key)
	if err != nil {
		return err
	}

	if s.quota > 0 {
		used, err := s.usage()
		if err != nil {
			return err
		}
		var old int64
		if info, err := os.Stat(path); err == nil {
			old = 2 * (int64(len(key)) + info.Size())
		}
		next := used - old + 2*(int64(len(key))+int64(len(value)))
		if next > s.quota {
			return ErrQuotaExceeded
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return fmt.Errorf("write temp %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

// Remove deletes the key. Removing an absent key is a no-op.
func (s *FileStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// Keys returns all stored keys with the given prefix, in sorted order.
func (s *FileStore) Keys(prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read store dir: %w", err)
	}
	var keys []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasSuffix(entry.Name(), ".tmp") {
			continue
		}
		if strings.HasPrefix(entry.Name(), prefix) {
			keys = append(keys, entry.Name())
		}
	}
	return keys, nil
}
