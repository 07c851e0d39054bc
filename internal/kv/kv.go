// Package kv provides the key-value backing store the persistence engine
// writes through: a quota-enforcing file store, an in-memory mirror, and an
// adapter that switches between them.
package kv

import "errors"

var (
	// ErrNotFound is returned by Read when a key is absent.
	ErrNotFound = errors.New("kv: key not found")
	// ErrQuotaExceeded is returned by Write when the store's byte budget
	// would be exceeded. The write leaves the store unchanged.
	ErrQuotaExceeded = errors.New("kv: quota exceeded")
)

// Store is a minimal key-value store.
type Store interface {
	Read(key string) ([]byte, error)
	Write(key string, value []byte) error
	Remove(key string) error
	Keys(prefix string) ([]string, error)
}
