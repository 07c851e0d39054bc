// internal/kv/adapter.go
package kv

import (
	"errors"
	"log/slog"
	"sync"
)

const probeKey = "__wordgotchi_probe__"

// Adapter fronts a persistent Store and falls back to an in-memory mirror
// when the persistent store is unavailable or starts failing. The switch is
// one-way: once memory-only, the adapter never returns to the persistent
// store for the rest of the process lifetime.
//
// Quota failures are not a fallback trigger; they are returned to the caller
// so the capacity manager can prune and retry. Any other write failure
// switches to the mirror and lands the write there, so data is retained even
// though durability is lost for the session.
type Adapter struct {
	mu         sync.Mutex
	persistent Store
	mirror     *MemoryStore
	memoryOnly bool
}

// NewAdapter wraps the persistent store, probing it with a trial
// write/delete. A failed probe switches to the mirror immediately.
func NewAdapter(persistent Store) *Adapter {
	a := &Adapter{
		persistent: persistent,
		mirror:     NewMemoryStore(),
	}
	if !a.probe() {
		slog.Warn("backing store unavailable, using in-memory mirror")
		a.memoryOnly = true
	}
	return a
}

// probe performs a trial write and delete. A quota failure still counts as
// available: the store works, it is merely full.
func (a *Adapter) probe() bool {
	if a.persistent == nil {
		return false
	}
	if err := a.persistent.Write(probeKey, []byte("1")); err != nil {
		return errors.Is(err, ErrQuotaExceeded)
	}
	return a.persistent.Remove(probeKey) == nil
}

// MemoryOnly reports whether the adapter has switched to the mirror.
func (a *Adapter) MemoryOnly() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.memoryOnly
}

// Fallback switches to the in-memory mirror, seeding it with every value
// still readable from the persistent store. Safe to call more than once.
func (a *Adapter) Fallback() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fallbackLocked()
}

func (a *Adapter) fallbackLocked() {
	if a.memoryOnly {
		return
	}
	if keys, err := a.persistent.Keys(""); err == nil {
		for _, key := range keys {
			if value, err := a.persistent.Read(key); err == nil {
				a.mirror.Write(key, value)
			}
		}
	}
	a.memoryOnly = true
	slog.Warn("switching to in-memory mirror, durability lost for this session")
}

func (a *Adapter) current() Store {
	if a.memoryOnly {
		return a.mirror
	}
	return a.persistent
}

func (a *Adapter) Read(key string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current().Read(key)
}

func (a *Adapter) Write(key string, value []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.memoryOnly {
		return a.mirror.Write(key, value)
	}
	err := a.persistent.Write(key, value)
	if err == nil || errors.Is(err, ErrQuotaExceeded) {
		return err
	}
	slog.Warn("backing store write failed", "key", key, "error", err)
	a.fallbackLocked()
	return a.mirror.Write(key, value)
}

func (a *Adapter) Remove(key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current().Remove(key)
}

func (a *Adapter) Keys(prefix string) ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current().Keys(prefix)
}
