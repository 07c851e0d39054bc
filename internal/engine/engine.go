// Package engine implements the pet persistence engine: debounced, batched
// writes into a namespaced key-value store, capacity management by
// compaction and pruning, self-healing loads, and export/import of the
// whole data set as a single document.
package engine

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/YutaTadokoro/WordGotchi/internal/kv"
	"github.com/YutaTadokoro/WordGotchi/internal/types"
)

// Options configures an Engine.
type Options struct {
	// Prefix namespaces every persisted key.
	Prefix string
	// Debounce is the quiet period between a save and its flush.
	Debounce time.Duration
	// BatchSize is the pending-list length at which append logs flush
	// immediately, bypassing the debounce timer.
	BatchSize int
	// MaxBytes is the total storage byte ceiling.
	MaxBytes int64
	// MaxHistory caps the feeding log; MaxGallery caps the expression log.
	MaxHistory int
	MaxGallery int
}

// DefaultOptions returns the production configuration.
func DefaultOptions() Options {
	return Options{
		Prefix:     "wordgotchi",
		Debounce:   time.Second,
		BatchSize:  10,
		MaxBytes:   5 * 1024 * 1024,
		MaxHistory: 1000,
		MaxGallery: 500,
	}
}

// Engine owns the three record stores. All mutation goes through its save
// operations, which coalesce in per-kind write buffers before flushing to
// the backing store.
type Engine struct {
	mu    sync.Mutex
	store *kv.Adapter
	opts  Options

	// compactMode flips on once capacity compaction has triggered; from
	// then on flushes write without indentation.
	compactMode bool

	pendingPet  *types.PetState
	pendingFeed []types.FeedingRecord
	pendingExpr []types.Expression

	petFlush  *debouncer
	feedFlush *debouncer
	exprFlush *debouncer
}

// New creates an Engine over the given backing store adapter.
func New(store *kv.Adapter, opts Options) *Engine {
	if opts.Prefix == "" {
		opts.Prefix = "wordgotchi"
	}
	if opts.Debounce <= 0 {
		opts.Debounce = time.Second
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 10
	}
	if opts.MaxHistory <= 0 {
		opts.MaxHistory = 1000
	}
	if opts.MaxGallery <= 0 {
		opts.MaxGallery = 500
	}
	e := &Engine{store: store, opts: opts}
	e.petFlush = newDebouncer(&e.mu, opts.Debounce, e.flushPetLocked)
	e.feedFlush = newDebouncer(&e.mu, opts.Debounce, e.flushHistoryLocked)
	e.exprFlush = newDebouncer(&e.mu, opts.Debounce, e.flushExpressionsLocked)
	return e
}

func (e *Engine) petKey() string         { return e.opts.Prefix + ".pet" }
func (e *Engine) historyKey() string     { return e.opts.Prefix + ".feedingHistory" }
func (e *Engine) expressionsKey() string { return e.opts.Prefix + ".expressions" }

func (e *Engine) marshal(v any) ([]byte, error) {
	if e.compactMode {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}

// SavePet buffers the full pet state for writing. Successive saves within
// the debounce window supersede each other; only the latest state flushes.
func (e *Engine) SavePet(state *types.PetState) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := *state
	e.pendingPet = &s
	e.petFlush.touch()
}

// LoadPet reads the pet synchronously from the backing store, bypassing the
// write buffer. A corrupted record is deleted and reported as absent.
func (e *Engine) LoadPet() *types.PetState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadPetLocked()
}

func (e *Engine) loadPetLocked() *types.PetState {
	raw, err := e.store.Read(e.petKey())
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			slog.Warn("read pet failed", "error", err)
		}
		return nil
	}
	if err := ValidatePet(raw); err != nil {
		slog.Warn("corrupted pet record, clearing", "error", err)
		e.store.Remove(e.petKey())
		return nil
	}
	var pet types.PetState
	if err := json.Unmarshal(raw, &pet); err != nil {
		e.store.Remove(e.petKey())
		return nil
	}
	return &pet
}

// SaveFeedingRecord appends the record to the pending feeding batch. The
// batch flushes after the quiet period, or immediately once it reaches the
// batch-size threshold.
func (e *Engine) SaveFeedingRecord(rec types.FeedingRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.pendingFeed = append(e.pendingFeed, rec)
	if len(e.pendingFeed) >= e.opts.BatchSize {
		e.feedFlush.trigger()
	} else {
		e.feedFlush.touch()
	}
}

// FeedingHistory returns the most recent limit records in chronological
// order. limit <= 0 returns the full persisted log.
func (e *Engine) FeedingHistory(limit int) []types.FeedingRecord {
	e.mu.Lock()
	defer e.mu.Unlock()

	history := e.loadHistoryLocked()
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	return history
}

func (e *Engine) loadHistoryLocked() []types.FeedingRecord {
	raw, err := e.store.Read(e.historyKey())
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			slog.Warn("read feeding history failed", "error", err)
		}
		return nil
	}
	if err := ValidateFeedingHistory(raw); err != nil {
		slog.Warn("corrupted feeding history, clearing", "error", err)
		e.store.Remove(e.historyKey())
		return nil
	}
	var history []types.FeedingRecord
	if err := json.Unmarshal(raw, &history); err != nil {
		e.store.Remove(e.historyKey())
		return nil
	}
	return history
}

// SaveExpression appends the expression to the pending gallery batch.
func (e *Engine) SaveExpression(expr types.Expression) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.pendingExpr = append(e.pendingExpr, expr)
	if len(e.pendingExpr) >= e.opts.BatchSize {
		e.exprFlush.trigger()
	} else {
		e.exprFlush.touch()
	}
}

// Expressions returns the most recent limit gallery entries in
// chronological order. limit <= 0 returns the full persisted log.
func (e *Engine) Expressions(limit int) []types.Expression {
	e.mu.Lock()
	defer e.mu.Unlock()

	exprs := e.loadExpressionsLocked()
	if limit > 0 && len(exprs) > limit {
		exprs = exprs[len(exprs)-limit:]
	}
	return exprs
}

func (e *Engine) loadExpressionsLocked() []types.Expression {
	raw, err := e.store.Read(e.expressionsKey())
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			slog.Warn("read expressions failed", "error", err)
		}
		return nil
	}
	if err := ValidateExpressions(raw); err != nil {
		slog.Warn("corrupted expression gallery, clearing", "error", err)
		e.store.Remove(e.expressionsKey())
		return nil
	}
	var exprs []types.Expression
	if err := json.Unmarshal(raw, &exprs); err != nil {
		e.store.Remove(e.expressionsKey())
		return nil
	}
	return exprs
}

// FlushAll cancels all pending timers and flushes every record kind
// synchronously. It must run before export, import, or shutdown.
func (e *Engine) FlushAll() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.petFlush.flushNow()
	e.feedFlush.flushNow()
	e.exprFlush.flushNow()
}

// MemoryOnly reports whether the backing store has fallen back to the
// in-memory mirror.
func (e *Engine) MemoryOnly() bool {
	return e.store.MemoryOnly()
}

// Reset discards all pending writes and deletes every persisted record.
// This is the only way a pet is ever deleted.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.petFlush.cancel()
	e.feedFlush.cancel()
	e.exprFlush.cancel()
	e.pendingPet = nil
	e.pendingFeed = nil
	e.pendingExpr = nil
	e.store.Remove(e.petKey())
	e.store.Remove(e.historyKey())
	e.store.Remove(e.expressionsKey())
}

func (e *Engine) flushPetLocked() {
	if e.pendingPet == nil {
		return
	}
	data, err := e.marshal(e.pendingPet)
	if err != nil {
		slog.Error("marshal pet failed", "error", err)
		return
	}
	e.pendingPet = nil
	e.writeLocked(e.petKey(), data)
	e.maybeCompactLocked()
}

func (e *Engine) flushHistoryLocked() {
	if len(e.pendingFeed) == 0 {
		return
	}
	history := append(e.loadHistoryLocked(), e.pendingFeed...)
	if len(history) > e.opts.MaxHistory {
		history = history[len(history)-e.opts.MaxHistory:]
	}
	data, err := e.marshal(history)
	if err != nil {
		slog.Error("marshal feeding history failed", "error", err)
		return
	}
	e.pendingFeed = nil
	e.writeLocked(e.historyKey(), data)
	e.maybeCompactLocked()
}

func (e *Engine) flushExpressionsLocked() {
	if len(e.pendingExpr) == 0 {
		return
	}
	exprs := append(e.loadExpressionsLocked(), e.pendingExpr...)
	if len(exprs) > e.opts.MaxGallery {
		exprs = exprs[len(exprs)-e.opts.MaxGallery:]
	}
	data, err := e.marshal(exprs)
	if err != nil {
		slog.Error("marshal expressions failed", "error", err)
		return
	}
	e.pendingExpr = nil
	e.writeLocked(e.expressionsKey(), data)
	e.maybeCompactLocked()
}

// writeLocked writes through the adapter with the quota recovery path:
// prune then retry once, and if the retry still hits the quota, fall back
// to the in-memory mirror so the data stays resident.
func (e *Engine) writeLocked(key string, data []byte) {
	err := e.store.Write(key, data)
	if !errors.Is(err, kv.ErrQuotaExceeded) {
		return
	}
	slog.Warn("storage quota exceeded, pruning", "key", key)
	if !e.compactMode {
		e.compactLocked()
	}
	e.pruneLocked()
	if err := e.store.Write(key, data); errors.Is(err, kv.ErrQuotaExceeded) {
		slog.Warn("still over quota after pruning, keeping data in memory mirror")
		e.store.Fallback()
		e.store.Write(key, data)
	}
}
