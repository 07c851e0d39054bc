// internal/engine/capacity.go
package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/YutaTadokoro/WordGotchi/internal/kv"
)

// compactThreshold is the fraction of the byte ceiling at which the
// capacity manager starts compacting after a flush.
const compactThreshold = 0.8

// pruneKeep is the fraction of log entries retained by a prune pass.
const pruneKeep = 0.8

// CheckStorageSize returns the accounted byte footprint of every persisted
// key in the engine's namespace, using 2*(keyLength+valueLength) per key.
func (e *Engine) CheckStorageSize() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.checkSizeLocked()
}

func (e *Engine) checkSizeLocked() int64 {
	keys, err := e.store.Keys(e.opts.Prefix)
	if err != nil {
		slog.Warn("list storage keys failed", "error", err)
		return 0
	}
	var total int64
	for _, key := range keys {
		value, err := e.store.Read(key)
		if err != nil {
			continue
		}
		total += 2 * (int64(len(key)) + int64(len(value)))
	}
	return total
}

// maybeCompactLocked runs after every flush: over 80% of the ceiling it
// compacts every key, and if that alone does not bring the footprint back
// under the ceiling it prunes the append logs.
func (e *Engine) maybeCompactLocked() {
	if e.opts.MaxBytes <= 0 {
		return
	}
	size := e.checkSizeLocked()
	if float64(size) <= float64(e.opts.MaxBytes)*compactThreshold {
		return
	}
	e.compactLocked()
	if e.checkSizeLocked() > e.opts.MaxBytes {
		e.pruneLocked()
	}
}

// Compact rewrites every persisted key in its most compact encoding.
func (e *Engine) Compact() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.compactLocked()
}

func (e *Engine) compactLocked() {
	keys, err := e.store.Keys(e.opts.Prefix)
	if err != nil {
		return
	}
	var saved int64
	for _, key := range keys {
		value, err := e.store.Read(key)
		if err != nil {
			continue
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, value); err != nil {
			continue
		}
		if buf.Len() >= len(value) {
			continue
		}
		if err := e.store.Write(key, buf.Bytes()); err == nil {
			saved += int64(len(value) - buf.Len())
		}
	}
	// Stay compact from here on so the footprint does not grow back.
	e.compactMode = true
	if saved > 0 {
		slog.Info("compacted storage", "bytes_saved", 2*saved)
	}
}

// PruneOldData discards the oldest entries of both append logs, keeping the
// most recent floor(N*0.8) of each. The pet record is never pruned.
func (e *Engine) PruneOldData() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pruneLocked()
}

func (e *Engine) pruneLocked() {
	if history := e.loadHistoryLocked(); len(history) > 1 {
		keep := int(float64(len(history)) * pruneKeep)
		e.rewriteLocked(e.historyKey(), history[len(history)-keep:])
		slog.Info("pruned feeding history", "dropped", len(history)-keep, "kept", keep)
	}
	if exprs := e.loadExpressionsLocked(); len(exprs) > 1 {
		keep := int(float64(len(exprs)) * pruneKeep)
		e.rewriteLocked(e.expressionsKey(), exprs[len(exprs)-keep:])
		slog.Info("pruned expression gallery", "dropped", len(exprs)-keep, "kept", keep)
	}
}

// rewriteLocked serializes and writes a pruned log directly, without the
// quota recovery path: prune runs inside that path, so a pruned log that
// still cannot be written is just logged.
func (e *Engine) rewriteLocked(key string, v any) {
	data, err := e.marshal(v)
	if err != nil {
		slog.Error("marshal pruned log failed", "key", key, "error", err)
		return
	}
	if err := e.store.Write(key, data); err != nil && !errors.Is(err, kv.ErrQuotaExceeded) {
		slog.Warn("write pruned log failed", "key", key, "error", err)
	}
}
