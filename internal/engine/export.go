// internal/engine/export.go
package engine

import (
	"encoding/json"
	"log/slog"

	"github.com/YutaTadokoro/WordGotchi/internal/types"
)

// ExportData flushes every pending write and serializes the pet, the full
// feeding history, and the full expression gallery as one document.
func (e *Engine) ExportData() (string, error) {
	e.FlushAll()

	e.mu.Lock()
	defer e.mu.Unlock()

	doc := types.StorageDocument{
		Pet:            e.loadPetLocked(),
		FeedingHistory: e.loadHistoryLocked(),
		Expressions:    e.loadExpressionsLocked(),
	}
	if doc.FeedingHistory == nil {
		doc.FeedingHistory = []types.FeedingRecord{}
	}
	if doc.Expressions == nil {
		doc.Expressions = []types.Expression{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ImportData validates text as a storage document and, on success, replaces
// all three stores wholesale. On any parse or validation failure it returns
// false and leaves existing state untouched.
func (e *Engine) ImportData(text string) bool {
	// Flush first: pending writes either land before the import or are
	// replaced by it, never interleaved after.
	e.FlushAll()

	if err := ValidateDocument([]byte(text)); err != nil {
		slog.Warn("import rejected", "error", err)
		return false
	}
	var doc types.StorageDocument
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		slog.Warn("import rejected", "error", err)
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.petFlush.cancel()
	e.feedFlush.cancel()
	e.exprFlush.cancel()
	e.pendingPet = nil
	e.pendingFeed = nil
	e.pendingExpr = nil

	if len(doc.FeedingHistory) > e.opts.MaxHistory {
		doc.FeedingHistory = doc.FeedingHistory[len(doc.FeedingHistory)-e.opts.MaxHistory:]
	}
	if len(doc.Expressions) > e.opts.MaxGallery {
		doc.Expressions = doc.Expressions[len(doc.Expressions)-e.opts.MaxGallery:]
	}

	if doc.Pet == nil {
		e.store.Remove(e.petKey())
	} else if data, err := e.marshal(doc.Pet); err == nil {
		e.writeLocked(e.petKey(), data)
	}
	if data, err := e.marshal(doc.FeedingHistory); err == nil {
		e.writeLocked(e.historyKey(), data)
	}
	if data, err := e.marshal(doc.Expressions); err == nil {
		e.writeLocked(e.expressionsKey(), data)
	}
	e.maybeCompactLocked()
	return true
}
