// Package pet implements the virtual-pet domain logic on top of the
// persistence engine: the feeding pipeline, emotion accumulation and decay,
// stage evolution, and expression generation.
package pet

import (
	"context"
	"sync"
	"time"

	"github.com/YutaTadokoro/WordGotchi/internal/engine"
	"github.com/YutaTadokoro/WordGotchi/internal/types"
)

// Analyzer scores feeding text and renders art. Implemented by the backend
// client; nil means offline and the lexicon fallback is used for scoring.
type Analyzer interface {
	AnalyzeEmotion(ctx context.Context, text string) (types.EmotionVector, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Service drives the pet. The live state is held in memory and persisted
// through the engine's write buffer, so rapid mutations never read back a
// not-yet-flushed save.
type Service struct {
	mu       sync.Mutex
	engine   *engine.Engine
	analyzer Analyzer
	now      func() time.Time

	pet *types.PetState
}

// New creates a Service. analyzer may be nil for offline operation.
func New(eng *engine.Engine, analyzer Analyzer) *Service {
	return &Service{
		engine:   eng,
		analyzer: analyzer,
		now:      time.Now,
	}
}

// Pet returns a snapshot of the current pet, creating one if none is
// persisted yet.
func (s *Service) Pet() *types.PetState {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := *s.petLocked(true)
	return &snapshot
}

// petLocked returns the live state, loading it from the engine on first
// use. With create set, an absent pet is minted and flushed immediately so
// another process loading within the debounce window sees it.
func (s *Service) petLocked(create bool) *types.PetState {
	if s.pet != nil {
		return s.pet
	}
	if pet := s.engine.LoadPet(); pet != nil {
		s.pet = pet
		return pet
	}
	if !create {
		return nil
	}
	pet := types.NewPetState(s.now())
	s.pet = pet
	s.engine.SavePet(pet)
	s.engine.FlushAll()
	return pet
}

// Engine exposes the underlying persistence engine for diagnostics.
func (s *Service) Engine() *engine.Engine {
	return s.engine
}
