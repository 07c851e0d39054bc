// internal/pet/feed.go
package pet

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"github.com/YutaTadokoro/WordGotchi/internal/analysis"
	"github.com/YutaTadokoro/WordGotchi/internal/types"
)

// Tokenize splits normalized feeding text into its words. Tokens are
// lowercased; punctuation separates tokens.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		words = append(words, strings.ToLower(f))
	}
	return words
}

// Feed runs one feeding: normalize and tokenize the input, score its
// emotional content, merge the delta into the pet (clamped), bump the
// feeding count, apply stage evolution, and append a feeding record.
func (s *Service) Feed(ctx context.Context, text string) (*types.PetState, *types.FeedingRecord, error) {
	now := s.now()
	normalized := analysis.NormalizeInput(text)
	words := Tokenize(normalized)

	delta := s.scoreEmotion(ctx, normalized, words)
	delta.LastUpdated = now.UnixMilli()

	s.mu.Lock()
	defer s.mu.Unlock()

	pet := s.petLocked(true)
	pet.EmotionVector.Merge(delta)
	pet.FeedingCount++
	if pet.Stage == types.StageEgg && pet.FeedingCount >= types.EvolutionThreshold {
		pet.Stage = types.StageGrown
		slog.Info("pet evolved", "pet_id", string(pet.ID), "feeding_count", pet.FeedingCount)
	}

	record := types.FeedingRecord{
		ID:              types.NewFeedingID(),
		Timestamp:       now,
		InputText:       normalized,
		Words:           words,
		EmotionAnalysis: delta,
	}

	s.engine.SavePet(pet)
	s.engine.SaveFeedingRecord(record)

	snapshot := *pet
	return &snapshot, &record, nil
}

// scoreEmotion asks the analyzer for a score, falling back to the
// deterministic lexicon when offline or on error.
func (s *Service) scoreEmotion(ctx context.Context, text string, words []string) types.EmotionVector {
	if s.analyzer != nil {
		vector, err := s.analyzer.AnalyzeEmotion(ctx, text)
		if err == nil {
			return vector
		}
		slog.Warn("emotion analysis failed, using lexicon", "error", err)
	}
	return lexiconScore(words)
}
