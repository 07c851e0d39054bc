// internal/pet/express.go
package pet

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/YutaTadokoro/WordGotchi/internal/types"
)

// ErrNotGrown is returned when expression generation is requested before
// the pet has reached its grown stage.
var ErrNotGrown = fmt.Errorf("pet has not grown enough to express itself")

// Express generates one art and one poetry expression from the pet's
// current emotional state and recent feedings, appending both to the
// gallery. The two variants are generated concurrently. Art requires the
// analyzer; without it only the poem is produced.
func (s *Service) Express(ctx context.Context) ([]types.Expression, error) {
	pet := s.Pet()
	if pet.Stage != types.StageGrown {
		return nil, ErrNotGrown
	}

	recent := s.engine.FeedingHistory(10)
	dominant := pet.EmotionVector.Dominant()

	var art, poem *types.Expression
	g, gctx := errgroup.WithContext(ctx)

	if s.analyzer != nil {
		g.Go(func() error {
			prompt := artPrompt(dominant, recent)
			imageURL, err := s.analyzer.GenerateImage(gctx, prompt)
			if err != nil {
				return fmt.Errorf("generate art: %w", err)
			}
			art = &types.Expression{
				ID:              types.NewExpressionID(),
				Timestamp:       s.now(),
				ImageURL:        imageURL,
				Prompt:          prompt,
				DominantEmotion: dominant,
			}
			return nil
		})
	}

	g.Go(func() error {
		vector := pet.EmotionVector
		source := sourceText(recent)
		poem = &types.Expression{
			ID:             types.NewExpressionID(),
			Timestamp:      s.now(),
			Lines:          composePoem(recent, vector),
			SourceText:     source,
			EmotionContext: &vector,
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []types.Expression
	for _, expr := range []*types.Expression{art, poem} {
		if expr != nil {
			s.engine.SaveExpression(*expr)
			out = append(out, *expr)
		}
	}
	return out, nil
}

// artPrompt builds the image prompt from the dominant emotion and a few
// recent feeding words.
func artPrompt(dominant string, recent []types.FeedingRecord) string {
	words := recentWords(recent, 8)
	return fmt.Sprintf(
		"A small whimsical creature radiating %s, surrounded by imagery of: %s. Soft colors, storybook style.",
		dominant, strings.Join(words, ", "),
	)
}

// sourceText joins the recent feedings that seeded the poem.
func sourceText(recent []types.FeedingRecord) string {
	texts := make([]string, 0, len(recent))
	for _, r := range recent {
		texts = append(texts, r.InputText)
	}
	return strings.Join(texts, "\n")
}

// recentWords collects up to max distinct words from recent feedings,
// newest first.
func recentWords(recent []types.FeedingRecord, max int) []string {
	seen := make(map[string]bool)
	var words []string
	for i := len(recent) - 1; i >= 0 && len(words) < max; i-- {
		for _, w := range recent[i].Words {
			if seen[w] {
				continue
			}
			seen[w] = true
			words = append(words, w)
			if len(words) == max {
				break
			}
		}
	}
	if len(words) == 0 {
		words = []string{"quiet", "waiting"}
	}
	return words
}

// composePoem builds a 3-5 line poem from the feeding words and the
// emotion context. Deterministic for a given input.
func composePoem(recent []types.FeedingRecord, vector types.EmotionVector) []string {
	words := recentWords(recent, 6)
	dominant := vector.Dominant()

	lines := []string{
		fmt.Sprintf("from %s the day began", words[0]),
		fmt.Sprintf("a heart that leans toward %s", dominant),
	}
	if len(words) > 2 {
		lines = append(lines, fmt.Sprintf("%s and %s drift past", words[1], words[2]))
	}
	if len(words) > 4 {
		lines = append(lines, fmt.Sprintf("still holding %s close", words[3]))
	}
	lines = append(lines, "and it grew a little")
	if len(lines) > 5 {
		lines = lines[:5]
	}
	return lines
}
