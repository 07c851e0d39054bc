// internal/types/models.go
package types

import (
	"time"
)

// Pet growth stages. Transitions are monotone: StageEgg -> StageGrown only.
const (
	StageEgg   = 1
	StageGrown = 2
)

// EvolutionThreshold is the feeding count at which a pet moves to StageGrown.
const EvolutionThreshold = 10

// PetState is the singleton pet record.
type PetState struct {
	ID            PetID         `json:"id"`
	Stage         int           `json:"stage"`
	FeedingCount  int           `json:"feedingCount"`
	EmotionVector EmotionVector `json:"emotionVector"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// NewPetState creates a fresh stage-1 pet with an all-zero emotion vector.
func NewPetState(now time.Time) *PetState {
	return &PetState{
		ID:    NewPetID(),
		Stage: StageEgg,
		EmotionVector: EmotionVector{
			LastUpdated: now.UnixMilli(),
		},
		CreatedAt: now,
	}
}

// FeedingRecord is one append-only feeding log entry. The emotion analysis
// holds the delta produced by this feeding, not the accumulated total.
type FeedingRecord struct {
	ID              FeedingID     `json:"id"`
	Timestamp       time.Time     `json:"timestamp"`
	InputText       string        `json:"inputText"`
	Words           []string      `json:"words"`
	EmotionAnalysis EmotionVector `json:"emotionAnalysis"`
}

// Expression is one gallery entry. The variant is discriminated by which
// fields are present: art entries carry ImageURL, poetry entries carry Lines.
type Expression struct {
	ID        ExpressionID `json:"id"`
	Timestamp time.Time    `json:"timestamp"`

	// Art variant
	ImageURL        string `json:"imageUrl,omitempty"`
	Prompt          string `json:"prompt,omitempty"`
	DominantEmotion string `json:"dominantEmotion,omitempty"`

	// Poetry variant
	Lines          []string       `json:"lines,omitempty"`
	SourceText     string         `json:"sourceText,omitempty"`
	EmotionContext *EmotionVector `json:"emotionContext,omitempty"`
}

// IsArt reports whether the expression is an art entry.
func (e *Expression) IsArt() bool {
	return e.ImageURL != ""
}

// IsPoetry reports whether the expression is a poetry entry.
func (e *Expression) IsPoetry() bool {
	return len(e.Lines) > 0
}

// StorageDocument is the transient export/import wire shape. It is never
// persisted as its own entity.
type StorageDocument struct {
	Pet            *PetState       `json:"pet"`
	FeedingHistory []FeedingRecord `json:"feedingHistory"`
	Expressions    []Expression    `json:"expressions"`
}
