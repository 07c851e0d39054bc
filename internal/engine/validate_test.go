// internal/engine/validate_test.go
package engine

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/YutaTadokoro/WordGotchi/internal/types"
)

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestValidatePet(t *testing.T) {
	good := mustJSON(t, types.NewPetState(time.Now()))
	if err := ValidatePet(good); err != nil {
		t.Errorf("expected valid pet: %v", err)
	}

	bad := [][]byte{
		[]byte(`{"truncated":`),
		[]byte(`"just a string"`),
		[]byte(`{"id":"x","stage":3,"feedingCount":0,"emotionVector":{},"createdAt":"t"}`),
		[]byte(`{"id":"x","stage":1,"feedingCount":-1,"emotionVector":{},"createdAt":"t"}`),
		[]byte(`{"stage":1}`),
	}
	for _, raw := range bad {
		if err := ValidatePet(raw); err == nil {
			t.Errorf("expected rejection of %s", raw)
		}
	}
}

func TestValidatePetEmotionBounds(t *testing.T) {
	pet := types.NewPetState(time.Now())
	raw := mustJSON(t, pet)

	var m map[string]json.RawMessage
	json.Unmarshal(raw, &m)
	m["emotionVector"] = []byte(`{"joy":1.5,"anger":0,"sadness":0,"fear":0,"surprise":0,"disgust":0,"trust":0,"lastUpdated":0}`)
	if err := ValidatePet(mustJSON(t, m)); err == nil {
		t.Error("expected rejection of out-of-range emotion value")
	}
}

func TestValidateFeedingHistory(t *testing.T) {
	rec := someFeeding("words here")
	if err := ValidateFeedingHistory(mustJSON(t, []types.FeedingRecord{rec})); err != nil {
		t.Errorf("expected valid history: %v", err)
	}
	if err := ValidateFeedingHistory([]byte(`[]`)); err != nil {
		t.Errorf("expected empty history valid: %v", err)
	}

	if err := ValidateFeedingHistory([]byte(`{"not":"array"}`)); err == nil {
		t.Error("expected rejection of non-array")
	}
	if err := ValidateFeedingHistory([]byte(`[{"id":"x"}]`)); err == nil {
		t.Error("expected rejection of incomplete record")
	}
}

func TestValidateExpressions(t *testing.T) {
	art := types.Expression{
		ID:              types.NewExpressionID(),
		Timestamp:       time.Now(),
		ImageURL:        "data:image/png;base64,xx",
		Prompt:          "a happy scene",
		DominantEmotion: "joy",
	}
	poem := somePoem()

	if err := ValidateExpressions(mustJSON(t, []types.Expression{art, poem})); err != nil {
		t.Errorf("expected valid gallery: %v", err)
	}

	// Neither variant's required fields.
	if err := ValidateExpressions([]byte(`[{"id":"x","timestamp":"t"}]`)); err == nil {
		t.Error("expected rejection of variant-less entry")
	}

	// Both variants at once fails the oneOf.
	both := art
	both.Lines = poem.Lines
	both.SourceText = poem.SourceText
	both.EmotionContext = poem.EmotionContext
	if err := ValidateExpressions(mustJSON(t, []types.Expression{both})); err == nil {
		t.Error("expected rejection of dual-variant entry")
	}

	// Poems are three to five lines.
	short := somePoem()
	short.Lines = []string{"one", "two"}
	if err := ValidateExpressions(mustJSON(t, []types.Expression{short})); err == nil {
		t.Error("expected rejection of two-line poem")
	}
}

func TestValidateDocument(t *testing.T) {
	doc := types.StorageDocument{
		Pet:            types.NewPetState(time.Now()),
		FeedingHistory: []types.FeedingRecord{someFeeding("hi")},
		Expressions:    []types.Expression{somePoem()},
	}
	if err := ValidateDocument(mustJSON(t, doc)); err != nil {
		t.Errorf("expected valid document: %v", err)
	}

	if err := ValidateDocument([]byte(`{"pet":null,"feedingHistory":[],"expressions":[]}`)); err != nil {
		t.Errorf("expected petless document valid: %v", err)
	}

	if err := ValidateDocument([]byte(`{"feedingHistory":[],"expressions":[]}`)); err == nil {
		t.Error("expected rejection when pet key is missing entirely")
	}
}
