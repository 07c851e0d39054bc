// internal/pet/feed_test.go
package pet

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/YutaTadokoro/WordGotchi/internal/engine"
	"github.com/YutaTadokoro/WordGotchi/internal/kv"
	"github.com/YutaTadokoro/WordGotchi/internal/types"
)

// stubAnalyzer returns a fixed emotion delta and image URL.
type stubAnalyzer struct {
	vector   types.EmotionVector
	imageURL string
	err      error
}

func (s *stubAnalyzer) AnalyzeEmotion(ctx context.Context, text string) (types.EmotionVector, error) {
	return s.vector, s.err
}

func (s *stubAnalyzer) GenerateImage(ctx context.Context, prompt string) (string, error) {
	return s.imageURL, s.err
}

func newTestService(t *testing.T, analyzer Analyzer) *Service {
	t.Helper()
	store, err := kv.NewFileStore(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}
	opts := engine.DefaultOptions()
	opts.Prefix = "test"
	opts.Debounce = 20 * time.Millisecond
	eng := engine.New(kv.NewAdapter(store), opts)
	return New(eng, analyzer)
}

func TestTokenize(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"Hello, World!", []string{"hello", "world"}},
		{"one  two\tthree", []string{"one", "two", "three"}},
		{"it's 2024", []string{"it", "s", "2024"}},
		{"", []string{}},
		{"!!!", []string{}},
	}
	for _, c := range cases {
		if got := Tokenize(c.in); !reflect.DeepEqual(got, c.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestPetCreatesOnce(t *testing.T) {
	svc := newTestService(t, nil)

	first := svc.Pet()
	second := svc.Pet()
	if first.ID != second.ID {
		t.Errorf("expected a single pet, got %s then %s", first.ID, second.ID)
	}
	if first.Stage != types.StageEgg {
		t.Errorf("expected new pet at stage %d, got %d", types.StageEgg, first.Stage)
	}
}

func TestFeedAccumulatesAndEvolves(t *testing.T) {
	svc := newTestService(t, &stubAnalyzer{vector: types.EmotionVector{Joy: 0.1}})

	var pet *types.PetState
	for i := 0; i < 9; i++ {
		var err error
		pet, _, err = svc.Feed(context.Background(), "a lovely day")
		if err != nil {
			t.Fatal(err)
		}
		if pet.Stage != types.StageEgg {
			t.Fatalf("evolved early at feeding %d", i+1)
		}
	}

	pet, rec, err := svc.Feed(context.Background(), "a lovely day")
	if err != nil {
		t.Fatal(err)
	}
	if pet.FeedingCount != 10 {
		t.Errorf("expected feeding count 10, got %d", pet.FeedingCount)
	}
	if pet.Stage != types.StageGrown {
		t.Errorf("expected evolution at feeding 10, got stage %d", pet.Stage)
	}
	if pet.EmotionVector.Joy != 1.0 {
		t.Errorf("expected joy exactly 1.0 after ten +0.1 feedings, got %v", pet.EmotionVector.Joy)
	}
	if rec.EmotionAnalysis.Joy != 0.1 {
		t.Errorf("record holds the delta, not the total: got %v", rec.EmotionAnalysis.Joy)
	}

	// State survives a flush and reload.
	svc.Engine().FlushAll()
	loaded := svc.Engine().LoadPet()
	if loaded == nil || loaded.Stage != types.StageGrown || loaded.FeedingCount != 10 {
		t.Errorf("persisted state mismatch: %+v", loaded)
	}
}

func TestFeedEvolutionIsMonotone(t *testing.T) {
	svc := newTestService(t, &stubAnalyzer{})

	for i := 0; i < 12; i++ {
		pet, _, err := svc.Feed(context.Background(), "food")
		if err != nil {
			t.Fatal(err)
		}
		if i >= 9 && pet.Stage != types.StageGrown {
			t.Fatalf("expected grown at feeding %d", i+1)
		}
	}
}

func TestFeedRecordsHistory(t *testing.T) {
	svc := newTestService(t, nil)

	if _, rec, err := svc.Feed(context.Background(), "Happy thoughts!"); err != nil {
		t.Fatal(err)
	} else {
		if rec.InputText != "Happy thoughts!" {
			t.Errorf("unexpected input text: %q", rec.InputText)
		}
		if !reflect.DeepEqual(rec.Words, []string{"happy", "thoughts"}) {
			t.Errorf("unexpected words: %v", rec.Words)
		}
	}

	svc.Engine().FlushAll()
	history := svc.Engine().FeedingHistory(0)
	if len(history) != 1 {
		t.Fatalf("expected 1 record, got %d", len(history))
	}
}

func TestFeedFallsBackToLexicon(t *testing.T) {
	svc := newTestService(t, &stubAnalyzer{err: errors.New("backend down")})

	pet, rec, err := svc.Feed(context.Background(), "happy friend")
	if err != nil {
		t.Fatal(err)
	}
	if rec.EmotionAnalysis.Joy != 0.1 {
		t.Errorf("expected lexicon joy 0.1, got %v", rec.EmotionAnalysis.Joy)
	}
	if rec.EmotionAnalysis.Trust != 0.1 {
		t.Errorf("expected lexicon trust 0.1, got %v", rec.EmotionAnalysis.Trust)
	}
	if pet.FeedingCount != 1 {
		t.Errorf("feeding still counts when the backend is down, got %d", pet.FeedingCount)
	}
}

func TestLexiconScore(t *testing.T) {
	v := lexiconScore([]string{"happy", "sad", "unknown"})
	if v.Joy != 0.1 || v.Sadness != 0.1 {
		t.Errorf("unexpected lexicon score: %+v", v)
	}

	// No hits, but a non-empty feeding still registers a little joy.
	v = lexiconScore([]string{"zebra", "quartz"})
	if v.Joy != 0.05 {
		t.Errorf("expected baseline joy 0.05, got %v", v.Joy)
	}

	v = lexiconScore(nil)
	if v.Joy != 0 {
		t.Errorf("expected zero vector for empty feeding, got %+v", v)
	}
}

func TestFeedNormalizesHTML(t *testing.T) {
	svc := newTestService(t, nil)

	_, rec, err := svc.Feed(context.Background(), "<p>Hello <b>world</b></p>")
	if err != nil {
		t.Fatal(err)
	}
	for _, w := range rec.Words {
		if w == "p" || w == "b" {
			t.Errorf("tag name leaked into words: %v", rec.Words)
		}
	}
}

func TestApplyDecay(t *testing.T) {
	svc := newTestService(t, &stubAnalyzer{vector: types.EmotionVector{Joy: 0.8}})

	if _, _, err := svc.Feed(context.Background(), "food"); err != nil {
		t.Fatal(err)
	}

	svc.ApplyDecay(0.5)
	svc.Engine().FlushAll()

	pet := svc.Engine().LoadPet()
	if pet == nil {
		t.Fatal("expected pet")
	}
	if pet.EmotionVector.Joy != 0.4 {
		t.Errorf("expected joy 0.4 after 0.5 decay, got %v", pet.EmotionVector.Joy)
	}
}

func TestApplyDecayNoPet(t *testing.T) {
	svc := newTestService(t, nil)
	// Must not create a pet as a side effect.
	svc.ApplyDecay(0.9)
	svc.Engine().FlushAll()
	if svc.Engine().LoadPet() != nil {
		t.Error("decay must not mint a pet")
	}
}

func TestNewDecayScheduler(t *testing.T) {
	svc := newTestService(t, nil)

	sched, err := NewDecayScheduler(svc, "0 * * * *", 0.98)
	if err != nil {
		t.Fatal(err)
	}
	sched.Start()
	sched.Stop()

	if _, err := NewDecayScheduler(svc, "not a schedule", 0.98); err == nil {
		t.Error("expected error for invalid cron expression")
	}
}
