// internal/pet/lexicon.go
package pet

import "github.com/YutaTadokoro/WordGotchi/internal/types"

// Offline emotion scoring: a small word lexicon gives each feeding a
// deterministic delta so the pet still grows without the backend.

const lexiconHitWeight = 0.1

var lexicon = map[string]func(*types.EmotionVector){
	"happy":     func(e *types.EmotionVector) { e.Joy += lexiconHitWeight },
	"joy":       func(e *types.EmotionVector) { e.Joy += lexiconHitWeight },
	"love":      func(e *types.EmotionVector) { e.Joy += lexiconHitWeight; e.Trust += lexiconHitWeight },
	"fun":       func(e *types.EmotionVector) { e.Joy += lexiconHitWeight },
	"great":     func(e *types.EmotionVector) { e.Joy += lexiconHitWeight },
	"angry":     func(e *types.EmotionVector) { e.Anger += lexiconHitWeight },
	"hate":      func(e *types.EmotionVector) { e.Anger += lexiconHitWeight; e.Disgust += lexiconHitWeight },
	"furious":   func(e *types.EmotionVector) { e.Anger += lexiconHitWeight },
	"sad":       func(e *types.EmotionVector) { e.Sadness += lexiconHitWeight },
	"cry":       func(e *types.EmotionVector) { e.Sadness += lexiconHitWeight },
	"lonely":    func(e *types.EmotionVector) { e.Sadness += lexiconHitWeight; e.Fear += lexiconHitWeight },
	"afraid":    func(e *types.EmotionVector) { e.Fear += lexiconHitWeight },
	"scary":     func(e *types.EmotionVector) { e.Fear += lexiconHitWeight },
	"wow":       func(e *types.EmotionVector) { e.Surprise += lexiconHitWeight },
	"sudden":    func(e *types.EmotionVector) { e.Surprise += lexiconHitWeight },
	"gross":     func(e *types.EmotionVector) { e.Disgust += lexiconHitWeight },
	"disgusted": func(e *types.EmotionVector) { e.Disgust += lexiconHitWeight },
	"trust":     func(e *types.EmotionVector) { e.Trust += lexiconHitWeight },
	"friend":    func(e *types.EmotionVector) { e.Trust += lexiconHitWeight },
	"safe":      func(e *types.EmotionVector) { e.Trust += lexiconHitWeight },
}

// lexiconScore derives an emotion delta from the feeding's words. Words not
// in the lexicon contribute a small amount of joy so every feeding counts.
func lexiconScore(words []string) types.EmotionVector {
	var vector types.EmotionVector
	hits := 0
	for _, w := range words {
		if apply, ok := lexicon[w]; ok {
			apply(&vector)
			hits++
		}
	}
	if hits == 0 && len(words) > 0 {
		vector.Joy = lexiconHitWeight / 2
	}
	vector.Clamp()
	return vector
}
