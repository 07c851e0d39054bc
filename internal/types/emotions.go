// internal/types/emotions.go
package types

import "math"

// EmotionNames lists the seven tracked emotions in canonical order.
var EmotionNames = []string{"joy", "anger", "sadness", "fear", "surprise", "disgust", "trust"}

// EmotionVector is the seven-dimensional accumulated emotional state.
// Each value is clamped to [0,1]. LastUpdated is milliseconds since epoch.
type EmotionVector struct {
	Joy         float64 `json:"joy"`
	Anger       float64 `json:"anger"`
	Sadness     float64 `json:"sadness"`
	Fear        float64 `json:"fear"`
	Surprise    float64 `json:"surprise"`
	Disgust     float64 `json:"disgust"`
	Trust       float64 `json:"trust"`
	LastUpdated int64   `json:"lastUpdated"`
}

// clamp01 bounds v to [0,1], rounding to six decimals so repeated
// accumulation drift never leaks into stored state.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return math.Round(v*1e6) / 1e6
}

// Clamp forces every emotion value into [0,1].
func (e *EmotionVector) Clamp() {
	e.Joy = clamp01(e.Joy)
	e.Anger = clamp01(e.Anger)
	e.Sadness = clamp01(e.Sadness)
	e.Fear = clamp01(e.Fear)
	e.Surprise = clamp01(e.Surprise)
	e.Disgust = clamp01(e.Disgust)
	e.Trust = clamp01(e.Trust)
}

// Merge adds the delta vector into e, clamping each result to [0,1].
// LastUpdated is taken from the delta when set.
func (e *EmotionVector) Merge(delta EmotionVector) {
	e.Joy += delta.Joy
	e.Anger += delta.Anger
	e.Sadness += delta.Sadness
	e.Fear += delta.Fear
	e.Surprise += delta.Surprise
	e.Disgust += delta.Disgust
	e.Trust += delta.Trust
	e.Clamp()
	if delta.LastUpdated != 0 {
		e.LastUpdated = delta.LastUpdated
	}
}

// Scale multiplies every emotion value by factor (used for decay).
func (e *EmotionVector) Scale(factor float64) {
	e.Joy *= factor
	e.Anger *= factor
	e.Sadness *= factor
	e.Fear *= factor
	e.Surprise *= factor
	e.Disgust *= factor
	e.Trust *= factor
	e.Clamp()
}

// Values returns the emotion values in the same order as EmotionNames.
func (e EmotionVector) Values() []float64 {
	return []float64{e.Joy, e.Anger, e.Sadness, e.Fear, e.Surprise, e.Disgust, e.Trust}
}

// Dominant returns the name of the strongest emotion. Ties resolve to the
// earlier name in canonical order. An all-zero vector reports "joy".
func (e EmotionVector) Dominant() string {
	values := e.Values()
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return EmotionNames[best]
}
