package tts

import (
	"math"
	"strings"
)

// DefaultBaseWPM approximates natural synthesis cadence at rate 1.0.
const DefaultBaseWPM = 150

// Estimate computes the estimated speaking duration in whole seconds for the
// chunk sequence at the given rate. Inter-chunk pauses are counted at face
// value; only speaking time scales with rate. Returns at least 1 when any
// chunk contains a word, 0 otherwise.
func Estimate(chunks []Chunk, rate float64, baseWPM int) int {
	if baseWPM <= 0 {
		baseWPM = DefaultBaseWPM
	}
	if rate <= 0 {
		rate = 1.0
	}

	var totalMs float64
	hasWords := false
	for _, c := range chunks {
		words := len(strings.Fields(c.Text))
		if words > 0 {
			hasWords = true
		}
		speakSec := float64(words) / (float64(baseWPM) * rate) * 60.0
		totalMs += speakSec*1000 + float64(c.PauseAfter)
	}

	sec := int(math.Round(totalMs / 1000))
	if hasWords && sec < 1 {
		return 1
	}
	return sec
}
