package tts

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/language"
)

// VoiceSelector filters, scores and orders the voices an engine offers.
// Availability is asynchronous: Refresh runs once per content load, either
// with the synchronously available list or when the engine's voices-changed
// notification fires.
type VoiceSelector struct {
	allowed    []language.Tag
	excluded   []string
	preferred  []string
	localBonus float64

	candidates []Voice
	refreshed  bool
}

// NewVoiceSelector creates a selector from configuration.
func NewVoiceSelector(cfg Config) *VoiceSelector {
	s := &VoiceSelector{
		localBonus: cfg.LocalVoiceBonus,
	}
	for _, raw := range cfg.AllowedLanguages {
		if tag, err := language.Parse(normalizeTag(raw)); err == nil {
			s.allowed = append(s.allowed, tag)
		}
	}
	for _, e := range cfg.ExcludedVoices {
		s.excluded = append(s.excluded, strings.ToLower(e))
	}
	s.preferred = append(s.preferred, cfg.PreferredVoices...)
	return s
}

// normalizeTag canonicalizes a language tag for comparison: case-insensitive
// with separators folded to hyphens.
func normalizeTag(raw string) string {
	return strings.ReplaceAll(strings.TrimSpace(raw), "_", "-")
}

// Refresh rebuilds the candidate list from all available voices and returns
// it sorted best-first. Ties keep the engine's original ordering.
func (s *VoiceSelector) Refresh(all []Voice) []Voice {
	s.refreshed = true

	candidates := make([]Voice, 0, len(all))
	for _, v := range all {
		if !s.languageAllowed(v.Language) {
			continue
		}
		if s.nameExcluded(v.Name) {
			continue
		}
		v.Score = s.Score(v)
		candidates = append(candidates, v)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	s.candidates = candidates
	return candidates
}

// Refreshed reports whether Refresh has run for the current load.
func (s *VoiceSelector) Refreshed() bool { return s.refreshed }

// Reset clears the once-per-load refresh latch. Candidates survive so a
// reload without a fresh voice event keeps the previous list.
func (s *VoiceSelector) Reset() { s.refreshed = false }

// Candidates returns the current sorted candidate list.
func (s *VoiceSelector) Candidates() []Voice { return s.candidates }

// Score computes the ranking weight for a voice: preferred-name rank first,
// then a flat bonus for voices that run locally.
func (s *VoiceSelector) Score(v Voice) float64 {
	score := 0.0
	name := strings.ToLower(v.Name)
	for i, p := range s.preferred {
		if strings.Contains(name, strings.ToLower(p)) {
			score += float64(len(s.preferred) - i)
			break
		}
	}
	if v.Local {
		score += s.localBonus
	}
	return score
}

// Select picks the voice to use: the last explicitly chosen name when it is
// still a candidate, else the top-scored candidate, else none (engine
// default).
func (s *VoiceSelector) Select(lastChosen string) (Voice, bool) {
	if lastChosen != "" {
		for _, v := range s.candidates {
			if v.Name == lastChosen {
				return v, true
			}
		}
	}
	if len(s.candidates) > 0 {
		return s.candidates[0], true
	}
	return Voice{}, false
}

// Resolve finds a candidate by name. Exact match wins; otherwise the best
// fuzzy match is used so near-miss names from config still resolve.
func (s *VoiceSelector) Resolve(name string) (Voice, bool) {
	for _, v := range s.candidates {
		if v.Name == name {
			return v, true
		}
	}

	names := make([]string, len(s.candidates))
	for i, v := range s.candidates {
		names[i] = v.Name
	}
	matches := fuzzy.Find(name, names)
	if len(matches) > 0 {
		return s.candidates[matches[0].Index], true
	}
	return Voice{}, false
}

// languageAllowed reports whether a voice's language tag is in the allow
// list. Comparison matches the primary language and, when the allowed tag
// carries one, the region.
func (s *VoiceSelector) languageAllowed(raw string) bool {
	if len(s.allowed) == 0 {
		return true
	}
	tag, err := language.Parse(normalizeTag(raw))
	if err != nil {
		return false
	}
	base, _ := tag.Base()
	region, _ := tag.Region()
	for _, allowed := range s.allowed {
		ab, _ := allowed.Base()
		if ab != base {
			continue
		}
		ar, arConf := allowed.Region()
		// A region the parser merely inferred does not constrain the match.
		if arConf != language.Exact || ar == region {
			return true
		}
	}
	return false
}

// nameExcluded reports whether a voice name contains an excluded substring.
func (s *VoiceSelector) nameExcluded(name string) bool {
	lower := strings.ToLower(name)
	for _, e := range s.excluded {
		if strings.Contains(lower, e) {
			return true
		}
	}
	return false
}
