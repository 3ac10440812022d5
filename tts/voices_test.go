package tts_test

import (
	"testing"

	"github.com/dgnsrekt/readaloud/tts"
)

func selectorConfig() tts.Config {
	cfg := tts.DefaultConfig()
	cfg.AllowedLanguages = []string{"en-US"}
	cfg.ExcludedVoices = nil
	cfg.PreferredVoices = nil
	return cfg
}

func TestVoiceSelectorLanguageFilter(t *testing.T) {
	all := []tts.Voice{
		{Name: "Aria", Language: "en-US"},
		{Name: "Daniel", Language: "en-GB"},
		{Name: "Amelie", Language: "fr-FR"},
		{Name: "Underscored", Language: "en_US"},
		{Name: "Broken", Language: "???"},
	}

	s := tts.NewVoiceSelector(selectorConfig())
	got := s.Refresh(all)

	want := map[string]bool{"Aria": true, "Underscored": true}
	if len(got) != len(want) {
		t.Fatalf("Refresh() kept %d voices, want %d: %+v", len(got), len(want), got)
	}
	for _, v := range got {
		if !want[v.Name] {
			t.Errorf("voice %q should have been filtered out", v.Name)
		}
	}
}

func TestVoiceSelectorBareLanguageAllowsAnyRegion(t *testing.T) {
	cfg := selectorConfig()
	cfg.AllowedLanguages = []string{"en"}
	s := tts.NewVoiceSelector(cfg)

	got := s.Refresh([]tts.Voice{
		{Name: "Aria", Language: "en-US"},
		{Name: "Daniel", Language: "en-GB"},
		{Name: "Amelie", Language: "fr-FR"},
	})
	if len(got) != 2 {
		t.Fatalf("Refresh() kept %d voices, want 2: %+v", len(got), got)
	}
}

func TestVoiceSelectorExclusion(t *testing.T) {
	cfg := selectorConfig()
	cfg.ExcludedVoices = []string{"novelty"}
	s := tts.NewVoiceSelector(cfg)

	got := s.Refresh([]tts.Voice{
		{Name: "Aria", Language: "en-US"},
		{Name: "Novelty Bells", Language: "en-US"},
	})
	if len(got) != 1 || got[0].Name != "Aria" {
		t.Fatalf("Refresh() = %+v, want only Aria", got)
	}
}

func TestVoiceSelectorScoring(t *testing.T) {
	cfg := selectorConfig()
	cfg.PreferredVoices = []string{"aria", "samantha"}
	cfg.LocalVoiceBonus = 0.5
	s := tts.NewVoiceSelector(cfg)

	got := s.Refresh([]tts.Voice{
		{Name: "Plain", Language: "en-US"},
		{Name: "Samantha", Language: "en-US"},
		{Name: "Aria", Language: "en-US", Local: true},
	})

	// Aria: preferred rank 2 + local 0.5. Samantha: rank 1. Plain: 0.
	wantOrder := []string{"Aria", "Samantha", "Plain"}
	for i, name := range wantOrder {
		if got[i].Name != name {
			t.Fatalf("candidate %d = %q, want %q (all: %+v)", i, got[i].Name, name, got)
		}
	}
	if got[0].Score != 2.5 {
		t.Errorf("Aria score = %v, want 2.5", got[0].Score)
	}
}

func TestVoiceSelectorStableTies(t *testing.T) {
	s := tts.NewVoiceSelector(selectorConfig())
	got := s.Refresh([]tts.Voice{
		{Name: "First", Language: "en-US"},
		{Name: "Second", Language: "en-US"},
		{Name: "Third", Language: "en-US"},
	})
	for i, name := range []string{"First", "Second", "Third"} {
		if got[i].Name != name {
			t.Fatalf("tie order changed: %+v", got)
		}
	}
}

func TestVoiceSelectorSelect(t *testing.T) {
	s := tts.NewVoiceSelector(selectorConfig())

	if _, ok := s.Select("anything"); ok {
		t.Fatal("Select() with no candidates should report none")
	}

	s.Refresh([]tts.Voice{
		{Name: "Aria", Language: "en-US"},
		{Name: "Samantha", Language: "en-US"},
	})

	if v, ok := s.Select("Samantha"); !ok || v.Name != "Samantha" {
		t.Errorf("Select(last chosen) = %+v, %v; want Samantha", v, ok)
	}
	if v, ok := s.Select("Gone"); !ok || v.Name != "Aria" {
		t.Errorf("Select(missing last) = %+v, %v; want top candidate Aria", v, ok)
	}
	if v, ok := s.Select(""); !ok || v.Name != "Aria" {
		t.Errorf("Select(empty) = %+v, %v; want top candidate Aria", v, ok)
	}
}

func TestVoiceSelectorResolve(t *testing.T) {
	s := tts.NewVoiceSelector(selectorConfig())
	s.Refresh([]tts.Voice{
		{Name: "Mock Aria", Language: "en-US"},
		{Name: "Samantha", Language: "en-US"},
	})

	if v, ok := s.Resolve("Samantha"); !ok || v.Name != "Samantha" {
		t.Errorf("Resolve(exact) = %+v, %v", v, ok)
	}
	if v, ok := s.Resolve("Aria"); !ok || v.Name != "Mock Aria" {
		t.Errorf("Resolve(fuzzy) = %+v, %v; want Mock Aria", v, ok)
	}
	if _, ok := s.Resolve("zzqqxx"); ok {
		t.Error("Resolve(nonsense) should fail")
	}
}

func TestVoiceSelectorRefreshLatch(t *testing.T) {
	s := tts.NewVoiceSelector(selectorConfig())
	if s.Refreshed() {
		t.Fatal("new selector should not report refreshed")
	}
	s.Refresh([]tts.Voice{{Name: "Aria", Language: "en-US"}})
	if !s.Refreshed() {
		t.Fatal("selector should report refreshed after Refresh")
	}
	s.Reset()
	if s.Refreshed() {
		t.Fatal("Reset should clear the latch")
	}
	if len(s.Candidates()) != 1 {
		t.Fatal("Reset should keep previous candidates")
	}
}
