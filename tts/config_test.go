package tts_test

import (
	"testing"
	"time"

	"github.com/dgnsrekt/readaloud/tts"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := tts.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*tts.Config)
		wantErr bool
	}{
		{
			name:   "engine case insensitive",
			mutate: func(c *tts.Config) { c.Engine = "ESPEAK" },
		},
		{
			name:   "mock engine",
			mutate: func(c *tts.Config) { c.Engine = "mock" },
		},
		{
			name:    "unknown engine",
			mutate:  func(c *tts.Config) { c.Engine = "festival" },
			wantErr: true,
		},
		{
			name:    "empty rates",
			mutate:  func(c *tts.Config) { c.Rates = nil },
			wantErr: true,
		},
		{
			name:    "rates not increasing",
			mutate:  func(c *tts.Config) { c.Rates = []float64{1.0, 1.0} },
			wantErr: true,
		},
		{
			name:    "rate out of range",
			mutate:  func(c *tts.Config) { c.Rates = []float64{1.0, 5.0} },
			wantErr: true,
		},
		{
			name:    "zero skip seconds",
			mutate:  func(c *tts.Config) { c.SkipSeconds = 0 },
			wantErr: true,
		},
		{
			name:    "checkpoint interval too short",
			mutate:  func(c *tts.Config) { c.CheckpointInterval = 100 * time.Millisecond },
			wantErr: true,
		},
		{
			name:    "negative fallback delay",
			mutate:  func(c *tts.Config) { c.FallbackDelay = -time.Millisecond },
			wantErr: true,
		},
		{
			name:    "base wpm too low",
			mutate:  func(c *tts.Config) { c.BaseWPM = 10 },
			wantErr: true,
		},
		{
			name:    "base wpm too high",
			mutate:  func(c *tts.Config) { c.BaseWPM = 900 },
			wantErr: true,
		},
		{
			name:    "negative local voice bonus",
			mutate:  func(c *tts.Config) { c.LocalVoiceBonus = -1 },
			wantErr: true,
		},
		{
			name:    "negative pause",
			mutate:  func(c *tts.Config) { c.Pauses.Paragraph = -time.Second },
			wantErr: true,
		},
		{
			name:    "heading pauses increase with level",
			mutate:  func(c *tts.Config) { c.Pauses.H2 = c.Pauses.H1 + time.Second },
			wantErr: true,
		},
		{
			name:    "espeak empty binary",
			mutate:  func(c *tts.Config) { c.Espeak.Binary = "" },
			wantErr: true,
		},
		{
			name:    "espeak timeout too short",
			mutate:  func(c *tts.Config) { c.Espeak.Timeout = time.Millisecond },
			wantErr: true,
		},
		{
			name: "mock failure rate out of range",
			mutate: func(c *tts.Config) {
				c.Engine = "mock"
				c.Mock.FailureRate = 1.5
			},
			wantErr: true,
		},
		{
			name: "mock config not checked for espeak engine",
			mutate: func(c *tts.Config) {
				c.Engine = "espeak"
				c.Mock.FailureRate = 1.5
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tts.DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateNormalizesEngineName(t *testing.T) {
	cfg := tts.DefaultConfig()
	cfg.Engine = "Mock"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Engine != "mock" {
		t.Errorf("engine = %q, want normalized %q", cfg.Engine, "mock")
	}
}

func TestPauseConfigFor(t *testing.T) {
	p := tts.DefaultPauseConfig()
	tests := []struct {
		typ  tts.ChunkType
		want int
	}{
		{tts.ChunkParagraph, 600},
		{tts.ChunkH1, 800},
		{tts.ChunkH2, 650},
		{tts.ChunkH3, 500},
		{tts.ChunkH4, 400},
		{tts.ChunkListItem, 250},
		{tts.ChunkBlockquote, 600},
		{tts.ChunkNewline, 150},
	}
	for _, tt := range tests {
		if got := p.For(tt.typ); got != tt.want {
			t.Errorf("For(%v) = %d, want %d", tt.typ, got, tt.want)
		}
	}
}
