package tts

import (
	"fmt"
	"strings"
	"time"
)

// Config contains all playback configuration options.
type Config struct {
	// Engine selection
	Engine string `yaml:"engine" env:"READALOUD_ENGINE" envDefault:"espeak"`

	// Voice selection
	AllowedLanguages []string `yaml:"allowed_languages" env:"READALOUD_ALLOWED_LANGUAGES" envSeparator:","`
	ExcludedVoices   []string `yaml:"excluded_voices" env:"READALOUD_EXCLUDED_VOICES" envSeparator:","`
	PreferredVoices  []string `yaml:"preferred_voices" env:"READALOUD_PREFERRED_VOICES" envSeparator:","`
	LocalVoiceBonus  float64  `yaml:"local_voice_bonus" env:"READALOUD_LOCAL_VOICE_BONUS" envDefault:"0.5"`

	// Playback settings
	Rates              []float64     `yaml:"rates" env:"READALOUD_RATES" envSeparator:","`
	SkipSeconds        int           `yaml:"skip_seconds" env:"READALOUD_SKIP_SECONDS" envDefault:"15"`
	CheckpointInterval time.Duration `yaml:"checkpoint_interval" env:"READALOUD_CHECKPOINT_INTERVAL" envDefault:"10s"`
	FallbackDelay      time.Duration `yaml:"fallback_delay" env:"READALOUD_FALLBACK_DELAY" envDefault:"250ms"`
	BaseWPM            int           `yaml:"base_wpm" env:"READALOUD_BASE_WPM" envDefault:"150"`

	// Pause profile
	Pauses PauseConfig `yaml:"pauses"`

	// Engine-specific configurations
	Espeak EspeakConfig `yaml:"espeak"`
	Mock   MockConfig   `yaml:"mock"`
}

// PauseConfig holds the silence inserted after each chunk type.
type PauseConfig struct {
	Paragraph  time.Duration `yaml:"paragraph" env:"READALOUD_PAUSE_PARAGRAPH" envDefault:"600ms"`
	H1         time.Duration `yaml:"h1" env:"READALOUD_PAUSE_H1" envDefault:"800ms"`
	H2         time.Duration `yaml:"h2" env:"READALOUD_PAUSE_H2" envDefault:"650ms"`
	H3         time.Duration `yaml:"h3" env:"READALOUD_PAUSE_H3" envDefault:"500ms"`
	H4         time.Duration `yaml:"h4" env:"READALOUD_PAUSE_H4" envDefault:"400ms"`
	ListItem   time.Duration `yaml:"list_item" env:"READALOUD_PAUSE_LIST_ITEM" envDefault:"250ms"`
	Blockquote time.Duration `yaml:"blockquote" env:"READALOUD_PAUSE_BLOCKQUOTE" envDefault:"600ms"`
	Newline    time.Duration `yaml:"newline" env:"READALOUD_PAUSE_NEWLINE" envDefault:"150ms"`
}

// For returns the pause for a chunk type, in milliseconds.
func (p PauseConfig) For(t ChunkType) int {
	var d time.Duration
	switch t {
	case ChunkH1:
		d = p.H1
	case ChunkH2:
		d = p.H2
	case ChunkH3:
		d = p.H3
	case ChunkH4:
		d = p.H4
	case ChunkListItem:
		d = p.ListItem
	case ChunkBlockquote:
		d = p.Blockquote
	case ChunkNewline:
		d = p.Newline
	default:
		d = p.Paragraph
	}
	return int(d / time.Millisecond)
}

// EspeakConfig contains subprocess engine specific settings.
type EspeakConfig struct {
	Binary  string        `yaml:"binary" env:"READALOUD_ESPEAK_BINARY" envDefault:"espeak-ng"`
	BaseWPM int           `yaml:"base_wpm" env:"READALOUD_ESPEAK_BASE_WPM" envDefault:"175"`
	Timeout time.Duration `yaml:"timeout" env:"READALOUD_ESPEAK_TIMEOUT" envDefault:"2m"`
}

// MockConfig contains mock engine settings for testing.
type MockConfig struct {
	SpeakDelay  time.Duration `yaml:"speak_delay" env:"READALOUD_MOCK_SPEAK_DELAY" envDefault:"10ms"`
	FailureRate float64       `yaml:"failure_rate" env:"READALOUD_MOCK_FAILURE_RATE" envDefault:"0.0"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Engine: "espeak",

		AllowedLanguages: []string{"en-US"},
		ExcludedVoices:   nil,
		PreferredVoices:  nil,
		LocalVoiceBonus:  0.5,

		Rates:              []float64{0.75, 1.0, 1.25, 1.5, 1.75, 2.0},
		SkipSeconds:        15,
		CheckpointInterval: 10 * time.Second,
		FallbackDelay:      250 * time.Millisecond,
		BaseWPM:            150,

		Pauses: DefaultPauseConfig(),
		Espeak: DefaultEspeakConfig(),
		Mock:   DefaultMockConfig(),
	}
}

// DefaultPauseConfig returns the default pause profile.
func DefaultPauseConfig() PauseConfig {
	return PauseConfig{
		Paragraph:  600 * time.Millisecond,
		H1:         800 * time.Millisecond,
		H2:         650 * time.Millisecond,
		H3:         500 * time.Millisecond,
		H4:         400 * time.Millisecond,
		ListItem:   250 * time.Millisecond,
		Blockquote: 600 * time.Millisecond,
		Newline:    150 * time.Millisecond,
	}
}

// DefaultEspeakConfig returns default subprocess engine configuration.
func DefaultEspeakConfig() EspeakConfig {
	return EspeakConfig{
		Binary:  "espeak-ng",
		BaseWPM: 175,
		Timeout: 2 * time.Minute,
	}
}

// DefaultMockConfig returns default mock engine configuration.
func DefaultMockConfig() MockConfig {
	return MockConfig{
		SpeakDelay:  10 * time.Millisecond,
		FailureRate: 0.0,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	validEngines := []string{"mock", "espeak"}
	engineValid := false
	for _, e := range validEngines {
		if strings.EqualFold(c.Engine, e) {
			engineValid = true
			c.Engine = strings.ToLower(c.Engine)
			break
		}
	}
	if !engineValid {
		return fmt.Errorf("invalid engine '%s': must be one of %v", c.Engine, validEngines)
	}

	if len(c.Rates) == 0 {
		return fmt.Errorf("rates cannot be empty")
	}
	for i, r := range c.Rates {
		if r <= 0 || r > 4.0 {
			return fmt.Errorf("rate %f out of range (0, 4.0]", r)
		}
		if i > 0 && r <= c.Rates[i-1] {
			return fmt.Errorf("rates must be strictly increasing, got %v", c.Rates)
		}
	}

	if c.SkipSeconds < 1 {
		return fmt.Errorf("skip_seconds must be at least 1, got %d", c.SkipSeconds)
	}

	if c.CheckpointInterval < time.Second {
		return fmt.Errorf("checkpoint_interval must be at least 1 second, got %v", c.CheckpointInterval)
	}

	if c.FallbackDelay < 0 {
		return fmt.Errorf("fallback_delay cannot be negative, got %v", c.FallbackDelay)
	}

	if c.BaseWPM < 50 || c.BaseWPM > 500 {
		return fmt.Errorf("base_wpm must be between 50 and 500, got %d", c.BaseWPM)
	}

	if c.LocalVoiceBonus < 0 {
		return fmt.Errorf("local_voice_bonus cannot be negative, got %f", c.LocalVoiceBonus)
	}

	if err := c.Pauses.Validate(); err != nil {
		return fmt.Errorf("pauses: %w", err)
	}

	switch c.Engine {
	case "espeak":
		if err := c.Espeak.Validate(); err != nil {
			return fmt.Errorf("espeak config: %w", err)
		}
	case "mock":
		if err := c.Mock.Validate(); err != nil {
			return fmt.Errorf("mock config: %w", err)
		}
	}

	return nil
}

// Validate checks if the pause profile is valid.
func (p *PauseConfig) Validate() error {
	for _, d := range []time.Duration{
		p.Paragraph, p.H1, p.H2, p.H3, p.H4, p.ListItem, p.Blockquote, p.Newline,
	} {
		if d < 0 {
			return fmt.Errorf("pause durations cannot be negative, got %v", d)
		}
	}
	if p.H1 < p.H2 || p.H2 < p.H3 || p.H3 < p.H4 {
		return fmt.Errorf("heading pauses must not increase with heading level")
	}
	return nil
}

// Validate checks if the subprocess engine configuration is valid.
func (c *EspeakConfig) Validate() error {
	if c.Binary == "" {
		return fmt.Errorf("binary path cannot be empty")
	}
	if c.BaseWPM < 50 || c.BaseWPM > 500 {
		return fmt.Errorf("base_wpm must be between 50 and 500, got %d", c.BaseWPM)
	}
	if c.Timeout < time.Second {
		return fmt.Errorf("timeout must be at least 1 second, got %v", c.Timeout)
	}
	return nil
}

// Validate checks if the mock engine configuration is valid.
func (c *MockConfig) Validate() error {
	if c.FailureRate < 0.0 || c.FailureRate > 1.0 {
		return fmt.Errorf("failure_rate must be between 0.0 and 1.0, got %f", c.FailureRate)
	}
	return nil
}
