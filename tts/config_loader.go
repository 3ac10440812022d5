package tts

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
)

// LoadConfigFromEnv builds configuration from environment variables alone,
// for runs without a config file.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid speech configuration: %w", err)
	}
	return cfg, nil
}

// LoadConfigFromViper loads playback configuration from Viper.
func LoadConfigFromViper() (Config, error) {
	cfg := DefaultConfig()

	if viper.IsSet("speech.engine") {
		cfg.Engine = viper.GetString("speech.engine")
	}

	if viper.IsSet("speech.allowed_languages") {
		cfg.AllowedLanguages = viper.GetStringSlice("speech.allowed_languages")
	}
	if viper.IsSet("speech.excluded_voices") {
		cfg.ExcludedVoices = viper.GetStringSlice("speech.excluded_voices")
	}
	if viper.IsSet("speech.preferred_voices") {
		cfg.PreferredVoices = viper.GetStringSlice("speech.preferred_voices")
	}
	if viper.IsSet("speech.local_voice_bonus") {
		cfg.LocalVoiceBonus = viper.GetFloat64("speech.local_voice_bonus")
	}

	if viper.IsSet("speech.rates") {
		raw := viper.GetStringSlice("speech.rates")
		rates := make([]float64, 0, len(raw))
		for _, s := range raw {
			var r float64
			if _, err := fmt.Sscanf(s, "%f", &r); err != nil {
				return cfg, fmt.Errorf("invalid rate %q: %w", s, err)
			}
			rates = append(rates, r)
		}
		cfg.Rates = rates
	}
	if viper.IsSet("speech.skip_seconds") {
		cfg.SkipSeconds = viper.GetInt("speech.skip_seconds")
	}
	if viper.IsSet("speech.checkpoint_interval") {
		if d, err := time.ParseDuration(viper.GetString("speech.checkpoint_interval")); err == nil {
			cfg.CheckpointInterval = d
		}
	}
	if viper.IsSet("speech.fallback_delay") {
		if d, err := time.ParseDuration(viper.GetString("speech.fallback_delay")); err == nil {
			cfg.FallbackDelay = d
		}
	}
	if viper.IsSet("speech.base_wpm") {
		cfg.BaseWPM = viper.GetInt("speech.base_wpm")
	}

	cfg.Pauses = loadPauseConfig()
	cfg.Espeak = loadEspeakConfig()
	cfg.Mock = loadMockConfig()

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid speech configuration: %w", err)
	}

	return cfg, nil
}

// loadPauseConfig loads the pause profile from Viper.
func loadPauseConfig() PauseConfig {
	cfg := DefaultPauseConfig()

	set := func(key string, dst *time.Duration) {
		if viper.IsSet("speech.pauses." + key) {
			if d, err := time.ParseDuration(viper.GetString("speech.pauses." + key)); err == nil {
				*dst = d
			}
		}
	}
	set("paragraph", &cfg.Paragraph)
	set("h1", &cfg.H1)
	set("h2", &cfg.H2)
	set("h3", &cfg.H3)
	set("h4", &cfg.H4)
	set("list_item", &cfg.ListItem)
	set("blockquote", &cfg.Blockquote)
	set("newline", &cfg.Newline)

	return cfg
}

// loadEspeakConfig loads subprocess engine configuration from Viper.
func loadEspeakConfig() EspeakConfig {
	cfg := DefaultEspeakConfig()

	if viper.IsSet("speech.espeak.binary") {
		cfg.Binary = viper.GetString("speech.espeak.binary")
	}
	if viper.IsSet("speech.espeak.base_wpm") {
		cfg.BaseWPM = viper.GetInt("speech.espeak.base_wpm")
	}
	if viper.IsSet("speech.espeak.timeout") {
		if d, err := time.ParseDuration(viper.GetString("speech.espeak.timeout")); err == nil {
			cfg.Timeout = d
		}
	}

	return cfg
}

// loadMockConfig loads mock engine configuration from Viper.
func loadMockConfig() MockConfig {
	cfg := DefaultMockConfig()

	if viper.IsSet("speech.mock.speak_delay") {
		if d, err := time.ParseDuration(viper.GetString("speech.mock.speak_delay")); err == nil {
			cfg.SpeakDelay = d
		}
	}
	if viper.IsSet("speech.mock.failure_rate") {
		cfg.FailureRate = viper.GetFloat64("speech.mock.failure_rate")
	}

	return cfg
}

// SetDefaults sets default values in Viper for speech configuration.
func SetDefaults() {
	defaults := DefaultConfig()

	viper.SetDefault("speech.engine", defaults.Engine)
	viper.SetDefault("speech.allowed_languages", defaults.AllowedLanguages)
	viper.SetDefault("speech.local_voice_bonus", defaults.LocalVoiceBonus)
	viper.SetDefault("speech.skip_seconds", defaults.SkipSeconds)
	viper.SetDefault("speech.checkpoint_interval", defaults.CheckpointInterval.String())
	viper.SetDefault("speech.fallback_delay", defaults.FallbackDelay.String())
	viper.SetDefault("speech.base_wpm", defaults.BaseWPM)

	viper.SetDefault("speech.pauses.paragraph", defaults.Pauses.Paragraph.String())
	viper.SetDefault("speech.pauses.h1", defaults.Pauses.H1.String())
	viper.SetDefault("speech.pauses.h2", defaults.Pauses.H2.String())
	viper.SetDefault("speech.pauses.h3", defaults.Pauses.H3.String())
	viper.SetDefault("speech.pauses.h4", defaults.Pauses.H4.String())
	viper.SetDefault("speech.pauses.list_item", defaults.Pauses.ListItem.String())
	viper.SetDefault("speech.pauses.blockquote", defaults.Pauses.Blockquote.String())
	viper.SetDefault("speech.pauses.newline", defaults.Pauses.Newline.String())

	viper.SetDefault("speech.espeak.binary", defaults.Espeak.Binary)
	viper.SetDefault("speech.espeak.base_wpm", defaults.Espeak.BaseWPM)
	viper.SetDefault("speech.espeak.timeout", defaults.Espeak.Timeout.String())

	viper.SetDefault("speech.mock.speak_delay", defaults.Mock.SpeakDelay.String())
	viper.SetDefault("speech.mock.failure_rate", defaults.Mock.FailureRate)
}
