package tts

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// APIKeyEnvFallbacks are consulted, in order, when no api key is configured.
var APIKeyEnvFallbacks = []string{"CLOUDSPEAK_API_KEY", "GOOGLE_API_KEY"}

// LoadConfigFromViper loads configuration from v, falling back to defaults
// for every key that is not set.
func LoadConfigFromViper(v *viper.Viper) (Config, error) {
	cfg := DefaultConfig()

	if v.IsSet("output_dir") {
		cfg.OutputDir = v.GetString("output_dir")
	}
	if v.IsSet("debug") {
		cfg.Debug = v.GetBool("debug")
	}

	google, err := loadGoogleConfig(v)
	if err != nil {
		return cfg, err
	}
	cfg.Google = google
	cfg.Audio = loadPlaybackConfig(v)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func loadGoogleConfig(v *viper.Viper) (GoogleConfig, error) {
	cfg := DefaultGoogleConfig()

	if v.IsSet("google.api_key") {
		cfg.APIKey = v.GetString("google.api_key")
	}
	cfg.APIKey = resolveAPIKey(cfg.APIKey)

	if v.IsSet("google.endpoint") {
		cfg.Endpoint = strings.TrimRight(v.GetString("google.endpoint"), "/")
	}
	if v.IsSet("google.language_code") {
		cfg.LanguageCode = v.GetString("google.language_code")
	}
	if v.IsSet("google.voice_name") {
		cfg.VoiceName = v.GetString("google.voice_name")
	}
	if v.IsSet("google.speaking_rate") {
		cfg.SpeakingRate = v.GetFloat64("google.speaking_rate")
	}
	if v.IsSet("google.pitch") {
		cfg.Pitch = v.GetFloat64("google.pitch")
	}
	if v.IsSet("google.volume_gain") {
		cfg.VolumeGain = v.GetFloat64("google.volume_gain")
	}
	if v.IsSet("google.effects_profile") {
		cfg.EffectsProfile = v.GetString("google.effects_profile")
	}
	if v.IsSet("google.timeout") {
		d, err := time.ParseDuration(v.GetString("google.timeout"))
		if err != nil {
			return cfg, fmt.Errorf("google.timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if v.IsSet("google.requests_per_minute") {
		cfg.RequestsPerMinute = v.GetInt("google.requests_per_minute")
	}

	return cfg, nil
}

func loadPlaybackConfig(v *viper.Viper) PlaybackConfig {
	cfg := DefaultConfig().Audio

	if v.IsSet("audio.enabled") {
		cfg.Enabled = v.GetBool("audio.enabled")
	}
	if v.IsSet("audio.sample_rate") {
		cfg.SampleRate = v.GetInt("audio.sample_rate")
	}
	if v.IsSet("audio.volume") {
		cfg.Volume = v.GetFloat64("audio.volume")
	}

	return cfg
}

// resolveAPIKey expands a "${VAR_NAME}" reference and falls back to the
// well-known environment variables when the key is still empty.
func resolveAPIKey(key string) string {
	key = resolveEnvRef(key)
	if key != "" && !strings.HasPrefix(key, "${") {
		return key
	}
	for _, name := range APIKeyEnvFallbacks {
		if val := os.Getenv(name); val != "" {
			return val
		}
	}
	return ""
}

// resolveEnvRef replaces "${VAR_NAME}" patterns with the corresponding env var value.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		envKey := val[2 : len(val)-1]
		if envVal := os.Getenv(envKey); envVal != "" {
			return envVal
		}
	}
	return val
}

// SetDefaults sets default values in v for every configuration key.
func SetDefaults(v *viper.Viper) {
	defaults := DefaultConfig()

	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("debug", defaults.Debug)

	v.SetDefault("google.endpoint", defaults.Google.Endpoint)
	v.SetDefault("google.language_code", defaults.Google.LanguageCode)
	v.SetDefault("google.voice_name", defaults.Google.VoiceName)
	v.SetDefault("google.speaking_rate", defaults.Google.SpeakingRate)
	v.SetDefault("google.pitch", defaults.Google.Pitch)
	v.SetDefault("google.volume_gain", defaults.Google.VolumeGain)
	v.SetDefault("google.effects_profile", defaults.Google.EffectsProfile)
	v.SetDefault("google.timeout", defaults.Google.Timeout.String())
	v.SetDefault("google.requests_per_minute", defaults.Google.RequestsPerMinute)

	v.SetDefault("audio.enabled", defaults.Audio.Enabled)
	v.SetDefault("audio.sample_rate", defaults.Audio.SampleRate)
	v.SetDefault("audio.volume", defaults.Audio.Volume)
}
