package tts

import (
	"fmt"
	"net/url"
	"slices"
	"time"
)

// DefaultEndpoint is the base URL of the Cloud Text-to-Speech REST API.
const DefaultEndpoint = "https://texttospeech.googleapis.com/v1"

// Config contains all cloudspeak configuration options.
type Config struct {
	Google GoogleConfig   `yaml:"google"`
	Audio  PlaybackConfig `yaml:"audio"`

	// OutputDir is where saved MP3 files go when no path is given.
	OutputDir string `yaml:"output_dir"`
	Debug     bool   `yaml:"debug"`
}

// GoogleConfig contains the provider credential and the synthesis defaults.
type GoogleConfig struct {
	APIKey            string        `yaml:"api_key"`
	Endpoint          string        `yaml:"endpoint"`
	LanguageCode      string        `yaml:"language_code"`
	VoiceName         string        `yaml:"voice_name"`
	SpeakingRate      float64       `yaml:"speaking_rate"`
	Pitch             float64       `yaml:"pitch"`
	VolumeGain        float64       `yaml:"volume_gain"`
	EffectsProfile    string        `yaml:"effects_profile"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
}

// PlaybackConfig contains local audio output settings.
type PlaybackConfig struct {
	Enabled    bool    `yaml:"enabled"`
	SampleRate int     `yaml:"sample_rate"`
	Volume     float64 `yaml:"volume"`
}

// oto plays reliably only at these rates
var validSampleRates = []int{44100, 48000}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Google: DefaultGoogleConfig(),
		Audio: PlaybackConfig{
			Enabled:    true,
			SampleRate: 44100,
			Volume:     1.0,
		},
		OutputDir: ".",
	}
}

// DefaultGoogleConfig returns default provider configuration.
func DefaultGoogleConfig() GoogleConfig {
	return GoogleConfig{
		Endpoint:          DefaultEndpoint,
		LanguageCode:      "en-US",
		SpeakingRate:      1.0,
		Timeout:           10 * time.Second,
		RequestsPerMinute: 60,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := c.Google.Validate(); err != nil {
		return fmt.Errorf("google config: %w", err)
	}
	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("audio config: %w", err)
	}
	return nil
}

// Validate checks if the provider configuration is valid. A missing API key
// is not an error here; commands that talk to the provider check for it.
func (c *GoogleConfig) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("endpoint must be an absolute http(s) URL, got %q", c.Endpoint)
	}

	if !inRange(c.SpeakingRate, MinSpeakingRate, MaxSpeakingRate) {
		return fmt.Errorf("speaking_rate must be between %.2f and %.1f, got %f",
			MinSpeakingRate, MaxSpeakingRate, c.SpeakingRate)
	}

	if !inRange(c.Pitch, MinPitch, MaxPitch) {
		return fmt.Errorf("pitch must be between %.1f and %.1f, got %f", MinPitch, MaxPitch, c.Pitch)
	}

	if !inRange(c.VolumeGain, MinVolumeGainDb, MaxVolumeGainDb) {
		return fmt.Errorf("volume_gain must be between %.1f and %.1f, got %f",
			MinVolumeGainDb, MaxVolumeGainDb, c.VolumeGain)
	}

	if _, err := ParseEffectsProfile(c.EffectsProfile); err != nil {
		return err
	}

	if c.Timeout < time.Second {
		return fmt.Errorf("timeout must be at least 1 second, got %v", c.Timeout)
	}

	if c.RequestsPerMinute < 0 {
		return fmt.Errorf("requests_per_minute must not be negative, got %d", c.RequestsPerMinute)
	}

	return nil
}

// Validate checks if the playback configuration is valid.
func (c *PlaybackConfig) Validate() error {
	if !slices.Contains(validSampleRates, c.SampleRate) {
		return fmt.Errorf("invalid sample rate %d: must be one of %v", c.SampleRate, validSampleRates)
	}
	if c.Volume < 0.0 || c.Volume > 1.0 {
		return fmt.Errorf("volume must be between 0.0 and 1.0, got %f", c.Volume)
	}
	return nil
}

// ToControllerConfig converts the configured defaults into the starting
// state of a controller.
func (c *Config) ToControllerConfig() ControllerConfig {
	effects, _ := ParseEffectsProfile(c.Google.EffectsProfile)
	return ControllerConfig{
		PreferredLanguage: c.Google.LanguageCode,
		PreferredVoice:    c.Google.VoiceName,
		Pitch:             c.Google.Pitch,
		SpeakingRate:      c.Google.SpeakingRate,
		VolumeGainDb:      c.Google.VolumeGain,
		EffectsProfile:    effects,
	}
}
