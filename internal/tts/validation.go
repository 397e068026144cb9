package tts

import (
	"fmt"
	"math"
	"unicode/utf16"
)

// TextLength returns the length of s in UTF-16 code units, which is how
// the provider counts its 5000 character limit.
func TextLength(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// ValidateText checks that text is non-empty and within MaxTextLength.
func ValidateText(text string) error {
	n := TextLength(text)
	if n == 0 {
		return NewTTSError(ErrorCodeValidation, MsgTextEmpty, nil)
	}
	if n > MaxTextLength {
		return NewTTSError(ErrorCodeValidation, MsgTextTooLong,
			fmt.Errorf("text is %d characters, limit is %d", n, MaxTextLength))
	}
	return nil
}

// Validate checks every precondition of a synthesis request.
func (p SynthesisParameters) Validate() error {
	if err := ValidateText(p.Text); err != nil {
		return err
	}
	if p.VoiceName == "" {
		return NewTTSError(ErrorCodeValidation, MsgNoVoiceSelected, ErrNoVoiceSelected)
	}
	if !inRange(p.Pitch, MinPitch, MaxPitch) {
		return NewTTSError(ErrorCodeValidation, "Pitch is out of range.",
			fmt.Errorf("pitch must be between %.1f and %.1f, got %f", MinPitch, MaxPitch, p.Pitch))
	}
	if !inRange(p.SpeakingRate, MinSpeakingRate, MaxSpeakingRate) {
		return NewTTSError(ErrorCodeValidation, "Speaking rate is out of range.",
			fmt.Errorf("speaking rate must be between %.2f and %.1f, got %f", MinSpeakingRate, MaxSpeakingRate, p.SpeakingRate))
	}
	if !inRange(p.VolumeGainDb, MinVolumeGainDb, MaxVolumeGainDb) {
		return NewTTSError(ErrorCodeValidation, "Volume gain is out of range.",
			fmt.Errorf("volume gain must be between %.1f and %.1f, got %f", MinVolumeGainDb, MaxVolumeGainDb, p.VolumeGainDb))
	}
	if !p.EffectsProfile.Valid() {
		return NewTTSError(ErrorCodeValidation, "Unknown audio effect.",
			fmt.Errorf("%w: %q", ErrInvalidEffectsProfile, p.EffectsProfile))
	}
	return nil
}

// inRange reports whether lo <= v <= hi. NaN is never in range.
func inRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

// Clamp limits v to [lo, hi] and rounds it to two decimal places so that
// repeated slider steps do not accumulate floating point noise. NaN clamps
// to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	v = math.Round(v*100) / 100
	return math.Max(lo, math.Min(hi, v))
}

// ClampPitch limits a pitch value to the accepted range.
func ClampPitch(v float64) float64 { return Clamp(v, MinPitch, MaxPitch) }

// ClampSpeakingRate limits a speaking rate to the accepted range.
func ClampSpeakingRate(v float64) float64 { return Clamp(v, MinSpeakingRate, MaxSpeakingRate) }

// ClampVolumeGain limits a volume gain to the accepted range.
func ClampVolumeGain(v float64) float64 { return Clamp(v, MinVolumeGainDb, MaxVolumeGainDb) }

// ParseEffectsProfile accepts either the provider identifier or the short
// name returned by EffectsProfile.String.
func ParseEffectsProfile(s string) (EffectsProfile, error) {
	for _, p := range EffectsProfiles {
		if s == string(p) || s == p.String() {
			return p, nil
		}
	}
	return EffectsNone, fmt.Errorf("%w: %q", ErrInvalidEffectsProfile, s)
}
