package tts

import (
	"slices"
	"time"
)

// Parameter ranges accepted by the synthesis endpoint.
const (
	// MaxTextLength is the maximum text length in UTF-16 code units.
	MaxTextLength = 5000

	MinPitch = -20.0
	MaxPitch = 20.0

	MinSpeakingRate = 0.25
	MaxSpeakingRate = 4.0

	MinVolumeGainDb = -96.0
	MaxVolumeGainDb = 16.0

	// DefaultStep is the increment used by the slider controls.
	DefaultStep = 0.1
)

// AudioEncodingMP3 is the only encoding requested from the provider.
const AudioEncodingMP3 = "MP3"

// Voice is a provider-defined synthesis identity. A voice may serve more
// than one language.
type Voice struct {
	Name          string
	LanguageCodes []string

	// Optional provider metadata, carried through for display.
	SSMLGender             string
	NaturalSampleRateHertz int
}

// Supports reports whether the voice serves the given language tag.
func (v Voice) Supports(tag string) bool {
	return slices.Contains(v.LanguageCodes, tag)
}

// PrimaryLanguage returns the first language tag of the voice, or "".
func (v Voice) PrimaryLanguage() string {
	if len(v.LanguageCodes) == 0 {
		return ""
	}
	return v.LanguageCodes[0]
}

// Label renders the voice the way selectors show it: "name (first-tag)".
func (v Voice) Label() string {
	if lang := v.PrimaryLanguage(); lang != "" {
		return v.Name + " (" + lang + ")"
	}
	return v.Name
}

// EffectsProfile is an audio post-processing hint understood by the
// provider. The zero value means no effect.
type EffectsProfile string

const (
	EffectsNone      EffectsProfile = ""
	EffectsTelephony EffectsProfile = "telephony-class-application"
	EffectsHandset   EffectsProfile = "handset-class-device"
	EffectsWearable  EffectsProfile = "wearable-class-device"
)

// EffectsProfiles lists every selectable profile, starting with "none".
var EffectsProfiles = []EffectsProfile{
	EffectsNone,
	EffectsTelephony,
	EffectsHandset,
	EffectsWearable,
}

// Valid reports whether p is one of the known profiles.
func (p EffectsProfile) Valid() bool {
	return slices.Contains(EffectsProfiles, p)
}

// String returns a human-readable name for the profile.
func (p EffectsProfile) String() string {
	switch p {
	case EffectsNone:
		return "none"
	case EffectsTelephony:
		return "telephone"
	case EffectsHandset:
		return "handset"
	case EffectsWearable:
		return "wearable"
	default:
		return string(p)
	}
}

// SynthesisParameters is the full set of values sent with one synthesis
// request. It is built fresh per request.
type SynthesisParameters struct {
	Text           string
	LanguageCode   string
	VoiceName      string
	Pitch          float64
	SpeakingRate   float64
	VolumeGainDb   float64
	EffectsProfile EffectsProfile
}

// DefaultParameters returns neutral audio tuning with no text or voice.
func DefaultParameters() SynthesisParameters {
	return SynthesisParameters{
		Pitch:        0,
		SpeakingRate: 1.0,
		VolumeGainDb: 0,
	}
}

// AudioResult is the decoded audio of one successful synthesis.
type AudioResult struct {
	Data         []byte
	Encoding     string
	ContentType  string
	VoiceName    string
	LanguageCode string
	CreatedAt    time.Time
}

// Size returns the size of the encoded audio in bytes.
func (a *AudioResult) Size() int {
	if a == nil {
		return 0
	}
	return len(a.Data)
}
