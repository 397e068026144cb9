package tts

import "context"

// Provider is the remote speech service the catalog and the requester talk
// to. Implementations perform exactly one network round trip per call and
// never retry.
type Provider interface {
	// ListVoices returns the provider's voice catalog in provider order.
	ListVoices(ctx context.Context) ([]Voice, error)

	// Synthesize sends one synthesis request. The response carries the
	// audio still base64-encoded, exactly as the provider returned it.
	Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResponse, error)
}

// SynthesisRequest is the provider-neutral form of a synthesis call.
type SynthesisRequest struct {
	Text         string
	LanguageCode string
	VoiceName    string
	AudioConfig  AudioConfig
}

// AudioConfig holds the audio tuning block of a synthesis request.
type AudioConfig struct {
	AudioEncoding    string
	Pitch            float64
	SpeakingRate     float64
	VolumeGainDb     float64
	EffectsProfileID []string
}

// SynthesisResponse is the provider's answer to a synthesis call.
type SynthesisResponse struct {
	// AudioContent is base64-encoded audio. Empty when the provider did
	// not produce any.
	AudioContent string
}

// NewSynthesisRequest converts parameters into a request. The effects
// profile becomes a one-element list when set and an empty list otherwise.
func NewSynthesisRequest(p SynthesisParameters) SynthesisRequest {
	effects := []string{}
	if p.EffectsProfile != EffectsNone {
		effects = []string{string(p.EffectsProfile)}
	}
	return SynthesisRequest{
		Text:         p.Text,
		LanguageCode: p.LanguageCode,
		VoiceName:    p.VoiceName,
		AudioConfig: AudioConfig{
			AudioEncoding:    AudioEncodingMP3,
			Pitch:            p.Pitch,
			SpeakingRate:     p.SpeakingRate,
			VolumeGainDb:     p.VolumeGainDb,
			EffectsProfileID: effects,
		},
	}
}
