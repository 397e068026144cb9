package google

import "github.com/dgnsrekt/cloudspeak/internal/tts"

type listVoicesResponse struct {
	Voices []wireVoice `json:"voices"`
}

type wireVoice struct {
	Name                   string   `json:"name"`
	LanguageCodes          []string `json:"languageCodes"`
	SSMLGender             string   `json:"ssmlGender,omitempty"`
	NaturalSampleRateHertz int      `json:"naturalSampleRateHertz,omitempty"`
}

type synthRequest struct {
	Input       synthInput       `json:"input"`
	Voice       synthVoice       `json:"voice"`
	AudioConfig synthAudioConfig `json:"audioConfig"`
}

type synthInput struct {
	Text string `json:"text"`
}

type synthVoice struct {
	LanguageCode string `json:"languageCode"`
	Name         string `json:"name"`
}

type synthAudioConfig struct {
	AudioEncoding    string   `json:"audioEncoding"`
	Pitch            float64  `json:"pitch"`
	SpeakingRate     float64  `json:"speakingRate"`
	VolumeGainDb     float64  `json:"volumeGainDb"`
	EffectsProfileID []string `json:"effectsProfileId"`
}

type synthResponse struct {
	AudioContent string `json:"audioContent"` // base64-encoded
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (w wireVoice) toVoice() tts.Voice {
	return tts.Voice{
		Name:                   w.Name,
		LanguageCodes:          w.LanguageCodes,
		SSMLGender:             w.SSMLGender,
		NaturalSampleRateHertz: w.NaturalSampleRateHertz,
	}
}

func newSynthRequest(req tts.SynthesisRequest) synthRequest {
	effects := req.AudioConfig.EffectsProfileID
	if effects == nil {
		effects = []string{}
	}
	return synthRequest{
		Input: synthInput{Text: req.Text},
		Voice: synthVoice{
			LanguageCode: req.LanguageCode,
			Name:         req.VoiceName,
		},
		AudioConfig: synthAudioConfig{
			AudioEncoding:    req.AudioConfig.AudioEncoding,
			Pitch:            req.AudioConfig.Pitch,
			SpeakingRate:     req.AudioConfig.SpeakingRate,
			VolumeGainDb:     req.AudioConfig.VolumeGainDb,
			EffectsProfileID: effects,
		},
	}
}
