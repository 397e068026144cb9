package tts

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/charmbracelet/log"
)

// SynthesisRequester turns validated parameters into audio. It holds no
// state between calls and never touches the voice catalog.
type SynthesisRequester struct {
	provider Provider
	now      func() time.Time
}

// NewSynthesisRequester creates a requester backed by the given provider.
func NewSynthesisRequester(p Provider) *SynthesisRequester {
	return &SynthesisRequester{provider: p, now: time.Now}
}

// ProviderError is implemented by errors that mean the provider answered
// the request but refused it, as opposed to the request never arriving.
type ProviderError interface {
	error
	ProviderRejected() bool
}

// Synthesize performs exactly one synthesis call.
//
// Parameters that violate the preconditions are rejected with
// ErrValidationRejection before any request is made. A response without
// audio, or one where the provider rejected the request, fails with
// ErrNoAudioReturned. Transport failures and undecodable payloads fail with
// ErrFetchFailure.
func (r *SynthesisRequester) Synthesize(ctx context.Context, params SynthesisParameters) (*AudioResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	start := r.now()
	resp, err := r.provider.Synthesize(ctx, NewSynthesisRequest(params))
	if err != nil {
		var pe ProviderError
		if errors.As(err, &pe) && pe.ProviderRejected() {
			return nil, NewTTSError(ErrorCodeNoAudioReturned, MsgNoAudioReturned, err)
		}
		return nil, NewTTSError(ErrorCodeFetchFailure, MsgSynthesisFailure, err)
	}

	if resp == nil || resp.AudioContent == "" {
		return nil, NewTTSError(ErrorCodeNoAudioReturned, MsgNoAudioReturned, nil)
	}

	data, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return nil, NewTTSError(ErrorCodeFetchFailure, MsgSynthesisFailure, err)
	}
	if len(data) == 0 {
		return nil, NewTTSError(ErrorCodeNoAudioReturned, MsgNoAudioReturned, nil)
	}

	log.Debug("synthesis complete",
		"voice", params.VoiceName,
		"textLength", TextLength(params.Text),
		"audioBytes", len(data),
		"elapsed", r.now().Sub(start))

	return &AudioResult{
		Data:         data,
		Encoding:     AudioEncodingMP3,
		ContentType:  "audio/mpeg",
		VoiceName:    params.VoiceName,
		LanguageCode: params.LanguageCode,
		CreatedAt:    r.now(),
	}, nil
}
