package tts

import (
	"context"
	"encoding/base64"
	"sync"
)

// fakeProvider is an in-memory Provider that records every call.
type fakeProvider struct {
	mu sync.Mutex

	voices  []Voice
	listErr error
	// listHook runs inside ListVoices with the 1-based call number.
	listHook  func(call int)
	listCalls int

	resp       *SynthesisResponse
	synthErr   error
	synthCalls int
	lastReq    SynthesisRequest
}

func (f *fakeProvider) ListVoices(ctx context.Context) ([]Voice, error) {
	f.mu.Lock()
	f.listCalls++
	call := f.listCalls
	voices, err, hook := f.voices, f.listErr, f.listHook
	f.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	if err != nil {
		return nil, err
	}
	return cloneVoices(voices), nil
}

func (f *fakeProvider) Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.synthCalls++
	f.lastReq = req
	if f.synthErr != nil {
		return nil, f.synthErr
	}
	return f.resp, nil
}

func (f *fakeProvider) setVoices(voices []Voice) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.voices = voices
}

func (f *fakeProvider) calls() (list, synth int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, f.synthCalls
}

// rejectedError mimics a provider answering with an error status.
type rejectedError struct{ msg string }

func (e *rejectedError) Error() string          { return e.msg }
func (e *rejectedError) ProviderRejected() bool { return true }

func audioResponse(data []byte) *SynthesisResponse {
	return &SynthesisResponse{AudioContent: base64.StdEncoding.EncodeToString(data)}
}

// sampleVoices is the catalog used throughout the tests.
func sampleVoices() []Voice {
	return []Voice{
		{Name: "A", LanguageCodes: []string{"en-US"}},
		{Name: "B", LanguageCodes: []string{"en-US", "en-GB"}},
		{Name: "C", LanguageCodes: []string{"es-ES"}},
	}
}
