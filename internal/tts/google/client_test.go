package google

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/dgnsrekt/cloudspeak/internal/tts"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := tts.DefaultGoogleConfig()
	cfg.APIKey = "test-key"
	return NewClient(cfg, WithBaseURL(srv.URL+"/v1"), WithLimiter(nil))
}

func TestListVoices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/v1/voices" {
			t.Errorf("path = %s, want /v1/voices", r.URL.Path)
		}
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("key = %q, want test-key", got)
		}
		io.WriteString(w, `{"voices":[
			{"name":"en-US-Standard-A","languageCodes":["en-US"],"ssmlGender":"MALE","naturalSampleRateHertz":24000},
			{"name":"es-ES-Standard-B","languageCodes":["es-ES"]}
		]}`)
	})

	voices, err := c.ListVoices(context.Background())
	if err != nil {
		t.Fatalf("ListVoices() error = %v", err)
	}
	if len(voices) != 2 {
		t.Fatalf("len(voices) = %d, want 2", len(voices))
	}
	if voices[0].Name != "en-US-Standard-A" || voices[0].SSMLGender != "MALE" || voices[0].NaturalSampleRateHertz != 24000 {
		t.Errorf("voices[0] = %+v", voices[0])
	}
	if voices[1].PrimaryLanguage() != "es-ES" {
		t.Errorf("voices[1] language = %q, want es-ES", voices[1].PrimaryLanguage())
	}
}

func TestListVoicesEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	})

	voices, err := c.ListVoices(context.Background())
	if err != nil {
		t.Fatalf("ListVoices() error = %v", err)
	}
	if len(voices) != 0 {
		t.Errorf("len(voices) = %d, want 0", len(voices))
	}
}

func TestSynthesizeRequestBody(t *testing.T) {
	tests := []struct {
		name        string
		effects     tts.EffectsProfile
		wantEffects string
	}{
		{"no effect", tts.EffectsNone, `[]`},
		{"telephony", tts.EffectsTelephony, `["telephony-class-application"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("method = %s, want POST", r.Method)
				}
				if r.URL.Path != "/v1/text:synthesize" {
					t.Errorf("path = %s, want /v1/text:synthesize", r.URL.Path)
				}
				if ct := r.Header.Get("Content-Type"); ct != "application/json" {
					t.Errorf("Content-Type = %q", ct)
				}

				var body map[string]map[string]json.RawMessage
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
					t.Errorf("decode body: %v", err)
					return
				}
				if got := string(body["input"]["text"]); got != `"Hola"` {
					t.Errorf("input.text = %s", got)
				}
				if got := string(body["voice"]["name"]); got != `"es-ES-Standard-B"` {
					t.Errorf("voice.name = %s", got)
				}
				if got := string(body["voice"]["languageCode"]); got != `"es-ES"` {
					t.Errorf("voice.languageCode = %s", got)
				}
				audio := body["audioConfig"]
				if got := string(audio["audioEncoding"]); got != `"MP3"` {
					t.Errorf("audioEncoding = %s", got)
				}
				if got := string(audio["speakingRate"]); got != `1.5` {
					t.Errorf("speakingRate = %s", got)
				}
				if got := string(audio["pitch"]); got != `-2` {
					t.Errorf("pitch = %s", got)
				}
				if got := string(audio["volumeGainDb"]); got != `0` {
					t.Errorf("volumeGainDb = %s", got)
				}
				if got := string(audio["effectsProfileId"]); got != tt.wantEffects {
					t.Errorf("effectsProfileId = %s, want %s", got, tt.wantEffects)
				}

				io.WriteString(w, `{"audioContent":"SUQz"}`)
			})

			params := tts.SynthesisParameters{
				Text:           "Hola",
				LanguageCode:   "es-ES",
				VoiceName:      "es-ES-Standard-B",
				Pitch:          -2,
				SpeakingRate:   1.5,
				EffectsProfile: tt.effects,
			}
			resp, err := c.Synthesize(context.Background(), tts.NewSynthesisRequest(params))
			if err != nil {
				t.Fatalf("Synthesize() error = %v", err)
			}
			if resp.AudioContent != "SUQz" {
				t.Errorf("AudioContent = %q, want SUQz", resp.AudioContent)
			}
		})
	}
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus string
		wantMsg    string
	}{
		{
			name:       "google envelope",
			status:     http.StatusBadRequest,
			body:       `{"error":{"code":400,"message":"Invalid voice name","status":"INVALID_ARGUMENT"}}`,
			wantStatus: "INVALID_ARGUMENT",
			wantMsg:    "Invalid voice name",
		},
		{
			name:    "plain text",
			status:  http.StatusBadGateway,
			body:    "upstream down\n",
			wantMsg: "upstream down",
		},
		{
			name:    "empty body",
			status:  http.StatusForbidden,
			wantMsg: "Forbidden",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			_, err := c.Synthesize(context.Background(), tts.SynthesisRequest{})
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error = %v, want *APIError", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if apiErr.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", apiErr.Status, tt.wantStatus)
			}
			if apiErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMsg)
			}
			if !apiErr.ProviderRejected() {
				t.Error("ProviderRejected() = false")
			}
		})
	}
}

func TestMalformedJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"voices": [`)
	})

	_, err := c.ListVoices(context.Background())
	if err == nil {
		t.Fatal("ListVoices() error = nil, want decode error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Errorf("decode failure reported as provider rejection: %v", err)
	}
}

func TestTransportErrorHidesKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	cfg := tts.DefaultGoogleConfig()
	cfg.APIKey = "super-secret"
	c := NewClient(cfg, WithBaseURL(srv.URL), WithLimiter(nil))

	_, err := c.ListVoices(context.Background())
	if err == nil {
		t.Fatal("ListVoices() error = nil against closed server")
	}
	if strings.Contains(err.Error(), "super-secret") {
		t.Errorf("error leaks the api key: %v", err)
	}
}

// End to end through the tts layer: provider status errors become
// NoAudioReturned for synthesis and FetchFailure for the catalog.
func TestErrorClassification(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":{"code":400,"message":"bad","status":"INVALID_ARGUMENT"}}`)
	})

	params := tts.DefaultParameters()
	params.Text = "hello"
	params.LanguageCode = "en-US"
	params.VoiceName = "en-US-Standard-A"

	_, err := tts.NewSynthesisRequester(c).Synthesize(context.Background(), params)
	if !errors.Is(err, tts.ErrNoAudioReturned) {
		t.Errorf("Synthesize() error = %v, want ErrNoAudioReturned", err)
	}

	_, err = tts.NewVoiceCatalog(c).Load(context.Background())
	if !errors.Is(err, tts.ErrFetchFailure) {
		t.Errorf("Load() error = %v, want ErrFetchFailure", err)
	}
}

func TestLimiterHonoursContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"voices":[]}`)
	})
	// one token per hour, already spent
	l := rate.NewLimiter(rate.Every(time.Hour), 1)
	l.Allow()
	WithLimiter(l)(c)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := c.ListVoices(ctx); err == nil {
		t.Error("ListVoices() succeeded while rate limited")
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(tts.GoogleConfig{APIKey: "k", RequestsPerMinute: 120})
	if c.baseURL != tts.DefaultEndpoint {
		t.Errorf("baseURL = %q, want %q", c.baseURL, tts.DefaultEndpoint)
	}
	if c.httpClient.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", c.httpClient.Timeout)
	}
	if c.limiter == nil || c.limiter.Limit() != rate.Every(500*time.Millisecond) {
		t.Errorf("limiter = %v, want one request per 500ms", c.limiter)
	}
	if got := c.endpoint("voices"); got != tts.DefaultEndpoint+"/voices?key=k" {
		t.Errorf("endpoint() = %q", got)
	}
}
