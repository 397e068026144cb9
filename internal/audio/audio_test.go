package audio

import (
	"encoding/binary"
	"errors"
	"testing"
	"time"
)

// stereo builds interleaved 16-bit stereo PCM from left/right sample pairs.
func stereo(samples ...int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func sampleAt(buf []byte, i int) int16 {
	return int16(binary.LittleEndian.Uint16(buf[i*2:]))
}

func TestResample(t *testing.T) {
	tests := []struct {
		name       string
		from, to   int
		in         []byte
		wantFrames int
	}{
		{"same rate", 24000, 24000, stereo(1, 2, 3, 4), 2},
		{"upsample x2", 22050, 44100, stereo(0, 0, 100, -100, 200, -200, 300, -300), 8},
		{"downsample 3:2", 24000, 16000, stereo(0, 0, 30, 30, 60, 60), 2},
		{"too short", 24000, 48000, stereo(5, 5), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Resample(tt.in, 2, tt.from, tt.to)
			if got := len(out) / 4; got != tt.wantFrames {
				t.Errorf("frames = %d, want %d", got, tt.wantFrames)
			}
		})
	}
}

func TestResampleInterpolates(t *testing.T) {
	in := stereo(0, 1000, 100, 900)
	out := Resample(in, 2, 24000, 48000)

	// frame 1 sits halfway between input frames 0 and 1
	if got := sampleAt(out, 2); got != 50 {
		t.Errorf("left[1] = %d, want 50", got)
	}
	if got := sampleAt(out, 3); got != 950 {
		t.Errorf("right[1] = %d, want 950", got)
	}
	// channels stay separate
	if got := sampleAt(out, 0); got != 0 {
		t.Errorf("left[0] = %d, want 0", got)
	}
	if got := sampleAt(out, 1); got != 1000 {
		t.Errorf("right[0] = %d, want 1000", got)
	}
}

func TestPCMDuration(t *testing.T) {
	pcm := PCM{Data: make([]byte, 44100*4), SampleRate: 44100, Channels: 2}
	if got := pcm.Duration(); got != time.Second {
		t.Errorf("Duration() = %v, want 1s", got)
	}

	up := PCM{Data: make([]byte, 22050*4), SampleRate: 22050, Channels: 2}.Resample(44100)
	if up.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", up.SampleRate)
	}
	if got := up.Duration(); got != time.Second {
		t.Errorf("resampled Duration() = %v, want 1s", got)
	}

	if got := (PCM{}).Duration(); got != 0 {
		t.Errorf("zero PCM Duration() = %v, want 0", got)
	}
}

func TestDecodeMP3Invalid(t *testing.T) {
	if _, err := DecodeMP3(nil); !errors.Is(err, ErrEmptyAudio) {
		t.Errorf("DecodeMP3(nil) error = %v, want ErrEmptyAudio", err)
	}
	if _, err := DecodeMP3([]byte("definitely not an mp3 stream")); err == nil {
		t.Error("DecodeMP3(garbage) error = nil")
	}
}

func TestPlayerConfig(t *testing.T) {
	tests := []struct {
		name      string
		config    PlayerConfig
		expectErr bool
	}{
		{"default", DefaultPlayerConfig(), false},
		{"48000Hz", PlayerConfig{SampleRate: 48000, Volume: 0.5, BufferSize: 4096}, false},
		{"invalid sample rate", PlayerConfig{SampleRate: 22050, Volume: 1, BufferSize: 4096}, true},
		{"volume too high", PlayerConfig{SampleRate: 44100, Volume: 1.5, BufferSize: 4096}, true},
		{"no buffer", PlayerConfig{SampleRate: 44100, Volume: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(tt.config)
			if (err != nil) != tt.expectErr {
				t.Errorf("validateConfig() error = %v, expectErr %v", err, tt.expectErr)
			}
		})
	}
}

func TestMockPlayerLifecycle(t *testing.T) {
	var played []byte
	stops := 0
	mp := NewMockPlayer(MockCallbacks{
		OnPlay: func(audio []byte) { played = audio },
		OnStop: func() { stops++ },
	})

	if err := mp.PlayMP3(nil); !errors.Is(err, ErrEmptyAudio) {
		t.Errorf("PlayMP3(nil) error = %v, want ErrEmptyAudio", err)
	}

	data := make([]byte, 32000)
	if err := mp.PlayMP3(data); err != nil {
		t.Fatalf("PlayMP3() error = %v", err)
	}
	if len(played) != len(data) {
		t.Errorf("OnPlay got %d bytes, want %d", len(played), len(data))
	}
	if mp.State() != StatePlaying {
		t.Errorf("State() = %v, want playing", mp.State())
	}
	if mp.Duration() != 2*time.Second {
		t.Errorf("Duration() = %v, want 2s", mp.Duration())
	}

	if err := mp.Resume(); err == nil {
		t.Error("Resume() while playing succeeded")
	}
	if err := mp.Pause(); err != nil {
		t.Errorf("Pause() error = %v", err)
	}
	if err := mp.Resume(); err != nil {
		t.Errorf("Resume() error = %v", err)
	}

	mp.Finish()
	if mp.State() != StateStopped {
		t.Errorf("State() after Finish = %v, want stopped", mp.State())
	}
	if mp.Position() != mp.Duration() {
		t.Errorf("Position() = %v, want %v", mp.Position(), mp.Duration())
	}

	if err := mp.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if stops != 1 {
		t.Errorf("OnStop called %d times, want 1", stops)
	}

	if err := mp.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := mp.PlayMP3(data); err == nil {
		t.Error("PlayMP3() after Close succeeded")
	}
	if mp.PlayCount() != 1 {
		t.Errorf("PlayCount() = %d, want 1", mp.PlayCount())
	}
}

func TestMockPlayerError(t *testing.T) {
	mp := NewMockPlayer(MockCallbacks{})
	mp.PlayErr = errors.New("device busy")

	if err := mp.PlayMP3([]byte{1}); err == nil || err.Error() != "device busy" {
		t.Errorf("PlayMP3() error = %v, want device busy", err)
	}
	if mp.State() != StateStopped {
		t.Errorf("State() = %v, want stopped", mp.State())
	}
}

func TestPlayerStateString(t *testing.T) {
	if StatePaused.String() != "paused" {
		t.Errorf("String() = %q, want paused", StatePaused.String())
	}
	if PlayerState(42).String() != "unknown" {
		t.Errorf("String() = %q, want unknown", PlayerState(42).String())
	}
}
