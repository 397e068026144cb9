package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hajimehoshi/go-mp3"
)

// ErrEmptyAudio is returned when there is nothing to decode or play.
var ErrEmptyAudio = errors.New("audio data is empty")

// decodedChannels is fixed: go-mp3 always produces stereo output.
const decodedChannels = 2

// PCM is decoded signed 16-bit little-endian interleaved audio.
type PCM struct {
	Data       []byte
	SampleRate int
	Channels   int
}

// Duration returns the playing time of the samples.
func (p PCM) Duration() time.Duration {
	if p.SampleRate <= 0 || p.Channels <= 0 {
		return 0
	}
	frames := len(p.Data) / (p.Channels * 2)
	return time.Duration(frames) * time.Second / time.Duration(p.SampleRate)
}

// Resample returns the audio converted to rate.
func (p PCM) Resample(rate int) PCM {
	if rate == p.SampleRate {
		return p
	}
	return PCM{
		Data:       Resample(p.Data, p.Channels, p.SampleRate, rate),
		SampleRate: rate,
		Channels:   p.Channels,
	}
}

// DecodeMP3 decodes a complete MP3 file held in memory.
func DecodeMP3(data []byte) (PCM, error) {
	if len(data) == 0 {
		return PCM{}, ErrEmptyAudio
	}

	d, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return PCM{}, fmt.Errorf("decode mp3: %w", err)
	}

	pcm, err := io.ReadAll(d)
	if err != nil {
		return PCM{}, fmt.Errorf("decode mp3: %w", err)
	}
	if len(pcm) == 0 {
		return PCM{}, ErrEmptyAudio
	}

	return PCM{
		Data:       pcm,
		SampleRate: d.SampleRate(),
		Channels:   decodedChannels,
	}, nil
}
