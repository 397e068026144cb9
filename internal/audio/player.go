package audio

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
)

// AudioPlayer plays synthesized MP3 audio. At most one clip plays at a
// time; starting a new one stops the previous.
type AudioPlayer interface {
	PlayMP3(data []byte) error
	Pause() error
	Resume() error
	Stop() error
	State() PlayerState
	Position() time.Duration
	Duration() time.Duration
	Close() error
}

// PlayerState represents the current state of the player.
type PlayerState int32

const (
	StateStopped PlayerState = iota
	StatePlaying
	StatePaused
	StateClosed
)

func (s PlayerState) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

var errClosed = errors.New("player is closed")

// PlayerConfig contains configuration for the audio player.
type PlayerConfig struct {
	SampleRate int     // 44100 or 48000 Hz only
	Volume     float64 // 0.0 to 1.0
	BufferSize int     // bytes
}

// DefaultPlayerConfig returns the default player configuration.
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		SampleRate: 44100,
		Volume:     1.0,
		BufferSize: 8192,
	}
}

// Player plays audio through oto. The oto context is created once and
// reused for every clip.
type Player struct {
	context    *oto.Context
	sampleRate int

	mu     sync.Mutex
	state  PlayerState
	volume float64

	player *oto.Player
	// data and reader must stay alive while oto reads from them
	data     []byte
	reader   *bytes.Reader
	duration time.Duration
}

var _ AudioPlayer = (*Player)(nil)

// NewPlayer opens the audio device. Only one Player may exist per process.
func NewPlayer(config PlayerConfig) (*Player, error) {
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	bytesPerSecond := config.SampleRate * decodedChannels * 2
	op := &oto.NewContextOptions{
		SampleRate:   config.SampleRate,
		ChannelCount: decodedChannels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   time.Duration(config.BufferSize) * time.Second / time.Duration(bytesPerSecond),
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-ready

	log.Debug("audio device ready", "sampleRate", config.SampleRate)

	return &Player{
		context:    ctx,
		sampleRate: config.SampleRate,
		state:      StateStopped,
		volume:     config.Volume,
	}, nil
}

func validateConfig(config PlayerConfig) error {
	if config.SampleRate != 44100 && config.SampleRate != 48000 {
		return fmt.Errorf("sample rate must be 44100 or 48000 Hz, got %d", config.SampleRate)
	}
	if config.Volume < 0.0 || config.Volume > 1.0 {
		return fmt.Errorf("volume must be between 0.0 and 1.0, got %f", config.Volume)
	}
	if config.BufferSize <= 0 {
		return errors.New("buffer size must be positive")
	}
	return nil
}

// PlayMP3 decodes data, converts it to the device rate and plays it.
func (p *Player) PlayMP3(data []byte) error {
	pcm, err := DecodeMP3(data)
	if err != nil {
		return err
	}
	return p.PlayPCM(pcm.Resample(p.sampleRate))
}

// PlayPCM plays audio that is already at the device rate.
func (p *Player) PlayPCM(pcm PCM) error {
	if len(pcm.Data) == 0 {
		return ErrEmptyAudio
	}
	if pcm.SampleRate != p.sampleRate || pcm.Channels != decodedChannels {
		return fmt.Errorf("pcm format %dHz/%dch does not match device %dHz/%dch",
			pcm.SampleRate, pcm.Channels, p.sampleRate, decodedChannels)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateClosed {
		return errClosed
	}
	p.stopLocked()

	p.data = pcm.Data
	p.reader = bytes.NewReader(p.data)
	p.duration = pcm.Duration()

	p.player = p.context.NewPlayer(p.reader)
	p.player.SetVolume(p.volume)
	p.player.Play()
	p.state = StatePlaying

	return nil
}

// Pause pauses the current playback.
func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.refreshLocked()
	if p.state != StatePlaying {
		return fmt.Errorf("cannot pause: player is %s", p.state)
	}
	p.player.Pause()
	p.state = StatePaused
	return nil
}

// Resume resumes paused playback.
func (p *Player) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StatePaused {
		return fmt.Errorf("cannot resume: player is %s", p.state)
	}
	p.player.Play()
	p.state = StatePlaying
	return nil
}

// Stop stops playback and releases the clip.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	return nil
}

func (p *Player) stopLocked() {
	if p.player != nil {
		p.player.Pause()
		p.player.Close()
		p.player = nil
	}
	p.data = nil
	p.reader = nil
	p.duration = 0
	if p.state != StateClosed {
		p.state = StateStopped
	}
}

// refreshLocked notices a clip that played to the end.
func (p *Player) refreshLocked() {
	if p.state == StatePlaying && p.player != nil && !p.player.IsPlaying() && p.reader.Len() == 0 {
		p.stopLocked()
	}
}

// State returns the current player state.
func (p *Player) State() PlayerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refreshLocked()
	return p.state
}

// Position returns how much of the current clip has been heard.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.player == nil || p.reader == nil {
		return 0
	}
	consumed := len(p.data) - p.reader.Len() - p.player.BufferedSize()
	if consumed < 0 {
		consumed = 0
	}
	bytesPerSecond := p.sampleRate * decodedChannels * 2
	return time.Duration(consumed) * time.Second / time.Duration(bytesPerSecond)
}

// Duration returns the length of the current clip.
func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

// Close stops playback. oto/v3 has no way to release its context, so the
// device stays open until the process exits.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	p.state = StateClosed
	return nil
}
