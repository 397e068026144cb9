package audio

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// MockPlayer implements AudioPlayer without producing sound. Data is not
// decoded, so tests can play arbitrary bytes.
type MockPlayer struct {
	mu sync.Mutex

	state    PlayerState
	last     []byte
	duration time.Duration
	position time.Duration

	// PlayErr, when set, is returned by PlayMP3.
	PlayErr error

	callbacks MockCallbacks
	plays     int
}

// MockCallbacks provides hooks for testing.
type MockCallbacks struct {
	OnPlay   func(audio []byte)
	OnPause  func()
	OnResume func()
	OnStop   func()
}

var _ AudioPlayer = (*MockPlayer)(nil)

// NewMockPlayer creates a mock player with optional callbacks.
func NewMockPlayer(callbacks MockCallbacks) *MockPlayer {
	return &MockPlayer{state: StateStopped, callbacks: callbacks}
}

// PlayMP3 records data as the current clip.
func (mp *MockPlayer) PlayMP3(data []byte) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.state == StateClosed {
		return errClosed
	}
	if len(data) == 0 {
		return ErrEmptyAudio
	}
	if mp.PlayErr != nil {
		return mp.PlayErr
	}

	mp.last = append([]byte(nil), data...)
	// pretend 16kB per second, roughly 128kbit/s MP3
	mp.duration = time.Duration(len(data)) * time.Second / 16000
	mp.position = 0
	mp.state = StatePlaying
	mp.plays++

	if mp.callbacks.OnPlay != nil {
		mp.callbacks.OnPlay(data)
	}
	return nil
}

// Pause pauses the current clip.
func (mp *MockPlayer) Pause() error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.state != StatePlaying {
		return fmt.Errorf("cannot pause: player is %s", mp.state)
	}
	mp.state = StatePaused
	if mp.callbacks.OnPause != nil {
		mp.callbacks.OnPause()
	}
	return nil
}

// Resume resumes a paused clip.
func (mp *MockPlayer) Resume() error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.state != StatePaused {
		return fmt.Errorf("cannot resume: player is %s", mp.state)
	}
	mp.state = StatePlaying
	if mp.callbacks.OnResume != nil {
		mp.callbacks.OnResume()
	}
	return nil
}

// Stop stops the current clip.
func (mp *MockPlayer) Stop() error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.state == StateClosed {
		return nil
	}
	mp.state = StateStopped
	mp.position = 0
	if mp.callbacks.OnStop != nil {
		mp.callbacks.OnStop()
	}
	return nil
}

// Finish simulates the clip playing to its end.
func (mp *MockPlayer) Finish() {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	if mp.state == StatePlaying || mp.state == StatePaused {
		mp.position = mp.duration
		mp.state = StateStopped
	}
}

// State returns the current state.
func (mp *MockPlayer) State() PlayerState {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.state
}

// Position returns the simulated position.
func (mp *MockPlayer) Position() time.Duration {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.position
}

// Duration returns the simulated clip length.
func (mp *MockPlayer) Duration() time.Duration {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.duration
}

// Close marks the player closed.
func (mp *MockPlayer) Close() error {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	if mp.state == StateClosed {
		return errors.New("player already closed")
	}
	mp.state = StateClosed
	return nil
}

// LastPlayed returns the data of the most recent PlayMP3 call.
func (mp *MockPlayer) LastPlayed() []byte {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.last
}

// PlayCount returns how many clips were started.
func (mp *MockPlayer) PlayCount() int {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.plays
}
