package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/cloudspeak/internal/audio"
	"github.com/dgnsrekt/cloudspeak/internal/source"
	"github.com/dgnsrekt/cloudspeak/internal/tts"
	"github.com/dgnsrekt/cloudspeak/utils"
)

const (
	statusMessageTimeout = 3 * time.Second
	playbackTickInterval = 250 * time.Millisecond
)

type (
	catalogLoadedMsg struct {
		token uint64
		count int
		err   error
	}

	synthesisDoneMsg struct {
		token uint64
		audio *tts.AudioResult
		err   error
	}

	playbackStartedMsg struct{ err error }
	playbackTickMsg    struct{}

	sourceChangedMsg struct{ text string }
	watchStoppedMsg  struct{ err error }

	audioSavedMsg struct {
		path string
		err  error
	}

	copiedMsg struct {
		what string
		err  error
	}

	statusMessageTimeoutMsg struct{ id int }
)

func loadCatalogCmd(ctx context.Context, catalog *tts.VoiceCatalog, token uint64) tea.Cmd {
	return func() tea.Msg {
		snap, err := catalog.Load(ctx)
		if err != nil {
			log.Debug("catalog load failed", "token", token, "error", err)
		}
		return catalogLoadedMsg{token: token, count: len(snap.Voices), err: err}
	}
}

func synthesizeCmd(ctx context.Context, r *tts.SynthesisRequester, token uint64, params tts.SynthesisParameters) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		res, err := r.Synthesize(ctx, params)
		log.Debug("synthesis finished", "token", token, "voice", params.VoiceName,
			"elapsed", time.Since(start), "error", err)
		return synthesisDoneMsg{token: token, audio: res, err: err}
	}
}

// playCmd decodes and starts the clip off the event loop.
func playCmd(p audio.AudioPlayer, data []byte) tea.Cmd {
	return func() tea.Msg {
		return playbackStartedMsg{err: p.PlayMP3(data)}
	}
}

func playbackTick() tea.Cmd {
	return tea.Tick(playbackTickInterval, func(time.Time) tea.Msg {
		return playbackTickMsg{}
	})
}

func watchSourceCmd(ctx context.Context, w *source.Watcher) tea.Cmd {
	return func() tea.Msg {
		text, err := w.Next(ctx)
		if err != nil {
			return watchStoppedMsg{err}
		}
		return sourceChangedMsg{text}
	}
}

func saveAudioCmd(dir string, a *tts.AudioResult) tea.Cmd {
	return func() tea.Msg {
		path, err := saveAudio(dir, a)
		return audioSavedMsg{path: path, err: err}
	}
}

// saveAudio writes a to dir under a name derived from the voice and the
// time it was produced.
func saveAudio(dir string, a *tts.AudioResult) (string, error) {
	if a == nil || len(a.Data) == 0 {
		return "", errors.New("no audio to save")
	}
	dir = utils.ExpandPath(dir)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec
		return "", fmt.Errorf("unable to create %s: %w", dir, err)
	}

	path := filepath.Join(dir, AudioFileName(a))
	if err := os.WriteFile(path, a.Data, 0o644); err != nil { //nolint:gosec
		return "", fmt.Errorf("unable to write audio: %w", err)
	}
	return path, nil
}

// AudioFileName returns the default file name for a clip.
func AudioFileName(a *tts.AudioResult) string {
	voice := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ' ' {
			return '_'
		}
		return r
	}, a.VoiceName)
	if voice == "" {
		voice = "audio"
	}
	ts := a.CreatedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return fmt.Sprintf("cloudspeak-%s-%s.mp3", voice, ts.Format("20060102-150405"))
}

func copyCmd(what, text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{what: what, err: clipboard.WriteAll(text)}
	}
}

func waitForStatusMessageTimeout(id int) tea.Cmd {
	return tea.Tick(statusMessageTimeout, func(time.Time) tea.Msg {
		return statusMessageTimeoutMsg{id}
	})
}
