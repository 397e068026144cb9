// Package ui provides the interactive text-to-speech console.
package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/dgnsrekt/cloudspeak/internal/audio"
	"github.com/dgnsrekt/cloudspeak/internal/source"
	"github.com/dgnsrekt/cloudspeak/internal/tts"
)

// Services are the collaborators the UI drives.
type Services struct {
	Controller *tts.Controller
	Requester  *tts.SynthesisRequester

	// Player is nil when playback is disabled.
	Player audio.AudioPlayer
}

type focusArea int

const (
	focusControls focusArea = iota
	focusEditor
)

type model struct {
	cfg    Config
	ctx    context.Context
	cancel context.CancelFunc

	ctrl      *tts.Controller
	requester *tts.SynthesisRequester
	player    audio.AudioPlayer
	watcher   *source.Watcher

	focus   focusArea
	editor  textarea.Model
	picker  *picker
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	width  int
	height int

	status   string
	statusID int
}

// NewProgram returns a new Tea program.
func NewProgram(cfg Config, svc Services) (*tea.Program, error) {
	if svc.Controller == nil || svc.Requester == nil {
		return nil, errors.New("controller and requester are required")
	}

	log.Debug("starting cloudspeak", "path", cfg.Path, "watch", cfg.Watch, "playback", svc.Player != nil)

	m := newModel(cfg, svc)
	if cfg.Watch && cfg.Path != "" {
		w, err := source.NewWatcher(cfg.Path, source.Options{IncludeCode: cfg.IncludeCode})
		if err != nil {
			log.Error("unable to watch file", "file", cfg.Path, "error", err)
		} else {
			m.watcher = w
		}
	}

	var opts []tea.ProgramOption
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if cfg.EnableMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	if cfg.InputTTY {
		opts = append(opts, tea.WithInputTTY())
	}
	return tea.NewProgram(m, opts...), nil
}

func newModel(cfg Config, svc Services) model {
	ctx, cancel := context.WithCancel(context.Background())

	ta := textarea.New()
	ta.Placeholder = "Type the text to speak…"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetValue(svc.Controller.Text())
	ta.Blur()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = subtleStyle

	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}

	return model{
		cfg:       cfg,
		ctx:       ctx,
		cancel:    cancel,
		ctrl:      svc.Controller,
		requester: svc.Requester,
		player:    svc.Player,
		editor:    ta,
		spinner:   sp,
		help:      help.New(),
		keys:      defaultKeyMap(),
		width:     80,
		height:    24,
	}
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadCatalog(), m.spinner.Tick}
	if m.watcher != nil {
		cmds = append(cmds, watchSourceCmd(m.ctx, m.watcher))
	}
	return tea.Batch(cmds...)
}

func (m *model) loadCatalog() tea.Cmd {
	token := m.ctrl.BeginLoad()
	log.Debug("loading voice catalog", "token", token)
	return loadCatalogCmd(m.ctx, m.ctrl.Catalog(), token)
}

func (m *model) synthesize() tea.Cmd {
	token, params, err := m.ctrl.PrepareSynthesis()
	if err != nil {
		log.Debug("synthesis refused", "error", err)
		return nil
	}
	return tea.Batch(synthesizeCmd(m.ctx, m.requester, token, params), m.spinner.Tick)
}

func (m *model) setStatus(s string) tea.Cmd {
	m.status = s
	m.statusID++
	return waitForStatusMessageTimeout(m.statusID)
}

func (m *model) quit() tea.Cmd {
	m.cancel()
	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			log.Debug("unable to close watcher", "error", err)
		}
	}
	if m.player != nil {
		if err := m.player.Stop(); err != nil {
			log.Debug("unable to stop playback", "error", err)
		}
	}
	return tea.Quit
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case catalogLoadedMsg:
		if m.ctrl.CatalogLoaded(msg.token, msg.err) && msg.err == nil {
			log.Info("voices loaded", "count", msg.count, "language", m.ctrl.Language(), "voice", m.ctrl.Voice())
		}

	case synthesisDoneMsg:
		if !m.ctrl.SynthesisDone(msg.token, msg.audio, msg.err) || msg.err != nil {
			break
		}
		if m.player != nil {
			// a new clip replaces whatever is playing
			_ = m.player.Stop()
		}
		cmds = append(cmds, m.setStatus(fmt.Sprintf("Audio ready (%s)", humanize.Bytes(uint64(msg.audio.Size()))))) //nolint:gosec

	case playbackStartedMsg:
		if msg.err != nil {
			log.Error("playback failed", "error", msg.err)
			cmds = append(cmds, m.setStatus("Playback failed: "+msg.err.Error()))
			break
		}
		cmds = append(cmds, playbackTick())

	case playbackTickMsg:
		if m.player != nil {
			if s := m.player.State(); s == audio.StatePlaying || s == audio.StatePaused {
				cmds = append(cmds, playbackTick())
			}
		}

	case sourceChangedMsg:
		if err := m.ctrl.SetText(msg.text); err != nil {
			log.Warn("reloaded file rejected", "file", m.cfg.Path, "error", err)
		} else {
			m.editor.SetValue(m.ctrl.Text())
			cmds = append(cmds, m.setStatus("Reloaded "+m.cfg.Path))
		}
		cmds = append(cmds, watchSourceCmd(m.ctx, m.watcher))

	case watchStoppedMsg:
		if !errors.Is(msg.err, context.Canceled) && !errors.Is(msg.err, source.ErrWatcherClosed) {
			log.Error("file watch stopped", "error", msg.err)
		}

	case audioSavedMsg:
		if msg.err != nil {
			cmds = append(cmds, m.setStatus("Save failed: "+msg.err.Error()))
		} else {
			log.Info("audio saved", "path", msg.path)
			cmds = append(cmds, m.setStatus("Saved "+msg.path))
		}

	case copiedMsg:
		if msg.err != nil {
			cmds = append(cmds, m.setStatus("Copy failed: "+msg.err.Error()))
		} else {
			cmds = append(cmds, m.setStatus("Copied "+msg.what))
		}

	case statusMessageTimeoutMsg:
		if msg.id == m.statusID {
			m.status = ""
		}

	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	default:
		if m.focus == focusEditor {
			var cmd tea.Cmd
			m.editor, cmd = m.editor.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m model) busy() bool {
	return m.ctrl.Loading() || m.ctrl.State() == tts.StateInFlight
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, m.quit()
	}

	if m.picker != nil {
		return m.handlePickerKey(msg)
	}

	// keys that work everywhere
	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m, tea.Batch(m.loadCatalog(), m.spinner.Tick)
	case msg.String() == "ctrl+s":
		return m, m.synthesize()
	}

	if m.focus == focusEditor {
		return m.handleEditorKey(msg)
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()

	case key.Matches(msg, m.keys.SwitchFocus):
		m.focus = focusEditor
		cmd = m.editor.Focus()

	case key.Matches(msg, m.keys.Synthesize):
		cmd = m.synthesize()

	case key.Matches(msg, m.keys.NextLanguage):
		m.ctrl.CycleLanguage(1)
	case key.Matches(msg, m.keys.PrevLanguage):
		m.ctrl.CycleLanguage(-1)
	case key.Matches(msg, m.keys.FindLanguage):
		m.openPicker(pickLanguage)

	case key.Matches(msg, m.keys.NextVoice):
		m.ctrl.CycleVoice(1)
	case key.Matches(msg, m.keys.PrevVoice):
		m.ctrl.CycleVoice(-1)
	case key.Matches(msg, m.keys.FindVoice):
		m.openPicker(pickVoice)

	case key.Matches(msg, m.keys.PitchUp):
		m.ctrl.AdjustPitch(tts.DefaultStep)
	case key.Matches(msg, m.keys.PitchDown):
		m.ctrl.AdjustPitch(-tts.DefaultStep)
	case key.Matches(msg, m.keys.RateUp):
		m.ctrl.AdjustSpeakingRate(tts.DefaultStep)
	case key.Matches(msg, m.keys.RateDown):
		m.ctrl.AdjustSpeakingRate(-tts.DefaultStep)
	case key.Matches(msg, m.keys.GainUp):
		m.ctrl.AdjustVolumeGain(tts.DefaultStep)
	case key.Matches(msg, m.keys.GainDown):
		m.ctrl.AdjustVolumeGain(-tts.DefaultStep)
	case key.Matches(msg, m.keys.Effects):
		m.ctrl.CycleEffectsProfile(1)

	case key.Matches(msg, m.keys.PlayPause):
		cmd = m.togglePlayback()
	case key.Matches(msg, m.keys.Stop):
		if m.player != nil {
			_ = m.player.Stop()
		}

	case key.Matches(msg, m.keys.Save):
		if a := m.ctrl.Audio(); a != nil {
			cmd = saveAudioCmd(m.cfg.OutputDir, a)
		} else {
			cmd = m.setStatus("Nothing to save yet")
		}

	case key.Matches(msg, m.keys.CopyVoice):
		cmd = m.copyToClipboard("voice name", m.ctrl.Voice())
	case key.Matches(msg, m.keys.CopyText):
		cmd = m.copyToClipboard("text", m.ctrl.Text())

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
	}

	return m, cmd
}

func (m model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.LeaveEditor) || key.Matches(msg, m.keys.SwitchFocus) {
		m.focus = focusControls
		m.editor.Blur()
		return m, nil
	}

	prev := m.editor.Value()
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)

	if v := m.editor.Value(); v != prev {
		if err := m.ctrl.SetText(v); err != nil {
			// the edit is rejected as a whole
			m.editor.SetValue(prev)
		}
	}
	return m, cmd
}

func (m model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.picker = nil
		return m, nil

	case "enter":
		value, ok := m.picker.selected()
		kind := m.picker.kind
		m.picker = nil
		if !ok {
			return m, nil
		}

		var err error
		switch kind {
		case pickLanguage:
			err = m.ctrl.SelectLanguage(value)
		case pickVoice:
			err = m.ctrl.SelectVoice(value)
		}
		if err != nil {
			log.Debug("selection rejected", "kind", kind, "value", value, "error", err)
		}
		return m, nil
	}

	return m, m.picker.update(msg)
}

func (m *model) openPicker(kind pickerKind) {
	var (
		items   pickerItems
		current string
	)
	switch kind {
	case pickLanguage:
		for _, tag := range m.ctrl.Catalog().Languages() {
			items = append(items, pickerItem{value: tag, label: tts.LanguageLabel(tag)})
		}
		current = m.ctrl.Language()
	case pickVoice:
		for _, v := range m.ctrl.Voices() {
			items = append(items, pickerItem{value: v.Name, label: voiceLabel(v)})
		}
		current = m.ctrl.Voice()
	}

	if len(items) == 0 {
		return
	}
	m.picker = newPicker(kind, items, current)
}

func (m *model) togglePlayback() tea.Cmd {
	if m.player == nil {
		return m.setStatus("Playback is disabled")
	}

	switch m.player.State() {
	case audio.StatePlaying:
		if err := m.player.Pause(); err != nil {
			return m.setStatus(err.Error())
		}
		return nil
	case audio.StatePaused:
		if err := m.player.Resume(); err != nil {
			return m.setStatus(err.Error())
		}
		return playbackTick()
	}

	a := m.ctrl.Audio()
	if a == nil {
		return m.setStatus("Synthesize some audio first")
	}
	return playCmd(m.player, a.Data)
}

func (m *model) copyToClipboard(what, text string) tea.Cmd {
	if m.cfg.DisableClipboard {
		return m.setStatus("Clipboard is disabled")
	}
	if text == "" {
		return m.setStatus("Nothing to copy")
	}
	return copyCmd(what, text)
}

func voiceLabel(v tts.Voice) string {
	label := v.Label()
	if v.SSMLGender != "" {
		label += " " + v.SSMLGender
	}
	return label
}
