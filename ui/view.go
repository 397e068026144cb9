package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/dgnsrekt/cloudspeak/internal/audio"
	"github.com/dgnsrekt/cloudspeak/internal/tts"
)

const (
	ellipsis       = "…"
	minEditorRows  = 3
	controlsHeight = 13
	sliderWidth    = 24
	pickerRows     = 10
)

func (m model) contentWidth() int {
	w := m.width
	if m.cfg.MaxWidth > 0 && w > m.cfg.MaxWidth {
		w = m.cfg.MaxWidth
	}
	return max(w, 20)
}

// layout sizes the editor to fill whatever the controls leave over.
func (m *model) layout() {
	w := m.contentWidth()
	m.help.Width = w
	m.editor.SetWidth(w - editorStyle.GetHorizontalFrameSize())

	helpHeight := 1
	if m.help.ShowAll {
		helpHeight = len(m.keys.FullHelp()[0]) + 1
	}
	rows := m.height - controlsHeight - helpHeight - editorStyle.GetVerticalFrameSize()
	m.editor.SetHeight(max(rows, minEditorRows))
}

func (m model) View() string {
	snap := m.ctrl.Snapshot()
	w := m.contentWidth()

	var b strings.Builder
	b.WriteString(m.headerView(snap, w))
	b.WriteString("\n")

	if m.picker != nil {
		b.WriteString(m.picker.view(w-4, pickerRows))
		b.WriteString("\n")
		b.WriteString(m.help.View(m.keys))
		return b.String()
	}

	editor := editorStyle
	if m.focus == focusEditor {
		editor = focusedEditorStyle
	}
	b.WriteString(editor.Render(m.editor.View()))
	b.WriteString("\n")
	b.WriteString(counterView(snap))
	b.WriteString("\n\n")

	b.WriteString(m.controlsView(snap, w))
	b.WriteString("\n")
	b.WriteString(m.audioView(snap))
	b.WriteString("\n")
	b.WriteString(m.messageView(snap, w))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m model) headerView(snap tts.ControllerSnapshot, width int) string {
	title := titleStyle.Render("cloudspeak")

	var right string
	switch {
	case snap.Loading:
		right = m.spinner.View() + " Loading voices" + ellipsis
	case snap.State == tts.StateInFlight:
		right = m.spinner.View() + " Synthesizing" + ellipsis
	case len(snap.Languages) > 0:
		right = subtleStyle.Render(fmt.Sprintf("%d languages", len(snap.Languages)))
	}

	gap := width - lipgloss.Width(title) - lipgloss.Width(right)
	if gap < 1 {
		return title + " " + right
	}
	return title + strings.Repeat(" ", gap) + right
}

func counterView(snap tts.ControllerSnapshot) string {
	s := fmt.Sprintf("%d/%d characters", snap.TextLength, tts.MaxTextLength)
	if snap.TextLength >= tts.MaxTextLength {
		return errorStyle.Render(s)
	}
	return subtleStyle.Render(s)
}

func (m model) controlsView(snap tts.ControllerSnapshot, width int) string {
	valueWidth := width - labelStyle.GetWidth()

	language := "none"
	if snap.Language != "" {
		language = tts.LanguageLabel(snap.Language)
	}

	voice := "none"
	for _, v := range snap.Voices {
		if v.Name == snap.Voice {
			voice = voiceLabel(v)
			if v.NaturalSampleRateHertz > 0 {
				voice += fmt.Sprintf(" %d Hz", v.NaturalSampleRateHertz)
			}
			break
		}
	}
	if n := len(snap.Voices); n > 1 {
		voice += subtleStyle.Render(fmt.Sprintf("  (%d voices)", n))
	}

	rows := []string{
		m.row("Language", language, valueWidth),
		m.row("Voice", voice, valueWidth),
		m.row("Pitch", slider(snap.Pitch, tts.MinPitch, tts.MaxPitch)+fmt.Sprintf(" %+.1f", snap.Pitch), valueWidth),
		m.row("Rate", slider(snap.SpeakingRate, tts.MinSpeakingRate, tts.MaxSpeakingRate)+fmt.Sprintf(" %.2fx", snap.SpeakingRate), valueWidth),
		m.row("Gain", slider(snap.VolumeGainDb, tts.MinVolumeGainDb, tts.MaxVolumeGainDb)+fmt.Sprintf(" %+.1f dB", snap.VolumeGainDb), valueWidth),
		m.row("Effect", snap.EffectsProfile.String(), valueWidth),
		"",
		synthesizeButton(snap),
	}
	return strings.Join(rows, "\n")
}

func (m model) row(label, value string, width int) string {
	l := labelStyle
	if m.focus == focusControls {
		l = activeLabelStyle
	}
	return l.Render(label) + valueStyle.Render(truncate.StringWithTail(value, uint(max(width, 1)), ellipsis)) //nolint:gosec
}

func synthesizeButton(snap tts.ControllerSnapshot) string {
	if snap.CanSynthesize && snap.State != tts.StateInFlight {
		return buttonStyle.Render("Synthesize")
	}
	return disabledButtonStyle.Render("Synthesize")
}

// slider draws v as a bar between lo and hi.
func slider(v, lo, hi float64) string {
	if hi <= lo {
		return ""
	}
	filled := int((v - lo) / (hi - lo) * sliderWidth)
	filled = min(max(filled, 0), sliderWidth)
	return sliderFillStyle.Render(strings.Repeat("━", filled)) +
		sliderTrackStyle.Render(strings.Repeat("─", sliderWidth-filled))
}

func (m model) audioView(snap tts.ControllerSnapshot) string {
	if snap.Audio == nil {
		return subtleStyle.Render("No audio yet")
	}

	parts := []string{
		"Audio " + humanize.Bytes(uint64(snap.Audio.Size())), //nolint:gosec
		snap.Audio.VoiceName,
		humanize.Time(snap.Audio.CreatedAt),
	}

	if m.player != nil {
		state := m.player.State()
		switch state {
		case audio.StatePlaying, audio.StatePaused:
			parts = append(parts, fmt.Sprintf("%s %s / %s", state,
				formatDuration(m.player.Position()), formatDuration(m.player.Duration())))
		default:
			parts = append(parts, "press space to play")
		}
	}
	return valueStyle.Render(strings.Join(parts, " · "))
}

func (m model) messageView(snap tts.ControllerSnapshot, width int) string {
	var lines []string
	if snap.Message != "" {
		lines = append(lines, errorStyle.Render(wordwrap.String(snap.Message, width)))
	}
	if m.status != "" {
		status := runewidth.Truncate(m.status, width-2, ellipsis)
		lines = append(lines, statusStyle.Render(status))
	}
	return strings.Join(lines, "\n")
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
