package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit         key.Binding
	SwitchFocus  key.Binding
	LeaveEditor  key.Binding
	Synthesize   key.Binding
	Refresh      key.Binding
	NextLanguage key.Binding
	PrevLanguage key.Binding
	FindLanguage key.Binding
	NextVoice    key.Binding
	PrevVoice    key.Binding
	FindVoice    key.Binding
	PitchUp      key.Binding
	PitchDown    key.Binding
	RateUp       key.Binding
	RateDown     key.Binding
	GainUp       key.Binding
	GainDown     key.Binding
	Effects      key.Binding
	PlayPause    key.Binding
	Stop         key.Binding
	Save         key.Binding
	CopyVoice    key.Binding
	CopyText     key.Binding
	Help         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		SwitchFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "edit text"),
		),
		LeaveEditor: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "done editing"),
		),
		Synthesize: key.NewBinding(
			key.WithKeys("enter", "ctrl+s"),
			key.WithHelp("enter/ctrl+s", "synthesize"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reload voices"),
		),
		NextLanguage: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("[/]", "language"),
		),
		PrevLanguage: key.NewBinding(
			key.WithKeys("["),
		),
		FindLanguage: key.NewBinding(
			key.WithKeys("l", "/"),
			key.WithHelp("l", "find language"),
		),
		NextVoice: key.NewBinding(
			key.WithKeys("}"),
			key.WithHelp("{/}", "voice"),
		),
		PrevVoice: key.NewBinding(
			key.WithKeys("{"),
		),
		FindVoice: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "find voice"),
		),
		PitchUp: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p/P", "pitch"),
		),
		PitchDown: key.NewBinding(
			key.WithKeys("P"),
		),
		RateUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+/-", "rate"),
		),
		RateDown: key.NewBinding(
			key.WithKeys("-", "_"),
		),
		GainUp: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g/G", "gain"),
		),
		GainDown: key.NewBinding(
			key.WithKeys("G"),
		),
		Effects: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "effect"),
		),
		PlayPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		Stop: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stop"),
		),
		Save: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "save mp3"),
		),
		CopyVoice: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy voice"),
		),
		CopyText: key.NewBinding(
			key.WithKeys("Y"),
			key.WithHelp("Y", "copy text"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SwitchFocus, k.Synthesize, k.PlayPause, k.FindLanguage, k.FindVoice, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.SwitchFocus, k.LeaveEditor, k.Synthesize, k.Refresh},
		{k.NextLanguage, k.FindLanguage, k.NextVoice, k.FindVoice},
		{k.PitchUp, k.RateUp, k.GainUp, k.Effects},
		{k.PlayPause, k.Stop, k.Save, k.CopyVoice, k.CopyText},
		{k.Help, k.Quit},
	}
}
