package ui

import "github.com/charmbracelet/lipgloss"

var (
	normalFg    = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#dddddd"}
	subtleFg    = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	dimFg       = lipgloss.AdaptiveColor{Light: "#656565", Dark: "#7D7D7D"}
	fuchsia     = lipgloss.Color("#EE6FF8")
	mintGreen   = lipgloss.AdaptiveColor{Light: "#89F0CB", Dark: "#89F0CB"}
	darkGreen   = lipgloss.AdaptiveColor{Light: "#1C8760", Dark: "#1C8760"}
	green       = lipgloss.Color("#04B575")
	red         = lipgloss.AdaptiveColor{Light: "#FF4672", Dark: "#ED567A"}
	yellowGreen = lipgloss.AdaptiveColor{Light: "#8fb81d", Dark: "#ECFD65"}

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#5A56E0")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(dimFg).
			Width(10)

	activeLabelStyle = labelStyle.
				Foreground(fuchsia).
				Bold(true)

	valueStyle = lipgloss.NewStyle().Foreground(normalFg)

	subtleStyle = lipgloss.NewStyle().Foreground(subtleFg)

	errorStyle = lipgloss.NewStyle().Foreground(red)

	statusStyle = lipgloss.NewStyle().
			Foreground(mintGreen).
			Background(darkGreen).
			Padding(0, 1)

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(green).
			Padding(0, 2)

	disabledButtonStyle = lipgloss.NewStyle().
				Foreground(subtleFg).
				Background(lipgloss.AdaptiveColor{Light: "#E6E6E6", Dark: "#242424"}).
				Padding(0, 2)

	sliderFillStyle  = lipgloss.NewStyle().Foreground(yellowGreen)
	sliderTrackStyle = lipgloss.NewStyle().Foreground(subtleFg)

	editorStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(subtleFg)

	focusedEditorStyle = editorStyle.BorderForeground(fuchsia)

	pickerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(fuchsia).
			Padding(0, 1)

	selectedItemStyle = lipgloss.NewStyle().Foreground(fuchsia)
	matchStyle        = lipgloss.NewStyle().Underline(true)
)
