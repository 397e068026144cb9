package ui

// Config contains TUI-specific configuration.
type Config struct {
	// Path is the file the text was loaded from, empty when none.
	Path string

	// Watch reloads Path into the editor when it changes on disk.
	Watch bool

	// IncludeCode keeps markdown code blocks when (re)loading Path.
	IncludeCode bool

	// OutputDir is where saved audio goes.
	OutputDir string

	EnableMouse bool

	// InputTTY reads keys from the controlling terminal instead of stdin.
	InputTTY bool

	// MaxWidth caps the layout width on wide terminals.
	MaxWidth int `env:"CLOUDSPEAK_MAX_WIDTH" envDefault:"100"`

	// DisableClipboard turns the copy keys into no-ops, useful over SSH.
	DisableClipboard bool `env:"CLOUDSPEAK_NO_CLIPBOARD"`

	// For debugging the UI
	AltScreen bool `env:"CLOUDSPEAK_ALT_SCREEN" envDefault:"true"`
}
