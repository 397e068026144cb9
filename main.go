// Package main provides the entry point for the cloudspeak CLI application.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/dgnsrekt/cloudspeak/internal/audio"
	"github.com/dgnsrekt/cloudspeak/internal/source"
	"github.com/dgnsrekt/cloudspeak/internal/tts"
	"github.com/dgnsrekt/cloudspeak/internal/tts/google"
	"github.com/dgnsrekt/cloudspeak/ui"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile  string
	filePath    string
	watch       bool
	includeCode bool
	mouse       bool

	// settings is loaded once before any command runs.
	settings tts.Config

	rootCmd = &cobra.Command{
		Use:   "cloudspeak [FILE]",
		Short: "Turn text into speech from the terminal",
		Long: paragraph(
			fmt.Sprintf("\nTurn text into %s with Google Cloud voices, right from the terminal.", keyword("speech")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.MaximumNArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveDefault
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadSettings(cmd)
		},
		RunE: execute,
	}
)

func loadSettings(cmd *cobra.Command) error {
	if cmd.Flags().Changed("config") {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file %s: %w", configFile, err)
		}
		log.Debug("Using configuration file", "path", configFile)
	}

	cfg, err := tts.LoadConfigFromViper(viper.GetViper())
	if err != nil {
		return err
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}
	settings = cfg
	return nil
}

func requireAPIKey() error {
	if settings.Google.APIKey == "" {
		return errors.New("no API key configured: set google.api_key in the config file (see `cloudspeak config`) or export CLOUDSPEAK_API_KEY")
	}
	return nil
}

// services wires the provider, catalog and controller from settings.
type services struct {
	catalog   *tts.VoiceCatalog
	ctrl      *tts.Controller
	requester *tts.SynthesisRequester
}

func newServices(cfg tts.Config) (*services, error) {
	provider := google.NewClient(cfg.Google)
	catalog := tts.NewVoiceCatalog(provider)
	ctrl, err := tts.NewController(catalog, cfg.ToControllerConfig())
	if err != nil {
		return nil, err
	}
	return &services{
		catalog:   catalog,
		ctrl:      ctrl,
		requester: tts.NewSynthesisRequester(provider),
	}, nil
}

// loadCatalog fetches the voices into the controller and reports the
// outcome as a user-facing error.
func (s *services) loadCatalog(ctx context.Context) error {
	token := s.ctrl.BeginLoad()
	_, err := s.catalog.Load(ctx)
	s.ctrl.CatalogLoaded(token, err)
	if err != nil {
		log.Debug("catalog load failed", "error", err)
		return errors.New(tts.UserMessage(err))
	}
	return nil
}

// newPlayer opens the audio device, or returns nil when playback is off or
// no device is available.
func newPlayer(cfg tts.PlaybackConfig) audio.AudioPlayer {
	if !cfg.Enabled {
		return nil
	}
	pc := audio.DefaultPlayerConfig()
	pc.SampleRate = cfg.SampleRate
	pc.Volume = cfg.Volume

	p, err := audio.NewPlayer(pc)
	if err != nil {
		log.Warn("audio playback unavailable", "error", err)
		return nil
	}
	return p
}

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to open file: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

func execute(_ *cobra.Command, args []string) error {
	if err := requireAPIKey(); err != nil {
		return err
	}

	if len(args) == 1 && filePath == "" {
		filePath = args[0]
	}

	// Read environment to get debugging stuff
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}
	cfg.Watch = watch
	cfg.IncludeCode = includeCode
	cfg.OutputDir = settings.OutputDir
	cfg.EnableMouse = mouse

	svc, err := newServices(settings)
	if err != nil {
		return err
	}

	text, err := initialText(&cfg)
	if err != nil {
		return err
	}
	if text != "" {
		// an overlong file leaves the editor empty with the reason shown
		_ = svc.ctrl.SetText(text)
	}

	player := newPlayer(settings.Audio)
	if player != nil {
		defer player.Close() //nolint:errcheck
	}

	p, err := ui.NewProgram(cfg, ui.Services{
		Controller: svc.ctrl,
		Requester:  svc.requester,
		Player:     player,
	})
	if err != nil {
		return err
	}
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}
	return nil
}

// initialText loads the text the editor starts with, from a file or from
// piped standard input.
func initialText(cfg *ui.Config) (string, error) {
	switch {
	case filePath == "-":
		cfg.InputTTY = true
		return source.Read(os.Stdin)

	case filePath != "":
		abs, err := filepath.Abs(filePath)
		if err != nil {
			return "", fmt.Errorf("unable to get absolute path: %w", err)
		}
		cfg.Path = abs
		return source.Load(abs, source.Options{IncludeCode: includeCode})
	}

	if yes, err := stdinIsPipe(); err != nil {
		return "", err
	} else if yes {
		cfg.InputTTY = true
		return source.Read(os.Stdin)
	}
	return "", nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().Bool("debug", false, "write debug output to the log file")
	rootCmd.PersistentFlags().StringP("language", "l", "", "language tag to select, e.g. en-GB")
	rootCmd.PersistentFlags().StringP("voice", "v", "", "voice name to select, e.g. en-GB-Standard-A")

	rootCmd.Flags().StringVarP(&filePath, "file", "f", "", "load text from a file (markdown is read as plain prose, - for stdin)")
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the file when it changes")
	rootCmd.Flags().BoolVar(&includeCode, "code", false, "read markdown code blocks aloud")
	rootCmd.Flags().BoolVarP(&mouse, "mouse", "m", false, "enable mouse support")
	_ = rootCmd.Flags().MarkHidden("mouse")

	// Config bindings
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("google.language_code", rootCmd.PersistentFlags().Lookup("language"))
	_ = viper.BindPFlag("google.voice_name", rootCmd.PersistentFlags().Lookup("voice"))

	tts.SetDefaults(viper.GetViper())

	rootCmd.AddCommand(sayCmd, voicesCmd, configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "cloudspeak")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "cloudspeak")}, dirs...)
	}

	if c := os.Getenv("CLOUDSPEAK_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("cloudspeak")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("cloudspeak")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "cloudspeak.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec
}
