package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfig = `# Google Cloud Text-to-Speech
google:
  # API key; "${VAR}" reads it from the environment. When empty,
  # CLOUDSPEAK_API_KEY and then GOOGLE_API_KEY are used.
  api_key: ""
  # endpoint: "https://texttospeech.googleapis.com/v1"
  # language selected after the voices load (first language when unavailable)
  language_code: "en-US"
  # voice_name: "en-US-Standard-A"
  # -20 to 20
  pitch: 0.0
  # 0.25 to 4
  speaking_rate: 1.0
  # -96 to 16 dB
  volume_gain: 0.0
  # none, telephone, handset or wearable
  effects_profile: ""
  timeout: "10s"
  # client-side pacing, 0 for none
  requests_per_minute: 60

# Local playback
audio:
  enabled: true
  # 44100 or 48000
  sample_rate: 44100
  # 0.0 to 1.0
  volume: 1.0

# where saved MP3 files go
output_dir: "."
# write debug output to the log file
debug: false
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the cloudspeak config file",
	Long:    paragraph(fmt.Sprintf("\n%s the cloudspeak config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("cloudspeak config\ncloudspeak config --config path/to/config.yml"),
	Args:    cobra.NoArgs,
	// a broken config must still be editable
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("cloudspeak", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		// the file may hold an API key
		f, err := os.OpenFile(configFile, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
