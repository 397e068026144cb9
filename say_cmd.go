package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgnsrekt/cloudspeak/internal/audio"
	"github.com/dgnsrekt/cloudspeak/internal/source"
	"github.com/dgnsrekt/cloudspeak/internal/tts"
	"github.com/dgnsrekt/cloudspeak/ui"
	"github.com/dgnsrekt/cloudspeak/utils"
)

var (
	sayFile   string
	sayOutput string
	sayNoPlay bool
	sayCode   bool

	sayCmd = &cobra.Command{
		Use:   "say [TEXT|-]",
		Short: "Synthesize text once and play or save it",
		Long: paragraph(fmt.Sprintf("\n%s the given text, a file or standard input with the configured voice. "+
			"The audio is played unless --no-play is set, and written to --output when given.", keyword("Speak"))),
		Example: paragraph("cloudspeak say \"Hello there\"\n" +
			"cloudspeak say -f notes.md -l en-GB --rate 1.2\n" +
			"echo hola | cloudspeak say -l es-ES -o hola.mp3 --no-play\n" +
			"cloudspeak say \"to stdout\" -o - > out.mp3"),
		RunE: runSay,
	}
)

func init() {
	sayCmd.Flags().StringVarP(&sayFile, "file", "f", "", "read the text from a file")
	sayCmd.Flags().StringVarP(&sayOutput, "output", "o", "", "write the MP3 to this file (- for stdout)")
	sayCmd.Flags().BoolVar(&sayNoPlay, "no-play", false, "do not play the audio")
	sayCmd.Flags().BoolVar(&sayCode, "code", false, "read markdown code blocks aloud")
	sayCmd.Flags().Float64("pitch", 0, fmt.Sprintf("pitch in semitones (%g to %g)", tts.MinPitch, tts.MaxPitch))
	sayCmd.Flags().Float64("rate", 1, fmt.Sprintf("speaking rate (%g to %g)", tts.MinSpeakingRate, tts.MaxSpeakingRate))
	sayCmd.Flags().Float64("gain", 0, fmt.Sprintf("volume gain in dB (%g to %g)", tts.MinVolumeGainDb, tts.MaxVolumeGainDb))
	sayCmd.Flags().String("effects", "", "effects profile: none, telephone, handset or wearable")

	_ = viper.BindPFlag("google.pitch", sayCmd.Flags().Lookup("pitch"))
	_ = viper.BindPFlag("google.speaking_rate", sayCmd.Flags().Lookup("rate"))
	_ = viper.BindPFlag("google.volume_gain", sayCmd.Flags().Lookup("gain"))
	_ = viper.BindPFlag("google.effects_profile", sayCmd.Flags().Lookup("effects"))
}

func runSay(cmd *cobra.Command, args []string) error {
	if err := requireAPIKey(); err != nil {
		return err
	}

	text, err := sayText(args, os.Stdin)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	svc, err := newServices(settings)
	if err != nil {
		return err
	}
	if err := svc.ctrl.SetText(text); err != nil {
		return errors.New(tts.UserMessage(err))
	}
	if err := svc.loadCatalog(ctx); err != nil {
		return err
	}

	var language, voice string
	if cmd.Flags().Changed("language") {
		language, _ = cmd.Flags().GetString("language")
	}
	if cmd.Flags().Changed("voice") {
		voice, _ = cmd.Flags().GetString("voice")
	}
	if err := selectRequested(svc.ctrl, language, voice); err != nil {
		return err
	}

	_, params, err := svc.ctrl.PrepareSynthesis()
	if err != nil {
		return errors.New(tts.UserMessage(err))
	}
	log.Info("synthesizing", "voice", params.VoiceName, "language", params.LanguageCode, "length", tts.TextLength(params.Text))

	res, err := svc.requester.Synthesize(ctx, params)
	if err != nil {
		return errors.New(tts.UserMessage(err))
	}

	status := cmd.ErrOrStderr()
	fmt.Fprintf(status, "%s %s with %s\n", keyword("Synthesized"), humanize.Bytes(uint64(res.Size())), res.VoiceName) //nolint:gosec

	if err := writeSayOutput(cmd.OutOrStdout(), status, sayOutput, res); err != nil {
		return err
	}

	if sayNoPlay || sayOutput == "-" {
		return nil
	}

	player := newPlayer(settings.Audio)
	if player == nil {
		if sayOutput == "" {
			// nothing else would keep the audio
			return writeSayOutput(cmd.OutOrStdout(), status, filepath.Join(settings.OutputDir, ui.AudioFileName(res)), res)
		}
		return nil
	}
	defer player.Close() //nolint:errcheck

	return playToEnd(ctx, player, res.Data)
}

// sayText picks the text from --file, the arguments or piped stdin.
// selectRequested applies a language or voice named on the command line.
// Unlike the configured preferences, these never fall back to another
// choice.
func selectRequested(ctrl *tts.Controller, language, voice string) error {
	if language != "" {
		if err := ctrl.SelectLanguage(language); err != nil {
			return err
		}
	}
	if voice != "" {
		if err := ctrl.SelectVoice(voice); err != nil {
			return err
		}
	}
	return nil
}

func sayText(args []string, stdin io.Reader) (string, error) {
	switch {
	case sayFile != "":
		return source.Load(sayFile, source.Options{IncludeCode: sayCode})
	case len(args) == 1 && args[0] == "-":
		return source.Read(stdin)
	case len(args) > 0:
		return strings.TrimSpace(strings.Join(args, " ")), nil
	}

	if yes, err := stdinIsPipe(); err != nil {
		return "", err
	} else if yes {
		return source.Read(stdin)
	}
	return "", errors.New("nothing to say: pass some text, --file or pipe to stdin")
}

func writeSayOutput(stdout, status io.Writer, output string, res *tts.AudioResult) error {
	switch output {
	case "":
		return nil
	case "-":
		if f, ok := stdout.(*os.File); ok && isTerminal(f) {
			return errors.New("refusing to write audio to a terminal")
		}
		_, err := stdout.Write(res.Data)
		return err //nolint:wrapcheck
	}

	path := utils.ExpandPath(output)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:gosec
		return fmt.Errorf("unable to create directory: %w", err)
	}
	if err := os.WriteFile(path, res.Data, 0o644); err != nil { //nolint:gosec
		return fmt.Errorf("unable to write audio: %w", err)
	}
	fmt.Fprintf(status, "%s %s\n", subtle("Wrote"), path)
	return nil
}

// playToEnd plays data and blocks until it finishes or ctx is done.
func playToEnd(ctx context.Context, p audio.AudioPlayer, data []byte) error {
	if err := p.PlayMP3(data); err != nil {
		return fmt.Errorf("unable to play audio: %w", err)
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			_ = p.Stop()
			return nil
		case <-ticker.C:
			if p.State() != audio.StatePlaying {
				return nil
			}
		}
	}
}
