package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/dustin/go-humanize/english"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dgnsrekt/cloudspeak/internal/tts"
)

var (
	voicesRaw bool

	voicesCmd = &cobra.Command{
		Use:   "voices",
		Short: "List the available voices",
		Long: paragraph(fmt.Sprintf("\n%s the voices offered by the provider, optionally only those serving --language.",
			keyword("List"))),
		Example: paragraph("cloudspeak voices\ncloudspeak voices -l en-GB"),
		Args:    cobra.NoArgs,
		RunE:    runVoices,
	}
)

func init() {
	voicesCmd.Flags().BoolVar(&voicesRaw, "raw", false, "print the markdown table without rendering")
}

func runVoices(cmd *cobra.Command, _ []string) error {
	if err := requireAPIKey(); err != nil {
		return err
	}

	svc, err := newServices(settings)
	if err != nil {
		return err
	}
	if err := svc.loadCatalog(cmd.Context()); err != nil {
		return err
	}

	voices := svc.catalog.Voices()
	title := "Voices"
	if cmd.Flags().Changed("language") {
		lang, _ := cmd.Flags().GetString("language")
		voices = svc.catalog.FilterByLanguage(lang)
		title = "Voices for " + tts.LanguageLabel(lang)
	}

	md := voicesMarkdown(title, voices)

	out := cmd.OutOrStdout()
	if voicesRaw || !isTerminal(os.Stdout) {
		_, err := fmt.Fprint(out, md)
		return err //nolint:wrapcheck
	}

	rendered, err := renderMarkdown(md)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, rendered)
	return err //nolint:wrapcheck
}

// voicesMarkdown renders voices as a markdown table.
func voicesMarkdown(title string, voices []tts.Voice) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)

	if len(voices) == 0 {
		b.WriteString(tts.MsgEmptyCatalog + "\n")
		return b.String()
	}

	b.WriteString("| Name | Languages | Gender | Sample rate |\n")
	b.WriteString("|------|-----------|--------|-------------|\n")
	for _, v := range voices {
		langs := make([]string, len(v.LanguageCodes))
		for i, tag := range v.LanguageCodes {
			langs[i] = tts.LanguageLabel(tag)
		}
		rate := ""
		if v.NaturalSampleRateHertz > 0 {
			rate = fmt.Sprintf("%d Hz", v.NaturalSampleRateHertz)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", v.Name, strings.Join(langs, ", "), strings.ToLower(v.SSMLGender), rate)
	}
	fmt.Fprintf(&b, "\n%s\n", english.Plural(len(voices), "voice", "voices"))
	return b.String()
}

func renderMarkdown(md string) (string, error) {
	style := styles.LightStyle
	if termenv.HasDarkBackground() {
		style = styles.DarkStyle
	}

	width := 100
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 { //nolint:gosec
		width = min(w, 120)
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("unable to create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("unable to render markdown: %w", err)
	}
	return out, nil
}
