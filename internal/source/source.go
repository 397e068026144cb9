// Package source loads the text to be spoken from files and standard input.
package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgnsrekt/cloudspeak/utils"
)

// Load reads path and returns its text. Markdown files are flattened to
// plain prose and stripped of front matter; other files are returned as
// they are, minus surrounding whitespace.
func Load(path string, opts Options) (string, error) {
	path = utils.ExpandPath(path)

	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("unable to read %s: %w", path, err)
	}
	return FromBytes(b, utils.IsMarkdownFile(path), opts), nil
}

// Read consumes r, typically standard input, as plain text.
func Read(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("unable to read input: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

// FromBytes converts raw file content to speakable text.
func FromBytes(b []byte, markdown bool, opts Options) string {
	if !markdown {
		return strings.TrimSpace(string(b))
	}
	return MarkdownToText(utils.RemoveFrontmatter(b), opts)
}
