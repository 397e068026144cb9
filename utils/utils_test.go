package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRemoveFrontmatter(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no frontmatter", "# Title\nbody\n", "# Title\nbody\n"},
		{"yaml frontmatter", "---\ntitle: x\n---\n# Title\n", "# Title\n"},
		{"single rule", "---\n# Title\n", "---\n# Title\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(RemoveFrontmatter([]byte(tt.in))); got != tt.want {
				t.Errorf("RemoveFrontmatter() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsMarkdownFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"README.md", true},
		{"notes.MARKDOWN", true},
		{"LICENSE", true},
		{"speech.txt", false},
		{"main.go", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMarkdownFile(tt.name); got != tt.want {
				t.Errorf("IsMarkdownFile(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("CLOUDSPEAK_TEST_DIR", "/tmp/speech")
	if got := ExpandPath("$CLOUDSPEAK_TEST_DIR/out.mp3"); got != "/tmp/speech/out.mp3" {
		t.Errorf("ExpandPath() = %q", got)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandPath("~/out.mp3"); got != filepath.Join(home, "out.mp3") {
		t.Errorf("ExpandPath(~) = %q, want %q", got, filepath.Join(home, "out.mp3"))
	}
}
