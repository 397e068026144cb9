package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestMarkdownToText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		opts Options
		want string
	}{
		{
			name: "heading and paragraph",
			in:   "# Title\n\nSome *emphasis* and **bold** text.\n",
			want: "Title\n\nSome emphasis and bold text.",
		},
		{
			name: "soft break becomes space",
			in:   "first line\nsecond line\n",
			want: "first line second line",
		},
		{
			name: "links keep their label",
			in:   "See [the docs](https://example.com) or <https://go.dev>.\n",
			want: "See the docs or https://go.dev.",
		},
		{
			name: "inline code is read",
			in:   "Run `make build` now.\n",
			want: "Run make build now.",
		},
		{
			name: "lists",
			in:   "- one\n- two\n",
			want: "one\n\ntwo",
		},
		{
			name: "code blocks dropped",
			in:   "Intro.\n\n```go\nfmt.Println(1)\n```\n",
			want: "Intro.",
		},
		{
			name: "code blocks kept",
			in:   "Intro.\n\n```go\nfmt.Println(1)\n```\n",
			opts: Options{IncludeCode: true},
			want: "Intro.\n\nfmt.Println(1)",
		},
		{
			name: "html dropped",
			in:   "<div>\nhidden\n</div>\n\nShown.\n",
			want: "Shown.",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MarkdownToText([]byte(tt.in), tt.opts); got != tt.want {
				t.Errorf("MarkdownToText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	md := filepath.Join(dir, "notes.md")
	if err := os.WriteFile(md, []byte("---\ntitle: x\n---\n# Hello\n\nWorld.\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txt, []byte("  # not a heading  \n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path string
		want string
	}{
		{md, "Hello\n\nWorld."},
		{txt, "# not a heading"},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			got, err := Load(tt.path, Options{})
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Load() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.md"), Options{}); err == nil {
		t.Error("Load() of missing file succeeded")
	}
}

func TestRead(t *testing.T) {
	got, err := Read(strings.NewReader("\n hello stdin \n"))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got != "hello stdin" {
		t.Errorf("Read() = %q, want %q", got, "hello stdin")
	}
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "speech.txt")
	if err := os.WriteFile(path, []byte("before"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path, Options{})
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	// unrelated files in the same directory are ignored
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("after"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := w.Next(ctx)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if got != "after" {
		t.Errorf("Next() = %q, want %q", got, "after")
	}
}

func TestWatcherContextCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "speech.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path, Options{})
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := w.Next(ctx); err != context.Canceled {
		t.Errorf("Next() error = %v, want context.Canceled", err)
	}
}
