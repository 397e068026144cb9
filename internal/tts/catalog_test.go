package tts

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
)

func voiceNames(voices []Voice) []string {
	names := make([]string, len(voices))
	for i, v := range voices {
		names[i] = v.Name
	}
	return names
}

func TestCatalogLoad(t *testing.T) {
	p := &fakeProvider{voices: sampleVoices()}
	c := NewVoiceCatalog(p)

	snap, err := c.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	wantLangs := []string{"en-US", "en-GB", "es-ES"}
	if !slices.Equal(snap.Languages, wantLangs) {
		t.Errorf("Languages = %v, want %v", snap.Languages, wantLangs)
	}
	if !slices.Equal(c.Languages(), wantLangs) {
		t.Errorf("catalog Languages() = %v, want %v", c.Languages(), wantLangs)
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}

	got := voiceNames(c.FilterByLanguage("en-GB"))
	if !slices.Equal(got, []string{"B"}) {
		t.Errorf("FilterByLanguage(en-GB) = %v, want [B]", got)
	}
}

func TestCatalogFilterByLanguage(t *testing.T) {
	p := &fakeProvider{voices: sampleVoices()}
	c := NewVoiceCatalog(p)
	if _, err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		tag  string
		want []string
	}{
		{"en-US", []string{"A", "B"}},
		{"en-GB", []string{"B"}},
		{"es-ES", []string{"C"}},
		{"fr-FR", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got := c.FilterByLanguage(tt.tag)
			if !slices.Equal(voiceNames(got), tt.want) {
				t.Errorf("FilterByLanguage(%q) = %v, want %v", tt.tag, voiceNames(got), tt.want)
			}

			// every voice serving the tag is present exactly once
			var expected []string
			for _, v := range c.Voices() {
				if v.Supports(tt.tag) {
					expected = append(expected, v.Name)
				}
			}
			if !slices.Equal(voiceNames(got), expected) {
				t.Errorf("FilterByLanguage(%q) = %v, want %v", tt.tag, voiceNames(got), expected)
			}
		})
	}
}

func TestCatalogLanguagesAreDistinct(t *testing.T) {
	voices := []Voice{
		{Name: "x", LanguageCodes: []string{"de-DE", "en-US"}},
		{Name: "y", LanguageCodes: []string{"en-US", "de-DE"}},
		{Name: "z", LanguageCodes: []string{"fr-FR", "de-DE"}},
	}

	got := LanguageTags(voices)
	want := []string{"de-DE", "en-US", "fr-FR"}
	if !slices.Equal(got, want) {
		t.Errorf("LanguageTags() = %v, want %v", got, want)
	}
}

func TestCatalogEmpty(t *testing.T) {
	p := &fakeProvider{voices: sampleVoices()}
	c := NewVoiceCatalog(p)
	if _, err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	p.setVoices(nil)
	_, err := c.Load(context.Background())
	if !errors.Is(err, ErrEmptyCatalog) {
		t.Fatalf("Load() error = %v, want ErrEmptyCatalog", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
	if len(c.Languages()) != 0 {
		t.Errorf("Languages() = %v, want empty", c.Languages())
	}
	if got := UserMessage(err); got != MsgEmptyCatalog {
		t.Errorf("UserMessage() = %q, want %q", got, MsgEmptyCatalog)
	}
}

func TestCatalogFetchFailureKeepsPrevious(t *testing.T) {
	p := &fakeProvider{voices: sampleVoices()}
	c := NewVoiceCatalog(p)
	if _, err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	p.mu.Lock()
	p.listErr = errors.New("connection refused")
	p.mu.Unlock()

	snap, err := c.Load(context.Background())
	if !errors.Is(err, ErrFetchFailure) {
		t.Fatalf("Load() error = %v, want ErrFetchFailure", err)
	}
	if len(snap.Voices) != 3 {
		t.Errorf("snapshot voices = %d, want 3", len(snap.Voices))
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want previous catalog of 3", c.Len())
	}
	if got := UserMessage(err); got != MsgCatalogFetchFailure {
		t.Errorf("UserMessage() = %q, want %q", got, MsgCatalogFetchFailure)
	}
}

func TestCatalogLoadIdempotent(t *testing.T) {
	p := &fakeProvider{voices: sampleVoices()}
	c := NewVoiceCatalog(p)

	first, err := c.Load(context.Background())
	if err != nil {
		t.Fatalf("first Load() error = %v", err)
	}
	second, err := c.Load(context.Background())
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}

	if !slices.Equal(first.Languages, second.Languages) {
		t.Errorf("Languages changed: %v then %v", first.Languages, second.Languages)
	}
	if !slices.Equal(voiceNames(first.Voices), voiceNames(second.Voices)) {
		t.Errorf("Voices changed: %v then %v", voiceNames(first.Voices), voiceNames(second.Voices))
	}
	if list, _ := p.calls(); list != 2 {
		t.Errorf("ListVoices calls = %d, want 2", list)
	}
}

func TestCatalogStaleLoadIsDropped(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	p := &fakeProvider{voices: []Voice{{Name: "old", LanguageCodes: []string{"ja-JP"}}}}
	p.listHook = func(call int) {
		if call == 1 {
			close(started)
			<-release
		}
	}
	c := NewVoiceCatalog(p)

	var (
		wg       sync.WaitGroup
		staleErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, staleErr = c.Load(context.Background())
	}()

	<-started
	p.setVoices(sampleVoices())
	if _, err := c.Load(context.Background()); err != nil {
		t.Fatalf("newer Load() error = %v", err)
	}

	close(release)
	wg.Wait()

	if !errors.Is(staleErr, ErrSuperseded) {
		t.Errorf("stale Load() error = %v, want ErrSuperseded", staleErr)
	}
	if UserMessage(staleErr) != "" {
		t.Errorf("UserMessage(stale) = %q, want empty", UserMessage(staleErr))
	}
	if c.HasLanguage("ja-JP") {
		t.Error("stale response replaced the catalog")
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}

func TestCatalogLookup(t *testing.T) {
	p := &fakeProvider{voices: sampleVoices()}
	c := NewVoiceCatalog(p)
	if _, err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	v, ok := c.Lookup("B")
	if !ok {
		t.Fatal("Lookup(B) not found")
	}
	if v.Label() != "B (en-US)" {
		t.Errorf("Label() = %q, want %q", v.Label(), "B (en-US)")
	}
	if _, ok := c.Lookup("missing"); ok {
		t.Error("Lookup(missing) found a voice")
	}
}

func TestCatalogReturnsCopies(t *testing.T) {
	p := &fakeProvider{voices: sampleVoices()}
	c := NewVoiceCatalog(p)
	if _, err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	voices := c.Voices()
	voices[0].Name = "mutated"
	voices[1].LanguageCodes[0] = "xx-XX"

	if _, ok := c.Lookup("A"); !ok {
		t.Error("mutating Voices() result changed the catalog")
	}
	if !c.HasLanguage("en-US") {
		t.Error("mutating language codes changed the catalog")
	}
}
