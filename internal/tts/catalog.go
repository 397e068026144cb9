package tts

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// VoiceCatalog holds the provider's voice list and the language tags
// derived from it. A load replaces the whole catalog; it is never merged.
type VoiceCatalog struct {
	provider Provider

	mu        sync.RWMutex
	voices    []Voice
	languages []string

	// generation of the most recently started load
	gen atomic.Uint64
}

// Snapshot is an immutable view of the catalog at one point in time.
type Snapshot struct {
	Voices    []Voice
	Languages []string
}

// NewVoiceCatalog creates an empty catalog backed by the given provider.
func NewVoiceCatalog(p Provider) *VoiceCatalog {
	return &VoiceCatalog{provider: p}
}

// Load fetches the voice list once and replaces the catalog with it.
//
// It fails with ErrEmptyCatalog when the provider lists no voices, which
// also clears the catalog, and with ErrFetchFailure when the request or
// its parsing fails, which leaves the previous catalog in place. When a
// newer Load starts before this one resolves, the result is dropped and
// ErrSuperseded is returned.
func (c *VoiceCatalog) Load(ctx context.Context) (Snapshot, error) {
	gen := c.gen.Add(1)

	voices, err := c.provider.ListVoices(ctx)
	if err != nil {
		log.Debug("voice listing failed", "error", err)
		if c.gen.Load() != gen {
			return Snapshot{}, NewTTSError(ErrorCodeSuperseded, "stale voice listing", err)
		}
		return c.Snapshot(), NewTTSError(ErrorCodeFetchFailure, MsgCatalogFetchFailure, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen.Load() != gen {
		log.Debug("dropping stale voice listing", "generation", gen)
		return Snapshot{}, NewTTSError(ErrorCodeSuperseded, "stale voice listing", nil)
	}

	if len(voices) == 0 {
		c.voices = nil
		c.languages = nil
		return Snapshot{}, NewTTSError(ErrorCodeEmptyCatalog, MsgEmptyCatalog, nil)
	}

	c.voices = cloneVoices(voices)
	c.languages = LanguageTags(c.voices)
	log.Debug("voices loaded", "voices", len(c.voices), "languages", len(c.languages))

	return Snapshot{
		Voices:    cloneVoices(c.voices),
		Languages: slices.Clone(c.languages),
	}, nil
}

// FilterByLanguage returns, in catalog order, every voice that serves tag.
// The result is empty when nothing matches or the catalog is empty.
func (c *VoiceCatalog) FilterByLanguage(tag string) []Voice {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return FilterVoices(c.voices, tag)
}

// Voices returns a copy of every voice in the catalog.
func (c *VoiceCatalog) Voices() []Voice {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneVoices(c.voices)
}

// Languages returns the distinct language tags in order of first
// appearance.
func (c *VoiceCatalog) Languages() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.languages)
}

// Len returns the number of voices in the catalog.
func (c *VoiceCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.voices)
}

// HasLanguage reports whether any voice serves tag.
func (c *VoiceCatalog) HasLanguage(tag string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Contains(c.languages, tag)
}

// Lookup finds a voice by name.
func (c *VoiceCatalog) Lookup(name string) (Voice, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, v := range c.voices {
		if v.Name == name {
			return v, true
		}
	}
	return Voice{}, false
}

// Snapshot returns the current catalog contents.
func (c *VoiceCatalog) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		Voices:    cloneVoices(c.voices),
		Languages: slices.Clone(c.languages),
	}
}

// LanguageTags flattens the language codes of every voice and removes
// duplicates, keeping the order of first appearance.
func LanguageTags(voices []Voice) []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, v := range voices {
		for _, tag := range v.LanguageCodes {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	return tags
}

// FilterVoices returns the voices that serve tag, preserving order.
func FilterVoices(voices []Voice, tag string) []Voice {
	var out []Voice
	for _, v := range voices {
		if v.Supports(tag) {
			out = append(out, v)
		}
	}
	return out
}

func cloneVoices(voices []Voice) []Voice {
	if voices == nil {
		return nil
	}
	out := make([]Voice, len(voices))
	for i, v := range voices {
		v.LanguageCodes = slices.Clone(v.LanguageCodes)
		out[i] = v
	}
	return out
}
