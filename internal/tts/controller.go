package tts

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/charmbracelet/log"
)

// ControllerConfig holds the starting values of the controller.
type ControllerConfig struct {
	// PreferredLanguage is selected after the first load when the catalog
	// serves it. Otherwise the first language tag is used.
	PreferredLanguage string

	// PreferredVoice is selected when it serves the selected language.
	PreferredVoice string

	Pitch          float64
	SpeakingRate   float64
	VolumeGainDb   float64
	EffectsProfile EffectsProfile
}

// DefaultControllerConfig returns neutral tuning with no preferences.
func DefaultControllerConfig() ControllerConfig {
	d := DefaultParameters()
	return ControllerConfig{
		Pitch:        d.Pitch,
		SpeakingRate: d.SpeakingRate,
		VolumeGainDb: d.VolumeGainDb,
	}
}

// Controller owns every piece of user-visible state: the text, the
// language and voice selection, the tuning values, the single message slot
// and the last produced audio. It is not safe for concurrent use; the UI
// event loop is its only caller.
type Controller struct {
	catalog *VoiceCatalog
	prefs   ControllerConfig

	text     string
	language string
	voice    string

	pitch          float64
	speakingRate   float64
	volumeGainDb   float64
	effectsProfile EffectsProfile

	message string
	audio   *AudioResult

	state    *StateMachine
	loading  bool
	loadGen  uint64
	synthGen uint64
}

// ControllerSnapshot is an immutable copy of the controller state used for
// rendering.
type ControllerSnapshot struct {
	Text           string
	TextLength     int
	Languages      []string
	Language       string
	Voices         []Voice
	Voice          string
	Pitch          float64
	SpeakingRate   float64
	VolumeGainDb   float64
	EffectsProfile EffectsProfile
	Message        string
	Audio          *AudioResult
	State          StateType
	Loading        bool
	CanSynthesize  bool
}

// NewController creates a controller over the given catalog.
func NewController(catalog *VoiceCatalog, cfg ControllerConfig) (*Controller, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog cannot be nil")
	}
	if cfg.SpeakingRate == 0 {
		cfg.SpeakingRate = DefaultParameters().SpeakingRate
	}
	if !cfg.EffectsProfile.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEffectsProfile, cfg.EffectsProfile)
	}
	if math.IsNaN(cfg.Pitch) || math.IsNaN(cfg.SpeakingRate) || math.IsNaN(cfg.VolumeGainDb) {
		return nil, errors.New("pitch, speaking rate and volume gain must be numbers")
	}

	return &Controller{
		catalog:        catalog,
		prefs:          cfg,
		pitch:          ClampPitch(cfg.Pitch),
		speakingRate:   ClampSpeakingRate(cfg.SpeakingRate),
		volumeGainDb:   ClampVolumeGain(cfg.VolumeGainDb),
		effectsProfile: cfg.EffectsProfile,
		state:          NewStateMachine(),
	}, nil
}

// Catalog returns the voice catalog the controller reads from.
func (c *Controller) Catalog() *VoiceCatalog {
	return c.catalog
}

// SetText replaces the text. Edits that would exceed MaxTextLength are
// rejected: the text is left unchanged and the message is set.
func (c *Controller) SetText(text string) error {
	if n := TextLength(text); n > MaxTextLength {
		c.message = MsgTextTooLong
		return NewTTSError(ErrorCodeValidation, MsgTextTooLong,
			fmt.Errorf("text is %d characters, limit is %d", n, MaxTextLength))
	}
	c.text = text
	c.message = ""
	return nil
}

// Text returns the current text.
func (c *Controller) Text() string {
	return c.text
}

// Language returns the selected language tag.
func (c *Controller) Language() string {
	return c.language
}

// Voice returns the selected voice name.
func (c *Controller) Voice() string {
	return c.voice
}

// Voices returns the voices selectable for the current language.
func (c *Controller) Voices() []Voice {
	if c.language == "" {
		return nil
	}
	return c.catalog.FilterByLanguage(c.language)
}

// SelectLanguage changes the language. When the selected voice does not
// serve the new language, the first voice that does is selected instead.
func (c *Controller) SelectLanguage(tag string) error {
	if !c.catalog.HasLanguage(tag) {
		return fmt.Errorf("%w: %q", ErrUnknownLanguage, tag)
	}
	c.language = tag
	c.ensureVoice()
	return nil
}

// SelectVoice changes the voice. It must serve the selected language.
func (c *Controller) SelectVoice(name string) error {
	for _, v := range c.Voices() {
		if v.Name == name {
			c.voice = name
			return nil
		}
	}
	return fmt.Errorf("%w: %q for %q", ErrUnknownVoice, name, c.language)
}

// CycleLanguage moves the language selection by delta, wrapping around.
func (c *Controller) CycleLanguage(delta int) {
	langs := c.catalog.Languages()
	if len(langs) == 0 {
		return
	}
	i := cycle(slices.Index(langs, c.language), delta, len(langs))
	_ = c.SelectLanguage(langs[i])
}

// CycleVoice moves the voice selection by delta, wrapping around.
func (c *Controller) CycleVoice(delta int) {
	voices := c.Voices()
	if len(voices) == 0 {
		return
	}
	idx := slices.IndexFunc(voices, func(v Voice) bool { return v.Name == c.voice })
	c.voice = voices[cycle(idx, delta, len(voices))].Name
}

// SetPitch sets the pitch, clamped into range. NaN is ignored.
func (c *Controller) SetPitch(v float64) {
	if !math.IsNaN(v) {
		c.pitch = ClampPitch(v)
	}
}

// SetSpeakingRate sets the speaking rate, clamped into range. NaN is ignored.
func (c *Controller) SetSpeakingRate(v float64) {
	if !math.IsNaN(v) {
		c.speakingRate = ClampSpeakingRate(v)
	}
}

// SetVolumeGain sets the volume gain in dB, clamped into range. NaN is ignored.
func (c *Controller) SetVolumeGain(v float64) {
	if !math.IsNaN(v) {
		c.volumeGainDb = ClampVolumeGain(v)
	}
}

// AdjustPitch moves the pitch by delta.
func (c *Controller) AdjustPitch(delta float64) { c.SetPitch(c.pitch + delta) }

// AdjustSpeakingRate moves the speaking rate by delta.
func (c *Controller) AdjustSpeakingRate(delta float64) { c.SetSpeakingRate(c.speakingRate + delta) }

// AdjustVolumeGain moves the volume gain by delta.
func (c *Controller) AdjustVolumeGain(delta float64) { c.SetVolumeGain(c.volumeGainDb + delta) }

// SetEffectsProfile selects an effects profile.
func (c *Controller) SetEffectsProfile(p EffectsProfile) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidEffectsProfile, p)
	}
	c.effectsProfile = p
	return nil
}

// CycleEffectsProfile moves the effects selection by delta, wrapping around.
func (c *Controller) CycleEffectsProfile(delta int) {
	i := cycle(slices.Index(EffectsProfiles, c.effectsProfile), delta, len(EffectsProfiles))
	c.effectsProfile = EffectsProfiles[i]
}

// SetMessage overwrites the message slot. The last message wins.
func (c *Controller) SetMessage(msg string) {
	c.message = msg
}

// ClearMessage empties the message slot.
func (c *Controller) ClearMessage() {
	c.message = ""
}

// Message returns the current user-facing message.
func (c *Controller) Message() string {
	return c.message
}

// Audio returns the last audio produced, or nil.
func (c *Controller) Audio() *AudioResult {
	return c.audio
}

// State returns the synthesis lifecycle state.
func (c *Controller) State() StateType {
	return c.state.Current()
}

// BeginLoad marks a catalog load as started and returns its token.
func (c *Controller) BeginLoad() uint64 {
	c.loadGen++
	c.loading = true
	return c.loadGen
}

// CatalogLoaded applies the outcome of the load identified by token.
// It returns false when the token is stale and nothing was applied.
func (c *Controller) CatalogLoaded(token uint64, err error) bool {
	if token != c.loadGen {
		log.Debug("ignoring stale catalog load", "token", token, "latest", c.loadGen)
		return false
	}
	c.loading = false

	switch {
	case errors.Is(err, ErrSuperseded):
		return false
	case errors.Is(err, ErrEmptyCatalog):
		c.language = ""
		c.voice = ""
		c.message = UserMessage(err)
		return true
	case err != nil:
		c.message = UserMessage(err)
		return true
	}

	c.ensureLanguage()
	c.ensureVoice()
	return true
}

// Loading reports whether a catalog load is outstanding.
func (c *Controller) Loading() bool {
	return c.loading
}

// Parameters builds synthesis parameters from the current state.
func (c *Controller) Parameters() SynthesisParameters {
	return SynthesisParameters{
		Text:           c.text,
		LanguageCode:   c.language,
		VoiceName:      c.voice,
		Pitch:          c.pitch,
		SpeakingRate:   c.speakingRate,
		VolumeGainDb:   c.volumeGainDb,
		EffectsProfile: c.effectsProfile,
	}
}

// CanSynthesize reports whether PrepareSynthesis would succeed.
func (c *Controller) CanSynthesize() bool {
	return c.Parameters().Validate() == nil
}

// PrepareSynthesis validates the current state and, when it is valid,
// moves to in-flight and returns the request token and parameters. On
// failure no request must be made; the message slot holds the reason.
func (c *Controller) PrepareSynthesis() (uint64, SynthesisParameters, error) {
	params := c.Parameters()
	if err := params.Validate(); err != nil {
		c.message = UserMessage(err)
		return 0, params, err
	}

	c.synthGen++
	c.state.Transition(StateInFlight)
	return c.synthGen, params, nil
}

// SynthesisDone applies the outcome of the request identified by token.
// Failures set the message and keep the previous audio. It returns false
// when the token is stale and nothing was applied.
func (c *Controller) SynthesisDone(token uint64, audio *AudioResult, err error) bool {
	if token != c.synthGen {
		log.Debug("ignoring stale synthesis result", "token", token, "latest", c.synthGen)
		return false
	}

	if err != nil {
		c.message = UserMessage(err)
		c.state.Transition(StateErrorShown)
		return true
	}

	c.audio = audio
	c.message = ""
	c.state.Transition(StateAudioReady)
	return true
}

// Snapshot returns an immutable copy of the current state.
func (c *Controller) Snapshot() ControllerSnapshot {
	return ControllerSnapshot{
		Text:           c.text,
		TextLength:     TextLength(c.text),
		Languages:      c.catalog.Languages(),
		Language:       c.language,
		Voices:         c.Voices(),
		Voice:          c.voice,
		Pitch:          c.pitch,
		SpeakingRate:   c.speakingRate,
		VolumeGainDb:   c.volumeGainDb,
		EffectsProfile: c.effectsProfile,
		Message:        c.message,
		Audio:          c.audio,
		State:          c.state.Current(),
		Loading:        c.loading,
		CanSynthesize:  c.CanSynthesize(),
	}
}

func (c *Controller) ensureLanguage() {
	if c.language != "" && c.catalog.HasLanguage(c.language) {
		return
	}
	if c.prefs.PreferredLanguage != "" && c.catalog.HasLanguage(c.prefs.PreferredLanguage) {
		c.language = c.prefs.PreferredLanguage
		return
	}
	langs := c.catalog.Languages()
	if len(langs) == 0 {
		c.language = ""
		return
	}
	c.language = langs[0]
}

func (c *Controller) ensureVoice() {
	voices := c.Voices()
	has := func(name string) bool {
		return name != "" && slices.ContainsFunc(voices, func(v Voice) bool { return v.Name == name })
	}
	switch {
	case has(c.voice):
	case has(c.prefs.PreferredVoice):
		c.voice = c.prefs.PreferredVoice
	case len(voices) > 0:
		c.voice = voices[0].Name
	default:
		c.voice = ""
	}
}

// cycle moves i by delta within [0, n). An index of -1 starts from the
// beginning.
func cycle(i, delta, n int) int {
	if i < 0 {
		if delta < 0 {
			return n - 1
		}
		return 0
	}
	return ((i+delta)%n + n) % n
}
