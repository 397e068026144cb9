package tts

import (
	"errors"
	"fmt"
)

// Common TTS errors
var (
	// ErrFetchFailure indicates a transport or parse failure talking to the provider
	ErrFetchFailure = errors.New("request to speech provider failed")

	// ErrEmptyCatalog indicates the provider listed no voices
	ErrEmptyCatalog = errors.New("provider returned no voices")

	// ErrNoAudioReturned indicates the provider answered without audio
	ErrNoAudioReturned = errors.New("provider returned no audio")

	// ErrValidationRejection indicates a local precondition failed before any request
	ErrValidationRejection = errors.New("input rejected")

	// ErrSuperseded indicates a response arrived after a newer request started
	ErrSuperseded = errors.New("response superseded by a newer request")

	// ErrNoVoiceSelected indicates synthesis was requested without a voice
	ErrNoVoiceSelected = errors.New("no voice selected")

	// ErrUnknownLanguage indicates a language tag that is not in the catalog
	ErrUnknownLanguage = errors.New("language not in catalog")

	// ErrUnknownVoice indicates a voice that does not serve the selected language
	ErrUnknownVoice = errors.New("voice not available for language")

	// ErrInvalidEffectsProfile indicates an effects profile outside the known set
	ErrInvalidEffectsProfile = errors.New("invalid effects profile")
)

// ErrorCode identifies specific error types
type ErrorCode string

const (
	ErrorCodeFetchFailure    ErrorCode = "FETCH_FAILURE"
	ErrorCodeEmptyCatalog    ErrorCode = "EMPTY_CATALOG"
	ErrorCodeNoAudioReturned ErrorCode = "NO_AUDIO_RETURNED"
	ErrorCodeValidation      ErrorCode = "VALIDATION_REJECTION"
	ErrorCodeSuperseded      ErrorCode = "SUPERSEDED"
)

var codeSentinels = map[ErrorCode]error{
	ErrorCodeFetchFailure:    ErrFetchFailure,
	ErrorCodeEmptyCatalog:    ErrEmptyCatalog,
	ErrorCodeNoAudioReturned: ErrNoAudioReturned,
	ErrorCodeValidation:      ErrValidationRejection,
	ErrorCodeSuperseded:      ErrSuperseded,
}

// TTSError represents a TTS-specific error with additional context
type TTSError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface
func (e *TTSError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *TTSError) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel error associated with the error code, so callers
// can write errors.Is(err, ErrFetchFailure).
func (e *TTSError) Is(target error) bool {
	sentinel, ok := codeSentinels[e.Code]
	return ok && sentinel == target
}

// NewTTSError creates a new TTS error
func NewTTSError(code ErrorCode, message string, cause error) *TTSError {
	return &TTSError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// User-facing messages. All failures resolve to exactly one of these.
const (
	MsgCatalogFetchFailure = "There was an error fetching the voices. Please try again later."
	MsgEmptyCatalog        = "No voices were found."
	MsgTextTooLong         = "Text must not exceed 5000 characters."
	MsgTextEmpty           = "Enter some text to synthesize."
	MsgNoVoiceSelected     = "Select a voice first."
	MsgNoAudioReturned     = "Error generating the audio."
	MsgSynthesisFailure    = "There was an error generating the audio. Please try again."
)

// UserMessage maps an error to the single human-readable message shown to
// the user. It returns "" for nil and for superseded responses, which are
// never shown.
func UserMessage(err error) string {
	switch {
	case err == nil, errors.Is(err, ErrSuperseded):
		return ""
	case errors.Is(err, ErrEmptyCatalog):
		return MsgEmptyCatalog
	case errors.Is(err, ErrNoAudioReturned):
		return MsgNoAudioReturned
	case errors.Is(err, ErrNoVoiceSelected):
		return MsgNoVoiceSelected
	case errors.Is(err, ErrValidationRejection):
		var te *TTSError
		if errors.As(err, &te) && te.Message != "" {
			return te.Message
		}
		return MsgTextTooLong
	case errors.Is(err, ErrFetchFailure):
		var te *TTSError
		if errors.As(err, &te) && te.Message != "" {
			return te.Message
		}
		return MsgSynthesisFailure
	default:
		return err.Error()
	}
}
