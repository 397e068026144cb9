package google

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx answer from the provider.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("google tts: HTTP %d %s: %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("google tts: HTTP %d: %s", e.StatusCode, e.Message)
}

// ProviderRejected reports that the provider received and refused the
// request.
func (e *APIError) ProviderRejected() bool { return true }

// newAPIError decodes the provider's error envelope. Bodies that are not
// JSON are kept verbatim as the message.
func newAPIError(statusCode int, body []byte) *APIError {
	e := &APIError{StatusCode: statusCode}

	var env errorResponse
	if err := json.Unmarshal(body, &env); err == nil && env.Error.Message != "" {
		e.Status = env.Error.Status
		e.Message = env.Error.Message
		return e
	}

	e.Message = strings.TrimSpace(string(body))
	if e.Message == "" {
		e.Message = http.StatusText(statusCode)
	}
	return e
}
