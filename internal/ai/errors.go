package ai

import (
	"errors"
	"fmt"
)

var (
	ErrNoAssistantMessage = errors.New("no assistant message in response")
	ErrNoOutputText       = errors.New("no output_text content in response")
)

// ConfigurationError is returned before any network call when the client
// cannot be configured.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// Categories of RemoteServiceError.
const (
	CategoryTransport = "transport"
	CategoryStatus    = "http_status"
	CategoryAPI       = "api_error"
)

// RemoteServiceError wraps failures reported by, or on the way to, the
// generation service.
type RemoteServiceError struct {
	Category   string
	StatusCode int
	Message    string
	Err        error
}

func (e *RemoteServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("OpenAI request failed (%s, status %d): %s", e.Category, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("OpenAI request failed (%s): %s", e.Category, e.Message)
}

func (e *RemoteServiceError) Unwrap() error {
	return e.Err
}

// JSONExtractionError carries the parse error of the unmodified text.
type JSONExtractionError struct {
	Err error
}

func (e *JSONExtractionError) Error() string {
	return fmt.Sprintf("unable to parse JSON output: %v", e.Err)
}

func (e *JSONExtractionError) Unwrap() error {
	return e.Err
}
