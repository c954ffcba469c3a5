package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Envelope is a decoded response body. It is either a FlatEnvelope or a
// StructuredEnvelope.
type Envelope interface {
	envelope()
}

// FlatEnvelope is a response that carries the generated text directly.
type FlatEnvelope struct {
	Text string
}

// StructuredEnvelope is a response that carries a list of output messages.
type StructuredEnvelope struct {
	Output []OutputMessage
}

func (FlatEnvelope) envelope()       {}
func (StructuredEnvelope) envelope() {}

type OutputMessage struct {
	Type    string        `json:"type"`
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

type ContentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

type responseBody struct {
	OutputText *string         `json:"output_text"`
	Output     []OutputMessage `json:"output"`
	Error      *apiError       `json:"error"`
}

// decodeEnvelope decodes a response body. A non-null error object in the
// body is returned as apiErr.
func decodeEnvelope(body []byte) (env Envelope, apiErr *apiError, err error) {
	var rb responseBody
	if err := json.Unmarshal(body, &rb); err != nil {
		return nil, nil, fmt.Errorf("failed to decode response envelope: %w", err)
	}
	if rb.Error != nil {
		return nil, rb.Error, nil
	}
	if rb.OutputText != nil {
		return FlatEnvelope{Text: *rb.OutputText}, nil, nil
	}
	return StructuredEnvelope{Output: rb.Output}, nil, nil
}

// ExtractText returns the textual payload of env. For structured envelopes
// that is every output_text part of the first assistant message, joined by
// newlines.
func ExtractText(env Envelope) (string, error) {
	switch e := env.(type) {
	case FlatEnvelope:
		return e.Text, nil
	case StructuredEnvelope:
		var msg *OutputMessage
		for i := range e.Output {
			if e.Output[i].Role == "assistant" {
				msg = &e.Output[i]
				break
			}
		}
		if msg == nil {
			return "", ErrNoAssistantMessage
		}

		var parts []string
		for _, c := range msg.Content {
			if c.Type == "output_text" {
				parts = append(parts, c.Text)
			}
		}
		if len(parts) == 0 {
			return "", ErrNoOutputText
		}
		return strings.Join(parts, "\n"), nil
	default:
		return "", fmt.Errorf("unsupported envelope %T", env)
	}
}
