package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strings"
)

var (
	openingFence = regexp.MustCompile("(?i)^```[a-z0-9_+-]*\\s*")
	closingFence = regexp.MustCompile("\\s*```$")
)

// ParseJSON decodes text as a single JSON value. If that fails, a surrounding
// markdown code fence is stripped and decoding is retried once.
//
// Integral numbers decode to int64, or stay json.Number when they do not fit.
// All other numbers decode to float64. A number outside the float64 range is
// an error.
func ParseJSON(text string) (any, error) {
	v, err := decodeJSON(text)
	if err == nil {
		return v, nil
	}

	if v, retryErr := decodeJSON(StripCodeFences(text)); retryErr == nil {
		return v, nil
	}
	return nil, &JSONExtractionError{Err: err}
}

// StripCodeFences removes a leading ```lang line and a trailing ``` from text.
func StripCodeFences(text string) string {
	s := strings.TrimSpace(text)
	s = openingFence.ReplaceAllString(s, "")
	s = closingFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func decodeJSON(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after top-level JSON value")
	}
	return normalizeNumbers(v)
}

func normalizeNumbers(v any) (any, error) {
	switch t := v.(type) {
	case json.Number:
		return normalizeNumber(t)
	case map[string]any:
		for k, val := range t {
			n, err := normalizeNumbers(val)
			if err != nil {
				return nil, err
			}
			t[k] = n
		}
		return t, nil
	case []any:
		for i, val := range t {
			n, err := normalizeNumbers(val)
			if err != nil {
				return nil, err
			}
			t[i] = n
		}
		return t, nil
	default:
		return v, nil
	}
}

func normalizeNumber(n json.Number) (any, error) {
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	if !strings.ContainsAny(n.String(), ".eE") {
		// Integer literal beyond int64, kept verbatim.
		return n, nil
	}
	f, _ := n.Float64()
	if math.IsInf(f, 0) {
		return nil, fmt.Errorf("number %s is out of range", n)
	}
	return f, nil
}
