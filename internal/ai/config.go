package ai

import (
	"os"
	"strings"
	"time"
)

// Environment variable names consulted when the config leaves a value empty.
const (
	DefaultAPIKeyEnv = "OPENAI_API_KEY"
	DefaultModelEnv  = "OPENAI_MODEL"
)

const (
	DefaultModel    = "gpt-4o-mini"
	DefaultEndpoint = "https://api.openai.com/v1"
	DefaultTimeout  = 120 * time.Second

	MaxOutputTokens = 2048
	Temperature     = 0.3
)

// JSONInstructions is sent as the instructions field of every request.
const JSONInstructions = `You are a JSON generator.
You must return valid JSON only.
Do not include markdown, code fences, comments, or explanations.
The output must be directly parseable by a strict JSON parser.
`

// Config holds the credential and model settings for the generation client.
// Explicit values win over the named environment variables.
type Config struct {
	APIKey    string
	APIKeyEnv string
	Model     string
	ModelEnv  string
	Endpoint  string
	Timeout   time.Duration
}

func (c Config) apiKeyEnv() string {
	if c.APIKeyEnv != "" {
		return c.APIKeyEnv
	}
	return DefaultAPIKeyEnv
}

func (c Config) resolveAPIKey() (string, error) {
	if key := strings.TrimSpace(c.APIKey); key != "" {
		return key, nil
	}
	if key := strings.TrimSpace(os.Getenv(c.apiKeyEnv())); key != "" {
		return key, nil
	}
	return "", &ConfigurationError{
		Message: "missing OpenAI API key; set the " + c.apiKeyEnv() +
			" environment variable or ai.api_key in seedling.config.json",
	}
}

func (c Config) resolveModel() string {
	if m := strings.TrimSpace(c.Model); m != "" {
		return m
	}
	env := c.ModelEnv
	if env == "" {
		env = DefaultModelEnv
	}
	if m := strings.TrimSpace(os.Getenv(env)); m != "" {
		return m
	}
	return DefaultModel
}

func (c Config) endpoint() string {
	if c.Endpoint == "" {
		return DefaultEndpoint
	}
	return strings.TrimSuffix(c.Endpoint, "/")
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}
