package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/Rana718/seedling/internal/logging"
)

// Client calls a Responses-style generation API and returns its output as
// decoded JSON. It holds no per-call state.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(cfg Config, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.timeout()},
		logger:     logging.OrNop(logger),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type inputPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type inputMessage struct {
	Role    string      `json:"role"`
	Content []inputPart `json:"content"`
}

type responsesRequest struct {
	Model           string         `json:"model"`
	Instructions    string         `json:"instructions"`
	Input           []inputMessage `json:"input"`
	MaxOutputTokens int            `json:"max_output_tokens"`
	Temperature     float64        `json:"temperature"`
}

// Generate sends prompt to the service and returns the parsed JSON value of
// the reply. There are no retries.
func (c *Client) Generate(ctx context.Context, prompt string) (any, error) {
	apiKey, err := c.cfg.resolveAPIKey()
	if err != nil {
		return nil, err
	}
	model := c.cfg.resolveModel()

	c.logger.Debug("sending prompt", "model", model, "prompt_chars", len(prompt))

	body, err := c.send(ctx, apiKey, model, prompt)
	if err != nil {
		return nil, c.fail(err)
	}

	env, apiErr, err := decodeEnvelope(body)
	if err != nil {
		return nil, c.fail(err)
	}
	if apiErr != nil {
		return nil, c.fail(&RemoteServiceError{
			Category: CategoryAPI,
			Message:  apiErr.Message,
		})
	}

	text, err := ExtractText(env)
	if err != nil {
		c.logger.Error("unusable response envelope", "error", err, "response", string(body))
		return nil, fmt.Errorf("extract output text: %w", err)
	}
	c.logger.Debug("received output text", "chars", len(text))

	v, err := ParseJSON(text)
	if err != nil {
		c.logger.Error("failed to parse JSON output")
		c.logger.Debug("raw output text", "text", text)
		return nil, err
	}
	return v, nil
}

func (c *Client) send(ctx context.Context, apiKey, model, prompt string) ([]byte, error) {
	reqBody := responsesRequest{
		Model:        model,
		Instructions: JSONInstructions,
		Input: []inputMessage{{
			Role:    "user",
			Content: []inputPart{{Type: "input_text", Text: prompt}},
		}},
		MaxOutputTokens: MaxOutputTokens,
		Temperature:     Temperature,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.endpoint()+"/responses", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("X-Client-Request-Id", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RemoteServiceError{Category: CategoryTransport, Message: err.Error(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RemoteServiceError{
			Category:   CategoryTransport,
			StatusCode: resp.StatusCode,
			Message:    "failed to read response: " + err.Error(),
			Err:        err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(bytes.TrimSpace(body))
		if _, apiErr, decErr := decodeEnvelope(body); decErr == nil && apiErr != nil && apiErr.Message != "" {
			msg = apiErr.Message
		}
		return nil, &RemoteServiceError{
			Category:   CategoryStatus,
			StatusCode: resp.StatusCode,
			Message:    msg,
		}
	}
	return body, nil
}

// fail logs err and hands it back unchanged.
func (c *Client) fail(err error) error {
	var rse *RemoteServiceError
	if errors.As(err, &rse) {
		c.logger.Error("OpenAI API error", "category", rse.Category, "status", rse.StatusCode, "message", rse.Message)
		return err
	}
	c.logger.Error("unexpected error calling OpenAI", "error", err)
	return err
}
