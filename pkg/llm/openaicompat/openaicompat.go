// Package openaicompat implements llm.Generator against an
// OpenAI-compatible Chat Completions backend (vLLM, LiteLLM, OpenAI).
package openaicompat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/couchgm/couchgm/pkg/llm"
	"github.com/couchgm/couchgm/pkg/observability"
)

// Config holds Chat Completions backend settings.
type Config struct {
	BaseURL string        // e.g. "http://localhost:8000"
	APIKey  string        // optional bearer token
	Model   string        // required
	Timeout time.Duration // default 30s
}

// Generator calls the /v1/chat/completions endpoint with a single user
// message per prompt.
type Generator struct {
	cfg    Config
	client *http.Client
}

// Ensure Generator implements llm.Generator at compile time.
var _ llm.Generator = (*Generator)(nil)

// New creates a Generator with the given configuration.
// Returns an error if the configuration is invalid.
func New(cfg Config) (*Generator, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("openaicompat: BaseURL is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("openaicompat: Model is required")
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Generator{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Name returns the backend identifier.
func (g *Generator) Name() string { return "openaicompat" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate performs a single non-streaming completion.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    g.cfg.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	observability.LLMLatency.WithLabelValues(g.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.LLMRequestsTotal.WithLabelValues(g.Name(), "network_error").Inc()
		return "", fmt.Errorf("calling backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		observability.LLMRequestsTotal.WithLabelValues(g.Name(), fmt.Sprint(resp.StatusCode)).Inc()
		return "", fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		observability.LLMRequestsTotal.WithLabelValues(g.Name(), "malformed").Inc()
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		observability.LLMRequestsTotal.WithLabelValues(g.Name(), "empty").Inc()
		return "", fmt.Errorf("backend returned no choices")
	}

	observability.LLMRequestsTotal.WithLabelValues(g.Name(), "ok").Inc()
	return chatResp.Choices[0].Message.Content, nil
}

// Close releases backend resources.
func (g *Generator) Close() error {
	g.client.CloseIdleConnections()
	return nil
}
