// Package ollama implements llm.Generator against an Ollama instance's
// generate API.
package ollama

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

// Config holds Ollama backend settings.
type Config struct {
	BaseURL string        // e.g. "http://localhost:11434"
	Model   string        // e.g. "llama3"
	Timeout time.Duration // default 30s
}

// Generator calls Ollama's /api/generate endpoint.
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
		return nil, fmt.Errorf("ollama: BaseURL is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("ollama: Model is required")
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
func (g *Generator) Name() string { return "ollama" }

// generateRequest is the Ollama generate API request body.
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// generateResponse is the Ollama generate API response body.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate performs a single non-streaming completion.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  g.cfg.Model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := g.client.Do(req)
	observability.LLMLatency.WithLabelValues(g.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.LLMRequestsTotal.WithLabelValues(g.Name(), "network_error").Inc()
		return "", fmt.Errorf("calling ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		observability.LLMRequestsTotal.WithLabelValues(g.Name(), fmt.Sprint(resp.StatusCode)).Inc()
		return "", fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		observability.LLMRequestsTotal.WithLabelValues(g.Name(), "malformed").Inc()
		return "", fmt.Errorf("decoding response: %w", err)
	}

	observability.LLMRequestsTotal.WithLabelValues(g.Name(), "ok").Inc()
	return genResp.Response, nil
}

// Close releases backend resources.
func (g *Generator) Close() error {
	g.client.CloseIdleConnections()
	return nil
}
