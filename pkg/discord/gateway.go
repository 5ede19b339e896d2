package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/couchgm/couchgm/pkg/api"
	"github.com/couchgm/couchgm/pkg/auth"
)

// defaultGatewayTimeout bounds one question round trip, including the
// gateway's own upstream and generation time.
const defaultGatewayTimeout = 60 * time.Second

// Gateway is the HTTP client the bot uses to ask the couchgm gateway.
type Gateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewGateway creates a gateway client. A zero timeout selects the default.
func NewGateway(baseURL, apiKey string, timeout time.Duration) *Gateway {
	if timeout == 0 {
		timeout = defaultGatewayTimeout
	}
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Ask sends one question to the gateway and returns the reply text.
func (g *Gateway) Ask(ctx context.Context, query, userID string) (string, error) {
	body, err := json.Marshal(api.QueryRequest{Query: query, UserID: userID})
	if err != nil {
		return "", fmt.Errorf("encoding query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/query", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.HeaderName, g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("asking gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var qr api.QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return "", fmt.Errorf("decoding gateway response: %w", err)
	}
	if qr.Response == "" && qr.Error != "" {
		return "", fmt.Errorf("gateway error: %s", qr.Error)
	}
	return qr.Response, nil
}
