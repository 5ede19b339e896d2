// Package sleeper provides the data client for the Sleeper fantasy sports
// API. The client resolves function calls produced by the router into
// upstream GET requests and normalizes every outcome, success or failure,
// into an api.FunctionResult. Nothing raises past the Invoke boundary:
// timeouts, connection errors, non-2xx statuses, and malformed payloads
// all become Failure results carrying the function name, so one failing
// call can never abort its siblings.
package sleeper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchgm/couchgm/pkg/api"
	"github.com/couchgm/couchgm/pkg/debug"
	"github.com/couchgm/couchgm/pkg/observability"
)

// DefaultBaseURL is the public Sleeper API endpoint. It requires no
// authentication; all operations are read-only lookups.
const DefaultBaseURL = "https://api.sleeper.app/v1"

// maxResponseBytes bounds upstream response bodies (the players endpoint
// in particular can be large).
const maxResponseBytes = 16 << 20 // 16 MB

// Config holds Sleeper client settings.
type Config struct {
	BaseURL            string
	Timeout            time.Duration // per-request bound, default 30s
	CacheTTL           time.Duration // response cache TTL, default 5m
	CacheSize          int           // max cached responses, default 1000
	RateLimitPerMinute int           // client-side request budget, default 1000
}

// Client issues requests to the Sleeper API. Safe for concurrent use.
type Client struct {
	cfg     Config
	client  *http.Client
	cache   *responseCache
	limiter *minuteLimiter
	logger  *slog.Logger
}

// New creates a Client with the given configuration.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.CacheSize == 0 {
		cfg.CacheSize = 1000
	}
	if cfg.RateLimitPerMinute == 0 {
		cfg.RateLimitPerMinute = 1000
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		cache:   newResponseCache(cfg.CacheSize, cfg.CacheTTL),
		limiter: newMinuteLimiter(cfg.RateLimitPerMinute),
		logger:  logger,
	}
}

// Ping verifies connectivity to the Sleeper API. Used during startup so
// the gateway can report readiness.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.getJSON(ctx, "get_nfl_state", "/state/nfl")
	return err
}

// Invoke executes one function call and returns its normalized result.
// Failure messages always include the function name.
func (c *Client) Invoke(ctx context.Context, call api.FunctionCall) api.FunctionResult {
	data, err := c.dispatch(ctx, call)
	if err != nil {
		c.logger.Warn("sleeper call failed",
			"function", call.Name,
			"error", err,
		)
		return api.FunctionResult{
			Function:   call.Name,
			Parameters: call.Parameters,
			Status:     api.ResultError,
			Error:      fmt.Sprintf("%s: %v", call.Name, err),
		}
	}
	return api.FunctionResult{
		Function:   call.Name,
		Parameters: call.Parameters,
		Status:     api.ResultSuccess,
		Data:       data,
	}
}

func (c *Client) dispatch(ctx context.Context, call api.FunctionCall) (json.RawMessage, error) {
	p := call.Parameters
	switch call.Name {
	case "get_user":
		identifier, err := required(p, "identifier")
		if err != nil {
			return nil, err
		}
		return c.getJSON(ctx, call.Name, "/user/"+url.PathEscape(identifier))

	case "get_user_leagues":
		userID, err := required(p, "user_id")
		if err != nil {
			return nil, err
		}
		season, err := required(p, "season")
		if err != nil {
			return nil, err
		}
		sport := p["sport"]
		if sport == "" {
			sport = "nfl"
		}
		path := fmt.Sprintf("/user/%s/leagues/%s/%s",
			url.PathEscape(userID), url.PathEscape(sport), url.PathEscape(season))
		return c.getJSON(ctx, call.Name, path)

	case "get_league":
		leagueID, err := required(p, "league_id")
		if err != nil {
			return nil, err
		}
		return c.getJSON(ctx, call.Name, "/league/"+url.PathEscape(leagueID))

	case "get_league_rosters":
		leagueID, err := required(p, "league_id")
		if err != nil {
			return nil, err
		}
		return c.getJSON(ctx, call.Name, "/league/"+url.PathEscape(leagueID)+"/rosters")

	case "get_league_users":
		leagueID, err := required(p, "league_id")
		if err != nil {
			return nil, err
		}
		return c.getJSON(ctx, call.Name, "/league/"+url.PathEscape(leagueID)+"/users")

	case "get_league_drafts":
		leagueID, err := required(p, "league_id")
		if err != nil {
			return nil, err
		}
		return c.draftsBySeason(ctx, call.Name, leagueID)

	case "get_draft_picks":
		draftID, err := required(p, "draft_id")
		if err != nil {
			return nil, err
		}
		return c.draftPicks(ctx, call.Name, draftID)

	case "get_season_picks":
		leagueID, err := required(p, "league_id")
		if err != nil {
			return nil, err
		}
		season, err := required(p, "season")
		if err != nil {
			return nil, err
		}
		return c.seasonPicks(ctx, call.Name, leagueID, season)

	case "get_nfl_state":
		return c.getJSON(ctx, call.Name, "/state/nfl")

	default:
		return nil, fmt.Errorf("unknown function")
	}
}

// getJSON performs a cached, rate-limited GET and returns the raw JSON body.
func (c *Client) getJSON(ctx context.Context, function, path string) (json.RawMessage, error) {
	if data, ok := c.cache.get(path); ok {
		observability.SleeperCacheHitsTotal.WithLabelValues("hit").Inc()
		return data, nil
	}
	observability.SleeperCacheHitsTotal.WithLabelValues("miss").Inc()

	if err := c.limiter.allow(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	debug.Log("sleeper", "request", "function", function, "path", path)

	start := time.Now()
	resp, err := c.client.Do(req)
	observability.SleeperRequestDuration.WithLabelValues(function).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.SleeperRequestsTotal.WithLabelValues(function, "network_error").Inc()
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("request timed out after %s", c.cfg.Timeout)
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		observability.SleeperRequestsTotal.WithLabelValues(function, fmt.Sprint(resp.StatusCode)).Inc()
		return nil, fmt.Errorf("sleeper API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		observability.SleeperRequestsTotal.WithLabelValues(function, "read_error").Inc()
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if !json.Valid(body) {
		observability.SleeperRequestsTotal.WithLabelValues(function, "malformed").Inc()
		return nil, fmt.Errorf("malformed JSON payload")
	}

	observability.SleeperRequestsTotal.WithLabelValues(function, "ok").Inc()
	debug.Raw("sleeper", string(body))
	c.cache.put(path, body)
	return body, nil
}

func required(params map[string]string, name string) (string, error) {
	v := params[name]
	if v == "" {
		return "", fmt.Errorf("missing required parameter %q", name)
	}
	return v, nil
}
