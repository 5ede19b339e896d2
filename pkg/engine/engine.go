// Package engine wires the query pipeline together: router, data client,
// and composer. An Engine is the application context constructed once at
// startup and handed to the transport layer; there is no process-wide
// singleton. Routing, invocation, and composition run sequentially per
// query, and concurrent queries are safe because all shared state is
// read-only after initialization.
package engine

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/couchgm/couchgm/pkg/api"
	"github.com/couchgm/couchgm/pkg/compose"
	"github.com/couchgm/couchgm/pkg/observability"
	"github.com/couchgm/couchgm/pkg/registry"
	"github.com/couchgm/couchgm/pkg/router"
)

// ClarificationReply is returned for empty or whitespace-only queries.
// Malformed input is a request for clarification, not a hard error.
const ClarificationReply = "I need a question to work with. " +
	"Ask me about a user, the league, rosters, drafts, or the NFL season."

// DataClient invokes one resolved function call. All failures are
// captured in the result; Invoke never panics or returns an error.
type DataClient interface {
	Invoke(ctx context.Context, call api.FunctionCall) api.FunctionResult
	Ping(ctx context.Context) error
}

// Defaults supplies parameter values that are not extracted from query
// text, typically the league the deployment serves.
type Defaults struct {
	LeagueID string
	Season   string
}

// Engine processes queries end to end.
type Engine struct {
	registry *registry.Registry
	router   *router.Router
	client   DataClient
	composer *compose.Composer
	defaults Defaults
	logger   *slog.Logger

	ready atomic.Bool
}

// New creates an Engine. Call Initialize before serving queries.
func New(reg *registry.Registry, rt *router.Router, client DataClient, composer *compose.Composer, defaults Defaults, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		registry: reg,
		router:   rt,
		client:   client,
		composer: composer,
		defaults: defaults,
		logger:   logger,
	}
}

// Initialize verifies connectivity to the data backend and marks the
// engine ready. Queries arriving before Initialize succeeds must be
// rejected by the caller with a not-ready error.
func (e *Engine) Initialize(ctx context.Context) error {
	if err := e.client.Ping(ctx); err != nil {
		e.logger.Error("data backend connectivity check failed", "error", err)
		return err
	}
	e.ready.Store(true)
	e.logger.Info("engine initialized",
		"functions", e.registry.Len(),
		"rules", e.router.RuleCount(),
	)
	return nil
}

// Ready reports whether initialization has completed.
func (e *Engine) Ready() bool {
	return e.ready.Load()
}

// Capabilities describes the registered functions and rule count, for
// the capabilities endpoint.
func (e *Engine) Capabilities() api.CapabilitiesResponse {
	return api.CapabilitiesResponse{
		AvailableFunctions: e.registry.Specs(),
		FunctionPatterns:   e.router.RuleCount(),
	}
}

// Answer processes one query: route to at most one function call, invoke
// it, and compose the reply. The returned outcome always carries
// non-empty response text.
func (e *Engine) Answer(ctx context.Context, req api.QueryRequest) api.QueryOutcome {
	start := time.Now()
	defer func() {
		observability.QueryDuration.Observe(time.Since(start).Seconds())
	}()

	if strings.TrimSpace(req.Query) == "" {
		observability.QueriesTotal.WithLabelValues("none", "malformed_input").Inc()
		return api.QueryOutcome{ResponseText: ClarificationReply}
	}

	call, matched := e.router.Route(req.Query)
	if !matched {
		observability.RouterMatchesTotal.WithLabelValues("none").Inc()
		observability.QueriesTotal.WithLabelValues("none", "no_match").Inc()
		e.logger.Debug("no function matched", "query", req.Query)
		return api.QueryOutcome{
			ResponseText: e.composer.Compose(ctx, req.Query, nil),
		}
	}
	observability.RouterMatchesTotal.WithLabelValues(call.Name).Inc()

	e.applyDefaults(&call, req)

	result := e.client.Invoke(ctx, call)

	outcome := "ok"
	if !result.OK() {
		outcome = "upstream_failure"
	}
	observability.QueriesTotal.WithLabelValues(call.Name, outcome).Inc()

	results := []api.FunctionResult{result}
	return api.QueryOutcome{
		ResponseText: e.composer.Compose(ctx, req.Query, results),
		Calls:        []api.FunctionCall{call},
		Results:      results,
	}
}

// applyDefaults fills parameters the router could not extract from the
// text: first from the request's explicit fields, then from the
// configured deployment defaults. The router itself never sees these.
func (e *Engine) applyDefaults(call *api.FunctionCall, req api.QueryRequest) {
	spec, ok := e.registry.Lookup(call.Name)
	if !ok {
		return
	}
	if call.Parameters == nil {
		call.Parameters = map[string]string{}
	}

	fill := func(param, requestValue, defaultValue string) {
		if _, declared := spec.Parameters[param]; !declared {
			return
		}
		if call.Parameters[param] != "" {
			return
		}
		if requestValue != "" {
			call.Parameters[param] = requestValue
			return
		}
		if defaultValue != "" {
			call.Parameters[param] = defaultValue
		}
	}

	fill("league_id", req.LeagueID, e.defaults.LeagueID)
	fill("season", req.Season, e.defaults.Season)
	fill("user_id", req.UserID, "")
}
