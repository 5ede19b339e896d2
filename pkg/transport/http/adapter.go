// Package http serves the gateway API over HTTP: query processing,
// capability introspection, health, and Prometheus metrics.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchgm/couchgm/pkg/api"
	"github.com/couchgm/couchgm/pkg/auth"
	"github.com/couchgm/couchgm/pkg/transport"
)

// QueryEngine is the processing pipeline behind the HTTP surface.
type QueryEngine interface {
	Ready() bool
	Answer(ctx context.Context, req api.QueryRequest) api.QueryOutcome
	Capabilities() api.CapabilitiesResponse
}

// Adapter routes gateway requests to the engine and serializes responses.
type Adapter struct {
	engine QueryEngine
	keys   *auth.Keyring
	mux    *http.ServeMux
	config Config
}

// Config holds configuration for the HTTP adapter.
type Config struct {
	MaxBodySize int64
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		MaxBodySize: 1 << 20, // 1 MB
	}
}

// NewAdapter creates an HTTP adapter. The API key gate applies to the
// query and capabilities endpoints; health and metrics stay open so
// probes and scrapers do not need credentials.
func NewAdapter(engine QueryEngine, keys *auth.Keyring, cfg Config) *Adapter {
	a := &Adapter{
		engine: engine,
		keys:   keys,
		mux:    http.NewServeMux(),
		config: cfg,
	}

	a.mux.HandleFunc("POST /query", a.authenticated(a.handleQuery))
	a.mux.HandleFunc("GET /capabilities", a.authenticated(a.handleCapabilities))
	a.mux.HandleFunc("GET /health", a.handleHealth)
	a.mux.Handle("GET /metrics", promhttp.Handler())

	return a
}

// Handler returns the http.Handler for this adapter, with the default
// middleware (recovery, request ID, logging) applied. Use this to
// integrate with an http.Server or test with httptest.
func (a *Adapter) Handler(middlewares ...transport.Middleware) http.Handler {
	return transport.Chain(middlewares...)(a.mux)
}

// authenticated wraps a handler with the X-API-Key check. A missing or
// unknown key is rejected before any processing happens.
func (a *Adapter) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := a.keys.Authenticate(r); err != nil {
			transport.WriteGatewayError(w, api.NewUnauthorizedError(err.Error()))
			return
		}
		next(w, r)
	}
}

// handleQuery handles POST /query.
func (a *Adapter) handleQuery(w http.ResponseWriter, r *http.Request) {
	if !a.engine.Ready() {
		transport.WriteGatewayError(w, api.NewNotReadyError("agent is still initializing"))
		return
	}

	ct := r.Header.Get("Content-Type")
	if ct != "" && ct != "application/json" {
		transport.WriteErrorResponse(w,
			api.NewMalformedInputError("Content-Type must be application/json"),
			http.StatusUnsupportedMediaType,
		)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, a.config.MaxBodySize)

	var req api.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			transport.WriteErrorResponse(w,
				api.NewMalformedInputError(fmt.Sprintf("request body too large (max %d bytes)", a.config.MaxBodySize)),
				http.StatusRequestEntityTooLarge,
			)
			return
		}
		transport.WriteErrorResponse(w,
			api.NewMalformedInputError("invalid JSON: "+err.Error()),
			http.StatusBadRequest,
		)
		return
	}

	outcome := a.engine.Answer(r.Context(), req)

	resp := api.QueryResponse{Response: outcome.ResponseText}
	if len(outcome.Calls) > 0 {
		resp.ContextUsed = &api.QueryContext{
			FunctionCalls: outcome.Calls,
			Results:       outcome.Results,
		}
	}
	// Processing failures keep the 200 status; the error field carries
	// the first failed lookup for clients that want to distinguish.
	for _, result := range outcome.Results {
		if !result.OK() {
			resp.Error = result.Error
			break
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// handleCapabilities handles GET /capabilities.
func (a *Adapter) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(a.engine.Capabilities())
}

// handleHealth handles GET /health. It always answers 200; readiness is
// reported in the body so probes can distinguish "up" from "warmed up".
func (a *Adapter) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if !a.engine.Ready() {
		status = "initializing"
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(api.HealthResponse{
		Status:           status,
		AgentInitialized: a.engine.Ready(),
	})
}
