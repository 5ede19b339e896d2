package api

import "encoding/json"

// FunctionSpec describes one invocable backend operation: its name, a
// human-readable description, and its parameter schema. The full set of
// specs forms the function registry and is immutable after startup.
type FunctionSpec struct {
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Parameters  map[string]ParameterSpec `json:"parameters"`
}

// ParameterSpec describes a single parameter of a FunctionSpec.
type ParameterSpec struct {
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description,omitempty"`
	Default     string `json:"default,omitempty"`
}

// FunctionCall is a resolved, ready-to-invoke operation with concrete
// parameters. Produced by the router per query and consumed immediately
// by the data client; never persisted.
type FunctionCall struct {
	Name       string            `json:"name"`
	Parameters map[string]string `json:"parameters"`
}

// FunctionResult is the outcome of invoking one FunctionCall. Exactly one
// of Data and Error is meaningful, selected by Status.
type FunctionResult struct {
	Function   string            `json:"function"`
	Parameters map[string]string `json:"parameters,omitempty"`
	Status     ResultStatus      `json:"status"`
	Data       json.RawMessage   `json:"result,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// ResultStatus distinguishes successful and failed function invocations.
type ResultStatus string

const (
	ResultSuccess ResultStatus = "success"
	ResultError   ResultStatus = "error"
)

// OK reports whether the result carries a success payload.
func (r *FunctionResult) OK() bool {
	return r.Status == ResultSuccess
}

// QueryOutcome is the full result of processing one query: the final
// response text plus the calls that were made and their results, in order.
type QueryOutcome struct {
	ResponseText string           `json:"response_text"`
	Calls        []FunctionCall   `json:"function_calls"`
	Results      []FunctionResult `json:"results"`
}

// QueryRequest is the body of POST /query. The optional identifiers let a
// chat front end pin defaults without repeating them in the query text.
type QueryRequest struct {
	Query    string `json:"query"`
	UserID   string `json:"user_id,omitempty"`
	LeagueID string `json:"league_id,omitempty"`
	Season   string `json:"season,omitempty"`
}

// QueryResponse is the body returned by POST /query. Error is set (with a
// 200 status) when query processing failed; transport-level rejections such
// as a bad API key use HTTP status codes instead.
type QueryResponse struct {
	Response    string        `json:"response"`
	ContextUsed *QueryContext `json:"context_used,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// QueryContext reports which functions a query invoked and what they returned.
type QueryContext struct {
	FunctionCalls []FunctionCall   `json:"function_calls"`
	Results       []FunctionResult `json:"results"`
}

// CapabilitiesResponse is the body of GET /capabilities.
type CapabilitiesResponse struct {
	AvailableFunctions []FunctionSpec `json:"available_functions"`
	FunctionPatterns   int            `json:"function_patterns"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status           string `json:"status"`
	AgentInitialized bool   `json:"agent_initialized"`
}
