package engine

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/couchgm/couchgm/pkg/api"
	"github.com/couchgm/couchgm/pkg/compose"
	"github.com/couchgm/couchgm/pkg/registry"
	"github.com/couchgm/couchgm/pkg/router"
)

type stubClient struct {
	pingErr error
	invoked []api.FunctionCall
	result  api.FunctionResult
}

func (s *stubClient) Ping(ctx context.Context) error { return s.pingErr }

func (s *stubClient) Invoke(ctx context.Context, call api.FunctionCall) api.FunctionResult {
	s.invoked = append(s.invoked, call)
	r := s.result
	if r.Function == "" {
		r.Function = call.Name
	}
	r.Parameters = call.Parameters
	return r
}

func newTestEngine(t *testing.T, client DataClient, defaults Defaults) *Engine {
	t.Helper()
	logger := slog.Default()
	reg := registry.Default()
	rt, err := router.New(reg, router.DefaultRules(), logger)
	if err != nil {
		t.Fatalf("router.New() error = %v", err)
	}
	composer := compose.New(nil, logger)
	return New(reg, rt, client, composer, defaults, logger)
}

func TestInitializeSetsReady(t *testing.T) {
	client := &stubClient{}
	e := newTestEngine(t, client, Defaults{})

	if e.Ready() {
		t.Fatal("Ready() = true before Initialize")
	}
	if err := e.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if !e.Ready() {
		t.Fatal("Ready() = false after Initialize")
	}
}

func TestInitializeFailsOnPingError(t *testing.T) {
	client := &stubClient{pingErr: errors.New("connection refused")}
	e := newTestEngine(t, client, Defaults{})

	if err := e.Initialize(context.Background()); err == nil {
		t.Fatal("Initialize() error = nil, want ping failure")
	}
	if e.Ready() {
		t.Fatal("Ready() = true after failed Initialize")
	}
}

func TestAnswerEmptyQueryAsksForClarification(t *testing.T) {
	client := &stubClient{}
	e := newTestEngine(t, client, Defaults{})

	for _, query := range []string{"", "   ", "\t\n"} {
		out := e.Answer(context.Background(), api.QueryRequest{Query: query})
		if out.ResponseText != ClarificationReply {
			t.Errorf("Answer(%q) = %q, want clarification reply", query, out.ResponseText)
		}
		if len(out.Calls) != 0 {
			t.Errorf("Answer(%q) made %d calls, want 0", query, len(out.Calls))
		}
	}
	if len(client.invoked) != 0 {
		t.Fatalf("data client invoked %d times for empty queries, want 0", len(client.invoked))
	}
}

func TestAnswerNoMatchFallsBackWithoutInvoking(t *testing.T) {
	client := &stubClient{}
	e := newTestEngine(t, client, Defaults{})

	out := e.Answer(context.Background(), api.QueryRequest{Query: "what should I have for dinner"})
	if out.ResponseText != compose.PersonaFallback {
		t.Fatalf("Answer() = %q, want persona fallback", out.ResponseText)
	}
	if len(client.invoked) != 0 {
		t.Fatalf("data client invoked %d times for unmatched query, want 0", len(client.invoked))
	}
}

func TestAnswerRoutesAndRecordsCall(t *testing.T) {
	client := &stubClient{result: api.FunctionResult{
		Status: api.ResultSuccess,
		Data:   json.RawMessage(`{"username":"john","display_name":"Johnny"}`),
	}}
	e := newTestEngine(t, client, Defaults{})

	out := e.Answer(context.Background(), api.QueryRequest{Query: "who is john"})

	if len(out.Calls) != 1 || out.Calls[0].Name != "get_user" {
		t.Fatalf("Calls = %+v, want one get_user call", out.Calls)
	}
	if got := out.Calls[0].Parameters["identifier"]; got != "john" {
		t.Fatalf("identifier = %q, want %q", got, "john")
	}
	if len(out.Results) != 1 || !out.Results[0].OK() {
		t.Fatalf("Results = %+v, want one success", out.Results)
	}
	if !strings.Contains(out.ResponseText, "john") || !strings.Contains(out.ResponseText, "Johnny") {
		t.Fatalf("ResponseText = %q, want username and display name mentioned", out.ResponseText)
	}
}

func TestAnswerFillsLeagueFromRequest(t *testing.T) {
	client := &stubClient{result: api.FunctionResult{Status: api.ResultSuccess, Data: json.RawMessage(`[]`)}}
	e := newTestEngine(t, client, Defaults{LeagueID: "default-league"})

	e.Answer(context.Background(), api.QueryRequest{Query: "show me the rosters", LeagueID: "req-league"})

	if len(client.invoked) != 1 {
		t.Fatalf("invoked %d calls, want 1", len(client.invoked))
	}
	call := client.invoked[0]
	if call.Name != "get_league_rosters" {
		t.Fatalf("routed to %q, want get_league_rosters", call.Name)
	}
	if got := call.Parameters["league_id"]; got != "req-league" {
		t.Fatalf("league_id = %q, want request value to win over configured default", got)
	}
}

func TestAnswerFillsLeagueFromDefaults(t *testing.T) {
	client := &stubClient{result: api.FunctionResult{Status: api.ResultSuccess, Data: json.RawMessage(`[]`)}}
	e := newTestEngine(t, client, Defaults{LeagueID: "default-league"})

	e.Answer(context.Background(), api.QueryRequest{Query: "show me the rosters"})

	if len(client.invoked) != 1 {
		t.Fatalf("invoked %d calls, want 1", len(client.invoked))
	}
	if got := client.invoked[0].Parameters["league_id"]; got != "default-league" {
		t.Fatalf("league_id = %q, want configured default", got)
	}
}

func TestAnswerKeepsExtractedParameters(t *testing.T) {
	client := &stubClient{result: api.FunctionResult{Status: api.ResultSuccess, Data: json.RawMessage(`[]`)}}
	e := newTestEngine(t, client, Defaults{LeagueID: "default-league", Season: "2020"})

	e.Answer(context.Background(), api.QueryRequest{Query: "draft picks for season 2023"})

	if len(client.invoked) != 1 {
		t.Fatalf("invoked %d calls, want 1", len(client.invoked))
	}
	call := client.invoked[0]
	if call.Name != "get_season_picks" {
		t.Fatalf("routed to %q, want get_season_picks", call.Name)
	}
	if got := call.Parameters["season"]; got != "2023" {
		t.Fatalf("season = %q, extracted value must not be overwritten by defaults", got)
	}
	if got := call.Parameters["league_id"]; got != "default-league" {
		t.Fatalf("league_id = %q, want configured default", got)
	}
}

func TestAnswerReportsUpstreamFailure(t *testing.T) {
	client := &stubClient{result: api.FunctionResult{
		Status: api.ResultError,
		Error:  "get_league: sleeper returned status 500",
	}}
	e := newTestEngine(t, client, Defaults{LeagueID: "l1"})

	out := e.Answer(context.Background(), api.QueryRequest{Query: "tell me the league info"})

	if len(out.Results) != 1 || out.Results[0].OK() {
		t.Fatalf("Results = %+v, want one failure", out.Results)
	}
	if !strings.Contains(out.ResponseText, "lookup failed") {
		t.Fatalf("ResponseText = %q, want failure notice", out.ResponseText)
	}
}
