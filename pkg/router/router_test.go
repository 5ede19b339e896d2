package router

import (
	"fmt"
	"log/slog"
	"regexp"
	"testing"

	"github.com/couchgm/couchgm/pkg/api"
	"github.com/couchgm/couchgm/pkg/registry"
)

func testRegistry(t *testing.T, names ...string) *registry.Registry {
	t.Helper()
	r := registry.New()
	for _, name := range names {
		if err := r.Register(api.FunctionSpec{Name: name}); err != nil {
			t.Fatalf("Register(%s): %v", name, err)
		}
	}
	return r
}

func mustRoute(t *testing.T, r *Router, query string) api.FunctionCall {
	t.Helper()
	call, ok := r.Route(query)
	if !ok {
		t.Fatalf("Route(%q) = no match, want a call", query)
	}
	return call
}

func TestUnknownFunctionReferenceFailsConstruction(t *testing.T) {
	reg := testRegistry(t, "get_user")
	rules := []Rule{{
		Function: "get_ghost",
		Patterns: []*regexp.Regexp{regexp.MustCompile(`ghost`)},
		Priority: PrioritySpecific,
		Extract:  NoParams,
	}}

	if _, err := New(reg, rules, slog.Default()); err == nil {
		t.Fatal("New with unresolvable function reference: want error, got nil")
	}
}

func TestPriorityOrdering(t *testing.T) {
	// R1 matches "league info" at priority 1, R2 matches bare "league"
	// at priority 3. The vague pattern must not shadow the precise one.
	reg := testRegistry(t, "get_league", "get_nfl_state")
	rules := []Rule{
		{
			Function: "get_nfl_state",
			Patterns: []*regexp.Regexp{regexp.MustCompile(`league`)},
			Priority: PriorityBroad,
			Extract:  NoParams,
		},
		{
			Function: "get_league",
			Patterns: []*regexp.Regexp{regexp.MustCompile(`league info`)},
			Priority: PrioritySpecific,
			Extract:  NoParams,
		},
	}
	r, err := New(reg, rules, slog.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	call := mustRoute(t, r, "tell me the league info")
	if call.Name != "get_league" {
		t.Errorf("routed to %q, want get_league", call.Name)
	}
}

func TestTieBreakIsFirstRegisteredAndFlipsWithOrder(t *testing.T) {
	reg := testRegistry(t, "fn_a", "fn_b")
	ruleFor := func(name string) Rule {
		return Rule{
			Function: name,
			Patterns: []*regexp.Regexp{regexp.MustCompile(`overlap`)},
			Priority: PriorityNarrow,
			Extract:  NoParams,
		}
	}

	forward, err := New(reg, []Rule{ruleFor("fn_a"), ruleFor("fn_b")}, slog.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if call := mustRoute(t, forward, "overlap here"); call.Name != "fn_a" {
		t.Errorf("forward order routed to %q, want fn_a", call.Name)
	}

	reversed, err := New(reg, []Rule{ruleFor("fn_b"), ruleFor("fn_a")}, slog.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if call := mustRoute(t, reversed, "overlap here"); call.Name != "fn_b" {
		t.Errorf("reversed order routed to %q, want fn_b", call.Name)
	}
}

func TestSameFunctionDifferentPriorities(t *testing.T) {
	// Two rules for the same function: the lowest priority encountered
	// wins when it is also the global minimum.
	reg := testRegistry(t, "get_league")
	rules := []Rule{
		{
			Function: "get_league",
			Patterns: []*regexp.Regexp{regexp.MustCompile(`league`)},
			Priority: PriorityBroad,
			Extract: func([]string) (map[string]string, error) {
				return map[string]string{"tier": "broad"}, nil
			},
		},
		{
			Function: "get_league",
			Patterns: []*regexp.Regexp{regexp.MustCompile(`league details`)},
			Priority: PrioritySpecific,
			Extract: func([]string) (map[string]string, error) {
				return map[string]string{"tier": "specific"}, nil
			},
		},
	}
	r, err := New(reg, rules, slog.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	call := mustRoute(t, r, "show league details")
	if call.Parameters["tier"] != "specific" {
		t.Errorf("winning extractor tier = %q, want specific", call.Parameters["tier"])
	}
}

func TestNoMatch(t *testing.T) {
	reg := testRegistry(t, "get_user")
	rules := []Rule{{
		Function: "get_user",
		Patterns: []*regexp.Regexp{regexp.MustCompile(`who is ([a-z0-9_]+)`)},
		Priority: PrioritySpecific,
		Extract:  CaptureAs("identifier"),
	}}
	r, err := New(reg, rules, slog.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, ok := r.Route("asdkjasd"); ok {
		t.Error("Route(asdkjasd) matched, want no match")
	}
	if _, ok := r.Route("   "); ok {
		t.Error("Route(whitespace) matched, want no match")
	}
	if _, ok := r.Route(""); ok {
		t.Error("Route(empty) matched, want no match")
	}
}

func TestDeterminism(t *testing.T) {
	reg := testRegistry(t, "get_user", "get_league")
	r, err := New(reg, []Rule{
		{
			Function: "get_user",
			Patterns: []*regexp.Regexp{regexp.MustCompile(`who is ([a-z0-9_]+)`)},
			Priority: PrioritySpecific,
			Extract:  CaptureAs("identifier"),
		},
		{
			Function: "get_league",
			Patterns: []*regexp.Regexp{regexp.MustCompile(`league`)},
			Priority: PriorityBroad,
			Extract:  NoParams,
		},
	}, slog.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	first := mustRoute(t, r, "Who is JOHN in the league?")
	second := mustRoute(t, r, "Who is JOHN in the league?")
	if first.Name != second.Name {
		t.Errorf("names differ: %q vs %q", first.Name, second.Name)
	}
	if first.Parameters["identifier"] != second.Parameters["identifier"] {
		t.Errorf("parameters differ: %v vs %v", first.Parameters, second.Parameters)
	}
	if first.Parameters["identifier"] != "john" {
		t.Errorf("identifier = %q, want lowercased john", first.Parameters["identifier"])
	}
}

func TestFailingExtractorDiscardsCandidate(t *testing.T) {
	// The failing high-precedence candidate is dropped and the broad
	// rule still wins; the failure never propagates.
	reg := testRegistry(t, "get_user", "get_nfl_state")
	r, err := New(reg, []Rule{
		{
			Function: "get_user",
			Patterns: []*regexp.Regexp{regexp.MustCompile(`nfl`)},
			Priority: PrioritySpecific,
			Extract: func([]string) (map[string]string, error) {
				return nil, fmt.Errorf("boom")
			},
		},
		{
			Function: "get_nfl_state",
			Patterns: []*regexp.Regexp{regexp.MustCompile(`nfl`)},
			Priority: PriorityBroad,
			Extract:  NoParams,
		},
	}, slog.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	call := mustRoute(t, r, "what about the nfl")
	if call.Name != "get_nfl_state" {
		t.Errorf("routed to %q, want get_nfl_state after discard", call.Name)
	}
}

func TestStopwordCaptureIsNotFiltered(t *testing.T) {
	// Capturing a meaningless token is the data client's problem, not
	// the router's.
	reg := testRegistry(t, "get_user")
	r, err := New(reg, []Rule{{
		Function: "get_user",
		Patterns: []*regexp.Regexp{regexp.MustCompile(`who is ([a-z0-9_]+)`)},
		Priority: PrioritySpecific,
		Extract:  CaptureAs("identifier"),
	}}, slog.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	call := mustRoute(t, r, "who is the best")
	if call.Parameters["identifier"] != "the" {
		t.Errorf("identifier = %q, want the stopword to pass through", call.Parameters["identifier"])
	}
}
