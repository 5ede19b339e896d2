// Package router maps free-text queries to at most one registered function
// call. Routing is data-driven: an ordered list of pattern rules is
// evaluated linearly against the normalized query, every successful match
// produces a candidate, and the candidate with the highest precedence
// (lowest priority number) wins. The rule set is fixed at startup and
// never mutated, so Route is a pure function of the normalized query.
package router

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/couchgm/couchgm/pkg/api"
	"github.com/couchgm/couchgm/pkg/registry"
)

// Priority tiers. Lower numbers take precedence. Rules that match narrow,
// well-scoped phrasings use PrioritySpecific so that greedy but vague
// patterns cannot shadow them regardless of registration order. The
// integers carry no meaning beyond their relative order.
const (
	PrioritySpecific = 1
	PriorityNarrow   = 2
	PriorityBroad    = 3
)

// Extractor computes function parameters from a successful pattern match.
// The match slice is the regexp submatch slice (match[0] is the full
// match). An extractor that returns an error discards the candidate; the
// failure is logged, never propagated.
type Extractor func(match []string) (map[string]string, error)

// NoParams is an Extractor for rules whose function takes no parameters
// from the query text.
func NoParams([]string) (map[string]string, error) {
	return nil, nil
}

// CaptureAs returns an Extractor that maps the first capture group to the
// named parameter.
func CaptureAs(param string) Extractor {
	return func(match []string) (map[string]string, error) {
		if len(match) < 2 || match[1] == "" {
			return nil, fmt.Errorf("pattern produced no capture for %q", param)
		}
		return map[string]string{param: match[1]}, nil
	}
}

// Rule maps text patterns to a function call. Multiple rules may reference
// the same function. Patterns use search-anywhere semantics (unanchored);
// rules must tolerate punctuation explicitly, as queries are only
// lowercased and trimmed before matching.
type Rule struct {
	Function string
	Patterns []*regexp.Regexp
	Priority int
	Extract  Extractor
}

// candidate is a single successful pattern match, before priority resolution.
type candidate struct {
	function   string
	priority   int
	parameters map[string]string
}

// Router evaluates the rule set. Safe for concurrent use: all state is
// read-only after construction.
type Router struct {
	rules  []Rule
	logger *slog.Logger
}

// New creates a Router and verifies that every rule references a function
// present in the registry. An unresolvable reference is a configuration
// defect, so it fails construction rather than surfacing at query time.
func New(reg *registry.Registry, rules []Rule, logger *slog.Logger) (*Router, error) {
	if logger == nil {
		logger = slog.Default()
	}
	for i, rule := range rules {
		if !reg.Has(rule.Function) {
			return nil, fmt.Errorf("router: rule %d references unknown function %q", i, rule.Function)
		}
		if len(rule.Patterns) == 0 {
			return nil, fmt.Errorf("router: rule %d for %q has no patterns", i, rule.Function)
		}
		if rule.Extract == nil {
			return nil, fmt.Errorf("router: rule %d for %q has no extractor", i, rule.Function)
		}
	}
	return &Router{rules: rules, logger: logger}, nil
}

// RuleCount returns the number of registered pattern rules.
func (r *Router) RuleCount() int {
	return len(r.rules)
}

// Route maps a query to zero or one function call. The query is lowercased
// and trimmed; no other normalization is applied. Returns false when no
// rule matches, which is a valid outcome (it selects the composer's
// empty-context path), not an error. Empty input after trimming also
// yields no match; callers that want to distinguish it must check first.
func (r *Router) Route(query string) (api.FunctionCall, bool) {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return api.FunctionCall{}, false
	}

	var best *candidate
	for i := range r.rules {
		rule := &r.rules[i]
		for _, pattern := range rule.Patterns {
			match := pattern.FindStringSubmatch(normalized)
			if match == nil {
				continue
			}

			params, err := rule.Extract(match)
			if err != nil {
				r.logger.Debug("parameter extraction failed, candidate discarded",
					"function", rule.Function,
					"pattern", pattern.String(),
					"error", err,
				)
				continue
			}

			// Strictly-lower keeps the earliest-registered rule on ties.
			if best == nil || rule.Priority < best.priority {
				best = &candidate{
					function:   rule.Function,
					priority:   rule.Priority,
					parameters: params,
				}
			}
		}
	}

	if best == nil {
		return api.FunctionCall{}, false
	}

	params := best.parameters
	if params == nil {
		params = map[string]string{}
	}
	return api.FunctionCall{Name: best.function, Parameters: params}, true
}
