// Package compose renders the final natural-language reply for a query.
// The composer prefers generative rendering through an llm.Generator, but
// every path degrades deterministically: invalid or unreachable generative
// output falls back to a template renderer, and a query with no matched
// function falls back to a fixed persona reply. The composer never
// returns an empty string.
package compose

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/couchgm/couchgm/pkg/api"
	"github.com/couchgm/couchgm/pkg/llm"
	"github.com/couchgm/couchgm/pkg/observability"
)

// minValidLength is the minimum usable length of a generative reply.
// Anything shorter is treated as truncated or garbage output and
// discarded in favor of the deterministic fallback.
const minValidLength = 20

// PersonaFallback is the fixed reply used when no function matched and
// the generative backend produced nothing usable.
const PersonaFallback = "I couldn't find league data for that one. " +
	"Try asking about a user, the league, rosters, drafts, picks for a season, or the NFL state."

// Composer turns function results into a reply.
type Composer struct {
	gen    llm.Generator // nil disables generative rendering
	logger *slog.Logger
}

// New creates a Composer. A nil generator is allowed and selects the
// deterministic path unconditionally.
func New(gen llm.Generator, logger *slog.Logger) *Composer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Composer{gen: gen, logger: logger}
}

// Compose renders the reply for a query given its function results, in
// order. An empty result list means no function matched.
func (c *Composer) Compose(ctx context.Context, query string, results []api.FunctionResult) string {
	if len(results) == 0 {
		if text, ok := c.generate(ctx, query, nil); ok {
			return text
		}
		observability.ComposerFallbacksTotal.WithLabelValues("no_match").Inc()
		return PersonaFallback
	}

	if text, ok := c.generate(ctx, query, results); ok {
		return text
	}
	observability.ComposerFallbacksTotal.WithLabelValues("generative_invalid").Inc()
	return renderFallback(results)
}

// generate attempts generative rendering. Only the data payloads of
// successful results enter the prompt; failed calls are excluded from the
// context but remain visible to the deterministic fallback. Returns false
// when the backend is absent, errors, or yields output below the minimum
// usable length.
func (c *Composer) generate(ctx context.Context, query string, results []api.FunctionResult) (string, bool) {
	if c.gen == nil {
		return "", false
	}

	text, err := c.gen.Generate(ctx, buildPrompt(query, results))
	if err != nil {
		c.logger.Warn("generative rendering failed", "backend", c.gen.Name(), "error", err)
		return "", false
	}

	text = strings.TrimSpace(text)
	if len(text) < minValidLength {
		c.logger.Debug("generative reply below minimum length, discarded",
			"backend", c.gen.Name(),
			"length", len(text),
		)
		return "", false
	}
	return text, true
}

func buildPrompt(query string, results []api.FunctionResult) string {
	var b strings.Builder
	b.WriteString("You are a fantasy football league assistant. ")
	b.WriteString("Answer the question conversationally in plain text using only the data provided.\n")

	for _, r := range results {
		if !r.OK() {
			continue
		}
		fmt.Fprintf(&b, "\nData from %s:\n%s\n", r.Function, string(r.Data))
	}

	fmt.Fprintf(&b, "\nQuestion: %s\nAnswer:", query)
	return b.String()
}
