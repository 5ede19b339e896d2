// Package llm abstracts the generative text backend used to phrase final
// responses. The contract is deliberately small: prompt in, text out.
// Implementations exist for Ollama's generate API and for
// OpenAI-compatible Chat Completions backends.
package llm

import "context"

// Generator produces text from a prompt. Implementations must be safe
// for concurrent use and must bound each call with the request context
// plus their configured timeout; a generator never leaves a call pending.
type Generator interface {
	// Name returns the backend identifier (e.g., "ollama").
	Name() string

	// Generate performs a single non-streaming completion.
	Generate(ctx context.Context, prompt string) (string, error)

	// Close releases backend resources.
	Close() error
}

// GeneratorFunc adapts an ordinary function to the Generator interface.
// Used in tests to stub the backend.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Name returns "func".
func (GeneratorFunc) Name() string { return "func" }

// Generate calls f(ctx, prompt).
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Close is a no-op.
func (GeneratorFunc) Close() error { return nil }
