package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	// server.port must be positive.
	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be > 0, got %d", c.Server.Port))
	}

	// sleeper.base_url is required.
	if c.Sleeper.BaseURL == "" {
		errs = append(errs, fmt.Errorf("sleeper.base_url is required"))
	}
	if c.Sleeper.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("sleeper.cache_size must be > 0, got %d", c.Sleeper.CacheSize))
	}

	// llm.backend must be a known value.
	switch c.LLM.Backend {
	case "ollama", "openai":
		if c.LLM.BaseURL == "" {
			errs = append(errs, fmt.Errorf("llm.base_url is required when llm.backend is %q", c.LLM.Backend))
		}
		if c.LLM.Model == "" {
			errs = append(errs, fmt.Errorf("llm.model is required when llm.backend is %q", c.LLM.Backend))
		}
	case "none":
		// Deterministic fallback only.
	default:
		errs = append(errs, fmt.Errorf("llm.backend must be \"ollama\", \"openai\", or \"none\", got %q", c.LLM.Backend))
	}

	// At least one non-empty API key must be configured; otherwise the
	// gateway would reject every query.
	if len(c.Keys()) == 0 {
		errs = append(errs, fmt.Errorf("auth.api_keys must contain at least one key (or set COUCHGM_API_KEY)"))
	}

	return errors.Join(errs...)
}
