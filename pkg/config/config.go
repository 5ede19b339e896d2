// Package config provides unified configuration for the couchgm gateway.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (COUCHGM_ prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Config holds all configuration for the couchgm gateway and its
// companion processes.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Sleeper SleeperConfig `yaml:"sleeper"`
	LLM     LLMConfig     `yaml:"llm"`
	Auth    AuthConfig    `yaml:"auth"`
	League  LeagueConfig  `yaml:"league"`
	Discord DiscordConfig `yaml:"discord"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`             // default: 8000
	MaxBodySize     int64         `yaml:"max_body_size"`    // default: 1 MB
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // default: 30s
}

// SleeperConfig holds Sleeper API client settings.
type SleeperConfig struct {
	BaseURL            string        `yaml:"base_url"`       // default: https://api.sleeper.app/v1
	Timeout            time.Duration `yaml:"timeout"`        // default: 30s
	CacheTTL           time.Duration `yaml:"cache_ttl"`      // default: 5m
	CacheSize          int           `yaml:"cache_size"`     // default: 1000
	RateLimitPerMinute int           `yaml:"rate_limit_rpm"` // default: 1000
}

// LLMConfig holds generative backend settings.
type LLMConfig struct {
	Backend    string        `yaml:"backend"`      // "ollama", "openai", or "none", default: "ollama"
	BaseURL    string        `yaml:"base_url"`     // default: http://localhost:11434
	Model      string        `yaml:"model"`        // default: llama3
	Timeout    time.Duration `yaml:"timeout"`      // default: 30s
	APIKey     string        `yaml:"api_key"`      // for backend=openai
	APIKeyFile string        `yaml:"api_key_file"` // _file variant for api_key
}

// AuthConfig holds gateway API key settings.
type AuthConfig struct {
	APIKeys []APIKeyConfig `yaml:"api_keys"`
}

// APIKeyConfig describes a single accepted API key.
type APIKeyConfig struct {
	Key     string `yaml:"key"`
	KeyFile string `yaml:"key_file"` // _file variant for key
}

// LeagueConfig holds deployment defaults filled into function calls
// when the query text carries no explicit value.
type LeagueConfig struct {
	DefaultLeagueID string `yaml:"default_league_id"`
	DefaultSeason   string `yaml:"default_season"`
}

// DiscordConfig holds settings for the Discord front end. The token is
// only required by the bot process; the gateway ignores this section.
type DiscordConfig struct {
	Token         string `yaml:"token"`
	TokenFile     string `yaml:"token_file"`     // _file variant for token
	CommandPrefix string `yaml:"command_prefix"` // default: "!ask"
	GatewayURL    string `yaml:"gateway_url"`    // default: http://localhost:8000
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:            8000,
			MaxBodySize:     1 << 20,
			ShutdownTimeout: 30 * time.Second,
		},
		Sleeper: SleeperConfig{
			BaseURL:            "https://api.sleeper.app/v1",
			Timeout:            30 * time.Second,
			CacheTTL:           5 * time.Minute,
			CacheSize:          1000,
			RateLimitPerMinute: 1000,
		},
		LLM: LLMConfig{
			Backend: "ollama",
			BaseURL: "http://localhost:11434",
			Model:   "llama3",
			Timeout: 30 * time.Second,
		},
		Discord: DiscordConfig{
			CommandPrefix: "!ask",
			GatewayURL:    "http://localhost:8000",
		},
	}
}

// Keys returns the resolved raw API keys.
func (c *Config) Keys() []string {
	keys := make([]string, 0, len(c.Auth.APIKeys))
	for _, k := range c.Auth.APIKeys {
		if k.Key != "" {
			keys = append(keys, k.Key)
		}
	}
	return keys
}
