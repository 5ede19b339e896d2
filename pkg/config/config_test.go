package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Sleeper.BaseURL != "https://api.sleeper.app/v1" {
		t.Errorf("Sleeper.BaseURL = %q", cfg.Sleeper.BaseURL)
	}
	if cfg.Sleeper.Timeout != 30*time.Second {
		t.Errorf("Sleeper.Timeout = %v, want 30s", cfg.Sleeper.Timeout)
	}
	if cfg.Sleeper.CacheTTL != 5*time.Minute {
		t.Errorf("Sleeper.CacheTTL = %v, want 5m", cfg.Sleeper.CacheTTL)
	}
	if cfg.Sleeper.CacheSize != 1000 || cfg.Sleeper.RateLimitPerMinute != 1000 {
		t.Errorf("Sleeper cache/rate defaults = %d/%d, want 1000/1000",
			cfg.Sleeper.CacheSize, cfg.Sleeper.RateLimitPerMinute)
	}
	if cfg.LLM.Backend != "ollama" || cfg.LLM.Model != "llama3" {
		t.Errorf("LLM defaults = %q/%q, want ollama/llama3", cfg.LLM.Backend, cfg.LLM.Model)
	}
	if cfg.Discord.CommandPrefix != "!ask" {
		t.Errorf("Discord.CommandPrefix = %q, want !ask", cfg.Discord.CommandPrefix)
	}
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	t.Setenv("COUCHGM_API_KEY", "env-key")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want default 8000", cfg.Server.Port)
	}
	keys := cfg.Keys()
	if len(keys) != 1 || keys[0] != "env-key" {
		t.Errorf("Keys() = %v, want [env-key]", keys)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
server:
  port: 9100
sleeper:
  timeout: 10s
  cache_ttl: 1m
llm:
  backend: none
auth:
  api_keys:
    - key: file-key
league:
  default_league_id: "289646328504385536"
  default_season: "2023"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("Server.Port = %d, want 9100", cfg.Server.Port)
	}
	if cfg.Sleeper.Timeout != 10*time.Second {
		t.Errorf("Sleeper.Timeout = %v, want 10s", cfg.Sleeper.Timeout)
	}
	// Unset fields keep their defaults.
	if cfg.Sleeper.BaseURL != "https://api.sleeper.app/v1" {
		t.Errorf("Sleeper.BaseURL = %q, want default retained", cfg.Sleeper.BaseURL)
	}
	if cfg.League.DefaultSeason != "2023" {
		t.Errorf("League.DefaultSeason = %q, want 2023", cfg.League.DefaultSeason)
	}
}

func TestEnvOverridesBeatYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
server:
  port: 9100
auth:
  api_keys:
    - key: file-key
`)
	t.Setenv("COUCHGM_PORT", "9200")
	t.Setenv("COUCHGM_MODEL", "llama3:70b")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9200 {
		t.Errorf("Server.Port = %d, want env override 9200", cfg.Server.Port)
	}
	if cfg.LLM.Model != "llama3:70b" {
		t.Errorf("LLM.Model = %q, want env override", cfg.LLM.Model)
	}
}

func TestConfigDiscoveryViaEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "discovered.yaml", `
server:
  port: 9300
auth:
  api_keys:
    - key: k
`)
	t.Setenv("COUCHGM_CONFIG", path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9300 {
		t.Errorf("Server.Port = %d, want 9300 from discovered file", cfg.Server.Port)
	}
}

func TestFileReferenceResolution(t *testing.T) {
	dir := t.TempDir()
	keyFile := writeFile(t, dir, "gateway.key", "  secret-from-file\n")
	tokenFile := writeFile(t, dir, "bot.token", "discord-token\n")
	path := writeFile(t, dir, "config.yaml", `
auth:
  api_keys:
    - key_file: `+keyFile+`
discord:
  token_file: `+tokenFile+`
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	keys := cfg.Keys()
	if len(keys) != 1 || keys[0] != "secret-from-file" {
		t.Errorf("Keys() = %v, want trimmed file content", keys)
	}
	if cfg.Discord.Token != "discord-token" {
		t.Errorf("Discord.Token = %q, want file content", cfg.Discord.Token)
	}
}

func TestFileReferenceDoesNotOverrideValue(t *testing.T) {
	dir := t.TempDir()
	keyFile := writeFile(t, dir, "gateway.key", "from-file")
	path := writeFile(t, dir, "config.yaml", `
auth:
  api_keys:
    - key: inline
      key_file: `+keyFile+`
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if keys := cfg.Keys(); keys[0] != "inline" {
		t.Errorf("Keys() = %v, inline value must win over key_file", keys)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing api keys",
			mutate:  func(c *Config) { c.Auth.APIKeys = nil },
			wantErr: "api_keys",
		},
		{
			name:    "zero port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port",
		},
		{
			name:    "unknown llm backend",
			mutate:  func(c *Config) { c.LLM.Backend = "grok" },
			wantErr: "llm.backend",
		},
		{
			name:    "missing sleeper base url",
			mutate:  func(c *Config) { c.Sleeper.BaseURL = "" },
			wantErr: "sleeper.base_url",
		},
		{
			name: "ollama without model",
			mutate: func(c *Config) {
				c.LLM.Backend = "ollama"
				c.LLM.Model = ""
			},
			wantErr: "llm.model",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			cfg.Auth.APIKeys = []APIKeyConfig{{Key: "k"}}
			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidationPassesWithBackendNone(t *testing.T) {
	cfg := Defaults()
	cfg.Auth.APIKeys = []APIKeyConfig{{Key: "k"}}
	cfg.LLM.Backend = "none"
	cfg.LLM.Model = ""
	cfg.LLM.BaseURL = ""

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v, want nil for backend none", err)
	}
}
