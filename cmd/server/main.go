// Command server runs the couchgm league assistant gateway.
//
// Configuration is layered: built-in defaults, a YAML config file
// (-config flag, COUCHGM_CONFIG, ./config.yaml, /etc/couchgm/config.yaml),
// then COUCHGM_* environment overrides. The most commonly used variables:
//
//	COUCHGM_API_KEY    - gateway API key (required unless set in YAML)
//	COUCHGM_PORT       - listen port (default: 8000)
//	COUCHGM_LLM_URL    - Ollama base URL (default: http://localhost:11434)
//	COUCHGM_MODEL      - model name (default: llama3)
//	COUCHGM_LEAGUE_ID  - default league for queries that name none
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/couchgm/couchgm/pkg/auth"
	"github.com/couchgm/couchgm/pkg/compose"
	"github.com/couchgm/couchgm/pkg/config"
	"github.com/couchgm/couchgm/pkg/debug"
	"github.com/couchgm/couchgm/pkg/engine"
	"github.com/couchgm/couchgm/pkg/llm"
	"github.com/couchgm/couchgm/pkg/llm/ollama"
	"github.com/couchgm/couchgm/pkg/llm/openaicompat"
	"github.com/couchgm/couchgm/pkg/registry"
	"github.com/couchgm/couchgm/pkg/router"
	"github.com/couchgm/couchgm/pkg/sleeper"
	transporthttp "github.com/couchgm/couchgm/pkg/transport/http"
)

// initRetryInterval paces background initialization retries when the
// Sleeper API is unreachable at startup.
const initRetryInterval = 30 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	debug.Init()
	logger := slog.Default()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	reg := registry.Default()
	rt, err := router.New(reg, router.DefaultRules(), logger)
	if err != nil {
		return fmt.Errorf("building router: %w", err)
	}

	client := sleeper.New(sleeper.Config{
		BaseURL:            cfg.Sleeper.BaseURL,
		Timeout:            cfg.Sleeper.Timeout,
		CacheTTL:           cfg.Sleeper.CacheTTL,
		CacheSize:          cfg.Sleeper.CacheSize,
		RateLimitPerMinute: cfg.Sleeper.RateLimitPerMinute,
	}, logger)

	gen, err := newGenerator(cfg.LLM)
	if err != nil {
		return fmt.Errorf("creating generative backend: %w", err)
	}
	if gen != nil {
		defer gen.Close()
	}

	eng := engine.New(reg, rt, client, compose.New(gen, logger), engine.Defaults{
		LeagueID: cfg.League.DefaultLeagueID,
		Season:   cfg.League.DefaultSeason,
	}, logger)

	// Try to initialize now; if the Sleeper API is down, keep serving
	// 503s on /query and retry in the background until it comes up.
	initCtx, cancel := context.WithTimeout(context.Background(), cfg.Sleeper.Timeout)
	err = eng.Initialize(initCtx)
	cancel()
	if err != nil {
		logger.Warn("initialization failed, retrying in background", "error", err)
		go retryInitialize(eng, cfg.Sleeper.Timeout, logger)
	}

	srv := transporthttp.NewServer(eng, auth.NewKeyring(cfg.Keys()...),
		transporthttp.WithAddr(fmt.Sprintf(":%d", cfg.Server.Port)),
		transporthttp.WithMaxBodySize(cfg.Server.MaxBodySize),
		transporthttp.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		transporthttp.WithLogger(logger),
	)

	return srv.ListenAndServe()
}

// newGenerator builds the configured generative backend, or nil for
// deterministic-only composition.
func newGenerator(cfg config.LLMConfig) (llm.Generator, error) {
	switch cfg.Backend {
	case "ollama":
		gen, err := ollama.New(ollama.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return gen, nil
	case "openai":
		gen, err := openaicompat.New(openaicompat.Config{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return gen, nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown llm backend %q", cfg.Backend)
	}
}

func retryInitialize(eng *engine.Engine, timeout time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(initRetryInterval)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		err := eng.Initialize(ctx)
		cancel()
		if err == nil {
			logger.Info("initialization succeeded after retry")
			return
		}
		logger.Warn("initialization retry failed", "error", err)
	}
}
