// Command discord-bot runs the Discord front end for the couchgm
// gateway. It listens for prefix commands (default "!ask") and forwards
// the question to the gateway's /query endpoint.
//
// Required configuration: discord.token (or COUCHGM_DISCORD_TOKEN) and
// a gateway API key (auth.api_keys or COUCHGM_API_KEY).
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchgm/couchgm/pkg/config"
	"github.com/couchgm/couchgm/pkg/debug"
	"github.com/couchgm/couchgm/pkg/discord"
)

func main() {
	if err := run(); err != nil && err != context.Canceled {
		slog.Error("discord bot failed", "error", err)
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
	if cfg.Discord.Token == "" {
		return fmt.Errorf("discord.token is required (or set COUCHGM_DISCORD_TOKEN)")
	}
	keys := cfg.Keys()

	bot, err := discord.New(discord.Config{
		Token:         cfg.Discord.Token,
		CommandPrefix: cfg.Discord.CommandPrefix,
		GatewayURL:    cfg.Discord.GatewayURL,
		APIKey:        keys[0],
	}, logger)
	if err != nil {
		return err
	}
	defer bot.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("discord bot starting", "gateway", cfg.Discord.GatewayURL)
	return bot.Run(ctx)
}
