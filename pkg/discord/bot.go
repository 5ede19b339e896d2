// Package discord provides the Discord front end for the couchgm
// gateway. It owns the discordgo.Session lifecycle, listens for prefix
// commands in channels the bot can read, and forwards questions to the
// gateway over HTTP.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

// UsageHint is sent when the command prefix arrives with no question.
const UsageHint = "Ask me something, like `!ask who is in my league` or `!ask draft picks for season 2023`."

// errorReply is sent when the gateway could not be reached.
const errorReply = "Sorry, I couldn't reach the league assistant right now. Try again in a bit."

// Config holds Discord bot configuration.
type Config struct {
	// Token is the Discord bot token.
	Token string

	// CommandPrefix triggers the bot, e.g. "!ask".
	CommandPrefix string

	// GatewayURL is the base URL of the couchgm gateway.
	GatewayURL string

	// APIKey authenticates the bot against the gateway.
	APIKey string

	// Timeout bounds one gateway round trip. Zero selects the default.
	Timeout time.Duration
}

// messageSender is the slice of discordgo.Session the handler needs,
// extracted so tests can record outgoing messages.
type messageSender interface {
	ChannelTyping(channelID string, options ...discordgo.RequestOption) error
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Bot owns the Discord gateway connection and forwards prefix commands
// to the couchgm gateway.
type Bot struct {
	session   *discordgo.Session
	gateway   *Gateway
	prefix    string
	logger    *slog.Logger
	closeOnce sync.Once
}

// New creates a Bot and registers the message handler. The session is
// not opened until Run is called.
func New(cfg Config, logger *slog.Logger) (*Bot, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("discord: token is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	prefix := cfg.CommandPrefix
	if prefix == "" {
		prefix = "!ask"
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("discord: create session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	b := &Bot{
		session: session,
		gateway: NewGateway(cfg.GatewayURL, cfg.APIKey, cfg.Timeout),
		prefix:  prefix,
		logger:  logger,
	}

	session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		b.onMessage(s, m)
	})

	return b, nil
}

// Run opens the Discord connection and blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("discord: open session: %w", err)
	}
	b.logger.Info("discord bot connected", "prefix", b.prefix)

	<-ctx.Done()
	return ctx.Err()
}

// Close disconnects from Discord.
func (b *Bot) Close() error {
	var closeErr error
	b.closeOnce.Do(func() {
		if err := b.session.Close(); err != nil {
			closeErr = fmt.Errorf("discord: close session: %w", err)
		}
		b.logger.Info("discord bot closed")
	})
	return closeErr
}

func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}
	b.handleMessage(context.Background(), s, m)
}

// handleMessage processes one incoming message. It ignores everything
// that is not a prefix command from a human author.
func (b *Bot) handleMessage(ctx context.Context, sender messageSender, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	content := strings.TrimSpace(m.Content)
	if content != b.prefix && !strings.HasPrefix(content, b.prefix+" ") {
		return
	}

	query := strings.TrimSpace(strings.TrimPrefix(content, b.prefix))
	if query == "" {
		b.send(sender, m.ChannelID, UsageHint)
		return
	}

	// Show the typing indicator while the gateway works.
	if err := sender.ChannelTyping(m.ChannelID); err != nil {
		b.logger.Debug("typing indicator failed", "error", err)
	}

	reply, err := b.gateway.Ask(ctx, query, m.Author.ID)
	if err != nil {
		b.logger.Error("gateway query failed", "error", err, "query", query)
		b.send(sender, m.ChannelID, errorReply)
		return
	}

	for _, part := range Chunk(reply) {
		b.send(sender, m.ChannelID, part)
	}
}

func (b *Bot) send(sender messageSender, channelID, content string) {
	if _, err := sender.ChannelMessageSend(channelID, content); err != nil {
		b.logger.Warn("failed to send message", "channel", channelID, "error", err)
	}
}
