package bot

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"

	"guild-ledger/internal/config"
	"guild-ledger/internal/handler"
	"guild-ledger/internal/logger"
)

// Service holds the Discord client and the interaction handler.
type Service struct {
	Client  bot.Client
	guildID snowflake.ID
}

// Initialize creates the Discord client wired to the interaction
// handler, plus the health HTTP server.
func Initialize(cfg *config.Config, h *handler.Handler) (*Service, *HealthServer, error) {
	if cfg.Bot.Token == "" {
		return nil, nil, fmt.Errorf("bot token is required")
	}
	guildID, err := snowflake.Parse(cfg.Bot.GuildID)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid guild ID: %w", err)
	}

	client, err := disgo.New(cfg.Bot.Token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(gateway.IntentGuilds),
		),
		bot.WithEventListeners(&events.ListenerAdapter{
			OnApplicationCommandInteraction: h.OnCommand,
			OnComponentInteraction:          h.OnComponent,
			OnModalSubmit:                   h.OnModalSubmit,
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize bot: %w", err)
	}

	return &Service{Client: client, guildID: guildID}, NewHealthServer(cfg.Bot.HealthListenPort), nil
}

// Start registers the guild commands and opens the gateway connection.
func (s *Service) Start(ctx context.Context) error {
	logger.Infof("Registering commands for guild %s", s.guildID)
	_, err := s.Client.Rest().SetGuildCommands(s.Client.ApplicationID(), s.guildID, handler.Commands())
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	logger.Infof("Starting bot")
	return s.Client.OpenGateway(ctx)
}

// Stop closes the gateway connection.
func (s *Service) Stop(ctx context.Context) {
	s.Client.Close(ctx)
}
