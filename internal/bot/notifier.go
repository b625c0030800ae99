package bot

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"

	"guild-ledger/internal/config"
	"guild-ledger/internal/logger"
	"guild-ledger/internal/models"
)

// ChannelNotifier posts the probation-complete batch message to the
// configured reminder channel, pinging the staff roles.
type ChannelNotifier struct {
	client    bot.Client
	channelID snowflake.ID
	roleIDs   []snowflake.ID
}

// NewChannelNotifier builds the notifier from bot configuration.
func NewChannelNotifier(client bot.Client, cfg *config.Config) (*ChannelNotifier, error) {
	channelID, err := snowflake.Parse(cfg.Bot.ReminderChannelID)
	if err != nil {
		return nil, fmt.Errorf("invalid reminder channel ID: %w", err)
	}

	var roleIDs []snowflake.ID
	for _, raw := range cfg.Bot.StaffRoleIDs {
		id, err := snowflake.Parse(raw)
		if err != nil {
			logger.Warningf("Invalid staff role ID %q: %v", raw, err)
			continue
		}
		roleIDs = append(roleIDs, id)
	}

	return &ChannelNotifier{client: client, channelID: channelID, roleIDs: roleIDs}, nil
}

// NotifyProbationComplete sends one message listing the whole batch.
func (n *ChannelNotifier) NotifyProbationComplete(members []*models.MemberRecord) error {
	var b strings.Builder
	for _, roleID := range n.roleIDs {
		b.WriteString(fmt.Sprintf("<@&%s> ", roleID))
	}
	b.WriteString(fmt.Sprintf("\nThe following members have completed **1 month probationary as %s**:\n```", models.ProbationRank))
	for _, m := range members {
		b.WriteString(fmt.Sprintf("\n%s (%s)", m.Name, m.Username))
	}
	b.WriteString("\n```")

	_, err := n.client.Rest().CreateMessage(n.channelID, discord.NewMessageCreateBuilder().
		SetContent(b.String()).
		Build())
	if err != nil {
		return fmt.Errorf("failed to send probation reminder: %w", err)
	}
	return nil
}
