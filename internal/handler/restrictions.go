package handler

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"

	"guild-ledger/internal/logger"
)

// checkRestrictions enforces the staff-role and command-channel
// allow-lists. It returns a rejection message, or "" when access is
// granted. An empty allow-list disables the corresponding check.
func (h *Handler) checkRestrictions(member *discord.ResolvedMember, channelID snowflake.ID) string {
	if h.commandChannel != 0 && channelID != h.commandChannel {
		return fmt.Sprintf("You can only use this command in <#%s>.", h.commandChannel)
	}

	if len(h.staffRoles) == 0 {
		return ""
	}
	if member == nil {
		return "You do not have permission to use this command."
	}
	for _, roleID := range member.RoleIDs {
		if _, ok := h.staffRoles[roleID]; ok {
			return ""
		}
	}
	return "You do not have permission to use this command."
}

func replyEphemeral(event *events.ApplicationCommandInteractionCreate, content string) {
	err := event.CreateMessage(discord.NewMessageCreateBuilder().
		SetContent(content).
		SetEphemeral(true).
		Build())
	if err != nil {
		logger.Errorf("Failed to send ephemeral reply: %v", err)
	}
}

func replyComponentEphemeral(event *events.ComponentInteractionCreate, content string) {
	err := event.CreateMessage(discord.NewMessageCreateBuilder().
		SetContent(content).
		SetEphemeral(true).
		Build())
	if err != nil {
		logger.Errorf("Failed to send ephemeral reply: %v", err)
	}
}
