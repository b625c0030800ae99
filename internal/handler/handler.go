package handler

import (
	"strings"

	"guild-ledger/internal/config"
	"guild-ledger/internal/logger"
	"guild-ledger/internal/service"
	"guild-ledger/internal/storage"

	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
)

// Handler routes Discord interactions to the event processor and the
// roster/log views. It is presentation glue only; all state lives
// behind the storage adapter.
type Handler struct {
	cfg       *config.Config
	processor *service.Processor
	roster    *service.Roster
	store     storage.Store

	staffRoles     map[snowflake.ID]struct{}
	commandChannel snowflake.ID
}

// New creates a Handler and parses the configured channel and role
// snowflakes.
func New(cfg *config.Config, store storage.Store) *Handler {
	h := &Handler{
		cfg:        cfg,
		processor:  service.NewProcessor(store),
		roster:     service.NewRoster(store),
		store:      store,
		staffRoles: make(map[snowflake.ID]struct{}),
	}

	for _, raw := range cfg.Bot.StaffRoleIDs {
		id, err := snowflake.Parse(raw)
		if err != nil {
			logger.Warningf("Invalid staff role ID %q: %v", raw, err)
			continue
		}
		h.staffRoles[id] = struct{}{}
	}

	if cfg.Bot.CommandChannelID != "" {
		id, err := snowflake.Parse(cfg.Bot.CommandChannelID)
		if err != nil {
			logger.Warningf("Invalid command channel ID %q: %v", cfg.Bot.CommandChannelID, err)
		} else {
			h.commandChannel = id
		}
	}

	return h
}

// OnCommand dispatches slash commands.
func (h *Handler) OnCommand(event *events.ApplicationCommandInteractionCreate) {
	if msg := h.checkRestrictions(event.Member(), event.Channel().ID()); msg != "" {
		replyEphemeral(event, msg)
		return
	}

	data := event.SlashCommandInteractionData()
	switch data.CommandName() {
	case "add":
		h.handleAdd(event)
	case "viewmembers":
		h.handleViewMembers(event)
	case "viewlogs":
		h.handleViewLogs(event)
	}
}

// OnComponent dispatches pagination buttons and filter selects.
func (h *Handler) OnComponent(event *events.ComponentInteractionCreate) {
	if msg := h.checkRestrictions(event.Member(), event.Channel().ID()); msg != "" {
		replyComponentEphemeral(event, msg)
		return
	}

	customID := event.Data.CustomID()
	switch {
	case strings.HasPrefix(customID, membersPrefix):
		h.handleMembersComponent(event, customID)
	case strings.HasPrefix(customID, logsPrefix):
		h.handleLogsComponent(event, customID)
	}
}

// OnModalSubmit handles the goto-page modals.
func (h *Handler) OnModalSubmit(event *events.ModalSubmitInteractionCreate) {
	customID := event.Data.CustomID
	switch {
	case strings.HasPrefix(customID, membersGotoPrefix):
		h.handleMembersGoto(event, customID)
	case strings.HasPrefix(customID, logsGotoPrefix):
		h.handleLogsGoto(event, customID)
	}
}
