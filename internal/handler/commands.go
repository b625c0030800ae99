package handler

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"

	"guild-ledger/internal/logger"
	"guild-ledger/internal/service"
)

// addSubcommand describes one /add subcommand and the extra options
// it carries beyond name/username/by.
type addSubcommand struct {
	name        string
	description string
	options     []discord.ApplicationCommandOption
}

func stringOption(name, description string, required bool) discord.ApplicationCommandOptionString {
	return discord.ApplicationCommandOptionString{
		Name:        name,
		Description: description,
		Required:    required,
	}
}

// Commands returns the guild slash-command set.
func Commands() []discord.ApplicationCommandCreate {
	subs := []addSubcommand{
		{"join", "Add a JOIN event", []discord.ApplicationCommandOption{
			stringOption("rank", "Role/Rank", false),
			stringOption("timestamp", "ISO timestamp", false),
		}},
		{"kick", "Add a KICK event", []discord.ApplicationCommandOption{
			stringOption("extra", "Reason", false),
			stringOption("timestamp", "ISO timestamp", false),
		}},
		{"left", "Mark a user as LEFT", []discord.ApplicationCommandOption{
			stringOption("timestamp", "ISO timestamp", false),
		}},
		{"promote", "Add a PROMOTE event", []discord.ApplicationCommandOption{
			stringOption("to", "To role", true),
			stringOption("from", "From role", false),
			stringOption("timestamp", "ISO timestamp", false),
		}},
		{"demote", "Add a DEMOTE event", []discord.ApplicationCommandOption{
			stringOption("to", "To role", true),
			stringOption("from", "From role", false),
			stringOption("extra", "Reason", false),
			stringOption("timestamp", "ISO timestamp", false),
		}},
		{"warn", "Add a WARN event", []discord.ApplicationCommandOption{
			stringOption("extra", "Reason", true),
			stringOption("timestamp", "ISO timestamp", false),
		}},
		{"blacklist", "Add a BLACKLIST event", []discord.ApplicationCommandOption{
			stringOption("extra", "Reason", true),
			stringOption("timestamp", "ISO timestamp", false),
		}},
	}

	addOptions := make([]discord.ApplicationCommandOption, 0, len(subs))
	for _, sub := range subs {
		options := []discord.ApplicationCommandOption{
			stringOption("name", "Name of the user", true),
			stringOption("username", "Username", true),
			stringOption("by", "Performed by", true),
		}
		options = append(options, sub.options...)
		addOptions = append(addOptions, discord.ApplicationCommandOptionSubCommand{
			Name:        sub.name,
			Description: sub.description,
			Options:     options,
		})
	}

	sortChoices := []discord.ApplicationCommandOptionChoiceString{
		{Name: "Name", Value: service.SortByName},
		{Name: "Rank", Value: service.SortByRank},
		{Name: "Joined", Value: service.SortByJoined},
	}
	orderChoices := []discord.ApplicationCommandOptionChoiceString{
		{Name: "Ascending", Value: "asc"},
		{Name: "Descending", Value: "desc"},
	}

	return []discord.ApplicationCommandCreate{
		discord.SlashCommandCreate{
			Name:        "add",
			Description: "Add a log event",
			Options:     addOptions,
		},
		discord.SlashCommandCreate{
			Name:        "viewmembers",
			Description: "Displays members with pagination and filtering",
			Options: []discord.ApplicationCommandOption{
				stringOption("name", "Filter by partial name", false),
				discord.ApplicationCommandOptionString{
					Name:        "rank",
					Description: "Filter by rank",
					Choices:     rankChoices(),
				},
				discord.ApplicationCommandOptionString{
					Name:        "sort",
					Description: "Sort field",
					Choices:     sortChoices,
				},
				discord.ApplicationCommandOptionString{
					Name:        "order",
					Description: "Sort order",
					Choices:     orderChoices,
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        "viewlogs",
			Description: "Displays logs with pagination and filtering",
			Options: []discord.ApplicationCommandOption{
				stringOption("username", "Filter by username", false),
			},
		},
	}
}

// handleAdd decodes the subcommand payload, processes the event and
// replies with the enriched log entry.
func (h *Handler) handleAdd(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	if data.SubCommandName == nil {
		return
	}

	payload := service.EventPayload{
		Name:      data.String("name"),
		Username:  data.String("username"),
		By:        data.String("by"),
		Timestamp: data.String("timestamp"),
	}
	if v, ok := data.OptString("rank"); ok {
		payload.Rank = v
	}
	if v, ok := data.OptString("to"); ok {
		payload.To = v
	}
	if v, ok := data.OptString("from"); ok {
		payload.From = v
	}
	if v, ok := data.OptString("extra"); ok {
		payload.Extra = v
	}

	logEvent, err := h.processor.Process(*data.SubCommandName, payload)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			replyEphemeral(event, fmt.Sprintf("Failed to add event: %v", err))
			return
		}
		logger.Errorf("Failed to process %s event: %v", *data.SubCommandName, err)
		replyEphemeral(event, "Failed to add event: storage error.")
		return
	}

	encoded, err := sonic.MarshalIndent(logEvent, "", "  ")
	if err != nil {
		logger.Errorf("Failed to encode event reply: %v", err)
		encoded = []byte("{}")
	}
	reply := fmt.Sprintf("Event added:\n```json\n%s\n```", encoded)
	if err := event.CreateMessage(discord.NewMessageCreateBuilder().SetContent(reply).Build()); err != nil {
		logger.Errorf("Failed to reply to /add: %v", err)
	}
}
