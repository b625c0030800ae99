package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"

	"guild-ledger/internal/logger"
	"guild-ledger/internal/models"
	"guild-ledger/internal/storage"
)

const (
	logsPrefix     = "logs|"
	logsGotoPrefix = "logs-goto|"
	logsPageSize   = 5
)

// logViewState is the filter/page state carried in component custom IDs.
type logViewState struct {
	page     int
	logType  string
	username string
}

func (s logViewState) customID(action string) string {
	return strings.Join([]string{"logs", action, strconv.Itoa(s.page), s.logType, s.username}, "|")
}

func parseLogViewState(customID string) (string, logViewState, bool) {
	parts := strings.Split(customID, "|")
	if len(parts) != 5 {
		return "", logViewState{}, false
	}
	page, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", logViewState{}, false
	}
	return parts[1], logViewState{page: page, logType: parts[3], username: parts[4]}, true
}

// formatLogEntry renders one event in the per-type field layout.
func formatLogEntry(e *models.LogEvent) string {
	timeStr := e.Timestamp.Format("02/01/2006 15:04")

	fields := []string{fmt.Sprintf("Type: %s", e.Type)}
	addField := func(label, value string) {
		if value == "" {
			value = "-"
		}
		fields = append(fields, fmt.Sprintf("%s: %s", label, value))
	}

	switch e.Type {
	case models.EventLeft:
		addField("Username", e.Username)
		addField("Name", e.Name)
		addField("Reason", e.Extra)
		addField("Time", timeStr)
	case models.EventWarn, models.EventKick, models.EventBlacklist:
		addField("Username", e.Username)
		addField("Name", e.Name)
		addField("By", e.By)
		addField("Reason", e.Extra)
		if e.Type != models.EventBlacklist {
			addField("Time", timeStr)
		}
	case models.EventPromote, models.EventDemote:
		addField("Username", e.Username)
		addField("Name", e.Name)
		addField("From", e.FromRank)
		addField("To", e.ToRank)
		addField("By", e.By)
		addField("Time", timeStr)
	default:
		addField("Username", e.Username)
		addField("Name", e.Name)
		addField("By", e.By)
		addField("Time", timeStr)
	}

	return strings.Join(fields, " | ")
}

// renderLogsPage builds one page of log entries.
func renderLogsPage(events []*models.LogEvent, page, pages int) string {
	start := page * logsPageSize
	end := start + logsPageSize
	if end > len(events) {
		end = len(events)
	}

	var b strings.Builder
	b.WriteString("```\n")
	for _, e := range events[start:end] {
		b.WriteString(formatLogEntry(e))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("\nPage %d/%d | Total Logs: %d\n", page+1, pages, len(events)))
	b.WriteString("```")
	return b.String()
}

func logsComponents(state logViewState, pages int) []discord.ContainerComponent {
	options := make([]discord.StringSelectMenuOption, 0, len(models.EventTypes)+1)
	for _, t := range append([]string{"ALL"}, models.EventTypes...) {
		option := discord.NewStringSelectMenuOption(t, t)
		if t == state.logType {
			option = option.WithDefault(true)
		}
		options = append(options, option)
	}

	return []discord.ContainerComponent{
		discord.NewActionRow(
			discord.NewStringSelectMenu(state.customID("type"), "Filter by type", options...),
		),
		discord.NewActionRow(
			discord.NewPrimaryButton("Previous", state.customID("prev")).WithDisabled(state.page == 0),
			discord.NewPrimaryButton("Go To", state.customID("goto")),
			discord.NewPrimaryButton("Next", state.customID("next")).WithDisabled(state.page >= pages-1),
		),
	}
}

func (h *Handler) queryLogs(state logViewState) ([]*models.LogEvent, error) {
	return h.store.Logs(storage.LogQuery{
		Type:           state.logType,
		Username:       state.username,
		SortByTimeDesc: true,
	})
}

// handleViewLogs renders the first page of the log view.
func (h *Handler) handleViewLogs(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()

	state := logViewState{logType: "ALL"}
	if v, ok := data.OptString("username"); ok {
		state.username = v
	}

	logs, err := h.queryLogs(state)
	if err != nil {
		logger.Errorf("Failed to list logs: %v", err)
		replyEphemeral(event, "Failed to load logs.")
		return
	}
	if len(logs) == 0 {
		replyEphemeral(event, "No logs found.")
		return
	}

	pages := totalPages(len(logs), logsPageSize)
	builder := discord.NewMessageCreateBuilder().SetContent(renderLogsPage(logs, 0, pages))
	for _, row := range logsComponents(state, pages) {
		builder.AddContainerComponents(row)
	}
	if err := event.CreateMessage(builder.Build()); err != nil {
		logger.Errorf("Failed to reply to /viewlogs: %v", err)
	}
}

// handleLogsComponent handles paging buttons and the type select.
func (h *Handler) handleLogsComponent(event *events.ComponentInteractionCreate, customID string) {
	action, state, ok := parseLogViewState(customID)
	if !ok {
		return
	}

	switch action {
	case "goto":
		modal := discord.NewModalCreateBuilder().
			SetCustomID(logsGotoPrefix + strings.TrimPrefix(customID, logsPrefix)).
			SetTitle("Go To Page").
			AddActionRow(
				discord.NewTextInput("page", discord.TextInputStyleShort, "Page number").
					WithRequired(true),
			).
			Build()
		if err := event.Modal(modal); err != nil {
			logger.Errorf("Failed to show goto modal: %v", err)
		}
		return
	case "type":
		values := event.StringSelectMenuInteractionData().Values
		if len(values) > 0 {
			state.logType = values[0]
		}
		state.page = 0
	case "prev":
		state.page--
	case "next":
		state.page++
	}

	logs, err := h.queryLogs(state)
	if err != nil {
		logger.Errorf("Failed to list logs: %v", err)
		return
	}
	pages := totalPages(len(logs), logsPageSize)
	state.page = clampPage(state.page, pages)

	builder := discord.NewMessageUpdateBuilder().SetContent(renderLogsPage(logs, state.page, pages))
	for _, row := range logsComponents(state, pages) {
		builder.AddContainerComponents(row)
	}
	if err := event.UpdateMessage(builder.Build()); err != nil {
		logger.Errorf("Failed to update log view: %v", err)
	}
}

// handleLogsGoto applies the page entered in the goto modal.
func (h *Handler) handleLogsGoto(event *events.ModalSubmitInteractionCreate, customID string) {
	_, state, ok := parseLogViewState(logsPrefix + strings.TrimPrefix(customID, logsGotoPrefix))
	if !ok {
		return
	}

	page, err := strconv.Atoi(strings.TrimSpace(event.Data.Text("page")))
	if err != nil || page < 1 {
		if err := event.CreateMessage(discord.NewMessageCreateBuilder().
			SetContent("Invalid page number.").
			SetEphemeral(true).
			Build()); err != nil {
			logger.Errorf("Failed to reject goto input: %v", err)
		}
		return
	}
	state.page = page - 1

	logs, err := h.queryLogs(state)
	if err != nil {
		logger.Errorf("Failed to list logs: %v", err)
		return
	}
	pages := totalPages(len(logs), logsPageSize)
	state.page = clampPage(state.page, pages)

	builder := discord.NewMessageUpdateBuilder().SetContent(renderLogsPage(logs, state.page, pages))
	for _, row := range logsComponents(state, pages) {
		builder.AddContainerComponents(row)
	}
	if err := event.UpdateMessage(builder.Build()); err != nil {
		logger.Errorf("Failed to update log view: %v", err)
	}
}
