package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"

	"guild-ledger/internal/logger"
	"guild-ledger/internal/models"
	"guild-ledger/internal/service"
)

const (
	membersPrefix     = "members|"
	membersGotoPrefix = "members-goto|"
	membersPageSize   = 20

	nameWidth     = 18
	usernameWidth = 18
	rankWidth     = 18
	joinedWidth   = 19
)

func rankChoices() []discord.ApplicationCommandOptionChoiceString {
	choices := make([]discord.ApplicationCommandOptionChoiceString, 0, len(models.RankOrder))
	for _, rank := range models.RankOrder {
		choices = append(choices, discord.ApplicationCommandOptionChoiceString{Name: rank, Value: rank})
	}
	return choices
}

// memberViewState is the filter/page state carried in component
// custom IDs, keeping the pagination stateless.
type memberViewState struct {
	page   int
	filter service.MemberFilter
}

func (s memberViewState) customID(action string) string {
	order := "asc"
	if s.filter.Descending {
		order = "desc"
	}
	return strings.Join([]string{
		"members", action, strconv.Itoa(s.page),
		s.filter.Name, s.filter.Rank, s.filter.SortField, order,
	}, "|")
}

func parseMemberViewState(customID string) (string, memberViewState, bool) {
	parts := strings.Split(customID, "|")
	if len(parts) != 7 {
		return "", memberViewState{}, false
	}
	page, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", memberViewState{}, false
	}
	return parts[1], memberViewState{
		page: page,
		filter: service.MemberFilter{
			Name:       parts[3],
			Rank:       parts[4],
			SortField:  parts[5],
			Descending: parts[6] == "desc",
		},
	}, true
}

// center pads a cell to width, truncating long values with an ellipsis.
func center(s string, width int) string {
	if len(s) > width {
		s = s[:width-3] + "..."
	}
	padTotal := width - len(s)
	padLeft := padTotal / 2
	return strings.Repeat(" ", padLeft) + s + strings.Repeat(" ", padTotal-padLeft)
}

func formatMemberRow(m *models.MemberRecord) string {
	joined := m.JoinedAt.Format("02/01/2006 15:04:05")
	return fmt.Sprintf("%s | %s | %s | %s",
		center(m.Name, nameWidth),
		center(m.Username, usernameWidth),
		center(m.Rank, rankWidth),
		center(joined, joinedWidth),
	)
}

// renderMembersTable builds the fixed-width table for one page.
func renderMembersTable(members []*models.MemberRecord, page, totalPages int) string {
	start := page * membersPageSize
	end := start + membersPageSize
	if end > len(members) {
		end = len(members)
	}

	var b strings.Builder
	b.WriteString("```\n")
	b.WriteString(fmt.Sprintf("%s | %s | %s | %s\n",
		center("Name", nameWidth),
		center("Username", usernameWidth),
		center("Rank", rankWidth),
		center("Joined", joinedWidth),
	))
	b.WriteString(strings.Repeat("-", nameWidth+usernameWidth+rankWidth+joinedWidth+9))
	b.WriteString("\n")
	for _, m := range members[start:end] {
		b.WriteString(formatMemberRow(m))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("\nPage %d/%d | Total Members: %d\n", page+1, totalPages, len(members)))
	b.WriteString("```")
	return b.String()
}

func membersComponents(state memberViewState, totalPages int) []discord.InteractiveComponent {
	return []discord.InteractiveComponent{
		discord.NewPrimaryButton("Previous", state.customID("prev")).WithDisabled(state.page == 0),
		discord.NewPrimaryButton("Go To", state.customID("goto")),
		discord.NewPrimaryButton("Next", state.customID("next")).WithDisabled(state.page >= totalPages-1),
	}
}

func totalPages(count, pageSize int) int {
	pages := (count + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// handleViewMembers renders the first page for the selected filters.
func (h *Handler) handleViewMembers(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()

	filter := service.MemberFilter{SortField: service.SortByJoined}
	if v, ok := data.OptString("name"); ok {
		filter.Name = v
	}
	if v, ok := data.OptString("rank"); ok {
		filter.Rank = v
	}
	if v, ok := data.OptString("sort"); ok {
		filter.SortField = v
	}
	if v, ok := data.OptString("order"); ok {
		filter.Descending = v == "desc"
	}

	members, err := h.roster.ListActive(filter)
	if err != nil {
		logger.Errorf("Failed to list members: %v", err)
		replyEphemeral(event, "Failed to load members.")
		return
	}
	if len(members) == 0 {
		replyEphemeral(event, "No members found for the specified filters.")
		return
	}

	state := memberViewState{page: 0, filter: filter}
	pages := totalPages(len(members), membersPageSize)
	err = event.CreateMessage(discord.NewMessageCreateBuilder().
		SetContent(renderMembersTable(members, 0, pages)).
		AddActionRow(membersComponents(state, pages)...).
		Build())
	if err != nil {
		logger.Errorf("Failed to reply to /viewmembers: %v", err)
	}
}

// handleMembersComponent handles prev/next/goto for the member table.
func (h *Handler) handleMembersComponent(event *events.ComponentInteractionCreate, customID string) {
	action, state, ok := parseMemberViewState(customID)
	if !ok {
		return
	}

	if action == "goto" {
		modal := discord.NewModalCreateBuilder().
			SetCustomID(membersGotoPrefix + strings.TrimPrefix(customID, membersPrefix)).
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
	}

	switch action {
	case "prev":
		state.page--
	case "next":
		state.page++
	}
	h.updateMembersView(event, state)
}

// handleMembersGoto applies the page entered in the goto modal.
func (h *Handler) handleMembersGoto(event *events.ModalSubmitInteractionCreate, customID string) {
	_, state, ok := parseMemberViewState(membersPrefix + strings.TrimPrefix(customID, membersGotoPrefix))
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

	members, err := h.roster.ListActive(state.filter)
	if err != nil {
		logger.Errorf("Failed to list members: %v", err)
		return
	}
	pages := totalPages(len(members), membersPageSize)
	state.page = clampPage(state.page, pages)

	if err := event.UpdateMessage(discord.NewMessageUpdateBuilder().
		SetContent(renderMembersTable(members, state.page, pages)).
		AddActionRow(membersComponents(state, pages)...).
		Build()); err != nil {
		logger.Errorf("Failed to update member view: %v", err)
	}
}

func (h *Handler) updateMembersView(event *events.ComponentInteractionCreate, state memberViewState) {
	members, err := h.roster.ListActive(state.filter)
	if err != nil {
		logger.Errorf("Failed to list members: %v", err)
		return
	}
	pages := totalPages(len(members), membersPageSize)
	state.page = clampPage(state.page, pages)

	if err := event.UpdateMessage(discord.NewMessageUpdateBuilder().
		SetContent(renderMembersTable(members, state.page, pages)).
		AddActionRow(membersComponents(state, pages)...).
		Build()); err != nil {
		logger.Errorf("Failed to update member view: %v", err)
	}
}

func clampPage(page, totalPages int) int {
	if page < 0 {
		return 0
	}
	if page >= totalPages {
		return totalPages - 1
	}
	return page
}
