package handlers

import (
	"github.com/disgoorg/disgo/events"
	"github.com/recuentobot/recuento/internal/bot/constants"
	"github.com/recuentobot/recuento/internal/bot/views/stats"
	"go.uber.org/zap"
)

// HandleStats processes /stats: it resolves the requested role, enumerates
// its current holders, ensures each has counters, and renders the daily or
// weekly report. The interaction is already deferred by the dispatcher.
func (h *Handler) HandleStats(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	tag := data.String(constants.RoleOptionName)
	statsType := data.String(constants.TypeOptionName)

	role, err := h.resolveRole(event, tag)
	if err != nil {
		h.respondRoleError(event, err)
		return
	}

	members, err := h.roleMembers(event, role.ID)
	if err != nil {
		h.logger.Error("Failed to enumerate role members",
			zap.String("role", tag),
			zap.Error(err))
		h.respondText(event, "Ocurrió un error al obtener los miembros del rol.")

		return
	}

	guildID := *event.GuildID()

	// Enumeration order is preserved so ranking ties stay stable
	entries := make([]stats.Entry, 0, len(members))
	for _, member := range members {
		entries = append(entries, stats.Entry{
			MemberID: member.User.ID,
			Counters: h.store.Ensure(guildID, member.User.ID),
		})
	}

	builder := stats.NewBuilder(role.Name, entries)

	switch statsType {
	case constants.StatsTypeWeekly:
		h.respond(event, builder.BuildWeekly())
	default:
		h.respond(event, builder.BuildDaily())
	}

	h.logger.Debug("Served stats report",
		zap.String("role", tag),
		zap.String("type", statsType),
		zap.Int("members", len(members)))
}
