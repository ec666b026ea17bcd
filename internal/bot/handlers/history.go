package handlers

import (
	"context"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/recuentobot/recuento/internal/bot/constants"
	"github.com/recuentobot/recuento/internal/bot/views/history"
	"github.com/recuentobot/recuento/internal/tracker"
	"go.uber.org/zap"
)

// HandleHistory processes /historial: for every current holder of the
// requested role it reads the persisted daily ledger from the mirror and
// sends one follow-up embed covering the last four Sunday-aligned weeks.
// Members are processed one at a time so a failure on one member's data
// never blocks the others; fetch failures are reported once collectively.
func (h *Handler) HandleHistory(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	tag := data.String(constants.RoleOptionName)

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

	if len(members) == 0 {
		h.respondRoleError(event, ErrEmptyRole)
		return
	}

	h.respondText(event, "Generando el historial de las últimas 4 semanas...")

	guildID := *event.GuildID()
	weeks := tracker.LastWeeks(time.Now(), constants.HistoryWeekCount)
	ctx := context.Background()
	failures := 0

	for _, member := range members {
		memberHistory, err := h.mirror.MemberHistory(ctx, guildID, member.User.ID)
		if err != nil {
			h.logger.Error("Failed to fetch member history",
				zap.Uint64("guild_id", uint64(guildID)),
				zap.Uint64("member_id", uint64(member.User.ID)),
				zap.Error(err))

			failures++

			continue
		}

		// A member that was never mirrored has no report
		if len(memberHistory) == 0 {
			continue
		}

		embed := history.NewBuilder(member.EffectiveName(), memberHistory, weeks).Build()

		_, err = event.Client().Rest().CreateFollowupMessage(event.ApplicationID(), event.Token(),
			discord.NewMessageCreateBuilder().SetEmbeds(embed).Build())
		if err != nil {
			h.logger.Error("Failed to send history report",
				zap.Uint64("member_id", uint64(member.User.ID)),
				zap.Error(err))
		}
	}

	if failures > 0 {
		_, err := event.Client().Rest().CreateFollowupMessage(event.ApplicationID(), event.Token(),
			discord.NewMessageCreateBuilder().
				SetContent("Ocurrió un error al obtener los datos históricos de algunos miembros.").
				Build())
		if err != nil {
			h.logger.Error("Failed to send history error notice", zap.Error(err))
		}
	}

	h.logger.Debug("Served history reports",
		zap.String("role", tag),
		zap.Int("members", len(members)),
		zap.Int("failures", failures))
}
