package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/recuentobot/recuento/internal/bot/constants"
	"github.com/recuentobot/recuento/internal/tracker"
)

// Builder creates one member's four-week history embed.
type Builder struct {
	memberName string
	history    map[string]int // ISO date -> messages that date
	weeks      []tracker.Week
}

// NewBuilder creates a history report builder from a member's persisted
// daily ledger and the precomputed week windows (most recent first).
func NewBuilder(memberName string, history map[string]int, weeks []tracker.Week) *Builder {
	return &Builder{
		memberName: memberName,
		history:    history,
		weeks:      weeks,
	}
}

// Build renders the embed: one field per week window with a line per day
// and a weekly total, separated visually between weeks.
func (b *Builder) Build() discord.Embed {
	embed := discord.NewEmbedBuilder().
		SetTitle(fmt.Sprintf("📊 Historial de mensajes - %s", b.memberName)).
		SetDescription(fmt.Sprintf("Mensajes enviados en las últimas %d semanas", len(b.weeks))).
		SetColor(constants.DefaultEmbedColor).
		SetTimestamp(time.Now())

	for i, week := range b.weeks {
		var lines strings.Builder

		weekTotal := 0

		for _, date := range week.Days() {
			count := b.history[date]
			weekTotal += count
			lines.WriteString(fmt.Sprintf("**%s**: %d mensajes\n", tracker.DayName(date), count))
		}

		lines.WriteString(fmt.Sprintf("📊 **Total semanal**: %d mensajes", weekTotal))

		embed = embed.AddField(fmt.Sprintf("📅 %s", week.Label()), lines.String(), false)

		// Visual separator between weeks
		if i < len(b.weeks)-1 {
			embed = embed.AddField(constants.WeekSeparator, constants.WeekSeparator, false)
		}
	}

	return embed.Build()
}
