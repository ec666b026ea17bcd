package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/recuentobot/recuento/internal/bot/constants"
	"github.com/recuentobot/recuento/internal/tracker"
)

// Entry pairs one role member with their counters. Entries keep the order
// in which members were enumerated so ranking ties stay stable.
type Entry struct {
	MemberID snowflake.ID
	Counters tracker.Counters
}

// Builder creates the visual layout for the /stats report.
type Builder struct {
	roleName string
	entries  []Entry
}

// NewBuilder creates a stats report builder for one role's members.
func NewBuilder(roleName string, entries []Entry) *Builder {
	return &Builder{
		roleName: roleName,
		entries:  entries,
	}
}

// BuildDaily renders the ranked daily report: every member sorted by
// today's count descending, ties kept in enumeration order.
func (b *Builder) BuildDaily() discord.Embed {
	ranked := make([]Entry, len(b.entries))
	copy(ranked, b.entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Counters.Daily > ranked[j].Counters.Daily
	})

	total := 0
	for _, entry := range ranked {
		total += entry.Counters.Daily
	}

	var description strings.Builder

	if total == 0 {
		description.WriteString("Nadie ha enviado mensajes hoy.")
	} else {
		for i, entry := range ranked {
			description.WriteString(fmt.Sprintf("**%d.** <@%s>: %d mensajes\n",
				i+1, entry.MemberID, entry.Counters.Daily))
		}
	}

	return discord.NewEmbedBuilder().
		SetTitle(fmt.Sprintf("📊 Estadísticas diarias - %s", b.roleName)).
		SetDescription(description.String()).
		SetColor(constants.DefaultEmbedColor).
		Build()
}

// BuildWeekly renders the weekly report: one section per weekday in
// Monday-first order, listing only members with a non-zero count that day.
// Weekdays with no qualifying members are skipped entirely.
func (b *Builder) BuildWeekly() discord.Embed {
	var sections strings.Builder

	for _, day := range tracker.Weekdays {
		var lines strings.Builder

		for _, entry := range b.entries {
			if count := entry.Counters.Weekly[day]; count > 0 {
				lines.WriteString(fmt.Sprintf("<@%s>: %d mensajes\n", entry.MemberID, count))
			}
		}

		if lines.Len() == 0 {
			continue
		}

		sections.WriteString(fmt.Sprintf("**%s**\n%s\n", day.Name(), lines.String()))
	}

	description := sections.String()
	if description == "" {
		description = "No se registraron mensajes esta semana."
	}

	return discord.NewEmbedBuilder().
		SetTitle(fmt.Sprintf("📊 Estadísticas semanales - %s", b.roleName)).
		SetDescription(description).
		SetColor(constants.DefaultEmbedColor).
		Build()
}
