package events

import (
	"time"

	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"github.com/recuentobot/recuento/internal/mirror"
	"github.com/recuentobot/recuento/internal/setup/config"
	"github.com/recuentobot/recuento/internal/tracker"
	"go.uber.org/zap"
)

// MessageEventHandler counts qualifying guild messages. A message counts
// when its author is a real member, the message belongs to a guild, and
// the author holds at least one of the three tracked roles.
type MessageEventHandler struct {
	store        *tracker.Store
	writer       *mirror.Writer
	trackedRoles map[snowflake.ID]struct{}
	logger       *zap.Logger
}

// NewMessageEventHandler creates the ingestion handler from the static
// role configuration.
func NewMessageEventHandler(store *tracker.Store, writer *mirror.Writer, roles *config.RolesConfig, logger *zap.Logger) *MessageEventHandler {
	return &MessageEventHandler{
		store:  store,
		writer: writer,
		trackedRoles: map[snowflake.ID]struct{}{
			snowflake.ID(roles.Staff): {},
			snowflake.ID(roles.Mod):   {},
			snowflake.ID(roles.Admin): {},
		},
		logger: logger.Named("message_events"),
	}
}

// OnMessageCreate increments the author's counters for every qualifying
// message and schedules the mirror write. The mirror write is asynchronous
// and its failure never rolls back the in-memory increment.
func (h *MessageEventHandler) OnMessageCreate(event *events.MessageCreate) {
	// Skip DMs and messages from bots
	if event.GuildID == nil || event.Message.Author.Bot {
		return
	}

	if event.Message.Member == nil || !h.hasTrackedRole(event.Message.Member.RoleIDs) {
		return
	}

	timestamp := event.Message.CreatedAt
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	guildID := *event.GuildID
	memberID := event.Message.Author.ID
	day := tracker.WeekdayOf(timestamp)
	date := tracker.DateOf(timestamp)

	daily, weeklyForDay := h.store.Increment(guildID, memberID, day)
	h.writer.Enqueue(guildID, memberID, date, day, daily, weeklyForDay)

	h.logger.Debug("Counted message",
		zap.Uint64("guild_id", uint64(guildID)),
		zap.Uint64("member_id", uint64(memberID)),
		zap.String("date", date),
		zap.Int("daily", daily))
}

// hasTrackedRole reports whether the author's role set intersects the
// configured role ids. Holding any one of the three tags is enough.
func (h *MessageEventHandler) hasTrackedRole(roleIDs []snowflake.ID) bool {
	for _, id := range roleIDs {
		if _, ok := h.trackedRoles[id]; ok {
			return true
		}
	}

	return false
}
