// Package mirror pushes live tallies to Redis and reads them back. Redis
// holds a best-effort copy only; the in-memory store stays authoritative
// for the running process.
//
// Key scheme, one subtree per (guild, member):
//
//	stats:guilds                      set of guild IDs ever written
//	stats:{guild}:members             set of member IDs ever written
//	stats:{guild}:{member}:daily      hash: ISO date -> messages that date
//	stats:{guild}:{member}:weekly     hash: weekday name -> live weekly count
//
// Daily entries accumulate as a historical ledger and are never zeroed by
// the counter resets; only the live weekly hash tracks the current cycle.
package mirror

import (
	"context"
	"fmt"
	"strconv"

	"github.com/disgoorg/snowflake/v2"
	"github.com/redis/rueidis"
	"github.com/recuentobot/recuento/internal/tracker"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

const (
	guildsKey = "stats:guilds"

	// HydrateConcurrency bounds the per-member fanout during startup load.
	HydrateConcurrency = 8
)

func membersKey(guildID snowflake.ID) string {
	return fmt.Sprintf("stats:%s:members", guildID)
}

func dailyKey(guildID, memberID snowflake.ID) string {
	return fmt.Sprintf("stats:%s:%s:daily", guildID, memberID)
}

func weeklyKey(guildID, memberID snowflake.ID) string {
	return fmt.Sprintf("stats:%s:%s:weekly", guildID, memberID)
}

// Mirror issues partial-field updates against the Redis tally tree.
type Mirror struct {
	client rueidis.Client
	logger *zap.Logger
}

// New creates a mirror around an established Redis client.
func New(client rueidis.Client, logger *zap.Logger) *Mirror {
	return &Mirror{
		client: client,
		logger: logger.Named("mirror"),
	}
}

// RecordMessage writes the post-increment values for one counted message:
// the member's count for the message date and the live count for the
// message weekday. Both are single-field HSETs, so concurrent writers and
// the historical ledger are never clobbered by a full overwrite. The
// member is also registered in the enumeration sets so startup hydration
// can find the subtree again.
func (m *Mirror) RecordMessage(
	ctx context.Context, guildID, memberID snowflake.ID,
	date string, day tracker.Weekday, daily, weeklyForDay int,
) error {
	cmds := []rueidis.Completed{
		m.client.B().Sadd().Key(guildsKey).Member(guildID.String()).Build(),
		m.client.B().Sadd().Key(membersKey(guildID)).Member(memberID.String()).Build(),
		m.client.B().Hset().Key(dailyKey(guildID, memberID)).
			FieldValue().FieldValue(date, strconv.Itoa(daily)).Build(),
		m.client.B().Hset().Key(weeklyKey(guildID, memberID)).
			FieldValue().FieldValue(day.Name(), strconv.Itoa(weeklyForDay)).Build(),
	}

	for _, resp := range m.client.DoMulti(ctx, cmds...) {
		if err := resp.Error(); err != nil {
			return fmt.Errorf("failed to mirror message count: %w", err)
		}
	}

	return nil
}

// MemberHistory returns a member's full daily ledger: ISO date -> count.
// A member that was never mirrored yields an empty map.
func (m *Mirror) MemberHistory(ctx context.Context, guildID, memberID snowflake.ID) (map[string]int, error) {
	counts, err := m.client.Do(ctx, m.client.B().Hgetall().Key(dailyKey(guildID, memberID)).Build()).AsIntMap()
	if err != nil {
		return nil, fmt.Errorf("failed to read daily history: %w", err)
	}

	history := make(map[string]int, len(counts))
	for date, count := range counts {
		history[date] = int(count)
	}

	return history, nil
}

// memberWeekly reads a member's live weekly hash. Unknown field names are
// skipped rather than failing the whole hydration.
func (m *Mirror) memberWeekly(ctx context.Context, guildID, memberID snowflake.ID) (map[tracker.Weekday]int, error) {
	counts, err := m.client.Do(ctx, m.client.B().Hgetall().Key(weeklyKey(guildID, memberID)).Build()).AsIntMap()
	if err != nil {
		return nil, fmt.Errorf("failed to read weekly counts: %w", err)
	}

	weekly := make(map[tracker.Weekday]int, len(counts))

	for name, count := range counts {
		day, ok := tracker.ParseWeekday(name)
		if !ok {
			m.logger.Warn("Skipping unknown weekday field", zap.String("field", name))
			continue
		}

		weekly[day] = int(count)
	}

	return weekly, nil
}

// memberDaily reads a member's count for one date; a missing field means 0.
func (m *Mirror) memberDaily(ctx context.Context, guildID, memberID snowflake.ID, date string) (int, error) {
	count, err := m.client.Do(ctx, m.client.B().Hget().Key(dailyKey(guildID, memberID)).Field(date).Build()).AsInt64()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return 0, nil
		}

		return 0, fmt.Errorf("failed to read daily count: %w", err)
	}

	return int(count), nil
}

// Hydrate loads the latest persisted snapshot into the store: for every
// registered (guild, member) it reads today's daily count plus the live
// weekly hash. Members that fail to load are logged and left
// zero-initialized; hydration never aborts the whole startup.
func (m *Mirror) Hydrate(ctx context.Context, store *tracker.Store, today string) error {
	guildIDs, err := m.client.Do(ctx, m.client.B().Smembers().Key(guildsKey).Build()).AsStrSlice()
	if err != nil {
		return fmt.Errorf("failed to enumerate guilds: %w", err)
	}

	p := pool.New().WithContext(ctx).WithMaxGoroutines(HydrateConcurrency)
	loaded := 0

	for _, rawGuildID := range guildIDs {
		guildID, err := snowflake.Parse(rawGuildID)
		if err != nil {
			m.logger.Warn("Skipping malformed guild id", zap.String("guild_id", rawGuildID))
			continue
		}

		memberIDs, err := m.client.Do(ctx, m.client.B().Smembers().Key(membersKey(guildID)).Build()).AsStrSlice()
		if err != nil {
			m.logger.Error("Failed to enumerate guild members",
				zap.String("guild_id", rawGuildID),
				zap.Error(err))

			continue
		}

		for _, rawMemberID := range memberIDs {
			memberID, err := snowflake.Parse(rawMemberID)
			if err != nil {
				m.logger.Warn("Skipping malformed member id", zap.String("member_id", rawMemberID))
				continue
			}

			loaded++

			p.Go(func(ctx context.Context) error {
				daily, err := m.memberDaily(ctx, guildID, memberID, today)
				if err != nil {
					m.logger.Error("Failed to hydrate daily count",
						zap.Uint64("guild_id", uint64(guildID)),
						zap.Uint64("member_id", uint64(memberID)),
						zap.Error(err))

					return nil
				}

				weekly, err := m.memberWeekly(ctx, guildID, memberID)
				if err != nil {
					m.logger.Error("Failed to hydrate weekly counts",
						zap.Uint64("guild_id", uint64(guildID)),
						zap.Uint64("member_id", uint64(memberID)),
						zap.Error(err))

					return nil
				}

				store.Hydrate(guildID, memberID, daily, weekly)

				return nil
			})
		}
	}

	if err := p.Wait(); err != nil {
		return err
	}

	m.logger.Info("Hydrated counters from mirror",
		zap.Int("guilds", len(guildIDs)),
		zap.Int("members", loaded))

	return nil
}
