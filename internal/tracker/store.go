package tracker

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"
)

// Counters holds one member's live tallies: messages since the last daily
// reset and a per-weekday breakdown since the last weekly reset.
type Counters struct {
	Daily  int
	Weekly map[Weekday]int
}

// WeeklyTotal sums the per-weekday counts.
func (c Counters) WeeklyTotal() int {
	total := 0
	for _, n := range c.Weekly {
		total += n
	}

	return total
}

// Store is the in-memory tally map keyed by (guild, member). It is the
// authoritative state for the running process; the Redis mirror only holds
// a best-effort copy. All mutation goes through Increment, the reset
// methods, or Hydrate at startup.
type Store struct {
	mu     sync.Mutex
	guilds map[snowflake.ID]map[snowflake.ID]*Counters
	logger *zap.Logger
}

// NewStore creates an empty tally store.
func NewStore(logger *zap.Logger) *Store {
	return &Store{
		guilds: make(map[snowflake.ID]map[snowflake.ID]*Counters),
		logger: logger.Named("tracker"),
	}
}

// ensureLocked returns the member's counters, lazily creating zero-valued
// ones. Callers must hold s.mu.
func (s *Store) ensureLocked(guildID, memberID snowflake.ID) *Counters {
	members, ok := s.guilds[guildID]
	if !ok {
		members = make(map[snowflake.ID]*Counters)
		s.guilds[guildID] = members
	}

	counters, ok := members[memberID]
	if !ok {
		counters = &Counters{Weekly: make(map[Weekday]int)}
		members[memberID] = counters
	}

	return counters
}

// Ensure lazily creates zero-valued counters for a member and returns a
// snapshot copy. Idempotent.
func (s *Store) Ensure(guildID, memberID snowflake.ID) Counters {
	s.mu.Lock()
	defer s.mu.Unlock()

	return snapshot(s.ensureLocked(guildID, memberID))
}

// Increment adds one message to the member's daily count and to the given
// weekday's count, returning the post-increment values for immediate
// mirroring. The caller invokes this exactly once per qualifying message.
func (s *Store) Increment(guildID, memberID snowflake.ID, day Weekday) (newDaily, newWeeklyForDay int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counters := s.ensureLocked(guildID, memberID)
	counters.Daily++
	counters.Weekly[day]++

	return counters.Daily, counters.Weekly[day]
}

// Hydrate overwrite-initializes a member's counters from a persisted
// snapshot. Only used during startup load; steady-state mutation goes
// through Increment and the resets.
func (s *Store) Hydrate(guildID, memberID snowflake.ID, daily int, weekly map[Weekday]int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counters := s.ensureLocked(guildID, memberID)
	counters.Daily = daily

	counters.Weekly = make(map[Weekday]int, len(weekly))
	for day, count := range weekly {
		counters.Weekly[day] = count
	}
}

// Counters returns a snapshot copy of a member's tallies, lazily creating
// them first.
func (s *Store) Counters(guildID, memberID snowflake.ID) Counters {
	return s.Ensure(guildID, memberID)
}

// ResetDaily zeroes the daily count for every tracked member of one guild.
func (s *Store) ResetDaily(guildID snowflake.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, counters := range s.guilds[guildID] {
		counters.Daily = 0
	}
}

// ResetWeekly zeroes every weekday count for every tracked member of one guild.
func (s *Store) ResetWeekly(guildID snowflake.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, counters := range s.guilds[guildID] {
		counters.Weekly = make(map[Weekday]int)
	}
}

// ResetAllDaily zeroes daily counts across every guild. Fired by the 24h timer.
func (s *Store) ResetAllDaily() {
	s.mu.Lock()
	defer s.mu.Unlock()

	members := 0

	for _, guild := range s.guilds {
		for _, counters := range guild {
			counters.Daily = 0
			members++
		}
	}

	s.logger.Info("Reset daily counters", zap.Int("members", members))
}

// ResetAllWeekly zeroes weekly counts across every guild. Fired by the 7d timer.
func (s *Store) ResetAllWeekly() {
	s.mu.Lock()
	defer s.mu.Unlock()

	members := 0

	for _, guild := range s.guilds {
		for _, counters := range guild {
			counters.Weekly = make(map[Weekday]int)
			members++
		}
	}

	s.logger.Info("Reset weekly counters", zap.Int("members", members))
}

// SnapshotAll returns a deep copy of every guild's tallies. Used by the
// debug endpoint; never handed out as live state.
func (s *Store) SnapshotAll() map[snowflake.ID]map[snowflake.ID]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make(map[snowflake.ID]map[snowflake.ID]Counters, len(s.guilds))

	for guildID, members := range s.guilds {
		guild := make(map[snowflake.ID]Counters, len(members))
		for memberID, counters := range members {
			guild[memberID] = snapshot(counters)
		}

		all[guildID] = guild
	}

	return all
}

func snapshot(c *Counters) Counters {
	weekly := make(map[Weekday]int, len(c.Weekly))
	for day, count := range c.Weekly {
		weekly[day] = count
	}

	return Counters{Daily: c.Daily, Weekly: weekly}
}
