package tracker_test

import (
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/recuentobot/recuento/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testGuild  = snowflake.ID(1000)
	testMember = snowflake.ID(2000)
)

func TestEnsure(t *testing.T) {
	t.Parallel()
	store := tracker.NewStore(zap.NewNop())

	counters := store.Ensure(testGuild, testMember)
	assert.Equal(t, 0, counters.Daily)
	assert.Empty(t, counters.Weekly)

	// Idempotent: a second call returns the same zero state
	again := store.Ensure(testGuild, testMember)
	assert.Equal(t, counters, again)
}

func TestIncrement(t *testing.T) {
	t.Parallel()
	store := tracker.NewStore(zap.NewNop())

	for i := 1; i <= 5; i++ {
		daily, weekly := store.Increment(testGuild, testMember, tracker.Wednesday)
		assert.Equal(t, i, daily)
		assert.Equal(t, i, weekly)
	}

	counters := store.Counters(testGuild, testMember)
	assert.Equal(t, 5, counters.Daily)
	assert.Equal(t, 5, counters.Weekly[tracker.Wednesday])
	assert.Equal(t, 5, counters.WeeklyTotal(), "all weekly messages attributed to the message weekday")
}

func TestIncrementAcrossWeekdays(t *testing.T) {
	t.Parallel()
	store := tracker.NewStore(zap.NewNop())

	store.Increment(testGuild, testMember, tracker.Monday)
	store.Increment(testGuild, testMember, tracker.Monday)
	store.Increment(testGuild, testMember, tracker.Sunday)

	counters := store.Counters(testGuild, testMember)
	assert.Equal(t, 3, counters.Daily)
	assert.Equal(t, 2, counters.Weekly[tracker.Monday])
	assert.Equal(t, 1, counters.Weekly[tracker.Sunday])
	assert.Equal(t, 3, counters.WeeklyTotal())
}

func TestResetDaily(t *testing.T) {
	t.Parallel()
	store := tracker.NewStore(zap.NewNop())

	other := snowflake.ID(2001)
	store.Increment(testGuild, testMember, tracker.Friday)
	store.Increment(testGuild, other, tracker.Friday)

	store.ResetAllDaily()

	for _, memberID := range []snowflake.ID{testMember, other} {
		counters := store.Counters(testGuild, memberID)
		assert.Equal(t, 0, counters.Daily)
		assert.Equal(t, 1, counters.Weekly[tracker.Friday], "weekly counts survive a daily reset")
	}
}

func TestResetWeekly(t *testing.T) {
	t.Parallel()
	store := tracker.NewStore(zap.NewNop())

	store.Increment(testGuild, testMember, tracker.Tuesday)
	store.Increment(testGuild, testMember, tracker.Saturday)

	store.ResetAllWeekly()

	counters := store.Counters(testGuild, testMember)
	assert.Equal(t, 2, counters.Daily, "daily count survives a weekly reset")
	assert.Equal(t, 0, counters.WeeklyTotal())
}

func TestResetScopedToGuild(t *testing.T) {
	t.Parallel()
	store := tracker.NewStore(zap.NewNop())

	otherGuild := snowflake.ID(1001)
	store.Increment(testGuild, testMember, tracker.Monday)
	store.Increment(otherGuild, testMember, tracker.Monday)

	store.ResetDaily(testGuild)

	assert.Equal(t, 0, store.Counters(testGuild, testMember).Daily)
	assert.Equal(t, 1, store.Counters(otherGuild, testMember).Daily)

	store.ResetWeekly(testGuild)

	assert.Equal(t, 0, store.Counters(testGuild, testMember).WeeklyTotal())
	assert.Equal(t, 1, store.Counters(otherGuild, testMember).WeeklyTotal())
}

func TestHydrate(t *testing.T) {
	t.Parallel()
	store := tracker.NewStore(zap.NewNop())

	store.Hydrate(testGuild, testMember, 7, map[tracker.Weekday]int{
		tracker.Monday:  4,
		tracker.Tuesday: 3,
	})

	counters := store.Counters(testGuild, testMember)
	assert.Equal(t, 7, counters.Daily)
	assert.Equal(t, 4, counters.Weekly[tracker.Monday])
	assert.Equal(t, 3, counters.Weekly[tracker.Tuesday])

	// Steady-state increments build on the hydrated values
	daily, weekly := store.Increment(testGuild, testMember, tracker.Monday)
	assert.Equal(t, 8, daily)
	assert.Equal(t, 5, weekly)
}

func TestSnapshotIsolation(t *testing.T) {
	t.Parallel()
	store := tracker.NewStore(zap.NewNop())

	store.Increment(testGuild, testMember, tracker.Monday)

	counters := store.Counters(testGuild, testMember)
	counters.Weekly[tracker.Monday] = 99
	counters.Daily = 99

	fresh := store.Counters(testGuild, testMember)
	assert.Equal(t, 1, fresh.Daily, "snapshots must not alias live state")
	assert.Equal(t, 1, fresh.Weekly[tracker.Monday])
}

func TestSnapshotAll(t *testing.T) {
	t.Parallel()
	store := tracker.NewStore(zap.NewNop())

	otherGuild := snowflake.ID(1001)
	store.Increment(testGuild, testMember, tracker.Monday)
	store.Increment(otherGuild, testMember, tracker.Sunday)

	all := store.SnapshotAll()
	require.Len(t, all, 2)
	assert.Equal(t, 1, all[testGuild][testMember].Daily)
	assert.Equal(t, 1, all[otherGuild][testMember].Weekly[tracker.Sunday])
}
