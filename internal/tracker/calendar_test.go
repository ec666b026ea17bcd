package tracker_test

import (
	"testing"
	"time"

	"github.com/recuentobot/recuento/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdayOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		time     time.Time
		expected tracker.Weekday
	}{
		{
			name:     "monday in local zone",
			time:     time.Date(2024, 5, 6, 12, 0, 0, 0, tracker.Location),
			expected: tracker.Monday,
		},
		{
			name:     "sunday in local zone",
			time:     time.Date(2024, 5, 5, 12, 0, 0, 0, tracker.Location),
			expected: tracker.Sunday,
		},
		{
			name: "UTC midnight is still the previous local day",
			// 2024-05-07 02:00 UTC = 2024-05-06 21:00 in Bogota
			time:     time.Date(2024, 5, 7, 2, 0, 0, 0, time.UTC),
			expected: tracker.Monday,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tracker.WeekdayOf(tt.time))
		})
	}
}

func TestDateOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2024-05-06", tracker.DateOf(time.Date(2024, 5, 6, 12, 0, 0, 0, tracker.Location)))
	// 02:00 UTC is 21:00 the previous day in Bogota
	assert.Equal(t, "2024-05-06", tracker.DateOf(time.Date(2024, 5, 7, 2, 0, 0, 0, time.UTC)))
}

func TestWeekdayNames(t *testing.T) {
	t.Parallel()

	expected := []string{"lunes", "martes", "miércoles", "jueves", "viernes", "sábado", "domingo"}
	for i, day := range tracker.Weekdays {
		assert.Equal(t, expected[i], day.Name())

		parsed, ok := tracker.ParseWeekday(expected[i])
		require.True(t, ok)
		assert.Equal(t, day, parsed)
	}

	_, ok := tracker.ParseWeekday("feriado")
	assert.False(t, ok)
}

func TestLastWeeks(t *testing.T) {
	t.Parallel()

	// Wednesday 2024-05-08; the most recent Sunday is 2024-05-05
	now := time.Date(2024, 5, 8, 15, 30, 0, 0, tracker.Location)
	weeks := tracker.LastWeeks(now, 4)
	require.Len(t, weeks, 4)

	assert.Equal(t, "2024-05-05", weeks[0].Start.Format("2006-01-02"))
	assert.Equal(t, "2024-05-11", weeks[0].End.Format("2006-01-02"))
	assert.Equal(t, "2024-04-28", weeks[1].Start.Format("2006-01-02"))
	assert.Equal(t, "2024-04-21", weeks[2].Start.Format("2006-01-02"))
	assert.Equal(t, "2024-04-14", weeks[3].Start.Format("2006-01-02"))

	assert.Equal(t, "05/05/2024 - 11/05/2024", weeks[0].Label())
}

func TestLastWeeksOnSunday(t *testing.T) {
	t.Parallel()

	// A Sunday starts its own window
	now := time.Date(2024, 5, 5, 8, 0, 0, 0, tracker.Location)
	weeks := tracker.LastWeeks(now, 4)
	require.Len(t, weeks, 4)
	assert.Equal(t, "2024-05-05", weeks[0].Start.Format("2006-01-02"))
}

func TestWeekDays(t *testing.T) {
	t.Parallel()

	week := tracker.Week{
		Start: time.Date(2024, 5, 5, 0, 0, 0, 0, tracker.Location),
		End:   time.Date(2024, 5, 11, 0, 0, 0, 0, tracker.Location),
	}

	days := week.Days()
	require.Len(t, days, 7)
	assert.Equal(t, "2024-05-05", days[0])
	assert.Equal(t, "2024-05-06", days[1])
	assert.Equal(t, "2024-05-11", days[6])
}

func TestDayName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "lunes", tracker.DayName("2024-05-06"))
	assert.Equal(t, "domingo", tracker.DayName("2024-05-05"))
	assert.Equal(t, "not-a-date", tracker.DayName("not-a-date"))
}
