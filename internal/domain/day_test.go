package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDayDiscardsTimeOfDay(t *testing.T) {
	d := NewDay(time.Date(2024, 3, 15, 23, 59, 59, 0, time.UTC))
	assert.Equal(t, "2024-03-15", d.String())
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), d.Time())
}

func TestNewDayNormalizesZone(t *testing.T) {
	// 2024-03-15 01:00 +0300 is 2024-03-14 22:00 UTC.
	loc := time.FixedZone("EAT", 3*3600)
	d := NewDay(time.Date(2024, 3, 15, 1, 0, 0, 0, loc))
	assert.Equal(t, "2024-03-14", d.String())
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2024-01-07")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-07", d.String())

	_, err = ParseDay("07/01/2024")
	assert.Error(t, err)
}

func TestDayOrderingAndRange(t *testing.T) {
	start, _ := ParseDay("2024-01-01")
	end, _ := ParseDay("2024-01-07")
	mid, _ := ParseDay("2024-01-04")

	assert.True(t, start.Before(end))
	assert.True(t, end.After(start))
	assert.True(t, mid.InRange(start, end))
	assert.True(t, start.InRange(start, end))
	assert.True(t, end.InRange(start, end))
	assert.False(t, end.AddDays(1).InRange(start, end))
}

func TestDayCountInclusive(t *testing.T) {
	start, _ := ParseDay("2024-01-01")
	assert.Equal(t, 1, DayCount(start, start))
	assert.Equal(t, 7, DayCount(start, start.AddDays(6)))
	assert.Equal(t, 0, DayCount(start, start.AddDays(-1)))
}

func TestDayCountAcrossDSTBoundary(t *testing.T) {
	// Whole-UTC-day math is immune to DST; a late-March week is still 7 days.
	start, _ := ParseDay("2024-03-28")
	end, _ := ParseDay("2024-04-03")
	assert.Equal(t, 7, DayCount(start, end))
}

func TestWeekdayName(t *testing.T) {
	d, _ := ParseDay("2024-01-01") // a Monday
	assert.Equal(t, "Monday", d.WeekdayName())
	assert.Equal(t, "Sunday", d.AddDays(6).WeekdayName())
}

func TestAddDaysAcrossMonthEnd(t *testing.T) {
	d, _ := ParseDay("2024-01-31")
	assert.Equal(t, "2024-02-01", d.AddDays(1).String())
	assert.Equal(t, "2024-02-29", d.AddDays(29).String()) // leap year
}
