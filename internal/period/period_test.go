package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekRangeStartsMonday(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
	}{
		{"monday", day(2024, time.May, 13)},
		{"wednesday", time.Date(2024, time.May, 15, 17, 30, 0, 0, time.UTC)},
		{"sunday", day(2024, time.May, 19)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := WeekRange(tt.in)
			assert.Equal(t, day(2024, time.May, 13), start)
			assert.Equal(t, day(2024, time.May, 19), end)
		})
	}
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(time.Date(2024, time.February, 17, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, day(2024, time.February, 1), start)
	assert.Equal(t, day(2024, time.February, 29), end)
}

func TestYearRange(t *testing.T) {
	start, end := YearRange(day(2023, time.July, 4))
	assert.Equal(t, day(2023, time.January, 1), start)
	assert.Equal(t, day(2023, time.December, 31), end)
}

func TestRange(t *testing.T) {
	now := time.Date(2024, time.May, 15, 8, 0, 0, 0, time.UTC)

	_, _, ok := Range(All, now)
	assert.False(t, ok)

	start, end, ok := Range(Day, now)
	require.True(t, ok)
	assert.Equal(t, day(2024, time.May, 15), start)
	assert.Equal(t, start, end)

	start, end, ok = Range(Month, now)
	require.True(t, ok)
	assert.Equal(t, day(2024, time.May, 1), start)
	assert.Equal(t, day(2024, time.May, 31), end)
}

func TestParse(t *testing.T) {
	p, err := Parse("month")
	require.NoError(t, err)
	assert.Equal(t, Month, p)

	p, err = Parse("")
	require.NoError(t, err)
	assert.Equal(t, All, p)

	_, err = Parse("fortnight")
	assert.Error(t, err)

	var q Period
	require.NoError(t, q.UnmarshalText([]byte("Year")))
	assert.Equal(t, Year, q)
}
