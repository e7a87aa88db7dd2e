package markethours

import (
	"testing"
	"time"

	"golang-stock-sentinel/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendar_IsOpen(t *testing.T) {
	loc := utils.MustLoadLocation(utils.MarketTimezone)
	cal, err := NewCalendar(loc, nil, []string{"2024-10-01"})
	require.NoError(t, err)

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"weekday morning", time.Date(2024, 3, 5, 9, 30, 0, 0, loc), true},
		{"at open", time.Date(2024, 3, 5, 9, 0, 0, 0, loc), true},
		{"at close", time.Date(2024, 3, 5, 15, 0, 0, 0, loc), false},
		{"before open", time.Date(2024, 3, 5, 8, 59, 0, 0, loc), false},
		{"saturday", time.Date(2024, 3, 9, 10, 0, 0, 0, loc), false},
		{"holiday", time.Date(2024, 10, 1, 10, 0, 0, 0, loc), false},
		{"utc instant inside session", time.Date(2024, 3, 5, 2, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cal.IsOpen(tt.at))
		})
	}
}

func TestCalendar_LunchBreakSessions(t *testing.T) {
	loc := utils.MustLoadLocation(utils.MarketTimezone)
	cal, err := NewCalendar(loc, []string{"09:25-11:30", "13:00-15:00"}, nil)
	require.NoError(t, err)

	assert.True(t, cal.IsOpen(time.Date(2024, 3, 5, 11, 29, 0, 0, loc)))
	assert.False(t, cal.IsOpen(time.Date(2024, 3, 5, 12, 0, 0, 0, loc)))
	assert.True(t, cal.IsOpen(time.Date(2024, 3, 5, 13, 0, 0, 0, loc)))
}

func TestNewCalendar_Invalid(t *testing.T) {
	loc := utils.MustLoadLocation(utils.MarketTimezone)

	_, err := NewCalendar(loc, []string{"15:00-09:00"}, nil)
	assert.Error(t, err)
	_, err = NewCalendar(loc, []string{"nine-ten"}, nil)
	assert.Error(t, err)
	_, err = NewCalendar(loc, nil, []string{"01/10/2024"})
	assert.Error(t, err)
	_, err = NewCalendar(nil, nil, nil)
	assert.Error(t, err)
}

func TestCalendar_LastOpen(t *testing.T) {
	loc := utils.MustLoadLocation(utils.MarketTimezone)
	cal, err := NewCalendar(loc, []string{"09:30-11:30", "13:00-15:00"}, []string{"2024-03-11"})
	require.NoError(t, err)

	tests := []struct {
		name string
		at   time.Time
		want time.Time
	}{
		{"after close", time.Date(2024, 3, 8, 15, 30, 0, 0, loc), time.Date(2024, 3, 8, 13, 0, 0, 0, loc)},
		{"lunch break", time.Date(2024, 3, 8, 12, 0, 0, 0, loc), time.Date(2024, 3, 8, 9, 30, 0, 0, loc)},
		{"at open", time.Date(2024, 3, 8, 9, 30, 0, 0, loc), time.Date(2024, 3, 8, 9, 30, 0, 0, loc)},
		{"before open", time.Date(2024, 3, 8, 8, 0, 0, 0, loc), time.Date(2024, 3, 7, 13, 0, 0, 0, loc)},
		{"weekend", time.Date(2024, 3, 10, 10, 0, 0, 0, loc), time.Date(2024, 3, 8, 13, 0, 0, 0, loc)},
		{"holiday monday", time.Date(2024, 3, 11, 16, 0, 0, 0, loc), time.Date(2024, 3, 8, 13, 0, 0, 0, loc)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(cal.LastOpen(tt.at)), "got %s", cal.LastOpen(tt.at))
		})
	}
}
