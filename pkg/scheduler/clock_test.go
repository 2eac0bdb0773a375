package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidDate(t *testing.T) {
	assert.True(t, ValidDate("2099-01-01"))
	assert.False(t, ValidDate("2099-1-1"))
	assert.False(t, ValidDate("2099-02-30"))
	assert.False(t, ValidDate("2099-01-01T00:00:00Z"))
}

func TestValidClock(t *testing.T) {
	assert.True(t, ValidClock("00:00"))
	assert.True(t, ValidClock("23:59"))
	assert.False(t, ValidClock("9:00"))
	assert.False(t, ValidClock("24:00"))
}

func TestTodayIsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	now := time.Date(2025, 6, 2, 5, 0, 0, 0, loc)
	assert.Equal(t, "2025-06-01", Today(now))
}

func TestDurationHours(t *testing.T) {
	h, err := DurationHours("08:00", "16:30")
	require.NoError(t, err)
	assert.Equal(t, 8.5, h)

	h, err = DurationHours("22:00", "06:00")
	require.NoError(t, err)
	assert.Equal(t, 8.0, h)

	_, err = DurationHours("8am", "16:00")
	assert.Error(t, err)
}

func TestDateStringOrderMatchesCalendar(t *testing.T) {
	assert.True(t, "2099-01-01" >= "2025-06-01")
	assert.False(t, "2024-01-01" >= "2025-06-01")
	assert.True(t, "2025-10-01" > "2025-09-30")
}
