package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindowSkipsWeekends(t *testing.T) {
	// 2025-10-15 is a Wednesday
	now := time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)

	days := Window(now, 2)

	assert.Len(t, days, 10)
	assert.Equal(t, "2025-10-15", days[0])
	// Friday then Monday, no weekend in between
	assert.Equal(t, "2025-10-17", days[2])
	assert.Equal(t, "2025-10-20", days[3])
	for _, d := range days {
		parsed, err := time.Parse("2006-01-02", d)
		assert.NoError(t, err)
		assert.NotEqual(t, time.Saturday, parsed.Weekday())
		assert.NotEqual(t, time.Sunday, parsed.Weekday())
	}
}

func TestWindowStartsNextWeekdayOnSaturday(t *testing.T) {
	// 2025-10-18 is a Saturday
	now := time.Date(2025, 10, 18, 9, 0, 0, 0, time.UTC)

	days := Window(now, 1)

	assert.Len(t, days, 5)
	assert.Equal(t, "2025-10-20", days[0]) // Monday
}

func TestContains(t *testing.T) {
	now := time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)

	assert.True(t, Contains(now, 2, "2025-10-16"))
	assert.False(t, Contains(now, 2, "2025-10-18")) // Saturday
	assert.False(t, Contains(now, 2, "2025-12-01")) // beyond window
	assert.False(t, Contains(now, 2, "2025-10-14")) // yesterday
}
