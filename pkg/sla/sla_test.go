package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeadline_Exact30Days(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC), Deadline(created))
}

func TestCompute_DaysRemainingDecrementsDaily(t *testing.T) {
	created := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	prev := Compute(created, created).DaysRemaining
	assert.Equal(t, 30, prev)

	for day := 1; day <= 35; day++ {
		now := created.AddDate(0, 0, day)
		got := Compute(created, now).DaysRemaining
		assert.Equal(t, prev-1, got, "day %d", day)
		prev = got
	}
}

func TestCompute_Bands(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		daysElapsed int
		remaining   int
		band        string
	}{
		{"fresh appeal", 0, 30, BandOK},
		{"eleven days left", 19, 11, BandOK},
		{"ten days left", 20, 10, BandWarning},
		{"six days left", 24, 6, BandWarning},
		{"five days left", 25, 5, BandCritical},
		{"one day left", 29, 1, BandCritical},
		{"deadline day", 30, 0, BandOverdue},
		{"long overdue", 45, -15, BandOverdue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := Compute(created, created.AddDate(0, 0, tt.daysElapsed))
			assert.Equal(t, tt.remaining, info.DaysRemaining)
			assert.Equal(t, tt.band, info.Band)
		})
	}
}

func TestCompute_FractionalDaysTruncateTowardDeadline(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	// 29 days 12 hours in: less than a full day remains, so the appeal is
	// already overdue even though only 29 whole days have passed.
	info := Compute(created, created.Add(29*24*time.Hour+12*time.Hour))
	assert.Equal(t, 29, info.DaysPassed)
	assert.Equal(t, 0, info.DaysRemaining)
	assert.Equal(t, BandOverdue, info.Band)

	// 24 days 12 hours in: 5.5 days remain, truncated to 5 → critical.
	info = Compute(created, created.Add(24*24*time.Hour+12*time.Hour))
	assert.Equal(t, 5, info.DaysRemaining)
	assert.Equal(t, BandCritical, info.Band)
}

func TestCompute_ProgressCapsAt100(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	info := Compute(created, created.AddDate(0, 0, 15))
	assert.InDelta(t, 50.0, info.Progress, 0.01)

	info = Compute(created, created.AddDate(0, 0, 60))
	assert.Equal(t, 100.0, info.Progress)
}

func TestFor_TerminalStatusesProduceNoSLA(t *testing.T) {
	created := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC) // ancient appeal
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Nil(t, For("closed", created, now))
	assert.Nil(t, For("rejected", created, now))

	for _, status := range []string{"new", "assigned", "in_progress", "completed"} {
		info := For(status, created, now)
		assert.NotNil(t, info, status)
		assert.Equal(t, BandOverdue, info.Band, status)
	}
}
