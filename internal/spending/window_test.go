package spending_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"flesk/internal/models"
	"flesk/internal/spending"
)

func TestWindowFor(t *testing.T) {
	// Thursday.
	at := time.Date(2026, 10, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		period    models.BudgetPeriod
		wantStart time.Time
		wantEnd   time.Time
		wantKey   string
	}{
		{models.BudgetPeriodDaily, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), "2026-10-15"},
		{models.BudgetPeriodWeekly, time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), "2026-W42"},
		{models.BudgetPeriodMonthly, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC), "2026-10"},
		{models.BudgetPeriodYearly, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), "2026"},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			w := spending.WindowFor(tt.period, at, time.UTC)
			assert.True(t, tt.wantStart.Equal(w.Start), "start: got %v", w.Start)
			assert.True(t, tt.wantEnd.Equal(w.End), "end: got %v", w.End)
			assert.Equal(t, tt.wantKey, w.Key)
			assert.True(t, w.Contains(at))
			assert.False(t, w.Contains(w.End))
		})
	}
}

func TestWindowForWeekStartsMonday(t *testing.T) {
	sunday := time.Date(2026, 10, 18, 23, 0, 0, 0, time.UTC)
	w := spending.WindowFor(models.BudgetPeriodWeekly, sunday, time.UTC)
	assert.Equal(t, time.Monday, w.Start.Weekday())
	assert.Equal(t, 12, w.Start.Day())

	monday := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	w = spending.WindowFor(models.BudgetPeriodWeekly, monday, time.UTC)
	assert.Equal(t, 19, w.Start.Day())
	assert.Equal(t, "2026-W43", w.Key)
}

func TestWindowForISOYearBoundary(t *testing.T) {
	// 2027-01-01 is a Friday and belongs to ISO week 53 of 2026.
	w := spending.WindowFor(models.BudgetPeriodWeekly, time.Date(2027, 1, 1, 9, 0, 0, 0, time.UTC), time.UTC)
	assert.Equal(t, "2026-W53", w.Key)
	assert.Equal(t, time.December, w.Start.Month())
}

func TestWindowForUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	at := time.Date(2026, 10, 31, 20, 0, 0, 0, time.UTC) // 2026-11-01 05:00 in UTC+9
	w := spending.WindowFor(models.BudgetPeriodMonthly, at, loc)
	assert.Equal(t, "2026-11", w.Key)
}
