package spending

import (
	"fmt"
	"time"

	"flesk/internal/models"
)

// Window is the half-open calendar bucket [Start, End) a budget is evaluated
// against. Key labels the bucket, e.g. "2026-10-15", "2026-W42", "2026-10"
// or "2026".
type Window struct {
	Start time.Time
	End   time.Time
	Key   string
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// WindowFor returns the period window containing at, using loc for calendar
// boundaries. A nil loc uses at's own location. Weeks start on Monday and
// are keyed by ISO week number. Unknown periods fall back to monthly.
func WindowFor(period models.BudgetPeriod, at time.Time, loc *time.Location) Window {
	if loc == nil {
		loc = at.Location()
	}
	at = at.In(loc)
	day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, loc)

	switch period {
	case models.BudgetPeriodDaily:
		return Window{Start: day, End: day.AddDate(0, 0, 1), Key: day.Format("2006-01-02")}
	case models.BudgetPeriodWeekly:
		offset := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		year, week := start.ISOWeek()
		return Window{Start: start, End: start.AddDate(0, 0, 7), Key: fmt.Sprintf("%d-W%02d", year, week)}
	case models.BudgetPeriodYearly:
		start := time.Date(at.Year(), 1, 1, 0, 0, 0, 0, loc)
		return Window{Start: start, End: start.AddDate(1, 0, 0), Key: start.Format("2006")}
	default:
		start := time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, loc)
		return Window{Start: start, End: start.AddDate(0, 1, 0), Key: start.Format("2006-01")}
	}
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
