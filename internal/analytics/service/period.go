package service

import "time"

// Period tokens accepted by the performance endpoint.
const (
	PeriodThisWeek    = "this_week"
	PeriodThisMonth   = "this_month"
	PeriodThisQuarter = "this_quarter"
	PeriodThisYear    = "this_year"
)

// PeriodRange maps a period token to a calendar [start, end) range in
// UTC. Unrecognized tokens fall back to this_month. The returned token
// is the one actually applied.
func PeriodRange(token string, now time.Time) (string, time.Time, time.Time) {
	now = now.UTC()

	switch token {
	case PeriodThisWeek:
		start := startOfWeek(now)
		return PeriodThisWeek, start, start.AddDate(0, 0, 7)
	case PeriodThisQuarter:
		quarterMonth := time.Month((int(now.Month())-1)/3*3 + 1)
		start := time.Date(now.Year(), quarterMonth, 1, 0, 0, 0, 0, time.UTC)
		return PeriodThisQuarter, start, start.AddDate(0, 3, 0)
	case PeriodThisYear:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return PeriodThisYear, start, start.AddDate(1, 0, 0)
	default:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return PeriodThisMonth, start, start.AddDate(0, 1, 0)
	}
}

// PreviousRange returns the equal-length window immediately before start.
func PreviousRange(start, end time.Time) (time.Time, time.Time) {
	return start.Add(-end.Sub(start)), start
}

// startOfWeek returns Monday 00:00 UTC of the week containing t.
func startOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -(weekday - 1))
}
