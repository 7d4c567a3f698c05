package pkg

import "time"

// MonthKey renders the month of t as "YYYY-MM", the period key used for
// interest idempotence.
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

func StartOfMonth(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
