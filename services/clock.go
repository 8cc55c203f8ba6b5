package services

import "time"

// dateKey renders a calendar date in server time ("2006-01-02"). Daily caps,
// challenge assignment and streaks all key off this.
func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
