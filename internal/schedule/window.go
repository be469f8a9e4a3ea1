// Package schedule computes the rolling booking window: the next N weeks
// of weekdays starting today. Weekends are never bookable.
package schedule

import "time"

const dateFormat = "2006-01-02"

// Window returns the weekdays of the next `weeks` weeks as YYYY-MM-DD
// strings, starting from `now` (inclusive when `now` is a weekday).
func Window(now time.Time, weeks int) []string {
	if weeks < 1 {
		weeks = 1
	}
	days := make([]string, 0, weeks*5)
	d := now
	for len(days) < weeks*5 {
		if isWeekday(d) {
			days = append(days, d.Format(dateFormat))
		}
		d = d.AddDate(0, 0, 1)
	}
	return days
}

// Contains reports whether date (YYYY-MM-DD) falls inside the window.
func Contains(now time.Time, weeks int, date string) bool {
	for _, d := range Window(now, weeks) {
		if d == date {
			return true
		}
	}
	return false
}

func isWeekday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}
