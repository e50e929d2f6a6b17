package domain

import "time"

// BusinessWindowStart returns the start of day of the first of the trailing
// `days` business days before now. Saturdays and Sundays do not count toward
// the window.
func BusinessWindowStart(now time.Time, days int) time.Time {
	current := now
	counted := 0
	for counted < days {
		current = current.AddDate(0, 0, -1)
		if wd := current.Weekday(); wd != time.Saturday && wd != time.Sunday {
			counted++
		}
	}
	return time.Date(current.Year(), current.Month(), current.Day(), 0, 0, 0, 0, current.Location())
}
