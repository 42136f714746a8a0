package scheduler

import "time"

// mondayIndex numbers weekdays 0=Monday..6=Sunday.
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// NextFire returns the next day/hour:minute in loc strictly after now.
// When now is exactly that instant the result is one week later.
func NextFire(now time.Time, loc *time.Location, day time.Weekday, hour, minute int) time.Time {
	local := now.In(loc)
	days := (mondayIndex(day) - mondayIndex(local.Weekday()) + 7) % 7

	next := time.Date(local.Year(), local.Month(), local.Day()+days, hour, minute, 0, 0, loc)
	if !next.After(local) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}

// FirstFireDelay is next-now in whole seconds.
func FirstFireDelay(now, next time.Time) int64 {
	return int64(next.Sub(now) / time.Second)
}
