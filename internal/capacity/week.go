// Package capacity tracks how many nail sets the studio has committed to
// produce per week. Bookings happen inside the order-completion transaction;
// a periodic reconciler repairs any counter drift from completed orders.
package capacity

import "time"

// WeekStartFor normalizes any instant to its production week: Monday at
// midnight UTC.
func WeekStartFor(t time.Time) time.Time {
	t = t.UTC()
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -daysSinceMonday)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
}

// TargetWeekFor places an order completing in estimatedDays from now into a
// production week.
func TargetWeekFor(now time.Time, estimatedDays int) time.Time {
	if estimatedDays < 0 {
		estimatedDays = 0
	}
	return WeekStartFor(now.UTC().AddDate(0, 0, estimatedDays))
}
