package validation

import "time"

// Overlaps reports whether the half-open intervals [start1,end1) and
// [start2,end2) intersect. Back-to-back shifts (end1 == start2) do not
// overlap.
func Overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && start2.Before(end1)
}

// HoursBetween returns the signed gap in hours from a to b.
func HoursBetween(a, b time.Time) float64 {
	return b.Sub(a).Hours()
}

// WeekStart rewinds t to the most recent Sunday at midnight in t's
// location. The scheduling week is [WeekStart, WeekStart+7d).
func WeekStart(t time.Time) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -int(midnight.Weekday()))
}

// InWeek reports whether instant t falls within the week starting at
// weekStart (half-open, seven days).
func InWeek(t, weekStart time.Time) bool {
	weekEnd := weekStart.AddDate(0, 0, 7)
	return !t.Before(weekStart) && t.Before(weekEnd)
}
