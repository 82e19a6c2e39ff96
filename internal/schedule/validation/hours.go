package validation

import (
	"time"

	"guardhq/internal/schedule/models"
)

// RegularHoursSplit is the weekly boundary between regular and overtime
// pay. It is a fixed payroll constant, deliberately independent of the
// configurable MaxWeeklyHours used by the conflict detector; callers that
// need a different split must re-derive it from Total.
const RegularHoursSplit = 40.0

// CalculateWeeklyHours buckets shifts into the calendar week containing
// ref (Sunday start, ref's location) and splits the summed hours at the
// regular/overtime boundary. Only shifts whose start falls inside the
// window count; a shift spanning the boundary is attributed entirely to
// the week it starts in.
func CalculateWeeklyHours(shifts []models.Shift, ref time.Time) models.WeeklyHours {
	weekStart := WeekStart(ref)

	var total float64
	for _, shift := range shifts {
		if InWeek(shift.StartTime, weekStart) {
			total += shift.Hours()
		}
	}

	regular := total
	if regular > RegularHoursSplit {
		regular = RegularHoursSplit
	}
	return models.WeeklyHours{
		Regular:  regular,
		Overtime: total - regular,
		Total:    total,
	}
}
