// Package validation implements the shift-conflict detection engine: pure
// functions over shifts, availability records, and weekly-hour policy.
// Findings are data, never errors; callers decide what blocks an action.
package validation

import (
	"fmt"
	"time"

	rostermodels "guardhq/internal/roster/models"
	"guardhq/internal/schedule/models"
)

// Options carries the policy knobs for conflict detection.
type Options struct {
	MinRestHours   float64
	MaxWeeklyHours float64
}

// DefaultOptions returns the standard policy: 8 hours minimum rest and a
// 40-hour weekly ceiling.
func DefaultOptions() Options {
	return Options{MinRestHours: 8, MaxWeeklyHours: 40}
}

// DetectConflicts validates assigning newShift to officer against their
// existing shifts, the target site, and any availability records.
//
// newShift must carry the officer under test in OfficerID even though the
// assignment is only proposed. existingShifts may be the full shift
// collection: the function filters to the officer's shifts and excludes
// newShift itself by ID, so re-validating an update-in-place works.
//
// No input is mutated and no error is ever returned; the result is a fresh
// slice, empty when nothing is wrong. Findings appear in a fixed order:
// overlaps, rest-period violations, certification (placeholder),
// availability, weekly overtime projection. Only overlaps carry error
// severity.
func DetectConflicts(
	newShift models.Shift,
	existingShifts []models.Shift,
	officer rostermodels.Officer,
	site *rostermodels.Site,
	availability []models.Availability,
	opts Options,
) []models.ConflictResult {
	conflicts := []models.ConflictResult{}

	officerShifts := make([]models.Shift, 0, len(existingShifts))
	for _, shift := range existingShifts {
		if shift.OfficerID == officer.ID && shift.ID != newShift.ID {
			officerShifts = append(officerShifts, shift)
		}
	}

	// 1. Overlaps. One finding per conflicting shift, no dedup, no
	// short-circuit.
	for _, shift := range officerShifts {
		if Overlaps(newShift.StartTime, newShift.EndTime, shift.StartTime, shift.EndTime) {
			conflicting := shift
			conflicts = append(conflicts, models.ConflictResult{
				Type:     models.ConflictOverlap,
				Severity: models.SeverityError,
				Message: fmt.Sprintf("Overlaps with an existing shift from %s to %s",
					shift.StartTime.Format(time.RFC3339), shift.EndTime.Format(time.RFC3339)),
				ConflictingShift: &conflicting,
			})
		}
	}

	// 2. Rest periods. Both directions are checked independently, so one
	// existing shift can contribute two warnings.
	for _, shift := range officerShifts {
		for _, gap := range []float64{
			HoursBetween(shift.EndTime, newShift.StartTime),
			HoursBetween(newShift.EndTime, shift.StartTime),
		} {
			if gap > 0 && gap < opts.MinRestHours {
				conflicting := shift
				conflicts = append(conflicts, models.ConflictResult{
					Type:     models.ConflictRestPeriod,
					Severity: models.SeverityWarning,
					Message: fmt.Sprintf("Only %.1f hours of rest between shifts (minimum %.0f required)",
						gap, opts.MinRestHours),
					ConflictingShift: &conflicting,
				})
			}
		}
	}

	// 3. Certification. Intentionally not implemented: site required
	// certifications are not yet cross-checked against officer skills.
	_ = site

	// 4. Availability. Absence of a record is not unavailability.
	if record, ok := availabilityFor(availability, newShift); ok {
		if !record.Available {
			message := fmt.Sprintf("Officer is marked unavailable on %s", record.Date)
			if record.Notes != "" {
				message += ": " + record.Notes
			}
			conflicts = append(conflicts, models.ConflictResult{
				Type:     models.ConflictAvailability,
				Severity: models.SeverityWarning,
				Message:  message,
			})
		} else if record.StartTime != "" && record.EndTime != "" {
			// Lexicographic comparison is valid: clock strings are
			// canonical zero-padded HH:MM (enforced at the boundary).
			shiftStart := newShift.StartTime.Format("15:04")
			shiftEnd := newShift.EndTime.Format("15:04")
			if shiftStart < record.StartTime || shiftEnd > record.EndTime {
				conflicts = append(conflicts, models.ConflictResult{
					Type:     models.ConflictAvailability,
					Severity: models.SeverityWarning,
					Message: fmt.Sprintf("Shift %s-%s falls outside availability window %s-%s",
						shiftStart, shiftEnd, record.StartTime, record.EndTime),
				})
			}
		}
	}

	// 5. Weekly overtime projection over the Sunday-start week containing
	// the new shift.
	weekStart := WeekStart(newShift.StartTime)
	var weekHours float64
	for _, shift := range officerShifts {
		if InWeek(shift.StartTime, weekStart) {
			weekHours += shift.Hours()
		}
	}
	projected := weekHours + newShift.Hours()
	if projected > opts.MaxWeeklyHours {
		conflicts = append(conflicts, models.ConflictResult{
			Type:     models.ConflictOvertime,
			Severity: models.SeverityWarning,
			Message: fmt.Sprintf("Projected %.1f weekly hours, %.1f hours over the %.0f-hour limit",
				projected, projected-opts.MaxWeeklyHours, opts.MaxWeeklyHours),
		})
	}

	return conflicts
}

// availabilityFor finds the record whose date equals the new shift's start
// date (UTC date portion).
func availabilityFor(records []models.Availability, shift models.Shift) (models.Availability, bool) {
	shiftDate := shift.StartTime.UTC().Format("2006-01-02")
	for _, record := range records {
		if record.OfficerID == shift.OfficerID && record.Date == shiftDate {
			return record, true
		}
	}
	return models.Availability{}, false
}

// HasBlockingConflicts reports whether any finding carries error severity.
// Warnings never block.
func HasBlockingConflicts(conflicts []models.ConflictResult) bool {
	for _, c := range conflicts {
		if c.Severity == models.SeverityError {
			return true
		}
	}
	return false
}
