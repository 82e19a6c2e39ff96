// Package models defines the scheduling domain entities.
package models

import (
	"time"

	id "guardhq/pkg/domain"
	dErrors "guardhq/pkg/domain-errors"
)

// ShiftStatus tracks a shift through its lifecycle. Shifts are created as
// drafts, become published or assigned, and end at completed.
type ShiftStatus string

const (
	ShiftDraft     ShiftStatus = "draft"
	ShiftPublished ShiftStatus = "published"
	ShiftAssigned  ShiftStatus = "assigned"
	ShiftCompleted ShiftStatus = "completed"
)

// IsValid checks if the status is one of the supported enum values.
func (s ShiftStatus) IsValid() bool {
	switch s {
	case ShiftDraft, ShiftPublished, ShiftAssigned, ShiftCompleted:
		return true
	}
	return false
}

// Shift is a scheduled work assignment at a site, optionally linked to an
// officer. Invariant: StartTime < EndTime, enforced by Validate at trust
// boundaries. OfficerID is the nil UUID while unassigned.
type Shift struct {
	ID        id.ShiftID   `json:"id"`
	SiteID    id.SiteID    `json:"site_id"`
	OfficerID id.OfficerID `json:"officer_id,omitzero"`
	StartTime time.Time    `json:"start_time"`
	EndTime   time.Time    `json:"end_time"`
	Status    ShiftStatus  `json:"status"`
}

// Validate enforces the shift invariants.
func (s Shift) Validate() error {
	if s.SiteID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "site_id is required")
	}
	if s.StartTime.IsZero() || s.EndTime.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "start_time and end_time are required")
	}
	if !s.StartTime.Before(s.EndTime) {
		return dErrors.New(dErrors.CodeInvalidInput, "start_time must be before end_time")
	}
	if s.Status != "" && !s.Status.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid shift status")
	}
	return nil
}

// Hours returns the shift duration in hours. No deduction is made for
// unpaid breaks.
func (s Shift) Hours() float64 {
	return s.EndTime.Sub(s.StartTime).Hours()
}

// Availability is an officer-submitted statement of willingness and hours
// for a specific calendar date. At most one record per (officer, date) is
// meaningful; lookups match the date exactly. StartTime/EndTime, when set,
// are canonical zero-padded HH:MM clock strings.
type Availability struct {
	OfficerID id.OfficerID `json:"officer_id"`
	Date      string       `json:"date"` // YYYY-MM-DD
	Available bool         `json:"available"`
	StartTime string       `json:"start_time,omitempty"`
	EndTime   string       `json:"end_time,omitempty"`
	Notes     string       `json:"notes,omitempty"`
}

// Validate enforces the availability invariants, normalizing the clock
// window in place so later string comparison stays valid.
func (a *Availability) Validate() error {
	if a.OfficerID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "officer_id is required")
	}
	if _, err := time.Parse("2006-01-02", a.Date); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "date must be YYYY-MM-DD")
	}
	if (a.StartTime == "") != (a.EndTime == "") {
		return dErrors.New(dErrors.CodeInvalidInput, "availability window requires both start_time and end_time")
	}
	if a.StartTime != "" {
		start, err := NormalizeClock(a.StartTime)
		if err != nil {
			return err
		}
		end, err := NormalizeClock(a.EndTime)
		if err != nil {
			return err
		}
		a.StartTime, a.EndTime = start, end
	}
	return nil
}

// ConflictType classifies a validation finding.
type ConflictType string

const (
	ConflictOverlap       ConflictType = "overlap"
	ConflictRestPeriod    ConflictType = "rest_period"
	ConflictCertification ConflictType = "certification"
	ConflictAvailability  ConflictType = "availability"
	ConflictOvertime      ConflictType = "overtime"
)

// ConflictSeverity splits blocking findings from advisory ones. Only
// overlap findings are errors; everything else is a warning.
type ConflictSeverity string

const (
	SeverityWarning ConflictSeverity = "warning"
	SeverityError   ConflictSeverity = "error"
)

// ConflictResult is a single validation finding. Findings are data, not
// errors: they are produced fresh on every validation call and never
// persisted.
type ConflictResult struct {
	Type             ConflictType     `json:"type"`
	Severity         ConflictSeverity `json:"severity"`
	Message          string           `json:"message"`
	ConflictingShift *Shift           `json:"conflicting_shift,omitempty"`
}

// WeeklyHours splits an officer's weekly total at the regular/overtime
// boundary. Invariant: Regular+Overtime == Total and Regular <= the split.
type WeeklyHours struct {
	Regular  float64 `json:"regular"`
	Overtime float64 `json:"overtime"`
	Total    float64 `json:"total"`
}
