// Package service provides the schedule validation facade: roster-aware
// conflict validation, assignment, weekly-hours aggregation, and officer
// recommendations on top of the pure validation engine.
package service

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	rostermodels "guardhq/internal/roster/models"
	rosterports "guardhq/internal/roster/ports"
	"guardhq/internal/schedule/metrics"
	"guardhq/internal/schedule/models"
	"guardhq/internal/schedule/ports"
	"guardhq/internal/schedule/validation"
	id "guardhq/pkg/domain"
	dErrors "guardhq/pkg/domain-errors"
)

// ActivityRecorder receives domain activity entries for the live feed.
// The realtime service implements it; a nil recorder disables the feed.
type ActivityRecorder interface {
	RecordActivity(ctx context.Context, activityType, message string, officerID id.OfficerID, siteID id.SiteID)
}

// Service orchestrates schedule operations over the stores and delegates
// conflict detection to the pure validation package.
type Service struct {
	shifts       ports.ShiftStore
	availability ports.AvailabilityStore
	officers     rosterports.OfficerStore
	sites        rosterports.SiteStore

	detectorOpts  validation.Options
	approachHours float64

	logger   *slog.Logger
	metrics  *metrics.Metrics
	activity ActivityRecorder
	tracer   trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithActivityRecorder(recorder ActivityRecorder) Option {
	return func(s *Service) {
		s.activity = recorder
	}
}

// WithPolicy overrides the detector thresholds and the approaching-overtime
// cutoff.
func WithPolicy(opts validation.Options, approachHours float64) Option {
	return func(s *Service) {
		s.detectorOpts = opts
		s.approachHours = approachHours
	}
}

// OvertimeApproachHours is the default weekly total at which an officer is
// flagged as approaching overtime. Deliberately below the 40-hour
// regular/overtime split so planners get warned before pay is affected.
const OvertimeApproachHours = 36.0

// New constructs a Service.
func New(shifts ports.ShiftStore, availability ports.AvailabilityStore, officers rosterports.OfficerStore, sites rosterports.SiteStore, opts ...Option) *Service {
	s := &Service{
		shifts:        shifts,
		availability:  availability,
		officers:      officers,
		sites:         sites,
		detectorOpts:  validation.DefaultOptions(),
		approachHours: OvertimeApproachHours,
		logger:        slog.Default(),
		tracer:        otel.Tracer("guardhq/schedule"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateShift stores a new shift. Drafts by default; the ID is generated
// when the caller leaves it empty.
func (s *Service) CreateShift(ctx context.Context, shift *models.Shift) (*models.Shift, error) {
	if shift.ID.IsNil() {
		shift.ID = id.NewShiftID()
	}
	if shift.Status == "" {
		shift.Status = models.ShiftDraft
	}
	if err := shift.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.sites.Get(ctx, shift.SiteID); err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "site not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load site")
	}
	if err := s.shifts.Create(ctx, shift); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create shift")
	}
	return shift, nil
}

func (s *Service) GetShift(ctx context.Context, shiftID id.ShiftID) (*models.Shift, error) {
	return s.shifts.Get(ctx, shiftID)
}

func (s *Service) ListShifts(ctx context.Context) ([]*models.Shift, error) {
	return s.shifts.List(ctx)
}

// UpdateShift replaces a shift's schedulable fields. Assignment changes go
// through AssignShift so they cannot skip validation.
func (s *Service) UpdateShift(ctx context.Context, shift *models.Shift) (*models.Shift, error) {
	if err := shift.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.shifts.Get(ctx, shift.ID)
	if err != nil {
		return nil, err
	}
	shift.OfficerID = existing.OfficerID
	if shift.Status == "" {
		shift.Status = existing.Status
	}
	if err := s.shifts.Update(ctx, shift); err != nil {
		return nil, err
	}
	return shift, nil
}

func (s *Service) DeleteShift(ctx context.Context, shiftID id.ShiftID) error {
	return s.shifts.Delete(ctx, shiftID)
}

// PublishShift moves a draft to published so it becomes visible for
// assignment.
func (s *Service) PublishShift(ctx context.Context, shiftID id.ShiftID) (*models.Shift, error) {
	return s.transition(ctx, shiftID, models.ShiftDraft, models.ShiftPublished)
}

// CompleteShift closes out an assigned shift; completed shifts feed the
// timesheet summary.
func (s *Service) CompleteShift(ctx context.Context, shiftID id.ShiftID) (*models.Shift, error) {
	return s.transition(ctx, shiftID, models.ShiftAssigned, models.ShiftCompleted)
}

func (s *Service) transition(ctx context.Context, shiftID id.ShiftID, from, to models.ShiftStatus) (*models.Shift, error) {
	shift, err := s.shifts.Get(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if shift.Status != from {
		return nil, dErrors.New(dErrors.CodeConflict, "shift is "+string(shift.Status)+", expected "+string(from))
	}
	shift.Status = to
	if err := s.shifts.Update(ctx, shift); err != nil {
		return nil, err
	}
	return shift, nil
}

// ValidateAssignment runs the conflict detector for assigning an officer to
// a shift. An unknown officer is a typed not-found error, never an empty
// finding list: silence would read as "no conflicts" to the caller.
func (s *Service) ValidateAssignment(ctx context.Context, shift models.Shift, officerID id.OfficerID) ([]models.ConflictResult, error) {
	ctx, span := s.tracer.Start(ctx, "schedule.ValidateAssignment")
	defer span.End()

	officer, err := s.officers.Get(ctx, officerID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "officer not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load officer")
	}

	var site *rostermodels.Site
	if !shift.SiteID.IsNil() {
		site, err = s.sites.Get(ctx, shift.SiteID)
		if err != nil && !dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load site")
		}
	}

	existing, err := s.shifts.ListByOfficer(ctx, officerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load officer shifts")
	}
	records, err := s.availability.ListByOfficer(ctx, officerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load availability")
	}

	shift.OfficerID = officerID
	conflicts := validation.DetectConflicts(shift, deref(existing), *officer, site, deref(records), s.detectorOpts)
	s.observeConflicts(conflicts)
	return conflicts, nil
}

// AssignShift validates and, absent blocking conflicts, assigns the officer.
// Warnings ride along in the response either way; a blocking overlap
// returns the findings with a conflict error so the handler can answer 409.
func (s *Service) AssignShift(ctx context.Context, shiftID id.ShiftID, officerID id.OfficerID) (*models.Shift, []models.ConflictResult, error) {
	ctx, span := s.tracer.Start(ctx, "schedule.AssignShift")
	defer span.End()

	shift, err := s.shifts.Get(ctx, shiftID)
	if err != nil {
		return nil, nil, err
	}
	conflicts, err := s.ValidateAssignment(ctx, *shift, officerID)
	if err != nil {
		return nil, nil, err
	}
	if validation.HasBlockingConflicts(conflicts) {
		if s.metrics != nil {
			s.metrics.AssignmentsBlocked.Inc()
		}
		return shift, conflicts, dErrors.New(dErrors.CodeConflict, "assignment has blocking conflicts")
	}

	shift.OfficerID = officerID
	shift.Status = models.ShiftAssigned
	if err := s.shifts.Update(ctx, shift); err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to assign shift")
	}
	if s.metrics != nil {
		s.metrics.ShiftsAssigned.Inc()
	}
	s.logger.InfoContext(ctx, "shift assigned",
		"shift_id", shift.ID.String(),
		"officer_id", officerID.String(),
		"warnings", len(conflicts),
	)
	if s.activity != nil {
		s.activity.RecordActivity(ctx, "shift_assigned", "Shift assigned", officerID, shift.SiteID)
	}
	return shift, conflicts, nil
}

// UpsertAvailability stores an officer's availability for a date, replacing
// any prior record for the same date.
func (s *Service) UpsertAvailability(ctx context.Context, record *models.Availability) error {
	if err := record.Validate(); err != nil {
		return err
	}
	if _, err := s.officers.Get(ctx, record.OfficerID); err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "officer not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load officer")
	}
	return s.availability.Upsert(ctx, record)
}

func (s *Service) GetAvailability(ctx context.Context, officerID id.OfficerID, date string) (*models.Availability, error) {
	return s.availability.Get(ctx, officerID, date)
}

func (s *Service) ListAvailability(ctx context.Context, officerID id.OfficerID) ([]*models.Availability, error) {
	return s.availability.ListByOfficer(ctx, officerID)
}

// WeeklyHoursByOfficer aggregates the week containing ref for every officer
// on the roster.
func (s *Service) WeeklyHoursByOfficer(ctx context.Context, ref time.Time) (map[id.OfficerID]models.WeeklyHours, error) {
	officers, err := s.officers.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list officers")
	}
	hours := make(map[id.OfficerID]models.WeeklyHours, len(officers))
	for _, officer := range officers {
		shifts, err := s.shifts.ListByOfficer(ctx, officer.ID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load officer shifts")
		}
		hours[officer.ID] = validation.CalculateWeeklyHours(deref(shifts), ref)
	}
	return hours, nil
}

// OvertimeWarning flags an officer whose weekly total has reached the
// approaching-overtime cutoff.
type OvertimeWarning struct {
	OfficerID id.OfficerID       `json:"officer_id"`
	FullName  string             `json:"full_name"`
	Hours     models.WeeklyHours `json:"hours"`
}

// OvertimeWarnings lists officers at or above the approach threshold for
// the week containing ref, in roster order.
func (s *Service) OvertimeWarnings(ctx context.Context, ref time.Time) ([]OvertimeWarning, error) {
	officers, err := s.officers.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list officers")
	}
	warnings := []OvertimeWarning{}
	for _, officer := range officers {
		shifts, err := s.shifts.ListByOfficer(ctx, officer.ID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load officer shifts")
		}
		hours := validation.CalculateWeeklyHours(deref(shifts), ref)
		if hours.Total >= s.approachHours {
			warnings = append(warnings, OvertimeWarning{OfficerID: officer.ID, FullName: officer.FullName, Hours: hours})
		}
	}
	return warnings, nil
}

// FindAvailableOfficers returns active officers whose assignment to the
// shift would produce no blocking conflicts. Warnings never exclude an
// officer; only overlaps do.
func (s *Service) FindAvailableOfficers(ctx context.Context, shift models.Shift) ([]*rostermodels.Officer, error) {
	officers, err := s.officers.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list officers")
	}
	available := []*rostermodels.Officer{}
	for _, officer := range officers {
		if officer.EmploymentStatus != rostermodels.EmploymentActive {
			continue
		}
		conflicts, err := s.ValidateAssignment(ctx, shift, officer.ID)
		if err != nil {
			return nil, err
		}
		if !validation.HasBlockingConflicts(conflicts) {
			available = append(available, officer)
		}
	}
	return available, nil
}

// RecommendedOfficers orders the available officers by current weekly total
// for the shift's week, lowest first. The sort is stable: ties keep roster
// order, so recommendations do not jitter between calls.
func (s *Service) RecommendedOfficers(ctx context.Context, shift models.Shift) ([]*rostermodels.Officer, error) {
	available, err := s.FindAvailableOfficers(ctx, shift)
	if err != nil {
		return nil, err
	}
	totals := make(map[id.OfficerID]float64, len(available))
	for _, officer := range available {
		shifts, err := s.shifts.ListByOfficer(ctx, officer.ID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load officer shifts")
		}
		totals[officer.ID] = validation.CalculateWeeklyHours(deref(shifts), shift.StartTime).Total
	}
	sort.SliceStable(available, func(i, j int) bool {
		return totals[available[i].ID] < totals[available[j].ID]
	})
	return available, nil
}

// Timesheet is one officer's pay-week summary over completed shifts.
type Timesheet struct {
	OfficerID id.OfficerID       `json:"officer_id"`
	FullName  string             `json:"full_name"`
	Hours     models.WeeklyHours `json:"hours"`
	GrossPay  float64            `json:"gross_pay"`
}

// Timesheets summarizes completed shifts for the week containing ref.
// Overtime pays time and a half.
func (s *Service) Timesheets(ctx context.Context, ref time.Time) ([]Timesheet, error) {
	officers, err := s.officers.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list officers")
	}
	sheets := []Timesheet{}
	for _, officer := range officers {
		shifts, err := s.shifts.ListByOfficer(ctx, officer.ID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load officer shifts")
		}
		completed := make([]models.Shift, 0, len(shifts))
		for _, shift := range shifts {
			if shift.Status == models.ShiftCompleted {
				completed = append(completed, *shift)
			}
		}
		hours := validation.CalculateWeeklyHours(completed, ref)
		if hours.Total == 0 {
			continue
		}
		sheets = append(sheets, Timesheet{
			OfficerID: officer.ID,
			FullName:  officer.FullName,
			Hours:     hours,
			GrossPay:  hours.Regular*officer.BaseRate + hours.Overtime*officer.BaseRate*1.5,
		})
	}
	return sheets, nil
}

func (s *Service) observeConflicts(conflicts []models.ConflictResult) {
	if s.metrics == nil {
		return
	}
	types := make([]string, len(conflicts))
	for i, c := range conflicts {
		types[i] = string(c.Type)
	}
	s.metrics.ObserveConflicts(types)
}

func deref[T any](items []*T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = *item
	}
	return out
}
