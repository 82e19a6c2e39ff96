// Package handler exposes the scheduling endpoints: shift lifecycle,
// assignment validation, weekly hours, and availability submission.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"guardhq/internal/platform/middleware"
	rostermodels "guardhq/internal/roster/models"
	"guardhq/internal/schedule/models"
	"guardhq/internal/schedule/service"
	"guardhq/internal/transport/http/shared"
	id "guardhq/pkg/domain"
	dErrors "guardhq/pkg/domain-errors"
)

// Service defines the scheduling operations the handler needs.
type Service interface {
	CreateShift(ctx context.Context, shift *models.Shift) (*models.Shift, error)
	GetShift(ctx context.Context, shiftID id.ShiftID) (*models.Shift, error)
	ListShifts(ctx context.Context) ([]*models.Shift, error)
	UpdateShift(ctx context.Context, shift *models.Shift) (*models.Shift, error)
	DeleteShift(ctx context.Context, shiftID id.ShiftID) error
	PublishShift(ctx context.Context, shiftID id.ShiftID) (*models.Shift, error)
	CompleteShift(ctx context.Context, shiftID id.ShiftID) (*models.Shift, error)
	ValidateAssignment(ctx context.Context, shift models.Shift, officerID id.OfficerID) ([]models.ConflictResult, error)
	AssignShift(ctx context.Context, shiftID id.ShiftID, officerID id.OfficerID) (*models.Shift, []models.ConflictResult, error)
	UpsertAvailability(ctx context.Context, record *models.Availability) error
	GetAvailability(ctx context.Context, officerID id.OfficerID, date string) (*models.Availability, error)
	ListAvailability(ctx context.Context, officerID id.OfficerID) ([]*models.Availability, error)
	WeeklyHoursByOfficer(ctx context.Context, ref time.Time) (map[id.OfficerID]models.WeeklyHours, error)
	OvertimeWarnings(ctx context.Context, ref time.Time) ([]service.OvertimeWarning, error)
	RecommendedOfficers(ctx context.Context, shift models.Shift) ([]*rostermodels.Officer, error)
	Timesheets(ctx context.Context, ref time.Time) ([]service.Timesheet, error)
}

// Handler handles scheduling endpoints.
type Handler struct {
	schedule  Service
	logger    *slog.Logger
	validator middleware.TokenValidator
}

// New creates a schedule Handler.
func New(schedule Service, logger *slog.Logger, validator middleware.TokenValidator) *Handler {
	return &Handler{schedule: schedule, logger: logger, validator: validator}
}

// Register mounts the schedule routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/shifts", h.handleListShifts)
	r.Get("/shifts/{id}", h.handleGetShift)
	r.Get("/schedule/recommendations", h.handleRecommendations)
	r.Get("/schedule/weekly-hours", h.handleWeeklyHours)
	r.Get("/schedule/overtime-warnings", h.handleOvertimeWarnings)
	r.Get("/officers/{id}/availability", h.handleGetAvailability)
	r.Get("/timesheets", h.handleTimesheets)
	r.Post("/schedule/validate", h.handleValidate)

	r.Group(func(r chi.Router) {
		if h.validator != nil {
			r.Use(middleware.RequireAuth(h.validator, h.logger))
		}
		r.Post("/shifts", h.handleCreateShift)
		r.Put("/shifts/{id}", h.handleUpdateShift)
		r.Delete("/shifts/{id}", h.handleDeleteShift)
		r.Post("/shifts/{id}/assign", h.handleAssignShift)
		r.Post("/shifts/{id}/publish", h.handlePublishShift)
		r.Post("/shifts/{id}/complete", h.handleCompleteShift)
		r.Put("/officers/{id}/availability", h.handleUpsertAvailability)
	})
}

func (h *Handler) handleCreateShift(w http.ResponseWriter, r *http.Request) {
	var shift models.Shift
	if err := json.NewDecoder(r.Body).Decode(&shift); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	created, err := h.schedule.CreateShift(r.Context(), &shift)
	if err != nil {
		h.writeServiceError(w, r, "failed to create shift", err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleGetShift(w http.ResponseWriter, r *http.Request) {
	shiftID, err := id.ParseShiftID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid shift id"))
		return
	}
	shift, err := h.schedule.GetShift(r.Context(), shiftID)
	if err != nil {
		h.writeServiceError(w, r, "failed to get shift", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, shift)
}

func (h *Handler) handleListShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.schedule.ListShifts(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "failed to list shifts", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"shifts": shifts})
}

func (h *Handler) handleUpdateShift(w http.ResponseWriter, r *http.Request) {
	shiftID, err := id.ParseShiftID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid shift id"))
		return
	}
	var shift models.Shift
	if err := json.NewDecoder(r.Body).Decode(&shift); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	shift.ID = shiftID
	updated, err := h.schedule.UpdateShift(r.Context(), &shift)
	if err != nil {
		h.writeServiceError(w, r, "failed to update shift", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteShift(w http.ResponseWriter, r *http.Request) {
	shiftID, err := id.ParseShiftID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid shift id"))
		return
	}
	if err := h.schedule.DeleteShift(r.Context(), shiftID); err != nil {
		h.writeServiceError(w, r, "failed to delete shift", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type assignRequest struct {
	OfficerID string `json:"officer_id"`
}

// assignResponse returns the shift plus any advisory findings; on a 409 the
// same shape carries the blocking findings so the client can show them.
type assignResponse struct {
	Shift     *models.Shift           `json:"shift,omitempty"`
	Conflicts []models.ConflictResult `json:"conflicts"`
	Error     string                  `json:"error,omitempty"`
}

func (h *Handler) handleAssignShift(w http.ResponseWriter, r *http.Request) {
	shiftID, err := id.ParseShiftID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid shift id"))
		return
	}
	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	officerID, err := id.ParseOfficerID(req.OfficerID)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid officer id"))
		return
	}

	shift, conflicts, err := h.schedule.AssignShift(r.Context(), shiftID, officerID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) && len(conflicts) > 0 {
			shared.WriteJSON(w, http.StatusConflict, assignResponse{
				Conflicts: conflicts,
				Error:     string(dErrors.CodeConflict),
			})
			return
		}
		h.writeServiceError(w, r, "failed to assign shift", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, assignResponse{Shift: shift, Conflicts: conflicts})
}

func (h *Handler) handlePublishShift(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, h.schedule.PublishShift, "failed to publish shift")
}

func (h *Handler) handleCompleteShift(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, h.schedule.CompleteShift, "failed to complete shift")
}

func (h *Handler) handleTransition(w http.ResponseWriter, r *http.Request, transition func(context.Context, id.ShiftID) (*models.Shift, error), message string) {
	shiftID, err := id.ParseShiftID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid shift id"))
		return
	}
	shift, err := transition(r.Context(), shiftID)
	if err != nil {
		h.writeServiceError(w, r, message, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, shift)
}

type validateRequest struct {
	OfficerID string       `json:"officer_id"`
	Shift     models.Shift `json:"shift"`
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	officerID, err := id.ParseOfficerID(req.OfficerID)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid officer id"))
		return
	}
	if err := req.Shift.Validate(); err != nil {
		shared.WriteError(w, err)
		return
	}
	conflicts, err := h.schedule.ValidateAssignment(r.Context(), req.Shift, officerID)
	if err != nil {
		h.writeServiceError(w, r, "failed to validate assignment", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"conflicts": conflicts})
}

func (h *Handler) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	shiftID, err := id.ParseShiftID(r.URL.Query().Get("shift_id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "shift_id query parameter is required"))
		return
	}
	shift, err := h.schedule.GetShift(r.Context(), shiftID)
	if err != nil {
		h.writeServiceError(w, r, "failed to get shift", err)
		return
	}
	recommended, err := h.schedule.RecommendedOfficers(r.Context(), *shift)
	if err != nil {
		h.writeServiceError(w, r, "failed to compute recommendations", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"officers": recommended})
}

func (h *Handler) handleWeeklyHours(w http.ResponseWriter, r *http.Request) {
	ref, err := weekOf(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	hours, err := h.schedule.WeeklyHoursByOfficer(r.Context(), ref)
	if err != nil {
		h.writeServiceError(w, r, "failed to aggregate weekly hours", err)
		return
	}
	byOfficer := make(map[string]models.WeeklyHours, len(hours))
	for officerID, weekly := range hours {
		byOfficer[officerID.String()] = weekly
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"weekly_hours": byOfficer})
}

func (h *Handler) handleOvertimeWarnings(w http.ResponseWriter, r *http.Request) {
	ref, err := weekOf(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	warnings, err := h.schedule.OvertimeWarnings(r.Context(), ref)
	if err != nil {
		h.writeServiceError(w, r, "failed to compute overtime warnings", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"warnings": warnings})
}

func (h *Handler) handleTimesheets(w http.ResponseWriter, r *http.Request) {
	ref, err := weekOf(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	sheets, err := h.schedule.Timesheets(r.Context(), ref)
	if err != nil {
		h.writeServiceError(w, r, "failed to build timesheets", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"timesheets": sheets})
}

func (h *Handler) handleUpsertAvailability(w http.ResponseWriter, r *http.Request) {
	officerID, err := id.ParseOfficerID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid officer id"))
		return
	}
	var record models.Availability
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	record.OfficerID = officerID
	if err := h.schedule.UpsertAvailability(r.Context(), &record); err != nil {
		h.writeServiceError(w, r, "failed to save availability", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) handleGetAvailability(w http.ResponseWriter, r *http.Request) {
	officerID, err := id.ParseOfficerID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid officer id"))
		return
	}
	if date := r.URL.Query().Get("date"); date != "" {
		record, err := h.schedule.GetAvailability(r.Context(), officerID, date)
		if err != nil {
			h.writeServiceError(w, r, "failed to get availability", err)
			return
		}
		shared.WriteJSON(w, http.StatusOK, record)
		return
	}
	records, err := h.schedule.ListAvailability(r.Context(), officerID)
	if err != nil {
		h.writeServiceError(w, r, "failed to list availability", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"availability": records})
}

// weekOf reads the week_of query parameter, defaulting to the current
// server time. Any date inside the target week works; aggregation snaps to
// the week's Sunday.
func weekOf(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("week_of")
	if raw == "" {
		return time.Now(), nil
	}
	ref, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, dErrors.New(dErrors.CodeBadRequest, "week_of must be YYYY-MM-DD")
	}
	return ref, nil
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, message string, err error) {
	ctx := r.Context()
	if dErrors.GetCode(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, message,
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, message))
		return
	}
	shared.WriteError(w, err)
}
