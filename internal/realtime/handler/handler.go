// Package handler exposes the command-center endpoints: panic alerts,
// geofence events, officer locations, the activity feed, and the
// WebSocket event stream.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"guardhq/internal/platform/middleware"
	"guardhq/internal/realtime/models"
	"guardhq/internal/transport/http/shared"
	id "guardhq/pkg/domain"
	dErrors "guardhq/pkg/domain-errors"
)

// Service defines the realtime operations the handler needs.
type Service interface {
	CreatePanicAlert(ctx context.Context, officerID id.OfficerID, location models.Location, notes string) (*models.PanicAlert, error)
	AcknowledgePanicAlert(ctx context.Context, alertID id.AlertID) (*models.PanicAlert, error)
	ResolvePanicAlert(ctx context.Context, alertID id.AlertID) (*models.PanicAlert, error)
	RecordGeofenceEvent(ctx context.Context, event *models.GeofenceEvent) error
	AcknowledgeGeofenceEvent(ctx context.Context, eventID id.EventID) (*models.GeofenceEvent, error)
	UpdateOfficerLocation(ctx context.Context, location models.OfficerLocation) error
	LastKnownLocation(ctx context.Context, officerID id.OfficerID) (*models.OfficerLocation, error)
	ListPanicAlerts(status models.PanicAlertStatus) []models.PanicAlert
	ListGeofenceEvents(unackedExits bool) []models.GeofenceEvent
	ListLocations() []models.OfficerLocation
	ActivityFeed(limit int) []models.ActivityEntry
	Summary(ctx context.Context) models.CommandCenterSummary
}

// Handler handles command-center endpoints.
type Handler struct {
	realtime  Service
	hub       *Hub
	logger    *slog.Logger
	validator middleware.TokenValidator
}

// New creates a realtime Handler.
func New(realtime Service, hub *Hub, logger *slog.Logger, validator middleware.TokenValidator) *Handler {
	return &Handler{realtime: realtime, hub: hub, logger: logger, validator: validator}
}

// Register mounts the command-center routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/alerts/panic", h.handleListPanicAlerts)
	r.Get("/geofence/events", h.handleListGeofenceEvents)
	r.Get("/locations", h.handleListLocations)
	r.Get("/officers/{id}/location", h.handleGetLocation)
	r.Get("/activity", h.handleActivityFeed)
	r.Get("/command-center/summary", h.handleSummary)
	r.Get("/ws", h.hub.ServeWS)

	// Panic creation stays open: a distress signal must never bounce on an
	// expired token.
	r.Post("/alerts/panic", h.handleCreatePanicAlert)

	r.Group(func(r chi.Router) {
		if h.validator != nil {
			r.Use(middleware.RequireAuth(h.validator, h.logger))
		}
		r.Post("/alerts/panic/{id}/acknowledge", h.handleAcknowledgePanicAlert)
		r.Post("/alerts/panic/{id}/resolve", h.handleResolvePanicAlert)
		r.Post("/geofence/events", h.handleRecordGeofenceEvent)
		r.Post("/geofence/events/{id}/acknowledge", h.handleAcknowledgeGeofenceEvent)
		r.Put("/officers/{id}/location", h.handleUpdateLocation)
	})
}

type panicAlertRequest struct {
	OfficerID string  `json:"officer_id"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Notes     string  `json:"notes"`
}

func (h *Handler) handleCreatePanicAlert(w http.ResponseWriter, r *http.Request) {
	var req panicAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	officerID, err := id.ParseOfficerID(req.OfficerID)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid officer id"))
		return
	}
	alert, err := h.realtime.CreatePanicAlert(r.Context(), officerID, models.Location{Lat: req.Lat, Lng: req.Lng}, req.Notes)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, alert)
}

func (h *Handler) handleAcknowledgePanicAlert(w http.ResponseWriter, r *http.Request) {
	h.handleAlertTransition(w, r, h.realtime.AcknowledgePanicAlert)
}

func (h *Handler) handleResolvePanicAlert(w http.ResponseWriter, r *http.Request) {
	h.handleAlertTransition(w, r, h.realtime.ResolvePanicAlert)
}

func (h *Handler) handleAlertTransition(w http.ResponseWriter, r *http.Request, transition func(context.Context, id.AlertID) (*models.PanicAlert, error)) {
	alertID, err := id.ParseAlertID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid alert id"))
		return
	}
	alert, err := transition(r.Context(), alertID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, alert)
}

func (h *Handler) handleListPanicAlerts(w http.ResponseWriter, r *http.Request) {
	status := models.PanicAlertStatus(r.URL.Query().Get("status"))
	alerts := h.realtime.ListPanicAlerts(status)
	shared.WriteJSON(w, http.StatusOK, map[string]any{"alerts": alerts})
}

func (h *Handler) handleRecordGeofenceEvent(w http.ResponseWriter, r *http.Request) {
	var event models.GeofenceEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := h.realtime.RecordGeofenceEvent(r.Context(), &event); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, event)
}

func (h *Handler) handleAcknowledgeGeofenceEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := id.ParseEventID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid event id"))
		return
	}
	event, err := h.realtime.AcknowledgeGeofenceEvent(r.Context(), eventID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, event)
}

func (h *Handler) handleListGeofenceEvents(w http.ResponseWriter, r *http.Request) {
	unacked := r.URL.Query().Get("unacked") == "true"
	events := h.realtime.ListGeofenceEvents(unacked)
	shared.WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}

type locationRequest struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Accuracy float64 `json:"accuracy"`
}

func (h *Handler) handleUpdateLocation(w http.ResponseWriter, r *http.Request) {
	officerID, err := id.ParseOfficerID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid officer id"))
		return
	}
	var req locationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	location := models.OfficerLocation{
		OfficerID: officerID,
		Lat:       req.Lat,
		Lng:       req.Lng,
		Accuracy:  req.Accuracy,
	}
	if err := h.realtime.UpdateOfficerLocation(r.Context(), location); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGetLocation(w http.ResponseWriter, r *http.Request) {
	officerID, err := id.ParseOfficerID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid officer id"))
		return
	}
	location, err := h.realtime.LastKnownLocation(r.Context(), officerID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, location)
}

func (h *Handler) handleListLocations(w http.ResponseWriter, r *http.Request) {
	shared.WriteJSON(w, http.StatusOK, map[string]any{"locations": h.realtime.ListLocations()})
}

func (h *Handler) handleActivityFeed(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a non-negative integer"))
			return
		}
		limit = parsed
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"activity": h.realtime.ActivityFeed(limit)})
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	shared.WriteJSON(w, http.StatusOK, h.realtime.Summary(r.Context()))
}
