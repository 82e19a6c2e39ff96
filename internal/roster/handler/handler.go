// Package handler exposes the roster endpoints for officers and sites.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"guardhq/internal/platform/middleware"
	"guardhq/internal/roster/models"
	"guardhq/internal/transport/http/shared"
	id "guardhq/pkg/domain"
	dErrors "guardhq/pkg/domain-errors"
)

// Service defines the roster operations the handler needs.
type Service interface {
	CreateOfficer(ctx context.Context, officer *models.Officer) (*models.Officer, error)
	GetOfficer(ctx context.Context, officerID id.OfficerID) (*models.Officer, error)
	ListOfficers(ctx context.Context) ([]*models.Officer, error)
	UpdateOfficer(ctx context.Context, officer *models.Officer) (*models.Officer, error)
	DeleteOfficer(ctx context.Context, officerID id.OfficerID) error
	CreateSite(ctx context.Context, site *models.Site) (*models.Site, error)
	GetSite(ctx context.Context, siteID id.SiteID) (*models.Site, error)
	ListSites(ctx context.Context) ([]*models.Site, error)
	UpdateSite(ctx context.Context, site *models.Site) (*models.Site, error)
	DeleteSite(ctx context.Context, siteID id.SiteID) error
}

// Handler handles roster endpoints.
type Handler struct {
	roster    Service
	logger    *slog.Logger
	validator middleware.TokenValidator
}

// New creates a roster Handler. A nil validator leaves mutating routes
// open, which is only acceptable in tests.
func New(roster Service, logger *slog.Logger, validator middleware.TokenValidator) *Handler {
	return &Handler{roster: roster, logger: logger, validator: validator}
}

// Register mounts the roster routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/officers", h.handleListOfficers)
	r.Get("/officers/{id}", h.handleGetOfficer)
	r.Get("/sites", h.handleListSites)
	r.Get("/sites/{id}", h.handleGetSite)

	r.Group(func(r chi.Router) {
		if h.validator != nil {
			r.Use(middleware.RequireAuth(h.validator, h.logger))
		}
		r.Post("/officers", h.handleCreateOfficer)
		r.Put("/officers/{id}", h.handleUpdateOfficer)
		r.Delete("/officers/{id}", h.handleDeleteOfficer)
		r.Post("/sites", h.handleCreateSite)
		r.Put("/sites/{id}", h.handleUpdateSite)
		r.Delete("/sites/{id}", h.handleDeleteSite)
	})
}

func (h *Handler) handleCreateOfficer(w http.ResponseWriter, r *http.Request) {
	var officer models.Officer
	if err := json.NewDecoder(r.Body).Decode(&officer); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	created, err := h.roster.CreateOfficer(r.Context(), &officer)
	if err != nil {
		h.writeServiceError(w, r, "failed to create officer", err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleGetOfficer(w http.ResponseWriter, r *http.Request) {
	officerID, err := id.ParseOfficerID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid officer id"))
		return
	}
	officer, err := h.roster.GetOfficer(r.Context(), officerID)
	if err != nil {
		h.writeServiceError(w, r, "failed to get officer", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, officer)
}

func (h *Handler) handleListOfficers(w http.ResponseWriter, r *http.Request) {
	officers, err := h.roster.ListOfficers(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "failed to list officers", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"officers": officers})
}

func (h *Handler) handleUpdateOfficer(w http.ResponseWriter, r *http.Request) {
	officerID, err := id.ParseOfficerID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid officer id"))
		return
	}
	var officer models.Officer
	if err := json.NewDecoder(r.Body).Decode(&officer); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	officer.ID = officerID
	updated, err := h.roster.UpdateOfficer(r.Context(), &officer)
	if err != nil {
		h.writeServiceError(w, r, "failed to update officer", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteOfficer(w http.ResponseWriter, r *http.Request) {
	officerID, err := id.ParseOfficerID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid officer id"))
		return
	}
	if err := h.roster.DeleteOfficer(r.Context(), officerID); err != nil {
		h.writeServiceError(w, r, "failed to delete officer", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCreateSite(w http.ResponseWriter, r *http.Request) {
	var site models.Site
	if err := json.NewDecoder(r.Body).Decode(&site); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	created, err := h.roster.CreateSite(r.Context(), &site)
	if err != nil {
		h.writeServiceError(w, r, "failed to create site", err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleGetSite(w http.ResponseWriter, r *http.Request) {
	siteID, err := id.ParseSiteID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid site id"))
		return
	}
	site, err := h.roster.GetSite(r.Context(), siteID)
	if err != nil {
		h.writeServiceError(w, r, "failed to get site", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, site)
}

func (h *Handler) handleListSites(w http.ResponseWriter, r *http.Request) {
	sites, err := h.roster.ListSites(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "failed to list sites", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"sites": sites})
}

func (h *Handler) handleUpdateSite(w http.ResponseWriter, r *http.Request) {
	siteID, err := id.ParseSiteID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid site id"))
		return
	}
	var site models.Site
	if err := json.NewDecoder(r.Body).Decode(&site); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	site.ID = siteID
	updated, err := h.roster.UpdateSite(r.Context(), &site)
	if err != nil {
		h.writeServiceError(w, r, "failed to update site", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteSite(w http.ResponseWriter, r *http.Request) {
	siteID, err := id.ParseSiteID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid site id"))
		return
	}
	if err := h.roster.DeleteSite(r.Context(), siteID); err != nil {
		h.writeServiceError(w, r, "failed to delete site", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, message string, err error) {
	ctx := r.Context()
	code := dErrors.GetCode(err)
	if code == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, message,
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, message))
		return
	}
	shared.WriteError(w, err)
}
