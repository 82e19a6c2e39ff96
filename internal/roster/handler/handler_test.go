package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"guardhq/internal/jwttoken"
	"guardhq/internal/roster/models"
	"guardhq/internal/roster/service"
	officerstore "guardhq/internal/roster/store/officer"
	sitestore "guardhq/internal/roster/store/site"
	id "guardhq/pkg/domain"
)

func newRosterRouter() chi.Router {
	svc := service.New(officerstore.NewInMemoryStore(), sitestore.NewInMemoryStore())
	router := chi.NewRouter()
	New(svc, slog.New(slog.DiscardHandler), nil).Register(router)
	return router
}

func do(t *testing.T, router chi.Router, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestOfficerCRUD(t *testing.T) {
	router := newRosterRouter()

	rec := do(t, router, http.MethodPost, "/officers", map[string]any{
		"full_name": "Dana Reyes",
		"skills":    []string{"armed", "first_aid"},
		"base_rate": 22.5,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var officer models.Officer
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&officer))
	require.False(t, officer.ID.IsNil())
	require.Equal(t, models.EmploymentActive, officer.EmploymentStatus, "defaults to active")

	got := do(t, router, http.MethodGet, "/officers/"+officer.ID.String(), nil)
	require.Equal(t, http.StatusOK, got.Code)

	updated := do(t, router, http.MethodPut, "/officers/"+officer.ID.String(), map[string]any{
		"full_name":         "Dana Reyes",
		"base_rate":         25.0,
		"employment_status": "on_leave",
	})
	require.Equal(t, http.StatusOK, updated.Code)

	deleted := do(t, router, http.MethodDelete, "/officers/"+officer.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, deleted.Code)

	missing := do(t, router, http.MethodGet, "/officers/"+officer.ID.String(), nil)
	require.Equal(t, http.StatusNotFound, missing.Code)
}

func TestCreateOfficerRequiresName(t *testing.T) {
	router := newRosterRouter()
	rec := do(t, router, http.MethodPost, "/officers", map[string]any{"base_rate": 20})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSiteCRUD(t *testing.T) {
	router := newRosterRouter()

	rec := do(t, router, http.MethodPost, "/sites", map[string]any{
		"name":                    "Harbor Gate",
		"address":                 "1 Pier Rd",
		"required_certifications": []string{"maritime"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var site models.Site
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&site))
	require.False(t, site.ID.IsNil())

	list := do(t, router, http.MethodGet, "/sites", nil)
	require.Equal(t, http.StatusOK, list.Code)
	var listing struct {
		Sites []models.Site `json:"sites"`
	}
	require.NoError(t, json.NewDecoder(list.Body).Decode(&listing))
	require.Len(t, listing.Sites, 1)
}

func TestInvalidIDAnswers400(t *testing.T) {
	router := newRosterRouter()
	rec := do(t, router, http.MethodGet, "/officers/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMutatingRoutesRequireBearerToken(t *testing.T) {
	tokens := jwttoken.NewService("test-signing-key", "guardhq", "guardhq-console")
	svc := service.New(officerstore.NewInMemoryStore(), sitestore.NewInMemoryStore())
	router := chi.NewRouter()
	New(svc, slog.New(slog.DiscardHandler), jwttoken.NewMiddlewareAdapter(tokens)).Register(router)

	payload := map[string]any{"full_name": "Dana Reyes"}

	var body bytes.Buffer
	require.NoError(t, json.NewEncoder(&body).Encode(payload))
	bare := httptest.NewRequest(http.MethodPost, "/officers", &body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, bare)
	require.Equal(t, http.StatusUnauthorized, rec.Code, "no bearer token")

	stale, err := tokens.GenerateAccessToken(id.NewActorID(), -time.Hour)
	require.NoError(t, err)
	body.Reset()
	require.NoError(t, json.NewEncoder(&body).Encode(payload))
	expired := httptest.NewRequest(http.MethodPost, "/officers", &body)
	expired.Header.Set("Authorization", "Bearer "+stale)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, expired)
	require.Equal(t, http.StatusUnauthorized, rec.Code, "expired token")

	token, err := tokens.GenerateAccessToken(id.NewActorID(), time.Hour)
	require.NoError(t, err)
	body.Reset()
	require.NoError(t, json.NewEncoder(&body).Encode(payload))
	authed := httptest.NewRequest(http.MethodPost, "/officers", &body)
	authed.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authed)
	require.Equal(t, http.StatusCreated, rec.Code, "valid token passes")

	open := do(t, router, http.MethodGet, "/officers", nil)
	require.Equal(t, http.StatusOK, open.Code, "reads stay open")
}
