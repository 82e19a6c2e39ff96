package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	rostermodels "guardhq/internal/roster/models"
	officerstore "guardhq/internal/roster/store/officer"
	sitestore "guardhq/internal/roster/store/site"
	"guardhq/internal/schedule/models"
	"guardhq/internal/schedule/service"
	availabilitystore "guardhq/internal/schedule/store/availability"
	shiftstore "guardhq/internal/schedule/store/shift"
	id "guardhq/pkg/domain"
)

type fixture struct {
	router   chi.Router
	officers *officerstore.InMemoryStore
	sites    *sitestore.InMemoryStore
	shifts   *shiftstore.InMemoryStore
	site     *rostermodels.Site
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	officers := officerstore.NewInMemoryStore()
	sites := sitestore.NewInMemoryStore()
	shifts := shiftstore.NewInMemoryStore()
	avail := availabilitystore.NewInMemoryStore()
	svc := service.New(shifts, avail, officers, sites)

	logger := slog.New(slog.DiscardHandler)
	router := chi.NewRouter()
	New(svc, logger, nil).Register(router)

	site := &rostermodels.Site{ID: id.NewSiteID(), Name: "Harbor Gate"}
	require.NoError(t, sites.Create(context.Background(), site))

	return &fixture{router: router, officers: officers, sites: sites, shifts: shifts, site: site}
}

func (f *fixture) addOfficer(t *testing.T, name string) *rostermodels.Officer {
	t.Helper()
	officer := &rostermodels.Officer{
		ID:               id.NewOfficerID(),
		FullName:         name,
		BaseRate:         20,
		EmploymentStatus: rostermodels.EmploymentActive,
	}
	require.NoError(t, f.officers.Create(context.Background(), officer))
	return officer
}

func (f *fixture) addShift(t *testing.T, officerID id.OfficerID, start, end time.Time, status models.ShiftStatus) *models.Shift {
	t.Helper()
	shift := &models.Shift{
		ID:        id.NewShiftID(),
		SiteID:    f.site.ID,
		OfficerID: officerID,
		StartTime: start,
		EndTime:   end,
		Status:    status,
	}
	require.NoError(t, f.shifts.Create(context.Background(), shift))
	return shift
}

func (f *fixture) do(t *testing.T, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

var monday = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

func TestCreateAndGetShift(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/shifts", map[string]any{
		"site_id":    f.site.ID.String(),
		"start_time": monday.Add(8 * time.Hour),
		"end_time":   monday.Add(16 * time.Hour),
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Shift
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	require.Equal(t, models.ShiftDraft, created.Status)

	got := f.do(t, http.MethodGet, "/shifts/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, got.Code)
}

func TestCreateShiftRejectsInvertedInterval(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/shifts", map[string]any{
		"site_id":    f.site.ID.String(),
		"start_time": monday.Add(16 * time.Hour),
		"end_time":   monday.Add(8 * time.Hour),
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssignConflictAnswers409WithFindings(t *testing.T) {
	f := newFixture(t)
	officer := f.addOfficer(t, "Dana Reyes")
	f.addShift(t, officer.ID, monday.Add(8*time.Hour), monday.Add(16*time.Hour), models.ShiftAssigned)
	target := f.addShift(t, id.OfficerID{}, monday.Add(15*time.Hour), monday.Add(23*time.Hour), models.ShiftPublished)

	rec := f.do(t, http.MethodPost, "/shifts/"+target.ID.String()+"/assign",
		map[string]string{"officer_id": officer.ID.String()})

	require.Equal(t, http.StatusConflict, rec.Code)
	var resp struct {
		Conflicts []models.ConflictResult `json:"conflicts"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Conflicts)
	require.Equal(t, models.ConflictOverlap, resp.Conflicts[0].Type)
}

func TestAssignSucceedsWithWarnings(t *testing.T) {
	f := newFixture(t)
	officer := f.addOfficer(t, "Dana Reyes")
	f.addShift(t, officer.ID, monday.Add(22*time.Hour), monday.Add(26*time.Hour), models.ShiftAssigned)
	target := f.addShift(t, id.OfficerID{}, monday.Add(32*time.Hour), monday.Add(40*time.Hour), models.ShiftPublished)

	rec := f.do(t, http.MethodPost, "/shifts/"+target.ID.String()+"/assign",
		map[string]string{"officer_id": officer.ID.String()})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Shift     *models.Shift           `json:"shift"`
		Conflicts []models.ConflictResult `json:"conflicts"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, models.ShiftAssigned, resp.Shift.Status)
	require.Len(t, resp.Conflicts, 1)
	require.Equal(t, models.ConflictRestPeriod, resp.Conflicts[0].Type)
}

func TestValidateUnknownOfficerAnswers404(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/schedule/validate", map[string]any{
		"officer_id": id.NewOfficerID().String(),
		"shift": map[string]any{
			"site_id":    f.site.ID.String(),
			"start_time": monday.Add(8 * time.Hour),
			"end_time":   monday.Add(16 * time.Hour),
		},
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecommendationsOrderedByLoad(t *testing.T) {
	f := newFixture(t)
	heavy := f.addOfficer(t, "Lee Park")
	light := f.addOfficer(t, "Dana Reyes")
	f.addShift(t, heavy.ID, monday, monday.Add(20*time.Hour), models.ShiftAssigned)
	f.addShift(t, light.ID, monday, monday.Add(8*time.Hour), models.ShiftAssigned)
	target := f.addShift(t, id.OfficerID{}, monday.Add(72*time.Hour), monday.Add(80*time.Hour), models.ShiftPublished)

	rec := f.do(t, http.MethodGet, "/schedule/recommendations?shift_id="+target.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Officers []rostermodels.Officer `json:"officers"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Officers, 2)
	require.Equal(t, light.ID, resp.Officers[0].ID)
	require.Equal(t, heavy.ID, resp.Officers[1].ID)
}

func TestWeeklyHoursEndpoint(t *testing.T) {
	f := newFixture(t)
	officer := f.addOfficer(t, "Dana Reyes")
	f.addShift(t, officer.ID, monday, monday.Add(45*time.Hour), models.ShiftAssigned)

	rec := f.do(t, http.MethodGet, "/schedule/weekly-hours?week_of=2025-03-03", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		WeeklyHours map[string]models.WeeklyHours `json:"weekly_hours"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, models.WeeklyHours{Regular: 40, Overtime: 5, Total: 45}, resp.WeeklyHours[officer.ID.String()])
}

func TestWeeklyHoursRejectsBadDate(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/schedule/weekly-hours?week_of=notadate", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAvailabilityRoundTrip(t *testing.T) {
	f := newFixture(t)
	officer := f.addOfficer(t, "Dana Reyes")

	put := f.do(t, http.MethodPut, fmt.Sprintf("/officers/%s/availability", officer.ID), map[string]any{
		"date":       "2025-03-03",
		"available":  true,
		"start_time": "7:00",
		"end_time":   "15:00",
	})
	require.Equal(t, http.StatusOK, put.Code)

	get := f.do(t, http.MethodGet, fmt.Sprintf("/officers/%s/availability?date=2025-03-03", officer.ID), nil)
	require.Equal(t, http.StatusOK, get.Code)

	var record models.Availability
	require.NoError(t, json.NewDecoder(get.Body).Decode(&record))
	require.Equal(t, "07:00", record.StartTime, "window is stored canonical")
}

func TestTimesheetsEndpoint(t *testing.T) {
	f := newFixture(t)
	officer := f.addOfficer(t, "Dana Reyes")
	f.addShift(t, officer.ID, monday, monday.Add(40*time.Hour), models.ShiftCompleted)

	rec := f.do(t, http.MethodGet, "/timesheets?week_of=2025-03-05", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Timesheets []service.Timesheet `json:"timesheets"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Timesheets, 1)
	require.Equal(t, 800.0, resp.Timesheets[0].GrossPay)
}

func TestPublishLifecycleOverHTTP(t *testing.T) {
	f := newFixture(t)
	shift := f.addShift(t, id.OfficerID{}, monday.Add(8*time.Hour), monday.Add(16*time.Hour), models.ShiftDraft)

	rec := f.do(t, http.MethodPost, "/shifts/"+shift.ID.String()+"/publish", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	again := f.do(t, http.MethodPost, "/shifts/"+shift.ID.String()+"/publish", nil)
	require.Equal(t, http.StatusConflict, again.Code)
}
