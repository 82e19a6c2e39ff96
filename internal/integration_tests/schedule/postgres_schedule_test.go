//go:build integration

package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rostermodels "guardhq/internal/roster/models"
	officerstore "guardhq/internal/roster/store/officer"
	sitestore "guardhq/internal/roster/store/site"
	"guardhq/internal/schedule/models"
	"guardhq/internal/schedule/service"
	availabilitystore "guardhq/internal/schedule/store/availability"
	shiftstore "guardhq/internal/schedule/store/shift"
	id "guardhq/pkg/domain"
	dErrors "guardhq/pkg/domain-errors"
	"guardhq/pkg/testutil/containers"
)

var monday = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

func TestScheduleAgainstPostgres(t *testing.T) {
	ctx := context.Background()
	pg := containers.NewPostgresContainer(t)

	officers := officerstore.NewPostgres(pg.DB)
	sites := sitestore.NewPostgres(pg.DB)
	shifts := shiftstore.NewPostgres(pg.DB)
	availability := availabilitystore.NewPostgres(pg.DB)
	svc := service.New(shifts, availability, officers, sites)

	officer := &rostermodels.Officer{
		ID:               id.NewOfficerID(),
		FullName:         "Dana Reyes",
		Skills:           []string{"armed", "first_aid"},
		BaseRate:         22.5,
		EmploymentStatus: rostermodels.EmploymentActive,
	}
	require.NoError(t, officers.Create(ctx, officer))

	site := &rostermodels.Site{
		ID:                     id.NewSiteID(),
		Name:                   "Harbor Gate",
		Address:                "1 Pier Rd",
		RequiredCertifications: []string{"maritime"},
	}
	require.NoError(t, sites.Create(ctx, site))

	t.Run("shift round trip preserves NULL officer", func(t *testing.T) {
		created, err := svc.CreateShift(ctx, &models.Shift{
			SiteID:    site.ID,
			StartTime: monday.Add(8 * time.Hour),
			EndTime:   monday.Add(16 * time.Hour),
		})
		require.NoError(t, err)
		assert.Equal(t, models.ShiftDraft, created.Status)

		got, err := svc.GetShift(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, got.OfficerID.IsNil(), "unassigned shift reads back as nil officer")

		byOfficer, err := shifts.ListByOfficer(ctx, officer.ID)
		require.NoError(t, err)
		assert.Empty(t, byOfficer, "NULL officer_id never matches a real officer")
	})

	t.Run("assignment persists through the database", func(t *testing.T) {
		created, err := svc.CreateShift(ctx, &models.Shift{
			SiteID:    site.ID,
			StartTime: monday.Add(24 * time.Hour),
			EndTime:   monday.Add(32 * time.Hour),
		})
		require.NoError(t, err)

		assigned, conflicts, err := svc.AssignShift(ctx, created.ID, officer.ID)
		require.NoError(t, err)
		assert.Empty(t, conflicts)
		assert.Equal(t, models.ShiftAssigned, assigned.Status)

		byOfficer, err := shifts.ListByOfficer(ctx, officer.ID)
		require.NoError(t, err)
		require.Len(t, byOfficer, 1)
		assert.Equal(t, created.ID, byOfficer[0].ID)
	})

	t.Run("overlapping assignment is rejected and not persisted", func(t *testing.T) {
		overlapping, err := svc.CreateShift(ctx, &models.Shift{
			SiteID:    site.ID,
			StartTime: monday.Add(28 * time.Hour),
			EndTime:   monday.Add(36 * time.Hour),
		})
		require.NoError(t, err)

		_, conflicts, err := svc.AssignShift(ctx, overlapping.ID, officer.ID)
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeConflict, dErrors.GetCode(err))
		require.NotEmpty(t, conflicts)
		assert.Equal(t, models.ConflictOverlap, conflicts[0].Type)

		got, err := svc.GetShift(ctx, overlapping.ID)
		require.NoError(t, err)
		assert.True(t, got.OfficerID.IsNil())
	})

	t.Run("availability upsert is idempotent per day", func(t *testing.T) {
		require.NoError(t, svc.UpsertAvailability(ctx, &models.Availability{
			OfficerID: officer.ID,
			Date:      "2025-03-04",
			Available: true,
			StartTime: "9:00",
			EndTime:   "17:00",
		}))
		require.NoError(t, svc.UpsertAvailability(ctx, &models.Availability{
			OfficerID: officer.ID,
			Date:      "2025-03-04",
			Available: false,
		}))

		records, err := svc.ListAvailability(ctx, officer.ID)
		require.NoError(t, err)
		require.Len(t, records, 1, "same officer and date overwrites")
		assert.False(t, records[0].Available)
	})

	t.Run("availability window reads back canonical", func(t *testing.T) {
		require.NoError(t, svc.UpsertAvailability(ctx, &models.Availability{
			OfficerID: officer.ID,
			Date:      "2025-03-05",
			Available: true,
			StartTime: "7:00",
			EndTime:   "15:00",
		}))

		got, err := svc.GetAvailability(ctx, officer.ID, "2025-03-05")
		require.NoError(t, err)
		assert.Equal(t, "07:00", got.StartTime)
	})

	t.Run("officer skills survive the array column", func(t *testing.T) {
		got, err := officers.Get(ctx, officer.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"armed", "first_aid"}, got.Skills)
	})

	t.Run("deleting a shift removes it", func(t *testing.T) {
		created, err := svc.CreateShift(ctx, &models.Shift{
			SiteID:    site.ID,
			StartTime: monday.Add(48 * time.Hour),
			EndTime:   monday.Add(56 * time.Hour),
		})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteShift(ctx, created.ID))

		_, err = svc.GetShift(ctx, created.ID)
		assert.Equal(t, dErrors.CodeNotFound, dErrors.GetCode(err))
	})
}
