package validation

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guardhq/internal/schedule/models"
	id "guardhq/pkg/domain"
)

func weekShift(officerID id.OfficerID, start time.Time, hours int) models.Shift {
	return models.Shift{
		ID:        id.NewShiftID(),
		SiteID:    id.NewSiteID(),
		OfficerID: officerID,
		StartTime: start,
		EndTime:   start.Add(time.Duration(hours) * time.Hour),
		Status:    models.ShiftAssigned,
	}
}

func TestCalculateWeeklyHours(t *testing.T) {
	officerID := id.NewOfficerID()
	// 2025-03-02 is a Sunday.
	sunday := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)

	t.Run("empty input is all zeros", func(t *testing.T) {
		hours := CalculateWeeklyHours(nil, sunday)
		assert.Equal(t, models.WeeklyHours{}, hours)
	})

	t.Run("sums only shifts starting inside the week", func(t *testing.T) {
		shifts := []models.Shift{
			weekShift(officerID, sunday.Add(8*time.Hour), 8),             // in week
			weekShift(officerID, sunday.AddDate(0, 0, 3), 10),            // in week
			weekShift(officerID, sunday.AddDate(0, 0, -1), 8),            // previous week
			weekShift(officerID, sunday.AddDate(0, 0, 7), 8),             // next week
			weekShift(officerID, sunday.AddDate(0, 0, 6).Add(time.Hour), 6), // in week
		}

		hours := CalculateWeeklyHours(shifts, sunday.AddDate(0, 0, 2))
		assert.InDelta(t, 24.0, hours.Total, 1e-9)
		assert.InDelta(t, 24.0, hours.Regular, 1e-9)
		assert.Zero(t, hours.Overtime)
	})

	t.Run("splits at the 40 hour boundary", func(t *testing.T) {
		var shifts []models.Shift
		for day := 0; day < 5; day++ {
			shifts = append(shifts, weekShift(officerID, sunday.AddDate(0, 0, day).Add(6*time.Hour), 9))
		}

		hours := CalculateWeeklyHours(shifts, sunday)
		assert.InDelta(t, 45.0, hours.Total, 1e-9)
		assert.InDelta(t, 40.0, hours.Regular, 1e-9)
		assert.InDelta(t, 5.0, hours.Overtime, 1e-9)
	})

	t.Run("reference anywhere in the week selects the same window", func(t *testing.T) {
		shifts := []models.Shift{weekShift(officerID, sunday.AddDate(0, 0, 1), 8)}
		for day := 0; day < 7; day++ {
			ref := sunday.AddDate(0, 0, day).Add(13 * time.Hour)
			assert.InDelta(t, 8.0, CalculateWeeklyHours(shifts, ref).Total, 1e-9, "day %d", day)
		}
	})

	t.Run("idempotent under reordering", func(t *testing.T) {
		var shifts []models.Shift
		for day := 0; day < 6; day++ {
			shifts = append(shifts, weekShift(officerID, sunday.AddDate(0, 0, day).Add(7*time.Hour), 5+day))
		}
		want := CalculateWeeklyHours(shifts, sunday)

		rng := rand.New(rand.NewSource(1))
		for range 10 {
			rng.Shuffle(len(shifts), func(i, j int) { shifts[i], shifts[j] = shifts[j], shifts[i] })
			assert.Equal(t, want, CalculateWeeklyHours(shifts, sunday))
		}
	})

	t.Run("regular plus overtime equals total and regular never exceeds 40", func(t *testing.T) {
		rng := rand.New(rand.NewSource(2))
		for range 50 {
			var shifts []models.Shift
			for range rng.Intn(10) {
				day := rng.Intn(7)
				start := sunday.AddDate(0, 0, day).Add(time.Duration(rng.Intn(16)) * time.Hour)
				shifts = append(shifts, weekShift(officerID, start, 1+rng.Intn(12)))
			}
			hours := CalculateWeeklyHours(shifts, sunday)
			require.InDelta(t, hours.Total, hours.Regular+hours.Overtime, 1e-9)
			require.LessOrEqual(t, hours.Regular, RegularHoursSplit)
			require.GreaterOrEqual(t, hours.Overtime, 0.0)
		}
	})
}

func TestWeekStart(t *testing.T) {
	t.Run("rewinds to the most recent Sunday midnight", func(t *testing.T) {
		wednesday := time.Date(2025, 3, 5, 17, 30, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), WeekStart(wednesday))
	})

	t.Run("a Sunday is its own week start", func(t *testing.T) {
		sunday := time.Date(2025, 3, 2, 23, 59, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), WeekStart(sunday))
	})

	t.Run("preserves the location", func(t *testing.T) {
		loc := time.FixedZone("UTC+9", 9*3600)
		monday := time.Date(2025, 3, 3, 1, 0, 0, 0, loc)
		start := WeekStart(monday)
		assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, loc), start)
	})
}

func TestOverlaps(t *testing.T) {
	base := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	at := func(h int) time.Time { return base.Add(time.Duration(h) * time.Hour) }

	cases := []struct {
		name                   string
		s1, e1, s2, e2         int
		want                   bool
	}{
		{"disjoint", 8, 12, 13, 17, false},
		{"touching endpoints are half-open", 8, 12, 12, 16, false},
		{"partial overlap", 8, 16, 15, 23, true},
		{"containment", 8, 20, 10, 12, true},
		{"identical", 8, 16, 8, 16, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(at(tc.s1), at(tc.e1), at(tc.s2), at(tc.e2)))
			assert.Equal(t, tc.want, Overlaps(at(tc.s2), at(tc.e2), at(tc.s1), at(tc.e1)), "must be symmetric")
		})
	}
}
