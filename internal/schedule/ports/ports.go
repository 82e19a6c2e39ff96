// Package ports defines the storage interfaces the scheduling services
// depend on.
package ports

import (
	"context"

	"guardhq/internal/schedule/models"
	id "guardhq/pkg/domain"
)

// ShiftStore persists shifts.
type ShiftStore interface {
	Create(ctx context.Context, shift *models.Shift) error
	Get(ctx context.Context, shiftID id.ShiftID) (*models.Shift, error)
	List(ctx context.Context) ([]*models.Shift, error)
	ListByOfficer(ctx context.Context, officerID id.OfficerID) ([]*models.Shift, error)
	Update(ctx context.Context, shift *models.Shift) error
	Delete(ctx context.Context, shiftID id.ShiftID) error
}

// AvailabilityStore persists officer availability records. At most one
// record exists per (officer, date); Upsert replaces.
type AvailabilityStore interface {
	Upsert(ctx context.Context, record *models.Availability) error
	Get(ctx context.Context, officerID id.OfficerID, date string) (*models.Availability, error)
	ListByOfficer(ctx context.Context, officerID id.OfficerID) ([]*models.Availability, error)
}
