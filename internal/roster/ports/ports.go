// Package ports defines the storage interfaces the roster services depend
// on, so memory and PostgreSQL implementations stay swappable.
package ports

import (
	"context"

	"guardhq/internal/roster/models"
	id "guardhq/pkg/domain"
)

// OfficerStore persists the guard roster.
type OfficerStore interface {
	Create(ctx context.Context, officer *models.Officer) error
	Get(ctx context.Context, officerID id.OfficerID) (*models.Officer, error)
	List(ctx context.Context) ([]*models.Officer, error)
	Update(ctx context.Context, officer *models.Officer) error
	Delete(ctx context.Context, officerID id.OfficerID) error
}

// SiteStore persists client sites.
type SiteStore interface {
	Create(ctx context.Context, site *models.Site) error
	Get(ctx context.Context, siteID id.SiteID) (*models.Site, error)
	List(ctx context.Context) ([]*models.Site, error)
	Update(ctx context.Context, site *models.Site) error
	Delete(ctx context.Context, siteID id.SiteID) error
}
