// Package service orchestrates roster management for officers and sites.
package service

import (
	"context"
	"log/slog"

	"guardhq/internal/roster/models"
	"guardhq/internal/roster/ports"
	id "guardhq/pkg/domain"
	dErrors "guardhq/pkg/domain-errors"
)

// Service manages the officer roster and the client sites.
type Service struct {
	officers ports.OfficerStore
	sites    ports.SiteStore
	logger   *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New constructs a Service.
func New(officers ports.OfficerStore, sites ports.SiteStore, opts ...Option) *Service {
	s := &Service{officers: officers, sites: sites, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) CreateOfficer(ctx context.Context, officer *models.Officer) (*models.Officer, error) {
	if officer.ID.IsNil() {
		officer.ID = id.NewOfficerID()
	}
	if officer.EmploymentStatus == "" {
		officer.EmploymentStatus = models.EmploymentActive
	}
	if err := officer.Validate(); err != nil {
		return nil, err
	}
	if err := s.officers.Create(ctx, officer); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "officer created", "officer_id", officer.ID.String())
	return officer, nil
}

func (s *Service) GetOfficer(ctx context.Context, officerID id.OfficerID) (*models.Officer, error) {
	return s.officers.Get(ctx, officerID)
}

func (s *Service) ListOfficers(ctx context.Context) ([]*models.Officer, error) {
	return s.officers.List(ctx)
}

func (s *Service) UpdateOfficer(ctx context.Context, officer *models.Officer) (*models.Officer, error) {
	if officer.EmploymentStatus == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "employment_status is required")
	}
	if err := officer.Validate(); err != nil {
		return nil, err
	}
	if err := s.officers.Update(ctx, officer); err != nil {
		return nil, err
	}
	return officer, nil
}

func (s *Service) DeleteOfficer(ctx context.Context, officerID id.OfficerID) error {
	if err := s.officers.Delete(ctx, officerID); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "officer deleted", "officer_id", officerID.String())
	return nil
}

func (s *Service) CreateSite(ctx context.Context, site *models.Site) (*models.Site, error) {
	if site.ID.IsNil() {
		site.ID = id.NewSiteID()
	}
	if err := site.Validate(); err != nil {
		return nil, err
	}
	if err := s.sites.Create(ctx, site); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "site created", "site_id", site.ID.String())
	return site, nil
}

func (s *Service) GetSite(ctx context.Context, siteID id.SiteID) (*models.Site, error) {
	return s.sites.Get(ctx, siteID)
}

func (s *Service) ListSites(ctx context.Context) ([]*models.Site, error) {
	return s.sites.List(ctx)
}

func (s *Service) UpdateSite(ctx context.Context, site *models.Site) (*models.Site, error) {
	if err := site.Validate(); err != nil {
		return nil, err
	}
	if err := s.sites.Update(ctx, site); err != nil {
		return nil, err
	}
	return site, nil
}

func (s *Service) DeleteSite(ctx context.Context, siteID id.SiteID) error {
	return s.sites.Delete(ctx, siteID)
}
