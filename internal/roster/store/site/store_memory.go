// Package site provides client site stores.
package site

import (
	"context"
	"sync"

	"guardhq/internal/roster/models"
	id "guardhq/pkg/domain"
	dErrors "guardhq/pkg/domain-errors"
)

// InMemoryStore keeps sites in process memory.
type InMemoryStore struct {
	mu    sync.RWMutex
	sites map[id.SiteID]models.Site
}

// NewInMemoryStore creates an empty in-memory site store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sites: make(map[id.SiteID]models.Site)}
}

func (s *InMemoryStore) Create(ctx context.Context, site *models.Site) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sites[site.ID]; exists {
		return dErrors.New(dErrors.CodeConflict, "site already exists")
	}
	s.sites[site.ID] = *site
	return nil
}

func (s *InMemoryStore) Get(ctx context.Context, siteID id.SiteID) (*models.Site, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	site, ok := s.sites[siteID]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "site not found")
	}
	return &site, nil
}

func (s *InMemoryStore) List(ctx context.Context) ([]*models.Site, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sites := make([]*models.Site, 0, len(s.sites))
	for _, site := range s.sites {
		st := site
		sites = append(sites, &st)
	}
	return sites, nil
}

func (s *InMemoryStore) Update(ctx context.Context, site *models.Site) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sites[site.ID]; !ok {
		return dErrors.New(dErrors.CodeNotFound, "site not found")
	}
	s.sites[site.ID] = *site
	return nil
}

func (s *InMemoryStore) Delete(ctx context.Context, siteID id.SiteID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sites[siteID]; !ok {
		return dErrors.New(dErrors.CodeNotFound, "site not found")
	}
	delete(s.sites, siteID)
	return nil
}
