// Package officer provides officer roster stores.
package officer

import (
	"context"
	"sync"

	"guardhq/internal/roster/models"
	id "guardhq/pkg/domain"
	dErrors "guardhq/pkg/domain-errors"
)

// InMemoryStore keeps the roster in process memory. Suitable for tests and
// single-instance development; use the PostgreSQL store in production.
type InMemoryStore struct {
	mu       sync.RWMutex
	officers map[id.OfficerID]models.Officer
}

// NewInMemoryStore creates an empty in-memory officer store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{officers: make(map[id.OfficerID]models.Officer)}
}

func (s *InMemoryStore) Create(ctx context.Context, officer *models.Officer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.officers[officer.ID]; exists {
		return dErrors.New(dErrors.CodeConflict, "officer already exists")
	}
	s.officers[officer.ID] = *officer
	return nil
}

func (s *InMemoryStore) Get(ctx context.Context, officerID id.OfficerID) (*models.Officer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	officer, ok := s.officers[officerID]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "officer not found")
	}
	return &officer, nil
}

func (s *InMemoryStore) List(ctx context.Context) ([]*models.Officer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	officers := make([]*models.Officer, 0, len(s.officers))
	for _, officer := range s.officers {
		o := officer
		officers = append(officers, &o)
	}
	return officers, nil
}

func (s *InMemoryStore) Update(ctx context.Context, officer *models.Officer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.officers[officer.ID]; !ok {
		return dErrors.New(dErrors.CodeNotFound, "officer not found")
	}
	s.officers[officer.ID] = *officer
	return nil
}

func (s *InMemoryStore) Delete(ctx context.Context, officerID id.OfficerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.officers[officerID]; !ok {
		return dErrors.New(dErrors.CodeNotFound, "officer not found")
	}
	delete(s.officers, officerID)
	return nil
}
