// Package availability provides officer availability stores.
package availability

import (
	"context"
	"sort"
	"sync"

	"guardhq/internal/schedule/models"
	id "guardhq/pkg/domain"
	dErrors "guardhq/pkg/domain-errors"
)

type key struct {
	officerID id.OfficerID
	date      string
}

// InMemoryStore keeps availability records in process memory, one per
// (officer, date).
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[key]models.Availability
}

// NewInMemoryStore creates an empty in-memory availability store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[key]models.Availability)}
}

func (s *InMemoryStore) Upsert(ctx context.Context, record *models.Availability) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key{record.OfficerID, record.Date}] = *record
	return nil
}

func (s *InMemoryStore) Get(ctx context.Context, officerID id.OfficerID, date string) (*models.Availability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[key{officerID, date}]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "availability record not found")
	}
	return &record, nil
}

func (s *InMemoryStore) ListByOfficer(ctx context.Context, officerID id.OfficerID) ([]*models.Availability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var records []*models.Availability
	for k, record := range s.records {
		if k.officerID == officerID {
			r := record
			records = append(records, &r)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date < records[j].Date })
	return records, nil
}
