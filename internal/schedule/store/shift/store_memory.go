// Package shift provides shift stores.
package shift

import (
	"context"
	"sort"
	"sync"

	"guardhq/internal/schedule/models"
	id "guardhq/pkg/domain"
	dErrors "guardhq/pkg/domain-errors"
)

// InMemoryStore keeps shifts in process memory.
type InMemoryStore struct {
	mu     sync.RWMutex
	shifts map[id.ShiftID]models.Shift
}

// NewInMemoryStore creates an empty in-memory shift store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{shifts: make(map[id.ShiftID]models.Shift)}
}

func (s *InMemoryStore) Create(ctx context.Context, shift *models.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.shifts[shift.ID]; exists {
		return dErrors.New(dErrors.CodeConflict, "shift already exists")
	}
	s.shifts[shift.ID] = *shift
	return nil
}

func (s *InMemoryStore) Get(ctx context.Context, shiftID id.ShiftID) (*models.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	shift, ok := s.shifts[shiftID]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "shift not found")
	}
	return &shift, nil
}

func (s *InMemoryStore) List(ctx context.Context) ([]*models.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(models.Shift) bool { return true }), nil
}

func (s *InMemoryStore) ListByOfficer(ctx context.Context, officerID id.OfficerID) ([]*models.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(shift models.Shift) bool { return shift.OfficerID == officerID }), nil
}

// collect returns matching shifts ordered by start time. Must be called
// while holding s.mu.
func (s *InMemoryStore) collect(match func(models.Shift) bool) []*models.Shift {
	shifts := make([]*models.Shift, 0, len(s.shifts))
	for _, shift := range s.shifts {
		if match(shift) {
			sh := shift
			shifts = append(shifts, &sh)
		}
	}
	sort.Slice(shifts, func(i, j int) bool { return shifts[i].StartTime.Before(shifts[j].StartTime) })
	return shifts
}

func (s *InMemoryStore) Update(ctx context.Context, shift *models.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.shifts[shift.ID]; !ok {
		return dErrors.New(dErrors.CodeNotFound, "shift not found")
	}
	s.shifts[shift.ID] = *shift
	return nil
}

func (s *InMemoryStore) Delete(ctx context.Context, shiftID id.ShiftID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.shifts[shiftID]; !ok {
		return dErrors.New(dErrors.CodeNotFound, "shift not found")
	}
	delete(s.shifts, shiftID)
	return nil
}
