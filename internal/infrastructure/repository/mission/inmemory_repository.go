package mission

import (
	"context"
	"sort"
	"sync"
	"time"

	domainmission "talentbridge/marketplace-api/internal/domain/mission"
)

// InMemoryRepository is a thread-safe repository useful for tests.
type InMemoryRepository struct {
	mu       sync.RWMutex
	missions map[string]domainmission.Mission
}

var _ domainmission.Repository = (*InMemoryRepository)(nil)

// NewInMemoryRepository seeds the repository with the given missions.
func NewInMemoryRepository(seed ...domainmission.Mission) *InMemoryRepository {
	repo := &InMemoryRepository{missions: make(map[string]domainmission.Mission, len(seed))}
	for _, m := range seed {
		repo.missions[m.ID] = m
	}
	return repo
}

func (r *InMemoryRepository) Create(ctx context.Context, m *domainmission.Mission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.missions[m.ID] = *m
	return nil
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id string) (*domainmission.Mission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.missions[id]
	if !ok {
		return nil, domainmission.ErrNotFound
	}
	return &m, nil
}

func (r *InMemoryRepository) List(ctx context.Context, filter domainmission.Filter) ([]*domainmission.Mission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domainmission.Mission, 0)
	for _, m := range r.missions {
		if filter.RecruiterID != "" && m.RecruiterID != filter.RecruiterID {
			continue
		}
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}
		m := m
		result = append(result, &m)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id string, from, to domainmission.Status, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.missions[id]
	if !ok {
		return domainmission.ErrNotFound
	}
	if m.Status != from {
		return domainmission.ErrStatusChanged
	}
	m.Status = to
	m.UpdatedAt = at
	r.missions[id] = m
	return nil
}
