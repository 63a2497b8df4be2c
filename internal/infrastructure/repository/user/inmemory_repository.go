package user

import (
	"context"
	"sync"

	domainuser "talentbridge/marketplace-api/internal/domain/user"
)

// InMemoryRepository is a thread-safe repository useful for demos/tests.
type InMemoryRepository struct {
	mu       sync.RWMutex
	profiles map[string]domainuser.Profile
}

var _ domainuser.Repository = (*InMemoryRepository)(nil)

// NewInMemoryRepository seeds the repository with the given profiles.
func NewInMemoryRepository(seed ...domainuser.Profile) *InMemoryRepository {
	repo := &InMemoryRepository{profiles: make(map[string]domainuser.Profile, len(seed))}
	for _, profile := range seed {
		repo.profiles[profile.ID] = profile
	}
	return repo
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id string) (*domainuser.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[id]
	if !ok {
		return nil, domainuser.ErrNotFound
	}
	return &profile, nil
}

func (r *InMemoryRepository) CreateIfAbsent(ctx context.Context, profile *domainuser.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[profile.ID]; !ok {
		r.profiles[profile.ID] = *profile
	}
	return nil
}

func (r *InMemoryRepository) Update(ctx context.Context, profile *domainuser.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[profile.ID]; !ok {
		return domainuser.ErrNotFound
	}
	r.profiles[profile.ID] = *profile
	return nil
}
