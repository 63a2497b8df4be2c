package contract

import (
	"context"
	"sort"
	"sync"

	"talentbridge/marketplace-api/internal/domain"
	domaincontract "talentbridge/marketplace-api/internal/domain/contract"
)

// InMemoryRepository is a thread-safe repository useful for tests.
type InMemoryRepository struct {
	mu        sync.RWMutex
	contracts map[string]domaincontract.Contract
}

var _ domaincontract.Repository = (*InMemoryRepository)(nil)

// NewInMemoryRepository returns an empty repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{contracts: make(map[string]domaincontract.Contract)}
}

func (r *InMemoryRepository) Create(ctx context.Context, c *domaincontract.Contract) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contracts[c.ID] = *c
	return nil
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id string) (*domaincontract.Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.contracts[id]
	if !ok {
		return nil, domaincontract.ErrNotFound
	}
	return &c, nil
}

func (r *InMemoryRepository) ListForUser(ctx context.Context, userID string, role domain.Role) ([]*domaincontract.Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domaincontract.Contract, 0)
	for _, c := range r.contracts {
		side := c.TalentID
		if role == domain.RoleRecruiter {
			side = c.RecruiterID
		}
		if side == userID {
			c := c
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *InMemoryRepository) Transition(ctx context.Context, c *domaincontract.Contract, from domaincontract.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.contracts[c.ID]
	if !ok {
		return domaincontract.ErrNotFound
	}
	if stored.Status != from {
		return domaincontract.ErrStatusChanged
	}
	stored.Status = c.Status
	stored.TalentSignedAt = c.TalentSignedAt
	stored.RecruiterSignedAt = c.RecruiterSignedAt
	stored.UpdatedAt = c.UpdatedAt
	r.contracts[c.ID] = stored
	return nil
}
