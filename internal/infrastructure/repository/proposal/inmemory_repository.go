package proposal

import (
	"context"
	"sort"
	"sync"
	"time"

	domainproposal "talentbridge/marketplace-api/internal/domain/proposal"
)

// InMemoryRepository is a thread-safe repository useful for tests.
type InMemoryRepository struct {
	mu        sync.RWMutex
	proposals map[string]domainproposal.Proposal
}

var _ domainproposal.Repository = (*InMemoryRepository)(nil)

// NewInMemoryRepository returns an empty repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{proposals: make(map[string]domainproposal.Proposal)}
}

func (r *InMemoryRepository) Create(ctx context.Context, p *domainproposal.Proposal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.proposals {
		if existing.MissionID == p.MissionID && existing.TalentID == p.TalentID && existing.Status == domainproposal.StatusPending {
			return domainproposal.ErrDuplicate
		}
	}
	r.proposals[p.ID] = *p
	return nil
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id string) (*domainproposal.Proposal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.proposals[id]
	if !ok {
		return nil, domainproposal.ErrNotFound
	}
	return &p, nil
}

func (r *InMemoryRepository) ListByMission(ctx context.Context, missionID string) ([]*domainproposal.Proposal, error) {
	result := r.filter(func(p domainproposal.Proposal) bool { return p.MissionID == missionID })
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (r *InMemoryRepository) ListByTalent(ctx context.Context, talentID string) ([]*domainproposal.Proposal, error) {
	result := r.filter(func(p domainproposal.Proposal) bool { return p.TalentID == talentID })
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *InMemoryRepository) Transition(ctx context.Context, id string, to domainproposal.Status, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.proposals[id]
	if !ok {
		return domainproposal.ErrNotFound
	}
	if p.Status != domainproposal.StatusPending {
		return domainproposal.ErrStatusChanged
	}
	p.Status = to
	p.UpdatedAt = at
	r.proposals[id] = p
	return nil
}

func (r *InMemoryRepository) filter(match func(p domainproposal.Proposal) bool) []*domainproposal.Proposal {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domainproposal.Proposal, 0)
	for _, p := range r.proposals {
		if match(p) {
			p := p
			result = append(result, &p)
		}
	}
	return result
}
