package testutil

import (
	"context"
	"time"

	domainPlan "github.com/servicehq/servicehub/internal/domain/plan"
	ierr "github.com/servicehq/servicehub/internal/errors"
	"github.com/servicehq/servicehub/internal/types"
)

// InMemoryPlanStore implements plan.Repository
type InMemoryPlanStore struct {
	*InMemoryStore[*domainPlan.Plan]
}

// NewInMemoryPlanStore creates a new in-memory payment plan store
func NewInMemoryPlanStore() *InMemoryPlanStore {
	return &InMemoryPlanStore{
		InMemoryStore: NewInMemoryStore[*domainPlan.Plan](),
	}
}

func copyPlan(p *domainPlan.Plan) *domainPlan.Plan {
	if p == nil {
		return nil
	}
	copied := *p
	return &copied
}

func (s *InMemoryPlanStore) Create(ctx context.Context, p *domainPlan.Plan) error {
	if p == nil {
		return ierr.NewError("plan cannot be nil").
			WithHint("Plan cannot be nil").
			Mark(ierr.ErrValidation)
	}

	for _, existing := range s.InMemoryStore.List(ctx, nil) {
		if existing.PlanType == p.PlanType && existing.DurationMonths == p.DurationMonths {
			return ierr.NewError("plan already exists").
				WithHint("A plan with this type and duration already exists").
				Mark(ierr.ErrAlreadyExists)
		}
	}

	if err := s.InMemoryStore.Create(ctx, p.ID, copyPlan(p)); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create payment plan").
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryPlanStore) Get(ctx context.Context, id string) (*domainPlan.Plan, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || p.Status != types.StatusPublished {
		return nil, ierr.NewErrorf("payment plan %s not found", id).
			WithHint("The payment plan does not exist").
			Mark(ierr.ErrNotFound)
	}
	return copyPlan(p), nil
}

func (s *InMemoryPlanStore) GetByType(ctx context.Context, planType types.PlanType, durationMonths int) (*domainPlan.Plan, error) {
	for _, p := range s.InMemoryStore.List(ctx, nil) {
		if p.PlanType == planType && p.DurationMonths == durationMonths && p.Status == types.StatusPublished {
			return copyPlan(p), nil
		}
	}
	return nil, ierr.NewErrorf("no %s plan for %d months", planType, durationMonths).
		WithHint("The payment plan does not exist").
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryPlanStore) ListActive(ctx context.Context) ([]*domainPlan.Plan, error) {
	plans := s.InMemoryStore.List(ctx, func(p *domainPlan.Plan) bool {
		return p.IsActive && p.Status == types.StatusPublished
	})
	out := make([]*domainPlan.Plan, 0, len(plans))
	for _, p := range plans {
		out = append(out, copyPlan(p))
	}
	// Cheapest first to match the SQL repository ordering.
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Price.LessThan(out[i].Price) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (s *InMemoryPlanStore) Update(ctx context.Context, p *domainPlan.Plan) error {
	existing, err := s.Get(ctx, p.ID)
	if err != nil {
		return err
	}

	existing.Name = p.Name
	existing.Price = p.Price
	existing.Currency = p.Currency
	existing.IsActive = p.IsActive
	existing.UpdatedAt = time.Now().UTC()
	existing.UpdatedBy = types.GetUserID(ctx)
	return s.InMemoryStore.Update(ctx, p.ID, existing)
}
