package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/servicehq/servicehub/internal/api/dto"
	"github.com/servicehq/servicehub/internal/cache"
	domainPlan "github.com/servicehq/servicehub/internal/domain/plan"
	ierr "github.com/servicehq/servicehub/internal/errors"
	"github.com/servicehq/servicehub/internal/types"
)

const cacheKeyActivePlans = "plans:active"

// PlanService manages the payment plan catalog
type PlanService interface {
	// CreatePlan creates a payment plan
	CreatePlan(ctx context.Context, req *dto.CreatePlanRequest) (*dto.PlanResponse, error)

	// GetPlan retrieves a plan by id
	GetPlan(ctx context.Context, id string) (*dto.PlanResponse, error)

	// ListActivePlans lists purchasable plans, cheapest first. Results are
	// cached; plan writes invalidate.
	ListActivePlans(ctx context.Context) (*dto.ListPlansResponse, error)

	// SeedDefaultPlans creates the stock trial and yearly plans when
	// missing. Safe to run on every boot.
	SeedDefaultPlans(ctx context.Context) error
}

type planService struct {
	ServiceParams
}

// NewPlanService creates a new plan service
func NewPlanService(params ServiceParams) PlanService {
	return &planService{
		ServiceParams: params,
	}
}

func (s *planService) CreatePlan(ctx context.Context, req *dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	planRow := req.ToPlan(ctx)
	if err := planRow.Validate(); err != nil {
		return nil, err
	}

	if err := s.PlanRepo.Create(ctx, planRow); err != nil {
		return nil, err
	}

	s.Cache.Delete(ctx, cacheKeyActivePlans)
	s.Logger.Infow("created payment plan",
		"plan_id", planRow.ID,
		"plan_type", planRow.PlanType,
		"price", planRow.Price,
	)

	return &dto.PlanResponse{Plan: planRow}, nil
}

func (s *planService) GetPlan(ctx context.Context, id string) (*dto.PlanResponse, error) {
	if id == "" {
		return nil, ierr.NewError("plan ID is required").
			WithHint("Plan ID is required").
			Mark(ierr.ErrValidation)
	}

	planRow, err := s.PlanRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.PlanResponse{Plan: planRow}, nil
}

func (s *planService) ListActivePlans(ctx context.Context) (*dto.ListPlansResponse, error) {
	if value, found := s.Cache.Get(ctx, cacheKeyActivePlans); found {
		if cached, ok := cache.UnmarshalCacheValue[dto.ListPlansResponse](value); ok {
			return cached, nil
		}
	}

	plans, err := s.PlanRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListPlansResponse{
		Plans: make([]*dto.PlanResponse, 0, len(plans)),
		Total: len(plans),
	}
	for _, p := range plans {
		resp.Plans = append(resp.Plans, &dto.PlanResponse{Plan: p})
	}

	s.Cache.Set(ctx, cacheKeyActivePlans, resp, cache.ExpiryDefaultInMemory)
	return resp, nil
}

// SeedDefaultPlans creates the trial and yearly stock plans. Creations key on
// (plan_type, duration_months), so reruns are no-ops.
func (s *planService) SeedDefaultPlans(ctx context.Context) error {
	defaults := []*domainPlan.Plan{
		{
			ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT_PLAN),
			Name:           "Free Trial",
			PlanType:       types.PlanTypeTrial,
			DurationMonths: 0,
			Price:          decimal.Zero,
			Currency:       s.Config.Billing.Currency,
			Description:    "Evaluation access granted at registration",
			IsActive:       true,
			BaseModel:      types.GetDefaultBaseModel(types.GetUserID(ctx)),
		},
		{
			ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT_PLAN),
			Name:           "Yearly",
			PlanType:       types.PlanTypeYearly,
			DurationMonths: s.Config.Billing.DefaultTermMonths,
			Price:          s.Config.Billing.YearlyPrice,
			Currency:       s.Config.Billing.Currency,
			Description:    "Full access, renews the subscription window",
			IsActive:       true,
			BaseModel:      types.GetDefaultBaseModel(types.GetUserID(ctx)),
		},
	}

	for _, p := range defaults {
		if _, err := s.PlanRepo.GetByType(ctx, p.PlanType, p.DurationMonths); err == nil {
			continue
		} else if !ierr.IsNotFound(err) {
			return err
		}

		if err := s.PlanRepo.Create(ctx, p); err != nil {
			// A concurrent seeder may have won the race.
			if ierr.IsAlreadyExists(err) {
				continue
			}
			return err
		}
		s.Logger.Infow("seeded payment plan", "name", p.Name, "plan_type", p.PlanType)
	}

	s.Cache.Delete(ctx, cacheKeyActivePlans)
	return nil
}
