package gorm

import (
	"context"
	"time"

	domainPlan "github.com/servicehq/servicehub/internal/domain/plan"
	ierr "github.com/servicehq/servicehub/internal/errors"
	"github.com/servicehq/servicehub/internal/logger"
	"github.com/servicehq/servicehub/internal/postgres"
	"github.com/servicehq/servicehub/internal/types"
)

type planRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

// NewPlanRepository creates a new payment plan repository
func NewPlanRepository(client postgres.IClient, logger *logger.Logger) domainPlan.Repository {
	return &planRepository{
		client: client,
		logger: logger,
	}
}

// Create persists a new payment plan
func (r *planRepository) Create(ctx context.Context, p *domainPlan.Plan) error {
	r.logger.Debugw("creating payment plan", "plan_id", p.ID, "plan_type", p.PlanType)

	span := StartRepositorySpan(ctx, "plan", "create", map[string]interface{}{
		"plan_id":   p.ID,
		"plan_type": p.PlanType,
	})
	defer FinishSpan(span)

	if err := r.client.Querier(ctx).Create(p).Error; err != nil {
		SetSpanError(span, err)
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("A plan with this type and duration already exists").
				WithReportableDetails(map[string]interface{}{
					"plan_type":       p.PlanType,
					"duration_months": p.DurationMonths,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create payment plan").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return nil
}

// Get retrieves a payment plan by id
func (r *planRepository) Get(ctx context.Context, id string) (*domainPlan.Plan, error) {
	span := StartRepositorySpan(ctx, "plan", "get", map[string]interface{}{
		"plan_id": id,
	})
	defer FinishSpan(span)

	var p domainPlan.Plan
	err := r.client.Querier(ctx).
		Where("id = ? AND status = ?", id, types.StatusPublished).
		First(&p).Error
	if err != nil {
		SetSpanError(span, err)
		if isNotFoundErr(err) {
			return nil, ierr.NewErrorf("payment plan %s not found", id).
				WithHint("The payment plan does not exist").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get payment plan").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return &p, nil
}

// GetByType retrieves a plan by its type and duration
func (r *planRepository) GetByType(ctx context.Context, planType types.PlanType, durationMonths int) (*domainPlan.Plan, error) {
	span := StartRepositorySpan(ctx, "plan", "get_by_type", map[string]interface{}{
		"plan_type":       planType,
		"duration_months": durationMonths,
	})
	defer FinishSpan(span)

	var p domainPlan.Plan
	err := r.client.Querier(ctx).
		Where("plan_type = ? AND duration_months = ? AND status = ?",
			planType, durationMonths, types.StatusPublished).
		First(&p).Error
	if err != nil {
		SetSpanError(span, err)
		if isNotFoundErr(err) {
			return nil, ierr.NewErrorf("no %s plan for %d months", planType, durationMonths).
				WithHint("The payment plan does not exist").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get payment plan").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return &p, nil
}

// ListActive returns all purchasable plans, cheapest first
func (r *planRepository) ListActive(ctx context.Context) ([]*domainPlan.Plan, error) {
	span := StartRepositorySpan(ctx, "plan", "list_active", nil)
	defer FinishSpan(span)

	var plans []*domainPlan.Plan
	err := r.client.Querier(ctx).
		Where("is_active = ? AND status = ?", true, types.StatusPublished).
		Order("price ASC").
		Find(&plans).Error
	if err != nil {
		SetSpanError(span, err)
		return nil, ierr.WithError(err).
			WithHint("Failed to list payment plans").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return plans, nil
}

// Update persists mutable fields of an existing plan
func (r *planRepository) Update(ctx context.Context, p *domainPlan.Plan) error {
	r.logger.Debugw("updating payment plan", "plan_id", p.ID)

	span := StartRepositorySpan(ctx, "plan", "update", map[string]interface{}{
		"plan_id": p.ID,
	})
	defer FinishSpan(span)

	result := r.client.Querier(ctx).
		Model(&domainPlan.Plan{}).
		Where("id = ? AND status = ?", p.ID, types.StatusPublished).
		Updates(map[string]interface{}{
			"name":       p.Name,
			"price":      p.Price,
			"currency":   p.Currency,
			"is_active":  p.IsActive,
			"updated_at": time.Now().UTC(),
			"updated_by": types.GetUserID(ctx),
		})
	if result.Error != nil {
		SetSpanError(span, result.Error)
		return ierr.WithError(result.Error).
			WithHint("Failed to update payment plan").
			Mark(ierr.ErrDatabase)
	}
	if result.RowsAffected == 0 {
		err := ierr.NewErrorf("payment plan %s not found", p.ID).
			WithHint("The payment plan does not exist").
			Mark(ierr.ErrNotFound)
		SetSpanError(span, err)
		return err
	}

	SetSpanSuccess(span)
	return nil
}
