package dto

import (
	"context"

	"github.com/shopspring/decimal"

	domainPlan "github.com/servicehq/servicehub/internal/domain/plan"
	"github.com/servicehq/servicehub/internal/types"
	"github.com/servicehq/servicehub/internal/validator"
)

// CreatePlanRequest represents the request to create a payment plan
type CreatePlanRequest struct {
	Name           string          `json:"name" validate:"required,max=100"`
	PlanType       types.PlanType  `json:"plan_type" validate:"required"`
	DurationMonths int             `json:"duration_months" validate:"min=0"`
	Price          decimal.Decimal `json:"price"`
	Currency       string          `json:"currency" validate:"omitempty,len=3"`
	Description    string          `json:"description"`
}

func (r *CreatePlanRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.PlanType.Validate()
}

func (r *CreatePlanRequest) ToPlan(ctx context.Context) *domainPlan.Plan {
	currency := r.Currency
	if currency == "" {
		currency = types.CurrencyINR
	}
	return &domainPlan.Plan{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT_PLAN),
		Name:           r.Name,
		PlanType:       r.PlanType,
		DurationMonths: r.DurationMonths,
		Price:          r.Price,
		Currency:       currency,
		Description:    r.Description,
		IsActive:       true,
		BaseModel:      types.GetDefaultBaseModel(types.GetUserID(ctx)),
	}
}

// PlanResponse wraps a plan for display
type PlanResponse struct {
	*domainPlan.Plan
}

// ListPlansResponse is the active-plan listing
type ListPlansResponse struct {
	Plans []*PlanResponse `json:"plans"`
	Total int             `json:"total"`
}
