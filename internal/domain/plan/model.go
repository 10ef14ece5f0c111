package plan

import (
	"github.com/shopspring/decimal"

	ierr "github.com/servicehq/servicehub/internal/errors"
	"github.com/servicehq/servicehub/internal/types"
)

// Plan is a purchasable subscription term. The trial plan has zero price and
// zero duration months; its window length is governed by configuration at
// registration time, not by the plan row.
type Plan struct {
	ID             string          `json:"id" gorm:"column:id;primaryKey"`
	Name           string          `json:"name" gorm:"column:name"`
	PlanType       types.PlanType  `json:"plan_type" gorm:"column:plan_type"`
	DurationMonths int             `json:"duration_months" gorm:"column:duration_months"`
	Price          decimal.Decimal `json:"price" gorm:"column:price;type:numeric(10,2)"`
	Currency       string          `json:"currency" gorm:"column:currency"`
	Description    string          `json:"description" gorm:"column:description"`
	IsActive       bool            `json:"is_active" gorm:"column:is_active"`

	types.BaseModel
}

func (Plan) TableName() string {
	return "payment_plans"
}

func (p *Plan) Validate() error {
	if p.Name == "" {
		return ierr.NewError("name is required").
			WithHint("Please provide a plan name").
			Mark(ierr.ErrValidation)
	}
	if err := p.PlanType.Validate(); err != nil {
		return err
	}
	if p.DurationMonths < 0 {
		return ierr.NewError("duration_months cannot be negative").
			WithHint("Please provide a non-negative duration").
			Mark(ierr.ErrValidation)
	}
	if p.Price.IsNegative() {
		return ierr.NewError("price cannot be negative").
			WithHint("Please provide a non-negative price").
			Mark(ierr.ErrValidation)
	}
	if p.PlanType == types.PlanTypeTrial && !p.Price.IsZero() {
		return ierr.NewError("trial plan must be free").
			WithHint("Trial plans cannot carry a price").
			Mark(ierr.ErrValidation)
	}
	return nil
}
