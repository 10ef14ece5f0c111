package types

import (
	"github.com/samber/lo"

	ierr "github.com/servicehq/servicehub/internal/errors"
)

// SubscriptionStatus is the state of a subscription history entry.
type SubscriptionStatus string

const (
	SubscriptionStatusTrial     SubscriptionStatus = "trial"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

func (s SubscriptionStatus) Validate() error {
	allowed := []SubscriptionStatus{
		SubscriptionStatusTrial,
		SubscriptionStatusActive,
		SubscriptionStatusExpired,
		SubscriptionStatusCancelled,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewErrorf("invalid subscription status: %s", s).
			WithHint("Please provide a valid subscription status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PlanType distinguishes the free trial plan from paid extension plans.
type PlanType string

const (
	PlanTypeTrial  PlanType = "trial"
	PlanTypeYearly PlanType = "yearly"
)

func (t PlanType) Validate() error {
	allowed := []PlanType{PlanTypeTrial, PlanTypeYearly}
	if !lo.Contains(allowed, t) {
		return ierr.NewErrorf("invalid plan type: %s", t).
			WithHint("Please provide a valid plan type").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
