package subscription

import (
	"fmt"
	"time"

	"github.com/servicehq/servicehub/internal/domain/tenant"
	"github.com/servicehq/servicehub/internal/types"
)

// AccessStatus is the derived access state of a service center at an instant.
// It is computed fresh on every call and never persisted, so stored status
// can never drift from the actual dates.
type AccessStatus struct {
	CanAccess            bool   `json:"can_access"`
	IsTrialActive        bool   `json:"is_trial_active"`
	IsSubscriptionActive bool   `json:"is_subscription_active"`
	StatusText           string `json:"status_text"`
	DaysRemaining        *int   `json:"days_remaining,omitempty"`
}

const (
	StatusTextDisabled = "Account Disabled"
	StatusTextExpired  = "Subscription Expired"
)

// IsTrialActive reports whether the trial window still grants access.
// Trial expiry is compared at timestamp granularity.
func IsTrialActive(center *tenant.ServiceCenter, now time.Time) bool {
	return !center.TrialEndsAt.IsZero() && now.Before(center.TrialEndsAt)
}

// IsSubscriptionActive reports whether the paid window still grants access.
// Subscription expiry is compared at date granularity: the subscription is
// valid through the entirety of its expiry date. The asymmetry with the
// trial comparison is observed product behavior and must not be "fixed"
// without a product decision.
func IsSubscriptionActive(center *tenant.ServiceCenter, now time.Time) bool {
	if center.SubscriptionValidUntil == nil {
		return false
	}
	return !types.DateOnly(now).After(types.DateOnly(*center.SubscriptionValidUntil))
}

// Evaluate derives the access state of a center at the given instant.
// Pure: no side effects, no I/O, safe for unrestricted concurrent use.
func Evaluate(center *tenant.ServiceCenter, now time.Time) AccessStatus {
	status := AccessStatus{
		IsTrialActive:        IsTrialActive(center, now),
		IsSubscriptionActive: IsSubscriptionActive(center, now),
	}
	status.CanAccess = center.IsEnabled && (status.IsTrialActive || status.IsSubscriptionActive)

	// Days remaining counts toward whichever window currently grants
	// access, preferring the subscription over the trial.
	if status.IsSubscriptionActive {
		days := types.DaysBetween(now, *center.SubscriptionValidUntil)
		status.DaysRemaining = &days
	} else if status.IsTrialActive {
		days := int(center.TrialEndsAt.Sub(now).Hours() / 24)
		status.DaysRemaining = &days
	}

	switch {
	case !center.IsEnabled:
		status.StatusText = StatusTextDisabled
	case status.IsSubscriptionActive:
		status.StatusText = fmt.Sprintf("Active (%d days remaining)", *status.DaysRemaining)
	case status.IsTrialActive:
		status.StatusText = fmt.Sprintf("Trial (%d days remaining)", *status.DaysRemaining)
	default:
		status.StatusText = StatusTextExpired
	}

	return status
}
