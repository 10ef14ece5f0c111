package tenant

import (
	"time"

	ierr "github.com/servicehq/servicehub/internal/errors"
	"github.com/servicehq/servicehub/internal/types"
)

// ServiceCenter is the billing tenant. All access decisions are derived from
// its stored timestamps; no access state is ever persisted.
type ServiceCenter struct {
	ID         string `json:"id" gorm:"column:id;primaryKey"`
	Name       string `json:"name" gorm:"column:name"`
	Address    string `json:"address" gorm:"column:address"`
	Email      string `json:"email" gorm:"column:email"`
	Phone      string `json:"phone" gorm:"column:phone"`
	LicenseKey string `json:"license_key" gorm:"column:license_key"`

	// IsEnabled is the manual kill-switch. When false it overrides every
	// date-based rule.
	IsEnabled bool `json:"is_enabled" gorm:"column:is_enabled"`

	// TrialStartedAt and TrialEndsAt are set once at registration and never
	// recomputed.
	TrialStartedAt time.Time `json:"trial_started_at" gorm:"column:trial_started_at"`
	TrialEndsAt    time.Time `json:"trial_ends_at" gorm:"column:trial_ends_at"`

	// SubscriptionStartedAt is set on the first paid extension and never
	// overwritten on renewals.
	SubscriptionStartedAt *time.Time `json:"subscription_started_at" gorm:"column:subscription_started_at"`

	// SubscriptionValidUntil is date-granular and monotonically
	// non-decreasing; nil means the center never subscribed.
	SubscriptionValidUntil *time.Time `json:"subscription_valid_until" gorm:"column:subscription_valid_until"`

	types.BaseModel
}

func (ServiceCenter) TableName() string {
	return "service_centers"
}

func (c *ServiceCenter) Validate() error {
	if c.Name == "" {
		return ierr.NewError("name is required").
			WithHint("Service center name is required").
			Mark(ierr.ErrValidation)
	}
	if c.Email == "" {
		return ierr.NewError("email is required").
			WithHint("Service center email is required").
			Mark(ierr.ErrValidation)
	}
	if c.TrialEndsAt.Before(c.TrialStartedAt) {
		return ierr.NewError("trial_ends_at before trial_started_at").
			WithHint("Trial window is invalid").
			Mark(ierr.ErrValidation)
	}
	return nil
}
