package dto

import (
	"time"

	"github.com/servicehq/servicehub/internal/domain/subscription"
	"github.com/servicehq/servicehub/internal/types"
)

// DashboardResponse is the read-only status projection for one service
// center. It reflects stored dates plus the derived access state and never
// drives any mutation.
type DashboardResponse struct {
	CenterID   string `json:"center_id"`
	CenterName string `json:"center_name"`
	Email      string `json:"email"`
	LicenseKey string `json:"license_key"`
	IsEnabled  bool   `json:"is_enabled"`

	AccessStatus subscription.AccessStatus `json:"access_status"`

	TrialStartedAt         time.Time  `json:"trial_started_at"`
	TrialEndsAt            time.Time  `json:"trial_ends_at"`
	SubscriptionStartedAt  *time.Time `json:"subscription_started_at,omitempty"`
	SubscriptionValidUntil *time.Time `json:"subscription_valid_until,omitempty"`

	// CurrentEntry is the open history row, when one exists.
	CurrentEntry *SubscriptionHistoryResponse `json:"current_entry,omitempty"`
}

// SubscriptionHistoryResponse wraps a history entry for display
type SubscriptionHistoryResponse struct {
	*subscription.History
}

// AccessCheckResponse is the outcome of an access gate evaluation
type AccessCheckResponse struct {
	Decision types.AccessDecision `json:"decision"`
	Message  string               `json:"message,omitempty"`

	// Status is present for tenant-scoped decisions; nil for the platform
	// admin bypass and for requests with no tenant association.
	Status *subscription.AccessStatus `json:"status,omitempty"`
}
