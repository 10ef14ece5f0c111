package subscription

import (
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/servicehq/servicehub/internal/errors"
	"github.com/servicehq/servicehub/internal/types"
)

// History is an append-only audit record of a coverage grant: the initial
// trial or one paid extension. Entries are written once and never mutated,
// except that an open trial entry is marked expired when a paid extension
// supersedes it.
type History struct {
	ID              string `json:"id" gorm:"column:id;primaryKey"`
	ServiceCenterID string `json:"service_center_id" gorm:"column:service_center_id"`

	// PaymentTransactionID is nil for trial entries.
	PaymentTransactionID *string `json:"payment_transaction_id,omitempty" gorm:"column:payment_transaction_id"`

	SubscriptionStatus types.SubscriptionStatus `json:"subscription_status" gorm:"column:subscription_status"`

	StartedAt time.Time `json:"started_at" gorm:"column:started_at"`
	ExpiresAt time.Time `json:"expires_at" gorm:"column:expires_at"`

	// PreviousExpiresAt records the base the extension grew from; nil for
	// the initial trial grant.
	PreviousExpiresAt *time.Time `json:"previous_expires_at,omitempty" gorm:"column:previous_expires_at"`

	AmountPaid  decimal.Decimal `json:"amount_paid" gorm:"column:amount_paid"`
	Currency    string          `json:"currency" gorm:"column:currency"`
	IsExtension bool            `json:"is_extension" gorm:"column:is_extension"`

	types.BaseModel
}

func (History) TableName() string {
	return "subscription_history"
}

func (h *History) Validate() error {
	if h.ServiceCenterID == "" {
		return ierr.NewError("service_center_id is required").
			WithHint("History entry must belong to a service center").
			Mark(ierr.ErrValidation)
	}
	if err := h.SubscriptionStatus.Validate(); err != nil {
		return err
	}
	if h.ExpiresAt.Before(h.StartedAt) {
		return ierr.NewError("expires_at before started_at").
			WithHint("History window is invalid").
			Mark(ierr.ErrValidation)
	}
	return nil
}
