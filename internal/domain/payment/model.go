package payment

import (
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/servicehq/servicehub/internal/errors"
	"github.com/servicehq/servicehub/internal/types"
)

// Transaction records one payment attempt against a plan. It is created
// pending when an order is opened with the gateway and completed exactly once
// when the gateway confirms capture.
type Transaction struct {
	ID              string `json:"id" gorm:"column:id;primaryKey"`
	ServiceCenterID string `json:"service_center_id" gorm:"column:service_center_id"`
	PlanID          string `json:"plan_id" gorm:"column:plan_id"`

	// GatewayOrderRef is the gateway's order identifier. It is unique, and
	// payment confirmations address the transaction through it.
	GatewayOrderRef   string `json:"gateway_order_ref" gorm:"column:gateway_order_ref"`
	GatewayPaymentRef   string `json:"gateway_payment_ref,omitempty" gorm:"column:gateway_payment_ref"`
	GatewaySignatureRef string `json:"gateway_signature_ref,omitempty" gorm:"column:gateway_signature_ref"`

	Amount        decimal.Decimal     `json:"amount" gorm:"column:amount;type:numeric(10,2)"`
	Currency      string              `json:"currency" gorm:"column:currency"`
	PaymentStatus types.PaymentStatus `json:"payment_status" gorm:"column:payment_status"`

	// CompletedAt is set once, together with the pending → completed flip.
	CompletedAt *time.Time `json:"completed_at,omitempty" gorm:"column:completed_at"`

	types.BaseModel
}

func (Transaction) TableName() string {
	return "payment_transactions"
}

func (t *Transaction) Validate() error {
	if t.ServiceCenterID == "" {
		return ierr.NewError("service_center_id is required").
			WithHint("Transaction must belong to a service center").
			Mark(ierr.ErrValidation)
	}
	if t.PlanID == "" {
		return ierr.NewError("plan_id is required").
			WithHint("Transaction must reference a payment plan").
			Mark(ierr.ErrValidation)
	}
	if t.GatewayOrderRef == "" {
		return ierr.NewError("gateway_order_ref is required").
			WithHint("Transaction must carry the gateway order reference").
			Mark(ierr.ErrValidation)
	}
	if t.Amount.IsNegative() {
		return ierr.NewError("amount cannot be negative").
			WithHint("Please provide a non-negative amount").
			Mark(ierr.ErrValidation)
	}
	return t.PaymentStatus.Validate()
}
