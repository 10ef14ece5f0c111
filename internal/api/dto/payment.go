package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/servicehq/servicehub/internal/domain/payment"
	"github.com/servicehq/servicehub/internal/validator"
)

// CreateOrderRequest opens a gateway order for a plan purchase
type CreateOrderRequest struct {
	ServiceCenterID string `json:"service_center_id" validate:"required"`
	PlanID          string `json:"plan_id" validate:"required"`
}

func (r *CreateOrderRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// CreateOrderResponse carries what the client needs to take the order to
// checkout
type CreateOrderResponse struct {
	TransactionID   string          `json:"transaction_id"`
	GatewayOrderRef string          `json:"gateway_order_ref"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
}

// ConfirmPaymentRequest acknowledges a captured payment. The references come
// from the gateway callback; signature verification happens upstream.
type ConfirmPaymentRequest struct {
	GatewayOrderRef     string `json:"gateway_order_ref" validate:"required"`
	GatewayPaymentRef   string `json:"gateway_payment_ref" validate:"required"`
	GatewaySignatureRef string `json:"gateway_signature_ref"`
}

func (r *ConfirmPaymentRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ConfirmPaymentResponse reports the subscription window after the extension
type ConfirmPaymentResponse struct {
	TransactionID  string    `json:"transaction_id"`
	HistoryEntryID string    `json:"history_entry_id"`
	PreviousExpiry time.Time `json:"previous_expiry"`
	NewExpiry      time.Time `json:"new_expiry"`
}

// PaymentTransactionResponse wraps a transaction for display
type PaymentTransactionResponse struct {
	*payment.Transaction
}
