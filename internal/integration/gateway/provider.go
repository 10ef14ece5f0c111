package gateway

import (
	"context"

	"github.com/shopspring/decimal"
)

// Order is a payment order opened with the external gateway. OrderRef is the
// gateway-side identifier later echoed back on payment confirmations.
type Order struct {
	OrderRef string
	Amount   decimal.Decimal
	Currency string
}

// Provider abstracts the payment gateway. Implementations translate to a
// concrete provider's API; tests substitute a fake.
type Provider interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal, currency string, receipt string) (*Order, error)
}
