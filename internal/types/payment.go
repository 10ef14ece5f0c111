package types

import (
	"github.com/samber/lo"

	ierr "github.com/servicehq/servicehub/internal/errors"
)

// PaymentStatus is the lifecycle state of a payment transaction.
// A transaction moves pending → completed at most once; completed, failed,
// refunded and cancelled are terminal.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

func (s PaymentStatus) Validate() error {
	allowed := []PaymentStatus{
		PaymentStatusPending,
		PaymentStatusCompleted,
		PaymentStatusFailed,
		PaymentStatusRefunded,
		PaymentStatusCancelled,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewErrorf("invalid payment status: %s", s).
			WithHint("Please provide a valid payment status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsTerminal reports whether the status can never change again.
func (s PaymentStatus) IsTerminal() bool {
	return s != PaymentStatusPending
}

// CurrencyINR is the only settlement currency supported today. It is stored
// per plan and per transaction so additional currencies stay a data change.
const CurrencyINR = "INR"
