package service

import (
	"context"
	"time"

	"github.com/servicehq/servicehub/internal/api/dto"
	"github.com/servicehq/servicehub/internal/domain/subscription"
	ierr "github.com/servicehq/servicehub/internal/errors"
	"github.com/servicehq/servicehub/internal/types"
)

// LedgerService owns the money-touching path: confirming captured payments
// and turning them into subscription extensions.
type LedgerService interface {
	// ConfirmPayment applies a captured payment exactly once. Duplicate
	// confirmations for the same gateway order return ErrAlreadyProcessed
	// and leave all state untouched.
	ConfirmPayment(ctx context.Context, req *dto.ConfirmPaymentRequest) (*dto.ConfirmPaymentResponse, error)

	// GetHistory lists a center's subscription history, newest first
	GetHistory(ctx context.Context, centerID string) ([]*dto.SubscriptionHistoryResponse, error)
}

type ledgerService struct {
	ServiceParams
}

// NewLedgerService creates a new subscription ledger service
func NewLedgerService(params ServiceParams) LedgerService {
	return &ledgerService{
		ServiceParams: params,
	}
}

func (s *ledgerService) ConfirmPayment(ctx context.Context, req *dto.ConfirmPaymentRequest) (*dto.ConfirmPaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	txn, err := s.PaymentRepo.GetByGatewayOrderRef(ctx, req.GatewayOrderRef)
	if err != nil {
		if ierr.IsNotFound(err) {
			// An unknown order and a replayed one are indistinguishable
			// to the caller; both are a non-retryable rejection.
			return nil, ierr.WithError(err).
				WithHint("No pending payment matches this gateway order").
				Mark(ierr.ErrAlreadyProcessed)
		}
		return nil, err
	}

	// Fast path; the CAS inside the transaction remains authoritative.
	if txn.PaymentStatus.IsTerminal() {
		return nil, ierr.NewErrorf("transaction %s is already %s", txn.ID, txn.PaymentStatus).
			WithHint("This payment was already processed").
			Mark(ierr.ErrAlreadyProcessed)
	}

	planRow, err := s.PlanRepo.Get(ctx, txn.PlanID)
	if err != nil {
		return nil, err
	}

	now := time.Now().In(s.Config.BusinessLocation())
	var resp *dto.ConfirmPaymentResponse

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		// Serialize confirmations of the same transaction. The status CAS
		// below is the correctness backstop; the lock keeps a retried
		// webhook from burning a transaction on a serialization error.
		lockKey := types.GenerateLockKey(types.LockScopePaymentTransaction, map[string]interface{}{
			"transaction_id": txn.ID,
		})
		if err := s.DB.LockKey(ctx, types.LockRequest{Key: lockKey}); err != nil {
			return err
		}

		if err := s.PaymentRepo.CompletePending(ctx, txn.ID, req.GatewayPaymentRef, req.GatewaySignatureRef, now); err != nil {
			return err
		}

		center, err := s.TenantRepo.Get(ctx, txn.ServiceCenterID)
		if err != nil {
			return err
		}

		ext, err := subscription.ComputeExtension(center, now, planRow.DurationMonths)
		if err != nil {
			return err
		}

		startedAt := now
		if center.SubscriptionStartedAt != nil {
			startedAt = *center.SubscriptionStartedAt
		}
		if err := s.TenantRepo.UpdateSubscription(ctx, center.ID, startedAt, ext.NewExpiry); err != nil {
			return err
		}

		// The trial entry, if still open, has been consumed by the
		// carry-over and must not linger as current.
		if err := s.SubscriptionRepo.MarkTrialSuperseded(ctx, center.ID); err != nil {
			return err
		}

		entry := &subscription.History{
			ID:                   types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION_HISTORY),
			ServiceCenterID:      center.ID,
			PaymentTransactionID: &txn.ID,
			SubscriptionStatus:   types.SubscriptionStatusActive,
			StartedAt:            now,
			ExpiresAt:            ext.NewExpiry,
			PreviousExpiresAt:    &ext.Base,
			AmountPaid:           txn.Amount,
			Currency:             txn.Currency,
			IsExtension:          true,
			BaseModel:            types.GetDefaultBaseModel(types.GetUserID(ctx)),
		}
		if err := s.SubscriptionRepo.Create(ctx, entry); err != nil {
			return err
		}

		resp = &dto.ConfirmPaymentResponse{
			TransactionID:  txn.ID,
			HistoryEntryID: entry.ID,
			PreviousExpiry: ext.Base,
			NewExpiry:      ext.NewExpiry,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("payment confirmed and subscription extended",
		"transaction_id", txn.ID,
		"center_id", txn.ServiceCenterID,
		"months", planRow.DurationMonths,
		"new_expiry", resp.NewExpiry,
	)

	return resp, nil
}

func (s *ledgerService) GetHistory(ctx context.Context, centerID string) ([]*dto.SubscriptionHistoryResponse, error) {
	if centerID == "" {
		return nil, ierr.NewError("center ID is required").
			WithHint("Center ID is required").
			Mark(ierr.ErrValidation)
	}

	entries, err := s.SubscriptionRepo.ListByCenter(ctx, centerID)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.SubscriptionHistoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, &dto.SubscriptionHistoryResponse{History: e})
	}
	return out, nil
}
