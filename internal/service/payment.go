package service

import (
	"context"

	"github.com/servicehq/servicehub/internal/api/dto"
	"github.com/servicehq/servicehub/internal/domain/payment"
	ierr "github.com/servicehq/servicehub/internal/errors"
	"github.com/servicehq/servicehub/internal/types"
)

// PaymentService opens gateway orders for plan purchases. Confirmation of a
// captured payment belongs to the ledger service.
type PaymentService interface {
	// CreateOrder opens a gateway order for the plan and records a pending
	// transaction
	CreateOrder(ctx context.Context, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error)

	// ListTransactions lists a center's transactions, newest first
	ListTransactions(ctx context.Context, centerID string) ([]*dto.PaymentTransactionResponse, error)
}

type paymentService struct {
	ServiceParams
}

// NewPaymentService creates a new payment service
func NewPaymentService(params ServiceParams) PaymentService {
	return &paymentService{
		ServiceParams: params,
	}
}

func (s *paymentService) CreateOrder(ctx context.Context, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	center, err := s.TenantRepo.Get(ctx, req.ServiceCenterID)
	if err != nil {
		return nil, err
	}

	planRow, err := s.PlanRepo.Get(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}

	if !planRow.IsActive {
		return nil, ierr.NewErrorf("plan %s is not purchasable", planRow.ID).
			WithHint("The selected plan is no longer offered").
			Mark(ierr.ErrInvalidOperation)
	}
	if planRow.PlanType == types.PlanTypeTrial || !planRow.Price.IsPositive() {
		return nil, ierr.NewError("plan has no positive amount to collect").
			WithHint("Only paid plans can be ordered").
			WithReportableDetails(map[string]interface{}{
				"plan_id": planRow.ID,
				"price":   planRow.Price,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	txnID := types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT_TRANSACTION)
	order, err := s.GatewayProvider.CreateOrder(ctx, planRow.Price, planRow.Currency, txnID)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to open a payment order with the gateway").
			Mark(ierr.ErrInternal)
	}

	txn := &payment.Transaction{
		ID:              txnID,
		ServiceCenterID: center.ID,
		PlanID:          planRow.ID,
		GatewayOrderRef: order.OrderRef,
		Amount:          planRow.Price,
		Currency:        planRow.Currency,
		PaymentStatus:   types.PaymentStatusPending,
		BaseModel:       types.GetDefaultBaseModel(types.GetUserID(ctx)),
	}
	if err := txn.Validate(); err != nil {
		return nil, err
	}
	if err := s.PaymentRepo.Create(ctx, txn); err != nil {
		return nil, err
	}

	s.Logger.Infow("payment order created",
		"transaction_id", txn.ID,
		"center_id", center.ID,
		"plan_id", planRow.ID,
		"gateway_order_ref", order.OrderRef,
		"amount", planRow.Price,
	)

	return &dto.CreateOrderResponse{
		TransactionID:   txn.ID,
		GatewayOrderRef: order.OrderRef,
		Amount:          txn.Amount,
		Currency:        txn.Currency,
	}, nil
}

func (s *paymentService) ListTransactions(ctx context.Context, centerID string) ([]*dto.PaymentTransactionResponse, error) {
	if centerID == "" {
		return nil, ierr.NewError("center ID is required").
			WithHint("Center ID is required").
			Mark(ierr.ErrValidation)
	}

	transactions, err := s.PaymentRepo.ListByCenter(ctx, centerID)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.PaymentTransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, &dto.PaymentTransactionResponse{Transaction: t})
	}
	return out, nil
}
