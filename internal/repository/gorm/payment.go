package gorm

import (
	"context"
	"time"

	domainPayment "github.com/servicehq/servicehub/internal/domain/payment"
	ierr "github.com/servicehq/servicehub/internal/errors"
	"github.com/servicehq/servicehub/internal/logger"
	"github.com/servicehq/servicehub/internal/postgres"
	"github.com/servicehq/servicehub/internal/types"
)

type paymentRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

// NewPaymentRepository creates a new payment transaction repository
func NewPaymentRepository(client postgres.IClient, logger *logger.Logger) domainPayment.Repository {
	return &paymentRepository{
		client: client,
		logger: logger,
	}
}

// Create persists a new payment transaction
func (r *paymentRepository) Create(ctx context.Context, t *domainPayment.Transaction) error {
	r.logger.Debugw("creating payment transaction",
		"transaction_id", t.ID,
		"center_id", t.ServiceCenterID,
		"gateway_order_ref", t.GatewayOrderRef,
	)

	span := StartRepositorySpan(ctx, "payment", "create", map[string]interface{}{
		"transaction_id": t.ID,
		"center_id":      t.ServiceCenterID,
	})
	defer FinishSpan(span)

	if err := r.client.Querier(ctx).Create(t).Error; err != nil {
		SetSpanError(span, err)
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("A transaction for this gateway order already exists").
				WithReportableDetails(map[string]interface{}{
					"gateway_order_ref": t.GatewayOrderRef,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		if isForeignKeyViolation(err) {
			return ierr.WithError(err).
				WithHint("The referenced service center or plan does not exist").
				Mark(ierr.ErrNotFound)
		}
		return ierr.WithError(err).
			WithHint("Failed to create payment transaction").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return nil
}

// Get retrieves a payment transaction by id
func (r *paymentRepository) Get(ctx context.Context, id string) (*domainPayment.Transaction, error) {
	span := StartRepositorySpan(ctx, "payment", "get", map[string]interface{}{
		"transaction_id": id,
	})
	defer FinishSpan(span)

	var t domainPayment.Transaction
	err := r.client.Querier(ctx).
		Where("id = ? AND status = ?", id, types.StatusPublished).
		First(&t).Error
	if err != nil {
		SetSpanError(span, err)
		if isNotFoundErr(err) {
			return nil, ierr.NewErrorf("payment transaction %s not found", id).
				WithHint("The payment transaction does not exist").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get payment transaction").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return &t, nil
}

// GetByGatewayOrderRef retrieves a payment transaction by its gateway order
func (r *paymentRepository) GetByGatewayOrderRef(ctx context.Context, orderRef string) (*domainPayment.Transaction, error) {
	span := StartRepositorySpan(ctx, "payment", "get_by_gateway_order_ref", map[string]interface{}{
		"gateway_order_ref": orderRef,
	})
	defer FinishSpan(span)

	var t domainPayment.Transaction
	err := r.client.Querier(ctx).
		Where("gateway_order_ref = ? AND status = ?", orderRef, types.StatusPublished).
		First(&t).Error
	if err != nil {
		SetSpanError(span, err)
		if isNotFoundErr(err) {
			return nil, ierr.NewErrorf("no transaction for gateway order %s", orderRef).
				WithHint("No payment transaction matches this gateway order").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get payment transaction by gateway order").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return &t, nil
}

// ListByCenter returns a center's transactions, newest first
func (r *paymentRepository) ListByCenter(ctx context.Context, centerID string) ([]*domainPayment.Transaction, error) {
	span := StartRepositorySpan(ctx, "payment", "list_by_center", map[string]interface{}{
		"center_id": centerID,
	})
	defer FinishSpan(span)

	var transactions []*domainPayment.Transaction
	err := r.client.Querier(ctx).
		Where("service_center_id = ? AND status = ?", centerID, types.StatusPublished).
		Order("created_at DESC").
		Find(&transactions).Error
	if err != nil {
		SetSpanError(span, err)
		return nil, ierr.WithError(err).
			WithHint("Failed to list payment transactions").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return transactions, nil
}

// CompletePending flips the transaction from pending to completed. The status
// predicate makes the flip a compare-and-set: exactly one caller wins, every
// later caller observes zero affected rows.
func (r *paymentRepository) CompletePending(ctx context.Context, id string, paymentRef, signatureRef string, completedAt time.Time) error {
	r.logger.Debugw("completing payment transaction", "transaction_id", id)

	span := StartRepositorySpan(ctx, "payment", "complete_pending", map[string]interface{}{
		"transaction_id": id,
	})
	defer FinishSpan(span)

	result := r.client.Querier(ctx).
		Model(&domainPayment.Transaction{}).
		Where("id = ? AND payment_status = ? AND status = ?", id, types.PaymentStatusPending, types.StatusPublished).
		Updates(map[string]interface{}{
			"payment_status":        types.PaymentStatusCompleted,
			"gateway_payment_ref":   paymentRef,
			"gateway_signature_ref": signatureRef,
			"completed_at":          completedAt,
			"updated_at":            time.Now().UTC(),
			"updated_by":            types.GetUserID(ctx),
		})
	if result.Error != nil {
		SetSpanError(span, result.Error)
		return ierr.WithError(result.Error).
			WithHint("Failed to complete payment transaction").
			Mark(ierr.ErrDatabase)
	}
	if result.RowsAffected == 0 {
		existing, err := r.Get(ctx, id)
		if err != nil {
			SetSpanError(span, err)
			return err
		}
		err = ierr.NewErrorf("transaction %s is already %s", id, existing.PaymentStatus).
			WithHint("This payment was already processed").
			WithReportableDetails(map[string]interface{}{
				"transaction_id": id,
				"payment_status": existing.PaymentStatus,
			}).
			Mark(ierr.ErrAlreadyProcessed)
		SetSpanError(span, err)
		return err
	}

	SetSpanSuccess(span)
	return nil
}
