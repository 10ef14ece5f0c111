package testutil

import (
	"context"
	"time"

	"github.com/servicehq/servicehub/internal/domain/payment"
	ierr "github.com/servicehq/servicehub/internal/errors"
	"github.com/servicehq/servicehub/internal/types"
)

// InMemoryPaymentStore implements payment.Repository
type InMemoryPaymentStore struct {
	*InMemoryStore[*payment.Transaction]
}

// NewInMemoryPaymentStore creates a new in-memory payment transaction store
func NewInMemoryPaymentStore() *InMemoryPaymentStore {
	return &InMemoryPaymentStore{
		InMemoryStore: NewInMemoryStore[*payment.Transaction](),
	}
}

func copyTransaction(t *payment.Transaction) *payment.Transaction {
	if t == nil {
		return nil
	}
	copied := *t
	if t.CompletedAt != nil {
		v := *t.CompletedAt
		copied.CompletedAt = &v
	}
	return &copied
}

func (s *InMemoryPaymentStore) Create(ctx context.Context, t *payment.Transaction) error {
	if t == nil {
		return ierr.NewError("transaction cannot be nil").
			WithHint("Transaction cannot be nil").
			Mark(ierr.ErrValidation)
	}

	for _, existing := range s.InMemoryStore.List(ctx, nil) {
		if existing.GatewayOrderRef == t.GatewayOrderRef {
			return ierr.NewError("transaction already exists").
				WithHint("A transaction for this gateway order already exists").
				Mark(ierr.ErrAlreadyExists)
		}
	}

	if err := s.InMemoryStore.Create(ctx, t.ID, copyTransaction(t)); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create payment transaction").
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryPaymentStore) Get(ctx context.Context, id string) (*payment.Transaction, error) {
	t, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || t.Status != types.StatusPublished {
		return nil, ierr.NewErrorf("payment transaction %s not found", id).
			WithHint("The payment transaction does not exist").
			Mark(ierr.ErrNotFound)
	}
	return copyTransaction(t), nil
}

func (s *InMemoryPaymentStore) GetByGatewayOrderRef(ctx context.Context, orderRef string) (*payment.Transaction, error) {
	for _, t := range s.InMemoryStore.List(ctx, nil) {
		if t.GatewayOrderRef == orderRef && t.Status == types.StatusPublished {
			return copyTransaction(t), nil
		}
	}
	return nil, ierr.NewErrorf("no transaction for gateway order %s", orderRef).
		WithHint("No payment transaction matches this gateway order").
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryPaymentStore) ListByCenter(ctx context.Context, centerID string) ([]*payment.Transaction, error) {
	transactions := s.InMemoryStore.List(ctx, func(t *payment.Transaction) bool {
		return t.ServiceCenterID == centerID && t.Status == types.StatusPublished
	})
	out := make([]*payment.Transaction, 0, len(transactions))
	// Newest first to match the SQL repository ordering.
	for i := len(transactions) - 1; i >= 0; i-- {
		out = append(out, copyTransaction(transactions[i]))
	}
	return out, nil
}

func (s *InMemoryPaymentStore) CompletePending(ctx context.Context, id string, paymentRef, signatureRef string, completedAt time.Time) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if existing.PaymentStatus != types.PaymentStatusPending {
		return ierr.NewErrorf("transaction %s is already %s", id, existing.PaymentStatus).
			WithHint("This payment was already processed").
			Mark(ierr.ErrAlreadyProcessed)
	}

	existing.PaymentStatus = types.PaymentStatusCompleted
	existing.GatewayPaymentRef = paymentRef
	existing.GatewaySignatureRef = signatureRef
	existing.CompletedAt = &completedAt
	existing.UpdatedAt = time.Now().UTC()
	existing.UpdatedBy = types.GetUserID(ctx)
	return s.InMemoryStore.Update(ctx, id, existing)
}
