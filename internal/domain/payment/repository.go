package payment

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, t *Transaction) error
	Get(ctx context.Context, id string) (*Transaction, error)
	GetByGatewayOrderRef(ctx context.Context, orderRef string) (*Transaction, error)
	ListByCenter(ctx context.Context, centerID string) ([]*Transaction, error)

	// CompletePending flips the transaction from pending to completed,
	// recording the gateway payment and signature references and the
	// completion time. The flip is a compare-and-set on the pending
	// status: if the transaction is already terminal it returns an
	// already processed error, making duplicate confirmations harmless.
	CompletePending(ctx context.Context, id string, paymentRef, signatureRef string, completedAt time.Time) error
}
