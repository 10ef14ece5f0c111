package testutil

import (
	"context"
	"time"

	"github.com/servicehq/servicehub/internal/domain/subscription"
	ierr "github.com/servicehq/servicehub/internal/errors"
	"github.com/servicehq/servicehub/internal/types"
)

// InMemorySubscriptionStore implements subscription.Repository
type InMemorySubscriptionStore struct {
	*InMemoryStore[*subscription.History]
}

// NewInMemorySubscriptionStore creates a new in-memory subscription history store
func NewInMemorySubscriptionStore() *InMemorySubscriptionStore {
	return &InMemorySubscriptionStore{
		InMemoryStore: NewInMemoryStore[*subscription.History](),
	}
}

func copyHistory(h *subscription.History) *subscription.History {
	if h == nil {
		return nil
	}
	copied := *h
	if h.PaymentTransactionID != nil {
		v := *h.PaymentTransactionID
		copied.PaymentTransactionID = &v
	}
	if h.PreviousExpiresAt != nil {
		v := *h.PreviousExpiresAt
		copied.PreviousExpiresAt = &v
	}
	return &copied
}

func (s *InMemorySubscriptionStore) Create(ctx context.Context, h *subscription.History) error {
	if h == nil {
		return ierr.NewError("history entry cannot be nil").
			WithHint("History entry cannot be nil").
			Mark(ierr.ErrValidation)
	}

	if err := s.InMemoryStore.Create(ctx, h.ID, copyHistory(h)); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create subscription history entry").
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemorySubscriptionStore) Get(ctx context.Context, id string) (*subscription.History, error) {
	h, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || h.Status != types.StatusPublished {
		return nil, ierr.NewErrorf("subscription history %s not found", id).
			WithHint("The history entry does not exist").
			Mark(ierr.ErrNotFound)
	}
	return copyHistory(h), nil
}

func (s *InMemorySubscriptionStore) ListByCenter(ctx context.Context, centerID string) ([]*subscription.History, error) {
	entries := s.InMemoryStore.List(ctx, func(h *subscription.History) bool {
		return h.ServiceCenterID == centerID && h.Status == types.StatusPublished
	})
	out := make([]*subscription.History, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		out = append(out, copyHistory(entries[i]))
	}
	return out, nil
}

func (s *InMemorySubscriptionStore) GetCurrentOpen(ctx context.Context, centerID string) (*subscription.History, error) {
	entries := s.InMemoryStore.List(ctx, func(h *subscription.History) bool {
		return h.ServiceCenterID == centerID &&
			h.Status == types.StatusPublished &&
			(h.SubscriptionStatus == types.SubscriptionStatusTrial ||
				h.SubscriptionStatus == types.SubscriptionStatusActive)
	})
	if len(entries) == 0 {
		return nil, ierr.NewErrorf("no open subscription for center %s", centerID).
			WithHint("The center has no active or trial subscription entry").
			Mark(ierr.ErrNotFound)
	}
	return copyHistory(entries[len(entries)-1]), nil
}

func (s *InMemorySubscriptionStore) MarkTrialSuperseded(ctx context.Context, centerID string) error {
	entries := s.InMemoryStore.List(ctx, func(h *subscription.History) bool {
		return h.ServiceCenterID == centerID &&
			h.Status == types.StatusPublished &&
			h.SubscriptionStatus == types.SubscriptionStatusTrial
	})
	for _, h := range entries {
		updated := copyHistory(h)
		updated.SubscriptionStatus = types.SubscriptionStatusExpired
		updated.UpdatedAt = time.Now().UTC()
		updated.UpdatedBy = types.GetUserID(ctx)
		if err := s.InMemoryStore.Update(ctx, h.ID, updated); err != nil {
			return ierr.WithError(err).
				WithHint("Failed to mark trial superseded").
				Mark(ierr.ErrDatabase)
		}
	}
	return nil
}
