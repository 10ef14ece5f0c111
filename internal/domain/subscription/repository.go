package subscription

import "context"

type Repository interface {
	Create(ctx context.Context, h *History) error
	Get(ctx context.Context, id string) (*History, error)
	ListByCenter(ctx context.Context, centerID string) ([]*History, error)

	// GetCurrentOpen returns the most recent non-expired entry for the
	// center, or a not found error when every entry has lapsed.
	GetCurrentOpen(ctx context.Context, centerID string) (*History, error)

	// MarkTrialSuperseded flips the center's open trial entry to expired.
	// It is a no-op when no open trial entry exists.
	MarkTrialSuperseded(ctx context.Context, centerID string) error
}
