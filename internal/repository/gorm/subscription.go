package gorm

import (
	"context"
	"time"

	domainSub "github.com/servicehq/servicehub/internal/domain/subscription"
	ierr "github.com/servicehq/servicehub/internal/errors"
	"github.com/servicehq/servicehub/internal/logger"
	"github.com/servicehq/servicehub/internal/postgres"
	"github.com/servicehq/servicehub/internal/types"
)

type subscriptionRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

// NewSubscriptionRepository creates a new subscription history repository
func NewSubscriptionRepository(client postgres.IClient, logger *logger.Logger) domainSub.Repository {
	return &subscriptionRepository{
		client: client,
		logger: logger,
	}
}

// Create appends a subscription history entry
func (r *subscriptionRepository) Create(ctx context.Context, h *domainSub.History) error {
	r.logger.Debugw("creating subscription history entry",
		"history_id", h.ID,
		"center_id", h.ServiceCenterID,
		"is_extension", h.IsExtension,
	)

	span := StartRepositorySpan(ctx, "subscription", "create", map[string]interface{}{
		"history_id": h.ID,
		"center_id":  h.ServiceCenterID,
	})
	defer FinishSpan(span)

	if err := r.client.Querier(ctx).Create(h).Error; err != nil {
		SetSpanError(span, err)
		if isForeignKeyViolation(err) {
			return ierr.WithError(err).
				WithHint("The referenced service center or transaction does not exist").
				Mark(ierr.ErrNotFound)
		}
		return ierr.WithError(err).
			WithHint("Failed to create subscription history entry").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return nil
}

// Get retrieves a history entry by id
func (r *subscriptionRepository) Get(ctx context.Context, id string) (*domainSub.History, error) {
	span := StartRepositorySpan(ctx, "subscription", "get", map[string]interface{}{
		"history_id": id,
	})
	defer FinishSpan(span)

	var h domainSub.History
	err := r.client.Querier(ctx).
		Where("id = ? AND status = ?", id, types.StatusPublished).
		First(&h).Error
	if err != nil {
		SetSpanError(span, err)
		if isNotFoundErr(err) {
			return nil, ierr.NewErrorf("subscription history %s not found", id).
				WithHint("The history entry does not exist").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get subscription history entry").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return &h, nil
}

// ListByCenter returns a center's history, newest first
func (r *subscriptionRepository) ListByCenter(ctx context.Context, centerID string) ([]*domainSub.History, error) {
	span := StartRepositorySpan(ctx, "subscription", "list_by_center", map[string]interface{}{
		"center_id": centerID,
	})
	defer FinishSpan(span)

	var entries []*domainSub.History
	err := r.client.Querier(ctx).
		Where("service_center_id = ? AND status = ?", centerID, types.StatusPublished).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		SetSpanError(span, err)
		return nil, ierr.WithError(err).
			WithHint("Failed to list subscription history").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return entries, nil
}

// GetCurrentOpen returns the most recent non-expired entry for the center
func (r *subscriptionRepository) GetCurrentOpen(ctx context.Context, centerID string) (*domainSub.History, error) {
	span := StartRepositorySpan(ctx, "subscription", "get_current_open", map[string]interface{}{
		"center_id": centerID,
	})
	defer FinishSpan(span)

	var h domainSub.History
	err := r.client.Querier(ctx).
		Where("service_center_id = ? AND status = ?", centerID, types.StatusPublished).
		Where("subscription_status IN ?", []types.SubscriptionStatus{
			types.SubscriptionStatusTrial,
			types.SubscriptionStatusActive,
		}).
		Order("created_at DESC").
		First(&h).Error
	if err != nil {
		SetSpanError(span, err)
		if isNotFoundErr(err) {
			return nil, ierr.NewErrorf("no open subscription for center %s", centerID).
				WithHint("The center has no active or trial subscription entry").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get open subscription entry").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return &h, nil
}

// MarkTrialSuperseded flips the center's open trial entry to expired. No-op
// when the center has no open trial entry.
func (r *subscriptionRepository) MarkTrialSuperseded(ctx context.Context, centerID string) error {
	r.logger.Debugw("marking trial superseded", "center_id", centerID)

	span := StartRepositorySpan(ctx, "subscription", "mark_trial_superseded", map[string]interface{}{
		"center_id": centerID,
	})
	defer FinishSpan(span)

	result := r.client.Querier(ctx).
		Model(&domainSub.History{}).
		Where("service_center_id = ? AND subscription_status = ? AND status = ?",
			centerID, types.SubscriptionStatusTrial, types.StatusPublished).
		Updates(map[string]interface{}{
			"subscription_status": types.SubscriptionStatusExpired,
			"updated_at":          time.Now().UTC(),
			"updated_by":          types.GetUserID(ctx),
		})
	if result.Error != nil {
		SetSpanError(span, result.Error)
		return ierr.WithError(result.Error).
			WithHint("Failed to mark trial superseded").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return nil
}
