package gorm

import (
	"context"
	"time"

	gormdb "gorm.io/gorm"

	domainTenant "github.com/servicehq/servicehub/internal/domain/tenant"
	ierr "github.com/servicehq/servicehub/internal/errors"
	"github.com/servicehq/servicehub/internal/logger"
	"github.com/servicehq/servicehub/internal/postgres"
	"github.com/servicehq/servicehub/internal/types"
)

type tenantRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

// NewTenantRepository creates a new service center repository
func NewTenantRepository(client postgres.IClient, logger *logger.Logger) domainTenant.Repository {
	return &tenantRepository{
		client: client,
		logger: logger,
	}
}

// Create persists a new service center
func (r *tenantRepository) Create(ctx context.Context, center *domainTenant.ServiceCenter) error {
	r.logger.Debugw("creating service center", "center_id", center.ID, "email", center.Email)

	span := StartRepositorySpan(ctx, "tenant", "create", map[string]interface{}{
		"center_id": center.ID,
		"email":     center.Email,
	})
	defer FinishSpan(span)

	if err := r.client.Querier(ctx).Create(center).Error; err != nil {
		SetSpanError(span, err)
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("A service center with this email or license key already exists").
				WithReportableDetails(map[string]interface{}{
					"email": center.Email,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create service center").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return nil
}

// Get retrieves a service center by id
func (r *tenantRepository) Get(ctx context.Context, id string) (*domainTenant.ServiceCenter, error) {
	span := StartRepositorySpan(ctx, "tenant", "get", map[string]interface{}{
		"center_id": id,
	})
	defer FinishSpan(span)

	var center domainTenant.ServiceCenter
	err := r.client.Querier(ctx).
		Where("id = ? AND status = ?", id, types.StatusPublished).
		First(&center).Error
	if err != nil {
		SetSpanError(span, err)
		if isNotFoundErr(err) {
			return nil, ierr.NewErrorf("service center %s not found", id).
				WithHint("The service center does not exist").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get service center").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return &center, nil
}

// GetByEmail retrieves a service center by its unique email
func (r *tenantRepository) GetByEmail(ctx context.Context, email string) (*domainTenant.ServiceCenter, error) {
	span := StartRepositorySpan(ctx, "tenant", "get_by_email", map[string]interface{}{
		"email": email,
	})
	defer FinishSpan(span)

	var center domainTenant.ServiceCenter
	err := r.client.Querier(ctx).
		Where("email = ? AND status = ?", email, types.StatusPublished).
		First(&center).Error
	if err != nil {
		SetSpanError(span, err)
		if isNotFoundErr(err) {
			return nil, ierr.NewErrorf("service center with email %s not found", email).
				WithHint("The service center does not exist").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get service center by email").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return &center, nil
}

// GetByLicenseKey retrieves a service center by its license key
func (r *tenantRepository) GetByLicenseKey(ctx context.Context, key string) (*domainTenant.ServiceCenter, error) {
	span := StartRepositorySpan(ctx, "tenant", "get_by_license_key", nil)
	defer FinishSpan(span)

	var center domainTenant.ServiceCenter
	err := r.client.Querier(ctx).
		Where("license_key = ? AND status = ?", key, types.StatusPublished).
		First(&center).Error
	if err != nil {
		SetSpanError(span, err)
		if isNotFoundErr(err) {
			return nil, ierr.NewError("service center not found for license key").
				WithHint("No service center matches this license key").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get service center by license key").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return &center, nil
}

// Update persists mutable fields of an existing service center
func (r *tenantRepository) Update(ctx context.Context, center *domainTenant.ServiceCenter) error {
	r.logger.Debugw("updating service center", "center_id", center.ID)

	span := StartRepositorySpan(ctx, "tenant", "update", map[string]interface{}{
		"center_id": center.ID,
	})
	defer FinishSpan(span)

	center.UpdatedAt = time.Now().UTC()
	center.UpdatedBy = types.GetUserID(ctx)

	result := r.client.Querier(ctx).
		Model(&domainTenant.ServiceCenter{}).
		Where("id = ? AND status = ?", center.ID, types.StatusPublished).
		Updates(map[string]interface{}{
			"name":       center.Name,
			"address":    center.Address,
			"phone":      center.Phone,
			"updated_at": center.UpdatedAt,
			"updated_by": center.UpdatedBy,
		})
	if result.Error != nil {
		SetSpanError(span, result.Error)
		return ierr.WithError(result.Error).
			WithHint("Failed to update service center").
			Mark(ierr.ErrDatabase)
	}
	if result.RowsAffected == 0 {
		err := ierr.NewErrorf("service center %s not found", center.ID).
			WithHint("The service center does not exist").
			Mark(ierr.ErrNotFound)
		SetSpanError(span, err)
		return err
	}

	SetSpanSuccess(span)
	return nil
}

// UpdateSubscription persists a new subscription expiry. The start date is
// set only when not already set, and the expiry never moves backwards; both
// guards live in the statement itself so concurrent writers cannot interleave
// a regression.
func (r *tenantRepository) UpdateSubscription(ctx context.Context, id string, startedAt time.Time, validUntil time.Time) error {
	r.logger.Debugw("updating subscription window",
		"center_id", id,
		"valid_until", validUntil,
	)

	span := StartRepositorySpan(ctx, "tenant", "update_subscription", map[string]interface{}{
		"center_id":   id,
		"valid_until": validUntil,
	})
	defer FinishSpan(span)

	result := r.client.Querier(ctx).
		Model(&domainTenant.ServiceCenter{}).
		Where("id = ? AND status = ?", id, types.StatusPublished).
		Where("subscription_valid_until IS NULL OR subscription_valid_until <= ?", validUntil).
		Updates(map[string]interface{}{
			"subscription_started_at":  gormdb.Expr("COALESCE(subscription_started_at, ?)", startedAt),
			"subscription_valid_until": validUntil,
			"updated_at":               time.Now().UTC(),
			"updated_by":               types.GetUserID(ctx),
		})
	if result.Error != nil {
		SetSpanError(span, result.Error)
		return ierr.WithError(result.Error).
			WithHint("Failed to update subscription window").
			Mark(ierr.ErrDatabase)
	}
	if result.RowsAffected == 0 {
		// Either the center is gone or the write would move the expiry
		// backwards. Distinguish for the caller.
		if _, err := r.Get(ctx, id); err != nil {
			SetSpanError(span, err)
			return err
		}
		err := ierr.NewError("subscription expiry cannot move backwards").
			WithHint("The center already has a later subscription expiry").
			WithReportableDetails(map[string]interface{}{
				"center_id":   id,
				"valid_until": validUntil,
			}).
			Mark(ierr.ErrInvalidOperation)
		SetSpanError(span, err)
		return err
	}

	SetSpanSuccess(span)
	return nil
}

// SetEnabled flips the manual kill-switch
func (r *tenantRepository) SetEnabled(ctx context.Context, id string, enabled bool) error {
	r.logger.Debugw("setting service center enabled flag", "center_id", id, "enabled", enabled)

	span := StartRepositorySpan(ctx, "tenant", "set_enabled", map[string]interface{}{
		"center_id": id,
		"enabled":   enabled,
	})
	defer FinishSpan(span)

	result := r.client.Querier(ctx).
		Model(&domainTenant.ServiceCenter{}).
		Where("id = ? AND status = ?", id, types.StatusPublished).
		Updates(map[string]interface{}{
			"is_enabled": enabled,
			"updated_at": time.Now().UTC(),
			"updated_by": types.GetUserID(ctx),
		})
	if result.Error != nil {
		SetSpanError(span, result.Error)
		return ierr.WithError(result.Error).
			WithHint("Failed to update service center").
			Mark(ierr.ErrDatabase)
	}
	if result.RowsAffected == 0 {
		err := ierr.NewErrorf("service center %s not found", id).
			WithHint("The service center does not exist").
			Mark(ierr.ErrNotFound)
		SetSpanError(span, err)
		return err
	}

	SetSpanSuccess(span)
	return nil
}

// ListEnabled returns all centers whose kill-switch is on
func (r *tenantRepository) ListEnabled(ctx context.Context) ([]*domainTenant.ServiceCenter, error) {
	span := StartRepositorySpan(ctx, "tenant", "list_enabled", nil)
	defer FinishSpan(span)

	var centers []*domainTenant.ServiceCenter
	err := r.client.Querier(ctx).
		Where("is_enabled = ? AND status = ?", true, types.StatusPublished).
		Order("created_at ASC").
		Find(&centers).Error
	if err != nil {
		SetSpanError(span, err)
		return nil, ierr.WithError(err).
			WithHint("Failed to list service centers").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return centers, nil
}
