package testutil

import (
	"context"
	"time"

	"github.com/servicehq/servicehub/internal/domain/tenant"
	ierr "github.com/servicehq/servicehub/internal/errors"
	"github.com/servicehq/servicehub/internal/types"
)

// InMemoryTenantStore implements tenant.Repository
type InMemoryTenantStore struct {
	*InMemoryStore[*tenant.ServiceCenter]
}

// NewInMemoryTenantStore creates a new in-memory service center store
func NewInMemoryTenantStore() *InMemoryTenantStore {
	return &InMemoryTenantStore{
		InMemoryStore: NewInMemoryStore[*tenant.ServiceCenter](),
	}
}

func copyServiceCenter(c *tenant.ServiceCenter) *tenant.ServiceCenter {
	if c == nil {
		return nil
	}
	copied := *c
	if c.SubscriptionStartedAt != nil {
		v := *c.SubscriptionStartedAt
		copied.SubscriptionStartedAt = &v
	}
	if c.SubscriptionValidUntil != nil {
		v := *c.SubscriptionValidUntil
		copied.SubscriptionValidUntil = &v
	}
	return &copied
}

func (s *InMemoryTenantStore) Create(ctx context.Context, center *tenant.ServiceCenter) error {
	if center == nil {
		return ierr.NewError("service center cannot be nil").
			WithHint("Service center cannot be nil").
			Mark(ierr.ErrValidation)
	}

	for _, existing := range s.InMemoryStore.List(ctx, nil) {
		if existing.Email == center.Email || existing.LicenseKey == center.LicenseKey {
			return ierr.NewError("service center already exists").
				WithHint("A service center with this email or license key already exists").
				Mark(ierr.ErrAlreadyExists)
		}
	}

	if err := s.InMemoryStore.Create(ctx, center.ID, copyServiceCenter(center)); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create service center").
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryTenantStore) Get(ctx context.Context, id string) (*tenant.ServiceCenter, error) {
	center, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || center.Status != types.StatusPublished {
		return nil, ierr.NewErrorf("service center %s not found", id).
			WithHint("The service center does not exist").
			Mark(ierr.ErrNotFound)
	}
	return copyServiceCenter(center), nil
}

func (s *InMemoryTenantStore) GetByEmail(ctx context.Context, email string) (*tenant.ServiceCenter, error) {
	for _, c := range s.InMemoryStore.List(ctx, nil) {
		if c.Email == email && c.Status == types.StatusPublished {
			return copyServiceCenter(c), nil
		}
	}
	return nil, ierr.NewErrorf("service center with email %s not found", email).
		WithHint("The service center does not exist").
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryTenantStore) GetByLicenseKey(ctx context.Context, key string) (*tenant.ServiceCenter, error) {
	for _, c := range s.InMemoryStore.List(ctx, nil) {
		if c.LicenseKey == key && c.Status == types.StatusPublished {
			return copyServiceCenter(c), nil
		}
	}
	return nil, ierr.NewError("service center not found for license key").
		WithHint("No service center matches this license key").
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryTenantStore) Update(ctx context.Context, center *tenant.ServiceCenter) error {
	existing, err := s.Get(ctx, center.ID)
	if err != nil {
		return err
	}

	existing.Name = center.Name
	existing.Address = center.Address
	existing.Phone = center.Phone
	existing.UpdatedAt = time.Now().UTC()
	existing.UpdatedBy = types.GetUserID(ctx)
	return s.InMemoryStore.Update(ctx, center.ID, existing)
}

func (s *InMemoryTenantStore) UpdateSubscription(ctx context.Context, id string, startedAt time.Time, validUntil time.Time) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if existing.SubscriptionValidUntil != nil && existing.SubscriptionValidUntil.After(validUntil) {
		return ierr.NewError("subscription expiry cannot move backwards").
			WithHint("The center already has a later subscription expiry").
			Mark(ierr.ErrInvalidOperation)
	}
	if existing.SubscriptionStartedAt == nil {
		existing.SubscriptionStartedAt = &startedAt
	}
	existing.SubscriptionValidUntil = &validUntil
	existing.UpdatedAt = time.Now().UTC()
	existing.UpdatedBy = types.GetUserID(ctx)
	return s.InMemoryStore.Update(ctx, id, existing)
}

func (s *InMemoryTenantStore) SetEnabled(ctx context.Context, id string, enabled bool) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	existing.IsEnabled = enabled
	existing.UpdatedAt = time.Now().UTC()
	existing.UpdatedBy = types.GetUserID(ctx)
	return s.InMemoryStore.Update(ctx, id, existing)
}

func (s *InMemoryTenantStore) ListEnabled(ctx context.Context) ([]*tenant.ServiceCenter, error) {
	centers := s.InMemoryStore.List(ctx, func(c *tenant.ServiceCenter) bool {
		return c.IsEnabled && c.Status == types.StatusPublished
	})
	out := make([]*tenant.ServiceCenter, 0, len(centers))
	for _, c := range centers {
		out = append(out, copyServiceCenter(c))
	}
	return out, nil
}
