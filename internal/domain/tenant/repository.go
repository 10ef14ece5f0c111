package tenant

import (
	"context"
	"time"
)

// Repository defines the interface for service center persistence operations
type Repository interface {
	// Create persists a new service center
	Create(ctx context.Context, center *ServiceCenter) error

	// Get retrieves a service center by id
	Get(ctx context.Context, id string) (*ServiceCenter, error)

	// GetByEmail retrieves a service center by its unique email
	GetByEmail(ctx context.Context, email string) (*ServiceCenter, error)

	// GetByLicenseKey retrieves a service center by its license key
	GetByLicenseKey(ctx context.Context, key string) (*ServiceCenter, error)

	// Update persists mutable fields of an existing service center
	Update(ctx context.Context, center *ServiceCenter) error

	// UpdateSubscription persists a new subscription expiry, setting the
	// subscription start only when it is not already set. The expiry may
	// only move forward; repositories enforce this with a conditional write.
	UpdateSubscription(ctx context.Context, id string, startedAt time.Time, validUntil time.Time) error

	// SetEnabled flips the manual kill-switch
	SetEnabled(ctx context.Context, id string, enabled bool) error

	// ListEnabled returns all centers whose kill-switch is on
	ListEnabled(ctx context.Context) ([]*ServiceCenter, error)
}
