package dto

import (
	"context"
	"time"

	"github.com/servicehq/servicehub/internal/domain/subscription"
	"github.com/servicehq/servicehub/internal/domain/tenant"
	ierr "github.com/servicehq/servicehub/internal/errors"
	"github.com/servicehq/servicehub/internal/types"
	"github.com/servicehq/servicehub/internal/validator"
)

// RegisterCenterRequest represents the request to onboard a new service center
type RegisterCenterRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Address string `json:"address" validate:"max=1000"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"max=17"`
}

func (r *RegisterCenterRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToServiceCenter converts the request to a service center with a fresh
// license key and trial window.
func (r *RegisterCenterRequest) ToServiceCenter(ctx context.Context, now time.Time, trialDays int) *tenant.ServiceCenter {
	return &tenant.ServiceCenter{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SERVICE_CENTER),
		Name:           r.Name,
		Address:        r.Address,
		Email:          r.Email,
		Phone:          r.Phone,
		LicenseKey:     tenant.GenerateLicenseKey(),
		IsEnabled:      true,
		TrialStartedAt: now,
		TrialEndsAt:    now.AddDate(0, 0, trialDays),
		BaseModel:      types.GetDefaultBaseModel(types.GetUserID(ctx)),
	}
}

// ServiceCenterResponse is a service center plus its derived access state
type ServiceCenterResponse struct {
	*tenant.ServiceCenter
	AccessStatus subscription.AccessStatus `json:"access_status"`
}

// RegisterCenterResponse is returned after onboarding
type RegisterCenterResponse struct {
	*tenant.ServiceCenter
	TrialDaysRemaining int `json:"trial_days_remaining"`
}

// LicenseInfoResponse describes a license key and the center holding it
type LicenseInfoResponse struct {
	LicenseKey   string                    `json:"license_key"`
	CenterID     string                    `json:"center_id"`
	CenterName   string                    `json:"center_name"`
	IsEnabled    bool                      `json:"is_enabled"`
	AccessStatus subscription.AccessStatus `json:"access_status"`
}

// UpdateCenterRequest represents mutable service center fields
type UpdateCenterRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=1000"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=17"`
}

func (r *UpdateCenterRequest) Validate() error {
	if r.Name == nil && r.Address == nil && r.Phone == nil {
		return ierr.NewError("no fields to update").
			WithHint("Provide at least one field to update").
			Mark(ierr.ErrValidation)
	}
	return validator.ValidateRequest(r)
}

// DeactivateLapsedResponse reports the outcome of an expiry sweep
type DeactivateLapsedResponse struct {
	DryRun      bool     `json:"dry_run"`
	CheckedAt   string   `json:"checked_at"`
	AffectedIDs []string `json:"affected_ids"`
	Total       int      `json:"total"`
}
