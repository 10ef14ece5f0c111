package service

import (
	"context"
	"time"

	"github.com/samber/lo"

	"github.com/servicehq/servicehub/internal/api/dto"
	"github.com/servicehq/servicehub/internal/domain/subscription"
	"github.com/servicehq/servicehub/internal/domain/tenant"
	ierr "github.com/servicehq/servicehub/internal/errors"
	"github.com/servicehq/servicehub/internal/types"
)

// TenantService defines the interface for service center lifecycle operations
type TenantService interface {
	// RegisterCenter onboards a new service center with a fresh trial
	RegisterCenter(ctx context.Context, req *dto.RegisterCenterRequest) (*dto.RegisterCenterResponse, error)

	// GetCenter retrieves a center with its derived access state
	GetCenter(ctx context.Context, id string) (*dto.ServiceCenterResponse, error)

	// UpdateCenter updates a center's contact fields
	UpdateCenter(ctx context.Context, id string, req *dto.UpdateCenterRequest) (*dto.ServiceCenterResponse, error)

	// EnableCenter turns the manual kill-switch on
	EnableCenter(ctx context.Context, id string) error

	// DisableCenter turns the manual kill-switch off; this overrides every
	// date-based access rule
	DisableCenter(ctx context.Context, id string) error

	// GetLicenseInfo resolves a license key to its center and access state
	GetLicenseInfo(ctx context.Context, key string) (*dto.LicenseInfoResponse, error)

	// DeactivateLapsed disables every enabled center whose trial and
	// subscription have both lapsed. With dryRun it only reports.
	DeactivateLapsed(ctx context.Context, dryRun bool) (*dto.DeactivateLapsedResponse, error)
}

type tenantService struct {
	ServiceParams
}

// NewTenantService creates a new tenant service
func NewTenantService(params ServiceParams) TenantService {
	return &tenantService{
		ServiceParams: params,
	}
}

func (s *tenantService) RegisterCenter(ctx context.Context, req *dto.RegisterCenterRequest) (*dto.RegisterCenterResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().In(s.Config.BusinessLocation())
	center := req.ToServiceCenter(ctx, now, s.Config.Billing.TrialDays)
	if err := center.Validate(); err != nil {
		return nil, err
	}

	// The center row and its initial trial history entry land together or
	// not at all.
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.TenantRepo.Create(ctx, center); err != nil {
			return err
		}

		entry := &subscription.History{
			ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION_HISTORY),
			ServiceCenterID:    center.ID,
			SubscriptionStatus: types.SubscriptionStatusTrial,
			StartedAt:          center.TrialStartedAt,
			ExpiresAt:          center.TrialEndsAt,
			Currency:           s.Config.Billing.Currency,
			IsExtension:        false,
			BaseModel:          types.GetDefaultBaseModel(types.GetUserID(ctx)),
		}
		return s.SubscriptionRepo.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("registered service center",
		"center_id", center.ID,
		"email", center.Email,
		"trial_ends_at", center.TrialEndsAt,
	)

	return &dto.RegisterCenterResponse{
		ServiceCenter:      center,
		TrialDaysRemaining: s.Config.Billing.TrialDays,
	}, nil
}

func (s *tenantService) GetCenter(ctx context.Context, id string) (*dto.ServiceCenterResponse, error) {
	if id == "" {
		return nil, ierr.NewError("center ID is required").
			WithHint("Center ID is required").
			Mark(ierr.ErrValidation)
	}

	center, err := s.TenantRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().In(s.Config.BusinessLocation())
	return &dto.ServiceCenterResponse{
		ServiceCenter: center,
		AccessStatus:  subscription.Evaluate(center, now),
	}, nil
}

func (s *tenantService) UpdateCenter(ctx context.Context, id string, req *dto.UpdateCenterRequest) (*dto.ServiceCenterResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	center, err := s.TenantRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		center.Name = *req.Name
	}
	if req.Address != nil {
		center.Address = *req.Address
	}
	if req.Phone != nil {
		center.Phone = *req.Phone
	}
	if err := center.Validate(); err != nil {
		return nil, err
	}

	if err := s.TenantRepo.Update(ctx, center); err != nil {
		return nil, err
	}

	return s.GetCenter(ctx, id)
}

func (s *tenantService) EnableCenter(ctx context.Context, id string) error {
	return s.setEnabled(ctx, id, true)
}

func (s *tenantService) DisableCenter(ctx context.Context, id string) error {
	return s.setEnabled(ctx, id, false)
}

func (s *tenantService) setEnabled(ctx context.Context, id string, enabled bool) error {
	if id == "" {
		return ierr.NewError("center ID is required").
			WithHint("Center ID is required").
			Mark(ierr.ErrValidation)
	}

	if err := s.TenantRepo.SetEnabled(ctx, id, enabled); err != nil {
		return err
	}

	s.Logger.Infow("service center kill-switch updated",
		"center_id", id,
		"enabled", enabled,
		"updated_by", types.GetUserID(ctx),
	)
	return nil
}

func (s *tenantService) GetLicenseInfo(ctx context.Context, key string) (*dto.LicenseInfoResponse, error) {
	if !tenant.ValidateLicenseKeyFormat(key) {
		return nil, ierr.NewError("invalid license key format").
			WithHint("License keys look like XXXX-XXXX-XXXX-XXXX-XXXX").
			Mark(ierr.ErrValidation)
	}

	center, err := s.TenantRepo.GetByLicenseKey(ctx, key)
	if err != nil {
		return nil, err
	}

	now := time.Now().In(s.Config.BusinessLocation())
	return &dto.LicenseInfoResponse{
		LicenseKey:   center.LicenseKey,
		CenterID:     center.ID,
		CenterName:   center.Name,
		IsEnabled:    center.IsEnabled,
		AccessStatus: subscription.Evaluate(center, now),
	}, nil
}

func (s *tenantService) DeactivateLapsed(ctx context.Context, dryRun bool) (*dto.DeactivateLapsedResponse, error) {
	now := time.Now().In(s.Config.BusinessLocation())

	centers, err := s.TenantRepo.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}

	// A center is lapsed when neither window grants access anymore. The
	// kill-switch plays no part here; these are all enabled centers.
	lapsed := lo.Filter(centers, func(c *tenant.ServiceCenter, _ int) bool {
		status := subscription.Evaluate(c, now)
		return !status.IsTrialActive && !status.IsSubscriptionActive
	})

	resp := &dto.DeactivateLapsedResponse{
		DryRun:    dryRun,
		CheckedAt: now.Format(time.RFC3339),
		AffectedIDs: lo.Map(lapsed, func(c *tenant.ServiceCenter, _ int) string {
			return c.ID
		}),
		Total: len(lapsed),
	}

	if dryRun {
		s.Logger.Infow("expiry sweep dry run", "lapsed", resp.Total, "checked", len(centers))
		return resp, nil
	}

	for _, c := range lapsed {
		if err := s.TenantRepo.SetEnabled(ctx, c.ID, false); err != nil {
			s.Logger.Errorw("failed to disable lapsed center", "center_id", c.ID, "error", err)
			return nil, err
		}
		s.Logger.Infow("disabled lapsed service center", "center_id", c.ID, "name", c.Name)
	}

	return resp, nil
}
