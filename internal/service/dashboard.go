package service

import (
	"context"
	"time"

	"github.com/servicehq/servicehub/internal/api/dto"
	"github.com/servicehq/servicehub/internal/domain/subscription"
	ierr "github.com/servicehq/servicehub/internal/errors"
)

// DashboardService projects a center's identity, dates and derived access
// state for display. Strictly read-only.
type DashboardService interface {
	GetDashboard(ctx context.Context, centerID string) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	ServiceParams
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(params ServiceParams) DashboardService {
	return &dashboardService{
		ServiceParams: params,
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context, centerID string) (*dto.DashboardResponse, error) {
	if centerID == "" {
		return nil, ierr.NewError("center ID is required").
			WithHint("Center ID is required").
			Mark(ierr.ErrValidation)
	}

	center, err := s.TenantRepo.Get(ctx, centerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().In(s.Config.BusinessLocation())
	resp := &dto.DashboardResponse{
		CenterID:               center.ID,
		CenterName:             center.Name,
		Email:                  center.Email,
		LicenseKey:             center.LicenseKey,
		IsEnabled:              center.IsEnabled,
		AccessStatus:           subscription.Evaluate(center, now),
		TrialStartedAt:         center.TrialStartedAt,
		TrialEndsAt:            center.TrialEndsAt,
		SubscriptionStartedAt:  center.SubscriptionStartedAt,
		SubscriptionValidUntil: center.SubscriptionValidUntil,
	}

	// The open history row is display-only context; its absence is normal
	// for lapsed centers.
	entry, err := s.SubscriptionRepo.GetCurrentOpen(ctx, centerID)
	if err != nil {
		if !ierr.IsNotFound(err) {
			return nil, err
		}
	} else {
		resp.CurrentEntry = &dto.SubscriptionHistoryResponse{History: entry}
	}

	return resp, nil
}
