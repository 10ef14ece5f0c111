package service

import (
	"context"
	"time"

	"github.com/servicehq/servicehub/internal/api/dto"
	"github.com/servicehq/servicehub/internal/domain/subscription"
	"github.com/servicehq/servicehub/internal/types"
)

const (
	msgRenewInvite  = "Your subscription has expired. Please renew to continue using the service."
	msgContactAdmin = "Access denied. Please contact your center administrator."
	msgNoTenant     = "No service center is associated with this account."
)

// AccessService is the request-time gate in front of every tenant-scoped
// operation.
type AccessService interface {
	// CheckAccess decides whether the caller may proceed. centerID may be
	// empty when the caller has no tenant association.
	CheckAccess(ctx context.Context, role types.UserRole, centerID string, now time.Time) (*dto.AccessCheckResponse, error)
}

type accessService struct {
	ServiceParams
}

// NewAccessService creates a new access gate service
func NewAccessService(params ServiceParams) AccessService {
	return &accessService{
		ServiceParams: params,
	}
}

func (s *accessService) CheckAccess(ctx context.Context, role types.UserRole, centerID string, now time.Time) (*dto.AccessCheckResponse, error) {
	if err := role.Validate(); err != nil {
		return nil, err
	}

	// Platform admins are never gated, even on a disabled center.
	if role.IsPlatformAdmin() {
		return &dto.AccessCheckResponse{Decision: types.DecisionAllow}, nil
	}

	if centerID == "" {
		return &dto.AccessCheckResponse{
			Decision: types.DecisionNoTenant,
			Message:  msgNoTenant,
		}, nil
	}

	center, err := s.TenantRepo.Get(ctx, centerID)
	if err != nil {
		return nil, err
	}

	status := subscription.Evaluate(center, now)
	if status.CanAccess {
		return &dto.AccessCheckResponse{
			Decision: types.DecisionAllow,
			Status:   &status,
		}, nil
	}

	// The denial shape depends on who is asking: the center admin is the
	// one who can pay, so only they see the renewal prompt. Staff are
	// pointed at their admin and never offered payment.
	if role == types.UserRoleCenterAdmin {
		s.Logger.Debugw("access gated pending payment",
			"center_id", centerID,
			"status_text", status.StatusText,
		)
		return &dto.AccessCheckResponse{
			Decision: types.DecisionPaymentRequired,
			Message:  msgRenewInvite,
			Status:   &status,
		}, nil
	}

	return &dto.AccessCheckResponse{
		Decision: types.DecisionAccessDenied,
		Message:  msgContactAdmin,
		Status:   &status,
	}, nil
}
