package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/servicehq/servicehub/internal/api/dto"
	ierr "github.com/servicehq/servicehub/internal/errors"
	"github.com/servicehq/servicehub/internal/testutil"
	"github.com/servicehq/servicehub/internal/types"
)

type AccessServiceSuite struct {
	testutil.BaseServiceTestSuite
	service AccessService
	tenants TenantService
	params  ServiceParams
}

func TestAccessService(t *testing.T) {
	suite.Run(t, new(AccessServiceSuite))
}

func (s *AccessServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.params = ServiceParams{
		Logger:           s.GetLogger(),
		Config:           s.GetConfig(),
		DB:               s.GetDB(),
		Cache:            s.GetCache(),
		TenantRepo:       s.GetStores().Tenant,
		PaymentRepo:      s.GetStores().Payment,
		SubscriptionRepo: s.GetStores().Subscription,
		PlanRepo:         s.GetStores().Plan,
		GatewayProvider:  s.GetGateway(),
	}
	s.service = NewAccessService(s.params)
	s.tenants = NewTenantService(s.params)
}

func (s *AccessServiceSuite) registerCenter(email string) string {
	resp, err := s.tenants.RegisterCenter(s.GetContext(), &dto.RegisterCenterRequest{
		Name:  "Speedy Motors",
		Email: email,
	})
	s.Require().NoError(err)
	return resp.ID
}

func (s *AccessServiceSuite) expireTrial(centerID string) {
	stored, err := s.GetStores().Tenant.Get(s.GetContext(), centerID)
	s.Require().NoError(err)
	stored.TrialStartedAt = time.Now().AddDate(0, -2, 0)
	stored.TrialEndsAt = time.Now().AddDate(0, -1, 0)
	s.Require().NoError(s.GetStores().Tenant.InMemoryStore.Update(s.GetContext(), stored.ID, stored))
}

func (s *AccessServiceSuite) TestAdminBypassesEverything() {
	// Admins are allowed even with no center and even for a lapsed one.
	resp, err := s.service.CheckAccess(s.GetContext(), types.UserRoleAdmin, "", time.Now())
	s.NoError(err)
	s.Equal(types.DecisionAllow, resp.Decision)

	centerID := s.registerCenter("admin@speedy.example")
	s.expireTrial(centerID)
	resp, err = s.service.CheckAccess(s.GetContext(), types.UserRoleAdmin, centerID, time.Now())
	s.NoError(err)
	s.Equal(types.DecisionAllow, resp.Decision)
}

func (s *AccessServiceSuite) TestNoTenantAssociation() {
	for _, role := range []types.UserRole{types.UserRoleCenterAdmin, types.UserRoleStaff} {
		resp, err := s.service.CheckAccess(s.GetContext(), role, "", time.Now())
		s.NoError(err)
		s.Equal(types.DecisionNoTenant, resp.Decision)
		s.NotEmpty(resp.Message)
	}
}

func (s *AccessServiceSuite) TestUnknownCenter() {
	_, err := s.service.CheckAccess(s.GetContext(), types.UserRoleStaff, "center_missing", time.Now())
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *AccessServiceSuite) TestActiveTrialAllows() {
	centerID := s.registerCenter("active@speedy.example")

	for _, role := range []types.UserRole{types.UserRoleCenterAdmin, types.UserRoleStaff} {
		resp, err := s.service.CheckAccess(s.GetContext(), role, centerID, time.Now())
		s.NoError(err)
		s.Equal(types.DecisionAllow, resp.Decision)
		s.NotNil(resp.Status)
		s.True(resp.Status.IsTrialActive)
	}
}

func (s *AccessServiceSuite) TestExpiredDenialIsRoleAsymmetric() {
	centerID := s.registerCenter("expired@speedy.example")
	s.expireTrial(centerID)

	// The center admin can pay, so they get the renewal invitation.
	adminResp, err := s.service.CheckAccess(s.GetContext(), types.UserRoleCenterAdmin, centerID, time.Now())
	s.NoError(err)
	s.Equal(types.DecisionPaymentRequired, adminResp.Decision)
	s.Contains(adminResp.Message, "renew")

	// Staff are never offered payment.
	staffResp, err := s.service.CheckAccess(s.GetContext(), types.UserRoleStaff, centerID, time.Now())
	s.NoError(err)
	s.Equal(types.DecisionAccessDenied, staffResp.Decision)
	s.Contains(staffResp.Message, "center administrator")
	s.NotContains(staffResp.Message, "renew")
}

func (s *AccessServiceSuite) TestDisabledCenterDenied() {
	centerID := s.registerCenter("disabled@speedy.example")
	s.Require().NoError(s.tenants.DisableCenter(s.GetContext(), centerID))

	resp, err := s.service.CheckAccess(s.GetContext(), types.UserRoleCenterAdmin, centerID, time.Now())
	s.NoError(err)
	s.Equal(types.DecisionPaymentRequired, resp.Decision)
	s.Equal("Account Disabled", resp.Status.StatusText)
}

func (s *AccessServiceSuite) TestInvalidRole() {
	_, err := s.service.CheckAccess(s.GetContext(), types.UserRole("superuser"), "", time.Now())
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *AccessServiceSuite) TestSubscriptionBoundaryInclusive() {
	centerID := s.registerCenter("boundary@speedy.example")
	s.expireTrial(centerID)

	// Valid through today: allowed. Valid through yesterday: gated.
	stored, err := s.GetStores().Tenant.Get(s.GetContext(), centerID)
	s.Require().NoError(err)
	today := types.DateOnly(time.Now())
	stored.SubscriptionValidUntil = &today
	s.Require().NoError(s.GetStores().Tenant.InMemoryStore.Update(s.GetContext(), stored.ID, stored))

	resp, err := s.service.CheckAccess(s.GetContext(), types.UserRoleStaff, centerID, time.Now())
	s.NoError(err)
	s.Equal(types.DecisionAllow, resp.Decision)

	yesterday := today.AddDate(0, 0, -1)
	stored.SubscriptionValidUntil = &yesterday
	s.Require().NoError(s.GetStores().Tenant.InMemoryStore.Update(s.GetContext(), stored.ID, stored))

	resp, err = s.service.CheckAccess(s.GetContext(), types.UserRoleStaff, centerID, time.Now())
	s.NoError(err)
	s.Equal(types.DecisionAccessDenied, resp.Decision)
}
