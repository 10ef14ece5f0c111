package service

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/servicehq/servicehub/internal/api/dto"
	ierr "github.com/servicehq/servicehub/internal/errors"
	"github.com/servicehq/servicehub/internal/testutil"
	"github.com/servicehq/servicehub/internal/types"
)

type DashboardServiceSuite struct {
	testutil.BaseServiceTestSuite
	service DashboardService
	tenants TenantService
	params  ServiceParams
}

func TestDashboardService(t *testing.T) {
	suite.Run(t, new(DashboardServiceSuite))
}

func (s *DashboardServiceSuite) SetupTest() {
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
	s.service = NewDashboardService(s.params)
	s.tenants = NewTenantService(s.params)
}

func (s *DashboardServiceSuite) TestGetDashboard() {
	reg, err := s.tenants.RegisterCenter(s.GetContext(), &dto.RegisterCenterRequest{
		Name:  "Speedy Motors",
		Email: "dash@speedy.example",
	})
	s.Require().NoError(err)

	resp, err := s.service.GetDashboard(s.GetContext(), reg.ID)
	s.NoError(err)
	s.Equal(reg.ID, resp.CenterID)
	s.Equal("Speedy Motors", resp.CenterName)
	s.Equal(reg.LicenseKey, resp.LicenseKey)
	s.True(resp.AccessStatus.CanAccess)
	s.True(resp.TrialEndsAt.Equal(reg.TrialEndsAt))
	s.Nil(resp.SubscriptionValidUntil)

	s.Require().NotNil(resp.CurrentEntry)
	s.Equal(types.SubscriptionStatusTrial, resp.CurrentEntry.SubscriptionStatus)
}

func (s *DashboardServiceSuite) TestGetDashboardWithoutOpenEntry() {
	reg, err := s.tenants.RegisterCenter(s.GetContext(), &dto.RegisterCenterRequest{
		Name:  "Speedy Motors",
		Email: "noentry@speedy.example",
	})
	s.Require().NoError(err)

	// Expire the trial row; a missing open entry is normal, not an error.
	s.Require().NoError(s.GetStores().Subscription.MarkTrialSuperseded(s.GetContext(), reg.ID))

	resp, err := s.service.GetDashboard(s.GetContext(), reg.ID)
	s.NoError(err)
	s.Nil(resp.CurrentEntry)
}

func (s *DashboardServiceSuite) TestGetDashboardUnknownCenter() {
	_, err := s.service.GetDashboard(s.GetContext(), "center_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
