package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/servicehq/servicehub/internal/api/dto"
	"github.com/servicehq/servicehub/internal/domain/tenant"
	ierr "github.com/servicehq/servicehub/internal/errors"
	"github.com/servicehq/servicehub/internal/testutil"
	"github.com/servicehq/servicehub/internal/types"
)

type TenantServiceSuite struct {
	testutil.BaseServiceTestSuite
	service TenantService
	params  ServiceParams
}

func TestTenantService(t *testing.T) {
	suite.Run(t, new(TenantServiceSuite))
}

func (s *TenantServiceSuite) SetupTest() {
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
	s.service = NewTenantService(s.params)
}

func (s *TenantServiceSuite) registerCenter(email string) *dto.RegisterCenterResponse {
	resp, err := s.service.RegisterCenter(s.GetContext(), &dto.RegisterCenterRequest{
		Name:  "Speedy Motors",
		Email: email,
		Phone: "+911234567890",
	})
	s.NoError(err)
	s.NotNil(resp)
	return resp
}

func (s *TenantServiceSuite) TestRegisterCenterGrantsTrial() {
	resp := s.registerCenter("owner@speedy.example")

	s.Equal(15, resp.TrialDaysRemaining)
	s.True(resp.IsEnabled)
	s.True(tenant.ValidateLicenseKeyFormat(resp.LicenseKey))
	s.WithinDuration(resp.TrialStartedAt.AddDate(0, 0, 15), resp.TrialEndsAt, time.Second)
	s.Nil(resp.SubscriptionValidUntil)

	// The initial trial history entry lands with the center.
	entry, err := s.GetStores().Subscription.GetCurrentOpen(s.GetContext(), resp.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusTrial, entry.SubscriptionStatus)
	s.False(entry.IsExtension)
	s.Nil(entry.PaymentTransactionID)
	s.True(entry.ExpiresAt.Equal(resp.TrialEndsAt))
}

func (s *TenantServiceSuite) TestRegisterCenterDuplicateEmail() {
	s.registerCenter("dup@speedy.example")

	_, err := s.service.RegisterCenter(s.GetContext(), &dto.RegisterCenterRequest{
		Name:  "Copycat Garage",
		Email: "dup@speedy.example",
	})
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *TenantServiceSuite) TestRegisterCenterValidation() {
	_, err := s.service.RegisterCenter(s.GetContext(), &dto.RegisterCenterRequest{
		Name: "No Email Garage",
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	_, err = s.service.RegisterCenter(s.GetContext(), &dto.RegisterCenterRequest{
		Name:  "Bad Email Garage",
		Email: "not-an-email",
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *TenantServiceSuite) TestGetCenterDerivesAccessStatus() {
	reg := s.registerCenter("status@speedy.example")

	resp, err := s.service.GetCenter(s.GetContext(), reg.ID)
	s.NoError(err)
	s.True(resp.AccessStatus.CanAccess)
	s.True(resp.AccessStatus.IsTrialActive)
	s.False(resp.AccessStatus.IsSubscriptionActive)
}

func (s *TenantServiceSuite) TestGetCenterNotFound() {
	_, err := s.service.GetCenter(s.GetContext(), "center_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *TenantServiceSuite) TestDisableOverridesAccess() {
	reg := s.registerCenter("disabled@speedy.example")

	s.NoError(s.service.DisableCenter(s.GetContext(), reg.ID))

	resp, err := s.service.GetCenter(s.GetContext(), reg.ID)
	s.NoError(err)
	s.False(resp.IsEnabled)
	s.False(resp.AccessStatus.CanAccess)
	s.Equal("Account Disabled", resp.AccessStatus.StatusText)
	// The trial window itself is still factually open.
	s.True(resp.AccessStatus.IsTrialActive)

	s.NoError(s.service.EnableCenter(s.GetContext(), reg.ID))
	resp, err = s.service.GetCenter(s.GetContext(), reg.ID)
	s.NoError(err)
	s.True(resp.AccessStatus.CanAccess)
}

func (s *TenantServiceSuite) TestUpdateCenter() {
	reg := s.registerCenter("update@speedy.example")

	name := "Speedy Motors Renamed"
	resp, err := s.service.UpdateCenter(s.GetContext(), reg.ID, &dto.UpdateCenterRequest{
		Name: &name,
	})
	s.NoError(err)
	s.Equal(name, resp.Name)
	s.Equal("update@speedy.example", resp.Email)
}

func (s *TenantServiceSuite) TestGetLicenseInfo() {
	reg := s.registerCenter("license@speedy.example")

	info, err := s.service.GetLicenseInfo(s.GetContext(), reg.LicenseKey)
	s.NoError(err)
	s.Equal(reg.ID, info.CenterID)
	s.True(info.AccessStatus.CanAccess)

	_, err = s.service.GetLicenseInfo(s.GetContext(), "not-a-license-key")
	s.Error(err)
	s.True(ierr.IsValidation(err))

	_, err = s.service.GetLicenseInfo(s.GetContext(), "AAAA-BBBB-CCCC-DDDD-EEEE")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *TenantServiceSuite) TestDeactivateLapsed() {
	fresh := s.registerCenter("fresh@speedy.example")
	lapsed := s.registerCenter("lapsed@speedy.example")

	// Age the second center past its trial with no subscription.
	stored, err := s.GetStores().Tenant.Get(s.GetContext(), lapsed.ID)
	s.NoError(err)
	stored.TrialStartedAt = time.Now().AddDate(0, -2, 0)
	stored.TrialEndsAt = time.Now().AddDate(0, -1, 0)
	s.NoError(s.GetStores().Tenant.InMemoryStore.Update(s.GetContext(), stored.ID, stored))

	// Dry run reports without touching anything.
	report, err := s.service.DeactivateLapsed(s.GetContext(), true)
	s.NoError(err)
	s.True(report.DryRun)
	s.Equal(1, report.Total)
	s.Equal([]string{lapsed.ID}, report.AffectedIDs)

	still, err := s.service.GetCenter(s.GetContext(), lapsed.ID)
	s.NoError(err)
	s.True(still.IsEnabled)

	// The real sweep disables only the lapsed center.
	report, err = s.service.DeactivateLapsed(s.GetContext(), false)
	s.NoError(err)
	s.Equal(1, report.Total)

	after, err := s.service.GetCenter(s.GetContext(), lapsed.ID)
	s.NoError(err)
	s.False(after.IsEnabled)

	untouched, err := s.service.GetCenter(s.GetContext(), fresh.ID)
	s.NoError(err)
	s.True(untouched.IsEnabled)
}
