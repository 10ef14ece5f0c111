package service

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/suite"

	"github.com/servicehq/servicehub/internal/api/dto"
	ierr "github.com/servicehq/servicehub/internal/errors"
	"github.com/servicehq/servicehub/internal/testutil"
	"github.com/servicehq/servicehub/internal/types"
)

type PaymentServiceSuite struct {
	testutil.BaseServiceTestSuite
	service PaymentService
	tenants TenantService
	plans   PlanService
	params  ServiceParams
}

func TestPaymentService(t *testing.T) {
	suite.Run(t, new(PaymentServiceSuite))
}

func (s *PaymentServiceSuite) SetupTest() {
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
	s.service = NewPaymentService(s.params)
	s.tenants = NewTenantService(s.params)
	s.plans = NewPlanService(s.params)
}

func (s *PaymentServiceSuite) setup(email string) (centerID, yearlyID, trialID string) {
	center, err := s.tenants.RegisterCenter(s.GetContext(), &dto.RegisterCenterRequest{
		Name:  "Speedy Motors",
		Email: email,
	})
	s.Require().NoError(err)
	s.Require().NoError(s.plans.SeedDefaultPlans(s.GetContext()))

	yearly, err := s.GetStores().Plan.GetByType(s.GetContext(), types.PlanTypeYearly, 12)
	s.Require().NoError(err)
	trial, err := s.GetStores().Plan.GetByType(s.GetContext(), types.PlanTypeTrial, 0)
	s.Require().NoError(err)
	return center.ID, yearly.ID, trial.ID
}

func (s *PaymentServiceSuite) TestCreateOrderPersistsPendingTransaction() {
	centerID, yearlyID, _ := s.setup("order@speedy.example")

	resp, err := s.service.CreateOrder(s.GetContext(), &dto.CreateOrderRequest{
		ServiceCenterID: centerID,
		PlanID:          yearlyID,
	})
	s.NoError(err)
	s.NotEmpty(resp.GatewayOrderRef)
	s.Equal(types.CurrencyINR, resp.Currency)

	txn, err := s.GetStores().Payment.Get(s.GetContext(), resp.TransactionID)
	s.NoError(err)
	s.Equal(types.PaymentStatusPending, txn.PaymentStatus)
	s.Equal(centerID, txn.ServiceCenterID)
	s.Equal(yearlyID, txn.PlanID)
	s.True(txn.Amount.Equal(resp.Amount))
	s.Nil(txn.CompletedAt)
	s.Equal(1, s.GetGateway().Orders())
}

func (s *PaymentServiceSuite) TestCreateOrderRejectsTrialPlan() {
	centerID, _, trialID := s.setup("trial-order@speedy.example")

	_, err := s.service.CreateOrder(s.GetContext(), &dto.CreateOrderRequest{
		ServiceCenterID: centerID,
		PlanID:          trialID,
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
	s.Equal(0, s.GetGateway().Orders())
}

func (s *PaymentServiceSuite) TestCreateOrderUnknownCenterOrPlan() {
	centerID, yearlyID, _ := s.setup("missing@speedy.example")

	_, err := s.service.CreateOrder(s.GetContext(), &dto.CreateOrderRequest{
		ServiceCenterID: "center_missing",
		PlanID:          yearlyID,
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))

	_, err = s.service.CreateOrder(s.GetContext(), &dto.CreateOrderRequest{
		ServiceCenterID: centerID,
		PlanID:          "plan_missing",
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *PaymentServiceSuite) TestCreateOrderGatewayFailure() {
	centerID, yearlyID, _ := s.setup("gwfail@speedy.example")

	s.GetGateway().Err = errors.New("gateway unreachable")
	_, err := s.service.CreateOrder(s.GetContext(), &dto.CreateOrderRequest{
		ServiceCenterID: centerID,
		PlanID:          yearlyID,
	})
	s.Error(err)

	// No orphaned transaction is left behind.
	transactions, err := s.service.ListTransactions(s.GetContext(), centerID)
	s.NoError(err)
	s.Empty(transactions)
}

func (s *PaymentServiceSuite) TestListTransactions() {
	centerID, yearlyID, _ := s.setup("list@speedy.example")

	for i := 0; i < 3; i++ {
		// Each order needs a fresh transaction; the gateway hands out
		// distinct refs.
		_, err := s.service.CreateOrder(s.GetContext(), &dto.CreateOrderRequest{
			ServiceCenterID: centerID,
			PlanID:          yearlyID,
		})
		s.Require().NoError(err)
	}

	transactions, err := s.service.ListTransactions(s.GetContext(), centerID)
	s.NoError(err)
	s.Len(transactions, 3)
}
