package service

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/servicehq/servicehub/internal/api/dto"
	ierr "github.com/servicehq/servicehub/internal/errors"
	"github.com/servicehq/servicehub/internal/testutil"
	"github.com/servicehq/servicehub/internal/types"
)

type LedgerServiceSuite struct {
	testutil.BaseServiceTestSuite
	service LedgerService
	tenants TenantService
	payment PaymentService
	plans   PlanService
	params  ServiceParams
}

func TestLedgerService(t *testing.T) {
	suite.Run(t, new(LedgerServiceSuite))
}

func (s *LedgerServiceSuite) SetupTest() {
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
	s.service = NewLedgerService(s.params)
	s.tenants = NewTenantService(s.params)
	s.payment = NewPaymentService(s.params)
	s.plans = NewPlanService(s.params)
}

// setupPendingOrder registers a center, seeds plans and opens an order,
// returning the center id and the pending order reference.
func (s *LedgerServiceSuite) setupPendingOrder(email string) (string, *dto.CreateOrderResponse) {
	center, err := s.tenants.RegisterCenter(s.GetContext(), &dto.RegisterCenterRequest{
		Name:  "Speedy Motors",
		Email: email,
	})
	s.Require().NoError(err)

	s.Require().NoError(s.plans.SeedDefaultPlans(s.GetContext()))
	yearly, err := s.GetStores().Plan.GetByType(s.GetContext(), types.PlanTypeYearly, 12)
	s.Require().NoError(err)

	order, err := s.payment.CreateOrder(s.GetContext(), &dto.CreateOrderRequest{
		ServiceCenterID: center.ID,
		PlanID:          yearly.ID,
	})
	s.Require().NoError(err)
	return center.ID, order
}

func (s *LedgerServiceSuite) TestConfirmPaymentExtendsFromTrialEnd() {
	centerID, order := s.setupPendingOrder("trial@speedy.example")

	before, err := s.GetStores().Tenant.Get(s.GetContext(), centerID)
	s.Require().NoError(err)

	resp, err := s.service.ConfirmPayment(s.GetContext(), &dto.ConfirmPaymentRequest{
		GatewayOrderRef:   order.GatewayOrderRef,
		GatewayPaymentRef: "pay_001",
	})
	s.NoError(err)

	// The trial is still running, so the paid year grows from the trial
	// end date, not from today.
	wantExpiry := types.AddMonthsClamped(types.DateOnly(before.TrialEndsAt), 12)
	s.True(resp.NewExpiry.Equal(wantExpiry), "got %s want %s", resp.NewExpiry, wantExpiry)
	s.True(resp.PreviousExpiry.Equal(types.DateOnly(before.TrialEndsAt)))

	after, err := s.GetStores().Tenant.Get(s.GetContext(), centerID)
	s.NoError(err)
	s.NotNil(after.SubscriptionStartedAt)
	s.NotNil(after.SubscriptionValidUntil)
	s.True(after.SubscriptionValidUntil.Equal(wantExpiry))

	// The transaction is completed, the trial entry superseded, and the
	// extension entry is now current.
	txn, err := s.GetStores().Payment.Get(s.GetContext(), resp.TransactionID)
	s.NoError(err)
	s.Equal(types.PaymentStatusCompleted, txn.PaymentStatus)
	s.Equal("pay_001", txn.GatewayPaymentRef)
	s.NotNil(txn.CompletedAt)

	current, err := s.GetStores().Subscription.GetCurrentOpen(s.GetContext(), centerID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusActive, current.SubscriptionStatus)
	s.True(current.IsExtension)
	s.Equal(resp.HistoryEntryID, current.ID)
	s.NotNil(current.PaymentTransactionID)
	s.Equal(txn.ID, *current.PaymentTransactionID)
}

func (s *LedgerServiceSuite) TestConfirmPaymentIsIdempotent() {
	centerID, order := s.setupPendingOrder("idem@speedy.example")

	first, err := s.service.ConfirmPayment(s.GetContext(), &dto.ConfirmPaymentRequest{
		GatewayOrderRef:   order.GatewayOrderRef,
		GatewayPaymentRef: "pay_001",
	})
	s.Require().NoError(err)

	// A replayed confirmation is rejected and changes nothing.
	_, err = s.service.ConfirmPayment(s.GetContext(), &dto.ConfirmPaymentRequest{
		GatewayOrderRef:   order.GatewayOrderRef,
		GatewayPaymentRef: "pay_002",
	})
	s.Error(err)
	s.True(ierr.IsAlreadyProcessed(err))

	center, err := s.GetStores().Tenant.Get(s.GetContext(), centerID)
	s.NoError(err)
	s.True(center.SubscriptionValidUntil.Equal(first.NewExpiry))

	txn, err := s.GetStores().Payment.Get(s.GetContext(), first.TransactionID)
	s.NoError(err)
	s.Equal("pay_001", txn.GatewayPaymentRef)

	history, err := s.service.GetHistory(s.GetContext(), centerID)
	s.NoError(err)
	// One trial entry (now expired) plus exactly one extension.
	s.Len(history, 2)
}

func (s *LedgerServiceSuite) TestConfirmPaymentUnknownOrder() {
	_, err := s.service.ConfirmPayment(s.GetContext(), &dto.ConfirmPaymentRequest{
		GatewayOrderRef:   "order_unknown",
		GatewayPaymentRef: "pay_001",
	})
	s.Error(err)
	s.True(ierr.IsAlreadyProcessed(err))
}

func (s *LedgerServiceSuite) TestConfirmPaymentValidation() {
	_, err := s.service.ConfirmPayment(s.GetContext(), &dto.ConfirmPaymentRequest{})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *LedgerServiceSuite) TestConfirmPaymentRenewalCarriesOver() {
	centerID, order := s.setupPendingOrder("renew@speedy.example")

	first, err := s.service.ConfirmPayment(s.GetContext(), &dto.ConfirmPaymentRequest{
		GatewayOrderRef:   order.GatewayOrderRef,
		GatewayPaymentRef: "pay_001",
	})
	s.Require().NoError(err)

	// A second purchase while the subscription is active stacks on top of
	// the current expiry; no paid time is lost.
	yearly, err := s.GetStores().Plan.GetByType(s.GetContext(), types.PlanTypeYearly, 12)
	s.Require().NoError(err)
	order2, err := s.payment.CreateOrder(s.GetContext(), &dto.CreateOrderRequest{
		ServiceCenterID: centerID,
		PlanID:          yearly.ID,
	})
	s.Require().NoError(err)

	second, err := s.service.ConfirmPayment(s.GetContext(), &dto.ConfirmPaymentRequest{
		GatewayOrderRef:   order2.GatewayOrderRef,
		GatewayPaymentRef: "pay_002",
	})
	s.NoError(err)
	s.True(second.PreviousExpiry.Equal(first.NewExpiry))
	s.True(second.NewExpiry.Equal(types.AddMonthsClamped(first.NewExpiry, 12)))
	s.True(second.NewExpiry.After(first.NewExpiry))

	// SubscriptionStartedAt is set once and survives the renewal.
	center, err := s.GetStores().Tenant.Get(s.GetContext(), centerID)
	s.NoError(err)
	s.NotNil(center.SubscriptionStartedAt)
}

func (s *LedgerServiceSuite) TestConfirmPaymentTakesAdvisoryLock() {
	_, order := s.setupPendingOrder("lock@speedy.example")

	txn, err := s.GetStores().Payment.GetByGatewayOrderRef(s.GetContext(), order.GatewayOrderRef)
	s.Require().NoError(err)

	_, err = s.service.ConfirmPayment(s.GetContext(), &dto.ConfirmPaymentRequest{
		GatewayOrderRef:   order.GatewayOrderRef,
		GatewayPaymentRef: "pay_001",
	})
	s.NoError(err)

	lockKey := types.GenerateLockKey(types.LockScopePaymentTransaction, map[string]interface{}{
		"transaction_id": txn.ID,
	})
	s.Equal(1, s.GetDB().LockCount(lockKey))
}

func (s *LedgerServiceSuite) TestConfirmPaymentRollsBackOnFailure() {
	centerID, order := s.setupPendingOrder("rollback@speedy.example")

	// Remove the center so the lookup inside the unit of work fails after
	// the payment CAS has already run.
	s.Require().NoError(s.GetStores().Tenant.InMemoryStore.Delete(s.GetContext(), centerID))

	_, err := s.service.ConfirmPayment(s.GetContext(), &dto.ConfirmPaymentRequest{
		GatewayOrderRef:   order.GatewayOrderRef,
		GatewayPaymentRef: "pay_001",
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))

	// The CAS inside the failed unit of work was rolled back; the
	// transaction is pending again and a retry could succeed.
	txn, err := s.GetStores().Payment.GetByGatewayOrderRef(s.GetContext(), order.GatewayOrderRef)
	s.NoError(err)
	s.Equal(types.PaymentStatusPending, txn.PaymentStatus)

	history, err := s.GetStores().Subscription.ListByCenter(s.GetContext(), centerID)
	s.NoError(err)
	s.Len(history, 1) // only the registration trial entry
}
