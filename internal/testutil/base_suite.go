package testutil

import (
	"context"

	"github.com/stretchr/testify/suite"

	"github.com/servicehq/servicehub/internal/cache"
	"github.com/servicehq/servicehub/internal/config"
	"github.com/servicehq/servicehub/internal/logger"
	"github.com/servicehq/servicehub/internal/types"
)

// Stores bundles every in-memory repository for a test run.
type Stores struct {
	Tenant       *InMemoryTenantStore
	Payment      *InMemoryPaymentStore
	Subscription *InMemorySubscriptionStore
	Plan         *InMemoryPlanStore
}

// BaseServiceTestSuite wires fresh in-memory stores, a fake DB client, a fake
// gateway and default config before every test.
type BaseServiceTestSuite struct {
	suite.Suite

	ctx     context.Context
	cfg     *config.Configuration
	log     *logger.Logger
	cache   cache.Cache
	stores  Stores
	db      *FakeDBClient
	gateway *FakeGatewayProvider
}

func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = types.SetUserID(context.Background(), "test-user")
	s.cfg = config.GetDefaultConfig()
	s.log = logger.GetLogger()
	s.cache = cache.NewInMemoryCache()
	s.gateway = NewFakeGatewayProvider()

	s.stores = Stores{
		Tenant:       NewInMemoryTenantStore(),
		Payment:      NewInMemoryPaymentStore(),
		Subscription: NewInMemorySubscriptionStore(),
		Plan:         NewInMemoryPlanStore(),
	}
	s.db = NewFakeDBClient(
		s.stores.Tenant,
		s.stores.Payment,
		s.stores.Subscription,
		s.stores.Plan,
	)
}

func (s *BaseServiceTestSuite) GetContext() context.Context      { return s.ctx }
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration { return s.cfg }
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger        { return s.log }
func (s *BaseServiceTestSuite) GetCache() cache.Cache            { return s.cache }
func (s *BaseServiceTestSuite) GetStores() Stores                { return s.stores }
func (s *BaseServiceTestSuite) GetDB() *FakeDBClient             { return s.db }
func (s *BaseServiceTestSuite) GetGateway() *FakeGatewayProvider { return s.gateway }
