package service

import (
	"github.com/servicehq/servicehub/internal/cache"
	"github.com/servicehq/servicehub/internal/config"
	"github.com/servicehq/servicehub/internal/domain/payment"
	"github.com/servicehq/servicehub/internal/domain/plan"
	"github.com/servicehq/servicehub/internal/domain/subscription"
	"github.com/servicehq/servicehub/internal/domain/tenant"
	"github.com/servicehq/servicehub/internal/integration/gateway"
	"github.com/servicehq/servicehub/internal/logger"
	"github.com/servicehq/servicehub/internal/postgres"
)

// ServiceParams bundles every dependency a service can need. Services embed
// it so constructors stay one-liners and tests can assemble it from fakes.
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient
	Cache  cache.Cache

	TenantRepo       tenant.Repository
	PaymentRepo      payment.Repository
	SubscriptionRepo subscription.Repository
	PlanRepo         plan.Repository

	GatewayProvider gateway.Provider
}
