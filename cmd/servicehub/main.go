package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/fx"

	"github.com/servicehq/servicehub/internal/cache"
	"github.com/servicehq/servicehub/internal/config"
	"github.com/servicehq/servicehub/internal/logger"
	"github.com/servicehq/servicehub/internal/postgres"
	gormrepo "github.com/servicehq/servicehub/internal/repository/gorm"
	"github.com/servicehq/servicehub/internal/sentry"
	"github.com/servicehq/servicehub/internal/service"
)

const usage = `usage: servicehub <command>

commands:
  migrate             apply pending database migrations
  seed-plans          create the default payment plans
  deactivate-lapsed   disable centers with no remaining access
                      (-dry-run to only report)
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command := os.Args[1]
	dryRun := len(os.Args) > 2 && os.Args[2] == "-dry-run"

	app := fx.New(
		fx.NopLogger,
		fx.Provide(
			config.NewConfig,
			logger.NewLogger,
			postgres.NewDB,
			postgres.NewClient,
			newServiceParams,
			service.NewTenantService,
			service.NewPlanService,
		),
		fx.Invoke(func(lc fx.Lifecycle, shutdowner fx.Shutdowner, cfg *config.Configuration, log *logger.Logger, client postgres.IClient, tenants service.TenantService, plans service.PlanService) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					flush, err := sentry.Initialize(cfg, log)
					if err != nil {
						return err
					}
					defer flush()

					err = run(ctx, command, dryRun, cfg, log, client, tenants, plans)
					if err != nil {
						log.Errorw("command failed", "command", command, "error", err)
					}
					return shutdownAfter(shutdowner, err)
				},
			})
		}),
	)
	app.Run()
}

func newServiceParams(cfg *config.Configuration, log *logger.Logger, client postgres.IClient) service.ServiceParams {
	return service.ServiceParams{
		Logger:           log,
		Config:           cfg,
		DB:               client,
		Cache:            cache.Initialize(cfg, log, nil),
		TenantRepo:       gormrepo.NewTenantRepository(client, log),
		PaymentRepo:      gormrepo.NewPaymentRepository(client, log),
		SubscriptionRepo: gormrepo.NewSubscriptionRepository(client, log),
		PlanRepo:         gormrepo.NewPlanRepository(client, log),
	}
}

func run(ctx context.Context, command string, dryRun bool, cfg *config.Configuration, log *logger.Logger, client postgres.IClient, tenants service.TenantService, plans service.PlanService) error {
	switch command {
	case "migrate":
		return postgres.Migrate(client.Querier(ctx), log)

	case "seed-plans":
		return plans.SeedDefaultPlans(ctx)

	case "deactivate-lapsed":
		report, err := tenants.DeactivateLapsed(ctx, dryRun)
		if err != nil {
			return err
		}
		log.Infow("expiry sweep finished",
			"dry_run", report.DryRun,
			"affected", report.Total,
			"checked_at", report.CheckedAt,
		)
		for _, id := range report.AffectedIDs {
			fmt.Println(id)
		}
		return nil

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func shutdownAfter(shutdowner fx.Shutdowner, err error) error {
	code := 0
	if err != nil {
		code = 1
	}
	// Give zap a beat to flush before the app exits.
	time.Sleep(10 * time.Millisecond)
	return shutdowner.Shutdown(fx.ExitCode(code))
}
