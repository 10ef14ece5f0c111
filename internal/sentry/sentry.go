package sentry

import (
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/servicehq/servicehub/internal/config"
	"github.com/servicehq/servicehub/internal/logger"
)

const flushTimeout = 2 * time.Second

// Initialize configures the global Sentry client. Returns a flush function to
// defer at shutdown; both are no-ops when Sentry is disabled.
func Initialize(cfg *config.Configuration, log *logger.Logger) (func(), error) {
	if !cfg.Sentry.Enabled || cfg.Sentry.DSN == "" {
		log.Info("sentry disabled")
		return func() {}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.DSN,
		Environment:      cfg.Sentry.Environment,
		TracesSampleRate: cfg.Sentry.SampleRate,
		AttachStacktrace: true,
	})
	if err != nil {
		return nil, err
	}

	log.Infow("sentry initialized", "environment", cfg.Sentry.Environment)
	return func() {
		sentry.Flush(flushTimeout)
	}, nil
}

// CaptureException reports an error to Sentry when enabled.
func CaptureException(err error) {
	if err == nil {
		return
	}
	sentry.CaptureException(err)
}
