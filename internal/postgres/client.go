package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/servicehq/servicehub/internal/config"
	ierr "github.com/servicehq/servicehub/internal/errors"
	"github.com/servicehq/servicehub/internal/logger"
	"github.com/servicehq/servicehub/internal/types"
)

// IClient is the database access surface used by repositories. Querier
// transparently returns the transaction bound to the context when one is
// open, so repository code is identical inside and outside a unit of work.
type IClient interface {
	Querier(ctx context.Context) *gorm.DB
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	LockKey(ctx context.Context, req types.LockRequest) error
	TryLockKey(ctx context.Context, key string) (bool, error)
}

type Client struct {
	db     *gorm.DB
	logger *logger.Logger
}

type txContextKey struct{}

// NewDB opens a GORM connection pool against the configured Postgres.
func NewDB(cfg *config.Configuration, log *logger.Logger) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.DBName,
		cfg.Postgres.SSLMode,
	)

	gormLogLevel := gormlogger.Warn
	if cfg.Logging.Level == "debug" {
		gormLogLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel),
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to connect to postgres").
			Mark(ierr.ErrDatabase)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to access underlying sql.DB").
			Mark(ierr.ErrDatabase)
	}
	sqlDB.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Infow("connected to postgres", "host", cfg.Postgres.Host, "dbname", cfg.Postgres.DBName)
	return db, nil
}

// NewClient wraps a GORM connection in the IClient interface.
func NewClient(db *gorm.DB, log *logger.Logger) IClient {
	return &Client{db: db, logger: log}
}

// TxFromContext returns the transaction bound to ctx, or nil.
func (c *Client) TxFromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return nil
}

// Querier returns the context transaction when inside a unit of work, and
// the shared pool otherwise.
func (c *Client) Querier(ctx context.Context) *gorm.DB {
	if tx := c.TxFromContext(ctx); tx != nil {
		return tx
	}
	return c.db.WithContext(ctx)
}

// WithTx runs fn inside a database transaction, binding the transaction to
// the context passed down. Nested calls join the outer transaction. Any error
// from fn rolls the whole unit back.
func (c *Client) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx := c.TxFromContext(ctx); tx != nil {
		return fn(ctx)
	}

	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txContextKey{}, tx)
		return fn(txCtx)
	})
}
