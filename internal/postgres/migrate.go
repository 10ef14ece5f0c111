package postgres

import (
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"

	ierr "github.com/servicehq/servicehub/internal/errors"
	"github.com/servicehq/servicehub/internal/logger"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrate applies all pending schema migrations embedded in the binary.
func Migrate(db *gorm.DB, log *logger.Logger) error {
	sqlDB, err := db.DB()
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to access underlying sql.DB").
			Mark(ierr.ErrDatabase)
	}

	source, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to load embedded migrations").
			Mark(ierr.ErrInternal)
	}

	driver, err := migratepg.WithInstance(sqlDB, &migratepg.Config{})
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to prepare migration driver").
			Mark(ierr.ErrDatabase)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to initialize migrator").
			Mark(ierr.ErrInternal)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return ierr.WithError(err).
			WithHint("Schema migration failed").
			Mark(ierr.ErrDatabase)
	}

	version, dirty, _ := m.Version()
	log.Infow("schema migrations applied", "version", version, "dirty", dirty)
	return nil
}
