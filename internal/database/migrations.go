package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/RubachokBoss/internhub/internal/config"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
)

// Migrator накатывает схему таблицы documents для postgres-хранилища.
type Migrator struct {
	migrate *migrate.Migrate
	db      *sql.DB
	logger  zerolog.Logger
}

func NewMigrator(cfg config.DatabaseConfig, logger zerolog.Logger) (*Migrator, error) {
	db, err := NewPostgres(cfg)
	if err != nil {
		return nil, err
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(cfg.MigrationsPath, "postgres", driver)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}

	return &Migrator{migrate: m, db: db, logger: logger}, nil
}

func (m *Migrator) Up() error {
	defer m.close()
	if err := m.migrate.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	m.logVersion()
	return nil
}

func (m *Migrator) Down() error {
	defer m.close()
	if err := m.migrate.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to rollback migrations: %w", err)
	}
	return nil
}

func (m *Migrator) Force(version int) error {
	defer m.close()
	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("failed to force migration version to %d: %w", version, err)
	}
	return nil
}

func (m *Migrator) logVersion() {
	version, dirty, err := m.migrate.Version()
	if err != nil {
		return
	}
	m.logger.Info().
		Uint("version", version).
		Bool("dirty", dirty).
		Msg("Schema version")
}

func (m *Migrator) close() {
	srcErr, dbErr := m.migrate.Close()
	if srcErr != nil || dbErr != nil {
		m.logger.Warn().
			AnErr("source", srcErr).
			AnErr("database", dbErr).
			Msg("Failed to close migrator")
	}
}
