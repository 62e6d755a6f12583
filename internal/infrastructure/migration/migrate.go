package migration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Migrator wraps golang-migrate with logging for the schema CLI.
type Migrator struct {
	migrate *migrate.Migrate
	log     *zap.Logger
}

// New builds a Migrator over an open postgres connection.
func New(db *sql.DB, migrationsPath string, log *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}

	return &Migrator{migrate: m, log: log}, nil
}

// Up applies all pending migrations.
func (m *Migrator) Up() error {
	err := m.migrate.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		m.log.Info("No migrations to apply")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return m.logVersion("Migrations applied")
}

// Down rolls back every applied migration.
func (m *Migrator) Down() error {
	err := m.migrate.Down()
	if errors.Is(err, migrate.ErrNoChange) {
		m.log.Info("No migrations to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	m.log.Info("All migrations rolled back")
	return nil
}

// Steps applies n migrations; negative n rolls back.
func (m *Migrator) Steps(n int) error {
	err := m.migrate.Steps(n)
	if errors.Is(err, migrate.ErrNoChange) {
		m.log.Info("No migrations to apply")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate steps(%d): %w", n, err)
	}
	return m.logVersion("Migration steps applied")
}

// GoTo migrates the schema to an exact version in either direction.
func (m *Migrator) GoTo(version uint) error {
	err := m.migrate.Migrate(version)
	if errors.Is(err, migrate.ErrNoChange) {
		m.log.Info("Already at target version", zap.Uint("version", version))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate to version %d: %w", version, err)
	}
	m.log.Info("Migrated to version", zap.Uint("version", version))
	return nil
}

// Version reports the current schema version and dirty flag. A database
// with no applied migrations reports version 0, clean.
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read migration version: %w", err)
	}
	return version, dirty, nil
}

// Force overwrites the recorded version without running migrations.
// Only for recovering a dirty schema state.
func (m *Migrator) Force(version int) error {
	m.log.Warn("Forcing migration version", zap.Int("version", version))
	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

// Drop removes every table in the database.
func (m *Migrator) Drop() error {
	m.log.Warn("Dropping all tables")
	if err := m.migrate.Drop(); err != nil {
		return fmt.Errorf("drop database: %w", err)
	}
	return nil
}

// Close releases the source and database handles.
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	if sourceErr != nil {
		return fmt.Errorf("close migration source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("close migration database: %w", dbErr)
	}
	return nil
}

func (m *Migrator) logVersion(msg string) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	m.log.Info(msg, zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}
