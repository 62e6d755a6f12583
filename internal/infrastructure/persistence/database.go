package persistence

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/dangreenberg93/cin7-uploader/internal/infrastructure/config"
	"github.com/dangreenberg93/cin7-uploader/internal/infrastructure/logger"
	"github.com/dangreenberg93/cin7-uploader/internal/infrastructure/persistence/models"
)

// Database wraps the gorm connection and pool configuration.
type Database struct {
	DB *gorm.DB
}

// NewDatabase opens a postgres connection and configures the pool.
func NewDatabase(cfg *config.DatabaseConfig, log *zap.Logger) (*Database, error) {
	gormCfg := &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	}
	if log != nil {
		gormCfg.Logger = logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.LogLevel))
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access connection pool: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Database{DB: db}, nil
}

// AutoMigrate creates or updates the schema for all persisted models.
func (d *Database) AutoMigrate() error {
	return d.DB.AutoMigrate(
		&models.ClientModel{},
		&models.CredentialModel{},
		&models.SettingsModel{},
		&models.TemplateModel{},
		&models.UploadModel{},
		&models.ResultModel{},
		&models.CachedCustomerModel{},
		&models.CachedProductModel{},
		&models.APILogModel{},
	)
}

// Close shuts down the underlying connection pool.
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping verifies the connection is alive.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Transaction runs fn inside a database transaction.
func (d *Database) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.DB.WithContext(ctx).Transaction(fn)
}
