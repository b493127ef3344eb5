// internal/database/connection.go
package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/omstudio/studio-ops/internal/config"
	"github.com/omstudio/studio-ops/internal/models"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	gormConfig := &gorm.Config{
		Logger: NewLogrusGormLogger(
			logrus.WithField("component", "gorm"),
			cfg.LogLevel,
			time.Duration(cfg.SlowQueryMS)*time.Millisecond,
		),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	}

	// Connect to database
	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, fmt.Errorf("failed to register tracing plugin: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	if cfg.Driver == config.DriverSQLite {
		// SQLite has a single writer; one connection keeps transactions from
		// tripping over SQLITE_BUSY and keeps in-memory databases alive.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)
	}

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.WithField("driver", cfg.Driver).Info("Database connection established successfully")
	return db, nil
}

func openDialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	} else {
		logrus.Info("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.AssetPacket{},
		&models.AssetSequence{},
		&models.Shareholder{},
		&models.CapTablePool{},
		&models.Employee{},
		&models.ContractRecord{},
		&models.Receipt{},
		&models.AuditLogEntry{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logrus.Info("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_asset_packets_division_status ON asset_packets(division_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_asset_packets_created_at ON asset_packets(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_shareholders_type_grant ON shareholders(type, grant_date DESC)",
		"CREATE INDEX IF NOT EXISTS idx_contract_records_asset_date ON contract_records(asset_id, date DESC)",
		"CREATE INDEX IF NOT EXISTS idx_receipts_asset_date ON receipts(asset_id, date DESC)",
		"CREATE INDEX IF NOT EXISTS idx_audit_log_entries_timeline ON audit_log_entries(timestamp DESC, id DESC)",
		"CREATE INDEX IF NOT EXISTS idx_audit_log_entries_target ON audit_log_entries(target_type, target_id)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			logrus.WithError(err).WithField("index", index).Warn("Failed to create index")
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// SeedInitialData creates the singleton cap table pool and the per-division
// asset sequences. Existing rows are left untouched.
func SeedInitialData(db *gorm.DB, capTable config.CapTableConfig) error {
	logrus.Info("Seeding initial data...")

	return WithTransaction(db, func(tx *gorm.DB) error {
		pool := models.CapTablePool{
			ID:                    models.CapTablePoolID,
			TotalAuthorizedShares: capTable.TotalAuthorizedShares,
			FounderShares:         capTable.FounderShares,
			PoolShares:            capTable.PoolShares,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&pool).Error; err != nil {
			return fmt.Errorf("failed to seed cap table pool: %w", err)
		}

		for _, division := range models.Divisions() {
			seq := models.AssetSequence{DivisionID: division}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seq).Error; err != nil {
				return fmt.Errorf("failed to seed asset sequence %s: %w", division, err)
			}
		}

		logrus.Info("Initial data seeding completed")
		return nil
	})
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil && !errors.Is(rbErr, gorm.ErrInvalidTransaction) {
			logrus.WithError(rbErr).Error("Rollback failed")
		}
		return err
	}

	return tx.Commit().Error
}
