package sqlstore

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ruudy-sib/postpone/internal/port/secondary"
)

// Open connects to the database selected by driver ("postgres" or "sqlite")
// and migrates the schema.
func Open(driver, dsn string, logger *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "", "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", driver, err)
	}

	if driver == "sqlite" {
		// In-memory databases are per connection.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logger.Info("connected to database", zap.String("driver", driver))
	return db, nil
}

// Migrate creates or updates the tables used by the stores.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&delayedPost{},
		&contentURI{},
		&contentItem{},
		&postTag{},
		&postMedia{},
	); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

// HealthCheck implements secondary.HealthChecker for the database.
type HealthCheck struct {
	db *gorm.DB
}

// NewHealthCheck creates a database health checker.
func NewHealthCheck(db *gorm.DB) secondary.HealthChecker {
	return &HealthCheck{db: db}
}

// Name returns the name of this health check.
func (h *HealthCheck) Name() string {
	return "database"
}

// Check pings the database to verify connectivity.
func (h *HealthCheck) Check(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
