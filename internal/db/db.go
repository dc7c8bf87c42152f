package db

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-guide-api/internal/config"
	"github.com/BruksfildServices01/tour-guide-api/internal/logger"
	"github.com/BruksfildServices01/tour-guide-api/internal/models"
)

func NewDB(cfg *config.Config, log *zap.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
		Logger:         logger.NewGormLogger(log, cfg.DBLogLevel),
	})
	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("failed to get sql.DB", zap.Error(err))
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		log.Fatal("failed to migrate", zap.Error(err))
	}

	return db
}

// Migrate creates or updates the schema. The partial index on bookings makes
// the store itself refuse a second active booking for the same guide slot.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.GuideProfile{},
		&models.Booking{},
		&models.Review{},
		&models.Message{},
		&models.AuditLog{},
	); err != nil {
		return err
	}

	return db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_active_slot
		ON bookings (guide_id, date, start_time)
		WHERE status IN ('pending', 'confirmed')
	`).Error
}
