package db

import (
	"time"

	"github.com/Fi44er/usdt_topup/internal/models"
	"github.com/Fi44er/usdt_topup/utils"
	"gorm.io/driver/postgres"

	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func ConnectDb(url string, log *utils.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  url,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Error),
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Info("✅ Database connection successfully")

	log.Info("📦 Setting database connection pool...")
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetMaxOpenConns(200)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// Models lists every table owned by the service.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.PaymentRequest{},
		&models.Notification{},
		&models.Deposit{},
		&models.Operator{},
	}
}

func Migrate(db *gorm.DB, trigger bool, log *utils.Logger) error {
	if !trigger {
		log.Info("Skipping migrations")
		return nil
	}

	log.Info("📦 Migrating database...")
	// gen_random_uuid() is built in from Postgres 13, pgcrypto covers older servers
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto").Error; err != nil {
		log.Warnf("Could not create pgcrypto extension: %v", err)
	}

	if err := db.AutoMigrate(Models()...); err != nil {
		log.Errorf("✖ Failed to migrate database: %v", err)
		return err
	}

	log.Info("✅ Database migrated")
	return nil
}
