package database

import (
	"content-restriction/internal/domain/billing"
	"content-restriction/internal/domain/catalog"
	"content-restriction/internal/domain/content"
	"content-restriction/internal/domain/users"
	"content-restriction/internal/infra/logger"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB(dsn string) {
	if dsn == "" {
		logger.Log.Fatal("DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Log.Fatal("failed to connect to database", zap.Error(err))
	}

	DB = db

	if err := DB.AutoMigrate(
		// identity
		&users.User{},

		// catalog + purchases
		&catalog.Product{},
		&catalog.PriceOption{},
		&billing.Payment{},
		&billing.PaymentItem{},

		// content
		&content.Post{},
		&content.ProtectedPost{},
	); err != nil {
		logger.Log.Fatal("AutoMigrate error", zap.Error(err))
	}

	logger.Log.Info("connected and migrated")
}
