package database

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/skillOfill/razorpay-backend/internal/model"
)

// OpenTest returns an in-memory store for tests.
func OpenTest() Store {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		panic("failed to connect test database: " + err.Error())
	}
	if err := db.AutoMigrate(&model.LicenseKey{}); err != nil {
		panic("failed to migrate test database: " + err.Error())
	}
	return &gormStore{db: db}
}
