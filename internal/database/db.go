package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/skillOfill/razorpay-backend/internal/config"
	"github.com/skillOfill/razorpay-backend/internal/model"
)

// ErrDuplicatePayment is returned by Add when another key already holds the
// payment id. Callers treat it as a duplicate webhook delivery, not a fault.
var ErrDuplicatePayment = errors.New("payment id already has a license")

// Store is the durable license-key mapping. Both backends (embedded sqlite
// file, networked Postgres) sit behind this interface; the choice is made
// once in Open and handlers never learn which one they got.
type Store interface {
	// Add upserts a record keyed on the license key itself. Re-adding the
	// same key overwrites email/order/payment and leaves created_at alone.
	Add(ctx context.Context, key, email, orderID, paymentID string) error
	// FindByPayment returns the key already issued for a payment id, or ""
	// when none exists. Used to make webhook redelivery a no-op.
	FindByPayment(ctx context.Context, paymentID string) (string, error)
	// IsValidKey reports whether the exact key exists. Blank or
	// whitespace-only input is false without touching the database.
	IsValidKey(ctx context.Context, key string) (bool, error)
	// KeyByOrder returns the key most recently issued for an order id, or
	// "" when absent.
	KeyByOrder(ctx context.Context, orderID string) (string, error)
	// EmailHasLicense reports whether any key was issued to the address,
	// trimmed and case-insensitive.
	EmailHasLicense(ctx context.Context, email string) (bool, error)
	Close() error
}

type gormStore struct {
	db *gorm.DB
}

// Open connects to the backend selected by the configuration: a URL that
// looks like Postgres opens Postgres, everything else falls back to the
// sqlite file at cfg.Path. Schema creation is implicit and idempotent.
func Open(cfg config.DatabaseConfig) (Store, error) {
	var dialector gorm.Dialector
	switch {
	case strings.HasPrefix(cfg.URL, "postgres://"), strings.HasPrefix(cfg.URL, "postgresql://"):
		dialector = postgres.Open(cfg.URL)
	default:
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
		}
		dialector = sqlite.Open(cfg.Path)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(&model.LicenseKey{}); err != nil {
		return nil, fmt.Errorf("migrate license_keys: %w", err)
	}

	return &gormStore{db: db}, nil
}

func (s *gormStore) Add(ctx context.Context, key, email, orderID, paymentID string) error {
	rec := model.LicenseKey{
		LicenseKey: key,
		Email:      email,
		OrderID:    nullable(orderID),
		PaymentID:  nullable(paymentID),
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "license_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "order_id", "payment_id"}),
	}).Create(&rec).Error
	if err != nil && isUniqueViolation(err) {
		return ErrDuplicatePayment
	}
	return err
}

func (s *gormStore) FindByPayment(ctx context.Context, paymentID string) (string, error) {
	if paymentID == "" {
		return "", nil
	}
	var rec model.LicenseKey
	err := s.db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return rec.LicenseKey, nil
}

func (s *gormStore) IsValidKey(ctx context.Context, key string) (bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return false, nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&model.LicenseKey{}).
		Where("license_key = ?", key).Count(&count).Error
	return count > 0, err
}

func (s *gormStore) KeyByOrder(ctx context.Context, orderID string) (string, error) {
	if orderID == "" {
		return "", nil
	}
	var rec model.LicenseKey
	err := s.db.WithContext(ctx).Where("order_id = ?", orderID).
		Order("created_at DESC").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return rec.LicenseKey, nil
}

func (s *gormStore) EmailHasLicense(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&model.LicenseKey{}).
		Where("LOWER(email) = ?", email).Count(&count).Error
	return count > 0, err
}

func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// isUniqueViolation matches the payment_id unique index across both
// backends. TranslateError covers most drivers; the string check catches
// sqlite messages the translation misses.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "constraint failed")
}
