package model

import "time"

// LicenseKey is the single persisted entity: one issued key per captured
// payment. Email is intentionally not unique, one address may purchase more
// than once.
// OrderID and PaymentID are pointers so absent provider ids persist as NULL;
// the unique index on payment_id must not trip over two events without one.
type LicenseKey struct {
	LicenseKey string    `json:"license_key" gorm:"primaryKey"`
	Email      string    `json:"email" gorm:"not null;index"`
	OrderID    *string   `json:"order_id" gorm:"index"`
	PaymentID  *string   `json:"payment_id" gorm:"uniqueIndex"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName keeps the table shared with earlier deployments.
func (LicenseKey) TableName() string {
	return "license_keys"
}
