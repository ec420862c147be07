package models

import "time"

// PaymentHistory is an append-only record of an amount applied to a
// payment. Written in the same transaction as the payment update.
type PaymentHistory struct {
	Base
	UserID     string        `gorm:"type:uuid;not null;index" json:"user_id"`
	PaymentID  string        `gorm:"type:uuid;not null;index" json:"payment_id"`
	Amount     int64         `gorm:"type:bigint;not null" json:"amount"`
	Method     PaymentMethod `gorm:"not null" json:"method"`
	RecordedAt time.Time     `gorm:"not null" json:"recorded_at"`
	Note       string        `json:"note"`
}
