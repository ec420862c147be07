package models

import "time"

// PaymentStatus represents the derived state of a payment
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusOverdue PaymentStatus = "overdue"
)

// PaymentMethod represents how a payment was (or will be) made
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCheck        PaymentMethod = "check"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodOther        PaymentMethod = "other"
)

// Payment represents a rent payment owed by a tenant. Amounts are cents.
// Status is always derived through DerivePaymentStatus; callers never set
// it directly.
type Payment struct {
	Base
	UserID     string        `gorm:"type:uuid;not null;index" json:"user_id"`
	TenantID   string        `gorm:"type:uuid;not null;index" json:"tenant_id"`
	PropertyID string        `gorm:"type:uuid;not null;index" json:"property_id"`
	Amount     int64         `gorm:"type:bigint;not null" json:"amount"`
	DueDate    time.Time     `gorm:"not null" json:"due_date"`
	PaidDate   *time.Time    `json:"paid_date,omitempty"`
	PaidAmount int64         `gorm:"type:bigint;not null;default:0" json:"paid_amount"`
	Status     PaymentStatus `gorm:"not null;default:'pending'" json:"status"`
	Method     PaymentMethod `gorm:"not null;default:'other'" json:"method"`
	Note       string        `json:"note"`
}

// Balance returns the outstanding amount in cents. Negative means the
// tenant has overpaid and holds a credit.
func (p *Payment) Balance() int64 {
	return p.Amount - p.PaidAmount
}

// DerivePaymentStatus is the single source of truth linking status to
// balance and due date: paid when nothing is outstanding, otherwise
// overdue once the due date has passed, otherwise pending.
func DerivePaymentStatus(amount, paidAmount int64, dueDate, now time.Time) PaymentStatus {
	if amount-paidAmount <= 0 {
		return PaymentStatusPaid
	}
	if dueDate.Before(truncateToDay(now)) {
		return PaymentStatusOverdue
	}
	return PaymentStatusPending
}

// truncateToDay drops the time-of-day component so a payment due today is
// pending, not overdue.
func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
