package models

import "time"

// ExpenseCategory tags what an expense was for
type ExpenseCategory string

const (
	ExpenseCategoryRepairs    ExpenseCategory = "repairs"
	ExpenseCategoryUtilities  ExpenseCategory = "utilities"
	ExpenseCategoryInsurance  ExpenseCategory = "insurance"
	ExpenseCategoryTaxes      ExpenseCategory = "taxes"
	ExpenseCategoryManagement ExpenseCategory = "management"
	ExpenseCategoryOther      ExpenseCategory = "other"
)

// Expense represents a cost incurred by the landlord, optionally tied to a
// property.
type Expense struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	PropertyID  *string         `gorm:"type:uuid" json:"property_id,omitempty"`
	Category    ExpenseCategory `gorm:"not null;default:'other'" json:"category"`
	Amount      int64           `gorm:"type:bigint;not null" json:"amount"`
	Date        time.Time       `gorm:"not null" json:"date"`
	Description string          `json:"description"`
	Receipt     string          `json:"receipt"`
}
