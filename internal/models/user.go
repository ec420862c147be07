package models

import "time"

// Role determines which parts of the API a user may reach.
type Role string

const (
	RoleLandlord Role = "landlord"
	RoleTenant   Role = "tenant"
)

// User represents the user model in the database
type User struct {
	Base
	Email               string     `gorm:"uniqueIndex;not null" json:"email"`
	Password            string     `gorm:"not null" json:"-"`
	FirstName           string     `json:"first_name"`
	LastName            string     `json:"last_name"`
	Role                Role       `gorm:"not null;default:'landlord'" json:"role"`
	CompanyName         string     `json:"company_name"`
	BusinessAddress     string     `json:"business_address"`
	Currency            string     `gorm:"not null;default:'USD'" json:"currency"`
	IsActive            bool       `gorm:"default:true" json:"is_active"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`

	Properties          []Property           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"properties,omitempty"`
	Tenants             []Tenant             `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"tenants,omitempty"`
	Payments            []Payment            `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`
	MaintenanceRequests []MaintenanceRequest `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"maintenance_requests,omitempty"`
	Expenses            []Expense            `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"expenses,omitempty"`
}
