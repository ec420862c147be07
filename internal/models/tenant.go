package models

import "time"

// TenantStatus represents the lease lifecycle state
type TenantStatus string

const (
	TenantStatusActive  TenantStatus = "active"
	TenantStatusPending TenantStatus = "pending"
	TenantStatusEnded   TenantStatus = "ended"
)

// Tenant represents a tenant with a lease on one of the user's properties.
// PropertyID is an advisory reference: it is validated against the owner's
// properties at write time but is not a database foreign key, so the
// referenced property may have been deleted since.
type Tenant struct {
	Base
	UserID     string       `gorm:"type:uuid;not null;index" json:"user_id"`
	PropertyID string       `gorm:"type:uuid;not null;index" json:"property_id"`
	Name       string       `gorm:"not null" json:"name"`
	Email      string       `gorm:"index" json:"email"`
	Phone      string       `json:"phone"`
	LeaseStart time.Time    `gorm:"not null" json:"lease_start"`
	LeaseEnd   time.Time    `gorm:"not null" json:"lease_end"`
	RentAmount int64        `gorm:"type:bigint;not null" json:"rent_amount"`
	Status     TenantStatus `gorm:"not null;default:'pending'" json:"status"`
}

// LeaseExpiresWithin reports whether an active lease ends within d of now.
func (t *Tenant) LeaseExpiresWithin(now time.Time, d time.Duration) bool {
	return t.Status == TenantStatusActive && !t.LeaseEnd.Before(now) && t.LeaseEnd.Before(now.Add(d))
}
