package models

import "time"

// MaintenancePriority represents the urgency of a maintenance request
type MaintenancePriority string

const (
	MaintenancePriorityLow    MaintenancePriority = "low"
	MaintenancePriorityMedium MaintenancePriority = "medium"
	MaintenancePriorityHigh   MaintenancePriority = "high"
	MaintenancePriorityUrgent MaintenancePriority = "urgent"
)

// MaintenanceStatus represents the workflow state of a maintenance request
type MaintenanceStatus string

const (
	MaintenanceStatusNew        MaintenanceStatus = "new"
	MaintenanceStatusInProgress MaintenanceStatus = "in_progress"
	MaintenanceStatusCompleted  MaintenanceStatus = "completed"
)

// MaintenanceCategory tags the trade a request falls under
type MaintenanceCategory string

const (
	MaintenanceCategoryPlumbing   MaintenanceCategory = "plumbing"
	MaintenanceCategoryElectrical MaintenanceCategory = "electrical"
	MaintenanceCategoryHVAC       MaintenanceCategory = "hvac"
	MaintenanceCategoryAppliance  MaintenanceCategory = "appliance"
	MaintenanceCategoryStructural MaintenanceCategory = "structural"
	MaintenanceCategoryOther      MaintenanceCategory = "other"
)

// MaintenanceRequest represents a repair or service request against a
// property. TenantID is optional: landlord-originated requests have none.
type MaintenanceRequest struct {
	Base
	UserID      string              `gorm:"type:uuid;not null;index" json:"user_id"`
	PropertyID  string              `gorm:"type:uuid;not null;index" json:"property_id"`
	TenantID    *string             `gorm:"type:uuid" json:"tenant_id,omitempty"`
	Title       string              `gorm:"not null" json:"title"`
	Description string              `json:"description"`
	Category    MaintenanceCategory `gorm:"not null;default:'other'" json:"category"`
	Priority    MaintenancePriority `gorm:"not null;default:'medium'" json:"priority"`
	Status      MaintenanceStatus   `gorm:"not null;default:'new'" json:"status"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
}
