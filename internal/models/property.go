package models

// PropertyType represents the kind of property
type PropertyType string

const (
	PropertyTypeApartment PropertyType = "apartment"
	PropertyTypeHouse     PropertyType = "house"
	PropertyTypeCondo     PropertyType = "condo"
	PropertyTypeTownhouse PropertyType = "townhouse"
)

// Property represents a rental property owned by a user.
// OccupiedUnits is kept within [0, Units] by the property and tenant services.
type Property struct {
	Base
	UserID        string       `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string       `gorm:"not null" json:"name"`
	Address       string       `gorm:"not null" json:"address"`
	City          string       `json:"city"`
	State         string       `json:"state"`
	ZipCode       string       `json:"zip_code"`
	Type          PropertyType `gorm:"not null" json:"type"`
	Units         int          `gorm:"not null;default:1" json:"units"`
	OccupiedUnits int          `gorm:"not null;default:0" json:"occupied_units"`
	MonthlyRent   int64        `gorm:"type:bigint;not null" json:"monthly_rent"`
	Notes         string       `json:"notes"`

	Tenants []Tenant `gorm:"-" json:"tenants,omitempty"`
}

// VacantUnits returns the number of units without an active tenant.
func (p *Property) VacantUnits() int {
	return p.Units - p.OccupiedUnits
}
