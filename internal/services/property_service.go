package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "rentflow/internal/errors"
	"rentflow/internal/models"
	"rentflow/internal/pagination"
)

// propertyService handles property-related business logic.
type propertyService struct {
	db *gorm.DB
}

// propertySortColumns is the sort allow-list for the property listing.
var propertySortColumns = pagination.Sortable{
	"name":         "name",
	"monthly_rent": "monthly_rent",
	"created_at":   "created_at",
}

// NewPropertyService creates a new PropertyServicer.
func NewPropertyService(db *gorm.DB) PropertyServicer {
	return &propertyService{db: db}
}

// CreateProperty creates a new property for a user.
func (s *propertyService) CreateProperty(userID, name, address, city, state, zipCode string, propertyType models.PropertyType, units int, monthlyRent int64, notes string) (*models.Property, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "property name is required")
	}
	if address == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "property address is required")
	}
	if units < 1 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "property must have at least one unit")
	}
	if monthlyRent <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "monthly rent must be positive")
	}

	property := &models.Property{
		UserID:      userID,
		Name:        name,
		Address:     address,
		City:        city,
		State:       state,
		ZipCode:     zipCode,
		Type:        propertyType,
		Units:       units,
		MonthlyRent: monthlyRent,
		Notes:       notes,
	}

	if err := s.db.Create(property).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return property, nil
}

// GetUserProperties retrieves a paginated list of properties for a user.
func (s *propertyService) GetUserProperties(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Property], error) {
	page.Defaults()

	base := s.db.Model(&models.Property{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var properties []models.Property
	if err := base.Order(page.OrderClause(propertySortColumns, "created_at DESC")).
		Scopes(pagination.Paginate(page)).Find(&properties).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(properties, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetPropertyByID retrieves a property by ID for a specific user.
func (s *propertyService) GetPropertyByID(userID, propertyID string) (*models.Property, error) {
	var property models.Property
	if err := s.db.Where("id = ? AND user_id = ?", propertyID, userID).First(&property).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPropertyNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &property, nil
}

// UpdateProperty updates an existing property. The occupancy invariant
// 0 <= occupied <= units is checked against the post-update values.
func (s *propertyService) UpdateProperty(userID, propertyID string, fields PropertyUpdateFields) (*models.Property, error) {
	property, err := s.GetPropertyByID(userID, propertyID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Name != nil && *fields.Name != "" {
		updates["name"] = *fields.Name
	}
	if fields.Address != nil && *fields.Address != "" {
		updates["address"] = *fields.Address
	}
	if fields.City != nil {
		updates["city"] = *fields.City
	}
	if fields.State != nil {
		updates["state"] = *fields.State
	}
	if fields.ZipCode != nil {
		updates["zip_code"] = *fields.ZipCode
	}
	if fields.Type != nil {
		updates["type"] = *fields.Type
	}
	if fields.Notes != nil {
		updates["notes"] = *fields.Notes
	}
	if fields.MonthlyRent != nil {
		if *fields.MonthlyRent <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "monthly rent must be positive")
		}
		updates["monthly_rent"] = *fields.MonthlyRent
	}

	units := property.Units
	occupied := property.OccupiedUnits
	if fields.Units != nil {
		units = *fields.Units
		updates["units"] = units
	}
	if fields.OccupiedUnits != nil {
		occupied = *fields.OccupiedUnits
		updates["occupied_units"] = occupied
	}
	if units < 1 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "property must have at least one unit")
	}
	if occupied < 0 || occupied > units {
		return nil, apperrors.ErrOccupancyExceeded
	}

	if len(updates) > 0 {
		if err := s.db.Model(property).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.Where("id = ?", property.ID).First(property).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return property, nil
}

// DeleteProperty removes a property. Properties with active tenants cannot
// be deleted.
func (s *propertyService) DeleteProperty(userID, propertyID string) error {
	property, err := s.GetPropertyByID(userID, propertyID)
	if err != nil {
		return err
	}

	var activeTenants int64
	if err := s.db.Model(&models.Tenant{}).
		Where("user_id = ? AND property_id = ? AND status = ?", userID, propertyID, models.TenantStatusActive).
		Count(&activeTenants).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if activeTenants > 0 {
		return apperrors.ErrPropertyOccupied
	}

	if err := s.db.Delete(property).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// AdjustOccupancy changes a property's occupied unit count inside an open
// transaction. Used by the tenant service when leases activate or end; the
// invariant 0 <= occupied <= units is enforced here.
func (s *propertyService) AdjustOccupancy(tx *gorm.DB, userID, propertyID string, delta int) error {
	var property models.Property
	if err := tx.Where("id = ? AND user_id = ?", propertyID, userID).First(&property).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrPropertyNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	occupied := property.OccupiedUnits + delta
	if occupied > property.Units {
		return apperrors.ErrNoVacantUnits
	}
	if occupied < 0 {
		occupied = 0
	}

	if err := tx.Model(&property).Update("occupied_units", occupied).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
