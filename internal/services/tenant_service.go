package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "rentflow/internal/errors"
	"rentflow/internal/models"
	"rentflow/internal/pagination"
)

// tenantService handles tenant and lease business logic.
type tenantService struct {
	db         *gorm.DB
	properties PropertyServicer
}

// NewTenantService creates a new TenantServicer.
func NewTenantService(db *gorm.DB, properties PropertyServicer) TenantServicer {
	return &tenantService{db: db, properties: properties}
}

// tenantSortColumns is the sort allow-list for the tenant listing.
var tenantSortColumns = pagination.Sortable{
	"name":        "name",
	"lease_start": "lease_start",
	"lease_end":   "lease_end",
	"rent_amount": "rent_amount",
}

// CreateTenant creates a tenant with a lease on one of the user's
// properties. An active lease occupies a unit immediately.
func (s *tenantService) CreateTenant(userID, propertyID, name, email, phone string, leaseStart, leaseEnd time.Time, rentAmount int64, status models.TenantStatus) (*models.Tenant, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "tenant name is required")
	}
	if !leaseEnd.After(leaseStart) {
		return nil, apperrors.ErrInvalidLease
	}
	if rentAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "rent amount must be positive")
	}
	if status == "" {
		status = models.TenantStatusPending
	}

	// The property reference is advisory, but it must exist at write time.
	if _, err := s.properties.GetPropertyByID(userID, propertyID); err != nil {
		return nil, err
	}

	tenant := &models.Tenant{
		UserID:     userID,
		PropertyID: propertyID,
		Name:       name,
		Email:      email,
		Phone:      phone,
		LeaseStart: leaseStart,
		LeaseEnd:   leaseEnd,
		RentAmount: rentAmount,
		Status:     status,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(tenant).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if status == models.TenantStatusActive {
			return s.properties.AdjustOccupancy(tx, userID, propertyID, 1)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tenant, nil
}

// GetUserTenants retrieves a paginated, optionally filtered tenant list.
func (s *tenantService) GetUserTenants(userID string, page pagination.PageRequest, filter TenantFilter) (*pagination.PageResponse[models.Tenant], error) {
	page.Defaults()

	base := s.db.Model(&models.Tenant{}).Where("user_id = ?", userID)
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}
	if filter.PropertyID != nil {
		base = base.Where("property_id = ?", *filter.PropertyID)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var tenants []models.Tenant
	if err := base.Order(page.OrderClause(tenantSortColumns, "lease_end ASC")).
		Scopes(pagination.Paginate(page)).Find(&tenants).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(tenants, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTenantByID retrieves a tenant by ID for a specific user.
func (s *tenantService) GetTenantByID(userID, tenantID string) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := s.db.Where("id = ? AND user_id = ?", tenantID, userID).First(&tenant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTenantNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &tenant, nil
}

// UpdateTenant updates tenant contact and lease fields. Lifecycle changes
// go through ActivateLease/EndLease so occupancy stays correct.
func (s *tenantService) UpdateTenant(userID, tenantID string, fields TenantUpdateFields) (*models.Tenant, error) {
	tenant, err := s.GetTenantByID(userID, tenantID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Name != nil && *fields.Name != "" {
		updates["name"] = *fields.Name
	}
	if fields.Email != nil {
		updates["email"] = *fields.Email
	}
	if fields.Phone != nil {
		updates["phone"] = *fields.Phone
	}
	if fields.RentAmount != nil {
		if *fields.RentAmount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "rent amount must be positive")
		}
		updates["rent_amount"] = *fields.RentAmount
	}

	leaseStart := tenant.LeaseStart
	leaseEnd := tenant.LeaseEnd
	if fields.LeaseStart != nil {
		leaseStart = *fields.LeaseStart
		updates["lease_start"] = leaseStart
	}
	if fields.LeaseEnd != nil {
		leaseEnd = *fields.LeaseEnd
		updates["lease_end"] = leaseEnd
	}
	if !leaseEnd.After(leaseStart) {
		return nil, apperrors.ErrInvalidLease
	}

	if len(updates) > 0 {
		if err := s.db.Model(tenant).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.Where("id = ?", tenant.ID).First(tenant).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return tenant, nil
}

// ActivateLease moves a pending tenant to active and occupies a unit.
func (s *tenantService) ActivateLease(userID, tenantID string) (*models.Tenant, error) {
	tenant, err := s.GetTenantByID(userID, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant.Status == models.TenantStatusEnded {
		return nil, apperrors.ErrLeaseEnded
	}
	if tenant.Status == models.TenantStatusActive {
		return tenant, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.properties.AdjustOccupancy(tx, userID, tenant.PropertyID, 1); err != nil {
			return err
		}
		if err := tx.Model(tenant).Update("status", models.TenantStatusActive).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	tenant.Status = models.TenantStatusActive
	return tenant, nil
}

// EndLease moves a tenant to ended and frees the unit if the lease was
// active.
func (s *tenantService) EndLease(userID, tenantID string) (*models.Tenant, error) {
	tenant, err := s.GetTenantByID(userID, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant.Status == models.TenantStatusEnded {
		return nil, apperrors.ErrLeaseEnded
	}
	wasActive := tenant.Status == models.TenantStatusActive

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(tenant).Update("status", models.TenantStatusEnded).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if wasActive {
			return s.properties.AdjustOccupancy(tx, userID, tenant.PropertyID, -1)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	tenant.Status = models.TenantStatusEnded
	return tenant, nil
}

// DeleteTenant removes a tenant. Active leases must be ended first.
func (s *tenantService) DeleteTenant(userID, tenantID string) error {
	tenant, err := s.GetTenantByID(userID, tenantID)
	if err != nil {
		return err
	}
	if tenant.Status == models.TenantStatusActive {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "end the lease before deleting the tenant")
	}
	if err := s.db.Delete(tenant).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ListExpiringLeases returns active leases ending within the window,
// ordered soonest first, enriched with the property display name. The
// property name lookup tolerates the advisory reference pointing at a
// deleted property.
func (s *tenantService) ListExpiringLeases(userID string, within time.Duration) ([]ExpiringLease, error) {
	now := time.Now()
	horizon := now.Add(within)

	var tenants []models.Tenant
	if err := s.db.Where("user_id = ? AND status = ? AND lease_end >= ? AND lease_end < ?",
		userID, models.TenantStatusActive, now, horizon).
		Order("lease_end ASC").
		Find(&tenants).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	names, err := propertyNames(s.db, userID, propertyIDsOf(tenants))
	if err != nil {
		return nil, err
	}

	leases := make([]ExpiringLease, 0, len(tenants))
	for _, t := range tenants {
		leases = append(leases, ExpiringLease{Tenant: t, PropertyName: names[t.PropertyID]})
	}
	return leases, nil
}

func propertyIDsOf(tenants []models.Tenant) []string {
	seen := make(map[string]struct{}, len(tenants))
	ids := make([]string, 0, len(tenants))
	for _, t := range tenants {
		if _, ok := seen[t.PropertyID]; ok {
			continue
		}
		seen[t.PropertyID] = struct{}{}
		ids = append(ids, t.PropertyID)
	}
	return ids
}

// propertyNames batch-fetches display names for a set of property IDs.
func propertyNames(db *gorm.DB, userID string, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	type row struct {
		ID   string
		Name string
	}
	var rows []row
	if err := db.Model(&models.Property{}).
		Select("id, name").
		Where("user_id = ? AND id IN ?", userID, ids).
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, r := range rows {
		names[r.ID] = r.Name
	}
	return names, nil
}
