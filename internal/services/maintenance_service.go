package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "rentflow/internal/errors"
	"rentflow/internal/models"
	"rentflow/internal/pagination"
)

// maintenanceService handles maintenance request business logic. The status
// workflow is one-way: new -> in_progress -> completed, with no reopening.
type maintenanceService struct {
	db *gorm.DB
}

// NewMaintenanceService creates a new MaintenanceServicer.
func NewMaintenanceService(db *gorm.DB) MaintenanceServicer {
	return &maintenanceService{db: db}
}

// CreateRequest opens a maintenance request against one of the user's
// properties. tenantID, when set, must reference a tenant of that property.
func (s *maintenanceService) CreateRequest(userID, propertyID string, tenantID *string, title, description string, category models.MaintenanceCategory, priority models.MaintenancePriority) (*models.MaintenanceRequest, error) {
	if title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "request title is required")
	}
	if category == "" {
		category = models.MaintenanceCategoryOther
	}
	if priority == "" {
		priority = models.MaintenancePriorityMedium
	}

	var property models.Property
	if err := s.db.Where("id = ? AND user_id = ?", propertyID, userID).First(&property).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPropertyNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if tenantID != nil {
		var tenant models.Tenant
		if err := s.db.Where("id = ? AND user_id = ?", *tenantID, userID).First(&tenant).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrTenantNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	request := &models.MaintenanceRequest{
		UserID:      userID,
		PropertyID:  propertyID,
		TenantID:    tenantID,
		Title:       title,
		Description: description,
		Category:    category,
		Priority:    priority,
		Status:      models.MaintenanceStatusNew,
	}

	if err := s.db.Create(request).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return request, nil
}

// CreateRequestForTenantEmail opens a request on behalf of a tenant-role
// user, resolved to their active tenant row by email. The request lands in
// the landlord's queue.
func (s *maintenanceService) CreateRequestForTenantEmail(email, title, description string, category models.MaintenanceCategory, priority models.MaintenancePriority) (*models.MaintenanceRequest, error) {
	var tenant models.Tenant
	if err := s.db.Where("email = ? AND status = ?", email, models.TenantStatusActive).
		Order("lease_end DESC").
		First(&tenant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTenantNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.CreateRequest(tenant.UserID, tenant.PropertyID, &tenant.ID, title, description, category, priority)
}

// GetUserRequests retrieves a paginated, optionally filtered request list
// ordered urgent-first, newest-first.
func (s *maintenanceService) GetUserRequests(userID string, page pagination.PageRequest, filter MaintenanceFilter) (*pagination.PageResponse[models.MaintenanceRequest], error) {
	page.Defaults()

	base := s.db.Model(&models.MaintenanceRequest{}).Where("user_id = ?", userID)
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		base = base.Where("priority = ?", *filter.Priority)
	}
	if filter.PropertyID != nil {
		base = base.Where("property_id = ?", *filter.PropertyID)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var requests []models.MaintenanceRequest
	if err := base.Order(priorityOrder).Order("created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&requests).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(requests, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// priorityOrder sorts urgent ahead of high ahead of medium ahead of low.
const priorityOrder = "CASE priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END"

// GetRequestsForTenantEmail lists requests tied to tenant rows matching the
// given email, newest first.
func (s *maintenanceService) GetRequestsForTenantEmail(email string, page pagination.PageRequest) (*pagination.PageResponse[models.MaintenanceRequest], error) {
	page.Defaults()

	base := s.db.Model(&models.MaintenanceRequest{}).
		Where("tenant_id IN (?)", s.db.Model(&models.Tenant{}).Select("id").Where("email = ?", email))

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var requests []models.MaintenanceRequest
	if err := base.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&requests).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(requests, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetRequestByID retrieves a maintenance request by ID for a specific user.
func (s *maintenanceService) GetRequestByID(userID, requestID string) (*models.MaintenanceRequest, error) {
	var request models.MaintenanceRequest
	if err := s.db.Where("id = ? AND user_id = ?", requestID, userID).First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &request, nil
}

// UpdateRequest updates descriptive fields of an open request. Completed
// requests are immutable.
func (s *maintenanceService) UpdateRequest(userID, requestID string, fields MaintenanceUpdateFields) (*models.MaintenanceRequest, error) {
	request, err := s.GetRequestByID(userID, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status == models.MaintenanceStatusCompleted {
		return nil, apperrors.ErrRequestAlreadyClosed
	}

	updates := make(map[string]interface{})
	if fields.Title != nil {
		if *fields.Title == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "request title is required")
		}
		updates["title"] = *fields.Title
	}
	if fields.Description != nil {
		updates["description"] = *fields.Description
	}
	if fields.Category != nil {
		updates["category"] = *fields.Category
	}
	if fields.Priority != nil {
		updates["priority"] = *fields.Priority
	}

	if len(updates) == 0 {
		return request, nil
	}

	if err := s.db.Model(request).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Where("id = ?", request.ID).First(request).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return request, nil
}

// UpdateStatus advances a request through the workflow. Only forward
// transitions are allowed; completing stamps CompletedAt exactly once.
func (s *maintenanceService) UpdateStatus(userID, requestID string, status models.MaintenanceStatus) (*models.MaintenanceRequest, error) {
	request, err := s.GetRequestByID(userID, requestID)
	if err != nil {
		return nil, err
	}

	if !validTransition(request.Status, status) {
		if request.Status == models.MaintenanceStatusCompleted {
			return nil, apperrors.ErrRequestAlreadyClosed
		}
		return nil, apperrors.ErrInvalidStatusChange
	}

	updates := map[string]interface{}{"status": status}
	if status == models.MaintenanceStatusCompleted {
		now := time.Now()
		updates["completed_at"] = &now
	}

	if err := s.db.Model(request).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Where("id = ?", request.ID).First(request).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return request, nil
}

func validTransition(from, to models.MaintenanceStatus) bool {
	switch from {
	case models.MaintenanceStatusNew:
		return to == models.MaintenanceStatusInProgress || to == models.MaintenanceStatusCompleted
	case models.MaintenanceStatusInProgress:
		return to == models.MaintenanceStatusCompleted
	default:
		return false
	}
}

// DeleteRequest removes a maintenance request.
func (s *maintenanceService) DeleteRequest(userID, requestID string) error {
	request, err := s.GetRequestByID(userID, requestID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(request).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
