package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "rentflow/internal/errors"
	"rentflow/internal/models"
	"rentflow/internal/pagination"
	"rentflow/internal/services"
)

// TenantHandler handles tenant and lease requests.
type TenantHandler struct {
	tenantService    services.TenantServicer
	activityService  services.ActivityServicer
	dashboardService services.DashboardServicer
}

// NewTenantHandler creates a new TenantHandler.
func NewTenantHandler(tenantService services.TenantServicer, activityService services.ActivityServicer, dashboardService services.DashboardServicer) *TenantHandler {
	return &TenantHandler{
		tenantService:    tenantService,
		activityService:  activityService,
		dashboardService: dashboardService,
	}
}

// CreateTenantRequest represents the request payload for creating a tenant.
type CreateTenantRequest struct {
	PropertyID string              `json:"property_id" binding:"required,uuid"`
	Name       string              `json:"name" binding:"required,min=1,max=200"`
	Email      string              `json:"email" binding:"required,email,max=255"`
	Phone      string              `json:"phone" binding:"max=50"`
	LeaseStart time.Time           `json:"lease_start" binding:"required"`
	LeaseEnd   time.Time           `json:"lease_end" binding:"required"`
	RentAmount int64               `json:"rent_amount" binding:"required,gt=0"`
	Status     models.TenantStatus `json:"status" binding:"omitempty,tenant_status"`
}

// UpdateTenantRequest represents the request payload for updating a tenant.
type UpdateTenantRequest struct {
	Name       *string    `json:"name" binding:"omitempty,min=1,max=200"`
	Email      *string    `json:"email" binding:"omitempty,email,max=255"`
	Phone      *string    `json:"phone" binding:"omitempty,max=50"`
	LeaseStart *time.Time `json:"lease_start"`
	LeaseEnd   *time.Time `json:"lease_end"`
	RentAmount *int64     `json:"rent_amount" binding:"omitempty,gt=0"`
}

// CreateTenant handles the creation of a new tenant.
// @Summary     Create a tenant
// @Description Add a tenant with a lease on one of the user's properties
// @Tags        tenants
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTenantRequest true "Tenant details"
// @Success     201 {object} models.Tenant "Tenant created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Property not found"
// @Failure     409 {object} ErrorResponse "No vacant units"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /tenants [post]
func (h *TenantHandler) CreateTenant(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	tenant, err := h.tenantService.CreateTenant(
		userID, req.PropertyID, req.Name, req.Email, req.Phone,
		req.LeaseStart, req.LeaseEnd, req.RentAmount, req.Status,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activityService.Record(userID, "CREATE_TENANT", "tenant", tenant.ID, c.ClientIP(),
		map[string]any{"name": req.Name, "property_id": req.PropertyID})
	h.dashboardService.InvalidateUser(userID)

	c.JSON(http.StatusCreated, gin.H{"tenant": tenant})
}

// GetTenants handles listing tenants for the authenticated user.
// @Summary     Get tenants
// @Description Get a paginated list of tenants, optionally filtered by status or property
// @Tags        tenants
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       status      query string false "Filter by status (active/pending/ended)"
// @Param       property_id query string false "Filter by property"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Param       sort        query string false "Sort key: name, lease_start, lease_end, rent_amount; prefix with - for descending"
// @Success     200 {object} pagination.PageResponse[models.Tenant] "Paginated tenants"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /tenants [get]
func (h *TenantHandler) GetTenants(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.TenantFilter
	if v := c.Query("status"); v != "" {
		status := models.TenantStatus(v)
		switch status {
		case models.TenantStatusActive, models.TenantStatusPending, models.TenantStatusEnded:
			filter.Status = &status
		default:
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "status must be 'active', 'pending', or 'ended'"))
			return
		}
	}
	if v := c.Query("property_id"); v != "" {
		filter.PropertyID = &v
	}

	result, err := h.tenantService.GetUserTenants(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTenant handles retrieving a specific tenant.
// @Summary     Get tenant by ID
// @Description Get a specific tenant by ID
// @Tags        tenants
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Tenant ID"
// @Success     200 {object} models.Tenant "Tenant details"
// @Failure     400 {object} ErrorResponse "Invalid tenant ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Tenant not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /tenants/{id} [get]
func (h *TenantHandler) GetTenant(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tenantID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	tenant, err := h.tenantService.GetTenantByID(userID, tenantID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tenant": tenant})
}

// UpdateTenant handles updating a tenant.
// @Summary     Update tenant
// @Description Update fields of an existing tenant
// @Tags        tenants
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Tenant ID"
// @Param       request body UpdateTenantRequest true "Fields to update"
// @Success     200 {object} models.Tenant "Updated tenant"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Tenant not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /tenants/{id} [put]
func (h *TenantHandler) UpdateTenant(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tenantID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	tenant, err := h.tenantService.UpdateTenant(userID, tenantID, services.TenantUpdateFields{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		LeaseStart: req.LeaseStart,
		LeaseEnd:   req.LeaseEnd,
		RentAmount: req.RentAmount,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activityService.Record(userID, "UPDATE_TENANT", "tenant", tenant.ID, c.ClientIP(), nil)
	h.dashboardService.InvalidateUser(userID)

	c.JSON(http.StatusOK, gin.H{"tenant": tenant})
}

// ActivateLease handles re-activating a tenant's lease.
// @Summary     Activate lease
// @Description Mark a tenant's lease active and occupy a unit on the property
// @Tags        tenants
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Tenant ID"
// @Success     200 {object} models.Tenant "Tenant with active lease"
// @Failure     400 {object} ErrorResponse "Invalid tenant ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Tenant not found"
// @Failure     409 {object} ErrorResponse "No vacant units"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /tenants/{id}/activate [post]
func (h *TenantHandler) ActivateLease(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tenantID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	tenant, err := h.tenantService.ActivateLease(userID, tenantID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activityService.Record(userID, "ACTIVATE_LEASE", "tenant", tenant.ID, c.ClientIP(), nil)
	h.dashboardService.InvalidateUser(userID)

	c.JSON(http.StatusOK, gin.H{"tenant": tenant})
}

// EndLease handles ending a tenant's lease.
// @Summary     End lease
// @Description Mark a tenant's lease ended and free a unit on the property
// @Tags        tenants
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Tenant ID"
// @Success     200 {object} models.Tenant "Tenant with ended lease"
// @Failure     400 {object} ErrorResponse "Invalid tenant ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Tenant not found"
// @Failure     409 {object} ErrorResponse "Lease already ended"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /tenants/{id}/end-lease [post]
func (h *TenantHandler) EndLease(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tenantID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	tenant, err := h.tenantService.EndLease(userID, tenantID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activityService.Record(userID, "END_LEASE", "tenant", tenant.ID, c.ClientIP(), nil)
	h.dashboardService.InvalidateUser(userID)

	c.JSON(http.StatusOK, gin.H{"tenant": tenant})
}

// DeleteTenant handles tenant deletion.
// @Summary     Delete tenant
// @Description Delete a tenant; active leases must be ended first
// @Tags        tenants
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Tenant ID"
// @Success     204 "Tenant deleted"
// @Failure     400 {object} ErrorResponse "Invalid tenant ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Tenant not found"
// @Failure     409 {object} ErrorResponse "Lease still active"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /tenants/{id} [delete]
func (h *TenantHandler) DeleteTenant(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tenantID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.tenantService.DeleteTenant(userID, tenantID); err != nil {
		respondWithError(c, err)
		return
	}

	h.activityService.Record(userID, "DELETE_TENANT", "tenant", tenantID, c.ClientIP(), nil)
	h.dashboardService.InvalidateUser(userID)

	c.Status(http.StatusNoContent)
}
