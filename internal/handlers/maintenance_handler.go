package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "rentflow/internal/errors"
	"rentflow/internal/models"
	"rentflow/internal/pagination"
	"rentflow/internal/services"
)

// MaintenanceHandler handles maintenance request endpoints.
type MaintenanceHandler struct {
	maintenanceService services.MaintenanceServicer
	activityService    services.ActivityServicer
	dashboardService   services.DashboardServicer
}

// NewMaintenanceHandler creates a new MaintenanceHandler.
func NewMaintenanceHandler(maintenanceService services.MaintenanceServicer, activityService services.ActivityServicer, dashboardService services.DashboardServicer) *MaintenanceHandler {
	return &MaintenanceHandler{
		maintenanceService: maintenanceService,
		activityService:    activityService,
		dashboardService:   dashboardService,
	}
}

// CreateMaintenanceRequest represents the request payload for opening a
// maintenance request. PropertyID is required for landlords and ignored for
// tenant-role users, whose property is resolved from their lease.
type CreateMaintenanceRequest struct {
	PropertyID  string                     `json:"property_id" binding:"omitempty,uuid"`
	TenantID    *string                    `json:"tenant_id" binding:"omitempty,uuid"`
	Title       string                     `json:"title" binding:"required,min=1,max=200"`
	Description string                     `json:"description" binding:"max=2000"`
	Category    models.MaintenanceCategory `json:"category" binding:"omitempty,maintenance_category"`
	Priority    models.MaintenancePriority `json:"priority" binding:"omitempty,maintenance_priority"`
}

// UpdateMaintenanceRequest represents the request payload for editing an
// open request.
type UpdateMaintenanceRequest struct {
	Title       *string                     `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string                     `json:"description" binding:"omitempty,max=2000"`
	Category    *models.MaintenanceCategory `json:"category" binding:"omitempty,maintenance_category"`
	Priority    *models.MaintenancePriority `json:"priority" binding:"omitempty,maintenance_priority"`
}

// UpdateMaintenanceStatusRequest represents the request payload for a
// workflow transition.
type UpdateMaintenanceStatusRequest struct {
	Status models.MaintenanceStatus `json:"status" binding:"required,maintenance_status"`
}

// CreateRequest handles opening a maintenance request.
// @Summary     Create a maintenance request
// @Description Open a maintenance request; tenant-role users are resolved to their active lease
// @Tags        maintenance
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateMaintenanceRequest true "Request details"
// @Success     201 {object} models.MaintenanceRequest "Request created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Property or tenant not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /maintenance [post]
func (h *MaintenanceHandler) CreateRequest(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	role, err := getUserRole(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var request *models.MaintenanceRequest
	if role == models.RoleTenant {
		email, err := getUserEmail(c)
		if err != nil {
			respondWithError(c, err)
			return
		}
		request, err = h.maintenanceService.CreateRequestForTenantEmail(email, req.Title, req.Description, req.Category, req.Priority)
		if err != nil {
			respondWithError(c, err)
			return
		}
	} else {
		if req.PropertyID == "" {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "property_id is required"))
			return
		}
		request, err = h.maintenanceService.CreateRequest(userID, req.PropertyID, req.TenantID, req.Title, req.Description, req.Category, req.Priority)
		if err != nil {
			respondWithError(c, err)
			return
		}
	}

	h.activityService.Record(request.UserID, "CREATE_MAINTENANCE", "maintenance_request", request.ID, c.ClientIP(),
		map[string]any{"title": req.Title, "priority": request.Priority})
	h.dashboardService.InvalidateUser(request.UserID)

	c.JSON(http.StatusCreated, gin.H{"request": request})
}

// GetRequests handles listing maintenance requests. Landlords see their
// queue; tenant-role users see requests tied to their lease.
// @Summary     Get maintenance requests
// @Description Get a paginated list of maintenance requests with optional filters
// @Tags        maintenance
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       status      query string false "Filter by status (new/in_progress/completed)"
// @Param       priority    query string false "Filter by priority (low/medium/high/urgent)"
// @Param       property_id query string false "Filter by property"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.MaintenanceRequest] "Paginated requests"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /maintenance [get]
func (h *MaintenanceHandler) GetRequests(c *gin.Context) {
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

	role, err := getUserRole(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if role == models.RoleTenant {
		email, err := getUserEmail(c)
		if err != nil {
			respondWithError(c, err)
			return
		}
		result, err := h.maintenanceService.GetRequestsForTenantEmail(email, page)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}

	var filter services.MaintenanceFilter
	if v := c.Query("status"); v != "" {
		status := models.MaintenanceStatus(v)
		switch status {
		case models.MaintenanceStatusNew, models.MaintenanceStatusInProgress, models.MaintenanceStatusCompleted:
			filter.Status = &status
		default:
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "status must be 'new', 'in_progress', or 'completed'"))
			return
		}
	}
	if v := c.Query("priority"); v != "" {
		priority := models.MaintenancePriority(v)
		switch priority {
		case models.MaintenancePriorityLow, models.MaintenancePriorityMedium, models.MaintenancePriorityHigh, models.MaintenancePriorityUrgent:
			filter.Priority = &priority
		default:
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "priority must be 'low', 'medium', 'high', or 'urgent'"))
			return
		}
	}
	if v := c.Query("property_id"); v != "" {
		filter.PropertyID = &v
	}

	result, err := h.maintenanceService.GetUserRequests(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetRequest handles retrieving a specific maintenance request.
// @Summary     Get maintenance request by ID
// @Description Get a specific maintenance request by ID
// @Tags        maintenance
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Request ID"
// @Success     200 {object} models.MaintenanceRequest "Request details"
// @Failure     400 {object} ErrorResponse "Invalid request ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Request not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /maintenance/{id} [get]
func (h *MaintenanceHandler) GetRequest(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	requestID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	request, err := h.maintenanceService.GetRequestByID(userID, requestID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"request": request})
}

// UpdateRequest handles editing an open maintenance request.
// @Summary     Update maintenance request
// @Description Update descriptive fields of an open request; completed requests are immutable
// @Tags        maintenance
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                   true "Request ID"
// @Param       request body UpdateMaintenanceRequest true "Fields to update"
// @Success     200 {object} models.MaintenanceRequest "Updated request"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Request not found"
// @Failure     409 {object} ErrorResponse "Request already completed"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /maintenance/{id} [put]
func (h *MaintenanceHandler) UpdateRequest(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	requestID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	request, err := h.maintenanceService.UpdateRequest(userID, requestID, services.MaintenanceUpdateFields{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activityService.Record(userID, "UPDATE_MAINTENANCE", "maintenance_request", request.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"request": request})
}

// UpdateStatus handles a workflow transition.
// @Summary     Update maintenance status
// @Description Advance a request through new -> in_progress -> completed; no reopening
// @Tags        maintenance
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                         true "Request ID"
// @Param       request body UpdateMaintenanceStatusRequest true "Target status"
// @Success     200 {object} models.MaintenanceRequest "Updated request"
// @Failure     400 {object} ErrorResponse "Invalid transition"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Request not found"
// @Failure     409 {object} ErrorResponse "Request already completed"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /maintenance/{id}/status [put]
func (h *MaintenanceHandler) UpdateStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	requestID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateMaintenanceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	request, err := h.maintenanceService.UpdateStatus(userID, requestID, req.Status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activityService.Record(userID, "UPDATE_MAINTENANCE_STATUS", "maintenance_request", request.ID, c.ClientIP(),
		map[string]any{"status": req.Status})
	h.dashboardService.InvalidateUser(userID)

	c.JSON(http.StatusOK, gin.H{"request": request})
}

// DeleteRequest handles maintenance request deletion.
// @Summary     Delete maintenance request
// @Description Delete a maintenance request
// @Tags        maintenance
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Request ID"
// @Success     204 "Request deleted"
// @Failure     400 {object} ErrorResponse "Invalid request ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Request not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /maintenance/{id} [delete]
func (h *MaintenanceHandler) DeleteRequest(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	requestID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.maintenanceService.DeleteRequest(userID, requestID); err != nil {
		respondWithError(c, err)
		return
	}

	h.activityService.Record(userID, "DELETE_MAINTENANCE", "maintenance_request", requestID, c.ClientIP(), nil)
	h.dashboardService.InvalidateUser(userID)

	c.Status(http.StatusNoContent)
}
