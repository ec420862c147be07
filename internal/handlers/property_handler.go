package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "rentflow/internal/errors"
	"rentflow/internal/models"
	"rentflow/internal/pagination"
	"rentflow/internal/services"
)

// PropertyHandler handles property-related requests.
type PropertyHandler struct {
	propertyService  services.PropertyServicer
	activityService  services.ActivityServicer
	dashboardService services.DashboardServicer
}

// NewPropertyHandler creates a new PropertyHandler.
func NewPropertyHandler(propertyService services.PropertyServicer, activityService services.ActivityServicer, dashboardService services.DashboardServicer) *PropertyHandler {
	return &PropertyHandler{
		propertyService:  propertyService,
		activityService:  activityService,
		dashboardService: dashboardService,
	}
}

// CreatePropertyRequest represents the request payload for creating a property.
type CreatePropertyRequest struct {
	Name        string              `json:"name" binding:"required,min=1,max=200"`
	Address     string              `json:"address" binding:"required,min=1,max=500"`
	City        string              `json:"city" binding:"max=100"`
	State       string              `json:"state" binding:"max=100"`
	ZipCode     string              `json:"zip_code" binding:"max=20"`
	Type        models.PropertyType `json:"type" binding:"required,property_type"`
	Units       int                 `json:"units" binding:"required,min=1"`
	MonthlyRent int64               `json:"monthly_rent" binding:"required,gt=0"`
	Notes       string              `json:"notes" binding:"max=2000"`
}

// UpdatePropertyRequest represents the request payload for updating a property.
type UpdatePropertyRequest struct {
	Name          *string              `json:"name" binding:"omitempty,min=1,max=200"`
	Address       *string              `json:"address" binding:"omitempty,min=1,max=500"`
	City          *string              `json:"city" binding:"omitempty,max=100"`
	State         *string              `json:"state" binding:"omitempty,max=100"`
	ZipCode       *string              `json:"zip_code" binding:"omitempty,max=20"`
	Type          *models.PropertyType `json:"type" binding:"omitempty,property_type"`
	Units         *int                 `json:"units" binding:"omitempty,min=1"`
	OccupiedUnits *int                 `json:"occupied_units" binding:"omitempty,min=0"`
	MonthlyRent   *int64               `json:"monthly_rent" binding:"omitempty,gt=0"`
	Notes         *string              `json:"notes" binding:"omitempty,max=2000"`
}

// CreateProperty handles the creation of a new property.
// @Summary     Create a property
// @Description Add a new property to the portfolio
// @Tags        properties
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreatePropertyRequest true "Property details"
// @Success     201 {object} models.Property "Property created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /properties [post]
func (h *PropertyHandler) CreateProperty(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	property, err := h.propertyService.CreateProperty(
		userID, req.Name, req.Address, req.City, req.State, req.ZipCode,
		req.Type, req.Units, req.MonthlyRent, req.Notes,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activityService.Record(userID, "CREATE_PROPERTY", "property", property.ID, c.ClientIP(),
		map[string]any{"name": req.Name, "units": req.Units})
	h.dashboardService.InvalidateUser(userID)

	c.JSON(http.StatusCreated, gin.H{"property": property})
}

// GetProperties handles listing properties for the authenticated user.
// @Summary     Get properties
// @Description Get a paginated list of properties for the authenticated user
// @Tags        properties
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Param       sort      query string false "Sort key: name, monthly_rent, created_at; prefix with - for descending"
// @Success     200 {object} pagination.PageResponse[models.Property] "Paginated properties"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /properties [get]
func (h *PropertyHandler) GetProperties(c *gin.Context) {
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

	result, err := h.propertyService.GetUserProperties(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProperty handles retrieving a specific property.
// @Summary     Get property by ID
// @Description Get a specific property by ID
// @Tags        properties
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Property ID"
// @Success     200 {object} models.Property "Property details"
// @Failure     400 {object} ErrorResponse "Invalid property ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Property not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /properties/{id} [get]
func (h *PropertyHandler) GetProperty(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	propertyID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	property, err := h.propertyService.GetPropertyByID(userID, propertyID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"property": property})
}

// UpdateProperty handles updating a property.
// @Summary     Update property
// @Description Update fields of an existing property
// @Tags        properties
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Property ID"
// @Param       request body UpdatePropertyRequest true "Fields to update"
// @Success     200 {object} models.Property "Updated property"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Property not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /properties/{id} [put]
func (h *PropertyHandler) UpdateProperty(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	propertyID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	property, err := h.propertyService.UpdateProperty(userID, propertyID, services.PropertyUpdateFields{
		Name:          req.Name,
		Address:       req.Address,
		City:          req.City,
		State:         req.State,
		ZipCode:       req.ZipCode,
		Type:          req.Type,
		Units:         req.Units,
		OccupiedUnits: req.OccupiedUnits,
		MonthlyRent:   req.MonthlyRent,
		Notes:         req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activityService.Record(userID, "UPDATE_PROPERTY", "property", property.ID, c.ClientIP(), nil)
	h.dashboardService.InvalidateUser(userID)

	c.JSON(http.StatusOK, gin.H{"property": property})
}

// DeleteProperty handles property deletion.
// @Summary     Delete property
// @Description Delete a property; fails while it still has active tenants
// @Tags        properties
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Property ID"
// @Success     204 "Property deleted"
// @Failure     400 {object} ErrorResponse "Invalid property ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Property not found"
// @Failure     409 {object} ErrorResponse "Property still occupied"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /properties/{id} [delete]
func (h *PropertyHandler) DeleteProperty(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	propertyID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.propertyService.DeleteProperty(userID, propertyID); err != nil {
		respondWithError(c, err)
		return
	}

	h.activityService.Record(userID, "DELETE_PROPERTY", "property", propertyID, c.ClientIP(), nil)
	h.dashboardService.InvalidateUser(userID)

	c.Status(http.StatusNoContent)
}
