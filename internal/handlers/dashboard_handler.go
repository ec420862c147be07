package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "rentflow/internal/errors"
	"rentflow/internal/services"
)

// Listing windows for the dashboard side panels.
const (
	upcomingPaymentWindow = 7 * 24 * time.Hour
	expiringLeaseWindow   = 30 * 24 * time.Hour
)

// DashboardHandler handles the dashboard read endpoints.
type DashboardHandler struct {
	dashboardService services.DashboardServicer
	paymentService   services.PaymentServicer
	tenantService    services.TenantServicer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService services.DashboardServicer, paymentService services.PaymentServicer, tenantService services.TenantServicer) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		paymentService:   paymentService,
		tenantService:    tenantService,
	}
}

// GetMetrics handles the dashboard summary.
// @Summary     Get dashboard metrics
// @Description Get aggregate portfolio metrics for the authenticated user
// @Tags        dashboard
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.DashboardMetrics "Dashboard metrics"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard/metrics [get]
func (h *DashboardHandler) GetMetrics(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	metrics, err := h.dashboardService.GetMetrics(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"metrics": metrics})
}

// GetRevenue handles the revenue chart data.
// @Summary     Get revenue history
// @Description Get expected vs collected rent per month
// @Tags        dashboard
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       months query int false "Number of months (default 6, max 24)"
// @Success     200 {object} map[string][]services.RevenuePoint "Monthly revenue points"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard/revenue [get]
func (h *DashboardHandler) GetRevenue(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	months := 6
	if v := c.Query("months"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 24 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "months must be between 1 and 24"))
			return
		}
		months = n
	}

	points, err := h.dashboardService.GetRevenue(userID, months)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"revenue": points})
}

// GetRecentActivity handles the activity feed.
// @Summary     Get recent activity
// @Description Get the user's latest recorded actions
// @Tags        dashboard
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       limit query int false "Max entries (default 20, max 100)"
// @Success     200 {object} map[string][]models.Activity "Recent activity"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard/activity [get]
func (h *DashboardHandler) GetRecentActivity(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	activities, err := h.dashboardService.GetRecentActivity(userID, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"activity": activities})
}

// GetUpcomingPayments handles the upcoming payments panel.
// @Summary     Get upcoming payments
// @Description Get pending payments due within a week, plus everything overdue
// @Tags        dashboard
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]services.UpcomingPayment "Upcoming payments"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard/upcoming-payments [get]
func (h *DashboardHandler) GetUpcomingPayments(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	upcoming, err := h.paymentService.ListUpcoming(userID, upcomingPaymentWindow)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": upcoming})
}

// GetExpiringLeases handles the expiring leases panel.
// @Summary     Get expiring leases
// @Description Get active leases ending within 30 days
// @Tags        dashboard
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]services.ExpiringLease "Expiring leases"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard/expiring-leases [get]
func (h *DashboardHandler) GetExpiringLeases(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	leases, err := h.tenantService.ListExpiringLeases(userID, expiringLeaseWindow)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"leases": leases})
}
