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

// PaymentHandler handles rent payment requests.
type PaymentHandler struct {
	paymentService   services.PaymentServicer
	activityService  services.ActivityServicer
	dashboardService services.DashboardServicer
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService services.PaymentServicer, activityService services.ActivityServicer, dashboardService services.DashboardServicer) *PaymentHandler {
	return &PaymentHandler{
		paymentService:   paymentService,
		activityService:  activityService,
		dashboardService: dashboardService,
	}
}

// CreatePaymentRequest represents the request payload for creating a payment.
type CreatePaymentRequest struct {
	TenantID string               `json:"tenant_id" binding:"required,uuid"`
	Amount   int64                `json:"amount" binding:"required,gt=0"`
	DueDate  time.Time            `json:"due_date" binding:"required"`
	Method   models.PaymentMethod `json:"method" binding:"omitempty,payment_method"`
	Note     string               `json:"note" binding:"max=1000"`
}

// UpdatePaymentRequest represents the request payload for updating a payment.
// Status is not accepted: it is derived from amounts and the due date.
type UpdatePaymentRequest struct {
	Amount  *int64                `json:"amount" binding:"omitempty,gt=0"`
	DueDate *time.Time            `json:"due_date"`
	Method  *models.PaymentMethod `json:"method" binding:"omitempty,payment_method"`
	Note    *string               `json:"note" binding:"omitempty,max=1000"`
}

// RecordPaymentRequest represents the request payload for recording an
// amount against a payment.
type RecordPaymentRequest struct {
	Amount int64                `json:"amount" binding:"required,gt=0"`
	Method models.PaymentMethod `json:"method" binding:"omitempty,payment_method"`
	Note   string               `json:"note" binding:"max=1000"`
}

// CreatePayment handles the creation of a new payment.
// @Summary     Create a payment
// @Description Create a rent payment owed by a tenant; status is derived from the due date
// @Tags        payments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreatePaymentRequest true "Payment details"
// @Success     201 {object} models.Payment "Payment created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Tenant not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /payments [post]
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	payment, err := h.paymentService.CreatePayment(userID, req.TenantID, req.Amount, req.DueDate, req.Method, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activityService.Record(userID, "CREATE_PAYMENT", "payment", payment.ID, c.ClientIP(),
		map[string]any{"tenant_id": req.TenantID, "amount": req.Amount})
	h.dashboardService.InvalidateUser(userID)

	c.JSON(http.StatusCreated, gin.H{"payment": payment})
}

// GetPayments handles listing payments. Landlords see their portfolio;
// tenant-role users see payments owed by tenant rows matching their email.
// @Summary     Get payments
// @Description Get a paginated list of payments with optional filters
// @Tags        payments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       status      query string false "Filter by status (pending/paid/overdue)"
// @Param       tenant_id   query string false "Filter by tenant"
// @Param       property_id query string false "Filter by property"
// @Param       from        query string false "Due date lower bound (RFC 3339)"
// @Param       to          query string false "Due date upper bound (RFC 3339)"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Param       sort        query string false "Sort key: due_date, amount, paid_amount, created_at; prefix with - for descending"
// @Success     200 {object} pagination.PageResponse[models.Payment] "Paginated payments"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /payments [get]
func (h *PaymentHandler) GetPayments(c *gin.Context) {
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
		result, err := h.paymentService.GetPaymentsForTenantEmail(email, page)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}

	var filter services.PaymentFilter
	if v := c.Query("status"); v != "" {
		status := models.PaymentStatus(v)
		switch status {
		case models.PaymentStatusPending, models.PaymentStatusPaid, models.PaymentStatusOverdue:
			filter.Status = &status
		default:
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "status must be 'pending', 'paid', or 'overdue'"))
			return
		}
	}
	if v := c.Query("tenant_id"); v != "" {
		filter.TenantID = &v
	}
	if v := c.Query("property_id"); v != "" {
		filter.PropertyID = &v
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "from must be an RFC 3339 timestamp"))
			return
		}
		filter.FromDate = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "to must be an RFC 3339 timestamp"))
			return
		}
		filter.ToDate = &t
	}

	result, err := h.paymentService.GetUserPayments(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPayment handles retrieving a specific payment.
// @Summary     Get payment by ID
// @Description Get a specific payment by ID
// @Tags        payments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Payment ID"
// @Success     200 {object} models.Payment "Payment details"
// @Failure     400 {object} ErrorResponse "Invalid payment ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Payment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	paymentID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	payment, err := h.paymentService.GetPaymentByID(userID, paymentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

// UpdatePayment handles updating a payment.
// @Summary     Update payment
// @Description Update amount, due date, method, or note; status is re-derived
// @Tags        payments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Payment ID"
// @Param       request body UpdatePaymentRequest true "Fields to update"
// @Success     200 {object} models.Payment "Updated payment"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Payment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /payments/{id} [put]
func (h *PaymentHandler) UpdatePayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	paymentID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	payment, err := h.paymentService.UpdatePayment(userID, paymentID, services.PaymentUpdateFields{
		Amount:  req.Amount,
		DueDate: req.DueDate,
		Method:  req.Method,
		Note:    req.Note,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activityService.Record(userID, "UPDATE_PAYMENT", "payment", payment.ID, c.ClientIP(), nil)
	h.dashboardService.InvalidateUser(userID)

	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

// RecordPayment handles recording an amount against a payment.
// @Summary     Record a payment amount
// @Description Apply an amount toward a payment; partial amounts keep it open, full settlement stamps the paid date
// @Tags        payments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Payment ID"
// @Param       request body RecordPaymentRequest true "Amount to record"
// @Success     200 {object} models.Payment "Updated payment"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Payment not found"
// @Failure     409 {object} ErrorResponse "Payment already settled"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /payments/{id}/record [post]
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	paymentID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	payment, err := h.paymentService.RecordPayment(userID, paymentID, req.Amount, req.Method, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activityService.Record(userID, "RECORD_PAYMENT", "payment", payment.ID, c.ClientIP(),
		map[string]any{"amount": req.Amount, "status": payment.Status})
	h.dashboardService.InvalidateUser(userID)

	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

// GetInvoice handles deriving the invoice view for a payment.
// @Summary     Get payment invoice
// @Description Get the derived invoice for a payment in the owner's currency
// @Tags        payments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Payment ID"
// @Success     200 {object} invoice.Invoice "Derived invoice"
// @Failure     400 {object} ErrorResponse "Invalid payment ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Payment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /payments/{id}/invoice [get]
func (h *PaymentHandler) GetInvoice(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	paymentID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	inv, err := h.paymentService.GetInvoice(userID, paymentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoice": inv})
}

// DeletePayment handles payment deletion.
// @Summary     Delete payment
// @Description Delete a payment and its recorded history
// @Tags        payments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Payment ID"
// @Success     204 "Payment deleted"
// @Failure     400 {object} ErrorResponse "Invalid payment ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Payment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /payments/{id} [delete]
func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	paymentID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.paymentService.DeletePayment(userID, paymentID); err != nil {
		respondWithError(c, err)
		return
	}

	h.activityService.Record(userID, "DELETE_PAYMENT", "payment", paymentID, c.ClientIP(), nil)
	h.dashboardService.InvalidateUser(userID)

	c.Status(http.StatusNoContent)
}
