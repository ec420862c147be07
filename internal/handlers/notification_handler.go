package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rentflow/internal/services"
)

// NotificationHandler serves the notification feed.
type NotificationHandler struct {
	notificationService services.NotificationServicer
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService services.NotificationServicer) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// GetFeed handles the notification feed.
// @Summary     Get notifications
// @Description Get overdue payments, upcoming payments, and expiring leases; the badge counts overdue payments and expiring leases only
// @Tags        notifications
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.NotificationFeed "Notification feed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /notifications [get]
func (h *NotificationHandler) GetFeed(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	role, err := getUserRole(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	email, err := getUserEmail(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	feed, err := h.notificationService.GetFeed(userID, role, email)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, feed)
}
