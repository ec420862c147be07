package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"rentflow/internal/models"
	"rentflow/internal/pagination"
	"rentflow/internal/services"
)

// Health checks the API health endpoint. Unauthenticated.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil, false)
}

// TokenPair is the access/refresh pair returned by login and refresh.
type TokenPair struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         models.User `json:"user"`
}

// Login authenticates with email and password. Unauthenticated; the
// resulting tokens are handed back to the caller, not installed into the
// session source.
func (c *Client) Login(ctx context.Context, email, password string, rememberMe bool) (*TokenPair, error) {
	body := map[string]any{
		"email":       email,
		"password":    password,
		"remember_me": rememberMe,
	}
	var pair TokenPair
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", body, &pair, false); err != nil {
		return nil, err
	}
	return &pair, nil
}

// Register creates a new account. Unauthenticated.
func (c *Client) Register(ctx context.Context, email, password, firstName, lastName string, role models.Role) (*TokenPair, error) {
	body := map[string]any{
		"email":      email,
		"password":   password,
		"first_name": firstName,
		"last_name":  lastName,
		"role":       role,
	}
	var pair TokenPair
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", body, &pair, false); err != nil {
		return nil, err
	}
	return &pair, nil
}

// GetProfile fetches the authenticated user's profile.
func (c *Client) GetProfile(ctx context.Context) (*models.User, error) {
	var resp struct {
		User models.User `json:"user"`
	}
	if err := c.get(ctx, "/api/v1/profile", &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// ListProperties fetches one page of the user's properties.
func (c *Client) ListProperties(ctx context.Context, page, pageSize int) (*pagination.PageResponse[models.Property], error) {
	var resp pagination.PageResponse[models.Property]
	path := fmt.Sprintf("/api/v1/properties?page=%d&page_size=%d", page, pageSize)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateProperty adds a property to the portfolio.
func (c *Client) CreateProperty(ctx context.Context, name, address string, propertyType models.PropertyType, units int, monthlyRent int64) (*models.Property, error) {
	body := map[string]any{
		"name":         name,
		"address":      address,
		"type":         propertyType,
		"units":        units,
		"monthly_rent": monthlyRent,
	}
	var resp struct {
		Property models.Property `json:"property"`
	}
	if err := c.post(ctx, "/api/v1/properties", body, &resp); err != nil {
		return nil, err
	}
	return &resp.Property, nil
}

// DeleteProperty removes a property.
func (c *Client) DeleteProperty(ctx context.Context, propertyID string) error {
	return c.delete(ctx, "/api/v1/properties/"+propertyID)
}

// ListPayments fetches one page of payments.
func (c *Client) ListPayments(ctx context.Context, page, pageSize int) (*pagination.PageResponse[models.Payment], error) {
	var resp pagination.PageResponse[models.Payment]
	path := fmt.Sprintf("/api/v1/payments?page=%d&page_size=%d", page, pageSize)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RecordPayment applies an amount toward a payment.
func (c *Client) RecordPayment(ctx context.Context, paymentID string, amount int64, method models.PaymentMethod) (*models.Payment, error) {
	body := map[string]any{
		"amount": amount,
		"method": method,
	}
	var resp struct {
		Payment models.Payment `json:"payment"`
	}
	if err := c.post(ctx, "/api/v1/payments/"+paymentID+"/record", body, &resp); err != nil {
		return nil, err
	}
	return &resp.Payment, nil
}

// GetInvoice fetches the derived invoice for a payment. The invoice is
// decoded generically to keep the client tolerant of display changes.
func (c *Client) GetInvoice(ctx context.Context, paymentID string) (map[string]any, error) {
	var resp struct {
		Invoice map[string]any `json:"invoice"`
	}
	if err := c.get(ctx, "/api/v1/payments/"+paymentID+"/invoice", &resp); err != nil {
		return nil, err
	}
	return resp.Invoice, nil
}

// GetDashboardMetrics fetches the dashboard summary.
func (c *Client) GetDashboardMetrics(ctx context.Context) (*services.DashboardMetrics, error) {
	var resp struct {
		Metrics services.DashboardMetrics `json:"metrics"`
	}
	if err := c.get(ctx, "/api/v1/dashboard/metrics", &resp); err != nil {
		return nil, err
	}
	return &resp.Metrics, nil
}

// GetNotifications fetches the notification feed.
func (c *Client) GetNotifications(ctx context.Context) (*services.NotificationFeed, error) {
	var feed services.NotificationFeed
	if err := c.get(ctx, "/api/v1/notifications", &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

// WaitHealthy polls the health endpoint until it responds or the deadline
// passes. Used by operator tooling against freshly started servers.
func (c *Client) WaitHealthy(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		if lastErr = c.Health(ctx); lastErr == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
	return lastErr
}
