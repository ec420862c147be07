package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "rentflow/internal/errors"
	"rentflow/internal/models"
	"rentflow/internal/pagination"
	"rentflow/internal/services"
)

// --- mock maintenance service ---

type mockMaintenanceService struct {
	createRequestFn               func(userID, propertyID string, tenantID *string, title, description string, category models.MaintenanceCategory, priority models.MaintenancePriority) (*models.MaintenanceRequest, error)
	createRequestForTenantEmailFn func(email, title, description string, category models.MaintenanceCategory, priority models.MaintenancePriority) (*models.MaintenanceRequest, error)
	getUserRequestsFn             func(userID string, page pagination.PageRequest, filter services.MaintenanceFilter) (*pagination.PageResponse[models.MaintenanceRequest], error)
	getRequestsForTenantEmailFn   func(email string, page pagination.PageRequest) (*pagination.PageResponse[models.MaintenanceRequest], error)
	getRequestByIDFn              func(userID, requestID string) (*models.MaintenanceRequest, error)
	updateRequestFn               func(userID, requestID string, fields services.MaintenanceUpdateFields) (*models.MaintenanceRequest, error)
	updateStatusFn                func(userID, requestID string, status models.MaintenanceStatus) (*models.MaintenanceRequest, error)
	deleteRequestFn               func(userID, requestID string) error
}

func (m *mockMaintenanceService) CreateRequest(userID, propertyID string, tenantID *string, title, description string, category models.MaintenanceCategory, priority models.MaintenancePriority) (*models.MaintenanceRequest, error) {
	if m.createRequestFn != nil {
		return m.createRequestFn(userID, propertyID, tenantID, title, description, category, priority)
	}
	return &models.MaintenanceRequest{}, nil
}

func (m *mockMaintenanceService) CreateRequestForTenantEmail(email, title, description string, category models.MaintenanceCategory, priority models.MaintenancePriority) (*models.MaintenanceRequest, error) {
	if m.createRequestForTenantEmailFn != nil {
		return m.createRequestForTenantEmailFn(email, title, description, category, priority)
	}
	return &models.MaintenanceRequest{}, nil
}

func (m *mockMaintenanceService) GetUserRequests(userID string, page pagination.PageRequest, filter services.MaintenanceFilter) (*pagination.PageResponse[models.MaintenanceRequest], error) {
	if m.getUserRequestsFn != nil {
		return m.getUserRequestsFn(userID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.MaintenanceRequest{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockMaintenanceService) GetRequestsForTenantEmail(email string, page pagination.PageRequest) (*pagination.PageResponse[models.MaintenanceRequest], error) {
	if m.getRequestsForTenantEmailFn != nil {
		return m.getRequestsForTenantEmailFn(email, page)
	}
	resp := pagination.NewPageResponse([]models.MaintenanceRequest{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockMaintenanceService) GetRequestByID(userID, requestID string) (*models.MaintenanceRequest, error) {
	if m.getRequestByIDFn != nil {
		return m.getRequestByIDFn(userID, requestID)
	}
	return &models.MaintenanceRequest{}, nil
}

func (m *mockMaintenanceService) UpdateRequest(userID, requestID string, fields services.MaintenanceUpdateFields) (*models.MaintenanceRequest, error) {
	if m.updateRequestFn != nil {
		return m.updateRequestFn(userID, requestID, fields)
	}
	return &models.MaintenanceRequest{}, nil
}

func (m *mockMaintenanceService) UpdateStatus(userID, requestID string, status models.MaintenanceStatus) (*models.MaintenanceRequest, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(userID, requestID, status)
	}
	return &models.MaintenanceRequest{}, nil
}

func (m *mockMaintenanceService) DeleteRequest(userID, requestID string) error {
	if m.deleteRequestFn != nil {
		return m.deleteRequestFn(userID, requestID)
	}
	return nil
}

var _ services.MaintenanceServicer = (*mockMaintenanceService)(nil)

func setupMaintenanceRouter(handler *MaintenanceHandler, role models.Role) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectAuth(testUserID, testEmail, role))
	auth.POST("/maintenance", handler.CreateRequest)
	auth.GET("/maintenance", handler.GetRequests)
	auth.GET("/maintenance/:id", handler.GetRequest)
	auth.PUT("/maintenance/:id", handler.UpdateRequest)
	auth.PUT("/maintenance/:id/status", handler.UpdateStatus)
	auth.DELETE("/maintenance/:id", handler.DeleteRequest)
	return r
}

func TestMaintenanceHandler_CreateRequest(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockMaintenanceService{
			createRequestFn: func(userID, propertyID string, _ *string, title, _ string, category models.MaintenanceCategory, priority models.MaintenancePriority) (*models.MaintenanceRequest, error) {
				return &models.MaintenanceRequest{
					Base:       models.Base{ID: testRequestID},
					UserID:     userID,
					PropertyID: propertyID,
					Title:      title,
					Category:   category,
					Priority:   priority,
					Status:     models.MaintenanceStatusNew,
				}, nil
			},
		}
		handler := NewMaintenanceHandler(svc, &mockActivityService{}, &mockDashboardService{})
		r := setupMaintenanceRouter(handler, models.RoleLandlord)

		rec := doRequest(r, "POST", "/maintenance",
			`{"property_id":"`+testPropertyID+`","title":"Leaking faucet","category":"plumbing","priority":"high"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		request := result["request"].(map[string]interface{})
		if request["title"] != "Leaking faucet" {
			t.Errorf("expected Leaking faucet, got %v", request["title"])
		}
		if request["status"] != "new" {
			t.Errorf("expected new, got %v", request["status"])
		}
	})

	t.Run("landlord without property_id gets 400", func(t *testing.T) {
		handler := NewMaintenanceHandler(&mockMaintenanceService{}, &mockActivityService{}, &mockDashboardService{})
		r := setupMaintenanceRouter(handler, models.RoleLandlord)

		rec := doRequest(r, "POST", "/maintenance", `{"title":"Leaking faucet"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("tenant is resolved by email", func(t *testing.T) {
		var capturedEmail string
		svc := &mockMaintenanceService{
			createRequestForTenantEmailFn: func(email, title, _ string, _ models.MaintenanceCategory, _ models.MaintenancePriority) (*models.MaintenanceRequest, error) {
				capturedEmail = email
				return &models.MaintenanceRequest{
					Base:   models.Base{ID: testRequestID},
					UserID: testUserID,
					Title:  title,
					Status: models.MaintenanceStatusNew,
				}, nil
			},
			createRequestFn: func(_, _ string, _ *string, _, _ string, _ models.MaintenanceCategory, _ models.MaintenancePriority) (*models.MaintenanceRequest, error) {
				t.Error("tenant request must not use the landlord path")
				return nil, nil
			},
		}
		handler := NewMaintenanceHandler(svc, &mockActivityService{}, &mockDashboardService{})
		r := setupMaintenanceRouter(handler, models.RoleTenant)

		rec := doRequest(r, "POST", "/maintenance", `{"title":"Leaking faucet"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if capturedEmail != testEmail {
			t.Errorf("expected email %s, got %s", testEmail, capturedEmail)
		}
	})

	t.Run("tenant without a lease gets 404", func(t *testing.T) {
		svc := &mockMaintenanceService{
			createRequestForTenantEmailFn: func(_, _, _ string, _ models.MaintenanceCategory, _ models.MaintenancePriority) (*models.MaintenanceRequest, error) {
				return nil, apperrors.ErrTenantNotFound
			},
		}
		handler := NewMaintenanceHandler(svc, &mockActivityService{}, &mockDashboardService{})
		r := setupMaintenanceRouter(handler, models.RoleTenant)

		rec := doRequest(r, "POST", "/maintenance", `{"title":"Leaking faucet"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on unknown category", func(t *testing.T) {
		handler := NewMaintenanceHandler(&mockMaintenanceService{}, &mockActivityService{}, &mockDashboardService{})
		r := setupMaintenanceRouter(handler, models.RoleLandlord)

		rec := doRequest(r, "POST", "/maintenance",
			`{"property_id":"`+testPropertyID+`","title":"Leaking faucet","category":"gardening"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestMaintenanceHandler_GetRequests(t *testing.T) {
	t.Run("passes filters to service", func(t *testing.T) {
		var captured services.MaintenanceFilter
		svc := &mockMaintenanceService{
			getUserRequestsFn: func(_ string, _ pagination.PageRequest, filter services.MaintenanceFilter) (*pagination.PageResponse[models.MaintenanceRequest], error) {
				captured = filter
				resp := pagination.NewPageResponse([]models.MaintenanceRequest{}, 1, 20, 0)
				return &resp, nil
			},
		}
		handler := NewMaintenanceHandler(svc, &mockActivityService{}, &mockDashboardService{})
		r := setupMaintenanceRouter(handler, models.RoleLandlord)

		doRequest(r, "GET", "/maintenance?status=in_progress&priority=urgent", "")

		if captured.Status == nil || *captured.Status != models.MaintenanceStatusInProgress {
			t.Error("expected status filter to be passed")
		}
		if captured.Priority == nil || *captured.Priority != models.MaintenancePriorityUrgent {
			t.Error("expected priority filter to be passed")
		}
	})

	t.Run("returns 400 on unknown priority", func(t *testing.T) {
		handler := NewMaintenanceHandler(&mockMaintenanceService{}, &mockActivityService{}, &mockDashboardService{})
		r := setupMaintenanceRouter(handler, models.RoleLandlord)

		rec := doRequest(r, "GET", "/maintenance?priority=critical", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("tenant role is scoped by email", func(t *testing.T) {
		var capturedEmail string
		svc := &mockMaintenanceService{
			getRequestsForTenantEmailFn: func(email string, _ pagination.PageRequest) (*pagination.PageResponse[models.MaintenanceRequest], error) {
				capturedEmail = email
				resp := pagination.NewPageResponse([]models.MaintenanceRequest{}, 1, 20, 0)
				return &resp, nil
			},
		}
		handler := NewMaintenanceHandler(svc, &mockActivityService{}, &mockDashboardService{})
		r := setupMaintenanceRouter(handler, models.RoleTenant)

		rec := doRequest(r, "GET", "/maintenance", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if capturedEmail != testEmail {
			t.Errorf("expected email %s, got %s", testEmail, capturedEmail)
		}
	})
}

func TestMaintenanceHandler_UpdateStatus(t *testing.T) {
	t.Run("returns 200 on a valid transition", func(t *testing.T) {
		svc := &mockMaintenanceService{
			updateStatusFn: func(_, requestID string, status models.MaintenanceStatus) (*models.MaintenanceRequest, error) {
				return &models.MaintenanceRequest{Base: models.Base{ID: requestID}, Status: status}, nil
			},
		}
		handler := NewMaintenanceHandler(svc, &mockActivityService{}, &mockDashboardService{})
		r := setupMaintenanceRouter(handler, models.RoleLandlord)

		rec := doRequest(r, "PUT", "/maintenance/"+testRequestID+"/status", `{"status":"in_progress"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		request := result["request"].(map[string]interface{})
		if request["status"] != "in_progress" {
			t.Errorf("expected in_progress, got %v", request["status"])
		}
	})

	t.Run("returns 400 on a backward transition", func(t *testing.T) {
		svc := &mockMaintenanceService{
			updateStatusFn: func(_, _ string, _ models.MaintenanceStatus) (*models.MaintenanceRequest, error) {
				return nil, apperrors.ErrInvalidStatusChange
			},
		}
		handler := NewMaintenanceHandler(svc, &mockActivityService{}, &mockDashboardService{})
		r := setupMaintenanceRouter(handler, models.RoleLandlord)

		rec := doRequest(r, "PUT", "/maintenance/"+testRequestID+"/status", `{"status":"new"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_STATUS_CHANGE")
	})

	t.Run("returns 409 when reopening a closed request", func(t *testing.T) {
		svc := &mockMaintenanceService{
			updateStatusFn: func(_, _ string, _ models.MaintenanceStatus) (*models.MaintenanceRequest, error) {
				return nil, apperrors.ErrRequestAlreadyClosed
			},
		}
		handler := NewMaintenanceHandler(svc, &mockActivityService{}, &mockDashboardService{})
		r := setupMaintenanceRouter(handler, models.RoleLandlord)

		rec := doRequest(r, "PUT", "/maintenance/"+testRequestID+"/status", `{"status":"in_progress"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "REQUEST_ALREADY_CLOSED")
	})

	t.Run("returns 400 on unknown target status", func(t *testing.T) {
		handler := NewMaintenanceHandler(&mockMaintenanceService{}, &mockActivityService{}, &mockDashboardService{})
		r := setupMaintenanceRouter(handler, models.RoleLandlord)

		rec := doRequest(r, "PUT", "/maintenance/"+testRequestID+"/status", `{"status":"paused"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestMaintenanceHandler_UpdateRequest(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		svc := &mockMaintenanceService{
			updateRequestFn: func(_, requestID string, fields services.MaintenanceUpdateFields) (*models.MaintenanceRequest, error) {
				req := &models.MaintenanceRequest{Base: models.Base{ID: requestID}, Status: models.MaintenanceStatusNew}
				if fields.Priority != nil {
					req.Priority = *fields.Priority
				}
				return req, nil
			},
		}
		handler := NewMaintenanceHandler(svc, &mockActivityService{}, &mockDashboardService{})
		r := setupMaintenanceRouter(handler, models.RoleLandlord)

		rec := doRequest(r, "PUT", "/maintenance/"+testRequestID, `{"priority":"urgent"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		request := result["request"].(map[string]interface{})
		if request["priority"] != "urgent" {
			t.Errorf("expected urgent, got %v", request["priority"])
		}
	})

	t.Run("returns 409 when request is completed", func(t *testing.T) {
		svc := &mockMaintenanceService{
			updateRequestFn: func(_, _ string, _ services.MaintenanceUpdateFields) (*models.MaintenanceRequest, error) {
				return nil, apperrors.ErrRequestAlreadyClosed
			},
		}
		handler := NewMaintenanceHandler(svc, &mockActivityService{}, &mockDashboardService{})
		r := setupMaintenanceRouter(handler, models.RoleLandlord)

		rec := doRequest(r, "PUT", "/maintenance/"+testRequestID, `{"title":"Updated"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})
}

func TestMaintenanceHandler_DeleteRequest(t *testing.T) {
	t.Run("returns 204 on success", func(t *testing.T) {
		handler := NewMaintenanceHandler(&mockMaintenanceService{}, &mockActivityService{}, &mockDashboardService{})
		r := setupMaintenanceRouter(handler, models.RoleLandlord)

		rec := doRequest(r, "DELETE", "/maintenance/"+testRequestID, "")

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockMaintenanceService{
			deleteRequestFn: func(_, _ string) error {
				return apperrors.ErrRequestNotFound
			},
		}
		handler := NewMaintenanceHandler(svc, &mockActivityService{}, &mockDashboardService{})
		r := setupMaintenanceRouter(handler, models.RoleLandlord)

		rec := doRequest(r, "DELETE", "/maintenance/"+testRequestID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "REQUEST_NOT_FOUND")
	})
}
