package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"rentflow/internal/handlers"
	"rentflow/internal/logger"
	"rentflow/internal/middleware"
	"rentflow/internal/models"
	"rentflow/internal/observability"
	"rentflow/internal/services"
	"rentflow/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Session{},
		&models.Property{},
		&models.Tenant{},
		&models.Payment{},
		&models.PaymentHistory{},
		&models.MaintenanceRequest{},
		&models.Expense{},
		&models.Activity{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	metrics := observability.NewMetrics()

	// Services
	userService := services.NewUserService(db)
	propertyService := services.NewPropertyService(db)
	tenantService := services.NewTenantService(db, propertyService)
	paymentService := services.NewPaymentService(db, tenantService, userService)
	maintenanceService := services.NewMaintenanceService(db)
	expenseService := services.NewExpenseService(db)
	activityService := services.NewActivityService(db)
	dashboardService := services.NewDashboardService(db, activityService, time.Minute, metrics)
	notificationService := services.NewNotificationService(db, paymentService, tenantService)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, activityService)
	propertyHandler := handlers.NewPropertyHandler(propertyService, activityService, dashboardService)
	tenantHandler := handlers.NewTenantHandler(tenantService, activityService, dashboardService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, activityService, dashboardService)
	maintenanceHandler := handlers.NewMaintenanceHandler(maintenanceService, activityService, dashboardService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, activityService, dashboardService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, paymentService, tenantService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes with the same guard layout as production
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.POST("/auth/logout", authHandler.Logout)

	profile := protected.Group("/profile", middleware.RequireGroup(middleware.GroupProfile))
	profile.GET("", authHandler.GetProfile)
	profile.PUT("", authHandler.UpdateProfile)

	properties := protected.Group("/properties", middleware.RequireGroup(middleware.GroupProperties))
	properties.POST("", propertyHandler.CreateProperty)
	properties.GET("", propertyHandler.GetProperties)
	properties.GET("/:id", propertyHandler.GetProperty)
	properties.PUT("/:id", propertyHandler.UpdateProperty)
	properties.DELETE("/:id", propertyHandler.DeleteProperty)

	tenants := protected.Group("/tenants", middleware.RequireGroup(middleware.GroupTenants))
	tenants.POST("", tenantHandler.CreateTenant)
	tenants.GET("", tenantHandler.GetTenants)
	tenants.GET("/:id", tenantHandler.GetTenant)
	tenants.PUT("/:id", tenantHandler.UpdateTenant)
	tenants.POST("/:id/activate", tenantHandler.ActivateLease)
	tenants.POST("/:id/end-lease", tenantHandler.EndLease)
	tenants.DELETE("/:id", tenantHandler.DeleteTenant)

	payments := protected.Group("/payments")
	payments.GET("", middleware.RequireGroup(middleware.GroupPaymentsRead), paymentHandler.GetPayments)
	payments.GET("/:id", middleware.RequireGroup(middleware.GroupPayments), paymentHandler.GetPayment)
	payments.GET("/:id/invoice", middleware.RequireGroup(middleware.GroupPayments), paymentHandler.GetInvoice)
	payments.POST("", middleware.RequireGroup(middleware.GroupPayments), paymentHandler.CreatePayment)
	payments.PUT("/:id", middleware.RequireGroup(middleware.GroupPayments), paymentHandler.UpdatePayment)
	payments.POST("/:id/record", middleware.RequireGroup(middleware.GroupPayments), paymentHandler.RecordPayment)
	payments.DELETE("/:id", middleware.RequireGroup(middleware.GroupPayments), paymentHandler.DeletePayment)

	maintenance := protected.Group("/maintenance")
	maintenance.POST("", middleware.RequireGroup(middleware.GroupMaintenanceSubmit), maintenanceHandler.CreateRequest)
	maintenance.GET("", middleware.RequireGroup(middleware.GroupMaintenanceRead), maintenanceHandler.GetRequests)
	maintenance.GET("/:id", middleware.RequireGroup(middleware.GroupMaintenanceManage), maintenanceHandler.GetRequest)
	maintenance.PUT("/:id", middleware.RequireGroup(middleware.GroupMaintenanceManage), maintenanceHandler.UpdateRequest)
	maintenance.PUT("/:id/status", middleware.RequireGroup(middleware.GroupMaintenanceManage), maintenanceHandler.UpdateStatus)
	maintenance.DELETE("/:id", middleware.RequireGroup(middleware.GroupMaintenanceManage), maintenanceHandler.DeleteRequest)

	expenses := protected.Group("/expenses", middleware.RequireGroup(middleware.GroupExpenses))
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/summary", expenseHandler.GetCategoryTotals)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	dashboard := protected.Group("/dashboard", middleware.RequireGroup(middleware.GroupDashboard))
	dashboard.GET("/metrics", dashboardHandler.GetMetrics)
	dashboard.GET("/revenue", dashboardHandler.GetRevenue)
	dashboard.GET("/activity", dashboardHandler.GetRecentActivity)
	dashboard.GET("/upcoming-payments", dashboardHandler.GetUpcomingPayments)
	dashboard.GET("/expiring-leases", dashboardHandler.GetExpiringLeases)

	notifications := protected.Group("/notifications", middleware.RequireGroup(middleware.GroupNotifications))
	notifications.GET("", notificationHandler.GetFeed)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a landlord and returns the access token, refresh token, and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (accessToken, refreshToken, userID string) {
	t.Helper()
	return app.registerUserWithRole(t, email, password, "landlord")
}

// registerUserWithRole registers a user with an explicit role.
func (app *testApp) registerUserWithRole(t *testing.T, email, password, role string) (accessToken, refreshToken, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"first_name":"Test","last_name":"User","role":%q}`, email, password, role)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(string)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

// createProperty creates a property and returns its ID.
func (app *testApp) createProperty(t *testing.T, token, name string, units int) string {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"address":"12 Main St","city":"Springfield","type":"apartment","units":%d,"monthly_rent":150000}`, name, units)
	rec := app.request("POST", "/api/v1/properties", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create property failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	property := result["property"].(map[string]interface{})
	return property["id"].(string)
}

// createTenant creates a tenant on a property with a one-year lease and returns its ID.
func (app *testApp) createTenant(t *testing.T, token, propertyID, name, email string) string {
	t.Helper()
	start := time.Now().AddDate(0, 0, -30).Format(time.RFC3339)
	end := time.Now().AddDate(1, 0, 0).Format(time.RFC3339)
	body := fmt.Sprintf(`{"property_id":%q,"name":%q,"email":%q,"lease_start":%q,"lease_end":%q,"rent_amount":150000}`,
		propertyID, name, email, start, end)
	rec := app.request("POST", "/api/v1/tenants", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create tenant failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	tenant := result["tenant"].(map[string]interface{})
	return tenant["id"].(string)
}

// activateLease moves a tenant from pending to active.
func (app *testApp) activateLease(t *testing.T, token, tenantID string) {
	t.Helper()
	rec := app.request("POST", "/api/v1/tenants/"+tenantID+"/activate", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("activate lease failed: %d %s", rec.Code, rec.Body.String())
	}
}

// createPayment creates a payment due in the given number of days and returns its ID.
func (app *testApp) createPayment(t *testing.T, token, tenantID string, amount int64, dueInDays int) string {
	t.Helper()
	due := time.Now().AddDate(0, 0, dueInDays).Format(time.RFC3339)
	body := fmt.Sprintf(`{"tenant_id":%q,"amount":%d,"due_date":%q}`, tenantID, amount, due)
	rec := app.request("POST", "/api/v1/payments", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create payment failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	payment := result["payment"].(map[string]interface{})
	return payment["id"].(string)
}

// assertErrorCode checks the structured error envelope carries the given code.
func assertErrorCode(t *testing.T, rec *httptest.ResponseRecorder, code string) {
	t.Helper()
	result := parseJSON(t, rec)
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error envelope, got: %s", rec.Body.String())
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %s, got %v", code, errObj["code"])
	}
}
