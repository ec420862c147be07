package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"rentflow/internal/config"
	"rentflow/internal/database"
	"rentflow/internal/handlers"
	"rentflow/internal/logger"
	"rentflow/internal/middleware"
	"rentflow/internal/observability"
	"rentflow/internal/services"
	"rentflow/internal/validator"

	_ "rentflow/internal/docs" // Import swagger docs
)

// @title           Rentflow API
// @version         1.0
// @description     Rentflow is a property management service for landlords: properties, tenants and leases, rent payments with derived invoices, maintenance, and expenses.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Metrics registry
	metrics := observability.NewMetrics()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	propertyService := services.NewPropertyService(db)
	tenantService := services.NewTenantService(db, propertyService)
	paymentService := services.NewPaymentService(db, tenantService, userService)
	maintenanceService := services.NewMaintenanceService(db)
	expenseService := services.NewExpenseService(db)
	activityService := services.NewActivityService(db)
	dashboardService := services.NewDashboardService(db, activityService, appConfig.DashboardCacheTTL, metrics)
	notificationService := services.NewNotificationService(db, paymentService, tenantService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, activityService)
	propertyHandler := handlers.NewPropertyHandler(propertyService, activityService, dashboardService)
	tenantHandler := handlers.NewTenantHandler(tenantService, activityService, dashboardService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, activityService, dashboardService)
	maintenanceHandler := handlers.NewMaintenanceHandler(maintenanceService, activityService, dashboardService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, activityService, dashboardService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, paymentService, tenantService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Metrics(metrics))

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.POST("/auth/logout", authHandler.Logout)

	profile := protected.Group("/profile", middleware.RequireGroup(middleware.GroupProfile))
	profile.GET("", authHandler.GetProfile)
	profile.PUT("", authHandler.UpdateProfile)

	// Property routes
	properties := protected.Group("/properties", middleware.RequireGroup(middleware.GroupProperties))
	properties.POST("", propertyHandler.CreateProperty)
	properties.GET("", propertyHandler.GetProperties)
	properties.GET("/:id", propertyHandler.GetProperty)
	properties.PUT("/:id", propertyHandler.UpdateProperty)
	properties.DELETE("/:id", propertyHandler.DeleteProperty)

	// Tenant routes
	tenants := protected.Group("/tenants", middleware.RequireGroup(middleware.GroupTenants))
	tenants.POST("", tenantHandler.CreateTenant)
	tenants.GET("", tenantHandler.GetTenants)
	tenants.GET("/:id", tenantHandler.GetTenant)
	tenants.PUT("/:id", tenantHandler.UpdateTenant)
	tenants.POST("/:id/activate", tenantHandler.ActivateLease)
	tenants.POST("/:id/end-lease", tenantHandler.EndLease)
	tenants.DELETE("/:id", tenantHandler.DeleteTenant)

	// Payment routes. Reads are open to tenant-role users; writes are not.
	payments := protected.Group("/payments")
	payments.GET("", middleware.RequireGroup(middleware.GroupPaymentsRead), paymentHandler.GetPayments)
	payments.GET("/:id", middleware.RequireGroup(middleware.GroupPayments), paymentHandler.GetPayment)
	payments.GET("/:id/invoice", middleware.RequireGroup(middleware.GroupPayments), paymentHandler.GetInvoice)
	payments.POST("", middleware.RequireGroup(middleware.GroupPayments), paymentHandler.CreatePayment)
	payments.PUT("/:id", middleware.RequireGroup(middleware.GroupPayments), paymentHandler.UpdatePayment)
	payments.POST("/:id/record", middleware.RequireGroup(middleware.GroupPayments), paymentHandler.RecordPayment)
	payments.DELETE("/:id", middleware.RequireGroup(middleware.GroupPayments), paymentHandler.DeletePayment)

	// Maintenance routes. Tenant-role users may submit and read.
	maintenance := protected.Group("/maintenance")
	maintenance.POST("", middleware.RequireGroup(middleware.GroupMaintenanceSubmit), maintenanceHandler.CreateRequest)
	maintenance.GET("", middleware.RequireGroup(middleware.GroupMaintenanceRead), maintenanceHandler.GetRequests)
	maintenance.GET("/:id", middleware.RequireGroup(middleware.GroupMaintenanceManage), maintenanceHandler.GetRequest)
	maintenance.PUT("/:id", middleware.RequireGroup(middleware.GroupMaintenanceManage), maintenanceHandler.UpdateRequest)
	maintenance.PUT("/:id/status", middleware.RequireGroup(middleware.GroupMaintenanceManage), maintenanceHandler.UpdateStatus)
	maintenance.DELETE("/:id", middleware.RequireGroup(middleware.GroupMaintenanceManage), maintenanceHandler.DeleteRequest)

	// Expense routes
	expenses := protected.Group("/expenses", middleware.RequireGroup(middleware.GroupExpenses))
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/summary", expenseHandler.GetCategoryTotals)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	// Dashboard routes
	dashboard := protected.Group("/dashboard", middleware.RequireGroup(middleware.GroupDashboard))
	dashboard.GET("/metrics", dashboardHandler.GetMetrics)
	dashboard.GET("/revenue", dashboardHandler.GetRevenue)
	dashboard.GET("/activity", dashboardHandler.GetRecentActivity)
	dashboard.GET("/upcoming-payments", dashboardHandler.GetUpcomingPayments)
	dashboard.GET("/expiring-leases", dashboardHandler.GetExpiringLeases)

	// Notifications
	notifications := protected.Group("/notifications", middleware.RequireGroup(middleware.GroupNotifications))
	notifications.GET("", notificationHandler.GetFeed)

	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	log.Infof("Starting server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
