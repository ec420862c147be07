package services

import (
	"time"

	"gorm.io/gorm"

	"rentflow/internal/invoice"
	"rentflow/internal/models"
	"rentflow/internal/pagination"
)

// ProfileUpdateFields holds optional profile fields; nil means unchanged.
type ProfileUpdateFields struct {
	FirstName       *string
	LastName        *string
	CompanyName     *string
	BusinessAddress *string
	Currency        *string
}

// UserServicer defines the contract for user and session business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string, role models.Role) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
	UpdateProfile(userID string, fields ProfileUpdateFields) (*models.User, error)

	CreateSession(userID, refreshTokenHash string, rememberMe bool) (*models.Session, error)
	GetSession(userID, refreshTokenHash string) (*models.Session, error)
	RotateSession(sessionID, newRefreshTokenHash string) error
	RevokeSessions(userID string) error
}

// PropertyUpdateFields holds optional property fields; nil means unchanged.
type PropertyUpdateFields struct {
	Name          *string
	Address       *string
	City          *string
	State         *string
	ZipCode       *string
	Type          *models.PropertyType
	Units         *int
	OccupiedUnits *int
	MonthlyRent   *int64
	Notes         *string
}

// PropertyServicer defines the contract for property business logic.
type PropertyServicer interface {
	CreateProperty(userID, name, address, city, state, zipCode string, propertyType models.PropertyType, units int, monthlyRent int64, notes string) (*models.Property, error)
	GetUserProperties(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Property], error)
	GetPropertyByID(userID, propertyID string) (*models.Property, error)
	UpdateProperty(userID, propertyID string, fields PropertyUpdateFields) (*models.Property, error)
	DeleteProperty(userID, propertyID string) error
	AdjustOccupancy(tx *gorm.DB, userID, propertyID string, delta int) error
}

// TenantUpdateFields holds optional tenant fields; nil means unchanged.
type TenantUpdateFields struct {
	Name       *string
	Email      *string
	Phone      *string
	LeaseStart *time.Time
	LeaseEnd   *time.Time
	RentAmount *int64
}

// TenantFilter holds optional filter parameters for listing tenants.
type TenantFilter struct {
	Status     *models.TenantStatus
	PropertyID *string
}

// ExpiringLease is a tenant whose active lease ends soon, enriched with the
// property's display name.
type ExpiringLease struct {
	models.Tenant
	PropertyName string `json:"property_name"`
}

// TenantServicer defines the contract for tenant and lease business logic.
type TenantServicer interface {
	CreateTenant(userID, propertyID, name, email, phone string, leaseStart, leaseEnd time.Time, rentAmount int64, status models.TenantStatus) (*models.Tenant, error)
	GetUserTenants(userID string, page pagination.PageRequest, filter TenantFilter) (*pagination.PageResponse[models.Tenant], error)
	GetTenantByID(userID, tenantID string) (*models.Tenant, error)
	UpdateTenant(userID, tenantID string, fields TenantUpdateFields) (*models.Tenant, error)
	ActivateLease(userID, tenantID string) (*models.Tenant, error)
	EndLease(userID, tenantID string) (*models.Tenant, error)
	DeleteTenant(userID, tenantID string) error
	ListExpiringLeases(userID string, within time.Duration) ([]ExpiringLease, error)
}

// PaymentFilter holds optional filter parameters for listing payments.
type PaymentFilter struct {
	Status     *models.PaymentStatus
	TenantID   *string
	PropertyID *string
	FromDate   *time.Time
	ToDate     *time.Time
}

// PaymentUpdateFields holds optional payment fields; nil means unchanged.
// Status is absent on purpose: it is always derived.
type PaymentUpdateFields struct {
	Amount  *int64
	DueDate *time.Time
	Method  *models.PaymentMethod
	Note    *string
}

// UpcomingPayment is a payment enriched with tenant and property display
// names for dashboard and notification listings.
type UpcomingPayment struct {
	models.Payment
	TenantName   string `json:"tenant_name"`
	PropertyName string `json:"property_name"`
}

// PaymentServicer defines the contract for payment business logic.
type PaymentServicer interface {
	CreatePayment(userID, tenantID string, amount int64, dueDate time.Time, method models.PaymentMethod, note string) (*models.Payment, error)
	GetUserPayments(userID string, page pagination.PageRequest, filter PaymentFilter) (*pagination.PageResponse[models.Payment], error)
	GetPaymentsForTenantEmail(email string, page pagination.PageRequest) (*pagination.PageResponse[models.Payment], error)
	GetPaymentByID(userID, paymentID string) (*models.Payment, error)
	UpdatePayment(userID, paymentID string, fields PaymentUpdateFields) (*models.Payment, error)
	DeletePayment(userID, paymentID string) error
	RecordPayment(userID, paymentID string, amount int64, method models.PaymentMethod, note string) (*models.Payment, error)
	GetInvoice(userID, paymentID string) (*invoice.Invoice, error)
	ListUpcoming(userID string, within time.Duration) ([]UpcomingPayment, error)
	ReconcileStatuses() (int, error)
}

// MaintenanceUpdateFields holds optional maintenance request fields; nil
// means unchanged.
type MaintenanceUpdateFields struct {
	Title       *string
	Description *string
	Category    *models.MaintenanceCategory
	Priority    *models.MaintenancePriority
}

// MaintenanceFilter holds optional filter parameters for listing requests.
type MaintenanceFilter struct {
	Status     *models.MaintenanceStatus
	Priority   *models.MaintenancePriority
	PropertyID *string
}

// MaintenanceServicer defines the contract for maintenance business logic.
type MaintenanceServicer interface {
	CreateRequest(userID, propertyID string, tenantID *string, title, description string, category models.MaintenanceCategory, priority models.MaintenancePriority) (*models.MaintenanceRequest, error)
	CreateRequestForTenantEmail(email, title, description string, category models.MaintenanceCategory, priority models.MaintenancePriority) (*models.MaintenanceRequest, error)
	GetUserRequests(userID string, page pagination.PageRequest, filter MaintenanceFilter) (*pagination.PageResponse[models.MaintenanceRequest], error)
	GetRequestsForTenantEmail(email string, page pagination.PageRequest) (*pagination.PageResponse[models.MaintenanceRequest], error)
	GetRequestByID(userID, requestID string) (*models.MaintenanceRequest, error)
	UpdateRequest(userID, requestID string, fields MaintenanceUpdateFields) (*models.MaintenanceRequest, error)
	UpdateStatus(userID, requestID string, status models.MaintenanceStatus) (*models.MaintenanceRequest, error)
	DeleteRequest(userID, requestID string) error
}

// ExpenseUpdateFields holds optional expense fields; nil means unchanged.
type ExpenseUpdateFields struct {
	PropertyID  *string
	Category    *models.ExpenseCategory
	Amount      *int64
	Date        *time.Time
	Description *string
	Receipt     *string
}

// ExpenseFilter holds optional filter parameters for listing expenses.
type ExpenseFilter struct {
	PropertyID *string
	Category   *models.ExpenseCategory
	FromDate   *time.Time
	ToDate     *time.Time
}

// CategoryTotal is the total spent per expense category over a range.
type CategoryTotal struct {
	Category models.ExpenseCategory `json:"category"`
	Total    int64                  `json:"total"`
}

// ExpenseServicer defines the contract for expense business logic.
type ExpenseServicer interface {
	CreateExpense(userID string, propertyID *string, category models.ExpenseCategory, amount int64, date time.Time, description, receipt string) (*models.Expense, error)
	GetUserExpenses(userID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(userID, expenseID string) (*models.Expense, error)
	UpdateExpense(userID, expenseID string, fields ExpenseUpdateFields) (*models.Expense, error)
	DeleteExpense(userID, expenseID string) error
	GetCategoryTotals(userID string, from, to time.Time) ([]CategoryTotal, error)
}

// DashboardMetrics is the aggregate read model behind the dashboard header.
type DashboardMetrics struct {
	TotalProperties     int64   `json:"total_properties"`
	TotalUnits          int64   `json:"total_units"`
	OccupiedUnits       int64   `json:"occupied_units"`
	OccupancyRate       float64 `json:"occupancy_rate"`
	ActiveTenants       int64   `json:"active_tenants"`
	ExpectedMonthlyRent int64   `json:"expected_monthly_rent"`
	PendingPayments     int64   `json:"pending_payments"`
	PendingAmount       int64   `json:"pending_amount"`
	OverduePayments     int64   `json:"overdue_payments"`
	OverdueAmount       int64   `json:"overdue_amount"`
	OpenMaintenance     int64   `json:"open_maintenance"`
	MonthExpenses       int64   `json:"month_expenses"`
}

// RevenuePoint is one month of expected vs collected rent.
type RevenuePoint struct {
	Month     string `json:"month"` // YYYY-MM
	Expected  int64  `json:"expected"`
	Collected int64  `json:"collected"`
}

// DashboardServicer defines the contract for the dashboard read side.
// Metrics and revenue are cached per user with manual invalidation only.
type DashboardServicer interface {
	GetMetrics(userID string) (*DashboardMetrics, error)
	GetRevenue(userID string, months int) ([]RevenuePoint, error)
	GetRecentActivity(userID string, limit int) ([]models.Activity, error)
	InvalidateUser(userID string)
}

// NotificationFeed combines upcoming payments and expiring leases.
// BadgeCount counts overdue payments and expiring leases only: pending
// payments are listed but never counted.
type NotificationFeed struct {
	Overdue        []UpcomingPayment `json:"overdue"`
	Pending        []UpcomingPayment `json:"pending"`
	ExpiringLeases []ExpiringLease   `json:"expiring_leases"`
	BadgeCount     int               `json:"badge_count"`
}

// NotificationServicer defines the contract for the notifications read side.
type NotificationServicer interface {
	GetFeed(userID string, role models.Role, email string) (*NotificationFeed, error)
}

// ActivityServicer defines the contract for activity logging.
type ActivityServicer interface {
	Record(userID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
	GetRecent(userID string, limit int) ([]models.Activity, error)
}
