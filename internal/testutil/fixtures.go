package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"rentflow/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter keeps fixture emails and names unique across parallel tests.
var counter atomic.Int64

// TestPassword is the plaintext password all fixture users share.
const TestPassword = "testpassword123"

// CreateTestUser creates a landlord user with a unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	n := counter.Add(1)
	return CreateTestUserWithEmail(t, db, fmt.Sprintf("user%d@example.com", n))
}

// CreateTestUserWithEmail creates a landlord user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash fixture password: %v", err)
	}

	user := &models.User{
		Email:     email,
		Password:  string(hash),
		FirstName: "Test",
		LastName:  "User",
		Role:      models.RoleLandlord,
		Currency:  "USD",
		IsActive:  true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestProperty creates a single-unit house owned by the user.
func CreateTestProperty(t *testing.T, db *gorm.DB, userID string) *models.Property {
	t.Helper()

	n := counter.Add(1)
	property := &models.Property{
		UserID:      userID,
		Name:        fmt.Sprintf("Property %d", n),
		Address:     fmt.Sprintf("%d Main Street", n),
		City:        "Springfield",
		Type:        models.PropertyTypeHouse,
		Units:       1,
		MonthlyRent: 150000,
	}
	if err := db.Create(property).Error; err != nil {
		t.Fatalf("failed to create test property: %v", err)
	}
	return property
}

// CreateTestTenant creates an active tenant with a one-year lease started
// a month ago.
func CreateTestTenant(t *testing.T, db *gorm.DB, userID, propertyID string) *models.Tenant {
	t.Helper()

	n := counter.Add(1)
	now := time.Now()
	tenant := &models.Tenant{
		UserID:     userID,
		PropertyID: propertyID,
		Name:       fmt.Sprintf("Tenant %d", n),
		Email:      fmt.Sprintf("tenant%d@example.com", n),
		LeaseStart: now.AddDate(0, -1, 0),
		LeaseEnd:   now.AddDate(0, 11, 0),
		RentAmount: 150000,
		Status:     models.TenantStatusActive,
	}
	if err := db.Create(tenant).Error; err != nil {
		t.Fatalf("failed to create test tenant: %v", err)
	}
	return tenant
}

// CreateTestPayment creates an unpaid payment of 150000 cents due at dueDate.
// Status is derived from the due date.
func CreateTestPayment(t *testing.T, db *gorm.DB, userID string, tenant *models.Tenant, dueDate time.Time) *models.Payment {
	t.Helper()

	payment := &models.Payment{
		UserID:     userID,
		TenantID:   tenant.ID,
		PropertyID: tenant.PropertyID,
		Amount:     150000,
		DueDate:    dueDate,
		Status:     models.DerivePaymentStatus(150000, 0, dueDate, time.Now()),
		Method:     models.PaymentMethodBankTransfer,
	}
	if err := db.Create(payment).Error; err != nil {
		t.Fatalf("failed to create test payment: %v", err)
	}
	return payment
}

// CreateTestMaintenanceRequest creates a new-status medium-priority request.
func CreateTestMaintenanceRequest(t *testing.T, db *gorm.DB, userID, propertyID string) *models.MaintenanceRequest {
	t.Helper()

	n := counter.Add(1)
	request := &models.MaintenanceRequest{
		UserID:     userID,
		PropertyID: propertyID,
		Title:      fmt.Sprintf("Request %d", n),
		Category:   models.MaintenanceCategoryPlumbing,
		Priority:   models.MaintenancePriorityMedium,
		Status:     models.MaintenanceStatusNew,
	}
	if err := db.Create(request).Error; err != nil {
		t.Fatalf("failed to create test maintenance request: %v", err)
	}
	return request
}

// CreateTestExpense creates a repairs expense dated today.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID string, propertyID *string) *models.Expense {
	t.Helper()

	n := counter.Add(1)
	expense := &models.Expense{
		UserID:      userID,
		PropertyID:  propertyID,
		Category:    models.ExpenseCategoryRepairs,
		Amount:      25000,
		Date:        time.Now(),
		Description: fmt.Sprintf("Expense %d", n),
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}
