package services

import (
	"time"

	"gorm.io/gorm"

	"rentflow/internal/models"
)

// Notification windows. Payments due within the payment window and active
// leases ending within the lease window surface in the feed.
const (
	paymentWindow = 7 * 24 * time.Hour
	leaseWindow   = 30 * 24 * time.Hour
)

// notificationService assembles the notification feed from the payment and
// tenant services. The badge counts overdue payments and expiring leases;
// pending payments appear in the feed but never in the badge.
type notificationService struct {
	db       *gorm.DB
	payments PaymentServicer
	tenants  TenantServicer
}

// NewNotificationService creates a new NotificationServicer.
func NewNotificationService(db *gorm.DB, payments PaymentServicer, tenants TenantServicer) NotificationServicer {
	return &notificationService{db: db, payments: payments, tenants: tenants}
}

// GetFeed builds the notification feed for a user. Landlords see their
// whole portfolio; tenant-role users see only payments owed by tenant rows
// matching their email, and no lease notifications.
func (s *notificationService) GetFeed(userID string, role models.Role, email string) (*NotificationFeed, error) {
	if role == models.RoleTenant {
		return s.tenantFeed(email)
	}
	return s.landlordFeed(userID)
}

func (s *notificationService) landlordFeed(userID string) (*NotificationFeed, error) {
	upcoming, err := s.payments.ListUpcoming(userID, paymentWindow)
	if err != nil {
		return nil, err
	}

	leases, err := s.tenants.ListExpiringLeases(userID, leaseWindow)
	if err != nil {
		return nil, err
	}

	feed := newFeed(upcoming)
	feed.ExpiringLeases = leases
	feed.BadgeCount = len(feed.Overdue) + len(leases)
	return feed, nil
}

func (s *notificationService) tenantFeed(email string) (*NotificationFeed, error) {
	horizon := time.Now().Add(paymentWindow)

	var payments []models.Payment
	if err := s.db.Where("tenant_id IN (?) AND status IN ? AND due_date < ?",
		s.db.Model(&models.Tenant{}).Select("id").Where("email = ?", email),
		[]models.PaymentStatus{models.PaymentStatusPending, models.PaymentStatusOverdue},
		horizon).
		Order("due_date ASC").
		Find(&payments).Error; err != nil {
		return nil, err
	}

	upcoming := make([]UpcomingPayment, 0, len(payments))
	for _, p := range payments {
		upcoming = append(upcoming, UpcomingPayment{Payment: p})
	}

	feed := newFeed(upcoming)
	feed.BadgeCount = len(feed.Overdue)
	return feed, nil
}

func newFeed(upcoming []UpcomingPayment) *NotificationFeed {
	feed := &NotificationFeed{
		Overdue:        []UpcomingPayment{},
		Pending:        []UpcomingPayment{},
		ExpiringLeases: []ExpiringLease{},
	}
	for _, p := range upcoming {
		if p.Status == models.PaymentStatusOverdue {
			feed.Overdue = append(feed.Overdue, p)
		} else {
			feed.Pending = append(feed.Pending, p)
		}
	}
	return feed
}
