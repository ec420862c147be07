package services

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"rentflow/internal/cache"
	apperrors "rentflow/internal/errors"
	"rentflow/internal/models"
	"rentflow/internal/observability"
)

// dashboardService aggregates the read models behind the dashboard. Results
// are cached per user; mutations invalidate through InvalidateUser, and a
// stale entry otherwise lives until its TTL runs out.
type dashboardService struct {
	db       *gorm.DB
	activity ActivityServicer
	cache    *cache.InMemory[json.RawMessage]
	metrics  *observability.Metrics
}

// NewDashboardService creates a new DashboardServicer backed by an
// in-memory cache with the given TTL.
func NewDashboardService(db *gorm.DB, activity ActivityServicer, ttl time.Duration, metrics *observability.Metrics) DashboardServicer {
	return &dashboardService{
		db:       db,
		activity: activity,
		cache:    cache.New[json.RawMessage](ttl),
		metrics:  metrics,
	}
}

func metricsKey(userID string) string { return userID + ":metrics" }
func revenueKey(userID string, months int) string {
	return fmt.Sprintf("%s:revenue:%d", userID, months)
}

// GetMetrics returns the aggregate dashboard header numbers.
func (s *dashboardService) GetMetrics(userID string) (*DashboardMetrics, error) {
	key := metricsKey(userID)
	if raw, ok := s.cache.Get(key); ok {
		s.metrics.CacheHit("dashboard")
		var cached DashboardMetrics
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
	}
	s.metrics.CacheMiss("dashboard")

	result, err := s.computeMetrics(userID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(result); err == nil {
		s.cache.Set(key, raw)
	}
	return result, nil
}

func (s *dashboardService) computeMetrics(userID string) (*DashboardMetrics, error) {
	var m DashboardMetrics

	type propertyAgg struct {
		Count    int64
		Units    int64
		Occupied int64
	}
	var pa propertyAgg
	if err := s.db.Model(&models.Property{}).
		Select("COUNT(*) AS count, COALESCE(SUM(units), 0) AS units, COALESCE(SUM(occupied_units), 0) AS occupied").
		Where("user_id = ?", userID).
		Scan(&pa).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	m.TotalProperties = pa.Count
	m.TotalUnits = pa.Units
	m.OccupiedUnits = pa.Occupied
	if pa.Units > 0 {
		m.OccupancyRate = float64(pa.Occupied) / float64(pa.Units)
	}

	type tenantAgg struct {
		Count int64
		Rent  int64
	}
	var ta tenantAgg
	if err := s.db.Model(&models.Tenant{}).
		Select("COUNT(*) AS count, COALESCE(SUM(rent_amount), 0) AS rent").
		Where("user_id = ? AND status = ?", userID, models.TenantStatusActive).
		Scan(&ta).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	m.ActiveTenants = ta.Count
	m.ExpectedMonthlyRent = ta.Rent

	type paymentAgg struct {
		Count   int64
		Balance int64
	}
	var pending paymentAgg
	if err := s.db.Model(&models.Payment{}).
		Select("COUNT(*) AS count, COALESCE(SUM(amount - paid_amount), 0) AS balance").
		Where("user_id = ? AND status = ?", userID, models.PaymentStatusPending).
		Scan(&pending).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	m.PendingPayments = pending.Count
	m.PendingAmount = pending.Balance

	var overdue paymentAgg
	if err := s.db.Model(&models.Payment{}).
		Select("COUNT(*) AS count, COALESCE(SUM(amount - paid_amount), 0) AS balance").
		Where("user_id = ? AND status = ?", userID, models.PaymentStatusOverdue).
		Scan(&overdue).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	m.OverduePayments = overdue.Count
	m.OverdueAmount = overdue.Balance

	if err := s.db.Model(&models.MaintenanceRequest{}).
		Where("user_id = ? AND status <> ?", userID, models.MaintenanceStatusCompleted).
		Count(&m.OpenMaintenance).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	var monthExpenses struct{ Total int64 }
	if err := s.db.Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND date >= ?", userID, monthStart).
		Scan(&monthExpenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	m.MonthExpenses = monthExpenses.Total

	return &m, nil
}

// GetRevenue returns expected vs collected rent per month, oldest first,
// covering the last `months` months including the current one.
func (s *dashboardService) GetRevenue(userID string, months int) ([]RevenuePoint, error) {
	if months <= 0 || months > 24 {
		months = 6
	}

	key := revenueKey(userID, months)
	if raw, ok := s.cache.Get(key); ok {
		s.metrics.CacheHit("dashboard")
		var cached []RevenuePoint
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}
	s.metrics.CacheMiss("dashboard")

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(months - 1), 0)

	var payments []models.Payment
	if err := s.db.Where("user_id = ? AND due_date >= ?", userID, start).Find(&payments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var history []models.PaymentHistory
	if err := s.db.Where("user_id = ? AND recorded_at >= ?", userID, start).Find(&history).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Bucket in Go rather than SQL so the month arithmetic works the same
	// on postgres and the sqlite used in tests. Expected is bucketed by
	// due month; collected by the month the amount was applied.
	expected := make(map[string]int64)
	collected := make(map[string]int64)
	for _, p := range payments {
		expected[p.DueDate.Format("2006-01")] += p.Amount
	}
	for _, h := range history {
		collected[h.RecordedAt.Format("2006-01")] += h.Amount
	}

	points := make([]RevenuePoint, 0, months)
	for i := 0; i < months; i++ {
		month := start.AddDate(0, i, 0).Format("2006-01")
		points = append(points, RevenuePoint{
			Month:     month,
			Expected:  expected[month],
			Collected: collected[month],
		})
	}

	if raw, err := json.Marshal(points); err == nil {
		s.cache.Set(key, raw)
	}
	return points, nil
}

// GetRecentActivity returns the user's latest activity entries. Not cached:
// the feed must reflect writes immediately.
func (s *dashboardService) GetRecentActivity(userID string, limit int) ([]models.Activity, error) {
	return s.activity.GetRecent(userID, limit)
}

// InvalidateUser drops every cached dashboard view for the user. Called by
// handlers after any mutation of the user's data.
func (s *dashboardService) InvalidateUser(userID string) {
	s.cache.DeletePrefix(userID + ":")
}
