package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "rentflow/internal/errors"
	"rentflow/internal/invoice"
	"rentflow/internal/models"
	"rentflow/internal/pagination"
)

// paymentService handles payment-related business logic. Payment status is
// never accepted from callers: every write path re-derives it through
// models.DerivePaymentStatus.
type paymentService struct {
	db      *gorm.DB
	tenants TenantServicer
	users   UserServicer
}

// NewPaymentService creates a new PaymentServicer.
func NewPaymentService(db *gorm.DB, tenants TenantServicer, users UserServicer) PaymentServicer {
	return &paymentService{db: db, tenants: tenants, users: users}
}

// paymentSortColumns is the sort allow-list for the payment listings.
var paymentSortColumns = pagination.Sortable{
	"due_date":    "due_date",
	"amount":      "amount",
	"paid_amount": "paid_amount",
	"created_at":  "created_at",
}

// CreatePayment creates a rent payment owed by one of the user's tenants.
// The property reference is copied from the tenant; the initial status is
// derived from the due date.
func (s *paymentService) CreatePayment(userID, tenantID string, amount int64, dueDate time.Time, method models.PaymentMethod, note string) (*models.Payment, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "payment amount must be positive")
	}
	if method == "" {
		method = models.PaymentMethodOther
	}

	tenant, err := s.tenants.GetTenantByID(userID, tenantID)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		UserID:     userID,
		TenantID:   tenant.ID,
		PropertyID: tenant.PropertyID,
		Amount:     amount,
		DueDate:    dueDate,
		Method:     method,
		Note:       note,
		Status:     models.DerivePaymentStatus(amount, 0, dueDate, time.Now()),
	}

	if err := s.db.Create(payment).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return payment, nil
}

// GetUserPayments retrieves a paginated, optionally filtered payment list.
func (s *paymentService) GetUserPayments(userID string, page pagination.PageRequest, filter PaymentFilter) (*pagination.PageResponse[models.Payment], error) {
	page.Defaults()

	base := s.db.Model(&models.Payment{}).Where("user_id = ?", userID)
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}
	if filter.TenantID != nil {
		base = base.Where("tenant_id = ?", *filter.TenantID)
	}
	if filter.PropertyID != nil {
		base = base.Where("property_id = ?", *filter.PropertyID)
	}
	if filter.FromDate != nil {
		base = base.Where("due_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		base = base.Where("due_date <= ?", *filter.ToDate)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var payments []models.Payment
	if err := base.Order(page.OrderClause(paymentSortColumns, "due_date DESC")).
		Scopes(pagination.Paginate(page)).Find(&payments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(payments, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetPaymentsForTenantEmail lists payments owed by tenant rows matching the
// given email. Serves tenant-role users viewing their own rent history.
func (s *paymentService) GetPaymentsForTenantEmail(email string, page pagination.PageRequest) (*pagination.PageResponse[models.Payment], error) {
	page.Defaults()

	base := s.db.Model(&models.Payment{}).
		Where("tenant_id IN (?)", s.db.Model(&models.Tenant{}).Select("id").Where("email = ?", email))

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var payments []models.Payment
	if err := base.Order(page.OrderClause(paymentSortColumns, "due_date DESC")).
		Scopes(pagination.Paginate(page)).Find(&payments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(payments, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetPaymentByID retrieves a payment by ID for a specific user.
func (s *paymentService) GetPaymentByID(userID, paymentID string) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.Where("id = ? AND user_id = ?", paymentID, userID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &payment, nil
}

// UpdatePayment updates amount, due date, method, or note; the status is
// re-derived afterwards.
func (s *paymentService) UpdatePayment(userID, paymentID string, fields PaymentUpdateFields) (*models.Payment, error) {
	payment, err := s.GetPaymentByID(userID, paymentID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	amount := payment.Amount
	dueDate := payment.DueDate
	if fields.Amount != nil {
		if *fields.Amount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "payment amount must be positive")
		}
		amount = *fields.Amount
		updates["amount"] = amount
	}
	if fields.DueDate != nil {
		dueDate = *fields.DueDate
		updates["due_date"] = dueDate
	}
	if fields.Method != nil {
		updates["method"] = *fields.Method
	}
	if fields.Note != nil {
		updates["note"] = *fields.Note
	}

	updates["status"] = models.DerivePaymentStatus(amount, payment.PaidAmount, dueDate, time.Now())

	if err := s.db.Model(payment).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Where("id = ?", payment.ID).First(payment).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return payment, nil
}

// DeletePayment removes a payment and its history.
func (s *paymentService) DeletePayment(userID, paymentID string) error {
	payment, err := s.GetPaymentByID(userID, paymentID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("payment_id = ?", payment.ID).Delete(&models.PaymentHistory{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(payment).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// RecordPayment applies an amount toward a payment. Partial amounts leave
// the payment pending or overdue; reaching the full amount stamps the paid
// date; overpayment is allowed and leaves a credit balance. Settled
// payments reject further records. The history row is written in the same
// transaction.
func (s *paymentService) RecordPayment(userID, paymentID string, amount int64, method models.PaymentMethod, note string) (*models.Payment, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "recorded amount must be positive")
	}

	payment, err := s.GetPaymentByID(userID, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status == models.PaymentStatusPaid {
		return nil, apperrors.ErrPaymentSettled
	}
	if method == "" {
		method = payment.Method
	}

	now := time.Now()
	newPaid := payment.PaidAmount + amount
	newStatus := models.DerivePaymentStatus(payment.Amount, newPaid, payment.DueDate, now)

	updates := map[string]interface{}{
		"paid_amount": newPaid,
		"status":      newStatus,
		"method":      method,
	}
	// Stamp the paid date the first time the balance reaches zero.
	if newStatus == models.PaymentStatusPaid && payment.PaidDate == nil {
		updates["paid_date"] = &now
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(payment).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		history := &models.PaymentHistory{
			UserID:     userID,
			PaymentID:  payment.ID,
			Amount:     amount,
			Method:     method,
			RecordedAt: now,
			Note:       note,
		}
		if err := tx.Create(history).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Where("id = ?", payment.ID).First(payment).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return payment, nil
}

// GetInvoice derives the invoice view for a payment, formatted in the
// owner's preferred currency.
func (s *paymentService) GetInvoice(userID, paymentID string) (*invoice.Invoice, error) {
	payment, err := s.GetPaymentByID(userID, paymentID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	// Display names are best-effort: the tenant/property references are
	// advisory and may point at removed rows.
	tenantName := ""
	if tenant, err := s.tenants.GetTenantByID(userID, payment.TenantID); err == nil {
		tenantName = tenant.Name
	}
	names, err := propertyNames(s.db, userID, []string{payment.PropertyID})
	if err != nil {
		return nil, err
	}

	inv := invoice.Build(payment, tenantName, names[payment.PropertyID], user.Currency)
	return &inv, nil
}

// ListUpcoming returns pending and overdue payments due up to the horizon,
// ordered by due date. Overdue payments are included regardless of how old
// they are.
func (s *paymentService) ListUpcoming(userID string, within time.Duration) ([]UpcomingPayment, error) {
	horizon := time.Now().Add(within)

	var payments []models.Payment
	if err := s.db.Where("user_id = ? AND status IN ? AND due_date < ?",
		userID, []models.PaymentStatus{models.PaymentStatusPending, models.PaymentStatusOverdue}, horizon).
		Order("due_date ASC").
		Find(&payments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.enrichNames(userID, payments)
}

// enrichNames attaches tenant and property display names to payments.
func (s *paymentService) enrichNames(userID string, payments []models.Payment) ([]UpcomingPayment, error) {
	tenantIDs := make([]string, 0, len(payments))
	propertyIDs := make([]string, 0, len(payments))
	tenantSeen := make(map[string]struct{})
	propertySeen := make(map[string]struct{})
	for _, p := range payments {
		if _, ok := tenantSeen[p.TenantID]; !ok {
			tenantSeen[p.TenantID] = struct{}{}
			tenantIDs = append(tenantIDs, p.TenantID)
		}
		if _, ok := propertySeen[p.PropertyID]; !ok {
			propertySeen[p.PropertyID] = struct{}{}
			propertyIDs = append(propertyIDs, p.PropertyID)
		}
	}

	tenantNames := make(map[string]string, len(tenantIDs))
	if len(tenantIDs) > 0 {
		type row struct {
			ID   string
			Name string
		}
		var rows []row
		if err := s.db.Model(&models.Tenant{}).
			Select("id, name").
			Where("user_id = ? AND id IN ?", userID, tenantIDs).
			Scan(&rows).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for _, r := range rows {
			tenantNames[r.ID] = r.Name
		}
	}

	names, err := propertyNames(s.db, userID, propertyIDs)
	if err != nil {
		return nil, err
	}

	upcoming := make([]UpcomingPayment, 0, len(payments))
	for _, p := range payments {
		upcoming = append(upcoming, UpcomingPayment{
			Payment:      p,
			TenantName:   tenantNames[p.TenantID],
			PropertyName: names[p.PropertyID],
		})
	}
	return upcoming, nil
}

// ReconcileStatuses re-derives the status of every unsettled payment and
// returns how many rows were corrected. Run periodically (or via the admin
// tool) so pending payments roll over to overdue as due dates pass.
func (s *paymentService) ReconcileStatuses() (int, error) {
	now := time.Now()

	var payments []models.Payment
	if err := s.db.Where("status <> ?", models.PaymentStatusPaid).Find(&payments).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	corrected := 0
	for i := range payments {
		p := &payments[i]
		derived := models.DerivePaymentStatus(p.Amount, p.PaidAmount, p.DueDate, now)
		if derived == p.Status {
			continue
		}
		if err := s.db.Model(p).Update("status", derived).Error; err != nil {
			return corrected, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		corrected++
	}
	return corrected, nil
}
