package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "rentflow/internal/errors"
	"rentflow/internal/models"
	"rentflow/internal/pagination"
)

// expenseService handles expense tracking business logic.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

// expenseSortColumns is the sort allow-list for the expense listing.
var expenseSortColumns = pagination.Sortable{
	"date":       "date",
	"amount":     "amount",
	"created_at": "created_at",
}

// CreateExpense records a cost, optionally tied to one of the user's
// properties.
func (s *expenseService) CreateExpense(userID string, propertyID *string, category models.ExpenseCategory, amount int64, date time.Time, description, receipt string) (*models.Expense, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "expense amount must be positive")
	}
	if category == "" {
		category = models.ExpenseCategoryOther
	}
	if date.IsZero() {
		date = time.Now()
	}

	if propertyID != nil {
		var property models.Property
		if err := s.db.Where("id = ? AND user_id = ?", *propertyID, userID).First(&property).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrPropertyNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	expense := &models.Expense{
		UserID:      userID,
		PropertyID:  propertyID,
		Category:    category,
		Amount:      amount,
		Date:        date,
		Description: description,
		Receipt:     receipt,
	}

	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return expense, nil
}

// GetUserExpenses retrieves a paginated, optionally filtered expense list,
// newest first.
func (s *expenseService) GetUserExpenses(userID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	base := s.db.Model(&models.Expense{}).Where("user_id = ?", userID)
	if filter.PropertyID != nil {
		base = base.Where("property_id = ?", *filter.PropertyID)
	}
	if filter.Category != nil {
		base = base.Where("category = ?", *filter.Category)
	}
	if filter.FromDate != nil {
		base = base.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		base = base.Where("date <= ?", *filter.ToDate)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Order(page.OrderClause(expenseSortColumns, "date DESC")).
		Scopes(pagination.Paginate(page)).Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExpenseByID retrieves an expense by ID for a specific user.
func (s *expenseService) GetExpenseByID(userID, expenseID string) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateExpense updates provided fields of an expense.
func (s *expenseService) UpdateExpense(userID, expenseID string, fields ExpenseUpdateFields) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.PropertyID != nil {
		if *fields.PropertyID != "" {
			var property models.Property
			if err := s.db.Where("id = ? AND user_id = ?", *fields.PropertyID, userID).First(&property).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, apperrors.ErrPropertyNotFound
				}
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			updates["property_id"] = *fields.PropertyID
		} else {
			updates["property_id"] = nil
		}
	}
	if fields.Category != nil {
		updates["category"] = *fields.Category
	}
	if fields.Amount != nil {
		if *fields.Amount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "expense amount must be positive")
		}
		updates["amount"] = *fields.Amount
	}
	if fields.Date != nil {
		updates["date"] = *fields.Date
	}
	if fields.Description != nil {
		updates["description"] = *fields.Description
	}
	if fields.Receipt != nil {
		updates["receipt"] = *fields.Receipt
	}

	if len(updates) == 0 {
		return expense, nil
	}

	if err := s.db.Model(expense).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Where("id = ?", expense.ID).First(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return expense, nil
}

// DeleteExpense removes an expense.
func (s *expenseService) DeleteExpense(userID, expenseID string) error {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetCategoryTotals sums expenses per category over the given date range,
// largest first. Categories with no expenses are omitted.
func (s *expenseService) GetCategoryTotals(userID string, from, to time.Time) ([]CategoryTotal, error) {
	var totals []CategoryTotal
	if err := s.db.Model(&models.Expense{}).
		Select("category, SUM(amount) AS total").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Group("category").
		Order("total DESC").
		Scan(&totals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return totals, nil
}
