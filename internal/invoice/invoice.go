// Package invoice derives a renderable invoice from a payment record.
// Everything here is a pure function of its inputs: no database access,
// no clock reads beyond what the caller passes in.
package invoice

import (
	"strings"

	"rentflow/internal/models"
)

// DefaultCurrency is used when the owning user has no currency preference.
const DefaultCurrency = "USD"

// Invoice is the derived, read-only invoice view for one payment.
type Invoice struct {
	Number       string               `json:"number"`
	PaymentID    string               `json:"payment_id"`
	TenantName   string               `json:"tenant_name"`
	PropertyName string               `json:"property_name"`
	DueDate      string               `json:"due_date"`
	PaidDate     string               `json:"paid_date,omitempty"`
	Method       models.PaymentMethod `json:"method"`

	Amount     int64 `json:"amount"`
	PaidAmount int64 `json:"paid_amount"`
	Balance    int64 `json:"balance"`

	// IsPaid follows the payment status, not the balance sign: a payment
	// marked paid renders the PAID stamp even if the arithmetic disagrees.
	IsPaid bool `json:"is_paid"`
	// IsCredit flags an overpayment; the balance renders as a credit
	// rather than an amount due.
	IsCredit bool `json:"is_credit"`

	Currency       string `json:"currency"`
	AmountDisplay  string `json:"amount_display"`
	PaidDisplay    string `json:"paid_display"`
	BalanceDisplay string `json:"balance_display"`
}

// Build derives an invoice from a payment and its display context.
// currency is the owning user's preference; empty falls back to USD.
func Build(p *models.Payment, tenantName, propertyName, currency string) Invoice {
	if currency == "" {
		currency = DefaultCurrency
	}

	balance := p.Balance()

	inv := Invoice{
		Number:         invoiceNumber(p.ID),
		PaymentID:      p.ID,
		TenantName:     tenantName,
		PropertyName:   propertyName,
		DueDate:        p.DueDate.Format("2006-01-02"),
		Method:         p.Method,
		Amount:         p.Amount,
		PaidAmount:     p.PaidAmount,
		Balance:        balance,
		IsPaid:         p.Status == models.PaymentStatusPaid,
		IsCredit:       balance < 0,
		Currency:       currency,
		AmountDisplay:  FormatMoney(p.Amount, currency),
		PaidDisplay:    FormatMoney(p.PaidAmount, currency),
		BalanceDisplay: FormatMoney(balance, currency),
	}
	if p.PaidDate != nil {
		inv.PaidDate = p.PaidDate.Format("2006-01-02")
	}
	return inv
}

// invoiceNumber builds a short human-readable reference from the payment's
// UUID: "RF-" plus the first UUID segment, uppercased.
func invoiceNumber(paymentID string) string {
	segment := paymentID
	if i := strings.IndexByte(paymentID, '-'); i > 0 {
		segment = paymentID[:i]
	}
	return "RF-" + strings.ToUpper(segment)
}
