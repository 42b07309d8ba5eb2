// ABOUTME: Wire payloads for the remote customers, debts and payments tables
// ABOUTME: Strips local-only fields and renders instants as ISO-8601 strings

package sync

import (
	"time"

	"github.com/harperreed/daftar/models"
	"github.com/shopspring/decimal"
)

// Remote table names.
const (
	TableCustomers = "customers"
	TableDebts     = "debts"
	TablePayments  = "payments"
)

// WireTimeFormat is ISO-8601 with millisecond precision, matching the
// precision of the ledger's instants.
const WireTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// CustomerPayload is a customer row without sync_status and deleted_at.
type CustomerPayload struct {
	ID        string `json:"id" gorm:"primaryKey"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"created_at"` // ISO-8601
}

func (CustomerPayload) TableName() string { return TableCustomers }

// DebtPayload is a debt row without sync_status and deleted_at.
type DebtPayload struct {
	ID               string          `json:"id" gorm:"primaryKey"`
	CustomerID       string          `json:"customer_id" gorm:"index"`
	Amount           decimal.Decimal `json:"amount" gorm:"type:numeric"`
	AmountPaid       decimal.Decimal `json:"amount_paid" gorm:"type:numeric"`
	Date             string          `json:"date"` // ISO-8601
	Notes            string          `json:"notes,omitempty"`
	IsPaid           bool            `json:"is_paid"`
	PaidAt           *string         `json:"paid_at,omitempty"`            // ISO-8601
	LastReminderSent *string         `json:"last_reminder_sent,omitempty"` // ISO-8601
}

func (DebtPayload) TableName() string { return TableDebts }

// PaymentPayload is an append-only payment row. The payment date travels as
// created_at.
type PaymentPayload struct {
	ID        string          `json:"id" gorm:"primaryKey"`
	DebtID    string          `json:"debt_id" gorm:"index"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:numeric"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt string          `json:"created_at"` // ISO-8601
}

func (PaymentPayload) TableName() string { return TablePayments }

func formatTime(t time.Time) string {
	return t.UTC().Format(WireTimeFormat)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func NewCustomerPayload(c models.Customer) CustomerPayload {
	return CustomerPayload{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		CreatedAt: formatTime(c.CreatedAt),
	}
}

func NewDebtPayload(d models.Debt) DebtPayload {
	return DebtPayload{
		ID:               d.ID,
		CustomerID:       d.CustomerID,
		Amount:           d.Amount,
		AmountPaid:       d.AmountPaid,
		Date:             formatTime(d.Date),
		Notes:            d.Notes,
		IsPaid:           d.IsPaid,
		PaidAt:           formatTimePtr(d.PaidAt),
		LastReminderSent: formatTimePtr(d.LastReminderSent),
	}
}

func NewPaymentPayload(p models.Payment) PaymentPayload {
	return PaymentPayload{
		ID:        p.ID,
		DebtID:    p.DebtID,
		Amount:    p.Amount,
		Notes:     p.Notes,
		CreatedAt: formatTime(p.Date),
	}
}
