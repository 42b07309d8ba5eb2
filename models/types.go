// ABOUTME: Data models for the shop ledger
// ABOUTME: Defines Customer, Debt, Payment, ReminderSettings and sync status
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SyncStatus tracks whether a local mutation has reached the remote service.
type SyncStatus string

const (
	SyncPending SyncStatus = "pending"
	SyncSynced  SyncStatus = "synced"
	SyncError   SyncStatus = "error"
)

// NeedsSync reports whether the entity still has to be pushed.
// Entities in error are retried on the next run.
func (s SyncStatus) NeedsSync() bool {
	return s != SyncSynced
}

func (s SyncStatus) Valid() bool {
	switch s {
	case SyncPending, SyncSynced, SyncError:
		return true
	}
	return false
}

type Customer struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Phone      string     `json:"phone"`
	CreatedAt  time.Time  `json:"created_at"`
	SyncStatus SyncStatus `json:"sync_status"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

// IsDeleted reports whether the customer carries a soft-delete marker.
func (c Customer) IsDeleted() bool {
	return c.DeletedAt != nil
}

type Debt struct {
	ID               string          `json:"id"`
	CustomerID       string          `json:"customer_id"`
	Amount           decimal.Decimal `json:"amount"`
	AmountPaid       decimal.Decimal `json:"amount_paid"`
	Date             time.Time       `json:"date"`
	Notes            string          `json:"notes"`
	IsPaid           bool            `json:"is_paid"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
	LastReminderSent *time.Time      `json:"last_reminder_sent,omitempty"`
	SyncStatus       SyncStatus      `json:"sync_status"`
	DeletedAt        *time.Time      `json:"deleted_at,omitempty"`
}

func (d Debt) IsDeleted() bool {
	return d.DeletedAt != nil
}

// Payment is an immutable settlement applied against one debt.
type Payment struct {
	ID         string          `json:"id"`
	DebtID     string          `json:"debt_id"`
	Amount     decimal.Decimal `json:"amount"`
	Date       time.Time       `json:"date"`
	Notes      string          `json:"notes,omitempty"`
	SyncStatus SyncStatus      `json:"sync_status"`
}

// ReminderSettings is the app-wide reminder configuration.
type ReminderSettings struct {
	Enabled         bool   `json:"enabled"`
	ShopName        string `json:"shopName"`
	ReminderMessage string `json:"reminderMessage"`
	AutoOpenSMS     bool   `json:"autoOpenSms"`

	OverdueNotificationsEnabled bool `json:"overdueNotificationsEnabled"`
	OverduePeriodDays           int  `json:"overduePeriodDays"`
}

// Placeholders recognised in ReminderSettings.ReminderMessage.
const (
	PlaceholderName     = "{name}"
	PlaceholderShopName = "{shopName}"
	PlaceholderAmount   = "{amount}"
)

const DefaultOverduePeriodDays = 30

// DefaultReminderSettings returns the settings a fresh install starts with.
func DefaultReminderSettings() ReminderSettings {
	return ReminderSettings{
		Enabled:                     true,
		ShopName:                    "متجر يوسف للأقمشة",
		ReminderMessage:             "مرحباً {name}، هذه رسالة تذكيرية من {shopName} لدفع الدين المتبقي: {amount}. شكراً لك على تعاملك الكريم معنا.",
		AutoOpenSMS:                 true,
		OverdueNotificationsEnabled: true,
		OverduePeriodDays:           DefaultOverduePeriodDays,
	}
}

// OverduePeriod returns the notification overdue threshold as a duration.
// Non-positive values fall back to the default period.
func (s ReminderSettings) OverduePeriod() time.Duration {
	days := s.OverduePeriodDays
	if days <= 0 {
		days = DefaultOverduePeriodDays
	}
	return time.Duration(days) * 24 * time.Hour
}

type MonthlyReport struct {
	TotalCollected decimal.Decimal `json:"totalCollected"`
	PaymentsCount  int             `json:"paymentsCount"`
}

type CustomerStats struct {
	Customer      Customer        `json:"customer"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	TotalPaid     decimal.Decimal `json:"totalPaid"`
	DebtCount     int             `json:"debtCount"`
	OverdueDebts  int             `json:"overdueDebts"`
	AvgDebtAmount decimal.Decimal `json:"avgDebtAmount"`
}

type PaymentTrend struct {
	Year           int             `json:"year"`
	Month          int             `json:"month"`
	MonthName      string          `json:"monthName"`
	TotalCollected decimal.Decimal `json:"totalCollected"`
	PaymentsCount  int             `json:"paymentsCount"`
}

type StatusBucket struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

type DebtsByStatus struct {
	Paid    StatusBucket `json:"paid"`
	Overdue StatusBucket `json:"overdue"`
	Current StatusBucket `json:"current"`
}

// CustomerSummary combines a customer with what they still owe.
type CustomerSummary struct {
	Customer
	TotalDebt   decimal.Decimal `json:"totalDebt"`
	UnpaidDebts int             `json:"unpaidDebts"`
}

// ReminderData is the filled-in reminder shown before sending an SMS.
type ReminderData struct {
	CustomerName  string          `json:"customerName"`
	CustomerPhone string          `json:"customerPhone"`
	TotalDebt     decimal.Decimal `json:"totalDebt"`
	ShopName      string          `json:"shopName"`
	Message       string          `json:"message"`
}

// Sync journal status constants.
const (
	SyncStateIdle    = "idle"
	SyncStateSyncing = "syncing"
	SyncStateError   = "error"
)

type SyncState struct {
	Service      string     `json:"service"`
	LastSyncTime *time.Time `json:"last_sync_time,omitempty"`
	LastRunID    string     `json:"last_run_id,omitempty"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// SyncLog records the outcome of pushing one entity.
type SyncLog struct {
	ID         string    `json:"id"`
	RunID      string    `json:"run_id"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Op         string    `json:"op"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	LoggedAt   time.Time `json:"logged_at"`
}
