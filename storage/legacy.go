// ABOUTME: Decoder for ledger exports written by the mobile app
// ABOUTME: Converts epoch-millisecond dates and optional sync fields into ledger state
package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/daftar/ledger"
	"github.com/harperreed/daftar/models"
	"github.com/shopspring/decimal"
)

type legacyBlob struct {
	Version int         `json:"version"`
	State   legacyState `json:"state"`
}

type legacyState struct {
	Customers        []legacyCustomer        `json:"customers"`
	Debts            []legacyDebt            `json:"debts"`
	Payments         []legacyPayment         `json:"payments"`
	ReminderSettings *models.ReminderSettings `json:"reminderSettings"`
}

type legacyCustomer struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Phone      string            `json:"phone"`
	CreatedAt  int64             `json:"created_at"`
	SyncStatus models.SyncStatus `json:"sync_status"`
	DeletedAt  *int64            `json:"deleted_at"`
}

type legacyDebt struct {
	ID               string            `json:"id"`
	CustomerID       string            `json:"customer_id"`
	Amount           decimal.Decimal   `json:"amount"`
	AmountPaid       decimal.Decimal   `json:"amount_paid"`
	Date             int64             `json:"date"`
	Notes            string            `json:"notes"`
	IsPaid           bool              `json:"is_paid"`
	PaidAt           *int64            `json:"paid_at"`
	LastReminderSent *int64            `json:"last_reminder_sent"`
	SyncStatus       models.SyncStatus `json:"sync_status"`
	DeletedAt        *int64            `json:"deleted_at"`
}

type legacyPayment struct {
	ID         string            `json:"id"`
	DebtID     string            `json:"debt_id"`
	Amount     decimal.Decimal   `json:"amount"`
	Date       int64             `json:"date"`
	Notes      string            `json:"notes"`
	SyncStatus models.SyncStatus `json:"sync_status"`
}

// DecodeLegacy converts an app export ({"state": ..., "version": 1}) into
// ledger state. Records without a valid sync status are marked pending so
// the next sync pushes them.
func DecodeLegacy(data []byte) (ledger.State, error) {
	var blob legacyBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return ledger.State{}, fmt.Errorf("failed to decode export: %w", err)
	}
	if blob.Version > SchemaVersion {
		return ledger.State{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, blob.Version)
	}

	st := ledger.NewState()
	if blob.State.ReminderSettings != nil {
		settings := *blob.State.ReminderSettings
		if settings.OverduePeriodDays <= 0 {
			settings.OverduePeriodDays = models.DefaultOverduePeriodDays
		}
		st.ReminderSettings = settings
	}

	for _, c := range blob.State.Customers {
		st.Customers = append(st.Customers, models.Customer{
			ID:         c.ID,
			Name:       c.Name,
			Phone:      c.Phone,
			CreatedAt:  fromMillis(c.CreatedAt),
			SyncStatus: legacyStatus(c.SyncStatus),
			DeletedAt:  fromMillisPtr(c.DeletedAt),
		})
	}
	for _, d := range blob.State.Debts {
		st.Debts = append(st.Debts, models.Debt{
			ID:               d.ID,
			CustomerID:       d.CustomerID,
			Amount:           d.Amount,
			AmountPaid:       d.AmountPaid,
			Date:             fromMillis(d.Date),
			Notes:            d.Notes,
			IsPaid:           d.IsPaid,
			PaidAt:           fromMillisPtr(d.PaidAt),
			LastReminderSent: fromMillisPtr(d.LastReminderSent),
			SyncStatus:       legacyStatus(d.SyncStatus),
			DeletedAt:        fromMillisPtr(d.DeletedAt),
		})
	}
	for _, p := range blob.State.Payments {
		st.Payments = append(st.Payments, models.Payment{
			ID:         p.ID,
			DebtID:     p.DebtID,
			Amount:     p.Amount,
			Date:       fromMillis(p.Date),
			Notes:      p.Notes,
			SyncStatus: legacyStatus(p.SyncStatus),
		})
	}
	return st, nil
}

func legacyStatus(s models.SyncStatus) models.SyncStatus {
	if s.Valid() {
		return s
	}
	return models.SyncPending
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func fromMillisPtr(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := fromMillis(*ms)
	return &t
}
