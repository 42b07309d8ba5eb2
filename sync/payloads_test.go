// ABOUTME: Tests for remote sync payload construction
// ABOUTME: Covers field stripping, ISO-8601 dates and optional timestamps
package sync

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/harperreed/daftar/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerPayloadStripsLocalFields(t *testing.T) {
	deleted := time.Now()
	c := models.Customer{
		ID:         "c1",
		Name:       "Ali",
		Phone:      "0551234567",
		CreatedAt:  time.Date(2026, 10, 15, 9, 30, 0, int(250*time.Millisecond), time.UTC),
		SyncStatus: models.SyncPending,
		DeletedAt:  &deleted,
	}

	data, err := json.Marshal(NewCustomerPayload(c))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "2026-10-15T09:30:00.250Z", raw["created_at"])
	assert.NotContains(t, raw, "sync_status")
	assert.NotContains(t, raw, "deleted_at")
}

func TestDebtPayloadDates(t *testing.T) {
	algiers := time.FixedZone("CET", 3600)
	paidAt := time.Date(2026, 10, 16, 1, 0, 0, 0, algiers)
	d := models.Debt{
		ID:         "d1",
		CustomerID: "c1",
		Amount:     decimal.NewFromInt(1000),
		AmountPaid: decimal.NewFromInt(1000),
		Date:       time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		IsPaid:     true,
		PaidAt:     &paidAt,
		SyncStatus: models.SyncPending,
	}

	p := NewDebtPayload(d)
	assert.Equal(t, "2026-10-01T00:00:00.000Z", p.Date)
	require.NotNil(t, p.PaidAt)
	assert.Equal(t, "2026-10-16T00:00:00.000Z", *p.PaidAt)
	assert.Nil(t, p.LastReminderSent)
	assert.True(t, p.Amount.Equal(d.Amount))

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "last_reminder_sent")
	assert.NotContains(t, string(data), "sync_status")
}

func TestPaymentPayloadSendsDateAsCreatedAt(t *testing.T) {
	p := models.Payment{
		ID:         "p1",
		DebtID:     "d1",
		Amount:     decimal.NewFromInt(400),
		Date:       time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC),
		SyncStatus: models.SyncPending,
	}

	data, err := json.Marshal(NewPaymentPayload(p))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "2026-10-15T12:00:00.000Z", raw["created_at"])
	assert.NotContains(t, raw, "date")
	assert.NotContains(t, raw, "notes")
}

func TestPayloadTableNames(t *testing.T) {
	assert.Equal(t, TableCustomers, CustomerPayload{}.TableName())
	assert.Equal(t, TableDebts, DebtPayload{}.TableName())
	assert.Equal(t, TablePayments, PaymentPayload{}.TableName())
}
