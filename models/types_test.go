// ABOUTME: Tests for ledger data models
// ABOUTME: Validates sync status helpers, defaults and JSON field names
package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncStatusNeedsSync(t *testing.T) {
	assert.True(t, SyncPending.NeedsSync())
	assert.True(t, SyncError.NeedsSync())
	assert.False(t, SyncSynced.NeedsSync())
	assert.False(t, SyncStatus("bogus").Valid())
}

func TestDefaultReminderSettings(t *testing.T) {
	s := DefaultReminderSettings()

	assert.True(t, s.OverdueNotificationsEnabled)
	assert.Equal(t, 30, s.OverduePeriodDays)
	assert.Contains(t, s.ReminderMessage, PlaceholderName)
	assert.Contains(t, s.ReminderMessage, PlaceholderShopName)
	assert.Contains(t, s.ReminderMessage, PlaceholderAmount)
	assert.Equal(t, 30*24*time.Hour, s.OverduePeriod())
}

func TestOverduePeriodFallsBackOnInvalidDays(t *testing.T) {
	s := ReminderSettings{OverduePeriodDays: 0}
	assert.Equal(t, 30*24*time.Hour, s.OverduePeriod())

	s.OverduePeriodDays = 7
	assert.Equal(t, 7*24*time.Hour, s.OverduePeriod())
}

func TestDebtJSONFieldNames(t *testing.T) {
	debt := Debt{
		ID:         "d1",
		CustomerID: "c1",
		Amount:     decimal.NewFromInt(1000),
		AmountPaid: decimal.Zero,
		Date:       time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		SyncStatus: SyncPending,
	}

	data, err := json.Marshal(debt)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "c1", raw["customer_id"])
	assert.Equal(t, "pending", raw["sync_status"])
	assert.Contains(t, raw, "amount_paid")
	assert.Contains(t, raw, "is_paid")
	assert.NotContains(t, raw, "deleted_at")
	assert.NotContains(t, raw, "paid_at")
}
