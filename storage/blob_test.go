// ABOUTME: Tests for the versioned ledger blob codec
// ABOUTME: Covers round trips, missing settings defaults and version checks
package storage

import (
	"testing"
	"time"

	"github.com/harperreed/daftar/ledger"
	"github.com/harperreed/daftar/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState() ledger.State {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	paidAt := created.Add(48 * time.Hour)

	st := ledger.NewState()
	st.Customers = append(st.Customers, models.Customer{
		ID: "c1", Name: "علي", Phone: "0550123456", CreatedAt: created, SyncStatus: models.SyncSynced,
	})
	st.Debts = append(st.Debts, models.Debt{
		ID: "d1", CustomerID: "c1",
		Amount: decimal.NewFromInt(1500), AmountPaid: decimal.NewFromInt(1500),
		Date: created, IsPaid: true, PaidAt: &paidAt, SyncStatus: models.SyncPending,
	})
	st.Payments = append(st.Payments, models.Payment{
		ID: "p1", DebtID: "d1", Amount: decimal.NewFromInt(1500), Date: paidAt, SyncStatus: models.SyncError,
	})
	st.ReminderSettings.ShopName = "Yusuf Fabrics"
	return st
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := sampleState()

	data, err := Encode(original)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version":1`)

	decoded, err := Decode(data)
	require.NoError(t, err)

	require.Len(t, decoded.Customers, 1)
	assert.Equal(t, "علي", decoded.Customers[0].Name)
	assert.Equal(t, models.SyncSynced, decoded.Customers[0].SyncStatus)

	require.Len(t, decoded.Debts, 1)
	debt := decoded.Debts[0]
	assert.True(t, debt.Amount.Equal(decimal.NewFromInt(1500)))
	assert.True(t, debt.IsPaid)
	require.NotNil(t, debt.PaidAt)
	assert.True(t, debt.PaidAt.Equal(*original.Debts[0].PaidAt))
	assert.Nil(t, debt.DeletedAt)

	require.Len(t, decoded.Payments, 1)
	assert.Equal(t, models.SyncError, decoded.Payments[0].SyncStatus)
	assert.Equal(t, "Yusuf Fabrics", decoded.ReminderSettings.ShopName)
}

func TestDecodeMissingSettingsKeepsDefaults(t *testing.T) {
	state, err := Decode([]byte(`{"version":1,"state":{"customers":[],"debts":[],"payments":[]}}`))
	require.NoError(t, err)
	assert.Equal(t, models.DefaultReminderSettings(), state.ReminderSettings)
}

func TestDecodePartialSettings(t *testing.T) {
	state, err := Decode([]byte(`{"version":1,"state":{"reminderSettings":{"shopName":"Other"}}}`))
	require.NoError(t, err)

	defaults := models.DefaultReminderSettings()
	assert.Equal(t, "Other", state.ReminderSettings.ShopName)
	assert.Equal(t, defaults.ReminderMessage, state.ReminderSettings.ReminderMessage)
	assert.Equal(t, defaults.OverduePeriodDays, state.ReminderSettings.OverduePeriodDays)
	assert.NotNil(t, state.Customers)
}

func TestDecodeRejectsNewerVersion(t *testing.T) {
	_, err := Decode([]byte(`{"version":2,"state":{}}`))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestDecodeInvalidJSON(t *testing.T) {
	_, err := Decode([]byte(`{"version":`))
	assert.ErrorContains(t, err, "failed to decode state")
}
