// ABOUTME: Tests for ledger CLI commands
// ABOUTME: Drives customers, debts, reports, settings, reminders and sync through an App
package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harperreed/daftar/config"
	"github.com/harperreed/daftar/ledger"
	"github.com/harperreed/daftar/models"
	"github.com/harperreed/daftar/storage"
	dsync "github.com/harperreed/daftar/sync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Locale = "en"
	cfg.Timezone = "UTC"
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) (*App, *bytes.Buffer) {
	t.Helper()
	kv, err := storage.OpenBadger(cfg.StatePath())
	require.NoError(t, err)

	app, err := NewApp(cfg, nil, kv, kv.Close)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	app.Out = out
	t.Cleanup(func() { _ = app.Close() })
	return app, out
}

func onlyCustomer(t *testing.T, app *App) models.Customer {
	t.Helper()
	customers := app.Store.Snapshot().ActiveCustomers()
	require.Len(t, customers, 1)
	return customers[0]
}

func onlyDebt(t *testing.T, app *App) models.Debt {
	t.Helper()
	debts := app.Store.Snapshot().ActiveDebts()
	require.Len(t, debts, 1)
	return debts[0]
}

func TestCustomerCommands(t *testing.T) {
	app, out := newTestApp(t, newTestConfig(t))

	require.NoError(t, AddCustomerCommand(app, []string{"--name", "Ali", "--phone", "0550123456"}))
	assert.Contains(t, out.String(), "✓ Customer added: Ali")
	ali := onlyCustomer(t, app)

	err := AddCustomerCommand(app, []string{"--name", "ALI", "--phone", "0660000000"})
	assert.ErrorIs(t, err, ledger.ErrDuplicateName)

	out.Reset()
	require.NoError(t, UpdateCustomerCommand(app, []string{"--id", ali.ID, "--phone", "0770000000"}))
	updated, _ := app.Store.GetCustomer(ali.ID)
	assert.Equal(t, "Ali", updated.Name)
	assert.Equal(t, "0770000000", updated.Phone)

	assert.ErrorContains(t, UpdateCustomerCommand(app, []string{"--id", ali.ID}), "nothing to update")

	out.Reset()
	require.NoError(t, ListCustomersCommand(app, []string{"--query", "ali"}))
	assert.Contains(t, out.String(), "0770000000")
	assert.Contains(t, out.String(), "Total: 1 customers")

	out.Reset()
	require.NoError(t, ListCustomersCommand(app, []string{"--owing"}))
	assert.Contains(t, out.String(), "No customers found")
}

func TestDeleteCustomerWithUnpaidDebts(t *testing.T) {
	app, _ := newTestApp(t, newTestConfig(t))
	require.NoError(t, AddCustomerCommand(app, []string{"--name", "Ali", "--phone", "0550123456"}))
	ali := onlyCustomer(t, app)
	require.NoError(t, AddDebtCommand(app, []string{"--customer", ali.ID, "--amount", "1500"}))

	err := DeleteCustomerCommand(app, []string{"--id", ali.ID})
	assert.ErrorIs(t, err, ledger.ErrHasUnpaidDebts)

	require.NoError(t, DeleteCustomerCommand(app, []string{"--id", ali.ID, "--force"}))
	assert.Empty(t, app.Store.Snapshot().ActiveCustomers())
	assert.Empty(t, app.Store.Snapshot().ActiveDebts())
}

func TestDebtLifecycle(t *testing.T) {
	app, out := newTestApp(t, newTestConfig(t))
	require.NoError(t, AddCustomerCommand(app, []string{"--name", "Ali", "--phone", "0550123456"}))
	ali := onlyCustomer(t, app)

	assert.Error(t, AddDebtCommand(app, []string{"--customer", ali.ID, "--amount", "-5"}))
	assert.Error(t, AddDebtCommand(app, []string{"--customer", ali.ID, "--amount", "10", "--date", "15/10/2026"}))
	assert.ErrorContains(t, AddDebtCommand(app, []string{"--customer", "missing", "--amount", "10"}), "customer not found")

	require.NoError(t, AddDebtCommand(app, []string{"--customer", ali.ID, "--amount", "1500", "--date", "2026-01-10", "--notes", "cotton"}))
	debt := onlyDebt(t, app)
	assert.Equal(t, "cotton", debt.Notes)

	out.Reset()
	require.NoError(t, PayDebtCommand(app, []string{"--id", debt.ID, "--amount", "500"}))
	assert.Contains(t, out.String(), "Remaining: 1,000 دج")

	err := PayDebtCommand(app, []string{"--id", debt.ID, "--amount", "5000"})
	assert.ErrorIs(t, err, ledger.ErrExceedsRemaining)

	out.Reset()
	require.NoError(t, ListDebtsCommand(app, []string{"--overdue"}))
	assert.Contains(t, out.String(), "overdue")
	assert.Contains(t, out.String(), "10/01/2026")

	out.Reset()
	require.NoError(t, SettleDebtCommand(app, []string{"--id", debt.ID}))
	assert.Contains(t, out.String(), "1,000 دج collected")

	settled, _ := app.Store.GetDebt(debt.ID)
	assert.True(t, settled.IsPaid)
	assert.Len(t, app.Store.GetPaymentsForDebt(debt.ID), 2)

	out.Reset()
	require.NoError(t, ListDebtsCommand(app, []string{"--unpaid"}))
	assert.Contains(t, out.String(), "No debts found")

	require.NoError(t, DeleteDebtCommand(app, []string{"--id", debt.ID}))
	assert.Empty(t, app.Store.Snapshot().ActiveDebts())
	assert.ErrorContains(t, DeleteDebtCommand(app, []string{"--id", "missing"}), "debt not found")
}

func TestLedgerSurvivesReopen(t *testing.T) {
	cfg := newTestConfig(t)

	kv, err := storage.OpenBadger(cfg.StatePath())
	require.NoError(t, err)
	app, err := NewApp(cfg, nil, kv, kv.Close)
	require.NoError(t, err)
	app.Out = &bytes.Buffer{}
	require.NoError(t, AddCustomerCommand(app, []string{"--name", "Ali", "--phone", "0550123456"}))
	require.NoError(t, app.Close())

	reopened, _ := newTestApp(t, cfg)
	assert.Equal(t, "Ali", onlyCustomer(t, reopened).Name)
}

func TestReportCommands(t *testing.T) {
	app, out := newTestApp(t, newTestConfig(t))
	require.NoError(t, AddCustomerCommand(app, []string{"--name", "Ali", "--phone", "0550123456"}))
	ali := onlyCustomer(t, app)
	require.NoError(t, AddDebtCommand(app, []string{"--customer", ali.ID, "--amount", "1500", "--date", "2026-01-10"}))
	debt := onlyDebt(t, app)
	require.NoError(t, PayDebtCommand(app, []string{"--id", debt.ID, "--amount", "500", "--date", "2026-02-03"}))

	out.Reset()
	require.NoError(t, ReportSummaryCommand(app, nil))
	assert.Contains(t, out.String(), "Total unpaid:  1,000 دج")

	out.Reset()
	require.NoError(t, ReportMonthlyCommand(app, []string{"--year", "2026", "--month", "2"}))
	assert.Contains(t, out.String(), "Collected in February 2026")
	assert.Contains(t, out.String(), "500 دج")

	assert.ErrorContains(t, ReportMonthlyCommand(app, []string{"--month", "13"}), "invalid month")

	out.Reset()
	require.NoError(t, ReportTopCommand(app, []string{"--limit", "1"}))
	assert.Contains(t, out.String(), "Ali")

	for _, cmd := range []func(*App, []string) error{ReportTrendsCommand, ReportStatusCommand, ReportStatsCommand, ReportDashboardCommand} {
		out.Reset()
		require.NoError(t, cmd(app, nil))
		assert.NotEmpty(t, out.String())
	}
}

func TestSettingsCommands(t *testing.T) {
	app, out := newTestApp(t, newTestConfig(t))

	assert.ErrorContains(t, SettingsSetCommand(app, nil), "nothing to update")
	assert.ErrorContains(t, SettingsSetCommand(app, []string{"--overdue-days", "0"}), "must be positive")

	require.NoError(t, SettingsSetCommand(app, []string{"--shop-name", "Yusuf Fabrics", "--overdue-days", "7", "--auto-open-sms=false"}))
	s := app.Store.ReminderSettings()
	assert.Equal(t, "Yusuf Fabrics", s.ShopName)
	assert.Equal(t, 7, s.OverduePeriodDays)
	assert.False(t, s.AutoOpenSMS)
	assert.True(t, s.Enabled)

	out.Reset()
	require.NoError(t, SettingsShowCommand(app, nil))
	assert.Contains(t, out.String(), "Yusuf Fabrics")
	assert.Contains(t, out.String(), "7 days")
}

func TestRemindCommand(t *testing.T) {
	app, out := newTestApp(t, newTestConfig(t))
	require.NoError(t, AddCustomerCommand(app, []string{"--name", "Ali", "--phone", "0550 123 456"}))
	ali := onlyCustomer(t, app)

	assert.ErrorContains(t, RemindCommand(app, []string{"--customer", ali.ID}), "no outstanding debt")

	require.NoError(t, SettingsSetCommand(app, []string{"--shop-name", "Yusuf", "--message", "Hi {name}, {shopName} reminds you: {amount}"}))
	require.NoError(t, AddDebtCommand(app, []string{"--customer", ali.ID, "--amount", "1500"}))

	out.Reset()
	require.NoError(t, RemindCommand(app, []string{"--customer", ali.ID}))
	assert.Contains(t, out.String(), "Hi Ali, Yusuf reminds you: 1,500 دج")
	assert.Contains(t, out.String(), "sms:0550123456?body=")
}

func TestRemindersScanCommand(t *testing.T) {
	app, out := newTestApp(t, newTestConfig(t))
	require.NoError(t, AddCustomerCommand(app, []string{"--name", "Ali", "--phone", "0550123456"}))
	ali := onlyCustomer(t, app)

	require.NoError(t, RemindersScanCommand(app, nil))
	assert.Contains(t, out.String(), "No reminders due")

	require.NoError(t, AddDebtCommand(app, []string{"--customer", ali.ID, "--amount", "1500", "--date", "2020-01-01"}))

	out.Reset()
	require.NoError(t, RemindersScanCommand(app, []string{"--dry-run"}))
	assert.Contains(t, out.String(), "Ali")
	assert.Nil(t, onlyDebt(t, app).LastReminderSent)

	out.Reset()
	require.NoError(t, RemindersScanCommand(app, nil))
	assert.Contains(t, out.String(), "Ali")
	assert.NotNil(t, onlyDebt(t, app).LastReminderSent)

	out.Reset()
	require.NoError(t, RemindersScanCommand(app, nil))
	assert.Contains(t, out.String(), "No reminders due")
}

func TestSyncCommands(t *testing.T) {
	cfg := newTestConfig(t)
	app, out := newTestApp(t, cfg)

	assert.ErrorIs(t, SyncNowCommand(app, nil), ErrRemoteNotConfigured)

	require.NoError(t, AddCustomerCommand(app, []string{"--name", "Ali", "--phone", "0550123456"}))
	ali := onlyCustomer(t, app)
	require.NoError(t, AddDebtCommand(app, []string{"--customer", ali.ID, "--amount", "1500"}))

	out.Reset()
	require.NoError(t, SyncStatusCommand(app, nil))
	assert.Contains(t, out.String(), "not configured")
	assert.Contains(t, out.String(), "1 customers, 1 debts, 0 payments")

	cfg.Remote = config.RemoteConfig{Driver: dsync.DriverSQLite, DSN: filepath.Join(t.TempDir(), "remote.db")}

	out.Reset()
	require.NoError(t, SyncNowCommand(app, []string{"--migrate"}))
	assert.Contains(t, out.String(), "Synced 2 changes")
	assert.Equal(t, models.SyncSynced, onlyCustomer(t, app).SyncStatus)
	assert.Equal(t, models.SyncSynced, onlyDebt(t, app).SyncStatus)

	out.Reset()
	require.NoError(t, SyncStatusCommand(app, nil))
	status := out.String()
	assert.Contains(t, status, "0 customers, 0 debts, 0 payments")
	assert.Contains(t, status, "Recent activity")
	assert.True(t, strings.Contains(status, ali.ID))
}

func TestMCPServerBuilds(t *testing.T) {
	app, _ := newTestApp(t, newTestConfig(t))
	assert.NotNil(t, newMCPServer(app, "test", nil))
}
