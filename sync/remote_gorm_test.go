// ABOUTME: Tests for the gorm remote using a SQLite file database
// ABOUTME: Exercises upsert, delete, idempotent insert and an end-to-end sync
package sync

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/daftar/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestRemote(t *testing.T) *GormRemote {
	t.Helper()
	remote, err := OpenGormRemote(DriverSQLite, filepath.Join(t.TempDir(), "remote.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = remote.Close() })
	require.NoError(t, remote.Migrate(context.Background()))
	return remote
}

func TestOpenGormRemoteUnknownDriver(t *testing.T) {
	_, err := OpenGormRemote("mysql", "dsn")
	assert.ErrorContains(t, err, "unknown remote driver")
}

func TestGormRemoteUpsertIsKeyedByID(t *testing.T) {
	remote := openTestRemote(t)
	ctx := context.Background()

	c := CustomerPayload{ID: "c1", Name: "Ali", Phone: "1", CreatedAt: "2026-10-15T00:00:00.000Z"}
	require.NoError(t, remote.Upsert(ctx, TableCustomers, &c))
	c.Name = "Ali B."
	require.NoError(t, remote.Upsert(ctx, TableCustomers, &c))

	n, err := remote.CountRows(ctx, TableCustomers)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var got CustomerPayload
	require.NoError(t, remote.db.First(&got, "id = ?", "c1").Error)
	assert.Equal(t, "Ali B.", got.Name)
}

func TestGormRemoteDeleteMissingIDsSucceeds(t *testing.T) {
	remote := openTestRemote(t)
	ctx := context.Background()

	d := DebtPayload{ID: "d1", CustomerID: "c1", Amount: decimal.NewFromInt(500), AmountPaid: decimal.Zero, Date: "2026-10-15T00:00:00.000Z"}
	require.NoError(t, remote.Upsert(ctx, TableDebts, &d))

	require.NoError(t, remote.Delete(ctx, TableDebts, []string{"d1", "never-existed"}))
	require.NoError(t, remote.Delete(ctx, TableDebts, []string{"d1"}))

	n, err := remote.CountRows(ctx, TableDebts)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestGormRemoteInsertSkipsExistingIDs(t *testing.T) {
	remote := openTestRemote(t)
	ctx := context.Background()

	first := []PaymentPayload{{ID: "p1", DebtID: "d1", Amount: decimal.NewFromInt(100), CreatedAt: "2026-10-15T00:00:00.000Z"}}
	require.NoError(t, remote.Insert(ctx, TablePayments, &first))

	retry := []PaymentPayload{
		{ID: "p1", DebtID: "d1", Amount: decimal.NewFromInt(100), CreatedAt: "2026-10-15T00:00:00.000Z"},
		{ID: "p2", DebtID: "d1", Amount: decimal.NewFromInt(50), CreatedAt: "2026-10-15T01:00:00.000Z"},
	}
	require.NoError(t, remote.Insert(ctx, TablePayments, &retry))

	n, err := remote.CountRows(ctx, TablePayments)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestGormRemoteUnknownTable(t *testing.T) {
	remote := openTestRemote(t)

	assert.Error(t, remote.Delete(context.Background(), "invoices", []string{"x"}))
	_, err := remote.CountRows(context.Background(), "invoices")
	assert.Error(t, err)
}

func TestGormRemotePing(t *testing.T) {
	remote := openTestRemote(t)
	assert.NoError(t, remote.Ping(context.Background()))
}

func TestSyncAgainstGormRemote(t *testing.T) {
	remote := openTestRemote(t)
	ctx := context.Background()

	store := ledger.New()
	ali := store.AddCustomer("Ali", "0551234567")
	omar := store.AddCustomer("Omar", "0770000000")
	d := store.AddDebt(ledger.NewDebt{CustomerID: ali.ID, Amount: decimal.NewFromInt(1000), Date: time.Now()})
	store.AddPayment(ledger.NewPayment{DebtID: d.ID, Amount: decimal.NewFromInt(400), Date: time.Now()})

	r := NewReconciler(store, remote)
	require.True(t, r.SyncAll(ctx))

	store.DeleteCustomer(omar.ID)
	store.AddPayment(ledger.NewPayment{DebtID: d.ID, Amount: decimal.NewFromInt(600), Date: time.Now()})
	require.True(t, r.SyncAll(ctx))

	customers, err := remote.CountRows(ctx, TableCustomers)
	require.NoError(t, err)
	assert.Equal(t, int64(1), customers)

	payments, err := remote.CountRows(ctx, TablePayments)
	require.NoError(t, err)
	assert.Equal(t, int64(2), payments)

	var debt DebtPayload
	require.NoError(t, remote.db.First(&debt, "id = ?", d.ID).Error)
	assert.True(t, debt.IsPaid)
	assert.True(t, debt.AmountPaid.Equal(decimal.NewFromInt(1000)))
	assert.NotNil(t, debt.PaidAt)
}
