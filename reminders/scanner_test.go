// ABOUTME: Tests for the overdue reminder scanner and scheduler
// ABOUTME: Uses a fixed clock, a real ledger store and an in-memory notifier

package reminders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harperreed/daftar/ledger"
	"github.com/harperreed/daftar/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scanNow = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return scanNow.Add(-time.Duration(n) * 24 * time.Hour)
}

func newScanStore(t *testing.T) *ledger.Store {
	t.Helper()
	return ledger.New(ledger.WithClock(func() time.Time { return scanNow }))
}

type failingNotifier struct {
	failFor map[string]bool
	Recorder
}

func (f *failingNotifier) Notify(ctx context.Context, n Notification) error {
	if f.failFor[n.DebtID] {
		return errors.New("notification channel closed")
	}
	return f.Recorder.Notify(ctx, n)
}

func TestScanNotifiesOverdueDebt(t *testing.T) {
	store := newScanStore(t)
	c := store.AddCustomer("Ali", "0550123456")
	old := store.AddDebt(ledger.NewDebt{CustomerID: c.ID, Amount: decimal.NewFromInt(1500), Date: daysAgo(40)})
	store.AddDebt(ledger.NewDebt{CustomerID: c.ID, Amount: decimal.NewFromInt(200), Date: daysAgo(10)})

	rec := &Recorder{}
	scanner := NewScanner(store, rec, WithClock(func() time.Time { return scanNow }))

	result, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, NewData, result)

	sent := rec.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, old.ID, sent[0].DebtID)
	assert.Equal(t, notificationTitle, sent[0].Title)
	assert.Contains(t, sent[0].Body, "Ali")
	assert.Contains(t, sent[0].Body, "30")

	debt, ok := store.GetDebt(old.ID)
	require.True(t, ok)
	require.NotNil(t, debt.LastReminderSent)
	assert.True(t, debt.LastReminderSent.Equal(scanNow))
	assert.Equal(t, models.SyncPending, debt.SyncStatus)
}

func TestScanWithNilLoggerKeepsDefault(t *testing.T) {
	store := newScanStore(t)
	c := store.AddCustomer("Ali", "0550123456")
	store.AddDebt(ledger.NewDebt{CustomerID: c.ID, Amount: decimal.NewFromInt(1500), Date: daysAgo(40)})

	rec := &Recorder{}
	scanner := NewScanner(store, rec, WithLogger(nil), WithClock(func() time.Time { return scanNow }))

	require.NotNil(t, scanner.logger)
	var result Result
	require.NotPanics(t, func() {
		var err error
		result, err = scanner.Scan(context.Background())
		require.NoError(t, err)
	})
	assert.Equal(t, NewData, result)
	assert.Len(t, rec.Sent(), 1)
}

func TestScanCooldown(t *testing.T) {
	tests := []struct {
		name     string
		lastSent time.Time
		want     Result
	}{
		{name: "reminded two hours ago", lastSent: scanNow.Add(-2 * time.Hour), want: NoData},
		{name: "reminded 25 hours ago", lastSent: scanNow.Add(-25 * time.Hour), want: NewData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newScanStore(t)
			c := store.AddCustomer("Ali", "0550123456")
			d := store.AddDebt(ledger.NewDebt{CustomerID: c.ID, Amount: decimal.NewFromInt(100), Date: daysAgo(40)})
			store.UpdateLastReminderSent(d.ID, tt.lastSent)

			rec := &Recorder{}
			result, err := NewScanner(store, rec, WithClock(func() time.Time { return scanNow })).Scan(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, result)
		})
	}
}

func TestScanOverdueBoundaryIsStrict(t *testing.T) {
	store := newScanStore(t)
	c := store.AddCustomer("Ali", "0550123456")
	store.AddDebt(ledger.NewDebt{CustomerID: c.ID, Amount: decimal.NewFromInt(100), Date: daysAgo(30)})

	result, err := NewScanner(store, &Recorder{}, WithClock(func() time.Time { return scanNow })).Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, NoData, result)
}

func TestScanUsesConfiguredPeriod(t *testing.T) {
	store := newScanStore(t)
	store.UpdateReminderSettings(ledger.SettingsPatch{OverduePeriodDays: intPtr(7)})
	c := store.AddCustomer("Ali", "0550123456")
	store.AddDebt(ledger.NewDebt{CustomerID: c.ID, Amount: decimal.NewFromInt(100), Date: daysAgo(8)})

	rec := &Recorder{}
	result, err := NewScanner(store, rec, WithClock(func() time.Time { return scanNow })).Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, NewData, result)
	assert.Contains(t, rec.Sent()[0].Body, "7")
}

func TestScanDisabled(t *testing.T) {
	store := newScanStore(t)
	store.UpdateReminderSettings(ledger.SettingsPatch{OverdueNotificationsEnabled: boolPtr(false)})
	c := store.AddCustomer("Ali", "0550123456")
	store.AddDebt(ledger.NewDebt{CustomerID: c.ID, Amount: decimal.NewFromInt(100), Date: daysAgo(90)})

	rec := &Recorder{}
	result, err := NewScanner(store, rec, WithClock(func() time.Time { return scanNow })).Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, NoData, result)
	assert.Empty(t, rec.Sent())
}

func TestScanSkipsPaidAndDeletedDebts(t *testing.T) {
	store := newScanStore(t)
	c := store.AddCustomer("Ali", "0550123456")
	paid := store.AddDebt(ledger.NewDebt{CustomerID: c.ID, Amount: decimal.NewFromInt(100), Date: daysAgo(90)})
	store.MarkDebtAsPaid(paid.ID)
	deleted := store.AddDebt(ledger.NewDebt{CustomerID: c.ID, Amount: decimal.NewFromInt(100), Date: daysAgo(90)})
	store.DeleteDebt(deleted.ID)

	result, err := NewScanner(store, &Recorder{}, WithClock(func() time.Time { return scanNow })).Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, NoData, result)
}

func TestScanUnknownCustomerPlaceholder(t *testing.T) {
	store := newScanStore(t)
	store.AddDebt(ledger.NewDebt{CustomerID: "ghost", Amount: decimal.NewFromInt(100), Date: daysAgo(40)})

	rec := &Recorder{}
	_, err := NewScanner(store, rec, WithClock(func() time.Time { return scanNow })).Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, rec.Sent(), 1)
	assert.Contains(t, rec.Sent()[0].Body, unknownCustomerName)
}

func TestScanContinuesAfterNotifyFailure(t *testing.T) {
	store := newScanStore(t)
	c := store.AddCustomer("Ali", "0550123456")
	bad := store.AddDebt(ledger.NewDebt{CustomerID: c.ID, Amount: decimal.NewFromInt(100), Date: daysAgo(40)})
	good := store.AddDebt(ledger.NewDebt{CustomerID: c.ID, Amount: decimal.NewFromInt(200), Date: daysAgo(50)})

	n := &failingNotifier{failFor: map[string]bool{bad.ID: true}}
	result, err := NewScanner(store, n, WithClock(func() time.Time { return scanNow })).Scan(context.Background())
	assert.Equal(t, Failed, result)
	assert.ErrorContains(t, err, bad.ID)

	require.Len(t, n.Sent(), 1)
	assert.Equal(t, good.ID, n.Sent()[0].DebtID)

	d, _ := store.GetDebt(bad.ID)
	assert.Nil(t, d.LastReminderSent)
}

func TestDueDebts(t *testing.T) {
	store := newScanStore(t)
	c := store.AddCustomer("Ali", "0550123456")
	d := store.AddDebt(ledger.NewDebt{CustomerID: c.ID, Amount: decimal.NewFromInt(100), Date: daysAgo(40)})
	store.AddDebt(ledger.NewDebt{CustomerID: c.ID, Amount: decimal.NewFromInt(100), Date: daysAgo(5)})

	due := DueDebts(store.Snapshot(), scanNow)
	require.Len(t, due, 1)
	assert.Equal(t, d.ID, due[0].ID)
}

type panickingLedger struct{}

func (panickingLedger) Snapshot() ledger.State                  { panic("state corrupted") }
func (panickingLedger) UpdateLastReminderSent(string, time.Time) {}

func TestSchedulerRecoversPanic(t *testing.T) {
	var got Result
	var gotErr error
	s := NewScheduler(NewScanner(panickingLedger{}, &Recorder{}), time.Minute, nil)
	s.OnResult = func(r Result, err error) { got, gotErr = r, err }

	result, err := s.RunOnce(context.Background())
	assert.Equal(t, Failed, result)
	assert.ErrorContains(t, err, "panicked")
	assert.Equal(t, Failed, got)
	assert.Error(t, gotErr)
}

func TestSchedulerClampsInterval(t *testing.T) {
	s := NewScheduler(NewScanner(newScanStore(t), &Recorder{}), time.Minute, nil)
	assert.Equal(t, MinInterval, s.Interval())

	s = NewScheduler(NewScanner(newScanStore(t), &Recorder{}), 2*time.Hour, nil)
	assert.Equal(t, 2*time.Hour, s.Interval())
}

func TestSchedulerRunStopsOnCancel(t *testing.T) {
	store := newScanStore(t)
	c := store.AddCustomer("Ali", "0550123456")
	store.AddDebt(ledger.NewDebt{CustomerID: c.ID, Amount: decimal.NewFromInt(100), Date: daysAgo(40)})

	ctx, cancel := context.WithCancel(context.Background())
	s := NewScheduler(NewScanner(store, &Recorder{}, WithClock(func() time.Time { return scanNow })), time.Hour, nil)
	s.OnResult = func(r Result, err error) {
		assert.Equal(t, NewData, r)
		cancel()
	}

	err := s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "new-data", NewData.String())
	assert.Equal(t, "no-data", NoData.String())
	assert.Equal(t, "failed", Failed.String())
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }
