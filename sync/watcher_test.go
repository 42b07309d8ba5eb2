// ABOUTME: Tests for the connectivity watcher
// ABOUTME: Verifies syncs on reconnect, on queued backlog and on notified changes
package sync

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/harperreed/daftar/ledger"
	"github.com/harperreed/daftar/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noBacklog() (int, int) { return 0, 0 }

func TestWatcherSyncsOnReconnect(t *testing.T) {
	remote := newFakeRemote()
	runs := 0
	w := newWatcher(remote, func(context.Context) Summary {
		runs++
		return Summary{}
	}, noBacklog, time.Minute, nil)
	ctx := context.Background()

	assert.True(t, w.Check(ctx))
	assert.Equal(t, 1, runs, "first reachable check syncs")

	assert.True(t, w.Check(ctx))
	assert.Equal(t, 1, runs, "staying online with nothing queued does not sync")

	remote.ping = errors.New("no route to host")
	assert.False(t, w.Check(ctx))
	assert.False(t, w.Check(ctx))
	assert.Equal(t, 1, runs)

	remote.ping = nil
	assert.True(t, w.Check(ctx))
	assert.Equal(t, 2, runs)
}

func TestWatcherRetriesBacklogWhileOnline(t *testing.T) {
	remote := newFakeRemote()
	runs := 0
	failed := 1
	w := newWatcher(remote, func(context.Context) Summary {
		runs++
		return Summary{}
	}, func() (int, int) { return 0, failed }, time.Minute, nil)
	ctx := context.Background()

	w.Check(ctx)
	w.Check(ctx)
	assert.Equal(t, 2, runs, "failed entities are retried on the next tick")

	failed = 0
	w.Check(ctx)
	assert.Equal(t, 2, runs)
}

func TestWatcherNotifyIgnoredWhileOffline(t *testing.T) {
	remote := newFakeRemote()
	remote.ping = errors.New("offline")
	runs := 0
	w := newWatcher(remote, func(context.Context) Summary {
		runs++
		return Summary{}
	}, func() (int, int) { return 1, 0 }, time.Minute, nil)

	w.Check(context.Background())
	w.flush(context.Background())
	assert.Zero(t, runs)
}

func TestWatcherFlushSkipsFailedOnlyBacklog(t *testing.T) {
	remote := newFakeRemote()
	runs := 0
	pending, failed := 0, 0
	w := newWatcher(remote, func(context.Context) Summary {
		runs++
		return Summary{}
	}, func() (int, int) { return pending, failed }, time.Minute, nil)
	ctx := context.Background()

	w.Check(ctx)
	require.Equal(t, 1, runs)

	failed = 2
	w.flush(ctx)
	assert.Equal(t, 1, runs, "failures wait for the ticker")

	pending = 1
	w.flush(ctx)
	assert.Equal(t, 2, runs)
}

func TestWatcherPushesInProcessChanges(t *testing.T) {
	store, _, d := seedLedger(t)
	remote := newFakeRemote()
	r := NewReconciler(store, remote)
	w := NewWatcher(remote, r, time.Hour, nil)

	var notified atomic.Int32
	unsubscribe := store.Subscribe(func(ledger.Change) {
		notified.Add(1)
		w.Notify()
	})
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool {
		pending, failed := r.Backlog()
		return pending+failed == 0
	}, time.Second, 5*time.Millisecond, "reconnect sync drains the ledger")

	store.UpdateLastReminderSent(d.ID, time.Now())

	require.Eventually(t, func() bool {
		got, _ := store.GetDebt(d.ID)
		return got.SyncStatus == models.SyncSynced && got.LastReminderSent != nil
	}, time.Second, 5*time.Millisecond, "local change is pushed without waiting for a tick")
	assert.Positive(t, notified.Load())

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatcherRunStopsOnCancel(t *testing.T) {
	remote := newFakeRemote()
	remote.ping = errors.New("offline")
	w := newWatcher(remote, func(context.Context) Summary { return Summary{} }, noBacklog, 10*time.Millisecond, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := w.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
