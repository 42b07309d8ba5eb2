// ABOUTME: Tests for sync journal operations
// ABOUTME: Runs against a real SQLite file in a temp dir
package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/daftar/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	database, err := OpenDatabase(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return NewJournal(database)
}

func TestGetSyncStateMissing(t *testing.T) {
	j := openTestJournal(t)

	state, err := GetSyncState(j.db, "remote")
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestJournalSuccessfulRun(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	at := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

	require.NoError(t, j.BeginRun(ctx, "remote", "run-1"))
	state, err := GetSyncState(j.db, "remote")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, models.SyncStateSyncing, state.Status)
	assert.Equal(t, "run-1", state.LastRunID)
	assert.Nil(t, state.LastSyncTime)

	require.NoError(t, j.EndRun(ctx, "remote", "run-1", at, nil))
	state, err = GetSyncState(j.db, "remote")
	require.NoError(t, err)
	assert.Equal(t, models.SyncStateIdle, state.Status)
	require.NotNil(t, state.LastSyncTime)
	assert.True(t, at.Equal(*state.LastSyncTime))
	assert.Empty(t, state.ErrorMessage)
}

func TestJournalFailedRunKeepsLastSyncTime(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	first := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

	require.NoError(t, j.BeginRun(ctx, "remote", "run-1"))
	require.NoError(t, j.EndRun(ctx, "remote", "run-1", first, nil))

	require.NoError(t, j.BeginRun(ctx, "remote", "run-2"))
	require.NoError(t, j.EndRun(ctx, "remote", "run-2", first.Add(time.Hour), errors.New("remote unreachable")))

	state, err := GetSyncState(j.db, "remote")
	require.NoError(t, err)
	assert.Equal(t, models.SyncStateError, state.Status)
	assert.Equal(t, "remote unreachable", state.ErrorMessage)
	assert.Equal(t, "run-2", state.LastRunID)
	require.NotNil(t, state.LastSyncTime)
	assert.True(t, first.Equal(*state.LastSyncTime))
}

func TestRecentSyncLogs(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

	entries := []models.SyncLog{
		{ID: "1", RunID: "r", EntityType: "customers", EntityID: "c1", Op: "upsert", Status: "synced", LoggedAt: base},
		{ID: "2", RunID: "r", EntityType: "debts", EntityID: "d1", Op: "delete", Status: "error", Error: "boom", LoggedAt: base.Add(time.Second)},
		{ID: "3", RunID: "r", EntityType: "payments", EntityID: "p1", Op: "insert", Status: "synced", LoggedAt: base.Add(2 * time.Second)},
	}
	for _, e := range entries {
		require.NoError(t, j.LogEntity(ctx, e))
	}

	logs, err := RecentSyncLogs(j.db, 2)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "3", logs[0].ID)
	assert.Equal(t, "2", logs[1].ID)
	assert.Equal(t, "boom", logs[1].Error)
	assert.Empty(t, logs[0].Error)
}

func TestGetAllSyncStates(t *testing.T) {
	j := openTestJournal(t)

	require.NoError(t, UpdateSyncStatus(j.db, "remote", models.SyncStateIdle, nil))
	require.NoError(t, MarkSyncComplete(j.db, "charm", "run-x", time.Now()))

	states, err := GetAllSyncStates(j.db)
	require.NoError(t, err)
	require.Len(t, states, 2)
	assert.Equal(t, "charm", states[0].Service)
	assert.Equal(t, "remote", states[1].Service)
}

func TestCreateSyncLogDuplicateID(t *testing.T) {
	j := openTestJournal(t)
	entry := models.SyncLog{ID: "1", RunID: "r", EntityType: "customers", EntityID: "c", Op: "upsert", Status: "synced"}

	require.NoError(t, CreateSyncLog(j.db, entry))
	assert.Error(t, CreateSyncLog(j.db, entry))
}
