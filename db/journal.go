// ABOUTME: Database operations for sync_state and sync_log tables
// ABOUTME: Records sync runs and per-entity push outcomes for the remote service
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/harperreed/daftar/models"
)

// GetSyncState retrieves the sync state for a service.
func GetSyncState(db *sql.DB, service string) (*models.SyncState, error) {
	row := db.QueryRow(`
		SELECT service, last_sync_time, last_run_id, status, error_message, created_at, updated_at
		FROM sync_state
		WHERE service = ?
	`, service)

	state, err := scanSyncState(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sync state: %w", err)
	}
	return state, nil
}

// UpdateSyncStatus updates the sync status for a service.
func UpdateSyncStatus(db *sql.DB, service, status string, errorMsg *string) error {
	return updateSyncStatus(context.Background(), db, service, status, "", errorMsg)
}

func updateSyncStatus(ctx context.Context, db *sql.DB, service, status, runID string, errorMsg *string) error {
	var errorMsgVal sql.NullString
	if errorMsg != nil {
		errorMsgVal = sql.NullString{String: *errorMsg, Valid: true}
	}
	var runIDVal sql.NullString
	if runID != "" {
		runIDVal = sql.NullString{String: runID, Valid: true}
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO sync_state (service, last_run_id, status, error_message, created_at, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(service) DO UPDATE SET
			last_run_id = COALESCE(excluded.last_run_id, sync_state.last_run_id),
			status = excluded.status,
			error_message = excluded.error_message,
			updated_at = CURRENT_TIMESTAMP
	`, service, runIDVal, status, errorMsgVal)

	if err != nil {
		return fmt.Errorf("failed to update sync status: %w", err)
	}

	return nil
}

// MarkSyncComplete records a finished run and resets the service to idle.
func MarkSyncComplete(db *sql.DB, service, runID string, at time.Time) error {
	return markSyncComplete(context.Background(), db, service, runID, at)
}

func markSyncComplete(ctx context.Context, db *sql.DB, service, runID string, at time.Time) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO sync_state (service, last_sync_time, last_run_id, status, created_at, updated_at)
		VALUES (?, ?, ?, 'idle', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(service) DO UPDATE SET
			last_sync_time = excluded.last_sync_time,
			last_run_id = excluded.last_run_id,
			status = 'idle',
			error_message = NULL,
			updated_at = CURRENT_TIMESTAMP
	`, service, at.UTC(), runID)

	if err != nil {
		return fmt.Errorf("failed to mark sync complete: %w", err)
	}

	return nil
}

// CreateSyncLog records the outcome of pushing one entity.
func CreateSyncLog(db *sql.DB, entry models.SyncLog) error {
	return createSyncLog(context.Background(), db, entry)
}

func createSyncLog(ctx context.Context, db *sql.DB, entry models.SyncLog) error {
	loggedAt := entry.LoggedAt
	if loggedAt.IsZero() {
		loggedAt = time.Now()
	}
	var errVal sql.NullString
	if entry.Error != "" {
		errVal = sql.NullString{String: entry.Error, Valid: true}
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO sync_log (id, run_id, entity_type, entity_id, op, status, error, logged_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.RunID, entry.EntityType, entry.EntityID, entry.Op, entry.Status, errVal, loggedAt.UTC())

	if err != nil {
		return fmt.Errorf("failed to create sync log: %w", err)
	}

	return nil
}

// RecentSyncLogs returns the newest sync log entries, newest first.
func RecentSyncLogs(db *sql.DB, limit int) ([]models.SyncLog, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.Query(`
		SELECT id, run_id, entity_type, entity_id, op, status, error, logged_at
		FROM sync_log
		ORDER BY logged_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync logs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var logs []models.SyncLog
	for rows.Next() {
		var entry models.SyncLog
		var errMsg sql.NullString
		if err := rows.Scan(
			&entry.ID,
			&entry.RunID,
			&entry.EntityType,
			&entry.EntityID,
			&entry.Op,
			&entry.Status,
			&errMsg,
			&entry.LoggedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sync log: %w", err)
		}
		entry.Error = errMsg.String
		logs = append(logs, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sync logs: %w", err)
	}

	return logs, nil
}

// GetAllSyncStates retrieves the sync state for all services.
func GetAllSyncStates(db *sql.DB) ([]models.SyncState, error) {
	rows, err := db.Query(`
		SELECT service, last_sync_time, last_run_id, status, error_message, created_at, updated_at
		FROM sync_state
		ORDER BY service
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync states: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var states []models.SyncState
	for rows.Next() {
		state, err := scanSyncState(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sync state: %w", err)
		}
		states = append(states, *state)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sync states: %w", err)
	}

	return states, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSyncState(s scanner) (*models.SyncState, error) {
	var state models.SyncState
	var lastSyncTime sql.NullTime
	var lastRunID sql.NullString
	var errorMessage sql.NullString

	if err := s.Scan(
		&state.Service,
		&lastSyncTime,
		&lastRunID,
		&state.Status,
		&errorMessage,
		&state.CreatedAt,
		&state.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if lastSyncTime.Valid {
		state.LastSyncTime = &lastSyncTime.Time
	}
	state.LastRunID = lastRunID.String
	state.ErrorMessage = errorMessage.String

	return &state, nil
}

// Journal adapts the journal tables to the sync reconciler.
type Journal struct {
	db *sql.DB
}

func NewJournal(db *sql.DB) *Journal {
	return &Journal{db: db}
}

func (j *Journal) BeginRun(ctx context.Context, service, runID string) error {
	return updateSyncStatus(ctx, j.db, service, models.SyncStateSyncing, runID, nil)
}

func (j *Journal) LogEntity(ctx context.Context, entry models.SyncLog) error {
	return createSyncLog(ctx, j.db, entry)
}

// EndRun marks the service idle on success and error otherwise.
func (j *Journal) EndRun(ctx context.Context, service, runID string, at time.Time, runErr error) error {
	if runErr == nil {
		return markSyncComplete(ctx, j.db, service, runID, at)
	}
	msg := runErr.Error()
	return updateSyncStatus(ctx, j.db, service, models.SyncStateError, runID, &msg)
}
