// ABOUTME: Sync reconciler pushing pending ledger entities to the remote tables
// ABOUTME: Deletes first, then per-entity upserts, then a batch payment insert

package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	gosync "sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/daftar/ledger"
	"github.com/harperreed/daftar/models"
	"github.com/oklog/ulid/v2"
)

// Remote is the external table service. Upsert takes a pointer to a payload
// struct, Insert a pointer to a payload slice. Deleting ids that do not
// exist must succeed.
type Remote interface {
	Upsert(ctx context.Context, table string, record any) error
	Delete(ctx context.Context, table string, ids []string) error
	Insert(ctx context.Context, table string, records any) error
	Ping(ctx context.Context) error
}

// Ledger is the part of the ledger store the reconciler reads and marks.
// Customers and debts are marked against the copy that was pushed, so an
// entity edited mid-run stays pending for the next run.
type Ledger interface {
	Snapshot() ledger.State
	SetCustomerSyncStatus(seen []models.Customer, status models.SyncStatus) (stale []string)
	SetDebtSyncStatus(seen []models.Debt, status models.SyncStatus) (stale []string)
	SetPaymentSyncStatus(ids []string, status models.SyncStatus)
}

// Journal records sync runs. Journal failures are logged, never fatal.
type Journal interface {
	BeginRun(ctx context.Context, service, runID string) error
	LogEntity(ctx context.Context, entry models.SyncLog) error
	EndRun(ctx context.Context, service, runID string, at time.Time, runErr error) error
}

// Sync operations as recorded in the journal.
const (
	OpUpsert = "upsert"
	OpDelete = "delete"
	OpInsert = "insert"
)

const DefaultService = "remote"

// Summary describes one reconciler run.
type Summary struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Synced     int
	Failed     int
	// Err joins every failure of the run, nil when all succeeded.
	Err error
}

// OK reports whether every operation of the run succeeded.
func (s Summary) OK() bool {
	return s.Err == nil
}

type Reconciler struct {
	ledger  Ledger
	remote  Remote
	journal Journal
	service string
	now     func() time.Time
	logger  *log.Logger

	// one run at a time
	mu gosync.Mutex
}

type Option func(*Reconciler)

func WithJournal(j Journal) Option {
	return func(r *Reconciler) { r.journal = j }
}

func WithLogger(logger *log.Logger) Option {
	return func(r *Reconciler) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

// WithService names the journal row for this remote.
func WithService(name string) Option {
	return func(r *Reconciler) { r.service = name }
}

func NewReconciler(l Ledger, remote Remote, opts ...Option) *Reconciler {
	r := &Reconciler{
		ledger:  l,
		remote:  remote,
		service: DefaultService,
		now:     time.Now,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SyncAll runs one reconciliation and reports whether everything succeeded.
func (r *Reconciler) SyncAll(ctx context.Context) bool {
	return r.Run(ctx).OK()
}

// Backlog reports how many entities await a push, split into changed and
// previously failed.
func (r *Reconciler) Backlog() (pending, failed int) {
	return r.ledger.Snapshot().SyncBacklog()
}

// Run pushes every entity whose status is not synced. A second concurrent
// call waits for the first to finish. Failed entities are marked error and
// retried on the next run. Cancelling ctx stops the run between operations
// and leaves the remaining entities untouched.
func (r *Reconciler) Run(ctx context.Context) Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	run := &runState{
		r: r,
		summary: Summary{
			RunID:     ulid.Make().String(),
			StartedAt: r.now(),
		},
	}
	r.logger.Info("sync started", "run", run.summary.RunID)
	if r.journal != nil {
		if err := r.journal.BeginRun(ctx, r.service, run.summary.RunID); err != nil {
			r.logger.Warn("failed to journal sync start", "err", err)
		}
	}

	snap := r.ledger.Snapshot()
	steps := []func(context.Context, ledger.State){
		run.deleteCustomers,
		run.deleteDebts,
		run.upsertCustomers,
		run.upsertDebts,
		run.insertPayments,
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			run.errs = append(run.errs, err)
			break
		}
		step(ctx, snap)
	}

	run.summary.FinishedAt = r.now()
	run.summary.Err = errors.Join(run.errs...)

	if r.journal != nil {
		// The journal is written even when ctx was cancelled.
		if err := r.journal.EndRun(context.WithoutCancel(ctx), r.service, run.summary.RunID, run.summary.FinishedAt, run.summary.Err); err != nil {
			r.logger.Warn("failed to journal sync end", "err", err)
		}
	}

	if run.summary.OK() {
		r.logger.Info("sync finished", "run", run.summary.RunID, "synced", run.summary.Synced)
	} else {
		r.logger.Error("sync finished with errors", "run", run.summary.RunID,
			"synced", run.summary.Synced, "failed", run.summary.Failed, "err", run.summary.Err)
	}
	return run.summary
}

type runState struct {
	r       *Reconciler
	summary Summary
	errs    []error
}

func (s *runState) deleteCustomers(ctx context.Context, st ledger.State) {
	var (
		ids  []string
		seen []models.Customer
	)
	for _, c := range st.Customers {
		if c.SyncStatus.NeedsSync() && c.IsDeleted() {
			ids = append(ids, c.ID)
			seen = append(seen, c)
		}
	}
	if len(ids) == 0 {
		return
	}

	err := s.call(func() error { return s.r.remote.Delete(ctx, TableCustomers, ids) })
	status := s.record(ctx, TableCustomers, OpDelete, ids, err)
	s.stale(TableCustomers, s.r.ledger.SetCustomerSyncStatus(seen, status))
}

func (s *runState) deleteDebts(ctx context.Context, st ledger.State) {
	var (
		ids  []string
		seen []models.Debt
	)
	for _, d := range st.Debts {
		if d.SyncStatus.NeedsSync() && d.IsDeleted() {
			ids = append(ids, d.ID)
			seen = append(seen, d)
		}
	}
	if len(ids) == 0 {
		return
	}

	err := s.call(func() error { return s.r.remote.Delete(ctx, TableDebts, ids) })
	status := s.record(ctx, TableDebts, OpDelete, ids, err)
	s.stale(TableDebts, s.r.ledger.SetDebtSyncStatus(seen, status))
}

func (s *runState) upsertCustomers(ctx context.Context, st ledger.State) {
	for _, c := range st.Customers {
		if !c.SyncStatus.NeedsSync() || c.IsDeleted() {
			continue
		}
		if ctx.Err() != nil {
			return
		}

		payload := NewCustomerPayload(c)
		err := s.call(func() error { return s.r.remote.Upsert(ctx, TableCustomers, &payload) })
		status := s.record(ctx, TableCustomers, OpUpsert, []string{c.ID}, err)
		s.stale(TableCustomers, s.r.ledger.SetCustomerSyncStatus([]models.Customer{c}, status))
	}
}

func (s *runState) upsertDebts(ctx context.Context, st ledger.State) {
	for _, d := range st.Debts {
		if !d.SyncStatus.NeedsSync() || d.IsDeleted() {
			continue
		}
		if ctx.Err() != nil {
			return
		}

		payload := NewDebtPayload(d)
		err := s.call(func() error { return s.r.remote.Upsert(ctx, TableDebts, &payload) })
		status := s.record(ctx, TableDebts, OpUpsert, []string{d.ID}, err)
		s.stale(TableDebts, s.r.ledger.SetDebtSyncStatus([]models.Debt{d}, status))
	}
}

// insertPayments pushes pending payments as one batch. The whole batch shares
// one outcome.
func (s *runState) insertPayments(ctx context.Context, st ledger.State) {
	var (
		ids      []string
		payloads []PaymentPayload
	)
	for _, p := range st.Payments {
		if p.SyncStatus.NeedsSync() {
			ids = append(ids, p.ID)
			payloads = append(payloads, NewPaymentPayload(p))
		}
	}
	if len(payloads) == 0 {
		return
	}

	err := s.call(func() error { return s.r.remote.Insert(ctx, TablePayments, &payloads) })
	status := s.record(ctx, TablePayments, OpInsert, ids, err)
	s.r.ledger.SetPaymentSyncStatus(ids, status)
}

// stale logs entities that changed while their push was in flight. They keep
// their pending status and go out with the next run.
func (s *runState) stale(table string, ids []string) {
	if len(ids) > 0 {
		s.r.logger.Debug("changed during sync, left pending", "table", table, "ids", ids)
	}
}

// call invokes a remote operation, turning a panic into an error.
func (s *runState) call(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("remote panicked: %v", p)
		}
	}()
	return fn()
}

// record tallies the outcome of one remote operation covering ids and
// returns the sync status to mark them with.
func (s *runState) record(ctx context.Context, table, op string, ids []string, err error) models.SyncStatus {
	status := models.SyncSynced
	if err != nil {
		status = models.SyncError
		s.summary.Failed += len(ids)
		s.errs = append(s.errs, fmt.Errorf("failed to %s %s: %w", op, table, err))
		s.r.logger.Warn("sync operation failed", "table", table, "op", op, "count", len(ids), "err", err)
	} else {
		s.summary.Synced += len(ids)
		s.r.logger.Debug("sync operation ok", "table", table, "op", op, "count", len(ids))
	}

	if s.r.journal == nil {
		return status
	}
	at := s.r.now()
	for _, id := range ids {
		entry := models.SyncLog{
			ID:         ulid.Make().String(),
			RunID:      s.summary.RunID,
			EntityType: table,
			EntityID:   id,
			Op:         op,
			Status:     string(status),
			LoggedAt:   at,
		}
		if err != nil {
			entry.Error = err.Error()
		}
		if jerr := s.r.journal.LogEntity(context.WithoutCancel(ctx), entry); jerr != nil {
			s.r.logger.Warn("failed to journal sync entity", "id", id, "err", jerr)
		}
	}
	return status
}
