// ABOUTME: Connectivity watcher that keeps the remote caught up with the ledger
// ABOUTME: Syncs on reconnect, on notified local changes and on ticks with a backlog

package sync

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

const DefaultWatchInterval = 30 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

// Watcher starts out offline, so the first successful ping also syncs.
// Only Run's goroutine touches the connectivity state; Notify is safe from
// any goroutine.
type Watcher struct {
	remote   Pinger
	sync     func(ctx context.Context) Summary
	backlog  func() (pending, failed int)
	interval time.Duration
	timeout  time.Duration
	logger   *log.Logger

	online  bool
	changed chan struct{}
}

func NewWatcher(remote Pinger, r *Reconciler, interval time.Duration, logger *log.Logger) *Watcher {
	return newWatcher(remote, r.Run, r.Backlog, interval, logger)
}

func newWatcher(remote Pinger, sync func(context.Context) Summary, backlog func() (int, int), interval time.Duration, logger *log.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Watcher{
		remote:   remote,
		sync:     sync,
		backlog:  backlog,
		interval: interval,
		timeout:  10 * time.Second,
		logger:   logger,
		changed:  make(chan struct{}, 1),
	}
}

// Notify tells a running watcher the ledger changed. Notifications arriving
// while a sync runs collapse into one follow-up check.
func (w *Watcher) Notify() {
	select {
	case w.changed <- struct{}{}:
	default:
	}
}

// Check pings once. It syncs when the remote just became reachable, or when
// it stays reachable and entities are still waiting, failed ones included.
// It returns whether the remote is reachable.
func (w *Watcher) Check(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, w.timeout)
	err := w.remote.Ping(pingCtx)
	cancel()

	if err != nil {
		if w.online {
			w.logger.Warn("remote unreachable", "err", err)
		}
		w.online = false
		return false
	}

	if !w.online {
		w.online = true
		w.logger.Info("remote reachable, syncing")
		w.run(ctx, "sync after reconnect incomplete")
		return true
	}

	if pending, failed := w.backlog(); pending+failed > 0 {
		w.logger.Debug("backlog waiting, syncing", "pending", pending, "failed", failed)
		w.run(ctx, "sync of backlog incomplete")
	}
	return true
}

// flush pushes fresh local changes while online. Entities that only failed
// wait for the next tick, so a failing remote is not retried in a loop.
func (w *Watcher) flush(ctx context.Context) {
	if !w.online {
		return
	}
	if pending, _ := w.backlog(); pending == 0 {
		return
	}
	w.run(ctx, "sync of local changes incomplete")
}

func (w *Watcher) run(ctx context.Context, incomplete string) {
	summary := w.sync(ctx)
	if !summary.OK() {
		w.logger.Warn(incomplete, "failed", summary.Failed)
	}
}

// Run checks immediately, then on every interval and after every Notify,
// until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	w.Check(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.Check(ctx)
		case <-w.changed:
			w.flush(ctx)
		}
	}
}
