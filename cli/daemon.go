// ABOUTME: Long-running daemon CLI command
// ABOUTME: Runs the connectivity sync watcher and the reminder scheduler together

package cli

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/daftar/ledger"
	dsync "github.com/harperreed/daftar/sync"
	"golang.org/x/sync/errgroup"
)

// DaemonCommand keeps the ledger synced and reminders flowing until
// interrupted. Sync is skipped when no remote is configured. The ledger
// stays locked for the daemon's lifetime; other daftar commands cannot open
// it until the daemon stops.
func DaemonCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	syncEvery := fs.Duration("sync-interval", app.Config.SyncEvery(), "Connectivity check interval")
	remindEvery := fs.Duration("reminder-interval", app.Config.ReminderEvery(), "Reminder scan interval (minimum 15m)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	if app.Config.RemoteConfigured() {
		rt, err := openSync(ctx, app, false)
		if err != nil {
			return err
		}
		defer func() { _ = rt.Close() }()

		watcher := dsync.NewWatcher(rt.remote, rt.reconciler, *syncEvery, app.Logger)
		// The daemon holds the ledger lock, so its own mutations are the
		// only local changes to push.
		unsubscribe := app.Store.Subscribe(func(ledger.Change) { watcher.Notify() })
		defer unsubscribe()
		g.Go(func() error { return watcher.Run(ctx) })
		app.Logger.Info("sync watcher started", "remote", app.Config.Remote.Driver, "interval", *syncEvery)
	} else {
		app.Logger.Warn("remote not configured, sync disabled")
	}

	scheduler := newReminderScheduler(app, *remindEvery)
	g.Go(func() error { return scheduler.Run(ctx) })
	app.Logger.Info("reminder scheduler started", "interval", scheduler.Interval())

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
