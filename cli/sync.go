// ABOUTME: Remote sync CLI commands
// ABOUTME: Push pending changes now, show sync status and watch for connectivity

package cli

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/harperreed/daftar/db"
	"github.com/harperreed/daftar/models"
	dsync "github.com/harperreed/daftar/sync"
)

// ErrRemoteNotConfigured is returned by sync commands without a remote.
var ErrRemoteNotConfigured = errors.New("remote not configured: set DAFTAR_REMOTE_DRIVER and DAFTAR_REMOTE_DSN")

// syncTimeout bounds a one-off sync.
const syncTimeout = 2 * time.Minute

type syncRuntime struct {
	reconciler *dsync.Reconciler
	remote     *dsync.GormRemote
	journal    *sql.DB
}

func (s *syncRuntime) Close() error {
	return errors.Join(s.remote.Close(), s.journal.Close())
}

// openSync connects to the remote and the local journal. With migrate set
// the remote tables are created first.
func openSync(ctx context.Context, app *App, migrate bool) (*syncRuntime, error) {
	cfg := app.Config
	if !cfg.RemoteConfigured() {
		return nil, ErrRemoteNotConfigured
	}

	remote, err := dsync.OpenGormRemote(cfg.Remote.Driver, cfg.Remote.DSN)
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := remote.Migrate(ctx); err != nil {
			_ = remote.Close()
			return nil, err
		}
	}

	journal, err := db.OpenDatabase(cfg.JournalPath())
	if err != nil {
		_ = remote.Close()
		return nil, err
	}

	r := dsync.NewReconciler(app.Store, remote,
		dsync.WithJournal(db.NewJournal(journal)),
		dsync.WithLogger(app.Logger),
		dsync.WithService(cfg.Remote.Driver),
	)
	return &syncRuntime{reconciler: r, remote: remote, journal: journal}, nil
}

// SyncNowCommand pushes every pending change to the remote.
func SyncNowCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("sync now", flag.ContinueOnError)
	migrate := fs.Bool("migrate", false, "Create the remote tables first")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()

	rt, err := openSync(ctx, app, *migrate)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	summary := rt.reconciler.Run(ctx)
	if summary.OK() {
		app.printf("%s Synced %d changes\n", app.render(okStyle, "✓"), summary.Synced)
		return nil
	}
	app.printf("%s %d synced, %d failed\n", app.render(errorStyle, "✗"), summary.Synced, summary.Failed)
	return fmt.Errorf("sync incomplete: %w", summary.Err)
}

// SyncStatusCommand shows what is waiting to be pushed and the recent
// journal entries.
func SyncStatusCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("sync status", flag.ContinueOnError)
	limit := fs.Int("limit", 10, "Recent log entries to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st := app.Store.Snapshot()
	var customers, debts, payments, failed int
	for _, c := range st.Customers {
		if c.SyncStatus.NeedsSync() {
			customers++
		}
		if c.SyncStatus == models.SyncError {
			failed++
		}
	}
	for _, d := range st.Debts {
		if d.SyncStatus.NeedsSync() {
			debts++
		}
		if d.SyncStatus == models.SyncError {
			failed++
		}
	}
	for _, p := range st.Payments {
		if p.SyncStatus.NeedsSync() {
			payments++
		}
		if p.SyncStatus == models.SyncError {
			failed++
		}
	}

	app.title("Sync Status")
	if app.Config.RemoteConfigured() {
		app.printf("Remote:    %s\n", app.Config.Remote.Driver)
	} else {
		app.printf("Remote:    %s\n", app.render(mutedStyle, "not configured"))
	}
	app.printf("Pending:   %d customers, %d debts, %d payments\n", customers, debts, payments)
	if failed > 0 {
		app.printf("Failed:    %s\n", app.render(errorStyle, fmt.Sprint(failed)))
	}

	if _, err := os.Stat(app.Config.JournalPath()); err != nil {
		return nil
	}
	journal, err := db.OpenDatabase(app.Config.JournalPath())
	if err != nil {
		return err
	}
	defer func() { _ = journal.Close() }()

	states, err := db.GetAllSyncStates(journal)
	if err != nil {
		return err
	}
	for _, s := range states {
		app.println()
		app.header(s.Service)
		app.printf("Status:    %s\n", app.syncStateLabel(s))
		if s.LastSyncTime != nil {
			app.printf("Last sync: %s\n", s.LastSyncTime.In(app.Config.Location()).Format("2006-01-02 15:04"))
		}
	}

	logs, err := db.RecentSyncLogs(journal, *limit)
	if err != nil {
		return err
	}
	if len(logs) == 0 {
		return nil
	}
	app.println()
	app.header("Recent activity")
	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TIME\tENTITY\tOP\tSTATUS\tID")
	for _, l := range logs {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			l.LoggedAt.In(app.Config.Location()).Format("01-02 15:04"), l.EntityType, l.Op, l.Status, l.EntityID)
	}
	return w.Flush()
}

func (a *App) syncStateLabel(s models.SyncState) string {
	switch s.Status {
	case models.SyncStateSyncing:
		return a.render(warnStyle, "⟳ syncing")
	case models.SyncStateError:
		label := "✗ error"
		if s.ErrorMessage != "" {
			label += ": " + s.ErrorMessage
		}
		return a.render(errorStyle, label)
	default:
		return a.render(okStyle, "✓ idle")
	}
}

// SyncWatchCommand syncs whenever the remote becomes reachable, until
// interrupted.
func SyncWatchCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("sync watch", flag.ContinueOnError)
	interval := fs.Duration("interval", app.Config.SyncEvery(), "Connectivity check interval")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := openSync(ctx, app, false)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	app.printf("Watching %s every %s (Ctrl+C to stop)\n", app.Config.Remote.Driver, *interval)
	err = dsync.NewWatcher(rt.remote, rt.reconciler, *interval, app.Logger).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
