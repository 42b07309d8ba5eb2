// ABOUTME: Overdue reminder CLI commands
// ABOUTME: Run one reminder scan or keep scanning on a schedule

package cli

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harperreed/daftar/reminders"
)

// RemindersScanCommand runs one scan and prints the notifications it issued.
func RemindersScanCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("reminders scan", flag.ContinueOnError)
	dryRun := fs.Bool("dry-run", false, "List due debts without notifying")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *dryRun {
		st := app.Store.Snapshot()
		due := reminders.DueDebts(st, time.Now())
		if len(due) == 0 {
			app.println("No reminders due")
			return nil
		}
		printDebts(app, st, due)
		return nil
	}

	rec := &reminders.Recorder{}
	scanner := reminders.NewScanner(app.Store, rec, reminders.WithLogger(app.Logger))
	result, err := scanner.Scan(context.Background())

	for _, n := range rec.Sent() {
		app.printf("%s %s\n  %s\n", app.render(warnStyle, "🔔"), n.Title, n.Body)
	}
	if result == reminders.NoData {
		app.println("No reminders due")
	}
	return err
}

// RemindersRunCommand scans on the configured interval until interrupted.
func RemindersRunCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("reminders run", flag.ContinueOnError)
	interval := fs.Duration("interval", app.Config.ReminderEvery(), "Scan interval (minimum 15m)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := newReminderScheduler(app, *interval)
	app.printf("Scanning for overdue debts every %s (Ctrl+C to stop)\n", scheduler.Interval())

	err := scheduler.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func newReminderScheduler(app *App, interval time.Duration) *reminders.Scheduler {
	scanner := reminders.NewScanner(app.Store, reminders.LogNotifier{Logger: app.Logger}, reminders.WithLogger(app.Logger))
	return reminders.NewScheduler(scanner, interval, app.Logger)
}
