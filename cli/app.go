// ABOUTME: Shared runtime for ledger CLI commands
// ABOUTME: Wires config, persistence, the ledger store and the reporting engine

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/harperreed/daftar/charm"
	"github.com/harperreed/daftar/config"
	"github.com/harperreed/daftar/ledger"
	"github.com/harperreed/daftar/reminders"
	"github.com/harperreed/daftar/reports"
	"github.com/harperreed/daftar/storage"
	"github.com/shopspring/decimal"
)

// App is what every command works against. Mutations made through Store are
// saved by the persister; Close writes the final snapshot.
type App struct {
	Config  *config.Config
	Logger  *log.Logger
	Store   *ledger.Store
	Reports *reports.Engine
	Out     io.Writer

	persister *storage.Persister
	closers   []func() error
	styled    bool
}

// Open builds the app on the configured key-value backend: Charm cloud when
// enabled, the local Badger store otherwise.
func Open(cfg *config.Config, logger *log.Logger) (*App, error) {
	if cfg.Charm.Enabled {
		client, err := charm.GetClient(charm.FromAppConfig(cfg.Charm))
		if err != nil {
			return nil, fmt.Errorf("failed to open charm backup: %w", err)
		}
		return NewApp(cfg, logger, client, client.Close)
	}

	kv, err := storage.OpenBadger(cfg.StatePath())
	if err != nil {
		return nil, err
	}
	app, err := NewApp(cfg, logger, kv, kv.Close)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}
	return app, nil
}

// NewApp rehydrates the ledger from kv and starts saving it. closer runs
// after the final save.
func NewApp(cfg *config.Config, logger *log.Logger, kv storage.KV, closer func() error) (*App, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	persister := storage.NewPersister(kv, logger)
	state, err := persister.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	store := ledger.New(ledger.WithState(state), ledger.WithLogger(logger))
	persister.Start(store)

	app := &App{
		Config:    cfg,
		Logger:    logger,
		Store:     store,
		Reports:   reports.New(store, reports.WithLocation(cfg.Location()), reports.WithLocale(cfg.LanguageTag())),
		Out:       os.Stdout,
		persister: persister,
		styled:    isTerminal(os.Stdout),
	}
	if closer != nil {
		app.closers = append(app.closers, closer)
	}
	return app, nil
}

// Close saves the ledger and releases the backend.
func (a *App) Close() error {
	errs := []error{a.persister.Close()}
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) money(d decimal.Decimal) string {
	return reminders.FormatAmount(a.Config.LanguageTag(), d)
}

func (a *App) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.Out, format, args...)
}

func (a *App) println(args ...any) {
	_, _ = fmt.Fprintln(a.Out, args...)
}
