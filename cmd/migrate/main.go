// ABOUTME: Import utility for ledger exports from the mobile app
// ABOUTME: Converts an exported JSON blob and writes it to the local ledger store

package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/daftar/config"
	"github.com/harperreed/daftar/storage"
)

func main() {
	input := flag.String("in", "", "Path to the exported JSON file (required)")
	dataDir := flag.String("data-dir", "", "Ledger data directory (default: from config)")
	dryRun := flag.Bool("dry-run", false, "Show what would be imported without writing")
	backup := flag.Bool("backup", true, "Back up the existing ledger before replacing it")
	force := flag.Bool("force", false, "Replace a ledger that already has data")
	flag.Parse()

	if *input == "" {
		log.Fatal("Error: -in flag is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	if err := migrate(cfg, *input, *dryRun, *backup, *force); err != nil {
		log.Fatal("import failed", "err", err)
	}
	log.Info("import completed successfully")
}

func migrate(cfg *config.Config, input string, dryRun, createBackup, force bool) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read export: %w", err)
	}
	imported, err := storage.DecodeLegacy(data)
	if err != nil {
		return err
	}
	log.Info("export decoded",
		"customers", len(imported.Customers),
		"debts", len(imported.Debts),
		"payments", len(imported.Payments))

	if dryRun {
		log.Info("[DRY RUN] would write ledger", "path", cfg.StatePath())
		return nil
	}

	kv, err := storage.OpenBadger(cfg.StatePath())
	if err != nil {
		return err
	}
	defer func() { _ = kv.Close() }()

	persister := storage.NewPersister(kv, log.Default())
	existing, err := persister.Load()
	if err != nil {
		return err
	}
	hasData := len(existing.Customers)+len(existing.Debts)+len(existing.Payments) > 0
	if hasData && !force {
		log.Warn("the ledger already has data and will be replaced",
			"customers", len(existing.Customers), "debts", len(existing.Debts))
		return fmt.Errorf("import requires -force flag")
	}

	if hasData && createBackup {
		blob, err := storage.Encode(existing)
		if err != nil {
			return err
		}
		backupPath := fmt.Sprintf("%s.backup.%s.json", cfg.StatePath(), time.Now().Format("20060102-150405"))
		if err := os.WriteFile(backupPath, blob, 0600); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
		log.Info("backup created", "path", backupPath)
	}

	return persister.Save(imported)
}
