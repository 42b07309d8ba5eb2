// ABOUTME: Entry point for the daftar debt ledger CLI and MCP server
// ABOUTME: Loads config, opens the ledger and routes to subcommands
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/harperreed/daftar/charm"
	"github.com/harperreed/daftar/cli"
	"github.com/harperreed/daftar/config"
	"github.com/joho/godotenv"
)

const version = "0.1.0"

type command func(app *cli.App, args []string) error

var commands = map[string]map[string]command{
	"customer": {
		"add":    cli.AddCustomerCommand,
		"list":   cli.ListCustomersCommand,
		"show":   cli.ShowCustomerCommand,
		"update": cli.UpdateCustomerCommand,
		"delete": cli.DeleteCustomerCommand,
	},
	"debt": {
		"add":    cli.AddDebtCommand,
		"list":   cli.ListDebtsCommand,
		"pay":    cli.PayDebtCommand,
		"settle": cli.SettleDebtCommand,
		"delete": cli.DeleteDebtCommand,
	},
	"report": {
		"summary":   cli.ReportSummaryCommand,
		"monthly":   cli.ReportMonthlyCommand,
		"trends":    cli.ReportTrendsCommand,
		"top":       cli.ReportTopCommand,
		"status":    cli.ReportStatusCommand,
		"stats":     cli.ReportStatsCommand,
		"dashboard": cli.ReportDashboardCommand,
	},
	"settings": {
		"show": cli.SettingsShowCommand,
		"set":  cli.SettingsSetCommand,
	},
	"sync": {
		"now":    cli.SyncNowCommand,
		"status": cli.SyncStatusCommand,
		"watch":  cli.SyncWatchCommand,
	},
	"reminders": {
		"scan": cli.RemindersScanCommand,
		"run":  cli.RemindersRunCommand,
	},
}

func main() {
	showVersion := flag.Bool("version", false, "Show version and exit")
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("daftar version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}
	if cfg.EnsureDeviceID() {
		if err := config.Save(cfg); err != nil {
			log.Warn("failed to save device id", "err", err)
		}
	}
	logger := cfg.NewLogger(os.Stderr)

	if err := run(cfg, logger, args[0], args[1:]); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *log.Logger, name string, args []string) error {
	switch name {
	case "version":
		fmt.Printf("daftar version %s\n", version)
		return nil

	case "cloud":
		return runCloud(cfg, args)

	case "remind", "mcp", "daemon":
		return withApp(cfg, logger, func(app *cli.App) error {
			switch name {
			case "remind":
				return cli.RemindCommand(app, args)
			case "mcp":
				return cli.MCPCommand(app, version)
			default:
				return cli.DaemonCommand(app, args)
			}
		})
	}

	group, ok := commands[name]
	if !ok {
		fmt.Printf("Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}
	if len(args) == 0 {
		fmt.Printf("Error: %s requires a subcommand\n\n", name)
		printUsage()
		os.Exit(1)
	}
	cmd, ok := group[args[0]]
	if !ok {
		fmt.Printf("Unknown %s command: %s\n\n", name, args[0])
		printUsage()
		os.Exit(1)
	}

	return withApp(cfg, logger, func(app *cli.App) error {
		return cmd(app, args[1:])
	})
}

func withApp(cfg *config.Config, logger *log.Logger, fn func(app *cli.App) error) error {
	app, err := cli.Open(cfg, logger)
	if err != nil {
		return err
	}
	return errors.Join(fn(app), app.Close())
}

func runCloud(cfg *config.Config, args []string) error {
	if len(args) == 0 {
		fmt.Println("Error: cloud requires a subcommand")
		printUsage()
		os.Exit(1)
	}

	sub, subArgs := args[0], args[1:]
	switch sub {
	case "unlink":
		return charm.UnlinkCommand(os.Stdout, cfg, subArgs)
	case "auto":
		return charm.AutoCommand(os.Stdout, cfg, subArgs)
	case "status":
		if !cfg.Charm.Enabled {
			return charm.StatusCommand(os.Stdout, nil, cfg, subArgs)
		}
	}

	client, err := charm.GetClient(charm.FromAppConfig(cfg.Charm))
	if err != nil {
		return fmt.Errorf("failed to connect to charm: %w", err)
	}

	switch sub {
	case "link":
		return charm.LinkCommand(os.Stdout, client, cfg, subArgs)
	case "status":
		return charm.StatusCommand(os.Stdout, client, cfg, subArgs)
	case "wipe":
		return charm.WipeCommand(os.Stdout, client, subArgs)
	case "sync":
		return charm.NowCommand(os.Stdout, client, subArgs)
	default:
		fmt.Printf("Unknown cloud command: %s\n\n", sub)
		printUsage()
		os.Exit(1)
	}
	return nil
}

func printUsage() {
	fmt.Printf(`daftar v%s - Debt ledger for a fabric shop

USAGE:
  daftar [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit

COMMANDS:
  customer               Manage customers
  debt                   Record debts and payments
  report                 Reports and statistics
  remind                 Build an SMS reminder for a customer
  settings               Reminder settings
  sync                   Push changes to the remote database
  reminders              Overdue debt notifications
  daemon                 Run sync and reminders in the background
  cloud                  Charm cloud backup of the ledger
  mcp                    Start MCP server for Claude Desktop

CUSTOMER COMMANDS:
  daftar customer add       Add a customer
    --name <name>             Customer name (required, unique)
    --phone <phone>           Phone number (required, unique)

  daftar customer list      List customers with what they owe
    --query <text>            Search by name or phone
    --owing                   Only customers with unpaid debts

  daftar customer show --id <id>     Show a customer and their debts
  daftar customer update --id <id>   Change name (--name) or phone (--phone)
  daftar customer delete --id <id>   Delete a customer and their debts
    --force                   Delete even with unpaid debts

DEBT COMMANDS:
  daftar debt add           Record a debt
    --customer <id>           Customer ID (required)
    --amount <amount>         Amount in dinars (required)
    --date <YYYY-MM-DD>       Debt date (default: now)
    --notes <text>            What was bought

  daftar debt list          List debts
    --customer <id>           Only this customer
    --unpaid                  Only unpaid debts
    --overdue                 Only debts older than 30 days

  daftar debt pay           Record a payment
    --id <id>                 Debt ID (required)
    --amount <amount>         Amount paid (required)
    --date <YYYY-MM-DD>       Payment date (default: now)
    --notes <text>            Payment notes

  daftar debt settle --id <id>   Pay off the remaining balance
  daftar debt delete --id <id>   Delete a debt

REPORT COMMANDS:
  daftar report summary     Totals and recent debts
  daftar report monthly     Collected in a month (--year, --month)
  daftar report trends      Monthly collections (--months, default 6)
  daftar report top         Top customers by debt (--limit)
  daftar report status      Debts by paid/overdue/current
  daftar report stats       Collection rate and averages
  daftar report dashboard   Everything at a glance

REMINDERS:
  daftar remind --customer <id>   Print the reminder message and sms: link
  daftar settings show            Show reminder settings
  daftar settings set             Change reminder settings
    --enabled, --shop-name, --message, --auto-open-sms,
    --overdue-notifications, --overdue-days
  daftar reminders scan           Notify about overdue debts once
    --dry-run                     List due debts only
  daftar reminders run            Scan on a schedule (--interval, minimum 15m)

SYNC COMMANDS:
  daftar sync now           Push pending changes (--migrate creates tables)
  daftar sync status        Pending counts and recent sync activity
  daftar sync watch         Sync whenever the remote comes back online
  daftar daemon             Run sync watch and reminders together
    --sync-interval, --reminder-interval
                            Holds the ledger lock while running; stop it
                            before using other daftar commands

CLOUD COMMANDS:
  daftar cloud link         Link this device to Charm cloud backup
  daftar cloud status       Show backup status
  daftar cloud sync         Sync the backup now
  daftar cloud auto         Toggle auto-sync (--enable / --disable)
  daftar cloud wipe         Delete the backup (--confirm)
  daftar cloud unlink       Go back to local-only storage

ENVIRONMENT:
  DAFTAR_REMOTE_DRIVER      postgres or sqlite
  DAFTAR_REMOTE_DSN         Remote connection string
  DAFTAR_DATA_DIR           Where the ledger is stored
  DAFTAR_LOCALE             Number and month format (default: ar-DZ)
  DAFTAR_TIMEZONE           Reporting timezone (default: Africa/Algiers)

EXAMPLES:
  # Add a customer and a debt
  daftar customer add --name "Ahmed" --phone "0550123456"
  daftar debt add --customer <id> --amount 1500 --notes "Cotton 3m"

  # Record a partial payment
  daftar debt pay --id <debt-id> --amount 500

  # Push everything to Postgres
  DAFTAR_REMOTE_DRIVER=postgres DAFTAR_REMOTE_DSN=postgres://... daftar sync now --migrate

`, version)
}
