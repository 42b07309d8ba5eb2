// ABOUTME: Reminder settings CLI commands
// ABOUTME: Show and change the shop's reminder configuration

package cli

import (
	"flag"
	"fmt"

	"github.com/harperreed/daftar/ledger"
)

// SettingsShowCommand prints the current reminder settings.
func SettingsShowCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("settings show", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	s := app.Store.ReminderSettings()
	app.title("Reminder Settings")
	app.printf("Reminders enabled:      %v\n", s.Enabled)
	app.printf("Shop name:              %s\n", s.ShopName)
	app.printf("Open SMS app:           %v\n", s.AutoOpenSMS)
	app.printf("Overdue notifications:  %v\n", s.OverdueNotificationsEnabled)
	app.printf("Overdue after:          %d days\n", s.OverduePeriodDays)
	app.printf("Message template:\n  %s\n", s.ReminderMessage)
	return nil
}

// SettingsSetCommand changes the settings named by the flags given.
func SettingsSetCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("settings set", flag.ContinueOnError)
	enabled := fs.Bool("enabled", true, "Enable reminders")
	shopName := fs.String("shop-name", "", "Shop name used in messages")
	message := fs.String("message", "", "Message template ({name}, {shopName}, {amount})")
	autoOpen := fs.Bool("auto-open-sms", true, "Open the SMS app with the message")
	notify := fs.Bool("overdue-notifications", true, "Notify about overdue debts")
	days := fs.Int("overdue-days", 0, "Days after which a debt is overdue")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var patch ledger.SettingsPatch
	changed := 0
	fs.Visit(func(f *flag.Flag) {
		changed++
		switch f.Name {
		case "enabled":
			patch.Enabled = enabled
		case "shop-name":
			patch.ShopName = shopName
		case "message":
			patch.ReminderMessage = message
		case "auto-open-sms":
			patch.AutoOpenSMS = autoOpen
		case "overdue-notifications":
			patch.OverdueNotificationsEnabled = notify
		case "overdue-days":
			patch.OverduePeriodDays = days
		}
	})
	if changed == 0 {
		return fmt.Errorf("nothing to update")
	}
	if patch.OverduePeriodDays != nil && *patch.OverduePeriodDays <= 0 {
		return fmt.Errorf("--overdue-days must be positive")
	}

	app.Store.UpdateReminderSettings(patch)
	app.println("✓ Settings updated")
	return nil
}
