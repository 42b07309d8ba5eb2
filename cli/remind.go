// ABOUTME: Reminder message CLI command
// ABOUTME: Builds the SMS reminder for a customer's outstanding balance

package cli

import (
	"flag"
	"fmt"

	"github.com/harperreed/daftar/reminders"
)

// RemindCommand prints the filled-in reminder message for a customer and an
// sms: link to send it.
func RemindCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("remind", flag.ContinueOnError)
	id := fs.String("customer", "", "Customer ID (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st := app.Store.Snapshot()
	customer, ok := st.Customer(*id)
	if !ok {
		return fmt.Errorf("customer not found: %s", *id)
	}

	remaining := reminders.CustomerRemaining(st, customer.ID)
	if !remaining.IsPositive() {
		return fmt.Errorf("%s has no outstanding debt to remind about", customer.Name)
	}

	data := reminders.BuildReminder(app.Config.LanguageTag(), st.ReminderSettings, customer, remaining)
	app.title("Reminder for " + data.CustomerName)
	app.printf("Phone:  %s\n", data.CustomerPhone)
	app.printf("Owed:   %s\n\n", app.money(data.TotalDebt))
	app.println(data.Message)
	if st.ReminderSettings.AutoOpenSMS {
		app.printf("\n%s\n", reminders.SMSLink(data.CustomerPhone, data.Message))
	}
	return nil
}
