// ABOUTME: Debt CLI commands
// ABOUTME: Record debts and payments, settle balances and list what is owed

package cli

import (
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/harperreed/daftar/ledger"
	"github.com/harperreed/daftar/models"
	"github.com/harperreed/daftar/reports"
)

const dateLayout = "2006-01-02"

// AddDebtCommand records a new debt for an existing customer.
func AddDebtCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("debt add", flag.ContinueOnError)
	customerID := fs.String("customer", "", "Customer ID (required)")
	rawAmount := fs.String("amount", "", "Amount in dinars (required)")
	rawDate := fs.String("date", "", "Debt date YYYY-MM-DD (default: now)")
	notes := fs.String("notes", "", "What was bought")
	if err := fs.Parse(args); err != nil {
		return err
	}

	customer, ok := app.Store.GetCustomer(*customerID)
	if !ok {
		return fmt.Errorf("customer not found: %s", *customerID)
	}
	amount, err := ledger.ParseAmount(*rawAmount)
	if err != nil {
		return err
	}
	date, err := parseDate(*rawDate, app.Config.Location())
	if err != nil {
		return err
	}

	debt := app.Store.AddDebt(ledger.NewDebt{
		CustomerID: customer.ID,
		Amount:     amount,
		Date:       date,
		Notes:      strings.TrimSpace(*notes),
	})
	app.printf("✓ Debt recorded for %s: %s (ID: %s)\n", customer.Name, app.money(debt.Amount), debt.ID)
	return nil
}

// ListDebtsCommand lists active debts, optionally filtered.
func ListDebtsCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("debt list", flag.ContinueOnError)
	customerID := fs.String("customer", "", "Only debts of this customer")
	unpaid := fs.Bool("unpaid", false, "Only unpaid debts")
	overdue := fs.Bool("overdue", false, "Only overdue debts")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st := app.Store.Snapshot()
	var debts []models.Debt
	switch {
	case *overdue:
		debts = app.Reports.OverdueDebts()
	case *unpaid:
		debts = st.UnpaidDebts()
	default:
		debts = st.ActiveDebts()
	}
	if *customerID != "" {
		filtered := debts[:0:0]
		for _, d := range debts {
			if d.CustomerID == *customerID {
				filtered = append(filtered, d)
			}
		}
		debts = filtered
	}

	if len(debts) == 0 {
		app.println("No debts found")
		return nil
	}
	printDebts(app, st, debts)
	return nil
}

// PayDebtCommand records a payment against a debt.
func PayDebtCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("debt pay", flag.ContinueOnError)
	id := fs.String("id", "", "Debt ID (required)")
	rawAmount := fs.String("amount", "", "Amount paid (required)")
	rawDate := fs.String("date", "", "Payment date YYYY-MM-DD (default: now)")
	notes := fs.String("notes", "", "Payment notes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	amount, err := ledger.ParseAmount(*rawAmount)
	if err != nil {
		return err
	}
	if err := app.Store.ValidatePayment(*id, amount); err != nil {
		return fmt.Errorf("cannot record payment: %w", err)
	}
	date, err := parseDate(*rawDate, app.Config.Location())
	if err != nil {
		return err
	}

	app.Store.AddPayment(ledger.NewPayment{DebtID: *id, Amount: amount, Date: date, Notes: *notes})

	debt, _ := app.Store.GetDebt(*id)
	app.printf("✓ Payment recorded: %s\n", app.money(amount))
	if debt.IsPaid {
		app.println("  Debt fully paid")
	} else {
		app.printf("  Remaining: %s\n", app.money(app.Store.GetRemainingAmount(debt)))
	}
	return nil
}

// SettleDebtCommand pays off whatever is left on a debt.
func SettleDebtCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("debt settle", flag.ContinueOnError)
	id := fs.String("id", "", "Debt ID (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	debt, ok := app.Store.GetDebt(*id)
	if !ok {
		return fmt.Errorf("debt not found: %s", *id)
	}
	remaining := app.Store.GetRemainingAmount(debt)

	app.Store.MarkDebtAsPaid(debt.ID)
	app.printf("✓ Debt settled (%s collected)\n", app.money(remaining))
	return nil
}

// DeleteDebtCommand soft-deletes a debt.
func DeleteDebtCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("debt delete", flag.ContinueOnError)
	id := fs.String("id", "", "Debt ID (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, ok := app.Store.GetDebt(*id); !ok {
		return fmt.Errorf("debt not found: %s", *id)
	}
	app.Store.DeleteDebt(*id)
	app.printf("✓ Debt deleted: %s\n", *id)
	return nil
}

func printDebts(app *App, st ledger.State, debts []models.Debt) {
	loc := app.Config.Location()
	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DATE\tCUSTOMER\tAMOUNT\tREMAINING\tSTATUS\tID")
	_, _ = fmt.Fprintln(w, "----\t--------\t------\t---------\t------\t--")

	for _, d := range debts {
		name := "-"
		if c, ok := st.Customer(d.CustomerID); ok {
			name = c.Name
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			formatDate(d.Date, loc), name, app.money(d.Amount), app.money(st.RemainingAmount(d)), app.debtStatus(d), d.ID)
	}
	_ = w.Flush()
}

func (a *App) debtStatus(d models.Debt) string {
	switch {
	case d.IsPaid:
		return a.render(okStyle, "paid")
	case d.Date.Before(time.Now().Add(-reports.ReportOverdueWindow)):
		return a.render(errorStyle, "overdue")
	default:
		return "open"
	}
}

func parseDate(raw string, loc *time.Location) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", raw)
	}
	return t, nil
}

// formatDate renders DD/MM/YYYY in loc.
func formatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("02/01/2006")
}
