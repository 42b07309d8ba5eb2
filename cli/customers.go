// ABOUTME: Customer CLI commands
// ABOUTME: Add, list, update, show and delete shop customers

package cli

import (
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/harperreed/daftar/ledger"
)

// AddCustomerCommand adds a new customer.
func AddCustomerCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("customer add", flag.ContinueOnError)
	name := fs.String("name", "", "Customer name (required)")
	phone := fs.String("phone", "", "Phone number (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := app.Store.ValidateCustomer(*name, *phone, ""); err != nil {
		return err
	}

	customer := app.Store.AddCustomer(*name, *phone)
	app.printf("✓ Customer added: %s (ID: %s)\n", customer.Name, customer.ID)
	app.printf("  Phone: %s\n", customer.Phone)
	return nil
}

// ListCustomersCommand lists customers with what they still owe.
func ListCustomersCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("customer list", flag.ContinueOnError)
	query := fs.String("query", "", "Search by name or phone")
	owing := fs.Bool("owing", false, "Only customers with unpaid debts")
	if err := fs.Parse(args); err != nil {
		return err
	}

	matches := map[string]bool{}
	for _, c := range app.Store.FindCustomers(*query) {
		matches[c.ID] = true
	}

	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	printed := 0
	for _, s := range app.Reports.CustomerSummaries() {
		if !matches[s.ID] || (*owing && s.UnpaidDebts == 0) {
			continue
		}
		if printed == 0 {
			_, _ = fmt.Fprintln(w, "NAME\tPHONE\tOWED\tUNPAID\tID")
			_, _ = fmt.Fprintln(w, "----\t-----\t----\t------\t--")
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", s.Name, s.Phone, app.money(s.TotalDebt), s.UnpaidDebts, s.ID)
		printed++
	}

	if printed == 0 {
		app.println("No customers found")
		return nil
	}
	_ = w.Flush()
	app.printf("\nTotal: %d customers\n", printed)
	return nil
}

// UpdateCustomerCommand changes a customer's name or phone. Only the flags
// given are applied.
func UpdateCustomerCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("customer update", flag.ContinueOnError)
	id := fs.String("id", "", "Customer ID (required)")
	name := fs.String("name", "", "New name")
	phone := fs.String("phone", "", "New phone number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	existing, ok := app.Store.GetCustomer(*id)
	if !ok {
		return fmt.Errorf("customer not found: %s", *id)
	}

	var patch ledger.CustomerPatch
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			patch.Name = name
		case "phone":
			patch.Phone = phone
		}
	})
	if patch.Name == nil && patch.Phone == nil {
		return fmt.Errorf("nothing to update: pass --name or --phone")
	}

	newName, newPhone := existing.Name, existing.Phone
	if patch.Name != nil {
		newName = *patch.Name
	}
	if patch.Phone != nil {
		newPhone = *patch.Phone
	}
	if err := app.Store.ValidateCustomer(newName, newPhone, existing.ID); err != nil {
		return err
	}

	app.Store.UpdateCustomer(existing.ID, patch)
	app.printf("✓ Customer updated: %s\n", newName)
	return nil
}

// DeleteCustomerCommand soft-deletes a customer and their debts.
func DeleteCustomerCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("customer delete", flag.ContinueOnError)
	id := fs.String("id", "", "Customer ID (required)")
	force := fs.Bool("force", false, "Delete even with unpaid debts")
	if err := fs.Parse(args); err != nil {
		return err
	}

	customer, ok := app.Store.GetCustomer(*id)
	if !ok {
		return fmt.Errorf("customer not found: %s", *id)
	}
	if err := app.Store.CanDeleteCustomer(customer.ID); err != nil && !*force {
		return fmt.Errorf("cannot delete %s: %w", customer.Name, err)
	}

	app.Store.DeleteCustomer(customer.ID)
	app.printf("✓ Customer deleted: %s\n", customer.Name)
	return nil
}

// ShowCustomerCommand prints a customer with every active debt.
func ShowCustomerCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("customer show", flag.ContinueOnError)
	id := fs.String("id", "", "Customer ID (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st := app.Store.Snapshot()
	customer, ok := st.Customer(*id)
	if !ok {
		return fmt.Errorf("customer not found: %s", *id)
	}

	app.title(customer.Name)
	app.printf("Phone:   %s\n", customer.Phone)
	app.printf("Since:   %s\n", formatDate(customer.CreatedAt, app.Config.Location()))

	debts := st.CustomerDebts(customer.ID)
	if len(debts) == 0 {
		app.println("\nNo debts")
		return nil
	}

	app.println()
	app.header("Debts")
	printDebts(app, st, debts)
	return nil
}
