// ABOUTME: Point-in-time ledger state and the derived queries over it
// ABOUTME: Shared by the store, reports, sync and reminder scanning
package ledger

import (
	"strings"

	"github.com/harperreed/daftar/models"
	"github.com/shopspring/decimal"
)

// State is a complete copy of the ledger collections and settings.
// Values returned by Store.Snapshot are owned by the caller.
type State struct {
	Customers        []models.Customer       `json:"customers"`
	Debts            []models.Debt           `json:"debts"`
	Payments         []models.Payment        `json:"payments"`
	ReminderSettings models.ReminderSettings `json:"reminderSettings"`
}

// NewState returns an empty state with default reminder settings.
func NewState() State {
	return State{
		Customers:        []models.Customer{},
		Debts:            []models.Debt{},
		Payments:         []models.Payment{},
		ReminderSettings: models.DefaultReminderSettings(),
	}
}

func (s State) clone() State {
	out := State{
		Customers:        make([]models.Customer, len(s.Customers)),
		Debts:            make([]models.Debt, len(s.Debts)),
		Payments:         make([]models.Payment, len(s.Payments)),
		ReminderSettings: s.ReminderSettings,
	}
	copy(out.Customers, s.Customers)
	copy(out.Debts, s.Debts)
	copy(out.Payments, s.Payments)
	return out
}

// SyncBacklog counts entities not yet synced. pending holds those changed
// since their last push, failed those whose last push errored.
func (s State) SyncBacklog() (pending, failed int) {
	tally := func(status models.SyncStatus) {
		switch status {
		case models.SyncPending:
			pending++
		case models.SyncError:
			failed++
		}
	}
	for _, c := range s.Customers {
		tally(c.SyncStatus)
	}
	for _, d := range s.Debts {
		tally(d.SyncStatus)
	}
	for _, p := range s.Payments {
		tally(p.SyncStatus)
	}
	return pending, failed
}

// Customer returns a non-deleted customer by id.
func (s State) Customer(id string) (models.Customer, bool) {
	for _, c := range s.Customers {
		if c.ID == id && !c.IsDeleted() {
			return c, true
		}
	}
	return models.Customer{}, false
}

// Debt returns a non-deleted debt by id.
func (s State) Debt(id string) (models.Debt, bool) {
	for _, d := range s.Debts {
		if d.ID == id && !d.IsDeleted() {
			return d, true
		}
	}
	return models.Debt{}, false
}

// CustomerDebts returns the non-deleted debts of a customer in insertion order.
func (s State) CustomerDebts(customerID string) []models.Debt {
	var debts []models.Debt
	for _, d := range s.Debts {
		if d.CustomerID == customerID && !d.IsDeleted() {
			debts = append(debts, d)
		}
	}
	return debts
}

func (s State) PaymentsForDebt(debtID string) []models.Payment {
	var payments []models.Payment
	for _, p := range s.Payments {
		if p.DebtID == debtID {
			payments = append(payments, p)
		}
	}
	return payments
}

// PaidTotal sums every recorded payment for the debt.
func (s State) PaidTotal(debtID string) decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Payments {
		if p.DebtID == debtID {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// RemainingAmount is max(0, amount - sum(payments)), computed from the live
// payment records rather than the cached amount_paid.
func (s State) RemainingAmount(debt models.Debt) decimal.Decimal {
	remaining := debt.Amount.Sub(s.PaidTotal(debt.ID))
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// UnpaidDebts returns non-deleted debts that are not paid.
func (s State) UnpaidDebts() []models.Debt {
	var debts []models.Debt
	for _, d := range s.Debts {
		if !d.IsPaid && !d.IsDeleted() {
			debts = append(debts, d)
		}
	}
	return debts
}

// ActiveCustomers returns customers without a deletion marker.
func (s State) ActiveCustomers() []models.Customer {
	var customers []models.Customer
	for _, c := range s.Customers {
		if !c.IsDeleted() {
			customers = append(customers, c)
		}
	}
	return customers
}

// ActiveDebts returns debts without a deletion marker.
func (s State) ActiveDebts() []models.Debt {
	var debts []models.Debt
	for _, d := range s.Debts {
		if !d.IsDeleted() {
			debts = append(debts, d)
		}
	}
	return debts
}

// FindCustomers matches the query against the name (case-insensitive) or the
// phone number. An empty query returns every active customer.
func (s State) FindCustomers(query string) []models.Customer {
	query = strings.TrimSpace(query)
	needle := strings.ToLower(query)

	var matched []models.Customer
	for _, c := range s.ActiveCustomers() {
		if query == "" ||
			strings.Contains(strings.ToLower(c.Name), needle) ||
			strings.Contains(c.Phone, query) {
			matched = append(matched, c)
		}
	}
	return matched
}

func (s State) customerIndex(id string) int {
	for i := range s.Customers {
		if s.Customers[i].ID == id {
			return i
		}
	}
	return -1
}

// debtIndex ignores the deletion marker; payments may still land on a
// soft-deleted debt.
func (s State) debtIndex(id string) int {
	for i := range s.Debts {
		if s.Debts[i].ID == id {
			return i
		}
	}
	return -1
}
