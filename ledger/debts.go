// ABOUTME: Debt operations on the ledger store
// ABOUTME: Handles add, partial update, soft delete and debt lookups
package ledger

import (
	"time"

	"github.com/harperreed/daftar/models"
	"github.com/shopspring/decimal"
)

// NewDebt carries the caller-supplied fields of a debt.
type NewDebt struct {
	CustomerID string
	Amount     decimal.Decimal
	Date       time.Time
	Notes      string
}

// DebtPatch holds the fields to merge into a debt. amount_paid is derived
// from payments and cannot be patched.
type DebtPatch struct {
	CustomerID       *string
	Amount           *decimal.Decimal
	Date             *time.Time
	Notes            *string
	IsPaid           *bool
	PaidAt           *time.Time
	LastReminderSent *time.Time
	SyncStatus       *models.SyncStatus
	DeletedAt        *time.Time
}

// AddDebt appends a new unpaid debt. Referential integrity with the customer
// is not checked.
func (s *Store) AddDebt(in NewDebt) models.Debt {
	debt := models.Debt{
		ID:         s.newID(),
		CustomerID: in.CustomerID,
		Amount:     in.Amount,
		AmountPaid: decimal.Zero,
		Date:       in.Date,
		Notes:      in.Notes,
		IsPaid:     false,
		SyncStatus: models.SyncPending,
	}

	s.mutate(func(st *State) Change {
		st.Debts = append(st.Debts, debt)
		return Change{Debts: true}
	})

	s.logger.Debug("debt added", "id", debt.ID, "customer", debt.CustomerID, "amount", debt.Amount)
	return debt
}

// UpdateDebt merges patch into the debt and marks it pending unless SkipSync
// is given. Changing the principal recomputes the paid state from the
// payment records. Unknown ids are ignored.
func (s *Store) UpdateDebt(id string, patch DebtPatch, opts ...UpdateOption) {
	o := resolveUpdateOptions(opts)

	s.mutate(func(st *State) Change {
		i := st.debtIndex(id)
		if i < 0 {
			return Change{}
		}

		d := &st.Debts[i]
		if patch.CustomerID != nil {
			d.CustomerID = *patch.CustomerID
		}
		if patch.Date != nil {
			d.Date = *patch.Date
		}
		if patch.Notes != nil {
			d.Notes = *patch.Notes
		}
		if patch.IsPaid != nil {
			d.IsPaid = *patch.IsPaid
		}
		if patch.PaidAt != nil {
			d.PaidAt = timePtr(*patch.PaidAt)
		}
		if patch.LastReminderSent != nil {
			d.LastReminderSent = timePtr(*patch.LastReminderSent)
		}
		if patch.DeletedAt != nil {
			d.DeletedAt = timePtr(*patch.DeletedAt)
		}
		if patch.Amount != nil {
			d.Amount = *patch.Amount
			s.recomputeDebt(st, i)
		}
		if patch.SyncStatus != nil {
			d.SyncStatus = *patch.SyncStatus
		}
		if o.markPending {
			d.SyncStatus = models.SyncPending
		}
		return Change{Debts: true}
	})
}

// DeleteDebt soft-deletes the debt. Its payments are kept.
func (s *Store) DeleteDebt(id string) {
	s.mutate(func(st *State) Change {
		i := st.debtIndex(id)
		if i < 0 {
			return Change{}
		}
		st.Debts[i].DeletedAt = timePtr(s.now())
		st.Debts[i].SyncStatus = models.SyncPending
		return Change{Debts: true}
	})

	s.logger.Debug("debt deleted", "id", id)
}

// GetDebt returns the debt unless it is unknown or soft-deleted.
func (s *Store) GetDebt(id string) (models.Debt, bool) {
	var (
		d  models.Debt
		ok bool
	)
	s.read(func(st *State) { d, ok = st.Debt(id) })
	return d, ok
}

// GetCustomerDebts returns the active debts of a customer.
func (s *Store) GetCustomerDebts(customerID string) []models.Debt {
	var debts []models.Debt
	s.read(func(st *State) { debts = st.CustomerDebts(customerID) })
	return debts
}

// UpdateLastReminderSent records when an overdue reminder went out.
func (s *Store) UpdateLastReminderSent(debtID string, at time.Time) {
	s.UpdateDebt(debtID, DebtPatch{LastReminderSent: &at})
}
