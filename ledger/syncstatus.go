// ABOUTME: Sync outcome marking for customers and debts
// ABOUTME: Writes a status only when the entity is unchanged since it was read
package ledger

import (
	"time"

	"github.com/harperreed/daftar/models"
)

// SetCustomerSyncStatus records a sync outcome for customers as they were
// when read. A customer that changed since then stays pending; its id is
// returned.
func (s *Store) SetCustomerSyncStatus(seen []models.Customer, status models.SyncStatus) (stale []string) {
	if len(seen) == 0 {
		return nil
	}

	s.mutate(func(st *State) Change {
		changed := false
		for _, c := range seen {
			i := st.customerIndex(c.ID)
			if i < 0 {
				continue
			}
			if !sameCustomer(st.Customers[i], c) {
				stale = append(stale, c.ID)
				continue
			}
			st.Customers[i].SyncStatus = status
			changed = true
		}
		return Change{Customers: changed}
	})
	return stale
}

// SetDebtSyncStatus records a sync outcome for debts as they were when read.
// A debt that changed since then, including through a new payment, stays
// pending; its id is returned.
func (s *Store) SetDebtSyncStatus(seen []models.Debt, status models.SyncStatus) (stale []string) {
	if len(seen) == 0 {
		return nil
	}

	s.mutate(func(st *State) Change {
		changed := false
		for _, d := range seen {
			i := st.debtIndex(d.ID)
			if i < 0 {
				continue
			}
			if !sameDebt(st.Debts[i], d) {
				stale = append(stale, d.ID)
				continue
			}
			st.Debts[i].SyncStatus = status
			changed = true
		}
		return Change{Debts: changed}
	})
	return stale
}

// sameCustomer compares every field except the sync status.
func sameCustomer(a, b models.Customer) bool {
	return a.ID == b.ID &&
		a.Name == b.Name &&
		a.Phone == b.Phone &&
		a.CreatedAt.Equal(b.CreatedAt) &&
		sameTime(a.DeletedAt, b.DeletedAt)
}

// sameDebt compares every field except the sync status.
func sameDebt(a, b models.Debt) bool {
	return a.ID == b.ID &&
		a.CustomerID == b.CustomerID &&
		a.Amount.Equal(b.Amount) &&
		a.AmountPaid.Equal(b.AmountPaid) &&
		a.Date.Equal(b.Date) &&
		a.Notes == b.Notes &&
		a.IsPaid == b.IsPaid &&
		sameTime(a.PaidAt, b.PaidAt) &&
		sameTime(a.LastReminderSent, b.LastReminderSent) &&
		sameTime(a.DeletedAt, b.DeletedAt)
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
