// ABOUTME: Customer operations on the ledger store
// ABOUTME: Handles add, partial update, cascading soft delete and lookups
package ledger

import (
	"time"

	"github.com/harperreed/daftar/models"
)

// CustomerPatch holds the fields to merge into a customer. Nil fields are
// left unchanged.
type CustomerPatch struct {
	Name       *string
	Phone      *string
	SyncStatus *models.SyncStatus
	DeletedAt  *time.Time
}

// AddCustomer appends a new customer. The id and creation time are assigned
// here, never by the caller. Callers must ensure name and phone are unique
// among active customers (see ValidateCustomer).
func (s *Store) AddCustomer(name, phone string) models.Customer {
	customer := models.Customer{
		ID:         s.newID(),
		Name:       name,
		Phone:      phone,
		CreatedAt:  s.now(),
		SyncStatus: models.SyncPending,
	}

	s.mutate(func(st *State) Change {
		st.Customers = append(st.Customers, customer)
		return Change{Customers: true}
	})

	s.logger.Debug("customer added", "id", customer.ID)
	return customer
}

// UpdateCustomer merges patch into the customer and marks it pending unless
// SkipSync is given. Unknown ids are ignored.
func (s *Store) UpdateCustomer(id string, patch CustomerPatch, opts ...UpdateOption) {
	o := resolveUpdateOptions(opts)

	s.mutate(func(st *State) Change {
		i := st.customerIndex(id)
		if i < 0 {
			return Change{}
		}

		c := &st.Customers[i]
		if patch.Name != nil {
			c.Name = *patch.Name
		}
		if patch.Phone != nil {
			c.Phone = *patch.Phone
		}
		if patch.DeletedAt != nil {
			c.DeletedAt = timePtr(*patch.DeletedAt)
		}
		if patch.SyncStatus != nil {
			c.SyncStatus = *patch.SyncStatus
		}
		if o.markPending {
			c.SyncStatus = models.SyncPending
		}
		return Change{Customers: true}
	})
}

// DeleteCustomer soft-deletes the customer and every debt that references it.
// The store does not check for unpaid debts; that is the caller's decision.
func (s *Store) DeleteCustomer(id string) {
	s.mutate(func(st *State) Change {
		i := st.customerIndex(id)
		if i < 0 {
			return Change{}
		}

		now := s.now()
		st.Customers[i].DeletedAt = timePtr(now)
		st.Customers[i].SyncStatus = models.SyncPending

		change := Change{Customers: true}
		for j := range st.Debts {
			if st.Debts[j].CustomerID == id {
				st.Debts[j].DeletedAt = timePtr(now)
				st.Debts[j].SyncStatus = models.SyncPending
				change.Debts = true
			}
		}
		return change
	})

	s.logger.Debug("customer deleted", "id", id)
}

// GetCustomer returns the customer unless it is unknown or soft-deleted.
func (s *Store) GetCustomer(id string) (models.Customer, bool) {
	var (
		c  models.Customer
		ok bool
	)
	s.read(func(st *State) { c, ok = st.Customer(id) })
	return c, ok
}

// FindCustomers searches active customers by name or phone.
func (s *Store) FindCustomers(query string) []models.Customer {
	var found []models.Customer
	s.read(func(st *State) { found = st.FindCustomers(query) })
	return found
}
