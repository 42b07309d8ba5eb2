// ABOUTME: Caller-side validation helpers for ledger input
// ABOUTME: Duplicate customer and amount checks that the store itself never enforces
package ledger

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrNameRequired   = errors.New("customer name is required")
	ErrPhoneRequired  = errors.New("customer phone is required")
	ErrDuplicateName  = errors.New("a customer with this name already exists")
	ErrDuplicatePhone = errors.New("a customer with this phone already exists")
	ErrInvalidAmount  = errors.New("amount must be greater than zero")

	ErrExceedsRemaining = errors.New("payment exceeds the remaining amount")
	ErrHasUnpaidDebts   = errors.New("customer still has unpaid debts")
	ErrNotFound         = errors.New("not found")
)

// ValidateCustomer checks the uniqueness contract for a customer about to be
// added or renamed: name (case-insensitive) and phone must not collide with
// another active customer. excludeID skips the customer being edited.
func (s *Store) ValidateCustomer(name, phone, excludeID string) error {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" {
		return ErrNameRequired
	}
	if phone == "" {
		return ErrPhoneRequired
	}

	var err error
	s.read(func(st *State) {
		for _, c := range st.ActiveCustomers() {
			if c.ID == excludeID {
				continue
			}
			if strings.EqualFold(strings.TrimSpace(c.Name), name) {
				err = ErrDuplicateName
				return
			}
			if strings.TrimSpace(c.Phone) == phone {
				err = ErrDuplicatePhone
				return
			}
		}
	})
	return err
}

// ValidateAmount rejects zero and negative amounts.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// ParseAmount parses a user-entered amount and validates it.
func ParseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return amount, ValidateAmount(amount)
}

// ValidatePayment checks a payment against what is left on the debt.
func (s *Store) ValidatePayment(debtID string, amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}

	var err error
	s.read(func(st *State) {
		debt, ok := st.Debt(debtID)
		if !ok {
			err = ErrNotFound
			return
		}
		if amount.GreaterThan(st.RemainingAmount(debt)) {
			err = ErrExceedsRemaining
		}
	})
	return err
}

// CanDeleteCustomer refuses customers that still owe money.
func (s *Store) CanDeleteCustomer(id string) error {
	var err error
	s.read(func(st *State) {
		if _, ok := st.Customer(id); !ok {
			err = ErrNotFound
			return
		}
		for _, d := range st.CustomerDebts(id) {
			if !d.IsPaid {
				err = ErrHasUnpaidDebts
				return
			}
		}
	})
	return err
}
