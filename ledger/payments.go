// ABOUTME: Payment operations on the ledger store
// ABOUTME: Records payments and recomputes the owning debt from source
package ledger

import (
	"time"

	"github.com/harperreed/daftar/models"
	"github.com/shopspring/decimal"
)

// FullSettlementNote is attached to the payment synthesized by MarkDebtAsPaid.
const FullSettlementNote = "تسديد الدين بالكامل"

// NewPayment carries the caller-supplied fields of a payment.
type NewPayment struct {
	DebtID string
	Amount decimal.Decimal
	Date   time.Time
	Notes  string
}

// AddPayment records a payment and, in the same step, recomputes the owning
// debt's amount_paid, is_paid and paid_at from every payment on record.
// A payment whose debt is unknown is still recorded and left orphaned.
func (s *Store) AddPayment(in NewPayment) models.Payment {
	var payment models.Payment
	s.mutate(func(st *State) Change {
		payment = s.addPaymentLocked(st, in)
		return Change{Payments: true, Debts: st.debtIndex(in.DebtID) >= 0}
	})

	s.logger.Debug("payment added", "id", payment.ID, "debt", payment.DebtID, "amount", payment.Amount)
	return payment
}

// MarkDebtAsPaid settles the remaining balance with a synthesized payment.
// When nothing remains but the debt is still flagged unpaid, the flag is
// flipped without creating a payment. Unknown or deleted debts are ignored.
func (s *Store) MarkDebtAsPaid(id string) {
	s.mutate(func(st *State) Change {
		debt, ok := st.Debt(id)
		if !ok {
			return Change{}
		}

		remaining := st.RemainingAmount(debt)
		if remaining.IsPositive() {
			s.addPaymentLocked(st, NewPayment{
				DebtID: id,
				Amount: remaining,
				Date:   s.now(),
				Notes:  FullSettlementNote,
			})
			return Change{Payments: true, Debts: true}
		}

		if !debt.IsPaid {
			d := &st.Debts[st.debtIndex(id)]
			d.IsPaid = true
			d.PaidAt = timePtr(s.now())
			d.SyncStatus = models.SyncPending
			return Change{Debts: true}
		}
		return Change{}
	})
}

// GetRemainingAmount returns max(0, amount - sum(payments)) using the live
// payment records.
func (s *Store) GetRemainingAmount(debt models.Debt) decimal.Decimal {
	var remaining decimal.Decimal
	s.read(func(st *State) { remaining = st.RemainingAmount(debt) })
	return remaining
}

// GetPaymentsForDebt returns every payment recorded against the debt.
func (s *Store) GetPaymentsForDebt(debtID string) []models.Payment {
	var payments []models.Payment
	s.read(func(st *State) { payments = st.PaymentsForDebt(debtID) })
	return payments
}

// SetPaymentSyncStatus records a sync outcome for a batch of payments.
func (s *Store) SetPaymentSyncStatus(ids []string, status models.SyncStatus) {
	if len(ids) == 0 {
		return
	}
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	s.mutate(func(st *State) Change {
		changed := false
		for i := range st.Payments {
			if _, ok := wanted[st.Payments[i].ID]; ok {
				st.Payments[i].SyncStatus = status
				changed = true
			}
		}
		return Change{Payments: changed}
	})
}

func (s *Store) addPaymentLocked(st *State, in NewPayment) models.Payment {
	payment := models.Payment{
		ID:         s.newID(),
		DebtID:     in.DebtID,
		Amount:     in.Amount,
		Date:       in.Date,
		Notes:      in.Notes,
		SyncStatus: models.SyncPending,
	}
	st.Payments = append(st.Payments, payment)

	if i := st.debtIndex(in.DebtID); i >= 0 {
		s.recomputeDebt(st, i)
		st.Debts[i].SyncStatus = models.SyncPending
	}
	return payment
}

// recomputeDebt derives amount_paid and is_paid from the payment records.
// paid_at is stamped when the debt becomes paid, kept while it stays paid and
// cleared otherwise.
func (s *Store) recomputeDebt(st *State, i int) {
	d := &st.Debts[i]
	wasPaid := d.IsPaid && d.PaidAt != nil

	d.AmountPaid = st.PaidTotal(d.ID)
	d.IsPaid = d.AmountPaid.GreaterThanOrEqual(d.Amount)

	switch {
	case !d.IsPaid:
		d.PaidAt = nil
	case !wasPaid:
		d.PaidAt = timePtr(s.now())
	}
}
