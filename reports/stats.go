// ABOUTME: Collection statistics for the reports screen
// ABOUTME: Monthly totals, payment trends, top customers and status buckets
package reports

import (
	"sort"
	"time"

	"github.com/harperreed/daftar/models"
	"github.com/shopspring/decimal"
)

// MonthlyCollectedReport sums the payments dated inside the calendar month.
// The window is [first of month 00:00:00, last of month 23:59:59] in the
// engine location, both ends inclusive. Fractions of the final second fall
// outside every month.
func (e *Engine) MonthlyCollectedReport(year int, month time.Month) models.MonthlyReport {
	st := e.source.Snapshot()

	start := time.Date(year, month, 1, 0, 0, 0, 0, e.loc)
	end := time.Date(year, month+1, 0, 23, 59, 59, 0, e.loc)

	report := models.MonthlyReport{TotalCollected: decimal.Zero}
	for _, p := range st.Payments {
		if p.Date.Before(start) || p.Date.After(end) {
			continue
		}
		report.TotalCollected = report.TotalCollected.Add(p.Amount)
		report.PaymentsCount++
	}
	return report
}

// TopCustomers ranks active customers by total debt amount, highest first.
// A non-positive limit means DefaultTopLimit.
func (e *Engine) TopCustomers(limit int) []models.CustomerStats {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	st := e.source.Snapshot()
	now := e.now()

	customers := st.ActiveCustomers()
	stats := make([]models.CustomerStats, 0, len(customers))
	for _, c := range customers {
		s := models.CustomerStats{
			Customer:      c,
			TotalAmount:   decimal.Zero,
			TotalPaid:     decimal.Zero,
			AvgDebtAmount: decimal.Zero,
		}
		for _, d := range st.CustomerDebts(c.ID) {
			s.TotalAmount = s.TotalAmount.Add(d.Amount)
			s.TotalPaid = s.TotalPaid.Add(d.AmountPaid)
			s.DebtCount++
			if isOverdue(d, now) {
				s.OverdueDebts++
			}
		}
		if s.DebtCount > 0 {
			s.AvgDebtAmount = s.TotalAmount.Div(decimal.NewFromInt(int64(s.DebtCount)))
		}
		stats = append(stats, s)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TotalAmount.GreaterThan(stats[j].TotalAmount)
	})
	if len(stats) > limit {
		stats = stats[:limit]
	}
	return stats
}

// PaymentTrends returns one entry per calendar month for the trailing months
// ending with the current one, oldest first. A non-positive count means
// DefaultTrendMonths.
func (e *Engine) PaymentTrends(months int) []models.PaymentTrend {
	if months <= 0 {
		months = DefaultTrendMonths
	}

	now := e.now().In(e.loc)
	// Step back from the first of the month so day 31 never overflows.
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, e.loc)

	trends := make([]models.PaymentTrend, 0, months)
	for i := months - 1; i >= 0; i-- {
		m := anchor.AddDate(0, -i, 0)
		report := e.MonthlyCollectedReport(m.Year(), m.Month())
		trends = append(trends, models.PaymentTrend{
			Year:           m.Year(),
			Month:          int(m.Month()),
			MonthName:      MonthName(e.locale, m.Month()),
			TotalCollected: report.TotalCollected,
			PaymentsCount:  report.PaymentsCount,
		})
	}
	return trends
}

// DebtsByStatus buckets active debts into paid, overdue and current. Paid
// sums the principal, the other two sum what remains.
func (e *Engine) DebtsByStatus() models.DebtsByStatus {
	st := e.source.Snapshot()
	now := e.now()

	out := models.DebtsByStatus{
		Paid:    models.StatusBucket{Amount: decimal.Zero},
		Overdue: models.StatusBucket{Amount: decimal.Zero},
		Current: models.StatusBucket{Amount: decimal.Zero},
	}
	for _, d := range st.ActiveDebts() {
		switch {
		case d.IsPaid:
			out.Paid.Count++
			out.Paid.Amount = out.Paid.Amount.Add(d.Amount)
		case isOverdue(d, now):
			out.Overdue.Count++
			out.Overdue.Amount = out.Overdue.Amount.Add(st.RemainingAmount(d))
		default:
			out.Current.Count++
			out.Current.Amount = out.Current.Amount.Add(st.RemainingAmount(d))
		}
	}
	return out
}

// CollectionRate is the percentage of active debts that are paid. Zero when
// there are no debts.
func (e *Engine) CollectionRate() float64 {
	debts := e.source.Snapshot().ActiveDebts()
	if len(debts) == 0 {
		return 0
	}
	paid := 0
	for _, d := range debts {
		if d.IsPaid {
			paid++
		}
	}
	return float64(paid) / float64(len(debts)) * 100
}

// AverageDebtAmount is the mean principal of active debts.
func (e *Engine) AverageDebtAmount() decimal.Decimal {
	debts := e.source.Snapshot().ActiveDebts()
	if len(debts) == 0 {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, d := range debts {
		total = total.Add(d.Amount)
	}
	return total.Div(decimal.NewFromInt(int64(len(debts))))
}

// AverageCollectionTime is the mean number of days between a debt's date and
// its paid_at, over paid debts only.
func (e *Engine) AverageCollectionTime() float64 {
	var (
		days  float64
		count int
	)
	for _, d := range e.source.Snapshot().ActiveDebts() {
		if !d.IsPaid || d.PaidAt == nil {
			continue
		}
		days += d.PaidAt.Sub(d.Date).Hours() / 24
		count++
	}
	if count == 0 {
		return 0
	}
	return days / float64(count)
}
