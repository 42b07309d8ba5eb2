// ABOUTME: Reporting engine computing read-only aggregates over the ledger
// ABOUTME: Unpaid totals, overdue lists, recent debts and home-screen summary
package reports

import (
	"sort"
	"time"

	"github.com/harperreed/daftar/ledger"
	"github.com/harperreed/daftar/models"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// ReportOverdueWindow is the fixed age after which a debt counts as overdue
// in reports. It is independent of ReminderSettings.OverduePeriodDays, which
// only drives notifications.
const ReportOverdueWindow = 30 * 24 * time.Hour

const (
	DefaultRecentLimit = 5
	DefaultTopLimit    = 10
	DefaultTrendMonths = 6
)

// Source provides consistent snapshots of the ledger. *ledger.Store
// satisfies it.
type Source interface {
	Snapshot() ledger.State
}

// Engine computes reports. Every method works on a fresh snapshot and never
// mutates the ledger.
type Engine struct {
	source Source
	now    func() time.Time
	loc    *time.Location
	locale language.Tag
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLocation sets the calendar used for month boundaries.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithLocale sets the language used for month names.
func WithLocale(tag language.Tag) Option {
	return func(e *Engine) { e.locale = tag }
}

func New(source Source, opts ...Option) *Engine {
	e := &Engine{
		source: source,
		now:    time.Now,
		loc:    time.Local,
		locale: language.MustParse("ar-DZ"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Summary is the home-screen aggregate.
type Summary struct {
	TotalUnpaid  decimal.Decimal `json:"totalUnpaid"`
	UnpaidCount  int             `json:"unpaidCount"`
	OverdueCount int             `json:"overdueCount"`
	RecentDebts  []models.Debt   `json:"recentDebts"`
}

// TotalUnpaidAmount sums the remaining amount of every active unpaid debt.
func (e *Engine) TotalUnpaidAmount() decimal.Decimal {
	return totalUnpaid(e.source.Snapshot())
}

// UnpaidDebts returns active debts that are not paid.
func (e *Engine) UnpaidDebts() []models.Debt {
	return e.source.Snapshot().UnpaidDebts()
}

// OverdueDebts returns unpaid debts dated before now minus ReportOverdueWindow.
func (e *Engine) OverdueDebts() []models.Debt {
	return overdueDebts(e.source.Snapshot(), e.now())
}

// RecentDebts returns the newest unpaid debts by date. A non-positive limit
// means DefaultRecentLimit.
func (e *Engine) RecentDebts(limit int) []models.Debt {
	return recentDebts(e.source.Snapshot(), limit)
}

// CustomerSummaries lists active customers with what they still owe.
func (e *Engine) CustomerSummaries() []models.CustomerSummary {
	st := e.source.Snapshot()

	customers := st.ActiveCustomers()
	out := make([]models.CustomerSummary, 0, len(customers))
	for _, c := range customers {
		summary := models.CustomerSummary{Customer: c, TotalDebt: decimal.Zero}
		for _, d := range st.CustomerDebts(c.ID) {
			if d.IsPaid {
				continue
			}
			summary.TotalDebt = summary.TotalDebt.Add(st.RemainingAmount(d))
			summary.UnpaidDebts++
		}
		out = append(out, summary)
	}
	return out
}

// Summary computes the home-screen aggregate from one snapshot.
func (e *Engine) Summary() Summary {
	st := e.source.Snapshot()
	return Summary{
		TotalUnpaid:  totalUnpaid(st),
		UnpaidCount:  len(st.UnpaidDebts()),
		OverdueCount: len(overdueDebts(st, e.now())),
		RecentDebts:  recentDebts(st, DefaultRecentLimit),
	}
}

func totalUnpaid(st ledger.State) decimal.Decimal {
	total := decimal.Zero
	for _, d := range st.UnpaidDebts() {
		total = total.Add(st.RemainingAmount(d))
	}
	return total
}

func isOverdue(d models.Debt, now time.Time) bool {
	return !d.IsPaid && d.Date.Before(now.Add(-ReportOverdueWindow))
}

func overdueDebts(st ledger.State, now time.Time) []models.Debt {
	var out []models.Debt
	for _, d := range st.UnpaidDebts() {
		if isOverdue(d, now) {
			out = append(out, d)
		}
	}
	return out
}

func recentDebts(st ledger.State, limit int) []models.Debt {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	debts := st.UnpaidDebts()
	sort.SliceStable(debts, func(i, j int) bool {
		return debts[i].Date.After(debts[j].Date)
	})
	if len(debts) > limit {
		debts = debts[:limit]
	}
	return debts
}
