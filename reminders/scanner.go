// ABOUTME: Reminder scanner that notifies about overdue unpaid debts
// ABOUTME: Honors the overdue period, a 24h cooldown per debt and the enable switch

package reminders

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/daftar/ledger"
	"github.com/harperreed/daftar/models"
)

// Cooldown is the minimum gap between two reminders for the same debt.
const Cooldown = 24 * time.Hour

const (
	notificationTitle   = "📌 تذكير بدين متأخر"
	unknownCustomerName = "عميل غير معروف"
)

// Result tells the scheduler whether a scan produced anything.
type Result int

const (
	NoData Result = iota
	NewData
	Failed
)

func (r Result) String() string {
	switch r {
	case NewData:
		return "new-data"
	case Failed:
		return "failed"
	default:
		return "no-data"
	}
}

// Ledger is the part of the store the scanner reads and writes.
type Ledger interface {
	Snapshot() ledger.State
	UpdateLastReminderSent(debtID string, at time.Time)
}

type Scanner struct {
	ledger   Ledger
	notifier Notifier
	now      func() time.Time
	logger   *log.Logger
}

type Option func(*Scanner)

func WithClock(now func() time.Time) Option {
	return func(s *Scanner) { s.now = now }
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewScanner(l Ledger, n Notifier, opts ...Option) *Scanner {
	s := &Scanner{
		ledger:   l,
		notifier: n,
		now:      time.Now,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan notifies once for every unpaid debt older than the overdue period
// that has not been reminded about in the last 24 hours. A failed delivery
// does not stop the scan; the debt is retried on the next run.
func (s *Scanner) Scan(ctx context.Context) (Result, error) {
	st := s.ledger.Snapshot()
	settings := st.ReminderSettings
	if !settings.OverdueNotificationsEnabled {
		s.logger.Debug("overdue notifications disabled")
		return NoData, nil
	}

	now := s.now()
	period := settings.OverduePeriod()
	days := int(period / (24 * time.Hour))

	var (
		sent int
		errs []error
	)
	for _, debt := range st.UnpaidDebts() {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if !due(debt, now, period) {
			continue
		}

		name := customerName(st, debt.CustomerID)
		n := Notification{
			DebtID: debt.ID,
			Title:  notificationTitle,
			Body:   fmt.Sprintf("لديك دين متأخر لـ %s منذ أكثر من %d يوم.", name, days),
		}
		if err := s.notifier.Notify(ctx, n); err != nil {
			s.logger.Warn("reminder not delivered", "debt", debt.ID, "err", err)
			errs = append(errs, fmt.Errorf("failed to notify for debt %s: %w", debt.ID, err))
			continue
		}

		s.ledger.UpdateLastReminderSent(debt.ID, now)
		sent++
		s.logger.Info("reminder sent", "debt", debt.ID, "customer", name)
	}

	if len(errs) > 0 {
		return Failed, errors.Join(errs...)
	}
	if sent > 0 {
		return NewData, nil
	}
	return NoData, nil
}

// DueDebts lists the debts a scan at now would notify about.
func DueDebts(st ledger.State, now time.Time) []models.Debt {
	if !st.ReminderSettings.OverdueNotificationsEnabled {
		return nil
	}
	period := st.ReminderSettings.OverduePeriod()
	var out []models.Debt
	for _, debt := range st.UnpaidDebts() {
		if due(debt, now, period) {
			out = append(out, debt)
		}
	}
	return out
}

func due(debt models.Debt, now time.Time, period time.Duration) bool {
	if now.Sub(debt.Date) <= period {
		return false
	}
	if debt.LastReminderSent != nil && now.Sub(*debt.LastReminderSent) < Cooldown {
		return false
	}
	return true
}

// customerName resolves the debt's customer, including soft-deleted ones.
func customerName(st ledger.State, id string) string {
	for _, c := range st.Customers {
		if c.ID == id {
			return c.Name
		}
	}
	return unknownCustomerName
}
