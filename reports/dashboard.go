// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Provides ASCII dashboard for the ledger overview
package reports

import (
	"fmt"
	"strings"

	"github.com/harperreed/daftar/models"
	"github.com/shopspring/decimal"
)

type Dashboard struct {
	Summary

	Status         models.DebtsByStatus
	Trends         []models.PaymentTrend
	CollectionRate float64
	AvgDays        float64
}

// Dashboard gathers everything the terminal dashboard shows.
func (e *Engine) Dashboard() Dashboard {
	return Dashboard{
		Summary:        e.Summary(),
		Status:         e.DebtsByStatus(),
		Trends:         e.PaymentTrends(DefaultTrendMonths),
		CollectionRate: e.CollectionRate(),
		AvgDays:        e.AverageCollectionTime(),
	}
}

// RenderDashboard draws d as plain text. format renders money amounts.
func RenderDashboard(d Dashboard, format func(decimal.Decimal) string) string {
	var out strings.Builder

	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  DAFTAR LEDGER DASHBOARD\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString("OUTSTANDING\n")
	out.WriteString(fmt.Sprintf("  %s across %d unpaid debts\n\n", format(d.TotalUnpaid), d.UnpaidCount))

	out.WriteString("BY STATUS\n")
	renderStatus(&out, d.Status, format)
	out.WriteString("\n")

	out.WriteString("COLLECTED PER MONTH\n")
	renderTrends(&out, d.Trends, format)
	out.WriteString("\n")

	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  %.1f%% collected  ~%.0f days to collect\n", d.CollectionRate, d.AvgDays))

	if d.OverdueCount > 0 {
		out.WriteString("\nNEEDS ATTENTION\n")
		out.WriteString(fmt.Sprintf("  ⚠️  %d debts older than 30 days\n", d.OverdueCount))
	}

	return out.String()
}

func renderStatus(out *strings.Builder, s models.DebtsByStatus, format func(decimal.Decimal) string) {
	rows := []struct {
		label  string
		bucket models.StatusBucket
	}{
		{"paid", s.Paid},
		{"overdue", s.Overdue},
		{"current", s.Current},
	}

	maxCount := 0
	for _, r := range rows {
		if r.bucket.Count > maxCount {
			maxCount = r.bucket.Count
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	for _, r := range rows {
		out.WriteString(fmt.Sprintf("  %-9s %s  %3d (%s)\n",
			r.label, bar(r.bucket.Count*10/maxCount), r.bucket.Count, format(r.bucket.Amount)))
	}
}

func renderTrends(out *strings.Builder, trends []models.PaymentTrend, format func(decimal.Decimal) string) {
	maxAmount := decimal.Zero
	for _, t := range trends {
		if t.TotalCollected.GreaterThan(maxAmount) {
			maxAmount = t.TotalCollected
		}
	}

	for _, t := range trends {
		length := 0
		if maxAmount.IsPositive() {
			length = int(t.TotalCollected.Mul(decimal.NewFromInt(10)).Div(maxAmount).IntPart())
		}
		out.WriteString(fmt.Sprintf("  %-9s %d  %s  %s\n",
			t.MonthName, t.Year, bar(length), format(t.TotalCollected)))
	}
}

// bar draws a 10-block gauge with length filled blocks.
func bar(length int) string {
	if length < 0 {
		length = 0
	}
	if length > 10 {
		length = 10
	}
	return strings.Repeat("█", length) + strings.Repeat("░", 10-length)
}
