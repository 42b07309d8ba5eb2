// ABOUTME: Report MCP tool handlers
// ABOUTME: Implements ledger_summary, monthly_report and top_customers tools
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/daftar/reports"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ReportHandlers struct {
	reports *reports.Engine
	now     func() time.Time
}

func NewReportHandlers(engine *reports.Engine) *ReportHandlers {
	return &ReportHandlers{reports: engine, now: time.Now}
}

type LedgerSummaryInput struct {
	RecentLimit int `json:"recent_limit,omitempty" jsonschema:"How many recent debts to include (default 5)"`
}

type LedgerSummaryOutput struct {
	TotalUnpaid    string        `json:"total_unpaid"`
	UnpaidCount    int           `json:"unpaid_count"`
	OverdueCount   int           `json:"overdue_count"`
	CollectionRate float64       `json:"collection_rate"`
	AverageDebt    string        `json:"average_debt"`
	AverageDays    float64       `json:"average_collection_days"`
	StatusCounts   StatusCounts  `json:"status"`
	RecentDebts    []DebtSummary `json:"recent_debts"`
}

type StatusCounts struct {
	Paid    int `json:"paid"`
	Overdue int `json:"overdue"`
	Current int `json:"current"`
}

type DebtSummary struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	Amount     string `json:"amount"`
	Date       string `json:"date"`
	IsPaid     bool   `json:"is_paid"`
}

func (h *ReportHandlers) LedgerSummary(_ context.Context, request *mcp.CallToolRequest, input LedgerSummaryInput) (*mcp.CallToolResult, LedgerSummaryOutput, error) {
	summary := h.reports.Summary()
	status := h.reports.DebtsByStatus()

	recent := summary.RecentDebts
	if input.RecentLimit > 0 {
		recent = h.reports.RecentDebts(input.RecentLimit)
	}
	debts := make([]DebtSummary, len(recent))
	for i, d := range recent {
		debts[i] = DebtSummary{
			ID:         d.ID,
			CustomerID: d.CustomerID,
			Amount:     d.Amount.String(),
			Date:       d.Date.Format(time.RFC3339),
			IsPaid:     d.IsPaid,
		}
	}

	return nil, LedgerSummaryOutput{
		TotalUnpaid:    summary.TotalUnpaid.String(),
		UnpaidCount:    summary.UnpaidCount,
		OverdueCount:   summary.OverdueCount,
		CollectionRate: h.reports.CollectionRate(),
		AverageDebt:    h.reports.AverageDebtAmount().String(),
		AverageDays:    h.reports.AverageCollectionTime(),
		StatusCounts: StatusCounts{
			Paid:    status.Paid.Count,
			Overdue: status.Overdue.Count,
			Current: status.Current.Count,
		},
		RecentDebts: debts,
	}, nil
}

type MonthlyReportInput struct {
	Year  int `json:"year,omitempty" jsonschema:"Year (default: current year)"`
	Month int `json:"month,omitempty" jsonschema:"Month 1-12 (default: current month)"`
}

type MonthlyReportOutput struct {
	Year           int    `json:"year"`
	Month          int    `json:"month"`
	TotalCollected string `json:"total_collected"`
	PaymentsCount  int    `json:"payments_count"`
}

func (h *ReportHandlers) MonthlyReport(_ context.Context, request *mcp.CallToolRequest, input MonthlyReportInput) (*mcp.CallToolResult, MonthlyReportOutput, error) {
	now := h.now()
	year, month := input.Year, input.Month
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 {
		return nil, MonthlyReportOutput{}, fmt.Errorf("invalid month: %d", month)
	}

	r := h.reports.MonthlyCollectedReport(year, time.Month(month))
	return nil, MonthlyReportOutput{
		Year:           year,
		Month:          month,
		TotalCollected: r.TotalCollected.String(),
		PaymentsCount:  r.PaymentsCount,
	}, nil
}

type TopCustomersInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum customers (default 10)"`
}

type TopCustomerOutput struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	TotalAmount  string `json:"total_amount"`
	TotalPaid    string `json:"total_paid"`
	DebtCount    int    `json:"debt_count"`
	OverdueDebts int    `json:"overdue_debts"`
	AverageDebt  string `json:"average_debt"`
}

type TopCustomersOutput struct {
	Customers []TopCustomerOutput `json:"customers"`
}

func (h *ReportHandlers) TopCustomers(_ context.Context, request *mcp.CallToolRequest, input TopCustomersInput) (*mcp.CallToolResult, TopCustomersOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = reports.DefaultTopLimit
	}

	top := h.reports.TopCustomers(limit)
	out := make([]TopCustomerOutput, len(top))
	for i, s := range top {
		out[i] = TopCustomerOutput{
			ID:           s.Customer.ID,
			Name:         s.Customer.Name,
			TotalAmount:  s.TotalAmount.String(),
			TotalPaid:    s.TotalPaid.String(),
			DebtCount:    s.DebtCount,
			OverdueDebts: s.OverdueDebts,
			AverageDebt:  s.AvgDebtAmount.String(),
		}
	}
	return nil, TopCustomersOutput{Customers: out}, nil
}
