// ABOUTME: Debt MCP tool handlers
// ABOUTME: Implements add_debt, add_payment and mark_debt_paid tools
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/daftar/ledger"
	"github.com/harperreed/daftar/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/shopspring/decimal"
)

type DebtHandlers struct {
	store *ledger.Store
	loc   *time.Location
	now   func() time.Time
}

// NewDebtHandlers reads bare YYYY-MM-DD dates in loc, the reporting
// timezone. A nil loc means UTC.
func NewDebtHandlers(store *ledger.Store, loc *time.Location) *DebtHandlers {
	if loc == nil {
		loc = time.UTC
	}
	return &DebtHandlers{store: store, loc: loc, now: time.Now}
}

type AddDebtInput struct {
	CustomerID string  `json:"customer_id" jsonschema:"Customer ID (required)"`
	Amount     float64 `json:"amount" jsonschema:"Amount in dinars (required, positive)"`
	Date       string  `json:"date,omitempty" jsonschema:"Debt date YYYY-MM-DD or RFC3339 (default: now)"`
	Notes      string  `json:"notes,omitempty" jsonschema:"What was bought"`
}

type DebtOutput struct {
	ID               string  `json:"id"`
	CustomerID       string  `json:"customer_id"`
	Amount           string  `json:"amount"`
	AmountPaid       string  `json:"amount_paid"`
	Remaining        string  `json:"remaining"`
	Date             string  `json:"date"`
	Notes            string  `json:"notes,omitempty"`
	IsPaid           bool    `json:"is_paid"`
	PaidAt           *string `json:"paid_at,omitempty"`
	LastReminderSent *string `json:"last_reminder_sent,omitempty"`
	SyncStatus       string  `json:"sync_status"`
}

func (h *DebtHandlers) AddDebt(_ context.Context, request *mcp.CallToolRequest, input AddDebtInput) (*mcp.CallToolResult, DebtOutput, error) {
	if _, ok := h.store.GetCustomer(input.CustomerID); !ok {
		return nil, DebtOutput{}, fmt.Errorf("customer not found: %s", input.CustomerID)
	}
	amount := decimal.NewFromFloat(input.Amount)
	if err := ledger.ValidateAmount(amount); err != nil {
		return nil, DebtOutput{}, err
	}
	date, err := h.parseDate(input.Date)
	if err != nil {
		return nil, DebtOutput{}, err
	}

	debt := h.store.AddDebt(ledger.NewDebt{
		CustomerID: input.CustomerID,
		Amount:     amount,
		Date:       date,
		Notes:      input.Notes,
	})
	return nil, h.debtToOutput(debt), nil
}

type AddPaymentInput struct {
	DebtID string  `json:"debt_id" jsonschema:"Debt ID (required)"`
	Amount float64 `json:"amount" jsonschema:"Amount paid (required, at most the remaining amount)"`
	Date   string  `json:"date,omitempty" jsonschema:"Payment date YYYY-MM-DD or RFC3339 (default: now)"`
	Notes  string  `json:"notes,omitempty" jsonschema:"Payment notes"`
}

type PaymentOutput struct {
	ID     string     `json:"id"`
	DebtID string     `json:"debt_id"`
	Amount string     `json:"amount"`
	Date   string     `json:"date"`
	Notes  string     `json:"notes,omitempty"`
	Debt   DebtOutput `json:"debt"`
}

func (h *DebtHandlers) AddPayment(_ context.Context, request *mcp.CallToolRequest, input AddPaymentInput) (*mcp.CallToolResult, PaymentOutput, error) {
	if err := requireID("debt_id", input.DebtID); err != nil {
		return nil, PaymentOutput{}, err
	}
	amount := decimal.NewFromFloat(input.Amount)
	if err := h.store.ValidatePayment(input.DebtID, amount); err != nil {
		return nil, PaymentOutput{}, fmt.Errorf("cannot record payment: %w", err)
	}
	date, err := h.parseDate(input.Date)
	if err != nil {
		return nil, PaymentOutput{}, err
	}

	payment := h.store.AddPayment(ledger.NewPayment{DebtID: input.DebtID, Amount: amount, Date: date, Notes: input.Notes})
	debt, _ := h.store.GetDebt(input.DebtID)

	return nil, PaymentOutput{
		ID:     payment.ID,
		DebtID: payment.DebtID,
		Amount: payment.Amount.String(),
		Date:   payment.Date.Format(time.RFC3339),
		Notes:  payment.Notes,
		Debt:   h.debtToOutput(debt),
	}, nil
}

type MarkDebtPaidInput struct {
	DebtID string `json:"debt_id" jsonschema:"Debt ID (required)"`
}

func (h *DebtHandlers) MarkDebtPaid(_ context.Context, request *mcp.CallToolRequest, input MarkDebtPaidInput) (*mcp.CallToolResult, DebtOutput, error) {
	if _, ok := h.store.GetDebt(input.DebtID); !ok {
		return nil, DebtOutput{}, fmt.Errorf("debt not found: %s", input.DebtID)
	}

	h.store.MarkDebtAsPaid(input.DebtID)
	debt, _ := h.store.GetDebt(input.DebtID)
	return nil, h.debtToOutput(debt), nil
}

func (h *DebtHandlers) parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return h.now(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, h.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD or RFC3339", raw)
	}
	return t, nil
}

func (h *DebtHandlers) debtToOutput(d models.Debt) DebtOutput {
	return DebtOutput{
		ID:               d.ID,
		CustomerID:       d.CustomerID,
		Amount:           d.Amount.String(),
		AmountPaid:       d.AmountPaid.String(),
		Remaining:        h.store.GetRemainingAmount(d).String(),
		Date:             d.Date.Format(time.RFC3339),
		Notes:            d.Notes,
		IsPaid:           d.IsPaid,
		PaidAt:           formatTimePtr(d.PaidAt),
		LastReminderSent: formatTimePtr(d.LastReminderSent),
		SyncStatus:       string(d.SyncStatus),
	}
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
