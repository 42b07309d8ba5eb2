// ABOUTME: MCP prompt handlers for ledger workflows
// ABOUTME: Provides customer-summary and collection-plan prompt templates
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/daftar/ledger"
	"github.com/harperreed/daftar/reminders"
	"github.com/harperreed/daftar/reports"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/text/language"
)

type PromptHandlers struct {
	store   *ledger.Store
	reports *reports.Engine
	locale  language.Tag
}

func NewPromptHandlers(store *ledger.Store, engine *reports.Engine, locale language.Tag) *PromptHandlers {
	return &PromptHandlers{store: store, reports: engine, locale: locale}
}

// GetPrompt generates the prompt message for the named template.
func (h *PromptHandlers) GetPrompt(_ context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	switch request.Params.Name {
	case "customer-summary":
		return h.customerSummaryPrompt(request.Params.Arguments)
	case "collection-plan":
		return h.collectionPlanPrompt()
	default:
		return nil, fmt.Errorf("unknown prompt: %s", request.Params.Name)
	}
}

func (h *PromptHandlers) customerSummaryPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	id, ok := args["customer_id"]
	if !ok || id == "" {
		return nil, fmt.Errorf("customer_id is required")
	}

	st := h.store.Snapshot()
	customer, ok := st.Customer(id)
	if !ok {
		return nil, fmt.Errorf("customer not found: %s", id)
	}

	var text strings.Builder
	text.WriteString("Please summarize this shop customer's account:\n\n")
	fmt.Fprintf(&text, "Name: %s\n", customer.Name)
	fmt.Fprintf(&text, "Phone: %s\n", customer.Phone)
	fmt.Fprintf(&text, "Customer since: %s\n", customer.CreatedAt.Format("2006-01-02"))
	fmt.Fprintf(&text, "Outstanding: %s\n", reminders.FormatAmount(h.locale, reminders.CustomerRemaining(st, id)))

	debts := st.CustomerDebts(id)
	if len(debts) > 0 {
		text.WriteString("\nDebts:\n")
		for _, d := range debts {
			status := "unpaid"
			if d.IsPaid {
				status = "paid"
			}
			fmt.Fprintf(&text, "- %s: %s, remaining %s, %s, %d payments\n",
				d.Date.Format("2006-01-02"), d.Amount, st.RemainingAmount(d), status, len(st.PaymentsForDebt(d.ID)))
		}
	}

	text.WriteString("\nPlease provide:")
	text.WriteString("\n1. A short account summary")
	text.WriteString("\n2. Whether this customer pays reliably")
	text.WriteString("\n3. A polite next step for collecting what is owed")

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Account summary for %s", customer.Name),
		Messages: []*mcp.PromptMessage{
			{Role: "user", Content: &mcp.TextContent{Text: text.String()}},
		},
	}, nil
}

func (h *PromptHandlers) collectionPlanPrompt() (*mcp.GetPromptResult, error) {
	summary := h.reports.Summary()
	top := h.reports.TopCustomers(5)

	var text strings.Builder
	text.WriteString("Help me plan debt collection for my fabric shop.\n\n")
	fmt.Fprintf(&text, "Total unpaid: %s across %d debts\n", reminders.FormatAmount(h.locale, summary.TotalUnpaid), summary.UnpaidCount)
	fmt.Fprintf(&text, "Overdue (30+ days): %d debts\n", summary.OverdueCount)
	fmt.Fprintf(&text, "Collection rate: %.1f%%\n", h.reports.CollectionRate())

	if len(top) > 0 {
		text.WriteString("\nLargest accounts:\n")
		for _, s := range top {
			fmt.Fprintf(&text, "- %s: %s owed over %d debts (%d overdue)\n",
				s.Customer.Name, s.TotalAmount.Sub(s.TotalPaid), s.DebtCount, s.OverdueDebts)
		}
	}

	text.WriteString("\nSuggest who to contact first and how, keeping the tone respectful.")

	return &mcp.GetPromptResult{
		Description: "Debt collection plan",
		Messages: []*mcp.PromptMessage{
			{Role: "user", Content: &mcp.TextContent{Text: text.String()}},
		},
	}, nil
}
