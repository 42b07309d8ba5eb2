// ABOUTME: MCP resource handlers exposing ledger data
// ABOUTME: Read-only JSON views of customers, unpaid debts and the summary via daftar:// URIs
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harperreed/daftar/ledger"
	"github.com/harperreed/daftar/reports"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const resourceScheme = "daftar://"

// Resource URIs served by ResourceHandlers.
const (
	CustomersURI   = resourceScheme + "customers"
	UnpaidDebtsURI = resourceScheme + "debts/unpaid"
	SummaryURI     = resourceScheme + "summary"
	// CustomerURITemplate addresses one customer with their debts.
	CustomerURITemplate = resourceScheme + "customers/{id}"
)

type ResourceHandlers struct {
	store   *ledger.Store
	reports *reports.Engine
}

func NewResourceHandlers(store *ledger.Store, engine *reports.Engine) *ResourceHandlers {
	return &ResourceHandlers{store: store, reports: engine}
}

// ReadResource handles resource read requests.
func (h *ResourceHandlers) ReadResource(_ context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, resourceScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", resourceScheme)
	}

	parts := strings.Split(strings.TrimPrefix(uri, resourceScheme), "/")
	switch parts[0] {
	case "customers":
		if len(parts) == 1 {
			return jsonResource(uri, h.reports.CustomerSummaries())
		}
		return h.readCustomer(uri, parts[1])

	case "debts":
		if len(parts) == 2 && parts[1] == "unpaid" {
			return jsonResource(uri, h.reports.UnpaidDebts())
		}
		return nil, fmt.Errorf("unknown resource: %s", uri)

	case "summary":
		return jsonResource(uri, h.reports.Summary())

	default:
		return nil, fmt.Errorf("resource not found: %s", uri)
	}
}

type customerResource struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Phone    string        `json:"phone"`
	Debts    []debtWithDue `json:"debts"`
	Payments int           `json:"payments"`
}

type debtWithDue struct {
	ID        string `json:"id"`
	Amount    string `json:"amount"`
	Remaining string `json:"remaining"`
	Date      string `json:"date"`
	IsPaid    bool   `json:"is_paid"`
	Notes     string `json:"notes,omitempty"`
}

func (h *ResourceHandlers) readCustomer(uri, id string) (*mcp.ReadResourceResult, error) {
	st := h.store.Snapshot()
	customer, ok := st.Customer(id)
	if !ok {
		return nil, fmt.Errorf("resource not found: %s", uri)
	}

	out := customerResource{ID: customer.ID, Name: customer.Name, Phone: customer.Phone, Debts: []debtWithDue{}}
	for _, d := range st.CustomerDebts(id) {
		out.Debts = append(out.Debts, debtWithDue{
			ID:        d.ID,
			Amount:    d.Amount.String(),
			Remaining: st.RemainingAmount(d).String(),
			Date:      d.Date.Format("2006-01-02"),
			IsPaid:    d.IsPaid,
			Notes:     d.Notes,
		})
		out.Payments += len(st.PaymentsForDebt(d.ID))
	}
	return jsonResource(uri, out)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}
	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}
