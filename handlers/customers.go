// ABOUTME: Customer MCP tool handlers
// ABOUTME: Implements add_customer and find_customers tools
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/daftar/ledger"
	"github.com/harperreed/daftar/models"
	"github.com/harperreed/daftar/reports"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type CustomerHandlers struct {
	store   *ledger.Store
	reports *reports.Engine
}

func NewCustomerHandlers(store *ledger.Store, engine *reports.Engine) *CustomerHandlers {
	return &CustomerHandlers{store: store, reports: engine}
}

type AddCustomerInput struct {
	Name  string `json:"name" jsonschema:"Customer name (required, unique)"`
	Phone string `json:"phone" jsonschema:"Phone number (required, unique)"`
}

type CustomerOutput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	CreatedAt   string `json:"created_at"`
	SyncStatus  string `json:"sync_status"`
	TotalDebt   string `json:"total_debt,omitempty"`
	UnpaidDebts int    `json:"unpaid_debts,omitempty"`
}

func (h *CustomerHandlers) AddCustomer(_ context.Context, request *mcp.CallToolRequest, input AddCustomerInput) (*mcp.CallToolResult, CustomerOutput, error) {
	if err := h.store.ValidateCustomer(input.Name, input.Phone, ""); err != nil {
		return nil, CustomerOutput{}, err
	}

	customer := h.store.AddCustomer(input.Name, input.Phone)
	return nil, customerToOutput(customer), nil
}

type FindCustomersInput struct {
	Query string `json:"query,omitempty" jsonschema:"Search by name or phone (empty lists everyone)"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type FindCustomersOutput struct {
	Customers []CustomerOutput `json:"customers"`
}

func (h *CustomerHandlers) FindCustomers(_ context.Context, request *mcp.CallToolRequest, input FindCustomersInput) (*mcp.CallToolResult, FindCustomersOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	owed := map[string]models.CustomerSummary{}
	for _, s := range h.reports.CustomerSummaries() {
		owed[s.ID] = s
	}

	result := []CustomerOutput{}
	for _, c := range h.store.FindCustomers(input.Query) {
		if len(result) == limit {
			break
		}
		out := customerToOutput(c)
		if s, ok := owed[c.ID]; ok {
			out.TotalDebt = s.TotalDebt.String()
			out.UnpaidDebts = s.UnpaidDebts
		}
		result = append(result, out)
	}

	return nil, FindCustomersOutput{Customers: result}, nil
}

func customerToOutput(c models.Customer) CustomerOutput {
	return CustomerOutput{
		ID:         c.ID,
		Name:       c.Name,
		Phone:      c.Phone,
		CreatedAt:  c.CreatedAt.Format(time.RFC3339),
		SyncStatus: string(c.SyncStatus),
	}
}

func requireID(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}
