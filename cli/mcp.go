// ABOUTME: MCP server subcommand
// ABOUTME: Exposes the ledger as tools, resources and prompts over stdio
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/harperreed/daftar/handlers"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPCommand starts the MCP server on stdio
func MCPCommand(app *App, version string) error {
	app.Logger.Info("starting daftar MCP server", "version", version)

	ctx := context.Background()

	var syncFn handlers.SyncFunc
	rt, err := openSync(ctx, app, false)
	switch {
	case err == nil:
		defer func() { _ = rt.Close() }()
		syncFn = rt.reconciler.Run
	case errors.Is(err, ErrRemoteNotConfigured):
		app.Logger.Debug("sync_now disabled, no remote configured")
	default:
		return fmt.Errorf("failed to open remote: %w", err)
	}

	server := newMCPServer(app, version, syncFn)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func newMCPServer(app *App, version string, syncFn handlers.SyncFunc) *mcp.Server {
	customerHandlers := handlers.NewCustomerHandlers(app.Store, app.Reports)
	debtHandlers := handlers.NewDebtHandlers(app.Store, app.Config.Location())
	reportHandlers := handlers.NewReportHandlers(app.Reports)
	syncHandlers := handlers.NewSyncHandlers(syncFn)
	resourceHandlers := handlers.NewResourceHandlers(app.Store, app.Reports)
	promptHandlers := handlers.NewPromptHandlers(app.Store, app.Reports, app.Config.LanguageTag())

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "daftar",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_customer",
		Description: "Add a new customer to the ledger",
	}, customerHandlers.AddCustomer)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_customers",
		Description: "Search customers by name or phone, with what each still owes",
	}, customerHandlers.FindCustomers)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_debt",
		Description: "Record a new debt for a customer",
	}, debtHandlers.AddDebt)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_payment",
		Description: "Record a payment against a debt and update what remains",
	}, debtHandlers.AddPayment)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "mark_debt_paid",
		Description: "Settle the remaining balance of a debt in full",
	}, debtHandlers.MarkDebtPaid)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ledger_summary",
		Description: "Totals, overdue counts, collection rate and the most recent unpaid debts",
	}, reportHandlers.LedgerSummary)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "monthly_report",
		Description: "Amount collected and payment count for a calendar month",
	}, reportHandlers.MonthlyReport)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "top_customers",
		Description: "Customers ranked by total debt amount",
	}, reportHandlers.TopCustomers)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "sync_now",
		Description: "Push pending ledger changes to the remote database",
	}, syncHandlers.SyncNow)

	server.AddResource(&mcp.Resource{
		URI:         handlers.CustomersURI,
		Name:        "customers",
		Description: "Active customers with their outstanding totals",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddResource(&mcp.Resource{
		URI:         handlers.UnpaidDebtsURI,
		Name:        "unpaid-debts",
		Description: "Every active unpaid debt",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddResource(&mcp.Resource{
		URI:         handlers.SummaryURI,
		Name:        "summary",
		Description: "Home screen totals",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: handlers.CustomerURITemplate,
		Name:        "customer",
		Description: "One customer with their debts",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddPrompt(&mcp.Prompt{
		Name:        "customer-summary",
		Description: "Summarize a customer's account and suggest a next step",
		Arguments: []*mcp.PromptArgument{
			{Name: "customer_id", Description: "Customer ID", Required: true},
		},
	}, promptHandlers.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "collection-plan",
		Description: "Plan who to contact first about overdue debts",
	}, promptHandlers.GetPrompt)

	return server
}
