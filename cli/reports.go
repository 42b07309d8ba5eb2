// ABOUTME: Report CLI commands
// ABOUTME: Summary, monthly collections, trends, top customers, status and stats

package cli

import (
	"flag"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/harperreed/daftar/reports"
)

// ReportSummaryCommand prints the home-screen overview.
func ReportSummaryCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("report summary", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	s := app.Reports.Summary()
	app.title("Ledger Summary")
	app.printf("Total unpaid:  %s\n", app.money(s.TotalUnpaid))
	app.printf("Unpaid debts:  %d\n", s.UnpaidCount)
	app.printf("Overdue debts: %s\n", app.render(warnStyle, fmt.Sprint(s.OverdueCount)))

	if len(s.RecentDebts) > 0 {
		app.println()
		app.header("Recent debts")
		printDebts(app, app.Store.Snapshot(), s.RecentDebts)
	}
	return nil
}

// ReportMonthlyCommand prints what was collected in one calendar month.
func ReportMonthlyCommand(app *App, args []string) error {
	now := time.Now().In(app.Config.Location())
	fs := flag.NewFlagSet("report monthly", flag.ContinueOnError)
	year := fs.Int("year", now.Year(), "Year")
	month := fs.Int("month", int(now.Month()), "Month (1-12)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *month < 1 || *month > 12 {
		return fmt.Errorf("invalid month: %d", *month)
	}

	r := app.Reports.MonthlyCollectedReport(*year, time.Month(*month))
	app.title(fmt.Sprintf("Collected in %s %d", reports.MonthName(app.Config.LanguageTag(), time.Month(*month)), *year))
	app.printf("Total collected: %s\n", app.money(r.TotalCollected))
	app.printf("Payments:        %d\n", r.PaymentsCount)
	return nil
}

// ReportTrendsCommand prints monthly collections, oldest first.
func ReportTrendsCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("report trends", flag.ContinueOnError)
	months := fs.Int("months", reports.DefaultTrendMonths, "Number of months")
	if err := fs.Parse(args); err != nil {
		return err
	}

	app.title("Payment Trends")
	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "MONTH\tCOLLECTED\tPAYMENTS")
	_, _ = fmt.Fprintln(w, "-----\t---------\t--------")
	for _, t := range app.Reports.PaymentTrends(*months) {
		_, _ = fmt.Fprintf(w, "%s %d\t%s\t%d\n", t.MonthName, t.Year, app.money(t.TotalCollected), t.PaymentsCount)
	}
	return w.Flush()
}

// ReportTopCommand lists the customers with the largest debt totals.
func ReportTopCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("report top", flag.ContinueOnError)
	limit := fs.Int("limit", reports.DefaultTopLimit, "Maximum customers")
	if err := fs.Parse(args); err != nil {
		return err
	}

	top := app.Reports.TopCustomers(*limit)
	if len(top) == 0 {
		app.println("No customers found")
		return nil
	}

	app.title("Top Customers")
	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tNAME\tTOTAL\tPAID\tDEBTS\tOVERDUE\tAVERAGE")
	_, _ = fmt.Fprintln(w, "-\t----\t-----\t----\t-----\t-------\t-------")
	for i, s := range top {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\t%s\n",
			i+1, s.Customer.Name, app.money(s.TotalAmount), app.money(s.TotalPaid), s.DebtCount, s.OverdueDebts, app.money(s.AvgDebtAmount))
	}
	return w.Flush()
}

// ReportStatusCommand prints debts bucketed by paid, overdue and current.
func ReportStatusCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("report status", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	s := app.Reports.DebtsByStatus()
	app.title("Debts by Status")
	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "STATUS\tCOUNT\tAMOUNT")
	_, _ = fmt.Fprintln(w, "------\t-----\t------")
	_, _ = fmt.Fprintf(w, "Paid\t%d\t%s\n", s.Paid.Count, app.money(s.Paid.Amount))
	_, _ = fmt.Fprintf(w, "Overdue\t%d\t%s\n", s.Overdue.Count, app.money(s.Overdue.Amount))
	_, _ = fmt.Fprintf(w, "Current\t%d\t%s\n", s.Current.Count, app.money(s.Current.Amount))
	return w.Flush()
}

// ReportStatsCommand prints collection rate and averages.
func ReportStatsCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("report stats", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	app.title("Collection Statistics")
	app.printf("Collection rate:         %.1f%%\n", app.Reports.CollectionRate())
	app.printf("Average debt:            %s\n", app.money(app.Reports.AverageDebtAmount()))
	app.printf("Average collection time: %.1f days\n", app.Reports.AverageCollectionTime())
	return nil
}

// ReportDashboardCommand prints the full terminal dashboard.
func ReportDashboardCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("report dashboard", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	app.printf("%s", reports.RenderDashboard(app.Reports.Dashboard(), app.money))
	return nil
}
