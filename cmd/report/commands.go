package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivanoskov/bc-money/internal/charts"
	"github.com/ivanoskov/bc-money/internal/metrics"
	"github.com/ivanoskov/bc-money/internal/model"
	"github.com/ivanoskov/bc-money/internal/service"
)

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Print the current month dashboard as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := userID()
			if err != nil {
				return err
			}
			d, err := finance.Dashboard(cmd.Context(), user)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), d)
		},
	}
}

func advisorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "advisor",
		Short: "Print the financial context snapshot used by the advisor",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := userID()
			if err != nil {
				return err
			}
			snapshot, err := finance.AdvisorContext(cmd.Context(), user)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), snapshot)
		},
	}
}

func budgetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "budgets",
		Short: "List budgets with their usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := userID()
			if err != nil {
				return err
			}
			overview, err := finance.BudgetOverview(cmd.Context(), user)
			if err != nil {
				return err
			}
			return writeBudgets(cmd.OutOrStdout(), overview)
		},
	}
}

func writeBudgets(out io.Writer, o *service.BudgetOverview) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tPERIOD\tSPENT\tBUDGET\tUSAGE\tSTATUS")
	for _, b := range o.Budgets {
		usage := "-"
		if b.Percentage.Valid {
			usage = b.Percentage.Decimal.StringFixed(1) + "%"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			b.Category, b.Budget.Period, b.Spent.StringFixed(2), b.Budget.Amount.StringFixed(2), usage, b.Status)
	}
	fmt.Fprintf(w, "TOTAL\t\t%s\t%s\t%s%%\t%s\n",
		o.Totals.Spent.StringFixed(2), o.Totals.Budgeted.StringFixed(2), o.Totals.Percentage.StringFixed(1), o.Totals.Status)
	return w.Flush()
}

func goalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "goals",
		Short: "List goals with progress and savings plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := userID()
			if err != nil {
				return err
			}
			overview, err := finance.GoalPlans(cmd.Context(), user)
			if err != nil {
				return err
			}
			return writeGoals(cmd.OutOrStdout(), overview.Goals)
		},
	}
}

func writeGoals(out io.Writer, lines []service.GoalLine) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tPROGRESS\tMONTHLY\tWEEKLY")
	for _, line := range lines {
		monthly, weekly := "-", "-"
		if line.Plan != nil && line.Plan.Outcome == metrics.OutcomePlan {
			monthly = line.Plan.Monthly.StringFixed(2)
			weekly = line.Plan.Weekly.StringFixed(2)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s%%\t%s\t%s\n",
			line.Goal.ID, line.Goal.Name, line.Goal.Status, line.Progress.StringFixed(0), monthly, weekly)
	}
	return w.Flush()
}

// monthFlag разбирает значение --month; пустое значение означает текущий месяц
func monthFlag(value string) (model.Date, error) {
	if value == "" {
		return model.DateOf(time.Now()), nil
	}
	t, err := time.Parse("2006-01", value)
	if err != nil {
		return model.Date{}, fmt.Errorf("invalid --month %q, expected yyyy-mm", value)
	}
	return model.DateOf(t), nil
}

func exportCmd() *cobra.Command {
	var month, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the monthly report as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := userID()
			if err != nil {
				return err
			}
			m, err := monthFlag(month)
			if err != nil {
				return err
			}
			report, err := finance.MonthlyReport(cmd.Context(), user, m)
			if err != nil {
				return err
			}
			if out == "" {
				out = report.FileName()
			}
			if out == "-" {
				return report.WriteCSV(cmd.OutOrStdout())
			}

			if err := writeReportFile(out, report); err != nil {
				return err
			}
			log.WithField("file", out).WithField("rows", len(report.Transactions)).Info("Report.Exported")
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month to export (yyyy-mm, default current)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, - for stdout (default bc-money-reporte-yyyy-mm.csv)")
	return cmd
}

func writeReportFile(path string, report *service.MonthlyReport) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	return report.WriteCSV(f)
}

func chartCmd() *cobra.Command {
	var kind, out string
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render a PNG chart (categories, budgets or weekly)",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := userID()
			if err != nil {
				return err
			}
			png, err := renderChart(cmd, user, kind)
			if err != nil {
				return err
			}
			if png == nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "no data to chart")
				return nil
			}
			if out == "" {
				out = kind + ".png"
			}
			return os.WriteFile(out, png, 0o644)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "categories", "chart kind: categories, budgets, weekly")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default <kind>.png)")
	return cmd
}

func renderChart(cmd *cobra.Command, user, kind string) ([]byte, error) {
	switch kind {
	case "budgets":
		overview, err := finance.BudgetOverview(cmd.Context(), user)
		if err != nil {
			return nil, err
		}
		return charts.NewChartGenerator(overview.Currency).GenerateBudgetChart(overview.Budgets)
	case "categories", "weekly":
		d, err := finance.Dashboard(cmd.Context(), user)
		if err != nil {
			return nil, err
		}
		gen := charts.NewChartGenerator(d.Currency)
		if kind == "weekly" {
			return gen.GenerateWeeklyTrendChart(d.WeeklyTrend)
		}
		return gen.GenerateCategoryPieChart(d.Categories)
	default:
		return nil, fmt.Errorf("unknown chart kind %q", kind)
	}
}
