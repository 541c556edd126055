package bot

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ivanoskov/bc-money/internal/metrics"
	"github.com/ivanoskov/bc-money/internal/model"
	"github.com/ivanoskov/bc-money/internal/service"
)

const helpText = "Comandos disponibles:\n\n" +
	"/dashboard - resumen del mes\n" +
	"/presupuestos - uso de presupuestos\n" +
	"/metas - metas de ahorro\n" +
	"/aportar <meta> <monto> - aportar a una meta\n" +
	"/gasto <monto> <descripción> - registrar un gasto\n" +
	"/ingreso <monto> <descripción> - registrar un ingreso\n" +
	"/reporte [aaaa-mm] - reporte mensual en CSV"

// usageError ошибка разбора аргументов команды; текст показывается пользователю как есть
type usageError string

func (e usageError) Error() string { return string(e) }

// errorText текст ошибки для пользователя
func errorText(err error) string {
	var usage usageError
	switch {
	case errors.As(err, &usage):
		return string(usage)
	case errors.Is(err, service.ErrGoalNotFound):
		return "Meta no encontrada."
	case errors.Is(err, metrics.ErrInvalidContribution):
		return "El aporte debe ser mayor a cero."
	case errors.Is(err, model.ErrNegativeAmount):
		return "El monto no puede ser negativo."
	default:
		return "No se pudo completar la operación. Intenta más tarde."
	}
}

func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, usageError(fmt.Sprintf("Monto inválido: %q. Usa un número, por ejemplo 1500.50", s))
	}
	return amount, nil
}

// parseAmountAndDescription разбирает "<сумма> <описание>"; описание необязательно
func parseAmountAndDescription(args string) (decimal.Decimal, string, error) {
	parts := strings.SplitN(strings.TrimSpace(args), " ", 2)
	if parts[0] == "" {
		return decimal.Zero, "", usageError("Formato: <monto> <descripción>, por ejemplo: 1500 Almuerzo")
	}
	amount, err := parseAmount(parts[0])
	if err != nil {
		return decimal.Zero, "", err
	}
	description := ""
	if len(parts) == 2 {
		description = strings.TrimSpace(parts[1])
	}
	return amount, description, nil
}

// parseContribution разбирает "<id цели> <сумма>"
func parseContribution(args string) (string, decimal.Decimal, error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return "", decimal.Zero, usageError("Formato: /aportar <meta> <monto>")
	}
	amount, err := parseAmount(fields[1])
	if err != nil {
		return "", decimal.Zero, err
	}
	return fields[0], amount, nil
}

// parseMonth разбирает месяц "2006-01"; пустая строка означает текущий месяц
func parseMonth(args string, today model.Date) (model.Date, error) {
	args = strings.TrimSpace(args)
	if args == "" {
		return today, nil
	}
	t, err := time.Parse("2006-01", args)
	if err != nil {
		return model.Date{}, usageError("Formato de mes: aaaa-mm, por ejemplo 2026-09")
	}
	return model.DateOf(t), nil
}

func money(amount decimal.Decimal, currency string) string {
	if currency == "" {
		return amount.StringFixed(2)
	}
	return fmt.Sprintf("%s %s", amount.StringFixed(2), currency)
}

func percent(p decimal.Decimal) string {
	return p.StringFixed(0) + "%"
}

func statusEmoji(status metrics.Status) string {
	switch status {
	case metrics.StatusSuccess:
		return "🟢"
	case metrics.StatusWarning:
		return "🟡"
	case metrics.StatusDanger:
		return "🔴"
	default:
		return "⚪"
	}
}

func writeDegraded(sb *strings.Builder, degraded []string) {
	if len(degraded) > 0 {
		fmt.Fprintf(sb, "\n⚠️ Datos no disponibles: %s\n", strings.Join(degraded, ", "))
	}
}

func formatDashboard(d *service.Dashboard) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Resumen del %s al %s\n\n", d.Start, d.End)
	fmt.Fprintf(&sb, "💰 Ingresos: %s\n", money(d.Summary.Income, d.Currency))
	fmt.Fprintf(&sb, "💸 Gastos: %s\n", money(d.Summary.Expenses, d.Currency))
	fmt.Fprintf(&sb, "💵 Balance: %s\n", money(d.Summary.Balance, d.Currency))
	fmt.Fprintf(&sb, "📈 Tasa de ahorro: %s\n", percent(d.Summary.SavingsRate))

	if len(d.Categories) > 0 {
		sb.WriteString("\nGastos por categoría:\n")
		for _, c := range d.Categories {
			fmt.Fprintf(&sb, "• %s: %s\n", c.Name, money(c.Amount, d.Currency))
		}
	}

	if d.OverallBudget.Valid {
		fmt.Fprintf(&sb, "\n💼 Uso de presupuestos: %s\n", percent(d.OverallBudget.Decimal))
	}

	if len(d.Goals) > 0 {
		sb.WriteString("\n🎯 Metas:\n")
		for _, g := range d.Goals {
			sb.WriteString(goalLine(g, d.Currency))
		}
	}

	if len(d.Recent) > 0 {
		sb.WriteString("\nÚltimos movimientos:\n")
		for _, t := range d.Recent {
			sb.WriteString(transactionLine(t, d.Currency))
		}
	}
	writeDegraded(&sb, d.Degraded)
	return sb.String()
}

func formatBudgets(o *service.BudgetOverview) string {
	if len(o.Budgets) == 0 {
		return "No tienes presupuestos configurados."
	}
	var sb strings.Builder
	sb.WriteString("💼 Presupuestos\n\n")
	for _, b := range o.Budgets {
		if !b.Percentage.Valid {
			fmt.Fprintf(&sb, "%s %s: límite inválido\n", statusEmoji(b.Status), b.Category)
			continue
		}
		fmt.Fprintf(&sb, "%s %s: %s de %s (%s)\n",
			statusEmoji(b.Status), b.Category,
			money(b.Spent, o.Currency), money(b.Budget.Amount, o.Currency), percent(b.Percentage.Decimal))
	}
	fmt.Fprintf(&sb, "\nTotal: %s de %s (%s)\n",
		money(o.Totals.Spent, o.Currency), money(o.Totals.Budgeted, o.Currency), percent(o.Totals.Percentage))
	writeDegraded(&sb, o.Degraded)
	return sb.String()
}

func formatGoals(o *service.GoalOverview) string {
	if len(o.Goals) == 0 {
		return "No tienes metas de ahorro. ¡Crea una en la app!"
	}
	var sb strings.Builder
	sb.WriteString("🎯 Metas de ahorro\n\n")
	for _, line := range o.Goals {
		sb.WriteString(goalLine(line, o.Currency))
	}
	writeDegraded(&sb, o.Degraded)
	return sb.String()
}

func goalLine(line service.GoalLine, currency string) string {
	g := line.Goal
	text := fmt.Sprintf("• %s: %s (%s de %s)", g.Name, percent(line.Progress),
		money(g.CurrentAmount, currency), money(g.TargetAmount, currency))
	if g.Status == model.GoalCompleted {
		return text + " ✅\n"
	}
	if line.Plan != nil {
		switch line.Plan.Outcome {
		case metrics.OutcomePlan:
			text += fmt.Sprintf(", %s/mes", money(line.Plan.Monthly, currency))
		case metrics.OutcomeError:
			text += ", fecha vencida"
		}
	}
	return text + "\n"
}

func transactionLine(t model.Transaction, currency string) string {
	sign := "-"
	if t.Type == model.TransactionIncome {
		sign = "+"
	}
	description := ""
	if t.Description != nil {
		description = " " + *t.Description
	}
	return fmt.Sprintf("%s %s%s%s\n", t.Date, sign, money(t.Amount, currency), description)
}

func formatContribution(goal *model.Goal, amount decimal.Decimal) string {
	if goal.Status == model.GoalCompleted {
		return fmt.Sprintf("🎉 ¡Meta \"%s\" completada! Aporte: %s", goal.Name, amount.StringFixed(2))
	}
	return fmt.Sprintf("✅ Aporte de %s registrado en \"%s\". Llevas %s de %s.",
		amount.StringFixed(2), goal.Name, goal.CurrentAmount.StringFixed(2), goal.TargetAmount.StringFixed(2))
}

func formatSavedTransaction(t *model.Transaction) string {
	kind := "Gasto"
	if t.Type == model.TransactionIncome {
		kind = "Ingreso"
	}
	return fmt.Sprintf("✅ %s de %s registrado el %s.", kind, t.Amount.StringFixed(2), t.Date)
}

func formatReport(r *service.MonthlyReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📄 Reporte %s\n\n", r.Month.Format("2006-01"))
	fmt.Fprintf(&sb, "💰 Ingresos: %s\n", money(r.Summary.Income, r.Currency))
	fmt.Fprintf(&sb, "💸 Gastos: %s\n", money(r.Summary.Expenses, r.Currency))
	fmt.Fprintf(&sb, "💵 Balance: %s\n", money(r.Summary.Balance, r.Currency))
	fmt.Fprintf(&sb, "Movimientos: %d\n", r.Summary.TransactionCount)
	if len(r.TopCategories) > 0 {
		sb.WriteString("\nPrincipales categorías:\n")
		for i, c := range r.TopCategories {
			fmt.Fprintf(&sb, "%d. %s: %s\n", i+1, c.Name, money(c.Amount, r.Currency))
		}
	}
	writeDegraded(&sb, r.Degraded)
	return sb.String()
}
