package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/ivanoskov/bc-money/internal/model"
)

// Status уровень использования бюджета
type Status string

const (
	StatusSuccess Status = "success"
	StatusWarning Status = "warning"
	StatusDanger  Status = "danger"
	// StatusMisconfigured бюджет с неположительным лимитом, процент не определен
	StatusMisconfigured Status = "misconfigured"
)

var (
	warningThreshold = decimal.NewFromInt(80)
	dangerThreshold  = decimal.NewFromInt(100)
)

// BudgetUsage результат оценки одного бюджета.
// Percentage.Valid == false, если лимит бюджета не положителен.
type BudgetUsage struct {
	Budget     model.Budget        `json:"budget"`
	Spent      decimal.Decimal     `json:"spent"`
	Percentage decimal.NullDecimal `json:"percentage"`
	Status     Status              `json:"status"`
	Remaining  decimal.Decimal     `json:"remaining"`
}

// ClassifyUsage: до 80% включительно success, до 100% включительно warning, выше danger
func ClassifyUsage(percentage decimal.Decimal) Status {
	switch {
	case percentage.LessThanOrEqual(warningThreshold):
		return StatusSuccess
	case percentage.LessThanOrEqual(dangerThreshold):
		return StatusWarning
	default:
		return StatusDanger
	}
}

// EvaluateBudget считает расходы по категории бюджета. Транзакции должны быть
// заранее отфильтрованы по периоду бюджета.
func EvaluateBudget(budget model.Budget, transactions []model.Transaction) BudgetUsage {
	spent := Sum(transactions, OfType(model.TransactionExpense), InCategory(budget.CategoryID))
	usage := BudgetUsage{
		Budget:    budget,
		Spent:     spent,
		Remaining: budget.Amount.Sub(spent),
	}
	if !budget.Amount.IsPositive() {
		usage.Status = StatusMisconfigured
		return usage
	}
	pct := spent.Mul(hundred).Div(budget.Amount)
	usage.Percentage = decimal.NewNullDecimal(pct)
	usage.Status = ClassifyUsage(pct)
	return usage
}

// EvaluateBudgets оценивает все бюджеты по одному набору транзакций
func EvaluateBudgets(budgets []model.Budget, transactions []model.Transaction) []BudgetUsage {
	usages := make([]BudgetUsage, 0, len(budgets))
	for _, b := range budgets {
		usages = append(usages, EvaluateBudget(b, transactions))
	}
	return usages
}

// OverallUsage простое среднее процентов по бюджетам, без учета их размера.
// Бюджеты без определенного процента пропускаются; если таких нет, результат невалиден.
func OverallUsage(usages []BudgetUsage) decimal.NullDecimal {
	total := decimal.Zero
	count := 0
	for _, u := range usages {
		if !u.Percentage.Valid {
			continue
		}
		total = total.Add(u.Percentage.Decimal)
		count++
	}
	if count == 0 {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(total.Div(decimal.NewFromInt(int64(count))))
}

// Totals сводка страницы бюджетов: общий лимит, общие расходы и их отношение
type Totals struct {
	Budgeted   decimal.Decimal `json:"budgeted"`
	Spent      decimal.Decimal `json:"spent"`
	Percentage decimal.Decimal `json:"percentage"`
	Status     Status          `json:"status"`
}

// BudgetTotals взвешенная по сумме сводка; при нулевом общем лимите процент равен нулю
func BudgetTotals(usages []BudgetUsage) Totals {
	t := Totals{Budgeted: decimal.Zero, Spent: decimal.Zero, Percentage: decimal.Zero}
	for _, u := range usages {
		t.Budgeted = t.Budgeted.Add(u.Budget.Amount)
		t.Spent = t.Spent.Add(u.Spent)
	}
	if t.Budgeted.IsPositive() {
		t.Percentage = t.Spent.Mul(hundred).Div(t.Budgeted)
	}
	t.Status = ClassifyUsage(t.Percentage)
	return t
}
