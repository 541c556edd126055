// Package metrics содержит чистые функции расчета финансовых показателей:
// суммы по транзакциям, использование бюджетов, планы накоплений,
// нормализацию дохода и разбивку расходов по категориям.
//
// Пакет не обращается к хранилищу и не читает системное время:
// текущая дата всегда передается явно.
package metrics

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ivanoskov/bc-money/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Predicate отбирает транзакции для суммирования
type Predicate func(model.Transaction) bool

// OfType отбирает транзакции заданного типа
func OfType(t model.TransactionType) Predicate {
	return func(tx model.Transaction) bool {
		return tx.Type == t
	}
}

// InCategory отбирает транзакции категории; nil означает транзакции без категории
func InCategory(categoryID *string) Predicate {
	if categoryID == nil || *categoryID == "" {
		return func(tx model.Transaction) bool {
			return tx.Uncategorized()
		}
	}
	id := *categoryID
	return func(tx model.Transaction) bool {
		return !tx.Uncategorized() && *tx.CategoryID == id
	}
}

// Between отбирает транзакции в интервале дат включительно; нулевая граница не ограничивает
func Between(from, to model.Date) Predicate {
	return func(tx model.Transaction) bool {
		if !from.IsZero() && tx.Date.Before(from) {
			return false
		}
		if !to.IsZero() && tx.Date.After(to) {
			return false
		}
		return true
	}
}

// And объединяет условия
func And(preds ...Predicate) Predicate {
	return func(tx model.Transaction) bool {
		for _, p := range preds {
			if !p(tx) {
				return false
			}
		}
		return true
	}
}

// Sum складывает суммы транзакций, удовлетворяющих всем условиям.
// Пустой вход дает ноль.
func Sum(transactions []model.Transaction, preds ...Predicate) decimal.Decimal {
	match := And(preds...)
	total := decimal.Zero
	for _, tx := range transactions {
		if match(tx) {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

func Income(transactions []model.Transaction) decimal.Decimal {
	return Sum(transactions, OfType(model.TransactionIncome))
}

func Expenses(transactions []model.Transaction) decimal.Decimal {
	return Sum(transactions, OfType(model.TransactionExpense))
}

func Balance(transactions []model.Transaction) decimal.Decimal {
	return Income(transactions).Sub(Expenses(transactions))
}

// SavingsRate доля сбережений в процентах; при нулевом доходе равна нулю
func SavingsRate(income, expenses decimal.Decimal) decimal.Decimal {
	if !income.IsPositive() {
		return decimal.Zero
	}
	return income.Sub(expenses).Mul(hundred).Div(income)
}

// Summary сводка по набору транзакций
type Summary struct {
	Income           decimal.Decimal `json:"income"`
	Expenses         decimal.Decimal `json:"expenses"`
	Balance          decimal.Decimal `json:"balance"`
	SavingsRate      decimal.Decimal `json:"savings_rate"`
	TransactionCount int             `json:"transaction_count"`
}

func Summarize(transactions []model.Transaction) Summary {
	income := Income(transactions)
	expenses := Expenses(transactions)
	return Summary{
		Income:           income,
		Expenses:         expenses,
		Balance:          income.Sub(expenses),
		SavingsRate:      SavingsRate(income, expenses),
		TransactionCount: len(transactions),
	}
}

// WeekBucket расходы за семидневное окно [Start, Start+7)
type WeekBucket struct {
	Label    string          `json:"label"`
	Start    model.Date      `json:"start"`
	Expenses decimal.Decimal `json:"expenses"`
}

// WeeklyExpenses строит тренд расходов за последние weeks недель.
// Последнее окно начинается в today.
func WeeklyExpenses(transactions []model.Transaction, today model.Date, weeks int) []WeekBucket {
	if weeks <= 0 {
		return nil
	}
	buckets := make([]WeekBucket, weeks)
	for i := range buckets {
		start := today.AddDays(-(weeks - 1 - i) * 7)
		buckets[i] = WeekBucket{
			Label:    fmt.Sprintf("Sem %d", i+1),
			Start:    start,
			Expenses: Sum(transactions, OfType(model.TransactionExpense), Between(start, start.AddDays(6))),
		}
	}
	return buckets
}
