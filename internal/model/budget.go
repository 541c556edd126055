package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type BudgetPeriod string

const (
	PeriodWeekly  BudgetPeriod = "weekly"
	PeriodMonthly BudgetPeriod = "monthly"
	PeriodYearly  BudgetPeriod = "yearly"
)

// Budget лимит расходов на период; CategoryID == nil означает расходы без категории
type Budget struct {
	ID         string          `json:"id,omitempty"`
	UserID     string          `json:"user_id"`
	CategoryID *string         `json:"category_id"`
	Amount     decimal.Decimal `json:"amount"`
	Period     BudgetPeriod    `json:"period"`
}

// Window возвращает границы периода бюджета, содержащего день today
func (b Budget) Window(today Date) (Date, Date) {
	switch b.Period {
	case PeriodWeekly:
		// неделя с понедельника
		offset := (int(today.Weekday()) + 6) % 7
		start := today.AddDays(-offset)
		return start, start.AddDays(6)
	case PeriodYearly:
		return NewDate(today.Year(), time.January, 1), NewDate(today.Year(), time.December, 31)
	default:
		return today.StartOfMonth(), today.EndOfMonth()
	}
}
