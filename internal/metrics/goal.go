package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ivanoskov/bc-money/internal/model"
)

var (
	ErrTargetDateNotFuture = errors.New("la fecha objetivo debe ser futura")
	ErrInvalidContribution = errors.New("contribution must be positive")
)

var (
	daysPerMonth    = decimal.NewFromInt(30)
	daysPerWeek     = decimal.NewFromInt(7)
	minPlanMonths   = decimal.RequireFromString("0.5")
	minTargetMonths = decimal.NewFromInt(1)
)

// Outcome вариант результата расчета плана накоплений
type Outcome int

const (
	OutcomeError Outcome = iota
	OutcomeCompleted
	OutcomePlan
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomePlan:
		return "plan"
	default:
		return "error"
	}
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "completed":
		*o = OutcomeCompleted
	case "plan":
		*o = OutcomePlan
	case "error":
		*o = OutcomeError
	default:
		return fmt.Errorf("unknown plan outcome %q", text)
	}
	return nil
}

// SavingsPlan план взносов до целевой даты. Поля плана заполнены только для OutcomePlan.
type SavingsPlan struct {
	Outcome   Outcome         `json:"outcome"`
	Err       error           `json:"-"`
	Error     string          `json:"error,omitempty"`
	Days      int             `json:"days,omitempty"`
	Months    decimal.Decimal `json:"months"`
	Remaining decimal.Decimal `json:"remaining"`
	Monthly   decimal.Decimal `json:"monthly"`
	Weekly    decimal.Decimal `json:"weekly"`
}

// ProjectSavingsPlan рассчитывает ежемесячный и еженедельный взнос.
// Месяц считается равным 30 дням; для ежемесячного взноса срок не меньше полумесяца.
func ProjectSavingsPlan(target, current decimal.Decimal, targetDate, today model.Date) SavingsPlan {
	days := today.DaysUntil(targetDate)
	if days <= 0 {
		return SavingsPlan{Outcome: OutcomeError, Err: ErrTargetDateNotFuture, Error: ErrTargetDateNotFuture.Error()}
	}
	remaining := target.Sub(current)
	if !remaining.IsPositive() {
		return SavingsPlan{Outcome: OutcomeCompleted}
	}

	d := decimal.NewFromInt(int64(days))
	months := d.Div(daysPerMonth)
	// remaining / max(days/30, 0.5) без промежуточного округления days/30
	var monthly decimal.Decimal
	if months.LessThan(minPlanMonths) {
		monthly = remaining.Div(minPlanMonths)
	} else {
		monthly = remaining.Mul(daysPerMonth).Div(d)
	}

	return SavingsPlan{
		Outcome:   OutcomePlan,
		Days:      days,
		Months:    months,
		Remaining: remaining,
		Monthly:   monthly,
		Weekly:    remaining.Mul(daysPerWeek).Div(d),
	}
}

// ProjectGoal строит план для цели; цели без целевой даты плана не имеют
func ProjectGoal(goal model.Goal, today model.Date) (SavingsPlan, bool) {
	if goal.TargetDate == nil || goal.TargetDate.IsZero() {
		return SavingsPlan{}, false
	}
	return ProjectSavingsPlan(goal.TargetAmount, goal.CurrentAmount, *goal.TargetDate, today), true
}

// DeriveTargetAmount размер цели, заданной процентом месячного чистого дохода.
// Процент откладывается каждый месяц до целевой даты, минимум один месяц.
func DeriveTargetAmount(monthlyNet, percentage decimal.Decimal, targetDate *model.Date, today model.Date) decimal.Decimal {
	months := minTargetMonths
	if targetDate != nil && !targetDate.IsZero() {
		months = decimal.Max(decimal.NewFromInt(int64(today.DaysUntil(*targetDate))).Div(daysPerMonth), minTargetMonths)
	}
	return monthlyNet.Mul(percentage).Div(hundred).Mul(months)
}

// GoalProgress процент выполнения цели
func GoalProgress(goal model.Goal) decimal.Decimal {
	if !goal.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	return goal.CurrentAmount.Mul(hundred).Div(goal.TargetAmount)
}

// ApplyContribution добавляет взнос. Только активная цель, достигшая суммы,
// переходит в completed с отметкой времени now; paused и cancelled меняет пользователь.
func ApplyContribution(goal model.Goal, amount decimal.Decimal, now time.Time) (model.Goal, error) {
	if !amount.IsPositive() {
		return goal, ErrInvalidContribution
	}
	goal.CurrentAmount = goal.CurrentAmount.Add(amount)
	if goal.Status == model.GoalActive && goal.CurrentAmount.GreaterThanOrEqual(goal.TargetAmount) {
		completedAt := now
		goal.Status = model.GoalCompleted
		goal.CompletedAt = &completedAt
	}
	return goal, nil
}

// ApplyTargetChange меняет целевую сумму. Завершенная цель, чья новая сумма
// больше накопленной, возвращается в active.
func ApplyTargetChange(goal model.Goal, target decimal.Decimal) model.Goal {
	goal.TargetAmount = target
	if goal.Status == model.GoalCompleted && goal.CurrentAmount.LessThan(target) {
		goal.Status = model.GoalActive
		goal.CompletedAt = nil
	}
	return goal
}
